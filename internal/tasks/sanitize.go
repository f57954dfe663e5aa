package tasks

import (
    "strings"
    "unicode/utf8"
)

// CleanOneLine converts input to a single line, removing fenced code blocks (``` … ```).
// If the result exceeds maxLen runes, it is truncated. It returns the cleaned
// text, and booleans indicating whether content was changed/removed and whether
// it was truncated.
func CleanOneLine(s string, maxLen int) (string, bool, bool) {
    orig := s
    changed := false

    for {
        i := strings.Index(s, "```")
        if i < 0 { break }
        j := strings.Index(s[i+3:], "```")
        if j < 0 { // opening without closing → drop the rest
            s = s[:i]
            changed = true
            break
        }
        s = s[:i] + s[i+3+j+3:]
        changed = true
    }

    if !utf8.ValidString(s) {
        s = strings.ToValidUTF8(s, "�")
    }

    // Collapse to one line
    s = strings.ReplaceAll(s, "\r", " ")
    s = strings.ReplaceAll(s, "\n", " ")
    s = strings.TrimSpace(strings.Join(strings.Fields(s), " "))

    truncated := false
    if maxLen > 0 {
        sRunes := []rune(s)
        if len(sRunes) > maxLen {
            s = string(sRunes[:maxLen]) + "…"
            truncated = true
        }
    }

    if s != orig { changed = true }
    return s, changed, truncated
}
