package version

// Build metadata, injected with
//   -ldflags "-X todo-tui/internal/version.Version=v1.2.0 -X todo-tui/internal/version.Commit=$(git rev-parse --short HEAD)"
var (
    Version = "dev"
    Commit  = ""
    // Date is the build timestamp in RFC3339.
    Date    = ""
)

// String renders "<version>[+commit] [(date)]" for --version output.
func String() string {
    s := Version
    if Commit != "" { s += "+" + Commit }
    if Date != "" { s += " (" + Date + ")" }
    return s
}
