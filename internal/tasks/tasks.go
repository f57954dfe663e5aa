package tasks

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Task struct {
    ID          string    `json:"id"`
    Title       string    `json:"title"`
    Description string    `json:"description,omitempty"` // empty means absent; stored as NULL
    Completed   bool      `json:"completed"`
    CreatedAt   time.Time `json:"createdAt"`
    UpdatedAt   time.Time `json:"updatedAt"`
}

// Filter selects which tasks a listing returns.
type Filter int

const (
    FilterAll Filter = iota
    FilterCompleted
    FilterPending
)

func (f Filter) String() string {
    switch f {
    case FilterAll:
        return "All"
    case FilterCompleted:
        return "Completed"
    case FilterPending:
        return "Pending"
    }
    return "Unknown"
}

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

// New builds a pending task with a fresh id. Callers are responsible for
// rejecting empty titles.
func New(title, description string) Task {
    ts := now()
    return Task{
        ID:          uuid.NewString(),
        Title:       title,
        Description: description,
        CreatedAt:   ts,
        UpdatedAt:   ts,
    }
}

func (t *Task) Complete() {
    t.Completed = true
    t.touch()
}

func (t *Task) Uncomplete() {
    t.Completed = false
    t.touch()
}

// Toggle flips the completion flag and reports the new state.
func (t *Task) Toggle() bool {
    if t.Completed { t.Uncomplete() } else { t.Complete() }
    return t.Completed
}

// Edit replaces the title and/or description. Nil leaves a field unchanged.
func (t *Task) Edit(title, description *string) {
    if title != nil { t.Title = strings.TrimSpace(*title) }
    if description != nil { t.Description = *description }
    t.touch()
}

// touch refreshes UpdatedAt, keeping it strictly increasing even when the
// clock has not advanced since the previous mutation.
func (t *Task) touch() {
    ts := now()
    if !ts.After(t.UpdatedAt) {
        ts = t.UpdatedAt.Add(time.Nanosecond)
    }
    t.UpdatedAt = ts
}

// Status returns the glyph used for list rows.
func (t Task) Status() string {
    if t.Completed { return "✓" }
    return "○"
}
