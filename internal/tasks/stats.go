package tasks

import (
    "context"
    "fmt"
)

// TaskStats represents aggregate counts over the todos table.
type TaskStats struct {
    Total     int
    Completed int
    Pending   int
}

func (st TaskStats) String() string {
    return fmt.Sprintf("%d tasks • %d done • %d pending", st.Total, st.Completed, st.Pending)
}

// Stats counts tasks by completion state in a single read.
func (s *Store) Stats(ctx context.Context) (TaskStats, error) {
    var st TaskStats
    err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) FROM todos`).
        Scan(&st.Total, &st.Completed)
    if err != nil { return TaskStats{}, queryErr("stats", err) }
    st.Pending = st.Total - st.Completed
    return st, nil
}

// StatsFromList computes the same counts from an in-memory slice.
func StatsFromList(list []Task) TaskStats {
    st := TaskStats{Total: len(list)}
    for _, t := range list {
        if t.Completed { st.Completed++ }
    }
    st.Pending = st.Total - st.Completed
    return st
}
