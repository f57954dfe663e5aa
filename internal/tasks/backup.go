package tasks

import (
    "fmt"
    "log"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"
)

// BackupInfo describes a found backup file for the database.
type BackupInfo struct {
    Path    string
    Suffix  string
    ModTime time.Time
    Size    int64
}

// BackupSuffix is the timestamp suffix used for new backups.
func BackupSuffix(t time.Time) string { return t.Format("20060102-150405.000") }

func backupPath(dbPath, suffix string) string { return dbPath + ".bak-" + suffix }

// ListBackups returns all <db>.bak-* files sorted by ModTime desc.
func ListBackups(dbPath string) ([]BackupInfo, error) {
    dir := filepath.Dir(dbPath)
    prefix := filepath.Base(dbPath) + ".bak-"
    entries, err := os.ReadDir(dir)
    if err != nil { return nil, err }
    var out []BackupInfo
    for _, e := range entries {
        name := e.Name()
        if !e.Type().IsRegular() { continue }
        if !strings.HasPrefix(name, prefix) { continue }
        info, err := e.Info(); if err != nil { continue }
        out = append(out, BackupInfo{
            Path: filepath.Join(dir, name),
            Suffix: strings.TrimPrefix(name, prefix),
            ModTime: info.ModTime(),
            Size: info.Size(),
        })
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })
    return out, nil
}

// RestoreFromBackup replaces the database file with the backup carrying the
// given suffix. The database must not be open while restoring.
func RestoreFromBackup(dbPath, suffix string, debug bool) error {
    src := backupPath(dbPath, suffix)
    if _, err := os.Stat(src); err != nil { return fmt.Errorf("backup not found: %s", src) }
    if err := copyFile(src, dbPath); err != nil { return fmt.Errorf("restore: %w", err) }
    // stale WAL pages from the replaced database must not be replayed
    for _, side := range []string{"-wal", "-shm"} {
        if err := os.Remove(dbPath + side); err != nil && !os.IsNotExist(err) {
            return fmt.Errorf("remove %s: %w", dbPath+side, err)
        }
    }
    if debug { log.Printf("[restore] restored %s from suffix %s", dbPath, suffix) }
    return nil
}

func copyFile(src, dst string) error {
    b, err := os.ReadFile(src)
    if err != nil { return err }
    tmp := dst + ".tmp-" + time.Now().Format("20060102-150405")
    if err := os.WriteFile(tmp, b, 0o600); err != nil { return err }
    return os.Rename(tmp, dst)
}
