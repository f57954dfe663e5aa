package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "todo-tui"

type Config struct {
    DatabasePath string `json:"databasePath"` // bare path, sqlite:// URI, file: URI or :memory:
    HooksDir     string `json:"hooksDir"`
    ExportDir    string `json:"exportDir"`    // default export destination directory
    Debug        bool   `json:"debug"`
}

func Default() Config {
    return Config{
        DatabasePath: "todo.db",
        HooksDir:     filepath.Join(UserHome(), ".config", appName, "hooks"),
        // CWD by default; app will fallback to "." when empty
        ExportDir:    "",
        Debug:        false,
    }
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
    return filepath.Join(UserHome(), ".config", appName, "config.json")
}

// Load reads the JSON file at path over out. Fields left empty in the file
// keep the values already present in out.
func Load(path string, out *Config) error {
    b, err := os.ReadFile(path)
    if err != nil {
        return err
    }
    var c Config
    if err := json.Unmarshal(b, &c); err != nil {
        return err
    }
    if c.DatabasePath == "" {
        c.DatabasePath = out.DatabasePath
    }
    if c.HooksDir == "" {
        c.HooksDir = out.HooksDir
    }
    if c.ExportDir == "" {
        c.ExportDir = out.ExportDir
    }
    *out = c
    return nil
}

func Save(path string, c Config) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return err
    }
    b, err := json.MarshalIndent(c, "", "  ")
    if err != nil {
        return err
    }
    return os.WriteFile(path, b, 0o644)
}

func UserHome() string {
    if h, err := os.UserHomeDir(); err == nil {
        return h
    }
    if runtime.GOOS == "windows" {
        if h := os.Getenv("USERPROFILE"); h != "" {
            return h
        }
    }
    return "."
}

func EnsureDir(path string) error {
    if path == "" {
        return errors.New("empty path")
    }
    return os.MkdirAll(path, 0o755)
}
