package buildinfo

import (
    "fmt"
    "runtime"
)

// Set with -ldflags "-X airassign/internal/buildinfo.Version=..."
var (
    Version = "dev"
    Commit  = ""
    BuiltAt = ""
)

func Info() map[string]string {
    return map[string]string{
        "version": Version,
        "commit":  Commit,
        "builtAt": BuiltAt,
        "go":      runtime.Version(),
    }
}

// String is the one-line form printed by `assign version`.
func String() string {
    s := "assign " + Version
    if Commit != "" { s += " (" + Commit + ")" }
    if BuiltAt != "" { s += " built " + BuiltAt }
    return fmt.Sprintf("%s %s/%s %s", s, runtime.GOOS, runtime.GOARCH, runtime.Version())
}
