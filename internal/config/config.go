// Package config loads service and CLI settings from an optional YAML file,
// then applies environment overrides.
package config

import (
    "errors"
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"

    "airassign/internal/dataset"
    "airassign/internal/mip"
)

type Solver struct {
    Backend   string        `yaml:"backend"`
    TimeLimit time.Duration `yaml:"time_limit"`
    MIPGap    float64       `yaml:"mip_gap"`
    Threads   int           `yaml:"threads"`
    Output    bool          `yaml:"output"`
    Verify    bool          `yaml:"verify"`
}

type Config struct {
    Port        string        `yaml:"port"`
    DataDir     string        `yaml:"data_dir"`
    Files       dataset.Files `yaml:"files"`
    Solver      Solver        `yaml:"solver"`
    RedisURL    string        `yaml:"redis_url"`
    DatabaseURL string        `yaml:"database_url"`
    DBMigrate   bool          `yaml:"db_migrate"`
    RateRPS     float64       `yaml:"rate_rps"`
    RateBurst   int           `yaml:"rate_burst"`
    MaxRuns     int           `yaml:"max_runs"`
}

func Default() Config {
    return Config{
        Port:      "8080",
        DataDir:   "data",
        Files:     dataset.DefaultFiles,
        Solver:    Solver{Backend: mip.BackendHiGHS, TimeLimit: 60 * time.Second},
        DBMigrate: true,
        RateRPS:   5,
        RateBurst: 10,
        MaxRuns:   500,
    }
}

// Load reads path (skipped when empty) over the defaults, then the environment.
func Load(path string) (Config, error) {
    c := Default()
    if strings.TrimSpace(path) != "" {
        data, err := os.ReadFile(path)
        if err != nil {
            return c, fmt.Errorf("config: %w", err)
        }
        if err := yaml.Unmarshal(data, &c); err != nil {
            return c, fmt.Errorf("config: %s: %w", path, err)
        }
    }
    if err := c.applyEnv(os.Getenv); err != nil {
        return c, err
    }
    if err := c.Validate(); err != nil {
        return c, err
    }
    return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
    str := func(key string, dst *string) {
        if v := strings.TrimSpace(getenv(key)); v != "" { *dst = v }
    }
    str("PORT", &c.Port)
    str("DATA_DIR", &c.DataDir)
    str("SOLVER_BACKEND", &c.Solver.Backend)
    str("REDIS_URL", &c.RedisURL)
    str("DATABASE_URL", &c.DatabaseURL)
    if v := getenv("DB_MIGRATE"); v != "" {
        c.DBMigrate = v != "false"
    }
    if v := getenv("SOLVER_TIME_LIMIT"); v != "" {
        d, err := time.ParseDuration(v)
        if err != nil {
            return fmt.Errorf("config: SOLVER_TIME_LIMIT: %w", err)
        }
        c.Solver.TimeLimit = d
    }
    if v := getenv("RATE_RPS"); v != "" {
        f, err := strconv.ParseFloat(v, 64)
        if err != nil {
            return fmt.Errorf("config: RATE_RPS: %w", err)
        }
        c.RateRPS = f
    }
    if v := getenv("RATE_BURST"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil {
            return fmt.Errorf("config: RATE_BURST: %w", err)
        }
        c.RateBurst = n
    }
    return nil
}

func (c Config) Validate() error {
    var errs []error
    if _, err := mip.New(c.Solver.Backend, mip.Options{}); err != nil {
        errs = append(errs, err)
    }
    if c.Solver.TimeLimit < 0 {
        errs = append(errs, errors.New("solver.time_limit must be >= 0"))
    }
    if c.Solver.MIPGap < 0 {
        errs = append(errs, errors.New("solver.mip_gap must be >= 0"))
    }
    if c.RateRPS < 0 || c.RateBurst < 0 {
        errs = append(errs, errors.New("rate limits must be >= 0"))
    }
    if c.MaxRuns <= 0 {
        errs = append(errs, errors.New("max_runs must be > 0"))
    }
    if len(errs) > 0 {
        return fmt.Errorf("config: %w", errors.Join(errs...))
    }
    return nil
}

// SolverOptions maps the solver section onto backend options.
func (c Config) SolverOptions() mip.Options {
    return mip.Options{TimeLimit: c.Solver.TimeLimit, MIPRelGap: c.Solver.MIPGap, Threads: c.Solver.Threads, Output: c.Solver.Output}
}

// NewSolver builds the configured backend.
func (c Config) NewSolver() (mip.Solver, error) {
    return mip.New(c.Solver.Backend, c.SolverOptions())
}
