package store

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    _ "github.com/jackc/pgx/v5/stdlib"

    "airassign/internal/dataset"
    "airassign/internal/model"
)

// Postgres reads datasets from four tables keyed by dataset name.
type Postgres struct {
    db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    name       text PRIMARY KEY,
    created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS aircraft (
    dataset      text NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
    id           int  NOT NULL,
    availability int  NOT NULL CHECK (availability >= 0),
    PRIMARY KEY (dataset, id)
);
CREATE TABLE IF NOT EXISTS routes (
    dataset text NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
    id      int  NOT NULL,
    demand  int  NOT NULL CHECK (demand >= 0),
    PRIMARY KEY (dataset, id)
);
CREATE TABLE IF NOT EXISTS pairs (
    dataset    text NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
    aircraft   int  NOT NULL,
    route      int  NOT NULL,
    capability int  NOT NULL CHECK (capability >= 0),
    cost       int  NOT NULL CHECK (cost >= 0),
    PRIMARY KEY (dataset, aircraft, route)
);`

func NewPostgres(dsn string) (*Postgres, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil {
        return nil, err
    }
    if err := db.Ping(); err != nil {
        return nil, err
    }
    return &Postgres{db: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *Postgres) Close() error { return p.db.Close() }

// Migrate creates the dataset tables when missing.
func (p *Postgres) Migrate(ctx context.Context) error {
    _, err := p.db.ExecContext(ctx, schema)
    return err
}

func (p *Postgres) Names(ctx context.Context) ([]string, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT name FROM datasets ORDER BY name`)
    if err != nil { return nil, err }
    defer rows.Close()
    names := []string{}
    for rows.Next() {
        var n string
        if err := rows.Scan(&n); err != nil { return nil, err }
        names = append(names, n)
    }
    return names, rows.Err()
}

func (p *Postgres) Dataset(ctx context.Context, name string) (*model.Dataset, error) {
    var exists string
    err := p.db.QueryRowContext(ctx, `SELECT name FROM datasets WHERE name=$1`, name).Scan(&exists)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, fmt.Errorf("dataset %q: %w", name, ErrNotFound)
    }
    if err != nil { return nil, err }

    ds := model.NewDataset(name)
    if ds.Aircraft, err = p.column(ctx, `SELECT id, availability FROM aircraft WHERE dataset=$1 ORDER BY id`, name, ds.Availability); err != nil {
        return nil, fmt.Errorf("dataset %q aircraft: %w", name, err)
    }
    if ds.Routes, err = p.column(ctx, `SELECT id, demand FROM routes WHERE dataset=$1 ORDER BY id`, name, ds.Demand); err != nil {
        return nil, fmt.Errorf("dataset %q routes: %w", name, err)
    }
    rows, err := p.db.QueryContext(ctx, `SELECT aircraft, route, capability, cost FROM pairs WHERE dataset=$1`, name)
    if err != nil { return nil, fmt.Errorf("dataset %q pairs: %w", name, err) }
    defer rows.Close()
    for rows.Next() {
        var pr model.Pair
        var capacity, cost int
        if err := rows.Scan(&pr.Aircraft, &pr.Route, &capacity, &cost); err != nil { return nil, err }
        ds.Capability[pr] = capacity
        ds.Cost[pr] = cost
    }
    if err := rows.Err(); err != nil { return nil, err }
    if err := dataset.Validate(ds); err != nil {
        return nil, err
    }
    return ds, nil
}

func (p *Postgres) column(ctx context.Context, q, name string, into map[int]int) ([]int, error) {
    rows, err := p.db.QueryContext(ctx, q, name)
    if err != nil { return nil, err }
    defer rows.Close()
    var ids []int
    for rows.Next() {
        var id, v int
        if err := rows.Scan(&id, &v); err != nil { return nil, err }
        ids = append(ids, id)
        into[id] = v
    }
    return ids, rows.Err()
}

// SaveDataset replaces the named dataset in one transaction.
func (p *Postgres) SaveDataset(ctx context.Context, ds *model.Dataset) error {
    if err := dataset.Validate(ds); err != nil { return err }
    tx, err := p.db.BeginTx(ctx, nil)
    if err != nil { return err }
    defer func(){ _ = tx.Rollback() }()

    if _, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name=$1`, ds.Name); err != nil { return err }
    if _, err := tx.ExecContext(ctx, `INSERT INTO datasets (name) VALUES ($1)`, ds.Name); err != nil { return err }
    for _, a := range ds.Aircraft {
        if _, err := tx.ExecContext(ctx, `INSERT INTO aircraft (dataset, id, availability) VALUES ($1,$2,$3)`, ds.Name, a, ds.Availability[a]); err != nil { return err }
    }
    for _, r := range ds.Routes {
        if _, err := tx.ExecContext(ctx, `INSERT INTO routes (dataset, id, demand) VALUES ($1,$2,$3)`, ds.Name, r, ds.Demand[r]); err != nil { return err }
    }
    for _, pr := range ds.Pairs() {
        if _, err := tx.ExecContext(ctx, `INSERT INTO pairs (dataset, aircraft, route, capability, cost) VALUES ($1,$2,$3,$4,$5)`,
            ds.Name, pr.Aircraft, pr.Route, ds.Capability[pr], ds.Cost[pr]); err != nil { return err }
    }
    return tx.Commit()
}
