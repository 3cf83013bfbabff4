// Package sqlite provides a SQLite-backed persistent tier for dex records.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"pokebattle-mcp/internal/dex"
	"pokebattle-mcp/internal/dex/sqlite/migrations"
	"pokebattle-mcp/internal/platform/storage/sqlitemigrate"
)

// Store persists resolved dex records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite dex store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetPokemon loads one species record by normalized key.
func (s *Store) GetPokemon(ctx context.Context, key string) (dex.Pokemon, bool, error) {
	if err := ctx.Err(); err != nil {
		return dex.Pokemon{}, false, err
	}
	var (
		p         dex.Pokemon
		statsJSON string
		typesJSON string
		movesJSON string
	)
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT name, stats, max_hp, types, moves FROM dex_pokemon WHERE key = ?", key)
	err := row.Scan(&p.Name, &statsJSON, &p.MaxHP, &typesJSON, &movesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return dex.Pokemon{}, false, nil
	}
	if err != nil {
		return dex.Pokemon{}, false, fmt.Errorf("select pokemon: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &p.Stats); err != nil {
		return dex.Pokemon{}, false, fmt.Errorf("decode stats: %w", err)
	}
	if err := json.Unmarshal([]byte(typesJSON), &p.Types); err != nil {
		return dex.Pokemon{}, false, fmt.Errorf("decode types: %w", err)
	}
	if err := json.Unmarshal([]byte(movesJSON), &p.Moves); err != nil {
		return dex.Pokemon{}, false, fmt.Errorf("decode moves: %w", err)
	}
	return p, true, nil
}

// PutPokemon upserts one species record.
func (s *Store) PutPokemon(ctx context.Context, key string, p dex.Pokemon) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	statsJSON, err := json.Marshal(p.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	typesJSON, err := json.Marshal(p.Types)
	if err != nil {
		return fmt.Errorf("encode types: %w", err)
	}
	movesJSON, err := json.Marshal(p.Moves)
	if err != nil {
		return fmt.Errorf("encode moves: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO dex_pokemon (key, name, stats, max_hp, types, moves, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    name = excluded.name,
    stats = excluded.stats,
    max_hp = excluded.max_hp,
    types = excluded.types,
    moves = excluded.moves`,
		key, p.Name, string(statsJSON), p.MaxHP, string(typesJSON), string(movesJSON),
		time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert pokemon: %w", err)
	}
	return nil
}

// GetMove loads one move record by normalized key.
func (s *Store) GetMove(ctx context.Context, key string) (dex.Move, bool, error) {
	if err := ctx.Err(); err != nil {
		return dex.Move{}, false, err
	}
	var (
		m        dex.Move
		power    sql.NullInt64
		accuracy sql.NullInt64
	)
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT name, power, accuracy, type, damage_class, ailment, ailment_chance FROM dex_moves WHERE key = ?", key)
	err := row.Scan(&m.Name, &power, &accuracy, &m.Type, &m.DamageClass, &m.Ailment, &m.AilmentChance)
	if errors.Is(err, sql.ErrNoRows) {
		return dex.Move{}, false, nil
	}
	if err != nil {
		return dex.Move{}, false, fmt.Errorf("select move: %w", err)
	}
	if power.Valid {
		value := int(power.Int64)
		m.Power = &value
	}
	if accuracy.Valid {
		value := int(accuracy.Int64)
		m.Accuracy = &value
	}
	return m, true, nil
}

// PutMove upserts one move record.
func (s *Store) PutMove(ctx context.Context, key string, m dex.Move) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var power, accuracy sql.NullInt64
	if m.Power != nil {
		power = sql.NullInt64{Int64: int64(*m.Power), Valid: true}
	}
	if m.Accuracy != nil {
		accuracy = sql.NullInt64{Int64: int64(*m.Accuracy), Valid: true}
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO dex_moves (key, name, power, accuracy, type, damage_class, ailment, ailment_chance, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    name = excluded.name,
    power = excluded.power,
    accuracy = excluded.accuracy,
    type = excluded.type,
    damage_class = excluded.damage_class,
    ailment = excluded.ailment,
    ailment_chance = excluded.ailment_chance`,
		key, m.Name, power, accuracy, m.Type, m.DamageClass, m.Ailment, m.AilmentChance,
		time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert move: %w", err)
	}
	return nil
}
