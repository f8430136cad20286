// Package sqlite is the embedded document store used for offline work and tests.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shabadpapers/shabad-api/internal/models"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Register the "sqlite" driver
)

const storeName = "sqlite"

//go:embed schema.sql
var schemaSQL string

//go:embed seed.sql
var seedSQL string

// Store is a document store on a local SQLite database
type Store struct {
	db *sql.DB
}

// Open opens the database at dsn and applies the schema. Use
// "file::memory:" style DSNs for throwaway stores.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one connection keeps in-memory databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	logger.Info("SQLite document store opened", zap.String("dsn", dsn))
	return &Store{db: db}, nil
}

// Seed loads the default form definition and the sample catalog.
// Existing rows are kept.
func (s *Store) Seed(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, seedSQL); err != nil {
		return fmt.Errorf("failed to seed sqlite store: %w", err)
	}
	return nil
}

// Name identifies the store in logs and metrics
func (s *Store) Name() string {
	return storeName
}

// Ping checks the database handle
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		logger.Warn("Failed to close sqlite store", zap.Error(err))
	}
}

// GetFormDefinition fetches a form definition by id
func (s *Store) GetFormDefinition(ctx context.Context, id string) (*models.FormDefinition, error) {
	start := time.Now()
	operation := "getFormDefinition"

	def := &models.FormDefinition{}
	var fields string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, description, fields FROM form_definitions WHERE id = ?", id,
	).Scan(&def.ID, &def.Title, &def.Description, &fields)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordStoreOperation(storeName, operation, "not_found", duration)
		return nil, apperrors.NotFoundError(fmt.Sprintf("form definition %q", id))
	}
	if err != nil {
		metrics.RecordStoreOperation(storeName, operation, "error", duration)
		return nil, fmt.Errorf("failed to query form definition: %w", err)
	}
	if err := json.Unmarshal([]byte(fields), &def.Fields); err != nil {
		metrics.RecordStoreOperation(storeName, operation, "error", duration)
		return nil, fmt.Errorf("failed to decode fields of form definition %q: %w", id, err)
	}

	metrics.RecordStoreOperation(storeName, operation, "success", duration)
	return def, nil
}

// PutFormDefinition inserts or replaces a form definition
func (s *Store) PutFormDefinition(ctx context.Context, def *models.FormDefinition) error {
	fields, err := json.Marshal(def.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO form_definitions (id, title, description, fields) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET title = excluded.title, description = excluded.description, fields = excluded.fields`,
		def.ID, def.Title, def.Description, string(fields))
	if err != nil {
		return fmt.Errorf("failed to store form definition %q: %w", def.ID, err)
	}
	return nil
}

// DeleteFormDefinition removes a form definition
func (s *Store) DeleteFormDefinition(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM form_definitions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete form definition %q: %w", id, err)
	}
	return nil
}
