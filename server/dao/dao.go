// Package dao provides data access objects for the transpile-cache server
// (SPEC_FULL.md §B.1): one repository for cached transpile jobs and one
// for the admin accounts allowed to clear the cache or read its stats.
package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store holds every repository the server needs, mirroring the teacher's
// dao.Store shape of one method per concern plus Close.
type Store interface {
	Transpiles() TranspileRepository
	Admins() AdminRepository
	Close() error
}

// Status is the lifecycle state of a cached transpile job.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Diagnostic is a flattened, storage-friendly copy of diag.Diagnostic.
// The server package owns the conversion; dao stays independent of the
// core transpiler so the cache can be queried without importing the
// pass pipeline.
type Diagnostic struct {
	Severity   string
	ID         string
	Func       string
	File       string
	Line       int
	Message    string
	Suggestion string
}

// Transpile is one cached result of a POST /api/v1/transpiles call, keyed
// by the hash of its source bytes plus the build settings that produced
// it, so a repeat submission of identical input is served from cache
// instead of re-running the pipeline.
type Transpile struct {
	ID              uuid.UUID
	SourceHash      string
	Status          Status
	TranslationUnit string
	Header          string
	CSource         string
	Diagnostics     []Diagnostic
	Created         time.Time
}

// TranspileRepository persists and retrieves cached transpile results.
type TranspileRepository interface {
	Create(ctx context.Context, t Transpile) (Transpile, error)
	GetByID(ctx context.Context, id uuid.UUID) (Transpile, error)
	GetByHash(ctx context.Context, hash string) (Transpile, bool, error)
	DeleteAll(ctx context.Context) (int, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// Stats summarizes the cache for GET /api/v1/stats.
type Stats struct {
	TotalEntries int
	Succeeded    int
	Failed       int
}

// Admin is one account permitted to call the cache-admin endpoints.
type Admin struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Created      time.Time
}

// AdminRepository persists admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, a Admin) (Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (Admin, error)
	GetByUsername(ctx context.Context, username string) (Admin, error)
	Close() error
}
