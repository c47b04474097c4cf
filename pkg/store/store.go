// Package store keeps generated diagrams so they can be fetched again by ID.
//
// Two backends implement [Store]:
//   - [MemoryStore]: process-local, for development and tests
//   - [MongoStore]: MongoDB-backed, for servers that must survive restarts
//
// Records hold the scene, not rendered bytes. Artifacts are re-rendered on
// demand and cached separately.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/patentfig/pkg/diagram"
)

// ErrNotFound is returned by Get when no record has the requested ID.
var ErrNotFound = errors.New("diagram not found")

// Record is one stored diagram.
type Record struct {
	ID        string        `json:"id"`
	Kind      diagram.Kind  `json:"kind"`
	Style     string        `json:"style,omitempty"`
	Scene     diagram.Scene `json:"scene"`
	CreatedAt time.Time     `json:"created_at"`
}

// Store persists diagram records.
type Store interface {
	// Save stores rec, assigning an ID and creation time when they are
	// empty, and returns the stored record.
	Save(ctx context.Context, rec Record) (Record, error)
	// Get returns the record with the given ID or [ErrNotFound].
	Get(ctx context.Context, id string) (Record, error)
	Close(ctx context.Context) error
}

// prepare fills in the ID and timestamp of a record about to be saved.
func prepare(rec Record) Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Kind == "" {
		rec.Kind = rec.Scene.Kind
	}
	return rec
}

// ValidID reports whether id has the shape of an ID this package assigns.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
