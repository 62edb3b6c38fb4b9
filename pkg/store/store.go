// Package store persists named family-graph documents for the graph
// registry the HTTP server exposes.
//
// Two backends implement the Store interface:
//   - memory: in-process map for development and tests
//   - mongo: MongoDB-backed storage for durable multi-instance deployments
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// Production
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "")
//
// Manage documents:
//
//	rec := store.NewRecord("smith-family", doc)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
//
//	rec, err := st.Get(ctx, "smith-family")
//	if errors.Is(err, store.ErrNotFound) {
//	    // nothing stored under that name
//	}
package store

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/pedigraph/pedigraph/pkg/errors"
	"github.com/pedigraph/pedigraph/pkg/graph"
)

// ErrNotFound is returned when no graph is stored under the requested name.
var ErrNotFound = errors.New("graph not found")

// Record is one stored family graph with bookkeeping.
type Record struct {
	Name      string      `json:"name" bson:"_id"`
	Graph     graph.Graph `json:"graph" bson:"graph"`
	Persons   int         `json:"persons" bson:"persons"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// NewRecord assembles a record for storing doc under name, stamped
// with the current time.
func NewRecord(name string, doc graph.Graph) *Record {
	now := time.Now().UTC()
	return &Record{
		Name:      name,
		Graph:     doc,
		Persons:   len(doc.Persons),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store is the interface for graph document storage backends.
type Store interface {
	// Get retrieves a stored graph by name.
	// Returns ErrNotFound when nothing is stored under it.
	Get(ctx context.Context, name string) (*Record, error)

	// Put stores a record under its name, replacing any previous
	// version. A replaced record keeps its original CreatedAt.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a stored graph.
	// Returns ErrNotFound when nothing is stored under the name.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in lexical order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// validateRecord rejects records that could not be addressed again:
// names travel in URL paths and become storage keys.
func validateRecord(rec *Record) error {
	if rec == nil {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "nil record")
	}
	return apperrors.ValidateGraphName(rec.Name)
}
