package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	apperrors "github.com/pedigraph/pedigraph/pkg/errors"
	"github.com/pedigraph/pedigraph/pkg/graph"
)

func testDoc() graph.Graph {
	return graph.Graph{
		Root: "ada",
		Persons: []graph.Person{
			{ID: "ada", Name: "Ada", Relations: []graph.Relation{{Type: "spouse", Target: "kurt"}}},
			{ID: "kurt", Name: "Kurt"},
		},
	}
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord("family", testDoc())

	if rec.Name != "family" {
		t.Errorf("Name = %q, want family", rec.Name)
	}
	if rec.Persons != 2 {
		t.Errorf("Persons = %d, want 2", rec.Persons)
	}
	if rec.CreatedAt.IsZero() || !rec.CreatedAt.Equal(rec.UpdatedAt) {
		t.Errorf("timestamps not initialized: created=%v updated=%v", rec.CreatedAt, rec.UpdatedAt)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "family"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on empty store: err = %v, want ErrNotFound", err)
	}

	rec := NewRecord("family", testDoc())
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "family")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got.Graph, rec.Graph) {
		t.Error("stored graph does not round-trip")
	}
	if got.Persons != 2 {
		t.Errorf("Persons = %d, want 2", got.Persons)
	}
}

func TestMemoryStorePutPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := NewRecord("family", testDoc())
	first.CreatedAt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	first.UpdatedAt = first.CreatedAt
	if err := s.Put(ctx, first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	second := NewRecord("family", testDoc())
	if err := s.Put(ctx, second); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "family")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt = %v, want the original %v", got.CreatedAt, first.CreatedAt)
	}
	if !got.UpdatedAt.Equal(second.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want the replacement's %v", got.UpdatedAt, second.UpdatedAt)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Delete(ctx, "family"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete on empty store: err = %v, want ErrNotFound", err)
	}

	if err := s.Put(ctx, NewRecord("family", testDoc())); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete(ctx, "family"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "family"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Put(ctx, NewRecord(name, testDoc())); err != nil {
			t.Fatalf("Put(%s) error = %v", name, err)
		}
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Put(ctx, NewRecord("family", testDoc())); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, _ := s.Get(ctx, "family")
	got.Persons = 99

	again, _ := s.Get(ctx, "family")
	if again.Persons != 2 {
		t.Errorf("stored record mutated through a Get result: Persons = %d", again.Persons)
	}
}

func TestPutRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, name := range []string{"", "UPPER", "sp ace", "a/b", "-lead"} {
		err := s.Put(ctx, NewRecord(name, testDoc()))
		if !apperrors.Is(err, apperrors.ErrCodeInvalidGraph) {
			t.Errorf("Put(%q) error = %v, want code %s", name, err, apperrors.ErrCodeInvalidGraph)
		}
	}
}
