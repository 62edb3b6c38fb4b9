package cli

import (
	"context"
	"io"
	"testing"
)

func TestServeStoreMemory(t *testing.T) {
	c := New(io.Discard, LogInfo)

	st, err := c.serveStore(context.Background(), serveOptions{storeKind: "memory"})
	if err != nil {
		t.Fatalf("serveStore(memory) error: %v", err)
	}
	if st == nil {
		t.Fatal("serveStore(memory) returned nil store")
	}
}

func TestServeStoreUnknownKind(t *testing.T) {
	c := New(io.Discard, LogInfo)

	if _, err := c.serveStore(context.Background(), serveOptions{storeKind: "bogus"}); err == nil {
		t.Error("serveStore should reject an unknown backend")
	}
}

func TestServeCacheNone(t *testing.T) {
	c := New(io.Discard, LogInfo)

	cch, err := c.serveCache(context.Background(), serveOptions{cacheKind: "none"})
	if err != nil {
		t.Fatalf("serveCache(none) error: %v", err)
	}
	if cch == nil {
		t.Fatal("serveCache(none) returned nil cache")
	}
}

func TestServeCacheUnknownKind(t *testing.T) {
	c := New(io.Discard, LogInfo)

	if _, err := c.serveCache(context.Background(), serveOptions{cacheKind: "bogus"}); err == nil {
		t.Error("serveCache should reject an unknown backend")
	}
}
