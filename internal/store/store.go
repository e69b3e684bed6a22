// Package store implements the local add-on storage layer.
//
// Objects are content-addressed WML documents keyed by their sha256 hex
// digest. Each tracked add-on additionally has a reference file carrying
// its metadata and the digest of its current tree, so the current state
// of an add-on is one Meta lookup plus one object read away.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/pehjota/addonsync"
)

var (
	// ErrNotFound reports a miss for an object digest.
	ErrNotFound = errors.New("store: object not found")

	// ErrUnknownAddon reports a miss for an add-on name.
	ErrUnknownAddon = errors.New("store: unknown add-on")
)

// Meta describes one tracked add-on.
type Meta struct {
	Name    string         `json:"name"`
	Type    addonsync.Type `json:"type"`
	Version string         `json:"version,omitempty"`
	Digest  string         `json:"digest"`
	Updated time.Time      `json:"updated"`
}

// Store handles local add-on storage.
type Store interface {
	// Get retrieves an object by digest.
	Get(ctx context.Context, digest string) ([]byte, error)

	// Put stores an object and returns its digest.
	Put(ctx context.Context, data []byte) (digest string, err error)

	// Has reports whether an object exists.
	Has(ctx context.Context, digest string) (bool, error)

	// Meta retrieves the metadata of a tracked add-on.
	Meta(name string) (*Meta, error)

	// PutMeta records or replaces the metadata of an add-on.
	PutMeta(meta *Meta) error

	// List returns the metadata of every tracked add-on, ordered by name.
	List() ([]*Meta, error)

	// Close releases store resources.
	Close() error
}
