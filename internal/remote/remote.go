// Package remote implements add-on distribution over OCI registries.
//
// An add-on is published as a single-layer OCI image. The layer is a
// bundle of the store objects reachable from the add-on's root tree,
// and image config labels carry the root digest plus the serialized
// add-on metadata, so a pull can restore the local store state from
// the image alone.
package remote

import (
	"context"
	"errors"
)

const DefaultConcurrency = 4

// Image config labels written on push and required on pull.
const (
	rootLabel = "dev.addonsync.root"
	metaLabel = "dev.addonsync.meta"
)

// ErrDigestMismatch reports an object whose contents do not hash to the
// digest it was published under.
var ErrDigestMismatch = errors.New("remote: object digest mismatch")

// Remote handles add-on distribution.
type Remote interface {
	// Push uploads an add-on: its objects plus serialized metadata.
	Push(ctx context.Context, rootDigest string, meta []byte, objects map[string][]byte) error

	// Pull downloads an add-on, returning its root digest, metadata
	// and objects.
	Pull(ctx context.Context) (rootDigest string, meta []byte, objects map[string][]byte, err error)
}
