package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/types"
	"github.com/klauspost/compress/zstd"
	"github.com/sourcegraph/conc/pool"
)

type OCIRemote struct {
	ref         name.Reference
	auth        Authenticator
	concurrency int
}

var _ Remote = (*OCIRemote)(nil)

// NewOCIRemote creates a remote from a standard image ref
// (e.g. "registry.example.org/addons/era-of-myths:latest").
func NewOCIRemote(imageRef string, auth Authenticator) (*OCIRemote, error) {
	ref, err := name.ParseReference(imageRef, name.WithDefaultTag("latest"))
	if err != nil {
		return nil, fmt.Errorf("invalid image ref %q: %w", imageRef, err)
	}
	return &OCIRemote{ref: ref, auth: auth, concurrency: DefaultConcurrency}, nil
}

// SetConcurrency sets the number of parallel registry operations.
func (r *OCIRemote) SetConcurrency(n int) {
	if n > 0 {
		r.concurrency = n
	}
}

func (r *OCIRemote) String() string   { return r.ref.String() }
func (r *OCIRemote) Registry() string { return r.ref.Context().RegistryStr() }

// bundleLayer implements v1.Layer with zstd compression for transfer.
type bundleLayer struct {
	compressed   []byte
	uncompressed []byte
}

var zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))

func newBundleLayer(data []byte) *bundleLayer {
	return &bundleLayer{
		compressed:   zstdEncoder.EncodeAll(data, nil),
		uncompressed: data,
	}
}

func (l *bundleLayer) Digest() (v1.Hash, error) {
	h, _, err := v1.SHA256(bytes.NewReader(l.compressed))
	return h, err
}

func (l *bundleLayer) DiffID() (v1.Hash, error) {
	h, _, err := v1.SHA256(bytes.NewReader(l.uncompressed))
	return h, err
}

func (l *bundleLayer) Compressed() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.compressed)), nil
}
func (l *bundleLayer) Uncompressed() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.uncompressed)), nil
}
func (l *bundleLayer) Size() (int64, error)                { return int64(len(l.compressed)), nil }
func (l *bundleLayer) MediaType() (types.MediaType, error) { return types.OCILayerZStd, nil }

// Push uploads the add-on as a single-layer image.
func (r *OCIRemote) Push(ctx context.Context, rootDigest string, meta []byte, objects map[string][]byte) error {
	bundle, err := PackBundle(objects)
	if err != nil {
		return fmt.Errorf("pack bundle: %w", err)
	}
	layer := newBundleLayer(bundle)

	fmt.Fprintf(os.Stderr, "[push] %d objects, %.1fKB bundle (%.1fKB compressed)\n",
		len(objects), float64(len(bundle))/1024, float64(len(layer.compressed))/1024)

	img, err := mutate.AppendLayers(empty.Image, layer)
	if err != nil {
		return fmt.Errorf("build image: %w", err)
	}
	cfg, err := img.ConfigFile()
	if err != nil {
		return fmt.Errorf("get config: %w", err)
	}
	cfg.Config.Labels = map[string]string{
		rootLabel: rootDigest,
		metaLabel: string(meta),
	}
	img, err = mutate.ConfigFile(img, cfg)
	if err != nil {
		return fmt.Errorf("set config: %w", err)
	}

	options := append(r.remoteOptions(), remote.WithJobs(r.concurrency))
	if _, err := retry(ctx, 3, func() (struct{}, error) {
		return struct{}{}, remote.Write(r.ref, img, options...)
	}); err != nil {
		return fmt.Errorf("push image: %w", err)
	}

	fmt.Fprintf(os.Stderr, "[push] done\n")
	return nil
}

// Pull downloads the add-on image and unpacks every layer in parallel.
func (r *OCIRemote) Pull(ctx context.Context) (string, []byte, map[string][]byte, error) {
	img, err := retry(ctx, 3, func() (v1.Image, error) {
		return remote.Image(r.ref, r.remoteOptions()...)
	})
	if err != nil {
		return "", nil, nil, fmt.Errorf("fetch image: %w", err)
	}

	cfg, err := img.ConfigFile()
	if err != nil {
		return "", nil, nil, fmt.Errorf("get config: %w", err)
	}
	rootDigest := cfg.Config.Labels[rootLabel]
	if rootDigest == "" {
		return "", nil, nil, fmt.Errorf("missing %s label, %s is not an add-on image", rootLabel, r.ref)
	}
	meta := []byte(cfg.Config.Labels[metaLabel])

	layers, err := img.Layers()
	if err != nil {
		return "", nil, nil, fmt.Errorf("get layers: %w", err)
	}

	fmt.Fprintf(os.Stderr, "[pull] downloading %d layers\n", len(layers))

	var mu sync.Mutex
	objects := make(map[string][]byte)

	p := pool.New().WithMaxGoroutines(r.concurrency).WithContext(ctx).WithCancelOnError()
	for _, layer := range layers {
		p.Go(func(ctx context.Context) error {
			rc, err := layer.Uncompressed()
			if err != nil {
				return fmt.Errorf("read layer: %w", err)
			}
			data, err := io.ReadAll(rc)
			if cerr := rc.Close(); cerr != nil {
				return fmt.Errorf("close layer: %w", cerr)
			}
			if err != nil {
				return fmt.Errorf("read layer: %w", err)
			}

			bundle, err := UnpackBundle(data)
			if err != nil {
				return fmt.Errorf("unpack layer: %w", err)
			}

			mu.Lock()
			for k, v := range bundle {
				objects[k] = v
			}
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return "", nil, nil, err
	}

	if _, ok := objects[rootDigest]; !ok {
		return "", nil, nil, fmt.Errorf("image %s does not contain its root object %s", r.ref, rootDigest)
	}

	fmt.Fprintf(os.Stderr, "[pull] done, %d objects received\n", len(objects))
	return rootDigest, meta, objects, nil
}

func (r *OCIRemote) remoteOptions() []remote.Option {
	if r.auth != nil {
		username, password, err := r.auth.Authenticate(r.Registry())
		if err == nil && username != "" {
			return []remote.Option{remote.WithAuth(&authn.Basic{
				Username: username,
				Password: password,
			})}
		}
	}
	return []remote.Option{remote.WithAuthFromKeychain(authn.DefaultKeychain)}
}

func retry[T any](ctx context.Context, maxAttempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i := range maxAttempts {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i < maxAttempts-1 {
			delay := time.Duration(1<<i) * 500 * time.Millisecond // 500ms, 1s, 2s
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return zero, lastErr
}
