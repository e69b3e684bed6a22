// Package disk moves content trees between real directories and their
// in-memory form, and loads or saves their WML serializations.
package disk

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/pehjota/addonsync"
	"github.com/pehjota/addonsync/wml"
)

const DefaultConcurrency = 4

type Options struct {
	Concurrency int
	Ignore      []string
}

type Option func(*Options)

// WithConcurrency sets the number of parallel file reads during Scan.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithIgnore replaces the scan's ignore patterns.
func WithIgnore(patterns []string) Option {
	return func(o *Options) { o.Ignore = patterns }
}

// Scan walks root into a content tree. Entries matching the ignore
// patterns are skipped; file payloads are read and digested in parallel.
func Scan(root string, opts ...Option) (*addonsync.Dir, error) {
	options := Options{Concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Ignore == nil {
		options.Ignore = loadIgnore(root)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	tree := &addonsync.Dir{Name: filepath.Base(filepath.Clean(root))}
	dirs := map[string]*addonsync.Dir{".": tree}
	var files []*addonsync.File
	var paths []string

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		name := d.Name()
		if name == IgnoreFile || ignored(options.Ignore, name) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		parent := dirs[filepath.Dir(rel)]
		if d.IsDir() {
			dirs[rel] = parent.AddDir(name)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		files = append(files, parent.AddFile(name))
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	// Each goroutine fills in a distinct File, so no locking is needed.
	p := pool.New().WithMaxGoroutines(options.Concurrency).WithErrors().WithFirstError()
	for i, f := range files {
		path := paths[i]
		p.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			f.Contents = data
			f.Hash = addonsync.Sum(data)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	return tree, nil
}

// WriteTree materializes a tree under dest. Trees with illegal or
// case-colliding names are refused before anything is written.
func WriteTree(dest string, root *addonsync.Dir) error {
	if ok, bad := addonsync.CheckNames(root, addonsync.CollectAll); !ok {
		return fmt.Errorf("tree has %d illegal names, first %q", len(bad), bad[0])
	}
	if ok, dup := addonsync.CheckDuplicates(root, addonsync.CollectAll); !ok {
		return fmt.Errorf("tree has case-colliding names, first %q", dup[0])
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	return writeDir(dest, root)
}

func writeDir(dest string, d *addonsync.Dir) error {
	for _, f := range d.Files {
		if f.Contents == nil {
			return fmt.Errorf("file %s has no payload", filepath.Join(dest, f.Name))
		}
		if err := os.WriteFile(filepath.Join(dest, f.Name), f.Contents, 0o644); err != nil {
			return err
		}
	}
	for _, sub := range d.Dirs {
		subDest := filepath.Join(dest, sub.Name)
		if err := os.MkdirAll(subDest, 0o755); err != nil {
			return err
		}
		if err := writeDir(subDest, sub); err != nil {
			return err
		}
	}
	return nil
}

// ReadTree loads a tree from path: a directory is scanned, anything else
// is parsed as WML, either gzip-compressed or plain.
func ReadTree(path string, opts ...Option) (*addonsync.Dir, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return Scan(path, opts...)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := isGzip(f)
	if err != nil {
		return nil, err
	}
	if gz {
		return wml.ParseTreeGzip(f)
	}
	return wml.ParseTree(f)
}

// SaveTree writes a tree as WML to path, gzip-compressed when the name
// ends in .gz.
func SaveTree(path string, root *addonsync.Dir) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if strings.HasSuffix(path, ".gz") {
		return wml.WriteTreeGzip(f, root)
	}
	return wml.WriteTree(f, root)
}

// ReadPack loads an update pack, gzip-compressed or plain.
func ReadPack(path string) (*addonsync.UpdatePack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := isGzip(f)
	if err != nil {
		return nil, err
	}
	if gz {
		return wml.ParsePackGzip(f)
	}
	return wml.ParsePack(f)
}

// SavePack writes an update pack to path, gzip-compressed when the name
// ends in .gz.
func SavePack(path string, pack *addonsync.UpdatePack) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if strings.HasSuffix(path, ".gz") {
		return wml.WritePackGzip(f, pack)
	}
	return wml.WritePack(f, pack)
}

// isGzip sniffs the gzip magic and rewinds.
func isGzip(f *os.File) (bool, error) {
	var magic [2]byte
	n, err := io.ReadFull(f, magic[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	return n == 2 && magic[0] == 0x1f && magic[1] == 0x8b, nil
}
