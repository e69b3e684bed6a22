package wml

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/pehjota/addonsync"
)

// The add-on exchange format ships gzip-compressed WML. These helpers wrap
// the plain readers and writers with that framing.

// WriteTreeGzip writes root as a gzip-compressed [dir] block.
func WriteTreeGzip(w io.Writer, root *addonsync.Dir) error {
	zw := gzip.NewWriter(w)
	if err := WriteTree(zw, root); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ParseTreeGzip reads a gzip-compressed [dir] block.
func ParseTreeGzip(r io.Reader) (*addonsync.Dir, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()
	return ParseTree(zr)
}

// WritePackGzip writes pack gzip-compressed.
func WritePackGzip(w io.Writer, pack *addonsync.UpdatePack) error {
	zw := gzip.NewWriter(w)
	if err := WritePack(zw, pack); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ParsePackGzip reads a gzip-compressed update pack.
func ParsePackGzip(r io.Reader) (*addonsync.UpdatePack, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()
	return ParsePack(zr)
}
