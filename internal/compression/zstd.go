// Package compression wraps zstd for the local object store. Compressed
// objects are recognized by the zstd frame magic, so a store opened with
// compression disabled can still read objects written earlier with it on.
package compression

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
)

// Objects smaller than this are stored as-is.
const minSize = 128

// zstd frame magic, little-endian per RFC 8878. Stored WML documents
// start with '[', so raw objects can never be mistaken for frames.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type Compressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	enabled bool
}

// NewCompressor returns a Compressor writing at the given level (1 fastest,
// 2 default, 3 better). The decoder side is always available regardless of
// enabled.
func NewCompressor(level int, enabled bool) (*Compressor, error) {
	c := &Compressor{enabled: enabled}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	c.decoder = decoder

	if !enabled {
		return c, nil
	}

	var encoderLevel zstd.EncoderLevel
	switch level {
	case 1:
		encoderLevel = zstd.SpeedFastest
	case 3:
		encoderLevel = zstd.SpeedBetterCompression
	default:
		encoderLevel = zstd.SpeedDefault
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(encoderLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}
	c.encoder = encoder

	return c, nil
}

// Compress returns data compressed, or data unchanged when compression is
// disabled, the input is small, or compression would not shrink it.
func (c *Compressor) Compress(data []byte) []byte {
	if !c.enabled || len(data) < minSize {
		return data
	}

	compressed := c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	if len(compressed) >= len(data) {
		return data
	}
	return compressed
}

// Decompress reverses Compress. Data without the frame magic is returned
// unchanged.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	return c.decoder.DecodeAll(data, nil)
}

func (c *Compressor) Close() {
	if c.encoder != nil {
		c.encoder.Close()
	}
	c.decoder.Close()
}
