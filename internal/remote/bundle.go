package remote

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
)

// Length of a sha256 hex digest.
const digestLen = 64

// PackBundle packs objects into the layer format:
//
//	[digest 64B][length 8B, big-endian][data]...
//
// Objects are ordered by digest so identical object sets produce
// identical bundles.
func PackBundle(objects map[string][]byte) ([]byte, error) {
	digests := make([]string, 0, len(objects))
	for d := range objects {
		if len(d) != digestLen {
			return nil, fmt.Errorf("malformed object digest %q", d)
		}
		digests = append(digests, d)
	}
	sort.Strings(digests)

	var buf bytes.Buffer
	lenBuf := make([]byte, 8)
	for _, digest := range digests {
		data := objects[digest]
		buf.WriteString(digest)
		binary.BigEndian.PutUint64(lenBuf, uint64(len(data)))
		buf.Write(lenBuf)
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// UnpackBundle reverses PackBundle, verifying that every object hashes
// to its declared digest.
func UnpackBundle(data []byte) (map[string][]byte, error) {
	objects := make(map[string][]byte)
	buf := bytes.NewReader(data)
	digestBuf := make([]byte, digestLen)

	for buf.Len() > 0 {
		if _, err := io.ReadFull(buf, digestBuf); err != nil {
			return nil, fmt.Errorf("read digest: %w", err)
		}
		digest := string(digestBuf)

		var length uint64
		if err := binary.Read(buf, binary.BigEndian, &length); err != nil {
			return nil, fmt.Errorf("read length: %w", err)
		}
		if length > uint64(buf.Len()) {
			return nil, fmt.Errorf("truncated bundle: object %s claims %d bytes, %d left", digest, length, buf.Len())
		}

		blob := make([]byte, length)
		if _, err := io.ReadFull(buf, blob); err != nil {
			return nil, fmt.Errorf("read data: %w", err)
		}

		sum := sha256.Sum256(blob)
		if hex.EncodeToString(sum[:]) != digest {
			return nil, fmt.Errorf("%w: %s", ErrDigestMismatch, digest)
		}
		objects[digest] = blob
	}

	return objects, nil
}
