package addonsync

import (
	"crypto/md5"
	"encoding/base64"
)

// Digest is a file content digest: the MD5 sum of the raw contents encoded
// as unpadded URL-safe base64, 22 characters. MD5 is the digest of the
// add-on exchange format; it detects drift between versions and is not a
// defense against forged content.
type Digest string

// Sum computes the content digest of data.
func Sum(data []byte) Digest {
	h := md5.Sum(data)
	return Digest(base64.RawURLEncoding.EncodeToString(h[:]))
}

// ContentDigest resolves the file's digest: the stored Hash when present,
// otherwise the digest of Contents. The file is not modified.
func (f *File) ContentDigest() Digest {
	if f.Hash != "" {
		return f.Hash
	}
	return Sum(f.Contents)
}

// FilesEqual reports whether two files carry the same name and the same
// resolved content digest.
func FilesEqual(a, b *File) bool {
	return a.Name == b.Name && a.ContentDigest() == b.ContentDigest()
}
