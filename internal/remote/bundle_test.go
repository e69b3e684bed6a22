package remote

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func digestOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestBundleRoundTrip(t *testing.T) {
	a := []byte("[dir]\nname=\"A\"\n[/dir]\n")
	b := []byte(strings.Repeat("b", 1000))
	empty := []byte{}

	objects := map[string][]byte{
		digestOf(a):     a,
		digestOf(b):     b,
		digestOf(empty): empty,
	}

	bundle, err := PackBundle(objects)
	if err != nil {
		t.Fatalf("PackBundle: %v", err)
	}

	// Identical object sets pack to identical bytes.
	again, err := PackBundle(objects)
	if err != nil {
		t.Fatalf("second PackBundle: %v", err)
	}
	if !bytes.Equal(bundle, again) {
		t.Error("PackBundle is not deterministic")
	}

	got, err := UnpackBundle(bundle)
	if err != nil {
		t.Fatalf("UnpackBundle: %v", err)
	}
	if len(got) != len(objects) {
		t.Fatalf("unpacked %d objects, want %d", len(got), len(objects))
	}
	for digest, data := range objects {
		if !bytes.Equal(got[digest], data) {
			t.Errorf("object %s did not round trip", digest)
		}
	}
}

func TestBundleEmpty(t *testing.T) {
	bundle, err := PackBundle(nil)
	if err != nil {
		t.Fatalf("PackBundle: %v", err)
	}
	if len(bundle) != 0 {
		t.Errorf("empty bundle has %d bytes", len(bundle))
	}
	got, err := UnpackBundle(bundle)
	if err != nil {
		t.Fatalf("UnpackBundle: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unpacked %d objects from an empty bundle", len(got))
	}
}

func TestPackBundleRejectsMalformedDigest(t *testing.T) {
	_, err := PackBundle(map[string][]byte{"abc123": []byte("data")})
	if err == nil {
		t.Fatal("PackBundle accepted a short digest")
	}
}

func TestUnpackBundleVerifiesDigests(t *testing.T) {
	data := []byte("the object payload")
	bundle, err := PackBundle(map[string][]byte{digestOf(data): data})
	if err != nil {
		t.Fatalf("PackBundle: %v", err)
	}

	// Flip one payload byte. Header is digest plus length, 72 bytes.
	bundle[72] ^= 0xff
	_, err = UnpackBundle(bundle)
	if !errors.Is(err, ErrDigestMismatch) {
		t.Errorf("UnpackBundle of corrupted data = %v, want ErrDigestMismatch", err)
	}
}

func TestUnpackBundleTruncated(t *testing.T) {
	data := []byte("the object payload")
	bundle, err := PackBundle(map[string][]byte{digestOf(data): data})
	if err != nil {
		t.Fatalf("PackBundle: %v", err)
	}

	for _, cutoff := range []int{len(bundle) - 3, 40, 70} {
		if _, err := UnpackBundle(bundle[:cutoff]); err == nil {
			t.Errorf("UnpackBundle of %d of %d bytes succeeded", cutoff, len(bundle))
		}
	}
}
