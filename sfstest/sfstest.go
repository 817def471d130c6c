// Package sfstest provides shared test fixtures for the sfs package and its
// subpackages: test-only helpers that need to be importable from multiple
// _test.go files without being copy-pasted into each one.
package sfstest

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sfs/sfs/disk"
)

// NewMemoryDisk is a convenience constructor for a zero-filled in-memory
// disk with the given geometry.
func NewMemoryDisk(blockSize, blocks int) *disk.MemoryDisk {
	return disk.NewMemory(blockSize, blocks)
}

// CompressImage gzips a disk image for storage as a fixture. Disk images
// are mostly zero-filled, so a plain gzip pass shrinks them enormously
// without needing a dedicated codec.
func CompressImage(t *testing.T, raw []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	w, err := gzip.NewWriterLevel(&out, gzip.BestCompression)
	require.NoError(t, err)
	_, err = w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return out.Bytes()
}

// LoadCompressedImage gunzips a fixture image (built with CompressImage)
// back into the raw bytes of a disk image. The caller wraps the result
// with disk.NewMemoryFromBytes to get something sfs can mount.
func LoadCompressedImage(t *testing.T, compressedImage []byte, blockSize, totalBlocks uint) []byte {
	t.Helper()
	require.Greater(t, len(compressedImage), 0, "compressed image fixture is empty")

	r, err := gzip.NewReader(bytes.NewReader(compressedImage))
	require.NoError(t, err)
	defer r.Close()

	imageBytes, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(
		t,
		totalBlocks*blockSize,
		uint(len(imageBytes)),
		"decompressed image is the wrong size",
	)
	return imageBytes
}
