package sfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	sfs "github.com/go-sfs/sfs"
	"github.com/go-sfs/sfs/disk"
	"github.com/go-sfs/sfs/sfstest"
)

// TestMountFromCompressedFixture builds a small formatted image in memory,
// round-trips it through gzip the way a checked-in fixture would be stored,
// and confirms the decompressed bytes still mount and serve reads
// correctly.
func TestMountFromCompressedFixture(t *testing.T) {
	const blockSize = sfs.BlockSize
	const totalBlocks = 64

	builder := disk.NewMemory(blockSize, totalBlocks)
	require.NoError(t, sfs.Format(builder))

	fs, err := sfs.Mount(builder)
	require.NoError(t, err)
	inumber, err := fs.Create()
	require.NoError(t, err)
	payload := []byte("fixture payload surviving a compress/decompress round trip")
	_, err = fs.WriteAt(inumber, payload, 0)
	require.NoError(t, err)
	fs.Unmount()

	raw := make([]byte, blockSize*totalBlocks)
	for i := 0; i < totalBlocks; i++ {
		require.NoError(t, builder.ReadBlock(i, raw[i*blockSize:(i+1)*blockSize]))
	}

	compressed := sfstest.CompressImage(t, raw)
	require.Less(t, len(compressed), len(raw), "fixture should shrink: image is mostly zero blocks")

	decompressed := sfstest.LoadCompressedImage(t, compressed, blockSize, totalBlocks)

	fixtureDisk, err := disk.NewMemoryFromBytes(blockSize, decompressed)
	require.NoError(t, err)

	mounted, err := sfs.Mount(fixtureDisk)
	require.NoError(t, err)
	defer mounted.Unmount()

	size, err := mounted.Stat(inumber)
	require.NoError(t, err)
	require.EqualValues(t, len(payload), size)

	readBack := make([]byte, len(payload))
	n, err := mounted.ReadAt(inumber, readBack, 0)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.Equal(t, payload, readBack)
}
