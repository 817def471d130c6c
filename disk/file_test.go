package disk_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sfs/sfs/disk"
)

func TestFileDiskCreateOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.sfs")

	created, err := disk.Create(path, 512, 8)
	require.NoError(t, err)
	require.Equal(t, 8, created.Blocks())

	data := make([]byte, 512)
	for i := range data {
		data[i] = byte(i * 3)
	}
	require.NoError(t, created.WriteBlock(5, data))
	require.NoError(t, created.Close())

	opened, err := disk.Open(path, 512)
	require.NoError(t, err)
	defer opened.Close()
	require.Equal(t, 8, opened.Blocks())

	readBack := make([]byte, 512)
	require.NoError(t, opened.ReadBlock(5, readBack))
	require.Equal(t, data, readBack)
}

func TestFileDiskRejectsOutOfRangeBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.sfs")
	d, err := disk.Create(path, 512, 4)
	require.NoError(t, err)
	defer d.Close()

	require.Error(t, d.ReadBlock(4, make([]byte, 512)))
}
