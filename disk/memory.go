// Package disk provides concrete block device implementations satisfying
// sfs.Disk: an in-memory device for tests and short-lived tools, and a
// file-backed device for persistent images.
package disk

import (
	"fmt"

	"github.com/xaionaro-go/bytesextra"
)

// MemoryDisk is a Disk backed entirely by a byte slice. It never touches the
// file system and is the fastest way to exercise sfs in tests.
type MemoryDisk struct {
	blockSize int
	blocks    int
	mounted   bool
	stream    *bytesextra.ReadWriteSeeker
}

// NewMemory creates a zero-filled in-memory disk of blocks blocks, each
// blockSize bytes.
func NewMemory(blockSize, blocks int) *MemoryDisk {
	data := make([]byte, blockSize*blocks)
	return &MemoryDisk{
		blockSize: blockSize,
		blocks:    blocks,
		stream:    bytesextra.NewReadWriteSeeker(data),
	}
}

// NewMemoryFromBytes wraps an existing byte slice (its length must be an
// exact multiple of blockSize) as a MemoryDisk, the way a decompressed test
// fixture image is turned into something sfs can mount.
func NewMemoryFromBytes(blockSize int, data []byte) (*MemoryDisk, error) {
	if len(data)%blockSize != 0 {
		return nil, fmt.Errorf(
			"data length %d is not a multiple of block size %d", len(data), blockSize)
	}
	return &MemoryDisk{
		blockSize: blockSize,
		blocks:    len(data) / blockSize,
		stream:    bytesextra.NewReadWriteSeeker(data),
	}, nil
}

func (d *MemoryDisk) BlockSize() int { return d.blockSize }
func (d *MemoryDisk) Blocks() int    { return d.blocks }
func (d *MemoryDisk) Mounted() bool  { return d.mounted }
func (d *MemoryDisk) Mount()         { d.mounted = true }
func (d *MemoryDisk) Unmount()       { d.mounted = false }

func (d *MemoryDisk) checkBounds(index int, bufLen int) error {
	if index < 0 || index >= d.blocks {
		return fmt.Errorf("block index %d out of range [0, %d)", index, d.blocks)
	}
	if bufLen != d.blockSize {
		return fmt.Errorf("buffer length %d does not match block size %d", bufLen, d.blockSize)
	}
	return nil
}

func (d *MemoryDisk) ReadBlock(index int, buf []byte) error {
	if err := d.checkBounds(index, len(buf)); err != nil {
		return err
	}
	if _, err := d.stream.Seek(int64(index*d.blockSize), 0); err != nil {
		return err
	}
	_, err := d.stream.Read(buf)
	return err
}

func (d *MemoryDisk) WriteBlock(index int, buf []byte) error {
	if err := d.checkBounds(index, len(buf)); err != nil {
		return err
	}
	if _, err := d.stream.Seek(int64(index*d.blockSize), 0); err != nil {
		return err
	}
	_, err := d.stream.Write(buf)
	return err
}
