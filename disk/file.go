package disk

import (
	"fmt"
	"io"
	"os"
)

// FileDisk is a Disk backed by an *os.File. The block count is derived from
// the file's size at open time, rounded down to the nearest whole block.
type FileDisk struct {
	blockSize int
	blocks    int
	mounted   bool
	file      *os.File
}

// Open opens path as a FileDisk with the given block size. The file must
// already exist and be at least one block long; use Create to build a new,
// zero-filled image of a given size.
func Open(path string, blockSize int) (*FileDisk, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	blocks, err := determineBlockCount(f, blockSize)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileDisk{blockSize: blockSize, blocks: blocks, file: f}, nil
}

// Create creates a new zero-filled image at path with the given geometry,
// truncating any existing file of the same name.
func Create(path string, blockSize, blocks int) (*FileDisk, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(blockSize) * int64(blocks)); err != nil {
		f.Close()
		return nil, err
	}
	return &FileDisk{blockSize: blockSize, blocks: blocks, file: f}, nil
}

// determineBlockCount gives the number of whole blocks in stream, rounded
// down.
func determineBlockCount(stream io.Seeker, blockSize int) (int, error) {
	size, err := stream.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	return int(size) / blockSize, nil
}

func (d *FileDisk) BlockSize() int { return d.blockSize }
func (d *FileDisk) Blocks() int    { return d.blocks }
func (d *FileDisk) Mounted() bool  { return d.mounted }
func (d *FileDisk) Mount()         { d.mounted = true }
func (d *FileDisk) Unmount()       { d.mounted = false }

// Close releases the underlying file handle. It does not unmount the disk.
func (d *FileDisk) Close() error { return d.file.Close() }

func (d *FileDisk) blockOffset(index int) (int64, error) {
	if index < 0 || index >= d.blocks {
		return 0, fmt.Errorf("block index %d out of range [0, %d)", index, d.blocks)
	}
	return int64(index) * int64(d.blockSize), nil
}

func (d *FileDisk) ReadBlock(index int, buf []byte) error {
	if len(buf) != d.blockSize {
		return fmt.Errorf("buffer length %d does not match block size %d", len(buf), d.blockSize)
	}
	offset, err := d.blockOffset(index)
	if err != nil {
		return err
	}
	_, err = d.file.ReadAt(buf, offset)
	return err
}

func (d *FileDisk) WriteBlock(index int, buf []byte) error {
	if len(buf) != d.blockSize {
		return fmt.Errorf("buffer length %d does not match block size %d", len(buf), d.blockSize)
	}
	offset, err := d.blockOffset(index)
	if err != nil {
		return err
	}
	_, err = d.file.WriteAt(buf, offset)
	return err
}
