package sfs

import (
	"encoding/binary"
	"errors"
)

// readIndirect reads block and interprets it as PointersPerBlock uint32
// pointers.
func (fs *FileSystem) readIndirect(block int) ([]uint32, error) {
	buf := make([]byte, fs.disk.BlockSize())
	if err := fs.disk.ReadBlock(block, buf); err != nil {
		return nil, err
	}
	pointers := make([]uint32, PointersPerBlock)
	for i := range pointers {
		pointers[i] = binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
	}
	return pointers, nil
}

func encodeIndirect(pointers []uint32) []byte {
	buf := make([]byte, BlockSize)
	for i, p := range pointers {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], p)
	}
	return buf
}

// blockRange returns the (start, length) window within one block that a
// read or write at logical byte offset should touch, given how many bytes
// have already been transferred (done) and how many remain (remaining).
// The first block of a transfer starts at offset % BlockSize; every
// subsequent block starts at 0.
func blockRange(done, remaining, offset int) (start, length int) {
	if done == 0 {
		start = offset % BlockSize
	}
	length = BlockSize - start
	if length > remaining {
		length = remaining
	}
	return start, length
}

// ReadAt reads into buf starting at offset within inumber's file, returning
// the number of bytes copied. It returns ErrNotMounted, ErrInvalidInumber,
// ErrNotAllocated, or ErrOffsetBeyondEnd (offset > size) without reading
// anything; offset == size returns (0, nil), matching an EOF read of zero
// length rather than an error. The read is clamped to the file's declared
// size -- len(buf) may request more than is available.
func (fs *FileSystem) ReadAt(inumber Inumber, buf []byte, offset int64) (int, error) {
	if err := fs.checkMounted(); err != nil {
		return 0, err
	}
	node, err := fs.loadInode(inumber)
	if err != nil {
		return 0, err
	}
	if node.Valid == 0 {
		return 0, ErrNotAllocated
	}
	if offset > int64(node.Size) {
		return 0, ErrOffsetBeyondEnd
	}

	length := len(buf)
	if remaining := int64(node.Size) - offset; int64(length) > remaining {
		length = int(remaining)
	}
	if length == 0 {
		return 0, nil
	}

	var indirect []uint32
	if (int(offset)+length-1)/BlockSize >= PointersPerInode {
		if node.Indirect == 0 {
			return 0, ErrMissingBlock
		}
		indirect, err = fs.readIndirect(int(node.Indirect))
		if err != nil {
			return 0, err
		}
	}

	startBlock := int(offset) / BlockSize
	read := 0
	for blockNum := startBlock; read < length; blockNum++ {
		var pointer uint32
		if blockNum < PointersPerInode {
			pointer = node.Direct[blockNum]
		} else {
			pointer = indirect[blockNum-PointersPerInode]
		}
		if pointer == 0 {
			return 0, ErrMissingBlock
		}

		block := make([]byte, fs.disk.BlockSize())
		if err := fs.disk.ReadBlock(int(pointer), block); err != nil {
			return 0, err
		}

		start, chunkLen := blockRange(read, length-read, int(offset))
		copy(buf[read:read+chunkLen], block[start:start+chunkLen])
		read += chunkLen
	}
	return read, nil
}

// WriteAt writes buf to inumber's file starting at offset, allocating data
// blocks (and the indirect block, on demand) as needed. It returns
// ErrNotMounted, ErrInvalidInumber, or ErrOffsetBeyondEnd (offset > size;
// writes may not create holes) without writing anything. The write is
// clamped to MaxFileSize - offset. If the allocator runs out of free blocks
// partway through, WriteAt persists everything written so far and returns
// that short count with a nil error -- resource exhaustion is not a
// precondition failure. A genuine disk I/O error partway through (as
// opposed to exhaustion) still persists everything written so far, but is
// returned alongside the short count instead of being swallowed.
func (fs *FileSystem) WriteAt(inumber Inumber, buf []byte, offset int64) (int, error) {
	if err := fs.checkMounted(); err != nil {
		return 0, err
	}
	node, err := fs.loadInode(inumber)
	if err != nil {
		return 0, err
	}
	if offset > int64(node.Size) {
		return 0, ErrOffsetBeyondEnd
	}

	length := len(buf)
	if remaining := int64(MaxFileSize) - offset; int64(length) > remaining {
		length = int(remaining)
	}

	startBlock := int(offset) / BlockSize
	var indirect []uint32
	indirectLoaded := false
	nodeDirty := false
	indirectDirty := false

	written := 0
	var fatalErr error
loop:
	for blockNum := startBlock; written < length && blockNum < PointersPerInode+PointersPerBlock; blockNum++ {
		var pointer uint32

		if blockNum < PointersPerInode {
			if node.Direct[blockNum] == 0 {
				allocated, err := fs.free.allocate()
				if err != nil {
					if errors.Is(err, ErrNoFreeBlocks) {
						break loop
					}
					fatalErr = err
					break loop
				}
				node.Direct[blockNum] = uint32(allocated)
				nodeDirty = true
			}
			pointer = node.Direct[blockNum]
		} else {
			if node.Indirect == 0 {
				allocated, err := fs.free.allocate()
				if err != nil {
					if errors.Is(err, ErrNoFreeBlocks) {
						break loop
					}
					fatalErr = err
					break loop
				}
				node.Indirect = uint32(allocated)
				nodeDirty = true
				indirect = make([]uint32, PointersPerBlock)
				indirectLoaded = true
				indirectDirty = true
			}
			if !indirectLoaded {
				indirect, err = fs.readIndirect(int(node.Indirect))
				if err != nil {
					fatalErr = err
					break loop
				}
				indirectLoaded = true
			}

			idx := blockNum - PointersPerInode
			if indirect[idx] == 0 {
				allocated, err := fs.free.allocate()
				if err != nil {
					if errors.Is(err, ErrNoFreeBlocks) {
						break loop
					}
					fatalErr = err
					break loop
				}
				indirect[idx] = uint32(allocated)
				indirectDirty = true
			}
			pointer = indirect[idx]
		}

		start, writeLen := blockRange(written, length-written, int(offset))

		block := make([]byte, fs.disk.BlockSize())
		if writeLen < BlockSize {
			if err := fs.disk.ReadBlock(int(pointer), block); err != nil {
				fatalErr = err
				break loop
			}
		}
		copy(block[start:start+writeLen], buf[written:written+writeLen])
		if err := fs.disk.WriteBlock(int(pointer), block); err != nil {
			fatalErr = err
			break loop
		}
		written += writeLen
	}

	newSize := int(node.Size)
	if offset+int64(written) > int64(newSize) {
		newSize = int(offset) + written
		nodeDirty = true
	}
	node.Size = uint32(newSize)

	if indirectDirty {
		if err := fs.disk.WriteBlock(int(node.Indirect), encodeIndirect(indirect)); err != nil {
			return written, err
		}
	}
	if nodeDirty {
		if err := fs.saveInode(inumber, node); err != nil {
			return written, err
		}
	}

	return written, fatalErr
}
