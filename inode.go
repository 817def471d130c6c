package sfs

import (
	"encoding/binary"

	"github.com/noxer/bytewriter"
)

// inodeBlockAndOffset resolves an inode number to its containing inode-table
// block and the record offset within it, per the format's address rule:
// block 1 + i/InodesPerBlock, slot i % InodesPerBlock.
func inodeBlockAndOffset(inumber Inumber) (block, offset int) {
	return 1 + int(inumber)/InodesPerBlock, int(inumber) % InodesPerBlock
}

func encodeInode(node rawInode) []byte {
	buf := make([]byte, rawInodeSize)
	binary.LittleEndian.PutUint32(buf[0:4], node.Valid)
	binary.LittleEndian.PutUint32(buf[4:8], node.Size)
	for i, p := range node.Direct {
		off := 8 + i*4
		binary.LittleEndian.PutUint32(buf[off:off+4], p)
	}
	binary.LittleEndian.PutUint32(buf[8+PointersPerInode*4:], node.Indirect)
	return buf
}

func decodeInode(buf []byte) rawInode {
	var node rawInode
	node.Valid = binary.LittleEndian.Uint32(buf[0:4])
	node.Size = binary.LittleEndian.Uint32(buf[4:8])
	for i := range node.Direct {
		off := 8 + i*4
		node.Direct[i] = binary.LittleEndian.Uint32(buf[off : off+4])
	}
	node.Indirect = binary.LittleEndian.Uint32(buf[8+PointersPerInode*4:])
	return node
}

// loadInode reads inumber's record straight off disk; it does not check
// Valid.
func (fs *FileSystem) loadInode(inumber Inumber) (rawInode, error) {
	if int(inumber) >= fs.inodes {
		return rawInode{}, ErrInvalidInumber
	}

	block, offset := inodeBlockAndOffset(inumber)
	buf := make([]byte, fs.disk.BlockSize())
	if err := fs.disk.ReadBlock(block, buf); err != nil {
		return rawInode{}, err
	}
	return decodeInode(buf[offset*rawInodeSize : (offset+1)*rawInodeSize]), nil
}

// saveInode writes node into inumber's slot, read-modify-write on the
// containing inode-table block. The encoded record is written into the
// slot's window of the already-read block buffer via bytewriter.
func (fs *FileSystem) saveInode(inumber Inumber, node rawInode) error {
	if int(inumber) >= fs.inodes {
		return ErrInvalidInumber
	}

	block, offset := inodeBlockAndOffset(inumber)
	buf := make([]byte, fs.disk.BlockSize())
	if err := fs.disk.ReadBlock(block, buf); err != nil {
		return err
	}

	slot := buf[offset*rawInodeSize : (offset+1)*rawInodeSize]
	writer := bytewriter.New(slot)
	if _, err := writer.Write(encodeInode(node)); err != nil {
		return err
	}

	return fs.disk.WriteBlock(block, buf)
}

// Create allocates the first unallocated inode slot, initializes it to an
// empty file, and returns its number. It returns ErrNotMounted if fs has
// been unmounted, or ErrNoFreeInodes if every slot is already valid.
func (fs *FileSystem) Create() (Inumber, error) {
	if err := fs.checkMounted(); err != nil {
		return 0, err
	}
	for block := 0; block < fs.inodeBlocks; block++ {
		buf := make([]byte, fs.disk.BlockSize())
		if err := fs.disk.ReadBlock(1+block, buf); err != nil {
			return 0, err
		}

		for slot := 0; slot < InodesPerBlock; slot++ {
			node := decodeInode(buf[slot*rawInodeSize : (slot+1)*rawInodeSize])
			if node.Valid != 0 {
				continue
			}

			inumber := Inumber(block*InodesPerBlock + slot)
			fresh := rawInode{Valid: 1}
			if err := fs.saveInode(inumber, fresh); err != nil {
				return 0, err
			}
			return inumber, nil
		}
	}
	return 0, ErrNoFreeInodes
}

// Remove releases every block owned by inumber back to the free-block
// bitmap and marks the inode unallocated. It returns ErrNotMounted,
// ErrInvalidInumber, or ErrNotAllocated (for an already-free inode) without
// modifying anything.
func (fs *FileSystem) Remove(inumber Inumber) error {
	if err := fs.checkMounted(); err != nil {
		return err
	}
	node, err := fs.loadInode(inumber)
	if err != nil {
		return err
	}
	if node.Valid == 0 {
		return ErrNotAllocated
	}

	for i, p := range node.Direct {
		if p != 0 {
			fs.free.release(int(p))
			node.Direct[i] = 0
		}
	}

	if node.Indirect != 0 {
		indirect, err := fs.readIndirect(int(node.Indirect))
		if err != nil {
			return err
		}
		for _, p := range indirect {
			if p != 0 {
				fs.free.release(int(p))
			}
		}
		fs.free.release(int(node.Indirect))
	}

	node.Valid = 0
	node.Size = 0
	node.Indirect = 0
	return fs.saveInode(inumber, node)
}

// Stat returns the size, in bytes, of an allocated inode. It returns
// ErrNotMounted if fs has been unmounted, or ErrInvalidInumber /
// ErrNotAllocated for an out-of-range or unallocated inode number.
func (fs *FileSystem) Stat(inumber Inumber) (int64, error) {
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
	return int64(node.Size), nil
}
