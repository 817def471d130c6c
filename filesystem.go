package sfs

import (
	"math"
)

// Inumber identifies an inode. Inode numbers are dense and start at 0; the
// valid range for a mounted file system is [0, FileSystem.Inodes()).
type Inumber uint32

// FileSystem is a mounted sfs image: the superblock-derived block counts,
// the reconstructed free-block bitmap, and the Disk they describe. It is
// not safe for concurrent use by multiple goroutines -- at most one logical
// caller is expected to drive a given FileSystem at a time.
type FileSystem struct {
	disk        Disk
	blocks      int
	inodeBlocks int
	inodes      int
	free        *freeMap
	mounted     bool
}

// checkMounted returns ErrNotMounted once Unmount has been called on fs. A
// FileSystem can only come from Mount, so this only ever trips on reuse
// after Unmount.
func (fs *FileSystem) checkMounted() error {
	if !fs.mounted {
		return ErrNotMounted
	}
	return nil
}

// Mount validates disk's superblock and reconstructs the free-block bitmap
// from its inode table. disk must not already be mounted. On any superblock
// invariant violation, Mount returns ErrInvalidSuperblock (wrapping a
// multierror describing every violation found) and leaves disk untouched.
func Mount(disk Disk) (*FileSystem, error) {
	if disk.Mounted() {
		return nil, ErrAlreadyMounted
	}

	sb, err := readRawSuperblock(disk)
	if err != nil {
		return nil, err
	}
	if problems := checkSuperblockInvariants(sb); len(problems) > 0 {
		return nil, invariantErrors(problems)
	}

	disk.Mount()

	fs := &FileSystem{
		disk:        disk,
		blocks:      int(sb.Blocks),
		inodeBlocks: int(sb.InodeBlocks),
		inodes:      int(sb.Inodes),
		mounted:     true,
	}
	if err := fs.rebuildFreeMap(); err != nil {
		disk.Unmount()
		fs.mounted = false
		return nil, err
	}
	return fs, nil
}

// Unmount releases the underlying disk. It does not flush anything: every
// mutating sfs operation persists its changes before returning, so there is
// nothing left to write out at unmount time. Create, Remove, Stat, ReadAt
// and WriteAt on fs after Unmount return ErrNotMounted.
func (fs *FileSystem) Unmount() {
	fs.disk.Unmount()
	fs.mounted = false
}

// Inodes returns the total number of inode slots in the mounted file
// system.
func (fs *FileSystem) Inodes() int { return fs.inodes }

// Blocks returns the total number of blocks on the mounted disk.
func (fs *FileSystem) Blocks() int { return fs.blocks }

// rebuildFreeMap reconstructs the in-memory bitmap by walking every valid
// inode's pointers. Block 0 and the inode table blocks are always reserved;
// a zero-valued pointer slot is never considered a live reference.
func (fs *FileSystem) rebuildFreeMap() error {
	free := newFreeMap(fs.disk, fs.blocks)
	free.reserve(0)
	for i := 0; i < fs.inodeBlocks; i++ {
		free.reserve(1 + i)
	}

	for inum := 0; inum < fs.inodes; inum++ {
		node, err := fs.loadInode(Inumber(inum))
		if err != nil {
			return err
		}
		if node.Valid == 0 {
			continue
		}

		numBlocks := int(math.Ceil(float64(node.Size) / float64(BlockSize)))
		for p := 0; p < PointersPerInode && p < numBlocks; p++ {
			if node.Direct[p] != 0 {
				free.reserve(int(node.Direct[p]))
			}
		}

		if numBlocks > PointersPerInode {
			if node.Indirect != 0 {
				free.reserve(int(node.Indirect))
				indirect, err := fs.readIndirect(int(node.Indirect))
				if err != nil {
					return err
				}
				for p := 0; p < numBlocks-PointersPerInode && p < PointersPerBlock; p++ {
					if indirect[p] != 0 {
						free.reserve(int(indirect[p]))
					}
				}
			}
		}
	}

	fs.free = free
	return nil
}
