package sfs

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Layout constants. BlockSize and PointersPerInode are fixed; everything
// derived from them works out to the "typical" values in the format's
// documentation as long as rawSuperblock / rawInode keep their current
// shape (one uint32 per field, no padding).
const (
	// BlockSize is the fixed size, in bytes, of every block on an sfs disk.
	BlockSize = 4096

	// MagicNumber identifies a block 0 as an sfs superblock.
	MagicNumber = 0xf0f03410

	// PointersPerInode is the number of direct block pointers stored
	// directly in an inode.
	PointersPerInode = 5
)

// rawSuperblock is the on-disk layout of block 0. Field order and size are
// the interop contract: any two implementations producing the same sequence
// of Format/Create/Write/Remove calls must write byte-identical images.
type rawSuperblock struct {
	Magic       uint32
	Blocks      uint32
	InodeBlocks uint32
	Inodes      uint32
}

const rawSuperblockSize = 4 * 4

// PointersPerBlock is the number of block pointers (uint32 each) that fit in
// one indirect block.
const PointersPerBlock = BlockSize / 4

// rawInode is the fixed-size on-disk inode record. INODES_PER_BLOCK in the
// format's terms is BlockSize / rawInodeSize.
type rawInode struct {
	Valid    uint32
	Size     uint32
	Direct   [PointersPerInode]uint32
	Indirect uint32
}

const rawInodeSize = 4 + 4 + PointersPerInode*4 + 4

// InodesPerBlock is the number of inode records packed into one inode-table
// block.
const InodesPerBlock = BlockSize / rawInodeSize

// MaxFileSize is the largest file representable by this layout: every
// direct pointer plus a full indirect block's worth of pointers.
const MaxFileSize = BlockSize * (PointersPerInode + PointersPerBlock)

func inodeBlocksFor(totalBlocks int) int {
	return int(math.Ceil(float64(totalBlocks) * 0.10))
}

func encodeSuperblock(sb rawSuperblock) []byte {
	buf := make([]byte, BlockSize)
	binary.LittleEndian.PutUint32(buf[0:4], sb.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], sb.Blocks)
	binary.LittleEndian.PutUint32(buf[8:12], sb.InodeBlocks)
	binary.LittleEndian.PutUint32(buf[12:16], sb.Inodes)
	return buf
}

func decodeSuperblock(buf []byte) rawSuperblock {
	return rawSuperblock{
		Magic:       binary.LittleEndian.Uint32(buf[0:4]),
		Blocks:      binary.LittleEndian.Uint32(buf[4:8]),
		InodeBlocks: binary.LittleEndian.Uint32(buf[8:12]),
		Inodes:      binary.LittleEndian.Uint32(buf[12:16]),
	}
}

// checkSuperblockInvariants validates all four invariants from the format
// spec, collecting every violation instead of stopping at the first so a
// corrupted image can be diagnosed in one pass. See invariantErrors, which
// turns the full list into Mount's error.
func checkSuperblockInvariants(sb rawSuperblock) []string {
	var problems []string

	if sb.Magic != MagicNumber {
		problems = append(problems, fmt.Sprintf(
			"magic number %#x does not match expected %#x", sb.Magic, uint32(MagicNumber)))
	}
	if sb.Blocks == 0 {
		problems = append(problems, "blocks must be greater than zero")
	}
	wantInodeBlocks := uint32(inodeBlocksFor(int(sb.Blocks)))
	if sb.InodeBlocks != wantInodeBlocks {
		problems = append(problems, fmt.Sprintf(
			"inode_blocks is %d, expected ceil(blocks * 0.10) = %d", sb.InodeBlocks, wantInodeBlocks))
	}
	wantInodes := sb.InodeBlocks * InodesPerBlock
	if sb.Inodes != wantInodes {
		problems = append(problems, fmt.Sprintf(
			"inodes is %d, expected inode_blocks * %d = %d", sb.Inodes, InodesPerBlock, wantInodes))
	}
	return problems
}

// Format initializes disk with a fresh, empty sfs image: a superblock sized
// to the disk's block count, and every remaining block zeroed so every
// inode-table slot reads as unallocated. disk must not be mounted.
func Format(disk Disk) error {
	if disk.Mounted() {
		return ErrAlreadyMounted
	}

	totalBlocks := disk.Blocks()
	inodeBlocks := inodeBlocksFor(totalBlocks)
	sb := rawSuperblock{
		Magic:       MagicNumber,
		Blocks:      uint32(totalBlocks),
		InodeBlocks: uint32(inodeBlocks),
		Inodes:      uint32(inodeBlocks) * InodesPerBlock,
	}

	if err := disk.WriteBlock(0, encodeSuperblock(sb)); err != nil {
		return err
	}

	zero := make([]byte, disk.BlockSize())
	for i := 1; i < totalBlocks; i++ {
		if err := disk.WriteBlock(i, zero); err != nil {
			return err
		}
	}
	return nil
}

// readRawSuperblock reads and decodes block 0 without validating it or
// requiring a mount; used by both Mount and Debug.
func readRawSuperblock(disk Disk) (rawSuperblock, error) {
	buf := make([]byte, disk.BlockSize())
	if err := disk.ReadBlock(0, buf); err != nil {
		return rawSuperblock{}, err
	}
	return decodeSuperblock(buf), nil
}
