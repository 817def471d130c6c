package sfs

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Debug inspects disk without requiring (or performing) a mount. It prints
// the superblock -- noting whether the magic number is valid, without
// failing the whole dump over it -- then walks every inode-table block and
// reports size, direct pointers, and indirect pointers for every allocated
// inode it finds. Debug never writes to disk.
func Debug(w io.Writer, disk Disk) error {
	sb, err := readRawSuperblock(disk)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "SuperBlock:")
	if sb.Magic == MagicNumber {
		fmt.Fprintln(w, "    magic number is valid")
	} else {
		fmt.Fprintln(w, "    magic number is invalid")
	}
	fmt.Fprintf(w, "    %d blocks\n", sb.Blocks)
	fmt.Fprintf(w, "    %d inode blocks\n", sb.InodeBlocks)
	fmt.Fprintf(w, "    %d inodes\n", sb.Inodes)

	for i := 0; i < int(sb.InodeBlocks); i++ {
		buf := make([]byte, disk.BlockSize())
		if err := disk.ReadBlock(1+i, buf); err != nil {
			return err
		}

		for slot := 0; slot < InodesPerBlock; slot++ {
			node := decodeInode(buf[slot*rawInodeSize : (slot+1)*rawInodeSize])
			if node.Valid == 0 {
				continue
			}

			fmt.Fprintf(w, "Inode %d:\n", i*InodesPerBlock+slot)
			fmt.Fprintf(w, "    size: %d bytes\n", node.Size)
			fmt.Fprint(w, "    direct blocks:")
			for _, p := range node.Direct {
				if p != 0 {
					fmt.Fprintf(w, " %d", p)
				}
			}
			fmt.Fprintln(w)

			if node.Indirect != 0 {
				indirectBuf := make([]byte, disk.BlockSize())
				if err := disk.ReadBlock(int(node.Indirect), indirectBuf); err != nil {
					return err
				}
				pointers := make([]uint32, PointersPerBlock)
				for i := range pointers {
					pointers[i] = binary.LittleEndian.Uint32(indirectBuf[i*4 : i*4+4])
				}

				fmt.Fprintf(w, "    indirect block: %d\n", node.Indirect)
				fmt.Fprint(w, "    indirect data blocks:")
				for _, p := range pointers {
					if p != 0 {
						fmt.Fprintf(w, " %d", p)
					}
				}
				fmt.Fprintln(w)
			}
		}
	}
	return nil
}
