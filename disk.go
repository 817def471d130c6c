package sfs

// Disk is the block device contract the file system is built on. It is
// deliberately minimal: a fixed block size, a fixed block count, exclusive
// mount-state tracking, and synchronous whole-block I/O. An error from
// ReadBlock or WriteBlock is returned to the sfs caller as is; nothing in
// this package retries or repairs a failed read or write.
//
// Package disk provides MemoryDisk and FileDisk, two ready-made
// implementations. Callers may supply any type satisfying this interface.
type Disk interface {
	// BlockSize returns the number of bytes in one block. Every ReadBlock /
	// WriteBlock buffer must be exactly this length.
	BlockSize() int

	// Blocks returns the total number of addressable blocks on the device.
	Blocks() int

	// Mounted reports whether Mount has been called without a matching
	// Unmount.
	Mounted() bool

	// Mount marks the device as in use. The package-level Mount calls this after
	// validating the superblock; it is not meaningful to call directly.
	Mount()

	// Unmount clears the mounted flag.
	Unmount()

	// ReadBlock reads block index into buf, which must have length
	// BlockSize(). index must be in [0, Blocks()).
	ReadBlock(index int, buf []byte) error

	// WriteBlock writes buf, which must have length BlockSize(), to block
	// index. index must be in [0, Blocks()).
	WriteBlock(index int, buf []byte) error
}
