/*
Package sfs implements a simple block-addressed file system: a flat inode
table and data blocks laid out on top of a fixed-size block device.

Files are identified by inode number alone -- there is no notion of a name,
directory, permission bit, or timestamp. An inode holds a handful of direct
block pointers plus one indirect pointer to a block of further pointers,
giving every file a maximum size of

	BlockSize * (PointersPerInode + PointersPerBlock)

The package does not implement or assume anything about the underlying
storage medium; callers supply a [Disk]. See package disk for ready-made
in-memory and file-backed implementations.

A [FileSystem] is not safe for concurrent use by multiple goroutines: at
most one logical caller is expected to operate on a mounted instance at a
time, mirroring the single-threaded contract of the system this package is
modeled on.
*/
package sfs
