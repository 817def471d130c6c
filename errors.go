package sfs

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// SfsError is a sentinel error value, comparable with errors.Is. It doubles
// as a constructor for a richer [*DriverError] carrying additional context,
// following the same shape as a plain errno code versus a decorated error.
type SfsError string

func (e SfsError) Error() string { return string(e) }

// WithMessage returns a new error reporting this sentinel plus a message,
// while still matching errors.Is(err, e).
func (e SfsError) WithMessage(message string) *DriverError {
	return &DriverError{sentinel: e, message: fmt.Sprintf("%s: %s", e, message)}
}

// Wrap returns a new error reporting this sentinel plus the text of cause,
// while still matching errors.Is(err, e) and errors.Is(err, cause).
func (e SfsError) Wrap(cause error) *DriverError {
	return &DriverError{sentinel: e, message: fmt.Sprintf("%s: %s", e, cause), cause: cause}
}

// Sentinel errors returned at the sfs API boundary. Every precondition
// failure and resource-exhaustion condition described by the operation table
// surfaces as one of these (or a *DriverError wrapping one), so callers can
// branch with errors.Is instead of parsing messages.
const (
	// ErrAlreadyMounted is returned by Format and Mount when the supplied
	// Disk reports itself as already mounted.
	ErrAlreadyMounted = SfsError("disk is already mounted")
	// ErrNotMounted is returned by Create, Remove, Stat, ReadAt and WriteAt
	// when invoked after Unmount has already been called on the FileSystem.
	ErrNotMounted = SfsError("file system is not mounted")
	// ErrInvalidSuperblock is returned by Mount when block 0 fails any of
	// the four superblock invariants.
	ErrInvalidSuperblock = SfsError("invalid superblock")
	// ErrInvalidInumber is returned when an inode number is out of range of
	// the mounted file system's inode table.
	ErrInvalidInumber = SfsError("inode number out of range")
	// ErrNotAllocated is returned when an operation targets an inode slot
	// that is not currently allocated (not created, or already removed).
	ErrNotAllocated = SfsError("inode is not allocated")
	// ErrOffsetBeyondEnd is returned by ReadAt/WriteAt when offset > size;
	// neither operation is permitted to create holes.
	ErrOffsetBeyondEnd = SfsError("offset is beyond the end of the file")
	// ErrNoFreeInodes is returned by Create when every inode slot is valid.
	ErrNoFreeInodes = SfsError("no free inodes")
	// ErrNoFreeBlocks is the underlying cause of a short WriteAt once the
	// allocator has exhausted the free block bitmap.
	ErrNoFreeBlocks = SfsError("no free blocks")
	// ErrMissingBlock is returned by ReadAt when a block position within the
	// file's declared size has no pointer on disk -- a corrupted file.
	ErrMissingBlock = SfsError("file references an unallocated block")
)

// DriverError decorates a sentinel SfsError with additional context, in the
// spirit of a syscall errno paired with a human-readable explanation.
type DriverError struct {
	sentinel SfsError
	message  string
	cause    error
}

func (e *DriverError) Error() string { return e.message }

// Unwrap lets errors.Is/errors.As see through to both the sentinel and, if
// present, the wrapped cause.
func (e *DriverError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.sentinel, e.cause}
	}
	return []error{e.sentinel}
}

// invariantErrors aggregates every violated mount-time superblock invariant
// into a single error via go-multierror, so a corrupted image reports
// everything wrong with it instead of just the first check that failed. The
// caller still only needs to know mount failed: Mount returns
// ErrInvalidSuperblock wrapping this aggregate as its cause.
func invariantErrors(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, m := range messages {
		merr = multierror.Append(merr, fmt.Errorf("%s", m))
	}
	return ErrInvalidSuperblock.Wrap(merr)
}
