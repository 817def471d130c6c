package sfs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	sfs "github.com/go-sfs/sfs"
)

func TestSentinelErrorWithMessage(t *testing.T) {
	err := sfs.ErrNoFreeBlocks.WithMessage("during write")
	require.Equal(t, "no free blocks: during write", err.Error())
	require.ErrorIs(t, err, sfs.ErrNoFreeBlocks)
}

func TestSentinelErrorWrap(t *testing.T) {
	cause := errors.New("underlying failure")
	err := sfs.ErrInvalidSuperblock.Wrap(cause)

	require.ErrorIs(t, err, sfs.ErrInvalidSuperblock)
	require.ErrorIs(t, err, cause)
}
