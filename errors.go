package inplace

import "errors"

// Sentinel errors for the three failure kinds every variant surfaces.
// Callers should compare with errors.Is; wrapped context does not break
// identity.
var (
	// ErrInvalidSize is returned by a constructor when N is zero or not
	// divisible by the variant's block size.
	ErrInvalidSize = errors.New("inplace: invalid size")

	// ErrIndexOutOfRange is returned by Read/Write when i >= N.
	ErrIndexOutOfRange = errors.New("inplace: index out of range")

	// ErrOutOfMemory is returned by a constructor when the backing
	// storage (or the shadow verifier's side tables) cannot be
	// allocated.
	ErrOutOfMemory = errors.New("inplace: out of memory")
)
