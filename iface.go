package go_scratch_buffer_pool

type IBufferPool interface {
	// Configure replaces both ceilings. It never fails and evicts nothing
	// retroactively; only subsequent Acquire calls observe the new budget.
	Configure(maxTotalSize, maxBufferSize uint64)

	// Acquire hands out a zero-filled buffer of capacity >= minSize.
	Acquire(minSize uint64) (Handle, error)

	// AcquireExtents acquires one buffer of the summed size and carves it into
	// one sub-slice per requested extent. The region is released as a unit
	// through the returned handle.
	AcquireExtents(sizes []uint64) (Handle, [][]byte, error)

	// Release returns a checked-out buffer to the free population. Contents
	// are not cleared until the buffer is reused.
	Release(h Handle) error

	// Load resolves a checked-out handle to its storage.
	Load(h Handle) ([]byte, bool)

	// utils

	GetStats() Stats
	GetInUsed() uint64
	GetAllocated() uint64
}
