package go_scratch_buffer_pool

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	B   = uint64(1)
	KiB = 1024 * B
	MiB = 1024 * KiB
	GiB = 1024 * MiB
)

type Stats struct {
	statAcquire int64
	statReuse   int64
	statAlloc   int64
	statEvict   int64
	statRelease int64
}

// Pool hands out reusable byte buffers under a global capacity budget. One
// mutex guards the whole structure; every operation is bounded and never
// blocks on anything but the lock.
type Pool struct {
	mu sync.Mutex

	opts options

	store   *arena
	freeIdx *freeIndex

	// bytesAllocated is the sum of capacities of every live buffer,
	// bytesInUse of the checked-out ones.
	bytesAllocated uint64
	bytesInUse     uint64

	stats Stats
}

func New(opts ...OptionFn) *Pool {
	p := &Pool{
		opts: defaultOptions,
	}

	for _, o := range opts {
		o(p)
	}

	p.store = newArena(p.opts.initialSlots)
	p.freeIdx = newFreeIndex()
	return p
}

// Configure replaces both ceilings. Existing buffers are unaffected; only
// subsequent Acquire calls observe the new budget.
func (p *Pool) Configure(maxTotalSize, maxBufferSize uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.opts.maxTotalSize = maxTotalSize
	p.opts.maxBufferSize = maxBufferSize

	zap.L().Info("Configured scratch buffer pool",
		zap.Uint64("max_total_size", maxTotalSize),
		zap.Uint64("max_buffer_size", maxBufferSize))
}

// Acquire hands out a zero-filled buffer of capacity >= minSize, reusing the
// best-fitting free buffer when one exists and allocating otherwise. A failed
// Acquire mutates nothing.
func (p *Pool) Acquire(minSize uint64) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquire(minSize)
}

// AcquireExtents acquires one buffer of the summed size and carves it into
// one sub-slice per requested extent. The region is released as a unit
// through the returned handle.
func (p *Pool) AcquireExtents(sizes []uint64) (Handle, [][]byte, error) {
	var total uint64
	for _, size := range sizes {
		total += size
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	h, err := p.acquire(total)
	if err != nil {
		return 0, nil, err
	}

	b, ok := p.store.lookup(h)
	if !ok {
		p.corrupted(fmt.Sprintf("freshly acquired handle %d is unknown to the buffer store", uint64(h)))
	}

	extents := make([][]byte, len(sizes))
	var offset uint64
	for i, size := range sizes {
		extents[i] = b.data[offset : offset+size : offset+size]
		offset += size
	}
	return h, extents, nil
}

// Release moves a checked-out buffer back to the free population. Contents
// are not cleared here; the next acquire that reuses the buffer zero-fills it.
func (p *Pool) Release(h Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.store.lookup(h)
	if !ok || b.state != stateInUse {
		zap.L().Warn("Released a handle that is not checked out", zap.Uint64("handle", uint64(h)))
		return ErrInvalidHandle
	}

	if !p.freeIdx.insert(freeEntry{size: b.capacity(), handle: b.handle()}) {
		p.corrupted(fmt.Sprintf("handle %d is checked out yet present in the free index", uint64(h)))
	}
	b.state = stateFree
	p.bytesInUse -= b.capacity()
	p.stats.statRelease++
	return nil
}

// Load resolves a checked-out handle to its storage. Free, evicted and
// never-issued handles all resolve to nothing.
func (p *Pool) Load(h Handle) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.store.lookup(h)
	if !ok || b.state != stateInUse {
		return nil, false
	}
	return b.data, true
}

func (p *Pool) GetStats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Pool) GetInUsed() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bytesInUse
}

func (p *Pool) GetAllocated() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bytesAllocated
}

// acquire implements the allocation path.
//
//	Caller must hold p.mu
func (p *Pool) acquire(minSize uint64) (Handle, error) {
	if minSize > p.opts.maxBufferSize {
		zap.L().Error("Requested size exceeds the maximum buffer size",
			zap.Uint64("min_size", minSize),
			zap.Uint64("max_buffer_size", p.opts.maxBufferSize))
		return 0, ErrSizeTooBig
	}

	// Best fit: the smallest free buffer that still satisfies the request.
	if e, ok := p.freeIdx.bestFit(minSize); ok {
		b := p.mustLookupFree(e)
		if !p.freeIdx.remove(e) {
			p.corrupted(fmt.Sprintf("free index lost entry (size=%d handle=%d) between lookup and removal", e.size, uint64(e.handle)))
		}
		clear(b.data)
		b.state = stateInUse
		p.bytesInUse += e.size
		p.stats.statAcquire++
		p.stats.statReuse++
		return b.handle(), nil
	}

	if p.bytesAllocated+minSize > p.opts.maxTotalSize {
		if err := p.evictAtLeast(minSize); err != nil {
			return 0, err
		}
	}

	b := p.store.create(minSize)
	p.bytesAllocated += minSize
	p.bytesInUse += minSize
	p.stats.statAcquire++
	p.stats.statAlloc++
	return b.handle(), nil
}

// evictAtLeast frees enough Free buffers for a fresh allocation of minSize to
// fit the budget, extracting alternately the largest and the smallest free
// entry until the freed capacity covers the shortfall. Fails without mutation
// when even a full reclaim cannot make room.
//
//	Caller must hold p.mu
func (p *Pool) evictAtLeast(minSize uint64) error {
	if p.bytesInUse+minSize > p.opts.maxTotalSize {
		zap.L().Warn("Budget cannot fit the request even after a full reclaim",
			zap.Uint64("min_size", minSize),
			zap.Uint64("bytes_in_use", p.bytesInUse),
			zap.Uint64("max_total_size", p.opts.maxTotalSize))
		return ErrNoBufferAvailable
	}

	// the shortfall includes any existing excess over the ceiling, which a
	// downward Configure can leave behind; only entered when
	// bytesAllocated+minSize > maxTotalSize, so this never underflows
	required := p.bytesAllocated + minSize - p.opts.maxTotalSize

	var freed uint64
	takeLargest := true
	for freed < required {
		var (
			e  freeEntry
			ok bool
		)
		if takeLargest {
			e, ok = p.freeIdx.takeLargest()
		} else {
			e, ok = p.freeIdx.takeSmallest()
		}
		if !ok {
			p.corrupted("free index drained before reclaiming the required capacity")
		}
		takeLargest = !takeLargest

		b := p.mustLookupFree(e)
		p.store.evict(b)
		p.bytesAllocated -= e.size
		freed += e.size
		p.stats.statEvict++
	}

	return nil
}

// mustLookupFree resolves a free-index entry to its buffer. The index
// referencing a buffer the store does not know, or one whose state or
// capacity disagrees, is a broken invariant.
func (p *Pool) mustLookupFree(e freeEntry) *buffer {
	b, ok := p.store.lookup(e.handle)
	if !ok || b.state != stateFree || b.capacity() != e.size {
		p.corrupted(fmt.Sprintf("free index entry (size=%d handle=%d) does not match the buffer store", e.size, uint64(e.handle)))
	}
	return b
}

// corrupted reports a broken internal invariant. The pool cannot be trusted
// past this point, so the condition is not repaired or retried.
func (p *Pool) corrupted(msg string) {
	zap.L().Error(msg)
	panic(fmt.Errorf("%w: %s", ErrCorruptedState, msg))
}

var _ IBufferPool = (*Pool)(nil)
