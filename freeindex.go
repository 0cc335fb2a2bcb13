package go_scratch_buffer_pool

import "github.com/google/btree"

const freeIndexDegree = 16

type freeEntry struct {
	size   uint64
	handle Handle
}

// entries are ordered by capacity ascending, handle ascending as tie-break,
// so the first entry at or above (minSize, 0) is the best fit.
func freeEntryLess(a, b freeEntry) bool {
	if a.size != b.size {
		return a.size < b.size
	}
	return a.handle < b.handle
}

// freeIndex is the ordered set of free buffers, keyed by (capacity, handle).
type freeIndex struct {
	tree *btree.BTreeG[freeEntry]

	// free is the sum of capacities of all entries
	free uint64
}

func newFreeIndex() *freeIndex {
	return &freeIndex{
		tree: btree.NewG(freeIndexDegree, freeEntryLess),
	}
}

func (f *freeIndex) insert(e freeEntry) bool {
	if _, dup := f.tree.ReplaceOrInsert(e); dup {
		return false
	}
	f.free += e.size
	return true
}

func (f *freeIndex) remove(e freeEntry) bool {
	if _, ok := f.tree.Delete(e); !ok {
		return false
	}
	f.free -= e.size
	return true
}

// bestFit returns the smallest entry with capacity >= minSize, without
// removing it.
func (f *freeIndex) bestFit(minSize uint64) (freeEntry, bool) {
	var (
		found freeEntry
		ok    bool
	)
	f.tree.AscendGreaterOrEqual(freeEntry{size: minSize}, func(e freeEntry) bool {
		found, ok = e, true
		return false
	})
	return found, ok
}

func (f *freeIndex) takeSmallest() (freeEntry, bool) {
	e, ok := f.tree.DeleteMin()
	if ok {
		f.free -= e.size
	}
	return e, ok
}

func (f *freeIndex) takeLargest() (freeEntry, bool) {
	e, ok := f.tree.DeleteMax()
	if ok {
		f.free -= e.size
	}
	return e, ok
}

func (f *freeIndex) len() int { return f.tree.Len() }
