package go_scratch_buffer_pool

// arena owns the storage of every live buffer, keyed by slot index. Slots of
// evicted buffers are recycled with a bumped generation, so stale handles
// never resolve to a new occupant.
type arena struct {
	// slots[i].data == nil marks a vacant slot; live buffers always carry a
	// non-nil data slice, even zero-capacity ones.
	slots     []*buffer
	freeSlots []uint32
}

func newArena(initialSlots int) *arena {
	return &arena{
		slots: make([]*buffer, 0, initialSlots),
	}
}

// create allocates storage for a new buffer of exactly size bytes. Fresh
// storage from the runtime is already zeroed.
func (a *arena) create(size uint64) *buffer {
	var b *buffer
	if n := len(a.freeSlots); n > 0 {
		b = a.slots[a.freeSlots[n-1]]
		a.freeSlots = a.freeSlots[:n-1]
	} else {
		b = &buffer{slot: uint32(len(a.slots))}
		a.slots = append(a.slots, b)
	}

	b.data = make([]byte, size)
	b.state = stateInUse
	return b
}

func (a *arena) lookup(h Handle) (*buffer, bool) {
	slot := h.slot()
	if int(slot) >= len(a.slots) {
		return nil, false
	}
	b := a.slots[slot]
	if b.data == nil || b.gen != h.gen() {
		return nil, false
	}
	return b, true
}

// evict reclaims the slot of a Free buffer. The generation bump invalidates
// every handle ever issued for this slot.
func (a *arena) evict(b *buffer) {
	b.data = nil
	b.gen++
	a.freeSlots = append(a.freeSlots, b.slot)
}
