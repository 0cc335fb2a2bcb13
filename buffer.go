package go_scratch_buffer_pool

// Handle identifies one live buffer. It packs the buffer's slot index and the
// slot generation, so a handle kept across an eviction goes stale instead of
// aliasing whatever occupies the slot next.
type Handle uint64

func makeHandle(slot, gen uint32) Handle {
	return Handle(uint64(slot)<<32 | uint64(gen))
}

func (h Handle) slot() uint32 { return uint32(h >> 32) }

func (h Handle) gen() uint32 { return uint32(h) }

// buffer is an owned, fixed-capacity byte region. Capacity is fixed at
// creation; a buffer never grows, it is only reused or evicted.
type buffer struct {
	data  []byte
	slot  uint32
	gen   uint32
	state bufferState
}

func (b *buffer) handle() Handle { return makeHandle(b.slot, b.gen) }

func (b *buffer) capacity() uint64 { return uint64(len(b.data)) }
