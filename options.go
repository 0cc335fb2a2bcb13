package go_scratch_buffer_pool

type OptionFn func(*Pool)

type options struct {
	// maxTotalSize caps the sum of capacities of every live buffer, free or
	// checked out.
	maxTotalSize uint64

	// maxBufferSize caps the capacity of a single buffer.
	maxBufferSize uint64

	// initialSlots pre-sizes the slot table of the buffer store.
	initialSlots int
}

var defaultOptions = options{
	maxTotalSize:  1 * GiB,
	maxBufferSize: 10 * MiB,
	initialSlots:  1 << 4,
}

func WithMaxTotalSize(maxTotalSize uint64) OptionFn {
	return func(p *Pool) {
		p.opts.maxTotalSize = maxTotalSize
	}
}

func WithMaxBufferSize(maxBufferSize uint64) OptionFn {
	return func(p *Pool) {
		p.opts.maxBufferSize = maxBufferSize
	}
}

func WithInitialSlots(initialSlots int) OptionFn {
	return func(p *Pool) {
		p.opts.initialSlots = initialSlots
	}
}
