package go_scratch_buffer_pool

import "sync"

var (
	defaultPool     *Pool
	defaultPoolOnce sync.Once
)

// Default returns the process-wide pool the boundary shim operates on. Callers
// that want an owned pool with its own budget should use New instead.
func Default() *Pool {
	defaultPoolOnce.Do(func() {
		defaultPool = New()
	})
	return defaultPool
}

// Configure, Acquire and Release mirror the three boundary operations against
// the default pool, reporting stable status codes instead of errors.

func Configure(maxTotalSize, maxBufferSize uint64) Code {
	Default().Configure(maxTotalSize, maxBufferSize)
	return CodeOK
}

func Acquire(minSize uint64) (Handle, Code) {
	h, err := Default().Acquire(minSize)
	return h, CodeOf(err)
}

func Release(h Handle) Code {
	return CodeOf(Default().Release(h))
}
