package go_scratch_buffer_pool

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func Test_Pool_Concurrent_Acquire_Release(t *testing.T) {
	p := New(WithMaxTotalSize(1*MiB), WithMaxBufferSize(4*KiB))

	var (
		mu         sync.Mutex
		checkedOut = map[Handle]struct{}{}
	)

	const (
		workers       = 8
		opsPerWorker  = 2_000
		releaseChance = 2
	)

	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() error {
			rng := rand.New(rand.NewSource(int64(w)))
			var held []Handle
			for i := 0; i < opsPerWorker; i++ {
				if len(held) > 0 && rng.Intn(releaseChance) == 0 {
					h := held[len(held)-1]
					held = held[:len(held)-1]
					mu.Lock()
					delete(checkedOut, h)
					mu.Unlock()
					if err := p.Release(h); err != nil {
						return err
					}
					continue
				}

				h, err := p.Acquire(uint64(rng.Intn(int(4 * KiB))))
				if errors.Is(err, ErrNoBufferAvailable) {
					continue
				}
				if err != nil {
					return err
				}

				mu.Lock()
				_, dup := checkedOut[h]
				checkedOut[h] = struct{}{}
				mu.Unlock()
				if dup {
					return fmt.Errorf("handle %d checked out by two holders", uint64(h))
				}
				held = append(held, h)
			}

			for _, h := range held {
				mu.Lock()
				delete(checkedOut, h)
				mu.Unlock()
				if err := p.Release(h); err != nil {
					return err
				}
			}
			return nil
		})
	}

	assert.NoError(t, eg.Wait())
	assert.Zero(t, p.GetInUsed())
	assert.LessOrEqual(t, p.GetAllocated(), 1*MiB)
	verifyInvariants(t, p)
}

func Test_Pool_Concurrent_Buffers_Are_Always_Zeroed(t *testing.T) {
	p := New(WithMaxTotalSize(256*KiB), WithMaxBufferSize(1*KiB))

	var eg errgroup.Group
	for w := 0; w < 4; w++ {
		w := w
		eg.Go(func() error {
			rng := rand.New(rand.NewSource(int64(100 + w)))
			for i := 0; i < 1_000; i++ {
				h, err := p.Acquire(uint64(1 + rng.Intn(int(1*KiB))))
				if errors.Is(err, ErrNoBufferAvailable) {
					continue
				}
				if err != nil {
					return err
				}

				data, ok := p.Load(h)
				if !ok {
					return fmt.Errorf("handle %d not loadable while checked out", uint64(h))
				}
				for j, v := range data {
					if v != 0 {
						return fmt.Errorf("byte %d of handle %d is dirty", j, uint64(h))
					}
				}
				// dirty the buffer for the next holder to trip on
				for j := range data {
					data[j] = 0xee
				}

				if err := p.Release(h); err != nil {
					return err
				}
			}
			return nil
		})
	}

	assert.NoError(t, eg.Wait())
	verifyInvariants(t, p)
}
