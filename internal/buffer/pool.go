package buffer

import "sync"

// maxPooledCapacity bounds the buffer size retained in the pool, so one
// encode of an unusually large value doesn't permanently inflate the
// pool's steady-state memory footprint.
const maxPooledCapacity = 1024 * 1024 // 1 MiB

var pool = sync.Pool{
	New: func() any {
		return New(0) // grown lazily on first real use; encoders pick their own initial size
	},
}

// Get retrieves a pooled Buffer, or allocates a fresh one if the pool is
// empty. The caller must call Put when done to make the buffer eligible
// for reuse.
func Get(initialSize int) *Buffer {
	b, _ := pool.Get().(*Buffer)
	if b.Cap() < initialSize {
		b.buf = make([]byte, 0, initialSize)
	}

	return b
}

// Put returns b to the pool for reuse, unless its capacity has grown
// past maxPooledCapacity, in which case it is discarded so the pool
// doesn't retain outsized allocations indefinitely.
func Put(b *Buffer) {
	if b == nil {
		return
	}

	if b.Cap() > maxPooledCapacity {
		return
	}

	b.Reset()
	pool.Put(b)
}
