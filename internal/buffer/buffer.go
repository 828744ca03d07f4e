// Package buffer implements the single contiguous growable byte buffer
// the encoder writes into, including the repeat-run back-pointer
// rewrite support described in spec §9 ("implementations must keep the
// buffer as a single contiguous growable byte vector, not a rope").
package buffer

import (
	"github.com/tlcodec/tlcodec/errs"
	"github.com/tlcodec/tlcodec/wire"
)

// Buffer is a growable byte slice with page-aligned growth tuned for the
// tlcodec wire format's length-prefix headroom requirements (spec
// §4.3.4). The zero value is not usable; use New.
type Buffer struct {
	buf []byte
}

// New creates a Buffer with the given initial capacity.
func New(initialSize int) *Buffer {
	return &Buffer{buf: make([]byte, 0, initialSize)}
}

// Reset truncates the buffer to zero length while retaining its backing
// array, so the same allocation can serve the next Encode call.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
}

// Len returns the current logical length (not capacity) of the buffer.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Cap returns the buffer's backing capacity.
func (b *Buffer) Cap() int {
	return cap(b.buf)
}

// Bytes returns the full backing slice up to its logical length. The
// returned slice aliases the buffer's storage and is invalidated by the
// next mutating call.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Slice returns buf[start:end]. Panics if the bounds are invalid; it is
// the caller's responsibility to have grown the buffer first.
func (b *Buffer) Slice(start, end int) []byte {
	return b.buf[start:end]
}

// EnsureLen grows the backing array if needed so that the buffer's
// logical length can reach n, then sets the logical length to n if n is
// larger than the current length. It never shrinks the logical length.
func (b *Buffer) EnsureLen(n int) error {
	if n <= len(b.buf) {
		return nil
	}

	if err := b.grow(n); err != nil {
		return err
	}

	b.buf = b.buf[:n]

	return nil
}

// WriteAt copies data into the buffer starting at offset, growing the
// buffer as needed. It is used both for normal sequential writes (offset
// == current length) and for the repeat-run length-prefix rewrite, which
// seeks backward and overwrites bytes already written (spec §4.3.1).
func (b *Buffer) WriteAt(offset int, data []byte) error {
	end := offset + len(data)
	if err := b.EnsureLen(end); err != nil {
		return err
	}

	copy(b.buf[offset:end], data)

	return nil
}

// grow ensures the backing array's capacity is at least requiredTotal,
// reallocating and copying the live prefix if necessary. The growth
// target itself is computed by growCapacity, which implements the
// normative §4.3.4 formula.
func (b *Buffer) grow(requiredTotal int) error {
	if cap(b.buf) >= requiredTotal {
		return nil
	}

	newCap, err := growCapacity(cap(b.buf), requiredTotal)
	if err != nil {
		return err
	}

	newBuf := make([]byte, len(b.buf), newCap)
	copy(newBuf, b.buf)
	b.buf = newBuf

	return nil
}

// growCapacity computes the next buffer capacity for a backing array
// currently sized oldCap that must hold at least requiredTotal bytes,
// per spec §4.3.4. The target folds in wire.BufferSafetyMargin so the
// resulting capacity always leaves at least that much headroom beyond
// requiredTotal (spec's "safeEnd = capacity - 10", room for a maximal
// tag + extended length-prefix write without a further grow check).
func growCapacity(oldCap, requiredTotal int) (int, error) {
	if requiredTotal > wire.MaxBufferSize {
		return 0, errs.ErrBufferTooLarge
	}

	target := requiredTotal + wire.BufferSafetyMargin

	if target > wire.GrowThresholdLarge {
		var raw int
		if target > wire.GrowPercentageThreshold {
			raw = int(float64(target) * 1.25)
		} else {
			raw = target * 2
		}

		if raw < wire.GrowMinLarge {
			raw = wire.GrowMinLarge
		}

		newCap := roundUpPage(raw)
		if newCap > wire.MaxBufferSize {
			newCap = wire.MaxBufferSize
		}

		return newCap, nil
	}

	small := target * 4
	if oldCap-1 > small {
		small = oldCap - 1
	}

	newCap := ((small >> 12) + 1) << 12

	return newCap, nil
}

// roundUpPage rounds n up to the nearest multiple of wire.GrowPageSize,
// matching the spec's round(x / 4096) * 4096 large-buffer growth step
// (the spec's "round" here means "round up to cover the request", since
// a rounded-down page could land below the required size).
func roundUpPage(n int) int {
	return ((n + wire.GrowPageSize - 1) / wire.GrowPageSize) * wire.GrowPageSize
}
