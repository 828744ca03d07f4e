package stream

import (
	"fmt"

	"github.com/tlcodec/tlcodec/codec"
	"github.com/tlcodec/tlcodec/errs"
	"github.com/tlcodec/tlcodec/internal/options"
)

// ReaderOption configures a FrameReader built by NewFrameReader.
type ReaderOption = options.Option[*FrameReader]

// WithReaderDecoder supplies a pre-built Decoder, e.g. one sharing a
// dictionary with a peer FrameWriter. Without this option,
// NewFrameReader builds one with codec.NewDecoder(nil).
func WithReaderDecoder(dec *codec.Decoder) ReaderOption {
	return options.New(func(fr *FrameReader) error {
		if dec == nil {
			return fmt.Errorf("tlcodec: WithReaderDecoder requires a non-nil decoder")
		}
		fr.dec = dec
		return nil
	})
}

// FrameReader consumes concatenated frames delivered in arbitrarily
// sized chunks. A frame that straddles a chunk boundary is recovered
// by retaining the undecoded tail and retrying once Feed receives the
// rest of it (spec §4.6).
type FrameReader struct {
	dec *codec.Decoder
	buf []byte
}

// NewFrameReader constructs a FrameReader with no input buffered yet.
func NewFrameReader(opts ...ReaderOption) (*FrameReader, error) {
	fr := &FrameReader{}

	if err := options.Apply[*FrameReader](fr, opts...); err != nil {
		return nil, err
	}

	if fr.dec == nil {
		dec, err := codec.NewDecoder(nil)
		if err != nil {
			return nil, err
		}
		fr.dec = dec
	}

	return fr, nil
}

// Feed appends chunk to the reader's retained tail and decodes as many
// complete frames as are now available, returning them in order. Any
// undecoded tail (a frame that needs more bytes) is retained internally
// and prepended to the next call's chunk, per spec §4.6.
func (fr *FrameReader) Feed(chunk []byte) ([]any, error) {
	fr.buf = append(fr.buf, chunk...)

	var values []any

	for len(fr.buf) > 0 {
		fr.dec.Reset(fr.buf)

		v, err := fr.dec.ReadValue()
		if err != nil {
			if errs.IsIncomplete(err) {
				break
			}

			return values, fmt.Errorf("tlcodec: frame decode: %w", err)
		}

		fr.buf = fr.buf[fr.dec.TellPosition():]
		values = append(values, v)
	}

	return values, nil
}

// Pending reports how many undecoded bytes are currently retained,
// waiting on a future Feed call to complete a frame.
func (fr *FrameReader) Pending() int {
	return len(fr.buf)
}
