package stream

import (
	"fmt"
	"io"

	"github.com/tlcodec/tlcodec/codec"
	"github.com/tlcodec/tlcodec/internal/options"
)

// WriterOption configures a FrameWriter built by NewFrameWriter.
type WriterOption = options.Option[*FrameWriter]

// WithWriterEncoder supplies a pre-built Encoder, e.g. one sharing a
// dictionary with a peer FrameReader. Without this option,
// NewFrameWriter builds one with codec.NewEncoder().
func WithWriterEncoder(enc *codec.Encoder) WriterOption {
	return options.New(func(fw *FrameWriter) error {
		if enc == nil {
			return fmt.Errorf("tlcodec: WithWriterEncoder requires a non-nil encoder")
		}
		fw.enc = enc
		return nil
	})
}

// WithWriteVectorWhenEmpty makes Flush emit a single encoded empty
// Vector frame if Write was never called, so a downstream FrameReader
// always sees at least one frame per stream (spec §4.6).
func WithWriteVectorWhenEmpty() WriterOption {
	return options.NoError(func(fw *FrameWriter) { fw.writeVectorWhenEmpty = true })
}

// FrameWriter encodes each value passed to Write as an independent
// top-level object (spec: "each input record is encoded independently
// (fresh top-level call)") and writes the resulting bytes to the
// underlying io.Writer as one frame.
type FrameWriter struct {
	w                    io.Writer
	enc                  *codec.Encoder
	wroteAny             bool
	writeVectorWhenEmpty bool
}

// NewFrameWriter constructs a FrameWriter writing frames to w.
func NewFrameWriter(w io.Writer, opts ...WriterOption) (*FrameWriter, error) {
	fw := &FrameWriter{w: w}

	if err := options.Apply[*FrameWriter](fw, opts...); err != nil {
		return nil, err
	}

	if fw.enc == nil {
		enc, err := codec.NewEncoder()
		if err != nil {
			return nil, err
		}
		fw.enc = enc
	}

	return fw, nil
}

// Write encodes value as one frame and writes it to the underlying
// writer. The frame is handed to the writer without a copy; Encode's
// returned slice aliases the encoder's internal buffer and is only
// valid until the next Encode call, which io.Writer's rule against
// retaining the slice makes safe.
func (fw *FrameWriter) Write(value any) error {
	frame, err := fw.enc.Encode(value)
	if err != nil {
		return fmt.Errorf("tlcodec: frame encode: %w", err)
	}

	fw.wroteAny = true

	if _, err := fw.w.Write(frame); err != nil {
		return fmt.Errorf("tlcodec: frame write: %w", err)
	}

	return nil
}

// Flush emits a trailing empty-Vector frame if WithWriteVectorWhenEmpty
// was set and Write was never called; otherwise it is a no-op.
func (fw *FrameWriter) Flush() error {
	if fw.wroteAny || !fw.writeVectorWhenEmpty {
		return nil
	}

	return fw.Write([]any{})
}
