package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/tlcodec/tlcodec/internal/buffer"
	"github.com/tlcodec/tlcodec/wire"
)

// writeGZIPWrapped implements spec §4.3.2: an ephemeral child encoder,
// sharing this encoder's dictionary and extensions so both sides see a
// single consistent dictionary state, encodes value into its own
// buffer; the parent then emits a GZIP tag followed by a
// length-prefixed raw-DEFLATE compression of those bytes.
func (e *Encoder) writeGZIPWrapped(value any) error {
	child := &Encoder{
		buf:         buffer.Get(childInitialSize),
		dict:        e.dict,
		ext:         e.ext,
		gzip:        false, // never double-compress a child's own output
		initialSize: childInitialSize,
	}
	defer buffer.Put(child.buf)

	if err := child.WriteValue(value); err != nil {
		return err
	}

	compressed, err := deflateRaw(child.buf.Slice(0, child.off))
	if err != nil {
		return fmt.Errorf("tlcodec: gzip compress: %w", err)
	}

	if err := e.writeTag(wire.GZIP); err != nil {
		return err
	}

	return e.writeLengthPrefixed(compressed)
}

// childInitialSize is deliberately small: most compressed values are
// short strings, and the buffer grows on demand like any other.
const childInitialSize = 256

func deflateRaw(data []byte) ([]byte, error) {
	var out bytes.Buffer

	w, err := flate.NewWriter(&out, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func inflateRaw(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	return io.ReadAll(r)
}
