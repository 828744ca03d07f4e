package ext

import (
	"fmt"

	"github.com/tlcodec/tlcodec/compress"
	"github.com/tlcodec/tlcodec/wire"
)

// CompressedString is a host value that a CompressedStringExtension
// encodes through one of the compress package's algorithms instead of
// through the core codec's fixed GZIP tag. Useful when a host wants
// S2 or LZ4 speed, or Zstd ratio, on a specific field rather than the
// wire format's one-size-fits-all compression (spec §4.6).
type CompressedString struct {
	Value       string
	Compression wire.CompressionType
}

// NewCompressedStringExtension builds an Extension, bound to token,
// that encodes a CompressedString as a two-element vector: the
// compression type as a UInt8, followed by the compressed bytes as
// Binary. The algorithm is taken from each value's Compression field
// and recorded in the payload, so one registration handles every
// compression type.
func NewCompressedStringExtension(token int, name string) (Extension, error) {
	enc := func(value any) (any, bool) {
		cs, ok := value.(CompressedString)
		if !ok {
			return nil, false
		}

		codec, err := compress.GetCodec(cs.Compression)
		if err != nil {
			return nil, false
		}

		compressed, err := codec.Compress([]byte(cs.Value))
		if err != nil {
			return nil, false
		}

		return []any{uint8(cs.Compression), compressed}, true
	}

	dec := func(read func() (any, error)) (any, error) {
		raw, err := read()
		if err != nil {
			return nil, err
		}

		elems, ok := raw.([]any)
		if !ok || len(elems) != 2 {
			return nil, fmt.Errorf("tlcodec: compressed string extension: malformed payload %T", raw)
		}

		typByte, ok := elems[0].(uint8)
		if !ok {
			return nil, fmt.Errorf("tlcodec: compressed string extension: compression type element is %T, not uint8", elems[0])
		}

		data, ok := elems[1].([]byte)
		if !ok {
			return nil, fmt.Errorf("tlcodec: compressed string extension: data element is %T, not []byte", elems[1])
		}

		compression := wire.CompressionType(typByte)

		codec, err := compress.GetCodec(compression)
		if err != nil {
			return nil, err
		}

		decompressed, err := codec.Decompress(data)
		if err != nil {
			return nil, err
		}

		return CompressedString{Value: string(decompressed), Compression: compression}, nil
	}

	return New(token, name, enc, dec)
}
