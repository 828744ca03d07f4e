// Package tlcodec implements a self-describing binary serialization
// format: a constructor-tagged byte stream that converts dynamically
// typed value trees -- booleans, null, signed/unsigned integers,
// floats, dates, byte strings, UTF-8 strings, ordered sequences, and
// string-keyed maps -- into a compact byte sequence and reconstructs
// them losslessly.
//
// # Core Features
//
//   - A dictionary that interns map keys (and optionally short
//     strings), so repeated keys cost one length-prefixed index
//     instead of a full string each time.
//   - A repeat marker collapsing immediately-repeated scalar values.
//   - Per-value GZIP (raw DEFLATE) compression for strings, recursing
//     into encoded sub-trees.
//   - An extension mechanism letting a host register custom type
//     codecs keyed by a reserved token range.
//   - A streaming framing layer (package stream) adapting the codec to
//     chunked I/O with incomplete-read recovery.
//
// # Basic Usage
//
//	enc, _ := tlcodec.NewEncoder()
//	out, err := enc.Encode(map[string]any{
//	    "name":  "sensor-7",
//	    "value": 42,
//	})
//
//	dec, _ := tlcodec.NewDecoder(out)
//	value, err := dec.ReadValue()
//
// Or, for a single one-shot call without keeping the encoder/decoder
// around:
//
//	out, err := tlcodec.Encode(value)
//	value, err := tlcodec.Decode(out)
//
// # Package Structure
//
// This package provides thin convenience wrappers around package
// codec, the implementation of the core byte-level format. For
// dictionary sharing, custom extensions, GZIP, or chunked streaming,
// use codec, ext, dict, and stream directly.
package tlcodec

import (
	"github.com/tlcodec/tlcodec/codec"
)

// NewEncoder constructs an Encoder with the given options. Without
// codec.WithDictionary, a fresh unseeded dictionary is created; without
// codec.WithExtensions, the extension table is empty.
func NewEncoder(opts ...codec.Option) (*codec.Encoder, error) {
	return codec.NewEncoder(opts...)
}

// NewCompressingEncoder constructs an Encoder with GZIP enabled
// (codec.WithGZIP), the recommended default when encoding payloads with
// long repetitive strings.
func NewCompressingEncoder(opts ...codec.Option) (*codec.Encoder, error) {
	return codec.NewEncoder(append(opts, codec.WithGZIP())...)
}

// NewDecoder constructs a Decoder over input with the given options.
func NewDecoder(input []byte, opts ...codec.DecoderOption) (*codec.Decoder, error) {
	return codec.NewDecoder(input, opts...)
}

// Encode is a one-shot convenience wrapper: build a default Encoder,
// encode value, and return its bytes. For repeated encoding, construct
// an Encoder with NewEncoder and reuse it instead -- each call here
// pays the cost of a fresh dictionary and buffer.
func Encode(value any, opts ...codec.Option) ([]byte, error) {
	enc, err := codec.NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return enc.Encode(value)
}

// Decode is a one-shot convenience wrapper: build a default Decoder
// over input and read its single top-level value.
func Decode(input []byte, opts ...codec.DecoderOption) (any, error) {
	dec, err := codec.NewDecoder(input, opts...)
	if err != nil {
		return nil, err
	}

	return dec.ReadValue()
}
