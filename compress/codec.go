package compress

import (
	"fmt"

	"github.com/tlcodec/tlcodec/wire"
)

// Compressor compresses a byte slice; the input is never modified.
//
// Memory management:
//   - Returned slice is owned by the caller; it is newly allocated,
//     except that NoOpCompressor returns the input slice itself
//   - Input slice is not modified
//   - Internal buffers may be reused for efficiency
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
//
// Error conditions:
//   - Returns an error if the input is corrupted or truncated
//   - Returns an error if the input was compressed with a different algorithm
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of a single compression algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec constructs a fresh Codec for compressionType. target
// names the caller for error messages (e.g. an extension's name).
func CreateCodec(compressionType wire.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case wire.CompressionNone:
		return NewNoOpCompressor(), nil
	case wire.CompressionS2:
		return NewS2Compressor(), nil
	case wire.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case wire.CompressionZstd:
		return NewZstdCompressor(), nil
	default:
		return nil, fmt.Errorf("tlcodec: invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[wire.CompressionType]Codec{
	wire.CompressionNone: &NoOpCompressor{},
	wire.CompressionS2:   &S2Compressor{},
	wire.CompressionLZ4:  &LZ4Compressor{},
	wire.CompressionZstd: &ZstdCompressor{},
}

// GetCodec returns the shared built-in Codec for compressionType. The
// built-ins are stateless and safe to share, so GetCodec avoids
// allocating a new one per call for the common case.
func GetCodec(compressionType wire.CompressionType) (Codec, error) {
	if c, ok := builtinCodecs[compressionType]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("tlcodec: unsupported compression type: %s", compressionType)
}
