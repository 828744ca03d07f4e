// Package compress provides pluggable byte-slice compression, distinct
// from the core codec's fixed GZIP (raw DEFLATE) constructor tag (see
// package codec). It exists for host extensions that want their own
// compressed-payload type token: the CompressedString extension in
// package ext is built on this package's Codec interface.
//
// Four codecs are available, selected by CompressionType:
//
//   - None: passthrough, for testing or already-compressed data
//   - S2 (github.com/klauspost/compress/s2): fast, moderate ratio
//   - LZ4 (github.com/pierrec/lz4/v4): very fast decompression
//   - Zstd (github.com/klauspost/compress/zstd): best ratio, pure Go
//
// CreateCodec and GetCodec build or look up a Codec by CompressionType;
// all four concrete implementations also satisfy Codec directly.
package compress
