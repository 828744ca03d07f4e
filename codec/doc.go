// Package codec implements the tlcodec core: the Encoder and Decoder
// that translate between host value trees and the constructor-tagged
// byte grammar defined in package wire. This is the hard engineering
// surface the rest of the module (package stream, package ext's demo
// extensions, cmd/tlcodec) is built on top of: constructor dispatch,
// varint length prefixing, dictionary wiring, repeat-run compression,
// GZIP sub-object embedding, extension dispatch, and buffer growth.
//
// An Encoder and a Decoder are single-threaded and stateful: Encode
// resets per-call state (write offset, repeat run, last scalar) but
// retains its backing buffer and dictionary across calls, so a shared
// dictionary can be seeded once and reused for many encode/decode calls
// (spec §3, "Lifecycle").
package codec
