// Package stream adapts the codec to chunked I/O (spec §4.6). It is an
// external collaborator over the core codec: FrameWriter encodes each
// value independently and writes the resulting bytes as one frame;
// FrameReader consumes concatenated frames from arbitrarily-sized
// chunks, retaining an incomplete tail and retrying once more bytes
// arrive.
package stream
