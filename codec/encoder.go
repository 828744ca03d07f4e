package codec

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/tlcodec/tlcodec/dict"
	"github.com/tlcodec/tlcodec/endian"
	"github.com/tlcodec/tlcodec/errs"
	"github.com/tlcodec/tlcodec/ext"
	"github.com/tlcodec/tlcodec/internal/buffer"
	"github.com/tlcodec/tlcodec/internal/options"
	"github.com/tlcodec/tlcodec/wire"
)

// wireEndian is the byte order of every fixed-width field on the wire
// (spec §3: "little-endian" throughout). Routed through endian.EndianEngine
// rather than encoding/binary directly so the choice is made in one
// place and the fixed-width read/write helpers below read symmetrically.
var wireEndian = endian.GetLittleEndianEngine()

// Encoder writes host values as a constructor-tagged byte stream. The
// zero value is not usable; construct one with NewEncoder.
type Encoder struct {
	buf *buffer.Buffer
	off int

	dict *dict.Dictionary
	ext  *ext.Registry
	gzip bool

	lastValid bool
	last      scalarKey
	run       *repeatRun

	initialSize int
}

// repeatRun tracks the in-progress Repeat marker being extended as
// consecutive equal scalars arrive (spec §4.3.1).
type repeatRun struct {
	lengthOffset int // position of the run's length-prefix byte(s)
	count        int // additional repetitions recorded so far
	end          int // write offset just past the run's length prefix
}

// Option configures an Encoder built by NewEncoder.
type Option = options.Option[*Encoder]

// DecoderOption configures a Decoder. Kept distinct from Option since
// an Encoder-only setting (WithGZIP) makes no sense on the read side.
type DecoderOption = options.Option[*Decoder]

// WithDictionary seeds the Encoder with a pre-built dictionary, shared
// by reference so index assignments made while encoding are visible to
// the caller (and to any Decoder sharing the same Dictionary).
func WithDictionary(d *dict.Dictionary) Option {
	return options.NoError(func(e *Encoder) { e.dict = d })
}

// WithExtensions registers the extension table used for values that
// match no core type.
func WithExtensions(r *ext.Registry) Option {
	return options.NoError(func(e *Encoder) { e.ext = r })
}

// WithGZIP enables per-value compression for the tags in the
// compressible set (currently just String; spec §4.3.2).
func WithGZIP() Option {
	return options.NoError(func(e *Encoder) { e.gzip = true })
}

// WithInitialBufferSize overrides the encoder's starting buffer
// capacity; useful when the caller has a good estimate of typical
// payload size and wants to avoid early reallocations.
func WithInitialBufferSize(n int) Option {
	return options.New(func(e *Encoder) error {
		if n <= 0 {
			return fmt.Errorf("tlcodec: initial buffer size must be positive, got %d", n)
		}
		e.initialSize = n
		return nil
	})
}

// NewEncoder constructs an Encoder. Without WithDictionary, an empty,
// unseeded dictionary is created; without WithExtensions, the
// extension table is empty and any value matching no core type fails
// encoding with errs.ErrInvalidType.
func NewEncoder(opts ...Option) (*Encoder, error) {
	e := &Encoder{
		dict:        dict.New(nil),
		ext:         ext.NewRegistry(),
		initialSize: wire.InitialBufferSize,
	}

	if err := options.Apply[*Encoder](e, opts...); err != nil {
		return nil, err
	}

	e.buf = buffer.New(e.initialSize)

	return e, nil
}

// Dictionary returns the encoder's dictionary, for sharing with a
// Decoder or inspecting via Fingerprint.
func (e *Encoder) Dictionary() *dict.Dictionary {
	return e.dict
}

// Encode resets the encoder's per-call state (write offset, repeat run,
// last scalar) and writes value as a single framed object. The returned
// slice aliases the encoder's internal buffer and is only valid until
// the next call to Encode.
func (e *Encoder) Encode(value any) ([]byte, error) {
	e.buf.Reset()
	e.off = 0
	e.lastValid = false
	e.run = nil

	if err := e.WriteValue(value); err != nil {
		return nil, err
	}

	return e.buf.Slice(0, e.off), nil
}

// WriteValue writes value at the encoder's current position without
// resetting any encoder state, recursing through dispatch exactly as
// Encode does for its top-level value. It is the primitive vector and
// map element writers use, and is exported for extension authors and
// callers driving StartDynamicVector/EndDynamicVector directly.
func (e *Encoder) WriteValue(value any) error {
	key, isScalar := toScalarKey(value)

	if isScalar {
		if e.lastValid && key == e.last {
			return e.emitRepeat()
		}
		e.last = key
		e.lastValid = true
		e.run = nil
	} else {
		e.lastValid = false
		e.run = nil
	}

	core := inferCore(value)
	if core.ok {
		err := e.writeCore(core.tag, core.payload)
		if !isScalar {
			// Writing a container (or anything else non-scalar) recurses
			// into WriteValue for its elements, which freely overwrite
			// lastValid/last/run. A container is never itself a repeat
			// target (spec §4.3.1), so that state must not leak past its
			// closing byte onto a scalar sibling that follows.
			e.lastValid = false
			e.run = nil
		}
		return err
	}

	for _, extension := range e.ext.EncodeOrder() {
		intermediate, claimed := extension.Encode(value)
		if !claimed {
			continue
		}

		if !extension.IsFallback() {
			if err := e.writeByteRaw(byte(extension.Token)); err != nil {
				return err
			}
		}

		err := e.WriteValue(intermediate)
		if !isScalar {
			e.lastValid = false
			e.run = nil
		}
		return err
	}

	return fmt.Errorf("%w: %T", errs.ErrInvalidType, value)
}

// emitRepeat extends or starts the Repeat run for the scalar just seen
// again, per spec §4.3.1: the first repeat of a value rewinds nothing
// (the original value's bytes are already on the wire) and instead
// appends a Repeat tag with count 1; each subsequent repeat rewinds to
// the run's length-prefix and rewrites a larger count in place. A run
// is only extended while nothing else (such as a map key) has been
// written after it; otherwise a new Repeat tag starts a fresh run.
func (e *Encoder) emitRepeat() error {
	if e.run == nil || e.run.end != e.off {
		if err := e.writeTag(wire.Repeat); err != nil {
			return err
		}

		offset := e.off
		if err := e.writeLength(1); err != nil {
			return err
		}

		e.run = &repeatRun{lengthOffset: offset, count: 1, end: e.off}

		return nil
	}

	e.run.count++
	e.off = e.run.lengthOffset

	if err := e.writeLength(e.run.count); err != nil {
		return err
	}
	e.run.end = e.off

	return nil
}

// writeCore writes value (already narrowed to tag/payload by
// inferCore) through the GZIP compression hook, the dictionary
// interning policy for short strings, or the plain per-tag payload
// writer, in that order of precedence (spec §4.3).
func (e *Encoder) writeCore(tag wire.Tag, payload any) error {
	if e.gzip && isCompressible(tag) {
		return e.writeGZIPWrapped(payload)
	}

	if _, noPayload := wire.NoPayload[tag]; !noPayload {
		if err := e.writeTag(tag); err != nil {
			return err
		}
	}

	switch tag {
	case wire.BoolTrue, wire.BoolFalse, wire.Null:
		return e.writeTag(tag)
	case wire.Int8:
		return e.writeByteRaw(byte(payload.(int8)))
	case wire.Int16:
		return e.writeFixed16(uint16(payload.(int16)))
	case wire.Int32:
		return e.writeFixed32(uint32(payload.(int32)))
	case wire.UInt8:
		return e.writeByteRaw(payload.(uint8))
	case wire.UInt16:
		return e.writeFixed16(payload.(uint16))
	case wire.UInt32:
		return e.writeFixed32(payload.(uint32))
	case wire.Float:
		return e.writeFixed32(math.Float32bits(payload.(float32)))
	case wire.Double:
		return e.writeFixed64(math.Float64bits(payload.(float64)))
	case wire.Date:
		return e.writeDatePayload(payload.(time.Time))
	case wire.Binary:
		return e.writeLengthPrefixed(payload.([]byte))
	case wire.String:
		return e.writeStringPayload(payload.(string))
	case wire.Vector:
		return e.writeVectorPayload(payload.([]any))
	case wire.Map:
		return e.writeMapPayload(payload.(map[string]any))
	default:
		return fmt.Errorf("%w: unhandled core tag %s", errs.ErrInvalidType, tag)
	}
}

// isCompressible reports whether tag is in the automatic per-value
// GZIP trigger set. Currently only String; GZIP itself can still wrap
// any value when invoked manually through WriteGZIP.
func isCompressible(tag wire.Tag) bool {
	return tag == wire.String
}

// writeStringPayload applies the short-string dictionary interning
// policy (spec §4.3, "String interning policy"): a string of code-point
// length at most wire.ShortStringThreshold is rewritten through the
// dictionary path instead of being emitted inline. Code points, not
// UTF-8 bytes, are the closest Go analogue of the spec's UTF-16
// code-unit length for this threshold.
func (e *Encoder) writeStringPayload(s string) error {
	if utf8.RuneCountInString(s) <= wire.ShortStringThreshold {
		e.off-- // undo the String tag byte writeCore already emitted
		return e.wireDictionary(s)
	}

	return e.writeLengthPrefixed([]byte(s))
}

// wireDictionary writes s through the two-tier dictionary: a DictIndex
// if s is already known (seed or extended tier), else a DictValue that
// also registers s into the extended tier. Used for every map key and
// for short strings.
func (e *Encoder) wireDictionary(s string) error {
	if idx, ok := e.dict.GetIndex(s); ok {
		if err := e.writeTag(wire.DictIndex); err != nil {
			return err
		}
		return e.writeLength(idx)
	}

	idx, _ := e.dict.MaybeInsert(s)
	_ = idx

	if err := e.writeTag(wire.DictValue); err != nil {
		return err
	}

	return e.writeLengthPrefixed([]byte(s))
}

// writeVectorPayload writes a statically-sized vector: a length prefix
// followed by exactly that many recursively-written values.
func (e *Encoder) writeVectorPayload(values []any) error {
	if err := e.writeLength(len(values)); err != nil {
		return err
	}

	for _, v := range values {
		if err := e.WriteValue(v); err != nil {
			return err
		}
	}

	return nil
}

// writeMapPayload writes each key through the dictionary (always,
// regardless of length) and each value through the ordinary recursive
// dispatch, terminated by a None tag.
func (e *Encoder) writeMapPayload(m map[string]any) error {
	for k, v := range m {
		if err := e.wireDictionary(k); err != nil {
			return err
		}
		if err := e.WriteValue(v); err != nil {
			return err
		}
	}

	return e.writeTag(wire.None)
}

// StartDynamicVector emits a VectorDynamic tag. The caller writes an
// arbitrary number of values with WriteValue and closes the vector with
// EndDynamicVector; these calls nest freely.
func (e *Encoder) StartDynamicVector() error {
	return e.writeTag(wire.VectorDynamic)
}

// EndDynamicVector emits the None terminator closing the innermost open
// dynamic vector.
func (e *Encoder) EndDynamicVector() error {
	return e.writeTag(wire.None)
}

// WriteGZIP manually wraps value in a GZIP envelope: a child encoder,
// sharing this encoder's dictionary and extensions, encodes value into
// its own buffer, and the result is emitted as a length-prefixed
// raw-DEFLATE payload (spec §4.3.2). Unlike the automatic per-String
// trigger, this works for any value, including containers.
func (e *Encoder) WriteGZIP(value any) error {
	return e.writeGZIPWrapped(value)
}

func (e *Encoder) writeDatePayload(t time.Time) error {
	seconds := float64(t.UnixNano()) / 1e9
	return e.writeFixed64(math.Float64bits(seconds))
}

// --- low-level raw writers ---

func (e *Encoder) writeRaw(data []byte) error {
	if err := e.buf.WriteAt(e.off, data); err != nil {
		return err
	}
	e.off += len(data)
	return nil
}

func (e *Encoder) writeByteRaw(b byte) error {
	return e.writeRaw([]byte{b})
}

func (e *Encoder) writeTag(t wire.Tag) error {
	return e.writeByteRaw(byte(t))
}

func (e *Encoder) writeFixed16(v uint16) error {
	var b [2]byte
	wireEndian.PutUint16(b[:], v)
	return e.writeRaw(b[:])
}

func (e *Encoder) writeFixed32(v uint32) error {
	var b [4]byte
	wireEndian.PutUint32(b[:], v)
	return e.writeRaw(b[:])
}

func (e *Encoder) writeFixed64(v uint64) error {
	var b [8]byte
	wireEndian.PutUint64(b[:], v)
	return e.writeRaw(b[:])
}

// writeLength writes n as a varint length prefix: n directly as one
// byte if n <= wire.LengthDirectMax, else wire.LengthExtended followed
// by a little-endian uint24 (spec §3, "Length prefix").
func (e *Encoder) writeLength(n int) error {
	if n < 0 || n > wire.MaxLength {
		return fmt.Errorf("%w: length %d exceeds %d", errs.ErrBufferTooLarge, n, wire.MaxLength)
	}

	if n <= wire.LengthDirectMax {
		return e.writeByteRaw(byte(n))
	}

	var b [4]byte
	b[0] = wire.LengthExtended
	b[1] = byte(n)
	b[2] = byte(n >> 8)
	b[3] = byte(n >> 16)

	return e.writeRaw(b[:])
}

func (e *Encoder) writeLengthPrefixed(data []byte) error {
	if err := e.writeLength(len(data)); err != nil {
		return err
	}
	return e.writeRaw(data)
}

// --- typed writer primitives, usable directly by extension authors
// building an intermediate representation by hand instead of handing
// Encode a plain Go value. ---

func (e *Encoder) WriteBool(v bool) error {
	if v {
		return e.writeTag(wire.BoolTrue)
	}
	return e.writeTag(wire.BoolFalse)
}

func (e *Encoder) WriteNull() error {
	return e.writeTag(wire.Null)
}

func (e *Encoder) WriteInt8(v int8) error {
	if err := e.writeTag(wire.Int8); err != nil {
		return err
	}
	return e.writeByteRaw(byte(v))
}

func (e *Encoder) WriteInt16(v int16) error {
	if err := e.writeTag(wire.Int16); err != nil {
		return err
	}
	return e.writeFixed16(uint16(v))
}

func (e *Encoder) WriteInt32(v int32) error {
	if err := e.writeTag(wire.Int32); err != nil {
		return err
	}
	return e.writeFixed32(uint32(v))
}

func (e *Encoder) WriteUint8(v uint8) error {
	if err := e.writeTag(wire.UInt8); err != nil {
		return err
	}
	return e.writeByteRaw(v)
}

func (e *Encoder) WriteUint16(v uint16) error {
	if err := e.writeTag(wire.UInt16); err != nil {
		return err
	}
	return e.writeFixed16(v)
}

func (e *Encoder) WriteUint32(v uint32) error {
	if err := e.writeTag(wire.UInt32); err != nil {
		return err
	}
	return e.writeFixed32(v)
}

func (e *Encoder) WriteFloat32(v float32) error {
	if err := e.writeTag(wire.Float); err != nil {
		return err
	}
	return e.writeFixed32(math.Float32bits(v))
}

func (e *Encoder) WriteFloat64(v float64) error {
	if err := e.writeTag(wire.Double); err != nil {
		return err
	}
	return e.writeFixed64(math.Float64bits(v))
}

func (e *Encoder) WriteDate(t time.Time) error {
	if err := e.writeTag(wire.Date); err != nil {
		return err
	}
	return e.writeDatePayload(t)
}

func (e *Encoder) WriteBytes(data []byte) error {
	if err := e.writeTag(wire.Binary); err != nil {
		return err
	}
	return e.writeLengthPrefixed(data)
}

func (e *Encoder) WriteString(s string) error {
	return e.WriteValue(s)
}

func (e *Encoder) WriteLength(n int) error {
	return e.writeLength(n)
}

// TellPosition returns the encoder's current write offset.
func (e *Encoder) TellPosition() int {
	return e.off
}
