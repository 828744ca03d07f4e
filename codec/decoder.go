package codec

import (
	"fmt"
	"math"
	"time"

	"github.com/tlcodec/tlcodec/dict"
	"github.com/tlcodec/tlcodec/errs"
	"github.com/tlcodec/tlcodec/ext"
	"github.com/tlcodec/tlcodec/internal/options"
	"github.com/tlcodec/tlcodec/wire"
)

// Decoder reads a constructor-tagged byte stream back into host
// values. The zero value is not usable; construct one with NewDecoder.
type Decoder struct {
	input []byte
	off   int

	dict *dict.Dictionary
	ext  *ext.Registry

	lastValid bool
	lastValue any
	repeatLeft int
}

// WithDecoderDictionary seeds the Decoder with a pre-built dictionary,
// shared by reference with whatever Encoder produced (or will produce)
// the stream, so DictIndex references resolve consistently.
func WithDecoderDictionary(d *dict.Dictionary) DecoderOption {
	return options.NoError(func(dec *Decoder) { dec.dict = d })
}

// WithDecoderExtensions registers the extension table used to dispatch
// tag bytes outside the core range.
func WithDecoderExtensions(r *ext.Registry) DecoderOption {
	return options.NoError(func(dec *Decoder) { dec.ext = r })
}

// NewDecoder constructs a Decoder over input. Decoding consumes input
// from the front; TellPosition/SetPosition/Seek let a caller inspect or
// rewind the read cursor.
func NewDecoder(input []byte, opts ...DecoderOption) (*Decoder, error) {
	d := &Decoder{
		input: input,
		dict:  dict.New(nil),
		ext:   ext.NewRegistry(),
	}

	if err := options.Apply[*Decoder](d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// Dictionary returns the decoder's dictionary.
func (d *Decoder) Dictionary() *dict.Dictionary {
	return d.dict
}

// Reset rebinds the decoder to a new input slice and clears read
// position and repeat/last state, while keeping its dictionary and
// extension table. Used by the framing layer (package stream) to reuse
// one Decoder across many incoming frames.
func (d *Decoder) Reset(input []byte) {
	d.input = input
	d.off = 0
	d.lastValid = false
	d.lastValue = nil
	d.repeatLeft = 0
}

// TellPosition returns the decoder's current read offset into its
// input slice.
func (d *Decoder) TellPosition() int {
	return d.off
}

// SetPosition moves the read cursor to an absolute offset.
func (d *Decoder) SetPosition(n int) {
	d.off = n
}

// Seek moves the read cursor by a relative offset.
func (d *Decoder) Seek(delta int) {
	d.off += delta
}

// Remaining returns the number of unread bytes left in the input.
func (d *Decoder) Remaining() int {
	return len(d.input) - d.off
}

// ReadValue reads and returns the next value from the stream: a
// pending Repeat dispenses the remembered last value without consuming
// any bytes; otherwise the next tag byte is read and dispatched to
// either a registered extension or the core decoder. Scalar-eligible
// core values (never extension-decoded ones, and never containers,
// per spec §4.3/§4.3.1) become the new "last" value for any following
// Repeat.
func (d *Decoder) ReadValue() (any, error) {
	if d.repeatLeft > 0 {
		d.repeatLeft--
		return d.lastValue, nil
	}

	tag, err := d.readTagByte()
	if err != nil {
		return nil, err
	}

	return d.decodeGivenTag(tag)
}

// decodeGivenTag decodes the value for a tag byte already consumed
// from the stream, dispatching to a registered extension or the core
// decoder, and updates the repeat "last value" for core-decoded results
// (spec §4.3: "otherwise call readCore(tag), store result as
// _lastObject"; extension-decoded values are deliberately excluded).
// Among core-decoded results, only scalar-eligible ones are kept as the
// repeat target; a container is never a valid Repeat value (spec
// §4.3.1).
func (d *Decoder) decodeGivenTag(tag byte) (any, error) {
	if extension, ok := d.ext.ByToken(int(tag)); ok {
		return extension.Decode(d.ReadValue)
	}

	v, err := d.readCore(wire.Tag(tag))
	if err != nil {
		return nil, err
	}

	// Only a scalar-eligible result becomes a repeat target, mirroring
	// the encoder's toScalarKey check on the host value before it ever
	// reaches writeCore (spec §4.3.1). A Vector/VectorDynamic/Map/Binary
	// result - or a GZIP payload that unwrapped to one of those - must
	// not let a later sibling scalar collapse into a Repeat against it.
	if _, isScalar := toScalarKey(v); isScalar {
		d.lastValid = true
		d.lastValue = v
	} else {
		d.lastValid = false
		d.lastValue = nil
	}

	return v, nil
}

// readCore decodes the payload for a non-extension tag.
func (d *Decoder) readCore(tag wire.Tag) (any, error) {
	if wire.IsReserved(tag) {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidConstructor, tag)
	}

	switch tag {
	case wire.None:
		// Transparent outside of Map/VectorDynamic's own terminator
		// handling, which never reaches this path (spec §3, None's
		// third role: "elsewhere, skip and recurse").
		return d.ReadValue()

	case wire.Repeat:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		d.repeatLeft = n - 1
		return d.lastValue, nil

	case wire.BoolTrue:
		return true, nil
	case wire.BoolFalse:
		return false, nil
	case wire.Null:
		return nil, nil

	case wire.Int8:
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return int8(b), nil
	case wire.Int16:
		v, err := d.readFixed16()
		if err != nil {
			return nil, err
		}
		return int16(v), nil
	case wire.Int32:
		v, err := d.readFixed32()
		if err != nil {
			return nil, err
		}
		return int32(v), nil
	case wire.UInt8:
		return d.readByte()
	case wire.UInt16:
		return d.readFixed16()
	case wire.UInt32:
		return d.readFixed32()
	case wire.Float:
		v, err := d.readFixed32()
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(v), nil
	case wire.Double:
		v, err := d.readFixed64()
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(v), nil
	case wire.Date:
		v, err := d.readFixed64()
		if err != nil {
			return nil, err
		}
		return dateFromSeconds(math.Float64frombits(v)), nil

	case wire.Binary:
		return d.readLengthPrefixed()

	case wire.String:
		raw, err := d.readLengthPrefixed()
		if err != nil {
			return nil, err
		}
		return string(raw), nil

	case wire.DictValue:
		raw, err := d.readLengthPrefixed()
		if err != nil {
			return nil, err
		}
		s := string(raw)
		d.dict.MaybeInsert(s)
		return s, nil

	case wire.DictIndex:
		idx, err := d.readLength()
		if err != nil {
			return nil, err
		}
		s, ok := d.dict.GetValue(idx)
		if !ok {
			return nil, fmt.Errorf("%w: index %d", errs.ErrDictionaryMiss, idx)
		}
		return s, nil

	case wire.Vector:
		return d.readVector()

	case wire.VectorDynamic:
		return d.readVectorDynamic()

	case wire.Map:
		return d.readMap()

	case wire.GZIP:
		return d.readGZIP()

	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidConstructor, tag)
	}
}

func dateFromSeconds(seconds float64) time.Time {
	sec := math.Floor(seconds)
	nsec := (seconds - sec) * 1e9
	return time.Unix(int64(sec), int64(nsec)).UTC()
}

func (d *Decoder) readVector() (any, error) {
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}

	vals := make([]any, n)
	for i := 0; i < n; i++ {
		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	return vals, nil
}

// readVectorDynamic reads values until a top-level None terminator. It
// cannot simply call ReadValue in a loop, since ReadValue's None case
// transparently skips and recurses; a dynamic vector needs to detect
// that same tag byte as ITS terminator instead, so it inspects the tag
// itself before deciding to recurse into the shared dispatch helper.
func (d *Decoder) readVectorDynamic() (any, error) {
	vals := make([]any, 0)

	for {
		if d.repeatLeft > 0 {
			v, err := d.ReadValue()
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
			continue
		}

		tag, err := d.readTagByte()
		if err != nil {
			return nil, err
		}

		if wire.Tag(tag) == wire.None {
			break
		}

		v, err := d.decodeGivenTag(tag)
		if err != nil {
			return nil, err
		}

		vals = append(vals, v)
	}

	return vals, nil
}

func (d *Decoder) readMap() (any, error) {
	m := make(map[string]any)

	for {
		key, isEnd, err := d.readDictionaryKey()
		if err != nil {
			return nil, err
		}
		if isEnd {
			break
		}

		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}

		m[key] = v
	}

	return m, nil
}

// readDictionaryKey reads one Map key: a DictIndex or DictValue tag
// resolves to a string; a None tag (or any other tag, defensively
// rewound) ends the map.
func (d *Decoder) readDictionaryKey() (key string, isEnd bool, err error) {
	tag, err := d.readTagByte()
	if err != nil {
		return "", false, err
	}

	switch wire.Tag(tag) {
	case wire.DictIndex:
		idx, err := d.readLength()
		if err != nil {
			return "", false, err
		}
		s, ok := d.dict.GetValue(idx)
		if !ok {
			return "", false, fmt.Errorf("%w: index %d", errs.ErrDictionaryMiss, idx)
		}
		return s, false, nil

	case wire.DictValue:
		raw, err := d.readLengthPrefixed()
		if err != nil {
			return "", false, err
		}
		s := string(raw)
		d.dict.MaybeInsert(s)
		return s, false, nil

	case wire.None:
		return "", true, nil

	default:
		d.off--
		return "", true, nil
	}
}

func (d *Decoder) readGZIP() (any, error) {
	compressed, err := d.readLengthPrefixed()
	if err != nil {
		return nil, err
	}

	raw, err := inflateRaw(compressed)
	if err != nil {
		return nil, fmt.Errorf("tlcodec: gzip decompress: %w", err)
	}

	child := &Decoder{input: raw, dict: d.dict, ext: d.ext}

	return child.ReadValue()
}

// --- low-level raw readers ---

func (d *Decoder) ensure(n int) error {
	if d.Remaining() < n {
		return &errs.IncompleteError{
			Required:  n,
			Available: d.Remaining(),
			Partial:   d.input[d.off:],
		}
	}
	return nil
}

func (d *Decoder) readByte() (byte, error) {
	if err := d.ensure(1); err != nil {
		return 0, err
	}
	b := d.input[d.off]
	d.off++
	return b, nil
}

func (d *Decoder) readTagByte() (byte, error) {
	return d.readByte()
}

func (d *Decoder) readFixed16() (uint16, error) {
	if err := d.ensure(2); err != nil {
		return 0, err
	}
	v := wireEndian.Uint16(d.input[d.off:])
	d.off += 2
	return v, nil
}

func (d *Decoder) readFixed32() (uint32, error) {
	if err := d.ensure(4); err != nil {
		return 0, err
	}
	v := wireEndian.Uint32(d.input[d.off:])
	d.off += 4
	return v, nil
}

func (d *Decoder) readFixed64() (uint64, error) {
	if err := d.ensure(8); err != nil {
		return 0, err
	}
	v := wireEndian.Uint64(d.input[d.off:])
	d.off += 8
	return v, nil
}

// readLength reads a varint length prefix: a direct byte if it is at
// most wire.LengthDirectMax, else wire.LengthExtended followed by a
// little-endian uint24. wire.LengthReserved (255) is never valid.
func (d *Decoder) readLength() (int, error) {
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}

	switch {
	case int(b) <= wire.LengthDirectMax:
		return int(b), nil

	case b == wire.LengthExtended:
		if err := d.ensure(3); err != nil {
			return 0, err
		}
		n := int(d.input[d.off]) | int(d.input[d.off+1])<<8 | int(d.input[d.off+2])<<16
		d.off += 3
		return n, nil

	case b == wire.LengthReserved:
		return 0, fmt.Errorf("%w: reserved length prefix byte", errs.ErrInvalidConstructor)

	default:
		return 0, fmt.Errorf("%w: reserved length prefix %d", errs.ErrInvalidConstructor, b)
	}
}

func (d *Decoder) readLengthPrefixed() ([]byte, error) {
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}

	if err := d.ensure(n); err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, d.input[d.off:d.off+n])
	d.off += n

	return out, nil
}
