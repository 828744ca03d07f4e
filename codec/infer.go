package codec

import (
	"math"
	"time"

	"github.com/tlcodec/tlcodec/wire"
)

// corePayload is what writeCore needs to emit a value once its tag has
// been decided: the tag itself, plus any payload left to write (nil for
// no-payload tags; for containers, the slice or map itself, whose
// elements writeCore hands back to WriteValue one by one).
type corePayload struct {
	tag     wire.Tag
	payload any
	ok      bool
}

// inferCore implements the host-type-to-wire-tag mapping of spec §4.5:
// booleans and null map directly, strings and binary map directly,
// dates map directly, vectors and maps map directly, and numbers are
// narrowed to the smallest tag that exactly represents them, preferring
// unsigned over signed, and falling back to Double when no fixed-width
// integer tag fits or the value is non-integral.
func inferCore(value any) corePayload {
	switch v := value.(type) {
	case nil:
		return corePayload{tag: wire.Null, ok: true}
	case bool:
		if v {
			return corePayload{tag: wire.BoolTrue, ok: true}
		}
		return corePayload{tag: wire.BoolFalse, ok: true}
	case string:
		return corePayload{tag: wire.String, payload: v, ok: true}
	case []byte:
		return corePayload{tag: wire.Binary, payload: v, ok: true}
	case time.Time:
		return corePayload{tag: wire.Date, payload: v, ok: true}
	case []any:
		return corePayload{tag: wire.Vector, payload: v, ok: true}
	case map[string]any:
		return corePayload{tag: wire.Map, payload: v, ok: true}

	// float32 is the caller's explicit request for the single-precision
	// Float tag (spec §4.5: "Float is reserved for explicit use"); it is
	// never narrowed to an integer tag even when it holds an integral
	// value, since there would otherwise be no way to reach Float at all
	// through ordinary Encode calls.
	case float32:
		return corePayload{tag: wire.Float, payload: v, ok: true}

	case float64:
		return inferFloat64(v)

	case int:
		return inferSigned(int64(v))
	case int8:
		return inferSigned(int64(v))
	case int16:
		return inferSigned(int64(v))
	case int32:
		return inferSigned(int64(v))
	case int64:
		return inferSigned(v)
	case uint:
		return inferUnsigned(uint64(v))
	case uint8:
		return inferUnsigned(uint64(v))
	case uint16:
		return inferUnsigned(uint64(v))
	case uint32:
		return inferUnsigned(uint64(v))
	case uint64:
		return inferUnsigned(v)

	default:
		return corePayload{}
	}
}

// inferFloat64 narrows a float64 to an integer tag when it is
// mathematically integral and representable exactly as an int64 or
// uint64, matching the dynamic-number narrowing rule of spec §4.5's
// worked examples (a plain 256.0 narrows to UInt16 just as the integer
// 256 would). Anything else, including non-finite values, is emitted
// as Double.
func inferFloat64(v float64) corePayload {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return corePayload{tag: wire.Double, payload: v, ok: true}
	}

	if math.Trunc(v) != v {
		return corePayload{tag: wire.Double, payload: v, ok: true}
	}

	switch {
	case v >= math.MinInt64 && v <= math.MaxInt64:
		return inferSigned(int64(v))
	case v > 0 && v <= math.MaxUint64:
		return inferUnsigned(uint64(v))
	default:
		return corePayload{tag: wire.Double, payload: v, ok: true}
	}
}

// inferSigned narrows n to the smallest tag that represents it exactly,
// preferring an unsigned tag when n is non-negative (spec §4.5: "prefer
// unsigned tags when both fit").
func inferSigned(n int64) corePayload {
	if n >= 0 {
		return inferUnsigned(uint64(n))
	}

	switch {
	case n >= math.MinInt8:
		return corePayload{tag: wire.Int8, payload: int8(n), ok: true}
	case n >= math.MinInt16:
		return corePayload{tag: wire.Int16, payload: int16(n), ok: true}
	case n >= math.MinInt32:
		return corePayload{tag: wire.Int32, payload: int32(n), ok: true}
	default:
		return corePayload{tag: wire.Double, payload: float64(n), ok: true}
	}
}

// inferUnsigned narrows a non-negative value to the smallest unsigned
// tag, falling back to Double once it exceeds UInt32's range (spec §4.5
// has no 64-bit integer tag).
func inferUnsigned(n uint64) corePayload {
	switch {
	case n <= math.MaxUint8:
		return corePayload{tag: wire.UInt8, payload: uint8(n), ok: true}
	case n <= math.MaxUint16:
		return corePayload{tag: wire.UInt16, payload: uint16(n), ok: true}
	case n <= math.MaxUint32:
		return corePayload{tag: wire.UInt32, payload: uint32(n), ok: true}
	default:
		return corePayload{tag: wire.Double, payload: float64(n), ok: true}
	}
}
