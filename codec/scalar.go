package codec

import "time"

// scalarKey is the canonical, comparable form of a value eligible for
// repeat-run collapsing: numbers, strings, booleans, null and dates
// (spec §4.3.1, "only immutable scalars ... reasonably trigger this").
// Integers compare equal here whatever Go integer type the host passed
// them as (int(7) and uint8(7) share a key), since the repeat run is a
// wire-level optimization, not a Go identity check. Keys of different
// kinds never compare equal: a float64 never matches an integer, even
// an integral one that narrows to the same tag, and a date never
// matches a number.
type scalarKey struct {
	isNull  bool
	payload any
}

// dateKey keeps a date's key distinct from an integer key holding the
// same int64.
type dateKey int64

// toScalarKey returns the canonical key for value and true, or a zero
// key and false if value is a container (vector, map, binary) or an
// unrecognized type that must never participate in repeat collapsing.
func toScalarKey(value any) (scalarKey, bool) {
	switch v := value.(type) {
	case nil:
		return scalarKey{isNull: true}, true
	case bool:
		return scalarKey{payload: v}, true
	case string:
		return scalarKey{payload: v}, true
	case time.Time:
		return scalarKey{payload: dateKey(v.UnixNano())}, true
	case float32:
		return scalarKey{payload: v}, true
	case float64:
		return scalarKey{payload: v}, true
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		n, ok := normalizeInt(v)
		if !ok {
			return scalarKey{}, false
		}
		return scalarKey{payload: n}, true
	default:
		return scalarKey{}, false
	}
}

// normalizeInt widens any Go integer type to int64, except uint64
// values above math.MaxInt64 which keep their own uint64 key so two
// very large unsigned values still compare correctly against each
// other (they would silently collide with negative int64s otherwise).
func normalizeInt(v any) (any, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return normalizeUint64(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return normalizeUint64(n)
	default:
		return nil, false
	}
}

func normalizeUint64(n uint64) (any, bool) {
	const maxInt64 = 1<<63 - 1
	if n <= maxInt64 {
		return int64(n), true
	}
	return n, true
}
