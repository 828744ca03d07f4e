package wire

const (
	// MaxLength is the largest value a length prefix can carry: a leading
	// byte of 254 followed by a little-endian uint24. 255 is reserved.
	MaxLength = 1<<24 - 1

	// LengthDirectMax is the largest length encodable in the single
	// leading byte (no uint24 extension).
	LengthDirectMax = 253

	// LengthExtended is the sentinel leading byte signaling a following
	// 3-byte little-endian length.
	LengthExtended = 254

	// LengthReserved (255) must never be emitted or accepted as a length
	// prefix lead byte.
	LengthReserved = 255

	// ShortStringThreshold is the inclusive length in code points (runes)
	// at or under which the encoder interns a String through the
	// dictionary path instead of emitting it inline.
	ShortStringThreshold = 16

	// InitialBufferSize is the encoder's recommended starting buffer
	// capacity.
	InitialBufferSize = 8 * 1024

	// BufferSafetyMargin is the headroom subtracted from capacity to
	// guarantee a maximal tag+length-prefix write never overruns; see
	// MaxBufferSize and the encoder's growth strategy.
	BufferSafetyMargin = 10

	// GrowThresholdLarge is the §4.3.4 boundary (16 MiB) above which
	// buffer growth targets are capped and rounded differently.
	GrowThresholdLarge = 16 * 1024 * 1024

	// GrowPercentageThreshold is the §4.3.4 boundary (64 MiB) above which
	// the large-buffer growth formula switches from 2x to 1.25x.
	GrowPercentageThreshold = 64 * 1024 * 1024

	// GrowPageSize is the page-rounding unit (4 KiB) used by both large-
	// and small-buffer growth formulas in §4.3.4.
	GrowPageSize = 4096

	// GrowMinLarge is the minimum growth target (4 MiB) for a
	// large-buffer resize.
	GrowMinLarge = 4 * 1024 * 1024
)

// MaxBufferSize is the hard ceiling on the encoder's backing buffer.
// The spec marks it platform-dependent: 4 GiB on 64-bit targets, ~2 GiB
// otherwise. Go's int is 64-bit on every platform this module targets
// (per go.mod), so MaxBufferSize is pinned at 4 GiB; a 32-bit build would
// need math.MaxInt32-ish headroom instead, noted here rather than
// branched on since this module does not ship 32-bit binaries.
const MaxBufferSize = 4 * 1024 * 1024 * 1024
