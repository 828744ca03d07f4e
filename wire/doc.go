// Package wire defines the constructor tag enumeration, reserved tag
// ranges, and size limits for the tlcodec binary wire format.
//
// The format is a single-byte constructor tag followed by a tag-specific
// payload. Container tags (Map, Vector, VectorDynamic) recurse into the
// same grammar. See the Tag constants below for the full assignment
// table; codes 21-24 and 26-34 are reserved and MUST be rejected on
// decode. Codes 35-254 are available for host-registered extensions
// (package ext), and token -1 denotes a fallback extension tried last.
package wire
