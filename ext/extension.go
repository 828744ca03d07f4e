// Package ext implements the extension mechanism that lets a host
// register custom type codecs plugging into tlcodec's constructor-tagged
// stream (spec §4.2). It uses the "value-returning" ABI flavor: Encode
// returns an intermediate primitive for the core codec to write through
// the ordinary tagged path, rather than writing raw bytes itself.
package ext

import (
	"fmt"

	"github.com/tlcodec/tlcodec/errs"
	"github.com/tlcodec/tlcodec/wire"
)

// Encoder, given a host value, returns an intermediate value the core
// codec can encode through the normal type-inference path (spec §4.5),
// and ok=true, if this extension claims the value. ok=false means
// "not mine" and the encoder tries the next registered extension.
type Encoder func(value any) (intermediate any, ok bool)

// Decoder reads this extension's intermediate value back using read,
// the primitive the core codec would use to decode any ordinary tagged
// value, and reconstructs the host value.
type Decoder func(read func() (any, error)) (any, error)

// Extension is a host-registered encode/decode pair bound to a token.
// Token must be -1 (the fallback, tried last on encode and written with
// no token byte of its own, so its intermediate value decodes as an
// ordinary core value and its Decode is never called) or in [35,254].
type Extension struct {
	Token   int
	Encode  Encoder
	Decode  Decoder
	Name    string // optional, for diagnostics only
}

// New validates token and constructs an Extension. It is the only
// legal way to obtain one outside of this package, so construction
// errors surface eagerly at registration time rather than at first use,
// per spec §7 ("Extension-construction error... Fatal; propagate
// eagerly").
func New(token int, name string, enc Encoder, dec Decoder) (Extension, error) {
	if token != wire.ExtensionFallback && !wire.IsExtensionToken(token) {
		return Extension{}, fmt.Errorf("%w: token %d not -1 or in [%d,%d]",
			errs.ErrInvalidExtensionToken, token, wire.ExtensionMin, wire.ExtensionMax)
	}

	return Extension{Token: token, Encode: enc, Decode: dec, Name: name}, nil
}

// IsFallback reports whether e is the fallback extension (token -1),
// tried last on encode and never matched by a token byte on decode.
func (e Extension) IsFallback() bool {
	return e.Token == wire.ExtensionFallback
}
