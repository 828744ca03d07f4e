package ext

import "fmt"

// Registry holds a set of registered extensions: an ordered list tried,
// in registration order, on encode (non-fallback extensions first, then
// any fallback extensions last, per spec §4.2), and a token-indexed
// table for O(1) decode-side dispatch.
type Registry struct {
	ordered  []Extension
	fallback []Extension
	byToken  map[int]Extension
}

// NewRegistry builds a Registry from a set of already-validated
// extensions (see New). Registering two extensions with the same
// non-fallback token is a caller error: on decode the later one wins,
// as with a later key in a Go map literal, while both stay in the
// encode order, where the earlier one is tried first.
func NewRegistry(extensions ...Extension) *Registry {
	r := &Registry{
		byToken: make(map[int]Extension, len(extensions)),
	}

	for _, e := range extensions {
		r.Register(e)
	}

	return r
}

// Register adds e to the registry, appending to the encode-side order
// and (for non-fallback extensions) indexing it by token for decode-side
// dispatch.
func (r *Registry) Register(e Extension) {
	if e.IsFallback() {
		r.fallback = append(r.fallback, e)

		return
	}

	r.ordered = append(r.ordered, e)
	r.byToken[e.Token] = e
}

// EncodeOrder returns the extensions to try, in order, for an encode
// dispatch: registration order, then any fallback extensions.
func (r *Registry) EncodeOrder() []Extension {
	if len(r.fallback) == 0 {
		return r.ordered
	}

	all := make([]Extension, 0, len(r.ordered)+len(r.fallback))
	all = append(all, r.ordered...)
	all = append(all, r.fallback...)

	return all
}

// ByToken returns the extension registered for token, for decode-side
// dispatch on the tag byte just read from the stream.
func (r *Registry) ByToken(token int) (Extension, bool) {
	e, ok := r.byToken[token]

	return e, ok
}

// Len reports how many extensions (including fallbacks) are registered.
func (r *Registry) Len() int {
	return len(r.ordered) + len(r.fallback)
}

func (r *Registry) String() string {
	return fmt.Sprintf("ext.Registry{extensions=%d, fallbacks=%d}", len(r.ordered), len(r.fallback))
}
