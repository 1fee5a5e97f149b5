package lisp

// CvarAccess controls whether set-cvar! may write a registered cvar
// (spec.md §4.6, primitive table).
type CvarAccess int

const (
	CvarReadOnly CvarAccess = iota
	CvarReadWrite
)

type primEntry struct {
	name string
	fn   PrimitiveFunc
}

// primRegistry is the ordered, insertion-preserving primitive list of
// spec.md §3 ("Primitive and cvar registry order"). libisp links
// entries with prev/next and only ever hands callers its tail
// pointer, so primitive_procedure_names/objects walk backwards via
// prev to recover forward order (see DESIGN.md). An append-only slice
// needs no such trick: head-to-tail iteration is registration order.
type primRegistry struct {
	entries []primEntry
}

func (r *primRegistry) add(name string, fn PrimitiveFunc) {
	r.entries = append(r.entries, primEntry{name: name, fn: fn})
}

type cvarEntry struct {
	name   string
	access CvarAccess
	ptr    *int
}

// cvarRegistry is the cvar counterpart of primRegistry (spec.md §4.6,
// §6: add_cvar).
type cvarRegistry struct {
	entries []cvarEntry
}

func (r *cvarRegistry) add(name string, ptr *int, access CvarAccess) {
	r.entries = append(r.entries, cvarEntry{name: name, ptr: ptr, access: access})
}

func (r *cvarRegistry) find(name string) (*cvarEntry, bool) {
	for i := range r.entries {
		if r.entries[i].name == name {
			return &r.entries[i], true
		}
	}
	return nil, false
}
