package source

// StringID is an index into an Interner.
type StringID uint32

// NoStringID maps to the empty string.
const NoStringID StringID = 0

// Interner deduplicates identifier and literal text so the AST can
// carry small integer handles instead of strings.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern returns the ID for s, inserting it on first sight.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	// Copy so the interner never pins the caller's backing buffer.
	cpy := string([]byte(s))
	id := StringID(len(i.byID)) //nolint:gosec // bounded by interned count
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes interns b as a string.
func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Lookup returns the string for id and whether id is valid.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the string for id, panicking on an invalid ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Canonical returns the interner's shared copy of s, inserting it on
// first sight.
func (i *Interner) Canonical(s string) string {
	return i.MustLookup(i.Intern(s))
}

// Len counts interned strings, including the empty string at NoStringID.
func (i *Interner) Len() int {
	return len(i.byID)
}
