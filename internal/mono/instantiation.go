// Package mono tracks generic instantiations. Every concrete use of a
// generic type is recorded under the key (base name, argument list);
// the first recording creates a descriptor and queues it for code
// generation, later recordings reuse it. The cache is the only mutable
// state shared between concurrently compiled modules, so all access is
// mutex-guarded.
package mono

import (
	"strings"
	"sync"

	"autoc/internal/source"
)

// InstKind identifies what is being instantiated.
type InstKind uint8

const (
	// InstType is a generic struct type instantiation.
	InstType InstKind = iota
	// InstTag is a generic tag instantiation.
	InstTag
	// InstSpec is a spec vtable specialization for concrete arguments.
	InstSpec
)

// Key is the comparable cache key. Go maps cannot key on slices, so
// the normalized argument list is flattened into ArgsKey.
type Key struct {
	Base    string
	ArgsKey string
}

// ArgsKey joins rendered type arguments into the stable key form.
func ArgsKey(args []string) string {
	return strings.Join(args, "#")
}

// UseSite records one location where an instantiation occurs.
type UseSite struct {
	Span   source.Span
	Module string
}

// Descriptor is one canonical specialized definition. MangledName is
// the emission name: base plus the concrete arguments.
type Descriptor struct {
	Kind        InstKind
	Key         Key
	Base        string
	TypeArgs    []string
	MangledName string
	UseSites    []UseSite
}

// Cache is the shared instantiation table. The zero value is not
// usable; construct with NewCache.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*Descriptor
	queue   []*Descriptor // descriptors not yet handed to codegen
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*Descriptor)}
}

// Record registers one instantiation. The returned bool is true when
// this call created the descriptor; exactly one caller across all
// modules observes true per distinct key.
func (c *Cache) Record(kind InstKind, base string, args []string, site UseSite) (*Descriptor, bool) {
	key := Key{Base: base, ArgsKey: ArgsKey(args)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.entries[key]; ok {
		d.addSite(site)
		return d, false
	}
	d := &Descriptor{
		Kind:        kind,
		Key:         key,
		Base:        base,
		TypeArgs:    append([]string(nil), args...),
		MangledName: Mangle(base, args),
	}
	d.addSite(site)
	c.entries[key] = d
	c.queue = append(c.queue, d)
	return d, true
}

func (d *Descriptor) addSite(site UseSite) {
	if site == (UseSite{}) {
		return
	}
	for _, s := range d.UseSites {
		if s == site {
			return
		}
	}
	d.UseSites = append(d.UseSites, site)
}

// Lookup returns the descriptor for (base, args) if recorded.
func (c *Cache) Lookup(base string, args []string) (*Descriptor, bool) {
	key := Key{Base: base, ArgsKey: ArgsKey(args)}
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[key]
	return d, ok
}

// Drain hands out the descriptors queued since the last drain, in
// recording order. Each descriptor is emitted exactly once no matter
// how many modules recorded it.
func (c *Cache) Drain() []*Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.queue
	c.queue = nil
	return out
}

// All returns every recorded descriptor without touching the queue,
// in no particular order.
func (c *Cache) All() []*Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Descriptor, 0, len(c.entries))
	for _, d := range c.entries {
		out = append(out, d)
	}
	return out
}

// Len returns the number of distinct instantiations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Mangle combines a base name with concrete arguments into the
// emitted C identifier: List<int> becomes List_int.
func Mangle(base string, args []string) string {
	if len(args) == 0 {
		return base
	}
	var sb strings.Builder
	sb.WriteString(base)
	for _, a := range args {
		sb.WriteByte('_')
		sb.WriteString(sanitize(a))
	}
	return sb.String()
}

// sanitize folds nested generic syntax into identifier characters:
// May<int> -> May_int.
func sanitize(arg string) string {
	var sb strings.Builder
	for _, r := range arg {
		switch r {
		case '<', ',', ' ':
			if r == '<' || r == ',' {
				sb.WriteByte('_')
			}
		case '>':
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
