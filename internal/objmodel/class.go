package objmodel

import (
	"fmt"
	"sync/atomic"
)

// Attr describes one fixed-offset attribute slot of a "structified" class.
type Attr struct {
	Name   string
	Offset int
}

// Class is a class descriptor: method table, attribute slot layout, C3
// MRO, and a version counter bumped on any shape change (spec.md §3.4).
type Class struct {
	ID      uint32
	Name    string
	Bases   []*Class
	Attrs   []Attr
	MRO     []*Class
	version uint32
}

// Version returns the current shape version, loaded atomically so guard
// sites can snapshot-compare without taking a lock.
func (c *Class) Version() uint32 {
	return atomic.LoadUint32(&c.version)
}

// BumpVersion invalidates shape guards that snapshot the previous
// version.
func (c *Class) BumpVersion() uint32 {
	return atomic.AddUint32(&c.version, 1)
}

// AttrOffset returns the fixed offset of name, or -1 if the class has no
// such fixed slot (the generic, guarded attribute path must be used).
func (c *Class) AttrOffset(name string) int {
	for _, a := range c.Attrs {
		if a.Name == name {
			return a.Offset
		}
	}
	return -1
}

// Registry is the process-wide class registry. Registration and version
// bumps are the only mutations; both are intended to happen only while
// holding the GIL token (spec.md §5).
type Registry struct {
	classes []*Class
}

// NewRegistry constructs an empty class registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterClass assigns the layout a fresh class id and computes its MRO.
func (r *Registry) RegisterClass(name string, bases []*Class, attrs []Attr) (*Class, error) {
	mro, err := c3Linearize(name, bases)
	if err != nil {
		return nil, err
	}
	c := &Class{
		ID:    uint32(len(r.classes)),
		Name:  name,
		Bases: bases,
		Attrs: attrs,
		MRO:   mro,
	}
	r.classes = append(r.classes, c)
	return c, nil
}

// ClassByID looks up a previously registered class. It is a read-only
// accessor suitable for external inspector tools per spec.md §9.
func (r *Registry) ClassByID(id uint32) (*Class, bool) {
	if int(id) >= len(r.classes) {
		return nil, false
	}
	return r.classes[id], true
}

// c3Linearize computes the C3 superclass linearization for a class with
// the given direct bases, following the canonical merge algorithm: the
// head of the first list whose head does not occur in the tail of any
// other list is selected next.
func c3Linearize(selfName string, bases []*Class) ([]*Class, error) {
	if len(bases) == 0 {
		return []*Class{}, nil
	}

	sequences := make([][]*Class, 0, len(bases)+1)
	for _, b := range bases {
		sequences = append(sequences, append([]*Class{b}, b.MRO...))
	}
	sequences = append(sequences, append([]*Class{}, bases...))

	var result []*Class
	for {
		sequences = dropEmpty(sequences)
		if len(sequences) == 0 {
			return result, nil
		}

		var head *Class
		for _, seq := range sequences {
			candidate := seq[0]
			if !appearsInTail(candidate, sequences) {
				head = candidate
				break
			}
		}
		if head == nil {
			return nil, fmt.Errorf("objmodel: inconsistent MRO for class %q", selfName)
		}
		result = append(result, head)
		for i, seq := range sequences {
			sequences[i] = removeHead(seq, head)
		}
	}
}

func dropEmpty(seqs [][]*Class) [][]*Class {
	out := seqs[:0]
	for _, s := range seqs {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func appearsInTail(c *Class, seqs [][]*Class) bool {
	for _, seq := range seqs {
		for _, other := range seq[1:] {
			if other == c {
				return true
			}
		}
	}
	return false
}

func removeHead(seq []*Class, head *Class) []*Class {
	if len(seq) > 0 && seq[0] == head {
		return seq[1:]
	}
	return seq
}
