package aggregate

import (
	"time"

	"github.com/getsentry/timekeeper/internal/nodetree"
)

// Record holds cumulative statistics for a span name at a given path of a
// thread's frame tree. Children are kept in the order they were first seen.
type Record struct {
	Name     string
	Count    uint64
	Time     time.Duration
	Children []*Record

	index map[string]*Record
}

func newRecord(name string) *Record {
	return &Record{Name: name}
}

// Child returns the child record named name.
func (r *Record) Child(name string) (*Record, bool) {
	c, ok := r.index[name]
	return c, ok
}

func (r *Record) childOrNew(name string) *Record {
	if c, ok := r.index[name]; ok {
		return c
	}
	if r.index == nil {
		r.index = make(map[string]*Record)
	}
	c := newRecord(name)
	r.index[name] = c
	r.Children = append(r.Children, c)
	return c
}

// merge adds one occurrence of n to the record, then merges n's children
// into the matching child records. Siblings of n sharing a name all land in
// the same child record.
func (r *Record) merge(n *nodetree.Node) {
	r.Name = n.Name
	r.Count++
	r.Time += n.Duration()
	for _, child := range n.Children {
		r.childOrNew(child.Name).merge(child)
	}
}

func (r *Record) reset() {
	r.Count = 0
	r.Time = 0
	r.Children = nil
	r.index = nil
}

// deepCopy returns a recursive copy of the record.
func (r *Record) deepCopy() *Record {
	clone := &Record{
		Name:  r.Name,
		Count: r.Count,
		Time:  r.Time,
	}
	if len(r.Children) == 0 {
		return clone
	}
	clone.Children = make([]*Record, 0, len(r.Children))
	clone.index = make(map[string]*Record, len(r.Children))
	for _, child := range r.Children {
		c := child.deepCopy()
		clone.Children = append(clone.Children, c)
		clone.index[c.Name] = c
	}
	return clone
}
