// Package idf reads and writes the EnergyPlus input file format: a flat list
// of comma separated records, each terminated by a semicolon, whose fields are
// positional according to the record's schema.
package idf

import (
	"strings"
)

type Object struct {
	Type   string
	Fields []string
}

// NewObject returns a record with every fixed field of its schema present and
// blank. Unknown types start with no fields.
func NewObject(typ string) *Object {
	o := &Object{Type: typ}
	if s, ok := LookupSchema(typ); ok {
		o.Type = s.Type
		o.Fields = make([]string, len(s.Fields))
	}
	return o
}

func (o *Object) Name() string {
	return o.Field(0)
}

func (o *Object) SetName(name string) {
	o.SetField(0, name)
}

func (o *Object) Field(i int) string {
	if i < 0 || i >= len(o.Fields) {
		return ""
	}
	return o.Fields[i]
}

func (o *Object) SetField(i int, v string) {
	for len(o.Fields) <= i {
		o.Fields = append(o.Fields, "")
	}
	o.Fields[i] = v
}

func (o *Object) fixedCount() int {
	if s, ok := LookupSchema(o.Type); ok {
		return len(s.Fields)
	}
	return len(o.Fields)
}

func (o *Object) groupSize() int {
	if s, ok := LookupSchema(o.Type); ok {
		return len(s.Group)
	}
	return 0
}

// PushGroup appends one extensible group after the fixed fields.
func (o *Object) PushGroup(values ...string) {
	n := o.fixedCount()
	for len(o.Fields) < n {
		o.Fields = append(o.Fields, "")
	}
	size := o.groupSize()
	group := make([]string, size)
	copy(group, values)
	o.Fields = append(o.Fields, group...)
}

// Groups splits the fields after the fixed block into extensible groups. A
// trailing partial group is padded with blanks.
func (o *Object) Groups() [][]string {
	size := o.groupSize()
	n := o.fixedCount()
	if size == 0 || len(o.Fields) <= n {
		return nil
	}
	var out [][]string
	for i := n; i < len(o.Fields); i += size {
		g := make([]string, size)
		copy(g, o.Fields[i:min(i+size, len(o.Fields))])
		out = append(out, g)
	}
	return out
}

func (o *Object) NumGroups() int {
	return len(o.Groups())
}

type File struct {
	Objects []*Object
}

func (f *File) Add(o *Object) *Object {
	f.Objects = append(f.Objects, o)
	return o
}

func (f *File) ByType(typ string) []*Object {
	var out []*Object
	for _, o := range f.Objects {
		if strings.EqualFold(o.Type, typ) {
			out = append(out, o)
		}
	}
	return out
}

// Find looks a record up by type and name. Names compare case-insensitively,
// as EnergyPlus does.
func (f *File) Find(typ, name string) (*Object, bool) {
	for _, o := range f.Objects {
		if strings.EqualFold(o.Type, typ) && strings.EqualFold(o.Name(), name) {
			return o, true
		}
	}
	return nil, false
}

// FindAny looks a record up by name among several candidate types.
func (f *File) FindAny(name string, types ...string) (*Object, bool) {
	for _, typ := range types {
		if o, ok := f.Find(typ, name); ok {
			return o, true
		}
	}
	return nil, false
}
