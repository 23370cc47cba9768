// Package workspace is the arena that owns every object of a model. Objects
// refer to each other only by handle; the workspace keeps a reverse index of
// those references so that "who points at me" questions and cascading removal
// never scan the whole graph.
package workspace

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
)

type Object struct {
	handle handle.Handle
	schema *idd.Schema
	seq    uint64
	fields []Value
	groups [][]Value
}

func (o *Object) Handle() handle.Handle { return o.handle }
func (o *Object) Type() idd.Type        { return o.schema.Type }
func (o *Object) Schema() *idd.Schema   { return o.schema }

func (o *Object) Name() string {
	s, _ := o.fields[0].AsString()
	return s
}

// Field returns a blank value for indices outside the schema.
func (o *Object) Field(i int) Value {
	if i < 0 || i >= len(o.fields) {
		return Blank()
	}
	return o.fields[i]
}

func (o *Object) NumGroups() int { return len(o.groups) }

func (o *Object) Group(g int) []Value {
	if g < 0 || g >= len(o.groups) {
		return nil
	}
	return append([]Value(nil), o.groups[g]...)
}

// Describe is a short human readable identification used in logs.
func (o *Object) Describe() string {
	return fmt.Sprintf("%s '%s'", o.schema.Name, o.Name())
}

type Workspace struct {
	objects   map[handle.Handle]*Object
	seq       uint64
	sources   map[handle.Handle]map[handle.Handle]int
	names     map[string]handle.Handle
	conns     map[PortRef]PortRef
	observers []observer
	nextObs   int
}

func New() *Workspace {
	return &Workspace{
		objects:   make(map[handle.Handle]*Object),
		sources:   make(map[handle.Handle]map[handle.Handle]int),
		names:     make(map[string]handle.Handle),
		conns:     make(map[PortRef]PortRef),
	}
}

// CreateObject allocates an object of type t with every field at its schema
// default and a unique default name.
func (w *Workspace) CreateObject(t idd.Type) (handle.Handle, error) {
	s, ok := idd.Lookup(t)
	if !ok {
		return handle.Nil, fmt.Errorf("%w: unknown object type %s", ErrSchema, t)
	}
	o := &Object{
		handle: handle.New(),
		schema: s,
		fields: make([]Value, len(s.Fields)),
	}
	for i, f := range s.Fields {
		if f.Default == "" {
			continue
		}
		v, err := ParseValue(f, f.Default)
		if err != nil {
			return handle.Nil, fieldErr("create", s, &s.Fields[i], fmt.Errorf("%w: bad default: %v", ErrSchema, err))
		}
		o.fields[i] = v
	}
	w.seq++
	o.seq = w.seq
	w.objects[o.handle] = o

	name := w.DefaultName(t)
	o.fields[0] = StringValue(name)
	w.names[strings.ToLower(name)] = o.handle

	log.Debug().Str("object", o.Describe()).Msg("Created object")
	return o.handle, nil
}

func (w *Workspace) Object(h handle.Handle) (*Object, bool) {
	o, ok := w.objects[h]
	return o, ok
}

func (w *Workspace) Len() int {
	return len(w.objects)
}

// Objects returns every object of type t in creation order. idd.Unknown
// selects all objects.
func (w *Workspace) Objects(t idd.Type) []*Object {
	var out []*Object
	for _, o := range w.objects {
		if t == idd.Unknown || o.schema.Type == t {
			out = append(out, o)
		}
	}
	sortBySeq(out)
	return out
}

// ObjectByName finds an object of type t by name, case-insensitively.
func (w *Workspace) ObjectByName(t idd.Type, name string) (*Object, bool) {
	h, ok := w.names[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	o := w.objects[h]
	if t != idd.Unknown && o.schema.Type != t {
		return nil, false
	}
	return o, true
}

func sortBySeq(objs []*Object) {
	sort.Slice(objs, func(i, j int) bool { return objs[i].seq < objs[j].seq })
}

// DefaultName is the name the next object of type t would get.
func (w *Workspace) DefaultName(t idd.Type) string {
	label := t.String()
	if s, ok := idd.Lookup(t); ok {
		label = s.Label
	}
	return w.uniqueName(label, handle.Nil)
}

// uniqueName appends the smallest counter that makes base unique.
func (w *Workspace) uniqueName(base string, self handle.Handle) string {
	for n := 1; ; n++ {
		candidate := base + " " + strconv.Itoa(n)
		if owner, taken := w.names[strings.ToLower(candidate)]; !taken || owner == self {
			return candidate
		}
	}
}

func (w *Workspace) lookup(op string, h handle.Handle) (*Object, error) {
	o, ok := w.objects[h]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", op, h, ErrNotFound)
	}
	return o, nil
}

// SetName renames an object and returns the name actually applied, which has a
// counter appended when another object already uses the requested name.
func (w *Workspace) SetName(h handle.Handle, name string) (string, error) {
	o, err := w.lookup("set name", h)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fieldErr("set name", o.schema, &o.schema.Fields[0], ErrRequiredField)
	}
	if err := checkText(name); err != nil {
		return "", fieldErr("set name", o.schema, &o.schema.Fields[0], err)
	}
	applied := name
	if owner, taken := w.names[strings.ToLower(name)]; taken && owner != h {
		applied = w.uniqueName(name, h)
	}
	delete(w.names, strings.ToLower(o.Name()))
	o.fields[0] = StringValue(applied)
	w.names[strings.ToLower(applied)] = h
	return applied, nil
}

// SetField validates v against the schema and stores it. Writing field 0 is
// the same as SetName.
func (w *Workspace) SetField(h handle.Handle, i int, v Value) error {
	o, err := w.lookup("set field", h)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(o.fields) {
		return fieldErr("set field", o.schema, nil, fmt.Errorf("%w: no field %d", ErrSchema, i))
	}
	if i == 0 {
		s, ok := v.AsString()
		if !ok {
			return fieldErr("set field", o.schema, &o.schema.Fields[0], ErrTypeMismatch)
		}
		_, err := w.SetName(h, s)
		return err
	}
	f := o.schema.Fields[i]
	stored, err := w.checkValue(f, v)
	if err != nil {
		return fieldErr("set field", o.schema, &o.schema.Fields[i], err)
	}
	w.replace(o, &o.fields[i], stored)
	return nil
}

// ResetField restores the schema default of field i.
func (w *Workspace) ResetField(h handle.Handle, i int) error {
	o, err := w.lookup("reset field", h)
	if err != nil {
		return err
	}
	if i <= 0 || i >= len(o.fields) {
		return fieldErr("reset field", o.schema, nil, fmt.Errorf("%w: field %d cannot be reset", ErrSchema, i))
	}
	f := o.schema.Fields[i]
	v, err := ParseValue(f, f.Default)
	if err != nil {
		return fieldErr("reset field", o.schema, &o.schema.Fields[i], err)
	}
	if v.IsBlank() && f.Required && f.Type != idd.FieldReference {
		return fieldErr("reset field", o.schema, &o.schema.Fields[i], ErrRequiredField)
	}
	w.replace(o, &o.fields[i], v)
	return nil
}

// IsDefaulted reports whether field i holds its schema default.
func (w *Workspace) IsDefaulted(h handle.Handle, i int) bool {
	o, ok := w.objects[h]
	if !ok || i <= 0 || i >= len(o.fields) {
		return false
	}
	def, err := ParseValue(o.schema.Fields[i], o.schema.Fields[i].Default)
	if err != nil {
		return false
	}
	return o.fields[i] == def
}

func (w *Workspace) checkValue(f idd.Field, v Value) (Value, error) {
	stored, err := check(f, v)
	if err != nil {
		return stored, err
	}
	if target, ok := stored.AsHandle(); ok {
		to, exists := w.objects[target]
		if !exists {
			return stored, fmt.Errorf("%w: %s does not exist", ErrDanglingReference, target)
		}
		if !f.Accepts(to.schema.Type) {
			return stored, fmt.Errorf("%w: %s cannot point at %s", ErrDanglingReference, f.Name, to.schema.Name)
		}
	}
	return stored, nil
}

// replace writes v into slot and keeps the reverse index in step.
func (w *Workspace) replace(o *Object, slot *Value, v Value) {
	if old, ok := slot.AsHandle(); ok {
		w.unindex(old, o.handle)
	}
	*slot = v
	if target, ok := v.AsHandle(); ok {
		w.index(target, o.handle)
	}
}

func (w *Workspace) index(target, source handle.Handle) {
	m, ok := w.sources[target]
	if !ok {
		m = make(map[handle.Handle]int)
		w.sources[target] = m
	}
	m[source]++
}

func (w *Workspace) unindex(target, source handle.Handle) {
	m, ok := w.sources[target]
	if !ok {
		return
	}
	m[source]--
	if m[source] <= 0 {
		delete(m, source)
	}
	if len(m) == 0 {
		delete(w.sources, target)
	}
}

// GetSourceObjects returns, in creation order, the objects of type t holding a
// reference to h. idd.Unknown matches every type.
func (w *Workspace) GetSourceObjects(h handle.Handle, t idd.Type) []handle.Handle {
	var objs []*Object
	for src := range w.sources[h] {
		o := w.objects[src]
		if t == idd.Unknown || o.schema.Type == t {
			objs = append(objs, o)
		}
	}
	sortBySeq(objs)
	out := make([]handle.Handle, len(objs))
	for i, o := range objs {
		out[i] = o.handle
	}
	return out
}

// Target resolves the reference held in field i, if any.
func (w *Workspace) Target(h handle.Handle, i int) (*Object, bool) {
	o, ok := w.objects[h]
	if !ok {
		return nil, false
	}
	target, ok := o.Field(i).AsHandle()
	if !ok {
		return nil, false
	}
	t, ok := w.objects[target]
	return t, ok
}

// PushExtensibleGroup appends a group, validating each supplied value against
// the group schema. Missing trailing values are blank.
func (w *Workspace) PushExtensibleGroup(h handle.Handle, values ...Value) (int, error) {
	o, err := w.lookup("push extensible group", h)
	if err != nil {
		return -1, err
	}
	ext := o.schema.Extensible
	if len(ext) == 0 {
		return -1, fieldErr("push extensible group", o.schema, nil, fmt.Errorf("%w: type has no extensible fields", ErrSchema))
	}
	if len(values) > len(ext) {
		return -1, fieldErr("push extensible group", o.schema, nil, fmt.Errorf("%w: %d values for a group of %d", ErrSchema, len(values), len(ext)))
	}
	group := make([]Value, len(ext))
	for i, v := range values {
		stored, err := w.checkValue(ext[i], v)
		if err != nil {
			return -1, fieldErr("push extensible group", o.schema, &ext[i], err)
		}
		group[i] = stored
	}
	for _, v := range group {
		if target, ok := v.AsHandle(); ok {
			w.index(target, o.handle)
		}
	}
	o.groups = append(o.groups, group)
	return len(o.groups) - 1, nil
}

// EraseExtensibleGroup removes group g; later groups shift down so indices stay
// contiguous and ordered.
func (w *Workspace) EraseExtensibleGroup(h handle.Handle, g int) error {
	o, err := w.lookup("erase extensible group", h)
	if err != nil {
		return err
	}
	if g < 0 || g >= len(o.groups) {
		return fieldErr("erase extensible group", o.schema, nil, fmt.Errorf("%w: no group %d", ErrSchema, g))
	}
	for _, v := range o.groups[g] {
		if target, ok := v.AsHandle(); ok {
			w.unindex(target, o.handle)
		}
	}
	o.groups = append(o.groups[:g], o.groups[g+1:]...)
	return nil
}

func (w *Workspace) SetGroupField(h handle.Handle, g, i int, v Value) error {
	o, err := w.lookup("set group field", h)
	if err != nil {
		return err
	}
	if g < 0 || g >= len(o.groups) || i < 0 || i >= len(o.schema.Extensible) {
		return fieldErr("set group field", o.schema, nil, fmt.Errorf("%w: no group field %d/%d", ErrSchema, g, i))
	}
	f := o.schema.Extensible[i]
	stored, err := w.checkValue(f, v)
	if err != nil {
		return fieldErr("set group field", o.schema, &f, err)
	}
	w.replace(o, &o.groups[g][i], stored)
	return nil
}
