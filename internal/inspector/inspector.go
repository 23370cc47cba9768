// Package inspector binds views to model objects through getter, setter and
// reset bundles. A binding is dropped, and its view told, as soon as the bound
// object leaves the model.
package inspector

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/model"
	"github.com/thatsimonsguy/hvac-idf/internal/workspace"
)

var (
	ErrRemoved = errors.New("object is not in the model")
	ErrClosed  = errors.New("inspector closed")
)

// Field is the bundle a view uses for one field. Get reports false when the
// field is not set and the default applies.
type Field struct {
	Index       int
	Name        string
	Type        idd.FieldType
	Required    bool
	Autosizable bool
	Choices     []string

	Get         func() (string, bool)
	Set         func(text string) bool
	Reset       func() bool
	IsDefaulted func() bool
}

// Fields builds a bundle for every fixed field of o. The name field is set
// through the model so names stay unique.
func Fields(o model.ModelObject) []Field {
	obj, ok := o.Model().Workspace().Object(o.Handle())
	if !ok {
		return nil
	}
	schema := obj.Schema()
	out := make([]Field, len(schema.Fields))
	for i, f := range schema.Fields {
		out[i] = bundle(o, i, f)
	}
	return out
}

func bundle(o model.ModelObject, i int, f idd.Field) Field {
	b := Field{
		Index:       i,
		Name:        f.Name,
		Type:        f.Type,
		Required:    f.Required,
		Autosizable: f.Autosizable,
		Choices:     f.Choices,
		Get: func() (string, bool) {
			v := o.Field(i)
			if v.IsBlank() {
				return "", false
			}
			if h, ok := v.AsHandle(); ok {
				t, ok := o.Model().ModelObject(h)
				return t.Name(), ok
			}
			return v.Text(), true
		},
		Reset: func() bool {
			if err := o.ResetField(i); err != nil {
				log.Debug().Err(err).Str("object", o.String()).Int("field", i).Msg("Could not reset field")
				return false
			}
			return true
		},
		IsDefaulted: func() bool { return o.IsDefaulted(i) },
	}

	b.Set = func(text string) bool {
		err := set(o, i, f, text)
		if err != nil {
			log.Debug().Err(err).Str("object", o.String()).Int("field", i).Msg("Rejected field value")
			return false
		}
		return true
	}
	return b
}

func set(o model.ModelObject, i int, f idd.Field, text string) error {
	if i == 0 {
		if _, ok := o.SetName(text); !ok {
			return fmt.Errorf("name %q rejected", text)
		}
		return nil
	}
	if f.Type != idd.FieldReference {
		v, err := workspace.ParseValue(f, text)
		if err != nil {
			return err
		}
		return o.SetField(i, v)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return o.SetField(i, workspace.Blank())
	}
	target, ok := o.Model().ObjectByName(idd.Unknown, text)
	if !ok {
		return fmt.Errorf("%w: no object named %q", workspace.ErrDanglingReference, text)
	}
	return o.SetTarget(i, target)
}

// Binding is one view bound to one object.
type Binding struct {
	in       *Inspector
	obj      model.ModelObject
	fields   []Field
	onUnbind func()
	bound    bool
}

func (b *Binding) Object() model.ModelObject { return b.obj }

// Fields returns the bundles, or nil once unbound.
func (b *Binding) Fields() []Field {
	b.in.mu.Lock()
	defer b.in.mu.Unlock()
	if !b.bound {
		return nil
	}
	return b.fields
}

func (b *Binding) Field(i int) (Field, bool) {
	fields := b.Fields()
	if i < 0 || i >= len(fields) {
		return Field{}, false
	}
	return fields[i], true
}

func (b *Binding) Bound() bool {
	b.in.mu.Lock()
	defer b.in.mu.Unlock()
	return b.bound
}

// Unbind detaches the view. The unbind callback runs once, whoever unbinds.
func (b *Binding) Unbind() {
	b.in.mu.Lock()
	released := b.in.release(b)
	b.in.mu.Unlock()
	if released && b.onUnbind != nil {
		b.onUnbind()
	}
}

// Inspector tracks the bindings into one model.
type Inspector struct {
	mu       sync.Mutex
	m        *model.Model
	bindings map[handle.Handle][]*Binding
	cancel   func()
	closed   bool
}

func New(m *model.Model) *Inspector {
	in := &Inspector{
		m:        m,
		bindings: make(map[handle.Handle][]*Binding),
	}
	in.cancel = m.Workspace().OnRemove(in.removed)
	return in
}

func (in *Inspector) Model() *model.Model { return in.m }

// Bind attaches a view to o. onUnbind may be nil.
func (in *Inspector) Bind(o model.ModelObject, onUnbind func()) (*Binding, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return nil, ErrClosed
	}
	if o.Model() != in.m || !o.Exists() {
		return nil, fmt.Errorf("bind %s: %w", o, ErrRemoved)
	}
	b := &Binding{in: in, obj: o, fields: Fields(o), onUnbind: onUnbind, bound: true}
	in.bindings[o.Handle()] = append(in.bindings[o.Handle()], b)
	log.Debug().Str("object", o.String()).Msg("Bound view")
	return b, nil
}

// Bindings counts live bindings on h.
func (in *Inspector) Bindings(h handle.Handle) int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.bindings[h])
}

// release drops b from the table. Callers hold mu.
func (in *Inspector) release(b *Binding) bool {
	if !b.bound {
		return false
	}
	b.bound = false
	list := in.bindings[b.obj.Handle()]
	for i, other := range list {
		if other == b {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(in.bindings, b.obj.Handle())
	} else {
		in.bindings[b.obj.Handle()] = list
	}
	return true
}

func (in *Inspector) removed(h handle.Handle, t idd.Type) {
	in.mu.Lock()
	list := append([]*Binding(nil), in.bindings[h]...)
	var released []*Binding
	for _, b := range list {
		if in.release(b) {
			released = append(released, b)
		}
	}
	in.mu.Unlock()

	for _, b := range released {
		log.Debug().Str("handle", h.String()).Str("type", t.String()).Msg("Unbinding view from removed object")
		if b.onUnbind != nil {
			b.onUnbind()
		}
	}
}

// Close unbinds every view and stops watching the model. Used when the model
// itself is replaced.
func (in *Inspector) Close() {
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return
	}
	in.closed = true
	var released []*Binding
	for _, list := range in.bindings {
		for _, b := range append([]*Binding(nil), list...) {
			if in.release(b) {
				released = append(released, b)
			}
		}
	}
	in.mu.Unlock()

	in.cancel()
	for _, b := range released {
		if b.onUnbind != nil {
			b.onUnbind()
		}
	}
}
