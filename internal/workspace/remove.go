package workspace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
)

// CascadeSet lists h followed by every object it owns, directly or through
// owned children, as declared by idd.Owned.
func (w *Workspace) CascadeSet(h handle.Handle) []handle.Handle {
	if _, ok := w.objects[h]; !ok {
		return nil
	}
	seen := map[handle.Handle]bool{h: true}
	queue := []handle.Handle{h}
	for i := 0; i < len(queue); i++ {
		o := w.objects[queue[i]]
		for _, child := range w.ownedBy(o) {
			if !seen[child] {
				seen[child] = true
				queue = append(queue, child)
			}
		}
	}
	return queue
}

func (w *Workspace) ownedBy(o *Object) []handle.Handle {
	var out []handle.Handle
	for _, rule := range idd.Owned(o.schema.Type) {
		if rule.Field >= 0 {
			if target, ok := o.Field(rule.Field).AsHandle(); ok {
				if _, exists := w.objects[target]; exists {
					out = append(out, target)
				}
			}
			continue
		}
		for _, src := range w.GetSourceObjects(o.handle, rule.SourceType) {
			if target, ok := w.objects[src].Field(rule.SourceField).AsHandle(); ok && target == o.handle {
				out = append(out, src)
			}
		}
	}
	return out
}

// Remove deletes h and everything it owns. References held by other objects
// are cleared: optional fields are blanked and extensible groups naming a
// removed object are erased. If another object holds a required reference to
// anything in the cascade, nothing is removed. The removed objects are returned
// as raw records with the handle as the first field.
func (w *Workspace) Remove(h handle.Handle) ([]*idf.Object, error) {
	if _, err := w.lookup("remove", h); err != nil {
		return nil, err
	}
	set := w.CascadeSet(h)
	doomed := doomedSet(set)
	if err := w.checkRequiredReferences(set, doomed); err != nil {
		return nil, err
	}

	// Observers hear about the whole cascade while every handle in it still
	// resolves.
	for _, x := range set {
		if o, ok := w.objects[x]; ok {
			w.notifyRemoved(x, o.schema.Type)
		}
	}

	for _, x := range set {
		for _, src := range w.GetSourceObjects(x, idd.Unknown) {
			if !doomed[src] {
				w.clearReferences(w.objects[src], x)
			}
		}
	}

	records := make([]*idf.Object, 0, len(set))
	for _, x := range set {
		o, ok := w.objects[x]
		if !ok {
			continue
		}
		records = append(records, o.Record())
		log.Debug().Str("object", o.Describe()).Msg("Removing object")
		w.disconnectAll(o)
		delete(w.names, strings.ToLower(o.Name()))
		for i := range o.fields {
			w.replace(o, &o.fields[i], Blank())
		}
		for g := range o.groups {
			for i := range o.groups[g] {
				w.replace(o, &o.groups[g][i], Blank())
			}
		}
		delete(w.objects, x)
		delete(w.sources, x)
	}
	return records, nil
}

// CheckRemove reports the error Remove(h) would return, changing nothing.
func (w *Workspace) CheckRemove(h handle.Handle) error {
	if _, err := w.lookup("remove", h); err != nil {
		return err
	}
	set := w.CascadeSet(h)
	return w.checkRequiredReferences(set, doomedSet(set))
}

func doomedSet(set []handle.Handle) map[handle.Handle]bool {
	doomed := make(map[handle.Handle]bool, len(set))
	for _, x := range set {
		doomed[x] = true
	}
	return doomed
}

func (w *Workspace) checkRequiredReferences(set []handle.Handle, doomed map[handle.Handle]bool) error {
	for _, x := range set {
		for _, src := range w.GetSourceObjects(x, idd.Unknown) {
			if doomed[src] {
				continue
			}
			o := w.objects[src]
			for i, v := range o.fields {
				if target, ok := v.AsHandle(); ok && target == x && o.schema.Fields[i].Required {
					return fieldErr("remove", o.schema, &o.schema.Fields[i],
						fmt.Errorf("%w: %s still needs %s", ErrRequiredReference, o.Describe(), w.objects[x].Describe()))
				}
			}
		}
	}
	return nil
}

// clearReferences drops every reference o holds to target.
func (w *Workspace) clearReferences(o *Object, target handle.Handle) {
	for i, v := range o.fields {
		if t, ok := v.AsHandle(); ok && t == target {
			w.replace(o, &o.fields[i], Blank())
		}
	}
	var erase []int
	for g, group := range o.groups {
		for _, v := range group {
			if t, ok := v.AsHandle(); ok && t == target {
				erase = append(erase, g)
				break
			}
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(erase)))
	for _, g := range erase {
		if err := w.EraseExtensibleGroup(o.handle, g); err != nil {
			log.Error().Err(err).Str("object", o.Describe()).Msg("Failed to drop reference group")
		}
	}
}

// Record renders the object as a raw record, handle first, references as
// handles.
func (o *Object) Record() *idf.Object {
	r := &idf.Object{Type: o.schema.Name, Fields: []string{o.handle.String()}}
	for _, v := range o.fields {
		r.Fields = append(r.Fields, v.Text())
	}
	for _, g := range o.groups {
		for _, v := range g {
			r.Fields = append(r.Fields, v.Text())
		}
	}
	return r
}
