package workspace

import (
	"fmt"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
)

// Validate checks the reference invariant over the whole workspace: every
// reference resolves to an object of an accepted type, the reverse index
// agrees with the fields, and every connection is symmetric.
func (w *Workspace) Validate() []error {
	var errs []error
	counts := make(map[[2]string]int)

	checkRef := func(o *Object, f idd.Field, v Value) {
		target, ok := v.AsHandle()
		if !ok {
			return
		}
		counts[[2]string{target.String(), o.handle.String()}]++
		t, exists := w.objects[target]
		if !exists {
			errs = append(errs, fmt.Errorf("%w: %s field %s points at missing %s", ErrDanglingReference, o.Describe(), f.Name, target))
			return
		}
		if !f.Accepts(t.schema.Type) {
			errs = append(errs, fmt.Errorf("%w: %s field %s points at %s", ErrDanglingReference, o.Describe(), f.Name, t.Describe()))
		}
	}

	for _, o := range w.objects {
		for i, v := range o.fields {
			checkRef(o, o.schema.Fields[i], v)
		}
		for _, g := range o.groups {
			for i, v := range g {
				checkRef(o, o.schema.Extensible[i], v)
			}
		}
	}

	indexed := 0
	for target, srcs := range w.sources {
		for src, n := range srcs {
			indexed++
			if counts[[2]string{target.String(), src.String()}] != n {
				errs = append(errs, fmt.Errorf("reverse index disagrees for %s -> %s", src, target))
			}
		}
	}
	if indexed != len(counts) {
		errs = append(errs, fmt.Errorf("reverse index has %d pairs, fields have %d", indexed, len(counts)))
	}

	for p, other := range w.conns {
		if back, ok := w.conns[other]; !ok || back != p {
			errs = append(errs, fmt.Errorf("%w: connection %v -> %v is one-sided", ErrPort, p, other))
		}
		if _, ok := w.objects[p.Handle]; !ok {
			errs = append(errs, fmt.Errorf("%w: connection from removed object %s", ErrPort, p.Handle))
		}
	}
	return errs
}
