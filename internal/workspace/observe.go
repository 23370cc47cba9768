package workspace

import (
	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
)

// RemoveFunc is told about every object about to leave the workspace. The
// object still resolves while the function runs.
type RemoveFunc func(h handle.Handle, t idd.Type)

type observer struct {
	id int
	fn RemoveFunc
}

// OnRemove registers fn and returns a function that unregisters it. Observers
// run in registration order.
func (w *Workspace) OnRemove(fn RemoveFunc) (cancel func()) {
	id := w.nextObs
	w.nextObs++
	w.observers = append(w.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range w.observers {
			if o.id == id {
				w.observers = append(w.observers[:i:i], w.observers[i+1:]...)
				return
			}
		}
	}
}

func (w *Workspace) notifyRemoved(h handle.Handle, t idd.Type) {
	for _, o := range append([]observer(nil), w.observers...) {
		o.fn(h, t)
	}
}
