package workspace

import (
	"fmt"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
)

// PortRef names one port of one object.
type PortRef struct {
	Handle handle.Handle
	Port   idd.Port
}

// Edge is a directed connection from an outlet-side port to an inlet-side
// port, following the direction of flow.
type Edge struct {
	From PortRef
	To   PortRef
}

func (w *Workspace) checkPort(p PortRef, want idd.Direction) error {
	o, ok := w.objects[p.Handle]
	if !ok {
		return fmt.Errorf("%w: %s: %w", ErrPort, p.Handle, ErrNotFound)
	}
	dir, ok := o.schema.PortDirection(p.Port)
	if !ok {
		return fmt.Errorf("%w: %s has no %s port", ErrPort, o.Describe(), p.Port)
	}
	if dir != want {
		return fmt.Errorf("%w: %s port of %s is an %s port", ErrPort, p.Port, o.Describe(), dir)
	}
	return nil
}

func (w *Workspace) checkEdge(e Edge) error {
	if e.From.Handle == e.To.Handle {
		return fmt.Errorf("%w: object cannot connect to itself", ErrPort)
	}
	if err := w.checkPort(e.From, idd.Out); err != nil {
		return err
	}
	return w.checkPort(e.To, idd.In)
}

// Connect joins two ports, first severing whatever either was joined to.
func (w *Workspace) Connect(from, to PortRef) error {
	return w.Reconnect(Edge{From: from, To: to})
}

// Reconnect writes a set of edges as one step: every edge is validated before
// any existing connection is touched, so on error the graph is unchanged.
func (w *Workspace) Reconnect(edges ...Edge) error {
	for _, e := range edges {
		if err := w.checkEdge(e); err != nil {
			return err
		}
	}
	for _, e := range edges {
		w.Disconnect(e.From)
		w.Disconnect(e.To)
	}
	for _, e := range edges {
		w.conns[e.From] = e.To
		w.conns[e.To] = e.From
	}
	return nil
}

// Disconnect severs the connection at p, if any.
func (w *Workspace) Disconnect(p PortRef) {
	other, ok := w.conns[p]
	if !ok {
		return
	}
	delete(w.conns, p)
	if back, ok := w.conns[other]; ok && back == p {
		delete(w.conns, other)
	}
}

// ConnectedTo returns the port on the other side of p.
func (w *Workspace) ConnectedTo(p PortRef) (PortRef, bool) {
	other, ok := w.conns[p]
	return other, ok
}

func (w *Workspace) disconnectAll(o *Object) {
	for _, ps := range o.schema.Ports {
		w.Disconnect(PortRef{Handle: o.handle, Port: ps.Port})
	}
}
