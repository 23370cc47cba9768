package topology

import (
	"fmt"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/workspace"
)

// Graph is the read side of the workspace a walk needs.
type Graph interface {
	Object(h handle.Handle) (*workspace.Object, bool)
	ConnectedTo(p workspace.PortRef) (workspace.PortRef, bool)
}

// Upstream returns the port feeding h on stream s.
func Upstream(g Graph, h handle.Handle, s Stream) (workspace.PortRef, bool, error) {
	r, err := ruleOf(g, h, s)
	if err != nil {
		return workspace.PortRef{}, false, err
	}
	p, ok := g.ConnectedTo(workspace.PortRef{Handle: h, Port: r.Up})
	return p, ok, nil
}

// Downstream returns the port h feeds on stream s.
func Downstream(g Graph, h handle.Handle, s Stream) (workspace.PortRef, bool, error) {
	r, err := ruleOf(g, h, s)
	if err != nil {
		return workspace.PortRef{}, false, err
	}
	p, ok := g.ConnectedTo(workspace.PortRef{Handle: h, Port: r.Down})
	return p, ok, nil
}

func ruleOf(g Graph, h handle.Handle, s Stream) (Rule, error) {
	o, ok := g.Object(h)
	if !ok {
		return Rule{}, fmt.Errorf("%w: %s is not in the model", ErrUnexpectedTopology, h)
	}
	r, err := RuleFor(o.Type().Kind(), s)
	if err != nil {
		return Rule{}, fmt.Errorf("%s: %w", o.Describe(), err)
	}
	return r, nil
}

// WalkUpstream follows connections against the flow, starting with whatever is
// connected to the inlet-side port start. The result is in flow order, so the
// object furthest upstream comes first.
func WalkUpstream(g Graph, start workspace.PortRef, s Stream) ([]handle.Handle, error) {
	var chain []handle.Handle
	seen := make(map[handle.Handle]bool)
	p, ok := g.ConnectedTo(start)
	for ok {
		if seen[p.Handle] {
			return nil, fmt.Errorf("%w: cycle through %s on the %s stream", ErrUnexpectedTopology, p.Handle, s)
		}
		seen[p.Handle] = true
		chain = append([]handle.Handle{p.Handle}, chain...)

		var err error
		p, ok, err = Upstream(g, p.Handle, s)
		if err != nil {
			return nil, err
		}
	}
	return chain, nil
}

// WalkDownstream follows connections with the flow, starting with whatever is
// connected to the outlet-side port start.
func WalkDownstream(g Graph, start workspace.PortRef, s Stream) ([]handle.Handle, error) {
	var chain []handle.Handle
	seen := make(map[handle.Handle]bool)
	p, ok := g.ConnectedTo(start)
	for ok {
		if seen[p.Handle] {
			return nil, fmt.Errorf("%w: cycle through %s on the %s stream", ErrUnexpectedTopology, p.Handle, s)
		}
		seen[p.Handle] = true
		chain = append(chain, p.Handle)

		var err error
		p, ok, err = Downstream(g, p.Handle, s)
		if err != nil {
			return nil, err
		}
	}
	return chain, nil
}
