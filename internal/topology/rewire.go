package topology

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/workspace"
)

// Placement asks for Component to be spliced into Stream next to Node.
type Placement struct {
	Node      handle.Handle
	Component handle.Handle
	Stream    Stream
}

// plan is a placement with its neighbours resolved. Edges that need a fresh
// node use newNodeRef as a stand-in until the node exists.
type plan struct {
	edges   []workspace.Edge
	newNode bool
}

var newNodeRef = handle.Nil

// Insert splices every placement into the graph as one step and returns the
// nodes it had to create. All placements are checked before anything is
// created or rewired, so on error the graph is unchanged.
//
// When the node feeds something, the component goes directly downstream of
// it; a new node separates the component from a non-node neighbour. When the
// node is the end of its stream the component goes directly upstream of it
// instead.
func Insert(w *workspace.Workspace, places ...Placement) ([]handle.Handle, error) {
	plans := make([]plan, 0, len(places))
	for _, pl := range places {
		p, err := planInsert(w, pl)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	var created []handle.Handle
	var edges []workspace.Edge
	for _, p := range plans {
		nn := handle.Nil
		if p.newNode {
			h, err := w.CreateObject(idd.Node)
			if err != nil {
				rollback(w, created)
				return nil, err
			}
			created = append(created, h)
			nn = h
		}
		for _, e := range p.edges {
			if e.From.Handle == newNodeRef {
				e.From.Handle = nn
			}
			if e.To.Handle == newNodeRef {
				e.To.Handle = nn
			}
			edges = append(edges, e)
		}
	}
	if err := w.Reconnect(edges...); err != nil {
		rollback(w, created)
		return nil, err
	}
	return created, nil
}

func rollback(w *workspace.Workspace, created []handle.Handle) {
	for _, h := range created {
		if _, err := w.Remove(h); err != nil {
			log.Error().Err(err).Msg("Failed to discard node after aborted insert")
		}
	}
}

func planInsert(w *workspace.Workspace, pl Placement) (plan, error) {
	node, ok := w.Object(pl.Node)
	if !ok || node.Type().Kind() != idd.KindNode {
		return plan{}, fmt.Errorf("%w: insertion point %s is not a node", ErrUnexpectedTopology, pl.Node)
	}
	comp, ok := w.Object(pl.Component)
	if !ok {
		return plan{}, fmt.Errorf("%w: component %s is not in the model", ErrUnexpectedTopology, pl.Component)
	}
	r, err := RuleFor(comp.Type().Kind(), pl.Stream)
	if err != nil {
		return plan{}, fmt.Errorf("%s: %w", comp.Describe(), err)
	}
	up := workspace.PortRef{Handle: pl.Component, Port: r.Up}
	down := workspace.PortRef{Handle: pl.Component, Port: r.Down}
	for _, p := range []workspace.PortRef{up, down} {
		if _, connected := w.ConnectedTo(p); connected {
			return plan{}, fmt.Errorf("%w: %s %s port", ErrConnected, comp.Describe(), p.Port)
		}
	}

	nodeIn := workspace.PortRef{Handle: pl.Node, Port: idd.PortInlet}
	nodeOut := workspace.PortRef{Handle: pl.Node, Port: idd.PortOutlet}
	fresh := func(p idd.Port) workspace.PortRef { return workspace.PortRef{Handle: newNodeRef, Port: p} }

	if target, ok := w.ConnectedTo(nodeOut); ok {
		if isNode(w, target.Handle) {
			return plan{edges: []workspace.Edge{
				{From: nodeOut, To: up},
				{From: down, To: target},
			}}, nil
		}
		return plan{newNode: true, edges: []workspace.Edge{
			{From: nodeOut, To: up},
			{From: down, To: fresh(idd.PortInlet)},
			{From: fresh(idd.PortOutlet), To: target},
		}}, nil
	}

	source, ok := w.ConnectedTo(nodeIn)
	if !ok {
		return plan{}, fmt.Errorf("%w: %s is not connected to anything", ErrUnexpectedTopology, node.Describe())
	}
	if isNode(w, source.Handle) {
		return plan{edges: []workspace.Edge{
			{From: source, To: up},
			{From: down, To: nodeIn},
		}}, nil
	}
	return plan{newNode: true, edges: []workspace.Edge{
		{From: source, To: fresh(idd.PortInlet)},
		{From: fresh(idd.PortOutlet), To: up},
		{From: down, To: nodeIn},
	}}, nil
}

func isNode(g Graph, h handle.Handle) bool {
	o, ok := g.Object(h)
	return ok && o.Type().Kind() == idd.KindNode
}

// Splice closes the gap left by taking comp off stream s and returns the nodes
// that became redundant. The caller removes comp and those nodes. Nodes for
// which anchor returns true are never dropped.
func Splice(w *workspace.Workspace, comp handle.Handle, s Stream, anchor func(handle.Handle) bool) ([]handle.Handle, error) {
	r, err := ruleOf(w, comp, s)
	if err != nil {
		return nil, err
	}
	up := workspace.PortRef{Handle: comp, Port: r.Up}
	down := workspace.PortRef{Handle: comp, Port: r.Down}
	source, hasSource := w.ConnectedTo(up)
	target, hasTarget := w.ConnectedTo(down)
	if !hasSource || !hasTarget {
		w.Disconnect(up)
		w.Disconnect(down)
		return nil, nil
	}
	if !isNode(w, source.Handle) || !isNode(w, target.Handle) {
		return nil, fmt.Errorf("%w: %s is not between two nodes", ErrUnexpectedTopology, comp)
	}

	a, b := source.Handle, target.Handle
	if !anchor(b) {
		if next, ok := w.ConnectedTo(workspace.PortRef{Handle: b, Port: idd.PortOutlet}); ok {
			return []handle.Handle{b}, w.Reconnect(workspace.Edge{From: source, To: next})
		}
	}
	if !anchor(a) {
		if prev, ok := w.ConnectedTo(workspace.PortRef{Handle: a, Port: idd.PortInlet}); ok {
			return []handle.Handle{a}, w.Reconnect(workspace.Edge{From: prev, To: target})
		}
	}
	return nil, w.Reconnect(workspace.Edge{From: source, To: target})
}
