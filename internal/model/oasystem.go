package model

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/topology"
	"github.com/thatsimonsguy/hvac-idf/internal/workspace"
)

var (
	ErrControllerInUse = errors.New("controller already belongs to an outdoor air system")
	ErrInDedicated     = errors.New("outdoor air system belongs to a dedicated outdoor air system")
	ErrOnLoop          = errors.New("outdoor air system is already on an air loop")
)

type AirLoopHVACOutdoorAirSystem struct {
	HVACComponent
}

// NewAirLoopHVACOutdoorAirSystem creates an outdoor air system around ctrl
// together with an outdoor air node feeding it and a relief node it exhausts
// to.
func NewAirLoopHVACOutdoorAirSystem(m *Model, ctrl ControllerOutdoorAir) (AirLoopHVACOutdoorAirSystem, error) {
	if !ctrl.Exists() || ctrl.model != m {
		return AirLoopHVACOutdoorAirSystem{}, fmt.Errorf("controller %s is not in this model", ctrl.handle)
	}
	if len(ctrl.sources(idd.AirLoopHVACOutdoorAirSystem)) > 0 {
		return AirLoopHVACOutdoorAirSystem{}, ErrControllerInUse
	}
	o, err := m.create(idd.AirLoopHVACOutdoorAirSystem)
	if err != nil {
		return AirLoopHVACOutdoorAirSystem{}, err
	}
	oa := AirLoopHVACOutdoorAirSystem{HVACComponent{o}}
	fail := func(err error) (AirLoopHVACOutdoorAirSystem, error) {
		_ = o.model.ws.SetField(o.handle, idd.OutdoorAirSystemControllerOutdoorAir, workspace.Blank())
		_, _ = o.removeFromWorkspace()
		return AirLoopHVACOutdoorAirSystem{}, err
	}
	if err := o.SetField(idd.OutdoorAirSystemControllerOutdoorAir, workspace.RefValue(ctrl.handle)); err != nil {
		return fail(err)
	}
	oaNode, err := NewNode(m)
	if err != nil {
		return fail(err)
	}
	reliefNode, err := NewNode(m)
	if err != nil {
		_, _ = oaNode.removeFromWorkspace()
		return fail(err)
	}
	err = m.ws.Reconnect(
		workspace.Edge{
			From: workspace.PortRef{Handle: oaNode.handle, Port: idd.PortOutlet},
			To:   workspace.PortRef{Handle: o.handle, Port: idd.PortOutdoorAir},
		},
		workspace.Edge{
			From: workspace.PortRef{Handle: o.handle, Port: idd.PortReliefAir},
			To:   workspace.PortRef{Handle: reliefNode.handle, Port: idd.PortInlet},
		},
	)
	if err != nil {
		_, _ = oaNode.removeFromWorkspace()
		_, _ = reliefNode.removeFromWorkspace()
		return fail(err)
	}
	return oa, nil
}

func AsAirLoopHVACOutdoorAirSystem(o ModelObject) (AirLoopHVACOutdoorAirSystem, bool) {
	if o.Type() != idd.AirLoopHVACOutdoorAirSystem {
		return AirLoopHVACOutdoorAirSystem{}, false
	}
	return AirLoopHVACOutdoorAirSystem{HVACComponent{o}}, true
}

func (s AirLoopHVACOutdoorAirSystem) ControllerOutdoorAir() (ControllerOutdoorAir, bool) {
	o, ok := s.target(idd.OutdoorAirSystemControllerOutdoorAir)
	if !ok {
		return ControllerOutdoorAir{}, false
	}
	return ControllerOutdoorAir{o}, true
}

// SetControllerOutdoorAir swaps in ctrl. The old controller is left in the
// model.
func (s AirLoopHVACOutdoorAirSystem) SetControllerOutdoorAir(ctrl ControllerOutdoorAir) bool {
	for _, other := range ctrl.sources(idd.AirLoopHVACOutdoorAirSystem) {
		if !other.Equal(s.ModelObject) {
			return false
		}
	}
	return s.setTarget(idd.OutdoorAirSystemControllerOutdoorAir, ctrl.ModelObject)
}

func (s AirLoopHVACOutdoorAirSystem) ReturnAirModelObject() (ModelObject, bool) {
	return s.ConnectedObject(idd.PortReturnAir)
}

func (s AirLoopHVACOutdoorAirSystem) MixedAirModelObject() (ModelObject, bool) {
	return s.ConnectedObject(idd.PortMixedAir)
}

// OutdoorAirModelObject is the object feeding the system's outdoor air port,
// the last entry of OAComponents.
func (s AirLoopHVACOutdoorAirSystem) OutdoorAirModelObject() (ModelObject, bool) {
	return s.ConnectedObject(idd.PortOutdoorAir)
}

// ReliefAirModelObject is the object the relief port feeds, the first entry of
// ReliefComponents.
func (s AirLoopHVACOutdoorAirSystem) ReliefAirModelObject() (ModelObject, bool) {
	return s.ConnectedObject(idd.PortReliefAir)
}

func (s AirLoopHVACOutdoorAirSystem) wrap(chain []handle.Handle) []ModelObject {
	out := make([]ModelObject, len(chain))
	for i, h := range chain {
		out[i] = ModelObject{model: s.model, handle: h}
	}
	return out
}

// OAComponents lists the outdoor air stream in flow order, from the outboard
// outdoor air node to the object feeding the system.
func (s AirLoopHVACOutdoorAirSystem) OAComponents() ([]ModelObject, error) {
	chain, err := topology.WalkUpstream(s.model.ws, workspace.PortRef{Handle: s.handle, Port: idd.PortOutdoorAir}, topology.Outdoor)
	if err != nil {
		return nil, fmt.Errorf("%s outdoor air stream: %w", s, err)
	}
	return s.wrap(chain), nil
}

// ReliefComponents lists the relief stream in flow order, from the object the
// system exhausts into to the outboard relief node.
func (s AirLoopHVACOutdoorAirSystem) ReliefComponents() ([]ModelObject, error) {
	chain, err := topology.WalkDownstream(s.model.ws, workspace.PortRef{Handle: s.handle, Port: idd.PortReliefAir}, topology.Relief)
	if err != nil {
		return nil, fmt.Errorf("%s relief stream: %w", s, err)
	}
	return s.wrap(chain), nil
}

// Components is the outdoor air stream followed by the relief stream. A heat
// exchanger on both streams appears once.
func (s AirLoopHVACOutdoorAirSystem) Components() ([]ModelObject, error) {
	oa, err := s.OAComponents()
	if err != nil {
		return nil, err
	}
	relief, err := s.ReliefComponents()
	if err != nil {
		return nil, err
	}
	out := oa
	for _, r := range relief {
		if !contains(out, r.handle) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s AirLoopHVACOutdoorAirSystem) OutboardOANode() (Node, bool) {
	comps, err := s.OAComponents()
	if err != nil || len(comps) == 0 {
		return Node{}, false
	}
	return AsNode(comps[0])
}

func (s AirLoopHVACOutdoorAirSystem) OutboardReliefNode() (Node, bool) {
	comps, err := s.ReliefComponents()
	if err != nil || len(comps) == 0 {
		return Node{}, false
	}
	return AsNode(comps[len(comps)-1])
}

// AirLoopHVAC returns the loop whose supply path holds the system.
func (s AirLoopHVACOutdoorAirSystem) AirLoopHVAC() (AirLoopHVAC, bool) {
	if _, ok := s.ReturnAirModelObject(); !ok {
		if _, ok := s.MixedAirModelObject(); !ok {
			return AirLoopHVAC{}, false
		}
	}
	for _, loop := range s.model.AirLoopHVACs() {
		comps, err := loop.SupplyComponents()
		if err == nil && contains(comps, s.handle) {
			return loop, true
		}
	}
	return AirLoopHVAC{}, false
}

func (s AirLoopHVACOutdoorAirSystem) AirLoopHVACDedicatedOutdoorAirSystem() (AirLoopHVACDedicatedOutdoorAirSystem, bool) {
	srcs := s.sources(idd.AirLoopHVACDedicatedOutdoorAirSystem)
	if len(srcs) == 0 {
		return AirLoopHVACDedicatedOutdoorAirSystem{}, false
	}
	return AirLoopHVACDedicatedOutdoorAirSystem{srcs[0]}, true
}

func (s AirLoopHVACOutdoorAirSystem) AirflowNetworkDistributionNode() (AirflowNetworkDistributionNode, bool) {
	return afnNodeOf(s.ModelObject)
}

func (s AirLoopHVACOutdoorAirSystem) GetAirflowNetworkDistributionNode() (AirflowNetworkDistributionNode, error) {
	return getAFNNode(s.ModelObject)
}

// AddToNode places the system on the supply path of a loop that has no
// outdoor air system yet. A system serving a dedicated outdoor air system
// stays off every loop.
func (s AirLoopHVACOutdoorAirSystem) AddToNode(node Node) bool {
	if err := s.addToNode(node); err != nil {
		log.Debug().Err(err).Str("component", s.String()).Str("node", node.Name()).Msg("Could not add outdoor air system to node")
		return false
	}
	return true
}

func (s AirLoopHVACOutdoorAirSystem) addToNode(node Node) error {
	if _, ok := s.AirLoopHVACDedicatedOutdoorAirSystem(); ok {
		return ErrInDedicated
	}
	if _, ok := s.AirLoopHVAC(); ok {
		return ErrOnLoop
	}
	locs, err := s.model.locate(node.handle)
	if err != nil {
		return err
	}
	for _, loc := range locs {
		if loc.stream != topology.Supply {
			continue
		}
		if _, ok := loc.loop.AirLoopHVACOutdoorAirSystem(); ok {
			return fmt.Errorf("%s already has an outdoor air system", loc.loop)
		}
		_, err := topology.Insert(s.model.ws, topology.Placement{Node: node.handle, Component: s.handle, Stream: topology.Supply})
		return err
	}
	return ErrNotOnLoop
}

// Remove deletes the system, its controller and everything on its outdoor air
// and relief streams. A system serving a dedicated outdoor air system is
// removed through that system instead.
func (s AirLoopHVACOutdoorAirSystem) Remove() ([]*idf.Object, error) {
	if d, ok := s.AirLoopHVACDedicatedOutdoorAirSystem(); ok {
		return nil, fmt.Errorf("%w: %s", ErrInDedicated, d)
	}
	return s.remove()
}

func (s AirLoopHVACOutdoorAirSystem) remove() ([]*idf.Object, error) {
	records, err := s.removeStreams()
	if err != nil {
		return records, err
	}
	var drop []handle.Handle
	if _, ok := s.AirLoopHVAC(); ok {
		drop, err = topology.Splice(s.model.ws, s.handle, topology.Supply, s.model.anchors())
		if err != nil {
			return records, err
		}
	}
	r, err := s.removeFromWorkspace()
	if err != nil {
		return records, err
	}
	records = append(r, records...)
	for _, h := range drop {
		r, err := s.model.ws.Remove(h)
		if err != nil {
			return records, err
		}
		records = append(records, r...)
	}
	return records, nil
}

// removeStreams empties both streams, outboard nodes included.
func (s AirLoopHVACOutdoorAirSystem) removeStreams() ([]*idf.Object, error) {
	comps, err := s.Components()
	if err != nil {
		return nil, err
	}
	var records []*idf.Object
	for _, c := range comps {
		hc, ok := AsHVACComponent(c)
		if !ok || !c.Exists() {
			continue
		}
		r, err := hc.Remove()
		if err != nil {
			return records, err
		}
		records = append(records, r...)
	}
	nodes, err := s.Components()
	if err != nil {
		return records, err
	}
	for _, n := range nodes {
		r, err := n.removeFromWorkspace()
		if err != nil {
			return records, err
		}
		records = append(records, r...)
	}
	return records, nil
}
