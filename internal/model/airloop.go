package model

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/topology"
	"github.com/thatsimonsguy/hvac-idf/internal/workspace"
)

type AirLoopHVAC struct {
	ModelObject
}

// NewAirLoopHVAC creates a loop with its four end nodes. The supply inlet node
// feeds the supply outlet node directly until components are added.
func NewAirLoopHVAC(m *Model) (AirLoopHVAC, error) {
	o, err := m.create(idd.AirLoopHVAC)
	if err != nil {
		return AirLoopHVAC{}, err
	}
	loop := AirLoopHVAC{o}
	var nodes [4]Node
	for i, f := range []int{idd.AirLoopHVACSupplyInletNode, idd.AirLoopHVACSupplyOutletNode,
		idd.AirLoopHVACDemandInletNode, idd.AirLoopHVACDemandOutletNode} {
		n, err := NewNode(m)
		if err != nil {
			_, _ = loop.removeFromWorkspace()
			return AirLoopHVAC{}, err
		}
		if err := loop.SetField(f, workspace.RefValue(n.handle)); err != nil {
			_, _ = loop.removeFromWorkspace()
			_, _ = n.removeFromWorkspace()
			return AirLoopHVAC{}, err
		}
		nodes[i] = n
	}
	err = m.ws.Reconnect(
		workspace.Edge{
			From: workspace.PortRef{Handle: nodes[0].handle, Port: idd.PortOutlet},
			To:   workspace.PortRef{Handle: nodes[1].handle, Port: idd.PortInlet},
		},
		workspace.Edge{
			From: workspace.PortRef{Handle: nodes[2].handle, Port: idd.PortOutlet},
			To:   workspace.PortRef{Handle: nodes[3].handle, Port: idd.PortInlet},
		},
	)
	if err != nil {
		_, _ = loop.removeFromWorkspace()
		return AirLoopHVAC{}, err
	}
	return loop, nil
}

func AsAirLoopHVAC(o ModelObject) (AirLoopHVAC, bool) {
	if o.Type() != idd.AirLoopHVAC {
		return AirLoopHVAC{}, false
	}
	return AirLoopHVAC{o}, true
}

func (l AirLoopHVAC) node(i int) (Node, bool) {
	o, ok := l.target(i)
	if !ok {
		return Node{}, false
	}
	return Node{o}, true
}

func (l AirLoopHVAC) SupplyInletNode() (Node, bool) {
	return l.node(idd.AirLoopHVACSupplyInletNode)
}

func (l AirLoopHVAC) SupplyOutletNode() (Node, bool) {
	return l.node(idd.AirLoopHVACSupplyOutletNode)
}

func (l AirLoopHVAC) DemandInletNode() (Node, bool) {
	return l.node(idd.AirLoopHVACDemandInletNode)
}

func (l AirLoopHVAC) DemandOutletNode() (Node, bool) {
	return l.node(idd.AirLoopHVACDemandOutletNode)
}

// SupplyComponents lists the supply path from the supply inlet node to the
// supply outlet node in flow order, nodes included.
func (l AirLoopHVAC) SupplyComponents() ([]ModelObject, error) {
	inlet, ok := l.SupplyInletNode()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no supply inlet node", topology.ErrUnexpectedTopology, l)
	}
	chain, err := topology.WalkDownstream(l.model.ws, workspace.PortRef{Handle: inlet.handle, Port: idd.PortOutlet}, topology.Supply)
	if err != nil {
		return nil, err
	}
	out := []ModelObject{inlet.ModelObject}
	for _, h := range chain {
		out = append(out, ModelObject{model: l.model, handle: h})
	}
	return out, nil
}

func (l AirLoopHVAC) AirLoopHVACOutdoorAirSystem() (AirLoopHVACOutdoorAirSystem, bool) {
	comps, err := l.SupplyComponents()
	if err != nil {
		log.Warn().Err(err).Str("loop", l.Name()).Msg("Could not walk supply path")
		return AirLoopHVACOutdoorAirSystem{}, false
	}
	for _, c := range comps {
		if c.Type() == idd.AirLoopHVACOutdoorAirSystem {
			return AirLoopHVACOutdoorAirSystem{HVACComponent{c}}, true
		}
	}
	return AirLoopHVACOutdoorAirSystem{}, false
}

// AirLoopHVACDedicatedOutdoorAirSystem returns the dedicated system this loop
// is a member of.
func (l AirLoopHVAC) AirLoopHVACDedicatedOutdoorAirSystem() (AirLoopHVACDedicatedOutdoorAirSystem, bool) {
	srcs := l.sources(idd.AirLoopHVACDedicatedOutdoorAirSystem)
	if len(srcs) == 0 {
		return AirLoopHVACDedicatedOutdoorAirSystem{}, false
	}
	return AirLoopHVACDedicatedOutdoorAirSystem{srcs[0]}, true
}

func (l AirLoopHVAC) AvailabilitySchedule() (ScheduleConstant, bool) {
	return l.schedule(idd.AirLoopHVACAvailabilitySchedule)
}

func (l AirLoopHVAC) SetAvailabilitySchedule(s ScheduleConstant) bool {
	return l.setTarget(idd.AirLoopHVACAvailabilitySchedule, s.ModelObject)
}

func (l AirLoopHVAC) ResetAvailabilitySchedule() bool {
	return l.reset(idd.AirLoopHVACAvailabilitySchedule)
}

func (l AirLoopHVAC) DesignSupplyAirFlowRate() (float64, bool) {
	return l.getDouble(idd.AirLoopHVACDesignSupplyAirFlowRate)
}

func (l AirLoopHVAC) SetDesignSupplyAirFlowRate(v float64) bool {
	return l.setDouble(idd.AirLoopHVACDesignSupplyAirFlowRate, v)
}

func (l AirLoopHVAC) IsDesignSupplyAirFlowRateAutosized() bool {
	return l.isAutosized(idd.AirLoopHVACDesignSupplyAirFlowRate)
}

func (l AirLoopHVAC) AutosizeDesignSupplyAirFlowRate() bool {
	return l.autosize(idd.AirLoopHVACDesignSupplyAirFlowRate)
}

// Remove deletes the loop, its supply components and its nodes. Dedicated
// systems the loop belonged to lose it from their loop list.
func (l AirLoopHVAC) Remove() ([]*idf.Object, error) {
	comps, err := l.SupplyComponents()
	if err != nil {
		return nil, err
	}
	var records []*idf.Object
	for _, c := range comps {
		hc, ok := AsHVACComponent(c)
		if !ok {
			continue
		}
		r, err := hc.Remove()
		if err != nil {
			return records, fmt.Errorf("removing %s from %s: %w", c, l, err)
		}
		records = append(records, r...)
	}
	r, err := l.removeFromWorkspace()
	if err != nil {
		return records, err
	}
	return append(r, records...), nil
}
