package model

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/topology"
)

var ErrNotOnLoop = errors.New("node is not on an air loop or outdoor air system")

// HVACComponent is anything that can sit in an air stream.
type HVACComponent struct {
	ModelObject
}

func AsHVACComponent(o ModelObject) (HVACComponent, bool) {
	switch o.Type().Kind() {
	case idd.KindStraight, idd.KindAirToAir, idd.KindWaterToAir, idd.KindZoneHVAC, idd.KindOutdoorAirSystem:
		return HVACComponent{o}, true
	}
	return HVACComponent{}, false
}

// location says where a node sits: which stream, and the loop or outdoor air
// system that stream belongs to.
type location struct {
	stream topology.Stream
	loop   AirLoopHVAC
	oa     AirLoopHVACOutdoorAirSystem
}

func contains(objs []ModelObject, h handle.Handle) bool {
	for _, o := range objs {
		if o.handle == h {
			return true
		}
	}
	return false
}

// locate finds every stream h sits on.
func (m *Model) locate(h handle.Handle) ([]location, error) {
	var out []location
	for _, oa := range m.OutdoorAirSystems() {
		comps, err := oa.OAComponents()
		if err != nil {
			return nil, err
		}
		if contains(comps, h) {
			out = append(out, location{stream: topology.Outdoor, oa: oa})
		}
		comps, err = oa.ReliefComponents()
		if err != nil {
			return nil, err
		}
		if contains(comps, h) {
			out = append(out, location{stream: topology.Relief, oa: oa})
		}
	}
	for _, loop := range m.AirLoopHVACs() {
		comps, err := loop.SupplyComponents()
		if err != nil {
			return nil, err
		}
		if contains(comps, h) {
			out = append(out, location{stream: topology.Supply, loop: loop})
		}
	}
	return out, nil
}

// anchors are nodes a splice must never drop: the ends of every loop and the
// outboard nodes of every outdoor air system.
func (m *Model) anchors() func(handle.Handle) bool {
	set := make(map[handle.Handle]bool)
	for _, loop := range m.AirLoopHVACs() {
		for _, f := range []int{idd.AirLoopHVACSupplyInletNode, idd.AirLoopHVACSupplyOutletNode,
			idd.AirLoopHVACDemandInletNode, idd.AirLoopHVACDemandOutletNode} {
			if n, ok := loop.target(f); ok {
				set[n.handle] = true
			}
		}
	}
	for _, oa := range m.OutdoorAirSystems() {
		if n, ok := oa.OutboardOANode(); ok {
			set[n.handle] = true
		}
		if n, ok := oa.OutboardReliefNode(); ok {
			set[n.handle] = true
		}
	}
	return func(h handle.Handle) bool { return set[h] }
}

// AddToNode inserts the component into the stream node belongs to. An air to
// air heat exchanger placed on either stream of an outdoor air system joins
// the other stream at its outboard end too. Nothing changes on failure.
func (c HVACComponent) AddToNode(node Node) bool {
	if c.Type() == idd.AirLoopHVACOutdoorAirSystem {
		return AirLoopHVACOutdoorAirSystem{c}.AddToNode(node)
	}
	if err := c.addToNode(node); err != nil {
		log.Debug().Err(err).Str("component", c.String()).Str("node", node.Name()).Msg("Could not add component to node")
		return false
	}
	return true
}

func (c HVACComponent) addToNode(node Node) error {
	if !c.Exists() || !node.Exists() || node.model != c.model {
		return errors.New("component and node must belong to the same model")
	}
	locs, err := c.model.locate(node.handle)
	if err != nil {
		return err
	}
	if len(locs) == 0 {
		return ErrNotOnLoop
	}
	loc := locs[0]
	places := []topology.Placement{{Node: node.handle, Component: c.handle, Stream: loc.stream}}

	if c.Type().Kind() == idd.KindAirToAir && loc.stream != topology.Supply {
		switch loc.stream {
		case topology.Outdoor:
			relief, ok := loc.oa.OutboardReliefNode()
			if !ok {
				return fmt.Errorf("%s has no relief node", loc.oa)
			}
			places = append(places, topology.Placement{Node: relief.handle, Component: c.handle, Stream: topology.Relief})
		case topology.Relief:
			outdoor, ok := loc.oa.OutboardOANode()
			if !ok {
				return fmt.Errorf("%s has no outdoor air node", loc.oa)
			}
			places = append(places, topology.Placement{Node: outdoor.handle, Component: c.handle, Stream: topology.Outdoor})
		}
	}

	created, err := topology.Insert(c.model.ws, places...)
	if err != nil {
		return err
	}
	log.Debug().Str("component", c.String()).Str("node", node.Name()).Int("new_nodes", len(created)).Msg("Added component to node")
	return nil
}

// AirLoopHVAC returns the loop whose supply path holds the component, directly
// or through its outdoor air system.
func (c HVACComponent) AirLoopHVAC() (AirLoopHVAC, bool) {
	for _, loop := range c.model.AirLoopHVACs() {
		comps, err := loop.SupplyComponents()
		if err != nil {
			continue
		}
		if contains(comps, c.handle) {
			return loop, true
		}
	}
	if oa, ok := c.AirLoopHVACOutdoorAirSystem(); ok {
		return oa.AirLoopHVAC()
	}
	return AirLoopHVAC{}, false
}

// AirLoopHVACOutdoorAirSystem returns the outdoor air system whose outdoor or
// relief stream holds the component.
func (c HVACComponent) AirLoopHVACOutdoorAirSystem() (AirLoopHVACOutdoorAirSystem, bool) {
	for _, oa := range c.model.OutdoorAirSystems() {
		comps, err := oa.Components()
		if err != nil {
			continue
		}
		if contains(comps, c.handle) {
			return oa, true
		}
	}
	return AirLoopHVACOutdoorAirSystem{}, false
}

// Remove takes the component off every stream it is on, closing the gaps,
// then deletes it and whatever it owns.
func (c HVACComponent) Remove() ([]*idf.Object, error) {
	if c.Type() == idd.AirLoopHVACOutdoorAirSystem {
		return AirLoopHVACOutdoorAirSystem{c}.Remove()
	}
	drop, err := c.detach()
	if err != nil {
		return nil, err
	}
	records, err := c.removeFromWorkspace()
	if err != nil {
		return nil, err
	}
	for _, h := range drop {
		r, err := c.model.ws.Remove(h)
		if err != nil {
			return records, err
		}
		records = append(records, r...)
	}
	return records, nil
}

// detach splices the component out of its streams and returns the nodes made
// redundant.
func (c HVACComponent) detach() ([]handle.Handle, error) {
	if !c.Exists() {
		return nil, fmt.Errorf("%s: already removed", c)
	}
	locs, err := c.model.locate(c.handle)
	if err != nil {
		return nil, err
	}
	anchor := c.model.anchors()
	var drop []handle.Handle
	for _, loc := range locs {
		d, err := topology.Splice(c.model.ws, c.handle, loc.stream, anchor)
		if err != nil {
			return drop, err
		}
		drop = append(drop, d...)
	}
	return drop, nil
}
