package energyplus

import (
	"errors"
	"strconv"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/model"
	"github.com/thatsimonsguy/hvac-idf/internal/topology"
)

func nodeOrBlank(n model.Node, ok bool) string {
	return objectName(n.ModelObject, ok)
}

func translateAirLoopHVAC(t *ForwardTranslator, o model.ModelObject) (*idf.Object, error) {
	loop, _ := model.AsAirLoopHVAC(o)
	comps, err := loop.SupplyComponents()
	if err != nil {
		return nil, err
	}

	rec := t.translateRecord(airLoopHVACMap, o)
	name := rec.Name()
	rec.SetField(idf.AirLoopHVACSupplyInletNode, nodeOrBlank(loop.SupplyInletNode()))
	rec.SetField(idf.AirLoopHVACSupplyOutletNodes, nodeOrBlank(loop.SupplyOutletNode()))
	rec.SetField(idf.AirLoopHVACDemandInletNodes, nodeOrBlank(loop.DemandInletNode()))
	rec.SetField(idf.AirLoopHVACDemandOutletNode, nodeOrBlank(loop.DemandOutletNode()))

	branch := idf.NewObject(idf.TypeBranch)
	branch.SetName(name + " Main Branch")
	for _, c := range comps {
		if c.Type() == idd.Node {
			continue
		}
		crec, err := t.translateAndMap(c)
		if err != nil || crec == nil {
			continue
		}
		rule, err := topology.RuleFor(c.Type().Kind(), topology.Supply)
		if err != nil {
			t.warn(c.String(), "cannot sit on a supply branch: %v", err)
			continue
		}
		branch.PushGroup(crec.Type, crec.Name(), t.nodeName(c, rule.Up), t.nodeName(c, rule.Down))
	}
	if branch.NumGroups() == 0 {
		t.warn(o.String(), "has no supply components")
	}

	branches := idf.NewObject(idf.TypeBranchList)
	branches.SetName(name + " Supply Branches")
	branches.PushGroup(branch.Name())
	rec.SetField(idf.AirLoopHVACBranchList, branches.Name())
	t.add(branches)
	t.add(branch)
	return rec, nil
}

func translateControllerOutdoorAir(t *ForwardTranslator, o model.ModelObject) (*idf.Object, error) {
	ctrl, _ := model.AsControllerOutdoorAir(o)
	oa, ok := ctrl.AirLoopHVACOutdoorAirSystem()
	if !ok {
		return nil, errors.New("not used by an outdoor air system")
	}
	rec := t.translateRecord(controllerOutdoorAirMap, o)
	rec.SetField(idf.ControllerOutdoorAirReliefAirOutletNode, objectName(oa.ReliefAirModelObject()))
	rec.SetField(idf.ControllerOutdoorAirReturnAirNode, t.nodeName(oa.ModelObject, idd.PortReturnAir))
	rec.SetField(idf.ControllerOutdoorAirMixedAirNode, t.nodeName(oa.ModelObject, idd.PortMixedAir))
	rec.SetField(idf.ControllerOutdoorAirActuatorNode, objectName(oa.OutdoorAirModelObject()))
	return rec, nil
}

func translateOutdoorAirSystem(t *ForwardTranslator, o model.ModelObject) (*idf.Object, error) {
	oa, _ := model.AsAirLoopHVACOutdoorAirSystem(o)
	oaComps, err := oa.OAComponents()
	if err != nil {
		return nil, err
	}
	reliefComps, err := oa.ReliefComponents()
	if err != nil {
		return nil, err
	}
	_, dedicated := oa.AirLoopHVACDedicatedOutdoorAirSystem()

	rec := t.add(idf.NewObject(idf.TypeOutdoorAirSystem))
	rec.SetName(o.Name())
	name := rec.Name()

	ctrl, hasCtrl := oa.ControllerOutdoorAir()
	switch {
	case dedicated && hasCtrl:
		// The dedicated system drives its outdoor air system directly.
		t.mapped[ctrl.Handle()] = nil
	case !hasCtrl:
		t.warn(o.String(), "has no outdoor air controller")
	default:
		if crec, err := t.translateAndMap(ctrl.ModelObject); err == nil {
			list := t.add(idf.NewObject(idf.TypeControllerList))
			list.SetName(name + " Controller List")
			list.PushGroup(crec.Type, crec.Name())
			rec.SetField(idf.OutdoorAirSystemControllerList, list.Name())
		}
	}

	equipment := idf.NewObject(idf.TypeOAEquipmentList)
	equipment.SetName(name + " Equipment List")
	listed := map[string]bool{}
	for _, c := range append(oaComps, reliefComps...) {
		if c.Type() == idd.Node || listed[c.Handle().String()] {
			continue
		}
		listed[c.Handle().String()] = true
		crec, err := t.translateAndMap(c)
		if err != nil || crec == nil {
			continue
		}
		equipment.PushGroup(crec.Type, crec.Name())
	}

	if !dedicated {
		mixer := t.add(idf.NewObject(idf.TypeOutdoorAirMixer))
		mixer.SetName(name + " Outdoor Air Mixer")
		mixer.SetField(idf.OutdoorAirMixerMixedAirNode, t.nodeName(o, idd.PortMixedAir))
		mixer.SetField(idf.OutdoorAirMixerOutdoorAirNode, objectName(oa.OutdoorAirModelObject()))
		mixer.SetField(idf.OutdoorAirMixerReliefAirNode, objectName(oa.ReliefAirModelObject()))
		mixer.SetField(idf.OutdoorAirMixerReturnAirNode, t.nodeName(o, idd.PortReturnAir))
		equipment.PushGroup(mixer.Type, mixer.Name())
	}

	rec.SetField(idf.OutdoorAirSystemEquipmentList, equipment.Name())
	t.add(equipment)
	return rec, nil
}

// dedicatedMixerOutlet is the node the dedicated system's mixer discharges
// into: the secondary inlet of a heat exchanger on its outdoor air stream when
// there is one, else a node of its own.
func dedicatedMixerOutlet(name string, oa model.AirLoopHVACOutdoorAirSystem) string {
	comps, _ := oa.OAComponents()
	for _, c := range comps {
		hx, ok := model.AsHeatExchangerAirToAirSensibleAndLatent(c)
		if !ok {
			continue
		}
		if in, ok := hx.SecondaryAirInletModelObject(); ok {
			return in.Name()
		}
	}
	return name + " Mixer Outlet"
}

func translateDedicatedOutdoorAirSystem(t *ForwardTranslator, o model.ModelObject) (*idf.Object, error) {
	doas, _ := model.AsAirLoopHVACDedicatedOutdoorAirSystem(o)
	oa, ok := doas.AirLoopHVACOutdoorAirSystem()
	if !ok {
		return nil, errors.New("has no outdoor air system")
	}
	oaRec, err := t.translateAndMap(oa.ModelObject)
	if err != nil {
		return nil, err
	}

	rec := t.translateRecord(doasMap, o)
	name := rec.Name()
	rec.SetField(idf.DOASOutdoorAirSystem, oaRec.Name())

	mixer := idf.NewObject(idf.TypeAirLoopMixer)
	mixer.SetName(name + " Mixer")
	mixer.SetField(idf.AirLoopMixerOutletNode, dedicatedMixerOutlet(name, oa))
	splitter := idf.NewObject(idf.TypeAirLoopSplitter)
	splitter.SetName(name + " Splitter")
	splitter.SetField(idf.AirLoopSplitterInletNode, objectName(oa.OutdoorAirModelObject()))
	rec.SetField(idf.DOASMixer, mixer.Name())
	rec.SetField(idf.DOASSplitter, splitter.Name())

	for _, loop := range doas.AirLoops() {
		lrec, err := t.translateAndMap(loop.ModelObject)
		if err != nil {
			continue
		}
		loopOA, ok := loop.AirLoopHVACOutdoorAirSystem()
		if !ok {
			t.warn(loop.String(), "has no outdoor air system to take air from %s", name)
			continue
		}
		rec.PushGroup(lrec.Name())
		mixer.PushGroup(nodeOrBlank(loopOA.OutboardReliefNode()))
		splitter.PushGroup(nodeOrBlank(loopOA.OutboardOANode()))
	}
	rec.SetField(idf.DOASNumberofAirLoopHVAC, strconv.Itoa(rec.NumGroups()))
	if rec.NumGroups() == 0 {
		t.warn(o.String(), "serves no air loops")
	}

	t.add(mixer)
	t.add(splitter)
	return rec, nil
}

// writeOutdoorAirNodeList lists the outboard outdoor air node of every
// translated outdoor air system that draws from outside rather than from a
// dedicated system's splitter.
func (t *ForwardTranslator) writeOutdoorAirNodeList() {
	list := idf.NewObject(idf.TypeOutdoorAirNodeList)
	for _, oa := range t.m.OutdoorAirSystems() {
		if rec, ok := t.mapped[oa.Handle()]; !ok || rec == nil {
			continue
		}
		if loop, ok := oa.AirLoopHVAC(); ok {
			if _, fed := loop.AirLoopHVACDedicatedOutdoorAirSystem(); fed {
				continue
			}
		}
		if n, ok := oa.OutboardOANode(); ok {
			list.PushGroup(n.Name())
		}
	}
	if list.NumGroups() > 0 {
		t.add(list)
	}
}
