package energyplus

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/model"
	"github.com/thatsimonsguy/hvac-idf/internal/topology"
	"github.com/thatsimonsguy/hvac-idf/internal/workspace"
)

// ReverseTranslator builds a model from EnergyPlus records. Equipment is
// placed with the same operations a user would call, so the result obeys
// every topology rule of a hand-built model.
type ReverseTranslator struct {
	warnings
	file   *idf.File
	m      *model.Model
	mapped map[string]model.ModelObject

	// Node names wait until every node exists; see applyNodeNames.
	nodeNames map[handle.Handle]string
	nodeOrder []model.ModelObject
	named     map[handle.Handle]bool
}

func NewReverseTranslator() *ReverseTranslator {
	return &ReverseTranslator{}
}

// Records that only describe structure the model derives from connections.
var structuralTypes = map[string]bool{
	strings.ToLower(idf.TypeBranchList):         true,
	strings.ToLower(idf.TypeBranch):             true,
	strings.ToLower(idf.TypeControllerList):     true,
	strings.ToLower(idf.TypeOAEquipmentList):    true,
	strings.ToLower(idf.TypeOutdoorAirMixer):    true,
	strings.ToLower(idf.TypeOutdoorAirNodeList): true,
	strings.ToLower(idf.TypeAirLoopMixer):       true,
	strings.ToLower(idf.TypeAirLoopSplitter):    true,
}

func recordKey(typ, name string) string {
	return strings.ToLower(typ) + "\x00" + strings.ToLower(name)
}

func (r *ReverseTranslator) lookup(typ, name string) (model.ModelObject, bool) {
	o, ok := r.mapped[recordKey(typ, name)]
	return o, ok
}

func (r *ReverseTranslator) remember(rec *idf.Object, o model.ModelObject) {
	r.mapped[recordKey(rec.Type, rec.Name())] = o
}

// TranslateWorkspace builds a new model from f.
func (r *ReverseTranslator) TranslateWorkspace(f *idf.File) *model.Model {
	r.file = f
	r.m = model.New()
	r.mapped = map[string]model.ModelObject{}
	r.nodeNames = map[handle.Handle]string{}
	r.nodeOrder = nil
	r.named = map[handle.Handle]bool{}
	r.list = nil

	log.Info().Int("records", len(f.Objects)).Msg("Translating input file")

	for _, rec := range f.ByType(idf.TypeScheduleConstant) {
		r.translateSchedule(rec)
	}
	for _, rec := range f.ByType(idf.TypeAirLoopHVAC) {
		r.translateAirLoopHVAC(rec)
	}
	for _, rec := range f.ByType(idf.TypeDOAS) {
		r.translateDedicatedOutdoorAirSystem(rec)
	}
	for _, rec := range f.Objects {
		if structuralTypes[strings.ToLower(rec.Type)] {
			continue
		}
		if _, ok := r.lookup(rec.Type, rec.Name()); ok {
			continue
		}
		switch {
		case strings.EqualFold(rec.Type, idf.TypeAFNDistributionNode):
			// Translated below, once node names are final.
		case strings.EqualFold(rec.Type, idf.TypeScheduleConstant),
			strings.EqualFold(rec.Type, idf.TypeAirLoopHVAC),
			strings.EqualFold(rec.Type, idf.TypeDOAS):
			// Already attempted above; failures were reported there.
		case strings.EqualFold(rec.Type, idf.TypeControllerOutdoorAir):
			r.translateControllerOutdoorAir(rec)
		case strings.EqualFold(rec.Type, idf.TypeOutdoorAirSystem):
			r.translateOutdoorAirSystem(rec, "")
		default:
			if _, ok := componentMapForRecord(rec.Type); ok {
				r.translateComponent(rec)
				continue
			}
			r.warn(describe(rec), "has no model translation")
		}
	}

	r.applyNodeNames()
	for _, rec := range f.ByType(idf.TypeAFNDistributionNode) {
		r.translateAFNDistributionNode(rec)
	}

	log.Info().
		Int("objects", r.m.Workspace().Len()).
		Int("warnings", len(r.list)).
		Msg("Input file translated")
	return r.m
}

func describe(rec *idf.Object) string {
	return rec.Type + " '" + rec.Name() + "'"
}

// setName gives o its record name. A node still holding a placeholder name
// gives the name up; any other holder forces a suffix, which is reported.
func (r *ReverseTranslator) setName(o model.ModelObject, name string) {
	if name == "" {
		return
	}
	if holder, ok := r.m.ObjectByName(idd.Unknown, name); ok && !holder.Equal(o) &&
		holder.Type() == idd.Node && !r.named[holder.Handle()] {
		holder.SetName(r.m.Workspace().DefaultName(idd.Node))
	}
	applied, ok := o.SetName(name)
	switch {
	case !ok:
		r.warn(o.String(), "cannot be named %q", name)
	case !strings.EqualFold(applied, name):
		r.warn(o.String(), "was named %q because %q is taken", applied, name)
	}
}

// nameNode queues a name for node o. The last name queued wins.
func (r *ReverseTranslator) nameNode(o model.ModelObject, name string) {
	if name == "" || o.Type() != idd.Node {
		return
	}
	if _, queued := r.nodeNames[o.Handle()]; !queued {
		r.nodeOrder = append(r.nodeOrder, o)
	}
	r.nodeNames[o.Handle()] = name
}

// applyNodeNames names every queued node. Nodes are created in bulk with
// default names, so the queued nodes first move to their handles; a name one
// of them wants can then only be held by a node nobody named.
func (r *ReverseTranslator) applyNodeNames() {
	for _, n := range r.nodeOrder {
		n.SetName(n.Handle().String())
	}
	for _, n := range r.nodeOrder {
		r.setName(n, r.nodeNames[n.Handle()])
		r.named[n.Handle()] = true
	}
	r.nodeOrder = nil
}

// apply copies scalar fields and resolves schedules by name. Each bad value
// costs one warning and leaves the field at its default.
func (r *ReverseTranslator) apply(rm *recordMap, rec *idf.Object, o model.ModelObject) {
	schema, _ := idd.Lookup(rm.osType)
	for _, f := range rm.scalars {
		text := rec.Field(f.ep)
		if text == "" {
			continue
		}
		field := schema.Fields[f.os]
		v, err := workspace.ParseValue(field, text)
		if err == nil {
			err = o.SetField(f.os, v)
		}
		if err != nil {
			r.warn(describe(rec), "ignored %s %q: %v", field.Name, text, err)
		}
	}
	for _, f := range rm.schedules {
		name := rec.Field(f.ep)
		if name == "" {
			continue
		}
		s, ok := r.schedule(name)
		if !ok {
			r.warn(describe(rec), "references missing schedule %q", name)
			continue
		}
		if err := o.SetTarget(f.os, s.ModelObject); err != nil {
			r.warn(describe(rec), "ignored schedule %q: %v", name, err)
		}
	}
}

func (r *ReverseTranslator) schedule(name string) (model.ScheduleConstant, bool) {
	if o, ok := r.lookup(idf.TypeScheduleConstant, name); ok {
		return model.AsScheduleConstant(o)
	}
	rec, ok := r.file.Find(idf.TypeScheduleConstant, name)
	if !ok {
		return model.ScheduleConstant{}, false
	}
	return r.translateSchedule(rec)
}

func (r *ReverseTranslator) translateSchedule(rec *idf.Object) (model.ScheduleConstant, bool) {
	if o, ok := r.lookup(rec.Type, rec.Name()); ok {
		return model.AsScheduleConstant(o)
	}
	s, err := model.NewScheduleConstant(r.m)
	if err != nil {
		r.warn(describe(rec), "was not translated: %v", err)
		return model.ScheduleConstant{}, false
	}
	r.setName(s.ModelObject, rec.Name())
	r.remember(rec, s.ModelObject)
	r.apply(scheduleConstantMap, rec, s.ModelObject)
	return s, true
}

func (r *ReverseTranslator) translateComponent(rec *idf.Object) (model.HVACComponent, bool) {
	if o, ok := r.lookup(rec.Type, rec.Name()); ok {
		return model.AsHVACComponent(o)
	}
	rm, ok := componentMapForRecord(rec.Type)
	if !ok {
		r.warn(describe(rec), "has no model translation")
		return model.HVACComponent{}, false
	}
	c, err := model.NewHVACComponent(r.m, rm.osType)
	if err != nil {
		r.warn(describe(rec), "was not translated: %v", err)
		return model.HVACComponent{}, false
	}
	r.setName(c.ModelObject, rec.Name())
	r.remember(rec, c.ModelObject)
	r.apply(rm, rec, c.ModelObject)
	return c, true
}

// component finds or translates the record a list entry names.
func (r *ReverseTranslator) component(owner *idf.Object, typ, name string) (*idf.Object, model.HVACComponent, bool) {
	rec, ok := r.file.Find(typ, name)
	if !ok {
		r.warn(describe(owner), "references missing %s %q", typ, name)
		return nil, model.HVACComponent{}, false
	}
	c, ok := r.translateComponent(rec)
	return rec, c, ok
}

// nameConnected names the node on port p of o.
func (r *ReverseTranslator) nameConnected(o model.ModelObject, p idd.Port, name string) {
	if n, ok := o.ConnectedObject(p); ok {
		r.nameNode(n, name)
	}
}

// nameNodes names the nodes around a placed component after its record.
func (r *ReverseTranslator) nameNodes(rm *recordMap, rec *idf.Object, c model.HVACComponent) {
	for _, p := range rm.ports {
		r.nameConnected(c.ModelObject, p.port, rec.Field(p.ep))
	}
}

func (r *ReverseTranslator) translateAirLoopHVAC(rec *idf.Object) (model.AirLoopHVAC, bool) {
	if o, ok := r.lookup(rec.Type, rec.Name()); ok {
		return model.AsAirLoopHVAC(o)
	}
	loop, err := model.NewAirLoopHVAC(r.m)
	if err != nil {
		r.warn(describe(rec), "was not translated: %v", err)
		return model.AirLoopHVAC{}, false
	}
	r.setName(loop.ModelObject, rec.Name())
	r.remember(rec, loop.ModelObject)
	r.apply(airLoopHVACMap, rec, loop.ModelObject)
	defer r.nameLoopNodes(loop, rec)

	outlet, ok := loop.SupplyOutletNode()
	if !ok {
		return loop, true
	}
	list, ok := r.file.Find(idf.TypeBranchList, rec.Field(idf.AirLoopHVACBranchList))
	if !ok {
		r.warn(describe(rec), "references missing branch list %q", rec.Field(idf.AirLoopHVACBranchList))
		return loop, true
	}
	groups := list.Groups()
	if len(groups) == 0 {
		r.warn(describe(list), "lists no branches")
		return loop, true
	}
	if len(groups) > 1 {
		r.warn(describe(list), "lists %d branches; only the first is translated", len(groups))
	}
	branch, ok := r.file.Find(idf.TypeBranch, groups[0][0])
	if !ok {
		r.warn(describe(list), "references missing branch %q", groups[0][0])
		return loop, true
	}

	for _, g := range branch.Groups() {
		typ, name := g[idf.BranchComponentType], g[idf.BranchComponentName]
		if strings.EqualFold(typ, idf.TypeOutdoorAirSystem) {
			oaRec, ok := r.file.Find(idf.TypeOutdoorAirSystem, name)
			if !ok {
				r.warn(describe(branch), "references missing outdoor air system %q", name)
				continue
			}
			oa, ok := r.translateOutdoorAirSystem(oaRec, "")
			if !ok {
				continue
			}
			if !oa.AddToNode(outlet) {
				r.warn(describe(oaRec), "could not be placed on %s", describe(rec))
				continue
			}
			r.nameConnected(oa.ModelObject, idd.PortReturnAir, g[idf.BranchComponentInletNode])
			r.nameConnected(oa.ModelObject, idd.PortMixedAir, g[idf.BranchComponentOutletNode])
			continue
		}
		crec, c, ok := r.component(branch, typ, name)
		if !ok {
			continue
		}
		if !c.AddToNode(outlet) {
			r.warn(describe(crec), "could not be placed on %s", describe(rec))
			continue
		}
		rule, _ := topology.RuleFor(c.Type().Kind(), topology.Supply)
		r.nameConnected(c.ModelObject, rule.Up, g[idf.BranchComponentInletNode])
		r.nameConnected(c.ModelObject, rule.Down, g[idf.BranchComponentOutletNode])
	}
	return loop, true
}

// nameLoopNodes names the four nodes an air loop record lists.
func (r *ReverseTranslator) nameLoopNodes(loop model.AirLoopHVAC, rec *idf.Object) {
	for _, nf := range []struct {
		node  func() (model.Node, bool)
		field int
	}{
		{loop.SupplyInletNode, idf.AirLoopHVACSupplyInletNode},
		{loop.SupplyOutletNode, idf.AirLoopHVACSupplyOutletNodes},
		{loop.DemandInletNode, idf.AirLoopHVACDemandInletNodes},
		{loop.DemandOutletNode, idf.AirLoopHVACDemandOutletNode},
	} {
		if n, ok := nf.node(); ok {
			r.nameNode(n.ModelObject, rec.Field(nf.field))
		}
	}
}

func (r *ReverseTranslator) translateControllerOutdoorAir(rec *idf.Object) (model.ControllerOutdoorAir, bool) {
	if o, ok := r.lookup(rec.Type, rec.Name()); ok {
		return model.AsControllerOutdoorAir(o)
	}
	ctrl, err := model.NewControllerOutdoorAir(r.m)
	if err != nil {
		r.warn(describe(rec), "was not translated: %v", err)
		return model.ControllerOutdoorAir{}, false
	}
	r.setName(ctrl.ModelObject, rec.Name())
	r.remember(rec, ctrl.ModelObject)
	r.apply(controllerOutdoorAirMap, rec, ctrl.ModelObject)
	return ctrl, true
}

// oaEntry is one piece of equipment from an outdoor air equipment list.
type oaEntry struct {
	rec  *idf.Object
	rm   *recordMap
	comp model.HVACComponent
}

func (e oaEntry) airToAir() bool {
	return e.comp.Type().Kind() == idd.KindAirToAir
}

// reliefChain follows node names from start through the entries, returning
// the entries on the relief stream in flow order.
func reliefChain(entries []oaEntry, start string) []oaEntry {
	var chain []oaEntry
	used := make([]bool, len(entries))
	for current := start; current != ""; {
		next := ""
		for i, e := range entries {
			if used[i] {
				continue
			}
			rule, err := topology.RuleFor(e.comp.Type().Kind(), topology.Relief)
			if err != nil {
				continue
			}
			in, ok := e.rm.portField(rule.Up)
			if !ok || !strings.EqualFold(e.rec.Field(in), current) {
				continue
			}
			used[i] = true
			chain = append(chain, e)
			if out, ok := e.rm.portField(rule.Down); ok {
				next = e.rec.Field(out)
			}
			break
		}
		current = next
	}
	return chain
}

// translateOutdoorAirSystem rebuilds an outdoor air system and its equipment.
// reliefStart names the node feeding the relief stream when no outdoor air
// mixer says so.
func (r *ReverseTranslator) translateOutdoorAirSystem(rec *idf.Object, reliefStart string) (model.AirLoopHVACOutdoorAirSystem, bool) {
	if o, ok := r.lookup(rec.Type, rec.Name()); ok {
		return model.AsAirLoopHVACOutdoorAirSystem(o)
	}

	var (
		ctrl    model.ControllerOutdoorAir
		hasCtrl bool
	)
	if name := rec.Field(idf.OutdoorAirSystemControllerList); name != "" {
		list, ok := r.file.Find(idf.TypeControllerList, name)
		if !ok {
			r.warn(describe(rec), "references missing controller list %q", name)
		} else {
			for _, g := range list.Groups() {
				if !strings.EqualFold(g[0], idf.TypeControllerOutdoorAir) {
					continue
				}
				if crec, ok := r.file.Find(idf.TypeControllerOutdoorAir, g[1]); ok {
					ctrl, hasCtrl = r.translateControllerOutdoorAir(crec)
					break
				}
				r.warn(describe(list), "references missing controller %q", g[1])
			}
		}
	}
	if !hasCtrl {
		var err error
		if ctrl, err = model.NewControllerOutdoorAir(r.m); err != nil {
			r.warn(describe(rec), "was not translated: %v", err)
			return model.AirLoopHVACOutdoorAirSystem{}, false
		}
	}
	oa, err := model.NewAirLoopHVACOutdoorAirSystem(r.m, ctrl)
	if err != nil {
		r.warn(describe(rec), "was not translated: %v", err)
		return model.AirLoopHVACOutdoorAirSystem{}, false
	}
	r.setName(oa.ModelObject, rec.Name())
	r.remember(rec, oa.ModelObject)

	listName := rec.Field(idf.OutdoorAirSystemEquipmentList)
	equipment, ok := r.file.Find(idf.TypeOAEquipmentList, listName)
	if !ok {
		if listName != "" {
			r.warn(describe(rec), "references missing equipment list %q", listName)
		}
		return oa, true
	}

	var (
		entries []oaEntry
		mixer   *idf.Object
	)
	for _, g := range equipment.Groups() {
		typ, name := g[0], g[1]
		if strings.EqualFold(typ, idf.TypeOutdoorAirMixer) {
			mixer, _ = r.file.Find(idf.TypeOutdoorAirMixer, name)
			continue
		}
		crec, c, ok := r.component(equipment, typ, name)
		if !ok {
			continue
		}
		rm, _ := componentMapForRecord(crec.Type)
		entries = append(entries, oaEntry{rec: crec, rm: rm, comp: c})
	}
	if mixer != nil && reliefStart == "" {
		reliefStart = mixer.Field(idf.OutdoorAirMixerReliefAirNode)
	}

	relief := reliefChain(entries, reliefStart)
	reliefOnly := map[string]bool{}
	for _, e := range relief {
		if !e.airToAir() {
			reliefOnly[e.comp.Handle().String()] = true
		}
	}

	// Each outdoor air component goes directly downstream of the outboard
	// node, so placing the list backwards restores its order.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if reliefOnly[e.comp.Handle().String()] {
			continue
		}
		n, ok := oa.OutboardOANode()
		if !ok || !e.comp.AddToNode(n) {
			r.warn(describe(e.rec), "could not be placed on %s", describe(rec))
		}
	}

	// Relief equipment goes right after whatever precedes it in the chain.
	var prev *oaEntry
	for i := range relief {
		e := relief[i]
		if e.airToAir() {
			prev = &relief[i]
			continue
		}
		var (
			at  model.ModelObject
			ok  bool
			err error
		)
		if prev == nil {
			at, ok = oa.ReliefAirModelObject()
		} else {
			var rule topology.Rule
			if rule, err = topology.RuleFor(prev.comp.Type().Kind(), topology.Relief); err == nil {
				at, ok = prev.comp.ConnectedObject(rule.Down)
			}
		}
		n, isNode := model.AsNode(at)
		if !ok || !isNode || !e.comp.AddToNode(n) {
			r.warn(describe(e.rec), "could not be placed on the relief stream of %s", describe(rec))
		}
		prev = &relief[i]
	}

	for _, e := range entries {
		r.nameNodes(e.rm, e.rec, e.comp)
	}
	if mixer != nil {
		if n, ok := oa.OutdoorAirModelObject(); ok {
			r.nameNode(n, mixer.Field(idf.OutdoorAirMixerOutdoorAirNode))
		}
		if n, ok := oa.ReliefAirModelObject(); ok {
			r.nameNode(n, mixer.Field(idf.OutdoorAirMixerReliefAirNode))
		}
	}
	return oa, true
}

func (r *ReverseTranslator) translateDedicatedOutdoorAirSystem(rec *idf.Object) {
	if _, ok := r.lookup(rec.Type, rec.Name()); ok {
		return
	}
	oaName := rec.Field(idf.DOASOutdoorAirSystem)
	oaRec, ok := r.file.Find(idf.TypeOutdoorAirSystem, oaName)
	if !ok {
		r.warn(describe(rec), "references missing outdoor air system %q", oaName)
		return
	}
	reliefStart := ""
	if mixer, ok := r.file.Find(idf.TypeAirLoopMixer, rec.Field(idf.DOASMixer)); ok {
		reliefStart = mixer.Field(idf.AirLoopMixerOutletNode)
	}
	oa, ok := r.translateOutdoorAirSystem(oaRec, reliefStart)
	if !ok {
		return
	}
	if splitter, ok := r.file.Find(idf.TypeAirLoopSplitter, rec.Field(idf.DOASSplitter)); ok {
		if n, ok := oa.OutdoorAirModelObject(); ok {
			r.nameNode(n, splitter.Field(idf.AirLoopSplitterInletNode))
		}
	}
	doas, err := model.NewAirLoopHVACDedicatedOutdoorAirSystem(r.m, oa)
	if err != nil {
		r.warn(describe(rec), "was not translated: %v", err)
		return
	}
	r.setName(doas.ModelObject, rec.Name())
	r.remember(rec, doas.ModelObject)
	r.apply(doasMap, rec, doas.ModelObject)

	groups := rec.Groups()
	if n, err := strconv.Atoi(rec.Field(idf.DOASNumberofAirLoopHVAC)); err == nil && n != len(groups) {
		r.warn(describe(rec), "declares %d air loops but lists %d", n, len(groups))
	}
	for _, g := range groups {
		name := g[0]
		loopRec, ok := r.file.Find(idf.TypeAirLoopHVAC, name)
		if !ok {
			r.warn(describe(rec), "references missing air loop %q", name)
			continue
		}
		loop, ok := r.translateAirLoopHVAC(loopRec)
		if !ok {
			continue
		}
		if !doas.AddAirLoop(loop) {
			r.warn(describe(rec), "cannot serve %s", describe(loopRec))
		}
	}
}

func (r *ReverseTranslator) translateAFNDistributionNode(rec *idf.Object) {
	name := rec.Field(idf.AFNDistributionNodeComponentName)
	var (
		afn model.AirflowNetworkDistributionNode
		err error
	)
	if strings.EqualFold(rec.Field(idf.AFNDistributionNodeComponentType), idf.TypeOutdoorAirSystem) {
		o, ok := r.lookup(idf.TypeOutdoorAirSystem, name)
		if !ok {
			r.warn(describe(rec), "references untranslated outdoor air system %q", name)
			return
		}
		oa, _ := model.AsAirLoopHVACOutdoorAirSystem(o)
		afn, err = oa.GetAirflowNetworkDistributionNode()
	} else {
		o, ok := r.m.ObjectByName(idd.Node, name)
		if !ok {
			r.warn(describe(rec), "references missing node %q", name)
			return
		}
		n, _ := model.AsNode(o)
		afn, err = n.GetAirflowNetworkDistributionNode()
	}
	if err != nil {
		r.warn(describe(rec), "was not translated: %v", err)
		return
	}
	r.setName(afn.ModelObject, rec.Name())
	r.remember(rec, afn.ModelObject)
	r.apply(afnDistributionNodeMap, rec, afn.ModelObject)
}
