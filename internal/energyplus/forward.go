package energyplus

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/model"
)

// ForwardTranslator writes a model out as EnergyPlus records. A translator
// may be reused; each TranslateModel call starts fresh.
type ForwardTranslator struct {
	warnings
	opts   Options
	m      *model.Model
	file   *idf.File
	mapped map[handle.Handle]*idf.Object
	failed map[handle.Handle]bool
}

func NewForwardTranslator(opts Options) *ForwardTranslator {
	return &ForwardTranslator{opts: opts}
}

type translateFunc func(t *ForwardTranslator, o model.ModelObject) (*idf.Object, error)

var forwardDispatch map[idd.Type]translateFunc

func init() {
	forwardDispatch = map[idd.Type]translateFunc{
		idd.Node:                                 translateNode,
		idd.ScheduleConstant:                     translateScheduleConstant,
		idd.AirLoopHVAC:                          translateAirLoopHVAC,
		idd.ControllerOutdoorAir:                 translateControllerOutdoorAir,
		idd.AirLoopHVACOutdoorAirSystem:          translateOutdoorAirSystem,
		idd.AirLoopHVACDedicatedOutdoorAirSystem: translateDedicatedOutdoorAirSystem,
		idd.AirflowNetworkDistributionNode:       translateAFNDistributionNode,
	}
	for _, rm := range componentMaps {
		forwardDispatch[rm.osType] = translateComponent
	}
}

// orphanOrder is the order loose objects are reported in.
var orphanOrder = []idd.Type{
	idd.AirLoopHVACOutdoorAirSystem,
	idd.ControllerOutdoorAir,
	idd.HeatExchangerAirToAirSensibleAndLatent,
	idd.CoilHeatingElectric,
	idd.CoilCoolingWater,
	idd.FanConstantVolume,
	idd.AirLoopHVACUnitarySystem,
}

// TranslateModel translates every object in service. Problems are collected
// as warnings rather than stopping the translation.
func (t *ForwardTranslator) TranslateModel(m *model.Model) *idf.File {
	t.m = m
	t.file = &idf.File{}
	t.mapped = map[handle.Handle]*idf.Object{}
	t.failed = map[handle.Handle]bool{}
	t.list = nil

	log.Info().Int("objects", m.Workspace().Len()).Msg("Translating model")

	for _, typ := range []idd.Type{
		idd.ScheduleConstant,
		idd.AirLoopHVAC,
		idd.AirLoopHVACDedicatedOutdoorAirSystem,
		idd.AirflowNetworkDistributionNode,
	} {
		for _, o := range m.ObjectsOfType(typ) {
			t.translateAndMap(o)
		}
	}

	for _, typ := range orphanOrder {
		for _, o := range m.ObjectsOfType(typ) {
			if t.seen(o) {
				continue
			}
			if t.opts.ExcludeOrphanedComponents {
				t.warn(o.String(), "is not part of an air loop or dedicated outdoor air system and was not translated")
				continue
			}
			t.translateAndMap(o)
		}
	}

	if t.opts.OutdoorAirNodeList {
		t.writeOutdoorAirNodeList()
	}

	log.Info().
		Int("records", len(t.file.Objects)).
		Int("warnings", len(t.list)).
		Msg("Model translated")
	return t.file
}

func (t *ForwardTranslator) seen(o model.ModelObject) bool {
	_, ok := t.mapped[o.Handle()]
	return ok || t.failed[o.Handle()]
}

// translateAndMap translates o once. Later calls return the same record, or
// ErrUntranslatable if the first attempt failed.
func (t *ForwardTranslator) translateAndMap(o model.ModelObject) (*idf.Object, error) {
	h := o.Handle()
	if rec, ok := t.mapped[h]; ok {
		return rec, nil
	}
	if t.failed[h] {
		return nil, fmt.Errorf("%s: %w", o, ErrUntranslatable)
	}
	fn, ok := forwardDispatch[o.Type()]
	if !ok {
		t.failed[h] = true
		t.warn(o.String(), "has no EnergyPlus translation")
		return nil, fmt.Errorf("%s: %w", o, ErrUntranslatable)
	}
	rec, err := fn(t, o)
	if err != nil {
		t.failed[h] = true
		t.warn(o.String(), "was not translated: %v", err)
		return nil, err
	}
	if rec != nil {
		t.mapped[h] = rec
	}
	return rec, nil
}

func (t *ForwardTranslator) add(rec *idf.Object) *idf.Object {
	return t.file.Add(rec)
}

// nodeName names whatever is connected to port p of o, warning when nothing is.
func (t *ForwardTranslator) nodeName(o model.ModelObject, p idd.Port) string {
	if other, ok := o.ConnectedObject(p); ok {
		return other.Name()
	}
	t.warn(o.String(), "has nothing connected to its %s port", p)
	return ""
}

func objectName(o model.ModelObject, ok bool) string {
	if !ok {
		return ""
	}
	return o.Name()
}

// translateRecord fills a record from its field map. Schedules are translated
// on demand; a required schedule that is missing is reported.
func (t *ForwardTranslator) translateRecord(rm *recordMap, o model.ModelObject) *idf.Object {
	rec := idf.NewObject(rm.epType)
	rec.SetName(o.Name())
	for _, f := range rm.scalars {
		rec.SetField(f.ep, o.Field(f.os).Text())
	}
	schema, _ := idd.Lookup(rm.osType)
	for _, f := range rm.schedules {
		s, ok := o.Target(f.os)
		if !ok {
			if schema != nil && schema.Fields[f.os].Required {
				t.warn(o.String(), "is missing its required %s", schema.Fields[f.os].Name)
			}
			continue
		}
		if srec, err := t.translateAndMap(s); err == nil && srec != nil {
			rec.SetField(f.ep, srec.Name())
		}
	}
	for _, p := range rm.ports {
		rec.SetField(p.ep, t.nodeName(o, p.port))
	}
	return t.add(rec)
}

func translateNode(*ForwardTranslator, model.ModelObject) (*idf.Object, error) {
	// Nodes only appear by name in the records that use them.
	return nil, nil
}

func translateScheduleConstant(t *ForwardTranslator, o model.ModelObject) (*idf.Object, error) {
	return t.translateRecord(scheduleConstantMap, o), nil
}

func translateComponent(t *ForwardTranslator, o model.ModelObject) (*idf.Object, error) {
	rm, ok := componentMapFor(o.Type())
	if !ok {
		return nil, fmt.Errorf("%s: %w", o.Type(), ErrUntranslatable)
	}
	rec := t.translateRecord(rm, o)
	if o.Type() == idd.CoilHeatingElectric {
		rec.SetField(idf.CoilHeatingElectricTemperatureSetpointNode, rec.Field(idf.CoilHeatingElectricAirOutletNode))
	}
	return rec, nil
}

func translateAFNDistributionNode(t *ForwardTranslator, o model.ModelObject) (*idf.Object, error) {
	comp, ok := o.Target(idd.AFNDistributionNodeComponent)
	if !ok {
		return nil, errors.New("no component or node")
	}
	rec := t.translateRecord(afnDistributionNodeMap, o)
	rec.SetField(idf.AFNDistributionNodeComponentName, comp.Name())
	switch comp.Type() {
	case idd.Node:
		rec.SetField(idf.AFNDistributionNodeComponentType, "Other")
	default:
		rec.SetField(idf.AFNDistributionNodeComponentType, idf.TypeOutdoorAirSystem)
	}
	return rec, nil
}
