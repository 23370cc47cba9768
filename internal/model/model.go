// Package model is the typed object API over a workspace. Each wrapper is a
// handle plus the model it lives in; all state stays in the workspace, so a
// wrapper for a removed object simply stops resolving.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/workspace"
)

var errOtherModel = errors.New("object belongs to another model")

type Model struct {
	ws *workspace.Workspace
}

func New() *Model {
	return &Model{ws: workspace.New()}
}

func (m *Model) Workspace() *workspace.Workspace {
	return m.ws
}

func (m *Model) create(t idd.Type) (ModelObject, error) {
	h, err := m.ws.CreateObject(t)
	if err != nil {
		return ModelObject{}, err
	}
	return ModelObject{model: m, handle: h}, nil
}

// ModelObject returns the object with handle h, if it exists.
func (m *Model) ModelObject(h handle.Handle) (ModelObject, bool) {
	if _, ok := m.ws.Object(h); !ok {
		return ModelObject{}, false
	}
	return ModelObject{model: m, handle: h}, true
}

// ObjectsOfType lists objects of type t in creation order.
func (m *Model) ObjectsOfType(t idd.Type) []ModelObject {
	objs := m.ws.Objects(t)
	out := make([]ModelObject, len(objs))
	for i, o := range objs {
		out[i] = ModelObject{model: m, handle: o.Handle()}
	}
	return out
}

// ObjectByName finds an object of type t by name. idd.Unknown matches any type.
func (m *Model) ObjectByName(t idd.Type, name string) (ModelObject, bool) {
	o, ok := m.ws.ObjectByName(t, name)
	if !ok {
		return ModelObject{}, false
	}
	return ModelObject{model: m, handle: o.Handle()}, true
}

func (m *Model) AirLoopHVACs() []AirLoopHVAC {
	var out []AirLoopHVAC
	for _, o := range m.ObjectsOfType(idd.AirLoopHVAC) {
		out = append(out, AirLoopHVAC{o})
	}
	return out
}

func (m *Model) OutdoorAirSystems() []AirLoopHVACOutdoorAirSystem {
	var out []AirLoopHVACOutdoorAirSystem
	for _, o := range m.ObjectsOfType(idd.AirLoopHVACOutdoorAirSystem) {
		out = append(out, AirLoopHVACOutdoorAirSystem{HVACComponent{o}})
	}
	return out
}

func (m *Model) DedicatedOutdoorAirSystems() []AirLoopHVACDedicatedOutdoorAirSystem {
	var out []AirLoopHVACDedicatedOutdoorAirSystem
	for _, o := range m.ObjectsOfType(idd.AirLoopHVACDedicatedOutdoorAirSystem) {
		out = append(out, AirLoopHVACDedicatedOutdoorAirSystem{o})
	}
	return out
}

const alwaysOnDiscreteName = "Always On Discrete"

// AlwaysOnDiscreteSchedule returns the model's constant 1 schedule, creating it
// on first use. A schedule that took the name but holds another value is
// passed over; the one created instead carries a counter suffix and is found
// again on later calls.
func (m *Model) AlwaysOnDiscreteSchedule() (ScheduleConstant, error) {
	for _, o := range m.ObjectsOfType(idd.ScheduleConstant) {
		if !isAlwaysOnDiscreteName(o.Name()) {
			continue
		}
		s := ScheduleConstant{o}
		if v, _ := s.Value(); v == 1 {
			return s, nil
		}
	}
	s, err := NewScheduleConstant(m)
	if err != nil {
		return ScheduleConstant{}, err
	}
	s.SetName(alwaysOnDiscreteName)
	s.SetValue(1)
	return s, nil
}

func isAlwaysOnDiscreteName(name string) bool {
	if strings.EqualFold(name, alwaysOnDiscreteName) {
		return true
	}
	prefix := alwaysOnDiscreteName + " "
	if len(name) <= len(prefix) || !strings.EqualFold(name[:len(prefix)], prefix) {
		return false
	}
	_, err := strconv.Atoi(name[len(prefix):])
	return err == nil
}

// ModelObject is the common base of every typed wrapper.
type ModelObject struct {
	model  *Model
	handle handle.Handle
}

func (o ModelObject) Handle() handle.Handle { return o.handle }
func (o ModelObject) Model() *Model        { return o.model }

func (o ModelObject) object() (*workspace.Object, bool) {
	if o.model == nil {
		return nil, false
	}
	return o.model.ws.Object(o.handle)
}

// Exists reports whether the object is still in its model.
func (o ModelObject) Exists() bool {
	_, ok := o.object()
	return ok
}

// Type is idd.Unknown once the object has been removed.
func (o ModelObject) Type() idd.Type {
	if obj, ok := o.object(); ok {
		return obj.Type()
	}
	return idd.Unknown
}

func (o ModelObject) Name() string {
	if obj, ok := o.object(); ok {
		return obj.Name()
	}
	return ""
}

// SetName returns the name actually applied, which differs from name when it
// was already taken.
func (o ModelObject) SetName(name string) (string, bool) {
	applied, err := o.model.ws.SetName(o.handle, name)
	if err != nil {
		log.Debug().Err(err).Str("object", o.String()).Msg("Rejected name")
		return "", false
	}
	return applied, true
}

func (o ModelObject) String() string {
	if obj, ok := o.object(); ok {
		return obj.Describe()
	}
	return fmt.Sprintf("removed object %s", o.handle)
}

func (o ModelObject) Equal(other ModelObject) bool {
	return o.model == other.model && o.handle == other.handle
}

// Field returns field i, blank when unset or out of range.
func (o ModelObject) Field(i int) workspace.Value {
	if obj, ok := o.object(); ok {
		return obj.Field(i)
	}
	return workspace.Blank()
}

func (o ModelObject) SetField(i int, v workspace.Value) error {
	return o.model.ws.SetField(o.handle, i, v)
}

func (o ModelObject) ResetField(i int) error {
	return o.model.ws.ResetField(o.handle, i)
}

func (o ModelObject) IsDefaulted(i int) bool {
	return o.model.ws.IsDefaulted(o.handle, i)
}

func (o ModelObject) set(i int, v workspace.Value) bool {
	if err := o.SetField(i, v); err != nil {
		log.Debug().Err(err).Str("object", o.String()).Msg("Rejected field value")
		return false
	}
	return true
}

func (o ModelObject) getDouble(i int) (float64, bool) {
	return o.Field(i).AsDouble()
}

func (o ModelObject) getString(i int) string {
	s, _ := o.Field(i).AsString()
	return s
}

func (o ModelObject) setDouble(i int, d float64) bool {
	return o.set(i, workspace.DoubleValue(d))
}

func (o ModelObject) setString(i int, s string) bool {
	return o.set(i, workspace.StringValue(s))
}

func (o ModelObject) autosize(i int) bool {
	return o.set(i, workspace.AutosizeValue())
}

func (o ModelObject) isAutosized(i int) bool {
	return o.Field(i).IsAutosize()
}

func (o ModelObject) reset(i int) bool {
	if err := o.ResetField(i); err != nil {
		log.Debug().Err(err).Str("object", o.String()).Msg("Could not reset field")
		return false
	}
	return true
}

func (o ModelObject) target(i int) (ModelObject, bool) {
	t, ok := o.model.ws.Target(o.handle, i)
	if !ok {
		return ModelObject{}, false
	}
	return ModelObject{model: o.model, handle: t.Handle()}, true
}

// Target resolves reference field i.
func (o ModelObject) Target(i int) (ModelObject, bool) {
	return o.target(i)
}

// SetTarget points reference field i at t.
func (o ModelObject) SetTarget(i int, t ModelObject) error {
	if t.model != o.model {
		return fmt.Errorf("set %s field %d: %w", o, i, errOtherModel)
	}
	return o.SetField(i, workspace.RefValue(t.handle))
}

func (o ModelObject) setTarget(i int, t ModelObject) bool {
	if t.model != o.model {
		log.Debug().Str("object", o.String()).Msg("Rejected reference into another model")
		return false
	}
	return o.set(i, workspace.RefValue(t.handle))
}

func (o ModelObject) sources(t idd.Type) []ModelObject {
	hs := o.model.ws.GetSourceObjects(o.handle, t)
	out := make([]ModelObject, len(hs))
	for i, h := range hs {
		out[i] = ModelObject{model: o.model, handle: h}
	}
	return out
}

func (o ModelObject) schedule(i int) (ScheduleConstant, bool) {
	t, ok := o.target(i)
	if !ok {
		return ScheduleConstant{}, false
	}
	return ScheduleConstant{t}, true
}

// ConnectedObject returns the object on the other side of port p.
func (o ModelObject) ConnectedObject(p idd.Port) (ModelObject, bool) {
	other, ok := o.model.ws.ConnectedTo(workspace.PortRef{Handle: o.handle, Port: p})
	if !ok {
		return ModelObject{}, false
	}
	return ModelObject{model: o.model, handle: other.Handle}, true
}

func (o ModelObject) removeFromWorkspace() ([]*idf.Object, error) {
	return o.model.ws.Remove(o.handle)
}
