package model

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/workspace"
)

// AirLoopHVACDedicatedOutdoorAirSystem feeds several air loops from one
// outdoor air system. It owns that system; the loops are only members.
type AirLoopHVACDedicatedOutdoorAirSystem struct {
	ModelObject
}

// NewAirLoopHVACDedicatedOutdoorAirSystem wraps oa, which must not be on an
// air loop or serve another dedicated system. The availability schedule starts
// as the model's always-on schedule.
func NewAirLoopHVACDedicatedOutdoorAirSystem(m *Model, oa AirLoopHVACOutdoorAirSystem) (AirLoopHVACDedicatedOutdoorAirSystem, error) {
	if !oa.Exists() || oa.model != m {
		return AirLoopHVACDedicatedOutdoorAirSystem{}, fmt.Errorf("outdoor air system %s is not in this model", oa.handle)
	}
	if loop, ok := oa.AirLoopHVAC(); ok {
		return AirLoopHVACDedicatedOutdoorAirSystem{}, fmt.Errorf("%w: %s", ErrOnLoop, loop)
	}
	if other, ok := oa.AirLoopHVACDedicatedOutdoorAirSystem(); ok {
		return AirLoopHVACDedicatedOutdoorAirSystem{}, fmt.Errorf("%w: %s", ErrInDedicated, other)
	}
	sched, err := m.AlwaysOnDiscreteSchedule()
	if err != nil {
		return AirLoopHVACDedicatedOutdoorAirSystem{}, err
	}
	o, err := m.create(idd.AirLoopHVACDedicatedOutdoorAirSystem)
	if err != nil {
		return AirLoopHVACDedicatedOutdoorAirSystem{}, err
	}
	d := AirLoopHVACDedicatedOutdoorAirSystem{o}
	for _, set := range []struct {
		field int
		to    ModelObject
	}{
		{idd.DOASOutdoorAirSystem, oa.ModelObject},
		{idd.DOASAvailabilitySchedule, sched.ModelObject},
	} {
		if err := o.SetField(set.field, workspace.RefValue(set.to.handle)); err != nil {
			_ = o.SetField(idd.DOASOutdoorAirSystem, workspace.Blank())
			_, _ = o.removeFromWorkspace()
			return AirLoopHVACDedicatedOutdoorAirSystem{}, err
		}
	}
	return d, nil
}

func AsAirLoopHVACDedicatedOutdoorAirSystem(o ModelObject) (AirLoopHVACDedicatedOutdoorAirSystem, bool) {
	if o.Type() != idd.AirLoopHVACDedicatedOutdoorAirSystem {
		return AirLoopHVACDedicatedOutdoorAirSystem{}, false
	}
	return AirLoopHVACDedicatedOutdoorAirSystem{o}, true
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) AirLoopHVACOutdoorAirSystem() (AirLoopHVACOutdoorAirSystem, bool) {
	o, ok := d.target(idd.DOASOutdoorAirSystem)
	if !ok {
		return AirLoopHVACOutdoorAirSystem{}, false
	}
	return AirLoopHVACOutdoorAirSystem{HVACComponent{o}}, true
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) AvailabilitySchedule() (ScheduleConstant, bool) {
	return d.schedule(idd.DOASAvailabilitySchedule)
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) SetAvailabilitySchedule(s ScheduleConstant) bool {
	return d.setTarget(idd.DOASAvailabilitySchedule, s.ModelObject)
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) PreheatDesignTemperature() float64 {
	v, _ := d.getDouble(idd.DOASPreheatDesignTemperature)
	return v
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) SetPreheatDesignTemperature(v float64) bool {
	return d.setDouble(idd.DOASPreheatDesignTemperature, v)
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) PreheatDesignHumidityRatio() float64 {
	v, _ := d.getDouble(idd.DOASPreheatDesignHumidityRatio)
	return v
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) SetPreheatDesignHumidityRatio(v float64) bool {
	return d.setDouble(idd.DOASPreheatDesignHumidityRatio, v)
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) PrecoolDesignTemperature() float64 {
	v, _ := d.getDouble(idd.DOASPrecoolDesignTemperature)
	return v
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) SetPrecoolDesignTemperature(v float64) bool {
	return d.setDouble(idd.DOASPrecoolDesignTemperature, v)
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) PrecoolDesignHumidityRatio() float64 {
	v, _ := d.getDouble(idd.DOASPrecoolDesignHumidityRatio)
	return v
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) SetPrecoolDesignHumidityRatio(v float64) bool {
	return d.setDouble(idd.DOASPrecoolDesignHumidityRatio, v)
}

// AirLoops lists the member loops in list order.
func (d AirLoopHVACDedicatedOutdoorAirSystem) AirLoops() []AirLoopHVAC {
	obj, ok := d.object()
	if !ok {
		return nil
	}
	var out []AirLoopHVAC
	for g := 0; g < obj.NumGroups(); g++ {
		if h, ok := obj.Group(g)[idd.DOASAirLoop].AsHandle(); ok {
			out = append(out, AirLoopHVAC{ModelObject{model: d.model, handle: h}})
		}
	}
	return out
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) NumberofAirLoops() int {
	obj, ok := d.object()
	if !ok {
		return 0
	}
	return obj.NumGroups()
}

// AirLoopIndex is the 1-based position of loop in the member list.
func (d AirLoopHVACDedicatedOutdoorAirSystem) AirLoopIndex(loop AirLoopHVAC) (int, bool) {
	for i, l := range d.AirLoops() {
		if l.Equal(loop.ModelObject) {
			return i + 1, true
		}
	}
	return 0, false
}

// AddAirLoop appends loop. The loop needs an outdoor air system of its own and
// may belong to only one dedicated system.
func (d AirLoopHVACDedicatedOutdoorAirSystem) AddAirLoop(loop AirLoopHVAC) bool {
	if err := d.checkMember(loop); err != nil {
		log.Debug().Err(err).Str("doas", d.Name()).Str("loop", loop.Name()).Msg("Could not add air loop")
		return false
	}
	if _, err := d.model.ws.PushExtensibleGroup(d.handle, workspace.RefValue(loop.handle)); err != nil {
		log.Debug().Err(err).Str("doas", d.Name()).Msg("Could not add air loop")
		return false
	}
	return true
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) checkMember(loop AirLoopHVAC) error {
	if !loop.Exists() || loop.model != d.model {
		return fmt.Errorf("%s is not in this model", loop)
	}
	if _, ok := loop.AirLoopHVACOutdoorAirSystem(); !ok {
		return fmt.Errorf("%s has no outdoor air system", loop)
	}
	if other, ok := loop.AirLoopHVACDedicatedOutdoorAirSystem(); ok {
		return fmt.Errorf("%s already belongs to %s", loop, other)
	}
	return nil
}

// AddAirLoops adds every loop or none of them.
func (d AirLoopHVACDedicatedOutdoorAirSystem) AddAirLoops(loops []AirLoopHVAC) bool {
	seen := make(map[ModelObject]bool)
	for _, l := range loops {
		if seen[l.ModelObject] {
			return false
		}
		seen[l.ModelObject] = true
		if err := d.checkMember(l); err != nil {
			log.Debug().Err(err).Str("doas", d.Name()).Msg("Could not add air loops")
			return false
		}
	}
	for _, l := range loops {
		if !d.AddAirLoop(l) {
			return false
		}
	}
	return true
}

// SetAirLoops replaces the member list. On failure the old list is kept.
func (d AirLoopHVACDedicatedOutdoorAirSystem) SetAirLoops(loops []AirLoopHVAC) bool {
	old := d.AirLoops()
	d.RemoveAllAirLoops()
	if d.AddAirLoops(loops) {
		return true
	}
	d.RemoveAllAirLoops()
	for _, l := range old {
		d.AddAirLoop(l)
	}
	return false
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) RemoveAirLoop(loop AirLoopHVAC) bool {
	i, ok := d.AirLoopIndex(loop)
	if !ok {
		return false
	}
	return d.RemoveAirLoopAt(i)
}

// RemoveAirLoopAt removes the member at the 1-based groupIndex.
func (d AirLoopHVACDedicatedOutdoorAirSystem) RemoveAirLoopAt(groupIndex int) bool {
	if groupIndex < 1 || groupIndex > d.NumberofAirLoops() {
		return false
	}
	if err := d.model.ws.EraseExtensibleGroup(d.handle, groupIndex-1); err != nil {
		log.Debug().Err(err).Str("doas", d.Name()).Msg("Could not remove air loop")
		return false
	}
	return true
}

func (d AirLoopHVACDedicatedOutdoorAirSystem) RemoveAllAirLoops() {
	for n := d.NumberofAirLoops(); n > 0; n-- {
		if err := d.model.ws.EraseExtensibleGroup(d.handle, n-1); err != nil {
			log.Error().Err(err).Str("object", d.String()).Msg("Failed to drop air loop")
		}
	}
}

// Remove deletes the dedicated system with its outdoor air system, controller
// and outdoor air equipment. Member loops stay in the model. A removal the
// workspace would refuse leaves the system untouched.
func (d AirLoopHVACDedicatedOutdoorAirSystem) Remove() ([]*idf.Object, error) {
	if err := d.model.ws.CheckRemove(d.handle); err != nil {
		return nil, err
	}
	var records []*idf.Object
	if oa, ok := d.AirLoopHVACOutdoorAirSystem(); ok {
		r, err := oa.removeStreams()
		if err != nil {
			return r, err
		}
		records = r
	}
	d.RemoveAllAirLoops()
	r, err := d.removeFromWorkspace()
	if err != nil {
		return records, err
	}
	return append(r, records...), nil
}
