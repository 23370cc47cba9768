package model

import (
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
)

type ControllerOutdoorAir struct {
	ModelObject
}

func NewControllerOutdoorAir(m *Model) (ControllerOutdoorAir, error) {
	o, err := m.create(idd.ControllerOutdoorAir)
	if err != nil {
		return ControllerOutdoorAir{}, err
	}
	return ControllerOutdoorAir{o}, nil
}

func AsControllerOutdoorAir(o ModelObject) (ControllerOutdoorAir, bool) {
	if o.Type() != idd.ControllerOutdoorAir {
		return ControllerOutdoorAir{}, false
	}
	return ControllerOutdoorAir{o}, true
}

// AirLoopHVACOutdoorAirSystem returns the system that owns this controller.
func (c ControllerOutdoorAir) AirLoopHVACOutdoorAirSystem() (AirLoopHVACOutdoorAirSystem, bool) {
	srcs := c.sources(idd.AirLoopHVACOutdoorAirSystem)
	if len(srcs) == 0 {
		return AirLoopHVACOutdoorAirSystem{}, false
	}
	return AirLoopHVACOutdoorAirSystem{HVACComponent{srcs[0]}}, true
}

func (c ControllerOutdoorAir) MinimumOutdoorAirFlowRate() (float64, bool) {
	return c.getDouble(idd.ControllerOutdoorAirMinimumOutdoorAirFlowRate)
}

func (c ControllerOutdoorAir) IsMinimumOutdoorAirFlowRateAutosized() bool {
	return c.isAutosized(idd.ControllerOutdoorAirMinimumOutdoorAirFlowRate)
}

func (c ControllerOutdoorAir) SetMinimumOutdoorAirFlowRate(v float64) bool {
	return c.setDouble(idd.ControllerOutdoorAirMinimumOutdoorAirFlowRate, v)
}

func (c ControllerOutdoorAir) AutosizeMinimumOutdoorAirFlowRate() bool {
	return c.autosize(idd.ControllerOutdoorAirMinimumOutdoorAirFlowRate)
}

func (c ControllerOutdoorAir) MaximumOutdoorAirFlowRate() (float64, bool) {
	return c.getDouble(idd.ControllerOutdoorAirMaximumOutdoorAirFlowRate)
}

func (c ControllerOutdoorAir) IsMaximumOutdoorAirFlowRateAutosized() bool {
	return c.isAutosized(idd.ControllerOutdoorAirMaximumOutdoorAirFlowRate)
}

func (c ControllerOutdoorAir) SetMaximumOutdoorAirFlowRate(v float64) bool {
	return c.setDouble(idd.ControllerOutdoorAirMaximumOutdoorAirFlowRate, v)
}

func (c ControllerOutdoorAir) AutosizeMaximumOutdoorAirFlowRate() bool {
	return c.autosize(idd.ControllerOutdoorAirMaximumOutdoorAirFlowRate)
}

func (c ControllerOutdoorAir) EconomizerControlType() string {
	return c.getString(idd.ControllerOutdoorAirEconomizerControlType)
}

func (c ControllerOutdoorAir) SetEconomizerControlType(v string) bool {
	return c.setString(idd.ControllerOutdoorAirEconomizerControlType, v)
}

func (c ControllerOutdoorAir) EconomizerControlActionType() string {
	return c.getString(idd.ControllerOutdoorAirEconomizerControlActionType)
}

func (c ControllerOutdoorAir) SetEconomizerControlActionType(v string) bool {
	return c.setString(idd.ControllerOutdoorAirEconomizerControlActionType, v)
}

func (c ControllerOutdoorAir) EconomizerMaximumLimitDryBulbTemperature() (float64, bool) {
	return c.getDouble(idd.ControllerOutdoorAirEconomizerMaximumLimitDryBulbTemperature)
}

func (c ControllerOutdoorAir) SetEconomizerMaximumLimitDryBulbTemperature(v float64) bool {
	return c.setDouble(idd.ControllerOutdoorAirEconomizerMaximumLimitDryBulbTemperature, v)
}

func (c ControllerOutdoorAir) ResetEconomizerMaximumLimitDryBulbTemperature() bool {
	return c.reset(idd.ControllerOutdoorAirEconomizerMaximumLimitDryBulbTemperature)
}

func (c ControllerOutdoorAir) EconomizerMaximumLimitEnthalpy() (float64, bool) {
	return c.getDouble(idd.ControllerOutdoorAirEconomizerMaximumLimitEnthalpy)
}

func (c ControllerOutdoorAir) SetEconomizerMaximumLimitEnthalpy(v float64) bool {
	return c.setDouble(idd.ControllerOutdoorAirEconomizerMaximumLimitEnthalpy, v)
}

func (c ControllerOutdoorAir) EconomizerMaximumLimitDewpointTemperature() (float64, bool) {
	return c.getDouble(idd.ControllerOutdoorAirEconomizerMaximumLimitDewpointTemperature)
}

func (c ControllerOutdoorAir) SetEconomizerMaximumLimitDewpointTemperature(v float64) bool {
	return c.setDouble(idd.ControllerOutdoorAirEconomizerMaximumLimitDewpointTemperature, v)
}

func (c ControllerOutdoorAir) EconomizerMinimumLimitDryBulbTemperature() (float64, bool) {
	return c.getDouble(idd.ControllerOutdoorAirEconomizerMinimumLimitDryBulbTemperature)
}

func (c ControllerOutdoorAir) SetEconomizerMinimumLimitDryBulbTemperature(v float64) bool {
	return c.setDouble(idd.ControllerOutdoorAirEconomizerMinimumLimitDryBulbTemperature, v)
}

func (c ControllerOutdoorAir) LockoutType() string {
	return c.getString(idd.ControllerOutdoorAirLockoutType)
}

func (c ControllerOutdoorAir) SetLockoutType(v string) bool {
	return c.setString(idd.ControllerOutdoorAirLockoutType, v)
}

func (c ControllerOutdoorAir) MinimumLimitType() string {
	return c.getString(idd.ControllerOutdoorAirMinimumLimitType)
}

func (c ControllerOutdoorAir) SetMinimumLimitType(v string) bool {
	return c.setString(idd.ControllerOutdoorAirMinimumLimitType, v)
}

func (c ControllerOutdoorAir) MinimumOutdoorAirSchedule() (ScheduleConstant, bool) {
	return c.schedule(idd.ControllerOutdoorAirMinimumOutdoorAirSchedule)
}

func (c ControllerOutdoorAir) SetMinimumOutdoorAirSchedule(s ScheduleConstant) bool {
	return c.setTarget(idd.ControllerOutdoorAirMinimumOutdoorAirSchedule, s.ModelObject)
}

func (c ControllerOutdoorAir) ResetMinimumOutdoorAirSchedule() bool {
	return c.reset(idd.ControllerOutdoorAirMinimumOutdoorAirSchedule)
}
