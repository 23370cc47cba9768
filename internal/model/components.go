package model

import (
	"errors"
	"fmt"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
)

var ErrNotComponent = errors.New("not an air stream component type")

func newComponent(m *Model, t idd.Type) (HVACComponent, error) {
	o, err := m.create(t)
	if err != nil {
		return HVACComponent{}, err
	}
	return HVACComponent{o}, nil
}

// NewHVACComponent creates a loose component of any air stream type other
// than the outdoor air system, which needs a controller.
func NewHVACComponent(m *Model, t idd.Type) (HVACComponent, error) {
	switch t.Kind() {
	case idd.KindStraight, idd.KindAirToAir, idd.KindWaterToAir, idd.KindZoneHVAC:
		return newComponent(m, t)
	}
	return HVACComponent{}, fmt.Errorf("create %s: %w", t, ErrNotComponent)
}

func (c HVACComponent) AvailabilitySchedule() (ScheduleConstant, bool) {
	if i, ok := availabilityField[c.Type()]; ok {
		return c.schedule(i)
	}
	return ScheduleConstant{}, false
}

func (c HVACComponent) SetAvailabilitySchedule(s ScheduleConstant) bool {
	if i, ok := availabilityField[c.Type()]; ok {
		return c.setTarget(i, s.ModelObject)
	}
	return false
}

var availabilityField = map[idd.Type]int{
	idd.HeatExchangerAirToAirSensibleAndLatent: idd.HXAvailabilitySchedule,
	idd.CoilHeatingElectric:                    idd.CoilHeatingElectricAvailabilitySchedule,
	idd.CoilCoolingWater:                       idd.CoilCoolingWaterAvailabilitySchedule,
	idd.FanConstantVolume:                      idd.FanConstantVolumeAvailabilitySchedule,
	idd.AirLoopHVACUnitarySystem:               idd.UnitarySystemAvailabilitySchedule,
}

type HeatExchangerAirToAirSensibleAndLatent struct {
	HVACComponent
}

func NewHeatExchangerAirToAirSensibleAndLatent(m *Model) (HeatExchangerAirToAirSensibleAndLatent, error) {
	c, err := newComponent(m, idd.HeatExchangerAirToAirSensibleAndLatent)
	return HeatExchangerAirToAirSensibleAndLatent{c}, err
}

func AsHeatExchangerAirToAirSensibleAndLatent(o ModelObject) (HeatExchangerAirToAirSensibleAndLatent, bool) {
	if o.Type() != idd.HeatExchangerAirToAirSensibleAndLatent {
		return HeatExchangerAirToAirSensibleAndLatent{}, false
	}
	return HeatExchangerAirToAirSensibleAndLatent{HVACComponent{o}}, true
}

func (hx HeatExchangerAirToAirSensibleAndLatent) PrimaryAirInletModelObject() (ModelObject, bool) {
	return hx.ConnectedObject(idd.PortPrimaryAirInlet)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) PrimaryAirOutletModelObject() (ModelObject, bool) {
	return hx.ConnectedObject(idd.PortPrimaryAirOutlet)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) SecondaryAirInletModelObject() (ModelObject, bool) {
	return hx.ConnectedObject(idd.PortSecondaryAirInlet)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) SecondaryAirOutletModelObject() (ModelObject, bool) {
	return hx.ConnectedObject(idd.PortSecondaryAirOutlet)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) NominalSupplyAirFlowRate() (float64, bool) {
	return hx.getDouble(idd.HXNominalSupplyAirFlowRate)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) IsNominalSupplyAirFlowRateAutosized() bool {
	return hx.isAutosized(idd.HXNominalSupplyAirFlowRate)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) SetNominalSupplyAirFlowRate(v float64) bool {
	return hx.setDouble(idd.HXNominalSupplyAirFlowRate, v)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) AutosizeNominalSupplyAirFlowRate() bool {
	return hx.autosize(idd.HXNominalSupplyAirFlowRate)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) SensibleEffectivenessat100HeatingAirFlow() float64 {
	v, _ := hx.getDouble(idd.HXSensibleEffectiveness100Heating)
	return v
}

func (hx HeatExchangerAirToAirSensibleAndLatent) SetSensibleEffectivenessat100HeatingAirFlow(v float64) bool {
	return hx.setDouble(idd.HXSensibleEffectiveness100Heating, v)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) LatentEffectivenessat100HeatingAirFlow() float64 {
	v, _ := hx.getDouble(idd.HXLatentEffectiveness100Heating)
	return v
}

func (hx HeatExchangerAirToAirSensibleAndLatent) SetLatentEffectivenessat100HeatingAirFlow(v float64) bool {
	return hx.setDouble(idd.HXLatentEffectiveness100Heating, v)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) HeatExchangerType() string {
	return hx.getString(idd.HXHeatExchangerType)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) SetHeatExchangerType(v string) bool {
	return hx.setString(idd.HXHeatExchangerType, v)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) FrostControlType() string {
	return hx.getString(idd.HXFrostControlType)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) SetFrostControlType(v string) bool {
	return hx.setString(idd.HXFrostControlType, v)
}

func (hx HeatExchangerAirToAirSensibleAndLatent) EconomizerLockout() bool {
	return hx.getString(idd.HXEconomizerLockout) == "Yes"
}

func (hx HeatExchangerAirToAirSensibleAndLatent) SetEconomizerLockout(v bool) bool {
	if v {
		return hx.setString(idd.HXEconomizerLockout, "Yes")
	}
	return hx.setString(idd.HXEconomizerLockout, "No")
}

type CoilHeatingElectric struct {
	HVACComponent
}

func NewCoilHeatingElectric(m *Model) (CoilHeatingElectric, error) {
	c, err := newComponent(m, idd.CoilHeatingElectric)
	return CoilHeatingElectric{c}, err
}

func (c CoilHeatingElectric) Efficiency() float64 {
	v, _ := c.getDouble(idd.CoilHeatingElectricEfficiency)
	return v
}

func (c CoilHeatingElectric) SetEfficiency(v float64) bool {
	return c.setDouble(idd.CoilHeatingElectricEfficiency, v)
}

func (c CoilHeatingElectric) NominalCapacity() (float64, bool) {
	return c.getDouble(idd.CoilHeatingElectricNominalCapacity)
}

func (c CoilHeatingElectric) IsNominalCapacityAutosized() bool {
	return c.isAutosized(idd.CoilHeatingElectricNominalCapacity)
}

func (c CoilHeatingElectric) SetNominalCapacity(v float64) bool {
	return c.setDouble(idd.CoilHeatingElectricNominalCapacity, v)
}

func (c CoilHeatingElectric) AutosizeNominalCapacity() bool {
	return c.autosize(idd.CoilHeatingElectricNominalCapacity)
}

type CoilCoolingWater struct {
	HVACComponent
}

func NewCoilCoolingWater(m *Model) (CoilCoolingWater, error) {
	c, err := newComponent(m, idd.CoilCoolingWater)
	return CoilCoolingWater{c}, err
}

func (c CoilCoolingWater) AirInletModelObject() (ModelObject, bool) {
	return c.ConnectedObject(idd.PortAirInlet)
}

func (c CoilCoolingWater) AirOutletModelObject() (ModelObject, bool) {
	return c.ConnectedObject(idd.PortAirOutlet)
}

// WaterInletModelObject is unset until the coil is placed on a plant loop.
func (c CoilCoolingWater) WaterInletModelObject() (ModelObject, bool) {
	return c.ConnectedObject(idd.PortWaterInlet)
}

func (c CoilCoolingWater) WaterOutletModelObject() (ModelObject, bool) {
	return c.ConnectedObject(idd.PortWaterOutlet)
}

func (c CoilCoolingWater) DesignWaterFlowRate() (float64, bool) {
	return c.getDouble(idd.CoilCoolingWaterDesignWaterFlowRate)
}

func (c CoilCoolingWater) IsDesignWaterFlowRateAutosized() bool {
	return c.isAutosized(idd.CoilCoolingWaterDesignWaterFlowRate)
}

func (c CoilCoolingWater) SetDesignWaterFlowRate(v float64) bool {
	return c.setDouble(idd.CoilCoolingWaterDesignWaterFlowRate, v)
}

func (c CoilCoolingWater) TypeOfAnalysis() string {
	return c.getString(idd.CoilCoolingWaterTypeofAnalysis)
}

func (c CoilCoolingWater) SetTypeOfAnalysis(v string) bool {
	return c.setString(idd.CoilCoolingWaterTypeofAnalysis, v)
}

func (c CoilCoolingWater) HeatExchangerConfiguration() string {
	return c.getString(idd.CoilCoolingWaterHeatExchangerConfiguration)
}

func (c CoilCoolingWater) SetHeatExchangerConfiguration(v string) bool {
	return c.setString(idd.CoilCoolingWaterHeatExchangerConfiguration, v)
}

type FanConstantVolume struct {
	HVACComponent
}

func NewFanConstantVolume(m *Model) (FanConstantVolume, error) {
	c, err := newComponent(m, idd.FanConstantVolume)
	return FanConstantVolume{c}, err
}

func (f FanConstantVolume) FanTotalEfficiency() float64 {
	v, _ := f.getDouble(idd.FanConstantVolumeFanTotalEfficiency)
	return v
}

func (f FanConstantVolume) SetFanTotalEfficiency(v float64) bool {
	return f.setDouble(idd.FanConstantVolumeFanTotalEfficiency, v)
}

func (f FanConstantVolume) PressureRise() float64 {
	v, _ := f.getDouble(idd.FanConstantVolumePressureRise)
	return v
}

func (f FanConstantVolume) SetPressureRise(v float64) bool {
	return f.setDouble(idd.FanConstantVolumePressureRise, v)
}

func (f FanConstantVolume) MaximumFlowRate() (float64, bool) {
	return f.getDouble(idd.FanConstantVolumeMaximumFlowRate)
}

func (f FanConstantVolume) IsMaximumFlowRateAutosized() bool {
	return f.isAutosized(idd.FanConstantVolumeMaximumFlowRate)
}

func (f FanConstantVolume) SetMaximumFlowRate(v float64) bool {
	return f.setDouble(idd.FanConstantVolumeMaximumFlowRate, v)
}

func (f FanConstantVolume) AutosizeMaximumFlowRate() bool {
	return f.autosize(idd.FanConstantVolumeMaximumFlowRate)
}

func (f FanConstantVolume) MotorEfficiency() float64 {
	v, _ := f.getDouble(idd.FanConstantVolumeMotorEfficiency)
	return v
}

func (f FanConstantVolume) SetMotorEfficiency(v float64) bool {
	return f.setDouble(idd.FanConstantVolumeMotorEfficiency, v)
}

type AirLoopHVACUnitarySystem struct {
	HVACComponent
}

func NewAirLoopHVACUnitarySystem(m *Model) (AirLoopHVACUnitarySystem, error) {
	c, err := newComponent(m, idd.AirLoopHVACUnitarySystem)
	return AirLoopHVACUnitarySystem{c}, err
}

func (u AirLoopHVACUnitarySystem) ControlType() string {
	return u.getString(idd.UnitarySystemControlType)
}

func (u AirLoopHVACUnitarySystem) SetControlType(v string) bool {
	return u.setString(idd.UnitarySystemControlType, v)
}

func (u AirLoopHVACUnitarySystem) DehumidificationControlType() string {
	return u.getString(idd.UnitarySystemDehumidificationControlType)
}

func (u AirLoopHVACUnitarySystem) SetDehumidificationControlType(v string) bool {
	return u.setString(idd.UnitarySystemDehumidificationControlType, v)
}
