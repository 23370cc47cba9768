package energyplus

import (
	"strings"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
)

// fieldMap pairs a model field index with a record field index.
type fieldMap struct {
	os int
	ep int
}

// portMap pairs a model port with the record field naming the node on it.
type portMap struct {
	port idd.Port
	ep   int
}

// recordMap is the field-by-field correspondence for types that translate to
// exactly one record.
type recordMap struct {
	osType    idd.Type
	epType    string
	scalars   []fieldMap
	schedules []fieldMap
	ports     []portMap
}

func (r *recordMap) portField(p idd.Port) (int, bool) {
	for _, pm := range r.ports {
		if pm.port == p {
			return pm.ep, true
		}
	}
	return 0, false
}

var scheduleConstantMap = &recordMap{
	osType:  idd.ScheduleConstant,
	epType:  idf.TypeScheduleConstant,
	scalars: []fieldMap{{idd.ScheduleConstantValue, idf.ScheduleConstantHourlyValue}},
}

var controllerOutdoorAirMap = &recordMap{
	osType: idd.ControllerOutdoorAir,
	epType: idf.TypeControllerOutdoorAir,
	scalars: []fieldMap{
		{idd.ControllerOutdoorAirMinimumOutdoorAirFlowRate, idf.ControllerOutdoorAirMinimumOutdoorAirFlowRate},
		{idd.ControllerOutdoorAirMaximumOutdoorAirFlowRate, idf.ControllerOutdoorAirMaximumOutdoorAirFlowRate},
		{idd.ControllerOutdoorAirEconomizerControlType, idf.ControllerOutdoorAirEconomizerControlType},
		{idd.ControllerOutdoorAirEconomizerControlActionType, idf.ControllerOutdoorAirEconomizerControlActionType},
		{idd.ControllerOutdoorAirEconomizerMaximumLimitDryBulbTemperature, idf.ControllerOutdoorAirEconomizerMaximumLimitDryBulbTemperature},
		{idd.ControllerOutdoorAirEconomizerMaximumLimitEnthalpy, idf.ControllerOutdoorAirEconomizerMaximumLimitEnthalpy},
		{idd.ControllerOutdoorAirEconomizerMaximumLimitDewpointTemperature, idf.ControllerOutdoorAirEconomizerMaximumLimitDewpointTemperature},
		{idd.ControllerOutdoorAirEconomizerMinimumLimitDryBulbTemperature, idf.ControllerOutdoorAirEconomizerMinimumLimitDryBulbTemperature},
		{idd.ControllerOutdoorAirLockoutType, idf.ControllerOutdoorAirLockoutType},
		{idd.ControllerOutdoorAirMinimumLimitType, idf.ControllerOutdoorAirMinimumLimitType},
	},
	schedules: []fieldMap{
		{idd.ControllerOutdoorAirMinimumOutdoorAirSchedule, idf.ControllerOutdoorAirMinimumOutdoorAirSchedule},
	},
}

var doasMap = &recordMap{
	osType: idd.AirLoopHVACDedicatedOutdoorAirSystem,
	epType: idf.TypeDOAS,
	scalars: []fieldMap{
		{idd.DOASPreheatDesignTemperature, idf.DOASPreheatDesignTemperature},
		{idd.DOASPreheatDesignHumidityRatio, idf.DOASPreheatDesignHumidityRatio},
		{idd.DOASPrecoolDesignTemperature, idf.DOASPrecoolDesignTemperature},
		{idd.DOASPrecoolDesignHumidityRatio, idf.DOASPrecoolDesignHumidityRatio},
	},
	schedules: []fieldMap{{idd.DOASAvailabilitySchedule, idf.DOASAvailabilitySchedule}},
}

var airLoopHVACMap = &recordMap{
	osType:  idd.AirLoopHVAC,
	epType:  idf.TypeAirLoopHVAC,
	scalars: []fieldMap{{idd.AirLoopHVACDesignSupplyAirFlowRate, idf.AirLoopHVACDesignSupplyAirFlowRate}},
}

var afnDistributionNodeMap = &recordMap{
	osType:  idd.AirflowNetworkDistributionNode,
	epType:  idf.TypeAFNDistributionNode,
	scalars: []fieldMap{{idd.AFNDistributionNodeHeight, idf.AFNDistributionNodeHeight}},
}

// componentMaps covers the equipment that sits in an air stream.
var componentMaps = []*recordMap{
	{
		osType: idd.HeatExchangerAirToAirSensibleAndLatent,
		epType: idf.TypeHeatExchangerAirToAir,
		scalars: []fieldMap{
			{idd.HXNominalSupplyAirFlowRate, idf.HXNominalSupplyAirFlowRate},
			{idd.HXSensibleEffectiveness100Heating, idf.HXSensibleEffectiveness100Heating},
			{idd.HXLatentEffectiveness100Heating, idf.HXLatentEffectiveness100Heating},
			{idd.HXSensibleEffectiveness75Heating, idf.HXSensibleEffectiveness75Heating},
			{idd.HXLatentEffectiveness75Heating, idf.HXLatentEffectiveness75Heating},
			{idd.HXSensibleEffectiveness100Cooling, idf.HXSensibleEffectiveness100Cooling},
			{idd.HXLatentEffectiveness100Cooling, idf.HXLatentEffectiveness100Cooling},
			{idd.HXSensibleEffectiveness75Cooling, idf.HXSensibleEffectiveness75Cooling},
			{idd.HXLatentEffectiveness75Cooling, idf.HXLatentEffectiveness75Cooling},
			{idd.HXNominalElectricPower, idf.HXNominalElectricPower},
			{idd.HXSupplyAirOutletTemperatureControl, idf.HXSupplyAirOutletTemperatureControl},
			{idd.HXHeatExchangerType, idf.HXHeatExchangerType},
			{idd.HXFrostControlType, idf.HXFrostControlType},
			{idd.HXThresholdTemperature, idf.HXThresholdTemperature},
			{idd.HXInitialDefrostTimeFraction, idf.HXInitialDefrostTimeFraction},
			{idd.HXRateofDefrostTimeFractionIncrease, idf.HXRateofDefrostTimeFractionIncrease},
			{idd.HXEconomizerLockout, idf.HXEconomizerLockout},
		},
		schedules: []fieldMap{{idd.HXAvailabilitySchedule, idf.HXAvailabilitySchedule}},
		ports: []portMap{
			{idd.PortPrimaryAirInlet, idf.HXSupplyAirInletNode},
			{idd.PortPrimaryAirOutlet, idf.HXSupplyAirOutletNode},
			{idd.PortSecondaryAirInlet, idf.HXExhaustAirInletNode},
			{idd.PortSecondaryAirOutlet, idf.HXExhaustAirOutletNode},
		},
	},
	{
		osType: idd.CoilHeatingElectric,
		epType: idf.TypeCoilHeatingElectric,
		scalars: []fieldMap{
			{idd.CoilHeatingElectricEfficiency, idf.CoilHeatingElectricEfficiency},
			{idd.CoilHeatingElectricNominalCapacity, idf.CoilHeatingElectricNominalCapacity},
		},
		schedules: []fieldMap{{idd.CoilHeatingElectricAvailabilitySchedule, idf.CoilHeatingElectricAvailabilitySchedule}},
		ports: []portMap{
			{idd.PortInlet, idf.CoilHeatingElectricAirInletNode},
			{idd.PortOutlet, idf.CoilHeatingElectricAirOutletNode},
		},
	},
	{
		osType: idd.CoilCoolingWater,
		epType: idf.TypeCoilCoolingWater,
		scalars: []fieldMap{
			{idd.CoilCoolingWaterDesignWaterFlowRate, idf.CoilCoolingWaterDesignWaterFlowRate},
			{idd.CoilCoolingWaterDesignAirFlowRate, idf.CoilCoolingWaterDesignAirFlowRate},
			{idd.CoilCoolingWaterDesignInletWaterTemperature, idf.CoilCoolingWaterDesignInletWaterTemperature},
			{idd.CoilCoolingWaterDesignInletAirTemperature, idf.CoilCoolingWaterDesignInletAirTemperature},
			{idd.CoilCoolingWaterDesignOutletAirTemperature, idf.CoilCoolingWaterDesignOutletAirTemperature},
			{idd.CoilCoolingWaterDesignInletAirHumidityRatio, idf.CoilCoolingWaterDesignInletAirHumidityRatio},
			{idd.CoilCoolingWaterDesignOutletAirHumidityRatio, idf.CoilCoolingWaterDesignOutletAirHumidityRatio},
			{idd.CoilCoolingWaterTypeofAnalysis, idf.CoilCoolingWaterTypeofAnalysis},
			{idd.CoilCoolingWaterHeatExchangerConfiguration, idf.CoilCoolingWaterHeatExchangerConfiguration},
		},
		schedules: []fieldMap{{idd.CoilCoolingWaterAvailabilitySchedule, idf.CoilCoolingWaterAvailabilitySchedule}},
		ports: []portMap{
			{idd.PortWaterInlet, idf.CoilCoolingWaterWaterInletNode},
			{idd.PortWaterOutlet, idf.CoilCoolingWaterWaterOutletNode},
			{idd.PortAirInlet, idf.CoilCoolingWaterAirInletNode},
			{idd.PortAirOutlet, idf.CoilCoolingWaterAirOutletNode},
		},
	},
	{
		osType: idd.FanConstantVolume,
		epType: idf.TypeFanConstantVolume,
		scalars: []fieldMap{
			{idd.FanConstantVolumeFanTotalEfficiency, idf.FanConstantVolumeFanTotalEfficiency},
			{idd.FanConstantVolumePressureRise, idf.FanConstantVolumePressureRise},
			{idd.FanConstantVolumeMaximumFlowRate, idf.FanConstantVolumeMaximumFlowRate},
			{idd.FanConstantVolumeMotorEfficiency, idf.FanConstantVolumeMotorEfficiency},
			{idd.FanConstantVolumeMotorInAirstreamFraction, idf.FanConstantVolumeMotorInAirstreamFraction},
		},
		schedules: []fieldMap{{idd.FanConstantVolumeAvailabilitySchedule, idf.FanConstantVolumeAvailabilitySchedule}},
		ports: []portMap{
			{idd.PortInlet, idf.FanConstantVolumeAirInletNode},
			{idd.PortOutlet, idf.FanConstantVolumeAirOutletNode},
		},
	},
	{
		osType: idd.AirLoopHVACUnitarySystem,
		epType: idf.TypeUnitarySystem,
		scalars: []fieldMap{
			{idd.UnitarySystemControlType, idf.UnitarySystemControlType},
			{idd.UnitarySystemDehumidificationControlType, idf.UnitarySystemDehumidificationControlType},
		},
		schedules: []fieldMap{{idd.UnitarySystemAvailabilitySchedule, idf.UnitarySystemAvailabilitySchedule}},
		ports: []portMap{
			{idd.PortAirInlet, idf.UnitarySystemAirInletNode},
			{idd.PortAirOutlet, idf.UnitarySystemAirOutletNode},
		},
	},
}

func componentMapFor(t idd.Type) (*recordMap, bool) {
	for _, r := range componentMaps {
		if r.osType == t {
			return r, true
		}
	}
	return nil, false
}

func componentMapForRecord(epType string) (*recordMap, bool) {
	for _, r := range componentMaps {
		if strings.EqualFold(r.epType, epType) {
			return r, true
		}
	}
	return nil, false
}
