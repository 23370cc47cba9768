package idf

import "strings"

// EnergyPlus record types produced and consumed by the translators.
const (
	TypeScheduleConstant      = "Schedule:Constant"
	TypeAirLoopHVAC           = "AirLoopHVAC"
	TypeBranchList            = "BranchList"
	TypeBranch                = "Branch"
	TypeOutdoorAirSystem      = "AirLoopHVAC:OutdoorAirSystem"
	TypeControllerList        = "AirLoopHVAC:ControllerList"
	TypeOAEquipmentList       = "AirLoopHVAC:OutdoorAirSystem:EquipmentList"
	TypeOutdoorAirMixer       = "OutdoorAir:Mixer"
	TypeOutdoorAirNodeList    = "OutdoorAir:NodeList"
	TypeControllerOutdoorAir  = "Controller:OutdoorAir"
	TypeDOAS                  = "AirLoopHVAC:DedicatedOutdoorAirSystem"
	TypeAirLoopMixer          = "AirLoopHVAC:Mixer"
	TypeAirLoopSplitter       = "AirLoopHVAC:Splitter"
	TypeHeatExchangerAirToAir = "HeatExchanger:AirToAir:SensibleAndLatent"
	TypeCoilHeatingElectric   = "Coil:Heating:Electric"
	TypeCoilCoolingWater      = "Coil:Cooling:Water"
	TypeFanConstantVolume     = "Fan:ConstantVolume"
	TypeUnitarySystem         = "AirLoopHVAC:UnitarySystem"
	TypeAFNDistributionNode   = "AirflowNetwork:Distribution:Node"
)

const (
	ScheduleConstantName = iota
	ScheduleConstantTypeLimits
	ScheduleConstantHourlyValue
)

const (
	AirLoopHVACName = iota
	AirLoopHVACControllerList
	AirLoopHVACAvailabilityManagerList
	AirLoopHVACDesignSupplyAirFlowRate
	AirLoopHVACBranchList
	AirLoopHVACConnectorList
	AirLoopHVACSupplyInletNode
	AirLoopHVACDemandOutletNode
	AirLoopHVACDemandInletNodes
	AirLoopHVACSupplyOutletNodes
)

const (
	BranchListName = iota
)

const (
	BranchName = iota
	BranchPressureDropCurve
)

// Extensible fields of Branch.
const (
	BranchComponentType = iota
	BranchComponentName
	BranchComponentInletNode
	BranchComponentOutletNode
)

const (
	OutdoorAirSystemName = iota
	OutdoorAirSystemControllerList
	OutdoorAirSystemEquipmentList
	OutdoorAirSystemAvailabilityManagerList
)

const (
	ControllerListName = iota
)

const (
	OutdoorAirMixerName = iota
	OutdoorAirMixerMixedAirNode
	OutdoorAirMixerOutdoorAirNode
	OutdoorAirMixerReliefAirNode
	OutdoorAirMixerReturnAirNode
)

const (
	ControllerOutdoorAirName = iota
	ControllerOutdoorAirReliefAirOutletNode
	ControllerOutdoorAirReturnAirNode
	ControllerOutdoorAirMixedAirNode
	ControllerOutdoorAirActuatorNode
	ControllerOutdoorAirMinimumOutdoorAirFlowRate
	ControllerOutdoorAirMaximumOutdoorAirFlowRate
	ControllerOutdoorAirEconomizerControlType
	ControllerOutdoorAirEconomizerControlActionType
	ControllerOutdoorAirEconomizerMaximumLimitDryBulbTemperature
	ControllerOutdoorAirEconomizerMaximumLimitEnthalpy
	ControllerOutdoorAirEconomizerMaximumLimitDewpointTemperature
	ControllerOutdoorAirElectronicEnthalpyLimitCurve
	ControllerOutdoorAirEconomizerMinimumLimitDryBulbTemperature
	ControllerOutdoorAirLockoutType
	ControllerOutdoorAirMinimumLimitType
	ControllerOutdoorAirMinimumOutdoorAirSchedule
)

const (
	DOASName = iota
	DOASOutdoorAirSystem
	DOASAvailabilitySchedule
	DOASMixer
	DOASSplitter
	DOASPreheatDesignTemperature
	DOASPreheatDesignHumidityRatio
	DOASPrecoolDesignTemperature
	DOASPrecoolDesignHumidityRatio
	DOASNumberofAirLoopHVAC
)

const (
	AirLoopMixerName = iota
	AirLoopMixerOutletNode
)

const (
	AirLoopSplitterName = iota
	AirLoopSplitterInletNode
)

const (
	HXName = iota
	HXAvailabilitySchedule
	HXNominalSupplyAirFlowRate
	HXSensibleEffectiveness100Heating
	HXLatentEffectiveness100Heating
	HXSensibleEffectiveness75Heating
	HXLatentEffectiveness75Heating
	HXSensibleEffectiveness100Cooling
	HXLatentEffectiveness100Cooling
	HXSensibleEffectiveness75Cooling
	HXLatentEffectiveness75Cooling
	HXSupplyAirInletNode
	HXSupplyAirOutletNode
	HXExhaustAirInletNode
	HXExhaustAirOutletNode
	HXNominalElectricPower
	HXSupplyAirOutletTemperatureControl
	HXHeatExchangerType
	HXFrostControlType
	HXThresholdTemperature
	HXInitialDefrostTimeFraction
	HXRateofDefrostTimeFractionIncrease
	HXEconomizerLockout
)

const (
	CoilHeatingElectricName = iota
	CoilHeatingElectricAvailabilitySchedule
	CoilHeatingElectricEfficiency
	CoilHeatingElectricNominalCapacity
	CoilHeatingElectricAirInletNode
	CoilHeatingElectricAirOutletNode
	CoilHeatingElectricTemperatureSetpointNode
)

const (
	CoilCoolingWaterName = iota
	CoilCoolingWaterAvailabilitySchedule
	CoilCoolingWaterDesignWaterFlowRate
	CoilCoolingWaterDesignAirFlowRate
	CoilCoolingWaterDesignInletWaterTemperature
	CoilCoolingWaterDesignInletAirTemperature
	CoilCoolingWaterDesignOutletAirTemperature
	CoilCoolingWaterDesignInletAirHumidityRatio
	CoilCoolingWaterDesignOutletAirHumidityRatio
	CoilCoolingWaterWaterInletNode
	CoilCoolingWaterWaterOutletNode
	CoilCoolingWaterAirInletNode
	CoilCoolingWaterAirOutletNode
	CoilCoolingWaterTypeofAnalysis
	CoilCoolingWaterHeatExchangerConfiguration
)

const (
	FanConstantVolumeName = iota
	FanConstantVolumeAvailabilitySchedule
	FanConstantVolumeFanTotalEfficiency
	FanConstantVolumePressureRise
	FanConstantVolumeMaximumFlowRate
	FanConstantVolumeMotorEfficiency
	FanConstantVolumeMotorInAirstreamFraction
	FanConstantVolumeAirInletNode
	FanConstantVolumeAirOutletNode
)

const (
	UnitarySystemName = iota
	UnitarySystemControlType
	UnitarySystemControllingZone
	UnitarySystemDehumidificationControlType
	UnitarySystemAvailabilitySchedule
	UnitarySystemAirInletNode
	UnitarySystemAirOutletNode
)

const (
	AFNDistributionNodeName = iota
	AFNDistributionNodeComponentName
	AFNDistributionNodeComponentType
	AFNDistributionNodeHeight
)

type Schema struct {
	Type   string
	Fields []string
	// Group holds the field names of one extensible group, if any.
	Group []string
}

func LookupSchema(typ string) (*Schema, bool) {
	s, ok := schemas[strings.ToLower(typ)]
	return s, ok
}

var schemas = map[string]*Schema{}

func register(s *Schema) {
	schemas[strings.ToLower(s.Type)] = s
}

func init() {
	register(&Schema{Type: TypeScheduleConstant, Fields: []string{"Name", "Schedule Type Limits Name", "Hourly Value"}})
	register(&Schema{Type: TypeAirLoopHVAC, Fields: []string{
		"Name", "Controller List Name", "Availability Manager List Name", "Design Supply Air Flow Rate",
		"Branch List Name", "Connector List Name", "Supply Side Inlet Node Name", "Demand Side Outlet Node Name",
		"Demand Side Inlet Node Names", "Supply Side Outlet Node Names",
	}})
	register(&Schema{Type: TypeBranchList, Fields: []string{"Name"}, Group: []string{"Branch Name"}})
	register(&Schema{Type: TypeBranch, Fields: []string{"Name", "Pressure Drop Curve Name"}, Group: []string{
		"Component Object Type", "Component Name", "Component Inlet Node Name", "Component Outlet Node Name",
	}})
	register(&Schema{Type: TypeOutdoorAirSystem, Fields: []string{
		"Name", "Controller List Name", "Outdoor Air Equipment List Name", "Availability Manager List Name",
	}})
	register(&Schema{Type: TypeControllerList, Fields: []string{"Name"}, Group: []string{"Controller Object Type", "Controller Name"}})
	register(&Schema{Type: TypeOAEquipmentList, Fields: []string{"Name"}, Group: []string{"Component Object Type", "Component Name"}})
	register(&Schema{Type: TypeOutdoorAirMixer, Fields: []string{
		"Name", "Mixed Air Node Name", "Outdoor Air Stream Node Name", "Relief Air Stream Node Name", "Return Air Stream Node Name",
	}})
	register(&Schema{Type: TypeOutdoorAirNodeList, Group: []string{"Node or NodeList Name"}})
	register(&Schema{Type: TypeControllerOutdoorAir, Fields: []string{
		"Name", "Relief Air Outlet Node Name", "Return Air Node Name", "Mixed Air Node Name", "Actuator Node Name",
		"Minimum Outdoor Air Flow Rate", "Maximum Outdoor Air Flow Rate", "Economizer Control Type",
		"Economizer Control Action Type", "Economizer Maximum Limit Dry-Bulb Temperature",
		"Economizer Maximum Limit Enthalpy", "Economizer Maximum Limit Dewpoint Temperature",
		"Electronic Enthalpy Limit Curve Name", "Economizer Minimum Limit Dry-Bulb Temperature",
		"Lockout Type", "Minimum Limit Type", "Minimum Outdoor Air Schedule Name",
	}})
	register(&Schema{Type: TypeDOAS, Fields: []string{
		"Name", "AirLoopHVAC:OutdoorAirSystem Name", "Availability Schedule Name", "AirLoopHVAC:Mixer Name",
		"AirLoopHVAC:Splitter Name", "Preheat Design Temperature", "Preheat Design Humidity Ratio",
		"Precool Design Temperature", "Precool Design Humidity Ratio", "Number of AirLoopHVAC",
	}, Group: []string{"AirLoopHVAC Name"}})
	register(&Schema{Type: TypeAirLoopMixer, Fields: []string{"Name", "Outlet Node Name"}, Group: []string{"Inlet Node Name"}})
	register(&Schema{Type: TypeAirLoopSplitter, Fields: []string{"Name", "Inlet Node Name"}, Group: []string{"Outlet Node Name"}})
	register(&Schema{Type: TypeHeatExchangerAirToAir, Fields: []string{
		"Name", "Availability Schedule Name", "Nominal Supply Air Flow Rate",
		"Sensible Effectiveness at 100% Heating Air Flow", "Latent Effectiveness at 100% Heating Air Flow",
		"Sensible Effectiveness at 75% Heating Air Flow", "Latent Effectiveness at 75% Heating Air Flow",
		"Sensible Effectiveness at 100% Cooling Air Flow", "Latent Effectiveness at 100% Cooling Air Flow",
		"Sensible Effectiveness at 75% Cooling Air Flow", "Latent Effectiveness at 75% Cooling Air Flow",
		"Supply Air Inlet Node Name", "Supply Air Outlet Node Name", "Exhaust Air Inlet Node Name",
		"Exhaust Air Outlet Node Name", "Nominal Electric Power", "Supply Air Outlet Temperature Control",
		"Heat Exchanger Type", "Frost Control Type", "Threshold Temperature", "Initial Defrost Time Fraction",
		"Rate of Defrost Time Fraction Increase", "Economizer Lockout",
	}})
	register(&Schema{Type: TypeCoilHeatingElectric, Fields: []string{
		"Name", "Availability Schedule Name", "Efficiency", "Nominal Capacity", "Air Inlet Node Name",
		"Air Outlet Node Name", "Temperature Setpoint Node Name",
	}})
	register(&Schema{Type: TypeCoilCoolingWater, Fields: []string{
		"Name", "Availability Schedule Name", "Design Water Flow Rate", "Design Air Flow Rate",
		"Design Inlet Water Temperature", "Design Inlet Air Temperature", "Design Outlet Air Temperature",
		"Design Inlet Air Humidity Ratio", "Design Outlet Air Humidity Ratio", "Water Inlet Node Name",
		"Water Outlet Node Name", "Air Inlet Node Name", "Air Outlet Node Name", "Type of Analysis",
		"Heat Exchanger Configuration",
	}})
	register(&Schema{Type: TypeFanConstantVolume, Fields: []string{
		"Name", "Availability Schedule Name", "Fan Total Efficiency", "Pressure Rise", "Maximum Flow Rate",
		"Motor Efficiency", "Motor In Airstream Fraction", "Air Inlet Node Name", "Air Outlet Node Name",
	}})
	register(&Schema{Type: TypeUnitarySystem, Fields: []string{
		"Name", "Control Type", "Controlling Zone or Thermostat Location", "Dehumidification Control Type",
		"Availability Schedule Name", "Air Inlet Node Name", "Air Outlet Node Name",
	}})
	register(&Schema{Type: TypeAFNDistributionNode, Fields: []string{
		"Name", "Component Name or Node Name", "Component Object Type or Node Type", "Node Height",
	}})
}
