package idd

// Field indices, one block per type.

const (
	NodeName = iota
)

const (
	ScheduleConstantName = iota
	ScheduleConstantValue
)

const (
	AirLoopHVACName = iota
	AirLoopHVACAvailabilitySchedule
	AirLoopHVACDesignSupplyAirFlowRate
	AirLoopHVACSupplyInletNode
	AirLoopHVACSupplyOutletNode
	AirLoopHVACDemandInletNode
	AirLoopHVACDemandOutletNode
)

const (
	ControllerOutdoorAirName = iota
	ControllerOutdoorAirMinimumOutdoorAirFlowRate
	ControllerOutdoorAirMaximumOutdoorAirFlowRate
	ControllerOutdoorAirEconomizerControlType
	ControllerOutdoorAirEconomizerControlActionType
	ControllerOutdoorAirEconomizerMaximumLimitDryBulbTemperature
	ControllerOutdoorAirEconomizerMaximumLimitEnthalpy
	ControllerOutdoorAirEconomizerMaximumLimitDewpointTemperature
	ControllerOutdoorAirEconomizerMinimumLimitDryBulbTemperature
	ControllerOutdoorAirLockoutType
	ControllerOutdoorAirMinimumLimitType
	ControllerOutdoorAirMinimumOutdoorAirSchedule
)

const (
	OutdoorAirSystemName = iota
	OutdoorAirSystemControllerOutdoorAir
)

const (
	DOASName = iota
	DOASOutdoorAirSystem
	DOASAvailabilitySchedule
	DOASPreheatDesignTemperature
	DOASPreheatDesignHumidityRatio
	DOASPrecoolDesignTemperature
	DOASPrecoolDesignHumidityRatio
)

// Extensible fields of OS:AirLoopHVAC:DedicatedOutdoorAirSystem.
const (
	DOASAirLoop = iota
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
)

const (
	UnitarySystemName = iota
	UnitarySystemControlType
	UnitarySystemDehumidificationControlType
	UnitarySystemAvailabilitySchedule
)

const (
	AFNDistributionNodeName = iota
	AFNDistributionNodeComponent
	AFNDistributionNodeHeight
)

func ptr(v float64) *float64 { return &v }

func name() Field {
	return Field{Name: "Name", Type: FieldString, Required: true}
}

func schedule(fieldName string, required bool) Field {
	return Field{Name: fieldName, Type: FieldReference, Required: required, RefTypes: []Type{ScheduleConstant}}
}

func nodeRef(fieldName string) Field {
	return Field{Name: fieldName, Type: FieldReference, Required: true, RefTypes: []Type{Node}}
}

func autosized(fieldName string) Field {
	return Field{Name: fieldName, Type: FieldDouble, Default: "Autosize", Autosizable: true, Min: ptr(0)}
}

func fraction(fieldName, def string) Field {
	return Field{Name: fieldName, Type: FieldDouble, Required: true, Default: def, Min: ptr(0), Max: ptr(1)}
}

func choice(fieldName, def string, choices ...string) Field {
	return Field{Name: fieldName, Type: FieldChoice, Required: true, Default: def, Choices: choices}
}

var straightPorts = []PortSpec{{PortInlet, In}, {PortOutlet, Out}}

var registry = map[Type]*Schema{
	Node: {
		Type: Node, Name: "OS:Node", Label: "Node", Kind: KindNode,
		Fields: []Field{name()},
		Ports:  straightPorts,
	},
	ScheduleConstant: {
		Type: ScheduleConstant, Name: "OS:Schedule:Constant", Label: "Schedule Constant", Kind: KindSchedule,
		Fields: []Field{
			name(),
			{Name: "Value", Type: FieldDouble, Required: true, Default: "0"},
		},
	},
	AirLoopHVAC: {
		Type: AirLoopHVAC, Name: "OS:AirLoopHVAC", Label: "Air Loop HVAC", Kind: KindLoop,
		Fields: []Field{
			name(),
			schedule("Availability Schedule Name", false),
			autosized("Design Supply Air Flow Rate"),
			nodeRef("Supply Side Inlet Node Name"),
			nodeRef("Supply Side Outlet Node Name"),
			nodeRef("Demand Side Inlet Node Name"),
			nodeRef("Demand Side Outlet Node Name"),
		},
	},
	ControllerOutdoorAir: {
		Type: ControllerOutdoorAir, Name: "OS:Controller:OutdoorAir", Label: "Controller Outdoor Air", Kind: KindController,
		Fields: []Field{
			name(),
			autosized("Minimum Outdoor Air Flow Rate"),
			autosized("Maximum Outdoor Air Flow Rate"),
			choice("Economizer Control Type", "NoEconomizer",
				"FixedDryBulb", "FixedEnthalpy", "DifferentialDryBulb", "DifferentialEnthalpy",
				"FixedDewPointAndDryBulb", "ElectronicEnthalpy", "DifferentialDryBulbAndEnthalpy", "NoEconomizer"),
			choice("Economizer Control Action Type", "ModulateFlow", "ModulateFlow", "MinimumFlowWithBypass"),
			{Name: "Economizer Maximum Limit Dry-Bulb Temperature", Type: FieldDouble, Default: "28"},
			{Name: "Economizer Maximum Limit Enthalpy", Type: FieldDouble, Default: "64000"},
			{Name: "Economizer Maximum Limit Dewpoint Temperature", Type: FieldDouble},
			{Name: "Economizer Minimum Limit Dry-Bulb Temperature", Type: FieldDouble, Default: "-100"},
			choice("Lockout Type", "NoLockout", "NoLockout", "LockoutWithHeating", "LockoutWithCompressor"),
			choice("Minimum Limit Type", "ProportionalMinimum", "FixedMinimum", "ProportionalMinimum"),
			schedule("Minimum Outdoor Air Schedule Name", false),
		},
	},
	AirLoopHVACOutdoorAirSystem: {
		Type: AirLoopHVACOutdoorAirSystem, Name: "OS:AirLoopHVAC:OutdoorAirSystem", Label: "Air Loop HVAC Outdoor Air System",
		Kind: KindOutdoorAirSystem,
		Fields: []Field{
			name(),
			{Name: "Controller Name", Type: FieldReference, Required: true, RefTypes: []Type{ControllerOutdoorAir}},
		},
		Ports: []PortSpec{
			{PortReturnAir, In}, {PortMixedAir, Out},
			{PortOutdoorAir, In}, {PortReliefAir, Out},
		},
	},
	AirLoopHVACDedicatedOutdoorAirSystem: {
		Type: AirLoopHVACDedicatedOutdoorAirSystem, Name: "OS:AirLoopHVAC:DedicatedOutdoorAirSystem",
		Label: "Air Loop HVAC Dedicated Outdoor Air System", Kind: KindOther,
		Fields: []Field{
			name(),
			{Name: "Outdoor Air System", Type: FieldReference, Required: true, RefTypes: []Type{AirLoopHVACOutdoorAirSystem}},
			schedule("Availability Schedule", true),
			{Name: "Preheat Design Temperature", Type: FieldDouble, Required: true, Default: "4.5"},
			{Name: "Preheat Design Humidity Ratio", Type: FieldDouble, Required: true, Default: "0.004", Min: ptr(0)},
			{Name: "Precool Design Temperature", Type: FieldDouble, Required: true, Default: "17.5"},
			{Name: "Precool Design Humidity Ratio", Type: FieldDouble, Required: true, Default: "0.012", Min: ptr(0)},
		},
		Extensible: []Field{
			{Name: "AirLoopHVAC", Type: FieldReference, Required: true, RefTypes: []Type{AirLoopHVAC}},
		},
	},
	HeatExchangerAirToAirSensibleAndLatent: {
		Type: HeatExchangerAirToAirSensibleAndLatent, Name: "OS:HeatExchanger:AirToAir:SensibleAndLatent",
		Label: "Heat Exchanger Air To Air Sensible And Latent", Kind: KindAirToAir,
		Fields: []Field{
			name(),
			schedule("Availability Schedule", false),
			autosized("Nominal Supply Air Flow Rate"),
			fraction("Sensible Effectiveness at 100% Heating Air Flow", "0.76"),
			fraction("Latent Effectiveness at 100% Heating Air Flow", "0.68"),
			fraction("Sensible Effectiveness at 75% Heating Air Flow", "0.81"),
			fraction("Latent Effectiveness at 75% Heating Air Flow", "0.73"),
			fraction("Sensible Effectiveness at 100% Cooling Air Flow", "0.76"),
			fraction("Latent Effectiveness at 100% Cooling Air Flow", "0.68"),
			fraction("Sensible Effectiveness at 75% Cooling Air Flow", "0.81"),
			fraction("Latent Effectiveness at 75% Cooling Air Flow", "0.73"),
			{Name: "Nominal Electric Power", Type: FieldDouble, Required: true, Default: "0", Min: ptr(0)},
			choice("Supply Air Outlet Temperature Control", "No", "Yes", "No"),
			choice("Heat Exchanger Type", "Plate", "Plate", "Rotary"),
			choice("Frost Control Type", "None", "None", "ExhaustAirRecirculation", "ExhaustOnly", "MinimumExhaustTemperature"),
			{Name: "Threshold Temperature", Type: FieldDouble, Required: true, Default: "1.7"},
			{Name: "Initial Defrost Time Fraction", Type: FieldDouble, Min: ptr(0), Max: ptr(1)},
			{Name: "Rate of Defrost Time Fraction Increase", Type: FieldDouble, Default: "0.012", Min: ptr(0)},
			choice("Economizer Lockout", "Yes", "Yes", "No"),
		},
		Ports: []PortSpec{
			{PortPrimaryAirInlet, In}, {PortPrimaryAirOutlet, Out},
			{PortSecondaryAirInlet, In}, {PortSecondaryAirOutlet, Out},
		},
	},
	CoilHeatingElectric: {
		Type: CoilHeatingElectric, Name: "OS:Coil:Heating:Electric", Label: "Coil Heating Electric", Kind: KindStraight,
		Fields: []Field{
			name(),
			schedule("Availability Schedule Name", false),
			{Name: "Efficiency", Type: FieldDouble, Required: true, Default: "1", Min: ptr(0), MinExcl: true, Max: ptr(1)},
			autosized("Nominal Capacity"),
		},
		Ports: straightPorts,
	},
	CoilCoolingWater: {
		Type: CoilCoolingWater, Name: "OS:Coil:Cooling:Water", Label: "Coil Cooling Water", Kind: KindWaterToAir,
		Fields: []Field{
			name(),
			schedule("Availability Schedule Name", false),
			autosized("Design Water Flow Rate"),
			autosized("Design Air Flow Rate"),
			autosized("Design Inlet Water Temperature"),
			autosized("Design Inlet Air Temperature"),
			autosized("Design Outlet Air Temperature"),
			autosized("Design Inlet Air Humidity Ratio"),
			autosized("Design Outlet Air Humidity Ratio"),
			choice("Type of Analysis", "SimpleAnalysis", "SimpleAnalysis", "DetailedAnalysis"),
			choice("Heat Exchanger Configuration", "CrossFlow", "CrossFlow", "CounterFlow"),
		},
		Ports: []PortSpec{
			{PortAirInlet, In}, {PortAirOutlet, Out},
			{PortWaterInlet, In}, {PortWaterOutlet, Out},
		},
	},
	FanConstantVolume: {
		Type: FanConstantVolume, Name: "OS:Fan:ConstantVolume", Label: "Fan Constant Volume", Kind: KindStraight,
		Fields: []Field{
			name(),
			schedule("Availability Schedule Name", false),
			{Name: "Fan Total Efficiency", Type: FieldDouble, Required: true, Default: "0.6", Min: ptr(0), MinExcl: true, Max: ptr(1)},
			{Name: "Pressure Rise", Type: FieldDouble, Required: true, Default: "250"},
			autosized("Maximum Flow Rate"),
			{Name: "Motor Efficiency", Type: FieldDouble, Required: true, Default: "0.9", Min: ptr(0), MinExcl: true, Max: ptr(1)},
			fraction("Motor In Airstream Fraction", "1"),
		},
		Ports: straightPorts,
	},
	AirLoopHVACUnitarySystem: {
		Type: AirLoopHVACUnitarySystem, Name: "OS:AirLoopHVAC:UnitarySystem", Label: "Air Loop HVAC Unitary System",
		Kind: KindZoneHVAC,
		Fields: []Field{
			name(),
			choice("Control Type", "Load", "Load", "SetPoint"),
			choice("Dehumidification Control Type", "None", "None", "Multimode", "CoolReheat"),
			schedule("Availability Schedule Name", false),
		},
		Ports: []PortSpec{{PortAirInlet, In}, {PortAirOutlet, Out}},
	},
	AirflowNetworkDistributionNode: {
		Type: AirflowNetworkDistributionNode, Name: "OS:AirflowNetworkDistributionNode",
		Label: "Airflow Network Distribution Node", Kind: KindOther,
		Fields: []Field{
			name(),
			{Name: "Component Name or Node Name", Type: FieldReference, Required: true,
				RefTypes: []Type{Node, AirLoopHVACOutdoorAirSystem}},
			{Name: "Node Height", Type: FieldDouble, Required: true, Default: "0"},
		},
	},
}

var ownership = map[Type][]OwnershipRule{
	Node: {
		OwnsSources(AirflowNetworkDistributionNode, AFNDistributionNodeComponent),
	},
	AirLoopHVAC: {
		OwnsField(AirLoopHVACSupplyInletNode),
		OwnsField(AirLoopHVACSupplyOutletNode),
		OwnsField(AirLoopHVACDemandInletNode),
		OwnsField(AirLoopHVACDemandOutletNode),
	},
	AirLoopHVACOutdoorAirSystem: {
		OwnsField(OutdoorAirSystemControllerOutdoorAir),
		OwnsSources(AirflowNetworkDistributionNode, AFNDistributionNodeComponent),
	},
	AirLoopHVACDedicatedOutdoorAirSystem: {
		OwnsField(DOASOutdoorAirSystem),
	},
}
