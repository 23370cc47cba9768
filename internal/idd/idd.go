// Package idd is the closed schema registry for the object model. Every object
// type the workspace can hold is declared here with its field layout, its ports
// and the children it owns.
package idd

import "fmt"

type Type int

const (
	Unknown Type = iota
	Node
	ScheduleConstant
	AirLoopHVAC
	ControllerOutdoorAir
	AirLoopHVACOutdoorAirSystem
	AirLoopHVACDedicatedOutdoorAirSystem
	HeatExchangerAirToAirSensibleAndLatent
	CoilHeatingElectric
	CoilCoolingWater
	FanConstantVolume
	AirLoopHVACUnitarySystem
	AirflowNetworkDistributionNode
)

// Kind groups types by how they take part in the connection graph.
type Kind int

const (
	KindOther Kind = iota
	KindNode
	KindStraight
	KindAirToAir
	KindWaterToAir
	KindZoneHVAC
	KindOutdoorAirSystem
	KindLoop
	KindController
	KindSchedule
)

type FieldType int

const (
	FieldString FieldType = iota
	FieldChoice
	FieldDouble
	FieldInteger
	FieldReference
)

func (f FieldType) String() string {
	switch f {
	case FieldString:
		return "string"
	case FieldChoice:
		return "choice"
	case FieldDouble:
		return "double"
	case FieldInteger:
		return "integer"
	case FieldReference:
		return "reference"
	}
	return fmt.Sprintf("FieldType(%d)", int(f))
}

type Field struct {
	Name     string
	Type     FieldType
	Required bool
	// Default is the IDF text form of the value a new object starts with.
	Default     string
	Autosizable bool
	Min         *float64
	Max         *float64
	MinExcl     bool
	Choices     []string
	RefTypes    []Type
}

// Accepts reports whether a reference field may point at an object of type t.
func (f Field) Accepts(t Type) bool {
	for _, rt := range f.RefTypes {
		if rt == t {
			return true
		}
	}
	return false
}

type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

type Port int

const (
	PortInlet Port = iota + 1
	PortOutlet
	PortReturnAir
	PortMixedAir
	PortOutdoorAir
	PortReliefAir
	PortPrimaryAirInlet
	PortPrimaryAirOutlet
	PortSecondaryAirInlet
	PortSecondaryAirOutlet
	PortAirInlet
	PortAirOutlet
	PortWaterInlet
	PortWaterOutlet
)

var portNames = map[Port]string{
	PortInlet:              "inlet",
	PortOutlet:             "outlet",
	PortReturnAir:          "return air",
	PortMixedAir:           "mixed air",
	PortOutdoorAir:         "outdoor air",
	PortReliefAir:          "relief air",
	PortPrimaryAirInlet:    "primary air inlet",
	PortPrimaryAirOutlet:   "primary air outlet",
	PortSecondaryAirInlet:  "secondary air inlet",
	PortSecondaryAirOutlet: "secondary air outlet",
	PortAirInlet:           "air inlet",
	PortAirOutlet:          "air outlet",
	PortWaterInlet:         "water inlet",
	PortWaterOutlet:        "water outlet",
}

func (p Port) String() string {
	if s, ok := portNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Port(%d)", int(p))
}

type PortSpec struct {
	Port Port
	Dir  Direction
}

type Schema struct {
	Type Type
	// Name is the IDD object name, e.g. "OS:Node".
	Name string
	// Label seeds default object names ("Node 1", "Node 2", ...).
	Label      string
	Kind       Kind
	Fields     []Field
	Extensible []Field
	Ports      []PortSpec
}

func (s *Schema) PortDirection(p Port) (Direction, bool) {
	for _, ps := range s.Ports {
		if ps.Port == p {
			return ps.Dir, true
		}
	}
	return 0, false
}

// OwnershipRule declares a child that is removed together with its owner.
// Either Field names a reference field on the owner, or SourceType/SourceField
// name objects that point at the owner and belong to it.
type OwnershipRule struct {
	Field       int
	SourceType  Type
	SourceField int
}

func OwnsField(field int) OwnershipRule {
	return OwnershipRule{Field: field, SourceField: -1}
}

func OwnsSources(t Type, field int) OwnershipRule {
	return OwnershipRule{Field: -1, SourceType: t, SourceField: field}
}

func Lookup(t Type) (*Schema, bool) {
	s, ok := registry[t]
	return s, ok
}

func LookupName(name string) (Type, bool) {
	for t, s := range registry {
		if s.Name == name {
			return t, true
		}
	}
	return Unknown, false
}

// Types lists every registered type in declaration order.
func Types() []Type {
	out := make([]Type, 0, len(registry))
	for t := Node; t <= AirflowNetworkDistributionNode; t++ {
		if _, ok := registry[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (t Type) String() string {
	if s, ok := registry[t]; ok {
		return s.Name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) Kind() Kind {
	if s, ok := registry[t]; ok {
		return s.Kind
	}
	return KindOther
}

// Owned returns the ownership rules for t, possibly none.
func Owned(t Type) []OwnershipRule {
	return ownership[t]
}
