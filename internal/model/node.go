package model

import (
	"fmt"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
)

type Node struct {
	ModelObject
}

func NewNode(m *Model) (Node, error) {
	o, err := m.create(idd.Node)
	if err != nil {
		return Node{}, err
	}
	return Node{o}, nil
}

func AsNode(o ModelObject) (Node, bool) {
	if o.Type() != idd.Node {
		return Node{}, false
	}
	return Node{o}, true
}

func (n Node) InletModelObject() (ModelObject, bool) {
	return n.ConnectedObject(idd.PortInlet)
}

func (n Node) OutletModelObject() (ModelObject, bool) {
	return n.ConnectedObject(idd.PortOutlet)
}

func (n Node) AirflowNetworkDistributionNode() (AirflowNetworkDistributionNode, bool) {
	return afnNodeOf(n.ModelObject)
}

// GetAirflowNetworkDistributionNode returns the attached airflow network node,
// creating it if there is none.
func (n Node) GetAirflowNetworkDistributionNode() (AirflowNetworkDistributionNode, error) {
	return getAFNNode(n.ModelObject)
}

type ScheduleConstant struct {
	ModelObject
}

func NewScheduleConstant(m *Model) (ScheduleConstant, error) {
	o, err := m.create(idd.ScheduleConstant)
	if err != nil {
		return ScheduleConstant{}, err
	}
	return ScheduleConstant{o}, nil
}

func AsScheduleConstant(o ModelObject) (ScheduleConstant, bool) {
	if o.Type() != idd.ScheduleConstant {
		return ScheduleConstant{}, false
	}
	return ScheduleConstant{o}, true
}

func (s ScheduleConstant) Value() (float64, bool) {
	return s.getDouble(idd.ScheduleConstantValue)
}

func (s ScheduleConstant) SetValue(v float64) bool {
	return s.setDouble(idd.ScheduleConstantValue, v)
}

// Remove fails while anything holds a required reference to the schedule.
func (s ScheduleConstant) Remove() error {
	_, err := s.removeFromWorkspace()
	return err
}

// AirflowNetworkDistributionNode attaches airflow network data to a node or an
// outdoor air system.
type AirflowNetworkDistributionNode struct {
	ModelObject
}

func (a AirflowNetworkDistributionNode) Component() (ModelObject, bool) {
	return a.target(idd.AFNDistributionNodeComponent)
}

func (a AirflowNetworkDistributionNode) NodeHeight() float64 {
	v, _ := a.getDouble(idd.AFNDistributionNodeHeight)
	return v
}

func (a AirflowNetworkDistributionNode) SetNodeHeight(v float64) bool {
	return a.setDouble(idd.AFNDistributionNodeHeight, v)
}

func (a AirflowNetworkDistributionNode) ResetNodeHeight() bool {
	return a.reset(idd.AFNDistributionNodeHeight)
}

func (a AirflowNetworkDistributionNode) Remove() error {
	_, err := a.removeFromWorkspace()
	return err
}

func afnNodeOf(o ModelObject) (AirflowNetworkDistributionNode, bool) {
	srcs := o.sources(idd.AirflowNetworkDistributionNode)
	if len(srcs) == 0 {
		return AirflowNetworkDistributionNode{}, false
	}
	return AirflowNetworkDistributionNode{srcs[0]}, true
}

func getAFNNode(o ModelObject) (AirflowNetworkDistributionNode, error) {
	if a, ok := afnNodeOf(o); ok {
		return a, nil
	}
	created, err := o.model.create(idd.AirflowNetworkDistributionNode)
	if err != nil {
		return AirflowNetworkDistributionNode{}, err
	}
	a := AirflowNetworkDistributionNode{created}
	if !a.setTarget(idd.AFNDistributionNodeComponent, o) {
		_ = a.Remove()
		return AirflowNetworkDistributionNode{}, fmt.Errorf("%s cannot carry an airflow network node", o)
	}
	return a, nil
}
