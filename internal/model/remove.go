package model

import (
	"errors"
	"fmt"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
)

var ErrNodeRemoval = errors.New("nodes go away with the components around them")

// Remove deletes o the way its type requires and returns the removed records.
func Remove(o ModelObject) ([]*idf.Object, error) {
	if !o.Exists() {
		return nil, fmt.Errorf("%s: already removed", o)
	}
	switch o.Type() {
	case idd.Node:
		return nil, fmt.Errorf("remove %s: %w", o, ErrNodeRemoval)
	case idd.AirLoopHVAC:
		return AirLoopHVAC{o}.Remove()
	case idd.AirLoopHVACDedicatedOutdoorAirSystem:
		return AirLoopHVACDedicatedOutdoorAirSystem{o}.Remove()
	}
	if c, ok := AsHVACComponent(o); ok {
		return c.Remove()
	}
	return o.removeFromWorkspace()
}
