// Package topology derives component order from port connections. Nothing in
// the workspace stores "my neighbours"; every chain is recomputed by walking
// connections with the per-kind rules below.
package topology

import (
	"errors"
	"fmt"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
)

var (
	ErrUnexpectedTopology = errors.New("unexpected topology")
	ErrConnected          = errors.New("component is already connected")
)

// Stream identifies which air path a walk follows. An air-to-air heat
// exchanger sits on two streams at once and uses different ports on each.
type Stream int

const (
	Supply Stream = iota
	Outdoor
	Relief
)

func (s Stream) String() string {
	switch s {
	case Supply:
		return "supply"
	case Outdoor:
		return "outdoor air"
	case Relief:
		return "relief"
	}
	return fmt.Sprintf("Stream(%d)", int(s))
}

// Rule names the single upstream and downstream port of a component on one
// stream.
type Rule struct {
	Up   idd.Port
	Down idd.Port
}

var (
	straight   = Rule{Up: idd.PortInlet, Down: idd.PortOutlet}
	airSide    = Rule{Up: idd.PortAirInlet, Down: idd.PortAirOutlet}
	primary    = Rule{Up: idd.PortPrimaryAirInlet, Down: idd.PortPrimaryAirOutlet}
	secondary  = Rule{Up: idd.PortSecondaryAirInlet, Down: idd.PortSecondaryAirOutlet}
	returnSide = Rule{Up: idd.PortReturnAir, Down: idd.PortMixedAir}
)

// Adding a component kind to the graph means adding a row here.
var rules = map[idd.Kind]map[Stream]Rule{
	idd.KindNode:             {Supply: straight, Outdoor: straight, Relief: straight},
	idd.KindStraight:         {Supply: straight, Outdoor: straight, Relief: straight},
	idd.KindWaterToAir:       {Supply: airSide, Outdoor: airSide, Relief: airSide},
	idd.KindZoneHVAC:         {Supply: airSide, Outdoor: airSide, Relief: airSide},
	idd.KindAirToAir:         {Supply: primary, Outdoor: primary, Relief: secondary},
	idd.KindOutdoorAirSystem: {Supply: returnSide},
}

// RuleFor returns how a component of kind k is traversed on stream s.
func RuleFor(k idd.Kind, s Stream) (Rule, error) {
	if r, ok := rules[k][s]; ok {
		return r, nil
	}
	return Rule{}, fmt.Errorf("%w: no %s rule for component kind %d", ErrUnexpectedTopology, s, int(k))
}

// Placeable reports whether kind k can sit on stream s.
func Placeable(k idd.Kind, s Stream) bool {
	_, ok := rules[k][s]
	return ok
}
