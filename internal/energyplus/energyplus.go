// Package energyplus translates between the object model and EnergyPlus input
// records. Translation is best effort: problems with one object become
// warnings and the rest of the model is still translated.
package energyplus

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var ErrUntranslatable = errors.New("untranslatable object")

// Warning is one problem found during translation.
type Warning struct {
	Object  string `json:"object"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Object, w.Message)
}

type warnings struct {
	list []Warning
}

func (w *warnings) warn(object, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Warn().Str("object", object).Msg(msg)
	w.list = append(w.list, Warning{Object: object, Message: msg})
}

// Warnings returns the problems found by the last translation.
func (w *warnings) Warnings() []Warning {
	return append([]Warning(nil), w.list...)
}

// Options tune forward translation.
type Options struct {
	// ExcludeOrphanedComponents skips components that are not on an air loop
	// or an outdoor air system in service.
	ExcludeOrphanedComponents bool `json:"exclude_orphaned_components" yaml:"exclude_orphaned_components"`
	// OutdoorAirNodeList writes an OutdoorAir:NodeList for every outdoor air
	// system drawing directly from outside.
	OutdoorAirNodeList bool `json:"outdoor_air_node_list" yaml:"outdoor_air_node_list"`
}

func DefaultOptions() Options {
	return Options{ExcludeOrphanedComponents: true, OutdoorAirNodeList: true}
}
