package energyplus

import (
	"time"

	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/model"
)

// Result is one reverse pass over an input file followed by a forward pass
// over the model it produced.
type Result struct {
	Model  *model.Model
	Output *idf.File

	ReverseWarnings []Warning
	ForwardWarnings []Warning
	ReverseDuration time.Duration
	ForwardDuration time.Duration
}

func Translate(in *idf.File, opts Options) Result {
	var res Result

	start := time.Now()
	reverse := NewReverseTranslator()
	res.Model = reverse.TranslateWorkspace(in)
	res.ReverseWarnings = reverse.Warnings()
	res.ReverseDuration = time.Since(start)

	start = time.Now()
	forward := NewForwardTranslator(opts)
	res.Output = forward.TranslateModel(res.Model)
	res.ForwardWarnings = forward.Warnings()
	res.ForwardDuration = time.Since(start)

	return res
}
