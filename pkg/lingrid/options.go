package lingrid

import (
	"log"
	"runtime"

	"github.com/beetlebugorg/lingrid/internal/parser"
)

// ParseOptions configures record decoding.
type ParseOptions = parser.ParseOptions

// DefaultParseOptions returns default options.
func DefaultParseOptions() ParseOptions {
	return parser.DefaultParseOptions()
}

// Options controls how a run evaluates records against the grid.
type Options struct {
	// Parallel enables concurrent record evaluation.
	// Records are still decoded in stream order by one goroutine and results are
	// committed in stream order, so output is identical to a serial run.
	Parallel bool

	// Workers specifies the number of evaluation goroutines.
	// If 0, defaults to runtime.NumCPU().
	// Only used when Parallel is true.
	Workers int

	// UseIndex selects cells with an R-tree over cell rectangles instead of
	// testing every cell against every record.
	UseIndex bool

	// Parse configures the record decoder.
	Parse ParseOptions

	// Logger receives run start, finish and failure messages. nil is silent.
	Logger *log.Logger

	// Progress is an optional callback for tracking progress.
	// Called after each record is committed with the number of records so far.
	Progress func(records int)
}

// DefaultOptions returns run options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Parallel: false,
		Workers:  runtime.NumCPU(),
		UseIndex: true,
		Parse:    DefaultParseOptions(),
		Logger:   nil,
		Progress: nil,
	}
}

func (o Options) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}
