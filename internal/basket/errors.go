package basket

import "github.com/rotisserie/eris"

var (
	// ErrEmptyInput is returned when there are no transactions or no items.
	ErrEmptyInput = eris.New("empty input")
	// ErrInvalidSupport is returned when min_support is outside (0,1].
	ErrInvalidSupport = eris.New("invalid min_support")
	// ErrInvalidThreshold is returned when a rule threshold cannot be applied.
	ErrInvalidThreshold = eris.New("invalid threshold")
	// ErrInvalidMetric is returned for an unknown metric name.
	ErrInvalidMetric = eris.New("invalid metric")
	// ErrInternalConsistency signals a broken miner or generator invariant.
	ErrInternalConsistency = eris.New("internal consistency violation")
)

// Hint returns a short remedy for errors a user can fix, or "" otherwise.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case eris.Is(err, ErrEmptyInput):
		return "check that the file has data rows and the item columns are not all blank"
	case eris.Is(err, ErrInvalidSupport):
		return "use a min support greater than 0 and at most 1 (for example 0.01)"
	case eris.Is(err, ErrInvalidThreshold):
		return "use a non-negative threshold; support and confidence thresholds are fractions in [0,1]"
	case eris.Is(err, ErrInvalidMetric):
		return "valid metrics: " + metricNames()
	case eris.Is(err, ErrInternalConsistency):
		return "this is a bug; please report it with the input file"
	}
	return ""
}
