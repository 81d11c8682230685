package basket

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Metric names a rule attribute usable for thresholds and ranking.
type Metric string

const (
	MetricSupport    Metric = "support"
	MetricConfidence Metric = "confidence"
	MetricLift       Metric = "lift"
	MetricLeverage   Metric = "leverage"
	MetricConviction Metric = "conviction"
)

var allMetrics = []Metric{MetricSupport, MetricConfidence, MetricLift, MetricLeverage, MetricConviction}

// Metrics returns every supported metric.
func Metrics() []Metric {
	out := make([]Metric, len(allMetrics))
	copy(out, allMetrics)
	return out
}

// ParseMetric resolves a metric name, ignoring case and surrounding space.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", eris.Wrapf(ErrInvalidMetric, "unknown metric %q", s)
	}
	return m, nil
}

// Valid reports whether m is a supported metric.
func (m Metric) Valid() bool {
	for _, x := range allMetrics {
		if m == x {
			return true
		}
	}
	return false
}

func (m Metric) String() string { return string(m) }

// bounded reports whether the metric is a fraction in [0,1].
func (m Metric) bounded() bool {
	return m == MetricSupport || m == MetricConfidence
}

// ValidateThreshold checks that t can be used as a minimum for metric.
// Support and confidence are fractions, so negative minimums are rejected;
// lift, leverage and conviction accept any number.
func ValidateThreshold(metric Metric, t float64) error {
	if !metric.Valid() {
		return eris.Wrapf(ErrInvalidMetric, "unknown metric %q", string(metric))
	}
	if math.IsNaN(t) {
		return eris.Wrapf(ErrInvalidThreshold, "%s threshold is NaN", metric)
	}
	if metric.bounded() && t < 0 {
		return eris.Wrapf(ErrInvalidThreshold, "%s threshold %v is negative", metric, t)
	}
	return nil
}

func metricNames() string {
	names := make([]string, len(allMetrics))
	for i, m := range allMetrics {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
