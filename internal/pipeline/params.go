package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
)

// Params are the caller-chosen thresholds for one run.
type Params struct {
	MinSupport   float64
	MaxLen       int
	Metric       basket.Metric
	MinThreshold float64
}

// Validate rejects configuration errors before any computation starts.
func (p Params) Validate() error {
	if err := basket.ValidateSupport(p.MinSupport); err != nil {
		return err
	}
	if err := basket.ValidateThreshold(p.Metric, p.MinThreshold); err != nil {
		return err
	}
	if p.MaxLen < 0 {
		return eris.Errorf("max_len %d must be 0 (unbounded) or positive", p.MaxLen)
	}
	return nil
}
