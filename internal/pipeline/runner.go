package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
)

// Stage names a step of a run.
type Stage string

const (
	StageEncode Stage = "encode"
	StageMine   Stage = "mine"
	StageDerive Stage = "derive"
)

// StageTiming records how long a stage took.
type StageTiming struct {
	Stage    Stage
	Duration time.Duration
	Cached   bool
}

// Run owns the artifacts of one analysis. Nothing in a Run is shared with
// other runs except cached, read-only matrices and itemset collections.
type Run struct {
	ID       string
	Name     string
	Params   Params
	Started  time.Time
	Finished time.Time
	Timings  []StageTiming
	CacheHit bool

	Matrix   *basket.Matrix
	Frequent *basket.Frequent
	Rules    *basket.RuleSet
}

// Duration is the wall time of the whole run.
func (r *Run) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// Recommend answers a recommendation query against the run's rules.
func (r *Run) Recommend(item string, rankBy basket.Metric, topK int) ([]basket.Rule, error) {
	return basket.Recommend(r.Rules, item, rankBy, topK)
}

// Runner sequences encode, mine and derive.
type Runner struct {
	cache *Cache
}

// NewRunner returns a runner. cache may be nil to disable memoization.
func NewRunner(cache *Cache) *Runner {
	return &Runner{cache: cache}
}

// Execute runs the three stages in order. ctx is consulted between stages
// only; a stage that has started always completes.
func (rn *Runner) Execute(ctx context.Context, name string, transactions []basket.Transaction, p Params) (*Run, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	run := &Run{ID: uuid.NewString(), Name: name, Params: p, Started: time.Now()}
	log := zap.L().With(zap.String("run_id", run.ID), zap.String("name", name))
	log.Debug("run started",
		zap.Int("transactions", len(transactions)),
		zap.Float64("min_support", p.MinSupport),
		zap.Int("max_len", p.MaxLen),
		zap.String("metric", p.Metric.String()),
		zap.Float64("min_threshold", p.MinThreshold),
	)

	var key string
	if rn.cache != nil {
		fp, err := Fingerprint(transactions)
		if err != nil {
			return nil, err
		}
		key = cacheKey(fp, p)
		if e, ok := rn.cache.get(key); ok {
			run.Matrix, run.Frequent, run.CacheHit = e.matrix, e.frequent, true
			run.Timings = append(run.Timings,
				StageTiming{Stage: StageEncode, Cached: true},
				StageTiming{Stage: StageMine, Cached: true},
			)
			log.Debug("frequent itemsets served from cache", zap.Int("itemsets", e.frequent.Len()))
		}
	}

	if !run.CacheHit {
		if err := rn.stage(ctx, run, log, StageEncode, func() error {
			m, err := basket.Encode(transactions)
			if err != nil {
				return err
			}
			run.Matrix = m
			log.Debug("encoded", zap.Int("transactions", m.NumTransactions()), zap.Int("items", m.NumItems()))
			return nil
		}); err != nil {
			return nil, err
		}
		if err := rn.stage(ctx, run, log, StageMine, func() error {
			f, err := basket.Mine(run.Matrix, p.MinSupport, basket.WithMaxLen(p.MaxLen))
			if err != nil {
				return err
			}
			run.Frequent = f
			log.Debug("mined", zap.Int("itemsets", f.Len()))
			return nil
		}); err != nil {
			return nil, err
		}
		if rn.cache != nil {
			rn.cache.put(key, cacheEntry{matrix: run.Matrix, frequent: run.Frequent})
		}
	}

	if err := rn.stage(ctx, run, log, StageDerive, func() error {
		rs, err := basket.Derive(run.Frequent, p.Metric, p.MinThreshold)
		if err != nil {
			return err
		}
		run.Rules = rs
		log.Debug("derived", zap.Int("rules", rs.Len()))
		return nil
	}); err != nil {
		return nil, err
	}

	run.Finished = time.Now()
	log.Debug("run finished",
		zap.Int("itemsets", run.Frequent.Len()),
		zap.Int("rules", run.Rules.Len()),
		zap.Bool("cache_hit", run.CacheHit),
		zap.Duration("elapsed", run.Duration()),
	)
	return run, nil
}

func (rn *Runner) stage(ctx context.Context, run *Run, log *zap.Logger, s Stage, fn func() error) error {
	if err := ctx.Err(); err != nil {
		log.Warn("run cancelled", zap.String("before_stage", string(s)))
		return eris.Wrapf(err, "run %s cancelled before %s", run.ID, s)
	}
	start := time.Now()
	if err := fn(); err != nil {
		log.Debug("stage failed", zap.String("stage", string(s)), zap.Error(err))
		return eris.Wrapf(err, "%s", s)
	}
	run.Timings = append(run.Timings, StageTiming{Stage: s, Duration: time.Since(start)})
	return nil
}
