// Package pipeline drives the valuation runs: primary feed snapshot, per-fund
// completion fan-out, and publication of the collected result set.
//
// Every run carries a monotonically increasing generation number. Only the
// highest generation may publish; a slower run that finishes after a newer
// one started is discarded on arrival. This is what makes concurrent
// triggers (debounced slider input, manual refresh, scheduler) safe.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/fiiwatch/internal/domain"
	"github.com/aristath/fiiwatch/internal/events"
	"github.com/aristath/fiiwatch/internal/modules/universe"
)

// DefaultRiskPremium is applied when the supplied premium is invalid.
const DefaultRiskPremium = 0.03

// maxWorkers bounds the completion fan-out.
const maxWorkers = 10

// Feed supplies primary-feed snapshots.
type Feed interface {
	Snapshot(ctx context.Context) (*universe.Snapshot, error)
}

// Completer fills missing fund fields and recomputes derived ones.
type Completer interface {
	Complete(ctx context.Context, fund domain.Fund) domain.Fund
}

// Result is one published pipeline run. Immutable once built; runs replace
// each other wholesale, never patch field by field.
type Result struct {
	RunID        uuid.UUID     `json:"run_id"`
	Generation   int64         `json:"generation"`
	RiskFreeRate float64       `json:"risk_free_rate"`
	RiskPremium  float64       `json:"risk_premium"`
	DiscountRate float64       `json:"discount_rate"`
	Items        []domain.Fund `json:"items"`
	CompletedAt  time.Time     `json:"completed_at"`
}

// Orchestrator coordinates valuation runs.
type Orchestrator struct {
	feed    Feed
	cascade Completer
	bus     *events.Bus
	log     zerolog.Logger

	generation atomic.Int64

	mu           sync.Mutex // guards latest, publishedGen, premium
	latest       *Result
	publishedGen int64
	premium      float64

	trigger *trigger
}

// New creates a new pipeline orchestrator
func New(feed Feed, cascade Completer, bus *events.Bus, debounce time.Duration, log zerolog.Logger) *Orchestrator {
	o := &Orchestrator{
		feed:    feed,
		cascade: cascade,
		bus:     bus,
		log:     log.With().Str("component", "pipeline").Logger(),
		premium: DefaultRiskPremium,
	}
	o.trigger = newTrigger(debounce, o.runDetached)
	return o
}

// SanitizeRiskPremium corrects an invalid premium (NaN, infinite, negative
// or >= 1) to the documented default instead of rejecting it.
func SanitizeRiskPremium(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v >= 1 {
		return DefaultRiskPremium
	}
	return v
}

// Run executes one full pipeline run immediately, bypassing the debounce.
// It returns the run's own result; whether that result becomes the published
// one is decided by generation on arrival.
//
// The only error surfaced is a primary-feed failure: without a record set
// and a risk-free rate there is nothing to compute. Per-fund secondary
// failures are absorbed inside the cascade.
func (o *Orchestrator) Run(ctx context.Context, riskPremium float64) (*Result, error) {
	riskPremium = SanitizeRiskPremium(riskPremium)
	generation := o.generation.Add(1)
	runID := uuid.New()
	started := time.Now()

	o.mu.Lock()
	o.premium = riskPremium
	o.mu.Unlock()

	o.bus.Emit(&events.RunStartedData{
		RunID:       runID.String(),
		Generation:  generation,
		RiskPremium: riskPremium,
	})

	snapshot, err := o.feed.Snapshot(ctx)
	if err != nil {
		o.bus.Emit(&events.RunFailedData{
			RunID:      runID.String(),
			Generation: generation,
			Error:      err.Error(),
		})
		return nil, fmt.Errorf("pipeline run %d: %w", generation, err)
	}

	items := o.completeAll(ctx, snapshot.Funds, riskPremium)

	result := &Result{
		RunID:        runID,
		Generation:   generation,
		RiskFreeRate: snapshot.RiskFreeRate,
		RiskPremium:  riskPremium,
		DiscountRate: snapshot.RiskFreeRate + riskPremium,
		Items:        items,
		CompletedAt:  time.Now(),
	}

	o.publish(result, started)
	return result, nil
}

// Refresh re-runs the pipeline with the current risk premium, bypassing the
// debounce. Used by the manual trigger and the scheduler.
func (o *Orchestrator) Refresh(ctx context.Context) (*Result, error) {
	o.mu.Lock()
	premium := o.premium
	o.mu.Unlock()
	return o.Run(ctx, premium)
}

// SetRiskPremium schedules a debounced run with the given premium. Rapid
// successive changes collapse into a single run after the quiet period.
func (o *Orchestrator) SetRiskPremium(v float64) {
	o.trigger.fire(SanitizeRiskPremium(v))
}

// Latest returns the most recently published result, or nil before the
// first successful run.
func (o *Orchestrator) Latest() *Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.latest
}

// Stop cancels any pending debounced run.
func (o *Orchestrator) Stop() {
	o.trigger.stop()
}

// completeAll fans out one completion job per fund across a bounded worker
// pool and collects results preserving input order. A panicking completion
// degrades to the valuated input record; one fund can never abort the run.
func (o *Orchestrator) completeAll(ctx context.Context, funds []domain.Fund, riskPremium float64) []domain.Fund {
	numFunds := len(funds)
	if numFunds == 0 {
		return []domain.Fund{}
	}

	for i := range funds {
		funds[i].RiskPremium = riskPremium
	}

	jobs := make(chan int, numFunds)
	items := make([]domain.Fund, numFunds)

	numWorkers := maxWorkers
	if numFunds < numWorkers {
		numWorkers = numFunds
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				items[idx] = o.completeOne(ctx, funds[idx])
			}
		}()
	}

	for idx := 0; idx < numFunds; idx++ {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return items
}

func (o *Orchestrator) completeOne(ctx context.Context, fund domain.Fund) (out domain.Fund) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error().
				Interface("panic", r).
				Str("ticker", fund.Ticker).
				Msg("Completion panicked, passing record through")
			out = fund
		}
	}()
	return o.cascade.Complete(ctx, fund)
}

// publish installs the result as the latest if and only if it carries the
// maximum generation initiated so far. A run that was overtaken while in
// flight is discarded on arrival, even if the overtaking run has not
// finished yet.
func (o *Orchestrator) publish(result *Result, started time.Time) {
	o.mu.Lock()
	newest := o.generation.Load()
	superseded := result.Generation < newest || result.Generation <= o.publishedGen
	var publishedBy int64
	if superseded {
		publishedBy = o.publishedGen
		if newest > publishedBy {
			publishedBy = newest
		}
	} else {
		o.latest = result
		o.publishedGen = result.Generation
	}
	o.mu.Unlock()

	if superseded {
		o.log.Debug().
			Int64("generation", result.Generation).
			Int64("published_generation", publishedBy).
			Msg("Discarding superseded run")
		o.bus.Emit(&events.RunSupersededData{
			RunID:          result.RunID.String(),
			Generation:     result.Generation,
			PublishedByGen: publishedBy,
		})
		return
	}

	o.log.Info().
		Int64("generation", result.Generation).
		Float64("risk_free_rate", result.RiskFreeRate).
		Float64("risk_premium", result.RiskPremium).
		Int("funds", len(result.Items)).
		Dur("duration", time.Since(started)).
		Msg("Run published")

	o.bus.Emit(&events.RunPublishedData{
		RunID:        result.RunID.String(),
		Generation:   result.Generation,
		RiskFreeRate: result.RiskFreeRate,
		RiskPremium:  result.RiskPremium,
		Funds:        len(result.Items),
		DurationMs:   time.Since(started).Milliseconds(),
	})
}

// runDetached is the debounce callback: runs on its own goroutine with a
// bounded lifetime, logging failures instead of surfacing them.
func (o *Orchestrator) runDetached(riskPremium float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := o.Run(ctx, riskPremium); err != nil {
		o.log.Error().Err(err).Msg("Debounced run failed")
	}
}
