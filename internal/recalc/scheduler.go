// Package recalc runs full-catalog price recalculation as durable,
// single-flight background jobs. A trigger enqueues a pending job; at most
// one job runs at a time and a newer trigger supersedes the current run at
// its next cancellation checkpoint.
package recalc

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
	"github.com/jewelleryos/aurum/internal/clock"
	masterdomain "github.com/jewelleryos/aurum/internal/masterdata/domain"
	obsmetrics "github.com/jewelleryos/aurum/internal/observability/metrics"
	pricingservice "github.com/jewelleryos/aurum/internal/pricing/service"
	ruledomain "github.com/jewelleryos/aurum/internal/pricingrule/domain"
	productdomain "github.com/jewelleryos/aurum/internal/product/domain"
	"github.com/jewelleryos/aurum/internal/recalc/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("recalc_invalid_config")

type Params struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Jobs    domain.Repository
	Catalog productdomain.Repository
	Master  masterdomain.Repository
	Rules   ruledomain.Repository
	Calc    *pricingservice.Calculator
	Config  Config `optional:"true"`
}

type Scheduler struct {
	log     *zap.Logger
	cfg     Config
	genID   *snowflake.Node
	clock   clock.Clock
	jobs    domain.Repository
	catalog productdomain.Repository
	master  masterdomain.Repository
	rules   ruledomain.Repository
	calc    *pricingservice.Calculator

	baseCtx context.Context
	looping atomic.Bool
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.GenID == nil || p.Clock == nil || p.Jobs == nil || p.Catalog == nil || p.Master == nil || p.Rules == nil || p.Calc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:     p.Log.Named("recalc"),
		cfg:     p.Config.withDefaults(),
		genID:   p.GenID,
		clock:   p.Clock,
		jobs:    p.Jobs,
		catalog: p.Catalog,
		master:  p.Master,
		rules:   p.Rules,
		calc:    p.Calc,
		baseCtx: context.Background(),
	}, nil
}

// SetBaseContext sets the context used for spawned processing loops. It is
// called once at startup, before any trigger can arrive.
func (s *Scheduler) SetBaseContext(ctx context.Context) {
	if ctx != nil {
		s.baseCtx = ctx
	}
}

// Trigger durably enqueues a recalculation and returns immediately. The
// caller's request latency never includes catalog processing.
//
// Any currently running job is marked cancelled in the same call; its loop
// notices at the next checkpoint and moves on to this job. Trigger always
// attempts to spawn a loop: the flag CAS keeps at most one alive, and a
// cancelled row left by a dead process still gets its successor started.
func (s *Scheduler) Trigger(ctx context.Context, source string, triggeredBy *snowflake.ID) (*domain.RecalculationJob, error) {
	now := s.clock.Now()
	job := &domain.RecalculationJob{
		ID:            s.genID.Generate(),
		Status:        domain.JobStatusPending,
		TriggerSource: source,
		TriggeredBy:   triggeredBy,
		CreatedAt:     now,
	}
	if err := s.jobs.Insert(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueue recalculation: %w", err)
	}

	cancelled, err := s.jobs.CancelRunning(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("cancel running recalculation: %w", err)
	}

	s.log.Info("recalculation triggered",
		zap.String("job_id", job.ID.String()),
		zap.String("source", source),
		zap.Int64("superseded_running", cancelled),
	)

	s.spawn()
	return job, nil
}

func (s *Scheduler) spawn() {
	if !s.looping.CompareAndSwap(false, true) {
		return
	}
	go func() {
		for {
			if err := s.RunPending(s.baseCtx); err != nil {
				s.log.Error("recalculation loop stopped", zap.Error(err))
			}
			s.looping.Store(false)

			// A trigger landing between the loop's final pending check and
			// the release above saw the flag held and spawned nothing. Its
			// job must be picked up here or it stays pending forever.
			job, err := s.jobs.FetchLatestPending(s.baseCtx)
			if err != nil || job == nil {
				return
			}
			if !s.looping.CompareAndSwap(false, true) {
				return
			}
		}
	}()
}

// RunPending drains pending jobs: claim the latest, cancel the rest, run it,
// then look again. It returns when no pending job remains. Exported so tests
// drive the loop synchronously.
func (s *Scheduler) RunPending(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		job, err := s.jobs.FetchLatestPending(ctx)
		if err != nil {
			return fmt.Errorf("fetch pending recalculation: %w", err)
		}
		if job == nil {
			return nil
		}

		now := s.clock.Now()
		if err := s.jobs.CancelOtherPending(ctx, job.ID, now); err != nil {
			return fmt.Errorf("cancel stale pending recalculations: %w", err)
		}
		claimed, err := s.jobs.ClaimPending(ctx, job.ID, now)
		if err != nil {
			return fmt.Errorf("claim recalculation %s: %w", job.ID, err)
		}
		if !claimed {
			continue
		}

		s.runJob(ctx, job)
	}
}

// jobState accumulates progress and buffered writes for one running job.
type jobState struct {
	progress     domain.Progress
	priceUpdates []productdomain.VariantPriceUpdate
	rangeUpdates []productdomain.PriceRangeUpdate
}

func (s *Scheduler) runJob(ctx context.Context, job *domain.RecalculationJob) {
	start := s.clock.Now()
	log := s.log.With(zap.String("job_id", job.ID.String()))
	log.Info("recalculation started", zap.String("source", job.TriggerSource))

	state := &jobState{}
	m := obsmetrics.Recalc()

	status, err := s.process(ctx, job, state, log)
	if err != nil {
		// A job-level failure is recorded on the job itself; the loop keeps
		// draining newer pending jobs.
		state.progress.Errors = append(state.progress.Errors, domain.ErrorDetail{
			Error: err.Error(),
		})
		if markErr := s.jobs.MarkFailed(ctx, job.ID, state.progress, s.clock.Now()); markErr != nil {
			log.Error("mark recalculation failed", zap.Error(markErr))
		}
		m.IncJobFinished(string(domain.JobStatusFailed))
		m.ObserveJobDuration(s.clock.Now().Sub(start))
		log.Error("recalculation failed", zap.Error(err),
			zap.Int("processed", state.progress.Processed),
			zap.Int("failed", state.progress.Failed),
		)
		return
	}

	var markErr error
	switch status {
	case domain.JobStatusCancelled:
		markErr = s.jobs.MarkCancelled(ctx, job.ID, state.progress, s.clock.Now())
	default:
		markErr = s.jobs.MarkCompleted(ctx, job.ID, state.progress, s.clock.Now())
	}
	if markErr != nil {
		log.Error("finalize recalculation", zap.Error(markErr))
	}

	duration := s.clock.Now().Sub(start)
	m.IncJobFinished(string(status))
	m.ObserveJobDuration(duration)
	m.AddProductFailures(state.progress.Failed)
	log.Info("recalculation finished",
		zap.String("status", string(status)),
		zap.Int("processed", state.progress.Processed),
		zap.Int("failed", state.progress.Failed),
		zap.Duration("duration", duration),
	)
}

// process walks the catalog and returns the terminal status, or an error for
// a job-level failure. Progress survives in state either way.
func (s *Scheduler) process(ctx context.Context, job *domain.RecalculationJob, state *jobState, log *zap.Logger) (domain.JobStatus, error) {
	total, err := s.catalog.CountCatalogProducts(ctx)
	if err != nil {
		return "", fmt.Errorf("count products: %w", err)
	}
	if err := s.jobs.SetTotalProducts(ctx, job.ID, int(total)); err != nil {
		return "", fmt.Errorf("record total: %w", err)
	}
	if total == 0 {
		return domain.JobStatusCompleted, nil
	}

	// One snapshot for the whole run keeps every product priced against the
	// same master data even if rates change mid-job.
	snapshot, err := s.master.LoadSnapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("load pricing snapshot: %w", err)
	}
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return "", fmt.Errorf("list pricing rules: %w", err)
	}

	item := 0
	for offset := 0; ; offset += s.cfg.PageSize {
		products, err := s.catalog.FetchProductPage(ctx, offset, s.cfg.PageSize)
		if err != nil {
			if ferr := s.flush(ctx, state, log); ferr != nil {
				log.Warn("price batch dropped", zap.Error(ferr))
			}
			return "", fmt.Errorf("fetch product page at %d: %w", offset, err)
		}
		if len(products) == 0 {
			break
		}

		for i := range products {
			if item%s.cfg.CheckInterval == 0 {
				superseded, err := s.jobs.HasNewerPending(ctx, job.ID)
				if err != nil {
					if ferr := s.flush(ctx, state, log); ferr != nil {
						log.Warn("price batch dropped", zap.Error(ferr))
					}
					return "", fmt.Errorf("poll supersession: %w", err)
				}
				if superseded {
					// Completed work stays persisted; the newer job redoes
					// the rest.
					if ferr := s.flush(ctx, state, log); ferr != nil {
						log.Warn("price batch dropped", zap.Error(ferr))
					}
					log.Info("recalculation superseded",
						zap.Int("processed", state.progress.Processed))
					return domain.JobStatusCancelled, nil
				}
			}
			item++

			s.priceProduct(&products[i], snapshot, rules, state)

			if len(state.priceUpdates) >= s.cfg.WriteBatchSize {
				if err := s.flush(ctx, state, log); err != nil {
					return "", fmt.Errorf("flush price batch: %w", err)
				}
			}
		}
	}

	if err := s.flush(ctx, state, log); err != nil {
		return "", fmt.Errorf("flush final price batch: %w", err)
	}
	return domain.JobStatusCompleted, nil
}

// priceProduct recomputes every variant of one product. A pricing failure on
// any variant discards the whole product's updates and records one error
// entry; the job moves on to the next product.
func (s *Scheduler) priceProduct(product *productdomain.Product, snapshot *masterdomain.Snapshot, rules []ruledomain.PricingRule, state *jobState) {
	state.progress.Processed++

	info := product.Info()
	composition := product.StoneComposition.Data()

	var (
		updates  []productdomain.VariantPriceUpdate
		minPrice int64
		maxPrice int64
	)
	for i, v := range product.Variants {
		breakdown, err := s.calc.ComputePricing(v.Context(), composition, info, rules, snapshot)
		if err != nil {
			state.progress.Failed++
			state.progress.Errors = append(state.progress.Errors, domain.ErrorDetail{
				ProductID:   product.ID,
				ProductName: product.Name,
				Error:       err.Error(),
			})
			return
		}

		selling := breakdown.Selling.FinalPrice
		if i == 0 || selling < minPrice {
			minPrice = selling
		}
		if i == 0 || selling > maxPrice {
			maxPrice = selling
		}
		updates = append(updates, productdomain.VariantPriceUpdate{
			VariantID:      v.ID,
			CostPrice:      breakdown.Cost.FinalPrice,
			SellingPrice:   breakdown.Selling.FinalPrice,
			CompareAtPrice: breakdown.CompareAt.FinalPrice,
			Components:     breakdown,
		})
	}
	if len(updates) == 0 {
		return
	}

	state.priceUpdates = append(state.priceUpdates, updates...)
	state.rangeUpdates = append(state.rangeUpdates, productdomain.PriceRangeUpdate{
		ProductID: product.ID,
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
	})
}

func (s *Scheduler) flush(ctx context.Context, state *jobState, log *zap.Logger) error {
	if len(state.priceUpdates) == 0 && len(state.rangeUpdates) == 0 {
		return nil
	}
	if err := s.catalog.PersistVariantPrices(ctx, state.priceUpdates); err != nil {
		return err
	}
	if err := s.catalog.PersistProductPriceRanges(ctx, state.rangeUpdates); err != nil {
		return err
	}
	obsmetrics.Recalc().IncBatchFlushed()
	log.Debug("price batch flushed",
		zap.Int("variants", len(state.priceUpdates)),
		zap.Int("products", len(state.rangeUpdates)),
	)
	state.priceUpdates = state.priceUpdates[:0]
	state.rangeUpdates = state.rangeUpdates[:0]
	return nil
}
