package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jewelleryos/aurum/internal/recalc/domain"
	"go.uber.org/fx"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

type Param struct {
	fx.In

	DB *gorm.DB
}

func NewRepository(p Param) domain.Repository {
	return &repository{db: p.DB}
}

func (r *repository) Insert(ctx context.Context, job *domain.RecalculationJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.RecalculationJob, error) {
	var job domain.RecalculationJob
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]domain.RecalculationJob, error) {
	var jobs []domain.RecalculationJob
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

func (r *repository) CancelRunning(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.RecalculationJob{}).
		Where("status = ?", domain.JobStatusRunning).
		Updates(map[string]any{
			"status":       domain.JobStatusCancelled,
			"completed_at": now,
		})
	return res.RowsAffected, res.Error
}

// FetchLatestPending relies on snowflake ids being time-ordered, so the
// highest pending id is the most recent trigger.
func (r *repository) FetchLatestPending(ctx context.Context) (*domain.RecalculationJob, error) {
	var job domain.RecalculationJob
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.JobStatusPending).
		Order("id DESC").
		First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *repository) CancelOtherPending(ctx context.Context, keepID snowflake.ID, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.RecalculationJob{}).
		Where("status = ? AND id <> ?", domain.JobStatusPending, keepID).
		Updates(map[string]any{
			"status":       domain.JobStatusCancelled,
			"completed_at": now,
		}).Error
}

func (r *repository) ClaimPending(ctx context.Context, id snowflake.ID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.RecalculationJob{}).
		Where("id = ? AND status = ?", id, domain.JobStatusPending).
		Updates(map[string]any{
			"status":     domain.JobStatusRunning,
			"started_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) HasNewerPending(ctx context.Context, id snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RecalculationJob{}).
		Where("status = ? AND id > ?", domain.JobStatusPending, id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) SetTotalProducts(ctx context.Context, id snowflake.ID, total int) error {
	return r.db.WithContext(ctx).
		Model(&domain.RecalculationJob{}).
		Where("id = ?", id).
		Update("total_products", total).Error
}

func (r *repository) MarkCompleted(ctx context.Context, id snowflake.ID, p domain.Progress, now time.Time) error {
	return r.finish(ctx, id, domain.JobStatusCompleted, p, now)
}

func (r *repository) MarkCancelled(ctx context.Context, id snowflake.ID, p domain.Progress, now time.Time) error {
	return r.finish(ctx, id, domain.JobStatusCancelled, p, now)
}

func (r *repository) MarkFailed(ctx context.Context, id snowflake.ID, p domain.Progress, now time.Time) error {
	return r.finish(ctx, id, domain.JobStatusFailed, p, now)
}

// finish writes counters and the terminal status, but only while the job is
// still running. A job already cancelled by a later trigger keeps its status
// and still receives the progress counters.
func (r *repository) finish(ctx context.Context, id snowflake.ID, status domain.JobStatus, p domain.Progress, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.RecalculationJob{}).
		Where("id = ? AND status = ?", id, domain.JobStatusRunning).
		Updates(map[string]any{
			"status":             status,
			"processed_products": p.Processed,
			"failed_products":    p.Failed,
			"error_details":      datatypes.NewJSONType(p.Errors),
			"completed_at":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.db.WithContext(ctx).
			Model(&domain.RecalculationJob{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"processed_products": p.Processed,
				"failed_products":    p.Failed,
				"error_details":      datatypes.NewJSONType(p.Errors),
			}).Error
	}
	return nil
}
