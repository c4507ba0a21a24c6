// Package domain defines the durable recalculation job record.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusFailed    JobStatus = "failed"
)

// Trigger sources recorded on a job for audit.
const (
	TriggerSourceManual      = "manual"
	TriggerSourceMasterData  = "master_data_change"
	TriggerSourcePricingRule = "pricing_rule_change"
)

// ErrorDetail is one per-product pricing failure captured on the job.
type ErrorDetail struct {
	ProductID   snowflake.ID `json:"product_id"`
	ProductName string       `json:"product_name"`
	Error       string       `json:"error"`
}

type RecalculationJob struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	Status        JobStatus    `json:"status" gorm:"type:text;not null;index"`
	TriggerSource string       `json:"trigger_source" gorm:"type:text;not null"`
	TriggeredBy   *snowflake.ID `json:"triggered_by,omitempty"`

	TotalProducts     int `json:"total_products" gorm:"not null;default:0"`
	ProcessedProducts int `json:"processed_products" gorm:"not null;default:0"`
	FailedProducts    int `json:"failed_products" gorm:"not null;default:0"`

	ErrorDetails datatypes.JSONType[[]ErrorDetail] `json:"error_details" gorm:"type:jsonb"`

	CreatedAt   time.Time  `json:"created_at" gorm:"not null;index"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (RecalculationJob) TableName() string { return "recalculation_jobs" }
