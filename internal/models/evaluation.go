package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// EmployeeSegment is one employee record cut out of a raw log batch.
type EmployeeSegment struct {
	EmployeeID    string `json:"employeeId"`
	SequenceIndex int    `json:"sequenceIndex"`
	Text          string `json:"text"`
}

// Report is the response body of a generated evaluation.
type Report struct {
	EmployeeName string `json:"employee_name"`
	Report       string `json:"report"`
}

type EvaluationStatus string

const (
	EvaluationStatusRunning   EvaluationStatus = "running"
	EvaluationStatusCompleted EvaluationStatus = "completed"
	EvaluationStatusFailed    EvaluationStatus = "failed"
)

const (
	ContextSourceRetrieved = "retrieved"
	ContextSourceSentinel  = "sentinel"
)

// EvaluationRun is the audit record of one report generation request.
type EvaluationRun struct {
	ID            string           `json:"id" gorm:"type:uuid;primaryKey"`
	EmployeeID    string           `json:"employeeId" gorm:"not null;index"`
	Status        EvaluationStatus `json:"status" gorm:"not null;default:'running'"`
	FailureKind   string           `json:"failureKind,omitempty"`
	Error         string           `json:"error,omitempty" gorm:"type:text"`
	SegmentIDs    pq.StringArray   `json:"segmentIds" gorm:"type:text[]"`
	ContextSource string           `json:"contextSource,omitempty"`
	Report        string           `json:"report,omitempty" gorm:"type:text"`
	Metadata      datatypes.JSON   `json:"metadata" gorm:"type:jsonb"`
	DurationMs    int64            `json:"durationMs"`
	StartedAt     time.Time        `json:"startedAt"`
	CompletedAt   *time.Time       `json:"completedAt"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func (EvaluationRun) TableName() string {
	return "evaluation_runs"
}
