package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/perfeval/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrHistoryDisabled = errors.New("evaluation history is not enabled")
	ErrRunNotFound     = errors.New("evaluation run not found")
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryRecorder keeps an audit trail of evaluation runs.
type HistoryRecorder interface {
	Start(ctx context.Context, employeeID string) (*models.EvaluationRun, error)
	Finish(ctx context.Context, run *models.EvaluationRun) error
	List(ctx context.Context, employeeID string, limit int) ([]models.EvaluationRun, error)
	Get(ctx context.Context, id string) (*models.EvaluationRun, error)
}

type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Start inserts a running record for the employee.
func (h *HistoryService) Start(ctx context.Context, employeeID string) (*models.EvaluationRun, error) {
	run := newRun(employeeID)
	if err := h.db.WithContext(ctx).Create(run).Error; err != nil {
		return run, fmt.Errorf("failed to create evaluation run: %w", err)
	}
	return run, nil
}

// Finish persists the final state of a run.
func (h *HistoryService) Finish(ctx context.Context, run *models.EvaluationRun) error {
	if err := h.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("failed to update evaluation run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs, optionally filtered by employee.
func (h *HistoryService) List(ctx context.Context, employeeID string, limit int) ([]models.EvaluationRun, error) {
	query := h.db.WithContext(ctx).Model(&models.EvaluationRun{})
	if employeeID != "" {
		query = query.Where("employee_id = ?", employeeID)
	}

	var runs []models.EvaluationRun
	if err := query.Order("started_at DESC").Limit(clampLimit(limit)).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list evaluation runs: %w", err)
	}
	return runs, nil
}

func (h *HistoryService) Get(ctx context.Context, id string) (*models.EvaluationRun, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrRunNotFound
	}

	var run models.EvaluationRun
	if err := h.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get evaluation run: %w", err)
	}
	return &run, nil
}

// NoopHistory is used when no database is configured. Runs get ids but are not kept.
type NoopHistory struct{}

func (NoopHistory) Start(_ context.Context, employeeID string) (*models.EvaluationRun, error) {
	return newRun(employeeID), nil
}

func (NoopHistory) Finish(context.Context, *models.EvaluationRun) error { return nil }

func (NoopHistory) List(context.Context, string, int) ([]models.EvaluationRun, error) {
	return nil, ErrHistoryDisabled
}

func (NoopHistory) Get(context.Context, string) (*models.EvaluationRun, error) {
	return nil, ErrHistoryDisabled
}

func newRun(employeeID string) *models.EvaluationRun {
	return &models.EvaluationRun{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Status:     models.EvaluationStatusRunning,
		StartedAt:  time.Now(),
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
