package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/perfeval/backend/internal/llm"
	"github.com/perfeval/backend/internal/logger"
	"github.com/perfeval/backend/internal/metrics"
	"github.com/perfeval/backend/internal/models"
	"github.com/perfeval/backend/internal/vectorstore"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// EvaluationService runs split → store → wait → retrieve → generate → clean
// for one employee per call. It holds no per-request state and may be shared.
type EvaluationService struct {
	indexer   *Indexer
	retriever *Retriever
	generator *ReportGenerator
	barrier   ConsistencyBarrier
	history   HistoryRecorder
	topK      int

	storeName string
	provider  string
	model     string
}

func NewEvaluationService(store vectorstore.Store, client llm.Client, barrier ConsistencyBarrier, history HistoryRecorder, topK int) *EvaluationService {
	if barrier == nil {
		barrier = NoopBarrier{}
	}
	if history == nil {
		history = NoopHistory{}
	}
	return &EvaluationService{
		indexer:   NewIndexer(store),
		retriever: NewRetriever(store),
		generator: NewReportGenerator(client),
		barrier:   barrier,
		history:   history,
		topK:      topK,
		storeName: store.Name(),
		provider:  client.Provider(),
		model:     client.Model(),
	}
}

// History exposes the recorder for the admin API.
func (s *EvaluationService) History() HistoryRecorder {
	return s.history
}

// Evaluate produces the cleaned report for employeeID from rawLogs.
//
// Only segments whose marker names employeeID are stored. The pipeline runs to
// completion even if ctx is cancelled; ctx values are kept. Any stage failure
// aborts the rest and is returned wrapped in one of the pipeline sentinels.
func (s *EvaluationService) Evaluate(ctx context.Context, employeeID, rawLogs string) (*models.Report, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, fmt.Errorf("%w: employee_name is required", ErrInputFailure)
	}
	ctx = context.WithoutCancel(ctx)

	run, err := s.history.Start(ctx, employeeID)
	if err != nil {
		logger.WithError(err, "evaluation_service").Warn("Failed to record evaluation start")
	}
	if run == nil {
		run = newRun(employeeID)
	}
	log := logger.WithEmployee(employeeID, run.ID)
	log.Info("Starting performance evaluation")

	p := &pipelineRun{run: run, log: log, stages: make(map[string]int64)}
	report, err := s.execute(ctx, p, employeeID, rawLogs)
	s.finish(ctx, p, report, err)
	if err != nil {
		return nil, err
	}
	return &models.Report{EmployeeName: employeeID, Report: report}, nil
}

type pipelineRun struct {
	run     *models.EvaluationRun
	log     *logrus.Entry
	stages  map[string]int64
	found   int
	skipped int
}

// stage times fn under the given stage label.
func (p *pipelineRun) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	metrics.PipelineStageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	p.stages[name] = elapsed.Milliseconds()
	return err
}

func (s *EvaluationService) execute(ctx context.Context, p *pipelineRun, employeeID, rawLogs string) (string, error) {
	var segments []models.EmployeeSegment
	_ = p.stage("split", func() error {
		segments = s.selectSegments(p, employeeID, SplitEmployeeLogs(rawLogs))
		return nil
	})

	var ids []string
	err := p.stage("store", func() error {
		var err error
		ids, err = s.indexer.Store(ctx, employeeID, segments)
		return err
	})
	if err != nil {
		return "", err
	}
	p.run.SegmentIDs = ids

	if len(ids) > 0 {
		if err := p.stage("wait", func() error {
			return s.barrier.Wait(ctx, Namespace(employeeID))
		}); err != nil {
			return "", fmt.Errorf("%w: consistency wait: %v", ErrRetrievalFailure, err)
		}
	} else {
		p.log.Info("No segments stored for employee, skipping consistency wait")
	}

	var contextText string
	err = p.stage("retrieve", func() error {
		var err error
		contextText, err = s.retriever.Retrieve(ctx, employeeID, fmt.Sprintf(RETRIEVAL_QUERY_TEMPLATE, employeeID), s.topK)
		return err
	})
	if err != nil {
		return "", err
	}
	if contextText == NoLogsFoundSentinel {
		p.run.ContextSource = models.ContextSourceSentinel
	} else {
		p.run.ContextSource = models.ContextSourceRetrieved
	}

	var raw string
	err = p.stage("generate", func() error {
		var err error
		raw, err = s.generator.Generate(ctx, employeeID, contextText)
		return err
	})
	if err != nil {
		return "", err
	}

	return CleanSummary(raw), nil
}

// selectSegments keeps the segments that belong to employeeID, renumbering
// them in order. Records for other employees are dropped with a warning.
func (s *EvaluationService) selectSegments(p *pipelineRun, employeeID string, all []models.EmployeeSegment) []models.EmployeeSegment {
	kept := make([]models.EmployeeSegment, 0, len(all))
	others := make(map[string]int)
	for _, seg := range all {
		if seg.EmployeeID != employeeID {
			others[seg.EmployeeID]++
			continue
		}
		seg.SequenceIndex = len(kept)
		kept = append(kept, seg)
	}

	p.found = len(kept)
	p.skipped = len(all) - len(kept)
	if p.skipped > 0 {
		p.log.WithFields(logrus.Fields{
			"kept":    p.found,
			"skipped": p.skipped,
			"others":  others,
		}).Warn("Log batch contains records for other employees; they were not stored")
	}
	return kept
}

func (s *EvaluationService) finish(ctx context.Context, p *pipelineRun, report string, err error) {
	run := p.run
	now := time.Now()
	run.CompletedAt = &now
	run.DurationMs = now.Sub(run.StartedAt).Milliseconds()

	meta, _ := json.Marshal(map[string]interface{}{
		"vector_store":     s.storeName,
		"llm_provider":     s.provider,
		"llm_model":        s.model,
		"segments_stored":  p.found,
		"segments_skipped": p.skipped,
		"stage_ms":         p.stages,
	})
	run.Metadata = datatypes.JSON(meta)

	status := string(models.EvaluationStatusCompleted)
	if err != nil {
		run.Status = models.EvaluationStatusFailed
		run.FailureKind = FailureKind(err)
		run.Error = err.Error()
		status = run.FailureKind
		p.log.WithFields(logrus.Fields{
			"failure_kind": run.FailureKind,
			"error":        err.Error(),
			"duration_ms":  run.DurationMs,
		}).Error("Performance evaluation failed")
	} else {
		run.Status = models.EvaluationStatusCompleted
		run.Report = report
		p.log.WithFields(logrus.Fields{
			"context_source": run.ContextSource,
			"report_length":  len(report),
			"duration_ms":    run.DurationMs,
		}).Info("Performance evaluation completed")
	}
	metrics.EvaluationsTotal.WithLabelValues(status).Inc()

	if herr := s.history.Finish(ctx, run); herr != nil {
		logger.WithError(herr, "evaluation_service").Warn("Failed to record evaluation result")
	}
}
