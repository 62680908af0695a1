package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/guru-api/internal/domain"
	"github.com/kitbuilder587/guru-api/internal/llm"
	"github.com/kitbuilder587/guru-api/internal/metrics"
)

type AskService interface {
	Ask(ctx context.Context, req *domain.AskRequest) (json.RawMessage, error)
}

// AskServiceDeps - зависимости для AskService.
type AskServiceDeps struct {
	LLM        llm.Client
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Model      string
	Validation domain.ValidationMode
}

type askService struct {
	llm        llm.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
	model      string
	validation domain.ValidationMode
}

func NewAskService(deps AskServiceDeps) AskService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validation == "" {
		deps.Validation = domain.ValidationOff
	}

	return &askService{
		llm:        deps.LLM,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		model:      deps.Model,
		validation: deps.Validation,
	}
}

func (s *askService) Ask(ctx context.Context, req *domain.AskRequest) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	answer, err := s.llm.Ask(ctx, req.Question)
	s.recordLLM(err, time.Since(start))
	if err != nil {
		return nil, err
	}

	if s.validation == domain.ValidationStrict {
		if _, err := domain.ParseAnswer(answer); err != nil {
			return nil, &llm.CompletionError{Kind: llm.KindSchema, Err: err}
		}
	}

	s.logger.Debug("answer received",
		zap.Int("answer_bytes", len(answer)),
		zap.Duration("llm_duration", time.Since(start)),
	)

	return answer, nil
}

func (s *askService) recordLLM(err error, d time.Duration) {
	if s.metrics == nil {
		return
	}

	status := "success"
	var ce *llm.CompletionError
	switch {
	case err == nil:
	case errors.As(err, &ce):
		status = string(ce.Kind)
	default:
		status = "error"
	}
	s.metrics.RecordLLMRequest(s.model, status, d)
}
