package source

import (
	"context"
	"errors"

	"uniformdash/internal/model"
)

// Answerer 进程内应答器（问句 → 响应）
type Answerer interface {
	Answer(ctx context.Context, question string) (*Response, error)
}

// StoreSource 进程内数据源：直接调用应答器，不经过 HTTP
type StoreSource struct {
	answerer Answerer
}

// NewStoreSource 包装进程内应答器
func NewStoreSource(a Answerer) *StoreSource {
	return &StoreSource{answerer: a}
}

// Query 实现 Source
func (s *StoreSource) Query(ctx context.Context, question string) (*Response, error) {
	resp, err := s.answerer.Answer(ctx, question)
	if err != nil {
		return nil, &model.SourceUnavailableError{Question: question, Err: err}
	}
	if resp.Error != "" {
		return nil, &model.SourceUnavailableError{Question: question, Err: errors.New(resp.Error)}
	}
	return resp, nil
}
