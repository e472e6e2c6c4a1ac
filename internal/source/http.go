package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"uniformdash/internal/model"
)

// QueryPath 远端应答服务的查询路径
const QueryPath = "/dashboard/query"

// HTTPSource 远端应答服务：每个问句一次请求，不重试
type HTTPSource struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTP 创建远端数据源；timeout<=0 时使用 30 秒
func NewHTTP(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Query 实现 Source；任何传输错误、非 2xx、无法解析或 error 响应均视为数据源不可用
func (s *HTTPSource) Query(ctx context.Context, question string) (*Response, error) {
	resp, err := s.do(ctx, question)
	if err != nil {
		s.logger.Warn("remote source unavailable", zap.String("question", question), zap.Error(err))
		return nil, &model.SourceUnavailableError{Question: question, Err: err}
	}
	return resp, nil
}

func (s *HTTPSource) do(ctx context.Context, question string) (*Response, error) {
	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+QueryPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return nil, errors.New(out.Error)
	}
	if out.Success != nil && !*out.Success {
		return nil, fmt.Errorf("query failed: %s", out.Message)
	}

	s.logger.Debug("remote query",
		zap.String("question", question),
		zap.String("request_id", reqID),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &out, nil
}
