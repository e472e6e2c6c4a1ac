package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord 上游记录结构非法（非数组 / 非对象）
	ErrMalformedRecord = errors.New("malformed record")
	// ErrSourceUnavailable 数据源不可用
	ErrSourceUnavailable = errors.New("source unavailable")
)

// MalformedRecordError 结构非法的记录
type MalformedRecordError struct {
	Index  int // -1 表示整体结构非法
	Kind   RecordKind
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed %s data: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("malformed %s record at %d: %s", e.Kind, e.Index, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// SourceUnavailableError 数据源请求失败
type SourceUnavailableError struct {
	Question string
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable for %q: %v", e.Question, e.Err)
}

func (e *SourceUnavailableError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}
