package dashboard

import (
	"context"
	"sync"

	"uniformdash/internal/filter"
)

type ticket struct {
	seq uint64
	key string
}

// Session 交互会话：每个页签只保留最新选择的结果。
// 每次取数以 (选择键, 序号) 标记；结果返回时若选择已被替换或已有更新的结果，则丢弃。
type Session struct {
	engine *Engine

	mu      sync.Mutex
	seq     uint64
	wanted  map[Tab]ticket
	applied map[Tab]ticket
	views   map[Tab]*View
}

// NewSession 创建会话
func NewSession(engine *Engine) *Session {
	return &Session{
		engine:  engine,
		wanted:  map[Tab]ticket{},
		applied: map[Tab]ticket{},
		views:   map[Tab]*View{},
	}
}

// begin 登记页签的新选择，返回本次取数的标记
func (s *Session) begin(tab Tab, sel filter.Selections) ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := ticket{seq: s.seq, key: s.engine.Scope(tab, sel).Key()}
	s.wanted[tab] = t
	return t
}

// commit 提交取数结果；返回是否被采用
func (s *Session) commit(tab Tab, t ticket, v *View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wanted[tab].key != t.key {
		return false
	}
	if cur, ok := s.applied[tab]; ok && cur.seq > t.seq {
		return false
	}
	s.applied[tab] = t
	s.views[tab] = v
	return true
}

// Refresh 选择并计算页签视图。
// 返回当前生效的视图（可能来自更新的请求）以及本次结果是否被采用。
func (s *Session) Refresh(ctx context.Context, tab Tab, sel filter.Selections) (*View, bool, error) {
	t := s.begin(tab, sel)
	v, err := s.engine.View(ctx, tab, sel)
	if v == nil {
		return nil, false, err
	}
	applied := s.commit(tab, t, v)
	if !applied {
		return s.Current(tab), false, nil
	}
	return v, true, err
}

// Current 页签当前生效的视图
func (s *Session) Current(tab Tab) *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views[tab]
}
