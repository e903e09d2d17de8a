package store

import (
	"errors"
	"sync"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// DefaultHistoryLimit は保持する履歴の既定の深さです。
const DefaultHistoryLimit = 50

var (
	// ErrNothingToUndo は取り消せる履歴が無いことを示します。
	ErrNothingToUndo = errors.New("取り消せる操作がありません")
	// ErrNothingToRedo はやり直せる履歴が無いことを示します。
	ErrNothingToRedo = errors.New("やり直せる操作がありません")
)

// ChangeFunc は状態が置き換わるたびに呼ばれます。引数はコピーです。
type ChangeFunc func(state *domain.ProjectState) error

// MemoryStore はコピーオンライトで ProjectState を保持し、undo/redo 履歴を管理します。
type MemoryStore struct {
	mu       sync.RWMutex
	state    *domain.ProjectState
	undo     []*domain.ProjectState
	redo     []*domain.ProjectState
	limit    int
	onChange []ChangeFunc
}

// Option は MemoryStore の設定を変更します。
type Option func(*MemoryStore)

// WithHistoryLimit は履歴の深さを設定します。0 以下は既定値を使います。
func WithHistoryLimit(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithOnChange は状態変更時のフックを追加します。
func WithOnChange(fn ChangeFunc) Option {
	return func(s *MemoryStore) {
		if fn != nil {
			s.onChange = append(s.onChange, fn)
		}
	}
}

// NewMemoryStore は初期状態を保持する MemoryStore を生成します。
// initial が nil の場合は空の状態から開始します。
func NewMemoryStore(initial *domain.ProjectState, opts ...Option) *MemoryStore {
	if initial == nil {
		initial = &domain.ProjectState{}
	}
	s := &MemoryStore{
		state: initial.Clone(),
		limit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot は現在の状態のディープコピーを返します。
func (s *MemoryStore) Snapshot() *domain.ProjectState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// UpdateStateAndRecord は updater が返した新しい状態に置き換え、直前の状態を履歴に積みます。
// updater がエラーを返した場合、状態と履歴は変更されません。
func (s *MemoryStore) UpdateStateAndRecord(updater func(*domain.ProjectState) (*domain.ProjectState, error)) error {
	if updater == nil {
		return errors.New("updater は必須です")
	}

	s.mu.Lock()
	next, err := updater(s.state.Clone())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if next == nil {
		s.mu.Unlock()
		return errors.New("updater が nil の状態を返しました")
	}

	s.undo = s.push(s.undo, s.state)
	s.redo = nil
	s.state = next
	snapshot := next.Clone()
	s.mu.Unlock()

	return s.notify(snapshot)
}

// Undo は直前の状態に戻します。
func (s *MemoryStore) Undo() error {
	return s.step(&s.undo, &s.redo, ErrNothingToUndo)
}

// Redo は取り消した状態を再適用します。
func (s *MemoryStore) Redo() error {
	return s.step(&s.redo, &s.undo, ErrNothingToRedo)
}

// CanUndo は取り消せる履歴があるかを返します。
func (s *MemoryStore) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.undo) > 0
}

// CanRedo はやり直せる履歴があるかを返します。
func (s *MemoryStore) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.redo) > 0
}

// step は from の先頭の状態を復元し、現在の状態を to に積みます。
// 生成中フラグは復元しません。
func (s *MemoryStore) step(from, to *[]*domain.ProjectState, empty error) error {
	s.mu.Lock()
	if len(*from) == 0 {
		s.mu.Unlock()
		return empty
	}
	last := len(*from) - 1
	restored := (*from)[last]
	*from = (*from)[:last]
	*to = s.push(*to, s.state)

	restored = clearGenerating(restored)
	s.state = restored
	snapshot := restored.Clone()
	s.mu.Unlock()

	return s.notify(snapshot)
}

func (s *MemoryStore) push(stack []*domain.ProjectState, st *domain.ProjectState) []*domain.ProjectState {
	stack = append(stack, st)
	if over := len(stack) - s.limit; over > 0 {
		stack = append([]*domain.ProjectState(nil), stack[over:]...)
	}
	return stack
}

func (s *MemoryStore) notify(snapshot *domain.ProjectState) error {
	var errs []error
	for _, fn := range s.onChange {
		if err := fn(snapshot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func clearGenerating(st *domain.ProjectState) *domain.ProjectState {
	dirty := false
	for _, sc := range st.Scenes {
		if sc.IsGenerating {
			dirty = true
			break
		}
	}
	if !dirty {
		return st
	}
	out := st.Clone()
	for i := range out.Scenes {
		out.Scenes[i].IsGenerating = false
	}
	return out
}
