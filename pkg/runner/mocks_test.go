package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/generator"
)

// fakeStore は状態を丸ごと差し替えるだけのインメモリ StateStore なのだ。
// saveErr を設定すると、次の1回は状態を差し替えたうえで保存失敗として返すのだ。
type fakeStore struct {
	mu      sync.Mutex
	state   *domain.ProjectState
	updates int
	saveErr error
}

func newFakeStore(state *domain.ProjectState) *fakeStore {
	return &fakeStore{state: state}
}

func (s *fakeStore) Snapshot() *domain.ProjectState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *fakeStore) UpdateStateAndRecord(updater func(*domain.ProjectState) (*domain.ProjectState, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := updater(s.state)
	if err != nil {
		return err
	}
	s.state = next
	s.updates++
	if err := s.saveErr; err != nil {
		s.saveErr = nil
		return err
	}
	return nil
}

func (s *fakeStore) scene(id string) domain.Scene {
	sc, _, _ := s.Snapshot().FindScene(id)
	return sc
}

// fakeCompiler はシーンIDをそのままプロンプトにするのだ。
type fakeCompiler struct{}

func (fakeCompiler) Compile(state *domain.ProjectState, sceneID string, opts generator.CompileOptions) (*domain.GenerationRequest, error) {
	if _, _, err := state.FindScene(sceneID); err != nil {
		return nil, err
	}
	return &domain.GenerationRequest{SceneID: sceneID, Model: "test-model", PromptText: sceneID + opts.Refinement}, nil
}

// fakeProvider は呼び出し回数を数え、fn の結果を返すのだ。
type fakeProvider struct {
	calls atomic.Int32
	fn    func(ctx context.Context, req *domain.GenerationRequest) (*domain.RenderedImage, error)
}

func (p *fakeProvider) GenerateImage(ctx context.Context, req *domain.GenerationRequest) (*domain.RenderedImage, error) {
	p.calls.Add(1)
	if p.fn == nil {
		return &domain.RenderedImage{Data: []byte("png"), MimeType: "image/png"}, nil
	}
	return p.fn(ctx, req)
}

// fakeStorage は保存パスを記録して固定URLを返すのだ。
type fakeStorage struct {
	mu    sync.Mutex
	paths []string
	fail  bool
}

func (s *fakeStorage) Upload(_ context.Context, _ string, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("storage unavailable")
	}
	s.paths = append(s.paths, path)
	return "https://storage.googleapis.com/bucket/" + path, nil
}
