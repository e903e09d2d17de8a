package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/shouni/go-storyboard-kit/pkg/config"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/runner"
)

// State は一括生成スケジューラの状態です。
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// StopReason は一括生成が終了した理由です。
type StopReason string

const (
	StopCompleted StopReason = "completed"
	StopStopped   StopReason = "stopped"
	StopError     StopReason = "error"
	StopCanceled  StopReason = "canceled"
)

// BatchResult は一括生成1回分の結果です。
type BatchResult struct {
	Rendered   []string
	Failed     []string
	Skipped    []string
	StopReason StopReason
	// Err は StopError / StopCanceled の原因です。
	Err error
	// Remaining は未処理のまま残ったシーンIDです。
	Remaining []string
}

// SnapshotReader は現在のプロジェクト状態を返します。
type SnapshotReader interface {
	Snapshot() *domain.ProjectState
}

// BatchScheduler は未生成シーンを配列順に1件ずつ生成します。
// 連続性アンカーは直前までの反映結果に依存するため、並列には実行しません。
type BatchScheduler struct {
	renderer runner.SceneRenderer
	reader   SnapshotReader
	delay    time.Duration
	policy   config.ErrorPolicy

	mu       sync.Mutex
	state    State
	stopping atomic.Bool
}

// NewBatchScheduler は BatchScheduler を生成します。
func NewBatchScheduler(cfg config.Config, renderer runner.SceneRenderer, reader SnapshotReader) (*BatchScheduler, error) {
	if renderer == nil {
		return nil, errors.New("renderer は必須です")
	}
	if reader == nil {
		return nil, errors.New("reader は必須です")
	}
	return &BatchScheduler{
		renderer: renderer,
		reader:   reader,
		delay:    cfg.BatchDelay,
		policy:   config.ParseErrorPolicy(string(cfg.ErrorPolicy)),
		state:    StateIdle,
	}, nil
}

// State は現在の状態を返します。
func (b *BatchScheduler) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stop は実行中の一括生成に停止を要求します。進行中の1件は中断されず、次の1件から開始しません。
// 実行中でない場合は何もせず false を返します。
func (b *BatchScheduler) Stop() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateRunning {
		return false
	}
	b.state = StateStopping
	b.stopping.Store(true)
	return true
}

// Run は開始時点の対象シーンを順に生成します。
// 対象は画像が無く説明文を持つシーンです。到達時点で画像を得ている、または生成中のシーンはスキップします。
func (b *BatchScheduler) Run(ctx context.Context) (*BatchResult, error) {
	if err := b.begin(); err != nil {
		return nil, err
	}
	defer b.finish()

	ids := b.reader.Snapshot().EligibleSceneIDs()
	slog.InfoContext(ctx, "一括生成を開始します", "scenes", len(ids), "policy", b.policy)

	// cooldown は直前の生成完了から delay が経過するまで次の生成を待たせます
	var cooldown *rate.Limiter

	result := &BatchResult{}
	stop := func(i int, reason StopReason, err error) (*BatchResult, error) {
		result.StopReason = reason
		result.Err = err
		result.Remaining = append([]string(nil), ids[i:]...)
		slog.InfoContext(ctx, "一括生成を終了します",
			"reason", reason,
			"rendered", len(result.Rendered),
			"failed", len(result.Failed),
			"skipped", len(result.Skipped),
		)
		return result, err
	}

	for i, id := range ids {
		if b.stopping.Load() {
			return stop(i, StopStopped, nil)
		}
		if err := ctx.Err(); err != nil {
			return stop(i, StopCanceled, err)
		}
		if !b.stillEligible(id) {
			slog.DebugContext(ctx, "対象外となったシーンをスキップします", "scene_id", id)
			result.Skipped = append(result.Skipped, id)
			continue
		}

		if cooldown != nil {
			if err := cooldown.Wait(ctx); err != nil {
				return stop(i, StopCanceled, err)
			}
			if b.stopping.Load() {
				return stop(i, StopStopped, nil)
			}
		}

		_, err := b.renderer.Render(ctx, id, runner.RenderOptions{})
		if !errors.Is(err, domain.ErrSceneBusy) {
			cooldown = b.newCooldown()
		}
		switch {
		case err == nil:
			result.Rendered = append(result.Rendered, id)
		case errors.Is(err, domain.ErrSceneBusy):
			result.Skipped = append(result.Skipped, id)
		case errors.Is(err, domain.ErrMissingCredential):
			return stop(i, StopError, err)
		case ctx.Err() != nil:
			return stop(i, StopCanceled, ctx.Err())
		default:
			result.Failed = append(result.Failed, id)
			if b.policy != config.ErrorPolicyContinue {
				return stop(i+1, StopError, fmt.Errorf("シーン %s で一括生成を中止しました: %w", id, err))
			}
			slog.WarnContext(ctx, "シーンの生成に失敗したため次へ進みます", "scene_id", id, "error", err)
		}
	}
	return stop(len(ids), StopCompleted, nil)
}

// newCooldown は現時点でトークンを使い切ったリミッタを返します。
// 次の Wait は現時点から delay が経過するまでブロックします。
func (b *BatchScheduler) newCooldown() *rate.Limiter {
	if b.delay <= 0 {
		return nil
	}
	limiter := rate.NewLimiter(rate.Every(b.delay), 1)
	limiter.ReserveN(time.Now(), 1)
	return limiter
}

func (b *BatchScheduler) begin() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateIdle {
		return domain.ErrBatchRunning
	}
	b.state = StateRunning
	b.stopping.Store(false)
	return nil
}

func (b *BatchScheduler) finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateIdle
	b.stopping.Store(false)
}

func (b *BatchScheduler) stillEligible(id string) bool {
	scene, _, err := b.reader.Snapshot().FindScene(id)
	if err != nil {
		return false
	}
	return !scene.HasImage() && !scene.IsGenerating && scene.IsEligibleForBatch()
}
