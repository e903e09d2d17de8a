package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-storyboard-kit/pkg/pipeline"
)

// BatchRunner は CLI から一括生成を実行するのだ。
// 1回目の割り込みで停止を要求し（生成中のシーンは完了まで待つ）、2回目で中断するのだ。
type BatchRunner struct {
	batch   BatchController
	signals []os.Signal
}

// NewBatchRunner は BatchRunner を生成するのだ。
func NewBatchRunner(batch BatchController) (*BatchRunner, error) {
	if batch == nil {
		return nil, errors.New("batch は必須です")
	}
	return &BatchRunner{
		batch:   batch,
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
	}, nil
}

// Run は一括生成を実行し、結果を返すのだ。
// 停止理由が error の場合はエラーも返すのだ。
func (r *BatchRunner) Run(ctx context.Context) (*pipeline.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, r.signals...)
	defer signal.Stop(sigCh)

	go r.watch(ctx, sigCh, cancel)

	res, err := r.batch.RunBatch(ctx)
	if res == nil {
		if err == nil {
			err = errors.New("一括生成の結果が空なのだ")
		}
		return nil, fmt.Errorf("一括生成を開始できなかったのだ: %w", err)
	}

	slog.InfoContext(ctx, "一括生成が終了したのだ",
		"reason", res.StopReason,
		"rendered", len(res.Rendered),
		"failed", len(res.Failed),
		"skipped", len(res.Skipped),
		"remaining", len(res.Remaining),
	)
	switch {
	case res.StopReason == pipeline.StopError:
		return res, fmt.Errorf("一括生成がエラーで中止されたのだ: %w", res.Err)
	case err != nil:
		return res, fmt.Errorf("一括生成が中断されたのだ: %w", err)
	}
	return res, nil
}

func (r *BatchRunner) watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc) {
	stopped := false
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigCh:
			if !stopped {
				stopped = true
				if r.batch.StopBatchGeneration() {
					slog.WarnContext(ctx, "停止を要求したのだ。生成中のシーンが終わったら止まるのだ", "signal", sig.String())
				}
				continue
			}
			slog.WarnContext(ctx, "中断するのだ", "signal", sig.String())
			cancel()
			return
		}
	}
}
