package builder

import (
	"github.com/shouni/go-remote-io/remoteio"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/pkg/store"
	"github.com/shouni/go-storyboard-kit/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持するのだ。
// これを各 Run 関数に渡すことで、依存関係の注入を簡素化するのだ。
type AppContext struct {
	Config  *config.Config         // Config は環境変数から読み込まれたグローバルな設定なのだ
	Options config.GenerateOptions // Options はコマンドラインから渡された実行時の設定なのだ
	Reader  remoteio.InputReader   // Reader は参照画像の読み込みに使う入力元なのだ
	Writer  remoteio.OutputWriter  // Writer は生成画像の保存先なのだ
	Store   *store.FileStore       // Store はプロジェクトファイルに永続化される状態なのだ
	Manager *workflow.Manager      // Manager はコンパイル、生成、一括生成の入口なのだ

	factory remoteio.IOFactory
}

// Close は保持しているリモート I/O のリソースを解放するのだ。
func (a *AppContext) Close() error {
	if a.factory == nil {
		return nil
	}
	return a.factory.Close()
}
