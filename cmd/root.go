package cmd

import (
	"log/slog"
	"os"

	"github.com/shouni/go-storyboard-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

const appName = "storyboard"

// opts は CLI フラグから受け取る実行時のパラメータなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&opts.ProjectFile, "project", "p", config.DefaultProjectFile, "プロジェクトファイルのパス（.yaml / .json）なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "参照画像取得のタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.RequestTimeout, "request-timeout", 0, "画像生成1回あたりのタイムアウトなのだ（0 は無制限）。")
}

// preRunAppE は、コマンド実行前にロガーの設定を行うのだ。
// 認証情報のチェックは生成時に行うので、compile は認証情報なしでも動くのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if clibase.Flags.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig は環境変数を読み込み、CLI フラグの値を反映するのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		appName,
		addAppFlags,
		preRunAppE,
		compileCmd,
		renderCmd,
		batchCmd,
		undoCmd,
	)
}
