package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storyboard-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// batchCmd は、未生成のシーンを配列順に1件ずつ生成するのだ。
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "未生成のシーンをすべて順番に生成するのだ。",
	Long: `画像が無く説明文のあるシーンを、プロジェクトファイルの並び順に1件ずつ生成するのだ。
Ctrl+C を1回押すと生成中のシーンが終わったところで止まり、2回押すとすぐに中断するのだ。`,
	Example: "  storyboard batch -p storyboard.yaml --error-policy continue",
	RunE:    batchCommand,
}

func init() {
	batchCmd.Flags().StringVar(&opts.ErrorPolicy, "error-policy", "", "シーンの失敗時の動作（abort / continue）なのだ。未指定なら BATCH_ERROR_POLICY を使うのだ。")
}

func batchCommand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	res, err := pipeline.ExecuteBatch(cmd.Context(), cfg)
	if res != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "stop_reason: %s\nrendered: %v\nfailed: %v\nskipped: %v\nremaining: %v\n",
			res.StopReason, res.Rendered, res.Failed, res.Skipped, res.Remaining)
	}
	if err != nil {
		return err
	}

	slog.Info("一括生成の工程が完了したのだ！")
	return nil
}
