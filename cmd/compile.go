package cmd

import (
	"fmt"

	"github.com/shouni/go-storyboard-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// compileCmd は、プロバイダを呼ばずに生成リクエストを表示するドライランなのだ。
var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "シーンの生成リクエスト（プロンプトと参照画像）を表示するのだ。",
	Long: `プロジェクトファイルからシーンのプロンプトと参照画像の一覧を組み立てて表示するのだ。
画像生成は行わないので、認証情報が無くても動くのだよ。`,
	Example: "  storyboard compile -p examples/project.yaml --scene s2",
	RunE:    compileCommand,
}

func init() {
	compileCmd.Flags().StringVarP(&opts.SceneID, "scene", "s", "", "対象のシーンIDなのだ。")
	compileCmd.Flags().StringVar(&opts.Refinement, "refine", "", "最優先で適用する上書き指示なのだ。")
	compileCmd.Flags().BoolVar(&opts.JSON, "json", false, "JSON 形式で出力するのだ。")
	_ = compileCmd.MarkFlagRequired("scene")
}

func compileCommand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if err := pipeline.ExecuteCompile(cmd.Context(), cfg, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("コンパイルに失敗したのだ: %w", err)
	}
	return nil
}
