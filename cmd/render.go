package cmd

import (
	"log/slog"

	"github.com/shouni/go-storyboard-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// renderCmd は、1シーンの画像を生成してプロジェクトファイルに反映するのだ。
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "1シーンの画像を生成するのだ。",
	Long: `指定したシーンの画像を生成してプロジェクトファイルに反映するのだ。
既存の画像は編集履歴に残るので、undo で戻せるのだよ。
生成に失敗した場合はシーンにエラーを記録し、--strict のときだけ終了コードを 1 にするのだ。`,
	Example: "  storyboard render -p storyboard.yaml --scene s2 --refine \"make it rain\"",
	RunE:    renderCommand,
}

func init() {
	renderCmd.Flags().StringVarP(&opts.SceneID, "scene", "s", "", "対象のシーンIDなのだ。")
	renderCmd.Flags().StringVar(&opts.Refinement, "refine", "", "最優先で適用する上書き指示なのだ。")
	renderCmd.Flags().BoolVar(&opts.Strict, "strict", false, "生成の失敗を終了コードに反映するのだ。")
	_ = renderCmd.MarkFlagRequired("scene")
}

func renderCommand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	slog.Info("シーン生成モードを起動するのだ！",
		"project", cfg.Options.ProjectFile,
		"scene_id", cfg.Options.SceneID,
		"standard_model", cfg.ImageStandardModel,
		"quality_model", cfg.ImageQualityModel)

	return pipeline.ExecuteRender(cmd.Context(), cfg)
}
