package cmd

import (
	"github.com/shouni/go-storyboard-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// undoCmd は、シーン画像を編集履歴の直前の画像に戻すのだ。
var undoCmd = &cobra.Command{
	Use:     "undo",
	Short:   "シーン画像を直前の画像に戻すのだ。",
	Example: "  storyboard undo -p storyboard.yaml --scene s2",
	RunE:    undoCommand,
}

func init() {
	undoCmd.Flags().StringVarP(&opts.SceneID, "scene", "s", "", "対象のシーンIDなのだ。")
	_ = undoCmd.MarkFlagRequired("scene")
}

func undoCommand(cmd *cobra.Command, args []string) error {
	return pipeline.ExecuteUndo(cmd.Context(), loadConfig())
}
