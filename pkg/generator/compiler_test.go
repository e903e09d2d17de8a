package generator

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/shouni/go-storyboard-kit/pkg/config"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/prompts"
)

func newTestCompiler(t *testing.T) *RequestCompiler {
	t.Helper()
	a, err := prompts.NewAssembler()
	if err != nil {
		t.Fatalf("NewAssembler() error = %v", err)
	}
	c, err := NewRequestCompiler(config.DefaultConfig(), a)
	if err != nil {
		t.Fatalf("NewRequestCompiler() error = %v", err)
	}
	return c
}

func testState() *domain.ProjectState {
	return &domain.ProjectState{
		Characters: []domain.Character{
			{ID: "aki", Name: "Aki", Views: domain.CharacterViews{Face: "https://cdn.example.com/aki-face.png"}},
			{ID: "ren", Name: "Ren", MasterImage: "https://cdn.example.com/ren.png"},
		},
		Products: []domain.Product{
			{ID: "lamp", Name: "Lamp", MasterImage: "https://cdn.example.com/lamp.jpg"},
		},
		SceneGroups: []domain.SceneGroup{{ID: "g1", Name: "Harbor", Description: "Foggy pier."}},
		Scenes: []domain.Scene{
			{ID: "s1", GroupID: "g1", SceneNumber: "1", Description: "Wide pier.", GeneratedImage: "https://cdn.example.com/s1.png"},
			{ID: "s2", GroupID: "g1", SceneNumber: "2", Description: "Ren waves while the tide rolls in.", ProductIDs: []string{"lamp"}},
			{ID: "s3", GroupID: "g1", SceneNumber: "3", Description: "Aki lifts the lamp.", CharacterIDs: []string{"aki"}, ProductIDs: []string{"lamp"}},
		},
		Settings: domain.GlobalSettings{Style: "watercolor", AspectRatio: "4:3"},
	}
}

func TestRequestCompiler_Compile(t *testing.T) {
	c := newTestCompiler(t)

	t.Run("キャラクター未選択のシーンは人物禁止句を含み未選択の名前を含まないこと", func(t *testing.T) {
		state := testState()
		req, err := c.Compile(state, "s2", CompileOptions{})
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if !strings.Contains(req.PromptText, prompts.NoHumanClause) {
			t.Errorf("人物禁止句がありません:\n%s", req.PromptText)
		}
		if strings.Contains(req.PromptText, state.Scenes[1].Description) {
			t.Errorf("生の説明文がそのまま含まれています:\n%s", req.PromptText)
		}
		if regexp.MustCompile(`\bRen\b`).MatchString(req.PromptText) {
			t.Errorf("未選択キャラクターの名前が含まれています:\n%s", req.PromptText)
		}
	})

	t.Run("添付は連続性アンカー、キャラクター、製品の順であること", func(t *testing.T) {
		req, err := c.Compile(testState(), "s3", CompileOptions{})
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		want := []domain.AttachmentRole{domain.RoleSetLock, domain.RoleFace, domain.RolePrimary}
		if len(req.Attachments) != len(want) {
			t.Fatalf("添付数 %d, 期待値 %d", len(req.Attachments), len(want))
		}
		for i, r := range want {
			if req.Attachments[i].Role != r {
				t.Errorf("添付[%d] = %s, 期待値 %s", i, req.Attachments[i].Role, r)
			}
		}
		if !strings.Contains(req.PromptText, "[SET LOCK] (scene 1)") {
			t.Errorf("連続性指示がありません:\n%s", req.PromptText)
		}
		if req.AspectRatio != "4:3" {
			t.Errorf("アスペクト比: %s", req.AspectRatio)
		}
	})

	t.Run("ティアに応じてモデルが切り替わること", func(t *testing.T) {
		state := testState()
		req, err := c.Compile(state, "s3", CompileOptions{})
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if req.Model != config.DefaultImageStandardModel {
			t.Errorf("standard のモデル: %s", req.Model)
		}

		state.Settings.ModelTier = domain.TierHigh
		req, err = c.Compile(state, "s3", CompileOptions{})
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if req.Model != config.DefaultImageQualityModel {
			t.Errorf("high のモデル: %s", req.Model)
		}
	})

	t.Run("上書き指示が先頭に置かれること", func(t *testing.T) {
		req, err := c.Compile(testState(), "s3", CompileOptions{Refinement: "Brighter sky."})
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if !strings.HasPrefix(req.PromptText, "### REFINEMENT OVERRIDE") {
			t.Errorf("先頭が上書き指示ではありません:\n%s", req.PromptText)
		}
	})

	t.Run("環境説明と上書き指示からも未選択キャラクターの名前を除くこと", func(t *testing.T) {
		state := testState()
		state.SceneGroups[0].Description = "Foggy pier where Ren keeps watch."
		req, err := c.Compile(state, "s3", CompileOptions{Refinement: "Move Ren out of frame."})
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if regexp.MustCompile(`\bRen\b`).MatchString(req.PromptText) {
			t.Errorf("未選択キャラクターの名前が含まれています:\n%s", req.PromptText)
		}
		if !strings.Contains(req.PromptText, "Foggy pier") {
			t.Errorf("環境説明がありません:\n%s", req.PromptText)
		}
		if state.SceneGroups[0].Description != "Foggy pier where Ren keeps watch." {
			t.Error("入力のグループが変更されています")
		}
	})

	t.Run("存在しないシーンは ErrSceneNotFound", func(t *testing.T) {
		_, err := c.Compile(testState(), "nope", CompileOptions{})
		if !errors.Is(err, domain.ErrSceneNotFound) {
			t.Errorf("期待値 ErrSceneNotFound, 実際の値 %v", err)
		}
	})

	t.Run("入力の状態を変更しないこと", func(t *testing.T) {
		state := testState()
		before := state.Clone()
		if _, err := c.Compile(state, "s3", CompileOptions{}); err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if state.Scenes[2].Description != before.Scenes[2].Description || len(state.Scenes) != len(before.Scenes) {
			t.Error("状態が変更されています")
		}
	})
}
