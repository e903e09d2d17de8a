package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shouni/go-storyboard-kit/pkg/asset"
	"github.com/shouni/go-storyboard-kit/pkg/config"
	"github.com/shouni/go-storyboard-kit/pkg/continuity"
	"github.com/shouni/go-storyboard-kit/pkg/director"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/parser"
	"github.com/shouni/go-storyboard-kit/pkg/prompts"
)

// CompileOptions は1回のコンパイルに対する呼び出し側の指定です。
type CompileOptions struct {
	// Refinement は再生成時の上書き指示です。
	Refinement string
}

// RequestCompiler はプロジェクト状態と対象シーンから1件の GenerationRequest を組み立てます。
// 状態を変更せず、同じ入力には同じ結果を返します。
type RequestCompiler struct {
	cfg       config.Config
	sanitizer *parser.Sanitizer
	assembler *prompts.Assembler
}

// NewRequestCompiler は RequestCompiler を生成します。
func NewRequestCompiler(cfg config.Config, assembler *prompts.Assembler) (*RequestCompiler, error) {
	if assembler == nil {
		return nil, errors.New("assembler は必須です")
	}
	return &RequestCompiler{
		cfg:       cfg,
		sanitizer: parser.NewSanitizer(),
		assembler: assembler,
	}, nil
}

// Compile は対象シーンの生成リクエストを組み立てます。
// 添付は連続性アンカー、キャラクター、製品の順に並びます。
func (c *RequestCompiler) Compile(state *domain.ProjectState, sceneID string, opts CompileOptions) (*domain.GenerationRequest, error) {
	if state == nil {
		return nil, errors.New("プロジェクト状態が nil です")
	}
	scene, index, err := state.FindScene(sceneID)
	if err != nil {
		return nil, err
	}

	tier := state.Settings.ModelTier.Normalize()
	group := c.groupOf(state, scene)

	anchors := continuity.SelectAnchors(group, state.Scenes, index)
	identity := asset.NewReferenceResolver(domain.CapabilityFor(tier)).Resolve(state, scene)

	excluded := parser.ExcludedNames(state.Characters, scene.CharacterIDs)
	promptText, err := c.assembler.Assemble(prompts.SceneContext{
		Refinement:            c.sanitizer.Sanitize(opts.Refinement, excluded),
		ContinuityInstruction: anchors.Instruction(),
		Style:                 director.ResolveStyle(state.Settings, group),
		Cinematography:        director.ResolveCinematography(state.Settings, scene),
		SanitizedText:         c.sanitizer.Sanitize(scene.Description, excluded),
		Group:                 c.environmentOf(group, excluded),
		Characters:            selectedCharacters(state, scene),
		Products:              selectedProducts(state, scene),
	})
	if err != nil {
		return nil, fmt.Errorf("シーン %s のプロンプト組み立てに失敗しました: %w", sceneID, err)
	}

	attachments := anchors.Attachments()
	attachments = append(attachments, identity...)

	return &domain.GenerationRequest{
		SceneID:     scene.ID,
		Model:       c.ModelFor(tier),
		PromptText:  promptText,
		AspectRatio: c.aspectRatio(state.Settings),
		Attachments: attachments,
	}, nil
}

// ModelFor はティアに対応する画像モデル名を返します。
func (c *RequestCompiler) ModelFor(tier domain.ModelTier) string {
	if tier.Normalize() == domain.TierHigh {
		return c.cfg.ImageQualityModel
	}
	return c.cfg.ImageStandardModel
}

// environmentOf は環境説明から未選択キャラクターの名前を除いたグループのコピーを返します。
func (c *RequestCompiler) environmentOf(group *domain.SceneGroup, excluded []string) *domain.SceneGroup {
	if group == nil {
		return nil
	}
	env := *group
	env.Description = c.sanitizer.Sanitize(group.Description, excluded)
	return &env
}

func (c *RequestCompiler) groupOf(state *domain.ProjectState, scene domain.Scene) *domain.SceneGroup {
	if scene.GroupID == "" {
		return nil
	}
	g, ok := state.FindGroup(scene.GroupID)
	if !ok {
		return nil
	}
	return &g
}

func (c *RequestCompiler) aspectRatio(settings domain.GlobalSettings) string {
	if ar := strings.TrimSpace(settings.AspectRatio); ar != "" {
		return ar
	}
	return c.cfg.DefaultAspectRatio
}

func selectedCharacters(state *domain.ProjectState, scene domain.Scene) []domain.Character {
	var out []domain.Character
	for _, id := range scene.CharacterIDs {
		if ch, ok := state.FindCharacter(id); ok {
			out = append(out, ch)
		}
	}
	return out
}

func selectedProducts(state *domain.ProjectState, scene domain.Scene) []domain.Product {
	var out []domain.Product
	for _, id := range scene.ProductIDs {
		if p, ok := state.FindProduct(id); ok {
			out = append(out, p)
		}
	}
	return out
}
