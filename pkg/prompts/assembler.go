package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-prompt-kit/prompts"

	"github.com/shouni/go-storyboard-kit/pkg/director"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// actionDelimiters は導入と見せ場を区切る記号です。
var actionDelimiters = []string{"→", "->", "=>"}

// SceneContext はプロンプト組み立てに必要な解決済みの入力です。
type SceneContext struct {
	// Refinement は利用者による上書き指示です。最優先として先頭に置かれます。
	Refinement string
	// ContinuityInstruction は連続性アンカーがある場合のカメラ視点切り替え指示です。
	ContinuityInstruction string
	Style                 director.ResolvedStyle
	Cinematography        director.Cinematography
	// SanitizedText は ContextSanitizer を通した説明文です。生の説明文を渡してはいけません。
	SanitizedText string
	Group         *domain.SceneGroup
	Characters    []domain.Character
	Products      []domain.Product
}

// Assembler はセクションを固定順で連結し、最終的なプロンプト文字列を生成します。
type Assembler struct {
	builder *prompts.Builder
}

// NewAssembler は既定のテンプレートで Assembler を生成します。
func NewAssembler() (*Assembler, error) {
	return NewAssemblerWithTemplates(DefaultTemplates)
}

// NewAssemblerWithTemplates は任意のテンプレートで Assembler を生成します。
// すべてのセクションのテンプレートが必要です。
func NewAssemblerWithTemplates(templates map[string]string) (*Assembler, error) {
	for _, section := range sectionOrder {
		if _, ok := templates[section]; !ok {
			return nil, fmt.Errorf("セクション '%s' のテンプレートがありません", section)
		}
	}
	b, err := prompts.NewBuilder(templates)
	if err != nil {
		return nil, fmt.Errorf("プロンプトビルダーの初期化に失敗しました: %w", err)
	}
	return &Assembler{builder: b}, nil
}

// Assemble はシーンのプロンプトを組み立てます。空のセクションは出力しません。
func (a *Assembler) Assemble(sc SceneContext) (string, error) {
	var parts []string
	for _, section := range sectionOrder {
		data, ok := sectionData(section, sc)
		if !ok {
			continue
		}
		out, err := a.builder.Build(section, data)
		if err != nil {
			return "", fmt.Errorf("セクション '%s' の生成に失敗しました: %w", section, err)
		}
		if s := strings.TrimSpace(out); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// CoreAction は最後の区切り記号より後ろの文を返します。区切りが無い場合は全文です。
func CoreAction(text string) string {
	text = strings.TrimSpace(text)
	cut, width := -1, 0
	for _, d := range actionDelimiters {
		if i := strings.LastIndex(text, d); i > cut {
			cut, width = i, len(d)
		}
	}
	if cut < 0 {
		return text
	}
	if action := strings.TrimSpace(text[cut+width:]); action != "" {
		return action
	}
	return text
}

func sectionData(section string, sc SceneContext) (map[string]any, bool) {
	switch section {
	case SectionRefinement:
		return textData(sc.Refinement)
	case SectionContinuity:
		return textData(sc.ContinuityInstruction)
	case SectionStyle:
		if sc.Style.IsEmpty() {
			return nil, false
		}
		return map[string]any{
			"Text":              strings.TrimSpace(sc.Style.Prompt),
			"StyleLock":         StyleLockClause,
			"Realistic":         sc.Style.Realistic,
			"RealisticNegative": RealisticNegativeClause,
		}, true
	case SectionShot:
		return textData(sc.Cinematography.ShotFragment())
	case SectionAction:
		return textData(CoreAction(sc.SanitizedText))
	case SectionEnvironment:
		if sc.Group == nil {
			return nil, false
		}
		name := strings.TrimSpace(sc.Group.Name)
		if name == "" {
			name = sc.Group.ID
		}
		return map[string]any{"Name": name, "Text": strings.TrimSpace(sc.Group.Description)}, true
	case SectionPresence:
		return map[string]any{
			"Characters": characterLines(sc.Characters),
			"Products":   productLines(sc.Products),
			"NoHuman":    NoHumanClause,
		}, true
	case SectionScene:
		return textData(sc.SanitizedText)
	case SectionTokens:
		return textData(sc.Style.Tokens)
	case SectionTechnical:
		return textData(strings.Join(sc.Cinematography.TechnicalFragments(), ", "))
	default:
		return nil, false
	}
}

func textData(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	return map[string]any{"Text": s}, true
}

func characterLines(chars []domain.Character) []string {
	lines := make([]string, 0, len(chars))
	for _, c := range chars {
		lines = append(lines, describe(c.DisplayName(), c.Description))
	}
	return lines
}

func productLines(products []domain.Product) []string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, describe(p.DisplayName(), p.Description))
	}
	return lines
}

func describe(name, desc string) string {
	if desc = strings.TrimSpace(desc); desc != "" {
		return fmt.Sprintf("%s: %s", name, desc)
	}
	return name
}
