package director

import (
	"strings"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// CustomValue は固定テーブルではなく利用者のカスタム文字列を使うことを示す番兵値です。
const CustomValue = "custom"

// StyleDefinition はスタイルテーブルの1エントリです。
type StyleDefinition struct {
	Label     string
	Prompt    string
	Tokens    string // プロンプト末尾に付与するメタトークン
	Realistic bool
}

// styleTable はスタイルIDとプロンプト断片の対応表です。
var styleTable = map[string]StyleDefinition{
	"cinematic": {
		Label:     "Cinematic",
		Prompt:    "Cinematic live-action film still, photographic realism, natural skin texture, motivated practical lighting, subtle film grain, shallow depth of field.",
		Tokens:    "cinematic, film still, photorealistic, 35mm photograph, color graded",
		Realistic: true,
	},
	"photorealistic": {
		Label:     "Photorealistic",
		Prompt:    "Ultra photorealistic photograph, true-to-life materials and proportions, physically accurate lighting, no stylization.",
		Tokens:    "photorealistic, raw photo, 8k, high detail",
		Realistic: true,
	},
	"documentary": {
		Label:     "Documentary",
		Prompt:    "Handheld documentary photograph, available light, candid unposed moment, authentic environment.",
		Tokens:    "documentary photo, candid, available light",
		Realistic: true,
	},
	"film_noir": {
		Label:     "Film Noir",
		Prompt:    "Black and white film noir photograph, hard low-key lighting, deep shadows, venetian blind light patterns, high contrast.",
		Tokens:    "film noir, black and white, low key lighting, high contrast",
		Realistic: true,
	},
	"anime": {
		Label:  "Anime",
		Prompt: "Japanese anime style, official art, cel-shaded, clean line art, expressive eyes, vibrant colors.",
		Tokens: "anime, cel shading, clean line art",
	},
	"manga": {
		Label:  "Manga",
		Prompt: "Black and white manga illustration, screentone shading, bold ink lines, dynamic composition.",
		Tokens: "manga, screentone, ink lines",
	},
	"watercolor": {
		Label:  "Watercolor",
		Prompt: "Soft watercolor painting, visible paper texture, gentle color bleeding, loose brush strokes.",
		Tokens: "watercolor, paper texture, soft edges",
	},
	"oil_painting": {
		Label:  "Oil Painting",
		Prompt: "Classical oil painting on canvas, rich impasto brushwork, warm glazing, painterly light.",
		Tokens: "oil painting, impasto, canvas texture",
	},
	"comic_book": {
		Label:  "Comic Book",
		Prompt: "American comic book art, bold inks, flat colors, halftone dots, dramatic foreshortening.",
		Tokens: "comic book, halftone, bold inks",
	},
	"3d_render": {
		Label:  "3D Render",
		Prompt: "High-end 3D animated feature render, soft global illumination, subsurface scattering, stylized proportions.",
		Tokens: "3d render, global illumination, octane",
	},
	"storybook": {
		Label:  "Storybook",
		Prompt: "Children's storybook illustration, gouache texture, warm palette, whimsical shapes.",
		Tokens: "storybook illustration, gouache, whimsical",
	},
	"pixel_art": {
		Label:  "Pixel Art",
		Prompt: "16-bit pixel art, limited palette, crisp pixel edges, no anti-aliasing.",
		Tokens: "pixel art, 16-bit, limited palette",
	},
}

// ResolvedStyle はシーンに適用される実効スタイルです。
type ResolvedStyle struct {
	ID        string
	Prompt    string
	Tokens    string
	Realistic bool
}

// IsEmpty はスタイル断片が空かを返します。
func (r ResolvedStyle) IsEmpty() bool {
	return strings.TrimSpace(r.Prompt) == ""
}

// ResolveStyle はグループのスタイル指定を優先して実効スタイルを決定します。
// グループが指定を持つ場合は ID とカスタム文字列の両方をグループから採用します。
// 未知のIDは空のスタイルとして扱い、エラーにはしません。
func ResolveStyle(settings domain.GlobalSettings, group *domain.SceneGroup) ResolvedStyle {
	id, custom := settings.Style, settings.CustomStyle
	if group != nil && group.HasStyleOverride() {
		id, custom = group.StyleOverride, group.CustomStyle
	}
	id = strings.TrimSpace(id)

	if id == CustomValue {
		return ResolvedStyle{ID: id, Prompt: strings.TrimSpace(custom)}
	}
	def, ok := styleTable[id]
	if !ok {
		return ResolvedStyle{ID: id}
	}
	return ResolvedStyle{
		ID:        id,
		Prompt:    def.Prompt,
		Tokens:    def.Tokens,
		Realistic: def.Realistic,
	}
}

// LookupStyle はスタイルテーブルのエントリを返します。
func LookupStyle(id string) (StyleDefinition, bool) {
	def, ok := styleTable[id]
	return def, ok
}
