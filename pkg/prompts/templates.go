package prompts

// セクション名です。Assemble はこの順でセクションを連結します。
const (
	SectionRefinement  = "refinement"
	SectionContinuity  = "continuity"
	SectionStyle       = "style"
	SectionShot        = "shot"
	SectionAction      = "action"
	SectionEnvironment = "environment"
	SectionPresence    = "presence"
	SectionScene       = "scene"
	SectionTokens      = "tokens"
	SectionTechnical   = "technical"
)

// sectionOrder はプロンプト内のセクションの固定順序です。
var sectionOrder = []string{
	SectionRefinement,
	SectionContinuity,
	SectionStyle,
	SectionShot,
	SectionAction,
	SectionEnvironment,
	SectionPresence,
	SectionScene,
	SectionTokens,
	SectionTechnical,
}

const (
	// NoHumanClause は登場キャラクターがいないシーンで人物の描画を禁止する句です。
	NoHumanClause = "NO HUMANS: this shot contains no people at all. Do not draw any person, figure, silhouette, face, hand or crowd, not even in the background."

	// RealisticNegativeClause は実写系スタイルでイラスト調の描画を禁止する句です。
	RealisticNegativeClause = "NEGATIVE STYLE: not anime, not cartoon, not 2D, not illustration, not cel shading, not drawing."

	// StyleLockClause はスタイル以外の画風の混入を禁止する句です。
	StyleLockClause = "Render strictly in this style and do not blend in any other art style."
)

// DefaultTemplates は各セクションのテンプレートです。
var DefaultTemplates = map[string]string{
	SectionRefinement: `### REFINEMENT OVERRIDE (HIGHEST PRIORITY) ###
{{.Text}}`,

	SectionContinuity: `### CONTINUITY ###
{{.Text}}`,

	SectionStyle: `### AUTHORITATIVE STYLE ###
{{.Text}}
{{.StyleLock}}{{if .Realistic}}
{{.RealisticNegative}}{{end}}`,

	SectionShot: `### SHOT SCALE ###
Frame this image as a {{.Text}}.`,

	SectionAction: `### CORE ACTION ###
{{.Text}}`,

	SectionEnvironment: `### ENVIRONMENT ANCHOR ###
Setting: {{.Name}}.{{if .Text}} {{.Text}}{{end}}`,

	SectionPresence: `### SUBJECTS ###
{{- if .Characters}}
Only these characters appear, each matching their MASTER VISUAL references:
{{- range .Characters}}
- {{.}}
{{- end}}
No other people.
{{- else}}
{{.NoHuman}}
{{- end}}
{{- if .Products}}
Featured products, matching their MASTER VISUAL references:
{{- range .Products}}
- {{.}}
{{- end}}
{{- end}}`,

	SectionScene: `### SCENE ###
{{.Text}}`,

	SectionTokens: `{{.Text}}`,

	SectionTechnical: `### CAMERA ###
{{.Text}}`,
}
