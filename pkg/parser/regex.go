package parser

import "regexp"

// metaPhrasePatterns は台本生成段階で AI が書き込んだ連続性メタ指示に一致します。
// 画像プロンプトへ漏れると環境の説明として解釈されるため取り除きます。
var metaPhrasePatterns = []*regexp.Regexp{
	// --- English ---
	regexp.MustCompile(`(?i)\[\s*(?:environment|consistency|continuity|group)\b[^\]]*\]`),
	regexp.MustCompile(`(?i)\([^()]*\b(?:same|consistent)\s+(?:environment|setting|location|set)\b[^()]*\)`),
	regexp.MustCompile(`(?i)\b(?:maintain|maintaining|keep|keeping|ensure|ensuring|preserve|preserving)\s+(?:the\s+)?(?:visual\s+|environmental\s+|environment\s+|group\s+|scene\s+)?(?:consistency|continuity)\b[^.;\n]*[.;]?`),
	regexp.MustCompile(`(?i)\b(?:in|within|inside|at)\s+the\s+same\s+(?:environment|setting|location|set)(?:\s+as\s+(?:before|the\s+(?:previous|other)\s+scenes?|the\s+group|scene\s+\d+))?\b[.,;]?`),
	regexp.MustCompile(`(?i)\b(?:environment|group)\s+consistency\b\s*:?[^.;\n]*[.;]?`),
	regexp.MustCompile(`(?i)\b(?:consistent|continuous)\s+with\s+(?:the\s+)?(?:group|previous\s+scenes?|environment)\b[.,;]?`),

	// --- 日本語 ---
	regexp.MustCompile(`[（(]?(?:同じ|同一の?)(?:環境|背景|場所|セット|ロケーション)(?:で|にて|を維持して|のまま)?[）)]?[。、]?`),
	regexp.MustCompile(`(?:環境|背景|グループ|シーン間)の?(?:一貫性|統一感?|連続性)を?(?:保つ|保って|維持する|維持して|保持する|保持して|確保する)?(?:こと|ように)?[。、]?`),
	regexp.MustCompile(`グループ(?:内|全体)?で(?:共通|統一)(?:の|された)?(?:環境|背景|設定)[。、]?`),
}

var (
	// spaceBeforePunctRegex は句読点直前の空白に一致します。
	spaceBeforePunctRegex = regexp.MustCompile(`\s+([,.;:!?、。])`)
	// leadingPunctRegex は文頭に取り残された句読点に一致します。
	leadingPunctRegex = regexp.MustCompile(`^[\s,.;:、。]+`)
)
