package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shouni/go-storyboard-kit/pkg/domain"

	"github.com/shouni/go-utils/text"
)

// maxSanitizePasses は不動点に達するまでの最大反復回数です。
// 各反復は文字列を必ず短くするため、通常は2回以内で収束します。
const maxSanitizePasses = 16

// Sanitizer はシーン説明文から AI のメタ指示と未選択キャラクターの名前を取り除きます。
type Sanitizer struct {
	patterns []*regexp.Regexp
}

// NewSanitizer は既定のメタフレーズ表を持つ Sanitizer を生成します。
func NewSanitizer() *Sanitizer {
	return &Sanitizer{patterns: metaPhrasePatterns}
}

// Sanitize は説明文を整形して返します。純粋関数であり冪等です。
// excludedNames には、このシーンで選択されていないキャラクターの名前を渡します。
func (s *Sanitizer) Sanitize(input string, excludedNames []string) string {
	nameMatchers := compileNameMatchers(excludedNames)

	current := input
	for range maxSanitizePasses {
		next := s.pass(current, nameMatchers)
		if next == current {
			break
		}
		current = next
	}
	return current
}

// SanitizeScene はプロジェクトのキャラクター一覧からシーンの除外名を求めて Sanitize を実行します。
func (s *Sanitizer) SanitizeScene(scene domain.Scene, characters []domain.Character) string {
	return s.Sanitize(scene.Description, ExcludedNames(characters, scene.CharacterIDs))
}

func (s *Sanitizer) pass(in string, names []*regexp.Regexp) string {
	out := in
	for _, p := range s.patterns {
		out = p.ReplaceAllString(out, " ")
	}
	for _, re := range names {
		out = removeWholeWord(out, re)
	}
	out = text.NormalizeText(out)
	out = spaceBeforePunctRegex.ReplaceAllString(out, "$1")
	out = leadingPunctRegex.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// ExcludedNames は選択されていないキャラクターの名前を返します。
// 選択済みキャラクターと同名の場合は、その名前を除外対象にしません。
func ExcludedNames(characters []domain.Character, selectedIDs []string) []string {
	selected := make(map[string]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = struct{}{}
	}

	keep := make(map[string]struct{})
	for _, c := range characters {
		if _, ok := selected[c.ID]; ok {
			keep[strings.ToLower(strings.TrimSpace(c.Name))] = struct{}{}
		}
	}

	var names []string
	for _, c := range characters {
		if _, ok := selected[c.ID]; ok {
			continue
		}
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		if _, ok := keep[strings.ToLower(name)]; ok {
			continue
		}
		names = append(names, name)
	}
	return names
}

func compileNameMatchers(names []string) []*regexp.Regexp {
	matchers := make([]*regexp.Regexp, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		matchers = append(matchers, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(n)+`(?:'s|’s)?`))
	}
	return matchers
}

// removeWholeWord は単語境界を満たす一致箇所のみを取り除きます。
// Go の \b は ASCII のみ対応のため、境界判定はルーン単位で行います。
func removeWholeWord(s string, re *regexp.Regexp) string {
	matches := re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if !isBoundary(s, start, end) {
			continue
		}
		sb.WriteString(s[last:start])
		sb.WriteString(" ")
		last = end
	}
	sb.WriteString(s[last:])
	return sb.String()
}

func isBoundary(s string, start, end int) bool {
	first, _ := utf8.DecodeRuneInString(s[start:end])
	lastRune, _ := utf8.DecodeLastRuneInString(s[start:end])

	if start > 0 && !isCJK(first) {
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(before) {
			return false
		}
	}
	if end < len(s) && !isCJK(lastRune) {
		after, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(after) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
