package continuity

import (
	"fmt"
	"strings"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

const (
	setLockLabel   = "SET LOCK (scene %s): match the architecture, props and lighting of this reference exactly. Ignore the action it depicts."
	lastShotLabel  = "LAST SHOT (scene %s): the immediately preceding shot on the same set. Keep poses, wardrobe and object placement continuous."
	moodboardLabel = "MOODBOARD REFERENCE: a loose guide for palette, atmosphere and set dressing. Do not copy its composition."
)

// Anchor は連続性の基準として選ばれた生成済みシーンです。
type Anchor struct {
	SceneID     string
	SceneNumber string
	Index       int
	Image       string
}

// Anchors はあるシーンに対する連続性アンカーの選択結果です。
type Anchors struct {
	Master    *Anchor
	LastShot  *Anchor
	Moodboard string
}

// SelectAnchors はグループ内の生成済みシーンからマスターと直前ショットを選びます。
//
// マスターは SceneNumber が数値として最小のシーンです（同値は配列順）。
// 直前ショットは targetIndex より前で最も近い生成済みシーンで、マスターと同一なら採用しません。
// どちらも無く group.ConceptImage がある場合はムードボードを返します。
// 対象シーン自身がアンカーになることはありません。group が nil なら空の結果を返します。
func SelectAnchors(group *domain.SceneGroup, scenes []domain.Scene, targetIndex int) Anchors {
	if group == nil {
		return Anchors{}
	}

	var result Anchors
	masterNumber := 0
	for i, s := range scenes {
		if !inGroup(s, group.ID, i, targetIndex) {
			continue
		}
		n, _ := s.Number()
		if result.Master == nil || n < masterNumber {
			result.Master = newAnchor(s, i)
			masterNumber = n
		}
	}

	for i := min(targetIndex, len(scenes)) - 1; i >= 0; i-- {
		if !inGroup(scenes[i], group.ID, i, targetIndex) {
			continue
		}
		if result.Master == nil || result.Master.Index != i {
			result.LastShot = newAnchor(scenes[i], i)
		}
		break
	}

	if !result.HasAnchor() && group.ConceptImage != "" {
		result.Moodboard = group.ConceptImage
	}
	return result
}

// HasAnchor はマスターまたは直前ショットが選ばれているかを返します。
func (a Anchors) HasAnchor() bool {
	return a.Master != nil || a.LastShot != nil
}

// Attachments はアンカーを SET LOCK, LAST SHOT, MOODBOARD REFERENCE の順で添付に変換します。
func (a Anchors) Attachments() []domain.Attachment {
	var out []domain.Attachment
	if a.Master != nil {
		out = append(out, attachment(domain.RoleSetLock, fmt.Sprintf(setLockLabel, a.Master.SceneNumber), a.Master.Image))
	}
	if a.LastShot != nil {
		out = append(out, attachment(domain.RoleLastShot, fmt.Sprintf(lastShotLabel, a.LastShot.SceneNumber), a.LastShot.Image))
	}
	if a.Moodboard != "" {
		out = append(out, attachment(domain.RoleMoodboard, moodboardLabel, a.Moodboard))
	}
	return out
}

// Instruction はカメラ視点の切り替え指示を返します。アンカーが無い場合は空文字列です。
// ムードボードは構図を固定しないため対象外です。
func (a Anchors) Instruction() string {
	if !a.HasAnchor() {
		return ""
	}

	var refs []string
	if a.Master != nil {
		refs = append(refs, fmt.Sprintf("[%s] (scene %s)", domain.RoleSetLock, a.Master.SceneNumber))
	}
	if a.LastShot != nil {
		refs = append(refs, fmt.Sprintf("[%s] (scene %s)", domain.RoleLastShot, a.LastShot.SceneNumber))
	}
	return fmt.Sprintf(
		"CAMERA PERSPECTIVE SHIFT: %s show the same set. Only the camera angle changes; architecture, props, lighting and wardrobe stay locked.",
		strings.Join(refs, " and "),
	)
}

func inGroup(s domain.Scene, groupID string, index, targetIndex int) bool {
	return index != targetIndex && s.GroupID == groupID && s.HasImage()
}

func newAnchor(s domain.Scene, index int) *Anchor {
	return &Anchor{
		SceneID:     s.ID,
		SceneNumber: s.SceneNumber,
		Index:       index,
		Image:       s.GeneratedImage,
	}
}

func attachment(role domain.AttachmentRole, label, image string) domain.Attachment {
	return domain.Attachment{
		Role:     role,
		Label:    label,
		Image:    image,
		MimeType: domain.MimeTypeOf(image),
	}
}
