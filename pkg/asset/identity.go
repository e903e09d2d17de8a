package asset

import (
	"fmt"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// viewSlot は参照ビューの候補1枠です。
type viewSlot struct {
	role  domain.AttachmentRole
	image string
}

// ReferenceResolver はシーンで選択されたキャラクターと製品の同一性参照画像を決定します。
type ReferenceResolver struct {
	capability domain.Capability
}

// NewReferenceResolver はモデルの能力に応じた ReferenceResolver を生成します。
func NewReferenceResolver(capability domain.Capability) *ReferenceResolver {
	return &ReferenceResolver{capability: capability}
}

// Resolve はキャラクター、製品の順に、選択ID配列の順序を保って添付を組み立てます。
// 画像を持たない、または存在しないIDは何も寄与しません。
func (r *ReferenceResolver) Resolve(state *domain.ProjectState, scene domain.Scene) []domain.Attachment {
	var attachments []domain.Attachment

	for _, id := range scene.CharacterIDs {
		c, ok := state.FindCharacter(id)
		if !ok {
			continue
		}
		attachments = append(attachments, r.CharacterAttachments(c)...)
	}
	for _, id := range scene.ProductIDs {
		p, ok := state.FindProduct(id)
		if !ok {
			continue
		}
		attachments = append(attachments, r.ProductAttachments(p)...)
	}
	return attachments
}

// CharacterAttachments は face, body, side, back の順で能力の上限までビューを添付します。
// 対象枠にビューが1枚も無い場合はマスター画像を PRIMARY として1枚だけ添付します。
func (r *ReferenceResolver) CharacterAttachments(c domain.Character) []domain.Attachment {
	slots := []viewSlot{
		{role: domain.RoleFace, image: c.Views.Face},
		{role: domain.RoleBody, image: c.Views.Body},
		{role: domain.RoleSide, image: c.Views.Side},
		{role: domain.RoleBack, image: c.Views.Back},
	}
	return collect(c.DisplayName(), window(slots, r.capability.MaxCharacterViews), c.MasterImage)
}

// ProductAttachments は front, 側面1枚（left 優先、無ければ right）, back, top の順で添付します。
func (r *ReferenceResolver) ProductAttachments(p domain.Product) []domain.Attachment {
	side := viewSlot{role: domain.RoleLeft, image: p.Views.Left}
	if side.image == "" {
		side = viewSlot{role: domain.RoleRight, image: p.Views.Right}
	}
	slots := []viewSlot{
		{role: domain.RoleFront, image: p.Views.Front},
		side,
		{role: domain.RoleBack, image: p.Views.Back},
		{role: domain.RoleTop, image: p.Views.Top},
	}
	return collect(p.DisplayName(), window(slots, r.capability.MaxProductViews), p.MasterImage)
}

// MasterVisualLabel は参照画像の直前に置くラベルを返します。
func MasterVisualLabel(name string, role domain.AttachmentRole) string {
	return fmt.Sprintf("MASTER VISUAL: %s %s", name, role)
}

func window(slots []viewSlot, limit int) []viewSlot {
	return slots[:min(max(limit, 0), len(slots))]
}

func collect(name string, slots []viewSlot, master string) []domain.Attachment {
	var out []domain.Attachment
	for _, s := range slots {
		if s.image == "" {
			continue
		}
		out = append(out, newAttachment(name, s.role, s.image))
	}
	if len(out) == 0 && master != "" {
		out = append(out, newAttachment(name, domain.RolePrimary, master))
	}
	return out
}

func newAttachment(name string, role domain.AttachmentRole, image string) domain.Attachment {
	return domain.Attachment{
		Role:     role,
		Label:    MasterVisualLabel(name, role),
		Image:    image,
		MimeType: domain.MimeTypeOf(image),
	}
}
