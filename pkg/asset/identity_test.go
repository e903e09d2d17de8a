package asset

import (
	"strings"
	"testing"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

var (
	standard = domain.CapabilityFor(domain.TierStandard)
	high     = domain.CapabilityFor(domain.TierHigh)
)

func roles(atts []domain.Attachment) []domain.AttachmentRole {
	out := make([]domain.AttachmentRole, len(atts))
	for i, a := range atts {
		out[i] = a.Role
	}
	return out
}

func equalRoles(a, b []domain.AttachmentRole) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReferenceResolver_CharacterAttachments(t *testing.T) {
	full := domain.Character{
		ID:   "aki",
		Name: "Aki",
		Views: domain.CharacterViews{
			Face: "https://example.com/face.png",
			Body: "https://example.com/body.png",
			Side: "https://example.com/side.png",
			Back: "https://example.com/back.png",
		},
		MasterImage: "https://example.com/master.png",
	}

	tests := []struct {
		name       string
		capability domain.Capability
		character  domain.Character
		want       []domain.AttachmentRole
	}{
		{
			name:       "標準ティアは face と body のみ",
			capability: standard,
			character:  full,
			want:       []domain.AttachmentRole{domain.RoleFace, domain.RoleBody},
		},
		{
			name:       "高性能ティアは side と back も添付すること",
			capability: high,
			character:  full,
			want:       []domain.AttachmentRole{domain.RoleFace, domain.RoleBody, domain.RoleSide, domain.RoleBack},
		},
		{
			name:       "個別ビューが無い場合はマスター画像を PRIMARY として1枚だけ添付すること",
			capability: high,
			character:  domain.Character{ID: "ren", Name: "Ren", MasterImage: "data:image/png;base64,AAAA"},
			want:       []domain.AttachmentRole{domain.RolePrimary},
		},
		{
			name:       "画像が無いキャラクターは何も寄与しないこと",
			capability: high,
			character:  domain.Character{ID: "ghost", Name: "Ghost"},
			want:       nil,
		},
		{
			name:       "一部のビューのみ存在する場合はマスター画像を使わないこと",
			capability: high,
			character: domain.Character{
				ID: "sora", Name: "Sora",
				Views:       domain.CharacterViews{Body: "b.png", Back: "k.png"},
				MasterImage: "m.png",
			},
			want: []domain.AttachmentRole{domain.RoleBody, domain.RoleBack},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewReferenceResolver(tt.capability).CharacterAttachments(tt.character)
			if !equalRoles(roles(got), tt.want) {
				t.Errorf("期待値 %v, 実際の値 %v", tt.want, roles(got))
			}
		})
	}

	t.Run("ラベルは MASTER VISUAL: <NAME> <VIEW> 形式であること", func(t *testing.T) {
		got := NewReferenceResolver(standard).CharacterAttachments(full)
		if got[0].Label != "MASTER VISUAL: AKI FACE" {
			t.Errorf("実際の値 %q", got[0].Label)
		}
		if got[0].MimeType != "image/png" {
			t.Errorf("MIME タイプ: %q", got[0].MimeType)
		}
	})
}

func TestReferenceResolver_ProductAttachments(t *testing.T) {
	product := domain.Product{
		ID: "can", Name: "Soda Can",
		Views: domain.ProductViews{Front: "f.png", Right: "r.png", Back: "b.png", Top: "t.png"},
	}

	t.Run("標準ティアは front と側面1枚", func(t *testing.T) {
		got := roles(NewReferenceResolver(standard).ProductAttachments(product))
		want := []domain.AttachmentRole{domain.RoleFront, domain.RoleRight}
		if !equalRoles(got, want) {
			t.Errorf("期待値 %v, 実際の値 %v", want, got)
		}
	})

	t.Run("left がある場合は left を優先すること", func(t *testing.T) {
		p := product
		p.Views.Left = "l.png"
		got := roles(NewReferenceResolver(high).ProductAttachments(p))
		want := []domain.AttachmentRole{domain.RoleFront, domain.RoleLeft, domain.RoleBack, domain.RoleTop}
		if !equalRoles(got, want) {
			t.Errorf("期待値 %v, 実際の値 %v", want, got)
		}
	})
}

func TestReferenceResolver_Resolve(t *testing.T) {
	state := &domain.ProjectState{
		Characters: []domain.Character{
			{ID: "a", Name: "A", MasterImage: "a.png"},
			{ID: "b", Name: "B", MasterImage: "b.png"},
		},
		Products: []domain.Product{{ID: "p", Name: "P", Views: domain.ProductViews{Front: "p.png"}}},
	}
	scene := domain.Scene{CharacterIDs: []string{"b", "missing", "a"}, ProductIDs: []string{"p"}}

	got := NewReferenceResolver(standard).Resolve(state, scene)
	var labels []string
	for _, a := range got {
		labels = append(labels, a.Label)
	}
	want := "MASTER VISUAL: B PRIMARY|MASTER VISUAL: A PRIMARY|MASTER VISUAL: P FRONT"
	if strings.Join(labels, "|") != want {
		t.Errorf("期待値 %s, 実際の値 %s", want, strings.Join(labels, "|"))
	}
}

func TestSceneImageObjectName(t *testing.T) {
	name := SceneImageObjectName("scene 1/a", "image/jpeg")
	if !strings.HasPrefix(name, "scenes/scene-1-a_") || !strings.HasSuffix(name, ".jpg") {
		t.Errorf("実際の値 %q", name)
	}
}
