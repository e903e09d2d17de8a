package continuity

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

func groupScenes(n int, withImage ...int) []domain.Scene {
	images := make(map[int]bool, len(withImage))
	for _, i := range withImage {
		images[i] = true
	}
	scenes := make([]domain.Scene, 0, n)
	for i := 1; i <= n; i++ {
		s := domain.Scene{ID: "s" + strconv.Itoa(i), GroupID: "g1", SceneNumber: strconv.Itoa(i)}
		if images[i] {
			s.GeneratedImage = "https://cdn.example.com/s" + strconv.Itoa(i) + ".png"
		}
		scenes = append(scenes, s)
	}
	return scenes
}

func TestSelectAnchors(t *testing.T) {
	group := &domain.SceneGroup{ID: "g1", Name: "Harbor"}

	t.Run("シーン1と3が生成済みでシーン4を対象にした場合", func(t *testing.T) {
		scenes := groupScenes(5, 1, 3)
		a := SelectAnchors(group, scenes, 3)

		require.NotNil(t, a.Master)
		require.NotNil(t, a.LastShot)
		assert.Equal(t, "s1", a.Master.SceneID)
		assert.Equal(t, "s3", a.LastShot.SceneID)

		atts := a.Attachments()
		require.Len(t, atts, 2)
		assert.Equal(t, domain.RoleSetLock, atts[0].Role)
		assert.Equal(t, domain.RoleLastShot, atts[1].Role)

		inst := a.Instruction()
		assert.Contains(t, inst, "[SET LOCK] (scene 1)")
		assert.Contains(t, inst, "[LAST SHOT] (scene 3)")
	})

	t.Run("生成順が変わってもマスターは最小の番号のまま", func(t *testing.T) {
		// 配列順は 3, 1, 2, 4 で、シーン3が先に生成済み
		scenes := []domain.Scene{
			{ID: "s3", GroupID: "g1", SceneNumber: "3", GeneratedImage: "c.png"},
			{ID: "s1", GroupID: "g1", SceneNumber: "1", GeneratedImage: "a.png"},
			{ID: "s2", GroupID: "g1", SceneNumber: "2", GeneratedImage: "b.png"},
			{ID: "s4", GroupID: "g1", SceneNumber: "4"},
		}
		a := SelectAnchors(group, scenes, 3)
		require.NotNil(t, a.Master)
		assert.Equal(t, "s1", a.Master.SceneID)
		require.NotNil(t, a.LastShot)
		assert.Equal(t, "s2", a.LastShot.SceneID)
	})

	t.Run("直前ショットがマスターと同一なら採用しない", func(t *testing.T) {
		a := SelectAnchors(group, groupScenes(3, 1), 2)
		require.NotNil(t, a.Master)
		assert.Nil(t, a.LastShot)
		assert.Len(t, a.Attachments(), 1)
	})

	t.Run("対象シーン自身はアンカーにならない", func(t *testing.T) {
		a := SelectAnchors(group, groupScenes(2, 1), 0)
		assert.False(t, a.HasAnchor())
	})

	t.Run("他グループのシーンは無視する", func(t *testing.T) {
		scenes := groupScenes(3, 2)
		scenes[1].GroupID = "g2"
		a := SelectAnchors(group, scenes, 2)
		assert.False(t, a.HasAnchor())
		assert.Empty(t, a.Instruction())
	})

	t.Run("数値でない番号は数値の番号より後に扱う", func(t *testing.T) {
		scenes := []domain.Scene{
			{ID: "x", GroupID: "g1", SceneNumber: "prologue", GeneratedImage: "x.png"},
			{ID: "s5", GroupID: "g1", SceneNumber: "5", GeneratedImage: "y.png"},
			{ID: "s6", GroupID: "g1", SceneNumber: "6"},
		}
		a := SelectAnchors(group, scenes, 2)
		require.NotNil(t, a.Master)
		assert.Equal(t, "s5", a.Master.SceneID)
		assert.Nil(t, a.LastShot)
	})

	t.Run("アンカーが無くムードボードがある場合", func(t *testing.T) {
		g := &domain.SceneGroup{ID: "g1", ConceptImage: "gs://bucket/mood.jpg"}
		a := SelectAnchors(g, groupScenes(3), 1)
		atts := a.Attachments()
		require.Len(t, atts, 1)
		assert.Equal(t, domain.RoleMoodboard, atts[0].Role)
		assert.Equal(t, "image/jpeg", atts[0].MimeType)
		assert.Empty(t, a.Instruction())
	})

	t.Run("グループが無い場合は何も選ばない", func(t *testing.T) {
		a := SelectAnchors(nil, groupScenes(3, 1, 2), 2)
		assert.False(t, a.HasAnchor())
		assert.Empty(t, a.Attachments())
	})
}
