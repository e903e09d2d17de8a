package domain

import (
	"errors"
	"testing"
)

func sampleState() *ProjectState {
	return &ProjectState{
		Characters: []Character{{ID: "hero", Name: "Aki"}},
		Scenes: []Scene{
			{ID: "s1", SceneNumber: "1", Description: "門の前", CharacterIDs: []string{"hero"}},
			{ID: "s2", SceneNumber: "2", Description: "  ", GeneratedImage: ""},
			{ID: "s3", SceneNumber: "3", Description: "夜の街", GeneratedImage: "https://example.com/3.png"},
		},
	}
}

func TestScene_Number(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   int
		wantOK bool
	}{
		{name: "整数", number: "12", want: 12, wantOK: true},
		{name: "前後の空白は無視", number: " 3 ", want: 3, wantOK: true},
		{name: "数値でない", number: "3a", wantOK: false},
		{name: "空文字列", number: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Scene{SceneNumber: tt.number}.Number()
			if ok != tt.wantOK {
				t.Fatalf("ok: 期待値 %v, 実際の値 %v", tt.wantOK, ok)
			}
			if ok && got != tt.want {
				t.Errorf("期待値 %d, 実際の値 %d", tt.want, got)
			}
		})
	}
}

func TestProjectState_UpdateScene(t *testing.T) {
	t.Run("元の状態を変更せずに新しい状態を返すこと", func(t *testing.T) {
		orig := sampleState()
		next, err := orig.UpdateScene("s1", func(s Scene) Scene {
			s.IsGenerating = true
			s.CharacterIDs = append(s.CharacterIDs, "villain")
			return s
		})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !next.Scenes[0].IsGenerating {
			t.Error("新しい状態に変更が反映されていません")
		}
		if orig.Scenes[0].IsGenerating {
			t.Error("元の状態が変更されています")
		}
		if len(orig.Scenes[0].CharacterIDs) != 1 {
			t.Errorf("元のスライスが共有されています: %v", orig.Scenes[0].CharacterIDs)
		}
	})

	t.Run("存在しないシーンは ErrSceneNotFound を返すこと", func(t *testing.T) {
		_, err := sampleState().UpdateScene("missing", func(s Scene) Scene { return s })
		if !errors.Is(err, ErrSceneNotFound) {
			t.Errorf("ErrSceneNotFound を期待しましたが %v でした", err)
		}
	})
}

func TestProjectState_EligibleSceneIDs(t *testing.T) {
	got := sampleState().EligibleSceneIDs()
	if len(got) != 1 || got[0] != "s1" {
		t.Errorf("期待値 [s1], 実際の値 %v", got)
	}
}

func TestCapabilityFor(t *testing.T) {
	tests := []struct {
		tier ModelTier
		want Capability
	}{
		{tier: TierStandard, want: Capability{MaxCharacterViews: 2, MaxProductViews: 2}},
		{tier: TierHigh, want: Capability{MaxCharacterViews: 4, MaxProductViews: 4}},
		{tier: "HIGH", want: Capability{MaxCharacterViews: 4, MaxProductViews: 4}},
		{tier: "unknown", want: Capability{MaxCharacterViews: 2, MaxProductViews: 2}},
		{tier: "", want: Capability{MaxCharacterViews: 2, MaxProductViews: 2}},
	}
	for _, tt := range tests {
		if got := CapabilityFor(tt.tier); got != tt.want {
			t.Errorf("CapabilityFor(%q) = %+v, 期待値 %+v", tt.tier, got, tt.want)
		}
	}
}

func TestDataURI(t *testing.T) {
	t.Run("エンコードとデコードで元のデータに戻ること", func(t *testing.T) {
		uri := EncodeDataURI([]byte{0x89, 0x50, 0x4e, 0x47}, "image/png")
		data, mimeType, err := DecodeDataURI(uri)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if mimeType != "image/png" || len(data) != 4 {
			t.Errorf("mime=%s len=%d", mimeType, len(data))
		}
	})

	t.Run("data URI 以外はエラーになること", func(t *testing.T) {
		if _, _, err := DecodeDataURI("https://example.com/a.png"); err == nil {
			t.Error("エラーを期待しました")
		}
	})

	t.Run("MimeTypeOf は data URI と拡張子の両方を判定すること", func(t *testing.T) {
		if got := MimeTypeOf("data:image/webp;base64,AAAA"); got != "image/webp" {
			t.Errorf("期待値 image/webp, 実際の値 %s", got)
		}
		if got := MimeTypeOf("gs://bucket/a.png"); got != "image/png" {
			t.Errorf("期待値 image/png, 実際の値 %s", got)
		}
	})
}

func TestCharacter_DisplayName(t *testing.T) {
	if got := (Character{ID: "hero", Name: "Aki"}).DisplayName(); got != "AKI" {
		t.Errorf("期待値 AKI, 実際の値 %s", got)
	}
	if got := (Character{ID: "hero"}).DisplayName(); got != "HERO" {
		t.Errorf("期待値 HERO, 実際の値 %s", got)
	}
}
