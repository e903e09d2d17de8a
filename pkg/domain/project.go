package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ProjectState はプロジェクト全体の唯一の状態です。
// 部分的な書き換えは行わず、常に新しい ProjectState への置き換えで更新します。
type ProjectState struct {
	Characters  []Character    `json:"characters" yaml:"characters"`
	Products    []Product      `json:"products" yaml:"products"`
	Scenes      []Scene        `json:"scenes" yaml:"scenes"`
	SceneGroups []SceneGroup   `json:"scene_groups" yaml:"scene_groups"`
	Settings    GlobalSettings `json:"settings" yaml:"settings"`
}

// GlobalSettings はプロジェクト全体のデフォルト設定です。
type GlobalSettings struct {
	Style        string    `json:"style" yaml:"style"`
	CustomStyle  string    `json:"custom_style,omitempty" yaml:"custom_style,omitempty"`
	Camera       string    `json:"camera,omitempty" yaml:"camera,omitempty"`
	CustomCamera string    `json:"custom_camera,omitempty" yaml:"custom_camera,omitempty"`
	Lens         string    `json:"lens,omitempty" yaml:"lens,omitempty"`
	CustomLens   string    `json:"custom_lens,omitempty" yaml:"custom_lens,omitempty"`
	AspectRatio  string    `json:"aspect_ratio,omitempty" yaml:"aspect_ratio,omitempty"`
	ModelTier    ModelTier `json:"model_tier,omitempty" yaml:"model_tier,omitempty"`
}

// Scene は1枚の生成画像に対応する物語の単位です。
type Scene struct {
	ID          string `json:"id" yaml:"id"`
	GroupID     string `json:"group_id,omitempty" yaml:"group_id,omitempty"`
	SceneNumber string `json:"scene_number" yaml:"scene_number"` // 表示と連続性の順序付けの両方に使う
	Description string `json:"description" yaml:"description"`

	CharacterIDs []string `json:"character_ids,omitempty" yaml:"character_ids,omitempty"`
	ProductIDs   []string `json:"product_ids,omitempty" yaml:"product_ids,omitempty"`

	GeneratedImage string      `json:"generated_image,omitempty" yaml:"generated_image,omitempty"` // data URI または URL
	IsGenerating   bool        `json:"is_generating,omitempty" yaml:"is_generating,omitempty"`
	Error          string      `json:"error,omitempty" yaml:"error,omitempty"`
	EditHistory    []EditEntry `json:"edit_history,omitempty" yaml:"edit_history,omitempty"`

	LensOverride        string `json:"lens_override,omitempty" yaml:"lens_override,omitempty"`
	CustomLens          string `json:"custom_lens,omitempty" yaml:"custom_lens,omitempty"`
	CameraAngleOverride string `json:"camera_angle_override,omitempty" yaml:"camera_angle_override,omitempty"`
	CustomCameraAngle   string `json:"custom_camera_angle,omitempty" yaml:"custom_camera_angle,omitempty"`
}

// SceneGroup は複数のシーンが共有する1つの物理的な「セット」を表します。
type SceneGroup struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	ConceptImage  string `json:"concept_image,omitempty" yaml:"concept_image,omitempty"`
	StyleOverride string `json:"style_override,omitempty" yaml:"style_override,omitempty"`
	CustomStyle   string `json:"custom_style,omitempty" yaml:"custom_style,omitempty"`
}

// EditEntry は上書きされた過去の生成画像です。
type EditEntry struct {
	ID         string    `json:"id" yaml:"id"`
	Image      string    `json:"image" yaml:"image"`
	Refinement string    `json:"refinement,omitempty" yaml:"refinement,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Number は SceneNumber を整数として返します。
// 数値として解釈できない場合は ok=false となり、順序付けでは常に末尾に扱われます。
func (s Scene) Number() (n int, ok bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s.SceneNumber))
	if err != nil {
		return math.MaxInt, false
	}
	return v, true
}

// HasImage はシーンが生成済み画像を保持しているかを返します。
func (s Scene) HasImage() bool {
	return s.GeneratedImage != ""
}

// IsEligibleForBatch は一括生成の対象（未生成かつ説明文あり）かを返します。
func (s Scene) IsEligibleForBatch() bool {
	return !s.HasImage() && strings.TrimSpace(s.Description) != ""
}

// HasCharacter は指定されたキャラクターIDがシーンで選択されているかを返します。
func (s Scene) HasCharacter(id string) bool {
	for _, cid := range s.CharacterIDs {
		if cid == id {
			return true
		}
	}
	return false
}

// HasStyleOverride はグループが独自のスタイル指定を持っているかを返します。
func (g SceneGroup) HasStyleOverride() bool {
	return strings.TrimSpace(g.StyleOverride) != ""
}
