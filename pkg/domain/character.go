package domain

import (
	"fmt"
	"strings"
)

// Character は再利用可能な登場人物の定義です。
type Character struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Views       CharacterViews `json:"views" yaml:"views"`
	MasterImage string         `json:"master_image,omitempty" yaml:"master_image,omitempty"` // 個別ビューが無い場合の唯一の参照画像
}

// CharacterViews はキャラクターの同一性を固定するためのビュー画像です。
type CharacterViews struct {
	Face string `json:"face,omitempty" yaml:"face,omitempty"`
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
	Side string `json:"side,omitempty" yaml:"side,omitempty"`
	Back string `json:"back,omitempty" yaml:"back,omitempty"`
}

// Product はシーンに登場させる製品の定義です。
type Product struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Views       ProductViews `json:"views" yaml:"views"`
	MasterImage string       `json:"master_image,omitempty" yaml:"master_image,omitempty"`
}

// ProductViews は製品のビュー画像です。
type ProductViews struct {
	Front string `json:"front,omitempty" yaml:"front,omitempty"`
	Back  string `json:"back,omitempty" yaml:"back,omitempty"`
	Left  string `json:"left,omitempty" yaml:"left,omitempty"`
	Right string `json:"right,omitempty" yaml:"right,omitempty"`
	Top   string `json:"top,omitempty" yaml:"top,omitempty"`
}

// HasAny は4つの個別ビューのいずれかが存在するかを返します。
func (v CharacterViews) HasAny() bool {
	return v.Face != "" || v.Body != "" || v.Side != "" || v.Back != ""
}

// HasAny は5つの個別ビューのいずれかが存在するかを返します。
func (v ProductViews) HasAny() bool {
	return v.Front != "" || v.Back != "" || v.Left != "" || v.Right != "" || v.Top != ""
}

// String はキャラクターの情報を文字列で返します。
func (c Character) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}

// DisplayName は参照ラベルに使う大文字の名前を返します。名前が空の場合は ID を使います。
func (c Character) DisplayName() string {
	return displayName(c.Name, c.ID)
}

// DisplayName は参照ラベルに使う大文字の名前を返します。
func (p Product) DisplayName() string {
	return displayName(p.Name, p.ID)
}

func displayName(name, id string) string {
	if n := strings.TrimSpace(name); n != "" {
		return strings.ToUpper(n)
	}
	return strings.ToUpper(id)
}
