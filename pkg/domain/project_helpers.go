package domain

import (
	"fmt"
	"slices"
)

// Clone は ProjectState のディープコピーを返します。
// 返された値を変更しても元の状態には影響しません。
func (p *ProjectState) Clone() *ProjectState {
	if p == nil {
		return &ProjectState{}
	}
	c := &ProjectState{
		Characters:  slices.Clone(p.Characters),
		Products:    slices.Clone(p.Products),
		Scenes:      make([]Scene, len(p.Scenes)),
		SceneGroups: slices.Clone(p.SceneGroups),
		Settings:    p.Settings,
	}
	for i, s := range p.Scenes {
		c.Scenes[i] = s.Clone()
	}
	return c
}

// Clone はシーンのスライスを共有しないコピーを返します。
func (s Scene) Clone() Scene {
	s.CharacterIDs = slices.Clone(s.CharacterIDs)
	s.ProductIDs = slices.Clone(s.ProductIDs)
	s.EditHistory = slices.Clone(s.EditHistory)
	return s
}

// SceneIndex は指定IDのシーンの配列上の位置を返します。見つからない場合は -1 です。
func (p *ProjectState) SceneIndex(sceneID string) int {
	if p == nil {
		return -1
	}
	return slices.IndexFunc(p.Scenes, func(s Scene) bool { return s.ID == sceneID })
}

// FindScene は指定IDのシーンを返します。
func (p *ProjectState) FindScene(sceneID string) (Scene, int, error) {
	idx := p.SceneIndex(sceneID)
	if idx < 0 {
		return Scene{}, -1, fmt.Errorf("%w: %s", ErrSceneNotFound, sceneID)
	}
	return p.Scenes[idx], idx, nil
}

// FindGroup は指定IDのグループを返します。
func (p *ProjectState) FindGroup(groupID string) (SceneGroup, bool) {
	if p == nil || groupID == "" {
		return SceneGroup{}, false
	}
	for _, g := range p.SceneGroups {
		if g.ID == groupID {
			return g, true
		}
	}
	return SceneGroup{}, false
}

// FindCharacter は指定IDのキャラクターを返します。
func (p *ProjectState) FindCharacter(id string) (Character, bool) {
	for _, c := range p.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// FindProduct は指定IDの製品を返します。
func (p *ProjectState) FindProduct(id string) (Product, bool) {
	for _, pr := range p.Products {
		if pr.ID == id {
			return pr, true
		}
	}
	return Product{}, false
}

// UpdateScene は指定シーンに fn を適用した新しい ProjectState を返します。
// レシーバ自身は変更されません。
func (p *ProjectState) UpdateScene(sceneID string, fn func(Scene) Scene) (*ProjectState, error) {
	idx := p.SceneIndex(sceneID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, sceneID)
	}
	next := p.Clone()
	next.Scenes[idx] = fn(next.Scenes[idx])
	return next, nil
}

// EligibleSceneIDs は一括生成の対象となるシーンIDを配列順に返します。
func (p *ProjectState) EligibleSceneIDs() []string {
	if p == nil {
		return nil
	}
	ids := make([]string, 0, len(p.Scenes))
	for _, s := range p.Scenes {
		if s.IsEligibleForBatch() {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
