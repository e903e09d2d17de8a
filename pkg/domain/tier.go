package domain

import "strings"

// ModelTier は画像生成プロバイダの能力クラスです。
type ModelTier string

const (
	TierStandard ModelTier = "standard"
	TierHigh     ModelTier = "high"
)

// Capability は1回の生成で添付できる参照ビューの上限です。
type Capability struct {
	MaxCharacterViews int
	MaxProductViews   int
}

var capabilities = map[ModelTier]Capability{
	TierStandard: {MaxCharacterViews: 2, MaxProductViews: 2},
	TierHigh:     {MaxCharacterViews: 4, MaxProductViews: 4},
}

// Normalize は未知または空のティアを standard に丸めます。
func (t ModelTier) Normalize() ModelTier {
	tier := ModelTier(strings.ToLower(strings.TrimSpace(string(t))))
	if _, ok := capabilities[tier]; ok {
		return tier
	}
	return TierStandard
}

// CapabilityFor はティアに対応する Capability を返します。
func CapabilityFor(t ModelTier) Capability {
	return capabilities[t.Normalize()]
}
