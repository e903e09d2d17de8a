package director

import (
	"strings"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// DefaultShotFragment は画角が指定されていない場合に使うショット指定です。
const DefaultShotFragment = "cinematic wide shot"

// ShotOption はカメラ・レンズ・画角テーブルの1エントリです。
type ShotOption struct {
	Label    string
	Fragment string
}

var cameraTable = map[string]ShotOption{
	"arri_alexa":    {Label: "ARRI Alexa 65", Fragment: "shot on ARRI Alexa 65, large-format digital cinema sensor, wide dynamic range"},
	"red_v_raptor":  {Label: "RED V-Raptor", Fragment: "shot on RED V-Raptor 8K VV, crisp detail, rich color science"},
	"sony_venice":   {Label: "Sony Venice 2", Fragment: "shot on Sony Venice 2, full-frame sensor, soft highlight roll-off"},
	"imax_film":     {Label: "IMAX 70mm", Fragment: "shot on IMAX 70mm film, immense resolution, epic scale"},
	"film_35mm":     {Label: "35mm Film", Fragment: "shot on 35mm Kodak Vision3 film stock, organic grain, filmic halation"},
	"film_16mm":     {Label: "16mm Film", Fragment: "shot on 16mm film, visible grain, vintage texture"},
	"smartphone":    {Label: "Smartphone", Fragment: "shot on a modern smartphone camera, computational HDR, deep focus"},
	"polaroid":      {Label: "Polaroid", Fragment: "instant polaroid photograph, faded colors, soft vignette"},
	"vhs_camcorder": {Label: "VHS Camcorder", Fragment: "1990s VHS camcorder footage look, scan lines, color bleed"},
}

var lensTable = map[string]ShotOption{
	"14mm":       {Label: "14mm Ultra Wide", Fragment: "14mm ultra-wide lens, exaggerated perspective, expansive field of view"},
	"24mm":       {Label: "24mm Wide", Fragment: "24mm wide-angle lens, environmental framing"},
	"35mm":       {Label: "35mm", Fragment: "35mm lens, natural storytelling perspective"},
	"50mm":       {Label: "50mm Standard", Fragment: "50mm standard lens, human-eye perspective"},
	"85mm":       {Label: "85mm Portrait", Fragment: "85mm portrait lens, flattering compression, creamy bokeh"},
	"135mm":      {Label: "135mm Telephoto", Fragment: "135mm telephoto lens, strong background compression"},
	"anamorphic": {Label: "Anamorphic", Fragment: "anamorphic lens, oval bokeh, horizontal lens flares, 2.39:1 cinematic feel"},
	"macro":      {Label: "Macro", Fragment: "macro lens, extreme close focus, razor-thin depth of field"},
	"fisheye":    {Label: "Fisheye", Fragment: "fisheye lens, strong barrel distortion, 180-degree view"},
	"tilt_shift": {Label: "Tilt-Shift", Fragment: "tilt-shift lens, selective focus plane, miniature effect"},
}

var angleTable = map[string]ShotOption{
	"extreme_close_up":  {Label: "Extreme Close-Up", Fragment: "EXTREME CLOSE-UP shot filling the frame with a single detail"},
	"close_up":          {Label: "Close-Up", Fragment: "CLOSE-UP shot framing the head and shoulders"},
	"medium_close_up":   {Label: "Medium Close-Up", Fragment: "MEDIUM CLOSE-UP shot framed from the chest up"},
	"medium_shot":       {Label: "Medium Shot", Fragment: "MEDIUM SHOT framed from the waist up"},
	"full_shot":         {Label: "Full Shot", Fragment: "FULL SHOT showing subjects head to toe"},
	"wide_shot":         {Label: "Wide Shot", Fragment: "WIDE SHOT establishing the whole environment"},
	"extreme_wide_shot": {Label: "Extreme Wide Shot", Fragment: "EXTREME WIDE SHOT, subjects small within a vast environment"},
	"low_angle":         {Label: "Low Angle", Fragment: "LOW ANGLE shot looking up at the subject"},
	"high_angle":        {Label: "High Angle", Fragment: "HIGH ANGLE shot looking down at the subject"},
	"birds_eye":         {Label: "Bird's-Eye View", Fragment: "BIRD'S-EYE VIEW, camera directly overhead"},
	"dutch_angle":       {Label: "Dutch Angle", Fragment: "DUTCH ANGLE, tilted horizon for unease"},
	"over_the_shoulder": {Label: "Over the Shoulder", Fragment: "OVER-THE-SHOULDER shot framing one subject past another"},
	"pov":               {Label: "Point of View", Fragment: "POINT-OF-VIEW shot through the eyes of the subject"},
}

// Shot は1つの軸（カメラ・レンズ・画角）の解決結果です。
type Shot struct {
	Value    string
	Label    string
	Fragment string
}

// Cinematography はシーンに適用される撮影設定です。
type Cinematography struct {
	Camera Shot
	Lens   Shot
	Angle  Shot
}

// ResolveCinematography はカメラ・レンズ・画角をそれぞれのフォールバック順で解決します。
//   - カメラ: プロジェクト全体の設定のみ
//   - レンズ: シーンの上書き → プロジェクト既定。custom の場合はシーン → プロジェクトのカスタム文字列
//   - 画角: シーンの上書きのみ（未指定は空）
func ResolveCinematography(settings domain.GlobalSettings, scene domain.Scene) Cinematography {
	lens := scene.LensOverride
	if strings.TrimSpace(lens) == "" {
		lens = settings.Lens
	}
	customLens := scene.CustomLens
	if strings.TrimSpace(customLens) == "" {
		customLens = settings.CustomLens
	}

	return Cinematography{
		Camera: resolveShot(cameraTable, settings.Camera, settings.CustomCamera),
		Lens:   resolveShot(lensTable, lens, customLens),
		Angle:  resolveShot(angleTable, scene.CameraAngleOverride, scene.CustomCameraAngle),
	}
}

// ShotFragment は画角の断片を返し、未指定の場合は既定のワイドショットを返します。
func (c Cinematography) ShotFragment() string {
	if c.Angle.Fragment != "" {
		return c.Angle.Fragment
	}
	return DefaultShotFragment
}

// TechnicalFragments はカメラとレンズの断片を空要素を除いて返します。
func (c Cinematography) TechnicalFragments() []string {
	var parts []string
	for _, f := range []string{c.Camera.Fragment, c.Lens.Fragment} {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return parts
}

func resolveShot(table map[string]ShotOption, value, custom string) Shot {
	value = strings.TrimSpace(value)
	if value == "" {
		return Shot{}
	}
	if value == CustomValue {
		return Shot{Value: value, Label: "Custom", Fragment: strings.TrimSpace(custom)}
	}
	opt, ok := table[value]
	if !ok {
		return Shot{Value: value}
	}
	return Shot{Value: value, Label: opt.Label, Fragment: opt.Fragment}
}
