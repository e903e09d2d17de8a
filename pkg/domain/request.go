package domain

// AttachmentRole は参照画像が生成リクエスト内で担う役割です。
type AttachmentRole string

const (
	RolePrimary AttachmentRole = "PRIMARY"

	RoleFace AttachmentRole = "FACE"
	RoleBody AttachmentRole = "BODY"
	RoleSide AttachmentRole = "SIDE"
	RoleBack AttachmentRole = "BACK"

	RoleFront AttachmentRole = "FRONT"
	RoleLeft  AttachmentRole = "LEFT"
	RoleRight AttachmentRole = "RIGHT"
	RoleTop   AttachmentRole = "TOP"

	RoleSetLock   AttachmentRole = "SET LOCK"
	RoleLastShot  AttachmentRole = "LAST SHOT"
	RoleMoodboard AttachmentRole = "MOODBOARD REFERENCE"
)

// Attachment はラベルと画像の組です。プロバイダにはラベル、画像の順で渡されます。
type Attachment struct {
	Role     AttachmentRole `json:"role"`
	Label    string         `json:"label"`
	Image    string         `json:"image"` // data URI / https / gs:// / s3:// / ローカルパス
	MimeType string         `json:"mime_type,omitempty"`
}

// GenerationRequest は1回の画像生成に必要なすべてを保持します。呼び出しごとに作り直し、保存しません。
type GenerationRequest struct {
	SceneID     string       `json:"scene_id"`
	Model       string       `json:"model"`
	PromptText  string       `json:"prompt_text"`
	AspectRatio string       `json:"aspect_ratio,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

// RenderedImage はプロバイダから返された1枚の画像です。
type RenderedImage struct {
	Data     []byte
	MimeType string
}
