package send

import "context"

// MediaKind is the provider-side media classification for outbound sends.
type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaDocument MediaKind = "document"
	MediaVideo    MediaKind = "video"
	MediaAudio    MediaKind = "audio"
)

type TextRequest struct {
	Phone   string `json:"phone" form:"phone"`
	Message string `json:"message" form:"message"`
}

type TemplateRequest struct {
	Phone        string `json:"phone" form:"phone"`
	TemplateName string `json:"template_name" form:"template_name"`
	Language     string `json:"language" form:"language"`
}

type MediaRequest struct {
	Phone    string    `json:"phone" form:"phone"`
	MediaURL string    `json:"media_url" form:"media_url"`
	Kind     MediaKind `json:"kind" form:"kind"`
	Caption  string    `json:"caption" form:"caption"`
}

// Response reports the stored message row and the id the provider assigned.
type Response struct {
	MessageID         uint   `json:"message_id"`
	ProviderMessageID string `json:"provider_message_id,omitempty"`
	Status            string `json:"status"`
}

type ISendUsecase interface {
	SendText(ctx context.Context, req TextRequest) (Response, error)
	SendTemplate(ctx context.Context, req TemplateRequest) (Response, error)
	SendMedia(ctx context.Context, req MediaRequest) (Response, error)
}
