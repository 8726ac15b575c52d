package llm

// Service names used in errors, logs and metrics.
const (
	ServiceText     = "text"
	ServiceImage    = "image"
	ServiceDownload = "download"
)

const roleUser = "user"

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// TextResponse carries the first content block of a completion. Text is empty
// when the provider answered 2xx without content.
type TextResponse struct {
	ID         string
	Model      string
	Text       string
	StopReason string
	Usage      Usage
}

// ImageResponse is the first generated image. At most one of B64JSON and URL
// is usually set; both empty means the provider returned no image.
type ImageResponse struct {
	B64JSON       string
	URL           string
	RevisedPrompt string
}
