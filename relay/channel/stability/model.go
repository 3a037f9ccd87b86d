package stability

// SdResponse is the JSON body returned when the upstream ignores
// "Accept: image/*" and answers with an encoded image.
type SdResponse struct {
	Image        string `json:"image,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
	Seed         int64  `json:"seed,omitempty"`
	Id           string `json:"id,omitempty"`
}

type SDErr struct {
	Errors []string `json:"errors"`
	ID     string   `json:"id"`
	Name   string   `json:"name"`
}

const (
	FinishReasonSuccess         = "SUCCESS"
	FinishReasonContentFiltered = "CONTENT_FILTERED"
)
