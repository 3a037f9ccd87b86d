package meshy

type TextTo3DRequest struct {
	Mode         string `json:"mode"`
	Prompt       string `json:"prompt"`
	ArtStyle     string `json:"art_style,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
	ShouldRemesh bool   `json:"should_remesh"`
}

// CreateTaskResponse covers both the task-id answer and the legacy
// direct answer that already carries the model url.
type CreateTaskResponse struct {
	Result       string `json:"result,omitempty"`
	ModelUrl     string `json:"model_url,omitempty"`
	ThumbnailUrl string `json:"thumbnail_url,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
}

type ModelUrls struct {
	Glb  string `json:"glb,omitempty"`
	Fbx  string `json:"fbx,omitempty"`
	Obj  string `json:"obj,omitempty"`
	Usdz string `json:"usdz,omitempty"`
}

type TaskError struct {
	Message string `json:"message"`
}

type Task struct {
	Id           string     `json:"id"`
	Mode         string     `json:"mode"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	ModelUrls    ModelUrls  `json:"model_urls"`
	ThumbnailUrl string     `json:"thumbnail_url"`
	TaskError    *TaskError `json:"task_error,omitempty"`
}

const (
	TaskStatusPending    = "PENDING"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusSucceeded  = "SUCCEEDED"
	TaskStatusFailed     = "FAILED"
	TaskStatusCanceled   = "CANCELED"
	TaskStatusExpired    = "EXPIRED"
)

func (t *Task) Finished() bool {
	switch t.Status {
	case TaskStatusSucceeded, TaskStatusFailed, TaskStatusCanceled, TaskStatusExpired:
		return true
	}
	return false
}
