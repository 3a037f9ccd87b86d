package model

// Error is rendered to clients as {"error": "..."}.
type Error struct {
	Message string `json:"error"`
	Type    string `json:"-"`
}

type ErrorWithStatusCode struct {
	Error
	StatusCode int `json:"-"`
}

func (e *ErrorWithStatusCode) String() string {
	if e == nil {
		return ""
	}
	return e.Message
}
