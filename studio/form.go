package studio

import (
	"sync"
)

type Form interface {
	Values() DesignRequest
}

// FormState holds the current field values; edits may race with submits.
type FormState struct {
	mutex  sync.RWMutex
	values DesignRequest
}

func NewFormState(values DesignRequest) *FormState {
	return &FormState{values: values}
}

func (f *FormState) Set(values DesignRequest) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.values = values
}

func (f *FormState) Values() DesignRequest {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.values
}
