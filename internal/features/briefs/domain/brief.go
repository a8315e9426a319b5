package domain

import (
	"strings"
	"time"
)

// Brief is a stored submission plus the specification generated for it.
type Brief struct {
	ID            uint          `json:"id"`
	AppName       string        `json:"app_name"`
	Description   string        `json:"description"`
	TargetUsers   string        `json:"target_users"`
	ExtraContext  string        `json:"extra_context"`
	GeneratedSpec GeneratedSpec `json:"generated_spec"`
	CreatedAt     time.Time     `json:"created_at"`
}

// CreateBriefRequest is the body accepted by POST /api/briefs.
type CreateBriefRequest struct {
	AppName      string `json:"app_name"`
	Description  string `json:"description"`
	TargetUsers  string `json:"target_users"`
	ExtraContext string `json:"extra_context"`
}

// MissingField returns the JSON name of the first required field that is
// empty, checked in form order, or "" when all are present.
func (r CreateBriefRequest) MissingField() string {
	required := []struct {
		name  string
		value string
	}{
		{"app_name", r.AppName},
		{"description", r.Description},
		{"target_users", r.TargetUsers},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

// Validate returns a *MissingFieldError, which matches ErrMissingField, for
// the first empty required field.
func (r CreateBriefRequest) Validate() error {
	if field := r.MissingField(); field != "" {
		return &MissingFieldError{Field: field}
	}
	return nil
}
