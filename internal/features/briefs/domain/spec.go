package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is the tier of an MVP feature.
type Priority string

const (
	PriorityMustHave   Priority = "Must Have"
	PriorityShouldHave Priority = "Should Have"
	PriorityNiceToHave Priority = "Nice to Have"
)

// Known reports whether p is one of the three documented tiers.
func (p Priority) Known() bool {
	switch p {
	case PriorityMustHave, PriorityShouldHave, PriorityNiceToHave:
		return true
	}
	return false
}

// Severity grades a project risk.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

func (s Severity) Known() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// GeneratedSpec is the structured engineering specification returned by the
// model. Every section is optional.
type GeneratedSpec struct {
	Summary          string        `json:"summary,omitempty"`
	ProblemStatement string        `json:"problem_statement,omitempty"`
	MVPFeatures      []MVPFeature  `json:"mvp_features,omitempty"`
	UserStories      []UserStory   `json:"user_stories,omitempty"`
	TechStack        *TechStack    `json:"tech_stack,omitempty"`
	DataModels       []DataModel   `json:"data_models,omitempty"`
	APIEndpoints     []APIEndpoint `json:"api_endpoints,omitempty"`
	Risks            []Risk        `json:"risks,omitempty"`
	Milestones       []Milestone   `json:"milestones,omitempty"`
	SuccessMetrics   []string      `json:"success_metrics,omitempty"`
	OutOfScope       []string      `json:"out_of_scope,omitempty"`
}

type MVPFeature struct {
	Feature     string   `json:"feature"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

type UserStory struct {
	Role    string `json:"role"`
	Action  string `json:"action"`
	Benefit string `json:"benefit"`
}

// TechChoice is one technology pick and the reason for it.
type TechChoice struct {
	Technology string `json:"technology"`
	Reason     string `json:"reason"`
}

type TechStack struct {
	Frontend *TechChoice  `json:"frontend,omitempty"`
	Backend  *TechChoice  `json:"backend,omitempty"`
	Database *TechChoice  `json:"database,omitempty"`
	Hosting  *TechChoice  `json:"hosting,omitempty"`
	Extras   []TechChoice `json:"extras,omitempty"`
}

// Categories returns the populated named categories in display order.
func (t *TechStack) Categories() []NamedTechChoice {
	if t == nil {
		return nil
	}
	var out []NamedTechChoice
	for _, c := range []NamedTechChoice{
		{"Frontend", t.Frontend},
		{"Backend", t.Backend},
		{"Database", t.Database},
		{"Hosting", t.Hosting},
	} {
		if c.Choice != nil {
			out = append(out, c)
		}
	}
	return out
}

type NamedTechChoice struct {
	Category string
	Choice   *TechChoice
}

type DataModel struct {
	Model  string      `json:"model"`
	Fields []DataField `json:"fields,omitempty"`
}

type DataField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type APIEndpoint struct {
	Method       string `json:"method"`
	Path         string `json:"path"`
	Description  string `json:"description"`
	AuthRequired bool   `json:"auth_required"`
}

type Risk struct {
	Risk       string   `json:"risk"`
	Severity   Severity `json:"severity"`
	Mitigation string   `json:"mitigation"`
}

type Milestone struct {
	Phase        string   `json:"phase"`
	Duration     string   `json:"duration"`
	Deliverables []string `json:"deliverables,omitempty"`
}

// IsEmpty reports whether the spec carries no section at all.
func (s GeneratedSpec) IsEmpty() bool {
	return s.Summary == "" && s.ProblemStatement == "" &&
		len(s.MVPFeatures) == 0 && len(s.UserStories) == 0 &&
		s.TechStack == nil && len(s.DataModels) == 0 &&
		len(s.APIEndpoints) == 0 && len(s.Risks) == 0 &&
		len(s.Milestones) == 0 && len(s.SuccessMetrics) == 0 &&
		len(s.OutOfScope) == 0
}

// PrettyJSON is the two-space indented serialization used for "copy as JSON".
func (s GeneratedSpec) PrettyJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal generated spec: %w", err)
	}
	return string(data), nil
}

// DecodeGeneratedSpec parses the raw model output. A surrounding markdown
// code fence is tolerated. Any JSON object is accepted; loosely typed
// fields are coerced.
func DecodeGeneratedSpec(raw string) (GeneratedSpec, error) {
	body := []byte(stripCodeFence(raw))
	if !json.Valid(body) {
		var v any
		err := json.Unmarshal(body, &v)
		return GeneratedSpec{}, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if _, ok := objectFields(body); !ok {
		return GeneratedSpec{}, ErrInvalidSpec
	}
	var spec GeneratedSpec
	if err := json.Unmarshal(body, &spec); err != nil {
		return GeneratedSpec{}, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	return spec, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(s[3:], "```")
	// drop the info string ("json") on the opening fence line
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}
