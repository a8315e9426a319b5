package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errNotObject = errors.New("expected a JSON object")

// Model output is loosely typed: a duration may arrive as 4, a flag as
// "yes", a list as a single string. The decoders below coerce such values
// instead of rejecting the whole spec. A section of the wrong shape is
// dropped.

func (s *GeneratedSpec) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	fields, ok := objectFields(data)
	if !ok {
		return ErrInvalidSpec
	}
	*s = GeneratedSpec{
		Summary:          textOf(fields["summary"]),
		ProblemStatement: textOf(fields["problem_statement"]),
		MVPFeatures:      listOf[MVPFeature](fields["mvp_features"]),
		UserStories:      listOf[UserStory](fields["user_stories"]),
		DataModels:       listOf[DataModel](fields["data_models"]),
		APIEndpoints:     listOf[APIEndpoint](fields["api_endpoints"]),
		Risks:            listOf[Risk](fields["risks"]),
		Milestones:       listOf[Milestone](fields["milestones"]),
		SuccessMetrics:   textsOf(fields["success_metrics"]),
		OutOfScope:       textsOf(fields["out_of_scope"]),
	}
	if raw, ok := fields["tech_stack"]; ok && !isNull(raw) {
		var stack TechStack
		if err := json.Unmarshal(raw, &stack); err == nil {
			s.TechStack = &stack
		}
	}
	return nil
}

func (f *MVPFeature) UnmarshalJSON(data []byte) error {
	fields, ok := objectFields(data)
	if !ok {
		*f = MVPFeature{Feature: textOf(data)}
		return nil
	}
	*f = MVPFeature{
		Feature:     textOf(fields["feature"]),
		Description: textOf(fields["description"]),
		Priority:    Priority(textOf(fields["priority"])),
	}
	return nil
}

func (u *UserStory) UnmarshalJSON(data []byte) error {
	fields, ok := objectFields(data)
	if !ok {
		*u = UserStory{Action: textOf(data)}
		return nil
	}
	*u = UserStory{
		Role:    textOf(fields["role"]),
		Action:  textOf(fields["action"]),
		Benefit: textOf(fields["benefit"]),
	}
	return nil
}

func (c *TechChoice) UnmarshalJSON(data []byte) error {
	fields, ok := objectFields(data)
	if !ok {
		*c = TechChoice{Technology: textOf(data)}
		return nil
	}
	*c = TechChoice{
		Technology: textOf(fields["technology"]),
		Reason:     textOf(fields["reason"]),
	}
	return nil
}

func (t *TechStack) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	fields, ok := objectFields(data)
	if !ok {
		return errNotObject
	}
	*t = TechStack{
		Frontend: choiceOf(fields["frontend"]),
		Backend:  choiceOf(fields["backend"]),
		Database: choiceOf(fields["database"]),
		Hosting:  choiceOf(fields["hosting"]),
		Extras:   listOf[TechChoice](fields["extras"]),
	}
	return nil
}

func (m *DataModel) UnmarshalJSON(data []byte) error {
	fields, ok := objectFields(data)
	if !ok {
		*m = DataModel{Model: textOf(data)}
		return nil
	}
	*m = DataModel{
		Model:  textOf(fields["model"]),
		Fields: listOf[DataField](fields["fields"]),
	}
	return nil
}

func (f *DataField) UnmarshalJSON(data []byte) error {
	fields, ok := objectFields(data)
	if !ok {
		*f = DataField{Name: textOf(data)}
		return nil
	}
	*f = DataField{
		Name:        textOf(fields["name"]),
		Type:        textOf(fields["type"]),
		Description: textOf(fields["description"]),
	}
	return nil
}

func (e *APIEndpoint) UnmarshalJSON(data []byte) error {
	fields, ok := objectFields(data)
	if !ok {
		*e = APIEndpoint{Path: textOf(data)}
		return nil
	}
	*e = APIEndpoint{
		Method:       textOf(fields["method"]),
		Path:         textOf(fields["path"]),
		Description:  textOf(fields["description"]),
		AuthRequired: flagOf(fields["auth_required"]),
	}
	return nil
}

func (r *Risk) UnmarshalJSON(data []byte) error {
	fields, ok := objectFields(data)
	if !ok {
		*r = Risk{Risk: textOf(data)}
		return nil
	}
	*r = Risk{
		Risk:       textOf(fields["risk"]),
		Severity:   Severity(textOf(fields["severity"])),
		Mitigation: textOf(fields["mitigation"]),
	}
	return nil
}

func (m *Milestone) UnmarshalJSON(data []byte) error {
	fields, ok := objectFields(data)
	if !ok {
		*m = Milestone{Phase: textOf(data)}
		return nil
	}
	*m = Milestone{
		Phase:        textOf(fields["phase"]),
		Duration:     textOf(fields["duration"]),
		Deliverables: textsOf(fields["deliverables"]),
	}
	return nil
}

func isNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}

func objectFields(raw []byte) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// textOf renders any JSON value as text. Numbers and booleans keep their
// literal form; objects and arrays are kept as compact JSON.
func textOf(raw []byte) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}

// textsOf reads a list of strings. A lone scalar becomes a one-item list.
func textsOf(raw []byte) []string {
	if isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := textOf(raw); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, item := range items {
		if s := textOf(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// listOf decodes an array of T. A lone object or string becomes a one-item
// list, and elements that fail to decode are skipped.
func listOf[T any](raw []byte) []T {
	if isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		items = []json.RawMessage{raw}
	}
	var out []T
	for _, item := range items {
		if isNull(item) {
			continue
		}
		var v T
		if err := json.Unmarshal(item, &v); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func choiceOf(raw []byte) *TechChoice {
	if isNull(raw) {
		return nil
	}
	var c TechChoice
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil
	}
	return &c
}

// flagOf accepts true, "yes", "required" or a non-zero number as set.
func flagOf(raw []byte) bool {
	if isNull(raw) {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	switch s := strings.ToLower(strings.TrimSpace(textOf(raw))); s {
	case "yes", "y", "required", "on":
		return true
	default:
		v, _ := strconv.ParseBool(s)
		return v
	}
}
