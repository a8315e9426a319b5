package application

import (
	"fmt"
	"strings"

	"specforge/internal/features/briefs/domain"
	configdomain "specforge/internal/features/config/domain"
)

const specSchema = `{
  "summary": "2-3 sentence executive summary of the product",
  "problem_statement": "What specific problem this solves",
  "mvp_features": [
    {"feature": "Feature name", "description": "What it does", "priority": "Must Have | Should Have | Nice to Have"}
  ],
  "user_stories": [
    {"role": "As a [user type]", "action": "I want to [action]", "benefit": "So that [benefit]"}
  ],
  "tech_stack": {
    "frontend": {"technology": "name", "reason": "why this choice"},
    "backend": {"technology": "name", "reason": "why this choice"},
    "database": {"technology": "name", "reason": "why this choice"},
    "hosting": {"technology": "name", "reason": "why this choice"},
    "extras": [{"technology": "name", "reason": "why"}]
  },
  "data_models": [
    {
      "model": "ModelName",
      "fields": [{"name": "field_name", "type": "data_type", "description": "what it stores"}]
    }
  ],
  "api_endpoints": [
    {"method": "GET/POST/PUT/DELETE", "path": "/api/endpoint", "description": "what it does", "auth_required": true}
  ],
  "risks": [
    {"risk": "Risk description", "severity": "High | Medium | Low", "mitigation": "How to handle it"}
  ],
  "milestones": [
    {"phase": "Phase name", "duration": "X weeks", "deliverables": ["item1", "item2"]}
  ],
  "success_metrics": ["metric 1", "metric 2", "metric 3"],
  "out_of_scope": ["thing not included in MVP 1", "thing not included in MVP 2"]
}`

// buildUserPrompt renders the per-brief prompt sent after the system prompt.
func buildUserPrompt(req *domain.CreateBriefRequest, items configdomain.ItemRange) string {
	extra := strings.TrimSpace(req.ExtraContext)
	if extra == "" {
		extra = "None provided"
	}

	var b strings.Builder
	b.WriteString("Generate a comprehensive engineering spec for the following project:\n\n")
	fmt.Fprintf(&b, "App Name: %s\n", req.AppName)
	fmt.Fprintf(&b, "Description: %s\n", req.Description)
	fmt.Fprintf(&b, "Target Users: %s\n", req.TargetUsers)
	fmt.Fprintf(&b, "Extra Context: %s\n\n", extra)
	b.WriteString("Return a JSON object with exactly this structure:\n")
	b.WriteString(specSchema)
	b.WriteString("\n\n")
	if items.Min == items.Max {
		fmt.Fprintf(&b, "Generate %d items per array section. ", items.Min)
	} else {
		fmt.Fprintf(&b, "Generate %d-%d items per array section. ", items.Min, items.Max)
	}
	b.WriteString("Be thorough but realistic.")
	return b.String()
}
