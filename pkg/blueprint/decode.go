package blueprint

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/blueprint/pkg/graph"
)

// Decode parses a blueprint document as produced by a language model.
// Such documents are loosely typed: sections may be missing or of the wrong
// type, list items may be strings instead of objects and numbers may be
// quoted. Decode keeps every field it can read and drops the rest, then
// normalizes the result. It fails only when data is not a JSON object.
func Decode(data []byte) (Blueprint, error) {
	var root object
	if err := json.Unmarshal(data, &root); err != nil {
		return Blueprint{}, fmt.Errorf("decode blueprint: %w", err)
	}
	// Some backends wrap the document as {"blueprint": {...}}.
	if inner := root.object("blueprint"); inner != nil && root.object("summary") == nil {
		root = inner
	}

	var b Blueprint
	if s := root.object("summary"); s != nil {
		b.Summary = Summary{
			ProblemStatement: s.str("problem_statement"),
			TargetUsers:      s.strs("target_users"),
			Objectives:       s.strs("objectives"),
			Scope:            s.str("scope"),
			WhatThisMeans:    s.str("what_this_means"),
			WhyThisMatters:   s.str("why_this_matters"),
		}
	}
	if s := root.object("features"); s != nil {
		for _, f := range s.objects("features") {
			b.Features.Features = append(b.Features.Features, Feature{
				Name:        f.str("feature_name"),
				WhatItDoes:  f.str("what_it_does"),
				WhyItExists: f.str("why_it_exists"),
				HowItHelps:  f.str("how_it_helps"),
				Limitations: f.str("limitations"),
			})
		}
	}
	if s := root.object("feasibility"); s != nil {
		b.Feasibility = Feasibility{
			Level:          s.str("feasibility_level"),
			Explanation:    s.str("feasibility_explanation"),
			Strengths:      s.strs("strengths"),
			Risks:          s.strs("risks"),
			WhyThisMatters: s.str("why_this_matters"),
		}
	}
	if s := root.object("system_flow"); s != nil {
		b.SystemFlow.Title = s.str("flow_title")
		b.SystemFlow.Summary = s.str("summary")
		for _, st := range s.objects("steps") {
			b.SystemFlow.Steps = append(b.SystemFlow.Steps, Step{
				Number:      st.number("step_number"),
				Actor:       st.str("actor"),
				Action:      st.str("action"),
				Explanation: st.str("explanation"),
			})
		}
	}
	if s := root.object("tech_stack"); s != nil {
		for _, t := range s.objects("primary_stack") {
			b.TechStack.Primary = append(b.TechStack.Primary, Technology{
				Category:      t.str("category"),
				Technology:    t.str("technology"),
				Justification: t.str("justification"),
				SkillLevel:    t.str("skill_level"),
			})
		}
		for _, t := range s.objects("backup_stack") {
			b.TechStack.Backup = append(b.TechStack.Backup, Backup{
				Category:   t.str("category"),
				Technology: t.str("technology"),
				WhyBackup:  t.str("why_backup"),
			})
		}
	}
	if s := root.object("comparison"); s != nil {
		for _, sol := range s.objects("existing_solutions") {
			b.Comparison.ExistingSolutions = append(b.Comparison.ExistingSolutions, Solution{
				Name:        sol.str("solution_name"),
				WhatItDoes:  sol.str("what_it_does"),
				Limitations: sol.str("limitations"),
			})
		}
		b.Comparison.UniqueAspects = s.strs("unique_aspects")
		b.Comparison.StillValuable = s.strs("why_this_project_is_still_valuable")
		if b.Comparison.StillValuable == nil {
			b.Comparison.StillValuable = s.strs("why_still_valuable")
		}
		b.Comparison.SummaryInsight = s.str("summary_insight")
	}
	if s := root.object("viva"); s != nil {
		b.Viva = Viva{
			ProjectOverview:  s.str("project_overview_explanation"),
			ProblemStatement: s.str("problem_statement_explanation"),
			Architecture:     s.str("architecture_explanation"),
			UniqueFeature:    s.str("unique_feature_explanation"),
		}
		for _, q := range s.objects("common_questions") {
			b.Viva.CommonQuestions = append(b.Viva.CommonQuestions, CommonQuestion{
				Question:        q.str("question"),
				SuggestedAnswer: q.str("suggested_answer"),
				WhyAsked:        q.str("why_asked"),
			})
		}
		for _, q := range s.objects("hackathon_questions") {
			b.Viva.HackathonQuestions = append(b.Viva.HackathonQuestions, HackathonQuestion{
				Question:          q.str("question"),
				SuggestedResponse: q.str("suggested_response"),
				KeyPoints:         q.strs("key_points"),
			})
		}
	}
	if s := root.object("pitch"); s != nil {
		b.Pitch = Pitch{
			ThirtySecond: s.str("thirty_second_pitch"),
			OneMinute:    s.str("one_minute_pitch"),
			KeyPoints:    s.strs("key_points"),
		}
	}
	if s := root.object("diagrams"); s != nil {
		b.Diagrams.UserFlowMermaid = s.str("user_flow_mermaid")
		b.Diagrams.TechStackMermaid = s.str("tech_stack_mermaid")
		b.Diagrams.UserFlow = s.diagram("user_flow")
		b.Diagrams.TechStack = s.diagram("tech_stack")
	}

	Normalize(&b)
	return b, nil
}

// object is a JSON object whose fields are decoded on demand.
type object map[string]json.RawMessage

func (o object) object(key string) object {
	var out object
	if err := json.Unmarshal(o[key], &out); err != nil {
		return nil
	}
	return out
}

func (o object) objects(key string) []object {
	var raw []json.RawMessage
	if err := json.Unmarshal(o[key], &raw); err != nil {
		return nil
	}
	out := make([]object, 0, len(raw))
	for _, r := range raw {
		var item object
		if err := json.Unmarshal(r, &item); err == nil && item != nil {
			out = append(out, item)
		}
	}
	return out
}

// str reads a string field. Numbers and booleans are converted to text;
// anything else reads as empty.
func (o object) str(key string) string {
	raw, ok := o[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

// strs reads a list of strings. A single string reads as a one-element
// list; non-string items are skipped. A missing or malformed field is nil.
func (o object) strs(key string) []string {
	raw, ok := o[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := (object{"v": raw}).str("v"); s != "" {
			return []string{s}
		}
		return nil
	}
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := (object{"v": it}).str("v"); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// number reads an integer that may be written as a number or a string.
func (o object) number(key string) int {
	n, err := strconv.Atoi(o.str(key))
	if err != nil {
		return 0
	}
	return n
}

func (o object) diagram(key string) *graph.Graph {
	raw, ok := o[key]
	if !ok {
		return nil
	}
	var g graph.Graph
	if err := json.Unmarshal(raw, &g); err != nil || g.IsEmpty() {
		return nil
	}
	return &g
}
