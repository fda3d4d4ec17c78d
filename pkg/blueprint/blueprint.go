// Package blueprint defines the project plan produced by the planning backend,
// its lenient decoder and the extraction of its two diagrams as graphs.
package blueprint

import (
	"fmt"

	"github.com/matzehuels/blueprint/pkg/graph"
)

// Mode is the way a blueprint was produced.
type Mode string

const (
	// ModeQuick generates a blueprint in a single call from the raw idea.
	ModeQuick Mode = "QUICK_BLUEPRINT"
	// ModeInteractive generates a blueprint from an idea refined by a
	// clarifying dialogue.
	ModeInteractive Mode = "INTERACTIVE_FINALIZED"
)

// ParseMode accepts the wire names and the short CLI names "quick" and
// "interactive".
func ParseMode(s string) (Mode, error) {
	switch s {
	case string(ModeQuick), "quick", "":
		return ModeQuick, nil
	case string(ModeInteractive), "interactive":
		return ModeInteractive, nil
	default:
		return "", fmt.Errorf("invalid mode: %q (must be quick or interactive)", s)
	}
}

// Feasibility levels.
const (
	FeasibilityHigh   = "High"
	FeasibilityMedium = "Medium"
	FeasibilityLow    = "Low"
)

// Blueprint is a structured project plan. Every section is always present
// once [Normalize] has run.
type Blueprint struct {
	Summary     Summary     `json:"summary" bson:"summary"`
	Features    Features    `json:"features" bson:"features"`
	Feasibility Feasibility `json:"feasibility" bson:"feasibility"`
	SystemFlow  SystemFlow  `json:"system_flow" bson:"system_flow"`
	TechStack   TechStack   `json:"tech_stack" bson:"tech_stack"`
	Comparison  Comparison  `json:"comparison" bson:"comparison"`
	Viva        Viva        `json:"viva" bson:"viva"`
	Pitch       Pitch       `json:"pitch" bson:"pitch"`
	Diagrams    Diagrams    `json:"diagrams" bson:"diagrams"`
}

type Summary struct {
	ProblemStatement string   `json:"problem_statement" bson:"problem_statement"`
	TargetUsers      []string `json:"target_users" bson:"target_users"`
	Objectives       []string `json:"objectives" bson:"objectives"`
	Scope            string   `json:"scope" bson:"scope"`
	WhatThisMeans    string   `json:"what_this_means" bson:"what_this_means"`
	WhyThisMatters   string   `json:"why_this_matters" bson:"why_this_matters"`
}

type Features struct {
	Features []Feature `json:"features" bson:"features"`
}

type Feature struct {
	Name        string `json:"feature_name" bson:"feature_name"`
	WhatItDoes  string `json:"what_it_does" bson:"what_it_does"`
	WhyItExists string `json:"why_it_exists" bson:"why_it_exists"`
	HowItHelps  string `json:"how_it_helps" bson:"how_it_helps"`
	Limitations string `json:"limitations" bson:"limitations"`
}

type Feasibility struct {
	Level          string   `json:"feasibility_level" bson:"feasibility_level"`
	Explanation    string   `json:"feasibility_explanation" bson:"feasibility_explanation"`
	Strengths      []string `json:"strengths" bson:"strengths"`
	Risks          []string `json:"risks" bson:"risks"`
	WhyThisMatters string   `json:"why_this_matters" bson:"why_this_matters"`
}

type SystemFlow struct {
	Title   string `json:"flow_title" bson:"flow_title"`
	Steps   []Step `json:"steps" bson:"steps"`
	Summary string `json:"summary" bson:"summary"`
}

type Step struct {
	Number      int    `json:"step_number" bson:"step_number"`
	Actor       string `json:"actor" bson:"actor"`
	Action      string `json:"action" bson:"action"`
	Explanation string `json:"explanation" bson:"explanation"`
}

type TechStack struct {
	Primary []Technology `json:"primary_stack" bson:"primary_stack"`
	Backup  []Backup     `json:"backup_stack" bson:"backup_stack"`
}

type Technology struct {
	Category      string `json:"category" bson:"category"`
	Technology    string `json:"technology" bson:"technology"`
	Justification string `json:"justification" bson:"justification"`
	SkillLevel    string `json:"skill_level" bson:"skill_level"`
}

type Backup struct {
	Category   string `json:"category" bson:"category"`
	Technology string `json:"technology" bson:"technology"`
	WhyBackup  string `json:"why_backup" bson:"why_backup"`
}

type Comparison struct {
	ExistingSolutions []Solution `json:"existing_solutions" bson:"existing_solutions"`
	UniqueAspects     []string   `json:"unique_aspects" bson:"unique_aspects"`
	StillValuable     []string   `json:"why_this_project_is_still_valuable" bson:"why_this_project_is_still_valuable"`
	SummaryInsight    string     `json:"summary_insight" bson:"summary_insight"`
}

type Solution struct {
	Name        string `json:"solution_name" bson:"solution_name"`
	WhatItDoes  string `json:"what_it_does" bson:"what_it_does"`
	Limitations string `json:"limitations" bson:"limitations"`
}

type Viva struct {
	ProjectOverview    string              `json:"project_overview_explanation" bson:"project_overview_explanation"`
	ProblemStatement   string              `json:"problem_statement_explanation" bson:"problem_statement_explanation"`
	Architecture       string              `json:"architecture_explanation" bson:"architecture_explanation"`
	UniqueFeature      string              `json:"unique_feature_explanation" bson:"unique_feature_explanation"`
	CommonQuestions    []CommonQuestion    `json:"common_questions" bson:"common_questions"`
	HackathonQuestions []HackathonQuestion `json:"hackathon_questions" bson:"hackathon_questions"`
}

type CommonQuestion struct {
	Question        string `json:"question" bson:"question"`
	SuggestedAnswer string `json:"suggested_answer" bson:"suggested_answer"`
	WhyAsked        string `json:"why_asked" bson:"why_asked"`
}

type HackathonQuestion struct {
	Question          string   `json:"question" bson:"question"`
	SuggestedResponse string   `json:"suggested_response" bson:"suggested_response"`
	KeyPoints         []string `json:"key_points" bson:"key_points"`
}

type Pitch struct {
	ThirtySecond string   `json:"thirty_second_pitch" bson:"thirty_second_pitch"`
	OneMinute    string   `json:"one_minute_pitch" bson:"one_minute_pitch"`
	KeyPoints    []string `json:"key_points" bson:"key_points"`
}

// Diagrams carries the blueprint's two diagrams. The Mermaid sources come
// from the planning backend; the graphs, when set, take precedence and are
// laid out as given.
type Diagrams struct {
	UserFlowMermaid  string       `json:"user_flow_mermaid" bson:"user_flow_mermaid"`
	TechStackMermaid string       `json:"tech_stack_mermaid" bson:"tech_stack_mermaid"`
	UserFlow         *graph.Graph `json:"user_flow,omitempty" bson:"user_flow,omitempty"`
	TechStack        *graph.Graph `json:"tech_stack,omitempty" bson:"tech_stack,omitempty"`
}

// Title returns a short display title: the problem statement, cut to 60
// characters.
func (b Blueprint) Title() string {
	r := []rune(b.Summary.ProblemStatement)
	if len(r) <= 60 {
		return string(r)
	}
	return string(r[:57]) + "..."
}
