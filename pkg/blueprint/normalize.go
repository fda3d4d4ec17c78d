package blueprint

import "strings"

// NotProvided replaces any required text the backend left out.
const NotProvided = "Not provided by AI"

// Default Mermaid sources for blueprints without diagrams.
const (
	DefaultUserFlowMermaid = `flowchart TD
    A[User Opens App] --> B{Login Required?}
    B -->|Yes| C[Login Page]
    B -->|No| D[Dashboard]
    C --> E[Enter Credentials]
    E --> F{Valid?}
    F -->|No| C
    F -->|Yes| D
    D --> G[Use Features]
    G --> H[Complete Task]`

	DefaultTechStackMermaid = `flowchart LR
    subgraph Frontend
        A[Web Interface]
    end
    subgraph Backend
        B[API Server]
    end
    subgraph Database
        C[(Data Storage)]
    end
    A -->|HTTP| B
    B -->|Queries| C`
)

// Fallback returns a complete blueprint made only of defaults. It is what
// callers show when the planning backend is unreachable.
func Fallback() Blueprint {
	var b Blueprint
	Normalize(&b)
	return b
}

// Normalize fills every missing field of b with its default, so that
// consumers never have to check for empty sections. Text is trimmed.
// Normalize is idempotent.
func Normalize(b *Blueprint) {
	normalizeSummary(&b.Summary)
	normalizeFeatures(&b.Features)
	normalizeFeasibility(&b.Feasibility)
	normalizeSystemFlow(&b.SystemFlow)
	normalizeTechStack(&b.TechStack)
	normalizeComparison(&b.Comparison)
	normalizeViva(&b.Viva)
	normalizePitch(&b.Pitch)
	normalizeDiagrams(&b.Diagrams)
}

func text(v *string, def string) {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		*v = def
	}
}

func list(v *[]string, def ...string) {
	if *v == nil {
		*v = def
	}
}

func normalizeSummary(s *Summary) {
	text(&s.ProblemStatement, NotProvided)
	list(&s.TargetUsers, "Users")
	list(&s.Objectives, "Complete the project")
	text(&s.Scope, "Defined by project requirements")
	text(&s.WhatThisMeans, "This section explains your project's purpose")
	text(&s.WhyThisMatters, "Understanding this helps you explain your project clearly")
}

func normalizeFeatures(f *Features) {
	for i := range f.Features {
		ft := &f.Features[i]
		text(&ft.Name, "Feature")
		text(&ft.WhatItDoes, "Provides functionality to users")
		text(&ft.WhyItExists, "Addresses a user need")
		text(&ft.HowItHelps, "Improves user experience")
		text(&ft.Limitations, "None specified")
	}
	if len(f.Features) == 0 {
		f.Features = []Feature{{
			Name:        "Core Feature",
			WhatItDoes:  "Provides the main functionality",
			WhyItExists: "To solve the core problem",
			HowItHelps:  "Delivers value to users",
			Limitations: "Specific limitations depend on implementation",
		}}
	}
}

func normalizeFeasibility(f *Feasibility) {
	switch f.Level {
	case FeasibilityHigh, FeasibilityMedium, FeasibilityLow:
	default:
		f.Level = FeasibilityMedium
	}
	text(&f.Explanation, "This project is achievable for a college student")
	list(&f.Strengths, "Good educational value")
	list(&f.Risks, "Time management is important")
	text(&f.WhyThisMatters, "Knowing feasibility helps you plan realistically")
}

func normalizeSystemFlow(f *SystemFlow) {
	for i := range f.Steps {
		s := &f.Steps[i]
		if s.Number <= 0 {
			s.Number = i + 1
		}
		text(&s.Actor, "User")
		text(&s.Action, "Performs action")
		text(&s.Explanation, "Part of the workflow")
	}
	if len(f.Steps) == 0 {
		f.Steps = []Step{
			{Number: 1, Actor: "User", Action: "Opens application", Explanation: "Entry point"},
			{Number: 2, Actor: "System", Action: "Processes request", Explanation: "Core processing"},
			{Number: 3, Actor: "System", Action: "Returns result", Explanation: "Output to user"},
		}
	}
	text(&f.Title, "System Flow")
	text(&f.Summary, "This flow shows how users interact with the system")
}

func normalizeTechStack(t *TechStack) {
	for i := range t.Primary {
		p := &t.Primary[i]
		text(&p.Category, "General")
		text(&p.Technology, "Technology")
		text(&p.Justification, "Suitable for this project")
		text(&p.SkillLevel, "Beginner-friendly")
	}
	for i := range t.Backup {
		b := &t.Backup[i]
		text(&b.Category, "General")
		text(&b.Technology, "Alternative")
		text(&b.WhyBackup, "Alternative option if needed")
	}
	if len(t.Primary) == 0 {
		t.Primary = []Technology{
			{Category: "Frontend", Technology: "HTML/CSS/JavaScript", Justification: "Universal web technologies", SkillLevel: "Beginner-friendly"},
			{Category: "Backend", Technology: "Python or Node.js", Justification: "Common choices for web apps", SkillLevel: "Beginner-friendly"},
			{Category: "Database", Technology: "MySQL or MongoDB", Justification: "Well-documented options", SkillLevel: "Beginner-friendly"},
		}
	}
	if t.Backup == nil {
		t.Backup = []Backup{}
	}
}

func normalizeComparison(c *Comparison) {
	for i := range c.ExistingSolutions {
		s := &c.ExistingSolutions[i]
		text(&s.Name, "Existing Solution")
		text(&s.WhatItDoes, "Provides similar functionality")
		text(&s.Limitations, "May not fit specific needs")
	}
	if c.ExistingSolutions == nil {
		c.ExistingSolutions = []Solution{}
	}
	list(&c.UniqueAspects, "Custom solution for specific needs")
	list(&c.StillValuable, "Learning experience", "Tailored to specific requirements")
	text(&c.SummaryInsight, "Even though similar systems exist, this project provides valuable learning and customization opportunities.")
}

func normalizeViva(v *Viva) {
	for i := range v.CommonQuestions {
		q := &v.CommonQuestions[i]
		text(&q.Question, "Question")
		text(&q.SuggestedAnswer, "Provide a clear, concise answer")
		text(&q.WhyAsked, "To assess your understanding")
	}
	for i := range v.HackathonQuestions {
		q := &v.HackathonQuestions[i]
		text(&q.Question, "Question")
		text(&q.SuggestedResponse, "Provide a confident response")
		list(&q.KeyPoints, "Focus on value delivered")
	}
	if len(v.CommonQuestions) == 0 {
		v.CommonQuestions = []CommonQuestion{
			{Question: "Why did you choose this project?", SuggestedAnswer: "It solves a real problem I observed", WhyAsked: "Tests motivation"},
			{Question: "What challenges did you face?", SuggestedAnswer: "Learning new technologies and time management", WhyAsked: "Tests problem-solving"},
		}
	}
	if len(v.HackathonQuestions) == 0 {
		v.HackathonQuestions = []HackathonQuestion{
			{Question: "What makes this unique?", SuggestedResponse: "Tailored to specific user needs", KeyPoints: []string{"User focus", "Practical value"}},
		}
	}
	text(&v.ProjectOverview, "This project solves a real problem using modern technology")
	text(&v.ProblemStatement, "The problem affects users in their daily workflow")
	text(&v.Architecture, "The system uses a standard three-tier architecture")
	text(&v.UniqueFeature, "What makes this project special is its focus on the user experience")
}

func normalizePitch(p *Pitch) {
	text(&p.ThirtySecond, "This project solves a real problem by providing an efficient digital solution. "+
		"It saves time, reduces errors, and improves the user experience.")
	text(&p.OneMinute, "Every day, users face challenges with manual processes. "+
		"This project automates those processes, providing a faster, more reliable solution. "+
		"Built with modern technologies, it's designed to be user-friendly and scalable. "+
		"The system is ideal for educational or organizational settings where efficiency matters.")
	list(&p.KeyPoints, "Solves real problem", "Saves time", "User-friendly")
}

func normalizeDiagrams(d *Diagrams) {
	text(&d.UserFlowMermaid, DefaultUserFlowMermaid)
	text(&d.TechStackMermaid, DefaultTechStackMermaid)
}
