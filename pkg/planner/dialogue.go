package planner

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	bperrors "github.com/matzehuels/blueprint/pkg/errors"
)

// MaxRefinedLength bounds a refined idea: the raw idea plus its answers.
const MaxRefinedLength = 8000

const clarificationsHeader = "Student's clarifications:"

// DefaultQuestions is asked when the backend cannot supply questions.
var DefaultQuestions = []Question{
	{
		ID:      "q1",
		Text:    "Who are the main users of this project?",
		Context: "Knowing the users decides which features matter.",
		Options: []string{"Students", "Teachers", "Administrators", "General public"},
	},
	{
		ID:      "q2",
		Text:    "What is the one thing the project must do well?",
		Context: "A clear core feature keeps the scope realistic.",
	},
	{
		ID:      "q3",
		Text:    "Where should it run?",
		Context: "The platform shapes the tech stack.",
		Options: []string{"Web app", "Mobile app", "Desktop app"},
	},
	{
		ID:      "q4",
		Text:    "How much time do you have?",
		Context: "Time decides how many features are feasible.",
		Options: []string{"Two weeks", "One month", "One semester"},
	},
	{
		ID:      "q5",
		Text:    "How experienced are you with programming?",
		Context: "The stack is chosen to match your skill level.",
		Options: []string{"Beginner", "Intermediate", "Advanced"},
	},
}

// QuestionSource supplies clarifying questions for an idea.
type QuestionSource interface {
	ClarifyingQuestions(ctx context.Context, idea string) ([]Question, error)
}

// Answer is a recorded answer to one question.
type Answer struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// Dialogue walks a fixed list of questions in order. It is not safe for
// concurrent use.
type Dialogue struct {
	idea      string
	questions []Question
	answers   []Answer
	pos       int
	scripted  bool
}

// NewDialogue starts a dialogue about idea. An empty question list means
// [DefaultQuestions].
func NewDialogue(idea string, questions []Question) *Dialogue {
	d := &Dialogue{idea: bperrors.NormalizeIdea(idea), questions: questions}
	if len(questions) == 0 {
		d.questions, d.scripted = DefaultQuestions, true
	}
	return d
}

// StartDialogue validates idea and asks src for questions. When src is nil
// or fails for any reason other than an invalid idea or a cancelled
// context, the dialogue uses the canned script.
func StartDialogue(ctx context.Context, src QuestionSource, idea string) (*Dialogue, error) {
	idea, err := bperrors.ValidateIdea(idea)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return NewDialogue(idea, nil), nil
	}
	qs, err := src.ClarifyingQuestions(ctx, idea)
	if err != nil {
		if bperrors.Is(err, bperrors.ErrCodeInvalidIdea) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		qs = nil
	}
	return NewDialogue(idea, qs), nil
}

// Idea returns the normalized raw idea.
func (d *Dialogue) Idea() string { return d.idea }

// Scripted reports whether the canned questions are used.
func (d *Dialogue) Scripted() bool { return d.scripted }

// Questions returns all questions in order.
func (d *Dialogue) Questions() []Question { return d.questions }

// Current returns the question awaiting an answer.
func (d *Dialogue) Current() (Question, bool) {
	if d.Done() {
		return Question{}, false
	}
	return d.questions[d.pos], true
}

// Answer records text for the current question and advances. A number
// between 1 and the option count selects that option. Blank text skips
// the question.
func (d *Dialogue) Answer(text string) {
	q, ok := d.Current()
	if !ok {
		return
	}
	d.pos++
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if i, err := strconv.Atoi(text); err == nil && i >= 1 && i <= len(q.Options) {
		text = q.Options[i-1]
	}
	d.answers = append(d.answers, Answer{QuestionID: q.ID, Question: q.Text, Answer: text})
}

// Skip advances without recording an answer.
func (d *Dialogue) Skip() { d.Answer("") }

// Done reports whether every question has been answered or skipped.
func (d *Dialogue) Done() bool { return d.pos >= len(d.questions) }

// Progress returns the number of questions handled and the total.
func (d *Dialogue) Progress() (int, int) { return d.pos, len(d.questions) }

// Answers returns the recorded answers in question order.
func (d *Dialogue) Answers() []Answer { return d.answers }

// Refined composes the idea sent for an interactive blueprint: the raw idea
// followed by one line per answer. Without answers it is the raw idea.
func (d *Dialogue) Refined() string {
	if len(d.answers) == 0 {
		return d.idea
	}
	var b strings.Builder
	b.WriteString(d.idea)
	b.WriteString("\n\n" + clarificationsHeader)
	for _, a := range d.answers {
		b.WriteString("\nQ: " + a.Question + " - A: " + a.Answer)
	}
	return b.String()
}

// ValidateRefined validates a refined idea. Its first paragraph must be a
// valid raw idea; the whole text may span lines up to [MaxRefinedLength]
// characters.
func ValidateRefined(refined string) (string, error) {
	refined = strings.TrimSpace(refined)
	idea, rest, _ := strings.Cut(refined, "\n\n")
	idea, err := bperrors.ValidateIdea(idea)
	if err != nil {
		return "", err
	}
	if n := utf8.RuneCountInString(refined); n > MaxRefinedLength {
		return "", bperrors.New(bperrors.ErrCodeInvalidIdea, "refined idea too long (max %d characters, got %d)", MaxRefinedLength, n)
	}
	if rest == "" {
		return idea, nil
	}
	return idea + "\n\n" + strings.TrimSpace(rest), nil
}
