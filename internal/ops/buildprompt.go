package ops

import (
	"fmt"

	"mentorcore/internal/errors"
	"mentorcore/internal/prompt"
)

// PromptKind names a prompt builder.
type PromptKind string

const (
	PromptAnalysis    PromptKind = "analysis"
	PromptTeaching    PromptKind = "teaching"
	PromptDeeper      PromptKind = "deeper"
	PromptDiagram     PromptKind = "diagram"
	PromptEvaluate    PromptKind = "evaluate"
	PromptEnglishChat PromptKind = "english_chat"
	PromptImage       PromptKind = "image"
)

// BuildPromptInput contains parameters for the BuildPrompt operation. Only
// the fields relevant to the requested kind are consulted.
type BuildPromptInput struct {
	Kind        PromptKind
	Code        string
	Language    string
	Bug         prompt.Bug
	Style       string
	Concept     string
	Explanation string
	DiagramKind string
	Question    string
	Answer      string
	Message     string
	History     []prompt.Message
	TaskType    string
	Context     string
}

// BuildPromptOutput contains the result of the BuildPrompt operation.
type BuildPromptOutput struct {
	Pair prompt.Pair `json:"pair"`
}

// BuildPrompt constructs the system/user prompt pair for one tutoring
// request. The library is passed in explicitly; this operation holds no
// prompt state of its own.
func BuildPrompt(lib *prompt.Library, input BuildPromptInput) (*BuildPromptOutput, error) {
	var pair prompt.Pair
	switch input.Kind {
	case PromptAnalysis:
		pair = lib.Analysis(input.Code, input.Language)
	case PromptTeaching:
		pair = lib.Teaching(input.Code, input.Bug, input.Style)
	case PromptDeeper:
		pair = lib.Deeper(input.Concept, input.Explanation)
	case PromptDiagram:
		pair = lib.Diagram(input.Concept, input.DiagramKind, input.Code, input.Explanation)
	case PromptEvaluate:
		pair = lib.Evaluate(input.Question, input.Answer, input.Concept)
	case PromptEnglishChat:
		pair = lib.EnglishChat(input.Message, input.History)
	case PromptImage:
		pair = lib.Image(input.TaskType, input.Context)
	default:
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown prompt kind %q", input.Kind))
	}
	return &BuildPromptOutput{Pair: pair}, nil
}
