package ops

import (
	"strings"
	"testing"

	"mentorcore/internal/errors"
	"mentorcore/internal/prompt"
)

func TestBuildPrompt_AllKinds(t *testing.T) {
	lib := prompt.NewLibrary()
	inputs := []BuildPromptInput{
		{Kind: PromptAnalysis, Code: "x = 1", Language: "python"},
		{Kind: PromptTeaching, Code: "x = 1", Bug: prompt.Bug{Line: 1, Message: "bad"}, Style: "direct"},
		{Kind: PromptDeeper, Concept: "closures", Explanation: "functions capture scope"},
		{Kind: PromptDiagram, Concept: "event loop", DiagramKind: "event_loop"},
		{Kind: PromptEvaluate, Question: "q", Answer: "a", Concept: "c"},
		{Kind: PromptEnglishChat, Message: "hello"},
		{Kind: PromptImage, TaskType: "whiteboard"},
	}
	for _, input := range inputs {
		out, err := BuildPrompt(lib, input)
		if err != nil {
			t.Errorf("BuildPrompt(%s) failed: %v", input.Kind, err)
			continue
		}
		if out.Pair.System == "" || out.Pair.User == "" {
			t.Errorf("BuildPrompt(%s) produced an empty pair", input.Kind)
		}
	}
}

func TestBuildPrompt_UnknownKind(t *testing.T) {
	_, err := BuildPrompt(prompt.NewLibrary(), BuildPromptInput{Kind: "haiku"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("BuildPrompt should return INVALID_REQUEST, got: %v", err)
	}
}

func TestBuildPrompt_HistoryFlowsThrough(t *testing.T) {
	out, err := BuildPrompt(prompt.NewLibrary(), BuildPromptInput{
		Kind:    PromptEnglishChat,
		Message: "how do I say this?",
		History: []prompt.Message{{Role: "user", Content: "earlier-turn"}},
	})
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}
	if !strings.Contains(out.Pair.User, "earlier-turn") {
		t.Error("history missing from the prompt")
	}
}
