// Package prompt builds the system/user prompt pairs sent to the external
// model. The style and instruction tables are plain configuration data: built
// once at process start and passed in explicitly, never consulted through
// package globals from inside the builders.
package prompt

import (
	"fmt"
	"strings"
)

// Pair is a system prompt plus the user message that accompanies it.
type Pair struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// Message is one turn of prior conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Bug identifies one finding from a code analysis.
type Bug struct {
	Line       int    `json:"line"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// Library holds the fixed instruction tables. The Default* keys name the
// entry used when a caller supplies an unknown style, diagram type, or task.
type Library struct {
	MentorStyles   map[string]string
	DefaultStyle   string
	DiagramKinds   map[string]string
	DefaultDiagram string
	ImageTasks     map[string]string
	DefaultTask    string

	// HistoryWindow is how many trailing conversation turns the chat
	// builders include as context.
	HistoryWindow int
}

// NewLibrary returns the built-in instruction tables.
func NewLibrary() *Library {
	return &Library{
		MentorStyles: map[string]string{
			"patient":  "Be patient, warm, and encouraging. Use simple analogies.",
			"socratic": "Ask guiding questions to help the student discover the answer.",
			"direct":   "Be clear and concise. Get straight to the point.",
		},
		DefaultStyle: "patient",
		DiagramKinds: map[string]string{
			"state_flow":     "Show state changes with arrows between boxes",
			"async_timeline": "Show async operations on a timeline with call stack",
			"closure_scope":  "Show nested scopes with variable capture",
			"event_loop":     "Show call stack, web APIs, and callback queue",
		},
		DefaultDiagram: "state_flow",
		ImageTasks: map[string]string{
			"code_screenshot": "Analyze this code screenshot. Identify the programming language, describe what the code does, and point out any visible bugs or issues.",
			"whiteboard":      "Transcribe any handwritten code or diagrams in this whiteboard image. If it's code, identify the language and explain what it's trying to do.",
			"english_text":    "Read the text in this image. Check for any grammar or spelling errors and provide corrections.",
			"general":         "Analyze this educational image and provide helpful insights for learning.",
		},
		DefaultTask:   "general",
		HistoryWindow: 5,
	}
}

// styleInstruction resolves a mentor style, falling back to the default entry.
func (l *Library) styleInstruction(style string) string {
	if s, ok := l.MentorStyles[style]; ok {
		return s
	}
	return l.MentorStyles[l.DefaultStyle]
}

// Analysis builds the prompt pair for bug analysis of a code snippet.
func (l *Library) Analysis(code, language string) Pair {
	system := `You are an expert code analyzer. Analyze the provided code and identify bugs, issues, and improvements.

IMPORTANT: Respond ONLY with valid JSON in this exact format:
{
    "bugs": [
        {"line": 1, "severity": "critical|warning|info", "message": "description", "suggestion": "how to fix"}
    ],
    "overall_quality": "good|fair|poor"
}

Rules:
- If code is good, return empty bugs array and "good" quality
- severity: "critical" for syntax/runtime errors, "warning" for logic issues, "info" for style/optimization
- Be specific about line numbers
- Keep messages concise but helpful`

	user := fmt.Sprintf("Analyze this %s code:\n\n```%s\n%s\n```", language, language, code)
	return Pair{System: system, User: user}
}

// Teaching builds the prompt pair that explains one bug to a student in the
// requested mentor style.
func (l *Library) Teaching(code string, bug Bug, style string) Pair {
	system := fmt.Sprintf(`You are a coding mentor. %s

Respond ONLY with valid JSON:
{
    "conceptName": "Name of the concept/pattern being taught",
    "naturalExplanation": "Clear explanation of what's wrong and why",
    "whyItMatters": "Why this matters in real programming",
    "commonMistake": "Why this is a common mistake and how to avoid it"
}`, l.styleInstruction(style))

	message := bug.Message
	if message == "" {
		message = "Unknown issue"
	}
	line := "?"
	if bug.Line > 0 {
		line = fmt.Sprintf("%d", bug.Line)
	}
	user := fmt.Sprintf("Explain this bug to a student:\n\nCode:\n```\n%s\n```\n\nBug at line %s: %s", code, line, message)
	return Pair{System: system, User: user}
}

// Deeper builds the prompt pair for a more detailed explanation of a concept.
func (l *Library) Deeper(concept, current string) Pair {
	system := `You are an expert programming tutor providing deep explanations.

Respond ONLY with valid JSON:
{
    "deeperExplanation": "Detailed technical explanation with more context",
    "codeExamples": ["Example code snippet 1", "Example code snippet 2"],
    "relatedConcepts": ["Related concept 1", "Related concept 2"]
}`

	user := fmt.Sprintf("Provide a deeper explanation for: %s\n\nCurrent explanation: %s", concept, current)
	return Pair{System: system, User: user}
}

// Diagram builds the prompt pair requesting an SVG diagram for a concept.
func (l *Library) Diagram(concept, kind, code, explanation string) Pair {
	system := `You are an expert at creating educational SVG diagrams.

Create a clean, professional SVG diagram (700x450px) with:
- Dark background (#1E1E1E)
- Google colors: Blue (#4285F4), Red (#EA4335), Yellow (#FBBC04), Green (#34A853)
- White text (#FFFFFF) with clear labels
- Arrows and connecting lines
- Rounded rectangles for boxes

Respond with ONLY the SVG code, no explanation. Start with <svg and end with </svg>`

	instruction, ok := l.DiagramKinds[kind]
	if !ok {
		instruction = "Create an informative diagram"
	}
	user := fmt.Sprintf("Create a %s diagram for: %s\n\nContext: %s\n\nCode:\n```\n%s\n```\n\nInstruction: %s",
		kind, concept, explanation, code, instruction)
	return Pair{System: system, User: user}
}

// Evaluate builds the prompt pair that judges whether a student's answer
// shows understanding of a concept.
func (l *Library) Evaluate(question, answer, concept string) Pair {
	system := `You are a supportive coding mentor evaluating student understanding.

Respond ONLY with valid JSON:
{
    "understood": true or false,
    "feedback": "Specific feedback about their answer",
    "encouragement": "Encouraging message"
}

Be generous - if they show basic understanding, mark as understood.`

	user := fmt.Sprintf("Question: %s\n\nCorrect concept: %s\n\nStudent's answer: %s\n\nDid they understand?",
		question, concept, answer)
	return Pair{System: system, User: user}
}

// EnglishChat builds the prompt pair for the English-tutoring chat agent,
// windowing the conversation history to the library's HistoryWindow.
func (l *Library) EnglishChat(message string, history []Message) Pair {
	system := `You are a friendly English language tutor. Help users improve their English.

Detect the user's intent:
- "question": They're asking how to say something in English
- "practice": They wrote a sentence for correction
- "conversation": General chat practice

Respond ONLY with valid JSON:
{
    "response": "Your helpful response",
    "intent": "question|practice|conversation",
    "corrections": [
        {"original": "what they wrote", "corrected": "corrected version", "explanation": "why"}
    ]
}

Be encouraging and patient. If there are no errors, the corrections array should be empty.`

	window := history
	if l.HistoryWindow > 0 && len(window) > l.HistoryWindow {
		window = window[len(window)-l.HistoryWindow:]
	}

	var context strings.Builder
	for _, m := range window {
		context.WriteString(m.Role)
		context.WriteString(": ")
		context.WriteString(m.Content)
		context.WriteString("\n")
	}

	user := fmt.Sprintf("Conversation history:\n%s\nUser's new message: %s", context.String(), message)
	return Pair{System: system, User: user}
}

// Image builds the prompt pair for analyzing an uploaded educational image.
func (l *Library) Image(taskType, extraContext string) Pair {
	task, ok := l.ImageTasks[taskType]
	if !ok {
		task = l.ImageTasks[l.DefaultTask]
	}

	system := fmt.Sprintf("You are an expert at analyzing educational images.\n\nTask: %s", task)
	if extraContext != "" {
		system += fmt.Sprintf("\n\nAdditional context: %s", extraContext)
	}
	system += "\n\nProvide a clear, helpful analysis."

	return Pair{System: system, User: "Please analyze this image:"}
}
