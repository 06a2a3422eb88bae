package ops

import (
	"fmt"
	"html"

	"mentorcore/internal/errors"
	"mentorcore/internal/normalize"
)

// RecoverJSONInput contains parameters for the RecoverJSON operation.
type RecoverJSONInput struct {
	Text    string         // raw model output
	Default map[string]any // returned unchanged on recovery failure
}

// RecoverJSONOutput contains the result of the RecoverJSON operation.
type RecoverJSONOutput struct {
	Value     map[string]any `json:"value"`
	Recovered bool           `json:"recovered"` // false means the default was used
}

// RecoverJSON extracts a JSON object from model output, tolerating markdown
// fences, and falls back to the caller's default. Total: it never fails on
// malformed text, only on a missing default.
func RecoverJSON(input RecoverJSONInput) (*RecoverJSONOutput, error) {
	if input.Default == nil {
		return nil, errors.NewInvalidRequest("default is required")
	}

	value := normalize.JSON(input.Text, nil)
	if value == nil {
		return &RecoverJSONOutput{Value: input.Default, Recovered: false}, nil
	}
	return &RecoverJSONOutput{Value: value, Recovered: true}, nil
}

// RecoverSVGInput contains parameters for the RecoverSVG operation.
type RecoverSVGInput struct {
	Text    string
	Concept string // labels the placeholder when no SVG is found
}

// RecoverSVGOutput contains the result of the RecoverSVG operation.
type RecoverSVGOutput struct {
	SVG       string `json:"svg"`
	Recovered bool   `json:"recovered"`
}

// RecoverSVG extracts the SVG fragment from model output, discarding any
// surrounding prose. When no well-formed fragment exists it synthesizes a
// labeled placeholder so the caller always has something to render.
func RecoverSVG(input RecoverSVGInput) (*RecoverSVGOutput, error) {
	recovered := true
	svg := normalize.Fragment(input.Text, "<svg", "</svg>", func() string {
		recovered = false
		return PlaceholderSVG(input.Concept)
	})
	return &RecoverSVGOutput{SVG: svg, Recovered: recovered}, nil
}

// PlaceholderSVG builds the minimal diagram shown when the model produced no
// usable SVG.
func PlaceholderSVG(label string) string {
	if label == "" {
		label = "Diagram unavailable"
	}
	return fmt.Sprintf(`<svg viewBox="0 0 700 450" xmlns="http://www.w3.org/2000/svg">
    <rect width="700" height="450" fill="#1E1E1E"/>
    <text x="350" y="225" fill="#FFFFFF" text-anchor="middle" font-size="20">%s</text>
</svg>`, html.EscapeString(label))
}
