package workspace

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
)

// readmeCandidates in lookup order.
var readmeCandidates = []string{"README.md", "readme.md", "Readme.md", "README.markdown"}

// RenderReadme converts the workspace README to HTML for project previews.
// Returns "" when no README exists or it cannot be rendered; a missing
// README is not an error condition.
func RenderReadme(root string, maxBytes int64) string {
	for _, name := range readmeCandidates {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		if maxBytes > 0 && int64(len(data)) > maxBytes {
			data = data[:maxBytes]
		}
		var buf bytes.Buffer
		if err := goldmark.Convert(data, &buf); err != nil {
			return ""
		}
		return buf.String()
	}
	return ""
}
