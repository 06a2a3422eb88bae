package workspace

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// languageByExtension is the fixed extension lookup table used for both tree
// annotation and language statistics.
var languageByExtension = map[string]string{
	".go":     "Go",
	".py":     "Python",
	".js":     "JavaScript",
	".jsx":    "JavaScript",
	".mjs":    "JavaScript",
	".ts":     "TypeScript",
	".tsx":    "TypeScript",
	".java":   "Java",
	".c":      "C",
	".h":      "C",
	".cpp":    "C++",
	".cc":     "C++",
	".hpp":    "C++",
	".cs":     "C#",
	".rb":     "Ruby",
	".rs":     "Rust",
	".php":    "PHP",
	".swift":  "Swift",
	".kt":     "Kotlin",
	".scala":  "Scala",
	".dart":   "Dart",
	".lua":    "Lua",
	".pl":     "Perl",
	".r":      "R",
	".sh":     "Shell",
	".bash":   "Shell",
	".sql":    "SQL",
	".html":   "HTML",
	".htm":    "HTML",
	".css":    "CSS",
	".scss":   "CSS",
	".less":   "CSS",
	".json":   "JSON",
	".yaml":   "YAML",
	".yml":    "YAML",
	".toml":   "TOML",
	".xml":    "XML",
	".md":     "Markdown",
	".vue":    "Vue",
	".svelte": "Svelte",
}

// LanguageOf returns the language for a filename, or "" when unknown.
func LanguageOf(name string) string {
	return languageByExtension[strings.ToLower(filepath.Ext(name))]
}

// Languages walks the workspace and aggregates byte and file counts per
// language, skipping the same directories the tree excludes. It returns the
// topN languages by byte count descending; the remainder is folded into an
// "Other" bucket so percentages still sum to ~100. Derivation is best-effort:
// an unreadable tree yields an empty slice, never an error.
func Languages(root string, topN int) []LanguageStat {
	type agg struct {
		bytes int64
		files int
	}
	byLang := make(map[string]*agg)
	var total int64

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (excludedDirs[name] || (strings.HasPrefix(name, ".") && !allowedDotfiles[name])) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") && !allowedDotfiles[name] {
			return nil
		}
		lang := LanguageOf(name)
		if lang == "" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		a := byLang[lang]
		if a == nil {
			a = &agg{}
			byLang[lang] = a
		}
		a.bytes += info.Size()
		a.files++
		total += info.Size()
		return nil
	})

	if total == 0 {
		return nil
	}

	stats := make([]LanguageStat, 0, len(byLang))
	for lang, a := range byLang {
		stats = append(stats, LanguageStat{
			Language:  lang,
			ByteCount: a.bytes,
			FileCount: a.files,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].ByteCount != stats[j].ByteCount {
			return stats[i].ByteCount > stats[j].ByteCount
		}
		return stats[i].Language < stats[j].Language
	})

	if topN > 0 && len(stats) > topN {
		other := LanguageStat{Language: "Other"}
		for _, s := range stats[topN:] {
			other.ByteCount += s.ByteCount
			other.FileCount += s.FileCount
		}
		stats = append(stats[:topN], other)
	}

	for i := range stats {
		stats[i].Percentage = float64(stats[i].ByteCount) / float64(total) * 100
	}
	return stats
}
