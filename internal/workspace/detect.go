package workspace

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// nodeFrameworks maps package.json dependency names to framework labels.
// Evaluated in order so the reported list is deterministic.
var nodeFrameworks = []struct {
	dep       string
	framework string
}{
	{"next", "Next.js"},
	{"react", "React"},
	{"vue", "Vue"},
	{"@angular/core", "Angular"},
	{"svelte", "Svelte"},
	{"express", "Express"},
	{"fastify", "Fastify"},
}

// pythonFrameworks maps requirements.txt keywords to framework labels.
var pythonFrameworks = []struct {
	keyword   string
	framework string
}{
	{"django", "Django"},
	{"flask", "Flask"},
	{"fastapi", "FastAPI"},
	{"streamlit", "Streamlit"},
	{"pytest", "pytest"},
}

// entryPointCandidates is the fixed priority order for well-known entry
// files at the workspace root.
var entryPointCandidates = []string{
	"main.py", "app.py", "manage.py",
	"index.js", "main.js", "server.js", "app.js",
	"index.ts", "main.ts",
	"main.go",
	"src/main.rs",
	"Main.java",
	"index.html",
}

// Detect derives frameworks, entry points, build system, and test presence
// from marker files. It is heuristic, not authoritative: unreadable or
// missing markers degrade to empty fields, never an error.
func Detect(root string) Detected {
	var d Detected

	if pkg := readPackageJSON(root); pkg != nil {
		d.BuildSystem = nodeBuildSystem(root)
		for _, nf := range nodeFrameworks {
			if _, ok := pkg.deps[nf.dep]; ok {
				d.Frameworks = append(d.Frameworks, nf.framework)
			}
		}
		if pkg.main != "" {
			d.EntryPoints = append(d.EntryPoints, pkg.main)
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "requirements.txt")); err == nil {
		if d.BuildSystem == "" {
			d.BuildSystem = "pip"
		}
		lower := strings.ToLower(string(data))
		for _, pf := range pythonFrameworks {
			if strings.Contains(lower, pf.keyword) {
				d.Frameworks = append(d.Frameworks, pf.framework)
			}
		}
	}

	if fileExists(filepath.Join(root, "go.mod")) {
		if d.BuildSystem == "" {
			d.BuildSystem = "go modules"
		}
	}
	if fileExists(filepath.Join(root, "Cargo.toml")) {
		if d.BuildSystem == "" {
			d.BuildSystem = "cargo"
		}
	}
	if fileExists(filepath.Join(root, "pom.xml")) {
		if d.BuildSystem == "" {
			d.BuildSystem = "maven"
		}
	}
	if fileExists(filepath.Join(root, "build.gradle")) || fileExists(filepath.Join(root, "build.gradle.kts")) {
		if d.BuildSystem == "" {
			d.BuildSystem = "gradle"
		}
	}
	if fileExists(filepath.Join(root, "Makefile")) && d.BuildSystem == "" {
		d.BuildSystem = "make"
	}
	if fileExists(filepath.Join(root, "Dockerfile")) {
		d.Frameworks = append(d.Frameworks, "Docker")
	}

	for _, candidate := range entryPointCandidates {
		if fileExists(filepath.Join(root, filepath.FromSlash(candidate))) {
			d.EntryPoints = append(d.EntryPoints, candidate)
		}
	}
	d.EntryPoints = dedupe(d.EntryPoints)
	d.Frameworks = dedupe(d.Frameworks)

	d.HasTests = hasTests(root)
	return d
}

type packageJSON struct {
	deps map[string]string
	main string
}

func readPackageJSON(root string) *packageJSON {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return nil
	}
	var raw struct {
		Main            string            `json:"main"`
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	deps := make(map[string]string, len(raw.Dependencies)+len(raw.DevDependencies))
	for k, v := range raw.Dependencies {
		deps[k] = v
	}
	for k, v := range raw.DevDependencies {
		deps[k] = v
	}
	return &packageJSON{deps: deps, main: raw.Main}
}

// nodeBuildSystem picks the package manager from lockfiles.
func nodeBuildSystem(root string) string {
	switch {
	case fileExists(filepath.Join(root, "pnpm-lock.yaml")):
		return "pnpm"
	case fileExists(filepath.Join(root, "yarn.lock")):
		return "yarn"
	default:
		return "npm"
	}
}

// hasTests reports whether a test directory or conventional test file exists
// anywhere in the tree (excluded directories skipped).
func hasTests(root string) bool {
	found := false
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found {
			return filepath.SkipAll
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && excludedDirs[name] {
				return filepath.SkipDir
			}
			switch strings.ToLower(name) {
			case "test", "tests", "__tests__", "spec":
				found = true
				return filepath.SkipAll
			}
			return nil
		}
		if strings.HasSuffix(name, "_test.go") ||
			strings.HasPrefix(name, "test_") && strings.HasSuffix(name, ".py") ||
			strings.HasSuffix(name, ".test.js") || strings.HasSuffix(name, ".spec.js") ||
			strings.HasSuffix(name, ".test.ts") || strings.HasSuffix(name, ".spec.ts") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
