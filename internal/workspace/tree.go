package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mentorcore/internal/errors"
)

// excludedDirs are version-control, dependency, and build directories never
// shown in workspace trees or counted in language statistics.
var excludedDirs = map[string]bool{
	".git": true, ".svn": true, ".hg": true,
	"node_modules": true, "vendor": true, "bower_components": true,
	"__pycache__": true, ".venv": true, "venv": true, "env": true,
	"dist": true, "build": true, "target": true, "out": true,
	".idea": true, ".vscode": true, ".pytest_cache": true, ".mypy_cache": true,
	".next": true, ".nuxt": true, "coverage": true,
}

// allowedDotfiles are the dotfiles still shown despite the dotfile rule.
var allowedDotfiles = map[string]bool{
	".env": true, ".env.example": true, ".gitignore": true,
	".dockerignore": true, ".editorconfig": true, ".eslintrc": true,
	".prettierrc": true, ".babelrc": true,
}

// Tree builds the recursive file tree of a workspace root, excluding
// version-control/dependency/build directories and non-allowlisted dotfiles.
// Children are sorted directories-first, then by name.
func Tree(root string) (*Node, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, errors.NewNotFound(root)
	}

	node := &Node{
		Name: filepath.Base(abs),
		Path: ".",
		Kind: KindDirectory,
	}
	if err := fillChildren(node, abs, ""); err != nil {
		return nil, err
	}
	return node, nil
}

func fillChildren(parent *Node, dir, relPrefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.NewInternal(err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() && excludedDirs[name] {
			continue
		}
		if strings.HasPrefix(name, ".") && !allowedDotfiles[name] {
			continue
		}

		rel := name
		if relPrefix != "" {
			rel = relPrefix + "/" + name
		}

		child := &Node{
			Name: name,
			Path: rel,
		}
		if entry.IsDir() {
			child.Kind = KindDirectory
			if err := fillChildren(child, filepath.Join(dir, name), rel); err != nil {
				return err
			}
		} else {
			child.Kind = KindFile
			child.Language = LanguageOf(name)
			if info, err := entry.Info(); err == nil {
				child.Size = info.Size()
			}
		}
		parent.Children = append(parent.Children, child)
	}
	return nil
}
