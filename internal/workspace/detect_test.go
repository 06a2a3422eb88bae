package workspace

import (
	"testing"
)

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestDetect_NodeProject(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "package.json", `{
		"main": "server.js",
		"dependencies": {"express": "^4.18.0"},
		"devDependencies": {"react": "^18.0.0"}
	}`)
	writeTestFile(t, root, "yarn.lock", "")
	writeTestFile(t, root, "server.js", "require('express')")

	d := Detect(root)
	if !contains(d.Frameworks, "Express") {
		t.Errorf("Frameworks = %v, want Express", d.Frameworks)
	}
	if !contains(d.Frameworks, "React") {
		t.Errorf("Frameworks = %v, want React from devDependencies", d.Frameworks)
	}
	if d.BuildSystem != "yarn" {
		t.Errorf("BuildSystem = %q, want yarn", d.BuildSystem)
	}
	if !contains(d.EntryPoints, "server.js") {
		t.Errorf("EntryPoints = %v, want server.js", d.EntryPoints)
	}
}

func TestDetect_EntryPointsDeduped(t *testing.T) {
	root := t.TempDir()
	// package.json main names the same file the candidate scan finds
	writeTestFile(t, root, "package.json", `{"main": "index.js"}`)
	writeTestFile(t, root, "index.js", "")

	d := Detect(root)
	count := 0
	for _, e := range d.EntryPoints {
		if e == "index.js" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("index.js listed %d times, want 1", count)
	}
}

func TestDetect_PythonProject(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "requirements.txt", "Flask==2.3.0\npytest>=7\n")
	writeTestFile(t, root, "app.py", "from flask import Flask")

	d := Detect(root)
	if !contains(d.Frameworks, "Flask") {
		t.Errorf("Frameworks = %v, want Flask", d.Frameworks)
	}
	if !contains(d.Frameworks, "pytest") {
		t.Errorf("Frameworks = %v, want pytest", d.Frameworks)
	}
	if d.BuildSystem != "pip" {
		t.Errorf("BuildSystem = %q, want pip", d.BuildSystem)
	}
	if !contains(d.EntryPoints, "app.py") {
		t.Errorf("EntryPoints = %v, want app.py", d.EntryPoints)
	}
}

func TestDetect_GoProject(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "go.mod", "module example\n\ngo 1.22\n")
	writeTestFile(t, root, "main.go", "package main")
	writeTestFile(t, root, "main_test.go", "package main")

	d := Detect(root)
	if d.BuildSystem != "go modules" {
		t.Errorf("BuildSystem = %q, want go modules", d.BuildSystem)
	}
	if !d.HasTests {
		t.Error("HasTests = false, want true for _test.go file")
	}
}

func TestDetect_Dockerfile(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "Dockerfile", "FROM alpine")

	d := Detect(root)
	if !contains(d.Frameworks, "Docker") {
		t.Errorf("Frameworks = %v, want Docker", d.Frameworks)
	}
}

func TestDetect_TestsDirectory(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "src/lib.py", "x = 1")
	writeTestFile(t, root, "tests/test_lib.py", "def test_x(): pass")

	d := Detect(root)
	if !d.HasTests {
		t.Error("HasTests = false, want true for tests/ directory")
	}
}

func TestDetect_TestsInExcludedDirIgnored(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "main.py", "x = 1")
	writeTestFile(t, root, "node_modules/pkg/index.test.js", "")

	d := Detect(root)
	if d.HasTests {
		t.Error("HasTests = true from inside node_modules, want false")
	}
}

func TestDetect_EmptyProject(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "notes.txt", "nothing here")

	d := Detect(root)
	if len(d.Frameworks) != 0 || len(d.EntryPoints) != 0 || d.BuildSystem != "" || d.HasTests {
		t.Errorf("Detect on bare project = %+v, want empty", d)
	}
}
