package workspace

import (
	"testing"

	"mentorcore/internal/errors"
)

func findChild(n *Node, name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestTree_Basic(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "main.py", "print('hi')")
	writeTestFile(t, root, "src/app.js", "console.log(1)")

	tree, err := Tree(root)
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	if tree.Path != "." || tree.Kind != KindDirectory {
		t.Errorf("root node = %+v", tree)
	}

	main := findChild(tree, "main.py")
	if main == nil {
		t.Fatal("main.py missing from tree")
	}
	if main.Kind != KindFile || main.Language != "Python" || main.Size != int64(len("print('hi')")) {
		t.Errorf("main.py node = %+v", main)
	}

	src := findChild(tree, "src")
	if src == nil || src.Kind != KindDirectory {
		t.Fatalf("src node = %+v", src)
	}
	app := findChild(src, "app.js")
	if app == nil || app.Path != "src/app.js" {
		t.Errorf("app.js node = %+v", app)
	}
}

func TestTree_DirectoriesFirst(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "aaa.py", "x")
	writeTestFile(t, root, "zzz/inner.py", "x")

	tree, err := Tree(root)
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(tree.Children))
	}
	if tree.Children[0].Name != "zzz" {
		t.Errorf("first child = %q, want the directory", tree.Children[0].Name)
	}
}

func TestTree_ExcludesNoiseDirs(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "main.py", "x")
	writeTestFile(t, root, "node_modules/react/index.js", "x")
	writeTestFile(t, root, ".git/HEAD", "ref")
	writeTestFile(t, root, "__pycache__/main.pyc", "x")

	tree, err := Tree(root)
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	for _, name := range []string{"node_modules", ".git", "__pycache__"} {
		if findChild(tree, name) != nil {
			t.Errorf("%s should be excluded from the tree", name)
		}
	}
}

func TestTree_DotfileAllowlist(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "main.py", "x")
	writeTestFile(t, root, ".gitignore", "node_modules")
	writeTestFile(t, root, ".env", "KEY=1")
	writeTestFile(t, root, ".secret", "hidden")

	tree, err := Tree(root)
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	if findChild(tree, ".gitignore") == nil {
		t.Error(".gitignore should be shown")
	}
	if findChild(tree, ".env") == nil {
		t.Error(".env should be shown")
	}
	if findChild(tree, ".secret") != nil {
		t.Error(".secret should be hidden")
	}
}

func TestTree_MissingRoot(t *testing.T) {
	if _, err := Tree("/does/not/exist"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Tree should return NOT_FOUND, got: %v", err)
	}
}
