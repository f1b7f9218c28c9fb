package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"autoc/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "auto.toml"), "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := project.FindManifest(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}
	if filepath.Dir(path) != root {
		t.Errorf("found %s, want manifest in %s", path, root)
	}
}

func TestFindManifestMissing(t *testing.T) {
	_, ok, err := project.FindManifest(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unexpected manifest in empty tree")
	}
}

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "auto.toml"), `
[package]
name = "rocket"
version = "0.1.0"

[build]
main = "src"
`)

	m, ok, err := project.LoadManifest(root)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}
	if m.Config.Package.Name != "rocket" {
		t.Errorf("name = %q", m.Config.Package.Name)
	}
	if got, want := m.MainPath(), filepath.Join(root, "src"); got != want {
		t.Errorf("MainPath = %q, want %q", got, want)
	}
	if m.OutputStem() != "rocket" {
		t.Errorf("OutputStem = %q", m.OutputStem())
	}
}

func TestLoadManifestRequiresPackageName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "auto.toml"), "[package]\n")

	_, _, err := project.LoadManifest(root)
	if err == nil {
		t.Fatal("expected error for missing [package].name")
	}
}

func TestListSourceFilesSortedAndFiltered(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.at"), "fn b() int { return 0 }\n")
	writeFile(t, filepath.Join(root, "a.at"), "fn a() int { return 0 }\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "not a module\n")
	writeFile(t, filepath.Join(root, "sub", "c.at"), "fn c() int { return 0 }\n")
	writeFile(t, filepath.Join(root, ".cache", "d.at"), "skipped\n")

	files, err := project.ListSourceFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "a.at" || filepath.Base(files[1]) != "b.at" {
		t.Errorf("files not sorted: %v", files)
	}
}

func TestCombineOrderMatters(t *testing.T) {
	var a, b, c project.Digest
	a[0], b[0], c[0] = 1, 2, 3

	if project.Combine(a, b, c) == project.Combine(a, c, b) {
		t.Error("dependency order must affect the aggregate hash")
	}
	if project.Combine(a) == project.Combine(b) {
		t.Error("distinct content must yield distinct hashes")
	}
}
