package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autoc/internal/driver"
	"autoc/internal/project"
)

func writeModule(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTokenizeCountsTokens(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "m.at", "let x = 1\n")

	res, err := driver.Tokenize(path, 16)
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Bag.Items())
	}
	if len(res.Tokens) < 4 {
		t.Errorf("got %d tokens", len(res.Tokens))
	}
}

func TestDiagnoseReportsUnresolved(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "m.at", "fn f() int {\n\treturn missing\n}\n")

	res, err := driver.Diagnose(path, 16)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bag.HasErrors() {
		t.Error("expected an unresolved identifier error")
	}
}

func TestCompileDirProducesModuleOutputs(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "alpha.at", "fn one() int {\n\treturn 1\n}\n")
	writeModule(t, dir, "beta.at", "fn two() int {\n\treturn 2\n}\n")

	res, err := driver.CompileDir(context.Background(), dir, driver.CompileOptions{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.HasErrors() {
		t.Fatal("clean input must not be withheld")
	}
	if len(res.Modules) != 2 {
		t.Fatalf("got %d modules", len(res.Modules))
	}
	if res.Modules[0].Name != "alpha" || res.Modules[1].Name != "beta" {
		t.Errorf("module order: %s, %s", res.Modules[0].Name, res.Modules[1].Name)
	}
	if !strings.Contains(string(res.Modules[0].Output.Impl), "int64_t one(void)") {
		t.Errorf("alpha impl:\n%s", res.Modules[0].Output.Impl)
	}

	out := filepath.Join(dir, "build")
	written, err := driver.WriteOutputs(res, out, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 4 {
		t.Errorf("wrote %d files, want header and impl per module: %v", len(written), written)
	}
}

func TestCompileBrokenModuleDoesNotBlockSiblings(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "bad.at", "fn f() int {\n\treturn missing\n}\n")
	writeModule(t, dir, "good.at", "fn g() int {\n\treturn 3\n}\n")

	res, err := driver.CompileDir(context.Background(), dir, driver.CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Modules[0].Broken {
		t.Error("bad module should be withheld")
	}
	if res.Modules[1].Broken {
		t.Error("good module must still compile")
	}
	if len(res.Modules[1].Output.Impl) == 0 {
		t.Error("good module produced no output")
	}
}

func TestCompileEmitsSharedHeaderForGenerics(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "opt.at", `
tag May<T> {
	none Nil
	some T
}

fn pick(m May<int>) int {
	is m {
		May.none => 0
		May.some(v) => v
	}
	return 0
}
`)

	res, err := driver.CompileDir(context.Background(), dir, driver.CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.HasErrors() {
		for _, m := range res.Modules {
			for _, d := range m.Bag.Items() {
				t.Logf("%s: %s", d.Code, d.Message)
			}
		}
		t.Fatal("generic module failed to compile")
	}
	if res.Shared == nil {
		t.Fatal("expected a shared definitions header")
	}
	if !strings.Contains(string(res.Shared.Header), "struct May_int {") {
		t.Errorf("shared header:\n%s", res.Shared.Header)
	}
	if !strings.Contains(string(res.Modules[0].Output.Header), "autogen_types.h") {
		t.Error("module header should include the shared header")
	}
}

func TestCompileSecondRunServedFromDiskCache(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "calc.at", "fn add(a int, b int) int {\n\treturn a + b\n}\n")

	cache, err := driver.OpenDiskCacheAt(filepath.Join(dir, ".cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := driver.CompileOptions{Cache: cache}

	first, err := driver.CompileDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Modules[0].Cached {
		t.Fatal("first run cannot be a cache hit")
	}

	second, err := driver.CompileDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Modules[0].Cached {
		t.Fatal("second run should hit the cache")
	}
	if string(second.Modules[0].Output.Impl) != string(first.Modules[0].Output.Impl) {
		t.Error("cached output differs from fresh output")
	}
}

func TestCompileHonorsCallerCancellation(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "m.at", "fn f() int {\n\treturn 1\n}\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.CompileDir(ctx, dir, driver.CompileOptions{}); err == nil {
		t.Fatal("canceled context must abort the build")
	}
}

func TestBuildHashTracksContent(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "m.at", "fn f() int {\n\treturn 1\n}\n")

	first, err := driver.CompileDir(context.Background(), dir, driver.CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	again, err := driver.CompileDir(context.Background(), dir, driver.CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if first.BuildHash != again.BuildHash {
		t.Error("identical input must hash identically")
	}

	if err := os.WriteFile(path, []byte("fn f() int {\n\treturn 2\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	changed, err := driver.CompileDir(context.Background(), dir, driver.CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if changed.BuildHash == first.BuildHash {
		t.Error("edited input must change the build hash")
	}
}

func TestDiskCacheMissOnUnknownKey(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var key project.Digest
	key[0] = 42
	var payload driver.DiskPayload
	hit, err := cache.Get(key, &payload)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("empty cache reported a hit")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var key project.Digest
	key[0] = 7
	in := &driver.DiskPayload{
		Path:   "m.at",
		Module: "m",
		Impl:   []byte("int main(void) { return 0; }\n"),
		Insts:  []driver.InstRecord{{Base: "May", Args: []string{"int"}}},
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatal(err)
	}
	var out driver.DiskPayload
	hit, err := cache.Get(key, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("stored payload not found")
	}
	if out.Module != "m" || string(out.Impl) != string(in.Impl) {
		t.Errorf("payload mismatch: %+v", out)
	}
	if len(out.Insts) != 1 || out.Insts[0].Base != "May" {
		t.Errorf("instantiations lost: %+v", out.Insts)
	}
}
