package taskctx

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleFiles(root string) Files {
	return Files{
		NewFile(root, "composer.json"),
		NewFile(root, "src/Foo.php"),
		NewFile(root, "packages/a/composer.json"),
		NewFile(root, "README.md"),
		NewFile(root, "composer.lock"),
	}
}

func TestFiles_PathAndName(t *testing.T) {
	fs := sampleFiles("/project")

	got := fs.Path(".").Name("composer.json").Paths()
	if !reflect.DeepEqual(got, []string{"composer.json", "packages/a/composer.json"}) {
		t.Fatalf("dot selects every manifest: %v", got)
	}
	got = fs.Path("packages/a").Name("composer.json").Paths()
	if !reflect.DeepEqual(got, []string{"packages/a/composer.json"}) {
		t.Fatalf("nested filter: %v", got)
	}
	got = fs.Path("").Name("composer.*").Paths()
	if !reflect.DeepEqual(got, []string{"composer.json", "packages/a/composer.json", "composer.lock"}) {
		t.Fatalf("glob filter keeps order: %v", got)
	}
	if n := fs.Name("[").Len(); n != 0 {
		t.Fatalf("malformed pattern should match nothing, got %d", n)
	}
}

func TestFiles_PathIsSubstringMatch(t *testing.T) {
	fs := Files{
		NewFile("/p", "app/composer.json"),
		NewFile("/p", "app/sub/composer.json"),
		NewFile("/p", "webapp/composer.json"),
		NewFile("/p", "lib/composer.json"),
		NewFile("/p", "Makefile"),
	}
	got := fs.Path("app").Paths()
	want := []string{"app/composer.json", "app/sub/composer.json", "webapp/composer.json"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Path(app) = %v, want %v", got, want)
	}
	if got := fs.Path(".").Paths(); len(got) != 4 {
		t.Fatalf("Path(.) should skip names without a dot: %v", got)
	}
}

func TestFiles_PathDoesNotMutateSource(t *testing.T) {
	fs := sampleFiles("/project")
	_ = fs.Path("src")
	if fs.Len() != 5 {
		t.Fatalf("source collection changed: %d", fs.Len())
	}
}

func TestFiles_First(t *testing.T) {
	if _, ok := (Files{}).First(); ok {
		t.Fatalf("empty collection has no first file")
	}
	f, ok := sampleFiles("/p").Name("composer.*").First()
	if !ok || f.RelativePath() != "composer.json" {
		t.Fatalf("unexpected first: %v %v", f, ok)
	}
}

func TestFile_ContentsReadOnce(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "composer.json")
	if err := os.WriteFile(p, []byte(`{"name":"a/b"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := NewFile(root, "./composer.json")
	if f.RelativePath() != "composer.json" {
		t.Fatalf("relative path not cleaned: %s", f.RelativePath())
	}
	if !f.Exists() {
		t.Fatalf("expected file to exist")
	}
	first, err := f.Contents()
	if err != nil {
		t.Fatalf("contents: %v", err)
	}
	if err := os.WriteFile(p, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	second, _ := f.Contents()
	if string(first) != string(second) {
		t.Fatalf("contents should be cached: %q vs %q", first, second)
	}
}

func TestFile_MissingStillHasRealPath(t *testing.T) {
	root := t.TempDir()
	f := NewFile(root, "gone/composer.json")
	if f.Exists() {
		t.Fatalf("file should not exist")
	}
	if f.RealPath() != filepath.Join(root, "gone", "composer.json") {
		t.Fatalf("unexpected real path: %s", f.RealPath())
	}
	if _, err := f.Contents(); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestContext_Kinds(t *testing.T) {
	fs := sampleFiles("/p")
	cases := []struct {
		ctx  Context
		kind Kind
		name string
	}{
		{NewRunContext(fs), KindRun, "run"},
		{NewPreCommitContext(fs), KindPreCommit, "pre-commit"},
		{NewCommitMsgContext(fs), KindCommitMsg, "commit-msg"},
	}
	for _, c := range cases {
		if c.ctx.Kind() != c.kind || c.kind.String() != c.name {
			t.Fatalf("kind mismatch: %v %s", c.ctx.Kind(), c.kind)
		}
		if c.ctx.Files().Len() != fs.Len() {
			t.Fatalf("files not carried for %s", c.name)
		}
	}
}
