package module

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mycolang/myco/internal/ast"
)

func TestResolvePathAppendsExtensionAndStripsDotSlash(t *testing.T) {
	r := New("/base")
	got := r.ResolvePath("./m")
	want := filepath.ToSlash(filepath.Join("/base", "m.myco"))
	if filepath.ToSlash(got) != want {
		t.Errorf("ResolvePath(./m) = %q, want %q", got, want)
	}
}

func TestResolvePathLeavesExistingExtension(t *testing.T) {
	r := New("/base")
	got := r.ResolvePath("m.myco")
	want := filepath.Join("/base", "m.myco")
	if got != want {
		t.Errorf("ResolvePath(m.myco) = %q, want %q", got, want)
	}
}

func TestRegisterFunctionMostRecentWins(t *testing.T) {
	r := New("/base")
	first := &ast.FunctionDefinition{Name: "f"}
	second := &ast.FunctionDefinition{Name: "f"}
	r.RegisterFunction("f", first)
	r.RegisterFunction("f", second)
	got, ok := r.Resolve("f")
	if !ok || got != second {
		t.Errorf("Resolve(f) did not return the most recently registered definition")
	}
}

func TestResolveQualifiedThenBareThenEachModule(t *testing.T) {
	r := New("/base")
	r.order = append(r.order, "m")
	fn := &ast.FunctionDefinition{Name: "double"}
	r.RegisterFunction("m.double", fn)

	got, ok := r.Resolve("double")
	if !ok || got != fn {
		t.Error("Resolve should fall back to scanning loaded modules for a bare name")
	}

	if _, ok := r.Resolve("missing.double"); ok {
		t.Error("Resolve should not fall back further when the call was already qualified")
	}
}

func TestLoadRegistersBareAndQualifiedFunctions(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "m.myco")
	if err := os.WriteFile(modPath, []byte("func double(n):\nend\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(dir)
	parse := func(source string) (*ast.Program, error) {
		return &ast.Program{Statements: []ast.Statement{
			&ast.FunctionDefinition{Name: "double", Body: &ast.BlockStatement{}},
		}}, nil
	}

	var loadedAlias string
	err := r.Load("m", "m", parse, func(alias string, prog *ast.Program) error {
		loadedAlias = alias
		return nil
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loadedAlias != "m" {
		t.Errorf("onLoaded alias = %q, want m", loadedAlias)
	}
	if _, ok := r.Resolve("double"); !ok {
		t.Error("Load should register the bare function name")
	}
	if _, ok := r.Resolve("m.double"); !ok {
		t.Error("Load should register the alias-qualified function name")
	}
	if _, ok := r.Get("m"); !ok {
		t.Error("Load should register the module under its alias")
	}
}

func TestLoadPropagatesReadError(t *testing.T) {
	r := New(t.TempDir())
	err := r.Load("nope", "n", func(string) (*ast.Program, error) {
		return nil, fmt.Errorf("should not be called")
	}, nil)
	if err == nil {
		t.Error("Load should fail when the module file does not exist")
	}
}

func TestResetDiscardsEverything(t *testing.T) {
	r := New("/base")
	r.RegisterFunction("f", &ast.FunctionDefinition{Name: "f"})
	r.order = append(r.order, "m")
	r.Reset("/new-base")

	if _, ok := r.Resolve("f"); ok {
		t.Error("Reset should discard registered functions")
	}
	if len(r.Aliases()) != 0 {
		t.Error("Reset should discard loaded module aliases")
	}
	if r.BaseDir() != "/new-base" {
		t.Errorf("Reset should set the new base dir, got %q", r.BaseDir())
	}
}
