// Package module implements Myco's "use ... as ..." loader: path
// resolution against a base-directory stack, an alias-to-AST registry,
// and the bare+qualified function resolver spec.md §9 asks to centralize
// ("Module functions twice") rather than scatter across the evaluator.
package module

import (
	"os"
	"path"
	"strings"

	"github.com/mycolang/myco/internal/ast"
)

// NativeDispatcher answers calls into a module that has no Myco source
// (e.g. a standard-library alias registered by internal/builtins).
type NativeDispatcher func(fnName string, args []ast.Expression) (interface{}, error)

// Loaded is one registered module: either a parsed Myco AST, or a native
// dispatcher, never both.
type Loaded struct {
	Alias   string
	Program *ast.Program // nil for native modules
	Native  NativeDispatcher
}

// Registry owns every loaded module, the function registry, and the
// base-directory stack used to resolve relative "use" paths.
type Registry struct {
	modules   map[string]*Loaded
	order     []string
	functions map[string]*ast.FunctionDefinition
	funcOrder []string
	baseDirs  []string
}

// New creates an empty registry rooted at baseDir (the directory of the
// entry source file, per spec.md §6's "Module search").
func New(baseDir string) *Registry {
	return &Registry{
		modules:   make(map[string]*Loaded),
		functions: make(map[string]*ast.FunctionDefinition),
		baseDirs:  []string{baseDir},
	}
}

// BaseDir returns the directory relative paths currently resolve against.
func (r *Registry) BaseDir() string {
	return r.baseDirs[len(r.baseDirs)-1]
}

func (r *Registry) pushBaseDir(dir string) { r.baseDirs = append(r.baseDirs, dir) }
func (r *Registry) popBaseDir() {
	if len(r.baseDirs) > 1 {
		r.baseDirs = r.baseDirs[:len(r.baseDirs)-1]
	}
}

// ResolvePath implements spec.md §4.5's normalization: strip a leading
// "./", append ".myco" if missing, resolve relative to the base directory.
func (r *Registry) ResolvePath(p string) string {
	p = strings.TrimPrefix(p, "./")
	if !strings.HasSuffix(p, ".myco") {
		p += ".myco"
	}
	if path.IsAbs(p) {
		return p
	}
	return path.Join(r.BaseDir(), p)
}

// RegisterNative installs a dependency-free module, e.g. a standard
// library alias dispatched through internal/builtins.
func (r *Registry) RegisterNative(alias string, dispatch NativeDispatcher) {
	r.modules[alias] = &Loaded{Alias: alias, Native: dispatch}
	r.order = append(r.order, alias)
}

// Get returns the module registered under alias, if any.
func (r *Registry) Get(alias string) (*Loaded, bool) {
	m, ok := r.modules[alias]
	return m, ok
}

// Aliases returns every loaded module alias in load order.
func (r *Registry) Aliases() []string {
	return append([]string(nil), r.order...)
}

// Load reads, lexes, and parses the module at path, registers it under
// alias, registers every top-level function bare and alias-qualified, and
// pushes the module's directory as the base for its own nested "use"
// statements. parse is supplied by the evaluator (which owns lexer and
// parser wiring) to avoid a module->eval->module import cycle; onLoaded is
// called after the module and its functions are registered, while the
// module's directory is the base directory, so the evaluator can evaluate
// the module's top-level lets and nested uses.
func (r *Registry) Load(rawPath, alias string, parse func(source string) (*ast.Program, error), onLoaded func(alias string, prog *ast.Program) error) error {
	resolved := r.ResolvePath(rawPath)

	data, err := os.ReadFile(resolved)
	if err != nil {
		return err
	}

	prog, err := parse(string(data))
	if err != nil {
		return err
	}

	r.modules[alias] = &Loaded{Alias: alias, Program: prog}
	r.order = append(r.order, alias)

	for _, stmt := range prog.Statements {
		if fn, ok := stmt.(*ast.FunctionDefinition); ok {
			r.RegisterFunction(fn.Name, fn)
			r.RegisterFunction(alias+"."+fn.Name, fn)
		}
	}

	r.pushBaseDir(path.Dir(resolved))
	defer r.popBaseDir()

	if onLoaded != nil {
		return onLoaded(alias, prog)
	}
	return nil
}

// RegisterFunction records a function under name, most-recent registration
// winning on lookup (spec.md §3 "Function registry").
func (r *Registry) RegisterFunction(name string, fn *ast.FunctionDefinition) {
	if _, exists := r.functions[name]; !exists {
		r.funcOrder = append(r.funcOrder, name)
	}
	r.functions[name] = fn
}

// Resolve implements the single resolver spec.md §9 asks for: try
// "alias.name" if the call was qualified, then the bare name, then each
// loaded module in load order.
func (r *Registry) Resolve(name string) (*ast.FunctionDefinition, bool) {
	if fn, ok := r.functions[name]; ok {
		return fn, true
	}
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		return nil, false
	}
	for _, alias := range r.order {
		if fn, ok := r.functions[alias+"."+name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// Reset discards every registered module and function, per spec.md §5's
// reset contract ("discard all ... functions, modules ...").
func (r *Registry) Reset(baseDir string) {
	r.modules = make(map[string]*Loaded)
	r.order = nil
	r.functions = make(map[string]*ast.FunctionDefinition)
	r.funcOrder = nil
	r.baseDirs = []string{baseDir}
}
