package graph

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Resolver maps raw import specifiers to repo-relative file paths from the
// set of files discovered by the scan. Specifiers that point outside the
// repository (stdlib, external packages) do not resolve; the caller drops
// those edges and marks the importing file unresolved.
type Resolver struct {
	fileSet   map[string]bool
	dirIndex  map[string][]string
	goModPath string
}

// NewResolver builds a Resolver over the known repo-relative file paths.
// repoRoot is consulted only for go.mod, to learn the Go module path.
func NewResolver(repoRoot string, knownFiles []string) *Resolver {
	r := &Resolver{
		fileSet:  make(map[string]bool, len(knownFiles)),
		dirIndex: make(map[string][]string),
	}
	for _, f := range knownFiles {
		f = filepath.ToSlash(f)
		r.fileSet[f] = true
		dir := pathDir(f)
		r.dirIndex[dir] = append(r.dirIndex[dir], f)
	}
	r.goModPath = readGoModulePath(repoRoot)
	return r
}

// Resolve maps one import specifier to a repo-relative file path. The second
// return is false when the specifier does not resolve inside the repository.
func (r *Resolver) Resolve(target, sourceFile string, lang Language) (string, bool) {
	sourceFile = filepath.ToSlash(sourceFile)
	switch lang {
	case LangGo:
		return r.resolveGo(target)
	case LangTypeScript:
		return r.resolveTS(target, sourceFile)
	case LangPython:
		return r.resolvePython(target, sourceFile)
	case LangRust:
		return r.resolveRust(target, sourceFile)
	default:
		return "", false
	}
}

// --- Go ---

// resolveGo maps a module-qualified import path to the first .go file of the
// target directory, sorted for determinism.
func (r *Resolver) resolveGo(importPath string) (string, bool) {
	if r.goModPath == "" {
		return "", false
	}
	// A bare prefix match would claim sibling modules like "repo2" for
	// module "repo"; the path must end or continue at a "/" boundary.
	if importPath != r.goModPath && !strings.HasPrefix(importPath, r.goModPath+"/") {
		return "", false // stdlib or external module
	}
	relDir := strings.TrimPrefix(strings.TrimPrefix(importPath, r.goModPath), "/")

	files := append([]string(nil), r.dirIndex[relDir]...)
	sort.Strings(files)
	for _, f := range files {
		if strings.HasSuffix(f, ".go") && !strings.HasSuffix(f, "_test.go") {
			return f, true
		}
	}
	return "", false
}

// --- TypeScript ---

var tsProbeExts = []string{".ts", ".tsx", ".js", ".jsx", "/index.ts", "/index.tsx", "/index.js"}

func (r *Resolver) resolveTS(importPath, sourceFile string) (string, bool) {
	if !strings.HasPrefix(importPath, "./") && !strings.HasPrefix(importPath, "../") {
		return "", false // bare specifier: external package
	}
	base := pathJoin(pathDir(sourceFile), importPath)
	return r.probe(base, tsProbeExts)
}

// --- Python ---

func (r *Resolver) resolvePython(importPath, sourceFile string) (string, bool) {
	dots := 0
	for _, c := range importPath {
		if c != '.' {
			break
		}
		dots++
	}
	modulePart := strings.ReplaceAll(importPath[dots:], ".", "/")

	if dots > 0 {
		// Relative import: one dot is the current package, each further dot
		// one level up.
		baseDir := pathDir(sourceFile)
		for i := 1; i < dots; i++ {
			baseDir = pathDir(baseDir)
		}
		if modulePart == "" {
			return r.probe(pathJoin(baseDir, "__init__"), []string{".py"})
		}
		return r.probe(pathJoin(baseDir, modulePart), []string{".py", "/__init__.py"})
	}

	// Absolute import: resolves only when the top-level package lives in
	// this repository.
	return r.probe(modulePart, []string{".py", "/__init__.py"})
}

// --- Rust ---

func (r *Resolver) resolveRust(importPath, sourceFile string) (string, bool) {
	// Strip use-list braces: "crate::model::{User, Repo}" -> "crate::model".
	if idx := strings.Index(importPath, "::{"); idx != -1 {
		importPath = importPath[:idx]
	}

	toRel := func(p string) string { return strings.ReplaceAll(p, "::", "/") }
	rustExts := []string{".rs", "/mod.rs"}

	switch {
	case strings.HasPrefix(importPath, "crate::"):
		rel := toRel(strings.TrimPrefix(importPath, "crate::"))
		for _, base := range []string{pathJoin("src", rel), rel, pathJoin(rustSrcRoot(sourceFile), rel)} {
			if resolved, ok := r.probe(base, rustExts); ok {
				return resolved, true
			}
		}
		return "", false
	case strings.HasPrefix(importPath, "self::"):
		rel := toRel(strings.TrimPrefix(importPath, "self::"))
		return r.probe(pathJoin(pathDir(sourceFile), rel), rustExts)
	case strings.HasPrefix(importPath, "super::"):
		rel := toRel(strings.TrimPrefix(importPath, "super::"))
		return r.probe(pathJoin(pathDir(pathDir(sourceFile)), rel), rustExts)
	default:
		return "", false // external crate
	}
}

// rustSrcRoot walks up from a file to the nearest "src" directory, the
// conventional crate source root.
func rustSrcRoot(sourceFile string) string {
	dir := pathDir(sourceFile)
	for dir != "." && dir != "/" && dir != "" {
		if filepath.Base(dir) == "src" {
			return dir
		}
		dir = pathDir(dir)
	}
	return ""
}

// --- Helpers ---

// probe checks base and base+ext against the known file set. No filesystem
// access happens here.
func (r *Resolver) probe(base string, exts []string) (string, bool) {
	if r.fileSet[base] {
		return base, true
	}
	for _, ext := range exts {
		if candidate := base + ext; r.fileSet[candidate] {
			return candidate, true
		}
	}
	return "", false
}

func pathDir(p string) string {
	d := filepath.ToSlash(filepath.Dir(p))
	if d == "." {
		return ""
	}
	return d
}

func pathJoin(parts ...string) string {
	return filepath.ToSlash(filepath.Join(parts...))
}

// readGoModulePath extracts the module directive from repoRoot/go.mod.
func readGoModulePath(repoRoot string) string {
	f, err := os.Open(filepath.Join(repoRoot, "go.mod"))
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module"))
		}
	}
	return ""
}
