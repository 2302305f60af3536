// Package project maps file names to parsed source files. It is the
// external collaborator of the symbol-table core: the core asks it to
// open translation units and `include files, and never touches the
// filesystem itself.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/mtikekar/verible/internal/parser"
	"github.com/mtikekar/verible/internal/syntax"
)

// TextStructure bundles a file's raw contents with its syntax tree.
type TextStructure struct {
	Contents   string
	SyntaxTree *syntax.Node
}

// SourceFile is one openable, parseable file. Parsing is idempotent:
// the first Parse result (tree and error alike) is sticky.
type SourceFile struct {
	referencedPath string
	resolvedPath   string

	parsed bool
	text   TextStructure
	err    error
}

// ReferencedPath returns the name the file was requested by.
func (f *SourceFile) ReferencedPath() string {
	return f.referencedPath
}

// ResolvedPath returns the filesystem path the file was found at.
func (f *SourceFile) ResolvedPath() string {
	return f.resolvedPath
}

// Parse reads and parses the file. Repeated calls return the first
// outcome without re-reading. A parse error still leaves the partial
// tree available through TextStructure.
func (f *SourceFile) Parse() error {
	if f.parsed {
		return f.err
	}
	f.parsed = true

	data, err := os.ReadFile(f.resolvedPath)
	if err != nil {
		f.err = fmt.Errorf("reading %s: %w", f.resolvedPath, err)
		return f.err
	}
	f.text.Contents = string(data)

	tree, err := parser.Parse(f.referencedPath, f.text.Contents)
	f.text.SyntaxTree = tree
	if err != nil {
		f.err = fmt.Errorf("parsing %s: %w", f.referencedPath, err)
	}
	log.WithField("file", f.resolvedPath).Debug("parsed source file")
	return f.err
}

// TextStructure returns the file's contents and syntax tree. Valid only
// after Parse.
func (f *SourceFile) TextStructure() *TextStructure {
	return &f.text
}

// Project is an ordered collection of translation units plus the search
// paths used to resolve included files.
type Project struct {
	root         string
	includePaths []string

	files     map[string]*SourceFile
	unitOrder []string
}

// New creates a project rooted at the given directory. Include files are
// resolved against the root first, then each include path in order.
func New(root string, includePaths []string) *Project {
	return &Project{
		root:         root,
		includePaths: includePaths,
		files:        make(map[string]*SourceFile),
	}
}

// Root returns the project root directory.
func (p *Project) Root() string {
	return p.root
}

func (p *Project) register(referenced, resolved string, isUnit bool) *SourceFile {
	if f, ok := p.files[referenced]; ok {
		return f
	}
	f := &SourceFile{referencedPath: referenced, resolvedPath: resolved}
	p.files[referenced] = f
	if isUnit {
		p.unitOrder = append(p.unitOrder, referenced)
	}
	return f
}

// OpenTranslationUnit opens a top-level file by name (relative to the
// project root, or absolute).
func (p *Project) OpenTranslationUnit(name string) (*SourceFile, error) {
	if f, ok := p.files[name]; ok {
		return f, nil
	}
	resolved := name
	if !filepath.IsAbs(name) {
		resolved = filepath.Join(p.root, name)
	}
	if _, err := os.Stat(resolved); err != nil {
		return nil, fmt.Errorf("opening translation unit %q: %w", name, err)
	}
	log.WithField("file", resolved).Debug("opened translation unit")
	return p.register(name, resolved, true), nil
}

// OpenIncludedFile resolves an `include file name against the project
// root and the configured include paths, first hit wins.
func (p *Project) OpenIncludedFile(name string) (*SourceFile, error) {
	if f, ok := p.files[name]; ok {
		return f, nil
	}
	searchDirs := append([]string{p.root}, p.includePaths...)
	for _, dir := range searchDirs {
		resolved := filepath.Join(dir, name)
		if filepath.IsAbs(name) {
			resolved = name
		}
		if _, err := os.Stat(resolved); err == nil {
			log.WithFields(log.Fields{"file": name, "resolved": resolved}).
				Debug("opened included file")
			return p.register(name, resolved, false), nil
		}
	}
	return nil, fmt.Errorf("unable to find %q among the included paths", name)
}

// TranslationUnits returns the top-level files in registration order.
// Files opened only through OpenIncludedFile are not translation units.
func (p *Project) TranslationUnits() []*SourceFile {
	units := make([]*SourceFile, 0, len(p.unitOrder))
	for _, name := range p.unitOrder {
		units = append(units, p.files[name])
	}
	return units
}
