// Package compile drives a whole register-map build: it discovers source
// documents under a directory, parses them, and elaborates every component
// before any memory map so that instances always bind against a complete
// component set.
package compile

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hdlutil/regmap/pkg/document"
	"github.com/hdlutil/regmap/pkg/model"
	"github.com/hdlutil/regmap/pkg/rmerr"
)

// DefaultExtension is the file suffix scanned for when Options.Extensions
// is empty.
const DefaultExtension = ".xml"

// Options configures a compilation run.
type Options struct {
	Extensions      []string             // File suffixes to compile (default: [".xml"])
	ContinueOnError bool                 // Collect errors per document instead of stopping
	Logger          func(string, ...any) // Progress callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{DefaultExtension}
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Result holds everything a compilation produced. With ContinueOnError set,
// Errors carries one entry per failed document and the maps hold whatever
// still elaborated cleanly.
type Result struct {
	Components map[string]*model.Node
	MemoryMaps map[string]*model.Node
	Files      []string // Every file compiled, in compilation order
	Errors     []error
}

// source is a parsed document waiting for elaboration.
type source struct {
	tag  *document.Tag
	file string
}

// Compile walks root recursively, parses every matching file, and elaborates
// the documents in two phases: all components first, then all memory maps.
// Files are processed in sorted path order so results are reproducible.
//
// Without ContinueOnError the first failing document aborts the run and
// Compile returns its error alongside the partial Result. With it, errors
// accumulate in Result.Errors and Compile returns nil.
func Compile(ctx context.Context, root string, opts Options) (*Result, error) {
	opts = opts.WithDefaults()
	res := &Result{
		Components: make(map[string]*model.Node),
		MemoryMaps: make(map[string]*model.Node),
	}

	files, err := findSources(root, opts.Extensions)
	if err != nil {
		return res, err
	}

	fail := func(err error) error {
		if opts.ContinueOnError {
			opts.Logger("error: %v", err)
			res.Errors = append(res.Errors, err)
			return nil
		}
		return err
	}

	// Parse everything up front; elaboration order must not depend on
	// which file holds which root.
	var comps, mms []source
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		opts.Logger("parsing %s", file)
		tag, err := document.ParseFile(file)
		if err != nil {
			if err := fail(err); err != nil {
				return res, err
			}
			continue
		}
		res.Files = append(res.Files, file)
		switch tag.Name {
		case "component":
			comps = append(comps, source{tag, file})
		case "memorymap":
			mms = append(mms, source{tag, file})
		default:
			err := rmerr.At(
				rmerr.New(rmerr.CodeBadRoot, "root element %q is neither component nor memorymap", tag.Name),
				rmerr.Location{File: file, Line: tag.Loc.Line})
			if err := fail(err); err != nil {
				return res, err
			}
		}
	}

	for _, src := range comps {
		n, err := model.ElaborateComponent(src.tag)
		if err == nil {
			err = record(res.Components, n, src, "component")
		}
		if err != nil {
			if err := fail(err); err != nil {
				return res, err
			}
			continue
		}
		opts.Logger("component %q: %d words", n.Name, n.Size.Val)
	}

	for _, src := range mms {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n, err := model.ElaborateMemoryMap(src.tag, res.Components)
		if err == nil {
			err = record(res.MemoryMaps, n, src, "memory map")
		}
		if err != nil {
			if err := fail(err); err != nil {
				return res, err
			}
			continue
		}
		opts.Logger("memory map %q: %d bytes", n.Name, n.Size.Val)
	}

	return res, nil
}

// record stores an elaborated root under its name, rejecting redefinitions.
func record(into map[string]*model.Node, n *model.Node, src source, what string) error {
	if prev, ok := into[n.Name]; ok {
		return rmerr.At(
			rmerr.New(rmerr.CodeDuplicate, "%s %q already defined at %s", what, n.Name, prev.Loc),
			rmerr.Location{File: src.file, Line: src.tag.Loc.Line})
	}
	into[n.Name] = n
	return nil
}

// findSources lists every file under root with one of the given suffixes.
// A root that is itself a file is compiled as-is. Hidden directories and
// directories starting with an underscore are skipped.
func findSources(root string, exts []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		for _, ext := range exts {
			if strings.EqualFold(filepath.Ext(name), ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
