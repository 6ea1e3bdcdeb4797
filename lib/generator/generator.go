// Package generator turns table schemas into forms, either at runtime with
// Build or ahead of time as Go source with Generate.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SchemaSuffix marks the schema files picked up by Generator.
const SchemaSuffix = ".form.yaml"

// OutputSuffix marks generated files.
const OutputSuffix = "_form.go"

// Options configures the generator.
type Options struct {
	DryRun bool
	// Package overrides the package name of generated files. By default
	// it is the name of the directory holding the schema.
	Package string
	// Out receives progress lines; nil discards them.
	Out io.Writer
	// Concurrency bounds the number of schemas processed at once
	// (default 4).
	Concurrency int
}

// Generator writes a *_form.go file next to every schema file.
type Generator struct {
	opts Options
	mu   sync.Mutex
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Generator{opts: opts}
}

// Generate generates code for the schema files matched by patterns. A
// pattern is a schema file, a directory, or a directory followed by
// "/..." to include subdirectories.
func (g *Generator) Generate(ctx context.Context, patterns ...string) error {
	files, err := g.findSchemas(patterns)
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)
	for _, file := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := g.generateFile(file); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// Clean removes generated files for the given patterns.
func (g *Generator) Clean(patterns ...string) error {
	files, err := g.findSchemas(patterns)
	if err != nil {
		return err
	}
	for _, file := range files {
		out := outputPath(file)
		if _, err := os.Stat(out); os.IsNotExist(err) {
			continue
		}
		g.printf("removing %s\n", out)
		if g.opts.DryRun {
			continue
		}
		if err := os.Remove(out); err != nil {
			return err
		}
	}
	return nil
}

// findSchemas resolves patterns to schema file paths.
func (g *Generator) findSchemas(patterns []string) ([]string, error) {
	var files []string

	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, SchemaSuffix) {
			files = append(files, pattern)
			continue
		}

		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		recursive := root != pattern

		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				base := d.Name()
				if path != root && (!recursive || strings.HasPrefix(base, ".") || base == "vendor" || base == "testdata") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), SchemaSuffix) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func (g *Generator) generateFile(path string) error {
	s, err := Load(path)
	if err != nil {
		return err
	}

	pkg := g.opts.Package
	if pkg == "" {
		abs, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return err
		}
		pkg = packageName(filepath.Base(abs))
	}

	out := outputPath(path)
	g.printf("generating %s\n", out)
	if g.opts.DryRun {
		return nil
	}

	code, err := Generate(s, pkg)
	if err != nil {
		return err
	}
	return os.WriteFile(out, code, 0644)
}

func (g *Generator) printf(format string, args ...any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprintf(g.opts.Out, format, args...)
}

func outputPath(schema string) string {
	return strings.TrimSuffix(schema, SchemaSuffix) + OutputSuffix
}

// packageName turns a directory name into a valid package name.
func packageName(dir string) string {
	var b bytes.Buffer
	for _, r := range strings.ToLower(dir) {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9' && b.Len() > 0) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "forms"
	}
	return b.String()
}
