// Package catalog discovers learning units from a directory of markdown
// files. The catalog supplies unit metadata and the unit count to the state
// layer; unit content itself stays on disk and is read on demand.
package catalog

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"learnhub/internal/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Unit is one piece of learning content. The ID is the extension-stripped
// path relative to the content root, stable across rescans.
type Unit struct {
	ID    string
	Title string
	Path  string
}

// scanParallelism bounds concurrent file reads during a scan.
const scanParallelism = 8

// Scan walks dir for .md files and returns units ordered by path.
func Scan(ctx context.Context, dir string) ([]Unit, error) {
	scanID := uuid.NewString()
	timer := logging.StartTimer(logging.CategoryCatalog, "Scan")
	defer timer.Stop()

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk content dir: %w", err)
	}

	units := make([]Unit, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanParallelism)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			id := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
			units[i] = Unit{
				ID:    id,
				Title: readTitle(path, id),
				Path:  path,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	logging.Get(logging.CategoryCatalog).Info("Scan %s found %d units in %s", scanID, len(units), dir)
	return units, nil
}

// readTitle returns the first markdown heading of the file, or a title
// derived from the id when no heading exists.
func readTitle(path, id string) string {
	f, err := os.Open(path)
	if err != nil {
		return titleFromID(id)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
		if line != "" {
			break // content before any heading
		}
	}
	return titleFromID(id)
}

func titleFromID(id string) string {
	base := filepath.Base(id)
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	if base == "" {
		return id
	}
	r, size := utf8.DecodeRuneInString(base)
	return string(unicode.ToUpper(r)) + base[size:]
}

// Catalog holds the current unit listing and hands changes to an onUpdate
// callback (typically wiring the count into the state hub).
type Catalog struct {
	mu       sync.RWMutex
	dir      string
	units    []Unit
	onUpdate func([]Unit)
}

// New builds a catalog over a content directory. onUpdate may be nil.
func New(dir string, onUpdate func([]Unit)) *Catalog {
	return &Catalog{dir: dir, onUpdate: onUpdate}
}

// Dir returns the content directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Refresh rescans the content directory and invokes onUpdate.
func (c *Catalog) Refresh(ctx context.Context) error {
	units, err := Scan(ctx, c.dir)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.units = units
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(units)
	}
	return nil
}

// Units returns a copy of the current unit listing.
func (c *Catalog) Units() []Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Unit, len(c.units))
	copy(out, c.units)
	return out
}

// Unit looks up a unit by id.
func (c *Catalog) Unit(id string) (Unit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, u := range c.units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// Content reads a unit's markdown body from disk.
func (c *Catalog) Content(id string) (string, error) {
	u, ok := c.Unit(id)
	if !ok {
		return "", fmt.Errorf("unknown unit %q", id)
	}
	data, err := os.ReadFile(u.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read unit %q: %w", id, err)
	}
	return string(data), nil
}
