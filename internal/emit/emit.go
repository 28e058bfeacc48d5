// Package emit writes rendered documents to the output directory.
//
// Every file is written to a temporary sibling first and renamed into place,
// so a reader never sees a partially written document.
package emit

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/beandoc/internal/discovery"
	"git.home.luguber.info/inful/beandoc/internal/logfields"
	"git.home.luguber.info/inful/beandoc/internal/markdown"
)

// ErrDanglingLink reports a relative link to a file that was not emitted.
var ErrDanglingLink = errors.New("link target not emitted")

// ErrMalformedTable reports a Markdown table without a header row.
var ErrMalformedTable = errors.New("malformed table")

// Renderer turns beans and entry lists into documents.
type Renderer interface {
	Detail(bean discovery.Bean) (string, error)
	Summary(entries []discovery.Entry) (string, error)
	Extension() string
	SummaryName() string
}

// Kind distinguishes detail documents from the summary.
type Kind string

const (
	KindDetail  Kind = "detail"
	KindSummary Kind = "summary"
	KindPreview Kind = "preview"
)

// Artifact is one file written by the emitter.
type Artifact struct {
	Kind    Kind
	EntryID string
	Path    string
	Body    string
}

// Options controls an Emitter.
type Options struct {
	// Clean removes files with the renderer's extension before writing.
	Clean bool
	// HTMLPreview writes an HTML rendering next to every Markdown document.
	HTMLPreview bool
	Logger      *slog.Logger
}

// Emitter writes documents produced by a Renderer into one directory.
type Emitter struct {
	dir       string
	renderer  Renderer
	opts      Options
	logger    *slog.Logger
	artifacts []Artifact
}

// New creates an emitter for dir.
func New(dir string, r Renderer, opts Options) *Emitter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{dir: dir, renderer: r, opts: opts, logger: logger}
}

// Dir returns the output directory.
func (e *Emitter) Dir() string { return e.dir }

// Artifacts returns the files written so far, in write order.
func (e *Emitter) Artifacts() []Artifact {
	return append([]Artifact(nil), e.artifacts...)
}

// Prepare creates the output directory and, when cleaning, removes
// documents left over from an earlier run.
func (e *Emitter) Prepare() error {
	if err := os.MkdirAll(e.dir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if !e.opts.Clean {
		return nil
	}
	exts := []string{e.renderer.Extension()}
	if e.opts.HTMLPreview {
		exts = append(exts, ".html")
	}
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	for _, ent := range entries {
		if ent.IsDir() || !hasAnySuffix(ent.Name(), exts) {
			continue
		}
		path := filepath.Join(e.dir, ent.Name())
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale document: %w", err)
		}
		e.logger.Debug("Removed stale document", logfields.Path(path))
	}
	return nil
}

// WriteDetail renders and writes the document for one bean. It reports
// false without writing when the bean has nothing to document.
func (e *Emitter) WriteDetail(bean discovery.Bean) (Artifact, bool, error) {
	body, err := e.renderer.Detail(bean)
	if err != nil {
		return Artifact{}, false, fmt.Errorf("render %s: %w", bean.Name, err)
	}
	if body == "" {
		return Artifact{}, false, nil
	}
	a, err := e.write(KindDetail, bean.ID, body)
	if err != nil {
		return Artifact{}, false, err
	}
	return a, true, nil
}

// WriteSummary renders and writes the summary document.
func (e *Emitter) WriteSummary(entries []discovery.Entry) (Artifact, error) {
	body, err := e.renderer.Summary(entries)
	if err != nil {
		return Artifact{}, fmt.Errorf("render summary: %w", err)
	}
	return e.write(KindSummary, e.renderer.SummaryName(), body)
}

func (e *Emitter) write(kind Kind, id, body string) (Artifact, error) {
	path := filepath.Join(e.dir, id+e.renderer.Extension())
	if err := WriteFileAtomic(path, []byte(body)); err != nil {
		return Artifact{}, err
	}
	a := Artifact{Kind: kind, EntryID: id, Path: path, Body: body}
	e.artifacts = append(e.artifacts, a)
	e.logger.Debug("Wrote document", logfields.Path(path), slog.String("kind", string(kind)))

	if e.opts.HTMLPreview && e.renderer.Extension() == markdown.Extension {
		html, err := markdown.ToHTML([]byte(body))
		if err != nil {
			return Artifact{}, fmt.Errorf("render preview for %s: %w", id, err)
		}
		preview := filepath.Join(e.dir, id+".html")
		if err := WriteFileAtomic(preview, html); err != nil {
			return Artifact{}, err
		}
		e.artifacts = append(e.artifacts, Artifact{Kind: KindPreview, EntryID: id, Path: preview, Body: string(html)})
	}
	return a, nil
}

// Verify checks the written Markdown documents: every table has a header
// row and every relative link points at a document written by this emitter.
// Other formats pass unchecked.
func (e *Emitter) Verify() error {
	if e.renderer.Extension() != markdown.Extension {
		return nil
	}
	written := make(map[string]bool, len(e.artifacts))
	for _, a := range e.artifacts {
		written[filepath.Base(a.Path)] = true
	}

	var errs []error
	for _, a := range e.artifacts {
		if a.Kind == KindPreview {
			continue
		}
		rep := markdown.Inspect([]byte(a.Body))
		for i, t := range rep.Tables {
			if t.Columns == 0 {
				errs = append(errs, fmt.Errorf("%w: table %d in %s", ErrMalformedTable, i+1, a.Path))
			}
		}
		for _, l := range rep.Links {
			target, ok := localTarget(l.Destination)
			if !ok || written[target] {
				continue
			}
			errs = append(errs, fmt.Errorf("%w: %s links to %s", ErrDanglingLink, a.Path, l.Destination))
		}
	}
	return errors.Join(errs...)
}

// localTarget returns the file a relative link points at.
func localTarget(dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return "", false
	}
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	// Links into other directories, such as API docs, are not ours to check.
	if strings.Contains(dest, "/") {
		return "", false
	}
	return dest, true
}

// WriteFileAtomic writes data to a temporary file in the target directory
// and renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }() // No-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
