package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/markdown"

	"archivedoc/internal/model"
)

// Section is the contribution of one accepted page: a source heading
// followed by the page's content blocks.
type Section struct {
	// URL is the archived URL the content came from.
	URL string
	// Blocks is the ordered content extracted from the page.
	Blocks []model.Block
}

// Builder accumulates sections in acceptance order and writes the
// assembled document to a single output file.
//
// Design decision: We keep every section in memory and re-render the
// whole document on each save instead of appending, which provides:
// 1. A valid, openable document on disk after every save
// 2. No partially written sections after a crash
// 3. Freedom to change rendering without an append-compatible format
type Builder struct {
	path     string
	sections []Section
}

// NewBuilder creates a Builder that saves to the given file path.
func NewBuilder(path string) *Builder {
	return &Builder{path: path}
}

// Path returns the output file path.
func (b *Builder) Path() string {
	return b.path
}

// SectionCount returns the number of sections added so far.
func (b *Builder) SectionCount() int {
	return len(b.sections)
}

// Add appends a section for the given archived URL.
func (b *Builder) Add(url string, blocks []model.Block) {
	b.sections = append(b.sections, Section{URL: url, Blocks: blocks})
}

// Render writes the full document to w in Markdown format.
// Each section opens with a top-level heading naming its source URL and
// closes with a horizontal rule, mirroring a page break.
func (b *Builder) Render(w io.Writer) error {
	md := markdown.NewMarkdown(w)

	for _, sec := range b.sections {
		md.H1("Content from: " + sec.URL)
		md.PlainText("")

		for _, blk := range sec.Blocks {
			renderBlock(md, blk)
		}

		md.HorizontalRule()
		md.PlainText("")
	}

	return md.Build()
}

// renderBlock writes a single content block.
func renderBlock(md *markdown.Markdown, blk model.Block) {
	switch v := blk.(type) {
	case model.Heading:
		switch v.Level {
		case 1:
			md.H1(v.Text)
		case 2:
			md.H2(v.Text)
		case 3:
			md.H3(v.Text)
		case 4:
			md.H4(v.Text)
		}
	case model.Paragraph:
		md.PlainText(renderRuns(v.Runs))
	case model.List:
		if v.Ordered {
			md.OrderedList(v.Items...)
		} else {
			md.BulletList(v.Items...)
		}
	case model.Spacer:
		md.PlainText("")
	}
}

// renderRuns concatenates a paragraph's runs, applying at most one
// style per run.
func renderRuns(runs []model.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		switch {
		case r.Bold:
			sb.WriteString(markdown.Bold(r.Text))
		case r.Italic:
			sb.WriteString(markdown.Italic(r.Text))
		default:
			sb.WriteString(r.Text)
		}
	}
	return sb.String()
}

// Save renders the document and replaces the output file atomically.
// The rendered bytes go to a temporary file in the same directory
// first; the rename either fully succeeds or leaves the previous save
// untouched.
func (b *Builder) Save() error {
	var buf bytes.Buffer
	if err := b.Render(&buf); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", b.path, err)
	}
	return nil
}
