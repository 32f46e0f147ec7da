package model

// Block is a single unit of extracted page content in document order.
// The concrete types are Heading, Paragraph, List, and Spacer.
//
// Design decision: We use a sealed interface rather than a tagged struct
// because:
//  1. Each block kind carries different fields
//  2. Renderers switch on the concrete type, which the compiler checks
//  3. New block kinds fail loudly at every switch instead of silently
type Block interface {
	isBlock()
}

// Heading is a section heading extracted from <h1> through <h4>.
type Heading struct {
	// Level is the heading level, 1 through 4.
	Level int

	// Text is the trimmed heading text.
	Text string
}

func (Heading) isBlock() {}

// Run is a span of paragraph text with at most one style applied.
// A run is bold or italic or plain, never a combination: runs come from a
// single-pass classification of a paragraph's immediate children, not from
// full style composition.
type Run struct {
	// Text is the run's text content.
	Text string

	// Bold marks text from <strong> or <b> children.
	Bold bool

	// Italic marks text from <em> or <i> children.
	Italic bool
}

// Paragraph is a <p> element decomposed into styled runs.
type Paragraph struct {
	// Runs holds the paragraph's text spans in document order.
	Runs []Run
}

func (Paragraph) isBlock() {}

// List is a <ul> or <ol> element.
type List struct {
	// Ordered is true for <ol>, false for <ul>.
	Ordered bool

	// Items holds the trimmed text of each direct <li> child.
	Items []string
}

func (List) isBlock() {}

// Spacer is a blank separator emitted after every content block for
// visual separation in the rendered document.
type Spacer struct{}

func (Spacer) isBlock() {}
