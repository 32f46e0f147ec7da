package model

import (
	"strings"
	"testing"
)

// TestPageComputeHash tests SHA-256 hashing of page bodies.
func TestPageComputeHash(t *testing.T) {
	t.Parallel()

	t.Run("identical bodies produce identical hashes", func(t *testing.T) {
		t.Parallel()

		a := &Page{Raw: []byte("<html><body>same</body></html>")}
		b := &Page{Raw: []byte("<html><body>same</body></html>")}
		a.ComputeHash()
		b.ComputeHash()

		if a.Hash == "" {
			t.Fatal("expected non-empty hash")
		}
		if a.Hash != b.Hash {
			t.Errorf("expected equal hashes, got %q and %q", a.Hash, b.Hash)
		}
	})

	t.Run("different bodies produce different hashes", func(t *testing.T) {
		t.Parallel()

		a := &Page{Raw: []byte("one")}
		b := &Page{Raw: []byte("two")}
		a.ComputeHash()
		b.ComputeHash()

		if a.Hash == b.Hash {
			t.Errorf("expected different hashes, both %q", a.Hash)
		}
	})

	t.Run("empty body produces empty hash", func(t *testing.T) {
		t.Parallel()

		p := &Page{}
		p.ComputeHash()
		if p.Hash != "" {
			t.Errorf("expected empty hash, got %q", p.Hash)
		}
	})
}

// TestPageIsHTML tests HTML content type detection.
func TestPageIsHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html", true},
		{"text/html; charset=ISO-8859-1", true},
		{"application/xhtml+xml", true},
		{"application/json", false},
		{"image/png", false},
		{"", false},
	}

	for _, tt := range tests {
		p := &Page{ContentType: tt.contentType}
		if got := p.IsHTML(); got != tt.want {
			t.Errorf("IsHTML(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

// TestPageGetHeader tests header lookup.
func TestPageGetHeader(t *testing.T) {
	t.Parallel()

	p := &Page{Headers: map[string][]string{
		"Content-Type": {"text/html", "ignored"},
	}}

	if got := p.GetHeader("Content-Type"); got != "text/html" {
		t.Errorf("expected first value, got %q", got)
	}
	if got := p.GetHeader("X-Missing"); got != "" {
		t.Errorf("expected empty string for missing header, got %q", got)
	}
}

// TestPageTruncateRaw tests the body size cap.
func TestPageTruncateRaw(t *testing.T) {
	t.Parallel()

	p := &Page{Raw: []byte(strings.Repeat("x", MaxPageSize+100))}
	p.TruncateRaw()

	if len(p.Raw) != MaxPageSize {
		t.Errorf("expected body truncated to %d bytes, got %d", MaxPageSize, len(p.Raw))
	}
}
