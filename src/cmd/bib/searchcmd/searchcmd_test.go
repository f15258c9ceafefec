package searchcmd

import (
	"bytes"
	"strings"
	"testing"

	"citeformat/src/internal/dates"
	"citeformat/src/internal/schema"
)

func TestWildcardAndCount(t *testing.T) {
	rx := WildcardToRegex("doe*")
	if !rx.MatchString("doe, j") || rx.MatchString("roe") {
		t.Fatalf("WildcardToRegex incorrect")
	}
	if !WildcardToRegex("*son").MatchString("johnson") {
		t.Fatalf("leading wildcard should match")
	}
	if n := CountContains("hello hello", "hello"); n != 2 {
		t.Fatalf("CountContains want 2 got %d", n)
	}
}

func match(t *testing.T, expr string, r schema.Record) bool {
	t.Helper()
	preds, err := parseExpr(expr)
	if err != nil {
		t.Fatalf("parseExpr(%q): %v", expr, err)
	}
	for _, p := range preds {
		if hit, _ := p(r); !hit {
			return false
		}
	}
	return true
}

func TestParseExprPredicates(t *testing.T) {
	r := schema.Record{
		ID:      "doe2021",
		Type:    schema.Article,
		Title:   "An Intro to Go",
		Authors: schema.Names{{Family: "Doe", Given: "Jane"}},
		Issued:  dates.CalendarDate{Year: 2021},
	}
	tests := []struct {
		expr string
		want bool
	}{
		{"title~=intro && author==doe*", true},
		{"author==doe && year>=2020", true},
		{"type==journal-article", true},
		{"type==book", false},
		{"year<2000", false},
		{"all~=jane", true},
		{"title~='rust'", false},
	}
	for _, tt := range tests {
		if got := match(t, tt.expr, r); got != tt.want {
			t.Fatalf("%q: want %v got %v", tt.expr, tt.want, got)
		}
	}
	if _, err := parseExpr("author==roe* || title~=intro"); err == nil {
		t.Fatalf("expected error for unsupported operator")
	}
	if _, err := parseExpr("  "); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}

func TestScoreRecord(t *testing.T) {
	r := schema.Record{ID: "x", Title: "Go and more Go", Authors: schema.Names{{Family: "Doe"}}}
	if s := scoreRecord(r, "doe", "go", ""); s != 5+6 {
		t.Fatalf("score want 11 got %d", s)
	}
	if s := scoreRecord(r, "roe", "", ""); s != 0 {
		t.Fatalf("non-matching author should score 0, got %d", s)
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, []string{"id", "name"}, [][]string{{"apa", "APA 7th"}, {"vancouver", "Vancouver"}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 lines got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "id         name" || lines[1] != "---------  ---------" || lines[3] != "vancouver  Vancouver" {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
}
