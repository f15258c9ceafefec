package stringsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", " ", "x", "y"); got != "x" {
		t.Fatalf("FirstNonEmpty: want 'x', got %q", got)
	}
	if got := FirstNonEmpty("", ""); got != "" {
		t.Fatalf("FirstNonEmpty empty: want '', got %q", got)
	}
}

func TestSubstitute(t *testing.T) {
	vals := map[string]string{"author": "Smith", "year": "2023", "empty": ""}
	tests := []struct {
		tmpl string
		want string
	}{
		{"({author}, {year})", "(Smith, 2023)"},
		{"[{number}]", "[{number}]"},
		{"{empty}x", "x"},
		{"no placeholders", "no placeholders"},
		{"open {author", "open {author"},
		{"{}", "{}"},
		{"{{author}}", "{{author}}"},
		{"{a b}", "{a b}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Substitute(tt.tmpl, vals), "template %q", tt.tmpl)
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"author", "year"}, Placeholders("({author}, {year})"))
	assert.Nil(t, Placeholders("plain"))
}

func TestOptional(t *testing.T) {
	assert.Equal(t, ", p. 12", Optional(", p. {page}", map[string]string{"page": "12"}))
	assert.Equal(t, "", Optional(", p. {page}", map[string]string{"page": " "}))
	assert.Equal(t, "", Optional(", p. {page}", nil))
	assert.Equal(t, "fixed", Optional("fixed", nil))
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a b c", JoinNonEmpty("a", "", "  b ", "c  d"[:1]))
	assert.Equal(t, "a b", JoinNonEmpty("a  ", "\tb"))
	assert.Equal(t, "", JoinNonEmpty("", " "))
}
