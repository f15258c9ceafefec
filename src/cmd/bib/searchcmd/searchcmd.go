package searchcmd

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"citeformat/src/internal/app"
	"citeformat/src/internal/schema"
)

// New returns the search command, which finds record ids to cite by
// expression or by field flags.
func New(open app.Opener) *cobra.Command {
	var authorQ, titleQ, allQ string
	cmd := &cobra.Command{
		Use:   "search [expr]",
		Short: "Search records by author/title/year/type or full record (expr or flags)",
		Long: `Search records. An expression joins terms with &&:
  author==doe*     family/given name, * wildcard
  year>=2020       year comparison (==, >=, <=, >, <)
  type==article    entry type
  title~=deep      title contains
  all~=physics     full record contains`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			records, err := a.Store.ReadAll()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				return runExprSearch(cmd, records, strings.Join(args, " "))
			}
			if isEmpty(authorQ) && isEmpty(titleQ) && isEmpty(allQ) {
				return fmt.Errorf("provide an expression or a query flag like --all, --author, or --title")
			}
			return runFlagSearch(cmd, records, authorQ, titleQ, allQ)
		},
	}
	cmd.Flags().StringVar(&authorQ, "author", "", "author search (matches family, given)")
	cmd.Flags().StringVar(&titleQ, "title", "", "title full-text search")
	cmd.Flags().StringVar(&allQ, "all", "", "full-record search (YAML)")
	return cmd
}

func isEmpty(s string) bool { return strings.TrimSpace(s) == "" }

type scored struct {
	r schema.Record
	s int
}

func runExprSearch(cmd *cobra.Command, records []schema.Record, expr string) error {
	preds, err := parseExpr(expr)
	if err != nil {
		return err
	}
	var out []scored
	for _, r := range records {
		score := 0
		ok := true
		for _, p := range preds {
			hit, sc := p(r)
			if !hit {
				ok = false
				break
			}
			score += sc
		}
		if ok {
			out = append(out, scored{r: r, s: score})
		}
	}
	renderResults(cmd, out)
	return nil
}

func runFlagSearch(cmd *cobra.Command, records []schema.Record, authorQ, titleQ, allQ string) error {
	var out []scored
	for _, r := range records {
		if s := scoreRecord(r, authorQ, titleQ, allQ); s > 0 {
			out = append(out, scored{r: r, s: s})
		}
	}
	renderResults(cmd, out)
	return nil
}

// renderResults prints hits best first; ties keep id order.
func renderResults(cmd *cobra.Command, out []scored) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].s != out[j].s {
			return out[i].s > out[j].s
		}
		return out[i].r.ID < out[j].r.ID
	})
	rows := make([][]string, 0, len(out))
	for _, it := range out {
		rows = append(rows, []string{it.r.ID, string(it.r.Type), it.r.Issued.String(), it.r.Title, firstAuthor(it.r)})
	}
	RenderTable(cmd.OutOrStdout(), []string{"id", "type", "issued", "title", "author"}, rows)
}

func firstAuthor(r schema.Record) string {
	names := r.Authors
	if len(names) == 0 {
		names = r.Editors
	}
	if len(names) == 0 {
		return ""
	}
	return nameKey(names[0])
}

func nameKey(n schema.PersonName) string {
	fam, giv := strings.TrimSpace(n.Family), strings.TrimSpace(n.Given)
	switch {
	case fam == "":
		return giv
	case giv == "":
		return fam
	}
	return fam + ", " + giv
}

type predicate func(schema.Record) (hit bool, score int)

var (
	authorTerm   = regexp.MustCompile(`(?i)^author\s*==\s*([^\s]+)$`)
	typeTerm     = regexp.MustCompile(`(?i)^type\s*==\s*([^\s]+)$`)
	yearTerm     = regexp.MustCompile(`(?i)^(year|date)\s*(==|>=|<=|>|<)\s*(\d{4})$`)
	containsTerm = regexp.MustCompile(`(?i)^(title|all)\s*~=\s*(.+)$`)
)

func parseExpr(expr string) ([]predicate, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("empty expression")
	}
	var preds []predicate
	for _, tt := range splitAnd(expr) {
		p, err := compileTerm(tt)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func compileTerm(tt string) (predicate, error) {
	if m := authorTerm.FindStringSubmatch(tt); m != nil {
		rx := WildcardToRegex(strings.ToLower(strings.TrimSpace(m[1])))
		return func(r schema.Record) (bool, int) {
			for _, n := range append(append(schema.Names{}, r.Authors...), r.Editors...) {
				name := strings.ToLower(nameKey(n))
				if rx.MatchString(name) || rx.MatchString(strings.ToLower(strings.TrimSpace(n.Family))) {
					return true, 7
				}
			}
			return false, 0
		}, nil
	}
	if m := typeTerm.FindStringSubmatch(tt); m != nil {
		want := schema.ParseEntryType(m[1])
		return func(r schema.Record) (bool, int) { return r.Type == want, 1 }, nil
	}
	if m := yearTerm.FindStringSubmatch(tt); m != nil {
		op := m[2]
		yv, _ := strconv.Atoi(m[3])
		return func(r schema.Record) (bool, int) {
			y := r.Issued.Year
			if y == 0 {
				return false, 0
			}
			ok := false
			switch op {
			case ">":
				ok = y > yv
			case ">=":
				ok = y >= yv
			case "<":
				ok = y < yv
			case "<=":
				ok = y <= yv
			case "==":
				ok = y == yv
			}
			return ok, 1
		}, nil
	}
	if m := containsTerm.FindStringSubmatch(tt); m != nil {
		field := strings.ToLower(m[1])
		q := strings.ToLower(strings.TrimSpace(trimQuotes(m[2])))
		return func(r schema.Record) (bool, int) {
			var c int
			if field == "title" {
				c = CountContains(strings.ToLower(r.Title), q) * 3
			} else {
				c = CountContains(recordText(r), q)
			}
			return c > 0, c
		}, nil
	}
	return nil, fmt.Errorf("unrecognized term: %s", tt)
}

func recordText(r schema.Record) string {
	var buf bytes.Buffer
	_ = yaml.NewEncoder(&buf).Encode(r)
	return strings.ToLower(buf.String())
}

func splitAnd(expr string) []string {
	var parts []string
	for _, p := range strings.Split(expr, "&&") {
		parts = append(parts, strings.TrimSpace(p))
	}
	return parts
}

// WildcardToRegex anchors pat, with * matching any run of characters.
func WildcardToRegex(pat string) *regexp.Regexp {
	var b strings.Builder
	for _, part := range strings.Split(pat, "*") {
		if b.Len() > 0 || strings.HasPrefix(pat, "*") {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	return regexp.MustCompile("^" + b.String() + "$")
}

func scoreRecord(r schema.Record, authorQ, titleQ, allQ string) int {
	s := 0
	add, ok := scoreAuthor(r, authorQ)
	if !ok {
		return 0
	}
	s += add
	if add, ok = scoreText(strings.ToLower(r.Title), titleQ, 3); !ok {
		return 0
	}
	s += add
	if !isEmpty(allQ) {
		if add, ok = scoreText(recordText(r), allQ, 1); !ok {
			return 0
		}
		s += add
	}
	return s
}

func scoreAuthor(r schema.Record, q string) (int, bool) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return 0, true
	}
	s := 0
	for _, n := range r.Authors {
		if strings.Contains(strings.ToLower(nameKey(n)), q) {
			s += 5
		}
	}
	return s, s > 0
}

func scoreText(text, q string, weight int) (int, bool) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return 0, true
	}
	add := CountContains(text, q) * weight
	return add, add > 0
}

// CountContains counts non-overlapping occurrences of each word of q in text.
func CountContains(text, q string) int {
	score := 0
	for _, t := range strings.Fields(q) {
		idx := 0
		for {
			i := strings.Index(text[idx:], t)
			if i < 0 {
				break
			}
			score++
			idx += i + len(t)
		}
	}
	return score
}

func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// RenderTable writes rows as space-padded columns under a dashed header.
func RenderTable(w io.Writer, headers []string, rows [][]string) {
	widths := computeColWidths(headers, rows)
	writeColumns(w, headers, widths)
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	writeColumns(w, sep, widths)
	for _, r := range rows {
		writeColumns(w, r, widths)
	}
}

func computeColWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i := range headers {
			if i < len(r) && len(r[i]) > widths[i] {
				widths[i] = len(r[i])
			}
		}
	}
	return widths
}

func writeColumns(w io.Writer, cols []string, widths []int) {
	for i, width := range widths {
		val := ""
		if i < len(cols) {
			val = cols[i]
		}
		if i == len(widths)-1 {
			_, _ = fmt.Fprint(w, val)
			break
		}
		_, _ = fmt.Fprintf(w, "%-*s  ", width, val)
	}
	_, _ = fmt.Fprint(w, "\n")
}
