package dates

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// NoDateLiteral is the default rendering of a missing or unparseable date.
const NoDateLiteral = "n.d."

// CalendarDate is a resolved publication or access date. Month and Day are
// optional (0 when unknown). The zero value is the "no date" sentinel.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

// NoDate is the sentinel returned when a date cannot be resolved.
var NoDate = CalendarDate{}

// IsZero reports whether d is the no-date sentinel.
func (d CalendarDate) IsZero() bool { return d.Year == 0 }

// String renders d as an ISO prefix: YYYY, YYYY-MM or YYYY-MM-DD.
func (d CalendarDate) String() string {
	switch {
	case d.IsZero():
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// layouts are tried in order by Resolve. Each carries the precision it yields.
var layouts = []struct {
	layout    string
	precision int // 1 year, 2 month, 3 day
}{
	{"2006-01-02", 3},
	{time.RFC3339, 3},
	{"2006-01-02T15:04:05", 3},
	{"2006/01/02", 3},
	{"January 2, 2006", 3},
	{"Jan 2, 2006", 3},
	{"Jan. 2, 2006", 3},
	{"2 January 2006", 3},
	{"2 Jan 2006", 3},
	{"2 Jan. 2006", 3},
	{"01/02/2006", 3},
	{"2006-01", 2},
	{"2006/01", 2},
	{"January 2006", 2},
	{"Jan 2006", 2},
	{"Jan. 2006", 2},
	{"2006", 1},
}

// Resolve normalises a free-text date. It never fails: text that cannot be
// parsed, and contains no plausible year, resolves to NoDate.
func Resolve(raw string) CalendarDate {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NoDate
	}
	for _, l := range layouts {
		t, err := time.Parse(l.layout, raw)
		if err != nil {
			continue
		}
		switch l.precision {
		case 1:
			return CalendarDate{Year: t.Year()}
		case 2:
			return CalendarDate{Year: t.Year(), Month: int(t.Month())}
		default:
			return CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
		}
	}
	if y := ExtractYear(raw); y > 0 {
		return CalendarDate{Year: y}
	}
	return NoDate
}

// FromParts builds a date from structured parts. Out-of-range months and days
// are dropped rather than rejected; a non-positive year yields NoDate.
func FromParts(year, month, day int) CalendarDate {
	if year <= 0 {
		return NoDate
	}
	d := CalendarDate{Year: year}
	if month < 1 || month > 12 {
		return d
	}
	d.Month = month
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day >= 1 && day <= last {
		d.Day = day
	}
	return d
}

// Year returns the four-digit year of d, or noDate when d is the sentinel.
// An empty noDate falls back to NoDateLiteral.
func Year(d CalendarDate, noDate string) string {
	if d.IsZero() {
		if noDate == "" {
			return NoDateLiteral
		}
		return noDate
	}
	return fmt.Sprintf("%d", d.Year)
}

// Long renders "January 2, 2006", "January 2006" or "2006" depending on precision.
func Long(d CalendarDate) string {
	switch {
	case d.IsZero():
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%s %d", time.Month(d.Month), d.Year)
	default:
		return fmt.Sprintf("%s %d, %d", time.Month(d.Month), d.Day, d.Year)
	}
}

// DayMonthYear renders "2 Jan. 2006" (abbreviated month) as used by MLA.
func DayMonthYear(d CalendarDate) string {
	if d.IsZero() {
		return ""
	}
	if d.Month == 0 {
		return fmt.Sprintf("%d", d.Year)
	}
	m := shortMonth(d.Month)
	if d.Day == 0 {
		return fmt.Sprintf("%s %d", m, d.Year)
	}
	return fmt.Sprintf("%d %s %d", d.Day, m, d.Year)
}

// MonthYear renders "Sept. 2006", or the bare year without a month.
func MonthYear(d CalendarDate) string {
	switch {
	case d.IsZero():
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%d", d.Year)
	}
	return fmt.Sprintf("%s %d", shortMonth(d.Month), d.Year)
}

// MonthDay renders "January 2" or "January"; "" without a month.
func MonthDay(d CalendarDate) string {
	switch {
	case d.IsZero() || d.Month == 0:
		return ""
	case d.Day == 0:
		return time.Month(d.Month).String()
	}
	return fmt.Sprintf("%s %d", time.Month(d.Month), d.Day)
}

func shortMonth(m int) string {
	name := time.Month(m).String()
	if len(name) <= 4 {
		return name
	}
	if m == 9 {
		return "Sept."
	}
	return name[:3] + "."
}

// Accessed renders an access date as "Retrieved January 2, 2006", or "" when absent.
func Accessed(d CalendarDate) string {
	if d.IsZero() {
		return ""
	}
	return "Retrieved " + Long(d)
}

// Compare orders dates chronologically; NoDate sorts first.
func Compare(a, b CalendarDate) int {
	for _, p := range [][2]int{{a.Year, b.Year}, {a.Month, b.Month}, {a.Day, b.Day}} {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// UnmarshalYAML accepts a scalar ("2023", "2023-05-01", "May 2023"), a
// {year, month, day} mapping, or a CSL-style {date-parts: [[y, m, d]]} mapping.
// Undecodable shapes resolve to NoDate rather than failing the record.
func (d *CalendarDate) UnmarshalYAML(value *yaml.Node) error {
	*d = NoDate
	if value == nil {
		return nil
	}
	switch value.Kind {
	case yaml.ScalarNode:
		*d = Resolve(value.Value)
	case yaml.MappingNode:
		var parts struct {
			Year      int     `yaml:"year"`
			Month     int     `yaml:"month"`
			Day       int     `yaml:"day"`
			Raw       string  `yaml:"raw"`
			DateParts [][]int `yaml:"date-parts"`
		}
		if err := value.Decode(&parts); err != nil {
			return nil
		}
		switch {
		case parts.Year > 0:
			*d = FromParts(parts.Year, parts.Month, parts.Day)
		case len(parts.DateParts) > 0 && len(parts.DateParts[0]) > 0:
			p := append(parts.DateParts[0], 0, 0)
			*d = FromParts(p[0], p[1], p[2])
		case parts.Raw != "":
			*d = Resolve(parts.Raw)
		}
	}
	return nil
}

// MarshalYAML writes the ISO form, or null for NoDate.
func (d CalendarDate) MarshalYAML() (any, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// ExtractYear scans a string and returns a plausible 4-digit year if found.
func ExtractYear(s string) int {
	s = strings.TrimSpace(s)
	for i := 0; i+4 <= len(s); i++ {
		var y int
		if _, err := fmt.Sscanf(s[i:i+4], "%d", &y); err == nil {
			if y >= 1000 && y <= time.Now().Year()+1 {
				return y
			}
		}
	}
	return 0
}
