package entry

import (
	"regexp"
	"strconv"
	"strings"

	"citeformat/src/internal/dates"
	"citeformat/src/internal/names"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/stringsx"
	"citeformat/src/internal/styles"
)

// kind groups entry types that derive their fields the same way.
type kind int

const (
	kindGeneric kind = iota
	kindPeriodical
	kindBook
	kindChapter
	kindThesis
	kindWebpage
	kindReport
	kindData
)

func (k kind) String() string {
	return [...]string{"generic", "periodical", "book", "chapter", "thesis", "webpage", "report", "data"}[k]
}

// classify dispatches the closed EntryType set; anything unrecognised is generic.
func classify(t schema.EntryType) kind {
	switch t {
	case schema.Article, schema.ConferencePaper, schema.NewspaperArticle, schema.MagazineArticle:
		return kindPeriodical
	case schema.Book:
		return kindBook
	case schema.Chapter:
		return kindChapter
	case schema.Thesis:
		return kindThesis
	case schema.Webpage:
		return kindWebpage
	case schema.Report:
		return kindReport
	case schema.Dataset, schema.Software:
		return kindData
	case schema.Other:
		return kindGeneric
	default:
		return kindGeneric
	}
}

// fieldNames is every placeholder a segment template can reference.
var fieldNames = []string{
	"author", "editors", "eds",
	"year", "issued", "month_day", "month_year", "date", "date_dmy",
	"accessed", "accessed_date", "accessed_dmy", "accessed_iso",
	"title", "container", "volume", "issue", "pages", "edition",
	"publisher", "place", "genre", "genre_institution",
	"doi", "doi_url", "url", "link", "isbn", "issn", "pmid",
}

var pageRange = regexp.MustCompile(`(\w)\s*(?:--?|–|—)\s*(\w)`)

// fields derives the raw value of every placeholder for rec under rs.
// Every name in fieldNames is present, empty when the record lacks it.
func fields(rec schema.Record, rs styles.RuleSet, k kind) map[string]string {
	v := make(map[string]string, len(fieldNames))
	for _, n := range fieldNames {
		v[n] = ""
	}
	trim := strings.TrimSpace

	if len(rec.Editors) > 0 {
		v["editors"] = names.Render(rec.Editors, rs.EditorNameMode, names.First, rs.EditorNames)
		v["eds"] = rs.EditorLabel
		if len(rec.Editors) > 1 {
			v["eds"] = rs.EditorLabelPlural
		}
	}
	switch {
	case len(rec.Authors) > 0:
		v["author"] = names.Render(rec.Authors, rs.BibliographyNameMode, names.First, rs.BibliographyNames)
	case len(rec.Editors) > 0 && k != kindChapter:
		eds := names.Render(rec.Editors, rs.BibliographyNameMode, names.First, rs.BibliographyNames)
		v["author"] = eds + " (" + v["eds"] + ")"
	}

	// A record with neither creators nor a date gets no year at all, so a
	// bare title never renders "(n.d.)".
	if !rec.Issued.IsZero() || v["author"] != "" {
		v["year"] = dates.Year(rec.Issued, rs.NoDate)
	}
	if !rec.Issued.IsZero() {
		v["issued"] = dates.Year(rec.Issued, "")
	}
	v["month_day"] = dates.MonthDay(rec.Issued)
	v["month_year"] = dates.MonthYear(rec.Issued)
	v["date"] = dates.Long(rec.Issued)
	v["date_dmy"] = dates.DayMonthYear(rec.Issued)
	v["accessed"] = dates.Accessed(rec.Accessed)
	v["accessed_date"] = dates.Long(rec.Accessed)
	v["accessed_dmy"] = dates.DayMonthYear(rec.Accessed)
	v["accessed_iso"] = rec.Accessed.String()

	v["title"] = styles.ApplyTitleCase(trim(rec.Title), rs.TitleCase)
	v["container"] = trim(rec.ContainerTitle)
	if rs.JournalFormat == styles.JournalAbbreviated && (rec.Type == schema.Article || rec.Type == schema.ConferencePaper) {
		v["container"] = styles.Abbreviate(v["container"])
	}
	v["volume"] = trim(rec.Volume)
	v["issue"] = trim(rec.Issue)
	v["pages"] = pageRange.ReplaceAllString(trim(rec.Pages), "$1–$2")
	v["edition"] = ordinal(trim(rec.Edition))
	v["publisher"] = trim(rec.Publisher)
	v["place"] = trim(rec.PublicationPlace)
	v["genre"] = trim(rec.Genre)

	switch k {
	case kindThesis:
		if v["genre"] == "" {
			v["genre"] = "Doctoral dissertation"
		}
		v["genre_institution"] = strings.Join(nonEmpty(v["genre"], v["publisher"]), ", ")
	case kindData:
		if v["genre"] == "" && rec.Type == schema.Software {
			v["genre"] = "Computer software"
		} else if v["genre"] == "" {
			v["genre"] = "Data set"
		}
	case kindWebpage:
		// a site name equal to the publisher is printed once
		if strings.EqualFold(v["container"], v["publisher"]) {
			v["publisher"] = ""
		}
	case kindPeriodical, kindBook, kindChapter, kindReport, kindGeneric:
	}

	v["doi"] = trim(rec.DOI)
	if v["doi"] != "" {
		v["doi_url"] = "https://doi.org/" + v["doi"]
	}
	v["url"] = trim(rec.URL)
	v["link"] = stringsx.FirstNonEmpty(v["doi_url"], v["url"])
	v["isbn"] = trim(rec.ISBN)
	v["issn"] = trim(rec.ISSN)
	v["pmid"] = trim(rec.PMID)
	return v
}

// ordinal turns a bare edition number into "2nd", "3rd", "11th"; any other
// text is returned unchanged.
func ordinal(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return s
	}
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
