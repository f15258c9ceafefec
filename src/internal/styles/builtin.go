package styles

import (
	"citeformat/src/internal/names"
	"citeformat/src/internal/schema"
)

// Builtins returns the built-in rule sets in registration order. Each call
// returns fresh values.
func Builtins() []RuleSet {
	return []RuleSet{apa(), mla(), chicago(), harvard(), ieee(), vancouver()}
}

func apa() RuleSet {
	return RuleSet{
		ID:                       "apa",
		DisplayName:              "APA 7th edition",
		InlineTemplate:           "({author}, {year}{locant})",
		InlineSuppressedTemplate: "({year}{locant})",
		LocantTemplate:           ", p. {page}",
		GroupDelimiter:           "; ",
		AuthorMode:               names.LastNameOnly,
		InlineNames:              names.Options{PairJoiner: " & "},
		BibliographyNameMode:     names.LastFirst,
		BibliographyNames:        names.Options{Initials: true, InvertAll: true, FinalJoiner: ", & ", EtAlMin: 21, EtAlUseFirst: 19},
		EditorNameMode:           names.FirstLast,
		EditorNames:              names.Options{Initials: true, PairJoiner: " & ", FinalJoiner: ", & "},
		EditorLabel:              "Ed.",
		EditorLabelPlural:        "Eds.",
		BibliographyOrder:        OrderAlphabetical,
		JournalFormat:            JournalFull,
		TitleCase:                CaseAsIs,
		NoDate:                   "n.d.",
		Entries: map[schema.EntryType]EntryRule{
			schema.Article: {Segments: []Segment{
				{"{author}", "."},
				{"({year})", "."},
				{"{title}", "."},
				{"{container:italic}<, {volume:italic}><({issue})><, {pages}>", "."},
				{"{link}", ""},
			}},
			schema.Book: {Segments: []Segment{
				{"{author}", "."},
				{"({year})", "."},
				{"{title:italic}< ({edition} ed.)>", "."},
				{"{publisher}", "."},
				{"{link}", ""},
			}},
			schema.Chapter: {Segments: []Segment{
				{"{author}", "."},
				{"({year})", "."},
				{"{title}", "."},
				{"In <{editors} ({eds}), >{container:italic}< (pp. {pages})>", "."},
				{"{publisher}", "."},
				{"{link}", ""},
			}},
			schema.NewspaperArticle: {Segments: []Segment{
				{"{author}", "."},
				{"({year}<, {month_day}>)", "."},
				{"{title}", "."},
				{"{container:italic}<, {pages}>", "."},
				{"{link}", ""},
			}},
			schema.Webpage: {Segments: []Segment{
				{"{author}", "."},
				{"({year}<, {month_day}>)", "."},
				{"{title:italic}", "."},
				{"{container}", "."},
				{"<{accessed}, from >{link}", ""},
			}},
			schema.Thesis: {Segments: []Segment{
				{"{author}", "."},
				{"({year})", "."},
				{"{title:italic}< [{genre_institution}]>", "."},
				{"{link}", ""},
			}},
			schema.Other: {Segments: []Segment{
				{"{author}", "."},
				{"({year})", "."},
				{"{title:italic}< [{genre}]>", "."},
				{"{container:italic}", "."},
				{"{publisher}", "."},
				{"{link}", ""},
			}},
		},
	}
}

func mla() RuleSet {
	return RuleSet{
		ID:                       "mla",
		DisplayName:              "MLA 9th edition",
		InlineTemplate:           "({author}{locant})",
		InlineSuppressedTemplate: "({locant})",
		LocantTemplate:           " {page}",
		GroupDelimiter:           "; ",
		AuthorMode:               names.LastNameOnly,
		InlineNames:              names.Options{PairJoiner: " and "},
		BibliographyNameMode:     names.LastFirst,
		BibliographyNames:        names.Options{FinalJoiner: ", and ", EtAlMin: 3, EtAlUseFirst: 1},
		EditorNameMode:           names.FirstLast,
		EditorNames:              names.Options{PairJoiner: " and ", FinalJoiner: ", and "},
		EditorLabel:              "editor",
		EditorLabelPlural:        "editors",
		BibliographyOrder:        OrderAlphabetical,
		JournalFormat:            JournalFull,
		TitleCase:                CaseTitle,
		NoDate:                   "n.d.",
		Entries: map[schema.EntryType]EntryRule{
			schema.Article: {Segments: []Segment{
				{"{author}", "."},
				{"{title:quoted}", "."},
				{"{container:italic}<, vol. {volume}><, no. {issue}><, {issued}><, pp. {pages}>", "."},
				{"{link}", "."},
			}},
			schema.Book: {Segments: []Segment{
				{"{author}", "."},
				{"{title:italic}", "."},
				{"<{edition} ed.><, {publisher}><, {issued}>", "."},
				{"{link}", "."},
			}},
			schema.Chapter: {Segments: []Segment{
				{"{author}", "."},
				{"{title:quoted}", "."},
				{"{container:italic}<, edited by {editors}><, {publisher}><, {issued}><, pp. {pages}>", "."},
				{"{link}", "."},
			}},
			schema.NewspaperArticle: {Segments: []Segment{
				{"{author}", "."},
				{"{title:quoted}", "."},
				{"{container:italic}<, {date_dmy}><, p. {pages}>", "."},
				{"{url}", "."},
			}},
			schema.Webpage: {Segments: []Segment{
				{"{author}", "."},
				{"{title:quoted}", "."},
				{"{container:italic}<, {publisher}><, {date_dmy}><, {url}>", "."},
				{"<Accessed {accessed_dmy}>", "."},
			}},
			schema.Thesis: {Segments: []Segment{
				{"{author}", "."},
				{"{title:italic}", "."},
				{"{issued}", "."},
				{"{publisher}<, {genre}>", "."},
			}},
			schema.Other: {Segments: []Segment{
				{"{author}", "."},
				{"{title:italic}", "."},
				{"{container:italic}<, {publisher}><, {issued}>", "."},
				{"{link}", "."},
			}},
		},
	}
}

func chicago() RuleSet {
	return RuleSet{
		ID:                       "chicago",
		DisplayName:              "Chicago Manual of Style 17th edition (author-date)",
		InlineTemplate:           "({author} {year}{locant})",
		InlineSuppressedTemplate: "({year}{locant})",
		LocantTemplate:           ", {page}",
		GroupDelimiter:           "; ",
		AuthorMode:               names.LastNameOnly,
		InlineNames:              names.Options{PairJoiner: " and "},
		BibliographyNameMode:     names.LastFirst,
		BibliographyNames:        names.Options{FinalJoiner: ", and ", EtAlMin: 11, EtAlUseFirst: 7},
		EditorNameMode:           names.FirstLast,
		EditorNames:              names.Options{PairJoiner: " and ", FinalJoiner: ", and "},
		EditorLabel:              "ed.",
		EditorLabelPlural:        "eds.",
		BibliographyOrder:        OrderAlphabetical,
		JournalFormat:            JournalFull,
		TitleCase:                CaseTitle,
		NoDate:                   "n.d.",
		Entries: map[schema.EntryType]EntryRule{
			schema.Article: {Segments: []Segment{
				{"{author}", "."},
				{"{year}", "."},
				{"{title:quoted}", "."},
				{"{container:italic}< {volume}>< ({issue})><: {pages}>", "."},
				{"{link}", "."},
			}},
			schema.Book: {Segments: []Segment{
				{"{author}", "."},
				{"{year}", "."},
				{"{title:italic}", "."},
				{"{edition} ed.", "."},
				{"<{place}: >{publisher}", "."},
				{"{link}", "."},
			}},
			schema.Chapter: {Segments: []Segment{
				{"{author}", "."},
				{"{year}", "."},
				{"{title:quoted}", "."},
				{"In {container:italic}<, edited by {editors}><, {pages}>", "."},
				{"<{place}: >{publisher}", "."},
				{"{link}", "."},
			}},
			schema.NewspaperArticle: {Segments: []Segment{
				{"{author}", "."},
				{"{year}", "."},
				{"{title:quoted}", "."},
				{"{container:italic}<, {month_day}>", "."},
				{"{link}", "."},
			}},
			schema.Webpage: {Segments: []Segment{
				{"{author}", "."},
				{"{year}", "."},
				{"{title:quoted}", "."},
				{"{container}", "."},
				{"<Accessed {accessed_date}>", "."},
				{"{link}", "."},
			}},
			schema.Thesis: {Segments: []Segment{
				{"{author}", "."},
				{"{year}", "."},
				{"{title:quoted}", "."},
				{"{genre}<, {publisher}>", "."},
				{"{link}", "."},
			}},
			schema.Other: {Segments: []Segment{
				{"{author}", "."},
				{"{year}", "."},
				{"{title:italic}", "."},
				{"{container:italic}", "."},
				{"<{place}: >{publisher}", "."},
				{"{link}", "."},
			}},
		},
	}
}

func harvard() RuleSet {
	return RuleSet{
		ID:                       "harvard",
		DisplayName:              "Harvard (Cite Them Right)",
		InlineTemplate:           "({author}, {year}{locant})",
		InlineSuppressedTemplate: "({year}{locant})",
		LocantTemplate:           ", p. {page}",
		GroupDelimiter:           "; ",
		AuthorMode:               names.LastNameOnly,
		InlineNames:              names.Options{PairJoiner: " and "},
		BibliographyNameMode:     names.LastFirst,
		BibliographyNames:        names.Options{Initials: true, InvertAll: true, FinalJoiner: " and ", EtAlMin: 4, EtAlUseFirst: 1},
		EditorNameMode:           names.LastFirst,
		EditorNames:              names.Options{Initials: true, InvertAll: true, FinalJoiner: " and "},
		EditorLabel:              "ed.",
		EditorLabelPlural:        "eds.",
		BibliographyOrder:        OrderAlphabetical,
		JournalFormat:            JournalFull,
		TitleCase:                CaseAsIs,
		NoDate:                   "no date",
		Entries: map[schema.EntryType]EntryRule{
			schema.Article: {Segments: []Segment{
				{"<{author} >({year})", ""},
				{"{title:squoted}", ","},
				{"{container:italic}<, {volume}><({issue})><, pp. {pages}>", "."},
				{"<doi: {doi}>", "."},
			}},
			schema.Book: {Segments: []Segment{
				{"<{author} >({year})", ""},
				{"{title:italic}", "."},
				{"{edition} edn.", "."},
				{"<{place}: >{publisher}", "."},
				{"<Available at: {link}>", "."},
			}},
			schema.Chapter: {Segments: []Segment{
				{"<{author} >({year})", ""},
				{"{title:squoted}", ","},
				{"in <{editors} ({eds}) >{container:italic}", "."},
				{"<{place}: ><{publisher}><, pp. {pages}>", "."},
			}},
			schema.NewspaperArticle: {Segments: []Segment{
				{"<{author} >({year})", ""},
				{"{title:squoted}", ","},
				{"{container:italic}<, {date_dmy}><, p. {pages}>", "."},
				{"<Available at: {link}>", "."},
			}},
			schema.Webpage: {Segments: []Segment{
				{"<{author} >({year})", ""},
				{"{title:italic}", "."},
				{"<Available at: {link}>< (Accessed: {accessed_dmy})>", "."},
			}},
			schema.Thesis: {Segments: []Segment{
				{"<{author} >({year})", ""},
				{"{title:italic}", "."},
				{"{genre}<. {publisher}>", "."},
				{"<Available at: {link}>", "."},
			}},
			schema.Other: {Segments: []Segment{
				{"<{author} >({year})", ""},
				{"{title:italic}", "."},
				{"{container:italic}", "."},
				{"<{place}: >{publisher}", "."},
				{"<Available at: {link}>", "."},
			}},
		},
	}
}

func ieee() RuleSet {
	return RuleSet{
		ID:                       "ieee",
		DisplayName:              "IEEE",
		InlineNumbered:           true,
		InlineTemplate:           "[{number}{locant}]",
		InlineSuppressedTemplate: "[{number}{locant}]",
		LocantTemplate:           ", p. {page}",
		GroupDelimiter:           ", ",
		AuthorMode:               names.LastNameOnly,
		BibliographyNameMode:     names.FirstLast,
		BibliographyNames:        names.Options{Initials: true, PairJoiner: " and ", FinalJoiner: ", and ", EtAlMin: 7, EtAlUseFirst: 1, EtAlJoiner: " "},
		EditorNameMode:           names.FirstLast,
		EditorNames:              names.Options{Initials: true, PairJoiner: " and ", FinalJoiner: ", and "},
		EditorLabel:              "Ed.",
		EditorLabelPlural:        "Eds.",
		BibliographyOrder:        OrderAppearance,
		JournalFormat:            JournalAbbreviated,
		TitleCase:                CaseAsIs,
		NoDate:                   "n.d.",
		EntryLabel:               "[{number}]",
		Entries: map[schema.EntryType]EntryRule{
			schema.Article: {Segments: []Segment{
				{"{author}", ","},
				{"{title:quoted}", ","},
				{"{container:italic}<, vol. {volume}><, no. {issue}><, pp. {pages}><, {month_year}>", ","},
				{"<doi: {doi}>", "."},
			}},
			schema.Book: {Segments: []Segment{
				{"{author}", ","},
				{"{title:italic}<, {edition} ed>", "."},
				{"<{place}: ><{publisher}><, {issued}>", "."},
				{"<doi: {doi}>", "."},
			}},
			schema.Chapter: {Segments: []Segment{
				{"{author}", ","},
				{"{title:quoted}", ","},
				{"in {container:italic}<, {editors}, {eds}>", "."},
				{"<{place}: ><{publisher}><, {issued}><, pp. {pages}>", "."},
			}},
			schema.NewspaperArticle: {Segments: []Segment{
				{"{author}", ","},
				{"{title:quoted}", ","},
				{"{container:italic}<, {date}><, p. {pages}>", "."},
				{"<[Online]. Available: {url}>", "."},
			}},
			schema.Webpage: {Segments: []Segment{
				{"{author}", ","},
				{"{title:quoted}", ","},
				{"{container:italic}", "."},
				{"<Accessed: {accessed_date}>", "."},
				{"<[Online]. Available: {link}>", ""},
			}},
			schema.Thesis: {Segments: []Segment{
				{"{author}", ","},
				{"{title:quoted}", ","},
				{"{genre}<, {publisher}><, {place}><, {issued}>", "."},
			}},
			schema.Other: {Segments: []Segment{
				{"{author}", ","},
				{"{title:italic}", ","},
				{"{container:italic}<, {publisher}><, {issued}>", "."},
				{"<[Online]. Available: {link}>", ""},
			}},
		},
	}
}

func vancouver() RuleSet {
	return RuleSet{
		ID:                       "vancouver",
		DisplayName:              "Vancouver (ICMJE)",
		InlineNumbered:           true,
		InlineTemplate:           "[{number}{locant}]",
		InlineSuppressedTemplate: "[{number}{locant}]",
		LocantTemplate:           ", p. {page}",
		GroupDelimiter:           ",",
		AuthorMode:               names.LastNameOnly,
		BibliographyNameMode:     names.LastFirst,
		BibliographyNames:        names.Options{CompactInitials: true, InvertAll: true, InvertedSeparator: " ", FinalJoiner: ", ", EtAlMin: 7, EtAlUseFirst: 6},
		EditorNameMode:           names.LastFirst,
		EditorNames:              names.Options{CompactInitials: true, InvertAll: true, InvertedSeparator: " ", FinalJoiner: ", "},
		EditorLabel:              "editor",
		EditorLabelPlural:        "editors",
		BibliographyOrder:        OrderAppearance,
		JournalFormat:            JournalAbbreviated,
		TitleCase:                CaseAsIs,
		NoDate:                   "[date unknown]",
		EntryLabel:               "{number}.",
		Entries: map[schema.EntryType]EntryRule{
			schema.Article: {Segments: []Segment{
				{"{author}", "."},
				{"{title}", "."},
				{"{container}", "."},
				{"<{issued}><;{volume}><({issue})><:{pages}>", "."},
				{"<doi:{doi}>", ""},
			}},
			schema.Book: {Segments: []Segment{
				{"{author}", "."},
				{"{title}", "."},
				{"{edition} ed.", "."},
				{"<{place}: ><{publisher}><; {issued}>", "."},
			}},
			schema.Chapter: {Segments: []Segment{
				{"{author}", "."},
				{"{title}", "."},
				{"In: <{editors}, {eds}. >{container}", "."},
				{"<{place}: ><{publisher}><; {issued}>", "."},
				{"p. {pages}", "."},
			}},
			schema.NewspaperArticle: {Segments: []Segment{
				{"{author}", "."},
				{"{title}", "."},
				{"{container}", "."},
				{"{date}<:{pages}>", "."},
			}},
			schema.Webpage: {Segments: []Segment{
				{"{author}", "."},
				{"{title} [Internet]", "."},
				{"<{container}><; {issued}>< [cited {accessed_iso}]>", "."},
				{"<Available from: {link}>", ""},
			}},
			schema.Thesis: {Segments: []Segment{
				{"{author}", "."},
				{"{title} [{genre}]", "."},
				{"<{place}: ><{publisher}><; {issued}>", "."},
			}},
			schema.Other: {Segments: []Segment{
				{"{author}", "."},
				{"{title}", "."},
				{"{container}", "."},
				{"<{place}: ><{publisher}><; {issued}>", "."},
				{"<Available from: {link}>", ""},
			}},
		},
	}
}
