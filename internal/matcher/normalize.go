package matcher

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Leading date prefixes like "January 5, 2024 " or "Feb 3 2023 ".
	datePrefix = regexp.MustCompile(`(?i)^(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+\d{1,2},?\s+\d{4}\s+`)

	parenContent = regexp.MustCompile(`\((.*?)\)`)

	// Organizational boilerplate: committee and subcommittee markers that
	// carry no signal about the subject of the proceeding.
	orgWords = regexp.MustCompile(`(?i)\b(Health |Energy |O&I |C&T |CMT |IDC |Full Committee |Committee |Subcommittee )`)

	// Procedural words removed in the aggressive pass. "Markup" is kept:
	// it distinguishes markups from hearings on the same bill.
	proceduralWords = regexp.MustCompile(`(?i)\b(Hearing|Meeting|Legislative|Oversight|Business)\b`)

	multiSpace   = regexp.MustCompile(`\s+`)
	trailingPunc = regexp.MustCompile(`[:\-–—]\s*$`)
)

// Normalize strips procedural boilerplate from a free-text title to
// maximize comparability between YouTube and Congress.gov phrasing.
//
// Committee titles are formulaic ("Full Committee Markup of H.R. 1234")
// while YouTube titles are often more descriptive, so a single strategy
// is insufficient. The tiers, in order:
//
//  1. aggressive strip of organizational and procedural words, used when
//     it leaves more than 5 characters of signal;
//  2. substantial parenthetical content (more than 2 words), used when
//     the aggressive result is too short;
//  3. minimal normalization (whitespace collapse, trailing punctuation
//     strip) as the fallback.
//
// Any input, including the empty string, returns a string. The result is
// NFKC-folded and lower-cased, and Normalize is idempotent.
func Normalize(title string) string {
	title = norm.NFKC.String(title)
	title = datePrefix.ReplaceAllString(title, "")

	paren := ""
	if m := parenContent.FindStringSubmatch(title); m != nil && len(strings.Fields(m[1])) > 2 {
		paren = m[1]
	}

	aggressive := orgWords.ReplaceAllString(title, "")
	aggressive = proceduralWords.ReplaceAllString(aggressive, "")
	aggressive = multiSpace.ReplaceAllString(aggressive, " ")
	aggressive = trailingPunc.ReplaceAllString(aggressive, "")
	aggressive = strings.TrimSpace(aggressive)

	var result string
	switch {
	case len(aggressive) > 5 && !isPunctOnly(aggressive):
		result = aggressive
	case paren != "":
		result = paren
	default:
		result = strings.TrimSpace(trailingPunc.ReplaceAllString(multiSpace.ReplaceAllString(title, " "), ""))
	}

	return strings.ToLower(result)
}

func isPunctOnly(s string) bool {
	switch s {
	case "", ":", "-", "–", "—":
		return true
	}
	return false
}
