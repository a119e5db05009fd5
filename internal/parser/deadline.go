package parser

import (
	"regexp"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/br"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Confidence is a coarse signal of how certain the resolver is about an
// extracted deadline.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Candidate is one locale's scored extraction over the input text.
type Candidate struct {
	Locale        string
	Text          string
	Index         int
	Time          time.Time
	ExplicitDay   bool
	ExplicitMonth bool
	BareWeekday   bool
}

// Prefer reports whether candidate a should win over candidate b. The
// resolver walks candidates in locale order and replaces the current best
// only on a strict win, so ties keep the earlier locale.
type Prefer func(a, b Candidate) bool

// LongestMatch is the default selection rule: a longer matched substring
// is treated as the stronger signal.
func LongestMatch(a, b Candidate) bool {
	return len(a.Text) > len(b.Text)
}

// Resolution is the outcome of deadline extraction. Resolve never fails:
// with no match the deadline defaults to the end of the reference day.
type Resolution struct {
	Deadline         time.Time
	MatchedText      string
	Confidence       Confidence
	PastDifferentDay bool
}

type locale struct {
	name      string
	parser    *when.Parser
	monthRe   *regexp.Regexp
	weekdayRe *regexp.Regexp
}

// Resolver runs per-locale natural-language date extraction and
// reconciles the candidates. The locale race is a heuristic, not a
// guarantee of correctness for every phrasing.
type Resolver struct {
	locales []locale
	prefer  Prefer
}

var (
	enMonthRe = regexp.MustCompile(`(?i)\b(jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|jun(e)?|jul(y)?|aug(ust)?|sep(t(ember)?)?|oct(ober)?|nov(ember)?|dec(ember)?)\b`)
	ptMonthRe = regexp.MustCompile(`(?i)\b(jan(eiro)?|fev(ereiro)?|mar(ço|co)?|abr(il)?|mai(o)?|jun(ho)?|jul(ho)?|ago(sto)?|set(embro)?|out(ubro)?|nov(embro)?|dez(embro)?)\b`)

	enWeekdayRe = regexp.MustCompile(`(?i)\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	ptWeekdayRe = regexp.MustCompile(`(?i)\b(domingo|segunda|ter[çc]a|quarta|quinta|sexta|s[áa]bado)\b`)

	numericDateRe = regexp.MustCompile(`\b\d{1,4}[./-]\d{1,2}([./-]\d{1,4})?\b`)
	clockRe       = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\b|\b\d{1,2}\s*(am|pm)\b`)
	dayNumberRe   = regexp.MustCompile(`\b([12]\d|3[01]|0?[1-9])(st|nd|rd|th|º)?\b`)
)

// NewResolver builds the default English + Portuguese resolver.
func NewResolver() *Resolver {
	enParser := when.New(nil)
	enParser.Add(en.All...)
	enParser.Add(common.All...)

	ptParser := when.New(nil)
	ptParser.Add(br.All...)
	ptParser.Add(common.All...)

	return &Resolver{
		locales: []locale{
			{name: "en", parser: enParser, monthRe: enMonthRe, weekdayRe: enWeekdayRe},
			{name: "pt", parser: ptParser, monthRe: ptMonthRe, weekdayRe: ptWeekdayRe},
		},
		prefer: LongestMatch,
	}
}

// SetPrefer overrides the candidate selection rule.
func (r *Resolver) SetPrefer(prefer Prefer) {
	if prefer != nil {
		r.prefer = prefer
	}
}

// Resolve extracts a deadline from text relative to ref.
func (r *Resolver) Resolve(text string, ref time.Time) Resolution {
	var candidates []Candidate
	for _, loc := range r.locales {
		res, err := loc.parser.Parse(text, ref)
		if err != nil || res == nil {
			continue
		}
		candidates = append(candidates, loc.candidate(res.Text, res.Index, res.Time))
	}

	if len(candidates) == 0 {
		return Resolution{
			Deadline:   endOfDay(ref),
			Confidence: ConfidenceLow,
		}
	}

	best := pickCandidate(candidates, r.prefer)

	// The underlying extractors have no future-bias option, so bare
	// weekday phrases can land on a past occurrence. Roll those forward
	// week by week; genuinely past phrases ("yesterday", explicit dates)
	// stay put and surface as a warning instead.
	if best.BareWeekday && !best.ExplicitMonth {
		for best.Time.Before(startOfDay(ref)) {
			best.Time = best.Time.AddDate(0, 0, 7)
		}
	}

	resolution := Resolution{
		Deadline:    best.Time,
		MatchedText: best.Text,
		Confidence:  ConfidenceMedium,
	}
	if best.ExplicitDay && best.ExplicitMonth {
		resolution.Confidence = ConfidenceHigh
	}

	if resolution.Deadline.Before(ref) {
		if sameDay(resolution.Deadline, ref) {
			// Time of day already passed: snap to end of today.
			resolution.Deadline = endOfDay(ref)
		} else {
			resolution.PastDifferentDay = true
		}
	}

	return resolution
}

func (l locale) candidate(matched string, index int, t time.Time) Candidate {
	numeric := numericDateRe.MatchString(matched)
	withoutClock := clockRe.ReplaceAllString(matched, "")
	return Candidate{
		Locale:        l.name,
		Text:          matched,
		Index:         index,
		Time:          t,
		ExplicitDay:   numeric || dayNumberRe.MatchString(withoutClock),
		ExplicitMonth: numeric || l.monthRe.MatchString(matched),
		BareWeekday:   l.weekdayRe.MatchString(matched),
	}
}

func pickCandidate(candidates []Candidate, prefer Prefer) Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if prefer(c, best) {
			best = c
		}
	}
	return best
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
