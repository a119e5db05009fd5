package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"accountability/internal/model"
)

var (
	// ErrMessageTooShort means the input is too small to describe a task.
	ErrMessageTooShort = errors.New("Message too short. Please describe your task.")
	// ErrTitleMissing means the message contained only tags.
	ErrTitleMissing = errors.New("Please provide a task title (not just tags).")
)

// Prepositions commonly left dangling once the date phrase is removed
// (English + Portuguese).
var (
	trailingPrepositionRe = regexp.MustCompile(`(?i)\b(by|on|at|for|until|before|due|para|ate|até|em|no|na|às|as)\s*$`)
	leadingPrepositionRe  = regexp.MustCompile(`(?i)^\s*(by|on|at|for|until|before|due|para|ate|até|em|no|na|às|as)\b`)
)

// ParsedTask is the proposed task produced by parsing a message.
type ParsedTask struct {
	Title           string
	Deadline        time.Time
	Tags            []model.Tag
	Confidence      Confidence
	RawDeadlineText string
}

// ParseResult wraps a successful parse together with an optional
// human-readable warning.
type ParseResult struct {
	Task    ParsedTask
	Warning string
}

// Parser turns free-form chat messages into proposed tasks.
type Parser struct {
	resolver *Resolver
}

func New() *Parser {
	return &Parser{resolver: NewResolver()}
}

// Parse extracts tags, a deadline and a title from a message. Ref is the
// reference time for relative dates. Input problems come back as
// ErrMessageTooShort or ErrTitleMissing; Parse never panics.
func (p *Parser) Parse(message string, ref time.Time) (*ParseResult, error) {
	trimmed := strings.TrimSpace(message)
	if len(trimmed) < 3 {
		return nil, ErrMessageTooShort
	}

	tags, clean, unknownTags := ExtractTags(trimmed)
	if len(clean) < 2 {
		return nil, ErrTitleMissing
	}

	resolution := p.resolver.Resolve(clean, ref)

	var title string
	if resolution.MatchedText != "" {
		title = strings.TrimSpace(strings.Replace(clean, resolution.MatchedText, "", 1))
		title = trailingPrepositionRe.ReplaceAllString(title, "")
		title = leadingPrepositionRe.ReplaceAllString(title, "")
		title = strings.Join(strings.Fields(title), " ")
		if title == "" {
			// Nothing but the date phrase: keep the full text as title.
			title = clean
		}
	} else {
		title = clean
	}

	confidence := resolution.Confidence
	if resolution.MatchedText == "" {
		confidence = ConfidenceLow
	}

	var warnings []string
	if resolution.PastDifferentDay {
		warnings = append(warnings, "Note: This deadline is in the past")
	}
	if len(unknownTags) > 0 {
		plural := ""
		if len(unknownTags) > 1 {
			plural = "s"
		}
		warnings = append(warnings, fmt.Sprintf("Unknown tag%s: #%s", plural, strings.Join(unknownTags, ", #")))
	}

	return &ParseResult{
		Task: ParsedTask{
			Title:           title,
			Deadline:        resolution.Deadline,
			Tags:            tags,
			Confidence:      confidence,
			RawDeadlineText: resolution.MatchedText,
		},
		Warning: strings.Join(warnings, ". "),
	}, nil
}
