// Package quickadd parses free-text task entry into structured fields:
// a title, an optional scrap body, an optional liveline:deadline date
// pair, and an optional #project token. Parsing is deterministic and
// never fails; anything that does not parse stays in the title.
package quickadd

import (
	"regexp"
	"strings"
	"time"
)

var projectTokenRe = regexp.MustCompile(`#[^\s#]*`)

// Parsed holds the structured fields inferred from a raw task entry.
type Parsed struct {
	Title    string
	Scrap    string
	Liveline *time.Time
	Deadline *time.Time

	// Project is nil when the entry carried no # token, a pointer to ""
	// for a bare # (task explicitly outside any project), and a pointer
	// to the project name otherwise.
	Project *string
}

// Parse splits a raw entry into title and scrap, then extracts the date
// pair and project tokens from the title. tzOffset is the owning user's
// offset from UTC in seconds; parsed dates mean midnight local to the
// user. now anchors the year inference for the DDMmm date format.
func Parse(raw string, tzOffset int, now time.Time) Parsed {
	var p Parsed

	title := raw
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		title = raw[:i]
		p.Scrap = strings.TrimSpace(raw[i+1:])
	}
	title = strings.TrimSpace(title)

	title = p.extractDates(title, tzOffset, now)
	title = p.extractProject(title)
	p.Title = title
	return p
}

// extractDates looks for a single whitespace-delimited live:dead token.
// The inference applies only when both halves parse as dates and keep
// deadline >= liveline; otherwise the token stays in the title.
func (p *Parsed) extractDates(title string, tzOffset int, now time.Time) string {
	fields := strings.Fields(title)
	for i, field := range fields {
		if strings.Count(field, ":") != 1 {
			continue
		}
		parts := strings.SplitN(field, ":", 2)
		live, err := ParseDate(parts[0], now)
		if err != nil {
			continue
		}
		dead, err := ParseDate(parts[1], now)
		if err != nil || dead.Before(live) {
			continue
		}
		live = live.Add(-time.Duration(tzOffset) * time.Second)
		dead = dead.Add(-time.Duration(tzOffset) * time.Second)
		p.Liveline = &live
		p.Deadline = &dead
		return strings.Join(append(fields[:i:i], fields[i+1:]...), " ")
	}
	return title
}

// extractProject pulls the first #name token out of the title.
func (p *Parsed) extractProject(title string) string {
	loc := projectTokenRe.FindStringIndex(title)
	if loc == nil {
		return title
	}
	name := title[loc[0]+1 : loc[1]]
	p.Project = &name
	rest := title[:loc[0]] + title[loc[1]:]
	return strings.Join(strings.Fields(rest), " ")
}
