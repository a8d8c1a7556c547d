// Package changelog turns merged pull requests into release notes.
package changelog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Entry is one merged pull request headed into the notes.
type Entry struct {
	Number      int
	Date        string
	Author      string
	Title       string
	Description string
	Tickets     []string
}

var (
	squashSubject = regexp.MustCompile(`\s*(.*)\s+\(#(\d+)\)`)
	mergeSubject  = regexp.MustCompile(`Merge pull request #(\d+) from (?:\S+)\s*(.*)`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// ParsePRNumber pulls the pull request number out of a squash-merge or
// merge-commit subject. Commits pushed directly carry no number, and a
// bare "#12" in a subject is an issue reference, not a merge.
func ParsePRNumber(subject string) (int, bool) {
	if m := squashSubject.FindStringSubmatch(subject); len(m) > 0 {
		if num, err := strconv.Atoi(m[2]); err == nil {
			return num, true
		}
	}
	if m := mergeSubject.FindStringSubmatch(subject); len(m) > 0 {
		if num, err := strconv.Atoi(m[1]); err == nil {
			return num, true
		}
	}
	return 0, false
}

// CrossLink points a release at a sibling release cut in the same run.
type CrossLink struct {
	Name string
	Tag  string
	URL  string
}

// Generator extracts ticket references and renders the notes table. With
// no boards configured the ticket column is left out.
type Generator struct {
	ticketMatcher *regexp.Regexp
}

func NewGenerator(boards []string) *Generator {
	var ticketMatcher *regexp.Regexp
	if len(boards) > 0 {
		pattern := fmt.Sprintf(`(?i)\b(%s)[-\s](\d+)\b`, strings.Join(boards, "|"))
		ticketMatcher = regexp.MustCompile(pattern)
	}

	return &Generator{
		ticketMatcher: ticketMatcher,
	}
}

// ExtractTickets returns the board tickets referenced in text, uppercased
// to BOARD-123 form and deduplicated in first-seen order.
func (g *Generator) ExtractTickets(text string) []string {
	if g.ticketMatcher == nil {
		return nil
	}

	var tickets []string
	for _, m := range g.ticketMatcher.FindAllStringSubmatch(text, -1) {
		tickets = append(tickets, strings.ToUpper(m[1])+"-"+m[2])
	}
	return dedupe(tickets)
}

// ReleaseNotes renders the entries as a markdown table, in the order
// given. Cross-links to related releases, when present, go above the
// table.
func (g *Generator) ReleaseNotes(entries []Entry, links []CrossLink) string {
	var builder strings.Builder

	if len(links) > 0 {
		builder.WriteString("## Related Releases\n\n")
		for _, link := range links {
			builder.WriteString(fmt.Sprintf("- [%s %s](%s)\n", link.Name, link.Tag, link.URL))
		}
		builder.WriteString("\n---\n\n")
	}

	header := "| PR # | Author | Title | Merged Date |"
	separator := "|------|--------|-------|-------------|"
	if g.ticketMatcher != nil {
		header += " Ticket # |"
		separator += "----------|"
	}
	builder.WriteString(header + "\n")
	builder.WriteString(separator + "\n")

	for _, entry := range entries {
		// Fold the description into a details block under the title.
		titleCell := escapeMarkdownTable(entry.Title)
		if entry.Description != "" {
			titleCell = fmt.Sprintf("<details><summary>%s</summary><br>%s</details>",
				titleCell, escapeMarkdownTable(entry.Description))
		}

		line := fmt.Sprintf("| #%d | %s | %s | %s |",
			entry.Number,
			escapeMarkdownTable(entry.Author),
			titleCell,
			entry.Date)

		if g.ticketMatcher != nil {
			line += fmt.Sprintf(" %s |", strings.Join(entry.Tickets, ", "))
		}
		builder.WriteString(line + "\n")
	}
	builder.WriteString("\n")

	return builder.String()
}

// escapeMarkdownTable keeps a cell from breaking the table: pipes are
// escaped and newlines become <br>.
func escapeMarkdownTable(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	text = strings.ReplaceAll(text, "\n", "<br>")
	text = strings.ReplaceAll(text, "\r", "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func dedupe(tickets []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, t := range tickets {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}
