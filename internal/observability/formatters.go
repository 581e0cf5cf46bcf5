package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/auto-applier/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs a human-readable summary of one job analysis.
func (p *Printer) PrintAnalysis(analysis *types.JobAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:     %s\n", analysis.JobTitle))
	sb.WriteString(fmt.Sprintf("Company:   %s\n", analysis.CompanyName))
	sb.WriteString(fmt.Sprintf("Location:  %s\n", analysis.Location))
	sb.WriteString(fmt.Sprintf("Work mode: %s\n", analysis.WorkMode))
	sb.WriteString(fmt.Sprintf("Score:     %d\n", analysis.Score))
	sb.WriteString(fmt.Sprintf("Role:      %s (match: %t)\n", analysis.Role, analysis.RoleMatch))
	if analysis.KeySkills != "" {
		sb.WriteString(fmt.Sprintf("Skills:    %s\n", analysis.KeySkills))
	}
	if analysis.Reason != "" {
		sb.WriteString(fmt.Sprintf("Reason:    %s\n", analysis.Reason))
	}

	p.printBox("JOB ANALYSIS", strings.TrimRight(sb.String(), "\n"))
}

// PrintProfile outputs a human-readable summary of the stored profile.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", profile.Field("name")))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", profile.Field("email")))
	sb.WriteString(fmt.Sprintf("Location: %s\n", profile.Field("location")))
	sb.WriteString("\n")

	if len(profile.Roles) > 0 {
		sb.WriteString("Roles:\n")
		count := min(len(profile.Roles), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.Roles[i]))
		}
		if len(profile.Roles) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Roles)-maxItemsToShow))
		}
	}
	sb.WriteString(fmt.Sprintf("\nExtra fields: %d\n", len(profile.ExtraFields)))
	sb.WriteString(fmt.Sprintf("Cached queries: %d", len(profile.SearchQueries)))

	p.printBox("CANDIDATE PROFILE", sb.String())
}

// PrintQueries outputs the planned query set.
func (p *Printer) PrintQueries(queries []string) {
	if len(queries) == 0 {
		return
	}

	var sb strings.Builder
	for i, q := range queries {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, q))
		if i < len(queries)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("SEARCH QUERIES", sb.String())
}
