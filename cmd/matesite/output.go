package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"matesite/internal/issues"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"

	tableDescriptionWidth = 60
)

var (
	primaryColor = lipgloss.Color("99")
	dimColor     = lipgloss.Color("246")
	idColor      = lipgloss.Color("220")
)

// printer writes issues to stdout in the selected format.
type printer struct {
	w      io.Writer
	format string
	styled bool
}

func newPrinter(cmd *cobra.Command, env *cliEnv, s settings) printer {
	format := formatTable
	if s.jsonOutput {
		format = formatJSON
	}
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		format = formatYAML
	}
	return printer{w: env.stdout, format: format, styled: env.isTTY != nil && env.isTTY()}
}

// yamlIssue keeps the YAML field names identical to the JSON ones.
type yamlIssue struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

func toYAML(list []issues.Issue) []yamlIssue {
	out := make([]yamlIssue, len(list))
	for i, issue := range list {
		out[i] = yamlIssue(issue)
	}
	return out
}

func (p printer) issues(list []issues.Issue) error {
	switch p.format {
	case formatJSON:
		return p.json(map[string]any{"issues": list})
	case formatYAML:
		return p.yaml(map[string]any{"issues": toYAML(list)})
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(p.w, "No issues found.")
		return err
	}
	_, err := fmt.Fprintln(p.w, p.table(list))
	return err
}

func (p printer) issue(issue issues.Issue) error {
	switch p.format {
	case formatJSON:
		return p.json(map[string]any{"issue": issue})
	case formatYAML:
		return p.yaml(map[string]any{"issue": yamlIssue(issue)})
	}

	label := lipgloss.NewStyle()
	id := lipgloss.NewStyle()
	if p.styled {
		label = label.Foreground(dimColor)
		id = id.Foreground(idColor).Bold(true)
	}
	lines := []string{
		label.Render("ID:          ") + id.Render(issue.ID),
		label.Render("Title:       ") + issue.Title,
		label.Render("Description:"),
		indent(wordwrap.String(issue.Description, tableDescriptionWidth), 2),
	}
	_, err := fmt.Fprintln(p.w, strings.Join(lines, "\n"))
	return err
}

func (p printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (p printer) table(list []issues.Issue) string {
	rows := make([][]string, len(list))
	for i, issue := range list {
		rows[i] = []string{issue.ID, issue.Title, firstLine(issue.Description, tableDescriptionWidth)}
	}

	t := table.New().
		Headers("ID", "TITLE", "DESCRIPTION").
		Rows(rows...)
	if !p.styled {
		return strings.TrimPrefix(t.Border(lipgloss.HiddenBorder()).String(), "\n")
	}

	header := lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return t.
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(dimColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 0 {
				return cell.Foreground(idColor)
			}
			return cell
		}).
		String()
}

// firstLine returns the first line of s, cut to width runes with an ellipsis.
func firstLine(s string, width int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i]) + " …"
	}
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}

func indent(s string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
