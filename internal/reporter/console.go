package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/types"
)

// ConsoleReporter 콘솔 출력 리포터
type ConsoleReporter struct {
	opts     Options
	severity map[config.Severity]*color.Color
	dim      *color.Color
	bold     *color.Color
}

func newConsoleReporter(opts Options) *ConsoleReporter {
	if opts.Width <= 0 {
		opts.Width = 100
	}
	r := &ConsoleReporter{
		opts: opts,
		severity: map[config.Severity]*color.Color{
			config.SeverityError:   color.New(color.FgRed, color.Bold),
			config.SeverityWarning: color.New(color.FgYellow),
			config.SeverityInfo:    color.New(color.FgCyan),
		},
		dim:  color.New(color.Faint),
		bold: color.New(color.Bold),
	}
	for _, c := range append([]*color.Color{r.dim, r.bold}, r.severityColors()...) {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *ConsoleReporter) severityColors() []*color.Color {
	return []*color.Color{
		r.severity[config.SeverityError],
		r.severity[config.SeverityWarning],
		r.severity[config.SeverityInfo],
	}
}

func (r *ConsoleReporter) Render(w io.Writer, result *types.AnalysisResult) error {
	var out strings.Builder
	summary := result.Project.Summary

	out.WriteString(r.header(w, summary, result))
	out.WriteString("\n\n")

	if summary.TotalIssues == 0 {
		out.WriteString("이슈가 발견되지 않았습니다\n")
		_, err := io.WriteString(w, out.String())
		return err
	}

	for _, file := range result.Project.Files {
		if len(file.Issues) == 0 {
			continue
		}
		issues := append([]types.Issue(nil), file.Issues...)
		sort.SliceStable(issues, func(i, j int) bool {
			if issues[i].Line != issues[j].Line {
				return issues[i].Line < issues[j].Line
			}
			return issues[i].Column < issues[j].Column
		})

		out.WriteString(r.bold.Sprint(file.FileName))
		out.WriteString("\n")
		for _, issue := range issues {
			out.WriteString(r.issueLine(issue))
			out.WriteString("\n")
			if issue.Suggestion != "" {
				out.WriteString("      " + r.dim.Sprint(truncate("→ "+issue.Suggestion, r.opts.Width)) + "\n")
			}
		}
		out.WriteString("\n")
	}

	out.WriteString(r.layerTable(summary))
	_, err := io.WriteString(w, out.String())
	return err
}

func (r *ConsoleReporter) header(w io.Writer, summary types.ProjectSummary, result *types.AnalysisResult) string {
	renderer := lipgloss.NewRenderer(w)
	box := renderer.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	title := renderer.NewStyle().Bold(true)
	if r.opts.Color {
		box = box.BorderForeground(lipgloss.Color("6"))
		title = title.Foreground(lipgloss.Color("7"))
	}

	lines := []string{
		title.Render("Component Quality Report"),
		fmt.Sprintf("검사 파일 %d개 · 이슈 %d개 · %.2fs", summary.TotalFiles, summary.TotalIssues, result.Duration.Seconds()),
		fmt.Sprintf("%s %d  %s %d  %s %d",
			r.severity[config.SeverityError].Sprint("error"), summary.ErrorCount,
			r.severity[config.SeverityWarning].Sprint("warning"), summary.WarningCount,
			r.severity[config.SeverityInfo].Sprint("info"), summary.InfoCount),
		fmt.Sprintf("수정 가능 %d (자동 %d) · 치명적 %d", summary.FixableCount, summary.AutoFixableCount, summary.CriticalIssues),
	}
	return box.Render(strings.Join(lines, "\n"))
}

func (r *ConsoleReporter) issueLine(issue types.Issue) string {
	pos := fmt.Sprintf("%d:%d", issue.Line, issue.Column)
	sev := fmt.Sprintf("%-7s", issue.Severity)
	if c, ok := r.severity[issue.Severity]; ok {
		sev = c.Sprint(sev)
	}
	marker := " "
	if issue.AutoFixable {
		marker = "*"
	}
	message := truncate(issue.Message, r.opts.Width)
	return fmt.Sprintf("  %-8s %s %s %s  %s", pos, sev, marker, message, r.dim.Sprintf("%s L%d", issue.Type, issue.Layer))
}

// layerTable 레이어/카테고리별 이슈 수
func (r *ConsoleReporter) layerTable(summary types.ProjectSummary) string {
	var out strings.Builder
	out.WriteString(r.bold.Sprint("레이어별 이슈"))
	out.WriteString("\n")
	for layer := 1; layer <= config.LayerCount; layer++ {
		if n := summary.IssuesByLayer[layer]; n > 0 {
			fmt.Fprintf(&out, "  Layer %d  %d\n", layer, n)
		}
	}

	categories := make([]string, 0, len(summary.CategoryCount))
	for c := range summary.CategoryCount {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	if len(categories) > 0 {
		out.WriteString(r.bold.Sprint("카테고리별 이슈"))
		out.WriteString("\n")
		for _, c := range categories {
			fmt.Fprintf(&out, "  %-16s %d\n", c, summary.CategoryCount[c])
		}
	}
	return out.String()
}

// truncate 표시 폭 기준 자르기
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
