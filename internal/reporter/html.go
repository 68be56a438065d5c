package reporter

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"component-quality-checker/internal/types"
)

// HTMLReporter HTML 출력 리포터
type HTMLReporter struct{}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"upper":   strings.ToUpper,
	"seconds": func(r *types.AnalysisResult) string { return fmt.Sprintf("%.2fs", r.Duration.Seconds()) },
}).Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Component Quality Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; }
        .header { background: #2c3e50; color: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; }
        .summary, .file { background: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .issue { border-left: 4px solid #3498db; margin-bottom: 12px; padding: 12px; background: #fafafa; }
        .issue.error { border-left-color: #e74c3c; }
        .issue.warning { border-left-color: #f39c12; }
        .issue.info { border-left-color: #3498db; }
        .severity-badge { display: inline-block; padding: 4px 8px; border-radius: 4px; color: white; font-size: 12px; font-weight: bold; }
        .severity-badge.error { background-color: #e74c3c; }
        .severity-badge.warning { background-color: #f39c12; }
        .severity-badge.info { background-color: #3498db; }
        .stats { display: flex; gap: 20px; flex-wrap: wrap; }
        .stat-card { background: #ecf0f1; padding: 15px; border-radius: 8px; flex: 1; min-width: 160px; }
        .example { background: #2c3e50; color: #ecf0f1; padding: 10px; border-radius: 4px; font-family: monospace; margin-top: 8px; white-space: pre-wrap; }
        .meta { color: #7f8c8d; font-family: monospace; font-size: 13px; }
        h1, h2, h3 { margin-top: 0; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>Component Quality Report</h1>
        <p>분석 완료 시간: {{.EndTime.Format "2006-01-02 15:04:05"}}</p>
        <p>분석 시간: {{seconds .}}</p>
    </div>
    {{with .Project.Summary}}
    <div class="summary">
        <h2>분석 요약</h2>
        <div class="stats">
            <div class="stat-card"><h3>{{.TotalFiles}}</h3><p>검사된 파일</p></div>
            <div class="stat-card"><h3>{{.TotalIssues}}</h3><p>발견된 이슈</p></div>
            <div class="stat-card"><h3>{{.ErrorCount}}</h3><p><span class="severity-badge error">ERROR</span></p></div>
            <div class="stat-card"><h3>{{.WarningCount}}</h3><p><span class="severity-badge warning">WARNING</span></p></div>
            <div class="stat-card"><h3>{{.InfoCount}}</h3><p><span class="severity-badge info">INFO</span></p></div>
            <div class="stat-card"><h3>{{.AutoFixableCount}}/{{.FixableCount}}</h3><p>자동/수정 가능</p></div>
        </div>
    </div>
    {{end}}
    {{range .Project.Files}}{{if .Issues}}
    <div class="file">
        <h2 class="meta">{{.FileName}}</h2>
        {{range .Issues}}
        <div class="issue {{.Severity}}">
            <div class="meta">{{.Line}}:{{.Column}} · Layer {{.Layer}} · {{.Type}}{{if .Category}} · {{.Category}}{{end}}</div>
            <h3>{{.Message}} <span class="severity-badge {{.Severity}}">{{upper (print .Severity)}}</span></h3>
            {{if .Suggestion}}<p><strong>권장사항:</strong> {{.Suggestion}}</p>{{end}}
            {{if .Example}}<div class="example">{{.Example}}</div>{{end}}
        </div>
        {{end}}
    </div>
    {{end}}{{end}}
</div>
</body>
</html>
`))

func (r *HTMLReporter) Render(w io.Writer, result *types.AnalysisResult) error {
	if err := htmlTemplate.Execute(w, result); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}
