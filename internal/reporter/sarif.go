package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID string `json:"id"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLoc        `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	Physical sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// SARIFReporter SARIF 2.1.0 출력 리포터
type SARIFReporter struct{}

func sarifLevel(s config.Severity) string {
	switch s {
	case config.SeverityError:
		return "error"
	case config.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// ToSARIF 이슈 목록을 SARIF 문서로 변환
func ToSARIF(issues []types.Issue) ([]byte, error) {
	results := make([]sarifResult, 0, len(issues))
	seen := make(map[string]bool)
	var ruleIDs []string
	for _, issue := range issues {
		if !seen[issue.Type] {
			seen[issue.Type] = true
			ruleIDs = append(ruleIDs, issue.Type)
		}
		results = append(results, sarifResult{
			RuleID:  issue.Type,
			Level:   sarifLevel(issue.Severity),
			Message: sarifMessage{Text: issue.Message},
			Locations: []sarifLoc{{Physical: sarifPhys{
				ArtifactLocation: sarifArt{URI: issue.File},
				Region:           sarifRegion{StartLine: issue.Line, StartColumn: issue.Column},
			}}},
			PartialFingerprints: map[string]string{"cqcIssueId": issue.ID},
		})
	}
	sort.Strings(ruleIDs)
	rules := make([]sarifRule, 0, len(ruleIDs))
	for _, id := range ruleIDs {
		rules = append(rules, sarifRule{ID: id})
	}

	s := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{{Tool: sarifTool{Driver: sarifDriver{Name: "cqc", Rules: rules}}, Results: results}},
	}
	return json.MarshalIndent(s, "", "  ")
}

func (r *SARIFReporter) Render(w io.Writer, result *types.AnalysisResult) error {
	data, err := ToSARIF(result.Project.Issues())
	if err != nil {
		return fmt.Errorf("encode sarif report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
