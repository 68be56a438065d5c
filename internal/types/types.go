package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/zeebo/blake3"

	"component-quality-checker/internal/config"
)

// Issue 코드 품질 이슈
type Issue struct {
	ID          string          `json:"id" msgpack:"id"`
	Type        string          `json:"type" msgpack:"type"`
	Severity    config.Severity `json:"severity" msgpack:"severity"`
	Message     string          `json:"message" msgpack:"message"`
	File        string          `json:"file" msgpack:"file"`
	Line        int             `json:"line" msgpack:"line"`
	Column      int             `json:"column" msgpack:"column"`
	Fixable     bool            `json:"fixable" msgpack:"fixable"`
	AutoFixable bool            `json:"autoFixable" msgpack:"autoFixable"`
	Layer       int             `json:"layer" msgpack:"layer"`
	Category    string          `json:"category,omitempty" msgpack:"category,omitempty"`
	Suggestion  string          `json:"suggestion,omitempty" msgpack:"suggestion,omitempty"`
	Example     string          `json:"example,omitempty" msgpack:"example,omitempty"`
}

// IsCritical layer 1~2의 error 이슈
func (i Issue) IsCritical() bool {
	return i.Severity == config.SeverityError && i.Layer <= 2
}

// NewIssueID (type, file, line, column, message)로부터 결정적 ID 생성.
// 필드를 0x1f로 구분한 바이트열의 BLAKE3-256 다이제스트 중 앞 8바이트(빅엔디언 uint64)를
// 16자리 소문자 hex로 표기한다.
func NewIssueID(issueType, file string, line, column int, message string) string {
	h := blake3.New()
	for i, part := range []string{issueType, file, strconv.Itoa(line), strconv.Itoa(column), message} {
		if i > 0 {
			_, _ = h.Write([]byte{0x1f})
		}
		_, _ = h.Write([]byte(part))
	}
	sum := h.Sum(nil)
	return fmt.Sprintf("%016x", binary.BigEndian.Uint64(sum[:8]))
}

// FileInput 분석 입력 파일
type FileInput struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

// FileResult 파일별 분석 결과
type FileResult struct {
	FileName string  `json:"fileName"`
	Content  string  `json:"content"`
	Issues   []Issue `json:"issues"`
}

// ProjectSummary 분석 요약 정보
type ProjectSummary struct {
	TotalFiles       int            `json:"totalFiles"`
	TotalIssues      int            `json:"totalIssues"`
	ErrorCount       int            `json:"errorCount"`
	WarningCount     int            `json:"warningCount"`
	InfoCount        int            `json:"infoCount"`
	FixableCount     int            `json:"fixableCount"`
	AutoFixableCount int            `json:"autoFixableCount"`
	CriticalIssues   int            `json:"criticalIssues"`
	IssuesByLayer    map[int]int    `json:"issuesByLayer"`
	CategoryCount    map[string]int `json:"categoryCount"`
}

// ProjectResult 프로젝트 분석 결과
type ProjectResult struct {
	Files   []FileResult   `json:"files"`
	Summary ProjectSummary `json:"summary"`
}

// Issues 모든 파일의 이슈를 입력 순서대로 연결
func (r *ProjectResult) Issues() []Issue {
	var all []Issue
	for _, f := range r.Files {
		all = append(all, f.Issues...)
	}
	return all
}

// AnalysisResult 리포터에 전달되는 실행 결과
type AnalysisResult struct {
	Project   ProjectResult `json:"project"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// HasCriticalIssues 심각한 이슈가 있는지 확인
func (r *AnalysisResult) HasCriticalIssues() bool {
	return r.Project.Summary.CriticalIssues > 0
}
