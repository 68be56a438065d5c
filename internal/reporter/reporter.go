package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"component-quality-checker/internal/types"
)

// Reporter 리포터 인터페이스
type Reporter interface {
	Render(w io.Writer, result *types.AnalysisResult) error
}

// Options 리포터 옵션
type Options struct {
	// Color 콘솔 색상 사용 여부
	Color bool
	// Width 콘솔 메시지 최대 폭 (0이면 100)
	Width int
}

// Formats 지원하는 출력 형식
var Formats = []string{"console", "json", "html", "sarif"}

// New 새로운 리포터 생성
func New(format string, opts Options) (Reporter, error) {
	switch strings.ToLower(format) {
	case "console", "text", "":
		return newConsoleReporter(opts), nil
	case "json":
		return &JSONReporter{}, nil
	case "html":
		return &HTMLReporter{}, nil
	case "sarif":
		return &SARIFReporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Generate 결과를 파일(또는 outputFile이 비어 있으면 stdout)에 출력
func Generate(r Reporter, result *types.AnalysisResult, outputFile string) (err error) {
	if outputFile == "" {
		return r.Render(os.Stdout, result)
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputFile, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return r.Render(f, result)
}

// JSONReporter JSON 출력 리포터
type JSONReporter struct{}

func (r *JSONReporter) Render(w io.Writer, result *types.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}
