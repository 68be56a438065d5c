package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"component-quality-checker/internal/analyzer"
	"component-quality-checker/internal/cache"
	"component-quality-checker/internal/config"
	"component-quality-checker/internal/reporter"
	"component-quality-checker/internal/types"
)

var (
	configFile   string
	outputFormat string
	outputFile   string
	minSeverity  string
	rulesFilter  string
	layersFilter string
	disableRules []string
	jobs         int
	useCache     bool
	cacheDir     string
	colorMode    string
	verbose      bool
)

// errCriticalIssues 치명적 이슈가 있을 때 종료 코드 1
var errCriticalIssues = errors.New("critical issues found")

func main() {
	rootCmd := &cobra.Command{
		Use:   "cqc [path]",
		Short: "Component Quality Checker - JSX/TSX 컴포넌트 품질 검사 도구",
		Long: `Component Quality Checker (CQC)

React/Next.js 프로젝트의 JavaScript, TypeScript, JSX, TSX, JSON 파일을
6개 레이어(설정, 패턴, 컴포넌트 구조, 하이드레이션/품질, 라우팅, 테스트/현대화)로 검사합니다.

사용 예시:
  cqc ./src                               # 기본 검사
  cqc ./src --output=html --output-file=report.html
  cqc ./src --min-severity=warning        # warning 이상만 표시
  cqc ./src --rules=security,performance  # 특정 카테고리만 검사
  cqc ./src --layers=1,2                  # 치명적 레이어만 검사
  cqc watch ./src                         # 변경 시 재검사`,
		Args:          cobra.ExactArgs(1),
		RunE:          runAnalysis,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// 플래그 설정
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "설정 파일 경로 (.yaml/.toml)")
	flags.StringVarP(&outputFormat, "output", "o", "console", "출력 형식 ("+strings.Join(reporter.Formats, "/")+")")
	flags.StringVar(&outputFile, "output-file", "", "출력 파일 경로 (기본값: stdout)")
	flags.StringVarP(&minSeverity, "min-severity", "s", "", "최소 심각도 (info/warning/error)")
	flags.StringVar(&rulesFilter, "rules", "", "검사할 규칙 카테고리 (쉼표로 구분)")
	flags.StringVar(&layersFilter, "layers", "", "검사할 레이어 (예: 1,2,5)")
	flags.StringSliceVar(&disableRules, "disable", nil, "비활성화할 규칙/이슈 ID")
	flags.IntVarP(&jobs, "jobs", "j", 0, "동시에 분석할 파일 수 (0이면 CPU 수)")
	flags.BoolVar(&useCache, "cache", false, "파일별 결과 캐시 사용")
	flags.StringVar(&cacheDir, "cache-dir", "", "캐시 디렉토리 (기본값: 사용자 캐시 디렉토리)")
	flags.StringVar(&colorMode, "color", "auto", "색상 출력 (auto/on/off)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "상세 출력")

	rootCmd.AddCommand(newWatchCmd(), newRulesCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errCriticalIssues) {
			fmt.Fprintf(os.Stderr, "오류 발생: %v\n", err)
		}
		os.Exit(1)
	}
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, logger, err := setup()
	if err != nil {
		return err
	}
	result, err := analyze(ctx, a, logger, args[0])
	if err != nil {
		return err
	}
	if result.HasCriticalIssues() {
		return errCriticalIssues
	}
	return nil
}

// setup 설정 로드, 필터 적용, 분석기 생성
func setup() (*analyzer.Analyzer, zerolog.Logger, error) {
	logger := newLogger()

	// 1. 설정 로드
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, logger, fmt.Errorf("설정 파일 로드 실패: %w", err)
	}

	// 2. 설정 필터링
	cfg.FilterByCategories(rulesFilter)
	if minSeverity != "" {
		cfg.FilterBySeverity(config.ParseSeverity(minSeverity))
	}
	if err := cfg.FilterByLayers(layersFilter); err != nil {
		return nil, logger, err
	}
	for _, id := range disableRules {
		cfg.DisableRule(strings.TrimSpace(id))
	}
	if jobs > 0 {
		cfg.Jobs = jobs
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}

	opts := []analyzer.Option{analyzer.WithLogger(logger)}
	if useCache || cfg.CacheDir != "" {
		c, err := cache.Open(cfg.CacheDir)
		if err != nil {
			return nil, logger, err
		}
		logger.Debug().Str("dir", c.Dir()).Msg("cache enabled")
		opts = append(opts, analyzer.WithCache(c))
	}
	return analyzer.New(cfg, opts...), logger, nil
}

// analyze 분석 실행 후 리포트 출력
func analyze(ctx context.Context, a *analyzer.Analyzer, logger zerolog.Logger, targetPath string) (*types.AnalysisResult, error) {
	logger.Debug().Str("path", targetPath).Str("format", outputFormat).Msg("analysis started")

	// 3. 분석 실행
	result, err := a.AnalyzePath(ctx, targetPath)
	if err != nil {
		return nil, fmt.Errorf("분석 실패: %w", err)
	}

	// 4. 결과 리포팅
	rep, err := reporter.New(outputFormat, reporter.Options{Color: useColor(), Width: terminalWidth()})
	if err != nil {
		return nil, fmt.Errorf("리포터 생성 실패: %w", err)
	}
	if err := reporter.Generate(rep, result, outputFile); err != nil {
		return nil, fmt.Errorf("리포트 생성 실패: %w", err)
	}

	logger.Debug().
		Int("files", result.Project.Summary.TotalFiles).
		Int("issues", result.Project.Summary.TotalIssues).
		Dur("duration", result.Duration).
		Msg("analysis finished")
	return result, nil
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !isTerminal(os.Stderr) || colorMode == "off"}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func useColor() bool {
	switch colorMode {
	case "on":
		return true
	case "off":
		return false
	default:
		return outputFile == "" && isTerminal(os.Stdout)
	}
}

// isTerminal 파일이 터미널인지 확인
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func terminalWidth() int {
	if !isTerminal(os.Stdout) {
		return 0
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 0
	}
	// 위치/심각도 열과 규칙 ID 여백
	return width - 40
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "등록된 검사기 목록 출력",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return fmt.Errorf("설정 파일 로드 실패: %w", err)
			}
			engine := analyzer.New(cfg).Engine()

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("LAYER", "ID", "CATEGORY", "DESCRIPTION")
			for _, layer := range engine.Layers() {
				for _, rule := range layer.Rules {
					t.Row(fmt.Sprintf("%d %s", layer.Number, layer.Name), rule.ID(), rule.Category(), rule.Description())
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			if disabled := cfg.DisabledRules(); len(disabled) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "비활성화된 규칙: %s\n", strings.Join(disabled, ", "))
			}
			return nil
		},
	}
}
