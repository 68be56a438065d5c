package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"component-quality-checker/internal/cache"
	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/rules"
	"component-quality-checker/internal/types"
)

// Analyzer 파일/프로젝트 분석기
type Analyzer struct {
	config      *config.Config
	ruleEngine  *rules.Engine
	parser      *parser.Parser
	logger      zerolog.Logger
	cache       *cache.DiskCache
	fingerprint string
}

// Option 분석기 옵션
type Option func(*Analyzer)

// WithLogger 로거 지정 (기본값은 출력 없음)
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// WithCache 파일별 결과 캐시 사용
func WithCache(c *cache.DiskCache) Option {
	return func(a *Analyzer) { a.cache = c }
}

// New 새로운 분석기 생성
func New(cfg *config.Config, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &Analyzer{
		config:      cfg,
		ruleEngine:  rules.NewEngine(cfg),
		parser:      parser.New(cfg.MaxNodes),
		logger:      zerolog.Nop(),
		fingerprint: cfg.Fingerprint(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Engine 분석기가 사용하는 규칙 엔진
func (a *Analyzer) Engine() *rules.Engine {
	return a.ruleEngine
}

// AnalyzeFile 레이어 1~6을 순서대로 실행해 이슈를 모은다.
// 파싱 실패는 parse-error 이슈 하나로, 지원하지 않는 파일은 빈 결과로 끝난다.
func (a *Analyzer) AnalyzeFile(ctx context.Context, fileName, content string) []types.Issue {
	var key cache.Key
	if a.cache != nil {
		key = cache.NewKey(fileName, content, a.fingerprint)
		issues, ok, err := a.cache.Get(key)
		if err != nil {
			a.logger.Warn().Err(err).Str("file", fileName).Msg("cache read failed")
		} else if ok {
			return issues
		}
	}

	issues := a.analyze(ctx, fileName, content)

	if a.cache != nil {
		if err := a.cache.Put(key, fileName, issues); err != nil {
			a.logger.Warn().Err(err).Str("file", fileName).Msg("cache write failed")
		}
	}
	return issues
}

func (a *Analyzer) analyze(ctx context.Context, fileName, content string) []types.Issue {
	file, err := a.parser.Parse(ctx, fileName, content)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupported) {
			a.logger.Debug().Str("file", fileName).Msg("unsupported file type")
			return nil
		}
		a.logger.Warn().Err(err).Str("file", fileName).Msg("parse failed")
		return a.filter([]types.Issue{parseErrorIssue(fileName, err)})
	}
	defer file.Close()

	if file.Truncated {
		a.logger.Warn().Str("file", fileName).Int("max_nodes", len(file.Nodes)).Msg("node budget reached, analysis truncated")
	}

	var issues []types.Issue
	for _, layer := range a.ruleEngine.Layers() {
		issues = append(issues, a.runLayer(file, layer)...)
	}
	if file.BudgetExhausted() {
		a.logger.Warn().Str("file", fileName).Msg("traversal budget reached, detector results truncated")
	}
	return rules.Dedupe(issues)
}

// runLayer 레이어 실행. 검사기 패닉은 기록 후 해당 레이어 결과를 버린다.
func (a *Analyzer) runLayer(file *parser.ParsedFile, layer rules.Layer) (issues []types.Issue) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().
				Str("file", file.FileName).
				Int("layer", layer.Number).
				Str("layer_name", layer.Name).
				Interface("panic", r).
				Msg("detector failed, layer skipped")
			issues = nil
		}
	}()
	return a.ruleEngine.CheckLayer(file, layer)
}

func (a *Analyzer) filter(issues []types.Issue) []types.Issue {
	out := issues[:0]
	for _, issue := range issues {
		if a.config.Passes(issue.Severity) && a.config.IsRuleEnabled(issue.Type) {
			out = append(out, issue)
		}
	}
	return out
}

func parseErrorIssue(fileName string, err error) types.Issue {
	line, column := 1, 1
	message := fmt.Sprintf("Could not parse %s", fileName)
	var synErr *parser.SyntaxError
	if errors.As(err, &synErr) {
		line, column = synErr.Pos.Line, synErr.Pos.Column
		message = fmt.Sprintf("Syntax error near %q", synErr.Near)
	}
	return types.Issue{
		ID:         types.NewIssueID("parse-error", fileName, line, column, message),
		Type:       "parse-error",
		Severity:   config.SeverityError,
		Message:    message,
		File:       fileName,
		Line:       line,
		Column:     column,
		Layer:      1,
		Category:   rules.CategoryConfig,
		Suggestion: "Fix the syntax error so the remaining checks can run",
	}
}

// AnalyzeProject 파일들을 병렬로 분석. 결과 순서는 입력 순서와 같다.
func (a *Analyzer) AnalyzeProject(ctx context.Context, files []types.FileInput) (*types.ProjectResult, error) {
	results := make([]types.FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.jobs())
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = types.FileResult{
				FileName: f.FileName,
				Content:  f.Content,
				Issues:   a.AnalyzeFile(gctx, f.FileName, f.Content),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.ProjectResult{Files: results, Summary: Summarize(results)}, nil
}

func (a *Analyzer) jobs() int {
	if a.config.Jobs > 0 {
		return a.config.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// Summarize 모든 이슈를 한 번 순회하며 요약 통계 계산
func Summarize(files []types.FileResult) types.ProjectSummary {
	summary := types.ProjectSummary{
		TotalFiles:    len(files),
		IssuesByLayer: make(map[int]int),
		CategoryCount: make(map[string]int),
	}
	for _, f := range files {
		for _, issue := range f.Issues {
			summary.TotalIssues++
			switch issue.Severity {
			case config.SeverityError:
				summary.ErrorCount++
			case config.SeverityWarning:
				summary.WarningCount++
			case config.SeverityInfo:
				summary.InfoCount++
			}
			if issue.Fixable {
				summary.FixableCount++
			}
			if issue.AutoFixable {
				summary.AutoFixableCount++
			}
			if issue.IsCritical() {
				summary.CriticalIssues++
			}
			summary.IssuesByLayer[issue.Layer]++
			if issue.Category != "" {
				summary.CategoryCount[issue.Category]++
			}
		}
	}
	return summary
}

// AnalyzePath 디렉토리(또는 단일 파일)를 읽어 분석
func (a *Analyzer) AnalyzePath(ctx context.Context, targetPath string) (*types.AnalysisResult, error) {
	startTime := time.Now()

	inputs, err := a.collectFiles(targetPath)
	if err != nil {
		return nil, fmt.Errorf("collect files: %w", err)
	}
	a.logger.Debug().Str("path", targetPath).Int("files", len(inputs)).Msg("files collected")

	project, err := a.AnalyzeProject(ctx, inputs)
	if err != nil {
		return nil, err
	}

	endTime := time.Now()
	return &types.AnalysisResult{
		Project:   *project,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime),
	}, nil
}

// collectFiles 분석 대상 파일 수집. 파일 이름은 대상 경로 기준 슬래시 경로.
func (a *Analyzer) collectFiles(targetPath string) ([]types.FileInput, error) {
	excluded, err := a.config.ExcludeMatcher()
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		content, err := os.ReadFile(targetPath)
		if err != nil {
			return nil, err
		}
		return []types.FileInput{{FileName: filepath.ToSlash(targetPath), Content: string(content)}}, nil
	}

	var inputs []types.FileInput
	err = filepath.WalkDir(targetPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(targetPath, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != targetPath && (shouldSkipDirectory(d.Name()) || excluded(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := parser.DialectFor(path); !ok || excluded(rel) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		inputs = append(inputs, types.FileInput{FileName: rel, Content: string(content)})
		return nil
	})
	return inputs, err
}

var skipDirs = map[string]bool{
	".git": true, ".svn": true, ".hg": true,
	"node_modules": true, "vendor": true,
	"build": true, "dist": true, "out": true, "coverage": true,
	".next": true, ".turbo": true, ".vercel": true, ".cache": true,
	".idea": true, ".vscode": true,
}

// shouldSkipDirectory 스킵할 디렉토리인지 확인
func shouldSkipDirectory(dirName string) bool {
	return skipDirs[dirName]
}
