package rules

import (
	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

// Layer 레이어별 규칙 파이프라인
type Layer struct {
	Number int
	Name   string
	Rules  []Rule
}

// Engine 규칙 엔진
type Engine struct {
	config *config.Config
	layers []Layer
}

// NewEngine 새로운 규칙 엔진 생성
func NewEngine(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	engine := &Engine{config: cfg}

	// 레이어 순서대로 등록. 교차 검사기는 해당 레이어의 고유 규칙 뒤에 붙는다.
	engine.register(1, "configuration", configurationRules(cfg))
	engine.register(2, "bulk-patterns", append(patternRules(cfg), NewSecurityRule()))
	engine.register(3, "component-structure", append(componentRules(cfg), NewAccessibilityRule(), NewBestPracticesRule()))
	engine.register(4, "hydration-quality", append(qualityRules(cfg), NewComplexityRule(cfg.Thresholds), NewPerformanceRule(cfg.Thresholds)))
	engine.register(5, "routing", routingRules(cfg))
	engine.register(6, "testing-modernization", append(testingRules(cfg), NewModernizationRule()))

	return engine
}

func (e *Engine) register(number int, name string, all []Rule) {
	layer := Layer{Number: number, Name: name}
	if e.config.IsLayerEnabled(number) {
		for _, rule := range all {
			if e.config.IsRuleEnabled(rule.ID()) && e.config.IsCategoryEnabled(rule.Category()) {
				layer.Rules = append(layer.Rules, rule)
			}
		}
	}
	e.layers = append(e.layers, layer)
}

// Layers 레이어 파이프라인 (1~6 순서)
func (e *Engine) Layers() []Layer {
	return e.layers
}

// Rules 등록된 전체 규칙 (레이어-등록 순서)
func (e *Engine) Rules() []Rule {
	var all []Rule
	for _, layer := range e.layers {
		all = append(all, layer.Rules...)
	}
	return all
}

// CheckLayer 한 레이어의 규칙들을 순서대로 실행
func (e *Engine) CheckLayer(file *parser.ParsedFile, layer Layer) []types.Issue {
	var layerIssues []types.Issue
	for _, rule := range layer.Rules {
		for _, issue := range rule.Check(file) {
			if e.keep(issue) {
				layerIssues = append(layerIssues, issue)
			}
		}
	}
	return layerIssues
}

// CheckFile 모든 레이어 실행 (패닉 격리 없음, 분석기에서 처리)
func (e *Engine) CheckFile(file *parser.ParsedFile) []types.Issue {
	var allIssues []types.Issue
	for _, layer := range e.layers {
		allIssues = append(allIssues, e.CheckLayer(file, layer)...)
	}
	return Dedupe(allIssues)
}

func (e *Engine) keep(issue types.Issue) bool {
	return e.config.IsRuleEnabled(issue.Type) && e.config.Passes(issue.Severity)
}

// Dedupe 같은 ID의 이슈는 처음 것만 유지
func Dedupe(issues []types.Issue) []types.Issue {
	if len(issues) < 2 {
		return issues
	}
	seen := make(map[string]bool, len(issues))
	out := make([]types.Issue, 0, len(issues))
	for _, issue := range issues {
		if seen[issue.ID] {
			continue
		}
		seen[issue.ID] = true
		out = append(out, issue)
	}
	return out
}
