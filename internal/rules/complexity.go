package rules

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

// ComplexityRule 구조적 복잡도 검사기
type ComplexityRule struct {
	Base
	thresholds config.Thresholds
	duplicates Rule
}

func NewComplexityRule(thresholds config.Thresholds) Rule {
	return &ComplexityRule{
		Base:       newBase("structural-complexity", "Structural complexity", 4, CategoryComplexity, "Logical-operator complexity, function length, parameters, state hooks and duplicate bodies"),
		thresholds: thresholds,
		duplicates: NewDuplicateFunctionRule(thresholds.DuplicateStrictChars, 4, CategoryComplexity),
	}
}

func (r *ComplexityRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	return runChecks(file,
		r.checkStrictComplexity,
		r.checkFunctionLength,
		r.checkParameters,
		r.checkStateHooks,
		r.duplicates.Check,
	)
}

// checkStrictComplexity &&/|| 를 포함하면 임계값을 넘는 함수 (기본 점수로는 넘지 않는 경우만)
func (r *ComplexityRule) checkStrictComplexity(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, fn := range file.FindNodes(parser.IsFunction) {
		strict := cyclomatic(file, fn, true)
		if strict <= r.thresholds.ComplexityModerate || cyclomatic(file, fn, false) > r.thresholds.ComplexityModerate {
			continue
		}
		issues = append(issues, r.CreateIssue(file, fn, "cyclomatic-complexity", config.SeverityWarning,
			fmt.Sprintf("Function %s reaches complexity %d when logical operators are counted", file.FunctionName(fn), strict),
			IssueOptions{Fixable: true, Suggestion: "Extract compound conditions into named predicates"}))
	}
	return issues
}

func (r *ComplexityRule) checkFunctionLength(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, fn := range file.FindNodes(parser.IsFunction) {
		lines := file.LineSpan(fn)
		if lines <= r.thresholds.FunctionLines {
			continue
		}
		issues = append(issues, r.CreateIssue(file, fn, "long-function", config.SeverityWarning,
			fmt.Sprintf("Function %s is %d lines long (limit %d)", file.FunctionName(fn), lines, r.thresholds.FunctionLines),
			IssueOptions{Fixable: true, Suggestion: "Split the function into smaller units"}))
	}
	return issues
}

func (r *ComplexityRule) checkParameters(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, fn := range file.FindNodes(parser.IsFunction) {
		count := len(parser.FunctionParameters(fn))
		if count <= r.thresholds.MaxParameters {
			continue
		}
		issues = append(issues, r.CreateIssue(file, fn, "too-many-parameters", config.SeverityWarning,
			fmt.Sprintf("Function %s takes %d parameters (limit %d)", file.FunctionName(fn), count, r.thresholds.MaxParameters),
			IssueOptions{Fixable: true, Suggestion: "Group related parameters into an options object"}))
	}
	return issues
}

// checkStateHooks 컴포넌트 본문에서 직접 호출된 useState 개수
func (r *ComplexityRule) checkStateHooks(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, comp := range file.Components() {
		count := 0
		for _, call := range file.FindIn(parser.FunctionBody(comp), func(n *sitter.Node) bool {
			return n.Type() == "call_expression" && file.CalleeName(n) == "useState"
		}) {
			if parser.SameNode(file.EnclosingFunction(call), comp) {
				count++
			}
		}
		if count <= r.thresholds.MaxStateHooks {
			continue
		}
		issues = append(issues, r.CreateIssue(file, comp, "too-many-state-hooks", config.SeverityWarning,
			fmt.Sprintf("Component %s declares %d useState hooks (limit %d)", file.FunctionName(comp), count, r.thresholds.MaxStateHooks),
			IssueOptions{Fixable: true, Suggestion: "Consolidate related state with useReducer or a custom hook"}))
	}
	return issues
}
