package rules

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

func qualityRules(cfg *config.Config) []Rule {
	t := cfg.Thresholds
	return []Rule{
		NewBrowserGlobalRule(),
		NewConsoleStatementRule(),
		NewMagicNumberRule(),
		NewCyclomaticComplexityRule(t.ComplexityModerate, t.ComplexityHigh),
		NewNestingDepthRule(t.NestingDepth),
		NewDuplicateFunctionRule(t.DuplicateMinChars, 4, CategoryQuality),
		NewTodoCommentRule(),
		NewFileSizeRule(t.ComponentLines, t.FileLines, t.FileBytes),
	}
}

// BrowserGlobalRule SSR에서 가드 없이 사용된 브라우저 전역 객체 검사
type BrowserGlobalRule struct {
	Base
}

func NewBrowserGlobalRule() Rule {
	return &BrowserGlobalRule{Base: newBase("browser-global", "Unguarded browser global", 4, CategoryHydration,
		"Host globals are undefined during server rendering unless guarded")}
}

var browserGlobals = map[string]bool{
	"window":         true,
	"document":       true,
	"localStorage":   true,
	"sessionStorage": true,
	"navigator":      true,
}

var clientOnlyHooks = map[string]bool{
	"useEffect":       true,
	"useLayoutEffect": true,
}

func (r *BrowserGlobalRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isProductionSource(file) {
		return nil
	}
	var issues []types.Issue
	for _, id := range file.NodesOfType("identifier") {
		name := file.Text(id)
		if !browserGlobals[name] || r.guarded(file, id, name) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, id, "unguarded-browser-global", config.SeverityWarning,
			fmt.Sprintf("%s is accessed without a typeof guard", name),
			IssueOptions{Fixable: true,
				Suggestion: fmt.Sprintf(`Guard with typeof %s !== "undefined" or move the access into useEffect`, name),
				Example:    fmt.Sprintf(`if (typeof %s !== "undefined") { ... }`, name)}))
	}
	return issues
}

// guarded typeof 피연산자이거나, 이펙트 안이거나, 앞선 코드에 typeof 가드가 있는지
func (r *BrowserGlobalRule) guarded(file *parser.ParsedFile, id *sitter.Node, name string) bool {
	if p := file.Parent(id); p != nil && p.Type() == "unary_expression" && strings.HasPrefix(file.Text(p), "typeof") {
		return true
	}
	inEffect := file.Ancestor(id, func(a *sitter.Node) bool {
		return a.Type() == "call_expression" && clientOnlyHooks[file.CalleeName(a)]
	})
	if inEffect != nil {
		return true
	}
	scopeStart := 0
	if fn := file.EnclosingFunction(id); fn != nil {
		scopeStart = parser.Offset(fn)
	}
	preceding := file.Content[scopeStart:parser.Offset(id)]
	return strings.Contains(preceding, "typeof "+name) || strings.Contains(preceding, "typeof window")
}

// ConsoleStatementRule 다른 레이어가 다루지 않는 console 메서드 검사
type ConsoleStatementRule struct {
	Base
}

func NewConsoleStatementRule() Rule {
	return &ConsoleStatementRule{Base: newBase("console-statement", "Console statements", 4, CategoryQuality,
		"Console diagnostics such as table/trace/dir should not ship")}
}

// log/debug/info는 Layer 2, error/warn은 Layer 6 담당
var layeredConsoleMethods = map[string]bool{"log": true, "debug": true, "info": true, "error": true, "warn": true}

func (r *ConsoleStatementRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isProductionSource(file) {
		return nil
	}
	var issues []types.Issue
	for _, call := range file.NodesOfType("call_expression") {
		method, ok := consoleMethod(file, call)
		if !ok || layeredConsoleMethods[method] {
			continue
		}
		issues = append(issues, r.CreateIssue(file, call, "console-statement", config.SeverityWarning,
			fmt.Sprintf("console.%s statement found", method),
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Remove the console statement"}))
	}
	return issues
}

// consoleMethod console.x(...) 호출의 메서드 이름
func consoleMethod(file *parser.ParsedFile, call *sitter.Node) (string, bool) {
	fn := parser.Field(call, "function")
	if fn == nil || fn.Type() != "member_expression" || file.Text(parser.Field(fn, "object")) != "console" {
		return "", false
	}
	return file.Text(parser.Field(fn, "property")), true
}

// MagicNumberRule 매직 넘버 검사
type MagicNumberRule struct {
	Base
}

func NewMagicNumberRule() Rule {
	return &MagicNumberRule{Base: newBase("magic-number", "Magic numbers", 4, CategoryQuality,
		"Unnamed numeric literals hurt readability")}
}

var upperConstRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

func (r *MagicNumberRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isProductionSource(file) {
		return nil
	}
	var issues []types.Issue
	for _, n := range file.NodesOfType("number") {
		text := file.Text(n)
		value, ok := numericValue(text)
		if !ok || r.isExcludedNumber(value) || r.isNamedConstant(file, n) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, n, "magic-number", config.SeverityInfo,
			"Magic number found: "+text,
			IssueOptions{Fixable: true, Suggestion: "Extract the value into a named constant",
				Example: fmt.Sprintf("%s → const MEANINGFUL_NAME = %s", text, text)}))
	}
	return issues
}

func numericValue(text string) (float64, bool) {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "_", ""), "n")
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v, true
	}
	if v, err := strconv.ParseInt(text, 0, 64); err == nil {
		return float64(v), true
	}
	return 0, false
}

func (r *MagicNumberRule) isExcludedNumber(v float64) bool {
	switch v {
	case 0, 1, -1, 10, 100, 1000:
		return true
	}
	return v != math.Trunc(v) && v >= 0 && v <= 1
}

// isNamedConstant UPPER_CASE 상수 정의의 값이거나 타입 위치의 리터럴인지
func (r *MagicNumberRule) isNamedConstant(file *parser.ParsedFile, n *sitter.Node) bool {
	p := file.Parent(n)
	if p != nil && p.Type() == "unary_expression" {
		p = file.Parent(p)
	}
	if p == nil {
		return false
	}
	switch p.Type() {
	case "variable_declarator":
		return upperConstRegex.MatchString(file.Text(parser.Field(p, "name")))
	case "literal_type", "enum_assignment":
		return true
	}
	return false
}

// CyclomaticComplexityRule 함수별 순환 복잡도 검사
type CyclomaticComplexityRule struct {
	Base
	moderate int
	high     int
}

func NewCyclomaticComplexityRule(moderate, high int) Rule {
	return &CyclomaticComplexityRule{
		Base:     newBase("complexity", "Cyclomatic complexity", 4, CategoryQuality, "Functions with many branches are hard to test"),
		moderate: moderate,
		high:     high,
	}
}

func (r *CyclomaticComplexityRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	var issues []types.Issue
	for _, fn := range file.FindNodes(parser.IsFunction) {
		complexity := cyclomatic(file, fn, false)
		name := file.FunctionName(fn)
		switch {
		case complexity > r.high:
			issues = append(issues, r.CreateIssue(file, fn, "high-complexity", config.SeverityError,
				fmt.Sprintf("Function %s has high cyclomatic complexity (%d)", name, complexity),
				IssueOptions{Fixable: true, Suggestion: "Split the function into smaller functions"}))
		case complexity > r.moderate:
			issues = append(issues, r.CreateIssue(file, fn, "moderate-complexity", config.SeverityWarning,
				fmt.Sprintf("Function %s has moderate cyclomatic complexity (%d)", name, complexity),
				IssueOptions{Fixable: true, Suggestion: "Consider extracting branches into helper functions"}))
		}
	}
	return issues
}

// NestingDepthRule 제어 흐름 중첩 깊이 검사
type NestingDepthRule struct {
	Base
	maxDepth int
}

func NewNestingDepthRule(maxDepth int) Rule {
	return &NestingDepthRule{
		Base:     newBase("nesting-depth", "Nesting depth", 4, CategoryQuality, "Deeply nested control flow is hard to follow"),
		maxDepth: maxDepth,
	}
}

func (r *NestingDepthRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	var issues []types.Issue
	// 가장 바깥 함수 단위로 측정해 중첩 함수의 중복 보고를 막는다
	for _, fn := range file.FindNodes(func(n *sitter.Node) bool {
		return parser.IsFunction(n) && file.EnclosingFunction(n) == nil
	}) {
		depth, deepest := nestingDepth(file, parser.FunctionBody(fn))
		if depth <= r.maxDepth {
			continue
		}
		issues = append(issues, r.CreateIssue(file, deepest, "deep-nesting", config.SeverityWarning,
			fmt.Sprintf("Nesting depth %d in %s exceeds %d", depth, file.FunctionName(fn), r.maxDepth),
			IssueOptions{Fixable: true, Suggestion: "Use early returns or extract nested blocks"}))
	}
	return issues
}

// DuplicateFunctionRule 정규화된 본문이 같은 함수 검사
type DuplicateFunctionRule struct {
	Base
	minChars int
}

// NewDuplicateFunctionRule 품질 레이어(>50자)와 복잡도 검사기(>100자)가 공유
func NewDuplicateFunctionRule(minChars, layer int, category string) Rule {
	return &DuplicateFunctionRule{
		Base:     newBase("duplicate-function", "Duplicate functions", layer, category, "Functions with identical bodies should be shared"),
		minChars: minChars,
	}
}

func (r *DuplicateFunctionRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	var issues []types.Issue
	for _, d := range duplicateFunctions(file, r.minChars) {
		line := file.PositionOf(parser.Offset(d.original)).Line
		issues = append(issues, r.CreateIssue(file, d.fn, "duplicate-function", config.SeverityWarning,
			fmt.Sprintf("Function %s duplicates %s (line %d)", file.FunctionName(d.fn), file.FunctionName(d.original), line),
			IssueOptions{Fixable: true, Suggestion: "Extract the shared body into one function"}))
	}
	return issues
}

// TodoCommentRule TODO/FIXME/HACK/XXX/NOTE 주석 검사
type TodoCommentRule struct {
	Base
}

func NewTodoCommentRule() Rule {
	return &TodoCommentRule{Base: newBase("todo-comment", "Task comments", 4, CategoryQuality,
		"Open task markers left in comments")}
}

var todoRegex = regexp.MustCompile(`\b(TODO|FIXME|HACK|XXX|NOTE)\b`)

func (r *TodoCommentRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	var issues []types.Issue
	for _, c := range file.NodesOfType("comment") {
		text := file.Text(c)
		loc := todoRegex.FindStringIndex(text)
		if loc == nil {
			continue
		}
		marker := text[loc[0]:loc[1]]
		issues = append(issues, r.CreateIssueAt(file, parser.Offset(c)+loc[0], "todo-comment", config.SeverityInfo,
			fmt.Sprintf("%s comment: %s", marker, truncate(text[loc[1]:], 60)),
			IssueOptions{Suggestion: "Resolve the task or track it in the issue tracker"}))
	}
	return issues
}

// FileSizeRule 컴포넌트/파일 크기 검사
type FileSizeRule struct {
	Base
	componentLines int
	fileLines      int
	fileBytes      int
}

func NewFileSizeRule(componentLines, fileLines, fileBytes int) Rule {
	return &FileSizeRule{
		Base:           newBase("file-size", "File size", 4, CategoryQuality, "Large components and files should be split"),
		componentLines: componentLines,
		fileLines:      fileLines,
		fileBytes:      fileBytes,
	}
}

func (r *FileSizeRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	var issues []types.Issue
	lines := len(file.Lines)
	if lines > r.componentLines {
		if comp := primaryComponent(file); comp != nil {
			issues = append(issues, r.CreateIssue(file, comp, "large-component", config.SeverityWarning,
				fmt.Sprintf("Component %s lives in a %d-line file (limit %d)", file.FunctionName(comp), lines, r.componentLines),
				IssueOptions{Fixable: true, Suggestion: "Split the component into smaller components"}))
		}
	}
	if lines > r.fileLines || len(file.Content) > r.fileBytes {
		issues = append(issues, r.CreateIssueAtLine(file, 1, 1, "large-file", config.SeverityInfo,
			fmt.Sprintf("File is large (%d lines, %d bytes)", lines, len(file.Content)),
			IssueOptions{Fixable: true, Suggestion: "Split the file into modules"}))
	}
	return issues
}

// primaryComponent default export 컴포넌트, 없으면 첫 최상위 컴포넌트
func primaryComponent(file *parser.ParsedFile) *sitter.Node {
	var first *sitter.Node
	for _, comp := range file.Components() {
		if file.EnclosingFunction(comp) != nil {
			continue
		}
		if exp := file.Ancestor(comp, func(a *sitter.Node) bool { return a.Type() == "export_statement" }); exp != nil && strings.HasPrefix(file.Text(exp), "export default") {
			return comp
		}
		if first == nil {
			first = comp
		}
	}
	return first
}
