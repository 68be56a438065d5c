package rules

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

// Category 이슈 분류
const (
	CategoryConfig        = "configuration"
	CategoryPatterns      = "patterns"
	CategoryComponents    = "components"
	CategoryHydration     = "hydration"
	CategoryQuality       = "quality"
	CategoryRouting       = "routing"
	CategoryTesting       = "testing"
	CategorySecurity      = "security"
	CategoryPerformance   = "performance"
	CategoryAccessibility = "accessibility"
	CategoryComplexity    = "complexity"
	CategoryBestPractices = "best-practices"
	CategoryModernization = "modernization"
)

// Rule 검사기 인터페이스. 파일 간 상태를 갖지 않는다.
type Rule interface {
	ID() string
	Name() string
	Layer() int
	Category() string
	Description() string
	Check(file *parser.ParsedFile) []types.Issue
}

// IssueOptions 이슈 생성 옵션
type IssueOptions struct {
	Fixable     bool
	AutoFixable bool
	// Layer 0이면 검사기의 레이어를 사용
	Layer      int
	Suggestion string
	Example    string
}

// Base 모든 검사기가 공유하는 이슈 생성/조회 기능
type Base struct {
	id          string
	name        string
	layer       int
	category    string
	description string
}

func newBase(id, name string, layer int, category, description string) Base {
	return Base{id: id, name: name, layer: layer, category: category, description: description}
}

func (b Base) ID() string          { return b.id }
func (b Base) Name() string        { return b.name }
func (b Base) Layer() int          { return b.layer }
func (b Base) Category() string    { return b.category }
func (b Base) Description() string { return b.description }

// CreateIssue 노드 시작 위치로 이슈 생성
func (b Base) CreateIssue(file *parser.ParsedFile, node *sitter.Node, issueType string, severity config.Severity, message string, opts IssueOptions) types.Issue {
	return b.CreateIssueAt(file, parser.Offset(node), issueType, severity, message, opts)
}

// CreateIssueAt 바이트 오프셋으로 이슈 생성
func (b Base) CreateIssueAt(file *parser.ParsedFile, offset int, issueType string, severity config.Severity, message string, opts IssueOptions) types.Issue {
	pos := file.PositionOf(offset)
	return b.CreateIssueAtLine(file, pos.Line, pos.Column, issueType, severity, message, opts)
}

// CreateIssueAtLine 라인/컬럼으로 이슈 생성
func (b Base) CreateIssueAtLine(file *parser.ParsedFile, line, column int, issueType string, severity config.Severity, message string, opts IssueOptions) types.Issue {
	layer := opts.Layer
	if layer == 0 {
		layer = b.layer
	}
	return types.Issue{
		ID:          types.NewIssueID(issueType, file.FileName, line, column, message),
		Type:        issueType,
		Severity:    severity,
		Message:     message,
		File:        file.FileName,
		Line:        line,
		Column:      column,
		Fixable:     opts.Fixable,
		AutoFixable: opts.AutoFixable,
		Layer:       layer,
		Category:    b.category,
		Suggestion:  opts.Suggestion,
		Example:     opts.Example,
	}
}

// Attributes JSX 요소의 속성 노드들 (jsx_attribute, 스프레드 포함)
func Attributes(el *sitter.Node) []*sitter.Node {
	var attrs []*sitter.Node
	for _, c := range parser.NamedChildren(parser.OpeningElement(el)) {
		switch c.Type() {
		case "jsx_attribute":
			attrs = append(attrs, c)
		case "jsx_expression", "jsx_spread_attribute":
			if c.Type() == "jsx_spread_attribute" || isSpreadExpression(c) {
				attrs = append(attrs, c)
			}
		}
	}
	return attrs
}

func isSpreadExpression(n *sitter.Node) bool {
	first := parser.FirstNamedChild(n)
	return first != nil && first.Type() == "spread_element"
}

// IsSpreadAttribute {...props} 형태 속성 여부
func IsSpreadAttribute(attr *sitter.Node) bool {
	return attr.Type() == "jsx_spread_attribute" || (attr.Type() == "jsx_expression" && isSpreadExpression(attr))
}

// AttributeName 속성 이름
func AttributeName(file *parser.ParsedFile, attr *sitter.Node) string {
	if attr.Type() != "jsx_attribute" {
		return ""
	}
	return file.Text(parser.FirstNamedChild(attr))
}

// AttributeValueNode 속성 값 노드 (값 없는 boolean 속성은 nil)
func AttributeValueNode(attr *sitter.Node) *sitter.Node {
	children := parser.NamedChildren(attr)
	if len(children) < 2 {
		return nil
	}
	return children[len(children)-1]
}

// FindAttribute 이름으로 속성 찾기
func FindAttribute(file *parser.ParsedFile, el *sitter.Node, name string) *sitter.Node {
	for _, attr := range Attributes(el) {
		if AttributeName(file, attr) == name {
			return attr
		}
	}
	return nil
}

// HasAttribute 속성 존재 여부
func HasAttribute(file *parser.ParsedFile, el *sitter.Node, name string) bool {
	return FindAttribute(file, el, name) != nil
}

// AttributeValue 정적으로 알 수 있는 문자열 값만 반환
func AttributeValue(file *parser.ParsedFile, el *sitter.Node, name string) (string, bool) {
	attr := FindAttribute(file, el, name)
	if attr == nil {
		return "", false
	}
	value := AttributeValueNode(attr)
	if value == nil {
		return "", false
	}
	if s, ok := file.StringValue(value); ok {
		return s, true
	}
	if value.Type() == "jsx_expression" {
		if s, ok := file.StringValue(parser.FirstNamedChild(value)); ok {
			return s, true
		}
	}
	return "", false
}

// HasSpreadAttribute {...props}로 임의 속성이 전달되는지
func HasSpreadAttribute(el *sitter.Node) bool {
	for _, attr := range Attributes(el) {
		if IsSpreadAttribute(attr) {
			return true
		}
	}
	return false
}

var conditionalTypes = map[string]bool{
	"if_statement":       true,
	"ternary_expression": true,
	"switch_statement":   true,
	"for_statement":      true,
	"for_in_statement":   true,
	"while_statement":    true,
	"do_statement":       true,
}

// IsInsideConditional 가장 가까운 함수 경계 안에서 조건문/반복문 조상이 있는지
func IsInsideConditional(file *parser.ParsedFile, node *sitter.Node) bool {
	for p := file.Parent(node); p != nil; p = file.Parent(p) {
		if parser.IsFunction(p) {
			return false
		}
		if conditionalTypes[p.Type()] {
			return true
		}
		if p.Type() == "binary_expression" {
			if op := parser.Field(p, "operator"); op != nil && (op.Type() == "&&" || op.Type() == "||" || op.Type() == "??") {
				return true
			}
		}
	}
	return false
}

// ImportBinding import 선언의 바인딩
type ImportBinding struct {
	Name      string
	Imported  string
	Source    string
	Default   bool
	Namespace bool
	Statement *sitter.Node
}

// Imports 파일의 import 바인딩 목록
func Imports(file *parser.ParsedFile) []ImportBinding {
	var bindings []ImportBinding
	if !file.HasTree() {
		return nil
	}
	for _, stmt := range parser.NamedChildren(file.Root) {
		if stmt.Type() != "import_statement" {
			continue
		}
		source, _ := file.StringValue(parser.Field(stmt, "source"))
		for _, clause := range parser.NamedChildren(stmt) {
			if clause.Type() != "import_clause" {
				continue
			}
			for _, part := range parser.NamedChildren(clause) {
				switch part.Type() {
				case "identifier":
					name := file.Text(part)
					bindings = append(bindings, ImportBinding{Name: name, Imported: "default", Source: source, Default: true, Statement: stmt})
				case "namespace_import":
					name := file.Text(parser.FirstNamedChild(part))
					bindings = append(bindings, ImportBinding{Name: name, Imported: "*", Source: source, Namespace: true, Statement: stmt})
				case "named_imports":
					for _, spec := range parser.NamedChildren(part) {
						if spec.Type() != "import_specifier" {
							continue
						}
						imported := file.Text(parser.Field(spec, "name"))
						name := imported
						if alias := parser.Field(spec, "alias"); alias != nil {
							name = file.Text(alias)
						}
						bindings = append(bindings, ImportBinding{Name: name, Imported: imported, Source: source, Statement: stmt})
					}
				}
			}
		}
	}
	return bindings
}

// IsComponentImported 모듈에서 import 하는지 (import 선언 스캔)
func IsComponentImported(file *parser.ParsedFile, moduleName string) bool {
	if !file.HasTree() {
		return false
	}
	for _, stmt := range parser.NamedChildren(file.Root) {
		if stmt.Type() != "import_statement" {
			continue
		}
		if source, ok := file.StringValue(parser.Field(stmt, "source")); ok && source == moduleName {
			return true
		}
	}
	return false
}

// HasImportBinding 바인딩 이름이 import 되었는지
func HasImportBinding(file *parser.ParsedFile, name string) bool {
	for _, b := range Imports(file) {
		if b.Name == name {
			return true
		}
	}
	return false
}

// 식별자 경계 검색 헬퍼

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// findIdentifier from 이후 앞뒤가 식별자 문자가 아닌 name의 위치. 없으면 -1.
func findIdentifier(s, name string, from int) int {
	if name == "" {
		return -1
	}
	for i := from; i <= len(s)-len(name); {
		j := strings.Index(s[i:], name)
		if j < 0 {
			return -1
		}
		at := i + j
		end := at + len(name)
		if (at == 0 || !isIdentByte(s[at-1])) && (end == len(s) || !isIdentByte(s[end])) {
			return at
		}
		i = at + 1
	}
	return -1
}

// hasIdentifierPrefix s가 독립된 식별자 name으로 시작하는지
func hasIdentifierPrefix(s, name string) bool {
	return name != "" && strings.HasPrefix(s, name) && (len(s) == len(name) || !isIdentByte(s[len(name)]))
}

// 라인 스캔 헬퍼

type lineMatch struct {
	Line   int
	Offset int
	Text   string
	Groups []string
}

// scanLines 각 라인에서 정규식의 모든 매치를 찾는다
func scanLines(file *parser.ParsedFile, re *regexp.Regexp) []lineMatch {
	var matches []lineMatch
	for i, line := range file.Lines {
		for _, loc := range re.FindAllStringSubmatchIndex(line, -1) {
			groups := make([]string, 0, len(loc)/2)
			for g := 0; g+1 < len(loc); g += 2 {
				if loc[g] < 0 {
					groups = append(groups, "")
					continue
				}
				groups = append(groups, line[loc[g]:loc[g+1]])
			}
			matches = append(matches, lineMatch{
				Line:   i + 1,
				Offset: file.LineOffset(i+1) + loc[0],
				Text:   line,
				Groups: groups,
			})
		}
	}
	return matches
}

// isCommentLine 한 줄 주석 라인 여부
func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*")
}

// isComponentFile 컴포넌트 형태 함수가 하나라도 있는지
func isComponentFile(file *parser.ParsedFile) bool {
	if !file.HasTree() {
		return false
	}
	for _, n := range file.Nodes {
		if file.IsComponentLike(n) {
			return true
		}
	}
	return false
}

// isSourceFile 구문 트리를 가진 소스 파일인지
func isSourceFile(file *parser.ParsedFile) bool {
	return file.HasTree() && file.Kind.Has(parser.KindSource)
}

// isProductionSource 테스트/설정 파일이 아닌 소스인지
func isProductionSource(file *parser.ParsedFile) bool {
	return isSourceFile(file) && !file.Kind.Has(parser.KindTest) && !file.Kind.Has(parser.KindToolConfig)
}

// capitalized 대문자로 시작하는 이름 (컴포넌트 명명 규칙)
func capitalized(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// truncate 메시지용 텍스트 자르기
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// runChecks 교차 검사기의 하위 검사들을 순서대로 실행
func runChecks(file *parser.ParsedFile, checks ...func(*parser.ParsedFile) []types.Issue) []types.Issue {
	var issues []types.Issue
	for _, check := range checks {
		issues = append(issues, check(file)...)
	}
	return issues
}
