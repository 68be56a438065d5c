package rules

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

func routingRules(_ *config.Config) []Rule {
	return []Rule{
		NewDirectivePlacementRule(),
		NewClientBoundaryRule(),
		NewDefaultExportRule(),
	}
}

var boundaryDirectives = map[string]bool{"use client": true, "use server": true}

type directive struct {
	value string
	node  *sitter.Node
	// index 주석과 import 를 제외한 최상위 문장 중 위치
	index int
}

// directives 파일 최상위의 'use client' / 'use server' 문자열 문장
func directives(file *parser.ParsedFile) []directive {
	var found []directive
	index := 0
	for _, stmt := range parser.NamedChildren(file.Root) {
		switch stmt.Type() {
		case "comment", "import_statement":
			continue
		}
		if stmt.Type() == "expression_statement" {
			if value, ok := file.StringValue(parser.FirstNamedChild(stmt)); ok && boundaryDirectives[value] {
				found = append(found, directive{value: value, node: stmt, index: index})
			}
		}
		index++
	}
	return found
}

func hasDirective(file *parser.ParsedFile, value string) bool {
	for _, d := range directives(file) {
		if d.value == value {
			return true
		}
	}
	return false
}

// DirectivePlacementRule 경계 지시문이 첫 문장인지 검사
type DirectivePlacementRule struct {
	Base
}

func NewDirectivePlacementRule() Rule {
	return &DirectivePlacementRule{Base: newBase("directive-placement", "Directive placement", 5, CategoryRouting,
		"Boundary directives only take effect as the first statement of a module")}
}

func (r *DirectivePlacementRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	var issues []types.Issue
	for _, d := range directives(file) {
		if d.index == 0 {
			continue
		}
		issues = append(issues, r.CreateIssue(file, d.node, "misplaced-directive", config.SeverityError,
			fmt.Sprintf(`"%s" must be the first statement in the file`, d.value),
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Move the directive above all other code",
				Example: fmt.Sprintf(`"%s"; // first line, before imports`, d.value)}))
	}
	return issues
}

// ClientBoundaryRule app 라우터 파일의 클라이언트 경계 검사
type ClientBoundaryRule struct {
	Base
}

func NewClientBoundaryRule() Rule {
	return &ClientBoundaryRule{Base: newBase("client-boundary", "Client boundary", 5, CategoryRouting,
		"Files using client-only features need a client directive, and client files cannot export metadata")}
}

var statefulHooks = map[string]bool{
	"useState":        true,
	"useReducer":      true,
	"useEffect":       true,
	"useLayoutEffect": true,
	"useRef":          true,
	"useContext":      true,
}

var eventHandlerRegex = regexp.MustCompile(`^on[A-Z]`)

func (r *ClientBoundaryRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) || !file.Kind.Has(parser.KindAppRouter) {
		return nil
	}
	var issues []types.Issue
	isClient := hasDirective(file, "use client")

	if !isClient && !hasDirective(file, "use server") {
		if feature, node := r.clientFeature(file); node != nil {
			issues = append(issues, r.CreateIssue(file, node, "missing-client-directive", config.SeverityError,
				fmt.Sprintf(`%s requires a "use client" directive in this file`, feature),
				IssueOptions{Fixable: true, AutoFixable: true, Suggestion: `Add "use client" as the first line`,
					Example: `"use client";`}))
		}
	}

	if isClient {
		for _, exp := range parser.NamedChildren(file.Root) {
			if exp.Type() != "export_statement" {
				continue
			}
			text := file.Text(exp)
			if !strings.Contains(text, "metadata") && !strings.Contains(text, "generateMetadata") {
				continue
			}
			for _, name := range exportedNames(file, exp) {
				if name != "metadata" && name != "generateMetadata" {
					continue
				}
				issues = append(issues, r.CreateIssue(file, exp, "client-metadata-export", config.SeverityError,
					fmt.Sprintf("%s cannot be exported from a client component", name),
					IssueOptions{Fixable: true, Suggestion: "Move the metadata export into a server layout or page"}))
			}
		}
	}
	return issues
}

// clientFeature 클라이언트 전용 훅 호출 또는 JSX 이벤트 핸들러
func (r *ClientBoundaryRule) clientFeature(file *parser.ParsedFile) (string, *sitter.Node) {
	for _, n := range file.Nodes {
		switch n.Type() {
		case "call_expression":
			if name := file.CalleeName(n); statefulHooks[name] {
				return name, n
			}
		case "jsx_attribute":
			name := AttributeName(file, n)
			value := AttributeValueNode(n)
			if eventHandlerRegex.MatchString(name) && value != nil && value.Type() == "jsx_expression" {
				return name + " handler", n
			}
		}
	}
	return "", nil
}

// exportedNames export 문이 선언하는 이름들
func exportedNames(file *parser.ParsedFile, exp *sitter.Node) []string {
	var names []string
	file.Walk(exp, func(n *sitter.Node) bool {
		switch n.Type() {
		case "function_declaration", "variable_declarator":
			names = append(names, file.Text(parser.Field(n, "name")))
			return false
		case "export_specifier":
			name := parser.Field(n, "alias")
			if name == nil {
				name = parser.Field(n, "name")
			}
			names = append(names, file.Text(name))
			return false
		}
		return true
	})
	return names
}

// DefaultExportRule 라우트 엔트리 파일의 default export 검사
type DefaultExportRule struct {
	Base
}

func NewDefaultExportRule() Rule {
	return &DefaultExportRule{Base: newBase("default-export", "Route default export", 5, CategoryRouting,
		"Route entry files must default-export their component")}
}

func (r *DefaultExportRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) || !file.Kind.Has(parser.KindRouteEntry) {
		return nil
	}
	for _, exp := range parser.NamedChildren(file.Root) {
		if exp.Type() != "export_statement" {
			continue
		}
		if hasDefaultKeyword(exp) || strings.Contains(file.Text(exp), "as default") {
			return nil
		}
	}
	return []types.Issue{r.CreateIssueAtLine(file, 1, 1, "missing-default-export", config.SeverityError,
		"Route entry file has no default export",
		IssueOptions{Fixable: true, Suggestion: "Export the route component as the default export",
			Example: "export default function Page() { ... }"})}
}

func hasDefaultKeyword(exp *sitter.Node) bool {
	for i := 0; i < int(exp.ChildCount()); i++ {
		if c := exp.Child(i); c != nil && c.Type() == "default" {
			return true
		}
	}
	return false
}
