package rules

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

// ModernizationRule 레거시 패턴 마이그레이션 검사기
type ModernizationRule struct {
	Base
}

func NewModernizationRule() Rule {
	return &ModernizationRule{Base: newBase("modernization", "Modern patterns", 6, CategoryModernization,
		"Class components, deprecated APIs, string refs, explicit any and untyped components")}
}

func (r *ModernizationRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	return runChecks(file,
		r.checkClassComponents,
		r.checkDeprecatedAPIs,
		r.checkStringRefs,
		r.checkExplicitAny,
		r.checkReturnTypes,
	)
}

// checkClassComponents Component/PureComponent 상속 클래스
func (r *ModernizationRule) checkClassComponents(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, class := range file.NodesOfType("class_declaration", "class") {
		var heritage *sitter.Node
		for i := 0; i < int(class.ChildCount()); i++ {
			if c := class.Child(i); c != nil && c.Type() == "class_heritage" {
				heritage = c
				break
			}
		}
		if heritage == nil || !strings.Contains(file.Text(heritage), "Component") {
			continue
		}
		name := file.Text(parser.Field(class, "name"))
		if name == "" {
			name = "anonymous"
		}
		issues = append(issues, r.CreateIssue(file, class, "legacy-class-component", config.SeverityWarning,
			fmt.Sprintf("%s is a class component", name),
			IssueOptions{Fixable: true, Suggestion: "Convert to a function component with hooks",
				Example: fmt.Sprintf("class %s extends Component → function %s(props)", name, name)}))
	}
	return issues
}

var deprecatedAPIs = []struct {
	callee      string
	replacement string
}{
	{"createFactory", "use JSX or createElement"},
	{"findDOMNode", "attach a ref to the element"},
	{"ReactDOM.render", "use createRoot(container).render(element)"},
	{"ReactDOM.hydrate", "use hydrateRoot(container, element)"},
	{"ReactDOM.unmountComponentAtNode", "use root.unmount()"},
}

// checkDeprecatedAPIs 팩토리/DOM 조회/레거시 렌더 API 호출
func (r *ModernizationRule) checkDeprecatedAPIs(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, call := range file.NodesOfType("call_expression") {
		calleeText := file.CalleeText(call)
		calleeName := file.CalleeName(call)
		for _, api := range deprecatedAPIs {
			if calleeText != api.callee && (strings.Contains(api.callee, ".") || calleeName != api.callee) {
				continue
			}
			issues = append(issues, r.CreateIssue(file, call, "deprecated-api", config.SeverityWarning,
				fmt.Sprintf("%s is deprecated", calleeText),
				IssueOptions{Fixable: true, Suggestion: api.replacement}))
			break
		}
	}
	return issues
}

// checkStringRefs ref="name" 문자열 ref
func (r *ModernizationRule) checkStringRefs(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, attr := range file.NodesOfType("jsx_attribute") {
		if AttributeName(file, attr) != "ref" {
			continue
		}
		value, ok := file.StringValue(AttributeValueNode(attr))
		if !ok {
			continue
		}
		issues = append(issues, r.CreateIssue(file, attr, "string-ref", config.SeverityWarning,
			fmt.Sprintf("String ref %q is a legacy API", value),
			IssueOptions{Fixable: true, Suggestion: "Use useRef or createRef",
				Example: fmt.Sprintf(`ref="%s" → ref={%sRef}`, value, value)}))
	}
	return issues
}

// checkExplicitAny 타입 위치의 any (as any 단언은 Layer 2가 담당)
func (r *ModernizationRule) checkExplicitAny(file *parser.ParsedFile) []types.Issue {
	if !file.IsTypeScript() {
		return nil
	}
	var issues []types.Issue
	for _, n := range file.NodesOfType("predefined_type") {
		if file.Text(n) != "any" {
			continue
		}
		if p := file.Parent(n); p != nil && p.Type() == "as_expression" {
			continue
		}
		issues = append(issues, r.CreateIssue(file, n, "explicit-any", config.SeverityWarning,
			"Type annotated as any",
			IssueOptions{Fixable: true, Suggestion: "Use a specific type or unknown"}))
	}
	return issues
}

// checkReturnTypes 반환 타입이 없는 이름 있는 컴포넌트 (TS만)
func (r *ModernizationRule) checkReturnTypes(file *parser.ParsedFile) []types.Issue {
	if !file.IsTypeScript() {
		return nil
	}
	var issues []types.Issue
	for _, comp := range file.Components() {
		name := file.FunctionName(comp)
		if !capitalized(name) || parser.Field(comp, "return_type") != nil {
			continue
		}
		// const Button: FC<Props> = (...) => ...
		if d := file.Parent(comp); d != nil && d.Type() == "variable_declarator" && parser.Field(d, "type") != nil {
			continue
		}
		issues = append(issues, r.CreateIssue(file, comp, "missing-return-type", config.SeverityInfo,
			fmt.Sprintf("Component %s has no explicit return type", name),
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Annotate the return type as JSX.Element",
				Example: fmt.Sprintf("function %s(props) → function %s(props): JSX.Element", name, name)}))
	}
	return issues
}
