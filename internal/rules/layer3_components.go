package rules

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

func componentRules(_ *config.Config) []Rule {
	return []Rule{
		NewActionVariantRule(),
		NewFieldTypeRule(),
		NewPropsInterfaceRule(),
		NewForwardRefDisplayNameRule(),
	}
}

// jsxElements 속성을 가질 수 있는 JSX 요소 (jsx_element, self-closing)
func jsxElements(file *parser.ParsedFile) []*sitter.Node {
	return file.NodesOfType("jsx_element", "jsx_self_closing_element")
}

// ActionVariantRule Button 요소의 variant prop 누락 검사
type ActionVariantRule struct {
	Base
}

func NewActionVariantRule() Rule {
	return &ActionVariantRule{Base: newBase("action-variant", "Action variant", 3, CategoryComponents,
		"Design-system action elements should declare their visual variant")}
}

func (r *ActionVariantRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isComponentFile(file) {
		return nil
	}
	var issues []types.Issue
	for _, el := range jsxElements(file) {
		if file.ElementName(el) != "Button" || HasAttribute(file, el, "variant") || HasSpreadAttribute(el) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, el, "missing-variant", config.SeverityWarning,
			"<Button> is missing a variant prop",
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: `Add variant="default" (or the intended variant)`,
				Example: `<Button> → <Button variant="default">`}))
	}
	return issues
}

// FieldTypeRule input 요소의 type 속성 누락 검사
type FieldTypeRule struct {
	Base
}

func NewFieldTypeRule() Rule {
	return &FieldTypeRule{Base: newBase("field-type", "Field type", 3, CategoryComponents,
		"Input fields should declare their type")}
}

func (r *FieldTypeRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isComponentFile(file) {
		return nil
	}
	var issues []types.Issue
	for _, el := range jsxElements(file) {
		name := file.ElementName(el)
		if (name != "input" && name != "Input") || HasAttribute(file, el, "type") || HasSpreadAttribute(el) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, el, "missing-input-type", config.SeverityWarning,
			fmt.Sprintf("<%s> is missing a type attribute", name),
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: `Add type="text" (or the intended input type)`,
				Example: fmt.Sprintf(`<%s /> → <%s type="text" />`, name, name)}))
	}
	return issues
}

// PropsInterfaceRule *Props 인터페이스가 DOM 속성 타입을 확장하는지 검사
type PropsInterfaceRule struct {
	Base
}

func NewPropsInterfaceRule() Rule {
	return &PropsInterfaceRule{Base: newBase("props-interface", "Props interface", 3, CategoryComponents,
		"Props interfaces should extend the matching HTML attributes type")}
}

func (r *PropsInterfaceRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isComponentFile(file) || !file.IsTypeScript() {
		return nil
	}
	var issues []types.Issue
	for _, decl := range file.NodesOfType("interface_declaration") {
		name := file.Text(parser.Field(decl, "name"))
		if !strings.HasSuffix(name, "Props") || hasExtendsClause(decl) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, decl, "props-missing-html-attributes", config.SeverityInfo,
			fmt.Sprintf("%s does not extend an HTML attributes type", name),
			IssueOptions{Fixable: true, Suggestion: "Extend React.HTMLAttributes<HTMLElement> (or the specific element attributes)",
				Example: fmt.Sprintf("interface %s → interface %s extends React.HTMLAttributes<HTMLDivElement>", name, name)}))
	}
	return issues
}

func hasExtendsClause(decl *sitter.Node) bool {
	for i := 0; i < int(decl.ChildCount()); i++ {
		if c := decl.Child(i); c != nil && (c.Type() == "extends_type_clause" || c.Type() == "extends_clause") {
			return true
		}
	}
	return false
}

// hasDisplayName "name.displayName =" 대입이 있는지
func hasDisplayName(content, name string) bool {
	for i := findIdentifier(content, name, 0); i >= 0; i = findIdentifier(content, name, i+1) {
		rest := content[i+len(name):]
		if strings.HasPrefix(rest, ".displayName") && strings.HasPrefix(strings.TrimLeft(rest[len(".displayName"):], " \t\r\n"), "=") {
			return true
		}
	}
	return false
}

// ForwardRefDisplayNameRule forwardRef 컴포넌트의 displayName 누락 검사
type ForwardRefDisplayNameRule struct {
	Base
}

func NewForwardRefDisplayNameRule() Rule {
	return &ForwardRefDisplayNameRule{Base: newBase("forward-ref-display-name", "forwardRef display name", 3, CategoryComponents,
		"Components created with forwardRef should set displayName for debugging")}
}

func (r *ForwardRefDisplayNameRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isComponentFile(file) {
		return nil
	}
	var issues []types.Issue
	for _, call := range file.NodesOfType("call_expression") {
		if file.CalleeName(call) != "forwardRef" {
			continue
		}
		declarator := file.Ancestor(call, func(a *sitter.Node) bool { return a.Type() == "variable_declarator" })
		if declarator == nil {
			continue
		}
		name := file.Text(parser.Field(declarator, "name"))
		if hasDisplayName(file.Content, name) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, call, "missing-display-name", config.SeverityWarning,
			fmt.Sprintf("forwardRef component %s has no displayName", name),
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: fmt.Sprintf("Set %s.displayName after the declaration", name),
				Example: fmt.Sprintf(`%s.displayName = "%s";`, name, name)}))
	}
	return issues
}
