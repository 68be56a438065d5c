package rules

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

// AccessibilityRule 접근성 검사기
type AccessibilityRule struct {
	Base
}

func NewAccessibilityRule() Rule {
	return &AccessibilityRule{Base: newBase("accessibility", "Accessibility", 3, CategoryAccessibility,
		"Alternative text, roles, keyboard access, contrast review and semantic elements")}
}

func (r *AccessibilityRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) || !file.AllowsJSX() {
		return nil
	}
	return runChecks(file,
		r.checkAltText,
		r.checkClickableElements,
		r.checkColorContrast,
		r.checkAccessibleName,
	)
}

var imageElements = map[string]bool{"img": true, "Image": true, "area": true}

// checkAltText 이미지 요소의 alt 누락
func (r *AccessibilityRule) checkAltText(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, el := range jsxElements(file) {
		name := file.ElementName(el)
		isImageInput := false
		if name == "input" {
			kind, _ := AttributeValue(file, el, "type")
			isImageInput = kind == "image"
		}
		if !imageElements[name] && !isImageInput {
			continue
		}
		if HasAttribute(file, el, "alt") || HasSpreadAttribute(el) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, el, "missing-alt-text", config.SeverityError,
			fmt.Sprintf("<%s> is missing alt text", name),
			IssueOptions{Fixable: true, Suggestion: `Describe the image with alt, or use alt="" for decorative images`,
				Example: fmt.Sprintf(`<%s src={src} /> → <%s src={src} alt="Product photo" />`, name, name)}))
	}
	return issues
}

var nonSemanticElements = map[string]bool{"div": true, "span": true, "li": true, "p": true, "section": true, "article": true, "td": true}

var keyboardHandlers = []string{"onKeyDown", "onKeyUp", "onKeyPress"}

// checkClickableElements 클릭 가능한 비시맨틱 요소의 role/키보드/tabIndex 누락
func (r *AccessibilityRule) checkClickableElements(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, el := range jsxElements(file) {
		name := file.ElementName(el)
		if !nonSemanticElements[name] || !HasAttribute(file, el, "onClick") || HasSpreadAttribute(el) {
			continue
		}
		hasRole := HasAttribute(file, el, "role")
		if !hasRole && !HasAttribute(file, el, "aria-label") && !HasAttribute(file, el, "aria-labelledby") {
			issues = append(issues, r.CreateIssue(file, el, "missing-role", config.SeverityWarning,
				fmt.Sprintf("Clickable <%s> has no role or accessible label", name),
				IssueOptions{Fixable: true, AutoFixable: true, Suggestion: `Add role="button" and an accessible label`}))
		}
		hasKeyboard := false
		for _, handler := range keyboardHandlers {
			if HasAttribute(file, el, handler) {
				hasKeyboard = true
				break
			}
		}
		if !hasKeyboard {
			issues = append(issues, r.CreateIssue(file, el, "missing-keyboard-handler", config.SeverityWarning,
				fmt.Sprintf("Clickable <%s> cannot be activated from the keyboard", name),
				IssueOptions{Fixable: true, Suggestion: "Add onKeyDown handling Enter and Space"}))
		}
		if !HasAttribute(file, el, "tabIndex") {
			issues = append(issues, r.CreateIssue(file, el, "missing-tabindex", config.SeverityWarning,
				fmt.Sprintf("Clickable <%s> is not focusable", name),
				IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Add tabIndex={0}"}))
		}
		if name == "div" || name == "span" {
			issues = append(issues, r.CreateIssue(file, el, "use-semantic-element", config.SeverityInfo,
				fmt.Sprintf("Clickable <%s> should be a <button>", name),
				IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Use a <button> element for click actions",
					Example: fmt.Sprintf("<%s onClick={...}> → <button type=\"button\" onClick={...}>", name)}))
		}
	}
	return issues
}

// checkColorContrast 인라인 color/background 스타일 (수동 대비 검토)
func (r *AccessibilityRule) checkColorContrast(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, attr := range file.NodesOfType("jsx_attribute") {
		if AttributeName(file, attr) != "style" {
			continue
		}
		value := AttributeValueNode(attr)
		if value == nil {
			continue
		}
		object := unwrapExpression(parser.FirstNamedChild(value))
		if object == nil || object.Type() != "object" {
			continue
		}
		for _, pair := range parser.NamedChildren(object) {
			if pair.Type() != "pair" {
				continue
			}
			key := propertyKey(file, pair)
			if key != "color" && key != "background" && key != "backgroundColor" {
				continue
			}
			issues = append(issues, r.CreateIssue(file, attr, "color-contrast-review", config.SeverityInfo,
				"Inline colors need a manual contrast review",
				IssueOptions{Suggestion: "Verify a contrast ratio of at least 4.5:1, or use design tokens"}))
			break
		}
	}
	return issues
}

// checkAccessibleName 텍스트 없는 button/a 요소
func (r *AccessibilityRule) checkAccessibleName(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, el := range jsxElements(file) {
		name := file.ElementName(el)
		if name != "button" && name != "a" {
			continue
		}
		if HasAttribute(file, el, "aria-label") || HasAttribute(file, el, "aria-labelledby") || HasAttribute(file, el, "title") || HasSpreadAttribute(el) {
			continue
		}
		if hasTextContent(file, el) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, el, "missing-accessible-name", config.SeverityWarning,
			fmt.Sprintf("<%s> has no text or aria-label", name),
			IssueOptions{Fixable: true, Suggestion: "Add visible text or an aria-label"}))
	}
	return issues
}

// hasTextContent 자식에 텍스트나 식 컨테이너가 있는지 (self-closing은 false)
func hasTextContent(file *parser.ParsedFile, el *sitter.Node) bool {
	if el.Type() != "jsx_element" {
		return false
	}
	found := false
	for _, c := range parser.NamedChildren(el) {
		switch c.Type() {
		case "jsx_text":
			if strings.TrimSpace(file.Text(c)) != "" {
				found = true
			}
		case "jsx_expression":
			found = true
		case "jsx_element":
			// <span>Label</span> 같은 중첩 텍스트
			if hasTextContent(file, c) {
				found = true
			}
		}
	}
	return found
}
