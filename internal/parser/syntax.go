package parser

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

var hookNameRegex = regexp.MustCompile(`^use[A-Z0-9]`)

var functionTypes = map[string]bool{
	"function_declaration":           true,
	"function":                       true,
	"function_expression":            true,
	"arrow_function":                 true,
	"method_definition":              true,
	"generator_function_declaration": true,
	"generator_function":             true,
}

var jsxTypes = map[string]bool{
	"jsx_element":              true,
	"jsx_self_closing_element": true,
	"jsx_fragment":             true,
}

var jsxReturnTypes = []string{"JSX.Element", "ReactElement", "ReactNode", "React.JSX.Element"}

// IsFunction 함수 형태 노드 여부
func IsFunction(n *sitter.Node) bool {
	return !isNull(n) && functionTypes[n.Type()]
}

// IsJSX JSX 요소 노드 여부
func IsJSX(n *sitter.Node) bool {
	return !isNull(n) && jsxTypes[n.Type()]
}

// IsHookName use* 명명 규칙 여부
func IsHookName(name string) bool {
	return hookNameRegex.MatchString(name)
}

// CalleeName 호출 대상의 식별자 (멤버 접근이면 속성 이름)
func (f *ParsedFile) CalleeName(call *sitter.Node) string {
	fn := Field(call, "function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return f.Text(fn)
	case "member_expression":
		return f.Text(Field(fn, "property"))
	}
	return ""
}

// CalleeText 호출 대상 전체 텍스트 ("React.useState")
func (f *ParsedFile) CalleeText(call *sitter.Node) string {
	return f.Text(Field(call, "function"))
}

// IsHookCall use* 이름으로 호출하는지 (명명 규칙 기반 휴리스틱)
func (f *ParsedFile) IsHookCall(n *sitter.Node) bool {
	if isNull(n) || n.Type() != "call_expression" {
		return false
	}
	return IsHookName(f.CalleeName(n))
}

// CallArguments 호출 인자 노드들
func CallArguments(call *sitter.Node) []*sitter.Node {
	return NamedChildren(Field(call, "arguments"))
}

// FunctionBody 함수 본문
func FunctionBody(fn *sitter.Node) *sitter.Node {
	return Field(fn, "body")
}

// FunctionParameters 함수 파라미터 노드들
func FunctionParameters(fn *sitter.Node) []*sitter.Node {
	if p := Field(fn, "parameter"); p != nil {
		return []*sitter.Node{p}
	}
	var params []*sitter.Node
	for _, c := range NamedChildren(Field(fn, "parameters")) {
		if c.Type() != "comment" {
			params = append(params, c)
		}
	}
	return params
}

// FunctionName 함수 이름. 익명이면 대입 대상이나 감싼 호출의 선언 이름을 사용.
func (f *ParsedFile) FunctionName(fn *sitter.Node) string {
	if name := Field(fn, "name"); name != nil {
		return f.Text(name)
	}
	for p := f.Parent(fn); p != nil; p = f.Parent(p) {
		switch p.Type() {
		case "variable_declarator":
			return f.Text(Field(p, "name"))
		case "pair":
			return f.Text(Field(p, "key"))
		case "assignment_expression":
			return f.Text(Field(p, "left"))
		case "call_expression", "arguments", "parenthesized_expression", "as_expression":
			continue
		}
		break
	}
	return "anonymous"
}

// ContainsDirectJSX 중첩 함수 안을 제외하고 JSX 자손이 있는지
func (f *ParsedFile) ContainsDirectJSX(root *sitter.Node) bool {
	found := false
	f.Walk(root, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if IsJSX(n) {
			found = true
			return false
		}
		if !SameNode(n, root) && IsFunction(n) {
			return false
		}
		return true
	})
	return found
}

// IsComponentLike 함수 형태이고 JSX를 직접 반환하거나 JSX 반환 타입을 선언했는지
func (f *ParsedFile) IsComponentLike(n *sitter.Node) bool {
	if !IsFunction(n) {
		return false
	}
	if rt := Field(n, "return_type"); rt != nil {
		text := f.Text(rt)
		for _, t := range jsxReturnTypes {
			if strings.Contains(text, t) {
				return true
			}
		}
	}
	body := FunctionBody(n)
	if body == nil {
		return false
	}
	return f.ContainsDirectJSX(body)
}

// Components 컴포넌트 형태의 함수 노드들 (전위 순서). 첫 호출 결과를 재사용한다.
func (f *ParsedFile) Components() []*sitter.Node {
	if !f.compDone {
		f.components = f.FindNodes(f.IsComponentLike)
		f.compDone = true
	}
	return f.components
}

// ElementName JSX 요소 태그 이름 (fragment는 빈 문자열)
func (f *ParsedFile) ElementName(el *sitter.Node) string {
	switch el.Type() {
	case "jsx_element":
		return f.ElementName(Field(el, "open_tag"))
	case "jsx_opening_element", "jsx_self_closing_element":
		if name := Field(el, "name"); name != nil {
			return f.Text(name)
		}
	}
	return ""
}

// OpeningElement 속성을 가진 태그 노드 (jsx_opening_element 또는 self-closing)
func OpeningElement(el *sitter.Node) *sitter.Node {
	if isNull(el) {
		return nil
	}
	switch el.Type() {
	case "jsx_element":
		return Field(el, "open_tag")
	case "jsx_opening_element", "jsx_self_closing_element":
		return el
	}
	return nil
}

// StringValue 문자열 리터럴에서 따옴표 제거
func (f *ParsedFile) StringValue(n *sitter.Node) (string, bool) {
	if isNull(n) || n.Type() != "string" {
		return "", false
	}
	text := f.Text(n)
	if len(text) >= 2 {
		text = text[1 : len(text)-1]
	}
	return text, true
}
