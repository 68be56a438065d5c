package rules

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/zeebo/blake3"

	"component-quality-checker/internal/parser"
)

// 여러 레이어와 교차 검사기가 공유하는 트리 메트릭

var branchTypes = map[string]bool{
	"if_statement":       true,
	"ternary_expression": true,
	"switch_statement":   true,
	"switch_case":        true,
	"for_statement":      true,
	"for_in_statement":   true,
	"while_statement":    true,
	"do_statement":       true,
	"catch_clause":       true,
}

// cyclomatic 기본값 1에서 분기마다 1씩 증가. strict면 &&, || 도 센다.
func cyclomatic(file *parser.ParsedFile, fn *sitter.Node, strict bool) int {
	complexity := 1
	file.Walk(parser.FunctionBody(fn), func(n *sitter.Node) bool {
		if branchTypes[n.Type()] {
			complexity++
		}
		if strict && n.Type() == "binary_expression" {
			if op := parser.Field(n, "operator"); op != nil && (op.Type() == "&&" || op.Type() == "||") {
				complexity++
			}
		}
		return true
	})
	return complexity
}

var nestingTypes = map[string]bool{
	"if_statement":     true,
	"for_statement":    true,
	"for_in_statement": true,
	"while_statement":  true,
	"do_statement":     true,
	"switch_statement": true,
	"try_statement":    true,
}

// nestingDepth 제어 흐름 구문으로 내려갈 때만 깊이가 증가한다.
// else if 체인은 같은 깊이로 본다.
func nestingDepth(file *parser.ParsedFile, root *sitter.Node) (int, *sitter.Node) {
	maxDepth := 0
	var deepest *sitter.Node
	depths := make(map[*sitter.Node]int)
	file.Walk(root, func(n *sitter.Node) bool {
		depth := 0
		if !parser.SameNode(n, root) {
			depth = depths[file.Parent(n)]
		}
		if nestingTypes[n.Type()] && !isElseIf(file, n) {
			depth++
			if depth > maxDepth {
				maxDepth = depth
				deepest = n
			}
		}
		depths[n] = depth
		return true
	})
	return maxDepth, deepest
}

func isElseIf(file *parser.ParsedFile, n *sitter.Node) bool {
	if n.Type() != "if_statement" {
		return false
	}
	p := file.Parent(n)
	return p != nil && p.Type() == "else_clause"
}

var (
	lineCommentRegex  = regexp.MustCompile(`(?m)//.*$`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// normalizeBody 주석과 공백을 제거한 본문 텍스트
func normalizeBody(body string) string {
	body = blockCommentRegex.ReplaceAllString(body, "")
	body = lineCommentRegex.ReplaceAllString(body, "")
	return strings.Join(strings.Fields(body), "")
}

type duplicateBody struct {
	fn       *sitter.Node
	original *sitter.Node
}

// duplicateFunctions 정규화된 본문이 같은 함수 쌍. minChars 이하는 무시.
func duplicateFunctions(file *parser.ParsedFile, minChars int) []duplicateBody {
	seen := make(map[[32]byte]*sitter.Node)
	var duplicates []duplicateBody
	for _, fn := range file.FindNodes(parser.IsFunction) {
		body := parser.FunctionBody(fn)
		if body == nil || body.Type() != "statement_block" {
			continue
		}
		normalized := normalizeBody(file.Text(body))
		if len(normalized) <= minChars {
			continue
		}
		key := blake3.Sum256([]byte(normalized))
		if first, ok := seen[key]; ok {
			duplicates = append(duplicates, duplicateBody{fn: fn, original: first})
			continue
		}
		seen[key] = fn
	}
	return duplicates
}

// unusedImports import 문 범위를 제외한 본문에서 바인딩 이름이 한 번도 나오지 않는 import
func unusedImports(file *parser.ParsedFile) []ImportBinding {
	bindings := Imports(file)
	if len(bindings) == 0 {
		return nil
	}
	body := []byte(file.Content)
	for _, stmt := range parser.NamedChildren(file.Root) {
		if stmt.Type() != "import_statement" {
			continue
		}
		for i := parser.Offset(stmt); i < parser.EndOffset(stmt) && i < len(body); i++ {
			if body[i] != '\n' {
				body[i] = ' '
			}
		}
	}
	usesJSX := false
	for _, n := range file.Nodes {
		if parser.IsJSX(n) {
			usesJSX = true
			break
		}
	}

	text := string(body)
	var unused []ImportBinding
	for _, b := range bindings {
		if b.Name == "" {
			continue
		}
		// 클래식 JSX 런타임은 React를 암묵적으로 사용한다
		if b.Name == "React" && usesJSX {
			continue
		}
		if findIdentifier(text, b.Name, 0) < 0 {
			unused = append(unused, b)
		}
	}
	return unused
}

// unusedImportMessage Layer 2와 성능 검사기가 같은 ID를 만들도록 공유
func unusedImportMessage(b ImportBinding) string {
	return "'" + b.Name + "' is imported from '" + b.Source + "' but never used"
}

// isMapCall xs.map(...) 호출 여부
func isMapCall(file *parser.ParsedFile, n *sitter.Node) bool {
	if n.Type() != "call_expression" {
		return false
	}
	fn := parser.Field(n, "function")
	return fn != nil && fn.Type() == "member_expression" && file.Text(parser.Field(fn, "property")) == "map"
}

// unwrapExpression 괄호/as 식을 벗겨낸다
func unwrapExpression(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
			n = parser.FirstNamedChild(n)
		default:
			return n
		}
	}
	return nil
}

// jsxOutcomes 식이 만들어낼 수 있는 JSX 노드 (삼항/논리식 분기 포함)
func jsxOutcomes(expr *sitter.Node) []*sitter.Node {
	expr = unwrapExpression(expr)
	if expr == nil {
		return nil
	}
	switch {
	case parser.IsJSX(expr):
		return []*sitter.Node{expr}
	case expr.Type() == "ternary_expression":
		return append(jsxOutcomes(parser.Field(expr, "consequence")), jsxOutcomes(parser.Field(expr, "alternative"))...)
	case expr.Type() == "binary_expression":
		return jsxOutcomes(parser.Field(expr, "right"))
	}
	return nil
}

// returnedJSX 함수가 직접 반환하는 JSX 노드 (중첩 함수 제외)
func returnedJSX(file *parser.ParsedFile, fn *sitter.Node) []*sitter.Node {
	body := parser.FunctionBody(fn)
	if body == nil {
		return nil
	}
	if body.Type() != "statement_block" {
		return jsxOutcomes(body)
	}
	var out []*sitter.Node
	file.Walk(body, func(n *sitter.Node) bool {
		if !parser.SameNode(n, body) && parser.IsFunction(n) {
			return false
		}
		if n.Type() == "return_statement" {
			out = append(out, jsxOutcomes(parser.FirstNamedChild(n))...)
			return false
		}
		return true
	})
	return out
}

// componentProps 컴포넌트의 첫 번째 파라미터에서 구조 분해된 prop 이름들.
// 구조 분해가 아니면 props.x 접근으로 추정한다.
func componentProps(file *parser.ParsedFile, fn *sitter.Node) []string {
	params := parser.FunctionParameters(fn)
	if len(params) == 0 {
		return nil
	}
	first := params[0]
	if p := parser.Field(first, "pattern"); p != nil {
		first = p
	}
	var names []string
	switch first.Type() {
	case "object_pattern":
		for _, c := range parser.NamedChildren(first) {
			switch c.Type() {
			case "shorthand_property_identifier_pattern":
				names = append(names, file.Text(c))
			case "pair_pattern":
				names = append(names, file.Text(parser.Field(c, "key")))
			case "object_assignment_pattern":
				names = append(names, file.Text(parser.Field(c, "left")))
			case "rest_pattern":
				names = append(names, "..."+file.Text(parser.FirstNamedChild(c)))
			}
		}
	case "identifier":
		param := file.Text(first)
		seen := map[string]bool{}
		file.Walk(parser.FunctionBody(fn), func(n *sitter.Node) bool {
			if n.Type() == "member_expression" && file.Text(parser.Field(n, "object")) == param {
				prop := file.Text(parser.Field(n, "property"))
				if !seen[prop] {
					seen[prop] = true
					names = append(names, prop)
				}
			}
			return true
		})
		if len(names) == 0 {
			names = append(names, param)
		}
	}
	return names
}
