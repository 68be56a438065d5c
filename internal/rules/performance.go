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

// PerformanceRule 렌더링/번들 성능 검사기
type PerformanceRule struct {
	Base
	thresholds    config.Thresholds
	unusedImports Rule
}

func NewPerformanceRule(thresholds config.Thresholds) Rule {
	return &PerformanceRule{
		Base:          newBase("performance", "Performance", 4, CategoryPerformance, "Bundle weight, re-render churn, effect leaks and hot-path computation"),
		thresholds:    thresholds,
		unusedImports: NewUnusedImportRule(CategoryPerformance, 4),
	}
}

func (r *PerformanceRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	return runChecks(file,
		r.checkImports,
		r.checkMemoization,
		r.checkInlineProps,
		r.checkPropDrilling,
		r.unusedImports.Check,
		r.checkExpensiveComputation,
		r.checkEffectCleanup,
	)
}

var heavyLibraries = map[string]string{
	"lodash":              "import { debounce } from 'lodash-es' or 'lodash/debounce'",
	"moment":              "use date-fns or dayjs",
	"rxjs":                "import only the operators you use",
	"@mui/material":       "import { Button } from '@mui/material/Button'",
	"@mui/icons-material": "import Delete from '@mui/icons-material/Delete'",
	"antd":                "import Button from 'antd/es/button'",
	"date-fns":            "import { format } from 'date-fns'",
	"ramda":               "import only the functions you use",
	"react-icons":         "import from a specific icon set path",
	"aws-sdk":             "use the modular @aws-sdk/client-* packages",
	"firebase":            "import from the modular firebase/* entry points",
	"three":               "import only the classes you use",
}

// namespace import를 허용하는 관용적 모듈
var namespaceImportAllowed = map[string]bool{"react": true, "react-dom": true}

// checkImports 무거운 라이브러리 default/namespace import, 일반 namespace import
func (r *PerformanceRule) checkImports(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, b := range Imports(file) {
		hint, heavy := heavyLibraries[b.Source]
		switch {
		case heavy && (b.Default || b.Namespace):
			issues = append(issues, r.CreateIssue(file, b.Statement, "heavy-import", config.SeverityWarning,
				fmt.Sprintf("Whole-library import of %s increases bundle size", b.Source),
				IssueOptions{Fixable: true, Suggestion: "Use named or path imports: " + hint}))
		case b.Namespace && !namespaceImportAllowed[b.Source]:
			issues = append(issues, r.CreateIssue(file, b.Statement, "namespace-import", config.SeverityInfo,
				fmt.Sprintf("Namespace import of %s prevents tree shaking", b.Source),
				IssueOptions{Fixable: true, Suggestion: "Import only the named bindings you use",
					Example: fmt.Sprintf("import * as %s from '%s' → import { used } from '%s'", b.Name, b.Source, b.Source)}))
		}
	}
	return issues
}

// namedComponents 이름이 대문자로 시작하는 컴포넌트 함수
func namedComponents(file *parser.ParsedFile) []*sitter.Node {
	var comps []*sitter.Node
	for _, fn := range file.Components() {
		if capitalized(file.FunctionName(fn)) {
			comps = append(comps, fn)
		}
	}
	return comps
}

// checkMemoization props가 많거나 .map 안에서 렌더되는데 memo로 감싸지 않은 컴포넌트
func (r *PerformanceRule) checkMemoization(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, comp := range namedComponents(file) {
		name := file.FunctionName(comp)
		props := componentProps(file, comp)
		if len(props) == 0 || isMemoized(file, comp, name) {
			continue
		}
		manyProps := len(props) > r.thresholds.MemoPropCount
		if !manyProps && !renderedInMap(file, name) {
			continue
		}
		reason := fmt.Sprintf("has %d props", len(props))
		if !manyProps {
			reason = "is rendered inside .map()"
		}
		issues = append(issues, r.CreateIssue(file, comp, "missing-memoization", config.SeverityInfo,
			fmt.Sprintf("Component %s %s and is not memoized", name, reason),
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Wrap the component with React.memo",
				Example: fmt.Sprintf("export default memo(%s)", name)}))
	}
	return issues
}

func isMemoized(file *parser.ParsedFile, comp *sitter.Node, name string) bool {
	wrapped := file.Ancestor(comp, func(a *sitter.Node) bool {
		return a.Type() == "call_expression" && file.CalleeName(a) == "memo"
	})
	if wrapped != nil {
		return true
	}
	content := file.Content
	for i := findIdentifier(content, "memo", 0); i >= 0; i = findIdentifier(content, "memo", i+1) {
		rest := content[i+len("memo"):]
		if strings.HasPrefix(rest, "(") && hasIdentifierPrefix(strings.TrimLeft(rest[1:], " \t\r\n"), name) {
			return true
		}
	}
	return false
}

// renderedInMap <Name ...>이 .map 콜백 안에서 렌더되는지
func renderedInMap(file *parser.ParsedFile, name string) bool {
	for _, el := range jsxElements(file) {
		if file.ElementName(el) != name {
			continue
		}
		call := file.Ancestor(el, func(a *sitter.Node) bool { return isMapCall(file, a) })
		if call != nil {
			return true
		}
	}
	return false
}

var inlineLiteralTypes = map[string]string{
	"object":              "object",
	"array":               "array",
	"arrow_function":      "function",
	"function":            "function",
	"function_expression": "function",
}

// checkInlineProps 렌더마다 새로 만들어지는 객체/배열/함수 리터럴 prop
func (r *PerformanceRule) checkInlineProps(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, attr := range file.NodesOfType("jsx_attribute") {
		value := AttributeValueNode(attr)
		if value == nil || value.Type() != "jsx_expression" {
			continue
		}
		literal := unwrapExpression(parser.FirstNamedChild(value))
		if literal == nil {
			continue
		}
		kind, ok := inlineLiteralTypes[literal.Type()]
		if !ok {
			continue
		}
		name := AttributeName(file, attr)
		issues = append(issues, r.CreateIssue(file, attr, "inline-jsx-prop", config.SeverityInfo,
			fmt.Sprintf("Inline %s passed to %s is recreated on every render", kind, name),
			IssueOptions{Fixable: true, Suggestion: "Hoist the value or memoize it with useMemo/useCallback"}))
	}
	return issues
}

// checkPropDrilling props가 많고 {...props} 전달이 잦은 컴포넌트
func (r *PerformanceRule) checkPropDrilling(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, comp := range namedComponents(file) {
		props := componentProps(file, comp)
		if len(props) <= r.thresholds.PropDrillingProps {
			continue
		}
		spreads := 0
		file.Walk(parser.FunctionBody(comp), func(n *sitter.Node) bool {
			if (n.Type() == "jsx_expression" || n.Type() == "jsx_spread_attribute") && IsSpreadAttribute(n) {
				spreads++
			}
			return true
		})
		if spreads <= r.thresholds.PropDrillingSpreads {
			continue
		}
		issues = append(issues, r.CreateIssue(file, comp, "prop-drilling", config.SeverityWarning,
			fmt.Sprintf("Component %s takes %d props and spreads props %d times", file.FunctionName(comp), len(props), spreads),
			IssueOptions{Fixable: true, Suggestion: "Use context or composition instead of passing props through layers"}))
	}
	return issues
}

var expensiveMethods = map[string]bool{"filter": true, "sort": true, "reduce": true, "find": true, "some": true, "every": true}

var memoWrappers = map[string]bool{"useMemo": true, "useCallback": true}

// checkExpensiveComputation 렌더 경로에서 직접 실행되는 배열 연산
func (r *PerformanceRule) checkExpensiveComputation(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, comp := range namedComponents(file) {
		file.Walk(parser.FunctionBody(comp), func(n *sitter.Node) bool {
			if parser.IsFunction(n) {
				return false
			}
			if n.Type() != "call_expression" {
				return true
			}
			if memoWrappers[file.CalleeName(n)] {
				return false
			}
			fn := parser.Field(n, "function")
			if fn == nil || fn.Type() != "member_expression" {
				return true
			}
			method := file.Text(parser.Field(fn, "property"))
			if !expensiveMethods[method] {
				return true
			}
			issues = append(issues, r.CreateIssue(file, n, "expensive-computation", config.SeverityInfo,
				fmt.Sprintf(".%s() runs on every render of %s", method, file.FunctionName(comp)),
				IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Wrap the computation in useMemo",
					Example: fmt.Sprintf("const result = useMemo(() => %s, [deps])", truncate(file.Text(n), 40))}))
			return true
		})
	}
	return issues
}

var (
	effectSetupRegex = regexp.MustCompile(`\b(addEventListener|setInterval|setTimeout|subscribe|observe|on)\s*\(`)
	effectHooks      = map[string]bool{"useEffect": true, "useLayoutEffect": true}
)

// checkEffectCleanup 리스너/타이머/구독을 등록하지만 cleanup을 반환하지 않는 이펙트
func (r *PerformanceRule) checkEffectCleanup(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, call := range file.NodesOfType("call_expression") {
		if !effectHooks[file.CalleeName(call)] {
			continue
		}
		args := parser.CallArguments(call)
		if len(args) == 0 || !parser.IsFunction(args[0]) {
			continue
		}
		body := parser.FunctionBody(args[0])
		m := effectSetupRegex.FindStringSubmatch(file.Text(body))
		if m == nil || returnsCleanup(file, body) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, call, "missing-effect-cleanup", config.SeverityError,
			fmt.Sprintf("Effect calls %s but returns no cleanup function", m[1]),
			IssueOptions{Fixable: true, Suggestion: "Return a cleanup function that removes the listener, timer or subscription",
				Example: "return () => window.removeEventListener('resize', onResize);"}))
	}
	return issues
}

// returnsCleanup 이펙트 본문이 함수를 반환하는지 (중첩 함수 제외)
func returnsCleanup(file *parser.ParsedFile, body *sitter.Node) bool {
	if body == nil || body.Type() != "statement_block" {
		return false
	}
	found := false
	file.Walk(body, func(n *sitter.Node) bool {
		if found || (!parser.SameNode(n, body) && parser.IsFunction(n)) {
			return false
		}
		if n.Type() == "return_statement" {
			if v := unwrapExpression(parser.FirstNamedChild(n)); v != nil && (parser.IsFunction(v) || v.Type() == "identifier" || v.Type() == "member_expression") {
				found = true
			}
			return false
		}
		return true
	})
	return found
}
