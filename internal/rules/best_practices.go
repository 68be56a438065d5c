package rules

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

// BestPracticesRule 훅 규칙과 상태 관리 관례 검사기
type BestPracticesRule struct {
	Base
}

func NewBestPracticesRule() Rule {
	return &BestPracticesRule{Base: newBase("best-practices", "Best practices", 3, CategoryBestPractices,
		"Rules of hooks, effect dependencies, stable keys and immutable state")}
}

func (r *BestPracticesRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	return runChecks(file,
		r.checkHookCalls,
		r.checkDependencyArrays,
		r.checkIndexKeys,
		r.checkStateMutation,
	)
}

// checkHookCalls 조건부 호출, 컴포넌트/커스텀 훅 밖 호출
func (r *BestPracticesRule) checkHookCalls(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, call := range file.NodesOfType("call_expression") {
		if !file.IsHookCall(call) {
			continue
		}
		hook := file.CalleeName(call)
		if IsInsideConditional(file, call) {
			issues = append(issues, r.CreateIssue(file, call, "conditional-hook", config.SeverityError,
				fmt.Sprintf("%s is called conditionally", hook),
				IssueOptions{Fixable: true, Suggestion: "Call hooks unconditionally at the top level of the component"}))
			continue
		}
		if file.Kind.Has(parser.KindTest) {
			continue
		}
		owner := "module scope"
		if fn := file.EnclosingFunction(call); fn != nil {
			if isHookOwner(file, fn) {
				continue
			}
			owner = file.FunctionName(fn)
		}
		issues = append(issues, r.CreateIssue(file, call, "invalid-hook-call", config.SeverityError,
			fmt.Sprintf("%s is called from %s, not a component or custom hook", hook, owner),
			IssueOptions{Fixable: true, Suggestion: "Only call hooks from components or functions named use*"}))
	}
	return issues
}

// componentWrappers 인자로 받은 함수를 컴포넌트로 만드는 호출
var componentWrappers = map[string]bool{"forwardRef": true, "memo": true}

// isHookOwner 컴포넌트 이름, use* 이름, JSX 반환, forwardRef/memo 인자 중 하나면 훅을 호출할 수 있다
func isHookOwner(file *parser.ParsedFile, fn *sitter.Node) bool {
	name := file.FunctionName(fn)
	if capitalized(name) || parser.IsHookName(name) || file.IsComponentLike(fn) {
		return true
	}
	args := file.Parent(fn)
	if args == nil || args.Type() != "arguments" {
		return false
	}
	call := file.Parent(args)
	return call != nil && componentWrappers[file.CalleeName(call)]
}

var dependencyHooks = map[string]bool{
	"useEffect":       true,
	"useLayoutEffect": true,
	"useCallback":     true,
	"useMemo":         true,
}

// checkDependencyArrays 의존성 배열 없는 이펙트/메모
func (r *BestPracticesRule) checkDependencyArrays(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, call := range file.NodesOfType("call_expression") {
		hook := file.CalleeName(call)
		if !dependencyHooks[hook] || len(parser.CallArguments(call)) != 1 {
			continue
		}
		issues = append(issues, r.CreateIssue(file, call, "missing-effect-deps", config.SeverityWarning,
			fmt.Sprintf("%s has no dependency array and runs on every render", hook),
			IssueOptions{Fixable: true, Suggestion: "Pass a dependency array listing the values the callback reads",
				Example: fmt.Sprintf("%s(() => { ... }) → %s(() => { ... }, [dep])", hook, hook)}))
	}
	return issues
}

// checkIndexKeys map 콜백의 인덱스 파라미터를 key로 사용
func (r *BestPracticesRule) checkIndexKeys(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, attr := range file.NodesOfType("jsx_attribute") {
		if AttributeName(file, attr) != "key" {
			continue
		}
		value := AttributeValueNode(attr)
		if value == nil || value.Type() != "jsx_expression" {
			continue
		}
		id := unwrapExpression(parser.FirstNamedChild(value))
		if id == nil || id.Type() != "identifier" {
			continue
		}
		callback := file.EnclosingFunction(attr)
		if callback == nil || !isMapCallback(file, callback) {
			continue
		}
		params := parser.FunctionParameters(callback)
		if len(params) < 2 || paramName(file, params[1]) != file.Text(id) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, attr, "index-as-key", config.SeverityWarning,
			"Array index used as key",
			IssueOptions{Fixable: true, Suggestion: "Use a stable identifier from the item as key",
				Example: fmt.Sprintf("key={%s} → key={item.id}", file.Text(id))}))
	}
	return issues
}

func isMapCallback(file *parser.ParsedFile, fn *sitter.Node) bool {
	args := file.Parent(fn)
	if args == nil || args.Type() != "arguments" {
		return false
	}
	call := file.Parent(args)
	return call != nil && isMapCall(file, call)
}

// paramName TS의 required_parameter 래퍼를 벗긴 파라미터 이름
func paramName(file *parser.ParsedFile, param *sitter.Node) string {
	if p := parser.Field(param, "pattern"); p != nil {
		return file.Text(p)
	}
	return file.Text(param)
}

var arrayMutators = map[string]bool{
	"push":       true,
	"pop":        true,
	"shift":      true,
	"unshift":    true,
	"splice":     true,
	"sort":       true,
	"reverse":    true,
	"fill":       true,
	"copyWithin": true,
}

// checkStateMutation useState 값을 직접 변경
func (r *BestPracticesRule) checkStateMutation(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, decl := range file.NodesOfType("variable_declarator") {
		value := parser.Field(decl, "value")
		pattern := parser.Field(decl, "name")
		if value == nil || pattern == nil || value.Type() != "call_expression" || file.CalleeName(value) != "useState" || pattern.Type() != "array_pattern" {
			continue
		}
		elems := parser.NamedChildren(pattern)
		if len(elems) == 0 || elems[0].Type() != "identifier" {
			continue
		}
		state := file.Text(elems[0])
		setter := ""
		if len(elems) > 1 {
			setter = file.Text(elems[1])
		}
		scope := file.EnclosingFunction(decl)
		if scope == nil {
			continue
		}
		file.Walk(parser.FunctionBody(scope), func(n *sitter.Node) bool {
			mutation := r.stateMutation(file, n, state)
			if mutation == "" {
				return true
			}
			suggestion := "Create a new value and pass it to the state setter"
			if setter != "" {
				suggestion = fmt.Sprintf("Create a new value and call %s", setter)
			}
			issues = append(issues, r.CreateIssue(file, n, "state-mutation", config.SeverityError,
				fmt.Sprintf("State %s is mutated directly (%s)", state, mutation),
				IssueOptions{Fixable: true, Suggestion: suggestion,
					Example: fmt.Sprintf("%s.push(x) → %s([...%s, x])", state, setterOr(setter), state)}))
			return true
		})
	}
	return issues
}

func setterOr(setter string) string {
	if setter == "" {
		return "setState"
	}
	return setter
}

// stateMutation 노드가 state를 변경하면 변경 방식을 반환
func (r *BestPracticesRule) stateMutation(file *parser.ParsedFile, n *sitter.Node, state string) string {
	switch n.Type() {
	case "call_expression":
		fn := parser.Field(n, "function")
		if fn == nil || fn.Type() != "member_expression" || file.Text(parser.Field(fn, "object")) != state {
			return ""
		}
		if method := file.Text(parser.Field(fn, "property")); arrayMutators[method] {
			return "." + method + "()"
		}
	case "assignment_expression", "augmented_assignment_expression":
		left := parser.Field(n, "left")
		if left == nil || (left.Type() != "member_expression" && left.Type() != "subscript_expression") {
			return ""
		}
		if file.Text(parser.Field(left, "object")) == state {
			return "assignment"
		}
	}
	return ""
}
