package rules

import (
	"fmt"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

func testingRules(_ *config.Config) []Rule {
	return []Rule{
		NewTestStructureRule(),
		NewConsoleErrorRule(),
		NewDebuggerRule(),
	}
}

// TestStructureRule 테스트 파일에 describe/it/test 블록이 있는지 검사
type TestStructureRule struct {
	Base
}

func NewTestStructureRule() Rule {
	return &TestStructureRule{Base: newBase("test-structure", "Test structure", 6, CategoryTesting,
		"Test files must contain at least one test group or test case")}
}

var testConstructs = map[string]bool{"describe": true, "it": true, "test": true}

func (r *TestStructureRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) || !file.Kind.Has(parser.KindTest) {
		return nil
	}
	for _, call := range file.NodesOfType("call_expression") {
		fn := parser.Field(call, "function")
		// describe.each(...)(...), it.only(...) 형태도 포함
		for fn != nil && (fn.Type() == "member_expression" || fn.Type() == "call_expression") {
			if fn.Type() == "member_expression" {
				fn = parser.Field(fn, "object")
			} else {
				fn = parser.Field(fn, "function")
			}
		}
		if fn != nil && testConstructs[file.Text(fn)] {
			return nil
		}
	}
	return []types.Issue{r.CreateIssueAtLine(file, 1, 1, "empty-test-file", config.SeverityWarning,
		"Test file contains no describe/it/test blocks",
		IssueOptions{Fixable: true, Suggestion: "Add test cases or remove the file",
			Example: "describe('Component', () => { it('renders', () => { ... }) })"})}
}

// ConsoleErrorRule 프로덕션 코드의 console.error/warn 검사
type ConsoleErrorRule struct {
	Base
}

func NewConsoleErrorRule() Rule {
	return &ConsoleErrorRule{Base: newBase("console-error", "Console error output", 6, CategoryTesting,
		"console.error and console.warn in production code should go through error reporting")}
}

func (r *ConsoleErrorRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isProductionSource(file) {
		return nil
	}
	var issues []types.Issue
	for _, call := range file.NodesOfType("call_expression") {
		method, ok := consoleMethod(file, call)
		if !ok || (method != "error" && method != "warn") {
			continue
		}
		issues = append(issues, r.CreateIssue(file, call, "console-error-statement", config.SeverityInfo,
			fmt.Sprintf("console.%s in production code", method),
			IssueOptions{Fixable: true, Suggestion: "Report through an error tracking service or logger"}))
	}
	return issues
}

// DebuggerRule debugger 문 검사
type DebuggerRule struct {
	Base
}

func NewDebuggerRule() Rule {
	return &DebuggerRule{Base: newBase("debugger", "Debugger statements", 6, CategoryTesting,
		"debugger statements halt execution when devtools are open")}
}

func (r *DebuggerRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	var issues []types.Issue
	for _, stmt := range file.NodesOfType("debugger_statement") {
		issues = append(issues, r.CreateIssue(file, stmt, "debugger-statement", config.SeverityError,
			"debugger statement found",
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Remove the debugger statement",
				Example: "debugger; → (removed)"}))
	}
	return issues
}
