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

// SecurityRule 보안 취약 패턴 검사기
type SecurityRule struct {
	Base
}

func NewSecurityRule() Rule {
	return &SecurityRule{Base: newBase("security", "Security", 2, CategorySecurity,
		"XSS sinks, code execution, secrets, unsafe URLs, injection and weak randomness")}
}

func (r *SecurityRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	return runChecks(file,
		r.checkRawHTML,
		r.checkInnerHTMLAssignment,
		r.checkCodeExecution,
		r.checkHardcodedSecrets,
		r.checkUnsafeURLs,
		r.checkSQLInjection,
		r.checkInsecureRandomness,
		r.checkFileUpload,
	)
}

var sanitizerNames = []string{"DOMPurify", "sanitize", "purify", "escapeHtml", "xss("}

func isSanitized(text string) bool {
	for _, name := range sanitizerNames {
		if strings.Contains(text, name) {
			return true
		}
	}
	return false
}

// checkRawHTML dangerouslySetInnerHTML / insertAdjacentHTML 에 새니타이저가 없는 경우
func (r *SecurityRule) checkRawHTML(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, n := range file.NodesOfType("jsx_attribute", "call_expression") {
		var value, name string
		switch n.Type() {
		case "jsx_attribute":
			if AttributeName(file, n) != "dangerouslySetInnerHTML" {
				continue
			}
			name = "dangerouslySetInnerHTML"
			value = file.Text(AttributeValueNode(n))
		case "call_expression":
			if file.CalleeName(n) != "insertAdjacentHTML" {
				continue
			}
			name = "insertAdjacentHTML"
			value = file.Text(parser.Field(n, "arguments"))
		}
		if isSanitized(value) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, n, "unsafe-inner-html", config.SeverityError,
			fmt.Sprintf("%s receives unsanitized HTML", name),
			IssueOptions{Fixable: true, Suggestion: "Sanitize the markup (e.g. DOMPurify.sanitize) before injecting it",
				Example: "{ __html: html } → { __html: DOMPurify.sanitize(html) }"}))
	}
	return issues
}

// checkInnerHTMLAssignment el.innerHTML = ... 직접 할당
func (r *SecurityRule) checkInnerHTMLAssignment(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, n := range file.NodesOfType("assignment_expression", "augmented_assignment_expression") {
		left := parser.Field(n, "left")
		if left == nil || left.Type() != "member_expression" {
			continue
		}
		prop := file.Text(parser.Field(left, "property"))
		if prop != "innerHTML" && prop != "outerHTML" {
			continue
		}
		if isSanitized(file.Text(parser.Field(n, "right"))) {
			continue
		}
		object := file.Text(parser.Field(left, "object"))
		issues = append(issues, r.CreateIssue(file, n, "direct-inner-html", config.SeverityWarning,
			fmt.Sprintf("Direct %s assignment can inject markup", prop),
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Assign to textContent for plain text",
				Example: fmt.Sprintf("%s.%s = value → %s.textContent = value", object, prop, object)}))
	}
	return issues
}

// checkCodeExecution eval / new Function / 문자열 타이머
func (r *SecurityRule) checkCodeExecution(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, n := range file.NodesOfType("call_expression", "new_expression") {
		var primitive string
		switch n.Type() {
		case "call_expression":
			callee := parser.Field(n, "function")
			if callee != nil && callee.Type() == "identifier" && file.Text(callee) == "eval" {
				primitive = "eval"
				break
			}
			name := file.CalleeName(n)
			if name == "setTimeout" || name == "setInterval" {
				if args := parser.CallArguments(n); len(args) > 0 && (args[0].Type() == "string" || args[0].Type() == "template_string") {
					primitive = name + " with a string"
				}
			}
		case "new_expression":
			if file.Text(parser.Field(n, "constructor")) == "Function" {
				primitive = "new Function"
			}
		}
		if primitive == "" {
			continue
		}
		issues = append(issues, r.CreateIssue(file, n, "eval-usage", config.SeverityError,
			fmt.Sprintf("%s executes arbitrary code", primitive),
			IssueOptions{Fixable: true, Suggestion: "Replace dynamic evaluation with explicit logic or JSON.parse"}))
	}
	return issues
}

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b[\w]*(api[_-]?key|secret|password|passwd|token|access[_-]?key|private[_-]?key|client[_-]?secret)[\w]*\b["']?\s*[:=]\s*["'][^"'\s]{8,}["']`),
	regexp.MustCompile(`\b(?:mongodb(?:\+srv)?|postgres(?:ql)?|mysql|redis|amqp|mssql)://[^\s:'"/]+:[^\s@'"]+@`),
	regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
	regexp.MustCompile(`\b(?:sk|pk)_(?:live|test)_[0-9a-zA-Z]{16,}\b`),
	regexp.MustCompile(`\bgh[pousr]_[0-9A-Za-z]{36}\b`),
}

// checkHardcodedSecrets 라인 단위 비밀값 검사 (라인당 최대 1건)
func (r *SecurityRule) checkHardcodedSecrets(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for i, line := range file.Lines {
		if isCommentLine(line) || strings.Contains(line, "process.env") {
			continue
		}
		for _, re := range secretPatterns {
			loc := re.FindStringIndex(line)
			if loc == nil {
				continue
			}
			issues = append(issues, r.CreateIssueAt(file, file.LineOffset(i+1)+loc[0], "hardcoded-secret", config.SeverityError,
				"Possible hardcoded secret or credential",
				IssueOptions{Fixable: true, Suggestion: "Load the value from environment variables or a secret manager"}))
			break
		}
	}
	return issues
}

// checkUnsafeURLs javascript: / data:text/html 문자열
func (r *SecurityRule) checkUnsafeURLs(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, n := range file.NodesOfType("string", "template_string") {
		text := strings.ToLower(strings.TrimSpace(strings.Trim(file.Text(n), "\"'`")))
		var scheme string
		switch {
		case strings.HasPrefix(text, "javascript:"):
			scheme = "javascript:"
		case strings.HasPrefix(text, "data:text/html"):
			scheme = "data:text/html"
		case strings.HasPrefix(text, "vbscript:"):
			scheme = "vbscript:"
		default:
			continue
		}
		issues = append(issues, r.CreateIssue(file, n, "unsafe-url", config.SeverityError,
			fmt.Sprintf("URL uses the script-executing %s scheme", scheme),
			IssueOptions{Fixable: true, Suggestion: "Use an event handler or a safe http(s) URL"}))
	}
	return issues
}

var sqlQueryRegex = regexp.MustCompile(`(?is)\b(select\s.+\sfrom|insert\s+into|update\s.+\sset|delete\s+from)\b`)

// checkSQLInjection 보간/연결로 조립되는 SQL 문자열
func (r *SecurityRule) checkSQLInjection(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, n := range file.NodesOfType("template_string", "binary_expression") {
		switch n.Type() {
		case "template_string":
			if !hasSubstitution(n) || !sqlQueryRegex.MatchString(file.Text(n)) {
				continue
			}
		case "binary_expression":
			op := parser.Field(n, "operator")
			left := parser.Field(n, "left")
			if op == nil || op.Type() != "+" || left == nil || left.Type() != "string" || !sqlQueryRegex.MatchString(file.Text(left)) {
				continue
			}
		}
		issues = append(issues, r.CreateIssue(file, n, "sql-injection-risk", config.SeverityError,
			"SQL query is built from interpolated values",
			IssueOptions{Fixable: true, Suggestion: "Use parameterized queries or a query builder",
				Example: "`SELECT * FROM users WHERE id = ${id}` → query('SELECT * FROM users WHERE id = $1', [id])"}))
	}
	return issues
}

func hasSubstitution(tmpl *sitter.Node) bool {
	for _, c := range parser.NamedChildren(tmpl) {
		if c.Type() == "template_substitution" {
			return true
		}
	}
	return false
}

var sensitiveKeywordRegex = regexp.MustCompile(`(?i)token|key|password|secret|auth|session|nonce`)

// checkInsecureRandomness 보안 문맥의 Math.random
func (r *SecurityRule) checkInsecureRandomness(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, call := range file.NodesOfType("call_expression") {
		if file.CalleeText(call) != "Math.random" {
			continue
		}
		stmt := file.Ancestor(call, func(a *sitter.Node) bool {
			t := a.Type()
			return strings.HasSuffix(t, "statement") || strings.HasSuffix(t, "declaration") || t == "pair"
		})
		if stmt == nil || !sensitiveKeywordRegex.MatchString(file.Text(stmt)) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, call, "insecure-randomness", config.SeverityWarning,
			"Math.random is not cryptographically secure for security-sensitive values",
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Use crypto.getRandomValues or crypto.randomUUID",
				Example: "Math.random() → crypto.getRandomValues(new Uint32Array(1))[0]"}))
	}
	return issues
}

var (
	uploadCalleeRegex    = regexp.MustCompile(`(?i)^upload`)
	uploadValidatorRegex = regexp.MustCompile(`(?i)validat|\.size\b|\.type\b|mime|accept|allowed`)
)

// checkFileUpload 검증 없는 파일 업로드 (accept 없는 file input, 검증 없는 upload 호출)
func (r *SecurityRule) checkFileUpload(file *parser.ParsedFile) []types.Issue {
	var issues []types.Issue
	for _, el := range jsxElements(file) {
		if file.ElementName(el) != "input" {
			continue
		}
		if kind, ok := AttributeValue(file, el, "type"); !ok || kind != "file" || HasAttribute(file, el, "accept") {
			continue
		}
		issues = append(issues, r.CreateIssue(file, el, "unvalidated-file-upload", config.SeverityWarning,
			"File input does not restrict accepted types",
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Add an accept attribute and validate size/type before upload",
				Example: `<input type="file" /> → <input type="file" accept="image/png,image/jpeg" />`}))
	}
	for _, call := range file.NodesOfType("call_expression") {
		if !uploadCalleeRegex.MatchString(file.CalleeName(call)) {
			continue
		}
		scope := file.EnclosingFunction(call)
		if scope == nil {
			scope = file.Root
		}
		if uploadValidatorRegex.MatchString(file.Text(scope)) {
			continue
		}
		issues = append(issues, r.CreateIssue(file, call, "unvalidated-file-upload", config.SeverityWarning,
			fmt.Sprintf("%s is called without validating the file", file.CalleeName(call)),
			IssueOptions{Fixable: true, Suggestion: "Check file size and MIME type before uploading"}))
	}
	return issues
}
