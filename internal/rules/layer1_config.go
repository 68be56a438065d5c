package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

func configurationRules(_ *config.Config) []Rule {
	return []Rule{
		NewJSONSyntaxRule(),
		NewTSConfigRule(),
		NewPackageManifestRule(),
		NewFrameworkConfigRule(),
		NewImportSetupRule(),
	}
}

// offsetOfKey JSON 키의 첫 위치 (없으면 0)
func offsetOfKey(content, key string) int {
	if idx := strings.Index(content, `"`+key+`"`); idx >= 0 {
		return idx
	}
	return 0
}

// JSONSyntaxRule 잘못된 JSON 검사. 오류가 있으면 이 파일의 다른 설정 검사는 건너뛴다.
type JSONSyntaxRule struct {
	Base
}

func NewJSONSyntaxRule() Rule {
	return &JSONSyntaxRule{Base: newBase("json-syntax", "Malformed JSON", 1, CategoryConfig,
		"JSON files must parse; a malformed file blocks every other check on it")}
}

func (r *JSONSyntaxRule) Check(file *parser.ParsedFile) []types.Issue {
	if !file.Kind.Has(parser.KindJSON) {
		return nil
	}
	_, offset, err := decodeJSON(file.Content, file.Kind.Has(parser.KindTSConfig))
	if err == nil {
		return nil
	}
	return []types.Issue{r.CreateIssueAt(file, offset, "invalid-json", config.SeverityError,
		"Malformed JSON: "+err.Error(),
		IssueOptions{Fixable: true, Suggestion: "Fix the JSON syntax so the file can be parsed"})}
}

// TSConfigRule tsconfig 컴파일러 옵션 검사
type TSConfigRule struct {
	Base
}

func NewTSConfigRule() Rule {
	return &TSConfigRule{Base: newBase("tsconfig", "Compiler configuration", 1, CategoryConfig,
		"Compiler options should enable strict checking, a modern target and path aliases")}
}

var outdatedTargets = map[string]bool{"es3": true, "es5": true, "es6": true, "es2015": true, "es2016": true}

var recommendedCompilerFlags = []string{"forceConsistentCasingInFileNames", "noFallthroughCasesInSwitch"}

func (r *TSConfigRule) Check(file *parser.ParsedFile) []types.Issue {
	if !file.Kind.Has(parser.KindTSConfig) {
		return nil
	}
	doc, _, err := decodeJSON(file.Content, true)
	if err != nil || doc == nil {
		return nil
	}

	var issues []types.Issue
	options := jsonObject(doc, "compilerOptions")
	_, extends := doc["extends"]
	optionsOffset := offsetOfKey(file.Content, "compilerOptions")

	strict, hasStrict := options["strict"].(bool)
	switch {
	case hasStrict && !strict:
		issues = append(issues, r.CreateIssueAt(file, offsetOfKey(file.Content, "strict"), "missing-strict-mode", config.SeverityError,
			"Strict mode is disabled in compilerOptions",
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: `Set "strict": true`, Example: `"strict": false → "strict": true`}))
	case !hasStrict && !extends:
		issues = append(issues, r.CreateIssueAt(file, optionsOffset, "missing-strict-mode", config.SeverityError,
			"compilerOptions does not enable strict mode",
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: `Add "strict": true to compilerOptions`}))
	}

	if !extends {
		for _, flag := range recommendedCompilerFlags {
			if _, ok := options[flag]; ok {
				continue
			}
			issues = append(issues, r.CreateIssueAt(file, optionsOffset, "missing-compiler-flag", config.SeverityInfo,
				fmt.Sprintf("compilerOptions is missing %q", flag),
				IssueOptions{Fixable: true, AutoFixable: true, Suggestion: fmt.Sprintf(`Add "%s": true`, flag)}))
		}
	}

	if target, ok := options["target"].(string); ok && outdatedTargets[strings.ToLower(target)] {
		issues = append(issues, r.CreateIssueAt(file, offsetOfKey(file.Content, "target"), "outdated-target", config.SeverityWarning,
			fmt.Sprintf("Compilation target %q is outdated", target),
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: `Use "target": "ES2020" or newer`,
				Example: fmt.Sprintf(`"target": "%s" → "target": "ES2020"`, target)}))
	}

	_, hasPaths := options["paths"]
	_, hasBaseURL := options["baseUrl"]
	if !hasPaths && !hasBaseURL && !extends {
		issues = append(issues, r.CreateIssueAt(file, optionsOffset, "missing-path-alias", config.SeverityInfo,
			"No path alias configuration (paths/baseUrl) found",
			IssueOptions{Fixable: true, Suggestion: `Add "paths": { "@/*": ["./src/*"] } to compilerOptions`}))
	}

	return issues
}

// PackageManifestRule package.json 스크립트/의존성 검사
type PackageManifestRule struct {
	Base
}

func NewPackageManifestRule() Rule {
	return &PackageManifestRule{Base: newBase("package-manifest", "Package manifest", 1, CategoryConfig,
		"The manifest should define the essential scripts and current major dependency versions")}
}

var essentialScripts = []string{"dev", "build", "start", "lint"}

var minimumMajors = []struct {
	name  string
	major int
}{
	{"react", 18},
	{"react-dom", 18},
	{"next", 13},
	{"typescript", 5},
	{"@types/react", 18},
	{"eslint", 8},
}

// majorVersion "^17.0.2" → 17 (문자열 접두사 휴리스틱)
func majorVersion(spec string) (int, bool) {
	spec = strings.TrimLeft(strings.TrimSpace(spec), "^~>=<v ")
	end := 0
	for end < len(spec) && spec[end] >= '0' && spec[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	major, err := strconv.Atoi(spec[:end])
	if err != nil {
		return 0, false
	}
	return major, true
}

func (r *PackageManifestRule) Check(file *parser.ParsedFile) []types.Issue {
	if !file.Kind.Has(parser.KindPackageManifest) {
		return nil
	}
	doc, _, err := decodeJSON(file.Content, false)
	if err != nil || doc == nil {
		return nil
	}

	var issues []types.Issue
	scripts := jsonObject(doc, "scripts")
	scriptsOffset := offsetOfKey(file.Content, "scripts")
	for _, name := range essentialScripts {
		if _, ok := scripts[name]; ok {
			continue
		}
		issues = append(issues, r.CreateIssueAt(file, scriptsOffset, "missing-script", config.SeverityWarning,
			fmt.Sprintf("Missing essential script %q", name),
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: fmt.Sprintf(`Add a "%s" entry to "scripts"`, name)}))
	}

	for _, section := range []string{"dependencies", "devDependencies"} {
		deps := jsonObject(doc, section)
		for _, dep := range minimumMajors {
			spec, ok := deps[dep.name].(string)
			if !ok {
				continue
			}
			major, ok := majorVersion(spec)
			if !ok || major >= dep.major {
				continue
			}
			issues = append(issues, r.CreateIssueAt(file, offsetOfKey(file.Content, dep.name), "outdated-dependency", config.SeverityWarning,
				fmt.Sprintf("%s %s is outdated (major %d < %d)", dep.name, spec, major, dep.major),
				IssueOptions{Fixable: true, Suggestion: fmt.Sprintf("Upgrade %s to ^%d or newer", dep.name, dep.major)}))
		}
	}
	return issues
}

// FrameworkConfigRule next.config.* 검사
type FrameworkConfigRule struct {
	Base
}

func NewFrameworkConfigRule() Rule {
	return &FrameworkConfigRule{Base: newBase("framework-config", "Framework configuration", 1, CategoryConfig,
		"Framework config must not carry deprecated experimental flags and should enable minification")}
}

var deprecatedExperimentalFlags = []struct {
	key    string
	reason string
}{
	{"appDir", "the app directory is stable and enabled by default"},
	{"serverActions", "server actions are stable and enabled by default"},
	{"serverComponentsExternalPackages", "use the top-level serverExternalPackages option"},
	{"fontLoaders", "use the built-in font package instead"},
	{"runtime", "set the runtime per route segment instead"},
	{"swcMinify", "minification is configured at the top level"},
}

func (r *FrameworkConfigRule) Check(file *parser.ParsedFile) []types.Issue {
	if !file.Kind.Has(parser.KindFrameworkConfig) || !file.HasTree() {
		return nil
	}
	var issues []types.Issue
	for _, pair := range file.NodesOfType("pair") {
		if propertyKey(file, pair) != "experimental" {
			continue
		}
		value := parser.Field(pair, "value")
		if value == nil || value.Type() != "object" {
			continue
		}
		for _, flagPair := range parser.NamedChildren(value) {
			if flagPair.Type() != "pair" {
				continue
			}
			key := propertyKey(file, flagPair)
			for _, flag := range deprecatedExperimentalFlags {
				if flag.key != key {
					continue
				}
				issues = append(issues, r.CreateIssue(file, flagPair, "deprecated-experimental-flag", config.SeverityWarning,
					fmt.Sprintf("experimental.%s is deprecated: %s", key, flag.reason),
					IssueOptions{Fixable: true, AutoFixable: true, Suggestion: fmt.Sprintf("Remove experimental.%s", key),
						Example: strings.TrimSpace(file.Text(flagPair)) + " → (removed)"}))
			}
		}
	}

	if !strings.Contains(file.Content, "swcMinify") && !strings.Contains(file.Content, "compress") {
		issues = append(issues, r.CreateIssueAtLine(file, 1, 1, "missing-minification", config.SeverityInfo,
			"Framework config does not configure minification",
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Enable compress: true in the framework config"}))
	}
	return issues
}

// propertyKey 객체 pair의 키 (따옴표 제거)
func propertyKey(file *parser.ParsedFile, pair *sitter.Node) string {
	key := parser.Field(pair, "key")
	if s, ok := file.StringValue(key); ok {
		return s
	}
	return file.Text(key)
}

// ImportSetupRule JSX/타입 API 사용 시 import 누락 검사
type ImportSetupRule struct {
	Base
}

func NewImportSetupRule() Rule {
	return &ImportSetupRule{Base: newBase("import-setup", "Critical imports", 1, CategoryConfig,
		"JSX needs the base library in scope and typed API names need their imports")}
}

var typedAPINames = map[string]bool{
	"FC":                       true,
	"ReactNode":                true,
	"ReactElement":             true,
	"ComponentProps":           true,
	"ComponentPropsWithoutRef": true,
	"PropsWithChildren":        true,
	"CSSProperties":            true,
	"ChangeEvent":              true,
	"FormEvent":                true,
	"Dispatch":                 true,
	"SetStateAction":           true,
	"RefObject":                true,
	"MutableRefObject":         true,
	"HTMLAttributes":           true,
	"ButtonHTMLAttributes":     true,
	"InputHTMLAttributes":      true,
}

var localTypeDeclRegex = regexp.MustCompile(`\b(?:interface|type|class|enum)\s+(\w+)`)

func (r *ImportSetupRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	var issues []types.Issue

	if file.AllowsJSX() && !IsComponentImported(file, "react") {
		for _, n := range file.Nodes {
			if !parser.IsJSX(n) {
				continue
			}
			issues = append(issues, r.CreateIssue(file, n, "missing-react-import", config.SeverityError,
				"JSX is used but react is not imported",
				IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Add import React from 'react'",
					Example: "import React from 'react';"}))
			break
		}
	}

	if file.IsTypeScript() {
		declared := map[string]bool{}
		for _, m := range localTypeDeclRegex.FindAllStringSubmatch(file.Content, -1) {
			declared[m[1]] = true
		}
		for _, b := range Imports(file) {
			declared[b.Name] = true
		}
		reported := map[string]bool{}
		for _, n := range file.NodesOfType("type_identifier") {
			name := file.Text(n)
			if !typedAPINames[name] || declared[name] || reported[name] {
				continue
			}
			if p := file.Parent(n); p != nil && p.Type() == "nested_type_identifier" {
				continue
			}
			reported[name] = true
			issues = append(issues, r.CreateIssue(file, n, "missing-type-import", config.SeverityError,
				fmt.Sprintf("Type %s is referenced without an import", name),
				IssueOptions{Fixable: true, AutoFixable: true,
					Suggestion: fmt.Sprintf("Add import type { %s } from 'react'", name),
					Example:    fmt.Sprintf("import type { %s } from 'react';", name)}))
		}
	}
	return issues
}
