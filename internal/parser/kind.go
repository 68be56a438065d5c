package parser

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind 파일 종류 플래그
type Kind uint16

const (
	KindSource Kind = 1 << iota
	KindJSON
	KindTSConfig
	KindPackageManifest
	KindFrameworkConfig
	KindToolConfig
	KindTest
	KindRouteEntry
	KindAppRouter
)

// Has 플래그 포함 여부
func (k Kind) Has(flag Kind) bool {
	return k&flag != 0
}

var (
	testPatterns = []string{
		"**/*.{test,spec}.{js,jsx,ts,tsx,mjs,cjs}",
		"**/__tests__/**",
	}
	routeEntryPatterns = []string{
		"**/app/**/{page,layout,template,not-found,default}.{js,jsx,ts,tsx}",
		"**/pages/**/*.{js,jsx,ts,tsx}",
	}
	appRouterPatterns = []string{
		"**/app/**/*.{js,jsx,ts,tsx}",
	}
)

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Classify 파일명(경로)으로 파일 종류 판별
func Classify(fileName string) Kind {
	name := filepath.ToSlash(fileName)
	base := strings.ToLower(filepath.Base(name))
	var kind Kind

	if strings.HasSuffix(base, ".json") {
		kind |= KindJSON
		switch {
		case base == "package.json":
			kind |= KindPackageManifest
		case strings.HasPrefix(base, "tsconfig") || strings.HasPrefix(base, "jsconfig"):
			kind |= KindTSConfig
		}
		return kind
	}

	if _, ok := DialectFor(name); ok {
		kind |= KindSource
	}
	if strings.Contains(base, ".config.") {
		kind |= KindToolConfig
		if strings.HasPrefix(base, "next.config.") {
			kind |= KindFrameworkConfig
		}
		return kind
	}

	if matchAny(testPatterns, name) {
		kind |= KindTest
		return kind
	}
	if matchAny(routeEntryPatterns, name) {
		kind |= KindRouteEntry
	}
	if matchAny(appRouterPatterns, name) {
		kind |= KindAppRouter
	}
	return kind
}
