package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var (
	// ErrSyntax 구문 오류가 포함된 트리
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupported 지원하지 않는 확장자
	ErrUnsupported = errors.New("unsupported file type")
)

// DefaultMaxNodes 파일당 수집 노드 한도 기본값
const DefaultMaxNodes = 200000

// walkBudgetFactor 검사기 순회 예산 = 수집 노드 한도 x walkBudgetFactor
const walkBudgetFactor = 8

// Dialect 소스 방언
type Dialect string

const (
	DialectJavaScript Dialect = "javascript"
	DialectTypeScript Dialect = "typescript"
	DialectTSX        Dialect = "tsx"
	DialectJSON       Dialect = "json"
)

// SyntaxError 첫 번째 ERROR/MISSING 노드 위치
type SyntaxError struct {
	FileName string
	Pos      Position
	Near     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error near %q", e.FileName, e.Pos.Line, e.Pos.Column, e.Near)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// ParsedFile 파싱된 파일 정보. 파싱 이후 읽기 전용.
type ParsedFile struct {
	FileName string
	Content  string
	Source   []byte
	Lines    []string
	Kind     Kind
	Dialect  Dialect
	Tree     *sitter.Tree
	Root     *sitter.Node
	// Nodes 루트를 포함한 전위 순회 노드 목록 (방문 한도로 잘릴 수 있음)
	Nodes     []*sitter.Node
	Truncated bool

	lineStarts []int

	parents    map[*sitter.Node]*sitter.Node
	budget     int
	exhausted  bool
	components []*sitter.Node
	compDone   bool
}

// Parser 파일 파서
type Parser struct {
	maxNodes int
}

// New 새로운 파서 생성. maxNodes <= 0 이면 기본값 사용.
func New(maxNodes int) *Parser {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	return &Parser{maxNodes: maxNodes}
}

// Parse 기본 설정으로 파일 파싱
func Parse(fileName, content string) (*ParsedFile, error) {
	return New(DefaultMaxNodes).Parse(context.Background(), fileName, content)
}

// DialectFor 확장자로 방언 결정
func DialectFor(fileName string) (Dialect, bool) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return DialectJavaScript, true
	case ".tsx":
		return DialectTSX, true
	case ".ts", ".mts", ".cts":
		return DialectTypeScript, true
	case ".json":
		return DialectJSON, true
	default:
		return "", false
	}
}

func languageFor(d Dialect) *sitter.Language {
	switch d {
	case DialectTSX:
		return tsx.GetLanguage()
	case DialectTypeScript:
		return typescript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// Parse 파일 파싱. JSON 파일은 트리 없이 텍스트만 보관한다.
func (p *Parser) Parse(ctx context.Context, fileName, content string) (*ParsedFile, error) {
	dialect, ok := DialectFor(fileName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, fileName)
	}

	parsed := &ParsedFile{
		FileName: fileName,
		Content:  content,
		Source:   []byte(content),
		Lines:    strings.Split(content, "\n"),
		Kind:     Classify(fileName),
		Dialect:  dialect,
	}
	parsed.lineStarts = computeLineStarts(content)

	if dialect == DialectJSON {
		return parsed, nil
	}

	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(languageFor(dialect))

	tree, err := sp.ParseCtx(ctx, nil, parsed.Source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}
	parsed.Tree = tree
	parsed.Root = tree.RootNode()

	if parsed.Root.HasError() {
		synErr := parsed.syntaxError()
		tree.Close()
		return nil, synErr
	}

	parsed.budget = p.maxNodes * walkBudgetFactor
	parsed.collectNodes(p.maxNodes)
	return parsed, nil
}

// Close 트리 자원 해제
func (f *ParsedFile) Close() {
	if f != nil && f.Tree != nil {
		f.Tree.Close()
	}
}

// HasTree 구문 트리 보유 여부 (JSON 파일은 false)
func (f *ParsedFile) HasTree() bool {
	return f.Root != nil
}

func (f *ParsedFile) collectNodes(maxNodes int) {
	f.Nodes = make([]*sitter.Node, 0, 256)
	f.walk(f.Root, nil, func(n *sitter.Node) bool {
		if len(f.Nodes) >= maxNodes {
			f.Truncated = true
			return false
		}
		f.Nodes = append(f.Nodes, n)
		return true
	})
}

func (f *ParsedFile) syntaxError() error {
	var bad *sitter.Node
	Visit(f.Root, func(n *sitter.Node) bool {
		if bad != nil {
			return false
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			bad = n
			return false
		}
		return n.HasError()
	})
	synErr := &SyntaxError{FileName: f.FileName, Pos: Position{Line: 1, Column: 1}}
	if bad != nil {
		synErr.Pos = f.PositionOf(Offset(bad))
		near := bad.Content(f.Source)
		if len(near) > 40 {
			near = near[:40]
		}
		synErr.Near = near
	}
	return synErr
}

// Text 노드의 소스 텍스트
func (f *ParsedFile) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.Source)
}

// LineText 1부터 시작하는 라인 번호의 텍스트
func (f *ParsedFile) LineText(line int) string {
	if line <= 0 || line > len(f.Lines) {
		return ""
	}
	return f.Lines[line-1]
}

// FindNodes 조건을 만족하는 모든 노드 (전위 순서)
func (f *ParsedFile) FindNodes(pred func(n *sitter.Node) bool) []*sitter.Node {
	var found []*sitter.Node
	for _, n := range f.Nodes {
		if pred(n) {
			found = append(found, n)
		}
	}
	return found
}

// NodesOfType 주어진 타입의 노드들
func (f *ParsedFile) NodesOfType(nodeTypes ...string) []*sitter.Node {
	return f.FindNodes(func(n *sitter.Node) bool {
		t := n.Type()
		for _, want := range nodeTypes {
			if t == want {
				return true
			}
		}
		return false
	})
}

// IsTypeScript TS/TSX 방언 여부
func (f *ParsedFile) IsTypeScript() bool {
	return f.Dialect == DialectTypeScript || f.Dialect == DialectTSX
}

// AllowsJSX JSX 사용 가능 방언 여부
func (f *ParsedFile) AllowsJSX() bool {
	return f.Dialect == DialectJavaScript || f.Dialect == DialectTSX
}
