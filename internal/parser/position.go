package parser

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

// Position 1부터 시작하는 라인/컬럼. 컬럼은 문자(rune) 단위.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func computeLineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// PositionOf 바이트 오프셋을 라인/컬럼으로 변환
func (f *ParsedFile) PositionOf(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	if f.lineStarts == nil {
		f.lineStarts = computeLineStarts(f.Content)
	}
	line := sort.Search(len(f.lineStarts), func(i int) bool { return f.lineStarts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	start := f.lineStarts[line]
	return Position{
		Line:   line + 1,
		Column: utf8.RuneCountInString(f.Content[start:offset]) + 1,
	}
}

// LineOffset 라인(1부터)의 시작 바이트 오프셋
func (f *ParsedFile) LineOffset(line int) int {
	if f.lineStarts == nil {
		f.lineStarts = computeLineStarts(f.Content)
	}
	if line <= 1 {
		return 0
	}
	if line > len(f.lineStarts) {
		return len(f.Content)
	}
	return f.lineStarts[line-1]
}

// Offset 노드 시작 바이트 오프셋
func Offset(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	off, err := safecast.Conv[int](n.StartByte())
	if err != nil {
		return 0
	}
	return off
}

// EndOffset 노드 끝 바이트 오프셋
func EndOffset(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	off, err := safecast.Conv[int](n.EndByte())
	if err != nil {
		return 0
	}
	return off
}

// LineSpan 노드가 차지하는 라인 수
func (f *ParsedFile) LineSpan(n *sitter.Node) int {
	start := f.PositionOf(Offset(n)).Line
	end := f.PositionOf(EndOffset(n)).Line
	return end - start + 1
}
