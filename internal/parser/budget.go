package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// 검사기의 서브트리 순회와 조상 탐색은 파일당 하나의 방문 예산을 나눠 쓴다.
// 예산이 바닥나면 순회는 멈추고 조상 탐색은 nil을 반환한다.

type frame struct {
	node   *sitter.Node
	parent *sitter.Node
}

// walk 부모를 기록하며 전위 순회
func (f *ParsedFile) walk(node, parent *sitter.Node, visitor func(n *sitter.Node) bool) {
	if isNull(node) {
		return
	}
	if f.parents == nil {
		f.parents = make(map[*sitter.Node]*sitter.Node, 256)
	}
	stack := []frame{{node: node, parent: parent}}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := f.parents[fr.node]; !ok && fr.parent != nil {
			f.parents[fr.node] = fr.parent
		}
		if !visitor(fr.node) {
			continue
		}
		for i := int(fr.node.ChildCount()) - 1; i >= 0; i-- {
			if c := fr.node.Child(i); !isNull(c) {
				stack = append(stack, frame{node: c, parent: fr.node})
			}
		}
	}
}

func (f *ParsedFile) spend() bool {
	if f.budget <= 0 {
		f.exhausted = true
		return false
	}
	f.budget--
	return true
}

// BudgetExhausted 검사기 순회 예산을 모두 썼는지
func (f *ParsedFile) BudgetExhausted() bool {
	return f.exhausted
}

// Walk 예산 안에서 서브트리 전위 순회. visitor가 false를 반환하면 자식은 건너뛴다.
func (f *ParsedFile) Walk(node *sitter.Node, visitor func(n *sitter.Node) bool) {
	if isNull(node) {
		return
	}
	f.walk(node, f.parents[node], func(n *sitter.Node) bool {
		if !f.spend() {
			return false
		}
		return visitor(n)
	})
}

// FindIn 서브트리에서 조건을 만족하는 노드 (전위 순서, 예산 소모)
func (f *ParsedFile) FindIn(node *sitter.Node, pred func(n *sitter.Node) bool) []*sitter.Node {
	var found []*sitter.Node
	f.Walk(node, func(n *sitter.Node) bool {
		if pred(n) {
			found = append(found, n)
		}
		return true
	})
	return found
}

// Parent 기록된 부모. 순회 중 만나지 않은 노드만 트리에 묻는다.
func (f *ParsedFile) Parent(n *sitter.Node) *sitter.Node {
	if isNull(n) {
		return nil
	}
	if p, ok := f.parents[n]; ok {
		return p
	}
	if !f.spend() {
		return nil
	}
	p := Parent(n)
	if f.parents == nil {
		f.parents = make(map[*sitter.Node]*sitter.Node)
	}
	f.parents[n] = p
	return p
}

// Ancestor 조건을 만족하는 가장 가까운 조상 (자기 자신 제외, 예산 소모)
func (f *ParsedFile) Ancestor(n *sitter.Node, pred func(a *sitter.Node) bool) *sitter.Node {
	for p := f.Parent(n); p != nil; p = f.Parent(p) {
		if !f.spend() {
			return nil
		}
		if pred(p) {
			return p
		}
	}
	return nil
}

// EnclosingFunction 가장 가까운 감싸는 함수
func (f *ParsedFile) EnclosingFunction(n *sitter.Node) *sitter.Node {
	return f.Ancestor(n, IsFunction)
}
