package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Visit 전위 순회. visitor가 false를 반환하면 해당 노드의 자식은 건너뛴다.
func Visit(node *sitter.Node, visitor func(n *sitter.Node) bool) {
	if isNull(node) {
		return
	}
	stack := []*sitter.Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visitor(n) {
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if c := n.Child(i); !isNull(c) {
				stack = append(stack, c)
			}
		}
	}
}

// Parent null-safe 부모 조회
func Parent(n *sitter.Node) *sitter.Node {
	if isNull(n) {
		return nil
	}
	p := n.Parent()
	if isNull(p) {
		return nil
	}
	return p
}

// Field null-safe 필드 자식 조회
func Field(n *sitter.Node, name string) *sitter.Node {
	if isNull(n) {
		return nil
	}
	c := n.ChildByFieldName(name)
	if isNull(c) {
		return nil
	}
	return c
}

// NamedChildren 이름 있는 자식 목록
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if isNull(n) {
		return nil
	}
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.NamedChild(i); !isNull(c) {
			children = append(children, c)
		}
	}
	return children
}

// FirstNamedChild 첫 번째 이름 있는 자식
func FirstNamedChild(n *sitter.Node) *sitter.Node {
	if isNull(n) || n.NamedChildCount() == 0 {
		return nil
	}
	c := n.NamedChild(0)
	if isNull(c) {
		return nil
	}
	return c
}

// SameNode 같은 구문 노드인지 비교
func SameNode(a, b *sitter.Node) bool {
	if isNull(a) || isNull(b) {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// Contains a가 b를 포함(같거나 조상)하는지 바이트 범위로 판단
func Contains(a, b *sitter.Node) bool {
	if isNull(a) || isNull(b) {
		return false
	}
	return a.StartByte() <= b.StartByte() && b.EndByte() <= a.EndByte()
}

func isNull(n *sitter.Node) bool {
	return n == nil || n.IsNull()
}
