package memory

import "github.com/heartmarshall/jlex/internal/domain"

// node is a rune trie node. spelled holds entries with the key as a
// spelling; derived holds entries with the key as an inflected form.
type node struct {
	children map[rune]*node
	spelled  []*domain.Entry
	derived  []*domain.Entry
}

func newNode() *node {
	return &node{children: map[rune]*node{}}
}

func (n *node) terminal() bool {
	return len(n.spelled) > 0 || len(n.derived) > 0
}

func (n *node) insert(key string, e *domain.Entry, derived bool) {
	cur := n
	for _, r := range key {
		next, ok := cur.children[r]
		if !ok {
			next = newNode()
			cur.children[r] = next
		}
		cur = next
	}
	if derived {
		cur.derived = appendUnique(cur.derived, e)
	} else {
		cur.spelled = appendUnique(cur.spelled, e)
	}
}

// find returns the node for key, or nil.
func (n *node) find(key string) *node {
	cur := n
	for _, r := range key {
		next, ok := cur.children[r]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// longest returns the deepest terminal node along s and its depth in runes.
func (n *node) longest(s string) (*node, int) {
	var best *node
	depth, bestDepth := 0, 0
	cur := n
	for _, r := range s {
		next, ok := cur.children[r]
		if !ok {
			break
		}
		cur = next
		depth++
		if cur.terminal() {
			best, bestDepth = cur, depth
		}
	}
	return best, bestDepth
}

// candidates lists spelled entries first, then entries reached only
// through derived forms.
func (n *node) candidates() []*domain.Entry {
	out := make([]*domain.Entry, 0, len(n.spelled)+len(n.derived))
	out = append(out, n.spelled...)
	for _, e := range n.derived {
		out = appendUnique(out, e)
	}
	return out
}

func appendUnique(list []*domain.Entry, e *domain.Entry) []*domain.Entry {
	for _, x := range list {
		if x == e {
			return list
		}
	}
	return append(list, e)
}
