// Package keys translates the key sequences of the host keyboard into
// the codes a Wyse60 keyboard sends.
package keys

import "log/slog"

const root = 0

type node struct {
	children map[byte]int
	seq      []byte // bytes from the root to here
	defined  bool
	name     string
	out      []byte
}

// Trie maps key sequences to their translation. Nodes live in one
// slice and refer to each other by index.
type Trie struct {
	nodes []node
	count int
}

func NewTrie() *Trie {
	return &Trie{nodes: []node{{}}}
}

// Add defines seq as the key called name, sending out. The first
// definition of a sequence wins; Add reports whether this one did.
func (t *Trie) Add(name string, seq, out []byte) bool {
	if len(seq) == 0 {
		return false
	}

	n := root
	for i, b := range seq {
		c, ok := t.nodes[n].children[b]
		if !ok {
			c = len(t.nodes)
			t.nodes = append(t.nodes, node{seq: append([]byte(nil), seq[:i+1]...)})
			if t.nodes[n].children == nil {
				t.nodes[n].children = make(map[byte]int)
			}
			t.nodes[n].children[b] = c
		}
		n = c
	}

	if t.nodes[n].defined {
		slog.Debug("duplicate key sequence", "name", name, "seq", seq, "defined_as", t.nodes[n].name)
		return false
	}
	t.nodes[n].defined = true
	t.nodes[n].name = name
	t.nodes[n].out = append([]byte(nil), out...)
	t.count += 1
	return true
}

// Lookup returns the definition of seq.
func (t *Trie) Lookup(seq []byte) (string, []byte, bool) {
	n := root
	for _, b := range seq {
		c, ok := t.nodes[n].children[b]
		if !ok {
			return "", nil, false
		}
		n = c
	}
	nd := t.nodes[n]
	return nd.name, nd.out, nd.defined
}

// Len returns the number of defined sequences.
func (t *Trie) Len() int {
	return t.count
}

// Walk calls f for every defined sequence, in definition order.
func (t *Trie) Walk(f func(name string, seq, out []byte)) {
	for _, nd := range t.nodes {
		if nd.defined {
			f(nd.name, nd.seq, nd.out)
		}
	}
}
