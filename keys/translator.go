package keys

// Translator follows keyboard input through a Trie. It is not safe for
// concurrent use.
type Translator struct {
	t   *Trie
	cur int
}

func NewTranslator(t *Trie) *Translator {
	return &Translator{t: t}
}

// Feed consumes one keyboard byte and returns what to send to the
// child. A complete sequence sends its translation, a byte that
// doesn't continue any sequence sends the bytes held so far and
// itself unchanged. Nothing is sent while a sequence is incomplete.
func (tr *Translator) Feed(b byte) []byte {
	cur := tr.t.nodes[tr.cur]
	c, ok := cur.children[b]
	if !ok {
		tr.cur = root
		return append(append([]byte(nil), cur.seq...), b)
	}

	nd := tr.t.nodes[c]
	if len(nd.children) > 0 {
		tr.cur = c
		return nil
	}
	tr.cur = root
	return nd.out
}

// Write feeds every byte of p.
func (tr *Translator) Write(p []byte) []byte {
	var out []byte
	for _, b := range p {
		out = append(out, tr.Feed(b)...)
	}
	return out
}

// Pending reports whether a sequence has been started but not
// completed.
func (tr *Translator) Pending() bool {
	return tr.cur != root
}

// Flush gives up waiting for the rest of a sequence and returns the
// bytes held, unchanged.
func (tr *Translator) Flush() []byte {
	seq := tr.t.nodes[tr.cur].seq
	tr.cur = root
	return seq
}
