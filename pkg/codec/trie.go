package codec

// none marks a missing edge or a node that holds no symbol.
const none = -1

// node is an arena slot. Leaves hold a symbol index, internal nodes hold
// up to two child indices.
type node struct {
	zero   int32
	one    int32
	symbol int32
}

// Trie is the decoding tree of an Alphabet. Node 0 is the root. Following a
// symbol's code from the root ends at the leaf holding that symbol.
type Trie struct {
	nodes []node
	depth int
}

func buildTrie(symbols []Symbol) *Trie {
	members := make([]int, len(symbols))
	for i := range members {
		members[i] = i
	}
	t := &Trie{}
	t.build(symbols, members, 0)
	return t
}

// build partitions members by their bit at depth. A node becomes a leaf once
// it holds a single symbol whose code is fully consumed; for a complete code
// that is exactly when the partition shrinks to one symbol.
func (t *Trie) build(symbols []Symbol, members []int, depth int) int32 {
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{zero: none, one: none, symbol: none})

	if len(members) == 1 && len(symbols[members[0]].Code) == depth {
		t.nodes[idx].symbol = int32(members[0])
		t.depth = max(t.depth, depth)
		return idx
	}

	var zeros, ones []int
	for _, m := range members {
		code := symbols[m].Code
		if depth >= len(code) {
			continue
		}
		if code[depth] == 0 {
			zeros = append(zeros, m)
		} else {
			ones = append(ones, m)
		}
	}
	if len(zeros) > 0 {
		child := t.build(symbols, zeros, depth+1)
		t.nodes[idx].zero = child
	}
	if len(ones) > 0 {
		child := t.build(symbols, ones, depth+1)
		t.nodes[idx].one = child
	}
	return idx
}

// Depth is the length of the longest code.
func (t *Trie) Depth() int { return t.depth }

// Len is the number of nodes in the arena.
func (t *Trie) Len() int { return len(t.nodes) }

// step follows bit from node n. It returns none when no edge matches.
func (t *Trie) step(n int32, bit Bit) int32 {
	switch bit {
	case 0:
		return t.nodes[n].zero
	case 1:
		return t.nodes[n].one
	default:
		return none
	}
}

// Walk follows code from the root and returns the symbol index at the leaf
// it ends on, or -1 if the path leaves the trie or stops between leaves.
func (t *Trie) Walk(code []Bit) int {
	n := int32(0)
	for _, b := range code {
		n = t.step(n, b)
		if n == none {
			return none
		}
	}
	return int(t.nodes[n].symbol)
}
