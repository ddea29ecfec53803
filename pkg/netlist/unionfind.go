package netlist

import "sort"

// netSet is a disjoint-set forest over pin keys. Each set additionally
// carries its net code and a linked list of members in insertion order, so
// merging two nets is O(α(n)) and keeps a deterministic pin order.
type netSet struct {
	index map[PinKey]int
	keys  []PinKey

	parent []int
	rank   []int
	next   []int // next member in insertion order, -1 at the tail

	// Valid only at roots.
	code []int
	head []int
	tail []int

	lastCode int
}

func newNetSet() *netSet {
	return &netSet{index: make(map[PinKey]int)}
}

// add appends a fresh singleton element and returns its index.
func (s *netSet) add(k PinKey) int {
	i := len(s.keys)
	s.index[k] = i
	s.keys = append(s.keys, k)
	s.parent = append(s.parent, i)
	s.rank = append(s.rank, 0)
	s.next = append(s.next, -1)
	s.code = append(s.code, 0)
	s.head = append(s.head, i)
	s.tail = append(s.tail, i)
	return i
}

// find returns the root of i, compressing the path on the way.
func (s *netSet) find(i int) int {
	root := i
	for s.parent[root] != root {
		root = s.parent[root]
	}
	for i != root {
		next := s.parent[i]
		s.parent[i] = root
		i = next
	}
	return root
}

// attach adds a new element for k to the set rooted at root.
func (s *netSet) attach(root int, k PinKey) {
	i := s.add(k)
	s.parent[i] = root
	s.next[s.tail[root]] = i
	s.tail[root] = i
}

// connect records a wire between a and b.
func (s *netSet) connect(a, b PinKey) {
	ia, okA := s.index[a]
	ib, okB := s.index[b]

	switch {
	case !okA && !okB:
		s.lastCode++
		root := s.add(a)
		s.code[root] = s.lastCode
		if b != a {
			s.attach(root, b)
		}
	case okA && !okB:
		s.attach(s.find(ia), b)
	case !okA && okB:
		s.attach(s.find(ib), a)
	default:
		s.union(s.find(ia), s.find(ib))
	}
}

// union merges two roots. The set with the lower code survives: its code is
// kept and its members come first.
func (s *netSet) union(ra, rb int) {
	if ra == rb {
		return
	}

	lo, hi := ra, rb
	if s.code[hi] < s.code[lo] {
		lo, hi = hi, lo
	}
	code := s.code[lo]
	head, tail := s.head[lo], s.tail[hi]
	s.next[s.tail[lo]] = s.head[hi]

	// Union by rank
	root := ra
	switch {
	case s.rank[ra] < s.rank[rb]:
		s.parent[ra] = rb
		root = rb
	case s.rank[ra] > s.rank[rb]:
		s.parent[rb] = ra
	default:
		s.parent[rb] = ra
		s.rank[ra]++
	}

	s.code[root] = code
	s.head[root] = head
	s.tail[root] = tail
}

// nets returns the final nets in ascending code order, with codes compacted
// to 1..n.
func (s *netSet) nets() []*Net {
	var roots []int
	for i := range s.keys {
		if s.find(i) == i {
			roots = append(roots, i)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		return s.code[roots[i]] < s.code[roots[j]]
	})

	out := make([]*Net, 0, len(roots))
	for n, root := range roots {
		net := &Net{Code: n + 1}
		net.Name = NetName(net.Code)
		for i := s.head[root]; i != -1; i = s.next[i] {
			net.Pins = append(net.Pins, s.keys[i])
		}
		out = append(out, net)
	}
	return out
}
