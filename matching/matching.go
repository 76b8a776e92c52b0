// Package matching implements maximum-weight matching on general weighted
// graphs (Galin/Micali-Vazirani style blossom shrinking with dual variables,
// following Galil's 1986 survey). It is the single optimization primitive
// behind team pairing, judge assignment, and room assignment: callers encode
// their candidates as weighted edges over one shared index space and read the
// mate of each vertex out of the result.
package matching

// Edge is an undirected weighted edge between two vertex indices. Vertex
// indices must be non-negative and an edge may not connect a vertex to
// itself. Weights may be negative; the matching maximizes total weight.
type Edge struct {
	I, J   int
	Weight float64
}

// Unmatched is the sentinel returned for vertices left out of the matching.
const Unmatched = -1

// MaxWeightMatching computes a matching of maximum total weight. When
// maxCardinality is true, only maximum-cardinality matchings are considered,
// maximizing weight among those. The result maps each vertex index to its
// mate, or Unmatched.
func MaxWeightMatching(edges []Edge, maxCardinality bool) []int {
	if len(edges) == 0 {
		return nil
	}
	m := newMatcher(edges, maxCardinality)
	m.solve()
	return m.mate
}

// matcher holds the working state of one matching computation. Vertices are
// 0..nvertex-1; top-level blossoms occupy nvertex..2*nvertex-1. Edge
// endpoints are encoded as 2*k and 2*k+1 for edge k, so p^1 is the remote
// endpoint of p.
type matcher struct {
	edges          []Edge
	maxCardinality bool
	nvertex        int
	nedge          int

	endpoint []int   // endpoint[p] = vertex at endpoint p
	neighb   [][]int // neighb[v] = endpoints of edges incident to v, pointing away

	mate     []int // mate[v] = endpoint of matched edge at v, or -1
	label    []int // 0 free, 1 = S, 2 = T, 5 = breadcrumb
	labelEnd []int
	inBlsm   []int // top-level blossom containing each vertex

	blsmParent    []int
	blsmChilds    [][]int
	blsmBase      []int
	blsmEndps     [][]int
	bestEdge      []int
	blsmBestEdges [][]int
	unusedBlsms   []int

	dualVar   []float64
	allowEdge []bool
	queue     []int
}

func newMatcher(edges []Edge, maxCardinality bool) *matcher {
	nvertex := 0
	for _, e := range edges {
		if e.I >= nvertex {
			nvertex = e.I + 1
		}
		if e.J >= nvertex {
			nvertex = e.J + 1
		}
	}
	maxWeight := 0.0
	for _, e := range edges {
		if e.Weight > maxWeight {
			maxWeight = e.Weight
		}
	}

	m := &matcher{
		edges:          edges,
		maxCardinality: maxCardinality,
		nvertex:        nvertex,
		nedge:          len(edges),
	}

	m.endpoint = make([]int, 2*m.nedge)
	for p := range m.endpoint {
		if p%2 == 0 {
			m.endpoint[p] = edges[p/2].I
		} else {
			m.endpoint[p] = edges[p/2].J
		}
	}
	m.neighb = make([][]int, nvertex)
	for k, e := range edges {
		m.neighb[e.I] = append(m.neighb[e.I], 2*k+1)
		m.neighb[e.J] = append(m.neighb[e.J], 2*k)
	}

	m.mate = filled(nvertex, -1)
	m.label = make([]int, 2*nvertex)
	m.labelEnd = filled(2*nvertex, -1)
	m.inBlsm = make([]int, nvertex)
	for v := range m.inBlsm {
		m.inBlsm[v] = v
	}
	m.blsmParent = filled(2*nvertex, -1)
	m.blsmChilds = make([][]int, 2*nvertex)
	m.blsmBase = make([]int, 2*nvertex)
	for v := 0; v < nvertex; v++ {
		m.blsmBase[v] = v
	}
	for b := nvertex; b < 2*nvertex; b++ {
		m.blsmBase[b] = -1
	}
	m.blsmEndps = make([][]int, 2*nvertex)
	m.bestEdge = filled(2*nvertex, -1)
	m.blsmBestEdges = make([][]int, 2*nvertex)
	m.unusedBlsms = make([]int, 0, nvertex)
	for b := nvertex; b < 2*nvertex; b++ {
		m.unusedBlsms = append(m.unusedBlsms, b)
	}
	m.dualVar = make([]float64, 2*nvertex)
	for v := 0; v < nvertex; v++ {
		m.dualVar[v] = maxWeight
	}
	m.allowEdge = make([]bool, m.nedge)
	return m
}

func filled(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// slack is the dual slack of edge k; zero slack means the edge is tight and
// allowable in the alternating tree.
func (m *matcher) slack(k int) float64 {
	e := m.edges[k]
	return m.dualVar[e.I] + m.dualVar[e.J] - 2*e.Weight
}

func (m *matcher) blossomLeaves(b int, out []int) []int {
	if b < m.nvertex {
		return append(out, b)
	}
	for _, t := range m.blsmChilds[b] {
		out = m.blossomLeaves(t, out)
	}
	return out
}

// assignLabel gives blossom containing w label t with endpoint p, then for a
// T-label continues to the mate of the blossom base.
func (m *matcher) assignLabel(w, t, p int) {
	b := m.inBlsm[w]
	m.label[w] = t
	m.label[b] = t
	m.labelEnd[w] = p
	m.labelEnd[b] = p
	m.bestEdge[w] = -1
	m.bestEdge[b] = -1
	if t == 1 {
		m.queue = m.blossomLeaves(b, m.queue)
	} else if t == 2 {
		base := m.blsmBase[b]
		m.assignLabel(m.endpoint[m.mate[base]], 1, m.mate[base]^1)
	}
}

// scanBlossom traces back from v and w to find a common ancestor in the
// alternating tree, returning its base vertex or -1 when the paths lead to
// different tree roots (an augmenting path exists).
func (m *matcher) scanBlossom(v, w int) int {
	var path []int
	base := -1
	for v != -1 || w != -1 {
		b := m.inBlsm[v]
		if m.label[b]&4 != 0 {
			base = m.blsmBase[b]
			break
		}
		path = append(path, b)
		m.label[b] = 5
		if m.labelEnd[b] == -1 {
			v = -1
		} else {
			v = m.endpoint[m.labelEnd[b]]
			b = m.inBlsm[v]
			v = m.endpoint[m.labelEnd[b]]
		}
		if w != -1 {
			v, w = w, v
		}
	}
	for _, b := range path {
		m.label[b] = 1
	}
	return base
}

// addBlossom shrinks the cycle through edge k and the common ancestor with
// the given base into a new blossom.
func (m *matcher) addBlossom(base, k int) {
	v, w := m.edges[k].I, m.edges[k].J
	bb := m.inBlsm[base]
	bv := m.inBlsm[v]
	bw := m.inBlsm[w]

	b := m.unusedBlsms[len(m.unusedBlsms)-1]
	m.unusedBlsms = m.unusedBlsms[:len(m.unusedBlsms)-1]

	m.blsmBase[b] = base
	m.blsmParent[b] = -1
	m.blsmParent[bb] = b

	var path, endps []int
	for bv != bb {
		m.blsmParent[bv] = b
		path = append(path, bv)
		endps = append(endps, m.labelEnd[bv])
		v = m.endpoint[m.labelEnd[bv]]
		bv = m.inBlsm[v]
	}
	path = append(path, bb)
	reverse(path)
	reverse(endps)
	endps = append(endps, 2*k)
	for bw != bb {
		m.blsmParent[bw] = b
		path = append(path, bw)
		endps = append(endps, m.labelEnd[bw]^1)
		w = m.endpoint[m.labelEnd[bw]]
		bw = m.inBlsm[w]
	}
	m.blsmChilds[b] = path
	m.blsmEndps[b] = endps

	m.label[b] = 1
	m.labelEnd[b] = m.labelEnd[bb]
	m.dualVar[b] = 0

	for _, leaf := range m.blossomLeaves(b, nil) {
		if m.label[m.inBlsm[leaf]] == 2 {
			m.queue = append(m.queue, leaf)
		}
		m.inBlsm[leaf] = b
	}

	// Recompute best edges into neighbouring S-blossoms.
	bestEdgeTo := filled(2*m.nvertex, -1)
	for _, child := range path {
		var nblists [][]int
		if m.blsmBestEdges[child] == nil {
			for _, leaf := range m.blossomLeaves(child, nil) {
				ks := make([]int, 0, len(m.neighb[leaf]))
				for _, p := range m.neighb[leaf] {
					ks = append(ks, p/2)
				}
				nblists = append(nblists, ks)
			}
		} else {
			nblists = [][]int{m.blsmBestEdges[child]}
		}
		for _, nblist := range nblists {
			for _, ek := range nblist {
				j := m.edges[ek].J
				if m.inBlsm[j] == b {
					j = m.edges[ek].I
				}
				bj := m.inBlsm[j]
				if bj != b && m.label[bj] == 1 &&
					(bestEdgeTo[bj] == -1 || m.slack(ek) < m.slack(bestEdgeTo[bj])) {
					bestEdgeTo[bj] = ek
				}
			}
		}
		m.blsmBestEdges[child] = nil
		m.bestEdge[child] = -1
	}
	best := make([]int, 0)
	for _, ek := range bestEdgeTo {
		if ek != -1 {
			best = append(best, ek)
		}
	}
	m.blsmBestEdges[b] = best
	m.bestEdge[b] = -1
	for _, ek := range best {
		if m.bestEdge[b] == -1 || m.slack(ek) < m.slack(m.bestEdge[b]) {
			m.bestEdge[b] = ek
		}
	}
}

// expandBlossom undoes the shrinking of blossom b, relabelling its children.
func (m *matcher) expandBlossom(b int, endStage bool) {
	for _, s := range m.blsmChilds[b] {
		m.blsmParent[s] = -1
		if s < m.nvertex {
			m.inBlsm[s] = s
		} else if endStage && m.dualVar[s] == 0 {
			m.expandBlossom(s, endStage)
		} else {
			for _, leaf := range m.blossomLeaves(s, nil) {
				m.inBlsm[leaf] = s
			}
		}
	}

	if !endStage && m.label[b] == 2 {
		entryChild := m.inBlsm[m.endpoint[m.labelEnd[b]^1]]
		j := index(m.blsmChilds[b], entryChild)
		var jstep, endpTrick int
		if j%2 == 1 {
			j -= len(m.blsmChilds[b])
			jstep = 1
			endpTrick = 0
		} else {
			jstep = -1
			endpTrick = 1
		}
		p := m.labelEnd[b]
		for j != 0 {
			m.label[m.endpoint[p^1]] = 0
			m.label[m.endpoint[at(m.blsmEndps[b], j-endpTrick)^endpTrick^1]] = 0
			m.assignLabel(m.endpoint[p^1], 2, p)
			m.allowEdge[at(m.blsmEndps[b], j-endpTrick)/2] = true
			j += jstep
			p = at(m.blsmEndps[b], j-endpTrick) ^ endpTrick
			m.allowEdge[p/2] = true
			j += jstep
		}
		bv := at(m.blsmChilds[b], j)
		m.label[m.endpoint[p^1]] = 2
		m.label[bv] = 2
		m.labelEnd[m.endpoint[p^1]] = p
		m.labelEnd[bv] = p
		m.bestEdge[bv] = -1
		j += jstep
		for at(m.blsmChilds[b], j) != entryChild {
			bv = at(m.blsmChilds[b], j)
			if m.label[bv] == 1 {
				j += jstep
				continue
			}
			var reached int = -1
			for _, leaf := range m.blossomLeaves(bv, nil) {
				if m.label[leaf] != 0 {
					reached = leaf
					break
				}
			}
			if reached != -1 {
				m.label[reached] = 0
				m.label[m.endpoint[m.mate[m.blsmBase[bv]]]] = 0
				m.assignLabel(reached, 2, m.labelEnd[reached])
			}
			j += jstep
		}
	}

	m.label[b] = -1
	m.labelEnd[b] = -1
	m.blsmChilds[b] = nil
	m.blsmEndps[b] = nil
	m.blsmBase[b] = -1
	m.blsmBestEdges[b] = nil
	m.bestEdge[b] = -1
	m.unusedBlsms = append(m.unusedBlsms, b)
}

// augmentBlossom swaps matched and unmatched edges around blossom b so that
// vertex v becomes the new base.
func (m *matcher) augmentBlossom(b, v int) {
	t := v
	for m.blsmParent[t] != b {
		t = m.blsmParent[t]
	}
	if t >= m.nvertex {
		m.augmentBlossom(t, v)
	}
	i := index(m.blsmChilds[b], t)
	j := i
	var jstep, endpTrick int
	if i%2 == 1 {
		j -= len(m.blsmChilds[b])
		jstep = 1
		endpTrick = 0
	} else {
		jstep = -1
		endpTrick = 1
	}
	for j != 0 {
		j += jstep
		t = at(m.blsmChilds[b], j)
		p := at(m.blsmEndps[b], j-endpTrick) ^ endpTrick
		if t >= m.nvertex {
			m.augmentBlossom(t, m.endpoint[p])
		}
		j += jstep
		t = at(m.blsmChilds[b], j)
		if t >= m.nvertex {
			m.augmentBlossom(t, m.endpoint[p^1])
		}
		m.mate[m.endpoint[p]] = p ^ 1
		m.mate[m.endpoint[p^1]] = p
	}
	m.blsmChilds[b] = rotate(m.blsmChilds[b], i)
	m.blsmEndps[b] = rotate(m.blsmEndps[b], i)
	m.blsmBase[b] = m.blsmBase[m.blsmChilds[b][0]]
}

// augmentMatching flips the matching along the augmenting path through tight
// edge k.
func (m *matcher) augmentMatching(k int) {
	starts := [2][2]int{
		{m.edges[k].I, 2*k + 1},
		{m.edges[k].J, 2 * k},
	}
	for _, sp := range starts {
		s, p := sp[0], sp[1]
		for {
			bs := m.inBlsm[s]
			if bs >= m.nvertex {
				m.augmentBlossom(bs, s)
			}
			m.mate[s] = p
			if m.labelEnd[bs] == -1 {
				break
			}
			t := m.endpoint[m.labelEnd[bs]]
			bt := m.inBlsm[t]
			s = m.endpoint[m.labelEnd[bt]]
			j := m.endpoint[m.labelEnd[bt]^1]
			if bt >= m.nvertex {
				m.augmentBlossom(bt, j)
			}
			m.mate[j] = m.labelEnd[bt]
			p = m.labelEnd[bt] ^ 1
		}
	}
}

func (m *matcher) solve() {
	for t := 0; t < m.nvertex; t++ {
		for i := range m.label {
			m.label[i] = 0
		}
		for i := range m.bestEdge {
			m.bestEdge[i] = -1
		}
		for i := m.nvertex; i < 2*m.nvertex; i++ {
			m.blsmBestEdges[i] = nil
		}
		for i := range m.allowEdge {
			m.allowEdge[i] = false
		}
		m.queue = m.queue[:0]

		for v := 0; v < m.nvertex; v++ {
			if m.mate[v] == -1 && m.label[m.inBlsm[v]] == 0 {
				m.assignLabel(v, 1, -1)
			}
		}

		augmented := false
		for {
			for len(m.queue) > 0 && !augmented {
				v := m.queue[len(m.queue)-1]
				m.queue = m.queue[:len(m.queue)-1]
				for _, p := range m.neighb[v] {
					k := p / 2
					w := m.endpoint[p]
					if m.inBlsm[v] == m.inBlsm[w] {
						continue
					}
					var kslack float64
					if !m.allowEdge[k] {
						kslack = m.slack(k)
						if kslack <= 0 {
							m.allowEdge[k] = true
						}
					}
					if m.allowEdge[k] {
						if m.label[m.inBlsm[w]] == 0 {
							m.assignLabel(w, 2, p^1)
						} else if m.label[m.inBlsm[w]] == 1 {
							base := m.scanBlossom(v, w)
							if base >= 0 {
								m.addBlossom(base, k)
							} else {
								m.augmentMatching(k)
								augmented = true
								break
							}
						} else if m.label[w] == 0 {
							m.label[w] = 2
							m.labelEnd[w] = p ^ 1
						}
					} else if m.label[m.inBlsm[w]] == 1 {
						b := m.inBlsm[v]
						if m.bestEdge[b] == -1 || kslack < m.slack(m.bestEdge[b]) {
							m.bestEdge[b] = k
						}
					} else if m.label[w] == 0 {
						if m.bestEdge[w] == -1 || kslack < m.slack(m.bestEdge[w]) {
							m.bestEdge[w] = k
						}
					}
				}
			}
			if augmented {
				break
			}

			// No augmenting path under the current duals; compute the
			// largest safe dual update.
			deltaType := -1
			var delta float64
			deltaEdge, deltaBlossom := -1, -1

			if !m.maxCardinality {
				deltaType = 1
				delta = m.minVertexDual()
			}
			for v := 0; v < m.nvertex; v++ {
				if m.label[m.inBlsm[v]] == 0 && m.bestEdge[v] != -1 {
					d := m.slack(m.bestEdge[v])
					if deltaType == -1 || d < delta {
						delta = d
						deltaType = 2
						deltaEdge = m.bestEdge[v]
					}
				}
			}
			for b := 0; b < 2*m.nvertex; b++ {
				if m.blsmParent[b] == -1 && m.label[b] == 1 && m.bestEdge[b] != -1 {
					d := m.slack(m.bestEdge[b]) / 2
					if deltaType == -1 || d < delta {
						delta = d
						deltaType = 3
						deltaEdge = m.bestEdge[b]
					}
				}
			}
			for b := m.nvertex; b < 2*m.nvertex; b++ {
				if m.blsmBase[b] >= 0 && m.blsmParent[b] == -1 && m.label[b] == 2 &&
					(deltaType == -1 || m.dualVar[b] < delta) {
					delta = m.dualVar[b]
					deltaType = 4
					deltaBlossom = b
				}
			}
			if deltaType == -1 {
				deltaType = 1
				delta = m.minVertexDual()
				if delta < 0 {
					delta = 0
				}
			}

			for v := 0; v < m.nvertex; v++ {
				switch m.label[m.inBlsm[v]] {
				case 1:
					m.dualVar[v] -= delta
				case 2:
					m.dualVar[v] += delta
				}
			}
			for b := m.nvertex; b < 2*m.nvertex; b++ {
				if m.blsmBase[b] >= 0 && m.blsmParent[b] == -1 {
					switch m.label[b] {
					case 1:
						m.dualVar[b] += delta
					case 2:
						m.dualVar[b] -= delta
					}
				}
			}

			if deltaType == 1 {
				break
			} else if deltaType == 2 {
				m.allowEdge[deltaEdge] = true
				i := m.edges[deltaEdge].I
				if m.label[m.inBlsm[i]] == 0 {
					i = m.edges[deltaEdge].J
				}
				m.queue = append(m.queue, i)
			} else if deltaType == 3 {
				m.allowEdge[deltaEdge] = true
				m.queue = append(m.queue, m.edges[deltaEdge].I)
			} else {
				m.expandBlossom(deltaBlossom, false)
			}
		}

		if !augmented {
			break
		}

		for b := m.nvertex; b < 2*m.nvertex; b++ {
			if m.blsmParent[b] == -1 && m.blsmBase[b] >= 0 &&
				m.label[b] == 1 && m.dualVar[b] == 0 {
				m.expandBlossom(b, true)
			}
		}
	}

	for v := 0; v < m.nvertex; v++ {
		if m.mate[v] >= 0 {
			m.mate[v] = m.endpoint[m.mate[v]]
		}
	}
}

func (m *matcher) minVertexDual() float64 {
	min := m.dualVar[0]
	for v := 1; v < m.nvertex; v++ {
		if m.dualVar[v] < min {
			min = m.dualVar[v]
		}
	}
	return min
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func index(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// at indexes a slice with Python-style negative wrap-around, which the
// blossom traversals rely on when walking backwards around a cycle.
func at(s []int, i int) int {
	if i < 0 {
		i += len(s)
	}
	return s[i]
}

func rotate(s []int, i int) []int {
	out := make([]int, 0, len(s))
	out = append(out, s[i:]...)
	out = append(out, s[:i]...)
	return out
}
