package dedupe

// unionFind is a disjoint-set forest over record identifiers with path
// compression. Components are keyed by their representative root.
type unionFind struct {
	parent map[int]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[int]int)}
}

// add registers a node as its own component if not yet known.
func (u *unionFind) add(n int) {
	if _, ok := u.parent[n]; !ok {
		u.parent[n] = n
	}
}

// contains reports whether the node has been added.
func (u *unionFind) contains(n int) bool {
	_, ok := u.parent[n]
	return ok
}

// find returns the component root, compressing the path as it walks.
func (u *unionFind) find(n int) int {
	for u.parent[n] != n {
		u.parent[n] = u.parent[u.parent[n]]
		n = u.parent[n]
	}
	return n
}

// union joins the components of a and b.
func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}
