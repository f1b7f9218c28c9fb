package mono

// CycleGuard bounds recursive instantiation during expansion. A
// generic whose body instantiates its own base with new arguments
// (Wrap<T> containing Wrap<Wrap<T>>) would otherwise regress forever;
// re-entering the same base past the limit is reported as a cycle.
type CycleGuard struct {
	depth map[string]int
	limit int
}

// DefaultCycleLimit is deep enough for legitimate nesting like
// May<May<May<int>>> while catching runaway self-instantiation fast.
const DefaultCycleLimit = 32

func NewCycleGuard(limit int) *CycleGuard {
	if limit <= 0 {
		limit = DefaultCycleLimit
	}
	return &CycleGuard{depth: make(map[string]int), limit: limit}
}

// Enter marks base as being expanded. Returns false when the nesting
// limit for base is exceeded, which indicates a cycle.
func (g *CycleGuard) Enter(base string) bool {
	if g.depth[base] >= g.limit {
		return false
	}
	g.depth[base]++
	return true
}

// Leave unwinds one Enter.
func (g *CycleGuard) Leave(base string) {
	if g.depth[base] > 0 {
		g.depth[base]--
	}
}
