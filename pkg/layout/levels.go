package layout

import "github.com/matzehuels/blueprint/pkg/graph"

// Levels is the column assignment of a diagram.
type Levels struct {
	// ByID maps each card id to its column.
	ByID map[string]int
	// Order lists card ids in the order they were leveled: BFS visit order,
	// then unreached cards in input order. Row order within a column follows it.
	Order []string
	// Parent records the BFS tree: the card from which each reached card was
	// first discovered. Roots and unreached cards have no entry.
	Parent map[string]string
	// Roots lists the BFS sources in input order.
	Roots []string
	// Max is the highest assigned level.
	Max int
}

// Columns groups card ids by level, preserving Order within each column.
func (lv Levels) Columns() [][]string {
	if len(lv.Order) == 0 {
		return nil
	}
	cols := make([][]string, lv.Max+1)
	for _, id := range lv.Order {
		l := lv.ByID[id]
		cols[l] = append(cols[l], id)
	}
	return cols
}

// AssignLevels runs a multi-source breadth-first traversal from every card
// with no incoming edge, or from the first card if every card has one.
// Each card's level is its shortest distance from any root. Cards the
// traversal never reaches share the level after the deepest reached one.
// Edges with unknown endpoints are ignored; cycles terminate because
// visited cards are never revisited.
func AssignLevels(cards []graph.Card, edges []graph.Edge) Levels {
	lv := Levels{
		ByID:   make(map[string]int, len(cards)),
		Order:  make([]string, 0, len(cards)),
		Parent: make(map[string]string),
	}
	if len(cards) == 0 {
		return lv
	}

	known := make(map[string]bool, len(cards))
	for _, c := range cards {
		known[c.ID] = true
	}
	adj := make(map[string][]string, len(cards))
	indeg := make(map[string]int, len(cards))
	for _, e := range edges {
		if !known[e.From] || !known[e.To] {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
		indeg[e.To]++
	}

	for _, c := range cards {
		if indeg[c.ID] == 0 {
			lv.Roots = append(lv.Roots, c.ID)
		}
	}
	if len(lv.Roots) == 0 {
		lv.Roots = []string{cards[0].ID}
	}

	queue := make([]string, 0, len(cards))
	for _, r := range lv.Roots {
		if _, seen := lv.ByID[r]; seen {
			continue
		}
		lv.ByID[r] = 0
		lv.Order = append(lv.Order, r)
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		next := lv.ByID[id] + 1
		for _, to := range adj[id] {
			if _, seen := lv.ByID[to]; seen {
				continue
			}
			lv.ByID[to] = next
			lv.Parent[to] = id
			lv.Order = append(lv.Order, to)
			lv.Max = max(lv.Max, next)
			queue = append(queue, to)
		}
	}

	orphan := lv.Max + 1
	for _, c := range cards {
		if _, seen := lv.ByID[c.ID]; seen {
			continue
		}
		lv.ByID[c.ID] = orphan
		lv.Order = append(lv.Order, c.ID)
		lv.Max = orphan
	}
	return lv
}
