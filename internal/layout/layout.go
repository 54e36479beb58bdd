// Package layout implements the binary/n-ary split tree:
// given a window rectangle and a tree of Leaf/Split nodes, produce a
// rectangle for every leaf, and support split/remove/resize/swap/zoom/
// preset-cycle/direction-navigate operations. Nodes carry no parent
// pointer; every mutation rewrites the tree from the root down.
package layout

import (
	"fmt"

	"github.com/blackwitch/wtmux/internal/wterr"
)

// Orientation is the split axis.
type Orientation int

const (
	Horizontal Orientation = iota // children side by side, left to right
	Vertical                      // children stacked top to bottom
)

// Rect is a pane rectangle in cells.
type Rect struct {
	X, Y, W, H int
}

// Node is a Leaf(pane id) or a Split(orientation, weighted children). Leaf
// nodes have PaneID set and Children nil; Split nodes have Children set.
type Node struct {
	PaneID      int
	Orientation Orientation
	Children    []Child
}

// Child pairs a child node with its positive integer weight; its fraction
// of the parent's extent is weight / sum(weights).
type Child struct {
	Node   *Node
	Weight int
}

// Leaf constructs a leaf node for the given pane.
func Leaf(paneID int) *Node {
	return &Node{PaneID: paneID}
}

// NewSplit constructs a split node with equally weighted children.
func NewSplit(orientation Orientation, children ...*Node) *Node {
	n := &Node{Orientation: orientation}
	for _, c := range children {
		n.Children = append(n.Children, Child{Node: c, Weight: 1})
	}
	return n
}

// IsLeaf reports whether n is a leaf.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// BorderWidth is the number of cells reserved between sibling leaves for
// the border the renderer draws.
const BorderWidth = 1

// Leaves returns every leaf in the tree, in tree order.
func Leaves(n *Node) []*Node {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, Leaves(c.Node)...)
	}
	return out
}

// FindLeaf returns the leaf node owning paneID, or nil.
func FindLeaf(n *Node, paneID int) *Node {
	for _, l := range Leaves(n) {
		if l.PaneID == paneID {
			return l
		}
	}
	return nil
}

// Rects computes the rectangle of every leaf in the tree rooted at n, given
// the window's overall rectangle. Weights are clipped so every leaf gets at
// least 1 cell along its parent's split axis.
func Rects(n *Node, area Rect) map[int]Rect {
	out := make(map[int]Rect)
	layoutNode(n, area, out)
	return out
}

func layoutNode(n *Node, area Rect, out map[int]Rect) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		out[n.PaneID] = area
		return
	}
	extent := area.W
	if n.Orientation == Vertical {
		extent = area.H
	}
	sizes := distribute(extent, childWeights(n.Children))
	pos := 0
	for i, c := range n.Children {
		sz := sizes[i]
		var childArea Rect
		if n.Orientation == Horizontal {
			childArea = Rect{X: area.X + pos, Y: area.Y, W: sz, H: area.H}
		} else {
			childArea = Rect{X: area.X, Y: area.Y + pos, W: area.W, H: sz}
		}
		layoutNode(c.Node, childArea, out)
		pos += sz + BorderWidth
	}
}

func childWeights(children []Child) []int {
	w := make([]int, len(children))
	for i, c := range children {
		w[i] = c.Weight
	}
	return w
}

// distribute allocates `extent` cells across the given weights, reserving
// BorderWidth between each pair of children and clamping every child to at
// least 1 cell even when that overcommits the available space. This clamp
// keeps Rects/render producing in-bounds geometry for a window that has
// already shrunk below its tree's minimum size; it is not a feasibility
// check. Fits is the feasibility check, and SplitLeaf uses it to refuse a
// new split before distribute ever sees it.
func distribute(extent int, weights []int) []int {
	n := len(weights)
	if n == 0 {
		return nil
	}
	usable := extent - BorderWidth*(n-1)
	if usable < n {
		usable = n
	}
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		total = n
		weights = make([]int, n)
		for i := range weights {
			weights[i] = 1
		}
	}
	sizes := make([]int, n)
	assigned := 0
	for i := 0; i < n; i++ {
		sizes[i] = usable * weights[i] / total
		if sizes[i] < 1 {
			sizes[i] = 1
		}
		assigned += sizes[i]
	}
	// Give the rounding remainder (or claw back overshoot) to the last
	// child, so earlier splits stay stable across repeated re-layout.
	diff := usable - assigned
	sizes[n-1] += diff
	if sizes[n-1] < 1 {
		short := 1 - sizes[n-1]
		sizes[n-1] = 1
		for i := 0; i < n-1 && short > 0; i++ {
			take := sizes[i] - 1
			if take > short {
				take = short
			}
			sizes[i] -= take
			short -= take
		}
	}
	return sizes
}

// SplitLeaf replaces the leaf holding oldPaneID with a Split containing the
// original leaf and a new leaf for newPaneID, equally weighted. If the
// immediate parent of that leaf already splits along `orientation`, the new
// leaf is inserted as a sibling instead of nesting, keeping the tree flat
// for N-way splits.
//
// area is the window's current rectangle. When area is non-empty (W>0 and
// H>0), the candidate tree is checked with Fits first and the split is
// refused with a wterr.ParseError instead of committed if any leaf would
// fall below the 1-cell minimum once borders are accounted for. A zero
// area (no client size known yet) skips the check.
func SplitLeaf(root *Node, oldPaneID int, orientation Orientation, newPaneID int, after bool, area Rect) (*Node, error) {
	var candidate *Node
	if root.IsLeaf() {
		if root.PaneID != oldPaneID {
			return root, fmt.Errorf("layout: pane %d not found", oldPaneID)
		}
		candidate = wrapLeaf(root, orientation, newPaneID, after)
	} else {
		rewritten, found := splitWithin(root, oldPaneID, orientation, newPaneID, after)
		if !found {
			return root, fmt.Errorf("layout: pane %d not found", oldPaneID)
		}
		candidate = rewritten
	}
	if area.W > 0 && area.H > 0 && !Fits(candidate, area) {
		return root, wterr.New(wterr.ParseError, "split refused: %dx%d is too small for this layout", area.W, area.H)
	}
	return candidate, nil
}

// Fits reports whether every leaf of root would receive at least 1 cell
// along its parent's split axis when laid out within area, reserving
// BorderWidth between siblings at every level. Unlike distribute, which
// clamps an overcommitted split down to keep rendering in bounds, Fits
// never clamps — it's the pre-commit feasibility check SplitLeaf uses to
// refuse a split outright rather than silently producing geometry that
// overlaps or runs past the window's edge.
func Fits(root *Node, area Rect) bool {
	if root == nil || root.IsLeaf() {
		return area.W >= 1 && area.H >= 1
	}
	extent := area.W
	if root.Orientation == Vertical {
		extent = area.H
	}
	n := len(root.Children)
	if extent < n+BorderWidth*(n-1) {
		return false
	}
	weights := childWeights(root.Children)
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		total = n
		for i := range weights {
			weights[i] = 1
		}
	}
	usable := extent - BorderWidth*(n-1)
	pos := 0
	for i, c := range root.Children {
		sz := usable * weights[i] / total
		if i == n-1 {
			sz = usable - pos
		}
		if sz < 1 {
			return false
		}
		var childArea Rect
		if root.Orientation == Horizontal {
			childArea = Rect{X: area.X + pos, Y: area.Y, W: sz, H: area.H}
		} else {
			childArea = Rect{X: area.X, Y: area.Y + pos, W: area.W, H: sz}
		}
		if !Fits(c.Node, childArea) {
			return false
		}
		pos += sz + BorderWidth
	}
	return true
}

func wrapLeaf(leaf *Node, orientation Orientation, newPaneID int, after bool) *Node {
	newLeaf := Leaf(newPaneID)
	if after {
		return &Node{Orientation: orientation, Children: []Child{{Node: leaf, Weight: 1}, {Node: newLeaf, Weight: 1}}}
	}
	return &Node{Orientation: orientation, Children: []Child{{Node: newLeaf, Weight: 1}, {Node: leaf, Weight: 1}}}
}

func splitWithin(n *Node, oldPaneID int, orientation Orientation, newPaneID int, after bool) (*Node, bool) {
	for i, c := range n.Children {
		if c.Node.IsLeaf() && c.Node.PaneID == oldPaneID {
			if n.Orientation == orientation {
				// Flat insert: add the new leaf as a sibling, same weight as the original.
				newLeaf := Leaf(newPaneID)
				children := make([]Child, 0, len(n.Children)+1)
				children = append(children, n.Children[:i]...)
				if after {
					children = append(children, c, Child{Node: newLeaf, Weight: c.Weight})
				} else {
					children = append(children, Child{Node: newLeaf, Weight: c.Weight}, c)
				}
				children = append(children, n.Children[i+1:]...)
				return &Node{Orientation: n.Orientation, Children: children}, true
			}
			children := make([]Child, len(n.Children))
			copy(children, n.Children)
			children[i] = Child{Node: wrapLeaf(c.Node, orientation, newPaneID, after), Weight: c.Weight}
			return &Node{Orientation: n.Orientation, Children: children}, true
		}
	}
	for i, c := range n.Children {
		if c.Node.IsLeaf() {
			continue
		}
		if rewritten, found := splitWithin(c.Node, oldPaneID, orientation, newPaneID, after); found {
			children := make([]Child, len(n.Children))
			copy(children, n.Children)
			children[i] = Child{Node: rewritten, Weight: c.Weight}
			return &Node{Orientation: n.Orientation, Children: children}, true
		}
	}
	return n, false
}

// RemoveLeaf removes the leaf owning paneID from the tree. If its parent
// has more than 2 children, the child is simply dropped. If the parent has
// exactly 2 children, the parent is replaced by the surviving sibling
// (flatten), Returns (nil, nil) if paneID was the tree's
// only leaf, or an error if paneID isn't present.
func RemoveLeaf(root *Node, paneID int) (*Node, error) {
	if root.IsLeaf() {
		if root.PaneID == paneID {
			return nil, nil
		}
		return root, fmt.Errorf("layout: pane %d not found", paneID)
	}
	rewritten, found := removeFrom(root, paneID)
	if !found {
		return root, fmt.Errorf("layout: pane %d not found", paneID)
	}
	return rewritten, nil
}

func removeFrom(n *Node, paneID int) (*Node, bool) {
	idx := -1
	for i, c := range n.Children {
		if c.Node.IsLeaf() && c.Node.PaneID == paneID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		if len(n.Children) > 2 {
			children := make([]Child, 0, len(n.Children)-1)
			children = append(children, n.Children[:idx]...)
			children = append(children, n.Children[idx+1:]...)
			return &Node{Orientation: n.Orientation, Children: children}, true
		}
		survivor := n.Children[1-idx]
		return survivor.Node, true
	}
	for i, c := range n.Children {
		if c.Node.IsLeaf() {
			continue
		}
		if rewritten, found := removeFrom(c.Node, paneID); found {
			children := make([]Child, len(n.Children))
			copy(children, n.Children)
			children[i] = Child{Node: rewritten, Weight: c.Weight}
			return &Node{Orientation: n.Orientation, Children: children}, true
		}
	}
	return n, false
}

// Resize shifts the border between the leaf owning paneID and its
// successor sibling by delta cells along the parent's split axis (positive
// grows the leaf), reweighting both to match, clamped so each retains the
// minimum 1-cell extent. axisExtent is the parent's total extent along its
// split axis (used to translate delta cells into weight units).
func Resize(root *Node, paneID int, axisExtent, delta int) (*Node, error) {
	rewritten, found := resizeWithin(root, paneID, axisExtent, delta)
	if !found {
		return root, fmt.Errorf("layout: pane %d not found or has no successor sibling", paneID)
	}
	return rewritten, nil
}

func resizeWithin(n *Node, paneID, axisExtent, delta int) (*Node, bool) {
	if n.IsLeaf() {
		return n, false
	}
	for i, c := range n.Children {
		if c.Node.IsLeaf() && c.Node.PaneID == paneID && i+1 < len(n.Children) {
			total := 0
			for _, ch := range n.Children {
				total += ch.Weight
			}
			// Re-express every sibling's weight in cells of axisExtent
			// (keeping their proportions) so delta cells move the border
			// directly, then clamp both siblings to at least weight 1.
			extent := maxInt(axisExtent, 1)
			children := make([]Child, len(n.Children))
			for j, ch := range n.Children {
				children[j] = Child{Node: ch.Node, Weight: maxInt(ch.Weight*extent/total, 1)}
			}
			next := children[i+1]
			newWeight := children[i].Weight + delta
			newNextWeight := next.Weight - delta
			if newWeight < 1 {
				newNextWeight -= 1 - newWeight
				newWeight = 1
			}
			if newNextWeight < 1 {
				newWeight -= 1 - newNextWeight
				newNextWeight = 1
			}
			if newWeight < 1 {
				newWeight = 1
			}
			children[i] = Child{Node: c.Node, Weight: newWeight}
			children[i+1] = Child{Node: next.Node, Weight: newNextWeight}
			return &Node{Orientation: n.Orientation, Children: children}, true
		}
	}
	for i, c := range n.Children {
		if c.Node.IsLeaf() {
			continue
		}
		if rewritten, found := resizeWithin(c.Node, paneID, axisExtent, delta); found {
			children := make([]Child, len(n.Children))
			copy(children, n.Children)
			children[i] = Child{Node: rewritten, Weight: c.Weight}
			return &Node{Orientation: n.Orientation, Children: children}, true
		}
	}
	return n, false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func signOf(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}

// Swap exchanges the pane ids of two leaves in place, leaving tree shape
// and weights untouched.
func Swap(root *Node, paneA, paneB int) (*Node, error) {
	a := FindLeaf(root, paneA)
	b := FindLeaf(root, paneB)
	if a == nil || b == nil {
		return root, fmt.Errorf("layout: pane %d or %d not found", paneA, paneB)
	}
	return rewritePaneIDs(root, map[int]int{paneA: paneB, paneB: paneA}), nil
}

func rewritePaneIDs(n *Node, swap map[int]int) *Node {
	if n.IsLeaf() {
		if newID, ok := swap[n.PaneID]; ok {
			return Leaf(newID)
		}
		return n
	}
	children := make([]Child, len(n.Children))
	for i, c := range n.Children {
		children[i] = Child{Node: rewritePaneIDs(c.Node, swap), Weight: c.Weight}
	}
	return &Node{Orientation: n.Orientation, Children: children}
}

// Direction is a navigation direction for Navigate.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Navigate picks the leaf whose rectangle is nearest along dir from the
// pane at fromPaneID: the projection onto the perpendicular axis must
// overlap, and among candidates the minimal perpendicular distance wins.
// Ties are broken by the order leaves appear in mostRecent (most-recently-
// active first); mostRecent may be nil/empty to skip tie-breaking.
func Navigate(root *Node, area Rect, fromPaneID int, dir Direction, mostRecent []int) (int, bool) {
	rects := Rects(root, area)
	from, ok := rects[fromPaneID]
	if !ok {
		return 0, false
	}
	recentIndex := make(map[int]int, len(mostRecent))
	for i, id := range mostRecent {
		recentIndex[id] = i
	}

	bestID := 0
	bestDist := -1
	bestRecency := len(mostRecent) + 1
	for id, r := range rects {
		if id == fromPaneID {
			continue
		}
		dist, ok := directionalDistance(from, r, dir)
		if !ok {
			continue
		}
		recency := recentIndex[id]
		if _, has := recentIndex[id]; !has {
			recency = len(mostRecent) + 1
		}
		if bestDist == -1 || dist < bestDist || (dist == bestDist && recency < bestRecency) {
			bestID, bestDist, bestRecency = id, dist, recency
		}
	}
	return bestID, bestDist != -1
}

// directionalDistance returns the perpendicular distance from `from` to
// `to` along dir, and whether `to` lies in the correct direction and
// overlaps `from`'s projection onto the perpendicular axis.
func directionalDistance(from, to Rect, dir Direction) (int, bool) {
	switch dir {
	case DirUp:
		if to.Y+to.H > from.Y || !overlapsX(from, to) {
			return 0, false
		}
		return from.Y - (to.Y + to.H), true
	case DirDown:
		if to.Y < from.Y+from.H || !overlapsX(from, to) {
			return 0, false
		}
		return to.Y - (from.Y + from.H), true
	case DirLeft:
		if to.X >= from.X || !overlapsY(from, to) {
			return 0, false
		}
		return from.X - (to.X + to.W), true
	case DirRight:
		if to.X < from.X+from.W || !overlapsY(from, to) {
			return 0, false
		}
		return to.X - (from.X + from.W), true
	}
	return 0, false
}

func overlapsX(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W
}

func overlapsY(a, b Rect) bool {
	return a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// Preset is a named layout that ApplyPreset rewrites the tree into while
// preserving leaf identity and the currently active leaf.
type Preset int

const (
	EvenHorizontal Preset = iota
	EvenVertical
	MainHorizontal
	MainVertical
	Tiled
)

var presetOrder = []Preset{EvenHorizontal, EvenVertical, MainHorizontal, MainVertical, Tiled}

// NextPreset returns the preset following p in the cycle order.
func NextPreset(p Preset) Preset {
	for i, v := range presetOrder {
		if v == p {
			return presetOrder[(i+1)%len(presetOrder)]
		}
	}
	return presetOrder[0]
}

// ApplyPreset rewrites root into the given preset, preserving the set of
// pane ids (order follows the tree's current leaf order) and weights reset
// to even splits, except MainHorizontal/MainVertical which give the first
// leaf a larger share.
func ApplyPreset(root *Node, preset Preset) *Node {
	ids := make([]int, 0)
	for _, l := range Leaves(root) {
		ids = append(ids, l.PaneID)
	}
	if len(ids) == 0 {
		return root
	}
	if len(ids) == 1 {
		return Leaf(ids[0])
	}
	switch preset {
	case EvenHorizontal:
		return evenSplit(Horizontal, ids)
	case EvenVertical:
		return evenSplit(Vertical, ids)
	case MainHorizontal:
		return mainSplit(Vertical, Horizontal, ids)
	case MainVertical:
		return mainSplit(Horizontal, Vertical, ids)
	case Tiled:
		return tiledSplit(ids)
	}
	return root
}

func evenSplit(orientation Orientation, ids []int) *Node {
	n := &Node{Orientation: orientation}
	for _, id := range ids {
		n.Children = append(n.Children, Child{Node: Leaf(id), Weight: 1})
	}
	return n
}

// mainSplit builds a "main pane + tiled rest" layout: outer splits along
// outerOrientation into [main, rest]; rest tiles the remaining panes along
// innerOrientation.
func mainSplit(outerOrientation, innerOrientation Orientation, ids []int) *Node {
	main := Leaf(ids[0])
	rest := evenSplit(innerOrientation, ids[1:])
	return &Node{Orientation: outerOrientation, Children: []Child{
		{Node: main, Weight: 2},
		{Node: rest, Weight: 1},
	}}
}

// tiledSplit arranges panes in a grid minimizing the max dimension: cols =
// ceil(sqrt(n)), rows = ceil(n/cols).
func tiledSplit(ids []int) *Node {
	n := len(ids)
	cols := ceilSqrt(n)
	rows := (n + cols - 1) / cols

	outer := &Node{Orientation: Vertical}
	idx := 0
	for r := 0; r < rows && idx < n; r++ {
		remaining := n - idx
		colsThisRow := cols
		if remaining < cols {
			colsThisRow = remaining
		}
		rowNode := &Node{Orientation: Horizontal}
		for c := 0; c < colsThisRow; c++ {
			rowNode.Children = append(rowNode.Children, Child{Node: Leaf(ids[idx]), Weight: 1})
			idx++
		}
		outer.Children = append(outer.Children, Child{Node: rowNode, Weight: 1})
	}
	return outer
}

func ceilSqrt(n int) int {
	c := 1
	for c*c < n {
		c++
	}
	return c
}
