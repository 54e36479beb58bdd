package layout

import "testing"

func TestRectsSingleLeaf(t *testing.T) {
	root := Leaf(1)
	rects := Rects(root, Rect{0, 0, 80, 24})
	if rects[1] != (Rect{0, 0, 80, 24}) {
		t.Errorf("rects[1] = %+v", rects[1])
	}
}

func TestRectsEvenHorizontalSplit(t *testing.T) {
	root := NewSplit(Horizontal, Leaf(1), Leaf(2))
	rects := Rects(root, Rect{0, 0, 81, 24})
	r1, r2 := rects[1], rects[2]
	if r1.X != 0 || r1.W != 40 {
		t.Errorf("r1 = %+v, want W=40 at X=0", r1)
	}
	if r2.X != 41 || r2.W != 40 {
		t.Errorf("r2 = %+v, want W=40 at X=41 (after 1-cell border)", r2)
	}
}

func TestMinimumLeafSize(t *testing.T) {
	root := NewSplit(Horizontal, Leaf(1), Leaf(2), Leaf(3))
	rects := Rects(root, Rect{0, 0, 4, 10})
	for id, r := range rects {
		if r.W < 1 {
			t.Errorf("leaf %d has width %d, want >= 1", id, r.W)
		}
	}
}

func TestSplitLeafNests(t *testing.T) {
	root := Leaf(1)
	root, err := SplitLeaf(root, 1, Vertical, 2, true, Rect{0, 0, 80, 24})
	if err != nil {
		t.Fatalf("SplitLeaf: %v", err)
	}
	if root.IsLeaf() || root.Orientation != Vertical {
		t.Fatalf("root = %+v, want vertical split", root)
	}
	ids := leafIDs(root)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("ids = %v, want [1 2]", ids)
	}
}

func TestSplitLeafFlattensSameOrientation(t *testing.T) {
	root := NewSplit(Horizontal, Leaf(1), Leaf(2))
	root, err := SplitLeaf(root, 2, Horizontal, 3, true, Rect{0, 0, 80, 24})
	if err != nil {
		t.Fatalf("SplitLeaf: %v", err)
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected 3-way flat split, got %d children", len(root.Children))
	}
	ids := leafIDs(root)
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("ids = %v, want [1 2 3]", ids)
	}
}

func TestSplitLeafNotFound(t *testing.T) {
	root := Leaf(1)
	if _, err := SplitLeaf(root, 99, Horizontal, 2, true, Rect{0, 0, 80, 24}); err == nil {
		t.Fatalf("expected error for missing pane")
	}
}

func TestSplitLeafRefusesWhenTooSmall(t *testing.T) {
	root := Leaf(1)
	root, err := SplitLeaf(root, 1, Horizontal, 2, true, Rect{0, 0, 2, 2})
	if err == nil {
		t.Fatalf("expected split of a 2x2 area to be refused, got tree %+v", root)
	}
	if !root.IsLeaf() || root.PaneID != 1 {
		t.Fatalf("root should be unchanged on refusal, got %+v", root)
	}
}

func TestSplitLeafSkipsCheckWithZeroArea(t *testing.T) {
	root := Leaf(1)
	root, err := SplitLeaf(root, 1, Horizontal, 2, true, Rect{})
	if err != nil {
		t.Fatalf("expected zero area to skip the feasibility check: %v", err)
	}
	if root.IsLeaf() {
		t.Fatalf("expected a split")
	}
}

func TestRemoveLeafFlattensTwoChildren(t *testing.T) {
	root := NewSplit(Horizontal, Leaf(1), Leaf(2))
	root, err := RemoveLeaf(root, 1)
	if err != nil {
		t.Fatalf("RemoveLeaf: %v", err)
	}
	if !root.IsLeaf() || root.PaneID != 2 {
		t.Fatalf("root = %+v, want leaf 2", root)
	}
}

func TestRemoveLeafDropsFromNWay(t *testing.T) {
	root := NewSplit(Horizontal, Leaf(1), Leaf(2), Leaf(3))
	root, err := RemoveLeaf(root, 2)
	if err != nil {
		t.Fatalf("RemoveLeaf: %v", err)
	}
	ids := leafIDs(root)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("ids = %v, want [1 3]", ids)
	}
}

func TestRemoveOnlyLeafYieldsNil(t *testing.T) {
	root := Leaf(1)
	root, err := RemoveLeaf(root, 1)
	if err != nil {
		t.Fatalf("RemoveLeaf: %v", err)
	}
	if root != nil {
		t.Errorf("root = %+v, want nil", root)
	}
}

func TestSwapExchangesPaneIDs(t *testing.T) {
	root := NewSplit(Horizontal, Leaf(1), Leaf(2))
	root, err := Swap(root, 1, 2)
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	ids := leafIDs(root)
	if ids[0] != 2 || ids[1] != 1 {
		t.Errorf("ids = %v, want [2 1]", ids)
	}
}

func TestResizeShiftsWeights(t *testing.T) {
	root := NewSplit(Horizontal, Leaf(1), Leaf(2))
	root, err := Resize(root, 1, 80, 10)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if root.Children[0].Weight <= root.Children[1].Weight {
		t.Errorf("expected leaf 1 to have grown: %+v", root.Children)
	}
}

func TestResizeClampsToMinimum(t *testing.T) {
	root := NewSplit(Horizontal, Leaf(1), Leaf(2))
	root, err := Resize(root, 1, 80, -1000)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if root.Children[0].Weight < 1 || root.Children[1].Weight < 1 {
		t.Errorf("weights went below 1: %+v", root.Children)
	}
}

func TestNavigateRight(t *testing.T) {
	root := NewSplit(Horizontal, Leaf(1), Leaf(2))
	id, ok := Navigate(root, Rect{0, 0, 81, 24}, 1, DirRight, nil)
	if !ok || id != 2 {
		t.Errorf("Navigate(right) = %d, %v, want 2, true", id, ok)
	}
}

func TestNavigateNoNeighbor(t *testing.T) {
	root := NewSplit(Horizontal, Leaf(1), Leaf(2))
	_, ok := Navigate(root, Rect{0, 0, 81, 24}, 1, DirLeft, nil)
	if ok {
		t.Errorf("expected no neighbor to the left of the leftmost pane")
	}
}

func TestApplyPresetTiled(t *testing.T) {
	root := NewSplit(Horizontal, Leaf(1), Leaf(2), Leaf(3), Leaf(4))
	root = ApplyPreset(root, Tiled)
	ids := leafIDs(root)
	if len(ids) != 4 {
		t.Fatalf("ids = %v, want 4 panes preserved", ids)
	}
}

func TestNextPresetCyclesAndWraps(t *testing.T) {
	p := Tiled
	next := NextPreset(p)
	if next != EvenHorizontal {
		t.Errorf("NextPreset(Tiled) = %v, want EvenHorizontal (wraps)", next)
	}
}

func leafIDs(n *Node) []int {
	var ids []int
	for _, l := range Leaves(n) {
		ids = append(ids, l.PaneID)
	}
	return ids
}
