package taxonomy

import "testing"

func ptr16(v int16) *int16 { return &v }

// testNodes builds a small call-dimension hierarchy:
//
//	1 UNCONTACTED
//	2 ANSWERED      -> 3 HAS_DEMAND, 4 NO_DEMAND (inactive)
//	5 UNANSWERED    -> 6 BUSY
func testNodes() []Node {
	return []Node{
		{ID: 1, Dimension: DimensionCall, Code: "UNCONTACTED", Name: "Not contacted", SortOrder: 1, IsActive: true},
		{ID: 2, Dimension: DimensionCall, Code: "ANSWERED", Name: "Answered", SortOrder: 2, IsActive: true},
		{ID: 3, Dimension: DimensionCall, Code: "HAS_DEMAND", Name: "Has demand", ParentID: ptr16(2), SortOrder: 2, IsActive: true},
		{ID: 4, Dimension: DimensionCall, Code: "NO_DEMAND", Name: "No demand", ParentID: ptr16(2), SortOrder: 1, IsActive: false},
		{ID: 5, Dimension: DimensionCall, Code: "UNANSWERED", Name: "Unanswered", SortOrder: 3, IsActive: true},
		{ID: 6, Dimension: DimensionCall, Code: "BUSY", Name: "Busy", ParentID: ptr16(5), SortOrder: 1, IsActive: true},
	}
}

func TestParseDimension(t *testing.T) {
	for _, d := range StatusDimensions() {
		got, ok := ParseDimension(string(d))
		if !ok || got != d {
			t.Errorf("ParseDimension(%q) = (%q, %v), want (%q, true)", d, got, ok, d)
		}
	}

	if _, ok := ParseDimension("lead_category"); ok {
		t.Error("ParseDimension accepted lead_category; categories must not be reachable as a status dimension")
	}
	if _, ok := ParseDimension("no_such_dimension"); ok {
		t.Error("ParseDimension accepted an unknown dimension")
	}
}

func TestDimensionFields(t *testing.T) {
	if got := DimensionCall.StatusField(); got != "call_status_id" {
		t.Errorf("StatusField = %q, want call_status_id", got)
	}
	if got := DimensionPrivateDomainReview.SubStatusField(); got != "private_domain_review_sub_status_id" {
		t.Errorf("SubStatusField = %q, want private_domain_review_sub_status_id", got)
	}
	if DimensionLeadCategory.IsMutable() {
		t.Error("lead_category must not be mutable")
	}
}

func TestSnapshotLookups(t *testing.T) {
	snap := NewSnapshot(testNodes())

	if !snap.HasDimension(DimensionCall) {
		t.Fatal("HasDimension(call) = false")
	}
	if snap.HasDimension(DimensionWechat) {
		t.Fatal("HasDimension(wechat) = true for an empty dimension")
	}

	node, ok := snap.Node(DimensionCall, 2)
	if !ok || node.Code != "ANSWERED" {
		t.Fatalf("Node(call, 2) = (%+v, %v), want ANSWERED", node, ok)
	}
	if _, ok := snap.Node(DimensionCall, 99); ok {
		t.Error("Node(call, 99) found a nonexistent node")
	}

	byCode, ok := snap.NodeByCode(DimensionCall, "BUSY")
	if !ok || byCode.ID != 6 {
		t.Fatalf("NodeByCode(call, BUSY) = (%+v, %v), want id 6", byCode, ok)
	}
}

func TestSnapshotChildrenOrdering(t *testing.T) {
	snap := NewSnapshot(testNodes())

	kids := snap.Children(DimensionCall, 2)
	if len(kids) != 2 {
		t.Fatalf("Children(call, 2) returned %d nodes, want 2", len(kids))
	}
	// sort_order wins over id: NO_DEMAND (id 4, order 1) before HAS_DEMAND (id 3, order 2).
	if kids[0].ID != 4 || kids[1].ID != 3 {
		t.Errorf("Children order = [%d, %d], want [4, 3]", kids[0].ID, kids[1].ID)
	}

	if kids := snap.Children(DimensionCall, 1); len(kids) != 0 {
		t.Errorf("Children of a leaf root returned %d nodes", len(kids))
	}
	// A child id is never a valid root for Children.
	if kids := snap.Children(DimensionCall, 3); len(kids) != 0 {
		t.Errorf("Children of a sub-status returned %d nodes", len(kids))
	}
}

func TestSnapshotRoots(t *testing.T) {
	snap := NewSnapshot(testNodes())

	roots := snap.Roots(DimensionCall)
	if len(roots) != 3 {
		t.Fatalf("Roots returned %d nodes, want 3", len(roots))
	}
	want := []int16{1, 2, 5}
	for i, root := range roots {
		if root.ID != want[i] {
			t.Errorf("Roots[%d].ID = %d, want %d", i, root.ID, want[i])
		}
	}
}

func TestSnapshotIsValidPair(t *testing.T) {
	snap := NewSnapshot(testNodes())

	cases := []struct {
		name string
		main int16
		sub  *int16
		want bool
	}{
		{"main only", 2, nil, true},
		{"main with own child", 2, ptr16(3), true},
		{"sub of another main", 2, ptr16(6), false},
		{"sub as main", 3, nil, true},
		{"root as sub", 2, ptr16(1), false},
		{"unknown main", 99, nil, false},
		{"unknown sub", 2, ptr16(99), false},
	}

	for _, tc := range cases {
		if got := snap.IsValidPair(DimensionCall, tc.main, tc.sub); got != tc.want {
			t.Errorf("%s: IsValidPair = %v, want %v", tc.name, got, tc.want)
		}
	}
}
