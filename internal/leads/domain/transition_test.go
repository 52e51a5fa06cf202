package domain

import (
	"errors"
	"testing"

	"leadcrm_backend/internal/taxonomy"
)

func ptr16(v int16) *int16 { return &v }

// snapshotFixture builds one call-dimension hierarchy:
//
//	1 UNCONTACTED
//	2 ANSWERED    -> 3 HAS_DEMAND, 4 NO_DEMAND (inactive)
//	5 DISABLED    (inactive root)
//	6 UNANSWERED  -> 7 BUSY
func snapshotFixture() *taxonomy.Snapshot {
	return taxonomy.NewSnapshot([]taxonomy.Node{
		{ID: 1, Dimension: taxonomy.DimensionCall, Code: "UNCONTACTED", IsActive: true},
		{ID: 2, Dimension: taxonomy.DimensionCall, Code: "ANSWERED", IsActive: true},
		{ID: 3, Dimension: taxonomy.DimensionCall, Code: "HAS_DEMAND", ParentID: ptr16(2), IsActive: true},
		{ID: 4, Dimension: taxonomy.DimensionCall, Code: "NO_DEMAND", ParentID: ptr16(2), IsActive: false},
		{ID: 5, Dimension: taxonomy.DimensionCall, Code: "DISABLED", IsActive: false},
		{ID: 6, Dimension: taxonomy.DimensionCall, Code: "UNANSWERED", IsActive: true},
		{ID: 7, Dimension: taxonomy.DimensionCall, Code: "BUSY", ParentID: ptr16(6), IsActive: true},
	})
}

func TestCheckTransition(t *testing.T) {
	snap := snapshotFixture()

	cases := []struct {
		name       string
		dimension  taxonomy.Dimension
		main       int16
		sub        *int16
		wantReason Reason
	}{
		{"main only", taxonomy.DimensionCall, 2, nil, ""},
		{"main with child", taxonomy.DimensionCall, 2, ptr16(3), ""},
		{"immutable dimension", taxonomy.DimensionLeadCategory, 1, nil, ReasonDimensionUnknown},
		{"empty dimension", taxonomy.DimensionWechat, 1, nil, ReasonDimensionUnknown},
		{"unknown main", taxonomy.DimensionCall, 99, nil, ReasonNodeNotFound},
		{"sub-status as main", taxonomy.DimensionCall, 3, nil, ReasonNodeNotFound},
		{"disabled main", taxonomy.DimensionCall, 5, nil, ReasonNodeInactive},
		{"unknown sub", taxonomy.DimensionCall, 2, ptr16(99), ReasonNodeNotFound},
		{"sub of another main", taxonomy.DimensionCall, 2, ptr16(7), ReasonSubParentMismatch},
		{"root as sub", taxonomy.DimensionCall, 2, ptr16(1), ReasonSubParentMismatch},
		{"disabled sub", taxonomy.DimensionCall, 2, ptr16(4), ReasonNodeInactive},
	}

	for _, tc := range cases {
		err := CheckTransition(snap, tc.dimension, tc.main, tc.sub)
		if tc.wantReason == "" {
			if err != nil {
				t.Errorf("%s: unexpected rejection: %v", tc.name, err)
			}
			continue
		}

		var terr *TransitionError
		if !errors.As(err, &terr) {
			t.Errorf("%s: error %v is not a TransitionError", tc.name, err)
			continue
		}
		if terr.Reason != tc.wantReason {
			t.Errorf("%s: reason = %s, want %s", tc.name, terr.Reason, tc.wantReason)
		}
		if terr.Dimension != tc.dimension {
			t.Errorf("%s: dimension = %s, want %s", tc.name, terr.Dimension, tc.dimension)
		}
	}
}

func TestCheckTransitionRejectionFields(t *testing.T) {
	snap := snapshotFixture()

	err := CheckTransition(snap, taxonomy.DimensionCall, 2, ptr16(7))
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if terr.Field != "call_sub_status_id" {
		t.Errorf("Field = %q, want call_sub_status_id", terr.Field)
	}
	if terr.Value != int16(7) {
		t.Errorf("Value = %v, want 7", terr.Value)
	}
}

func TestResolveTarget(t *testing.T) {
	cases := []struct {
		name        string
		old         StatusPair
		newMain     int16
		newSub      *int16
		subSupplied bool
		want        StatusPair
	}{
		{
			name:        "explicit sub wins",
			old:         StatusPair{MainID: ptr16(2), SubID: ptr16(3)},
			newMain:     2,
			newSub:      ptr16(4),
			subSupplied: true,
			want:        StatusPair{MainID: ptr16(2), SubID: ptr16(4)},
		},
		{
			name:        "explicit null clears even with unchanged main",
			old:         StatusPair{MainID: ptr16(2), SubID: ptr16(3)},
			newMain:     2,
			newSub:      nil,
			subSupplied: true,
			want:        StatusPair{MainID: ptr16(2)},
		},
		{
			name:    "omitted sub carried while main unchanged",
			old:     StatusPair{MainID: ptr16(2), SubID: ptr16(3)},
			newMain: 2,
			want:    StatusPair{MainID: ptr16(2), SubID: ptr16(3)},
		},
		{
			name:    "main move without sub clears the sub",
			old:     StatusPair{MainID: ptr16(2), SubID: ptr16(3)},
			newMain: 6,
			want:    StatusPair{MainID: ptr16(6)},
		},
		{
			name:    "unset dimension gets no carried sub",
			old:     StatusPair{},
			newMain: 2,
			want:    StatusPair{MainID: ptr16(2)},
		},
	}

	for _, tc := range cases {
		got := ResolveTarget(tc.old, tc.newMain, tc.newSub, tc.subSupplied)
		if !got.Equal(tc.want) {
			t.Errorf("%s: ResolveTarget = {%v %v}, want {%v %v}",
				tc.name, fmtPtr(got.MainID), fmtPtr(got.SubID), fmtPtr(tc.want.MainID), fmtPtr(tc.want.SubID))
		}
	}
}

func TestStatusPairEqual(t *testing.T) {
	a := StatusPair{MainID: ptr16(2), SubID: ptr16(3)}
	b := StatusPair{MainID: ptr16(2), SubID: ptr16(3)}
	if !a.Equal(b) {
		t.Error("pairs with equal values are not Equal")
	}
	if a.Equal(StatusPair{MainID: ptr16(2)}) {
		t.Error("pair with sub equals pair without sub")
	}
	if !(StatusPair{}).Equal(StatusPair{}) {
		t.Error("two unset pairs are not Equal")
	}
}

func fmtPtr(v *int16) interface{} {
	if v == nil {
		return "<nil>"
	}
	return *v
}
