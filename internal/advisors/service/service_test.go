package service

import (
	"context"
	"testing"

	"leadcrm_backend/internal/advisors/repository"
	"leadcrm_backend/platform/apperr"
)

func ptr16(v int16) *int16 { return &v }

type testRepo struct {
	advisors map[int16]repository.Advisor
	groups   map[int16]repository.AdvisorGroup
}

func newTestRepo() *testRepo {
	return &testRepo{
		advisors: map[int16]repository.Advisor{
			1: {ID: 1, GroupID: 1, Name: "Li Na", Status: repository.AdvisorStatusActive},
			2: {ID: 2, GroupID: 1, Name: "Wang Fang", Status: repository.AdvisorStatusOnLeave},
			3: {ID: 3, GroupID: 2, Name: "Chen Jie", Status: repository.AdvisorStatusActive},
			4: {ID: 4, GroupID: 1, Name: "Zhao Lei", Status: repository.AdvisorStatusLeft},
		},
		groups: map[int16]repository.AdvisorGroup{
			1: {ID: 1, Name: "Tele advisors", IsActive: true},
			2: {ID: 2, Name: "AI advisors", IsActive: true},
		},
	}
}

func (r *testRepo) GetAdvisor(_ context.Context, id int16) (repository.Advisor, error) {
	advisor, ok := r.advisors[id]
	if !ok {
		return repository.Advisor{}, repository.ErrAdvisorNotFound
	}
	return advisor, nil
}

func (r *testRepo) GetGroup(_ context.Context, id int16) (repository.AdvisorGroup, error) {
	group, ok := r.groups[id]
	if !ok {
		return repository.AdvisorGroup{}, repository.ErrGroupNotFound
	}
	return group, nil
}

func (r *testRepo) SetGroupLeader(_ context.Context, groupID int16, leaderID *int16) (repository.AdvisorGroup, error) {
	group, ok := r.groups[groupID]
	if !ok {
		return repository.AdvisorGroup{}, repository.ErrGroupNotFound
	}
	group.LeaderID = leaderID
	r.groups[groupID] = group
	return group, nil
}

func TestValidateAssignment(t *testing.T) {
	svc := New(newTestRepo())
	ctx := context.Background()

	cases := []struct {
		name      string
		groupID   *int16
		advisorID *int16
		wantKind  apperr.Kind
	}{
		{"unassigned lead", nil, nil, apperr.KindUnknown},
		{"group only", ptr16(1), nil, apperr.KindUnknown},
		{"active advisor in group", ptr16(1), ptr16(1), apperr.KindUnknown},
		{"advisor without group", nil, ptr16(1), apperr.KindUnknown},
		{"unknown group", ptr16(99), nil, apperr.KindNotFound},
		{"unknown advisor", ptr16(1), ptr16(99), apperr.KindNotFound},
		{"advisor on leave", ptr16(1), ptr16(2), apperr.KindValidation},
		{"advisor who left", ptr16(1), ptr16(4), apperr.KindValidation},
		{"advisor in wrong group", ptr16(1), ptr16(3), apperr.KindValidation},
	}

	for _, tc := range cases {
		err := svc.ValidateAssignment(ctx, tc.groupID, tc.advisorID)
		if tc.wantKind == apperr.KindUnknown {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tc.name, err)
			}
			continue
		}
		if apperr.GetKind(err) != tc.wantKind {
			t.Errorf("%s: kind = %v, want %v; err = %v", tc.name, apperr.GetKind(err), tc.wantKind, err)
		}
	}
}

func TestGetAdvisorNotFound(t *testing.T) {
	svc := New(newTestRepo())

	_, err := svc.GetAdvisor(context.Background(), 99)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("kind = %v, want not found; err = %v", apperr.GetKind(err), err)
	}
}

func TestSetGroupLeader(t *testing.T) {
	svc := New(newTestRepo())
	ctx := context.Background()

	group, err := svc.SetGroupLeader(ctx, 1, ptr16(1))
	if err != nil {
		t.Fatal(err)
	}
	if group.LeaderID == nil || *group.LeaderID != 1 {
		t.Fatalf("leader = %v, want 1", group.LeaderID)
	}

	// Clearing the leader is always allowed.
	group, err = svc.SetGroupLeader(ctx, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if group.LeaderID != nil {
		t.Fatalf("leader = %v, want cleared", group.LeaderID)
	}
}

func TestSetGroupLeaderRequiresMembership(t *testing.T) {
	svc := New(newTestRepo())

	// Advisor 3 belongs to group 2.
	_, err := svc.SetGroupLeader(context.Background(), 1, ptr16(3))
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation; err = %v", apperr.GetKind(err), err)
	}
}
