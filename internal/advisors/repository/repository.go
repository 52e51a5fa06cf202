package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAdvisorNotFound = errors.New("advisor not found")
	ErrGroupNotFound   = errors.New("advisor group not found")
)

// Advisor employment statuses, mirroring the advisors.status column.
const (
	AdvisorStatusLeft    int16 = 0
	AdvisorStatusActive  int16 = 1
	AdvisorStatusOnLeave int16 = 2
)

type Advisor struct {
	ID         int16
	GroupID    int16
	SubGroupID *int16
	Name       string
	Status     int16
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsActive reports whether the advisor can take new leads.
func (a Advisor) IsActive() bool {
	return a.Status == AdvisorStatusActive
}

// AdvisorGroup is reference data; LeaderID is a weak back-reference to a
// member advisor, validated at write time and never cascaded.
type AdvisorGroup struct {
	ID        int16
	Name      string
	LeaderID  *int16
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetAdvisor(ctx context.Context, id int16) (Advisor, error) {
	var advisor Advisor
	err := r.pool.QueryRow(ctx, `
		SELECT id, group_id, sub_group_id, name, status, created_at, updated_at
		FROM advisors WHERE id = $1
	`, id).Scan(&advisor.ID, &advisor.GroupID, &advisor.SubGroupID, &advisor.Name, &advisor.Status, &advisor.CreatedAt, &advisor.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Advisor{}, ErrAdvisorNotFound
	}
	return advisor, err
}

func (r *Repository) GetGroup(ctx context.Context, id int16) (AdvisorGroup, error) {
	var group AdvisorGroup
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, leader_id, is_active, created_at, updated_at
		FROM advisor_groups WHERE id = $1
	`, id).Scan(&group.ID, &group.Name, &group.LeaderID, &group.IsActive, &group.CreatedAt, &group.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AdvisorGroup{}, ErrGroupNotFound
	}
	return group, err
}

func (r *Repository) ListAdvisorsByGroup(ctx context.Context, groupID int16) ([]Advisor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, group_id, sub_group_id, name, status, created_at, updated_at
		FROM advisors WHERE group_id = $1
		ORDER BY id
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	advisors := make([]Advisor, 0)
	for rows.Next() {
		var advisor Advisor
		if err := rows.Scan(&advisor.ID, &advisor.GroupID, &advisor.SubGroupID, &advisor.Name, &advisor.Status, &advisor.CreatedAt, &advisor.UpdatedAt); err != nil {
			return nil, err
		}
		advisors = append(advisors, advisor)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return advisors, nil
}

func (r *Repository) SetGroupLeader(ctx context.Context, groupID int16, leaderID *int16) (AdvisorGroup, error) {
	var group AdvisorGroup
	err := r.pool.QueryRow(ctx, `
		UPDATE advisor_groups SET leader_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, name, leader_id, is_active, created_at, updated_at
	`, groupID, leaderID).Scan(&group.ID, &group.Name, &group.LeaderID, &group.IsActive, &group.CreatedAt, &group.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AdvisorGroup{}, ErrGroupNotFound
	}
	return group, err
}
