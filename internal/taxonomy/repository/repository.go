package repository

import (
	"context"
	"errors"
	"fmt"

	"leadcrm_backend/internal/taxonomy"
	"leadcrm_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("status node not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAll returns every status node across all dimensions.
func (r *Repository) ListAll(ctx context.Context) ([]taxonomy.Node, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, dimension, code, name, parent_id, sort_order, is_active
		FROM status_nodes
		ORDER BY dimension, sort_order, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := make([]taxonomy.Node, 0)
	for rows.Next() {
		var node taxonomy.Node
		if err := rows.Scan(&node.ID, &node.Dimension, &node.Code, &node.Name, &node.ParentID, &node.SortOrder, &node.IsActive); err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return nodes, nil
}

// GetByID returns one node of a dimension.
func (r *Repository) GetByID(ctx context.Context, dimension taxonomy.Dimension, id int16) (taxonomy.Node, error) {
	var node taxonomy.Node
	err := r.pool.QueryRow(ctx, `
		SELECT id, dimension, code, name, parent_id, sort_order, is_active
		FROM status_nodes
		WHERE dimension = $1 AND id = $2
	`, dimension, id).Scan(&node.ID, &node.Dimension, &node.Code, &node.Name, &node.ParentID, &node.SortOrder, &node.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return taxonomy.Node{}, ErrNotFound
	}
	return node, err
}

type CreateNodeParams struct {
	Dimension taxonomy.Dimension
	Code      string
	Name      string
	ParentID  *int16
	SortOrder int16
}

// Create inserts a new status node. Node ids are small and per-dimension,
// so the next id is taken from the dimension's current maximum inside the
// insert statement. Two concurrent creators can compute the same id; the
// loser's primary-key violation (or a duplicate code) surfaces as a
// conflict the caller can retry.
func (r *Repository) Create(ctx context.Context, params CreateNodeParams) (taxonomy.Node, error) {
	var node taxonomy.Node
	err := r.pool.QueryRow(ctx, `
		INSERT INTO status_nodes (id, dimension, code, name, parent_id, sort_order, is_active)
		SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3, $4, $5, true
		FROM status_nodes WHERE dimension = $1
		RETURNING id, dimension, code, name, parent_id, sort_order, is_active
	`, params.Dimension, params.Code, params.Name, params.ParentID, params.SortOrder).Scan(
		&node.ID, &node.Dimension, &node.Code, &node.Name, &node.ParentID, &node.SortOrder, &node.IsActive,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return taxonomy.Node{}, apperr.Conflict(fmt.Sprintf("status node %q lost a concurrent create in dimension %q", params.Code, params.Dimension))
		}
		return taxonomy.Node{}, err
	}
	return node, nil
}

// SetActive flips the soft-disable flag of a node.
func (r *Repository) SetActive(ctx context.Context, dimension taxonomy.Dimension, id int16, active bool) (taxonomy.Node, error) {
	var node taxonomy.Node
	err := r.pool.QueryRow(ctx, `
		UPDATE status_nodes SET is_active = $3, updated_at = now()
		WHERE dimension = $1 AND id = $2
		RETURNING id, dimension, code, name, parent_id, sort_order, is_active
	`, dimension, id, active).Scan(&node.ID, &node.Dimension, &node.Code, &node.Name, &node.ParentID, &node.SortOrder, &node.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return taxonomy.Node{}, ErrNotFound
	}
	return node, err
}
