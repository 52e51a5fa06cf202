// Package service implements taxonomy operations: snapshot access for the
// transition hot path and the administrative node edits that happen outside
// of it.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"leadcrm_backend/internal/taxonomy"
	"leadcrm_backend/internal/taxonomy/repository"
	"leadcrm_backend/platform/apperr"
	"leadcrm_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// Repository defines the data access interface needed by the taxonomy service.
type Repository interface {
	ListAll(ctx context.Context) ([]taxonomy.Node, error)
	GetByID(ctx context.Context, dimension taxonomy.Dimension, id int16) (taxonomy.Node, error)
	Create(ctx context.Context, params repository.CreateNodeParams) (taxonomy.Node, error)
	SetActive(ctx context.Context, dimension taxonomy.Dimension, id int16, active bool) (taxonomy.Node, error)
}

// SnapshotCache is the shared cache for the raw node list. Implementations
// may be absent (nil) in single-instance deployments.
type SnapshotCache interface {
	Get(ctx context.Context) ([]taxonomy.Node, bool, error)
	Set(ctx context.Context, nodes []taxonomy.Node) error
	Invalidate(ctx context.Context) error
}

type snapshotEntry struct {
	snap      *taxonomy.Snapshot
	expiresAt time.Time
}

// Service serves taxonomy reads from an in-process snapshot, refreshed from
// the shared cache or the database when stale, and handles admin edits.
type Service struct {
	repo  Repository
	cache SnapshotCache
	log   *logger.Logger
	ttl   time.Duration

	current atomic.Pointer[snapshotEntry]
	loads   singleflight.Group
}

// New creates a new taxonomy service. cache may be nil.
func New(repo Repository, cache SnapshotCache, log *logger.Logger, ttl time.Duration) *Service {
	return &Service{repo: repo, cache: cache, log: log, ttl: ttl}
}

// Snapshot returns the current taxonomy snapshot. Concurrent refreshes are
// collapsed into a single load.
func (s *Service) Snapshot(ctx context.Context) (*taxonomy.Snapshot, error) {
	if entry := s.current.Load(); entry != nil && time.Now().Before(entry.expiresAt) {
		return entry.snap, nil
	}

	v, err, _ := s.loads.Do("snapshot", func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		// Serve the stale snapshot rather than failing reads when the
		// backing store is briefly unavailable.
		if entry := s.current.Load(); entry != nil {
			return entry.snap, nil
		}
		return nil, err
	}
	return v.(*taxonomy.Snapshot), nil
}

func (s *Service) load(ctx context.Context) (*taxonomy.Snapshot, error) {
	nodes, ok := s.loadFromCache(ctx)
	if !ok {
		var err error
		nodes, err = s.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, nodes); err != nil {
				s.log.Warn("taxonomy cache write failed", "error", err)
			}
		}
	}

	snap := taxonomy.NewSnapshot(nodes)
	s.current.Store(&snapshotEntry{snap: snap, expiresAt: time.Now().Add(s.ttl)})
	return snap, nil
}

func (s *Service) loadFromCache(ctx context.Context) ([]taxonomy.Node, bool) {
	if s.cache == nil {
		return nil, false
	}
	nodes, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warn("taxonomy cache read failed", "error", err)
		return nil, false
	}
	if !ok {
		s.log.CacheMiss("taxonomy:nodes")
		return nil, false
	}
	return nodes, true
}

// Resolve looks up a node by code within a dimension.
func (s *Service) Resolve(ctx context.Context, dimension taxonomy.Dimension, code string) (taxonomy.Node, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return taxonomy.Node{}, err
	}
	node, ok := snap.NodeByCode(dimension, code)
	if !ok {
		return taxonomy.Node{}, apperr.NotFound(fmt.Sprintf("status code %q not found in dimension %q", code, dimension))
	}
	return node, nil
}

// ResolveID looks up a node by id within a dimension.
func (s *Service) ResolveID(ctx context.Context, dimension taxonomy.Dimension, id int16) (taxonomy.Node, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return taxonomy.Node{}, err
	}
	node, ok := snap.Node(dimension, id)
	if !ok {
		return taxonomy.Node{}, apperr.NotFound(fmt.Sprintf("status id %d not found in dimension %q", id, dimension))
	}
	return node, nil
}

// Children returns the ordered sub-statuses of a main status.
func (s *Service) Children(ctx context.Context, dimension taxonomy.Dimension, rootID int16) ([]taxonomy.Node, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Children(dimension, rootID), nil
}

// IsValidPair reports whether (mainID, subID) is a consistent pair.
func (s *Service) IsValidPair(ctx context.Context, dimension taxonomy.Dimension, mainID int16, subID *int16) (bool, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return snap.IsValidPair(dimension, mainID, subID), nil
}

// AddNodeParams describes a new status node.
type AddNodeParams struct {
	Dimension taxonomy.Dimension
	Code      string
	Name      string
	ParentID  *int16
	SortOrder int16
}

// AddNode creates a status node. Administrative path, off the transition
// hot path. Rejects parents that are themselves sub-statuses so the
// hierarchy never exceeds two levels.
func (s *Service) AddNode(ctx context.Context, params AddNodeParams) (taxonomy.Node, error) {
	if !params.Dimension.IsMutable() && params.Dimension != taxonomy.DimensionLeadCategory {
		return taxonomy.Node{}, apperr.Validation(fmt.Sprintf("unknown dimension %q", params.Dimension))
	}
	if params.Code == "" || params.Name == "" {
		return taxonomy.Node{}, apperr.Validation("code and name are required")
	}

	if params.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, params.Dimension, *params.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return taxonomy.Node{}, apperr.NotFound(fmt.Sprintf("parent status %d not found in dimension %q", *params.ParentID, params.Dimension))
			}
			return taxonomy.Node{}, err
		}
		if !parent.IsRoot() {
			return taxonomy.Node{}, apperr.Validation("parent must be a main status; sub-statuses cannot have children")
		}
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return taxonomy.Node{}, err
	}
	if _, exists := snap.NodeByCode(params.Dimension, params.Code); exists {
		return taxonomy.Node{}, apperr.Conflict(fmt.Sprintf("status code %q already exists in dimension %q", params.Code, params.Dimension))
	}

	node, err := s.repo.Create(ctx, repository.CreateNodeParams{
		Dimension: params.Dimension,
		Code:      params.Code,
		Name:      params.Name,
		ParentID:  params.ParentID,
		SortOrder: params.SortOrder,
	})
	if err != nil {
		return taxonomy.Node{}, err
	}

	s.invalidate(ctx)
	return node, nil
}

// DisableNode soft-disables a node. Existing leads keep referencing it;
// only new writes are rejected. Children of a disabled root stay active
// until disabled themselves.
func (s *Service) DisableNode(ctx context.Context, dimension taxonomy.Dimension, id int16) (taxonomy.Node, error) {
	return s.setActive(ctx, dimension, id, false)
}

// EnableNode re-enables a soft-disabled node.
func (s *Service) EnableNode(ctx context.Context, dimension taxonomy.Dimension, id int16) (taxonomy.Node, error) {
	return s.setActive(ctx, dimension, id, true)
}

func (s *Service) setActive(ctx context.Context, dimension taxonomy.Dimension, id int16, active bool) (taxonomy.Node, error) {
	node, err := s.repo.SetActive(ctx, dimension, id, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return taxonomy.Node{}, apperr.NotFound(fmt.Sprintf("status id %d not found in dimension %q", id, dimension))
		}
		return taxonomy.Node{}, err
	}

	s.invalidate(ctx)
	return node, nil
}

func (s *Service) invalidate(ctx context.Context) {
	s.current.Store(nil)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("taxonomy cache invalidation failed", "error", err)
		}
	}
}
