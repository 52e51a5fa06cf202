// Package service exposes the advisor directory: reference data the lead
// engine validates assignment against. Business rules such as group
// capacity belong to the external assignment service, not here.
package service

import (
	"context"
	"errors"
	"fmt"

	"leadcrm_backend/internal/advisors/repository"
	"leadcrm_backend/platform/apperr"
)

// Repository defines the data access interface needed by the directory service.
type Repository interface {
	GetAdvisor(ctx context.Context, id int16) (repository.Advisor, error)
	GetGroup(ctx context.Context, id int16) (repository.AdvisorGroup, error)
	SetGroupLeader(ctx context.Context, groupID int16, leaderID *int16) (repository.AdvisorGroup, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetAdvisor returns one advisor.
func (s *Service) GetAdvisor(ctx context.Context, id int16) (repository.Advisor, error) {
	advisor, err := s.repo.GetAdvisor(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAdvisorNotFound) {
			return repository.Advisor{}, apperr.NotFound(fmt.Sprintf("advisor %d not found", id))
		}
		return repository.Advisor{}, err
	}
	return advisor, nil
}

// GetGroup returns one advisor group.
func (s *Service) GetGroup(ctx context.Context, id int16) (repository.AdvisorGroup, error) {
	group, err := s.repo.GetGroup(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return repository.AdvisorGroup{}, apperr.NotFound(fmt.Sprintf("advisor group %d not found", id))
		}
		return repository.AdvisorGroup{}, err
	}
	return group, nil
}

// ValidateAssignment checks that the referenced group and advisor exist,
// that the advisor is active, and that both belong together when both are
// given. Either reference may be nil (public-pool leads are unassigned).
func (s *Service) ValidateAssignment(ctx context.Context, groupID, advisorID *int16) error {
	var group repository.AdvisorGroup
	if groupID != nil {
		var err error
		group, err = s.GetGroup(ctx, *groupID)
		if err != nil {
			return err
		}
	}

	if advisorID == nil {
		return nil
	}

	advisor, err := s.GetAdvisor(ctx, *advisorID)
	if err != nil {
		return err
	}
	if !advisor.IsActive() {
		return apperr.Validation(fmt.Sprintf("advisor %d is not active", advisor.ID))
	}
	if groupID != nil && advisor.GroupID != group.ID {
		return apperr.Validation(fmt.Sprintf("advisor %d does not belong to group %d", advisor.ID, group.ID))
	}

	return nil
}

// SetGroupLeader points a group's leader reference at one of its members.
func (s *Service) SetGroupLeader(ctx context.Context, groupID int16, leaderID *int16) (repository.AdvisorGroup, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return repository.AdvisorGroup{}, err
	}

	if leaderID != nil {
		leader, err := s.GetAdvisor(ctx, *leaderID)
		if err != nil {
			return repository.AdvisorGroup{}, err
		}
		if leader.GroupID != group.ID {
			return repository.AdvisorGroup{}, apperr.Validation(fmt.Sprintf("advisor %d is not a member of group %d", leader.ID, group.ID))
		}
	}

	updated, err := s.repo.SetGroupLeader(ctx, groupID, leaderID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return repository.AdvisorGroup{}, apperr.NotFound(fmt.Sprintf("advisor group %d not found", groupID))
		}
		return repository.AdvisorGroup{}, err
	}
	return updated, nil
}
