package service

import (
	"context"
	"errors"
	"fmt"

	"leadcrm_backend/internal/events"
	"leadcrm_backend/internal/leads/domain"
	"leadcrm_backend/internal/leads/repository"
	"leadcrm_backend/internal/leads/transport"
	"leadcrm_backend/internal/taxonomy"
	"leadcrm_backend/platform/apperr"
)

// Operation tags recorded on ledger entries.
const (
	opStatusChange = "status_change"
	opCallOutcome  = "call_outcome"
)

// ScheduleStatusScheduled is the schedule-dimension main status whose entry
// bumps the lead's schedule counter.
const ScheduleStatusScheduled = "SCHEDULED"

// ApplyStatusChange is the sole mutation entry point for the six status
// dimensions. The whole read-validate-write-log sequence runs inside the
// lead's critical section; requests for different leads never contend.
//
// An identical target is admitted as a no-op and leaves the ledger
// untouched. A rejected transition mutates nothing and carries a
// reason-coded domain error retrievable with errors.As.
func (s *Service) ApplyStatusChange(ctx context.Context, leadID int64, req transport.StatusChangeRequest) (transport.LeadResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindValidation, "invalid status change request", err)
	}

	dimension, ok := taxonomy.ParseDimension(req.Dimension)
	if !ok {
		terr := &domain.TransitionError{
			Reason:    domain.ReasonDimensionUnknown,
			Dimension: taxonomy.Dimension(req.Dimension),
			Message:   fmt.Sprintf("%q is not a status dimension", req.Dimension),
		}
		return transport.LeadResponse{}, s.reject(leadID, terr)
	}

	s.locks.Lock(leadID)
	defer s.locks.Unlock(leadID)

	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	old := lead.StatusPair(dimension)
	target := domain.ResolveTarget(old, req.NewStatusID, req.NewSubStatusID.Value, req.NewSubStatusID.Set)
	if target.Equal(old) {
		return ToLeadResponse(lead), nil
	}

	snap, err := s.taxo.Snapshot(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if err := domain.CheckTransition(snap, dimension, *target.MainID, target.SubID); err != nil {
		var terr *domain.TransitionError
		if errors.As(err, &terr) {
			return transport.LeadResponse{}, s.reject(leadID, terr)
		}
		return transport.LeadResponse{}, err
	}

	updated, entry, changed, err := s.repo.ApplyStatusUpdate(ctx, leadID, repository.StatusUpdate{
		Dimension:         dimension,
		Target:            target,
		ActorID:           req.ActorID,
		Operation:         opStatusChange,
		Note:              req.Note,
		BumpScheduleTimes: s.entersSchedule(snap, dimension, old, target),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	if changed {
		s.publishStatusChanged(ctx, dimension, old, entry)
		s.log.StatusTransition(leadID, string(dimension), old.MainID, target.MainID, entry.ID)
	}

	return ToLeadResponse(updated), nil
}

// ApplyCallOutcome maps a terminal call outcome onto the call dimension and
// updates the contact counters in the same transaction and the same
// critical section, so a concurrent status edit can never interleave
// between the status write and the counter update.
func (s *Service) ApplyCallOutcome(ctx context.Context, leadID int64, req transport.CallOutcomeRequest) (transport.LeadResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindValidation, "invalid call outcome request", err)
	}

	classification, err := domain.ClassifyCallOutcome(domain.CallOutcome(req.Outcome))
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindValidation, "invalid call outcome", err)
	}

	snap, err := s.taxo.Snapshot(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	main, ok := snap.NodeByCode(taxonomy.DimensionCall, classification.MainCode)
	if !ok {
		return transport.LeadResponse{}, apperr.Internal(fmt.Sprintf("call status %s is not seeded", classification.MainCode))
	}
	var subID *int16
	if classification.SubCode != "" {
		sub, ok := snap.NodeByCode(taxonomy.DimensionCall, classification.SubCode)
		if !ok {
			return transport.LeadResponse{}, apperr.Internal(fmt.Sprintf("call sub-status %s is not seeded", classification.SubCode))
		}
		subID = &sub.ID
	}

	s.locks.Lock(leadID)
	defer s.locks.Unlock(leadID)

	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	old := lead.StatusPair(taxonomy.DimensionCall)
	target := domain.StatusPair{MainID: &main.ID, SubID: subID}

	if err := domain.CheckTransition(snap, taxonomy.DimensionCall, main.ID, subID); err != nil {
		var terr *domain.TransitionError
		if errors.As(err, &terr) {
			return transport.LeadResponse{}, s.reject(leadID, terr)
		}
		return transport.LeadResponse{}, err
	}

	updated, entry, changed, err := s.repo.ApplyStatusUpdate(ctx, leadID, repository.StatusUpdate{
		Dimension: taxonomy.DimensionCall,
		Target:    target,
		ActorID:   req.ActorID,
		Operation: opCallOutcome,
		Note:      req.Note,
		Contact: &repository.ContactUpdate{
			Reached:      classification.Reached,
			CallRecordID: req.CallRecordID,
			OccurredAt:   req.OccurredAt,
		},
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	if changed {
		s.publishStatusChanged(ctx, taxonomy.DimensionCall, old, entry)
		s.log.StatusTransition(leadID, string(taxonomy.DimensionCall), old.MainID, target.MainID, entry.ID)
	}

	s.bus.Publish(ctx, events.CallOutcomeRecorded{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       leadID,
		Outcome:      req.Outcome,
		Reached:      classification.Reached,
		FailedCount:  updated.AnalysisFailedRecords,
		CallRecordID: req.CallRecordID,
		CallTime:     req.OccurredAt,
	})

	return ToLeadResponse(updated), nil
}

// entersSchedule reports whether the change newly moves the schedule
// dimension onto the scheduled main status.
func (s *Service) entersSchedule(snap *taxonomy.Snapshot, dimension taxonomy.Dimension, old, target domain.StatusPair) bool {
	if dimension != taxonomy.DimensionSchedule || target.MainID == nil {
		return false
	}
	if old.MainID != nil && *old.MainID == *target.MainID {
		return false
	}
	node, ok := snap.Node(dimension, *target.MainID)
	return ok && node.Code == ScheduleStatusScheduled
}

func (s *Service) publishStatusChanged(ctx context.Context, dimension taxonomy.Dimension, old domain.StatusPair, entry repository.StatusLogEntry) {
	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      entry.LeadID,
		Dimension:   string(dimension),
		OldStatusID: old.MainID,
		NewStatusID: entry.NewValue,
		OldSubID:    old.SubID,
		NewSubID:    entry.SubNewValue,
		ActorID:     entry.AdvisorID,
		LogEntryID:  entry.ID,
	})
}

// reject wraps a reason-coded transition error so the original remains
// reachable with errors.As while generic callers see a validation error
// with structured details.
func (s *Service) reject(leadID int64, terr *domain.TransitionError) error {
	s.log.TransitionRejected(leadID, string(terr.Dimension), string(terr.Reason))

	kind := apperr.KindValidation
	if terr.Reason == domain.ReasonNodeNotFound || terr.Reason == domain.ReasonDimensionUnknown {
		kind = apperr.KindNotFound
	}
	return apperr.Wrap(kind, "transition rejected", terr).WithDetails(transport.RejectionDetails{
		Reason:    string(terr.Reason),
		Dimension: string(terr.Dimension),
		Field:     terr.Field,
		Value:     terr.Value,
	})
}
