// Package service implements the lead aggregate's operations: ingestion,
// reads, reassignment, and the single status mutation entry point shared by
// every pipeline dimension.
package service

import (
	"context"
	"errors"
	"fmt"

	"leadcrm_backend/internal/events"
	"leadcrm_backend/internal/leads/repository"
	"leadcrm_backend/internal/leads/transport"
	"leadcrm_backend/internal/taxonomy"
	"leadcrm_backend/platform/apperr"
	"leadcrm_backend/platform/kmutex"
	"leadcrm_backend/platform/logger"
	"leadcrm_backend/platform/phone"
	"leadcrm_backend/platform/validator"

	"github.com/google/uuid"
)

// Repository defines the data access interface needed by the lead service.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.StatusWriter
	repository.StatusLogReader
}

// Taxonomy provides snapshot access to the status hierarchies.
type Taxonomy interface {
	Snapshot(ctx context.Context) (*taxonomy.Snapshot, error)
}

// Directory validates advisor/group references for assignment.
type Directory interface {
	ValidateAssignment(ctx context.Context, groupID, advisorID *int16) error
}

// Service handles lead operations.
type Service struct {
	repo      Repository
	taxo      Taxonomy
	directory Directory
	bus       events.Bus
	val       *validator.Validator
	log       *logger.Logger
	locks     *kmutex.KMutex
	maxPage   int
}

// New creates a new lead service.
func New(repo Repository, taxo Taxonomy, directory Directory, bus events.Bus, val *validator.Validator, log *logger.Logger, maxPage int) *Service {
	return &Service{
		repo:      repo,
		taxo:      taxo,
		directory: directory,
		bus:       bus,
		val:       val,
		log:       log,
		locks:     kmutex.New(),
		maxPage:   maxPage,
	}
}

// Create ingests a new lead. The category must resolve to an active main
// category; all six status pairs start unset. Customer attributes are
// stored as given apart from phone normalization.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindValidation, "invalid create request", err)
	}

	snap, err := s.taxo.Snapshot(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	category, ok := snap.Node(taxonomy.DimensionLeadCategory, req.CategoryID)
	if !ok || !category.IsRoot() {
		return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("category %d does not resolve", req.CategoryID))
	}
	if !category.IsActive {
		return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("category %s is disabled", category.Code))
	}
	if req.SubCategoryID != nil {
		if !snap.IsValidPair(taxonomy.DimensionLeadCategory, req.CategoryID, req.SubCategoryID) {
			return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("sub-category %d does not belong to category %s", *req.SubCategoryID, category.Code))
		}
	}

	if err := s.directory.ValidateAssignment(ctx, req.AdvisorGroupID, req.AdvisorID); err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.CreateLeadParams{
		LeadNo:               uuid.NewString(),
		CategoryID:           req.CategoryID,
		SubCategoryID:        req.SubCategoryID,
		AdvisorGroupID:       req.AdvisorGroupID,
		AdvisorGroupSubID:    req.AdvisorGroupSubID,
		AdvisorID:            req.AdvisorID,
		CustomerID:           req.CustomerID,
		CustomerName:         req.CustomerName,
		CustomerEmail:        req.CustomerEmail,
		CustomerWechatName:   req.CustomerWechatName,
		CustomerWechatNumber: req.CustomerWechatNumber,
	}
	if req.CustomerPhone != nil {
		normalized := phone.NormalizeE164(*req.CustomerPhone)
		params.CustomerPhone = &normalized
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		LeadNo:     lead.LeadNo,
		CategoryID: lead.CategoryID,
		AdvisorID:  lead.AdvisorID,
	})

	return ToLeadResponse(lead), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}

// GetByLeadNo retrieves a lead by its business-facing lead number.
func (s *Service) GetByLeadNo(ctx context.Context, leadNo string) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByLeadNo(ctx, leadNo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}

// List returns a filtered page of leads.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.LeadListResponse{}, apperr.Wrap(apperr.KindValidation, "invalid list request", err)
	}

	limit := req.Limit
	if limit > s.maxPage {
		limit = s.maxPage
	}

	leads, total, err := s.repo.List(ctx, repository.ListParams{
		CategoryID:     req.CategoryID,
		AdvisorID:      req.AdvisorID,
		AdvisorGroupID: req.AdvisorGroupID,
		CallStatusID:   req.CallStatusID,
		Phone:          req.Phone,
		CreatedAtFrom:  req.CreatedAtFrom,
		CreatedAtTo:    req.CreatedAtTo,
		Offset:         req.Offset,
		Limit:          limit,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, ToLeadResponse(lead))
	}

	return transport.LeadListResponse{Items: items, Total: total}, nil
}

// History returns a page of the lead's status ledger, oldest first.
// Re-issuing the request with the last entry's id as AfterID resumes it.
func (s *Service) History(ctx context.Context, leadID int64, req transport.HistoryRequest) ([]transport.StatusLogEntryResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid history request", err)
	}

	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, err
	}

	limit := req.Limit
	if limit > s.maxPage {
		limit = s.maxPage
	}

	entries, err := s.repo.ListStatusLogs(ctx, repository.StatusLogQuery{
		LeadID:  leadID,
		Since:   req.Since,
		AfterID: req.AfterID,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]transport.StatusLogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ToStatusLogEntryResponse(entry))
	}
	return out, nil
}

// Reassign moves a lead between advisors and/or groups. Assignment is not
// a status dimension: no transition validation, no ledger entry.
func (s *Service) Reassign(ctx context.Context, leadID int64, req transport.ReassignRequest) (transport.LeadResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindValidation, "invalid reassign request", err)
	}

	var groupID, advisorID *int16
	if req.AdvisorGroupID.Set {
		groupID = req.AdvisorGroupID.Value
	}
	if req.AdvisorID.Set {
		advisorID = req.AdvisorID.Value
	}
	if err := s.directory.ValidateAssignment(ctx, groupID, advisorID); err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.Reassign(ctx, leadID, repository.ReassignParams{
		AdvisorGroupID:    groupID,
		AdvisorGroupIDSet: req.AdvisorGroupID.Set,
		AdvisorGroupSubID: req.AdvisorGroupSubID,
		AdvisorID:         advisorID,
		AdvisorIDSet:      req.AdvisorID.Set,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadReassigned{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		AdvisorGroupID: lead.AdvisorGroupID,
		AdvisorID:      lead.AdvisorID,
	})

	return ToLeadResponse(lead), nil
}
