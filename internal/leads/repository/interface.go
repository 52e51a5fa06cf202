package repository

import "context"

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id int64) (Lead, error)
	GetByLeadNo(ctx context.Context, leadNo string) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
}

// LeadWriter provides write operations for lead ingestion and assignment.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Reassign(ctx context.Context, id int64, params ReassignParams) (Lead, error)
}

// StatusWriter applies status changes atomically with their log entries.
// This is the only write path that touches a lead's status fields.
type StatusWriter interface {
	ApplyStatusUpdate(ctx context.Context, leadID int64, update StatusUpdate) (Lead, StatusLogEntry, bool, error)
}

// StatusLogReader provides read access to the status ledger.
type StatusLogReader interface {
	ListStatusLogs(ctx context.Context, query StatusLogQuery) ([]StatusLogEntry, error)
}
