package transport

import "time"

// Request DTOs

type CreateLeadRequest struct {
	CategoryID           int16   `json:"categoryId" validate:"required,gt=0"`
	SubCategoryID        *int16  `json:"subCategoryId,omitempty" validate:"omitempty,gt=0"`
	AdvisorGroupID       *int16  `json:"advisorGroupId,omitempty" validate:"omitempty,gt=0"`
	AdvisorGroupSubID    *int16  `json:"advisorGroupSubId,omitempty" validate:"omitempty,gt=0"`
	AdvisorID            *int16  `json:"advisorId,omitempty" validate:"omitempty,gt=0"`
	CustomerID           *int64  `json:"customerId,omitempty"`
	CustomerName         *string `json:"customerName,omitempty" validate:"omitempty,max=50"`
	CustomerPhone        *string `json:"customerPhone,omitempty" validate:"omitempty,max=20"`
	CustomerEmail        *string `json:"customerEmail,omitempty" validate:"omitempty,email,max=100"`
	CustomerWechatName   *string `json:"customerWechatName,omitempty" validate:"omitempty,max=50"`
	CustomerWechatNumber *string `json:"customerWechatNumber,omitempty" validate:"omitempty,max=50"`
}

// StatusChangeRequest targets one dimension of one lead. NewSubStatusID is
// optional three ways: omitted (engine decides per the carry rules),
// explicit null (clear), or a concrete sub-status id.
type StatusChangeRequest struct {
	Dimension      string        `json:"dimension" validate:"required"`
	NewStatusID    int16         `json:"newStatusId" validate:"required,gt=0"`
	NewSubStatusID OptionalInt16 `json:"newSubStatusId,omitempty" validate:"-"`
	ActorID        *int16        `json:"actorId,omitempty" validate:"omitempty,gt=0"`
	Note           *string       `json:"note,omitempty" validate:"omitempty,max=500"`
}

type CallOutcomeRequest struct {
	Outcome      string    `json:"outcome" validate:"required"`
	CallRecordID *int64    `json:"callRecordId,omitempty"`
	OccurredAt   time.Time `json:"occurredAt" validate:"required"`
	ActorID      *int16    `json:"actorId,omitempty" validate:"omitempty,gt=0"`
	Note         *string   `json:"note,omitempty" validate:"omitempty,max=500"`
}

type ReassignRequest struct {
	AdvisorGroupID    OptionalInt16 `json:"advisorGroupId,omitempty" validate:"-"`
	AdvisorGroupSubID *int16        `json:"advisorGroupSubId,omitempty" validate:"omitempty,gt=0"`
	AdvisorID         OptionalInt16 `json:"advisorId,omitempty" validate:"-"`
}

type ListLeadsRequest struct {
	CategoryID     *int16     `json:"categoryId,omitempty"`
	AdvisorID      *int16     `json:"advisorId,omitempty"`
	AdvisorGroupID *int16     `json:"advisorGroupId,omitempty"`
	CallStatusID   *int16     `json:"callStatusId,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	CreatedAtFrom  *time.Time `json:"createdAtFrom,omitempty"`
	CreatedAtTo    *time.Time `json:"createdAtTo,omitempty"`
	Offset         int        `json:"offset" validate:"gte=0"`
	Limit          int        `json:"limit" validate:"gt=0"`
}

type HistoryRequest struct {
	Since   *time.Time `json:"since,omitempty"`
	AfterID *int64     `json:"afterId,omitempty"`
	Limit   int        `json:"limit" validate:"gt=0"`
}

// Response DTOs

// StatusPairResponse is one dimension's (main, sub) state.
type StatusPairResponse struct {
	StatusID    *int16 `json:"statusId"`
	SubStatusID *int16 `json:"subStatusId"`
}

type LeadResponse struct {
	ID     int64  `json:"id"`
	LeadNo string `json:"leadNo"`

	CategoryID    int16  `json:"categoryId"`
	SubCategoryID *int16 `json:"subCategoryId,omitempty"`

	AdvisorGroupID    *int16 `json:"advisorGroupId,omitempty"`
	AdvisorGroupSubID *int16 `json:"advisorGroupSubId,omitempty"`
	AdvisorID         *int16 `json:"advisorId,omitempty"`

	CustomerID           *int64  `json:"customerId,omitempty"`
	CustomerName         *string `json:"customerName,omitempty"`
	CustomerPhone        *string `json:"customerPhone,omitempty"`
	CustomerEmail        *string `json:"customerEmail,omitempty"`
	CustomerWechatName   *string `json:"customerWechatName,omitempty"`
	CustomerWechatNumber *string `json:"customerWechatNumber,omitempty"`

	Statuses map[string]StatusPairResponse `json:"statuses"`

	ScheduleTimes              int16      `json:"scheduleTimes"`
	AnalysisFailedRecords      int16      `json:"analysisFailedRecords"`
	LastContactRecordID        *int64     `json:"lastContactRecordId,omitempty"`
	LastContactTime            *time.Time `json:"lastContactTime,omitempty"`
	LastAnalysisFailedRecordID *int64     `json:"lastAnalysisFailedRecordId,omitempty"`
	LastAnalysisFailedTime     *time.Time `json:"lastAnalysisFailedTime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type StatusLogEntryResponse struct {
	ID             int64     `json:"id"`
	LeadID         int64     `json:"leadId"`
	AdvisorID      *int16    `json:"advisorId,omitempty"`
	StatusField    string    `json:"statusField"`
	OldValue       *int16    `json:"oldValue"`
	NewValue       *int16    `json:"newValue"`
	SubStatusField string    `json:"subStatusField"`
	SubOldValue    *int16    `json:"subOldValue"`
	SubNewValue    *int16    `json:"subNewValue"`
	Operation      string    `json:"operation"`
	Note           *string   `json:"note,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RejectionDetails is attached to rejected-transition errors so a caller
// can explain the rejection without re-deriving it.
type RejectionDetails struct {
	Reason    string      `json:"reason"`
	Dimension string      `json:"dimension"`
	Field     string      `json:"field,omitempty"`
	Value     interface{} `json:"value,omitempty"`
}
