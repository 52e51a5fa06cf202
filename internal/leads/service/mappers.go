package service

import (
	"leadcrm_backend/internal/leads/repository"
	"leadcrm_backend/internal/leads/transport"
	"leadcrm_backend/internal/taxonomy"
)

// ToLeadResponse maps a stored lead to its transport representation, with
// the six status pairs keyed by dimension name.
func ToLeadResponse(lead repository.Lead) transport.LeadResponse {
	statuses := make(map[string]transport.StatusPairResponse, len(taxonomy.StatusDimensions()))
	for _, dimension := range taxonomy.StatusDimensions() {
		pair := lead.StatusPair(dimension)
		statuses[string(dimension)] = transport.StatusPairResponse{
			StatusID:    pair.MainID,
			SubStatusID: pair.SubID,
		}
	}

	return transport.LeadResponse{
		ID:     lead.ID,
		LeadNo: lead.LeadNo,

		CategoryID:    lead.CategoryID,
		SubCategoryID: lead.SubCategoryID,

		AdvisorGroupID:    lead.AdvisorGroupID,
		AdvisorGroupSubID: lead.AdvisorGroupSubID,
		AdvisorID:         lead.AdvisorID,

		CustomerID:           lead.CustomerID,
		CustomerName:         lead.CustomerName,
		CustomerPhone:        lead.CustomerPhone,
		CustomerEmail:        lead.CustomerEmail,
		CustomerWechatName:   lead.CustomerWechatName,
		CustomerWechatNumber: lead.CustomerWechatNumber,

		Statuses: statuses,

		ScheduleTimes:              lead.ScheduleTimes,
		AnalysisFailedRecords:      lead.AnalysisFailedRecords,
		LastContactRecordID:        lead.LastContactRecordID,
		LastContactTime:            lead.LastContactTime,
		LastAnalysisFailedRecordID: lead.LastAnalysisFailedRecordID,
		LastAnalysisFailedTime:     lead.LastAnalysisFailedTime,

		CreatedAt: lead.CreatedAt,
		UpdatedAt: lead.UpdatedAt,
	}
}

// ToStatusLogEntryResponse maps one ledger row.
func ToStatusLogEntryResponse(entry repository.StatusLogEntry) transport.StatusLogEntryResponse {
	return transport.StatusLogEntryResponse{
		ID:             entry.ID,
		LeadID:         entry.LeadID,
		AdvisorID:      entry.AdvisorID,
		StatusField:    entry.StatusField,
		OldValue:       entry.OldValue,
		NewValue:       entry.NewValue,
		SubStatusField: entry.SubStatusField,
		SubOldValue:    entry.SubOldValue,
		SubNewValue:    entry.SubNewValue,
		Operation:      entry.Operation,
		Note:           entry.Note,
		CreatedAt:      entry.CreatedAt,
	}
}
