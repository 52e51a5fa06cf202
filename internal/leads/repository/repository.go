package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadcrm_backend/internal/leads/domain"
	"leadcrm_backend/internal/taxonomy"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID     int64
	LeadNo string

	CategoryID    int16
	SubCategoryID *int16

	AdvisorGroupID    *int16
	AdvisorGroupSubID *int16
	AdvisorID         *int16

	CustomerID           *int64
	CustomerName         *string
	CustomerPhone        *string
	CustomerEmail        *string
	CustomerWechatName   *string
	CustomerWechatNumber *string

	CallStatusID                       *int16
	CallSubStatusID                    *int16
	WechatStatusID                     *int16
	WechatSubStatusID                  *int16
	PrivateDomainReviewStatusID        *int16
	PrivateDomainReviewSubStatusID     *int16
	PrivateDomainParticipationStatusID *int16
	PrivateDomainParticipationSubID    *int16
	ScheduleStatusID                   *int16
	ScheduleSubStatusID                *int16
	ScheduleTimes                      int16
	ContractStatusID                   *int16
	ContractSubStatusID                *int16

	AnalysisFailedRecords      int16
	LastContactRecordID        *int64
	LastContactTime            *time.Time
	LastAnalysisFailedRecordID *int64
	LastAnalysisFailedTime     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusPair returns the lead's current (main, sub) state for a dimension.
func (l *Lead) StatusPair(dimension taxonomy.Dimension) domain.StatusPair {
	switch dimension {
	case taxonomy.DimensionCall:
		return domain.StatusPair{MainID: l.CallStatusID, SubID: l.CallSubStatusID}
	case taxonomy.DimensionWechat:
		return domain.StatusPair{MainID: l.WechatStatusID, SubID: l.WechatSubStatusID}
	case taxonomy.DimensionPrivateDomainReview:
		return domain.StatusPair{MainID: l.PrivateDomainReviewStatusID, SubID: l.PrivateDomainReviewSubStatusID}
	case taxonomy.DimensionPrivateDomainParticipation:
		return domain.StatusPair{MainID: l.PrivateDomainParticipationStatusID, SubID: l.PrivateDomainParticipationSubID}
	case taxonomy.DimensionSchedule:
		return domain.StatusPair{MainID: l.ScheduleStatusID, SubID: l.ScheduleSubStatusID}
	case taxonomy.DimensionContract:
		return domain.StatusPair{MainID: l.ContractStatusID, SubID: l.ContractSubStatusID}
	}
	return domain.StatusPair{}
}

const leadColumns = `id, lead_no, category_id, sub_category_id,
	advisor_group_id, advisor_group_sub_id, advisor_id,
	customer_id, customer_name, customer_phone, customer_email, customer_wechat_name, customer_wechat_number,
	call_status_id, call_sub_status_id,
	wechat_status_id, wechat_sub_status_id,
	private_domain_review_status_id, private_domain_review_sub_status_id,
	private_domain_participation_status_id, private_domain_participation_sub_status_id,
	schedule_status_id, schedule_sub_status_id, schedule_times,
	contract_status_id, contract_sub_status_id,
	analysis_failed_records, last_contact_record_id, last_contact_time,
	last_analysis_failed_record_id, last_analysis_failed_time,
	created_at, updated_at`

// leadRowScanner is satisfied by pgx.Rows and pgx.Row so that scanLead can
// be shared between single-row and multi-row queries.
type leadRowScanner interface {
	Scan(dest ...any) error
}

func scanLead(s leadRowScanner) (Lead, error) {
	var lead Lead
	err := s.Scan(
		&lead.ID, &lead.LeadNo, &lead.CategoryID, &lead.SubCategoryID,
		&lead.AdvisorGroupID, &lead.AdvisorGroupSubID, &lead.AdvisorID,
		&lead.CustomerID, &lead.CustomerName, &lead.CustomerPhone, &lead.CustomerEmail, &lead.CustomerWechatName, &lead.CustomerWechatNumber,
		&lead.CallStatusID, &lead.CallSubStatusID,
		&lead.WechatStatusID, &lead.WechatSubStatusID,
		&lead.PrivateDomainReviewStatusID, &lead.PrivateDomainReviewSubStatusID,
		&lead.PrivateDomainParticipationStatusID, &lead.PrivateDomainParticipationSubID,
		&lead.ScheduleStatusID, &lead.ScheduleSubStatusID, &lead.ScheduleTimes,
		&lead.ContractStatusID, &lead.ContractSubStatusID,
		&lead.AnalysisFailedRecords, &lead.LastContactRecordID, &lead.LastContactTime,
		&lead.LastAnalysisFailedRecordID, &lead.LastAnalysisFailedTime,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

type CreateLeadParams struct {
	LeadNo               string
	CategoryID           int16
	SubCategoryID        *int16
	AdvisorGroupID       *int16
	AdvisorGroupSubID    *int16
	AdvisorID            *int16
	CustomerID           *int64
	CustomerName         *string
	CustomerPhone        *string
	CustomerEmail        *string
	CustomerWechatName   *string
	CustomerWechatNumber *string
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			lead_no, category_id, sub_category_id,
			advisor_group_id, advisor_group_sub_id, advisor_id,
			customer_id, customer_name, customer_phone, customer_email, customer_wechat_name, customer_wechat_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+leadColumns,
		params.LeadNo, params.CategoryID, params.SubCategoryID,
		params.AdvisorGroupID, params.AdvisorGroupSubID, params.AdvisorID,
		params.CustomerID, params.CustomerName, params.CustomerPhone, params.CustomerEmail, params.CustomerWechatName, params.CustomerWechatNumber,
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) GetByLeadNo(ctx context.Context, leadNo string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE lead_no = $1`, leadNo)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type ListParams struct {
	CategoryID     *int16
	AdvisorID      *int16
	AdvisorGroupID *int16
	CallStatusID   *int16
	Phone          *string
	CreatedAtFrom  *time.Time
	CreatedAtTo    *time.Time
	Offset         int
	Limit          int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	whereClauses := []string{"true"}
	args := []interface{}{}
	argIdx := 1

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.CategoryID != nil {
		addEquals("category_id", *params.CategoryID)
	}
	if params.AdvisorID != nil {
		addEquals("advisor_id", *params.AdvisorID)
	}
	if params.AdvisorGroupID != nil {
		addEquals("advisor_group_id", *params.AdvisorGroupID)
	}
	if params.CallStatusID != nil {
		addEquals("call_status_id", *params.CallStatusID)
	}
	if params.Phone != nil {
		addEquals("customer_phone", *params.Phone)
	}
	if params.CreatedAtFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.CreatedAtFrom)
		argIdx++
	}
	if params.CreatedAtTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at < $%d", argIdx))
		args = append(args, *params.CreatedAtTo)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		leadColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

type ReassignParams struct {
	AdvisorGroupID    *int16
	AdvisorGroupIDSet bool
	AdvisorGroupSubID *int16
	AdvisorID         *int16
	AdvisorIDSet      bool
}

// Reassign updates a lead's assignment fields. Assignment is not a status
// dimension, so this path never touches the status log.
func (r *Repository) Reassign(ctx context.Context, id int64, params ReassignParams) (Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	if params.AdvisorGroupIDSet {
		setClauses = append(setClauses, fmt.Sprintf("advisor_group_id = $%d", argIdx))
		args = append(args, params.AdvisorGroupID)
		argIdx++
		setClauses = append(setClauses, fmt.Sprintf("advisor_group_sub_id = $%d", argIdx))
		args = append(args, params.AdvisorGroupSubID)
		argIdx++
	}
	if params.AdvisorIDSet {
		setClauses = append(setClauses, fmt.Sprintf("advisor_id = $%d", argIdx))
		args = append(args, params.AdvisorID)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}
