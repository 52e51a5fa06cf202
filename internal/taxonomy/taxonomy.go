// Package taxonomy defines the status dimension model: per-dimension
// two-level hierarchies of status nodes (main statuses and their
// sub-statuses) shared by every lead pipeline.
package taxonomy

import "sort"

// Dimension identifies one status pipeline. All dimensions share the same
// node schema and the same two-level hierarchy rules.
type Dimension string

const (
	DimensionCall                       Dimension = "call"
	DimensionWechat                     Dimension = "wechat"
	DimensionPrivateDomainReview        Dimension = "private_domain_review"
	DimensionPrivateDomainParticipation Dimension = "private_domain_participation"
	DimensionSchedule                   Dimension = "schedule"
	DimensionContract                   Dimension = "contract"

	// DimensionLeadCategory classifies the lead itself. It is resolved at
	// lead creation and is not reachable through status-change requests.
	DimensionLeadCategory Dimension = "lead_category"
)

// statusDimensions are the six pipelines mutable through status changes,
// in display order.
var statusDimensions = []Dimension{
	DimensionCall,
	DimensionWechat,
	DimensionPrivateDomainReview,
	DimensionPrivateDomainParticipation,
	DimensionSchedule,
	DimensionContract,
}

// leadStatusFields maps each mutable dimension to the lead field names
// recorded in status log entries.
var leadStatusFields = map[Dimension][2]string{
	DimensionCall:                       {"call_status_id", "call_sub_status_id"},
	DimensionWechat:                     {"wechat_status_id", "wechat_sub_status_id"},
	DimensionPrivateDomainReview:        {"private_domain_review_status_id", "private_domain_review_sub_status_id"},
	DimensionPrivateDomainParticipation: {"private_domain_participation_status_id", "private_domain_participation_sub_status_id"},
	DimensionSchedule:                   {"schedule_status_id", "schedule_sub_status_id"},
	DimensionContract:                   {"contract_status_id", "contract_sub_status_id"},
}

// StatusDimensions returns the six status pipelines in display order.
func StatusDimensions() []Dimension {
	out := make([]Dimension, len(statusDimensions))
	copy(out, statusDimensions)
	return out
}

// ParseDimension resolves a string to a known status dimension.
// The lead-category dimension is deliberately excluded: it cannot be the
// target of a status-change request.
func ParseDimension(s string) (Dimension, bool) {
	for _, d := range statusDimensions {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// IsMutable reports whether the dimension accepts status-change requests.
func (d Dimension) IsMutable() bool {
	_, ok := leadStatusFields[d]
	return ok
}

// StatusField returns the lead field name holding the dimension's main status.
func (d Dimension) StatusField() string {
	return leadStatusFields[d][0]
}

// SubStatusField returns the lead field name holding the dimension's sub-status.
func (d Dimension) SubStatusField() string {
	return leadStatusFields[d][1]
}

// Node is one entry of a dimension's two-level hierarchy. A nil ParentID
// marks a main status (root); a non-nil ParentID marks a sub-status whose
// parent must be a root of the same dimension.
type Node struct {
	ID        int16     `json:"id"`
	Dimension Dimension `json:"dimension"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	ParentID  *int16    `json:"parentId,omitempty"`
	SortOrder int16     `json:"sortOrder"`
	IsActive  bool      `json:"isActive"`
}

// IsRoot reports whether the node is a main status.
func (n Node) IsRoot() bool {
	return n.ParentID == nil
}

// Snapshot is an immutable in-memory view of the full taxonomy, safe for
// concurrent readers. Validation always runs against a single snapshot so a
// concurrent taxonomy edit can never produce a torn read.
type Snapshot struct {
	byID     map[Dimension]map[int16]Node
	byCode   map[Dimension]map[string]Node
	children map[Dimension]map[int16][]Node
}

// NewSnapshot indexes the given nodes. Ordering of input does not matter;
// children are sorted by sort_order, then id.
func NewSnapshot(nodes []Node) *Snapshot {
	s := &Snapshot{
		byID:     make(map[Dimension]map[int16]Node),
		byCode:   make(map[Dimension]map[string]Node),
		children: make(map[Dimension]map[int16][]Node),
	}

	for _, n := range nodes {
		if s.byID[n.Dimension] == nil {
			s.byID[n.Dimension] = make(map[int16]Node)
			s.byCode[n.Dimension] = make(map[string]Node)
			s.children[n.Dimension] = make(map[int16][]Node)
		}
		s.byID[n.Dimension][n.ID] = n
		s.byCode[n.Dimension][n.Code] = n
	}

	for _, n := range nodes {
		if n.ParentID == nil {
			continue
		}
		s.children[n.Dimension][*n.ParentID] = append(s.children[n.Dimension][*n.ParentID], n)
	}

	for _, perDim := range s.children {
		for _, kids := range perDim {
			sort.Slice(kids, func(i, j int) bool {
				if kids[i].SortOrder != kids[j].SortOrder {
					return kids[i].SortOrder < kids[j].SortOrder
				}
				return kids[i].ID < kids[j].ID
			})
		}
	}

	return s
}

// HasDimension reports whether the snapshot holds any nodes for the dimension.
func (s *Snapshot) HasDimension(dimension Dimension) bool {
	return len(s.byID[dimension]) > 0
}

// Node looks up a node by id within a dimension.
func (s *Snapshot) Node(dimension Dimension, id int16) (Node, bool) {
	n, ok := s.byID[dimension][id]
	return n, ok
}

// NodeByCode looks up a node by code within a dimension.
func (s *Snapshot) NodeByCode(dimension Dimension, code string) (Node, bool) {
	n, ok := s.byCode[dimension][code]
	return n, ok
}

// Children returns the ordered sub-statuses of a root node. The result is
// empty when the root has no children or when rootID refers to a node that
// is itself a child; depth never exceeds two by construction.
func (s *Snapshot) Children(dimension Dimension, rootID int16) []Node {
	kids := s.children[dimension][rootID]
	out := make([]Node, len(kids))
	copy(out, kids)
	return out
}

// Roots returns the dimension's main statuses ordered by sort_order, then id.
func (s *Snapshot) Roots(dimension Dimension) []Node {
	var roots []Node
	for _, n := range s.byID[dimension] {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		if roots[i].SortOrder != roots[j].SortOrder {
			return roots[i].SortOrder < roots[j].SortOrder
		}
		return roots[i].ID < roots[j].ID
	})
	return roots
}

// IsValidPair reports whether (mainID, subID) is a consistent pair for the
// dimension: the sub is either absent, or a direct child of the main status.
func (s *Snapshot) IsValidPair(dimension Dimension, mainID int16, subID *int16) bool {
	if _, ok := s.byID[dimension][mainID]; !ok {
		return false
	}
	if subID == nil {
		return true
	}
	sub, ok := s.byID[dimension][*subID]
	if !ok || sub.ParentID == nil {
		return false
	}
	return *sub.ParentID == mainID
}
