package domain

import (
	"regexp"
	"time"
)

// StatusType identifies which entity workflow a status belongs to.
// Each type has its own per-org status set and transition graph.
type StatusType string

const (
	TypePurchaseOrder StatusType = "purchase_order"
	TypeASN           StatusType = "asn"
	TypeWorkOrder     StatusType = "work_order"
)

// codePattern restricts status codes to lowercase letters and underscores.
var codePattern = regexp.MustCompile(`^[a-z][a-z_]*$`)

// ValidCode reports whether code is an acceptable status code.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// StatusDefinition is one named state in an org's workflow for a status type.
// System rows are seeded at provisioning time; their code and name are locked.
type StatusDefinition struct {
	ID           string
	OrgID        string
	StatusType   StatusType
	Code         string
	Name         string
	Color        string
	Description  string
	DisplayOrder int
	IsSystem     bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewCustomStatus creates a tenant-defined status. Display order is left at
// zero; the catalog assigns max+1 when it is not supplied by the caller.
func NewCustomStatus(id, orgID string, statusType StatusType, code, name, color string) StatusDefinition {
	now := time.Now().UTC()
	if color == "" {
		color = "gray"
	}
	return StatusDefinition{
		ID:         id,
		OrgID:      orgID,
		StatusType: statusType,
		Code:       code,
		Name:       name,
		Color:      color,
		IsSystem:   false,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TransitionEdge is one permitted move in an org's transition graph.
// System-required edges survive any tenant edit of the outgoing set.
type TransitionEdge struct {
	ID               string
	OrgID            string
	StatusType       StatusType
	FromStatusID     string
	ToStatusID       string
	IsSystemRequired bool
}

// StatusPatch carries the mutable fields of an update request. Nil means
// "leave unchanged".
type StatusPatch struct {
	Code         *string
	Name         *string
	Color        *string
	Description  *string
	DisplayOrder *int
	IsActive     *bool
}

// StatusWithUsage pairs a status with the number of entities currently in it.
type StatusWithUsage struct {
	StatusDefinition
	EntityCount int
}
