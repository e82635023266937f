package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/statuskit/internal/app"
	"github.com/neomorfeo/statuskit/internal/domain"
)

// StatusResponse is the API representation of a status definition.
type StatusResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	StatusType   string `json:"status_type" doc:"Workflow the status belongs to"`
	Code         string `json:"code" doc:"Stable machine-readable code"`
	Name         string `json:"name" doc:"Display name"`
	Color        string `json:"color" doc:"Display color"`
	Description  string `json:"description,omitempty" doc:"Optional description"`
	DisplayOrder int    `json:"display_order" doc:"Position in the catalog"`
	IsSystem     bool   `json:"is_system" doc:"Seeded by the platform; code and name locked"`
	IsActive     bool   `json:"is_active" doc:"Whether the status is selectable"`
	EntityCount  *int   `json:"entity_count,omitempty" doc:"Entities currently in this status (when requested)"`
	CreatedAt    string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt    string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

const timeFormat = "2006-01-02T15:04:05Z"

func toStatusResponse(s domain.StatusDefinition) StatusResponse {
	return StatusResponse{
		ID:           s.ID,
		StatusType:   string(s.StatusType),
		Code:         s.Code,
		Name:         s.Name,
		Color:        s.Color,
		Description:  s.Description,
		DisplayOrder: s.DisplayOrder,
		IsSystem:     s.IsSystem,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt.Format(timeFormat),
		UpdatedAt:    s.UpdatedAt.Format(timeFormat),
	}
}

// EdgeResponse is the API representation of one permitted move.
type EdgeResponse struct {
	FromStatusID     string `json:"from_status_id" doc:"Source status"`
	ToStatusID       string `json:"to_status_id" doc:"Target status"`
	IsSystemRequired bool   `json:"is_system_required" doc:"Edge cannot be removed by tenant edits"`
}

func toEdgeResponses(edges []domain.TransitionEdge) []EdgeResponse {
	out := make([]EdgeResponse, len(edges))
	for i, e := range edges {
		out[i] = EdgeResponse{
			FromStatusID:     e.FromStatusID,
			ToStatusID:       e.ToStatusID,
			IsSystemRequired: e.IsSystemRequired,
		}
	}
	return out
}

// EntityResponse is the API representation of a workflow entity.
type EntityResponse struct {
	ID              string  `json:"id" doc:"Unique identifier"`
	EntityType      string  `json:"entity_type" doc:"Workflow the entity follows"`
	Reference       string  `json:"reference" doc:"Human-readable reference (e.g. PO number)"`
	CurrentStatusID string  `json:"current_status_id" doc:"Current status"`
	LineCount       int     `json:"line_count" doc:"Number of line items"`
	Total           float64 `json:"total" doc:"Monetary total"`
	CreatedAt       string  `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt       string  `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toEntityResponse(e domain.Entity) EntityResponse {
	return EntityResponse{
		ID:              e.ID,
		EntityType:      string(e.EntityType),
		Reference:       e.Reference,
		CurrentStatusID: e.CurrentStatusID,
		LineCount:       e.LineCount,
		Total:           e.Total,
		CreatedAt:       e.CreatedAt.Format(timeFormat),
		UpdatedAt:       e.UpdatedAt.Format(timeFormat),
	}
}

// RecordResponse is the API representation of one history ledger entry.
// System-triggered transitions render their actor as "SYSTEM".
type RecordResponse struct {
	ID           string  `json:"id" doc:"Unique identifier"`
	EntityID     string  `json:"entity_id" doc:"Entity the record belongs to"`
	FromStatusID *string `json:"from_status_id" doc:"Previous status; null for initial assignment"`
	ToStatusID   string  `json:"to_status_id" doc:"New status"`
	ChangedBy    string  `json:"changed_by" doc:"Acting user, or SYSTEM"`
	Notes        string  `json:"notes,omitempty" doc:"Optional notes"`
	CreatedAt    string  `json:"created_at" doc:"When the transition committed (ISO 8601)"`
}

func toRecordResponse(r domain.TransitionRecord) RecordResponse {
	changedBy := "SYSTEM"
	if r.ChangedBy != nil {
		changedBy = *r.ChangedBy
	}
	return RecordResponse{
		ID:           r.ID,
		EntityID:     r.EntityID,
		FromStatusID: r.FromStatusID,
		ToStatusID:   r.ToStatusID,
		ChangedBy:    changedBy,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt.UTC().Format(timeFormat),
	}
}

// --- Catalog ---

type ListStatusesInput struct {
	OrgID        string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	StatusType   string `path:"type" doc:"Status type (e.g. purchase_order)"`
	IncludeUsage bool   `query:"include_usage" required:"false" doc:"Include per-status entity counts"`
}

type ListStatusesOutput struct {
	Body []StatusResponse
}

type CreateStatusInput struct {
	OrgID      string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	StatusType string `path:"type" doc:"Status type"`
	Body       struct {
		Code         string `json:"code" minLength:"1" maxLength:"50" doc:"Lowercase letters and underscores"`
		Name         string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Color        string `json:"color,omitempty" doc:"Display color (defaults to gray)"`
		Description  string `json:"description,omitempty" doc:"Optional description"`
		DisplayOrder int    `json:"display_order,omitempty" minimum:"0" doc:"Position; max+1 when omitted"`
	}
}

type CreateStatusOutput struct {
	Body StatusResponse
}

type UpdateStatusInput struct {
	OrgID string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	ID    string `path:"id" doc:"Status ID"`
	Body  struct {
		Code         *string `json:"code,omitempty" doc:"New code (locked on system statuses)"`
		Name         *string `json:"name,omitempty" doc:"New name (locked on system statuses)"`
		Color        *string `json:"color,omitempty" doc:"New color"`
		Description  *string `json:"description,omitempty" doc:"New description"`
		DisplayOrder *int    `json:"display_order,omitempty" doc:"New position"`
		IsActive     *bool   `json:"is_active,omitempty" doc:"New active flag"`
	}
}

type UpdateStatusOutput struct {
	Body StatusResponse
}

type DeleteStatusInput struct {
	OrgID string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	ID    string `path:"id" doc:"Status ID"`
}

type DeleteStatusOutput struct {
	Status int
}

type ReorderStatusesInput struct {
	OrgID      string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	StatusType string `path:"type" doc:"Status type"`
	Body       struct {
		StatusIDs []string `json:"status_ids" minItems:"1" doc:"Status IDs in the desired order"`
	}
}

type ReorderStatusesOutput struct {
	Body []StatusResponse
}

type ProvisionDefaultsInput struct {
	OrgID      string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	StatusType string `path:"type" doc:"Status type"`
}

type ProvisionDefaultsOutput struct {
	Body []StatusResponse
}

// --- Graph ---

type GetTransitionsInput struct {
	OrgID string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	ID    string `path:"id" doc:"Status ID"`
}

type GetTransitionsOutput struct {
	Body []EdgeResponse
}

type SetTransitionsInput struct {
	OrgID string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	ID    string `path:"id" doc:"Status ID"`
	Body  struct {
		ToStatusIDs []string `json:"to_status_ids" doc:"Full outgoing edge set for this status"`
	}
}

type SetTransitionsOutput struct {
	Body []EdgeResponse
}

// --- Entities ---

type CreateEntityInput struct {
	OrgID string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	Body  struct {
		EntityType string  `json:"entity_type" enum:"purchase_order,asn,work_order" doc:"Workflow to follow"`
		Reference  string  `json:"reference" minLength:"1" maxLength:"100" doc:"Human-readable reference"`
		LineCount  int     `json:"line_count,omitempty" minimum:"0" doc:"Number of line items"`
		Total      float64 `json:"total,omitempty" minimum:"0" doc:"Monetary total"`
		ActingUser string  `json:"acting_user,omitempty" doc:"Creating user; empty records SYSTEM"`
	}
}

type CreateEntityOutput struct {
	Body EntityResponse
}

type TransitionEntityInput struct {
	OrgID string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	ID    string `path:"id" doc:"Entity ID"`
	Body  struct {
		ToStatusID string `json:"to_status_id" minLength:"1" doc:"Target status ID"`
		ActingUser string `json:"acting_user,omitempty" doc:"Acting user; empty records SYSTEM"`
		Notes      string `json:"notes,omitempty" maxLength:"1000" doc:"Optional notes for the ledger"`
	}
}

type TransitionEntityOutput struct {
	Body struct {
		Entity EntityResponse `json:"entity"`
		Record RecordResponse `json:"record"`
	}
}

type AvailableTransitionsInput struct {
	OrgID string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	ID    string `path:"id" doc:"Entity ID"`
}

type AvailableTransitionsOutput struct {
	Body []StatusResponse
}

type HistoryInput struct {
	OrgID string `header:"X-Org-ID" required:"true" doc:"Organization ID"`
	ID    string `path:"id" doc:"Entity ID"`
}

type HistoryOutput struct {
	Body []RecordResponse
}

// Register adds all workflow API routes to the Huma API.
func Register(api huma.API, catalog *app.CatalogService, graph *app.GraphService, provisioner *app.Provisioner, executor *app.Executor) {
	huma.Register(api, huma.Operation{
		OperationID: "list-statuses",
		Method:      http.MethodGet,
		Path:        "/api/v1/status-types/{type}/statuses",
		Summary:     "List statuses for a workflow",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *ListStatusesInput) (*ListStatusesOutput, error) {
		statusType := domain.StatusType(input.StatusType)

		if input.IncludeUsage {
			statuses, err := catalog.ListWithUsage(ctx, input.OrgID, statusType)
			if err != nil {
				return nil, toHumaError(err)
			}
			resp := make([]StatusResponse, len(statuses))
			for i, s := range statuses {
				resp[i] = toStatusResponse(s.StatusDefinition)
				count := s.EntityCount
				resp[i].EntityCount = &count
			}
			return &ListStatusesOutput{Body: resp}, nil
		}

		statuses, err := catalog.List(ctx, input.OrgID, statusType)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]StatusResponse, len(statuses))
		for i, s := range statuses {
			resp[i] = toStatusResponse(s)
		}
		return &ListStatusesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-status",
		Method:      http.MethodPost,
		Path:        "/api/v1/status-types/{type}/statuses",
		Summary:     "Create a custom status",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *CreateStatusInput) (*CreateStatusOutput, error) {
		status, err := catalog.Create(ctx, input.OrgID, domain.StatusType(input.StatusType),
			input.Body.Code, input.Body.Name, input.Body.Color, input.Body.Description, input.Body.DisplayOrder)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateStatusOutput{Body: toStatusResponse(status)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-status",
		Method:      http.MethodPatch,
		Path:        "/api/v1/statuses/{id}",
		Summary:     "Update a status",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *UpdateStatusInput) (*UpdateStatusOutput, error) {
		patch := domain.StatusPatch{
			Code:         input.Body.Code,
			Name:         input.Body.Name,
			Color:        input.Body.Color,
			Description:  input.Body.Description,
			DisplayOrder: input.Body.DisplayOrder,
			IsActive:     input.Body.IsActive,
		}
		status, err := catalog.Update(ctx, input.OrgID, input.ID, patch)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &UpdateStatusOutput{Body: toStatusResponse(status)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-status",
		Method:      http.MethodDelete,
		Path:        "/api/v1/statuses/{id}",
		Summary:     "Delete an unused custom status",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *DeleteStatusInput) (*DeleteStatusOutput, error) {
		if err := catalog.Delete(ctx, input.OrgID, input.ID); err != nil {
			return nil, toHumaError(err)
		}
		return &DeleteStatusOutput{Status: http.StatusNoContent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reorder-statuses",
		Method:      http.MethodPost,
		Path:        "/api/v1/status-types/{type}/statuses/reorder",
		Summary:     "Reorder statuses",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *ReorderStatusesInput) (*ReorderStatusesOutput, error) {
		statuses, err := catalog.Reorder(ctx, input.OrgID, domain.StatusType(input.StatusType), input.Body.StatusIDs)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]StatusResponse, len(statuses))
		for i, s := range statuses {
			resp[i] = toStatusResponse(s)
		}
		return &ReorderStatusesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "provision-defaults",
		Method:      http.MethodPost,
		Path:        "/api/v1/status-types/{type}/defaults",
		Summary:     "Seed default statuses and transitions for a new org",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *ProvisionDefaultsInput) (*ProvisionDefaultsOutput, error) {
		statuses, err := provisioner.ProvisionDefaults(ctx, input.OrgID, domain.StatusType(input.StatusType))
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]StatusResponse, len(statuses))
		for i, s := range statuses {
			resp[i] = toStatusResponse(s)
		}
		return &ProvisionDefaultsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-transitions",
		Method:      http.MethodGet,
		Path:        "/api/v1/statuses/{id}/transitions",
		Summary:     "Get the outgoing edges of a status",
		Tags:        []string{"Graph"},
	}, func(ctx context.Context, input *GetTransitionsInput) (*GetTransitionsOutput, error) {
		edges, err := graph.Outgoing(ctx, input.OrgID, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetTransitionsOutput{Body: toEdgeResponses(edges)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-transitions",
		Method:      http.MethodPut,
		Path:        "/api/v1/statuses/{id}/transitions",
		Summary:     "Replace the outgoing edges of a status",
		Tags:        []string{"Graph"},
	}, func(ctx context.Context, input *SetTransitionsInput) (*SetTransitionsOutput, error) {
		edges, err := graph.SetOutgoing(ctx, input.OrgID, input.ID, input.Body.ToStatusIDs)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SetTransitionsOutput{Body: toEdgeResponses(edges)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-entity",
		Method:      http.MethodPost,
		Path:        "/api/v1/entities",
		Summary:     "Create a workflow entity in its initial status",
		Tags:        []string{"Entities"},
	}, func(ctx context.Context, input *CreateEntityInput) (*CreateEntityOutput, error) {
		entity, _, err := executor.Create(ctx, input.OrgID, domain.StatusType(input.Body.EntityType),
			input.Body.Reference, input.Body.LineCount, input.Body.Total, actor(input.Body.ActingUser))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateEntityOutput{Body: toEntityResponse(entity)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-entity",
		Method:      http.MethodPost,
		Path:        "/api/v1/entities/{id}/transition",
		Summary:     "Move an entity to a new status",
		Tags:        []string{"Entities"},
	}, func(ctx context.Context, input *TransitionEntityInput) (*TransitionEntityOutput, error) {
		entity, record, err := executor.Transition(ctx, input.OrgID, input.ID,
			input.Body.ToStatusID, actor(input.Body.ActingUser), input.Body.Notes)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &TransitionEntityOutput{}
		out.Body.Entity = toEntityResponse(entity)
		out.Body.Record = toRecordResponse(record)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "available-transitions",
		Method:      http.MethodGet,
		Path:        "/api/v1/entities/{id}/transitions",
		Summary:     "List the statuses an entity can move to",
		Tags:        []string{"Entities"},
	}, func(ctx context.Context, input *AvailableTransitionsInput) (*AvailableTransitionsOutput, error) {
		statuses, err := executor.AvailableTransitions(ctx, input.OrgID, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]StatusResponse, len(statuses))
		for i, s := range statuses {
			resp[i] = toStatusResponse(s)
		}
		return &AvailableTransitionsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "entity-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/entities/{id}/history",
		Summary:     "Get an entity's transition history, newest first",
		Tags:        []string{"Entities"},
	}, func(ctx context.Context, input *HistoryInput) (*HistoryOutput, error) {
		records, err := executor.History(ctx, input.OrgID, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]RecordResponse, len(records))
		for i, r := range records {
			resp[i] = toRecordResponse(r)
		}
		return &HistoryOutput{Body: resp}, nil
	})
}

// actor converts the optional acting-user field to the engine's nilable form.
func actor(user string) *string {
	if user == "" {
		return nil
	}
	return &user
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound("not found")
	case errors.Is(err, domain.ErrSystemStatus):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, domain.ErrConcurrentModification):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, domain.ErrSelfLoop):
		return huma.Error422UnprocessableEntity(err.Error())
	}

	var dupErr *domain.DuplicateCodeError
	var inUseErr *domain.InUseError
	if errors.As(err, &dupErr) || errors.As(err, &inUseErr) {
		return huma.Error409Conflict(err.Error())
	}

	var codeErr *domain.InvalidCodeError
	var lockedErr *domain.SystemFieldLockedError
	var edgeErr *domain.SystemEdgeRemovedError
	var foreignErr *domain.ForeignStatusError
	var trErr *domain.InvalidTransitionError
	var ruleErr *domain.RuleViolationError
	if errors.As(err, &codeErr) || errors.As(err, &lockedErr) || errors.As(err, &edgeErr) ||
		errors.As(err, &foreignErr) || errors.As(err, &trErr) || errors.As(err, &ruleErr) {
		return huma.Error422UnprocessableEntity(err.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
