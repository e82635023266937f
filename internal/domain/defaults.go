package domain

// DefaultStatus describes one seeded system status for a new org.
type DefaultStatus struct {
	Code         string
	Name         string
	Color        string
	DisplayOrder int
}

// DefaultEdge describes one seeded system-required edge, by status code.
type DefaultEdge struct {
	FromCode string
	ToCode   string
}

// DefaultStatuses holds the system status set seeded per org for each
// status type. Tenants cannot rename or delete these rows, only restyle
// and reorder them.
var DefaultStatuses = map[StatusType][]DefaultStatus{
	TypePurchaseOrder: {
		{Code: "draft", Name: "Draft", Color: "gray", DisplayOrder: 1},
		{Code: "submitted", Name: "Submitted", Color: "blue", DisplayOrder: 2},
		{Code: "pending_approval", Name: "Pending Approval", Color: "yellow", DisplayOrder: 3},
		{Code: "confirmed", Name: "Confirmed", Color: "green", DisplayOrder: 4},
		{Code: "receiving", Name: "Receiving", Color: "purple", DisplayOrder: 5},
		{Code: "closed", Name: "Closed", Color: "emerald", DisplayOrder: 6},
		{Code: "cancelled", Name: "Cancelled", Color: "red", DisplayOrder: 7},
	},
	TypeASN: {
		{Code: "pending", Name: "Pending", Color: "gray", DisplayOrder: 1},
		{Code: "in_transit", Name: "In Transit", Color: "blue", DisplayOrder: 2},
		{Code: "arrived", Name: "Arrived", Color: "yellow", DisplayOrder: 3},
		{Code: "receiving", Name: "Receiving", Color: "purple", DisplayOrder: 4},
		{Code: "closed", Name: "Closed", Color: "emerald", DisplayOrder: 5},
		{Code: "cancelled", Name: "Cancelled", Color: "red", DisplayOrder: 6},
	},
	TypeWorkOrder: {
		{Code: "draft", Name: "Draft", Color: "gray", DisplayOrder: 1},
		{Code: "released", Name: "Released", Color: "blue", DisplayOrder: 2},
		{Code: "in_progress", Name: "In Progress", Color: "yellow", DisplayOrder: 3},
		{Code: "completed", Name: "Completed", Color: "green", DisplayOrder: 4},
		{Code: "closed", Name: "Closed", Color: "emerald", DisplayOrder: 5},
		{Code: "cancelled", Name: "Cancelled", Color: "red", DisplayOrder: 6},
	},
}

// DefaultEdges holds the system-required transition graph seeded alongside
// DefaultStatuses.
var DefaultEdges = map[StatusType][]DefaultEdge{
	TypePurchaseOrder: {
		{FromCode: "draft", ToCode: "submitted"},
		{FromCode: "draft", ToCode: "cancelled"},
		{FromCode: "submitted", ToCode: "pending_approval"},
		{FromCode: "submitted", ToCode: "cancelled"},
		{FromCode: "pending_approval", ToCode: "confirmed"},
		{FromCode: "pending_approval", ToCode: "cancelled"},
		{FromCode: "confirmed", ToCode: "receiving"},
		{FromCode: "receiving", ToCode: "closed"},
	},
	TypeASN: {
		{FromCode: "pending", ToCode: "in_transit"},
		{FromCode: "pending", ToCode: "cancelled"},
		{FromCode: "in_transit", ToCode: "arrived"},
		{FromCode: "in_transit", ToCode: "cancelled"},
		{FromCode: "arrived", ToCode: "receiving"},
		{FromCode: "receiving", ToCode: "closed"},
	},
	TypeWorkOrder: {
		{FromCode: "draft", ToCode: "released"},
		{FromCode: "draft", ToCode: "cancelled"},
		{FromCode: "released", ToCode: "in_progress"},
		{FromCode: "released", ToCode: "cancelled"},
		{FromCode: "in_progress", ToCode: "completed"},
		{FromCode: "completed", ToCode: "closed"},
	},
}
