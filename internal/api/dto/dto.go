// Package dto defines the API request and response shapes.
package dto

// APIError is the structured error body for all non-2xx responses.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AllocateRequest is the POST /api/allocate body. MinSharePercent and
// Precision are pointers so an omitted field falls back to the server's
// configured defaults while an explicit zero is honored.
type AllocateRequest struct {
	Identifier      string   `json:"identifier" binding:"required"`
	Quantity        string   `json:"quantity" binding:"required"`
	Department      string   `json:"department,omitempty"`
	MinSharePercent *float64 `json:"min_share_percent,omitempty"`
	MinFloorPercent float64  `json:"min_floor_percent,omitempty"`
	Precision       *int32   `json:"precision,omitempty"`
	Contains        bool     `json:"contains,omitempty"`
}

// ProportionRow is one department's usage share.
type ProportionRow struct {
	Department   string  `json:"department"`
	RawQuantity  string  `json:"raw_quantity"`
	SharePercent float64 `json:"share_percent"`
}

// AllocationRow is one department's allocated quantity.
type AllocationRow struct {
	Department   string  `json:"department"`
	SharePercent float64 `json:"share_percent"`
	Allocated    string  `json:"allocated_quantity"`
}

// AllocateResponse is the POST /api/allocate result.
type AllocateResponse struct {
	RunID           string          `json:"run_id"`
	Identifier      string          `json:"identifier"`
	Quantity        string          `json:"quantity"`
	Entries         []AllocationRow `json:"entries"`
	TotalAllocated  string          `json:"total_allocated"`
	DepartmentCount int             `json:"department_count"`
	MaxSharePercent float64         `json:"max_share_percent"`
	TopDepartment   string          `json:"top_department"`
}

// UsageResponse is the GET /api/usage result.
type UsageResponse struct {
	Identifier  string          `json:"identifier"`
	Proportions []ProportionRow `json:"proportions"`
}

// ItemsResponse is the GET /api/items result.
type ItemsResponse struct {
	Items []string `json:"items"`
}
