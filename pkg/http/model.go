package http

// APIResponse represents standard API response.
type APIResponse struct {
	Status  int    `json:"status" example:"200"`
	Message string `json:"message" example:"OK"`
	Data    any    `json:"data,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string         `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string         `json:"field,omitempty" example:"prices"`
	Message string         `json:"message,omitempty" example:"prices is required"`
	Params  map[string]any `json:"params,omitempty"`
}

// ListDataResponse wraps a list with its size.
type ListDataResponse struct {
	Rows  any `json:"rows"`
	Total int `json:"total"`
}
