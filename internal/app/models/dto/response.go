package dto

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginationInfo describes the page window of a list response
type PaginationInfo struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_count"`
	HasNext     bool  `json:"has_next"`
}

// HealthResponse reports liveness of the service
type HealthResponse struct {
	Status      string `json:"status" example:"ok"`
	Version     string `json:"version" example:"1.0.0"`
	Environment string `json:"environment" example:"production"`
}

// ReadinessResponse reports whether the service can reach its data store
type ReadinessResponse struct {
	Status string `json:"status" example:"up" enums:"up,down"`
}
