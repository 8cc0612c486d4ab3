package dto

import "time"

// Filter operators accepted in SearchRequest.Filters
const (
	OpEq       = "eq"
	OpNe       = "ne"
	OpGt       = "gt"
	OpGte      = "gte"
	OpLt       = "lt"
	OpLte      = "lte"
	OpContains = "contains"
	OpIn       = "in"
)

// SearchLimits bound the search page window
const (
	SearchDefaultLimit = 50
	SearchMaxLimit     = 1000
)

// FieldFilter applies one operator to one field
type FieldFilter struct {
	Field    string      `json:"field" binding:"required"`
	Operator string      `json:"operator" binding:"required"`
	Value    interface{} `json:"value"`
}

// DateRangeFilter restricts a timestamp field to an inclusive window
type DateRangeFilter struct {
	Field string     `json:"field" binding:"required"`
	From  *time.Time `json:"from,omitempty"`
	To    *time.Time `json:"to,omitempty"`
}

// SearchRequest represents a structured applicant search.
// Criteria categories combine with AND; values within a set combine with OR.
type SearchRequest struct {
	TextQuery           string            `json:"text_query,omitempty"`
	SearchFields        []string          `json:"search_fields,omitempty"`
	Filters             []FieldFilter     `json:"filters,omitempty"`
	DateFilters         []DateRangeFilter `json:"date_filters,omitempty"`
	ApplicationStatuses []string          `json:"application_statuses,omitempty"`
	Countries           []string          `json:"countries,omitempty"`
	SortField           string            `json:"sort_field,omitempty"`
	SortOrder           string            `json:"sort_order,omitempty"`
	Limit               int               `json:"limit,omitempty"`
	Offset              int               `json:"offset,omitempty"`
}

// PageInfo describes the offset window of a search response
type PageInfo struct {
	Limit       int  `json:"limit"`
	Offset      int  `json:"offset"`
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// SearchMetadata reports how a search was executed
type SearchMetadata struct {
	ProcessingTimeSeconds float64   `json:"processing_time_seconds"`
	QueryComplexity       string    `json:"query_complexity" enums:"low,medium,high"`
	FiltersApplied        int       `json:"filters_applied"`
	TextSearchUsed        bool      `json:"text_search_used"`
	ExecutedAt            time.Time `json:"executed_at"`
}

// SearchResponse represents a search result page
type SearchResponse struct {
	Students      []StudentResponse `json:"students"`
	TotalCount    int64             `json:"total_count"`
	FilteredCount int64             `json:"filtered_count"`
	PageInfo      PageInfo          `json:"page_info"`
	Metadata      SearchMetadata    `json:"search_metadata"`
}

// SuggestionsResponse lists distinct field values matching a partial input
type SuggestionsResponse struct {
	Field       string   `json:"field"`
	Suggestions []string `json:"suggestions"`
}

// FacetsResponse maps, per facetable field, each value to its record count
// over the full record set
type FacetsResponse struct {
	ApplicationStatus map[string]int64 `json:"application_status"`
	Country           map[string]int64 `json:"country"`
	Grade             map[string]int64 `json:"grade"`
	TotalCount        int64            `json:"total_count"`
}
