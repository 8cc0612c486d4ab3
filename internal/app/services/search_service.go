package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/repositories"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
)

// Suggestion limits
const (
	suggestionsDefaultLimit = 10
	suggestionsMaxLimit     = 100
)

// knownOperators guards the filter operator set
var knownOperators = map[string]bool{
	dto.OpEq:       true,
	dto.OpNe:       true,
	dto.OpGt:       true,
	dto.OpGte:      true,
	dto.OpLt:       true,
	dto.OpLte:      true,
	dto.OpContains: true,
	dto.OpIn:       true,
}

// SearchService executes structured queries, suggestions and facets
type SearchService struct {
	studentRepo repositories.StudentRepository
	auditSvc    *AuditService
}

// NewSearchService creates a new search service instance
func NewSearchService(studentRepo repositories.StudentRepository, auditSvc *AuditService) *SearchService {
	return &SearchService{
		studentRepo: studentRepo,
		auditSvc:    auditSvc,
	}
}

// normalizeSearchRequest validates the request in place and applies defaults
func normalizeSearchRequest(req *dto.SearchRequest) error {
	errs := dto.FieldErrors{}

	if req.Limit == 0 {
		req.Limit = dto.SearchDefaultLimit
	}
	if req.Limit < 1 || req.Limit > dto.SearchMaxLimit {
		errs.Add("limit", fmt.Sprintf("limit must be between 1 and %d", dto.SearchMaxLimit))
	}
	if req.Offset < 0 {
		errs.Add("offset", "offset must not be negative")
	}

	if req.SortField == "" {
		req.SortField = "created_at"
	} else if !repositories.IsSearchableColumn(req.SortField) {
		errs.Add("sort_field", fmt.Sprintf("sort_field %q is not sortable", req.SortField))
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	} else if !strings.EqualFold(req.SortOrder, "asc") && !strings.EqualFold(req.SortOrder, "desc") {
		errs.Add("sort_order", "sort_order must be asc or desc")
	}

	for _, field := range req.SearchFields {
		if !repositories.IsSearchableColumn(field) {
			errs.Add("search_fields", fmt.Sprintf("field %q is not searchable", field))
		}
	}

	for _, status := range req.ApplicationStatuses {
		if !models.IsValidApplicationStatus(status) {
			errs.Add("application_statuses", fmt.Sprintf("application_status %q is invalid, must be one of: %s", status, statusHint()))
		}
	}

	for _, f := range req.Filters {
		if !repositories.IsSearchableColumn(f.Field) {
			errs.Add("filters", fmt.Sprintf("field %q is not filterable", f.Field))
		}
		if !knownOperators[f.Operator] {
			errs.Add("filters", fmt.Sprintf("operator %q is not supported", f.Operator))
		}
	}

	for _, df := range req.DateFilters {
		if !repositories.IsSearchableColumn(df.Field) {
			errs.Add("date_filters", fmt.Sprintf("field %q is not filterable", df.Field))
		}
	}

	for i, c := range req.Countries {
		req.Countries[i] = strings.ToUpper(strings.TrimSpace(c))
	}

	if errs.HasErrors() {
		details := make(map[string]interface{}, len(errs))
		for field, message := range errs {
			details[field] = message
		}
		return apperrors.NewValidationError("search request failed validation", details)
	}

	return nil
}

// countFiltersApplied counts the criteria categories present in a request
func countFiltersApplied(req *dto.SearchRequest) int {
	count := len(req.Filters) + len(req.DateFilters)
	if len(req.ApplicationStatuses) > 0 {
		count++
	}
	if len(req.Countries) > 0 {
		count++
	}
	if req.TextQuery != "" {
		count++
	}
	return count
}

// complexityFor grades a request by how many criteria it carries
func complexityFor(filtersApplied int) string {
	switch {
	case filtersApplied <= 2:
		return "low"
	case filtersApplied <= 5:
		return "medium"
	default:
		return "high"
	}
}

// Search executes a structured query and reports how it ran
func (s *SearchService) Search(ctx context.Context, actor models.Principal, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	started := time.Now()

	if err := normalizeSearchRequest(req); err != nil {
		return nil, err
	}

	total, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	students, filtered, err := s.studentRepo.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("error searching students: %w", err)
	}

	filtersApplied := countFiltersApplied(req)
	totalPages := 0
	if filtered > 0 {
		totalPages = int(math.Ceil(float64(filtered) / float64(req.Limit)))
	}

	response := &dto.SearchResponse{
		Students:      dto.FromStudents(students),
		TotalCount:    total,
		FilteredCount: filtered,
		PageInfo: dto.PageInfo{
			Limit:       req.Limit,
			Offset:      req.Offset,
			CurrentPage: req.Offset/req.Limit + 1,
			TotalPages:  totalPages,
			HasNext:     int64(req.Offset+req.Limit) < filtered,
			HasPrevious: req.Offset > 0,
		},
		Metadata: dto.SearchMetadata{
			ProcessingTimeSeconds: time.Since(started).Seconds(),
			QueryComplexity:       complexityFor(filtersApplied),
			FiltersApplied:        filtersApplied,
			TextSearchUsed:        req.TextQuery != "",
			ExecutedAt:            time.Now().UTC(),
		},
	}

	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditSearchStudents,
		TargetType: "student",
		Success:    true,
		Details: map[string]interface{}{
			"filters_applied": filtersApplied,
			"filtered_count":  filtered,
			"text_search":     req.TextQuery != "",
		},
	})

	return response, nil
}

// Suggestions returns distinct values of a field containing the partial
// input, case-insensitively, sorted and capped
func (s *SearchService) Suggestions(ctx context.Context, field, partialValue string, limit int) ([]string, error) {
	if !repositories.IsSearchableColumn(field) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("field %q is not searchable", field), nil)
	}

	if limit <= 0 {
		limit = suggestionsDefaultLimit
	}
	if limit > suggestionsMaxLimit {
		limit = suggestionsMaxLimit
	}

	values, err := s.studentRepo.DistinctValues(ctx, field)
	if err != nil {
		return nil, fmt.Errorf("error retrieving suggestions: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(partialValue))
	var matches []string
	for _, v := range values {
		if needle == "" || strings.Contains(strings.ToLower(v), needle) {
			matches = append(matches, v)
		}
	}

	sort.Strings(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// Facets aggregates value counts over the full record set
func (s *SearchService) Facets(ctx context.Context) (*dto.FacetsResponse, error) {
	response := &dto.FacetsResponse{}

	var err error
	if response.ApplicationStatus, err = s.studentRepo.FacetCounts(ctx, "application_status"); err != nil {
		return nil, fmt.Errorf("error aggregating status facets: %w", err)
	}
	if response.Country, err = s.studentRepo.FacetCounts(ctx, "country"); err != nil {
		return nil, fmt.Errorf("error aggregating country facets: %w", err)
	}
	if response.Grade, err = s.studentRepo.FacetCounts(ctx, "grade"); err != nil {
		return nil, fmt.Errorf("error aggregating grade facets: %w", err)
	}
	if response.TotalCount, err = s.studentRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	return response, nil
}
