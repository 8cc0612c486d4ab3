package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/services"
	"github.com/undergraduation/ugadmin/internal/middleware"
)

// SearchController handles structured search, suggestions and facets
type SearchController struct {
	searchService *services.SearchService
}

// NewSearchController creates a new SearchController
func NewSearchController(searchService *services.SearchService) *SearchController {
	return &SearchController{
		searchService: searchService,
	}
}

// Search executes a structured query over applicant records
// @Summary Search students
// @Description Executes a structured query combining text search, field filters and date ranges
// @Tags search
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SearchRequest true "Search criteria"
// @Success 200 {object} dto.SearchResponse "Search results"
// @Failure 400 {object} dto.ErrorResponse "Invalid search criteria"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /search/students [post]
func (c *SearchController) Search(ctx *gin.Context) {
	var req dto.SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid search request", err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(ctx)
	result, err := c.searchService.Search(ctx.Request.Context(), principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// Suggestions returns completion candidates for a field
// @Summary Field suggestions
// @Description Returns known values of a field matching a partial input, case-insensitive
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param field query string true "Field name"
// @Param partial_value query string false "Partial value"
// @Param limit query int false "Maximum suggestions" default(10) maximum(100)
// @Success 200 {object} dto.SuggestionsResponse "Suggestions"
// @Failure 400 {object} dto.ErrorResponse "Unknown field"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /search/suggestions [get]
func (c *SearchController) Suggestions(ctx *gin.Context) {
	field := ctx.Query("field")
	partial := ctx.Query("partial_value")

	limit := 0
	if limitStr := ctx.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			badRequest(ctx, "Invalid limit", "limit must be a number")
			return
		}
		limit = parsed
	}

	suggestions, err := c.searchService.Suggestions(ctx.Request.Context(), field, partial, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuggestionsResponse{
		Field:       field,
		Suggestions: suggestions,
	})
}

// Facets returns value distributions for the facetable fields
// @Summary Student facets
// @Description Returns per-value counts for application status, country and grade
// @Tags search
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.FacetsResponse "Facet counts"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /search/facets [get]
func (c *SearchController) Facets(ctx *gin.Context) {
	facets, err := c.searchService.Facets(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, facets)
}
