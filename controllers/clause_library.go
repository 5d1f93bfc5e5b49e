package controllers

import (
	"errors"
	"log"
	"net/http"

	"law-office-api/services"

	"github.com/gin-gonic/gin"
)

type clauseReorderRequest struct {
	OrderedIDs []int `json:"ordered_ids"`
}

// GetClauseLibrary returns active clauses grouped by category for the selection screen.
func GetClauseLibrary(c *gin.Context) {
	clauses, err := catalogStore().ListActiveClauses(c.Request.Context())
	if err != nil {
		log.Printf("list clauses failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clauses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.GroupClausesByCategory(clauses),
		"total":   len(clauses),
	})
}

// GetClausesAdmin lists every clause, inactive included, in display order.
func GetClausesAdmin(c *gin.Context) {
	clauses, err := catalogStore().ListAllClauses(c.Request.Context())
	if err != nil {
		log.Printf("list clauses failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clauses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": clauses, "total": len(clauses)})
}

func CreateClause(c *gin.Context) {
	var req services.ClauseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	created, err := catalogStore().CreateClause(c.Request.Context(), req)
	if err != nil {
		respondCatalogError(c, err, "Failed to create clause")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Clause created successfully", "data": created})
}

func UpdateClause(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ClauseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Title == nil && req.Body == nil && req.Category == nil && req.Active == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	updated, err := catalogStore().UpdateClause(c.Request.Context(), id, req)
	if err != nil {
		respondCatalogError(c, err, "Failed to update clause")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Clause updated", "data": updated})
}

func DeleteClause(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := catalogStore().DeleteClause(c.Request.Context(), id); err != nil {
		respondCatalogError(c, err, "Failed to delete clause")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Clause deleted"})
}

// ReorderClauses updates display order based on the provided ids.
func ReorderClauses(c *gin.Context) {
	var req clauseReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if len(req.OrderedIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ordered_ids is required"})
		return
	}

	store := catalogStore()
	if err := store.ReorderClauses(c.Request.Context(), req.OrderedIDs); err != nil {
		respondCatalogError(c, err, "Failed to reorder clauses")
		return
	}

	clauses, err := store.ListAllClauses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Display order updated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Display order updated", "data": clauses})
}

func respondCatalogError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrClauseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Clause not found"})
	case errors.Is(err, services.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
	case errors.Is(err, services.ErrClauseTitleMissing),
		errors.Is(err, services.ErrTemplateNameMissing),
		errors.Is(err, services.ErrInvalidClauseOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
