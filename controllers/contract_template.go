package controllers

import (
	"log"
	"net/http"

	"law-office-api/services"

	"github.com/gin-gonic/gin"
)

// GetContractTemplates lists the base minutes a user can pick.
func GetContractTemplates(c *gin.Context) {
	templates, err := catalogStore().ListActiveTemplates(c.Request.Context())
	if err != nil {
		log.Printf("list templates failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": templates, "total": len(templates)})
}

func GetContractTemplatesAdmin(c *gin.Context) {
	templates, err := catalogStore().ListAllTemplates(c.Request.Context())
	if err != nil {
		log.Printf("list templates failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": templates, "total": len(templates)})
}

func GetContractTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tpl, err := catalogStore().FindTemplate(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, "Failed to fetch template")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": tpl})
}

func CreateContractTemplate(c *gin.Context) {
	var req services.TemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	created, err := catalogStore().CreateTemplate(c.Request.Context(), req)
	if err != nil {
		respondCatalogError(c, err, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Template created successfully", "data": created})
}

func UpdateContractTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.TemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	updated, err := catalogStore().UpdateTemplate(c.Request.Context(), id, req)
	if err != nil {
		respondCatalogError(c, err, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Template updated", "data": updated})
}

func DeleteContractTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := catalogStore().DeleteTemplate(c.Request.Context(), id); err != nil {
		respondCatalogError(c, err, "Failed to delete template")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Template deleted"})
}
