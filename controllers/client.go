package controllers

import (
	"errors"
	"log"
	"net/http"

	"law-office-api/services"

	"github.com/gin-gonic/gin"
)

func GetClients(c *gin.Context) {
	limit, offset := parsePagination(c)

	clients, total, err := clientStore().List(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		log.Printf("list clients failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    clients,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func GetClient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	client, err := clientStore().Get(c.Request.Context(), id)
	if err != nil {
		respondClientError(c, err, "Failed to fetch client")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": client})
}

func CreateClient(c *gin.Context) {
	var req services.ClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	client, err := clientStore().Create(c.Request.Context(), req)
	if err != nil {
		respondClientError(c, err, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Client created successfully", "data": client})
}

func UpdateClient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	client, err := clientStore().Update(c.Request.Context(), id, req)
	if err != nil {
		respondClientError(c, err, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Client updated", "data": client})
}

func DeleteClient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := clientStore().Delete(c.Request.Context(), id); err != nil {
		respondClientError(c, err, "Failed to delete client")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Client deleted"})
}

func respondClientError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
	case errors.Is(err, services.ErrClientNameRequired),
		errors.Is(err, services.ErrInvalidDocumentKind),
		errors.Is(err, services.ErrInvalidClientEmail),
		errors.Is(err, services.ErrInvalidDocumentValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
