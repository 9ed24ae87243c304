package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"backend/internal/store"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondStoreError maps the store's typed failures onto HTTP statuses.
// Precondition violations are client errors, never retried here.
func respondStoreError(c *gin.Context, route string, err error) {
	var notFound store.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": notFound.Error(),
		})
		return
	}

	var duplicate store.DuplicateOrderError
	if errors.As(err, &duplicate) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "order already exists",
			"orderId": duplicate.OrderID,
		})
		return
	}

	var illegal store.IllegalTransitionError
	if errors.As(err, &illegal) {
		c.JSON(http.StatusConflict, gin.H{
			"error":           "illegal status transition",
			"orderId":         illegal.OrderID,
			"currentStatus":   illegal.From,
			"requestedStatus": illegal.To,
		})
		return
	}

	var conflict store.ClaimConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "order already claimed",
			"orderId": conflict.OrderID,
			"heldBy":  conflict.HeldBy,
		})
		return
	}

	respondWithError(c, http.StatusInternalServerError, route, "db error")
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// accountID reads the id the auth middleware stored on the context.
func accountID(c *gin.Context) string {
	value, _ := c.Get("accountId")
	id, _ := value.(string)
	return id
}
