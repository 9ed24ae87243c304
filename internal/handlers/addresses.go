package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

type addressRequest struct {
	Title     string `json:"title" binding:"required"`
	Detail    string `json:"detail" binding:"required"`
	Note      string `json:"note"`
	IsDefault bool   `json:"isDefault"`
}

// GetAddresses returns the shopper's saved delivery addresses.
func GetAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /shopper/addresses"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(accountID(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var account models.Account
		if err := db.Collection("accounts").FindOne(ctx, bson.M{"_id": id}).Decode(&account); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}

		if account.Addresses == nil {
			account.Addresses = []models.Address{}
		}
		c.JSON(http.StatusOK, account.Addresses)
	}
}

// CreateAddress appends a new saved address.
func CreateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /shopper/addresses"
		defer handlePanic(c, route)

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		id, err := primitive.ObjectIDFromHex(accountID(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		address := models.Address{
			ID:        uuid.NewString(),
			Title:     strings.TrimSpace(req.Title),
			Detail:    strings.TrimSpace(req.Detail),
			Note:      strings.TrimSpace(req.Note),
			IsDefault: req.IsDefault,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if address.IsDefault {
			_, _ = db.Collection("accounts").UpdateByID(ctx, id, bson.M{
				"$set": bson.M{"addresses.$[].isDefault": false},
			})
		}

		res, err := db.Collection("accounts").UpdateByID(ctx, id, bson.M{
			"$push": bson.M{"addresses": address},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}

		c.JSON(http.StatusCreated, address)
	}
}

// DeleteAddress removes a saved address by id.
func DeleteAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /shopper/addresses/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(accountID(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("accounts").UpdateByID(ctx, id, bson.M{
			"$pull": bson.M{"addresses": bson.M{"id": c.Param("id")}},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.ModifiedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}
