package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"legal-assistant-backend/internal/config"
	"legal-assistant-backend/internal/logger"
	"legal-assistant-backend/middleware"
	"legal-assistant-backend/models"
	"legal-assistant-backend/services"
	"legal-assistant-backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupQueryRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client, pipeline *services.Pipeline, authMW *middleware.AuthMiddleware) {
	db := mongoClient.Database(cfg.DBName)
	feedbackCollection := db.Collection("feedback")

	// Query endpoint: retrieves relevant passages and generates a grounded
	// answer with citations.
	router.POST("/query", authMW.RequireAuth(), func(c *gin.Context) {
		var req models.QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		result, err := pipeline.Query(c.Request.Context(), req.Query)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrIndexNotFound):
				utils.RespondWithError(c, http.StatusNotFound, "index_not_found", "Index not found. Please upload a file first.", nil)
			case errors.Is(err, services.ErrIndexCorrupt):
				logger.Error("Persisted index is unreadable", "error", err.Error())
				utils.RespondWithError(c, http.StatusInternalServerError, "index_corrupt", "The document index is unreadable. Re-ingest the source documents.", nil)
			case errors.Is(err, services.ErrEmbeddingService):
				utils.RespondWithError(c, http.StatusBadGateway, "embedding_failed", "Embedding service is unavailable", nil)
			case errors.Is(err, services.ErrGenerationService):
				utils.RespondWithError(c, http.StatusBadGateway, "generation_failed", "Answer generation service is unavailable", nil)
			default:
				logger.Error("Query failed", "error", err.Error())
				utils.RespondWithInternalError(c, "Failed to answer the query", nil)
			}
			return
		}

		c.JSON(http.StatusOK, result)
	})

	// Feedback endpoint: stores a rating of a generated answer.
	router.POST("/feedback", authMW.RequireAuth(), func(c *gin.Context) {
		var req models.FeedbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		if req.Rating != "thumbs_up" && req.Rating != "thumbs_down" {
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_rating", "Rating must be thumbs_up or thumbs_down", nil)
			return
		}

		userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid user ID in token")
			return
		}

		feedback := models.Feedback{
			UserID:     userID,
			Query:      req.Query,
			Response:   req.Response,
			Rating:     req.Rating,
			Categories: req.Categories,
			Comment:    req.Comment,
			Timestamp:  time.Now(),
		}

		if _, err := feedbackCollection.InsertOne(context.Background(), feedback); err != nil {
			utils.RespondWithInternalError(c, "Failed to store feedback", nil)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Feedback recorded"})
	})
}
