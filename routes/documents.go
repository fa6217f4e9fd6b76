package routes

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"legal-assistant-backend/internal/config"
	"legal-assistant-backend/internal/logger"
	"legal-assistant-backend/middleware"
	"legal-assistant-backend/models"
	"legal-assistant-backend/services"
	"legal-assistant-backend/utils"

	"github.com/gin-gonic/gin"
)

func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, pipeline *services.Pipeline, authMW *middleware.AuthMiddleware) {
	// Upload endpoint: extracts, chunks and indexes the document. Only
	// admins and lawyers may add to the shared knowledge base.
	router.POST("/upload",
		authMW.RequireAuth(),
		authMW.RequireRoles(models.RoleAdmin, models.RoleLawyer),
		func(c *gin.Context) {
			if err := c.Request.ParseMultipartForm(cfg.MaxFileSize); err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "file_too_large", "File size exceeds maximum limit", nil)
				return
			}

			file, header, err := c.Request.FormFile("file")
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "no_file", "No file provided", nil)
				return
			}
			defer file.Close()

			if header.Size > cfg.MaxFileSize {
				utils.RespondWithError(c, http.StatusBadRequest, "file_too_large", "File size exceeds maximum limit", nil)
				return
			}

			content, err := io.ReadAll(file)
			if err != nil {
				utils.RespondWithInternalError(c, "Failed to read uploaded file", nil)
				return
			}

			filename := filepath.Base(header.Filename)

			// Keep a copy on disk so the index can be rebuilt later.
			if err := os.MkdirAll(cfg.DataDir, 0755); err == nil {
				if err := os.WriteFile(filepath.Join(cfg.DataDir, filename), content, 0600); err != nil {
					logger.Warn("Failed to archive uploaded file", "file", filename, "error", err.Error())
				}
			}

			chunks, err := pipeline.Ingest(c.Request.Context(), filename, content)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrExtractionFailed):
					utils.RespondWithError(c, http.StatusBadRequest, "extraction_failed", "Could not extract text from the uploaded file", nil)
				case errors.Is(err, services.ErrEmbeddingService):
					utils.RespondWithError(c, http.StatusBadGateway, "embedding_failed", "Embedding service is unavailable", nil)
				default:
					logger.Error("Ingestion failed", "file", filename, "error", err.Error())
					utils.RespondWithInternalError(c, "Failed to index the uploaded file", nil)
				}
				return
			}

			c.JSON(http.StatusOK, models.UploadResponse{
				Message:  "File uploaded and indexed successfully",
				Filename: filename,
				Chunks:   chunks,
			})
		})
}
