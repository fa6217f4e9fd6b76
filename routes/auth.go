package routes

import (
	"context"
	"net/http"
	"time"

	"legal-assistant-backend/internal/config"
	"legal-assistant-backend/middleware"
	"legal-assistant-backend/models"
	"legal-assistant-backend/services"
	"legal-assistant-backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupAuthRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client, emailSender services.EmailSender, authMW *middleware.AuthMiddleware) {
	auth := router.Group("/auth")

	db := mongoClient.Database(cfg.DBName)
	usersCollection := db.Collection("users")

	// Register endpoint
	auth.POST("/register", func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		if err := utils.ValidatePassword(req.Password); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "weak_password", err.Error(), nil)
			return
		}

		role := req.Role
		if role == "" {
			role = models.RoleParalegal
		}
		if role != models.RoleAdmin && role != models.RoleLawyer && role != models.RoleParalegal {
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_role", "Unknown role", nil)
			return
		}

		hashedPassword, err := utils.HashPassword(req.Password, cfg.BcryptCost)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to process password", nil)
			return
		}

		verifyToken, err := utils.GenerateVerificationToken()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create verification token", nil)
			return
		}

		user := models.User{
			Email:        req.Email,
			PasswordHash: hashedPassword,
			Role:         role,
			IsActive:     true,
			IsVerified:   false,
			VerifyToken:  verifyToken,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		// The unique email index is the authority on duplicates; a
		// pre-insert lookup would still race with concurrent registrations.
		result, err := usersCollection.InsertOne(context.Background(), user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithError(c, http.StatusConflict, "email_exists", "Email already registered", nil)
				return
			}
			utils.RespondWithInternalError(c, "Failed to create user", nil)
			return
		}

		if err := emailSender.SendVerificationEmail(req.Email, verifyToken); err != nil {
			// Account exists either way; the user can ask for the link again.
			c.JSON(http.StatusCreated, gin.H{
				"message": "Account created but verification email could not be sent",
				"user_id": result.InsertedID.(primitive.ObjectID).Hex(),
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Account created. Check your email to verify your address.",
			"user_id": result.InsertedID.(primitive.ObjectID).Hex(),
		})
	})

	// Verify email endpoint
	auth.POST("/verify-email", func(c *gin.Context) {
		var req models.VerifyEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", nil)
			return
		}

		result, err := usersCollection.UpdateOne(
			context.Background(),
			bson.M{"verify_token": req.Token},
			bson.M{
				"$set":   bson.M{"is_verified": true, "updated_at": time.Now()},
				"$unset": bson.M{"verify_token": ""},
			},
		)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to verify account", nil)
			return
		}
		if result.MatchedCount == 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_token", "Invalid or already used verification token", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
	})

	// Login endpoint
	auth.POST("/login", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := usersCollection.FindOne(context.Background(), bson.M{"email": req.Email}).Decode(&user); err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
			return
		}

		if !utils.CheckPassword(req.Password, user.PasswordHash) {
			utils.RespondWithError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
			return
		}

		if !user.IsActive {
			utils.RespondWithError(c, http.StatusForbidden, "account_disabled", "Account is disabled", nil)
			return
		}

		if !user.IsVerified {
			utils.RespondWithError(c, http.StatusForbidden, "email_not_verified", "Verify your email address before logging in", nil)
			return
		}

		duration, _ := time.ParseDuration(cfg.JWTExpiresIn)
		token, err := utils.GenerateJWT(user.ID.Hex(), user.Role, cfg.JWTSecret, duration)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to generate token", nil)
			return
		}

		c.JSON(http.StatusOK, models.LoginResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   time.Now().Add(duration),
			User: models.UserInfo{
				ID:         user.ID.Hex(),
				Email:      user.Email,
				Role:       user.Role,
				IsVerified: user.IsVerified,
			},
		})
	})

	// Current user endpoint
	auth.GET("/me", authMW.RequireAuth(), func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid user ID in token")
			return
		}

		var user models.User
		if err := usersCollection.FindOne(context.Background(), bson.M{"_id": objID}).Decode(&user); err != nil {
			utils.RespondWithNotFound(c, "User not found")
			return
		}

		c.JSON(http.StatusOK, models.UserInfo{
			ID:         user.ID.Hex(),
			Email:      user.Email,
			Role:       user.Role,
			IsVerified: user.IsVerified,
		})
	})
}
