package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/HanapBahay/service-booking/internal/application"
	"github.com/HanapBahay/service-booking/internal/pkg/auth"
	"github.com/HanapBahay/service-booking/internal/pkg/middleware"
	"github.com/HanapBahay/service-booking/internal/pkg/response"
)

// ProofHandler handles HTTP requests for payment proofs.
type ProofHandler struct {
	service *application.ProofService
}

// NewProofHandler creates a new ProofHandler.
func NewProofHandler(service *application.ProofService) *ProofHandler {
	return &ProofHandler{service: service}
}

// RegisterRoutes registers payment proof routes on the given router group.
func (h *ProofHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("/:id/proofs", middleware.RequireRole(auth.RoleTenant), h.RecordProof)
		bookings.GET("/:id/proofs", h.ListProofs)
	}
}

// RecordProof handles POST /api/v1/bookings/:id/proofs.
func (h *ProofHandler) RecordProof(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	tenantID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.RecordProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "reference is required")
		return
	}

	result, err := h.service.RecordUpload(c.Request.Context(), bookingID, tenantID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListProofs handles GET /api/v1/bookings/:id/proofs.
func (h *ProofHandler) ListProofs(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	role, _ := middleware.GetUserRole(c)

	result, err := h.service.ListProofs(c.Request.Context(), bookingID, role, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
