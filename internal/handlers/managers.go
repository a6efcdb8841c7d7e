package handlers

import (
	"github.com/gin-gonic/gin"

	"appointments-server/internal/appointments"
	"appointments-server/internal/services"
	"appointments-server/internal/utils"
)

// ManagerHandler handles manager roster requests.
type ManagerHandler struct {
	Repo    appointments.Repository
	Service *services.ManagerService
}

// NewManagerHandler creates a new ManagerHandler.
func NewManagerHandler(repo appointments.Repository, service *services.ManagerService) *ManagerHandler {
	return &ManagerHandler{Repo: repo, Service: service}
}

// GetManagers handles fetching the manager roster.
func (h *ManagerHandler) GetManagers(c *gin.Context) {
	managers, err := h.Repo.ListManagers(c.Request.Context())
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Managers fetched successfully", managers)
}

// SubscribeManagerRequest represents the request body for registering a manager.
type SubscribeManagerRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SubscribeManager handles registering a manager. Subscribing an already
// registered manager is a no-op returning the existing record.
func (h *ManagerHandler) SubscribeManager(c *gin.Context) {
	var req SubscribeManagerRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	manager, err := h.Service.EnsureManagerExists(c.Request.Context(), req.Email)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, "Manager registered successfully", manager)
}
