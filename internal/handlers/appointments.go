package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"appointments-server/internal/appointments"
	"appointments-server/internal/middleware"
	"appointments-server/internal/models"
	"appointments-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Repo   appointments.Repository
	Engine *appointments.Engine
	Clock  appointments.Clock
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(repo appointments.Repository, engine *appointments.Engine, clock appointments.Clock) *AppointmentHandler {
	return &AppointmentHandler{Repo: repo, Engine: engine, Clock: clock}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
type CreateAppointmentRequest struct {
	Sender    string           `json:"sender" binding:"required,email"`
	Recipient string           `json:"recipient" binding:"required,email"`
	Name      string           `json:"name" binding:"required,max=48"`
	Date      models.Date      `json:"date" binding:"required"`
	Time      models.TimeOfDay `json:"time" binding:"required"`
}

// CreateAppointment handles creating a new appointment. The repository
// assigns the id and the status starts at created.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if strings.EqualFold(req.Sender, req.Recipient) {
		utils.BadRequest(c, "Sender and recipient must be distinct.")
		return
	}

	appt := models.Appointment{
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Name:      req.Name,
		Date:      req.Date,
		Time:      req.Time,
		Status:    models.StatusCreated,
	}
	if !appt.ScheduledAt().After(h.Clock.Now()) {
		utils.BadRequest(c, "Appointment date must be in the future.")
		return
	}

	stored, err := h.Repo.CreateAppointment(c.Request.Context(), &appt)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, "Appointment created successfully", stored)
}

// GetAppointments handles fetching all appointments.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	appts, err := h.Repo.ListAppointments(c.Request.Context())
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appts)
}

// QueryAppointments handles filtered lookups via ?attribute=...&value=...
// Supported attributes: id, name, status, date, sender, recipient.
func (h *AppointmentHandler) QueryAppointments(c *gin.Context) {
	attribute := strings.ToLower(c.Query("attribute"))
	value := c.Query("value")
	if attribute == "" || value == "" {
		utils.BadRequest(c, "Query requires attribute and value parameters.")
		return
	}

	var filter appointments.Filter
	switch attribute {
	case "id":
		filter.ID = value
	case "name":
		filter.Name = value
	case "status":
		filter.Status = models.AppointmentStatus(strings.ToLower(value))
	case "date":
		if _, err := models.ParseDate(value); err != nil {
			utils.BadRequest(c, "Date filter must use the "+models.DateLayout+" layout.")
			return
		}
		filter.Date = value
	case "sender", "requestor":
		filter.Sender = value
	case "recipient":
		filter.Recipient = value
	default:
		utils.BadRequest(c, "Unknown query attribute: "+attribute)
		return
	}

	appts, err := h.Repo.QueryAppointments(c.Request.Context(), filter)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appts)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appt, err := h.Repo.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Appointment fetched successfully", appt)
}

// RescheduleAppointmentRequest represents the request body for rescheduling an appointment.
type RescheduleAppointmentRequest struct {
	Sender  string           `json:"sender" binding:"required,email"`
	NewDate models.Date      `json:"newDate" binding:"required"`
	NewTime models.TimeOfDay `json:"newTime" binding:"required"`
}

// RescheduleAppointment handles moving an appointment to a new future
// date and time. Either participant may reschedule.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, err := h.Engine.Reschedule(c.Request.Context(), c.Param("id"), req.Sender, req.NewDate, req.NewTime)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Appointment rescheduled successfully", appt)
}

// SignAppointmentRequest represents the request body for signing off an appointment.
type SignAppointmentRequest struct {
	Sender    string `json:"sender" binding:"required,email"`
	Signature string `json:"signature" binding:"required,oneof=accepted rejected"`
}

// SignAppointment handles the manager sign-off resolving an appointment to
// approved or rejected.
func (h *AppointmentHandler) SignAppointment(c *gin.Context) {
	var req SignAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, err := h.Engine.Sign(c.Request.Context(), c.Param("id"), req.Sender, appointments.Decision(req.Signature))
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Appointment signed successfully", appt)
}

// RemoveAppointment handles deleting a rejected or expired appointment. The
// requestor identity comes from the X-Requestor header or the requestor
// query parameter.
func (h *AppointmentHandler) RemoveAppointment(c *gin.Context) {
	requestor, ok := middleware.GetRequestorFromContext(c)
	if !ok {
		requestor = c.Query("requestor")
	}
	if requestor == "" {
		utils.BadRequest(c, "Requestor identity required (X-Requestor header or requestor query parameter).")
		return
	}

	if err := h.Engine.Remove(c.Request.Context(), c.Param("id"), requestor); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Appointment removed successfully", nil)
}
