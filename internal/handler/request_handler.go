package handler

import (
	"errors"
	"net/http"

	"github.com/Asamaludi26/inventory-be/internal/middleware"
	"github.com/Asamaludi26/inventory-be/internal/service"
	"github.com/Asamaludi26/inventory-be/internal/workflow"
	"github.com/Asamaludi26/inventory-be/pkg/pagination"
	"github.com/Asamaludi26/inventory-be/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RequestHandler struct {
	requestService service.RequestService
}

// NewRequestHandler sets up the routing dependencies for request endpoints
func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/requests", middleware.RequireAuth())
	{
		requests.POST("", h.Create)
		requests.GET("", h.List)
		requests.GET("/:id", h.Get)
		requests.POST("/:id/review", middleware.RequireRole(workflow.RoleAdminLogistik, workflow.RoleAdminPurchase, workflow.RoleSuperAdmin), h.Review)
		requests.POST("/:id/submit-ceo", middleware.RequireRole(workflow.RoleAdminPurchase, workflow.RoleSuperAdmin), h.SubmitForCEO)
		requests.POST("/:id/approve", middleware.RequireRole(workflow.RoleSuperAdmin), h.FinalApprove)
		requests.POST("/:id/procure", middleware.RequireRole(workflow.RoleAdminPurchase, workflow.RoleSuperAdmin), h.StartProcurement)
		requests.POST("/:id/ship", middleware.RequireRole(workflow.RoleAdminPurchase, workflow.RoleSuperAdmin), h.ConfirmShipment)
		requests.POST("/:id/arrive", middleware.RequireRole(workflow.RoleAdminLogistik, workflow.RoleAdminPurchase, workflow.RoleSuperAdmin), h.ConfirmArrival)
		requests.POST("/:id/register", middleware.RequireRole(workflow.RoleAdminLogistik, workflow.RoleSuperAdmin), h.RegisterItems)
		requests.POST("/:id/cancel", h.Cancel)
		requests.POST("/:id/follow-up", h.FollowUp)
		requests.POST("/:id/prioritize", middleware.RequireRole(workflow.RoleSuperAdmin), h.Prioritize)
		requests.POST("/:id/progress", h.RequestProgressUpdate)
		requests.POST("/:id/progress/ack", middleware.RequireRole(workflow.RoleAdminPurchase, workflow.RoleSuperAdmin), h.AcknowledgeProgressUpdate)
	}
}

// respondError maps workflow and storage errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var cooldown *workflow.CooldownError
	switch {
	case workflow.IsValidation(err):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.Is(err, workflow.ErrNotPermitted):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
	case errors.As(err, &cooldown):
		c.JSON(http.StatusTooManyRequests, response.Error(http.StatusTooManyRequests, err.Error()))
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Request not found"))
	case errors.Is(err, workflow.ErrInvalidTransition), errors.Is(err, workflow.ErrTerminalState):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}

// Create handles POST /requests
// @Summary      Create a procurement request
// @Description  Creates a request with its items. Urgent requests need a justification, project-based ones a project name.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRequestDTO  true  "Request payload"
// @Success      201      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Router       /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var dto service.CreateRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	req, err := h.requestService.Create(c.Request.Context(), c.GetString("userID"), dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, req))
}

// List handles GET /requests
// @Summary      List requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	requests, total, err := h.requestService.List(c.Request.Context(), service.RequestFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, requests, total, params.Page, params.Limit))
}

// Get handles GET /requests/:id
// @Summary      Get a request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request code (REQ-001)"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      404  {object}  response.Response
// @Router       /requests/{id} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.requestService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Review handles POST /requests/:id/review
// @Summary      Review a request
// @Description  Applies per-item approval decisions at the current stage. Undecided items are fully approved; all quantities at zero rejects the request.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Request code"
// @Param        payload  body      service.ReviewRequestDTO  true  "Per-item decisions"
// @Success      200      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /requests/{id}/review [post]
func (h *RequestHandler) Review(c *gin.Context) {
	var dto service.ReviewRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	req, err := h.requestService.Review(c.Request.Context(), c.Param("id"), c.GetString("userID"), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// SubmitForCEO handles POST /requests/:id/submit-ceo
// @Summary      Submit a request for CEO approval
// @Description  Attaches vendor and unit price details and forwards the request to the CEO stage
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Request code"
// @Param        payload  body      service.SubmitForCEODTO  true  "Purchase details"
// @Success      200      {object}  response.Response{data=model.Request}
// @Failure      409      {object}  response.Response
// @Router       /requests/{id}/submit-ceo [post]
func (h *RequestHandler) SubmitForCEO(c *gin.Context) {
	var dto service.SubmitForCEODTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	req, err := h.requestService.SubmitForCEO(c.Request.Context(), c.Param("id"), c.GetString("userID"), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// FinalApprove handles POST /requests/:id/approve
// @Summary      Final-approve a request (CEO)
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request code"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      409  {object}  response.Response
// @Router       /requests/{id}/approve [post]
func (h *RequestHandler) FinalApprove(c *gin.Context) {
	req, err := h.requestService.FinalApprove(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// StartProcurement handles POST /requests/:id/procure
// @Summary      Start procurement
// @Description  Moves an approved request into purchasing; the estimated delivery date is required
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Request code"
// @Param        payload  body      service.StartProcurementDTO  true  "Procurement details"
// @Success      200      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Router       /requests/{id}/procure [post]
func (h *RequestHandler) StartProcurement(c *gin.Context) {
	var dto service.StartProcurementDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	req, err := h.requestService.StartProcurement(c.Request.Context(), c.Param("id"), c.GetString("userID"), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// ConfirmShipment handles POST /requests/:id/ship
// @Summary      Confirm shipment
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request code"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      409  {object}  response.Response
// @Router       /requests/{id}/ship [post]
func (h *RequestHandler) ConfirmShipment(c *gin.Context) {
	req, err := h.requestService.ConfirmShipment(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// ConfirmArrival handles POST /requests/:id/arrive
// @Summary      Confirm arrival
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true   "Request code"
// @Param        payload  body      service.ConfirmArrivalDTO  false  "Receiver"
// @Success      200      {object}  response.Response{data=model.Request}
// @Failure      409      {object}  response.Response
// @Router       /requests/{id}/arrive [post]
func (h *RequestHandler) ConfirmArrival(c *gin.Context) {
	var dto service.ConfirmArrivalDTO
	_ = c.ShouldBindJSON(&dto) // Body is optional

	req, err := h.requestService.ConfirmArrival(c.Request.Context(), c.Param("id"), c.GetString("userID"), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// RegisterItems handles POST /requests/:id/register
// @Summary      Register arrived items
// @Description  Records a batch of registered quantities per item, minting asset records. The request completes once every item reaches its approved quantity.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Request code"
// @Param        payload  body      service.RegisterItemsDTO  true  "Item counts"
// @Success      200      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Router       /requests/{id}/register [post]
func (h *RequestHandler) RegisterItems(c *gin.Context) {
	var dto service.RegisterItemsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	req, err := h.requestService.RegisterItems(c.Request.Context(), c.Param("id"), c.GetString("userID"), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Cancel handles POST /requests/:id/cancel
// @Summary      Cancel a request
// @Description  Requesters may cancel their own requests before arrival; approver roles may cancel any request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true   "Request code"
// @Param        payload  body      service.CancelRequestDTO  false  "Cancellation reason"
// @Success      200      {object}  response.Response{data=model.Request}
// @Failure      403      {object}  response.Response
// @Router       /requests/{id}/cancel [post]
func (h *RequestHandler) Cancel(c *gin.Context) {
	var dto service.CancelRequestDTO
	_ = c.ShouldBindJSON(&dto) // Body is optional

	req, err := h.requestService.Cancel(c.Request.Context(), c.Param("id"), c.GetString("userID"), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// FollowUp handles POST /requests/:id/follow-up
// @Summary      Follow up on a request
// @Description  Nudges the approver role owning the current stage. Limited to once per 24 hours per request.
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request code"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      429  {object}  response.Response
// @Router       /requests/{id}/follow-up [post]
func (h *RequestHandler) FollowUp(c *gin.Context) {
	req, err := h.requestService.FollowUp(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Prioritize handles POST /requests/:id/prioritize
// @Summary      Prioritize a request (CEO disposition)
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request code"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      409  {object}  response.Response
// @Router       /requests/{id}/prioritize [post]
func (h *RequestHandler) Prioritize(c *gin.Context) {
	req, err := h.requestService.Prioritize(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// RequestProgressUpdate handles POST /requests/:id/progress
// @Summary      Ask for a progress update
// @Description  Lets the requester ask the purchase team for a progress report once the request is approved
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request code"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      400  {object}  response.Response
// @Router       /requests/{id}/progress [post]
func (h *RequestHandler) RequestProgressUpdate(c *gin.Context) {
	req, err := h.requestService.RequestProgressUpdate(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// AcknowledgeProgressUpdate handles POST /requests/:id/progress/ack
// @Summary      Acknowledge a progress update request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request code"
// @Success      200  {object}  response.Response{data=model.Request}
// @Failure      400  {object}  response.Response
// @Router       /requests/{id}/progress/ack [post]
func (h *RequestHandler) AcknowledgeProgressUpdate(c *gin.Context) {
	req, err := h.requestService.AcknowledgeProgressUpdate(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}
