package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/middleware"
	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := protected.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	{
		// User management
		admin.GET("/users", handler.ListUsers)
		admin.POST("/users", handler.CreateUser)
		admin.PUT("/users/:id", handler.UpdateUser)
		admin.PATCH("/users/:id/disable", handler.SetDisabled)
		admin.DELETE("/users/:id", handler.DeleteUser)

		// Audit
		admin.GET("/security-events", handler.ListSecurityEvents)
	}
}

// ListUsers godoc
// @Summary      List users
// @Description  Includes disabled accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role       query     string  false  "Filter by role"
// @Param        q          query     string  false  "Name or email contains"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  response.Response{data=[]domain.User}
// @Failure      403        {object}  response.Response
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter domain.UserFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.adminUC.ListUsers(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Users retrieved", page)
}

// CreateUser godoc
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user  body      domain.AdminCreateUserRequest  true  "User"
// @Success      201   {object}  response.Response{data=domain.User}
// @Failure      409   {object}  response.Response
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req domain.AdminCreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.adminUC.CreateUser(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "User created", user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.AdminUpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.adminUC.UpdateUser(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User updated", user)
}

// SetDisabled godoc
// @Summary      Disable or re-enable a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "User ID"
// @Param        body  body      domain.SetDisabledRequest  true  "State"
// @Success      200   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Router       /admin/users/{id}/disable [patch]
func (h *AdminHandler) SetDisabled(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.SetDisabledRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.adminUC.SetDisabled(c.Request.Context(), currentUserID(c), id, *req.Disabled)
	if err != nil {
		c.Error(err)
		return
	}
	message := "User enabled"
	if *req.Disabled {
		message = "User disabled"
	}
	response.Success(c, http.StatusOK, message, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.adminUC.DeleteUser(c.Request.Context(), currentUserID(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted", nil)
}

func (h *AdminHandler) ListSecurityEvents(c *gin.Context) {
	var filter domain.SecurityEventFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.adminUC.ListSecurityEvents(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Security events retrieved", page)
}
