package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/middleware"
	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUC domain.UserUsecase
}

func NewUserHandler(protected *gin.RouterGroup, userUC domain.UserUsecase) {
	handler := &UserHandler{userUC: userUC}

	users := protected.Group("/users")
	{
		users.PUT("/me", handler.UpdateProfile)
		users.GET("/me/settings", handler.GetSettings)
		users.PUT("/me/settings", handler.UpdateSettings)
		users.GET("", middleware.RequireRole(domain.RoleManager), handler.List)
		users.GET("/:id", handler.Get)
	}
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      domain.UpdateProfileRequest  true  "Profile"
// @Success      200   {object}  response.Response{data=domain.User}
// @Router       /users/me [put]
// @Security     BearerAuth
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userUC.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", user)
}

func (h *UserHandler) GetSettings(c *gin.Context) {
	settings, err := h.userUC.GetSettings(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Settings retrieved", settings)
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var req domain.UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.userUC.UpdateSettings(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Settings updated", settings)
}

// List godoc
// @Summary      List active users
// @Tags         users
// @Produce      json
// @Param        q          query     string  false  "Name or email"
// @Param        role       query     string  false  "admin, manager or consultant"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  response.Response{data=[]domain.User}
// @Router       /users [get]
// @Security     BearerAuth
func (h *UserHandler) List(c *gin.Context) {
	var filter domain.UserFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.userUC.ListUsers(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Users retrieved", page)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.userUC.GetUser(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved", user)
}
