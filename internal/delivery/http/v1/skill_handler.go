package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	skillUC domain.SkillUsecase
}

func NewSkillHandler(r *gin.RouterGroup, skillUC domain.SkillUsecase) {
	handler := &SkillHandler{skillUC: skillUC}

	skills := r.Group("/skills")
	{
		skills.GET("", handler.List)
		skills.POST("", handler.Create)
		skills.GET("/:id", handler.Get)
		skills.PUT("/:id", handler.Update)
		skills.DELETE("/:id", handler.Delete)
	}
}

func (h *SkillHandler) List(c *gin.Context) {
	var filter domain.SkillFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.skillUC.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Skills retrieved", page)
}

func (h *SkillHandler) Create(c *gin.Context) {
	var req domain.CreateSkillRequest
	if !bindJSON(c, &req) {
		return
	}
	skill, err := h.skillUC.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Skill created", skill)
}

func (h *SkillHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	skill, err := h.skillUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill retrieved", skill)
}

func (h *SkillHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateSkillRequest
	if !bindJSON(c, &req) {
		return
	}
	skill, err := h.skillUC.Update(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill updated", skill)
}

func (h *SkillHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.skillUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill deleted", nil)
}
