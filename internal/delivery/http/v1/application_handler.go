package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

func NewApplicationHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	applications := r.Group("/applications")
	{
		applications.GET("", handler.List)
		applications.POST("", handler.Create)
		applications.GET("/:id", handler.Get)
		applications.PATCH("/:id/stage", handler.ChangeStage)
		applications.GET("/:id/history", handler.History)
		applications.DELETE("/:id", handler.Delete)
	}
}

// List godoc
// @Summary      List applications
// @Tags         applications
// @Produce      json
// @Param        job_id        query     string  false  "Job"
// @Param        candidate_id  query     string  false  "Candidate"
// @Param        stage         query     string  false  "Pipeline stage"
// @Param        page          query     int     false  "Page number"
// @Param        page_size     query     int     false  "Page size"
// @Success      200           {object}  response.Response{data=[]domain.Application}
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) List(c *gin.Context) {
	var filter domain.ApplicationFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.applicationUC.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Applications retrieved", page)
}

// Create godoc
// @Summary      Add a candidate to a job pipeline
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        application  body      domain.CreateApplicationRequest  true  "Application"
// @Success      201          {object}  response.Response{data=domain.Application}
// @Failure      409          {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req domain.CreateApplicationRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.applicationUC.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application created", app)
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	app, err := h.applicationUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// ChangeStage godoc
// @Summary      Move an application to another stage
// @Description  Moves follow the stage transition table. Hired, rejected and withdrawn are final.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id     path      string                     true  "Application ID"
// @Param        stage  body      domain.ChangeStageRequest  true  "Target stage"
// @Success      200    {object}  response.Response{data=domain.Application}
// @Failure      409    {object}  response.Response
// @Router       /applications/{id}/stage [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) ChangeStage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.ChangeStageRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.applicationUC.ChangeStage(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application stage updated", app)
}

func (h *ApplicationHandler) History(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	history, err := h.applicationUC.History(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Stage history retrieved", history)
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.applicationUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application deleted", nil)
}
