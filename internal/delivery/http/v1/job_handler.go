package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(r *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	jobs := r.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.POST("", handler.Create)
		jobs.GET("/:id", handler.Get)
		jobs.PUT("/:id", handler.Update)
		jobs.DELETE("/:id", handler.Delete)
		jobs.PATCH("/:id/status", handler.UpdateStatus)
		jobs.PUT("/:id/skills", handler.SetSkills)
		jobs.GET("/:id/applications", handler.ListApplications)
	}
}

// List godoc
// @Summary      List job orders
// @Tags         jobs
// @Produce      json
// @Param        q                query     string  false  "Title"
// @Param        status           query     string  false  "draft, open, on_hold, closed or filled"
// @Param        company_id       query     string  false  "Company"
// @Param        consultant_id    query     string  false  "Assigned consultant"
// @Param        employment_type  query     string  false  "Employment type"
// @Param        page             query     int     false  "Page number"
// @Param        page_size        query     int     false  "Page size"
// @Success      200              {object}  response.Response{data=[]domain.Job}
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) List(c *gin.Context) {
	var filter domain.JobFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.jobUC.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Jobs retrieved", page)
}

// Create godoc
// @Summary      Create a job order
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      domain.CreateJobRequest  true  "Job"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req domain.CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.jobUC.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}

func (h *JobHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	job, err := h.jobUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}

func (h *JobHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateJobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.jobUC.Update(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.jobUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", nil)
}

// UpdateStatus godoc
// @Summary      Move a job through its lifecycle
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id      path      string                         true  "Job ID"
// @Param        status  body      domain.UpdateJobStatusRequest  true  "New status"
// @Success      200     {object}  response.Response{data=domain.Job}
// @Failure      400     {object}  response.Response
// @Router       /jobs/{id}/status [patch]
// @Security     BearerAuth
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateJobStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.jobUC.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job status updated", job)
}

func (h *JobHandler) SetSkills(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.SetJobSkillsRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.jobUC.SetSkills(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job skills updated", job)
}

func (h *JobHandler) ListApplications(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var page domain.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	result, err := h.jobUC.ListApplications(c.Request.Context(), id, page)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Applications retrieved", result)
}
