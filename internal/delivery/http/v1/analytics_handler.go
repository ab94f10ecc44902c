package v1

import (
	"fmt"
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsUC domain.AnalyticsUsecase
}

type pipelineQuery struct {
	JobID string `form:"job_id" binding:"omitempty,uuid"`
}

func NewAnalyticsHandler(r *gin.RouterGroup, analyticsUC domain.AnalyticsUsecase) {
	handler := &AnalyticsHandler{analyticsUC: analyticsUC}

	analytics := r.Group("/analytics")
	{
		analytics.GET("/dashboard", handler.Dashboard)
		analytics.GET("/pipeline", handler.Pipeline)
		analytics.GET("/consultants", handler.Consultants)
		analytics.GET("/export", handler.Export)
	}
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analyticsUC.Dashboard(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard retrieved", stats)
}

// Pipeline godoc
// @Summary      Stage funnel
// @Description  Counts applications by the furthest stage they reached, with conversion rates between consecutive stages.
// @Tags         analytics
// @Produce      json
// @Param        job_id  query     string  false  "Restrict to one job"
// @Success      200     {object}  response.Response{data=domain.PipelineReport}
// @Router       /analytics/pipeline [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) Pipeline(c *gin.Context) {
	var q pipelineQuery
	if !bindQuery(c, &q) {
		return
	}
	var jobID *string
	if q.JobID != "" {
		jobID = &q.JobID
	}
	report, err := h.analyticsUC.Pipeline(c.Request.Context(), jobID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Pipeline retrieved", report)
}

func (h *AnalyticsHandler) Consultants(c *gin.Context) {
	stats, err := h.analyticsUC.Consultants(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Consultant stats retrieved", stats)
}

// Export godoc
// @Summary      Export candidates or applications
// @Description  Streams an xlsx or csv file. With archive=true the file is stored in object storage and a presigned URL is returned instead.
// @Tags         analytics
// @Produce      json,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param        type     query     string  true   "candidates or applications"
// @Param        format   query     string  false  "xlsx (default) or csv"
// @Param        archive  query     bool    false  "Store and return a link"
// @Success      200      {object}  response.Response{data=domain.ExportFile}
// @Failure      403      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /analytics/export [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) Export(c *gin.Context) {
	var req domain.ExportRequest
	if !bindQuery(c, &req) {
		return
	}
	file, err := h.analyticsUC.Export(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	if file.URL != "" {
		response.Success(c, http.StatusOK, "Export archived", file)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
