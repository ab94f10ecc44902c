package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	aiUC domain.AIUsecase
}

// NewAIHandler registers the assistant endpoints. limiter is applied per user
// on top of the global limit since every call may reach the LLM provider.
func NewAIHandler(r *gin.RouterGroup, aiUC domain.AIUsecase, limiter gin.HandlerFunc) {
	handler := &AIHandler{aiUC: aiUC}

	ai := r.Group("/ai", limiter)
	{
		ai.POST("/cv-analysis", handler.AnalyzeCV)
		ai.POST("/job-match", handler.MatchJob)
		ai.POST("/email", handler.DraftEmail)
		ai.POST("/job-description", handler.DraftJobDescription)
	}
}

// AnalyzeCV godoc
// @Summary      Extract structured data from a CV
// @Description  Uses cv_text, or the stored CV of candidate_id. With save the extracted skills are merged into the candidate profile.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CVAnalysisRequest  true  "CV"
// @Success      200   {object}  response.Response{data=domain.CVAnalysis}
// @Failure      502   {object}  response.Response
// @Failure      503   {object}  response.Response
// @Router       /ai/cv-analysis [post]
// @Security     BearerAuth
func (h *AIHandler) AnalyzeCV(c *gin.Context) {
	var req domain.CVAnalysisRequest
	if !bindJSON(c, &req) {
		return
	}
	analysis, err := h.aiUC.AnalyzeCV(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "CV analysed", analysis)
}

// MatchJob godoc
// @Summary      Score a candidate against a job
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      domain.JobMatchRequest  true  "Candidate and job"
// @Success      200   {object}  response.Response{data=domain.JobMatch}
// @Router       /ai/job-match [post]
// @Security     BearerAuth
func (h *AIHandler) MatchJob(c *gin.Context) {
	var req domain.JobMatchRequest
	if !bindJSON(c, &req) {
		return
	}
	match, err := h.aiUC.MatchJob(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Match computed", match)
}

func (h *AIHandler) DraftEmail(c *gin.Context) {
	var req domain.EmailDraftRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, err := h.aiUC.DraftEmail(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Email drafted", draft)
}

func (h *AIHandler) DraftJobDescription(c *gin.Context) {
	var req domain.JobDescriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, err := h.aiUC.DraftJobDescription(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job description drafted", draft)
}
