package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	candidates := r.Group("/candidates")
	{
		candidates.GET("", handler.List)
		candidates.POST("", handler.Create)
		candidates.GET("/:id", handler.Get)
		candidates.PUT("/:id", handler.Update)
		candidates.DELETE("/:id", handler.Delete)
		candidates.PUT("/:id/skills", handler.SetSkills)
		candidates.GET("/:id/applications", handler.ListApplications)
	}
}

// List godoc
// @Summary      Search candidates
// @Tags         candidates
// @Produce      json
// @Param        q          query     string  false  "Name, email or title"
// @Param        status     query     string  false  "Candidate status"
// @Param        skill_id   query     string  false  "Has skill"
// @Param        owner_id   query     string  false  "Owning consultant"
// @Param        tag        query     string  false  "Tag"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  response.Response{data=[]domain.Candidate}
// @Router       /candidates [get]
// @Security     BearerAuth
func (h *CandidateHandler) List(c *gin.Context) {
	var filter domain.CandidateFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.candidateUC.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Candidates retrieved", page)
}

// Create godoc
// @Summary      Create a candidate
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        candidate  body      domain.CreateCandidateRequest  true  "Candidate"
// @Success      201        {object}  response.Response{data=domain.Candidate}
// @Failure      400        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Router       /candidates [post]
// @Security     BearerAuth
func (h *CandidateHandler) Create(c *gin.Context) {
	var req domain.CreateCandidateRequest
	if !bindJSON(c, &req) {
		return
	}
	candidate, err := h.candidateUC.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Candidate created", candidate)
}

func (h *CandidateHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	candidate, err := h.candidateUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate retrieved", candidate)
}

func (h *CandidateHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateCandidateRequest
	if !bindJSON(c, &req) {
		return
	}
	candidate, err := h.candidateUC.Update(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate updated", candidate)
}

func (h *CandidateHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.candidateUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate deleted", nil)
}

// SetSkills godoc
// @Summary      Replace a candidate's skills
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id      path      string                            true  "Candidate ID"
// @Param        skills  body      domain.SetCandidateSkillsRequest  true  "Skills"
// @Success      200     {object}  response.Response{data=domain.Candidate}
// @Router       /candidates/{id}/skills [put]
// @Security     BearerAuth
func (h *CandidateHandler) SetSkills(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.SetCandidateSkillsRequest
	if !bindJSON(c, &req) {
		return
	}
	candidate, err := h.candidateUC.SetSkills(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate skills updated", candidate)
}

func (h *CandidateHandler) ListApplications(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var page domain.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	result, err := h.candidateUC.ListApplications(c.Request.Context(), id, page)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Applications retrieved", result)
}
