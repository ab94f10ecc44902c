package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyUC domain.CompanyUsecase
}

func NewCompanyHandler(r *gin.RouterGroup, companyUC domain.CompanyUsecase) {
	handler := &CompanyHandler{companyUC: companyUC}

	companies := r.Group("/companies")
	{
		companies.GET("", handler.List)
		companies.POST("", handler.Create)
		companies.GET("/:id", handler.Get)
		companies.PUT("/:id", handler.Update)
		companies.DELETE("/:id", handler.Delete)
		companies.GET("/:id/jobs", handler.ListJobs)
	}
}

// List godoc
// @Summary      List client companies
// @Tags         companies
// @Produce      json
// @Param        q          query     string  false  "Name"
// @Param        status     query     string  false  "prospect, client or inactive"
// @Param        industry   query     string  false  "Industry"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  response.Response{data=[]domain.Company}
// @Router       /companies [get]
// @Security     BearerAuth
func (h *CompanyHandler) List(c *gin.Context) {
	var filter domain.CompanyFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.companyUC.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Companies retrieved", page)
}

func (h *CompanyHandler) Create(c *gin.Context) {
	var req domain.CreateCompanyRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.companyUC.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Company created", company)
}

func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	company, err := h.companyUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company retrieved", company)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateCompanyRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.companyUC.Update(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company updated", company)
}

// Delete godoc
// @Summary      Delete a company
// @Description  Managers only. Fails with 409 while the company has draft, open or on-hold jobs.
// @Tags         companies
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /companies/{id} [delete]
// @Security     BearerAuth
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.companyUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company deleted", nil)
}

func (h *CompanyHandler) ListJobs(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var page domain.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	result, err := h.companyUC.ListJobs(c.Request.Context(), id, page)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Jobs retrieved", result)
}
