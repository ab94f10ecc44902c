package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type OfficeHandler struct {
	officeUC domain.OfficeUsecase
}

func NewOfficeHandler(r *gin.RouterGroup, officeUC domain.OfficeUsecase) {
	handler := &OfficeHandler{officeUC: officeUC}

	offices := r.Group("/offices")
	{
		offices.GET("", handler.ListOffices)
		offices.POST("", handler.CreateOffice)
		offices.GET("/:id", handler.GetOffice)
		offices.PUT("/:id", handler.UpdateOffice)
		offices.DELETE("/:id", handler.DeleteOffice)
		offices.GET("/:id/consultants", handler.ListOfficeConsultants)
	}

	consultants := r.Group("/consultants")
	{
		consultants.GET("", handler.ListConsultants)
		consultants.POST("", handler.CreateConsultant)
		consultants.GET("/:id", handler.GetConsultant)
		consultants.PUT("/:id", handler.UpdateConsultant)
		consultants.DELETE("/:id", handler.DeleteConsultant)
	}
}

func (h *OfficeHandler) ListOffices(c *gin.Context) {
	var page domain.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	result, err := h.officeUC.ListOffices(c.Request.Context(), page)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Offices retrieved", result)
}

func (h *OfficeHandler) CreateOffice(c *gin.Context) {
	var req domain.CreateOfficeRequest
	if !bindJSON(c, &req) {
		return
	}
	office, err := h.officeUC.CreateOffice(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Office created", office)
}

func (h *OfficeHandler) GetOffice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	office, err := h.officeUC.GetOffice(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Office retrieved", office)
}

func (h *OfficeHandler) UpdateOffice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateOfficeRequest
	if !bindJSON(c, &req) {
		return
	}
	office, err := h.officeUC.UpdateOffice(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Office updated", office)
}

func (h *OfficeHandler) DeleteOffice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.officeUC.DeleteOffice(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Office deleted", nil)
}

func (h *OfficeHandler) ListOfficeConsultants(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var filter domain.ConsultantFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.OfficeID = id
	h.listConsultants(c, filter)
}

func (h *OfficeHandler) ListConsultants(c *gin.Context) {
	var filter domain.ConsultantFilter
	if !bindQuery(c, &filter) {
		return
	}
	h.listConsultants(c, filter)
}

func (h *OfficeHandler) listConsultants(c *gin.Context, filter domain.ConsultantFilter) {
	page, err := h.officeUC.ListConsultants(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Consultants retrieved", page)
}

func (h *OfficeHandler) CreateConsultant(c *gin.Context) {
	var req domain.CreateConsultantRequest
	if !bindJSON(c, &req) {
		return
	}
	consultant, err := h.officeUC.CreateConsultant(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Consultant created", consultant)
}

func (h *OfficeHandler) GetConsultant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	consultant, err := h.officeUC.GetConsultant(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Consultant retrieved", consultant)
}

func (h *OfficeHandler) UpdateConsultant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateConsultantRequest
	if !bindJSON(c, &req) {
		return
	}
	consultant, err := h.officeUC.UpdateConsultant(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Consultant updated", consultant)
}

func (h *OfficeHandler) DeleteConsultant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.officeUC.DeleteConsultant(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Consultant deleted", nil)
}
