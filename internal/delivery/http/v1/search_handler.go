package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchUC domain.SearchUsecase
}

func NewSearchHandler(r *gin.RouterGroup, searchUC domain.SearchUsecase) {
	handler := &SearchHandler{searchUC: searchUC}
	r.GET("/search", handler.Search)
}

// Search godoc
// @Summary      Global search
// @Description  Case-insensitive substring match over candidates, companies and jobs.
// @Tags         search
// @Produce      json
// @Param        q      query     string  true   "At least 2 characters"
// @Param        types  query     string  false  "Comma separated: candidates,companies,jobs"
// @Param        limit  query     int     false  "Hits per type (max 50)"
// @Success      200    {object}  response.Response{data=domain.SearchResult}
// @Failure      400    {object}  response.Response
// @Router       /search [get]
// @Security     BearerAuth
func (h *SearchHandler) Search(c *gin.Context) {
	var req domain.SearchRequest
	if !bindQuery(c, &req) {
		return
	}
	result, err := h.searchUC.Search(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Search results", result)
}
