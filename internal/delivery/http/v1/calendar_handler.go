package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	calendarUC domain.CalendarUsecase
}

func NewCalendarHandler(r *gin.RouterGroup, calendarUC domain.CalendarUsecase) {
	handler := &CalendarHandler{calendarUC: calendarUC}

	events := r.Group("/calendar/events")
	{
		events.GET("", handler.List)
		events.POST("", handler.Create)
		events.GET("/:id", handler.Get)
		events.PUT("/:id", handler.Update)
		events.DELETE("/:id", handler.Delete)
	}
}

// List godoc
// @Summary      My calendar
// @Description  Events I organise or attend that intersect [from, to). Defaults to the next 30 days.
// @Tags         calendar
// @Produce      json
// @Param        from  query     string  false  "RFC3339 start"
// @Param        to    query     string  false  "RFC3339 end"
// @Success      200   {object}  response.Response{data=[]domain.CalendarEvent}
// @Router       /calendar/events [get]
// @Security     BearerAuth
func (h *CalendarHandler) List(c *gin.Context) {
	var filter domain.CalendarFilter
	if !bindQuery(c, &filter) {
		return
	}
	events, err := h.calendarUC.List(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Events retrieved", events)
}

func (h *CalendarHandler) Create(c *gin.Context) {
	var req domain.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}
	ev, err := h.calendarUC.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Event created", ev)
}

func (h *CalendarHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ev, err := h.calendarUC.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event retrieved", ev)
}

func (h *CalendarHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateEventRequest
	if !bindJSON(c, &req) {
		return
	}
	ev, err := h.calendarUC.Update(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event updated", ev)
}

func (h *CalendarHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.calendarUC.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event deleted", nil)
}
