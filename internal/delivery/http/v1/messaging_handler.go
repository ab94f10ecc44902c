package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type MessagingHandler struct {
	messagingUC domain.MessagingUsecase
}

func NewMessagingHandler(r *gin.RouterGroup, messagingUC domain.MessagingUsecase) {
	handler := &MessagingHandler{messagingUC: messagingUC}

	conversations := r.Group("/conversations")
	{
		conversations.GET("", handler.ListConversations)
		conversations.POST("", handler.CreateConversation)
		conversations.GET("/:id", handler.GetConversation)
		conversations.GET("/:id/messages", handler.ListMessages)
		conversations.POST("/:id/messages", handler.SendMessage)
		conversations.POST("/:id/read", handler.MarkRead)
		conversations.PATCH("/:id/archive", handler.SetArchived)
	}
}

// ListConversations godoc
// @Summary      My conversations with unread counts
// @Tags         messaging
// @Produce      json
// @Param        archived   query     bool  false  "Show archived conversations"
// @Param        page       query     int   false  "Page number"
// @Param        page_size  query     int   false  "Page size"
// @Success      200        {object}  response.Response{data=[]domain.Conversation}
// @Router       /conversations [get]
// @Security     BearerAuth
func (h *MessagingHandler) ListConversations(c *gin.Context) {
	var filter domain.ConversationFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.messagingUC.ListConversations(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Conversations retrieved", page)
}

func (h *MessagingHandler) CreateConversation(c *gin.Context) {
	var req domain.CreateConversationRequest
	if !bindJSON(c, &req) {
		return
	}
	conv, err := h.messagingUC.CreateConversation(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Conversation created", conv)
}

func (h *MessagingHandler) GetConversation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	conv, err := h.messagingUC.GetConversation(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Conversation retrieved", conv)
}

func (h *MessagingHandler) ListMessages(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var page domain.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	result, err := h.messagingUC.ListMessages(c.Request.Context(), currentUserID(c), id, page)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "Messages retrieved", result)
}

// SendMessage godoc
// @Summary      Post a message
// @Description  Markdown body. With send_email the message is also mailed to the linked candidate.
// @Tags         messaging
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Conversation ID"
// @Param        message  body      domain.SendMessageRequest  true  "Message"
// @Success      201      {object}  response.Response{data=domain.Message}
// @Failure      403      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /conversations/{id}/messages [post]
// @Security     BearerAuth
func (h *MessagingHandler) SendMessage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.messagingUC.SendMessage(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Message sent", msg)
}

func (h *MessagingHandler) MarkRead(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.messagingUC.MarkRead(c.Request.Context(), currentUserID(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Conversation marked as read", nil)
}

func (h *MessagingHandler) SetArchived(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req domain.ArchiveRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.messagingUC.SetArchived(c.Request.Context(), currentUserID(c), id, *req.Archived); err != nil {
		c.Error(err)
		return
	}
	message := "Conversation restored"
	if *req.Archived {
		message = "Conversation archived"
	}
	response.Success(c, http.StatusOK, message, nil)
}
