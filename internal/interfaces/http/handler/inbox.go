package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inboxapp "github.com/innledger/backend/internal/application/inbox"
)

// InboxService manages received document metadata
type InboxService interface {
	List(ctx context.Context, q inboxapp.ListQuery) ([]inboxapp.DocumentResponse, error)
	Create(ctx context.Context, req inboxapp.CreateDocumentRequest) (*inboxapp.DocumentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req inboxapp.UpdateDocumentRequest) (*inboxapp.DocumentResponse, error)
	Process(ctx context.Context, id uuid.UUID) (*inboxapp.DocumentResponse, error)
	Archive(ctx context.Context, id uuid.UUID) (*inboxapp.DocumentResponse, error)
	Link(ctx context.Context, id uuid.UUID, req inboxapp.LinkRequest) (*inboxapp.DocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InboxHandler handles document inbox endpoints
type InboxHandler struct {
	BaseHandler
	inbox InboxService
}

// NewInboxHandler creates a new InboxHandler
func NewInboxHandler(inbox InboxService) *InboxHandler {
	return &InboxHandler{inbox: inbox}
}

// List godoc
// @Summary      List inbox documents
// @Tags         inbox
// @Produce      json
// @Param        status query string false "Status" Enums(new, processed, archived)
// @Success      200 {object} dto.Response{data=[]inboxapp.DocumentResponse}
// @Router       /inbox [get]
func (h *InboxHandler) List(c *gin.Context) {
	var q inboxapp.ListQuery
	if err := bindQuery(c, &q); err != nil {
		h.Fail(c, err)
		return
	}
	list, err := h.inbox.List(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, list)
}

// Create records document metadata
// @Router /inbox [post]
func (h *InboxHandler) Create(c *gin.Context) {
	var req inboxapp.CreateDocumentRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	doc, err := h.inbox.Create(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, doc)
}

// Update partially updates a document
// @Router /inbox/{id} [patch]
func (h *InboxHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req inboxapp.UpdateDocumentRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	doc, err := h.inbox.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, doc)
}

// Process moves a new document to processed
// @Router /inbox/{id}/process [post]
func (h *InboxHandler) Process(c *gin.Context) {
	h.transition(c, h.inbox.Process)
}

// Archive moves a document to archived
// @Router /inbox/{id}/archive [post]
func (h *InboxHandler) Archive(c *gin.Context) {
	h.transition(c, h.inbox.Archive)
}

// Link godoc
// @Summary      Link a payment item
// @Tags         inbox
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Document ID"
// @Param        request body inboxapp.LinkRequest true "Payment item to link"
// @Success      200 {object} dto.Response{data=inboxapp.DocumentResponse}
// @Failure      400 {object} ErrorResponse
// @Router       /inbox/{id}/link [post]
func (h *InboxHandler) Link(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req inboxapp.LinkRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	doc, err := h.inbox.Link(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, doc)
}

// Delete removes a document
// @Router /inbox/{id} [delete]
func (h *InboxHandler) Delete(c *gin.Context) {
	h.deleteByID(c, h.inbox.Delete)
}

func (h *InboxHandler) transition(c *gin.Context, move func(context.Context, uuid.UUID) (*inboxapp.DocumentResponse, error)) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	doc, err := move(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, doc)
}
