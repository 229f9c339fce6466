package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkmark/inkmark/internal/model"
	"github.com/inkmark/inkmark/internal/pkg/response"
	"github.com/inkmark/inkmark/internal/service"
)

// PublicHandler serves the unauthenticated signing routes. Every request
// carries the capability token in the path and is re-validated on each call;
// nothing about the session is cached server side.
type PublicHandler struct {
	shares     *service.ShareService
	documents  *service.DocumentService
	signatures *SignatureHandler
	export     *service.ExportService
}

func NewPublicHandler(shares *service.ShareService, documents *service.DocumentService, signatures *SignatureHandler, export *service.ExportService) *PublicHandler {
	return &PublicHandler{shares: shares, documents: documents, signatures: signatures, export: export}
}

func (h *PublicHandler) resolve(c *gin.Context) (*model.Document, service.Actor, bool) {
	doc, actor, err := h.shares.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return nil, service.Actor{}, false
	}
	actor.IP = c.ClientIP()
	return doc, actor, true
}

func (h *PublicHandler) Get(c *gin.Context) {
	doc, actor, ok := h.resolve(c)
	if !ok {
		return
	}
	detail, err := h.documents.Get(c.Request.Context(), actor, doc.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

// File streams the original uploaded PDF so the signer can render it.
func (h *PublicHandler) File(c *gin.Context) {
	doc, actor, ok := h.resolve(c)
	if !ok {
		return
	}
	rc, doc, err := h.documents.OpenSource(c.Request.Context(), actor, doc.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	defer rc.Close()
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	c.DataFromReader(http.StatusOK, -1, "application/pdf", rc, nil)
}

func (h *PublicHandler) CreateSignature(c *gin.Context) {
	doc, actor, ok := h.resolve(c)
	if !ok {
		return
	}
	var req createSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	// The capability scopes the actor to one document; the body cannot
	// redirect the mark elsewhere.
	req.DocumentID = doc.ID
	in, err := buildCreateInput(req)
	if err != nil {
		handleError(c, err)
		return
	}
	sig, err := h.signatures.signatures.Create(c.Request.Context(), actor, in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, sig)
}

func (h *PublicHandler) UpdateSignature(c *gin.Context) {
	_, actor, ok := h.resolve(c)
	if !ok {
		return
	}
	var req updateSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	h.signatures.update(c, actor, c.Param("sid"), req)
}

func (h *PublicHandler) DeleteSignature(c *gin.Context) {
	_, actor, ok := h.resolve(c)
	if !ok {
		return
	}
	if err := h.signatures.signatures.Delete(c.Request.Context(), actor, c.Param("sid")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *PublicHandler) Download(c *gin.Context) {
	doc, actor, ok := h.resolve(c)
	if !ok {
		return
	}
	data, filename, err := h.export.Render(c.Request.Context(), actor, doc.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
