package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkmark/inkmark/internal/geom"
	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
	"github.com/inkmark/inkmark/internal/pkg/response"
	"github.com/inkmark/inkmark/internal/service"
)

type SignatureHandler struct {
	signatures *service.SignatureService
}

func NewSignatureHandler(signatures *service.SignatureService) *SignatureHandler {
	return &SignatureHandler{signatures: signatures}
}

// screenPlacement carries the client's raw pointer event together with the
// render metrics needed to map it into document space. A page that has not
// reported its rendered and intrinsic width yet cannot be placed on.
type screenPlacement struct {
	PointerX       float64 `json:"pointer_x"`
	PointerY       float64 `json:"pointer_y"`
	ContainerLeft  float64 `json:"container_left"`
	ContainerTop   float64 `json:"container_top"`
	RenderedWidth  float64 `json:"rendered_width"`
	IntrinsicWidth float64 `json:"intrinsic_width"`
}

// dragDelta moves an existing mark by a screen-space delta; the scale
// factor is applied to the delta, not to the stored position.
type dragDelta struct {
	DeltaX         float64 `json:"delta_x"`
	DeltaY         float64 `json:"delta_y"`
	RenderedWidth  float64 `json:"rendered_width"`
	IntrinsicWidth float64 `json:"intrinsic_width"`
}

type createSignatureRequest struct {
	DocumentID string           `json:"document_id" binding:"required"`
	Page       int              `json:"page" binding:"required"`
	X          *float64         `json:"x"`
	Y          *float64         `json:"y"`
	Screen     *screenPlacement `json:"screen"`
	Text       string           `json:"text"`
	Font       string           `json:"font"`
	FontSize   float64          `json:"font_size"`
	Color      string           `json:"color"`
}

type updateSignatureRequest struct {
	X        *float64   `json:"x"`
	Y        *float64   `json:"y"`
	Drag     *dragDelta `json:"drag"`
	Text     *string    `json:"text"`
	Font     *string    `json:"font"`
	FontSize *float64   `json:"font_size"`
	Color    *string    `json:"color"`
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

func (h *SignatureHandler) Create(c *gin.Context) {
	var req createSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	in, err := buildCreateInput(req)
	if err != nil {
		handleError(c, err)
		return
	}
	sig, err := h.signatures.Create(c.Request.Context(), userActor(c), in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, sig)
}

func (h *SignatureHandler) ListByDocument(c *gin.Context) {
	items, err := h.signatures.ListByDocument(c.Request.Context(), userActor(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

func (h *SignatureHandler) Update(c *gin.Context) {
	var req updateSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	h.update(c, userActor(c), c.Param("id"), req)
}

func (h *SignatureHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	sig, err := h.signatures.SetStatus(c.Request.Context(), userActor(c), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, sig)
}

func (h *SignatureHandler) Delete(c *gin.Context) {
	if err := h.signatures.Delete(c.Request.Context(), userActor(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// update resolves an optional drag delta into absolute coordinates, then
// hands the partial patch to the service. Shared with the public signing
// routes.
func (h *SignatureHandler) update(c *gin.Context, actor service.Actor, sigID string, req updateSignatureRequest) {
	patch := service.UpdateSignatureInput{
		X:        req.X,
		Y:        req.Y,
		Text:     req.Text,
		Font:     req.Font,
		FontSize: req.FontSize,
		Color:    req.Color,
	}
	if req.Drag != nil {
		sig, err := h.signatures.Get(c.Request.Context(), actor, sigID)
		if err != nil {
			handleError(c, err)
			return
		}
		x, y, err := geom.ApplyDragDelta(sig.X, sig.Y, req.Drag.DeltaX, req.Drag.DeltaY, req.Drag.RenderedWidth, req.Drag.IntrinsicWidth)
		if err != nil {
			handleError(c, err)
			return
		}
		patch.X = &x
		patch.Y = &y
	}
	sig, err := h.signatures.Update(c.Request.Context(), actor, sigID, patch)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, sig)
}

func buildCreateInput(req createSignatureRequest) (service.CreateSignatureInput, error) {
	in := service.CreateSignatureInput{
		DocumentID: req.DocumentID,
		Page:       req.Page,
		Text:       req.Text,
		Font:       req.Font,
		FontSize:   req.FontSize,
		Color:      req.Color,
	}
	switch {
	case req.Screen != nil:
		x, y, err := geom.ScreenToDocument(req.Screen.PointerX, req.Screen.PointerY, req.Screen.ContainerLeft, req.Screen.ContainerTop, req.Screen.RenderedWidth, req.Screen.IntrinsicWidth)
		if err != nil {
			return in, err
		}
		in.X, in.Y = x, y
	case req.X != nil && req.Y != nil:
		in.X, in.Y = *req.X, *req.Y
	default:
		return in, appErr.ErrInvalid
	}
	return in, nil
}
