// Package geom converts between a rendered page's on-screen pixel space and
// the PDF page's intrinsic coordinate space. The scale factor depends on the
// currently rendered width, so callers must recompute on every resize or
// page switch rather than caching results across renders.
package geom

import (
	"math"

	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
)

// ScaleFactor returns intrinsicWidth / renderedWidth. Both widths must be
// positive and finite; a page that has not been rendered yet has no usable
// scale factor and placement must be rejected, never computed against zero.
func ScaleFactor(intrinsicWidth, renderedWidth float64) (float64, error) {
	if !isFinite(intrinsicWidth) || !isFinite(renderedWidth) {
		return 0, appErr.ErrInvalid
	}
	if intrinsicWidth <= 0 || renderedWidth <= 0 {
		return 0, appErr.ErrInvalid
	}
	return intrinsicWidth / renderedWidth, nil
}

// ScreenToDocument maps an absolute pointer position into document space.
func ScreenToDocument(pointerX, pointerY, containerLeft, containerTop, renderedWidth, intrinsicWidth float64) (float64, float64, error) {
	factor, err := ScaleFactor(intrinsicWidth, renderedWidth)
	if err != nil {
		return 0, 0, err
	}
	if !isFinite(pointerX) || !isFinite(pointerY) || !isFinite(containerLeft) || !isFinite(containerTop) {
		return 0, 0, appErr.ErrInvalid
	}
	docX := (pointerX - containerLeft) * factor
	docY := (pointerY - containerTop) * factor
	return docX, docY, nil
}

// DocumentToScreen is the inverse of ScreenToDocument for the same render.
func DocumentToScreen(docX, docY, containerLeft, containerTop, renderedWidth, intrinsicWidth float64) (float64, float64, error) {
	factor, err := ScaleFactor(intrinsicWidth, renderedWidth)
	if err != nil {
		return 0, 0, err
	}
	if !isFinite(docX) || !isFinite(docY) {
		return 0, 0, appErr.ErrInvalid
	}
	screenX := docX/factor + containerLeft
	screenY := docY/factor + containerTop
	return screenX, screenY, nil
}

// ApplyDragDelta moves a stored document-space position by a screen-space
// drag delta. The scale factor applies to the delta, not the absolute
// position.
func ApplyDragDelta(docX, docY, deltaScreenX, deltaScreenY, renderedWidth, intrinsicWidth float64) (float64, float64, error) {
	factor, err := ScaleFactor(intrinsicWidth, renderedWidth)
	if err != nil {
		return 0, 0, err
	}
	if !isFinite(docX) || !isFinite(docY) || !isFinite(deltaScreenX) || !isFinite(deltaScreenY) {
		return 0, 0, appErr.ErrInvalid
	}
	return docX + deltaScreenX*factor, docY + deltaScreenY*factor, nil
}

// PDFY flips a stored top-origin Y into the PDF's bottom-left origin.
func PDFY(pageHeight, storedY float64) float64 {
	return pageHeight - storedY
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
