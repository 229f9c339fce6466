package service

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/font"

	"github.com/inkmark/inkmark/internal/geom"
	"github.com/inkmark/inkmark/internal/model"
)

const fallbackFont = "Helvetica"

// Common web font names mapped onto the PDF core 14 set.
var fontAliases = map[string]string{
	"arial":           "Helvetica",
	"helvetica":       "Helvetica",
	"times":           "Times-Roman",
	"times new roman": "Times-Roman",
	"georgia":         "Times-Roman",
	"courier":         "Courier",
	"courier new":     "Courier",
}

// stamp is one text draw operation in PDF page space: x from the left edge,
// y from the bottom edge.
type stamp struct {
	Page   int
	X      float64
	Y      float64
	Text   string
	Font   string
	Points float64
	Color  string
}

// buildStamps turns the signature set into draw operations. It is a pure
// function of its inputs: only signed marks are kept, a mark whose page
// exceeds the document's page count is skipped rather than failing the
// export, the stored top-origin Y is flipped into PDF space, and fonts are
// resolved with a Helvetica fallback.
func buildStamps(sigs []model.Signature, pageHeights []float64) []stamp {
	stamps := make([]stamp, 0, len(sigs))
	for _, sig := range sigs {
		if sig.Status != model.SignatureStatusSigned {
			continue
		}
		if sig.Page < 1 || sig.Page > len(pageHeights) {
			continue
		}
		stamps = append(stamps, stamp{
			Page:   sig.Page,
			X:      sig.X,
			Y:      geom.PDFY(pageHeights[sig.Page-1], sig.Y),
			Text:   sig.Text,
			Font:   resolveFont(sig.Font),
			Points: sig.FontSize,
			Color:  strings.ToLower(sig.Color),
		})
	}
	return stamps
}

func resolveFont(name string) string {
	if alias, ok := fontAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return alias
	}
	if font.SupportedFont(name) {
		return name
	}
	return fallbackFont
}

// detail renders the pdfcpu watermark description. Position offsets are set
// on the watermark struct directly, in points from the bottom-left anchor.
func (s stamp) detail() string {
	return fmt.Sprintf("fontname:%s, points:%.0f, scale:1 abs, pos:bl, rot:0, op:1, fillcolor:%s", s.Font, s.Points, s.Color)
}
