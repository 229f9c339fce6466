package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkmark/inkmark/internal/model"
)

func TestBuildStampsFiltersAndFlips(t *testing.T) {
	heights := []float64{792, 842}
	sigs := []model.Signature{
		{Page: 1, X: 50, Y: 100, Text: "Alice", Font: "Arial", FontSize: 24, Color: "#FF0000", Status: model.SignatureStatusSigned},
		{Page: 1, X: 10, Y: 10, Text: "pending", Font: "Arial", FontSize: 24, Color: "#000000", Status: model.SignatureStatusPending},
		{Page: 2, X: 20, Y: 42, Text: "rejected", Font: "Arial", FontSize: 24, Color: "#000000", Status: model.SignatureStatusRejected},
		{Page: 2, X: 30, Y: 42, Text: "Bob", Font: "Courier New", FontSize: 18, Color: "#00ff00", Status: model.SignatureStatusSigned},
		// Beyond the page count: skipped, not fatal.
		{Page: 3, X: 30, Y: 42, Text: "ghost", Font: "Arial", FontSize: 18, Color: "#00ff00", Status: model.SignatureStatusSigned},
	}

	stamps := buildStamps(sigs, heights)
	require.Len(t, stamps, 2)

	require.Equal(t, 1, stamps[0].Page)
	require.Equal(t, 50.0, stamps[0].X)
	require.Equal(t, 692.0, stamps[0].Y)
	require.Equal(t, "Helvetica", stamps[0].Font)
	require.Equal(t, "#ff0000", stamps[0].Color)

	require.Equal(t, 2, stamps[1].Page)
	require.Equal(t, 800.0, stamps[1].Y)
	require.Equal(t, "Courier", stamps[1].Font)
}

func TestBuildStampsDeterministic(t *testing.T) {
	heights := []float64{792}
	sigs := []model.Signature{
		{Page: 1, X: 1, Y: 2, Text: "a", Font: "Arial", FontSize: 24, Color: "#000000", Status: model.SignatureStatusSigned},
		{Page: 1, X: 3, Y: 4, Text: "b", Font: "Georgia", FontSize: 12, Color: "#123abc", Status: model.SignatureStatusSigned},
	}
	first := buildStamps(sigs, heights)
	second := buildStamps(sigs, heights)
	require.Equal(t, first, second)
}

func TestResolveFont(t *testing.T) {
	require.Equal(t, "Helvetica", resolveFont("Arial"))
	require.Equal(t, "Helvetica", resolveFont("  arial "))
	require.Equal(t, "Times-Roman", resolveFont("Times New Roman"))
	require.Equal(t, "Times-Roman", resolveFont("Georgia"))
	require.Equal(t, "Courier", resolveFont("courier new"))
	// Core-14 names pass through unchanged.
	require.Equal(t, "Helvetica-Bold", resolveFont("Helvetica-Bold"))
	require.Equal(t, "Helvetica", resolveFont("Comic Sans MS"))
	require.Equal(t, "Helvetica", resolveFont(""))
}

func TestStampDetail(t *testing.T) {
	st := stamp{Font: "Helvetica", Points: 24, Color: "#ff0000"}
	require.Equal(t, "fontname:Helvetica, points:24, scale:1 abs, pos:bl, rot:0, op:1, fillcolor:#ff0000", st.detail())
}
