package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/inkmark/inkmark/internal/filestore"
	appmodel "github.com/inkmark/inkmark/internal/model"
	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
	"github.com/inkmark/inkmark/internal/pkg/timeutil"
	"github.com/inkmark/inkmark/internal/repo"
)

// ExportService is the compositor: it burns every signed mark into a fresh
// copy of the source PDF. The stored document is never mutated.
type ExportService struct {
	docs   *repo.DocumentRepo
	sigs   *repo.SignatureRepo
	grants *repo.GrantRepo
	store  filestore.Store
	audit  *AuditService
}

func NewExportService(docs *repo.DocumentRepo, sigs *repo.SignatureRepo, grants *repo.GrantRepo, store filestore.Store, audit *AuditService) *ExportService {
	return &ExportService{docs: docs, sigs: sigs, grants: grants, store: store, audit: audit}
}

// Render produces the finalized PDF byte stream and a download filename.
// The signature list is read once up front; marks created afterwards are
// not part of this export.
func (s *ExportService) Render(ctx context.Context, actor Actor, docID string) ([]byte, string, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, "", err
	}
	if err := s.authorizeRead(ctx, actor, doc); err != nil {
		return nil, "", err
	}
	sigs, err := s.sigs.ListByDocument(ctx, docID)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.store.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("%w: open blob: %v", appErr.ErrDependency, err)
	}
	defer rc.Close()
	src, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read blob: %v", appErr.ErrDependency, err)
	}

	out, err := Composite(src, sigs)
	if err != nil {
		return nil, "", err
	}
	s.audit.Record(ctx, docID, actor, appmodel.AuditActionDownloaded)
	return out, "signed-" + doc.Filename, nil
}

// Composite burns the signed marks from sigs into a copy of src. Any error
// aborts the whole render; a half-drawn PDF is never returned. The output
// bytes are not stable across runs for the same inputs (pdfcpu writes
// generation metadata into the file); only the stamp plan built by
// buildStamps is deterministic.
func Composite(src []byte, sigs []appmodel.Signature) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(bytes.NewReader(src), conf)
	if err != nil {
		return nil, fmt.Errorf("read page dimensions: %w", err)
	}
	heights := make([]float64, len(dims))
	for i, dim := range dims {
		heights[i] = dim.Height
	}

	out := src
	for _, st := range buildStamps(sigs, heights) {
		wm, err := pdfcpu.ParseTextWatermarkDetails(st.Text, st.detail(), true, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("build stamp: %w", err)
		}
		wm.Dx = st.X
		wm.Dy = st.Y
		var buf bytes.Buffer
		if err := api.AddWatermarks(bytes.NewReader(out), &buf, []string{strconv.Itoa(st.Page)}, wm, conf); err != nil {
			return nil, fmt.Errorf("draw stamp on page %d: %w", st.Page, err)
		}
		out = buf.Bytes()
	}
	return out, nil
}

func (s *ExportService) authorizeRead(ctx context.Context, actor Actor, doc *appmodel.Document) error {
	now := timeutil.NowUnix()
	if actor.IsPublic() {
		if !capabilityValid(actor, doc, now) {
			return appErr.ErrExpired
		}
		return nil
	}
	hasGrant, err := s.grants.Exists(ctx, doc.ID, actor.UserID)
	if err != nil {
		return err
	}
	if !canReadDocument(actor, doc, hasGrant, now) {
		return appErr.ErrForbidden
	}
	return nil
}
