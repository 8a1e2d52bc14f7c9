package app

import (
	"context"
	"time"

	"voicecat/internal/domain"
	"voicecat/internal/usecase/catalog"
)

type CatalogAPI struct{ svc *catalog.Service }

func NewCatalogAPI(svc *catalog.Service) *CatalogAPI { return &CatalogAPI{svc: svc} }

func (a *CatalogAPI) List(ctx context.Context) ([]*domain.CatalogEntry, error) {
	return a.svc.List(ctx)
}

func (a *CatalogAPI) Get(ctx context.Context, id string) (*domain.CatalogEntry, error) {
	return a.svc.Get(ctx, id)
}

func (a *CatalogAPI) Search(ctx context.Context, q string) ([]*domain.CatalogEntry, error) {
	return a.svc.Search(ctx, q)
}

// CreateEntryRequest is a manually entered product.
type CreateEntryRequest struct {
	domain.ExtractedProduct
	SourceLanguage string `json:"source_language"`
	Transcript     string `json:"transcript"`
}

func (a *CatalogAPI) Create(ctx context.Context, req CreateEntryRequest) (*domain.CatalogEntry, error) {
	e := domain.NewCatalogEntry(req.ExtractedProduct)
	e.SourceLanguage = domain.Language(req.SourceLanguage)
	e.Transcript = req.Transcript
	if err := a.svc.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (a *CatalogAPI) Update(ctx context.Context, id string, patch domain.CatalogPatch) (*domain.CatalogEntry, error) {
	return a.svc.Update(ctx, id, patch)
}

func (a *CatalogAPI) Delete(ctx context.Context, id string) (bool, error) {
	if err := a.svc.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

type ExportResponse struct {
	Filename    string
	ContentType string
	Content     []byte
}

func (a *CatalogAPI) Export(ctx context.Context, format string) (ExportResponse, error) {
	if format == "" {
		format = "json"
	}
	b, ct, err := a.svc.Export(ctx, format)
	if err != nil {
		return ExportResponse{}, err
	}
	name := "catalog-" + time.Now().UTC().Format("20060102-150405") + "." + format
	return ExportResponse{Filename: name, ContentType: ct, Content: b}, nil
}
