package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"semantic-docstore-be/internal/dto"
	"semantic-docstore-be/internal/entity"
	"semantic-docstore-be/internal/repository/contract"
	"semantic-docstore-be/internal/repository/unitofwork"
	"semantic-docstore-be/pkg/apperror"
	"semantic-docstore-be/pkg/embedding"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Import(ctx context.Context, req *dto.ImportDocumentsRequest) (*dto.ImportDocumentsResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	List(ctx context.Context) ([]*dto.DocumentResponse, error)
	Update(ctx context.Context, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error)
	Rename(ctx context.Context, req *dto.RenameDocumentRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) (*dto.ClearDocumentsResponse, error)
	GetByOrdinal(ctx context.Context, n int) (*dto.DocumentResponse, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	CheckConsistency(ctx context.Context) (*dto.ConsistencyResponse, error)
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	clusterCache      contract.ClusterCacheRepository
	embeddingDim      int
	modelName         string
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	clusterCache contract.ClusterCacheRepository,
	embeddingDim int,
	modelName string,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		clusterCache:      clusterCache,
		embeddingDim:      embeddingDim,
		modelName:         modelName,
	}
}

func (c *documentService) Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	// Only the content feeds the embedding; title and tags stay out of
	// the embedding input.
	embeddingRes, err := c.embeddingProvider.Generate(req.Content, embedding.TaskRetrievalDocument)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	doc := entity.Document{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		DocType:   req.DocType,
		Tags:      req.Tags,
		Source:    req.Source,
		Authors:   req.Authors,
		CreatedAt: time.Now(),
	}
	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, c.compensate(uow, "create document", err)
	}

	emb := entity.DocumentEmbedding{
		Id:             uuid.New(),
		DocumentId:     doc.Id,
		EmbeddingValue: embeddingRes.Embedding.Values,
		CreatedAt:      time.Now(),
	}
	if err := uow.DocumentEmbeddingRepository().Create(ctx, &emb); err != nil {
		return nil, c.compensate(uow, "index embedding", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, &doc.Id, "created")

	return &dto.CreateDocumentResponse{
		Id: doc.Id,
	}, nil
}

func (c *documentService) Import(ctx context.Context, req *dto.ImportDocumentsRequest) (*dto.ImportDocumentsResponse, error) {
	res := &dto.ImportDocumentsResponse{
		Results: make([]dto.ImportResultItem, 0, len(req.Documents)),
	}
	for i := range req.Documents {
		created, err := c.Create(ctx, &req.Documents[i])
		if err != nil {
			res.Failed++
			res.Results = append(res.Results, dto.ImportResultItem{Error: err.Error()})
			continue
		}
		res.Imported++
		id := created.Id
		res.Results = append(res.Results, dto.ImportResultItem{Id: &id})
	}
	return res, nil
}

func (c *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFoundf("document %s not found", id)
	}

	ordinal, err := uow.DocumentRepository().OrdinalIndex(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, ordinal), nil
}

func (c *documentService) List(ctx context.Context) ([]*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		// FindAll returns creation order, so the position IS the ordinal.
		response[i] = toDocumentResponse(doc, i+1)
	}
	return response, nil
}

func (c *documentService) Update(ctx context.Context, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindByID(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFoundf("document %s not found", req.Id)
	}

	reembed := req.Content != nil && *req.Content != doc.Content

	applyString(&doc.Title, req.Title)
	applyString(&doc.Content, req.Content)
	applyString(&doc.DocType, req.DocType)
	applyString(&doc.Tags, req.Tags)
	applyString(&doc.Abstract, req.Abstract)
	applyString(&doc.Source, req.Source)
	applyString(&doc.Authors, req.Authors)
	now := time.Now()
	doc.UpdatedAt = &now

	// Regenerate before opening the transaction so a provider failure
	// leaves both stores untouched.
	var newVector []float32
	if reembed {
		embeddingRes, err := c.embeddingProvider.Generate(doc.Content, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, err
		}
		newVector = embeddingRes.Embedding.Values
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, c.compensate(uow, "update document", err)
	}

	if reembed {
		emb := entity.DocumentEmbedding{
			DocumentId:     doc.Id,
			EmbeddingValue: newVector,
			UpdatedAt:      &now,
		}
		if err := uow.DocumentEmbeddingRepository().Update(ctx, &emb); err != nil {
			return nil, c.compensate(uow, "update embedding", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, &doc.Id, "updated")

	return &dto.UpdateDocumentResponse{
		Id:         doc.Id,
		Reembedded: reembed,
	}, nil
}

func (c *documentService) Rename(ctx context.Context, req *dto.RenameDocumentRequest) error {
	_, err := c.Update(ctx, &dto.UpdateDocumentRequest{
		Id:    req.Id,
		Title: &req.NewTitle,
	})
	return err
}

func (c *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	existed, err := uow.DocumentRepository().Delete(ctx, id)
	if err != nil {
		return c.compensate(uow, "delete document", err)
	}
	if !existed {
		_ = uow.Rollback()
		return apperror.NotFoundf("document %s not found", id)
	}

	if _, err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, id); err != nil {
		return c.compensate(uow, "delete embedding", err)
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.afterMutation(ctx, &id, "deleted")
	return nil
}

func (c *documentService) Clear(ctx context.Context) (*dto.ClearDocumentsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	removed, err := uow.DocumentRepository().DeleteAll(ctx)
	if err != nil {
		return nil, c.compensate(uow, "clear documents", err)
	}
	if err := uow.DocumentEmbeddingRepository().DeleteAll(ctx); err != nil {
		return nil, c.compensate(uow, "clear embeddings", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, nil, "cleared")

	return &dto.ClearDocumentsResponse{
		Removed: removed,
	}, nil
}

func (c *documentService) GetByOrdinal(ctx context.Context, n int) (*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.DocumentRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	if n < 1 || int64(n) > count {
		return nil, apperror.Inputf("index %d out of range [1, %d]", n, count)
	}

	doc, err := uow.DocumentRepository().FindByOrdinal(ctx, n)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFoundf("no document at index %d", n)
	}
	return toDocumentResponse(doc, n), nil
}

func (c *documentService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	docCount, err := uow.DocumentRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	indexSize, err := uow.DocumentEmbeddingRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		TotalDocuments:     docCount,
		EmbeddingDimension: c.embeddingDim,
		IndexSize:          indexSize,
		Model:              c.modelName,
	}, nil
}

// CheckConsistency compares id membership between the ledger and the vector
// index. Disagreement is the defined failure mode of the dual-store design;
// it is reported here for an external repair tool, never raised during
// normal reads.
func (c *documentService) CheckConsistency(ctx context.Context) (*dto.ConsistencyResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	ledgerIds, err := uow.DocumentRepository().FindIDsOrdered(ctx)
	if err != nil {
		return nil, err
	}
	indexIds, err := uow.DocumentEmbeddingRepository().FindDocumentIDs(ctx)
	if err != nil {
		return nil, err
	}

	inLedger := make(map[uuid.UUID]bool, len(ledgerIds))
	for _, id := range ledgerIds {
		inLedger[id] = true
	}
	inIndex := make(map[uuid.UUID]bool, len(indexIds))
	for _, id := range indexIds {
		inIndex[id] = true
	}

	missing := make([]uuid.UUID, 0)
	for _, id := range ledgerIds {
		if !inIndex[id] {
			missing = append(missing, id)
		}
	}
	orphaned := make([]uuid.UUID, 0)
	for _, id := range indexIds {
		if !inLedger[id] {
			orphaned = append(orphaned, id)
		}
	}

	return &dto.ConsistencyResponse{
		Consistent:        len(missing) == 0 && len(orphaned) == 0,
		DocumentCount:     int64(len(ledgerIds)),
		IndexCount:        int64(len(indexIds)),
		MissingEmbeddings: missing,
		OrphanedVectors:   orphaned,
	}, nil
}

// compensate rolls the transaction back after a failed dual-store write. A
// rollback failure means the stores may disagree, which is surfaced as a
// partial-write error so callers know to run the consistency check.
func (c *documentService) compensate(uow unitofwork.UnitOfWork, op string, cause error) error {
	if rbErr := uow.Rollback(); rbErr != nil {
		return apperror.Wrap(
			apperror.KindPartialWrite,
			fmt.Sprintf("%s failed and rollback could not restore store agreement", op),
			errors.Join(cause, rbErr),
		)
	}
	return cause
}

func (c *documentService) afterMutation(ctx context.Context, id *uuid.UUID, action string) {
	// Synchronous invalidation is the contract; the event below feeds the
	// consumer and any external listeners.
	c.clusterCache.Invalidate()

	msgPayload := dto.DocumentChangedMessage{
		DocumentId: id,
		Action:     action,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		log.Printf("[WARN] Failed to marshal document change event: %v", err)
		return
	}
	if err := c.publisherService.Publish(ctx, msgJson); err != nil {
		// Auxiliary; the mutation itself already succeeded.
		log.Printf("[WARN] Failed to publish document %s event: %v", action, err)
	}
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func toDocumentResponse(doc *entity.Document, ordinal int) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:           doc.Id,
		Title:        doc.Title,
		Content:      doc.Content,
		DocType:      doc.DocType,
		Tags:         doc.Tags,
		Source:       doc.Source,
		Authors:      doc.Authors,
		Abstract:     doc.Abstract,
		OrdinalIndex: ordinal,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
