// Package inbox implements the document inbox use cases.
package inbox

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/innledger/backend/internal/domain/inbox"
	"github.com/innledger/backend/internal/domain/payment"
	"github.com/innledger/backend/internal/domain/shared"
)

// ItemFinder looks up payment items a document may be linked to
type ItemFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentItem, error)
}

// Service handles inbox documents
type Service struct {
	repo  inbox.Repository
	items ItemFinder
}

// NewService creates a new inbox service
func NewService(repo inbox.Repository, items ItemFinder) *Service {
	return &Service{repo: repo, items: items}
}

// List returns documents, optionally in one status
func (s *Service) List(ctx context.Context, q ListQuery) ([]DocumentResponse, error) {
	docs, err := s.repo.FindAll(ctx, inbox.Status(q.Status))
	if err != nil {
		return nil, err
	}
	out := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, ToDocumentResponse(&docs[i]))
	}
	return out, nil
}

// Create records a new document in the new status
func (s *Service) Create(ctx context.Context, req CreateDocumentRequest) (*DocumentResponse, error) {
	details := inbox.Details{
		Title:        req.Title,
		Sender:       req.Sender,
		Source:       inbox.Source(req.Source),
		DocumentType: inbox.DocumentType(req.DocumentType),
		Amount:       req.Amount,
		Notes:        req.Notes,
	}
	if req.ReceivedAt != nil {
		details.ReceivedAt = req.ReceivedAt.UTC()
	} else {
		details.ReceivedAt = shared.Now(ctx).UTC()
	}
	doc, err := inbox.NewDocument(details)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return toResponse(doc), nil
}

// Update applies a partial update to the metadata
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details := inbox.Details{
		Title:        doc.Title,
		Sender:       doc.Sender,
		Source:       doc.Source,
		DocumentType: doc.DocumentType,
		Amount:       doc.Amount,
		ReceivedAt:   doc.ReceivedAt,
		Notes:        doc.Notes,
	}
	if req.Title != nil {
		details.Title = *req.Title
	}
	if req.Sender != nil {
		details.Sender = *req.Sender
	}
	if req.Source != nil {
		details.Source = inbox.Source(*req.Source)
	}
	if req.DocumentType != nil {
		details.DocumentType = inbox.DocumentType(*req.DocumentType)
	}
	if req.Amount != nil {
		details.Amount = req.Amount
	}
	if req.ReceivedAt != nil {
		details.ReceivedAt = req.ReceivedAt.UTC()
	}
	if req.Notes != nil {
		details.Notes = *req.Notes
	}
	if err := doc.SetDetails(details); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return toResponse(doc), nil
}

// Process marks a new document as processed
func (s *Service) Process(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, id, inbox.StatusProcessed)
}

// Archive archives a new or processed document
func (s *Service) Archive(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, id, inbox.StatusArchived)
}

// Link attaches an existing payment item to the document
func (s *Service) Link(ctx context.Context, id uuid.UUID, req LinkRequest) (*DocumentResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.FindByID(ctx, req.ItemID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewInvalidInputError("payment item %s does not exist", req.ItemID)
		}
		return nil, err
	}
	if err := doc.Link(req.ItemID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return toResponse(doc), nil
}

// Delete removes a document
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, target inbox.Status) (*DocumentResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := doc.TransitionTo(target); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return toResponse(doc), nil
}

func toResponse(doc *inbox.Document) *DocumentResponse {
	resp := ToDocumentResponse(doc)
	return &resp
}
