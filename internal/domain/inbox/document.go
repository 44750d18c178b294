package inbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Source is where a document came from
type Source string

const (
	SourceEmail  Source = "email"
	SourceUpload Source = "upload"
	SourceManual Source = "manual"
)

// IsValid checks if the source is valid
func (s Source) IsValid() bool {
	return s == SourceEmail || s == SourceUpload || s == SourceManual
}

// DocumentType classifies a document
type DocumentType string

const (
	DocumentTypeInvoice  DocumentType = "invoice"
	DocumentTypeReceipt  DocumentType = "receipt"
	DocumentTypeContract DocumentType = "contract"
	DocumentTypeOther    DocumentType = "other"
)

// IsValid checks if the document type is valid
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeReceipt, DocumentTypeContract, DocumentTypeOther:
		return true
	}
	return false
}

// Status of a document in the inbox
type Status string

const (
	StatusNew       Status = "new"
	StatusProcessed Status = "processed"
	StatusArchived  Status = "archived"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	return s == StatusNew || s == StatusProcessed || s == StatusArchived
}

// CanTransitionTo reports whether the inbox allows moving from s to target
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusNew:
		return target == StatusProcessed || target == StatusArchived
	case StatusProcessed:
		return target == StatusArchived
	}
	return false
}

// Document is metadata about a received document
type Document struct {
	shared.BaseEntity
	Title        string
	Sender       string
	Source       Source
	DocumentType DocumentType
	Amount       *decimal.Decimal
	ReceivedAt   time.Time
	Status       Status
	LinkedItemID *uuid.UUID
	Notes        string
}

// Details are the editable fields of a document
type Details struct {
	Title        string
	Sender       string
	Source       Source
	DocumentType DocumentType
	Amount       *decimal.Decimal
	ReceivedAt   time.Time
	Notes        string
}

// NewDocument creates a document in the new status
func NewDocument(d Details) (*Document, error) {
	doc := &Document{BaseEntity: shared.NewBaseEntity(), Status: StatusNew}
	if err := doc.SetDetails(d); err != nil {
		return nil, err
	}
	return doc, nil
}

// SetDetails validates and replaces the editable fields
func (d *Document) SetDetails(in Details) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return shared.NewInvalidInputError("title is required")
	}
	if in.Source == "" {
		in.Source = SourceManual
	}
	if !in.Source.IsValid() {
		return shared.NewInvalidInputError("source must be one of email, upload, manual")
	}
	if in.DocumentType == "" {
		in.DocumentType = DocumentTypeOther
	}
	if !in.DocumentType.IsValid() {
		return shared.NewInvalidInputError("documentType must be one of invoice, receipt, contract, other")
	}
	if in.Amount != nil {
		if err := shared.ValidateNonNegativeAmount("Amount", *in.Amount); err != nil {
			return err
		}
	}
	if in.ReceivedAt.IsZero() {
		in.ReceivedAt = time.Now()
	}
	d.Title = title
	d.Sender = in.Sender
	d.Source = in.Source
	d.DocumentType = in.DocumentType
	d.Amount = in.Amount
	d.ReceivedAt = in.ReceivedAt
	d.Notes = in.Notes
	d.Touch()
	return nil
}

// TransitionTo moves the document to target if the inbox allows it
func (d *Document) TransitionTo(target Status) error {
	if !d.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move document from %s to %s", d.Status, target))
	}
	d.Status = target
	d.Touch()
	return nil
}

// Link attaches a payment item to the document
func (d *Document) Link(itemID uuid.UUID) error {
	if d.Status == StatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Cannot link an archived document")
	}
	d.LinkedItemID = &itemID
	d.Touch()
	return nil
}

// Repository persists inbox documents
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindAll(ctx context.Context, status Status) ([]Document, error)
	Save(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}
