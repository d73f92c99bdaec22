package catalog

import (
	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated         = "ProductCreated"
	EventTypeProductUpdated         = "ProductUpdated"
	EventTypeProductPositionChanged = "ProductPositionChanged"
	EventTypeProductDeleted         = "ProductDeleted"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
		Position:        product.Position,
	}
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
	}
}

// ProductPositionChangedEvent is published when a product moves within the
// catalog ordering
type ProductPositionChangedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	OldPosition int       `json:"old_position"`
	NewPosition int       `json:"new_position"`
}

// NewProductPositionChangedEvent creates a new ProductPositionChangedEvent
func NewProductPositionChangedEvent(product *Product, oldPos, newPos int) *ProductPositionChangedEvent {
	return &ProductPositionChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPositionChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		OldPosition:     oldPos,
		NewPosition:     newPos,
	}
}
