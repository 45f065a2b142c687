package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/parts-inventory/internal/core/domain"
	"github.com/rl1809/parts-inventory/internal/core/validation"
	"github.com/rl1809/parts-inventory/internal/metrics"
	"github.com/rl1809/parts-inventory/internal/port"
)

const (
	entityPart     = "part"
	entityProduct  = "product"
	entitySnapshot = "snapshot"

	idempotencyKeyPrefix = "idempotency:"
)

// InventoryService is the workflow layer in front of a domain.Inventory: it
// runs the save gate, assigns ids, enforces association integrity and
// publishes committed changes for replication.
type InventoryService struct {
	// mu serializes workflows and entity field writes; Inventory guards
	// only its own sequences.
	mu     sync.RWMutex
	inv    *domain.Inventory
	cache  port.CacheRepository
	logger *zap.SugaredLogger

	queues []chan domain.ChangeEvent
	closed bool
}

// NewInventoryService wires the workflow. cache may be nil. With shards == 0
// no change events are published.
func NewInventoryService(inv *domain.Inventory, cache port.CacheRepository, logger *zap.SugaredLogger, queueSize, shards int) *InventoryService {
	queues := make([]chan domain.ChangeEvent, shards)
	for i := range queues {
		queues[i] = make(chan domain.ChangeEvent, queueSize)
	}
	s := &InventoryService{
		inv:    inv,
		cache:  cache,
		logger: logger,
		queues: queues,
	}
	s.refreshGauges()
	return s
}

func (s *InventoryService) AddPart(ctx context.Context, requestID string, d validation.PartDraft) (rec domain.PartRecord, err error) {
	defer func() { metrics.Observe(entityPart, "add", err) }()

	if err := s.gate(entityPart, validation.CheckPart(d, validation.State{})); err != nil {
		return domain.PartRecord{}, err
	}
	if err := s.claim(ctx, entityPart, requestID); err != nil {
		return domain.PartRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	part, err := buildPart(s.inv.NextPartID(), d)
	if err != nil {
		return domain.PartRecord{}, err
	}
	s.inv.AddPart(part)
	s.refreshGauges()

	rec = part.Record()
	s.publish(domain.ChangeEvent{Kind: domain.ChangePartSaved, EntityID: part.ID, Part: &rec})
	s.logger.Infow("part added", "id", part.ID, "name", part.Name, "kind", part.Kind)
	return rec, nil
}

// ModifyPart applies d to part id. Keeping the kind edits the instance in
// place; switching kind replaces it with a new instance carrying the same id,
// both in the inventory and in every product that references it.
func (s *InventoryService) ModifyPart(ctx context.Context, id int, d validation.PartDraft) (rec domain.PartRecord, err error) {
	defer func() { metrics.Observe(entityPart, "modify", err) }()

	if err := s.gate(entityPart, validation.CheckPart(d, validation.State{})); err != nil {
		return domain.PartRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	part := s.inv.LookupPart(id)
	if part == nil {
		return domain.PartRecord{}, fmt.Errorf("part %d: %w", id, domain.ErrNotFound)
	}

	if part.Kind == d.Kind {
		part.Name = strings.TrimSpace(d.Name)
		part.Price = *d.Price
		part.Stock = *d.Stock
		part.Min = *d.Min
		part.Max = *d.Max
		switch part.Kind {
		case domain.PartKindInHouse:
			part.MachineID = *d.MachineID
		case domain.PartKindOutsourced:
			part.CompanyName = strings.TrimSpace(d.CompanyName)
		}
		rec = part.Record()
		s.publish(domain.ChangeEvent{Kind: domain.ChangePartSaved, EntityID: part.ID, Part: &rec})
		s.logger.Infow("part modified", "id", part.ID)
		return rec, nil
	}

	replacement, err := buildPart(part.ID, d)
	if err != nil {
		return domain.PartRecord{}, err
	}
	index := s.inv.PartIndex(part)
	if err := s.inv.UpdatePart(index, replacement); err != nil {
		s.logger.DPanicw("part vanished during modify", "id", id, "index", index, "error", err)
		return domain.PartRecord{}, err
	}
	for _, product := range s.inv.AllProducts() {
		product.ReplaceAssociatedPart(part, replacement)
	}

	rec = replacement.Record()
	s.publish(domain.ChangeEvent{Kind: domain.ChangePartSaved, EntityID: replacement.ID, Part: &rec})
	s.logger.Infow("part source switched", "id", id, "from", part.Kind, "to", replacement.Kind)
	return rec, nil
}

// DeletePart removes part id and drops it from every product that
// references it.
func (s *InventoryService) DeletePart(ctx context.Context, id int) (err error) {
	defer func() { metrics.Observe(entityPart, "delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	part := s.inv.LookupPart(id)
	if part == nil || !s.inv.DeletePart(part) {
		return fmt.Errorf("part %d: %w", id, domain.ErrNotFound)
	}
	for _, product := range s.inv.AllProducts() {
		if product.DeleteAssociatedPart(part) {
			prec := product.Record()
			s.publish(domain.ChangeEvent{Kind: domain.ChangeProductSaved, EntityID: product.ID, Product: &prec})
		}
	}
	s.refreshGauges()

	s.publish(domain.ChangeEvent{Kind: domain.ChangePartDeleted, EntityID: id})
	s.logger.Infow("part deleted", "id", id)
	return nil
}

func (s *InventoryService) AddProduct(ctx context.Context, requestID string, d validation.ProductDraft, partIDs []int) (rec domain.ProductRecord, err error) {
	defer func() { metrics.Observe(entityProduct, "add", err) }()

	if err := s.gate(entityProduct, validation.CheckProduct(d, validation.State{})); err != nil {
		return domain.ProductRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parts := make([]*domain.Part, 0, len(partIDs))
	seen := make(map[int]bool, len(partIDs))
	for _, partID := range partIDs {
		if seen[partID] {
			return domain.ProductRecord{}, fmt.Errorf("part %d: %w", partID, domain.ErrDuplicateAssociation)
		}
		seen[partID] = true
		part := s.inv.LookupPart(partID)
		if part == nil {
			return domain.ProductRecord{}, fmt.Errorf("part %d: %w", partID, domain.ErrNotFound)
		}
		parts = append(parts, part)
	}
	if err := s.claim(ctx, entityProduct, requestID); err != nil {
		return domain.ProductRecord{}, err
	}

	product, err := domain.NewProduct(s.inv.NextProductID(), strings.TrimSpace(d.Name), *d.Price, *d.Stock, *d.Min, *d.Max)
	if err != nil {
		return domain.ProductRecord{}, err
	}
	for _, part := range parts {
		product.AddAssociatedPart(part)
	}
	s.inv.AddProduct(product)
	s.refreshGauges()

	rec = product.Record()
	s.publish(domain.ChangeEvent{Kind: domain.ChangeProductSaved, EntityID: product.ID, Product: &rec})
	s.logger.Infow("product added", "id", product.ID, "name", product.Name, "parts", len(parts))
	return rec, nil
}

func (s *InventoryService) ModifyProduct(ctx context.Context, id int, d validation.ProductDraft) (rec domain.ProductRecord, err error) {
	defer func() { metrics.Observe(entityProduct, "modify", err) }()

	if err := s.gate(entityProduct, validation.CheckProduct(d, validation.State{})); err != nil {
		return domain.ProductRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product := s.inv.LookupProduct(id)
	if product == nil {
		return domain.ProductRecord{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	product.Name = strings.TrimSpace(d.Name)
	product.Price = *d.Price
	product.Stock = *d.Stock
	product.Min = *d.Min
	product.Max = *d.Max

	rec = product.Record()
	s.publish(domain.ChangeEvent{Kind: domain.ChangeProductSaved, EntityID: product.ID, Product: &rec})
	s.logger.Infow("product modified", "id", product.ID)
	return rec, nil
}

// AssociatePart links part partID to product productID, refusing a part whose
// id is already associated.
func (s *InventoryService) AssociatePart(ctx context.Context, productID, partID int) (err error) {
	defer func() { metrics.Observe(entityProduct, "associate", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	product, part, err := s.pair(productID, partID)
	if err != nil {
		return err
	}
	if product.AssociatedPart(partID) != nil {
		return fmt.Errorf("product %d, part %d: %w", productID, partID, domain.ErrDuplicateAssociation)
	}
	product.AddAssociatedPart(part)

	rec := product.Record()
	s.publish(domain.ChangeEvent{Kind: domain.ChangeProductSaved, EntityID: product.ID, Product: &rec})
	s.logger.Infow("part associated", "product", productID, "part", partID)
	return nil
}

func (s *InventoryService) DissociatePart(ctx context.Context, productID, partID int) (err error) {
	defer func() { metrics.Observe(entityProduct, "dissociate", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	product := s.inv.LookupProduct(productID)
	if product == nil {
		return fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}
	associated := product.AssociatedPart(partID)
	if associated == nil || !product.DeleteAssociatedPart(associated) {
		return fmt.Errorf("product %d, part %d: %w", productID, partID, domain.ErrNotFound)
	}

	rec := product.Record()
	s.publish(domain.ChangeEvent{Kind: domain.ChangeProductSaved, EntityID: product.ID, Product: &rec})
	s.logger.Infow("part dissociated", "product", productID, "part", partID)
	return nil
}

// DeleteProduct refuses products that still have associated parts.
func (s *InventoryService) DeleteProduct(ctx context.Context, id int) (err error) {
	defer func() { metrics.Observe(entityProduct, "delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	product := s.inv.LookupProduct(id)
	if product == nil {
		return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	if product.HasAssociatedParts() {
		s.logger.Infow("product delete refused", "id", id, "parts", len(product.AllAssociatedParts()))
		return fmt.Errorf("product %d: %w", id, domain.ErrProductHasParts)
	}
	if !s.inv.DeleteProduct(product) {
		return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	s.refreshGauges()

	s.publish(domain.ChangeEvent{Kind: domain.ChangeProductDeleted, EntityID: id})
	s.logger.Infow("product deleted", "id", id)
	return nil
}

func (s *InventoryService) Part(id int) (domain.PartRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	part := s.inv.LookupPart(id)
	if part == nil {
		return domain.PartRecord{}, fmt.Errorf("part %d: %w", id, domain.ErrNotFound)
	}
	return part.Record(), nil
}

func (s *InventoryService) Product(id int) (domain.ProductRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product := s.inv.LookupProduct(id)
	if product == nil {
		return domain.ProductRecord{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return product.Record(), nil
}

func (s *InventoryService) Parts() []domain.PartRecord {
	return s.SearchParts("")
}

func (s *InventoryService) Products() []domain.ProductRecord {
	return s.SearchProducts("")
}

// AssociatedParts lists the parts of product id in association order.
func (s *InventoryService) AssociatedParts(id int) ([]domain.PartRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product := s.inv.LookupProduct(id)
	if product == nil {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	parts := product.AllAssociatedParts()
	out := make([]domain.PartRecord, 0, len(parts))
	for _, part := range parts {
		out = append(out, part.Record())
	}
	return out, nil
}

// Load restores a snapshot read from durable storage. Every record must pass
// the save gate, and the snapshot is applied whole or not at all. Nothing is
// published.
func (s *InventoryService) Load(ctx context.Context, snapshot domain.Snapshot) error {
	if err := s.gate(entitySnapshot, validation.CheckSnapshot(snapshot)); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inv.Restore(snapshot); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	s.refreshGauges()
	s.logger.Infow("inventory loaded", "parts", len(snapshot.Parts), "products", len(snapshot.Products))
	return nil
}

// Seed restores a snapshot and publishes every entity so that replication
// writes the seed data through.
func (s *InventoryService) Seed(ctx context.Context, snapshot domain.Snapshot) error {
	if err := s.Load(ctx, snapshot); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range snapshot.Parts {
		rec := r
		s.publish(domain.ChangeEvent{Kind: domain.ChangePartSaved, EntityID: rec.ID, Part: &rec})
	}
	for _, r := range snapshot.Products {
		rec := r
		s.publish(domain.ChangeEvent{Kind: domain.ChangeProductSaved, EntityID: rec.ID, Product: &rec})
	}
	return nil
}

// Snapshot returns a consistent copy of the whole inventory.
func (s *InventoryService) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inv.Snapshot()
}

func (s *InventoryService) Queues() []<-chan domain.ChangeEvent {
	out := make([]<-chan domain.ChangeEvent, len(s.queues))
	for i, q := range s.queues {
		out[i] = q
	}
	return out
}

func (s *InventoryService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for _, q := range s.queues {
		close(q)
	}
}

func (s *InventoryService) pair(productID, partID int) (*domain.Product, *domain.Part, error) {
	product := s.inv.LookupProduct(productID)
	if product == nil {
		return nil, nil, fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}
	part := s.inv.LookupPart(partID)
	if part == nil {
		return nil, nil, fmt.Errorf("part %d: %w", partID, domain.ErrNotFound)
	}
	return product, part, nil
}

func (s *InventoryService) gate(entity string, err error) error {
	if err == nil {
		return nil
	}
	if ve, ok := domain.AsValidationError(err); ok {
		metrics.ValidationFailures.WithLabelValues(entity, ve.Summary).Inc()
		s.logger.Infow("save blocked", "entity", entity, "summary", ve.Summary, "problems", ve.Problems)
	}
	return err
}

func (s *InventoryService) claim(ctx context.Context, entity, requestID string) error {
	if requestID == "" || s.cache == nil {
		return nil
	}
	ok, err := s.cache.SetIdempotency(ctx, idempotencyKeyPrefix+entity+":"+requestID)
	if err != nil {
		return fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return domain.ErrDuplicateRequest
	}
	return nil
}

// publish must be called with s.mu held so that events of one entity reach
// their shard in commit order.
func (s *InventoryService) publish(event domain.ChangeEvent) {
	if len(s.queues) == 0 || s.closed {
		return
	}
	event.ID = uuid.NewString()
	event.At = time.Now()
	shard := event.EntityID % len(s.queues)
	if shard < 0 {
		shard += len(s.queues)
	}
	s.queues[shard] <- event
}

func (s *InventoryService) refreshGauges() {
	metrics.Entities.WithLabelValues(entityPart).Set(float64(len(s.inv.AllParts())))
	metrics.Entities.WithLabelValues(entityProduct).Set(float64(len(s.inv.AllProducts())))
}

func buildPart(id int, d validation.PartDraft) (*domain.Part, error) {
	name := strings.TrimSpace(d.Name)
	switch d.Kind {
	case domain.PartKindInHouse:
		return domain.NewInHousePart(id, name, *d.Price, *d.Stock, *d.Min, *d.Max, *d.MachineID)
	case domain.PartKindOutsourced:
		return domain.NewOutsourcedPart(id, name, *d.Price, *d.Stock, *d.Min, *d.Max, strings.TrimSpace(d.CompanyName))
	default:
		return nil, fmt.Errorf("%w: unknown part kind %q", domain.ErrPrecondition, d.Kind)
	}
}
