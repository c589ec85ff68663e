// services/reconciliation.go
package services

import (
	"errors"
	"time"

	"crazyhouse-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageLine is one requested inventory consumption for a service draft.
// UnitPrice is optional: when nil the item's current sale price is
// snapshotted into the stored row.
type UsageLine struct {
	InventoryItemID uuid.UUID
	Quantity        int
	UnitPrice       *float64
}

// ServiceDraft carries the fields of a service submission. The same draft
// shape is used for create and edit; edits are identified by the service
// id passed to UpdateService.
type ServiceDraft struct {
	ClientID     uuid.UUID
	MotorcycleID uuid.UUID
	ServiceDate  time.Time
	Description  string
	LaborCost    float64
	Notes        string
	Items        []UsageLine
}

// ReconciliationEngine keeps service records and inventory quantities
// consistent. Every submit runs in a single database transaction: the
// service row, its usage rows, the per-item quantity deltas and the stock
// movement audit rows either all commit or none do.
type ReconciliationEngine struct {
	db *gorm.DB
}

func NewReconciliationEngine(db *gorm.DB) *ReconciliationEngine {
	return &ReconciliationEngine{db: db}
}

// CreateService validates the draft against current stock, persists the
// service with its usage snapshot and decrements inventory quantities.
func (e *ReconciliationEngine) CreateService(userID uuid.UUID, draft ServiceDraft) (*models.Service, error) {
	return e.submit(userID, uuid.Nil, draft)
}

// UpdateService replaces the stored usage list of an existing service and
// applies the net quantity change per item (previous - new), so stock
// freed by the edit counts as available during validation.
func (e *ReconciliationEngine) UpdateService(userID, serviceID uuid.UUID, draft ServiceDraft) (*models.Service, error) {
	if serviceID == uuid.Nil {
		return nil, &ValidationError{Message: "Servicio inválido"}
	}
	return e.submit(userID, serviceID, draft)
}

// DeleteService removes the service and its usage rows and restores the
// full previously consumed quantity of every item.
func (e *ReconciliationEngine) DeleteService(userID, serviceID uuid.UUID) error {
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var service models.Service
		if err := tx.Preload("Items").
			Where("user_id = ? AND id = ?", userID, serviceID).
			First(&service).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "Servicio"}
			}
			return err
		}

		previous := usageByItem(service.Items)

		if err := tx.Where("service_id = ?", service.ID).Delete(&models.ServiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&service).Error; err != nil {
			return err
		}

		return e.applyDeltas(tx, userID, service.ID, computeDeltas(previous, nil))
	})
	return wrapDomainErr(err)
}

func (e *ReconciliationEngine) submit(userID, serviceID uuid.UUID, draft ServiceDraft) (*models.Service, error) {
	// Input validation happens before the transaction opens: a rejected
	// draft never reaches the database.
	if draft.LaborCost < 0 {
		return nil, &ValidationError{Message: "El costo de mano de obra no puede ser negativo"}
	}
	for _, line := range draft.Items {
		if line.Quantity <= 0 {
			return nil, &ValidationError{Message: "La cantidad debe ser mayor que cero"}
		}
		if line.InventoryItemID == uuid.Nil {
			return nil, &ValidationError{Message: "Producto inválido"}
		}
	}

	var result models.Service
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := checkOwned(tx, userID, &models.Client{}, draft.ClientID, "Cliente"); err != nil {
			return err
		}
		if err := checkOwned(tx, userID, &models.Motorcycle{}, draft.MotorcycleID, "Moto"); err != nil {
			return err
		}

		editing := serviceID != uuid.Nil
		var service models.Service
		previous := map[uuid.UUID]int{}
		if editing {
			if err := tx.Preload("Items").
				Where("user_id = ? AND id = ?", userID, serviceID).
				First(&service).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "Servicio"}
				}
				return err
			}
			previous = usageByItem(service.Items)
		}

		items, total, err := e.validateUsage(tx, userID, draft, previous)
		if err != nil {
			return err
		}

		if editing {
			// Clear the stored usage list so it always reflects exactly
			// the latest snapshot
			if err := tx.Where("service_id = ?", service.ID).Delete(&models.ServiceItem{}).Error; err != nil {
				return err
			}
			service.ClientID = draft.ClientID
			service.MotorcycleID = draft.MotorcycleID
			service.ServiceDate = draft.ServiceDate
			service.Description = draft.Description
			service.LaborCost = draft.LaborCost
			service.Notes = draft.Notes
			service.TotalValue = total
			service.Items = items
			if err := tx.Save(&service).Error; err != nil {
				return err
			}
		} else {
			service = models.Service{
				UserID:       userID,
				ClientID:     draft.ClientID,
				MotorcycleID: draft.MotorcycleID,
				ServiceDate:  draft.ServiceDate,
				Description:  draft.Description,
				LaborCost:    draft.LaborCost,
				Notes:        draft.Notes,
				TotalValue:   total,
				Items:        items,
			}
			if err := tx.Create(&service).Error; err != nil {
				return err
			}
		}

		deltas := computeDeltas(previous, usageByItem(items))
		if err := e.applyDeltas(tx, userID, service.ID, deltas); err != nil {
			return err
		}

		result = service
		return nil
	})
	if err != nil {
		return nil, wrapDomainErr(err)
	}
	return &result, nil
}

// validateUsage checks every requested line against current stock and
// builds the snapshot rows. Availability accounts for quantities this
// same edit frees up: the previous usage of an item is added back before
// comparing. Fails on the first insufficient line, in input order.
func (e *ReconciliationEngine) validateUsage(tx *gorm.DB, userID uuid.UUID, draft ServiceDraft, previous map[uuid.UUID]int) ([]models.ServiceItem, float64, error) {
	cache := map[uuid.UUID]*models.InventoryItem{}
	running := map[uuid.UUID]int{}

	total := draft.LaborCost
	var items []models.ServiceItem

	for _, line := range draft.Items {
		item, ok := cache[line.InventoryItemID]
		if !ok {
			var loaded models.InventoryItem
			if err := tx.Where("user_id = ? AND id = ?", userID, line.InventoryItemID).
				First(&loaded).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, 0, &NotFoundError{Resource: "Producto"}
				}
				return nil, 0, err
			}
			item = &loaded
			cache[line.InventoryItemID] = item
		}

		running[line.InventoryItemID] += line.Quantity
		available := item.Quantity + previous[line.InventoryItemID]
		if running[line.InventoryItemID] > available {
			return nil, 0, &InsufficientStockError{ItemName: item.Name, Available: available}
		}

		unitPrice := item.PriceSold
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}
		lineTotal := unitPrice * float64(line.Quantity)
		total += lineTotal

		items = append(items, models.ServiceItem{
			InventoryItemID: item.ID,
			ItemName:        item.Name,
			Quantity:        line.Quantity,
			UnitPrice:       unitPrice,
			TotalPrice:      lineTotal,
		})
	}

	return items, total, nil
}

// applyDeltas adjusts inventory quantities with additive updates and
// records one stock movement per touched item. The update predicate
// refuses to drive a quantity negative, so a quantity stolen by a
// concurrent session rolls this transaction back instead of corrupting
// the invariant.
func (e *ReconciliationEngine) applyDeltas(tx *gorm.DB, userID, serviceID uuid.UUID, deltas map[uuid.UUID]int) error {
	for itemID, delta := range deltas {
		res := tx.Model(&models.InventoryItem{}).
			Where("user_id = ? AND id = ? AND quantity + ? >= 0", userID, itemID, delta).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var item models.InventoryItem
			if err := tx.Where("user_id = ? AND id = ?", userID, itemID).
				First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) && delta > 0 {
					// Restoring stock to an item since removed from the
					// catalog: nothing left to restore to
					continue
				}
				return err
			}
			return &InsufficientStockError{ItemName: item.Name, Available: item.Quantity}
		}

		var item models.InventoryItem
		if err := tx.Where("user_id = ? AND id = ?", userID, itemID).
			First(&item).Error; err != nil {
			return err
		}

		movementType := models.MovementOut
		if delta > 0 {
			movementType = models.MovementIn
		}
		svcID := serviceID
		movement := models.StockMovement{
			UserID:          userID,
			InventoryItemID: itemID,
			Type:            movementType,
			Quantity:        delta,
			StockBefore:     item.Quantity - delta,
			StockAfter:      item.Quantity,
			ServiceID:       &svcID,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}
	}
	return nil
}

// computeDeltas returns the net signed quantity change per item:
// previous minus new. A create has no previous usage, a delete has no new
// usage, and an unchanged edit yields no deltas at all.
func computeDeltas(previous, next map[uuid.UUID]int) map[uuid.UUID]int {
	deltas := make(map[uuid.UUID]int, len(previous)+len(next))
	for itemID, qty := range previous {
		deltas[itemID] += qty
	}
	for itemID, qty := range next {
		deltas[itemID] -= qty
	}
	for itemID, delta := range deltas {
		if delta == 0 {
			delete(deltas, itemID)
		}
	}
	return deltas
}

func usageByItem(items []models.ServiceItem) map[uuid.UUID]int {
	usage := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		usage[item.InventoryItemID] += item.Quantity
	}
	return usage
}

func checkOwned(tx *gorm.DB, userID uuid.UUID, model interface{}, id uuid.UUID, resource string) error {
	var count int64
	if err := tx.Model(model).Where("user_id = ? AND id = ?", userID, id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &NotFoundError{Resource: resource}
	}
	return nil
}

// wrapDomainErr leaves engine error types untouched and wraps anything
// else as a persistence failure
func wrapDomainErr(err error) error {
	if err == nil {
		return nil
	}
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		insufficient *InsufficientStockError
	)
	if errors.As(err, &validation) || errors.As(err, &notFound) || errors.As(err, &insufficient) {
		return err
	}
	return &PersistenceError{Err: err}
}
