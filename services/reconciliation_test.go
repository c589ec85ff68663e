package services

import (
	"errors"
	"testing"
	"time"

	"crazyhouse-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A pooled second connection would see a different in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Client{},
		&models.Motorcycle{},
		&models.InventoryItem{},
		&models.Service{},
		&models.ServiceItem{},
		&models.StockMovement{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedWorkshop(t *testing.T, db *gorm.DB) (userID, clientID, motorcycleID uuid.UUID) {
	t.Helper()

	userID = uuid.New()

	client := models.Client{UserID: userID, Name: "Juan Pérez", Phone: "+573001112233", IsActive: true}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("failed to seed client: %v", err)
	}

	motorcycle := models.Motorcycle{
		UserID:   userID,
		ClientID: client.ID,
		Brand:    "Yamaha",
		Model:    "FZ 2.0",
		Plate:    "ABC12D",
		Year:     2019,
	}
	if err := db.Create(&motorcycle).Error; err != nil {
		t.Fatalf("failed to seed motorcycle: %v", err)
	}

	return userID, client.ID, motorcycle.ID
}

func seedItem(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, quantity int, priceSold float64) models.InventoryItem {
	t.Helper()

	item := models.InventoryItem{
		UserID:           userID,
		Name:             name,
		Quantity:         quantity,
		PriceSold:        priceSold,
		UnitType:         "unidad",
		RestockThreshold: 2,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed item %s: %v", name, err)
	}
	return item
}

func itemQuantity(t *testing.T, db *gorm.DB, itemID uuid.UUID) int {
	t.Helper()

	var item models.InventoryItem
	if err := db.First(&item, "id = ?", itemID).Error; err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	return item.Quantity
}

func draft(clientID, motorcycleID uuid.UUID, laborCost float64, items ...UsageLine) ServiceDraft {
	return ServiceDraft{
		ClientID:     clientID,
		MotorcycleID: motorcycleID,
		ServiceDate:  time.Now(),
		Description:  "Cambio de aceite",
		LaborCost:    laborCost,
		Items:        items,
	}
}

func TestCreateServiceDecrementsStockAndComputesTotal(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Oil Filter", 10, 5.0)
	eng := NewReconciliationEngine(db)

	service, err := eng.CreateService(userID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 3}))
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}

	if got := itemQuantity(t, db, item.ID); got != 7 {
		t.Fatalf("expected quantity 7 after create, got %d", got)
	}
	if service.TotalValue != 35.0 {
		t.Fatalf("expected total 35.0, got %v", service.TotalValue)
	}
	if len(service.Items) != 1 {
		t.Fatalf("expected 1 usage row, got %d", len(service.Items))
	}
	if service.Items[0].UnitPrice != 5.0 || service.Items[0].TotalPrice != 15.0 {
		t.Fatalf("unexpected snapshot prices: %+v", service.Items[0])
	}
}

func TestEditServiceAppliesNetDelta(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Oil Filter", 10, 5.0)
	eng := NewReconciliationEngine(db)

	created, err := eng.CreateService(userID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 3}))
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}

	updated, err := eng.UpdateService(userID, created.ID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 5}))
	if err != nil {
		t.Fatalf("edit service failed: %v", err)
	}

	// 7 + 3 (restored) - 5 (consumed) = 5
	if got := itemQuantity(t, db, item.ID); got != 5 {
		t.Fatalf("expected quantity 5 after edit, got %d", got)
	}
	if updated.TotalValue != 45.0 {
		t.Fatalf("expected total 45.0 after edit, got %v", updated.TotalValue)
	}

	var rows []models.ServiceItem
	if err := db.Where("service_id = ?", created.ID).Find(&rows).Error; err != nil {
		t.Fatalf("failed to load usage rows: %v", err)
	}
	if len(rows) != 1 || rows[0].Quantity != 5 {
		t.Fatalf("usage rows do not reflect latest snapshot: %+v", rows)
	}
}

func TestDeleteServiceRestoresStock(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Oil Filter", 10, 5.0)
	eng := NewReconciliationEngine(db)

	created, err := eng.CreateService(userID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 3}))
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}
	if _, err := eng.UpdateService(userID, created.ID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 5})); err != nil {
		t.Fatalf("edit service failed: %v", err)
	}

	if err := eng.DeleteService(userID, created.ID); err != nil {
		t.Fatalf("delete service failed: %v", err)
	}

	if got := itemQuantity(t, db, item.ID); got != 10 {
		t.Fatalf("expected full restoration to 10, got %d", got)
	}

	var count int64
	db.Model(&models.ServiceItem{}).Where("service_id = ?", created.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected usage rows removed, found %d", count)
	}

	var notFound *NotFoundError
	if err := eng.DeleteService(userID, created.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestInsufficientStockRejectsWithoutWrites(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Oil Filter", 10, 5.0)
	eng := NewReconciliationEngine(db)

	_, err := eng.CreateService(userID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 15}))

	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.ItemName != "Oil Filter" || insufficient.Available != 10 {
		t.Fatalf("unexpected error details: %+v", insufficient)
	}

	if got := itemQuantity(t, db, item.ID); got != 10 {
		t.Fatalf("expected quantity untouched at 10, got %d", got)
	}
	var services int64
	db.Model(&models.Service{}).Where("user_id = ?", userID).Count(&services)
	if services != 0 {
		t.Fatalf("expected no service rows, found %d", services)
	}
}

func TestPartialInsufficiencyRejectsWholeSubmission(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	plentiful := seedItem(t, db, userID, "Bujía", 20, 3.0)
	scarce := seedItem(t, db, userID, "Pastillas de freno", 2, 12.0)
	eng := NewReconciliationEngine(db)

	_, err := eng.CreateService(userID, draft(clientID, motorcycleID, 10.0,
		UsageLine{InventoryItemID: plentiful.ID, Quantity: 4},
		UsageLine{InventoryItemID: scarce.ID, Quantity: 5}))

	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.ItemName != "Pastillas de freno" {
		t.Fatalf("expected the insufficient item reported, got %q", insufficient.ItemName)
	}

	// No partial application: the sufficient line must not have been applied
	if got := itemQuantity(t, db, plentiful.ID); got != 20 {
		t.Fatalf("expected untouched stock 20, got %d", got)
	}
	if got := itemQuantity(t, db, scarce.ID); got != 2 {
		t.Fatalf("expected untouched stock 2, got %d", got)
	}
}

func TestNoOpEditLeavesStockUnchanged(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Oil Filter", 10, 5.0)
	eng := NewReconciliationEngine(db)

	created, err := eng.CreateService(userID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 3}))
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}

	var movementsBefore int64
	db.Model(&models.StockMovement{}).Count(&movementsBefore)

	if _, err := eng.UpdateService(userID, created.ID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 3})); err != nil {
		t.Fatalf("no-op edit failed: %v", err)
	}

	if got := itemQuantity(t, db, item.ID); got != 7 {
		t.Fatalf("no-op edit changed stock: got %d, want 7", got)
	}

	var movementsAfter int64
	db.Model(&models.StockMovement{}).Count(&movementsAfter)
	if movementsAfter != movementsBefore {
		t.Fatalf("no-op edit recorded movements: %d -> %d", movementsBefore, movementsAfter)
	}
}

func TestEditValidationAccountsForSelfRelease(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Cadena", 10, 8.0)
	eng := NewReconciliationEngine(db)

	created, err := eng.CreateService(userID, draft(clientID, motorcycleID, 0,
		UsageLine{InventoryItemID: item.ID, Quantity: 6}))
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}
	// Stock now 4; previous usage 6 releases back, so exactly 10 must pass
	if _, err := eng.UpdateService(userID, created.ID, draft(clientID, motorcycleID, 0,
		UsageLine{InventoryItemID: item.ID, Quantity: 10})); err != nil {
		t.Fatalf("boundary edit should be accepted: %v", err)
	}
	if got := itemQuantity(t, db, item.ID); got != 0 {
		t.Fatalf("expected stock exhausted to 0, got %d", got)
	}

	// One above the boundary must be rejected
	_, err = eng.UpdateService(userID, created.ID, draft(clientID, motorcycleID, 0,
		UsageLine{InventoryItemID: item.ID, Quantity: 11}))
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError above boundary, got %v", err)
	}
	if insufficient.Available != 10 {
		t.Fatalf("expected available 10 (0 stock + 10 self-released), got %d", insufficient.Available)
	}
	if got := itemQuantity(t, db, item.ID); got != 0 {
		t.Fatalf("rejected edit must not change stock, got %d", got)
	}
}

func TestValidationErrors(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Oil Filter", 10, 5.0)
	eng := NewReconciliationEngine(db)

	var validation *ValidationError
	_, err := eng.CreateService(userID, draft(clientID, motorcycleID, 10.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 0}))
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for zero quantity, got %v", err)
	}

	_, err = eng.CreateService(userID, draft(clientID, motorcycleID, 10.0,
		UsageLine{InventoryItemID: item.ID, Quantity: -2}))
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for negative quantity, got %v", err)
	}

	_, err = eng.CreateService(userID, draft(clientID, motorcycleID, -1.0))
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for negative labor cost, got %v", err)
	}

	var notFound *NotFoundError
	_, err = eng.CreateService(userID, draft(clientID, motorcycleID, 10.0,
		UsageLine{InventoryItemID: uuid.New(), Quantity: 1}))
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for unknown item, got %v", err)
	}

	_, err = eng.CreateService(userID, draft(uuid.New(), motorcycleID, 10.0))
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for unknown client, got %v", err)
	}
}

func TestOwnerScopingHidesForeignRows(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Oil Filter", 10, 5.0)
	eng := NewReconciliationEngine(db)

	created, err := eng.CreateService(userID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}

	var notFound *NotFoundError
	if err := eng.DeleteService(uuid.New(), created.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for foreign user, got %v", err)
	}
	if got := itemQuantity(t, db, item.ID); got != 9 {
		t.Fatalf("foreign delete must not touch stock, got %d", got)
	}
}

func TestSnapshotPriceSurvivesCatalogChanges(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Oil Filter", 10, 5.0)
	eng := NewReconciliationEngine(db)

	created, err := eng.CreateService(userID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 3}))
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}

	// Raising the catalog price must not change the stored service total
	if err := db.Model(&models.InventoryItem{}).Where("id = ?", item.ID).
		Update("price_sold", 9.5).Error; err != nil {
		t.Fatalf("failed to update catalog price: %v", err)
	}

	var reloaded models.Service
	if err := db.Preload("Items").First(&reloaded, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("failed to reload service: %v", err)
	}
	if reloaded.TotalValue != 35.0 {
		t.Fatalf("historical total changed: got %v, want 35.0", reloaded.TotalValue)
	}
	if reloaded.Items[0].UnitPrice != 5.0 {
		t.Fatalf("snapshot unit price changed: got %v", reloaded.Items[0].UnitPrice)
	}
}

func TestExplicitUnitPriceOverridesCatalog(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Llanta trasera", 4, 60.0)
	eng := NewReconciliationEngine(db)

	discounted := 50.0
	created, err := eng.CreateService(userID, draft(clientID, motorcycleID, 15.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 1, UnitPrice: &discounted}))
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}
	if created.TotalValue != 65.0 {
		t.Fatalf("expected total 65.0 with overridden price, got %v", created.TotalValue)
	}
}

func TestStockMovementsAreRecorded(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Oil Filter", 10, 5.0)
	eng := NewReconciliationEngine(db)

	created, err := eng.CreateService(userID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 3}))
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}

	var movement models.StockMovement
	if err := db.Where("inventory_item_id = ?", item.ID).First(&movement).Error; err != nil {
		t.Fatalf("expected a stock movement row: %v", err)
	}
	if movement.Type != models.MovementOut || movement.Quantity != -3 {
		t.Fatalf("unexpected movement: %+v", movement)
	}
	if movement.StockBefore != 10 || movement.StockAfter != 7 {
		t.Fatalf("unexpected before/after: %+v", movement)
	}
	if movement.ServiceID == nil || *movement.ServiceID != created.ID {
		t.Fatalf("movement not linked to service: %+v", movement)
	}

	if err := eng.DeleteService(userID, created.ID); err != nil {
		t.Fatalf("delete service failed: %v", err)
	}

	var restore models.StockMovement
	if err := db.Where("inventory_item_id = ? AND type = ?", item.ID, models.MovementIn).
		First(&restore).Error; err != nil {
		t.Fatalf("expected a restoration movement row: %v", err)
	}
	if restore.Quantity != 3 || restore.StockBefore != 7 || restore.StockAfter != 10 {
		t.Fatalf("unexpected restoration movement: %+v", restore)
	}
}

func TestEditToEmptyUsageRestoresStock(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Oil Filter", 10, 5.0)
	eng := NewReconciliationEngine(db)

	created, err := eng.CreateService(userID, draft(clientID, motorcycleID, 20.0,
		UsageLine{InventoryItemID: item.ID, Quantity: 3}))
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}

	// Dropping every usage line leaves a labor-only service
	updated, err := eng.UpdateService(userID, created.ID, draft(clientID, motorcycleID, 20.0))
	if err != nil {
		t.Fatalf("edit to empty usage failed: %v", err)
	}

	if got := itemQuantity(t, db, item.ID); got != 10 {
		t.Fatalf("expected stock fully restored to 10, got %d", got)
	}
	if updated.TotalValue != 20.0 {
		t.Fatalf("expected labor-only total 20.0, got %v", updated.TotalValue)
	}
	var rows int64
	db.Model(&models.ServiceItem{}).Where("service_id = ?", created.ID).Count(&rows)
	if rows != 0 {
		t.Fatalf("expected no usage rows left, found %d", rows)
	}
}

func TestDuplicateLinesForSameItemSumAgainstStock(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	item := seedItem(t, db, userID, "Oil Filter", 10, 5.0)
	eng := NewReconciliationEngine(db)

	// 6 + 5 = 11 over a stock of 10 must fail even though each line alone fits
	_, err := eng.CreateService(userID, draft(clientID, motorcycleID, 0,
		UsageLine{InventoryItemID: item.ID, Quantity: 6},
		UsageLine{InventoryItemID: item.ID, Quantity: 5}))
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError for summed lines, got %v", err)
	}
	if got := itemQuantity(t, db, item.ID); got != 10 {
		t.Fatalf("rejected create must not touch stock, got %d", got)
	}

	// 6 + 4 = 10 lands exactly on the boundary and must pass
	if _, err := eng.CreateService(userID, draft(clientID, motorcycleID, 0,
		UsageLine{InventoryItemID: item.ID, Quantity: 6},
		UsageLine{InventoryItemID: item.ID, Quantity: 4})); err != nil {
		t.Fatalf("boundary create should be accepted: %v", err)
	}
	if got := itemQuantity(t, db, item.ID); got != 0 {
		t.Fatalf("expected stock exhausted to 0, got %d", got)
	}
}

func TestEditSwapsItemsBetweenProducts(t *testing.T) {
	db := newTestDB(t)
	userID, clientID, motorcycleID := seedWorkshop(t, db)
	oil := seedItem(t, db, userID, "Aceite 20W50", 10, 7.0)
	filter := seedItem(t, db, userID, "Filtro de aire", 6, 4.0)
	eng := NewReconciliationEngine(db)

	created, err := eng.CreateService(userID, draft(clientID, motorcycleID, 0,
		UsageLine{InventoryItemID: oil.ID, Quantity: 2}))
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}

	// Replace oil usage entirely with filter usage
	if _, err := eng.UpdateService(userID, created.ID, draft(clientID, motorcycleID, 0,
		UsageLine{InventoryItemID: filter.ID, Quantity: 3})); err != nil {
		t.Fatalf("swap edit failed: %v", err)
	}

	if got := itemQuantity(t, db, oil.ID); got != 10 {
		t.Fatalf("expected oil fully restored to 10, got %d", got)
	}
	if got := itemQuantity(t, db, filter.ID); got != 3 {
		t.Fatalf("expected filter reduced to 3, got %d", got)
	}
}

func TestComputeDeltas(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	previous := map[uuid.UUID]int{a: 3, b: 2}
	next := map[uuid.UUID]int{a: 5, c: 1}

	deltas := computeDeltas(previous, next)

	if deltas[a] != -2 {
		t.Fatalf("expected delta -2 for increased usage, got %d", deltas[a])
	}
	if deltas[b] != 2 {
		t.Fatalf("expected delta +2 for removed usage, got %d", deltas[b])
	}
	if deltas[c] != -1 {
		t.Fatalf("expected delta -1 for new usage, got %d", deltas[c])
	}

	// Unchanged usage produces no entry at all
	same := map[uuid.UUID]int{a: 4}
	if got := computeDeltas(same, map[uuid.UUID]int{a: 4}); len(got) != 0 {
		t.Fatalf("expected empty deltas for identical usage, got %v", got)
	}

	if got := computeDeltas(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty deltas for empty inputs, got %v", got)
	}
}
