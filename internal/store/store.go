package store

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/jinzhu/gorm/dialects/sqlite"   // SQLite driver
)

// Order is one confirmed chat order.
type Order struct {
	gorm.Model
	SessionID string
	Total     float64
	Status    string
	Lines     []OrderLine
}

// OrderLine is one item entry of an order. UnitPrice is the snapshot
// taken when the line entered the cart.
type OrderLine struct {
	gorm.Model
	OrderID   uint
	ItemName  string
	UnitPrice float64
	Quantity  int
}

// Store persists confirmed orders.
type Store struct {
	db *gorm.DB
}

// Open connects to the database ("sqlite3" or "postgres") and migrates
// the order schema.
func Open(driver, dsn string) (*Store, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	db.AutoMigrate(&Order{}, &OrderLine{})
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateOrder saves an order with its lines.
func (s *Store) CreateOrder(order *Order) error {
	if err := s.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// ListOrders returns the most recent orders, newest first.
func (s *Store) ListOrders(limit int) ([]Order, error) {
	var orders []Order
	query := s.db.Preload("Lines").Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
