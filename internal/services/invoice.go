package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/diewo77/dashboard-invoices/internal/models"
	"github.com/diewo77/dashboard-invoices/internal/validation"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultTimeout bounds every datastore call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

var searchSanitizer = regexp.MustCompile(`[^a-zA-Z0-9 @.\-_]`)

// InvoiceService runs the invoice statements against the datastore.
// It keeps no state between calls besides the injected handle.
type InvoiceService struct {
	db      *gorm.DB
	timeout time.Duration
	// Now is the clock used to stamp invoice dates.
	Now func() time.Time
}

func NewInvoiceService(db *gorm.DB, timeout time.Duration) *InvoiceService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &InvoiceService{db: db, timeout: timeout, Now: time.Now}
}

// InvoiceRow is an invoice joined with its customer for the list page.
type InvoiceRow struct {
	ID         string
	CustomerID string
	Name       string
	Email      string
	ImageURL   string
	Amount     int64
	Status     models.InvoiceStatus
	Date       datatypes.Date
}

func (r InvoiceRow) DateString() string { return time.Time(r.Date).Format(models.DateLayout) }

func (r InvoiceRow) AmountMajor() float64 { return float64(r.Amount) / 100 }

func (s *InvoiceService) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// Create inserts a new invoice dated today and returns its id.
func (s *InvoiceService) Create(ctx context.Context, v validation.ValidatedInvoice) (string, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	inv := models.Invoice{
		CustomerID: v.CustomerID,
		Amount:     v.AmountMinor(),
		Status:     v.Status,
		Date:       models.Today(s.Now()),
	}
	if err := db.Create(&inv).Error; err != nil {
		return "", wrapDatastore("create", err)
	}
	return inv.ID, nil
}

// Update replaces customer, amount, status and date of the invoice with the given id.
// An id that matches no row is not an error.
func (s *InvoiceService) Update(ctx context.Context, id string, v validation.ValidatedInvoice) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	err := byID(db.Model(&models.Invoice{}), id).Updates(map[string]any{
		"customer_id": v.CustomerID,
		"amount":      v.AmountMinor(),
		"status":      v.Status,
		"date":        models.Today(s.Now()),
	}).Error
	return wrapDatastore("update", err)
}

// Delete removes the invoice with the given id. Deleting a missing id is a no-op.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return wrapDatastore("delete", byID(db, id).Delete(&models.Invoice{}).Error)
}

// Get loads one invoice by id.
func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	db, cancel := s.conn(ctx)
	defer cancel()
	var inv models.Invoice
	if err := db.Where("id = ?", uid.String()).First(&inv).Error; err != nil {
		return nil, wrapDatastore("get", err)
	}
	return &inv, nil
}

// List returns invoices with customer details, newest first. q filters on customer
// name, email or status (case-insensitive).
func (s *InvoiceService) List(ctx context.Context, q string) ([]InvoiceRow, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	dbq := db.Table("invoices").
		Select("invoices.id, invoices.customer_id, invoices.amount, invoices.status, invoices.date, customers.name, customers.email, customers.image_url").
		Joins("JOIN customers ON customers.id = invoices.customer_id")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(searchSanitizer.ReplaceAllString(q, "")) + "%"
		dbq = dbq.Where("lower(customers.name) LIKE ? OR lower(customers.email) LIKE ? OR lower(invoices.status) LIKE ?", like, like, like)
	}
	var rows []InvoiceRow
	if err := dbq.Order("invoices.date desc").Order("customers.name").Scan(&rows).Error; err != nil {
		return nil, wrapDatastore("list", err)
	}
	return rows, nil
}

// Customers lists customers for the invoice form select, sorted by name.
func (s *InvoiceService) Customers(ctx context.Context) ([]models.Customer, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var cs []models.Customer
	if err := db.Order("name").Find(&cs).Error; err != nil {
		return nil, wrapDatastore("customers", err)
	}
	return cs, nil
}

// byID scopes a write statement to one invoice. A malformed id cannot match a uuid
// column, so it yields a predicate that matches no row instead of a cast error.
func byID(db *gorm.DB, id string) *gorm.DB {
	uid, err := uuid.Parse(id)
	if err != nil {
		return db.Where("1 = 0")
	}
	return db.Where("id = ?", uid.String())
}

// Ping checks datastore connectivity.
func (s *InvoiceService) Ping(ctx context.Context) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return wrapDatastore("ping", db.Exec("SELECT 1").Error)
}
