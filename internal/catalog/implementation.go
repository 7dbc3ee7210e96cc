// internal/catalog/implementation.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrParentEventItems = errors.New("parent events cannot have items")
)

// StockLedger is the only sanctioned path for changing an item's quantity
// columns. Satisfied by *inventory.Ledger.
type StockLedger interface {
	AdjustStock(ctx context.Context, itemID uuid.UUID, delta int) (int, error)
}

// service implements the Service interface.
type service struct {
	db     *sql.DB
	ledger StockLedger
	search Searcher
	logger *zap.Logger
}

// NewService creates a new catalog service instance.
func NewService(db *sql.DB, ledger StockLedger, search Searcher, logger *zap.Logger) Service {
	return &service{
		db:     db,
		ledger: ledger,
		search: search,
		logger: logger,
	}
}

// CreateEvent creates a new event.
func (s *service) CreateEvent(ctx context.Context, in CreateEventInput) (*Event, error) {
	event := &Event{
		ID:             uuid.New(),
		OrganizationID: in.OrganizationID,
		Name:           in.Name,
		Description:    in.Description,
		Location:       in.Location,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Status:         "draft",
		IsParent:       in.IsParent,
		ParentEventID:  in.ParentEventID,
	}

	query := `
		INSERT INTO events (id, organization_id, name, description, location, start_date, end_date, status, is_parent, parent_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		event.ID, event.OrganizationID, event.Name, event.Description, event.Location,
		event.StartDate, event.EndDate, event.Status, event.IsParent, event.ParentEventID,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	return event, nil
}

// GetEvent retrieves an event by its ID.
func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	query := `
		SELECT id, organization_id, name, description, location, start_date, end_date, status, is_parent, parent_event_id, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	event := &Event{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.OrganizationID,
		&event.Name,
		&event.Description,
		&event.Location,
		&event.StartDate,
		&event.EndDate,
		&event.Status,
		&event.IsParent,
		&event.ParentEventID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	return event, nil
}

func (s *service) ListEvents(ctx context.Context) ([]*Event, error) {
	query := `
		SELECT id, organization_id, name, description, location, start_date, end_date, status, is_parent, parent_event_id, created_at, updated_at
		FROM events
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		event := &Event{}
		err := rows.Scan(
			&event.ID,
			&event.OrganizationID,
			&event.Name,
			&event.Description,
			&event.Location,
			&event.StartDate,
			&event.EndDate,
			&event.Status,
			&event.IsParent,
			&event.ParentEventID,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CreateItem creates a sellable item. quantity_available starts equal to
// quantity; both move together through the ledger afterwards.
func (s *service) CreateItem(ctx context.Context, in CreateItemInput) (*Item, error) {
	event, err := s.GetEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if event.IsParent {
		return nil, ErrParentEventItems
	}

	itemType := in.ItemType
	if itemType == "" {
		itemType = ItemTypeTicket
	}

	item := &Item{
		ID:                uuid.New(),
		EventID:           in.EventID,
		Title:             in.Title,
		Category:          in.Category,
		Description:       in.Description,
		Price:             in.Price,
		Quantity:          in.Quantity,
		QuantityAvailable: in.Quantity,
		MaxPerOrder:       in.MaxPerOrder,
		StartSaleDate:     in.StartSaleDate,
		EndSaleDate:       in.EndSaleDate,
		Status:            "active",
		IsHidden:          in.IsHidden,
		SortOrder:         in.SortOrder,
		ItemType:          itemType,
	}

	query := `
		INSERT INTO items (id, event_id, title, category, description, price, quantity, quantity_available, max_per_order, start_sale_date, end_sale_date, status, is_hidden, sort_order, item_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	err = s.db.QueryRowContext(ctx, query,
		item.ID, item.EventID, item.Title, item.Category, item.Description, item.Price,
		item.Quantity, item.QuantityAvailable, item.MaxPerOrder,
		item.StartSaleDate, item.EndSaleDate, item.Status, item.IsHidden, item.SortOrder, item.ItemType,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	s.indexItem(ctx, item)
	return item, nil
}

const itemColumns = `id, event_id, title, category, description, price, quantity, quantity_available, max_per_order, start_sale_date, end_sale_date, status, is_hidden, sort_order, item_type, created_at, updated_at`

func scanItem(row interface{ Scan(...interface{}) error }) (*Item, error) {
	item := &Item{}
	var startSale, endSale sql.NullTime
	err := row.Scan(
		&item.ID,
		&item.EventID,
		&item.Title,
		&item.Category,
		&item.Description,
		&item.Price,
		&item.Quantity,
		&item.QuantityAvailable,
		&item.MaxPerOrder,
		&startSale,
		&endSale,
		&item.Status,
		&item.IsHidden,
		&item.SortOrder,
		&item.ItemType,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if startSale.Valid {
		item.StartSaleDate = &startSale.Time
	}
	if endSale.Valid {
		item.EndSaleDate = &endSale.Time
	}
	return item, nil
}

// GetItem retrieves an item by its ID.
func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *service) ListItemsByEvent(ctx context.Context, eventID uuid.UUID) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE event_id = $1 ORDER BY sort_order ASC, created_at ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates the CRUD fields and, when a stock adjustment was
// requested, routes it through the ledger. The field update and the stock
// adjustment are separate operations, matching the administrative flow: a
// rejected adjustment leaves the quantity columns untouched.
func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, in UpdateItemInput) (*Item, error) {
	query := `
		UPDATE items
		SET title = $1, category = $2, description = $3, price = $4,
		    start_sale_date = $5, end_sale_date = $6, status = $7,
		    is_hidden = $8, sort_order = $9, item_type = $10, updated_at = NOW()
		WHERE id = $11
	`
	result, err := s.db.ExecContext(ctx, query,
		in.Title, in.Category, in.Description, in.Price,
		in.StartSaleDate, in.EndSaleDate, in.Status,
		in.IsHidden, in.SortOrder, in.ItemType, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrItemNotFound
	}

	if in.StockAdjustment != 0 {
		if _, err := s.ledger.AdjustStock(ctx, id, in.StockAdjustment); err != nil {
			return nil, err
		}
	}

	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	s.indexItem(ctx, item)
	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrItemNotFound
	}

	if s.search != nil {
		if err := s.search.RemoveItem(ctx, id); err != nil {
			s.logger.Warn("failed to remove item from search index", zap.String("item_id", id.String()), zap.Error(err))
		}
	}
	return nil
}

// SearchItems queries the search index, falling back to the database when the
// index is unavailable.
func (s *service) SearchItems(ctx context.Context, query string) ([]*Item, error) {
	if s.search != nil {
		items, err := s.search.Search(ctx, query)
		if err == nil {
			return items, nil
		}
		s.logger.Warn("search index unavailable, falling back to database", zap.Error(err))
	}
	return s.searchDatabase(ctx, query)
}

func (s *service) searchDatabase(ctx context.Context, query string) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE title ILIKE '%' || $1 || '%'
		   OR description ILIKE '%' || $1 || '%'
		   OR category ILIKE '%' || $1 || '%'
		LIMIT 10`, query)
	if err != nil {
		return nil, fmt.Errorf("database search failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *service) indexItem(ctx context.Context, item *Item) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexItem(ctx, item); err != nil {
		s.logger.Warn("failed to index item", zap.String("item_id", item.ID.String()), zap.Error(err))
	}
}
