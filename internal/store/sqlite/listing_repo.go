package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"farmdirect/internal/domain"
)

type ListingRepo struct {
	db *sql.DB
}

func NewListingRepo(db *sql.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

var _ domain.ListingRepository = (*ListingRepo)(nil)

func (r *ListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	images, err := json.Marshal(l.ImageURLs)
	if err != nil {
		return fmt.Errorf("marshal image urls: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO listings (uuid, owner_email, title, quantity, quantity_unit,
			harvest_date, location, image_urls, ai_grade, ai_price_range, ai_analysis,
			status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := tx.ExecContext(ctx, query,
		l.UUID, l.OwnerEmail, l.Title, l.Quantity, l.QuantityUnit,
		l.HarvestDate, l.Location, string(images), l.Grade, l.PriceRange, l.Analysis,
		l.Status, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	l.ID = id

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *ListingRepo) GetByUUID(ctx context.Context, uuid string) (*domain.Listing, error) {
	query := listingColumns + ` WHERE uuid = ?`
	row := r.db.QueryRowContext(ctx, query, uuid)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

func (r *ListingRepo) ListActive(ctx context.Context) ([]*domain.Listing, error) {
	query := listingColumns + ` WHERE status = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, domain.ListingStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active listings: %w", err)
	}
	defer rows.Close()

	var listings []*domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

const listingColumns = `
	SELECT id, uuid, owner_email, title, quantity, quantity_unit,
		harvest_date, location, image_urls, ai_grade, ai_price_range, ai_analysis,
		status, created_at
	FROM listings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	l := &domain.Listing{}
	var images string
	err := row.Scan(
		&l.ID,
		&l.UUID,
		&l.OwnerEmail,
		&l.Title,
		&l.Quantity,
		&l.QuantityUnit,
		&l.HarvestDate,
		&l.Location,
		&images,
		&l.Grade,
		&l.PriceRange,
		&l.Analysis,
		&l.Status,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(images), &l.ImageURLs); err != nil {
		// A corrupt image_urls column should not make the listing unreadable.
		l.ImageURLs = nil
	}
	return l, nil
}
