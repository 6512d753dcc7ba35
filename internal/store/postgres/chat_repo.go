package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"farmdirect/internal/domain"
)

type ChatRoomRepo struct {
	db *sql.DB
}

func NewChatRoomRepo(db *sql.DB) *ChatRoomRepo {
	return &ChatRoomRepo{db: db}
}

var _ domain.ChatRoomRepository = (*ChatRoomRepo)(nil)

func (r *ChatRoomRepo) Create(ctx context.Context, c *domain.ChatRoom) error {
	query := `
		INSERT INTO chat_rooms (uuid, listing_uuid, listing_title, farmer_email, buyer_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		c.UUID, c.ListingUUID, c.ListingTitle, c.FarmerEmail, c.BuyerEmail).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.E(domain.ErrConflict, "chat room already exists")
		}
		return fmt.Errorf("insert chat room: %w", err)
	}
	return nil
}

func (r *ChatRoomRepo) GetByUUID(ctx context.Context, uuid string) (*domain.ChatRoom, error) {
	query := chatRoomColumns + ` WHERE uuid = $1`
	return r.scanRoom(ctx, query, uuid)
}

func (r *ChatRoomRepo) FindByListingAndBuyer(ctx context.Context, listingUUID, buyerEmail string) (*domain.ChatRoom, error) {
	query := chatRoomColumns + ` WHERE listing_uuid = $1 AND buyer_email = $2`
	return r.scanRoom(ctx, query, listingUUID, buyerEmail)
}

func (r *ChatRoomRepo) ListForUser(ctx context.Context, email string) ([]*domain.ChatRoom, error) {
	query := chatRoomColumns + ` WHERE farmer_email = $1 OR buyer_email = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list chat rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*domain.ChatRoom
	for rows.Next() {
		c := &domain.ChatRoom{}
		if err := rows.Scan(&c.ID, &c.UUID, &c.ListingUUID, &c.ListingTitle, &c.FarmerEmail, &c.BuyerEmail); err != nil {
			return nil, fmt.Errorf("scan chat room: %w", err)
		}
		rooms = append(rooms, c)
	}
	return rooms, rows.Err()
}

const chatRoomColumns = `
	SELECT id, uuid, listing_uuid, listing_title, farmer_email, buyer_email
	FROM chat_rooms`

func (r *ChatRoomRepo) scanRoom(ctx context.Context, query string, args ...any) (*domain.ChatRoom, error) {
	c := &domain.ChatRoom{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.UUID,
		&c.ListingUUID,
		&c.ListingTitle,
		&c.FarmerEmail,
		&c.BuyerEmail,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan chat room: %w", err)
	}
	return c, nil
}
