package domain

import "context"

// UserRepository defines persistence operations for users.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUUID(ctx context.Context, uuid string) (*User, error)
}

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	Create(ctx context.Context, l *Listing) error
	GetByUUID(ctx context.Context, uuid string) (*Listing, error)
	ListActive(ctx context.Context) ([]*Listing, error)
}

// ChatRoomRepository defines persistence operations for chat rooms.
// Create must surface a (listing, buyer) uniqueness violation as ErrConflict
// so the service can fall back to the existing room.
type ChatRoomRepository interface {
	Create(ctx context.Context, c *ChatRoom) error
	GetByUUID(ctx context.Context, uuid string) (*ChatRoom, error)
	FindByListingAndBuyer(ctx context.Context, listingUUID, buyerEmail string) (*ChatRoom, error)
	ListForUser(ctx context.Context, email string) ([]*ChatRoom, error)
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	ListForRoom(ctx context.Context, chatRoomUUID string) ([]*Message, error)
}
