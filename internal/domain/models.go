package domain

import "time"

// Roles a user can register with. The role is fixed at registration.
const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
)

// ListingStatusActive is the only status this service produces.
const ListingStatusActive = "active"

// User represents a registered account. Email is the login key and is
// matched exactly (case-sensitive). UUID is the public identifier carried
// in tokens and API responses; the integer ID never leaves the store.
type User struct {
	ID           int64  `db:"id" json:"-"`
	UUID         string `db:"uuid" json:"id"`
	FullName     string `db:"full_name" json:"full_name"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
}

// Listing is a sale offer. Grade, PriceRange and Analysis are set once,
// atomically with creation, and are never empty for an active listing.
type Listing struct {
	ID           int64     `db:"id" json:"-"`
	UUID         string    `db:"uuid" json:"id"`
	OwnerEmail   string    `db:"owner_email" json:"owner_email"`
	Title        string    `db:"title" json:"title"`
	Quantity     float64   `db:"quantity" json:"quantity"`
	QuantityUnit string    `db:"quantity_unit" json:"quantity_unit"`
	HarvestDate  string    `db:"harvest_date" json:"harvest_date"`
	Location     string    `db:"location" json:"location"`
	ImageURLs    []string  `db:"image_urls" json:"image_urls"`
	Grade        string    `db:"ai_grade" json:"ai_grade"`
	PriceRange   string    `db:"ai_price_range" json:"ai_price_range"`
	Analysis     string    `db:"ai_analysis" json:"ai_analysis"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ChatRoom is a 1:1 conversation between one buyer and the owner of one
// listing. At most one room exists per (listing, buyer) pair; the store
// enforces this with a uniqueness constraint. ListingTitle is denormalized
// at creation time and never refreshed afterwards.
type ChatRoom struct {
	ID           int64  `db:"id" json:"-"`
	UUID         string `db:"uuid" json:"chat_id"`
	ListingUUID  string `db:"listing_uuid" json:"listing_id"`
	ListingTitle string `db:"listing_title" json:"listing_title"`
	FarmerEmail  string `db:"farmer_email" json:"farmer_email"`
	BuyerEmail   string `db:"buyer_email" json:"buyer_email"`
}

// Message is one chat utterance. Body is encrypted at rest; the services
// decrypt it before it reaches a response. CreatedAt is server-assigned UTC.
type Message struct {
	ID           int64     `db:"id" json:"-"`
	UUID         string    `db:"uuid" json:"message_id"`
	ChatRoomUUID string    `db:"chat_room_uuid" json:"chat_id"`
	SenderEmail  string    `db:"sender_email" json:"sender_email"`
	Body         string    `db:"body" json:"message_text"`
	CreatedAt    time.Time `db:"created_at" json:"timestamp"`
}

// IsParticipant reports whether the given email is one of the room's two
// fixed parties. The same check gates both reading and sending.
func (c *ChatRoom) IsParticipant(email string) bool {
	return email == c.FarmerEmail || email == c.BuyerEmail
}

// ValidRole reports whether role is one of the accepted registration roles.
func ValidRole(role string) bool {
	return role == RoleFarmer || role == RoleBuyer
}
