package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"farmdirect/internal/domain"
	"farmdirect/internal/security"
)

// ChatService manages per-listing buyer/farmer chat rooms and their
// messages. Message bodies are encrypted at rest and decrypted on read.
type ChatService struct {
	listings  domain.ListingRepository
	rooms     domain.ChatRoomRepository
	messages  domain.MessageRepository
	encryptor *security.Encryptor
}

func NewChatService(
	listings domain.ListingRepository,
	rooms domain.ChatRoomRepository,
	messages domain.MessageRepository,
	encryptor *security.Encryptor,
) *ChatService {
	return &ChatService{
		listings:  listings,
		rooms:     rooms,
		messages:  messages,
		encryptor: encryptor,
	}
}

// Initiate returns the chat room for (listing, caller), creating it on first
// use. The operation is idempotent: repeated calls return the same room. If
// two callers race past the lookup, the store's uniqueness constraint lets
// exactly one insert win and the loser re-reads the winner's row.
func (s *ChatService) Initiate(ctx context.Context, listingUUID string, caller security.Identity) (*domain.ChatRoom, error) {
	if caller.Role != domain.RoleBuyer {
		return nil, domain.E(domain.ErrForbidden, "Only buyers can initiate chats.")
	}

	listing, err := s.listings.GetByUUID(ctx, listingUUID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return nil, domain.E(domain.ErrNotFound, "Listing not found.")
	}
	if listing.OwnerEmail == caller.Email {
		return nil, domain.E(domain.ErrValidation, "You cannot start a chat on your own listing.")
	}

	existing, err := s.rooms.FindByListingAndBuyer(ctx, listingUUID, caller.Email)
	if err != nil {
		return nil, fmt.Errorf("find chat room: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	room := &domain.ChatRoom{
		UUID:         uuid.NewString(),
		ListingUUID:  listingUUID,
		ListingTitle: listing.Title,
		FarmerEmail:  listing.OwnerEmail,
		BuyerEmail:   caller.Email,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			winner, ferr := s.rooms.FindByListingAndBuyer(ctx, listingUUID, caller.Email)
			if ferr == nil && winner != nil {
				return winner, nil
			}
		}
		return nil, fmt.Errorf("create chat room: %w", err)
	}
	return room, nil
}

// ListConversations returns all rooms where the caller is a participant.
func (s *ChatService) ListConversations(ctx context.Context, callerEmail string) ([]*domain.ChatRoom, error) {
	return s.rooms.ListForUser(ctx, callerEmail)
}

// getRoomForParticipant loads a room and enforces participation. The read
// and write paths report the refusal differently, so the caller supplies
// the denied message.
func (s *ChatService) getRoomForParticipant(ctx context.Context, chatUUID, callerEmail, deniedMsg string) (*domain.ChatRoom, error) {
	room, err := s.rooms.GetByUUID(ctx, chatUUID)
	if err != nil {
		return nil, fmt.Errorf("get chat room: %w", err)
	}
	if room == nil {
		return nil, domain.E(domain.ErrNotFound, "Chat room not found.")
	}
	if !room.IsParticipant(callerEmail) {
		return nil, domain.E(domain.ErrForbidden, deniedMsg)
	}
	return room, nil
}

// ListMessages returns the room's messages in ascending timestamp order,
// decrypted for the response.
func (s *ChatService) ListMessages(ctx context.Context, chatUUID, callerEmail string) ([]*domain.Message, error) {
	if _, err := s.getRoomForParticipant(ctx, chatUUID, callerEmail, "You are not authorized to view this chat."); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListForRoom(ctx, chatUUID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	for _, m := range msgs {
		plain, derr := s.encryptor.Decrypt(m.Body)
		if derr != nil {
			log.Printf("failed to decrypt message %s in room %s: %v", m.UUID, chatUUID, derr)
			continue
		}
		m.Body = plain
	}
	return msgs, nil
}

// SendMessage stores one utterance from a participant. The timestamp is
// server-assigned UTC.
func (s *ChatService) SendMessage(ctx context.Context, chatUUID, callerEmail, text string) (*domain.Message, error) {
	if _, err := s.getRoomForParticipant(ctx, chatUUID, callerEmail, "You are not authorized to send messages to this chat."); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, domain.E(domain.ErrValidation, "Message text cannot be empty.")
	}

	encrypted, err := s.encryptor.Encrypt(text)
	if err != nil {
		return nil, fmt.Errorf("encrypt message: %w", err)
	}

	msg := &domain.Message{
		UUID:         uuid.NewString(),
		ChatRoomUUID: chatUUID,
		SenderEmail:  callerEmail,
		Body:         encrypted,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	// Return the plaintext the caller sent, not the stored ciphertext.
	msg.Body = text
	return msg, nil
}
