package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"farmdirect/internal/domain"
	"farmdirect/internal/security"
	"farmdirect/internal/service"
)

var buyerIdent = security.Identity{
	Email:  "buyer@example.com",
	Role:   domain.RoleBuyer,
	UserID: "buyer-uuid",
}

func newChatService(listings *MockListingRepo, rooms *MockChatRoomRepo, messages *MockMessageRepo) *service.ChatService {
	enc, err := security.NewEncryptor([]byte("test-encryption-key"))
	if err != nil {
		panic(err)
	}
	return service.NewChatService(listings, rooms, messages, enc)
}

func tomatoListing() *domain.Listing {
	return &domain.Listing{
		UUID:       "listing-1",
		OwnerEmail: "farmer@example.com",
		Title:      "Fresh Tomatoes",
		Status:     domain.ListingStatusActive,
	}
}

func TestInitiateChat(t *testing.T) {
	t.Run("WrongRole", func(t *testing.T) {
		svc := newChatService(new(MockListingRepo), new(MockChatRoomRepo), new(MockMessageRepo))

		farmer := security.Identity{Email: "farmer@example.com", Role: domain.RoleFarmer, UserID: "f"}
		room, err := svc.Initiate(context.Background(), "listing-1", farmer)
		assert.Nil(t, room)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("ListingNotFound", func(t *testing.T) {
		listings := new(MockListingRepo)
		svc := newChatService(listings, new(MockChatRoomRepo), new(MockMessageRepo))
		listings.On("GetByUUID", mock.Anything, "missing").Return(nil, nil)

		room, err := svc.Initiate(context.Background(), "missing", buyerIdent)
		assert.Nil(t, room)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("SelfChatRejected", func(t *testing.T) {
		listings := new(MockListingRepo)
		svc := newChatService(listings, new(MockChatRoomRepo), new(MockMessageRepo))

		l := tomatoListing()
		l.OwnerEmail = buyerIdent.Email
		listings.On("GetByUUID", mock.Anything, "listing-1").Return(l, nil)

		room, err := svc.Initiate(context.Background(), "listing-1", buyerIdent)
		assert.Nil(t, room)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, "You cannot start a chat on your own listing.", domain.ErrMessage(err))
	})

	t.Run("CreatesRoomOnFirstUse", func(t *testing.T) {
		listings := new(MockListingRepo)
		rooms := new(MockChatRoomRepo)
		svc := newChatService(listings, rooms, new(MockMessageRepo))

		listings.On("GetByUUID", mock.Anything, "listing-1").Return(tomatoListing(), nil)
		rooms.On("FindByListingAndBuyer", mock.Anything, "listing-1", buyerIdent.Email).Return(nil, nil)
		rooms.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.ChatRoom) bool {
			return c.ListingUUID == "listing-1" &&
				c.ListingTitle == "Fresh Tomatoes" &&
				c.FarmerEmail == "farmer@example.com" &&
				c.BuyerEmail == buyerIdent.Email &&
				c.UUID != ""
		})).Return(nil)

		room, err := svc.Initiate(context.Background(), "listing-1", buyerIdent)
		require.NoError(t, err)
		require.NotNil(t, room)
		rooms.AssertExpectations(t)
	})

	t.Run("IdempotentOnExistingRoom", func(t *testing.T) {
		listings := new(MockListingRepo)
		rooms := new(MockChatRoomRepo)
		svc := newChatService(listings, rooms, new(MockMessageRepo))

		existing := &domain.ChatRoom{
			UUID:        "room-1",
			ListingUUID: "listing-1",
			FarmerEmail: "farmer@example.com",
			BuyerEmail:  buyerIdent.Email,
		}
		listings.On("GetByUUID", mock.Anything, "listing-1").Return(tomatoListing(), nil)
		rooms.On("FindByListingAndBuyer", mock.Anything, "listing-1", buyerIdent.Email).Return(existing, nil)

		first, err := svc.Initiate(context.Background(), "listing-1", buyerIdent)
		require.NoError(t, err)
		second, err := svc.Initiate(context.Background(), "listing-1", buyerIdent)
		require.NoError(t, err)
		assert.Equal(t, first.UUID, second.UUID)
		rooms.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("LosingRacerReturnsWinner", func(t *testing.T) {
		listings := new(MockListingRepo)
		rooms := new(MockChatRoomRepo)
		svc := newChatService(listings, rooms, new(MockMessageRepo))

		winner := &domain.ChatRoom{UUID: "winner-room", ListingUUID: "listing-1", BuyerEmail: buyerIdent.Email}
		listings.On("GetByUUID", mock.Anything, "listing-1").Return(tomatoListing(), nil)
		rooms.On("FindByListingAndBuyer", mock.Anything, "listing-1", buyerIdent.Email).
			Return(nil, nil).Once()
		rooms.On("Create", mock.Anything, mock.Anything).
			Return(domain.E(domain.ErrConflict, "chat room already exists"))
		rooms.On("FindByListingAndBuyer", mock.Anything, "listing-1", buyerIdent.Email).
			Return(winner, nil)

		room, err := svc.Initiate(context.Background(), "listing-1", buyerIdent)
		require.NoError(t, err)
		assert.Equal(t, "winner-room", room.UUID)
	})
}

func participantRoom() *domain.ChatRoom {
	return &domain.ChatRoom{
		UUID:        "room-1",
		ListingUUID: "listing-1",
		FarmerEmail: "farmer@example.com",
		BuyerEmail:  "buyer@example.com",
	}
}

func TestMessageAccessControl(t *testing.T) {
	// Non-participants get Forbidden on both paths, for every role.
	outsiders := []string{"other-farmer@example.com", "other-buyer@example.com"}

	for _, email := range outsiders {
		t.Run("ListMessages_"+email, func(t *testing.T) {
			rooms := new(MockChatRoomRepo)
			svc := newChatService(new(MockListingRepo), rooms, new(MockMessageRepo))
			rooms.On("GetByUUID", mock.Anything, "room-1").Return(participantRoom(), nil)

			msgs, err := svc.ListMessages(context.Background(), "room-1", email)
			assert.Nil(t, msgs)
			assert.ErrorIs(t, err, domain.ErrForbidden)
			assert.Equal(t, "You are not authorized to view this chat.", domain.ErrMessage(err))
		})

		t.Run("SendMessage_"+email, func(t *testing.T) {
			rooms := new(MockChatRoomRepo)
			messages := new(MockMessageRepo)
			svc := newChatService(new(MockListingRepo), rooms, messages)
			rooms.On("GetByUUID", mock.Anything, "room-1").Return(participantRoom(), nil)

			msg, err := svc.SendMessage(context.Background(), "room-1", email, "hello")
			assert.Nil(t, msg)
			assert.ErrorIs(t, err, domain.ErrForbidden)
			assert.Equal(t, "You are not authorized to send messages to this chat.", domain.ErrMessage(err))
			messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("RoomNotFound", func(t *testing.T) {
		rooms := new(MockChatRoomRepo)
		svc := newChatService(new(MockListingRepo), rooms, new(MockMessageRepo))
		rooms.On("GetByUUID", mock.Anything, "missing").Return(nil, nil)

		_, err := svc.ListMessages(context.Background(), "missing", "farmer@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = svc.SendMessage(context.Background(), "missing", "farmer@example.com", "hi")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSendAndListMessages(t *testing.T) {
	rooms := new(MockChatRoomRepo)
	messages := new(MockMessageRepo)
	svc := newChatService(new(MockListingRepo), rooms, messages)

	rooms.On("GetByUUID", mock.Anything, "room-1").Return(participantRoom(), nil)

	var storedBody string
	messages.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
		storedBody = m.Body
		return m.ChatRoomUUID == "room-1" &&
			m.SenderEmail == "buyer@example.com" &&
			m.UUID != "" &&
			!m.CreatedAt.IsZero() &&
			m.CreatedAt.Location() == time.UTC
	})).Return(nil)

	sent, err := svc.SendMessage(context.Background(), "room-1", "buyer@example.com", "is this still available?")
	require.NoError(t, err)
	// Response carries the plaintext; the stored body is ciphertext.
	assert.Equal(t, "is this still available?", sent.Body)
	assert.NotEqual(t, "is this still available?", storedBody)

	messages.On("ListForRoom", mock.Anything, "room-1").Return([]*domain.Message{
		{UUID: "m1", ChatRoomUUID: "room-1", SenderEmail: "buyer@example.com", Body: storedBody},
	}, nil)

	got, err := svc.ListMessages(context.Background(), "room-1", "farmer@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "is this still available?", got[0].Body)
}

func TestListMessagesCorruptedRow(t *testing.T) {
	rooms := new(MockChatRoomRepo)
	messages := new(MockMessageRepo)
	svc := newChatService(new(MockListingRepo), rooms, messages)

	rooms.On("GetByUUID", mock.Anything, "room-1").Return(participantRoom(), nil)

	enc, err := security.NewEncryptor([]byte("test-encryption-key"))
	require.NoError(t, err)
	good, err := enc.Encrypt("readable")
	require.NoError(t, err)

	// One row holds garbage that no longer decrypts.
	messages.On("ListForRoom", mock.Anything, "room-1").Return([]*domain.Message{
		{UUID: "m1", ChatRoomUUID: "room-1", Body: good},
		{UUID: "m2", ChatRoomUUID: "room-1", Body: "garbage-not-ciphertext"},
	}, nil)

	got, err := svc.ListMessages(context.Background(), "room-1", "farmer@example.com")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "readable", got[0].Body)
	// The corrupted row keeps its stored body rather than failing the list.
	assert.Equal(t, "garbage-not-ciphertext", got[1].Body)
}

func TestListConversations(t *testing.T) {
	rooms := new(MockChatRoomRepo)
	svc := newChatService(new(MockListingRepo), rooms, new(MockMessageRepo))

	stored := []*domain.ChatRoom{participantRoom()}
	rooms.On("ListForUser", mock.Anything, "farmer@example.com").Return(stored, nil)

	got, err := svc.ListConversations(context.Background(), "farmer@example.com")
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestSendMessageEmptyText(t *testing.T) {
	rooms := new(MockChatRoomRepo)
	svc := newChatService(new(MockListingRepo), rooms, new(MockMessageRepo))
	rooms.On("GetByUUID", mock.Anything, "room-1").Return(participantRoom(), nil)

	msg, err := svc.SendMessage(context.Background(), "room-1", "buyer@example.com", "")
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
