package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"farmdirect/internal/domain"
	"farmdirect/internal/service"
)

type chatInitiateRequest struct {
	ListingID string `json:"listing_id"`
}

type messageSendRequest struct {
	MessageText string `json:"message_text"`
}

// @Summary      Initiate a chat
// @Description  Open (or return) the chat room for a listing and the calling buyer
// @Tags         chat
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        input body chatInitiateRequest true "Listing reference"
// @Success      200  {object}  domain.ChatRoom
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /chat/initiate [post]
func handleInitiateChat(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := CurrentIdentity(r)
		if identity == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}

		var req chatInitiateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		room, err := chatSvc.Initiate(r.Context(), req.ListingID, *identity)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room)
	}
}

// @Summary      List conversations
// @Description  List chat rooms where the caller is a participant
// @Tags         chat
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  domain.ChatRoom
// @Router       /chat/conversations [get]
func handleListConversations(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := CurrentIdentity(r)
		if identity == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}

		rooms, err := chatSvc.ListConversations(r.Context(), identity.Email)
		if err != nil {
			writeError(w, err)
			return
		}
		if rooms == nil {
			rooms = []*domain.ChatRoom{}
		}
		writeJSON(w, http.StatusOK, rooms)
	}
}

// @Summary      List messages
// @Description  List a room's messages in ascending timestamp order
// @Tags         chat
// @Security     BearerAuth
// @Produce      json
// @Param        chatID path string true "Chat room id"
// @Success      200  {array}  domain.Message
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /chat/{chatID}/messages [get]
func handleListMessages(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := CurrentIdentity(r)
		if identity == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}

		msgs, err := chatSvc.ListMessages(r.Context(), chi.URLParam(r, "chatID"), identity.Email)
		if err != nil {
			writeError(w, err)
			return
		}
		if msgs == nil {
			msgs = []*domain.Message{}
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

// @Summary      Send a message
// @Description  Append one message to a chat room
// @Tags         chat
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        chatID path string true "Chat room id"
// @Param        input body messageSendRequest true "Message body"
// @Success      201  {object}  domain.Message
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /chat/{chatID}/send [post]
func handleSendMessage(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := CurrentIdentity(r)
		if identity == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}

		var req messageSendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		msg, err := chatSvc.SendMessage(r.Context(), chi.URLParam(r, "chatID"), identity.Email, req.MessageText)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}
