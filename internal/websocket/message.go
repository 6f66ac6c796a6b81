package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	// Client to Server
	MessageTypeJoinSwap  MessageType = "JOIN_SWAP"
	MessageTypeLeaveSwap MessageType = "LEAVE_SWAP"

	// Server to Client
	MessageTypeNewMessage     MessageType = "NEW_MESSAGE"
	MessageTypeMessagesRead   MessageType = "MESSAGES_READ"
	MessageTypeSwapListUpdate MessageType = "SWAP_LIST_UPDATE"
	MessageTypeJoined         MessageType = "JOINED"
	MessageTypeError          MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type JoinSwapPayload struct {
	SwapID string `json:"swapId"`
}

// Server to Client payloads

type NewMessagePayload struct {
	SwapID    string `json:"swapId"`
	MessageID string `json:"messageId"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	SentAt    int64  `json:"sentAt"`
}

type MessagesReadPayload struct {
	SwapID   string `json:"swapId"`
	ReaderID string `json:"readerId"`
	Count    int64  `json:"count"`
}

// SwapListUpdatePayload is the global summary pushed to a participant's other
// connections so their swap list can re-sort without refetching.
type SwapListUpdatePayload struct {
	SwapID      string `json:"swapId"`
	LastMessage string `json:"lastMessage"`
	SenderID    string `json:"senderId"`
	UnreadCount int64  `json:"unreadCount"`
}

type JoinedPayload struct {
	SwapID string `json:"swapId"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
