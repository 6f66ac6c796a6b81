package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/repository"
)

// Hub tracks connected clients, their per-swap room membership, and a
// per-user index used for direct pushes like SWAP_LIST_UPDATE.
type Hub struct {
	clients    map[*Client]bool
	users      map[uuid.UUID]map[*Client]bool
	rooms      map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	joinSwap   chan *joinSwapRequest
	leaveSwap  chan *Client
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	swapRepo   repository.SwapRepository
	mu         sync.RWMutex
}

type joinSwapRequest struct {
	Client *Client
	SwapID string
}

func NewHub(swapRepo repository.SwapRepository) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		users:      make(map[uuid.UUID]map[*Client]bool),
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		joinSwap:   make(chan *joinSwapRequest),
		leaveSwap:  make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		swapRepo:   swapRepo,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.users = make(map[uuid.UUID]map[*Client]bool)
			h.rooms = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
				if h.users[client.userID] == nil {
					h.users[client.userID] = make(map[*Client]bool)
				}
				h.users[client.userID][client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					h.removeClientLocked(client)
					client.Close()
				}
			}
			h.mu.Unlock()

		case req := <-h.joinSwap:
			h.handleJoinSwap(req)

		case client := <-h.leaveSwap:
			h.mu.Lock()
			h.leaveRoomLocked(client)
			h.mu.Unlock()
		}
	}
}

// Stop gracefully shuts down the hub and blocks until Run() has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) handleJoinSwap(req *joinSwapRequest) {
	swapID, err := uuid.Parse(req.SwapID)
	if err != nil {
		req.Client.sendError("INVALID_SWAP_ID", "Swap id must be a UUID")
		return
	}

	// Only participants may join a swap's room.
	swap, err := h.swapRepo.GetByID(context.Background(), swapID)
	if err != nil {
		req.Client.sendError("SWAP_NOT_FOUND", "Swap does not exist")
		return
	}
	if !swap.HasParticipant(req.Client.userID) {
		req.Client.sendError("FORBIDDEN", "Not a participant in this swap")
		return
	}

	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.leaveRoomLocked(req.Client)
	if h.rooms[swapID] == nil {
		h.rooms[swapID] = make(map[*Client]bool)
	}
	h.rooms[swapID][req.Client] = true
	req.Client.swapID = &swapID
	h.mu.Unlock()

	if msg, err := NewMessage(MessageTypeJoined, JoinedPayload{SwapID: swapID.String()}); err == nil {
		req.Client.Send(msg)
	}
}

func (h *Hub) removeClientLocked(client *Client) {
	delete(h.clients, client)
	h.leaveRoomLocked(client)
	if conns := h.users[client.userID]; conns != nil {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.users, client.userID)
		}
	}
}

func (h *Hub) leaveRoomLocked(client *Client) {
	if client.swapID == nil {
		return
	}
	if room := h.rooms[*client.swapID]; room != nil {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, *client.swapID)
		}
	}
	client.swapID = nil
}

// BroadcastToSwap pushes a message to every client currently in the swap's
// room. Fire and forget: slow clients are skipped, not waited for.
func (h *Hub) BroadcastToSwap(swapID uuid.UUID, msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[swapID] {
		client.Send(msg)
	}
}

// SendToUser pushes a message to all of a user's connections regardless of
// which room, if any, they have joined.
func (h *Hub) SendToUser(userID uuid.UUID, msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.users[userID] {
		client.Send(msg)
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister safely unregisters a client, handling the case where the hub may
// already be stopped.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	default:
		log.Printf("hub: dropped unregister for user %s during shutdown", client.userID)
	}
}
