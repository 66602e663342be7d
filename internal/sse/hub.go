package sse

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// canale redis per propagare le invalidazioni tra istanze
const redisChannel = "gestionale:table_updates"

// Event evento Server-Sent
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client connessione SSE attiva
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// TableUpdate notifica di invalidazione per tabella: i consumatori
// ricaricano la tabella indicata, nient'altro di più fine
type TableUpdate struct {
	Tabella string `json:"tabella"`
	Azione  string `json:"azione"`
	Chiave  string `json:"chiave,omitempty"`
	Istanza string `json:"istanza"`
}

// Hub gestisce le connessioni SSE e il bridge redis
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client
	rdb        *redis.Client
	instanceID string
}

// GlobalHub istanza singleton
var GlobalHub = NewHub()

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		instanceID: uuid.New().String(),
	}
}

// SetRedis abilita la propagazione cross-istanza via pub/sub
func (h *Hub) SetRedis(rdb *redis.Client) {
	h.rdb = rdb
}

// Register aggiunge un client
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	log.Printf("[SSE] Client registrato: id=%s user=%s (totale: %d)", client.ID, client.UserID, len(h.clients))
}

// Unregister rimuove un client
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		log.Printf("[SSE] Client rimosso: id=%s (totale: %d)", clientID, len(h.clients))
	}
}

// Broadcast invia un evento a tutti i client connessi
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			log.Printf("[SSE] Buffer pieno per il client %s, evento scartato", client.ID)
		}
	}
}

// PublishTableUpdate notifica che una tabella è cambiata; i browser
// collegati ricaricano la tabella via subscription
func PublishTableUpdate(tabella, azione, chiave string) {
	GlobalHub.publishTableUpdate(tabella, azione, chiave)
}

func (h *Hub) publishTableUpdate(tabella, azione, chiave string) {
	upd := TableUpdate{Tabella: tabella, Azione: azione, Chiave: chiave, Istanza: h.instanceID}
	payload, err := json.Marshal(upd)
	if err != nil {
		return
	}

	h.Broadcast(Event{EventType: "table_update", Data: string(payload)})

	if h.rdb != nil {
		if err := h.rdb.Publish(context.Background(), redisChannel, payload).Err(); err != nil {
			log.Printf("[SSE] Pubblicazione redis fallita: %v", err)
		}
	}
}

// RunRedisBridge sottoscrive il canale redis e rilancia localmente gli
// eventi generati dalle altre istanze. Blocca fino alla cancellazione
// del context.
func (h *Hub) RunRedisBridge(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	sub := h.rdb.Subscribe(ctx, redisChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var upd TableUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil {
				continue
			}
			// gli eventi locali sono già stati broadcastati
			if upd.Istanza == h.instanceID {
				continue
			}
			h.Broadcast(Event{EventType: "table_update", Data: msg.Payload})
		}
	}
}
