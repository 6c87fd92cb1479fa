package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cert-lv/ordergrid/pdk"
	"github.com/gorilla/websocket"
)

var (
	// HTTP request -> Websocket connection
	// upgrader with the default options
	upgrader = websocket.Upgrader{}

	// Send pings to the client with this period
	pingPeriod = 60 * time.Second

	// Online clients
	hub = newHub()
)

/*
 * Structure of a single Websocket message
 */
type Message struct {
	// Type of the message: search, rows, notification, error
	Type string `json:"type"`

	// Sort state, rows, notification, etc.
	Data json.RawMessage `json:"data,omitempty"`
}

/*
 * One connected client
 */
type Client struct {
	IP   string
	ws   *websocket.Conn
	done chan bool

	// Websocket connection supports one concurrent writer
	mx sync.Mutex
}

/*
 * Set of the connected clients
 */
type Hub struct {
	clients map[*Client]bool
	mx      sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

/*
 * Accept Websocket connections on '/ws'
 */
func wsHandler(w http.ResponseWriter, r *http.Request) {
	ip := requestIP(r)

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().
			Str("ip", ip).
			Msg("Can't upgrade to the Websocket: " + err.Error())
		return
	}

	log.Info().
		Str("ip", ip).
		Msg("Websocket connection established")

	client := &Client{
		IP:   ip,
		ws:   ws,
		done: make(chan bool),
	}

	hub.add(client)

	// Listen for the incoming Websocket messages in a loop
	go client.listen()
}

func (h *Hub) add(c *Client) {
	h.mx.Lock()
	h.clients[c] = true
	h.mx.Unlock()
}

func (h *Hub) remove(c *Client) {
	h.mx.Lock()
	delete(h.clients, c)
	h.mx.Unlock()
}

/*
 * Send the message to all online clients
 */
func (h *Hub) broadcast(typ string, data interface{}) {
	h.mx.RLock()
	defer h.mx.RUnlock()

	for c := range h.clients {
		c.send(typ, data)
	}
}

/*
 * Deliver a new notification to the online clients
 */
func (h *Hub) notification(n *Notification) {
	h.broadcast("notification", n)
}

/*
 * Deliver new rows to the online clients
 */
func (h *Hub) rows(rows []pdk.DisplayRow) {
	h.broadcast("rows", &pdk.Table{
		Columns: pdk.Columns,
		Rows:    rows,
	})
}

/*
 * Listen for the incoming Websocket messages
 */
func (c *Client) listen() {
	defer func() {
		close(c.done)
		hub.remove(c)
		c.ws.Close()
	}()

	go c.ping()

	for {
		msg := &Message{}

		err := c.ws.ReadJSON(msg)
		if err != nil {
			switch err.(type) {
			case *websocket.CloseError:
				log.Info().
					Str("ip", c.IP).
					Msg("Websocket connection closed by client")
			case *net.OpError:
				log.Info().
					Str("ip", c.IP).
					Msg("Websocket is closed")
			default:
				log.Error().
					Str("ip", c.IP).
					Msg("Can't read Websocket message: " + err.Error())
			}
			return
		}

		c.handle(msg)
	}
}

/*
 * Handle a single client's command
 */
func (c *Client) handle(msg *Message) {
	switch msg.Type {
	case "search":
		// Rows & notification are delivered by the hub
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), config.Source.Timeout)
			defer cancel()

			runSearch(ctx, c.IP)
		}()

	case "rows":
		sort := &pdk.SortState{}

		if len(msg.Data) != 0 {
			err := json.Unmarshal(msg.Data, sort)
			if err != nil {
				c.send("error", "Can't parse sort state")
				return
			}
		}

		if sort.Column == "" {
			sort = nil
		}

		table, err := grid.Table(sort)
		if err != nil {
			c.send("error", err.Error())
			return
		}

		c.send("rows", table)

	default:
		log.Error().
			Str("ip", c.IP).
			Msg("Unexpected Websocket message type: " + msg.Type)

		c.send("error", "Unexpected message type: "+msg.Type)
	}
}

/*
 * Send a message to the client
 */
func (c *Client) send(typ string, data interface{}) {
	b, err := json.Marshal(data)
	if err != nil {
		log.Error().
			Str("ip", c.IP).
			Msg("Can't marshal Websocket message: " + err.Error())
		return
	}

	c.mx.Lock()
	defer c.mx.Unlock()

	err = c.ws.WriteJSON(&Message{Type: typ, Data: b})
	if err != nil {
		log.Error().
			Str("ip", c.IP).
			Msg("Can't send Websocket message: " + err.Error())
	}
}

/*
 * Keep the connection alive
 */
func (c *Client) ping() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mx.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second))
			c.mx.Unlock()

			if err != nil {
				log.Error().
					Str("ip", c.IP).
					Msg("Can't ping Websocket client: " + err.Error())
				return
			}

		case <-c.done:
			return
		}
	}
}
