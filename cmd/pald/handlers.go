package main

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/hfale/pald/pkg/events"
	"github.com/hfale/pald/pkg/logging"
	"github.com/hfale/pald/pkg/radio"
)

// setupWebServer configures the gin router and HTTP server.
func (d *Daemon) setupWebServer() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/status", d.handleGetStatus)
		api.GET("/channel", d.handleGetChannel)
		api.POST("/channel", d.handleSetChannel)
		api.GET("/channels", d.handleGetChannels)
		api.POST("/ptt", d.handleSetPTT)
	}
	router.GET("/ws", d.handleEvents)

	d.webServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", d.config.Web.BindAddress, d.config.Web.Port),
		Handler: router,
	}
	return nil
}

// handleGetStatus returns daemon status
func (d *Daemon) handleGetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, d.GetStatus())
}

// handleGetChannel returns the codec's current channel
func (d *Daemon) handleGetChannel(c *gin.Context) {
	c.JSON(http.StatusOK, d.codec.GetChannel())
}

// channelRequest is the POST /api/channel body.
type channelRequest struct {
	ID          uint8  `json:"id"`
	Frequency   uint32 `json:"frequency"`
	TxFrequency uint32 `json:"tx_frequency"`
	Mode        string `json:"mode"`
	Antenna     int    `json:"antenna"`
	Power       int    `json:"power"`
	Attenuation int    `json:"attenuation"`
}

// handleSetChannel programs a channel on the radio
func (d *Daemon) handleSetChannel(c *gin.Context) {
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Frequency == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "frequency is required"})
		return
	}

	mode := radio.ParseMode(req.Mode)
	if req.Mode == "" {
		mode = radio.ModeUSB
	} else if mode == radio.ModeUnknown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode: " + req.Mode})
		return
	}

	tx := req.TxFrequency
	if tx == 0 {
		tx = req.Frequency
	}
	antenna := req.Antenna
	if antenna == 0 {
		antenna = 1
	}
	power := req.Power
	if power == 0 {
		power = 100
	}

	ch := radio.Channel{
		ID:          req.ID,
		TxFrequency: tx,
		RxFrequency: req.Frequency,
		TxMode:      mode,
		RxMode:      mode,
		Antenna:     antenna,
		Power:       power,
		Attenuation: req.Attenuation,
		InUse:       true,
	}

	if err := d.SetChannel(ch); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ch)
}

// handleGetChannels returns the stored channel table
func (d *Daemon) handleGetChannels(c *gin.Context) {
	if d.store == nil {
		c.JSON(http.StatusOK, gin.H{"channels": []any{}})
		return
	}

	channels, err := d.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// pttRequest is the POST /api/ptt body.
type pttRequest struct {
	Transmit bool `json:"transmit"`
}

// handleSetPTT keys or unkeys the transmitter
func (d *Daemon) handleSetPTT(c *gin.Context) {
	var req pttRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.SetPTT(req.Transmit); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transmitting": req.Transmit})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsHub fans platform events out to websocket clients.
type wsHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newWSHub() *wsHub {
	return &wsHub{clients: make(map[*websocket.Conn]bool)}
}

func (h *wsHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *wsHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// broadcast sends one event to every connected client, dropping
// clients whose connection has failed.
func (h *wsHub) broadcast(ev events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// handleEvents upgrades to a websocket and streams events
func (d *Daemon) handleEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Errorf("web", "websocket upgrade failed: %v", err)
		return
	}

	d.hub.add(conn)
	logging.Debug("web", "websocket client connected")

	// Hold the connection open; incoming messages are discarded.
	go func() {
		defer func() {
			d.hub.remove(conn)
			conn.Close()
			logging.Debug("web", "websocket client disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
