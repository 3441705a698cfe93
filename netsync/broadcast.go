package netsync

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/milk9111/strafe/sim/component"
)

const (
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	// Snapshots queued per spectator before new ones are dropped.
	sendQueue = 16
)

type spectator struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (s *spectator) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// Broadcaster fans position snapshots out to websocket spectators. It
// satisfies engine.PositionSender; SendPosition never blocks the tick.
type Broadcaster struct {
	upgrader websocket.Upgrader
	logger   *log.Logger
	codec    *Codec

	mu         sync.Mutex
	spectators map[*spectator]struct{}
	sent       uint64
	dropped    uint64
	closed     bool
}

func NewBroadcaster(logger *log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.Default()
	}
	return &Broadcaster{
		upgrader: websocket.Upgrader{
			// Spectators are local dev tools.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:     logger,
		codec:      NewCodec(),
		spectators: make(map[*spectator]struct{}),
	}
}

func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Printf("netsync: upgrade: %v", err)
		return
	}

	s := &spectator{conn: conn, send: make(chan []byte, sendQueue), done: make(chan struct{})}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		conn.Close()
		return
	}
	b.spectators[s] = struct{}{}
	b.mu.Unlock()

	go b.writeLoop(s)
	b.readLoop(s)
}

// readLoop only drains control frames; spectators have nothing to say.
func (b *Broadcaster) readLoop(s *spectator) {
	defer b.remove(s)
	s.conn.SetReadLimit(512)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) writeLoop(s *spectator) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				b.logger.Printf("netsync: write: %v", err)
				b.remove(s)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				b.remove(s)
				return
			}
		case <-s.done:
			return
		}
	}
}

func (b *Broadcaster) remove(s *spectator) {
	b.mu.Lock()
	delete(b.spectators, s)
	b.mu.Unlock()
	s.close()
}

func (b *Broadcaster) SendPosition(tick uint64, pose component.Pose, velocity mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || len(b.spectators) == 0 {
		return
	}
	data, err := b.codec.Encode(NewSnapshot(tick, pose, velocity))
	if err != nil {
		b.logger.Print(err)
		return
	}
	for s := range b.spectators {
		msg := make([]byte, len(data))
		copy(msg, data)
		select {
		case s.send <- msg:
			b.sent++
		default:
			b.dropped++
		}
	}
}

// Spectators returns the number of connected spectators.
func (b *Broadcaster) Spectators() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.spectators)
}

// Stats reports queued and dropped snapshot counts.
func (b *Broadcaster) Stats() (sent, dropped uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sent, b.dropped
}

// Close disconnects every spectator and refuses new ones.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	b.closed = true
	specs := make([]*spectator, 0, len(b.spectators))
	for s := range b.spectators {
		specs = append(specs, s)
	}
	b.spectators = make(map[*spectator]struct{})
	b.mu.Unlock()

	for _, s := range specs {
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		s.close()
	}
}
