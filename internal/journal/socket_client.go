package journal

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// SocketConfig holds the connection settings for the remote journal collector.
type SocketConfig struct {
	Host           string
	Port           int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	Enabled        bool
}

// Addr returns the host:port dial target.
func (c SocketConfig) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

// SocketClient mirrors journal lines to the collector over a persistent TCP
// connection. Sends are fire-and-forget: a single unacknowledged write, and a
// failed write marks the connection dead and releases it. The retry budget is
// spent once, in Connect; after that the client never reconnects.
type SocketClient struct {
	cfg    SocketConfig
	logger *slog.Logger

	mu        sync.Mutex
	conn      net.Conn
	connected bool
}

// NewSocketClient creates a client; no connection is attempted yet.
func NewSocketClient(cfg SocketConfig, logger *slog.Logger) *SocketClient {
	return &SocketClient{
		cfg:    cfg,
		logger: logger,
	}
}

// Connect dials the collector with up to RetryAttempts bounded attempts,
// sleeping RetryDelay between them. Returns whether a connection was made.
func (c *SocketClient) Connect() bool {
	if !c.cfg.Enabled {
		c.logger.Info("Journal collector client is disabled in configuration")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for attempt := 1; attempt <= c.cfg.RetryAttempts; attempt++ {
		c.logger.Info("Connecting to journal collector",
			slog.String("addr", c.cfg.Addr()),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", c.cfg.RetryAttempts),
		)

		conn, err := net.DialTimeout("tcp", c.cfg.Addr(), c.cfg.ConnectTimeout)
		if err == nil {
			c.conn = conn
			c.connected = true
			c.logger.Info("Connected to journal collector", slog.String("addr", c.cfg.Addr()))
			return true
		}

		c.logger.Warn("Journal collector connection failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)

		if attempt < c.cfg.RetryAttempts {
			time.Sleep(c.cfg.RetryDelay)
		}
	}

	c.logger.Error("Failed to connect to journal collector, mirroring disabled for this session",
		slog.Int("attempts", c.cfg.RetryAttempts))
	return false
}

// Send writes one newline-terminated line, exactly as it appears in the
// local log. No response is awaited. A failed write closes the connection;
// the line is not buffered or retried.
func (c *SocketClient) Send(line string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return false
	}

	if c.cfg.ReadTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.ReadTimeout))
	}
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		c.logger.Warn("Journal collector send failed, connection lost", slog.String("error", err.Error()))
		c.closeLocked()
		return false
	}
	return true
}

// Connected reports whether the mirror connection is still live.
func (c *SocketClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close releases the connection if one is open.
func (c *SocketClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		c.closeLocked()
		c.logger.Info("Disconnected from journal collector")
	}
}

func (c *SocketClient) closeLocked() {
	c.connected = false
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
