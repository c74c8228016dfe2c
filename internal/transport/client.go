// Package transport sends hand points to an OSC receiver over UDP.
package transport

import (
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/hypebeast/go-osc/osc"
	"go.uber.org/zap"
)

// Default receiver used by the hand tracking patch.
const (
	DefaultHost = "192.168.1.100"
	DefaultPort = 8000
)

// Client sends OSC messages to one host and port, fixed at construction.
type Client struct {
	host   string
	port   int
	client *osc.Client
	log    *zap.SugaredLogger

	mu     sync.Mutex
	sent   uint64
	failed uint64
}

// NewClient creates a Client for host:port.
func NewClient(host string, port int, log *zap.SugaredLogger) (*Client, error) {
	if host == "" {
		return nil, fmt.Errorf("osc host is empty")
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("osc port %d out of range", port)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Client{
		host:   host,
		port:   port,
		client: osc.NewClient(host, port),
		log:    log,
	}, nil
}

// Send builds one message with the given float arguments and sends it.
func (c *Client) Send(address string, args ...float32) error {
	msg := osc.NewMessage(address)
	for _, a := range args {
		msg.Append(a)
	}

	err := c.client.Send(msg)

	c.mu.Lock()
	if err != nil {
		c.failed++
	} else {
		c.sent++
	}
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("send %s to %s: %w", address, c.Target(), err)
	}
	return nil
}

// Target returns the receiver address as host:port.
func (c *Client) Target() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// Stats returns the number of messages sent and failed so far.
func (c *Client) Stats() (sent, failed uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent, c.failed
}
