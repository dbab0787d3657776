package coordination

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/cruciblehq/barn/internal"
	"github.com/cruciblehq/barn/internal/build"
	"github.com/cruciblehq/barn/internal/logfields"
)

// Subject prefix used when the server URL has no path.
const defaultSubjectPrefix = "barn"

// Talks to the coordination service over NATS.
//
// The connection is opened on first use, so a client that is never asked to
// check or send never dials the server.
type NATSClient struct {
	serverURL string
	prefix    string
	conn      *nats.Conn
}

var _ Coordinator = (*NATSClient)(nil)

// Creates a client for serverURL, e.g. "nats://localhost:4222/ci.barn".
func NewNATSClient(serverURL string) *NATSClient {
	server, prefix := splitNATSURL(serverURL)
	return &NATSClient{serverURL: server, prefix: prefix}
}

// Asks on <prefix>.check and waits for the reply.
func (c *NATSClient) Check(ctx context.Context, name string, tags []string) (bool, error) {
	body, err := encodeCheck(name, tags)
	if err != nil {
		return false, err
	}

	conn, err := c.connect()
	if err != nil {
		return false, err
	}

	msg, err := conn.RequestWithContext(ctx, c.subject("check"), body)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return decodeCheck(msg.Data)
}

// Publishes on <prefix>.results and flushes so the message has left the
// client before returning.
func (c *NATSClient) Send(ctx context.Context, result *build.Result, tags []string) error {
	body, err := encodeResults(result, tags)
	if err != nil {
		return err
	}

	conn, err := c.connect()
	if err != nil {
		return err
	}

	if err := conn.Publish(c.subject("results"), body); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if err := conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}

func (c *NATSClient) Close() error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	return nil
}

func (c *NATSClient) connect() (*nats.Conn, error) {
	if c.conn != nil {
		return c.conn, nil
	}

	conn, err := nats.Connect(c.serverURL, nats.Name(internal.UserAgent()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	slog.Debug("connected to NATS", logfields.Server(c.serverURL), slog.String("prefix", c.prefix))
	c.conn = conn
	return conn, nil
}

func (c *NATSClient) subject(op string) string {
	return c.prefix + "." + op
}

// Separates the dialable server address from the subject prefix carried in
// the URL path. Slashes in the path become subject token separators.
func splitNATSURL(raw string) (string, string) {
	u, err := url.Parse(raw)
	if err != nil {
		return raw, defaultSubjectPrefix
	}

	prefix := strings.ReplaceAll(strings.Trim(u.Path, "/"), "/", ".")
	if prefix == "" {
		prefix = defaultSubjectPrefix
	}

	u.Path = ""
	u.RawPath = ""
	return u.String(), prefix
}
