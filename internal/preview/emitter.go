package preview

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Emitter sends named events with JSON-encodable payloads.
type Emitter interface {
	Emit(event string, payload any) error
	Close() error
}

// DialOptions configures the socket.io connection.
type DialOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	// Timeout bounds the connection handshake. Zero means 15 seconds.
	Timeout time.Duration
}

// SocketEmitter is an Emitter over a connected socket.io client.
type SocketEmitter struct {
	io *socket.Socket
}

// Dial connects to a socket.io server and waits for the handshake.
func Dial(ctx context.Context, opts DialOptions) (*SocketEmitter, error) {
	logger := ctxlog.FromContext(ctx).With("url", opts.URL)
	logger.Info("Connecting preview channel.")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("preview URL %q must be absolute", opts.URL)
	}

	sopts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sopts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Preview channel connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, ok := errs[0].(error)
		if !ok {
			err = fmt.Errorf("%v", errs[0])
		}
		connectChan <- err
	})
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketEmitter{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

func (e *SocketEmitter) Emit(event string, payload any) error {
	if !e.io.Connected() {
		return fmt.Errorf("preview channel %s is not connected", e.io.Id())
	}
	e.io.Emit(event, payload)
	return nil
}

func (e *SocketEmitter) Close() error {
	e.io.Disconnect()
	return nil
}
