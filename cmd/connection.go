// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lambda Photonics

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/term"

	"github.com/lambdaphotonics/lumastat/pkg/lambdamini"
)

// ErrConnectionClosed is returned when reading from a closed WebSocket connection
var ErrConnectionClosed = fmt.Errorf("websocket connection closed")

// wsTransport adapts a serial-over-WebSocket bridge to the laser
// transport. A pump goroutine owns all reads on the socket and feeds a
// buffered channel; ReadAvailable drains whatever arrived during the
// wait. Read deadlines are never set on the socket since a deadline
// timeout would poison the gorilla connection permanently.
type wsTransport struct {
	conn *websocket.Conn
	recv chan []byte

	mu      sync.Mutex
	readErr error
	closed  bool
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	w := &wsTransport{
		conn: conn,
		recv: make(chan []byte, 64),
	}
	go w.pump()
	return w
}

// pump reads messages until the socket dies and parks the error for
// the next ReadAvailable.
func (w *wsTransport) pump() {
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.mu.Lock()
			if w.readErr == nil {
				w.readErr = err
			}
			w.mu.Unlock()
			close(w.recv)
			return
		}

		// The bridge forwards raw serial bytes as binary messages;
		// anything else is dropped.
		if messageType != websocket.BinaryMessage {
			continue
		}

		select {
		case w.recv <- data:
		default:
			// Receiver is not draining; drop rather than block the pump.
		}
	}
}

func (w *wsTransport) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsTransport) ReadAvailable(wait time.Duration) ([]byte, error) {
	time.Sleep(wait)

	var out []byte
	for {
		select {
		case data, ok := <-w.recv:
			if !ok {
				if len(out) > 0 {
					return out, nil
				}
				w.mu.Lock()
				err := w.readErr
				w.mu.Unlock()
				if err == nil {
					err = ErrConnectionClosed
				}
				return nil, err
			}
			out = append(out, data...)
		default:
			return out, nil
		}
	}
}

func (w *wsTransport) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	return w.conn.Close()
}

// OpenWebSocketTransport opens a WebSocket bridge connection with HTTP Basic auth
func OpenWebSocketTransport(wsURL, username, password string, skipSSLVerify bool) (lambdamini.Transport, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	switch u.Scheme {
	case "ws", "wss":
		// OK
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %v", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %v", err)
	}

	return newWSTransport(conn), nil
}

// GetPassword retrieves password from environment or prompts user
func GetPassword() (string, error) {
	// First check environment variable
	if pw := os.Getenv("LUMASTAT_PASSWORD"); pw != "" {
		return pw, nil
	}

	// Prompt user for password (hide input)
	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr) // newline after password
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr) // newline after password
	return string(passwordBytes), nil
}

// openClient connects to the laser over whichever transport the flags
// selected and runs the init sequence. The returned snapshot is the
// device state observed right after init.
func openClient() (*lambdamini.Client, *lambdamini.Snapshot, string, error) {
	cfg := lambdamini.DefaultConfig()
	cfg.BaudRate = baudRate

	if wsURL != "" {
		// WebSocket bridge mode
		password := ""
		if wsUsername != "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, nil, "", err
			}
		}

		tr, err := OpenWebSocketTransport(wsURL, wsUsername, password, wsNoSSLVerify)
		if err != nil {
			return nil, nil, "", err
		}

		c := lambdamini.NewClient(tr, cfg)
		snap, err := c.Init()
		if err != nil {
			tr.Close()
			return nil, nil, "", err
		}

		return c, snap, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	if portName != "" {
		// Serial mode
		c, snap, err := lambdamini.Connect(portName, cfg)
		if err != nil {
			return nil, nil, "", err
		}

		return c, snap, fmt.Sprintf("Serial: %s @ %d baud", portName, cfg.BaudRate), nil
	}

	return nil, nil, "", fmt.Errorf("either --port or --url must be specified")
}
