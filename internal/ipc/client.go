package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"focus-warden/pkg/core"
)

type Client struct {
	path    string
	timeout time.Duration
	log     core.Logger
}

func NewClient(path string, log core.Logger) *Client {
	return &Client{path: path, timeout: connTimeout, log: log}
}

// Send delivers one request and waits for its response.
func (c *Client) Send(req Request) (Response, error) {
	c.log.Debug("Attempting to connect to socket server", "path", c.path)

	conn, err := net.DialTimeout("unix", c.path, c.timeout)
	if err != nil {
		return Response{}, fmt.Errorf("failed to connect to socket server: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(req); err != nil {
		return Response{}, fmt.Errorf("failed to encode request: %w", err)
	}

	c.log.Debug("Request sent successfully", "command", req.Command)

	var resp Response
	decoder := json.NewDecoder(conn)
	if err := decoder.Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("failed to decode response: %w", err)
	}

	c.log.Debug("Response received", "status", resp.Status, "message", resp.Message)
	return resp, nil
}
