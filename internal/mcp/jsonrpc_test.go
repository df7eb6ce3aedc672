package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// client drives a running Server over in-memory pipes.
type client struct {
	t    *testing.T
	in   *io.PipeWriter
	out  *bufio.Reader
	done chan error
}

func startServer(t *testing.T, s *Server) *client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	c := &client{
		t:    t,
		in:   reqW,
		out:  bufio.NewReaderSize(respR, 1<<20),
		done: make(chan error, 1),
	}
	go func() { c.done <- s.Run(ctx, reqR, respW) }()

	t.Cleanup(func() {
		cancel()
		_ = reqW.Close()
		_ = respR.Close()
		select {
		case <-c.done:
		case <-time.After(2 * time.Second):
			t.Error("Run did not return after cancel")
		}
	})
	return c
}

// send writes one request line and decodes the response line into v.
func (c *client) send(line string, v any) {
	c.t.Helper()
	_, err := io.WriteString(c.in, line+"\n")
	require.NoError(c.t, err)

	resp, err := c.out.ReadString('\n')
	require.NoError(c.t, err)
	require.NoError(c.t, json.Unmarshal([]byte(resp), v), resp)
}

type rpcError struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestRun_Initialize(t *testing.T) {
	c := startServer(t, NewServer(Options{Version: "1.2.3"}))

	var resp struct {
		ID     int `json:"id"`
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	c.send(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`, &resp)

	assert.Equal(t, 1, resp.ID)
	assert.Equal(t, protocolVersion, resp.Result.ProtocolVersion)
	assert.Equal(t, "codewatch", resp.Result.ServerInfo.Name)
	assert.Equal(t, "1.2.3", resp.Result.ServerInfo.Version)
}

func TestRun_ToolsListIncludesRegistered(t *testing.T) {
	s := NewServer(Options{})
	s.registerTool(toolDef{
		Name:        "echo",
		Description: "Echo arguments",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler:     func(args json.RawMessage) (any, error) { return args, nil },
	})
	c := startServer(t, s)

	var resp struct {
		Result struct {
			Tools []toolListEntry `json:"tools"`
		} `json:"result"`
	}
	c.send(`{"jsonrpc":"2.0","id":"a","method":"tools/list"}`, &resp)

	var names []string
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
	}
	assert.Equal(t, []string{"analyze_code", "optimize_code", "review_code", "get_review_stats", "echo"}, names)
}

func TestRun_Errors(t *testing.T) {
	tests := map[string]struct {
		line string
		code int
	}{
		"unknown method": {`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`, codeMethodNotFound},
		"malformed line": {`{not json`, codeParseError},
		"bad params":     {`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":[1,2]}`, codeInvalidParams},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := startServer(t, NewServer(Options{}))
			var resp rpcError
			c.send(tc.line, &resp)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestRun_CallUnknownTool(t *testing.T) {
	c := startServer(t, NewServer(Options{}))

	var resp struct {
		Result toolsCallResult `json:"result"`
	}
	c.send(`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"format_code"}}`, &resp)

	assert.True(t, resp.Result.IsError)
	require.Len(t, resp.Result.Content, 1)
	assert.Equal(t, "unknown tool: format_code", resp.Result.Content[0].Text)
}

func TestRun_NotificationGetsNoResponse(t *testing.T) {
	c := startServer(t, NewServer(Options{}))

	_, err := io.WriteString(c.in, `{"jsonrpc":"2.0","method":"notifications/initialized"}`+"\n")
	require.NoError(t, err)

	// The next response on the wire must belong to the follow-up request.
	var resp struct {
		ID int `json:"id"`
	}
	c.send(`{"jsonrpc":"2.0","id":7,"method":"tools/list"}`, &resp)
	assert.Equal(t, 7, resp.ID)
}

func TestRun_LargeLine(t *testing.T) {
	c := startServer(t, NewServer(Options{}))

	code := strings.Repeat("const total = value;\n", 10000)
	args, err := json.Marshal(map[string]string{"code": code, "language": "js"})
	require.NoError(t, err)

	var resp struct {
		Result toolsCallResult `json:"result"`
	}
	c.send(`{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"analyze_code","arguments":`+string(args)+`}}`, &resp)
	assert.False(t, resp.Result.IsError)
}

func TestRun_Shutdown(t *testing.T) {
	t.Run("context cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		r, w := io.Pipe()
		defer w.Close()

		done := make(chan error, 1)
		go func() { done <- NewServer(Options{}).Run(ctx, r, io.Discard) }()
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after cancel")
		}
	})

	t.Run("eof", func(t *testing.T) {
		err := NewServer(Options{}).Run(context.Background(), strings.NewReader(""), io.Discard)
		assert.NoError(t, err)
	})
}
