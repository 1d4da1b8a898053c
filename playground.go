package playground

import (
	"context"
	"fmt"

	"github.com/guiperry/playground/config"
	"github.com/guiperry/playground/llm"
	"github.com/guiperry/playground/utils"
)

// UnifiedPath is appended to Config.APIBase for every session.
const UnifiedPath = "/v1/unified"

// ClientOption configures the Client's stream controller.
type ClientOption = llm.ControllerOption

var (
	WithHTTPClient   = llm.WithHTTPClient   // Replaces the default HTTP client
	WithTokenCounter = llm.WithTokenCounter // Enables usage estimates with a custom counter
	WithObserver     = llm.WithObserver     // Registers a state observer at construction
)

// Client validates requests and runs them as stream sessions, one at a time.
// Starting a new session cancels the running one.
type Client struct {
	cfg    *Config
	logger utils.Logger
	ctl    *llm.Controller
}

// NewClient loads the configuration from the environment, applies opts and
// builds a Client.
//
// Example usage:
//
//	client, err := NewClient(SetModel("reasoning"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client.Subscribe(func(st State) { fmt.Print(st.Delta) })
func NewClient(opts ...ConfigOption) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	ApplyOptions(cfg, opts...)
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig builds a Client from an explicit configuration.
func NewClientWithConfig(cfg *Config, opts ...ClientOption) (*Client, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return &Client{
		cfg:    cfg,
		logger: cfg.GetLogger(),
		ctl:    llm.NewController(cfg, opts...),
	}, nil
}

// Config returns the client's configuration.
func (c *Client) Config() *Config {
	return c.cfg
}

// Generate starts a generate session. The configured model applies unless
// opts override it.
func (c *Client) Generate(ctx context.Context, brief, contentType string, opts ...RequestOption) error {
	opts = append([]RequestOption{WithModel(c.cfg.Model)}, opts...)
	return c.Stream(ctx, NewGenerateRequest(brief, contentType, opts...))
}

// Improve starts an improve session. The configured model applies unless
// opts override it.
func (c *Client) Improve(ctx context.Context, content, task string, opts ...RequestOption) error {
	opts = append([]RequestOption{WithModel(c.cfg.Model)}, opts...)
	return c.Stream(ctx, NewImproveRequest(content, task, opts...))
}

// Stream validates req and starts a session for it. Only validation errors
// are returned; session failures surface in State.Error and from Wait.
func (c *Client) Stream(ctx context.Context, req *UnifiedRequest) error {
	if req.Model == "" {
		req.Model = c.cfg.Model
	}
	if err := Validate(req); err != nil {
		c.logger.Warn("Request rejected", "action", req.Action, "error", err)
		return err
	}
	c.logger.Debug("Starting session", "action", req.Action, "model", req.Model)
	c.ctl.Start(ctx, c.cfg.APIBase+UnifiedPath, req)
	return nil
}

// Run starts a session for req and blocks until it ends, returning the final
// state. A session stopped by Cancel returns its partial state and no error.
func (c *Client) Run(ctx context.Context, req *UnifiedRequest) (State, error) {
	if err := c.Stream(ctx, req); err != nil {
		return State{}, err
	}
	err := c.ctl.Wait(ctx)
	return c.ctl.State(), err
}

// Cancel stops the running session, keeping what was received so far.
func (c *Client) Cancel() {
	c.ctl.Cancel()
}

// Reset stops the running session and clears all state.
func (c *Client) Reset() {
	c.ctl.Reset()
}

// State returns a snapshot of the current session state.
func (c *Client) State() State {
	return c.ctl.State()
}

// Subscribe registers fn to receive every later state change.
func (c *Client) Subscribe(fn Observer) {
	c.ctl.Subscribe(fn)
}

// Wait blocks until the current session's read loop exits and returns its
// failure, if any.
func (c *Client) Wait(ctx context.Context) error {
	return c.ctl.Wait(ctx)
}
