package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/guiperry/playground/config"
	"github.com/guiperry/playground/utils"
)

// Controller runs at most one stream session at a time and publishes its
// State. Start, Cancel, Reset, State and Wait are safe for concurrent use.
type Controller struct {
	client   *http.Client
	logger   utils.Logger
	limiter  *rate.Limiter
	counter  TokenCounter
	headers  map[string]string
	readSize int

	store store

	mu      sync.Mutex
	cancel  context.CancelCauseFunc
	done    chan struct{}
	lastErr *StreamError
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithHTTPClient replaces the default client. Its Timeout bounds the whole
// stream, so long generations want zero.
func WithHTTPClient(client *http.Client) ControllerOption {
	return func(c *Controller) {
		c.client = client
	}
}

// WithTokenCounter enables usage estimates on completed sessions.
func WithTokenCounter(counter TokenCounter) ControllerOption {
	return func(c *Controller) {
		c.counter = counter
	}
}

// WithObserver registers fn to receive every state change.
func WithObserver(fn Observer) ControllerOption {
	return func(c *Controller) {
		c.store.subscribe(fn)
	}
}

// NewController builds a controller from cfg. A token encoding named in cfg
// that cannot be loaded disables usage counting with a warning.
func NewController(cfg *config.Config, opts ...ControllerOption) *Controller {
	c := &Controller{
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   cfg.GetLogger(),
		limiter:  rate.NewLimiter(rate.Inf, 0),
		headers:  cfg.ExtraHeaders,
		readSize: cfg.ReadBufferSize,
	}
	if cfg.StartRate > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.StartRate), cfg.StartBurst)
	}
	if c.readSize < 1 {
		c.readSize = DefaultStreamBufferSize
	}
	if cfg.TokenEncoding != "" {
		counter, err := NewTiktokenCounter(cfg.TokenEncoding)
		if err != nil {
			c.logger.Warn("Token counting disabled", "encoding", cfg.TokenEncoding, "error", err)
		} else {
			c.counter = counter
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn to receive every later state change.
func (c *Controller) Subscribe(fn Observer) {
	c.store.subscribe(fn)
}

// State returns a snapshot of the observable state.
func (c *Controller) State() State {
	return c.store.snapshot()
}

// Start tears down any running session, then opens a new one against url with
// body encoded as JSON. IsStreaming and PhaseConnecting are published before
// Start returns; everything after happens on the session's goroutine. ctx
// bounds the session; its cancellation, unlike Cancel, is reported as an error.
func (c *Controller) Start(ctx context.Context, url string, body any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel(ErrCanceled)
	}
	gen := c.store.next(func(s *State) {
		*s = State{IsStreaming: true, Phase: PhaseConnecting}
	})

	sctx, cancel := context.WithCancelCause(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.lastErr = nil

	sess := &session{
		ctl:    c,
		gen:    gen,
		url:    url,
		body:   body,
		logger: c.logger,
	}
	go func() {
		defer close(done)
		defer cancel(nil)
		err := sess.run(sctx)
		c.finish(done, err)
	}()
}

// Cancel stops the running session, if any. It is not an error: State.Error
// stays empty and the text received so far stays visible until Reset.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel(ErrCanceled)
		c.cancel = nil
		c.logger.Info("Stream canceled")
	}
	c.store.next(func(s *State) {
		s.IsStreaming = false
	})
}

// Reset cancels any running session and clears every observable field.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel(ErrCanceled)
		c.cancel = nil
	}
	c.lastErr = nil
	c.store.next(func(s *State) {
		*s = State{}
	})
}

// Wait blocks until the most recently started session's read loop exits and
// returns its failure, or nil if it completed or was cancelled.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != done || c.lastErr == nil {
		return nil
	}
	return c.lastErr
}

func (c *Controller) finish(done chan struct{}, err *StreamError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != done {
		return
	}
	c.cancel = nil
	c.lastErr = err
}

// session is one Start invocation. Its classifier and phase machine are
// touched only by the read loop.
type session struct {
	ctl    *Controller
	gen    uint64
	url    string
	body   any
	logger utils.Logger

	classifier Classifier
	phase      PhaseMachine
	sawDone    bool
}

func (s *session) publish(fn func(*State)) bool {
	return s.ctl.store.apply(s.gen, fn)
}

// run performs the request and the read loop. It returns nil on success and
// on cancellation by the controller.
func (s *session) run(ctx context.Context) *StreamError {
	s.phase.Advance(PhaseConnecting)
	s.logger.Info("Stream started", "url", s.url)

	resp, serr := s.open(ctx)
	if serr != nil {
		return s.fail(ctx, serr)
	}
	defer resp.Body.Close()

	if serr := s.read(ctx, resp.Body); serr != nil {
		return s.fail(ctx, serr)
	}
	return nil
}

func (s *session) open(ctx context.Context) (*http.Response, *StreamError) {
	if err := validateEndpoint(s.url); err != nil {
		return nil, NewStreamError(ErrorTypeRequest, err.Error(), err)
	}
	if err := s.ctl.limiter.Wait(ctx); err != nil {
		return nil, NewStreamError(ErrorTypeRateLimit, "too many requests, try again shortly", err)
	}

	payload, err := json.Marshal(s.body)
	if err != nil {
		return nil, NewStreamError(ErrorTypeRequest, "failed to encode request body", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, NewStreamError(ErrorTypeRequest, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	for k, v := range s.ctl.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.ctl.client.Do(req)
	if err != nil {
		return nil, NewStreamError(ErrorTypeTransport, err.Error(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, rerr := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))
		if rerr != nil {
			body = nil
		}
		msg := statusErrorMessage(resp.StatusCode, resp.Status, body)
		s.logger.Error("API error", "status", resp.StatusCode, "body", string(body))
		serr := NewStreamError(ErrorTypeStatus, msg, nil)
		serr.StatusCode = resp.StatusCode
		return nil, serr
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, NewStreamError(ErrorTypeNoStream, "No readable stream in response", nil)
	}
	return resp, nil
}

// read is the single sequential consumer: one chunk at a time, one payload at
// a time, each payload's changes published before the next is looked at.
func (s *session) read(ctx context.Context, body io.Reader) *StreamError {
	var framer LineFramer
	buf := make([]byte, s.ctl.readSize)

	for {
		n, err := body.Read(buf)
		if n > 0 {
			for _, line := range framer.Push(string(buf[:n])) {
				if s.line(line) {
					s.complete()
					return nil
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return NewStreamError(ErrorTypeTransport, err.Error(), err)
		}
		if ctx.Err() != nil {
			return NewStreamError(ErrorTypeTransport, context.Cause(ctx).Error(), context.Cause(ctx))
		}
	}

	if line, ok := framer.Flush(); ok && s.line(line) {
		s.complete()
		return nil
	}
	s.complete()
	return nil
}

// line handles one framed line and reports whether it was the terminal sentinel.
func (s *session) line(line string) bool {
	payload, ok := DataPayload(line)
	if !ok {
		return false
	}

	obs := s.classifier.Classify(payload)
	if obs.Done {
		s.sawDone = true
		return true
	}
	s.logger.Debug("Payload classified", "phase", obs.Phase, "reasoning", len(obs.Reasoning), "delta", len(obs.Delta))

	changed := obs.Phase != PhaseNone && s.phase.Advance(obs.Phase)
	if obs.Reasoning == "" && obs.Delta == "" && !changed {
		return false
	}
	phase := s.phase.Current()
	s.publish(func(st *State) {
		st.Reasoning += obs.Reasoning
		st.Delta += obs.Delta
		st.Phase = phase
	})
	return false
}

// complete runs the result materializer once the sentinel arrives or the
// body ends. Without the sentinel an unparseable buffer is left as partial
// text and the phase is not advanced.
func (s *session) complete() {
	m, err := Materialize(s.classifier.Accumulated())
	if err != nil && s.classifier.Accumulated() != "" {
		s.logger.Warn("Result is not structured, keeping raw text", "error", err, "done", s.sawDone)
	}
	if err == nil || s.sawDone {
		s.phase.Advance(PhaseComplete)
	}

	var usage *Usage
	if c := s.ctl.counter; c != nil {
		st := s.ctl.store.snapshot()
		usage = &Usage{
			ReasoningTokens: c.Count(st.Reasoning),
			ContentTokens:   c.Count(m.Text),
		}
	}

	phase := s.phase.Current()
	s.publish(func(st *State) {
		st.Text = m.Text
		if err == nil {
			st.Result = m.Value
			st.ResultJSON = m.JSON
		}
		st.Usage = usage
		st.Phase = phase
		st.IsStreaming = false
	})
	s.logger.Info("Stream finished", "phase", phase, "structured", err == nil, "done", s.sawDone)
}

// fail publishes serr unless the session was ended by the controller, in
// which case it is dropped and nil is returned.
func (s *session) fail(ctx context.Context, serr *StreamError) *StreamError {
	if errors.Is(context.Cause(ctx), ErrCanceled) {
		s.logger.Debug("Stream ended by cancel", "error", serr.Err)
		return nil
	}
	s.phase.Fail()
	s.logger.Error("Stream failed", serr.LoggableFields()...)
	msg := serr.UserMessage()
	s.publish(func(st *State) {
		st.Error = msg
		st.Phase = PhaseError
		st.IsStreaming = false
	})
	return serr
}
