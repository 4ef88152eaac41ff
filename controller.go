package seek

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Fallback texts shown when a failed turn produced no text of its own.
const (
	FallbackConnection = "Sorry, there was an error connecting to the server."
	FallbackProcessing = "Sorry, there was an error processing your request."
	FallbackCanceled   = "Request canceled."
)

// maxLoggedFrame caps how much of a dropped frame is written to the log.
const maxLoggedFrame = 256

// Controller opens one stream per submitted turn and binds it to an
// Aggregator. All stream failures are converted into terminal turn state.
type Controller struct {
	backend  Backend
	decode   DecodeFunc
	conv     *Conversation
	session  *Session
	logger   *slog.Logger
	onUpdate func(Turn)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger. The default discards all records.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// WithUpdateHandler sets a callback that receives every turn snapshot written
// to the Conversation, including the initial user and placeholder turns. It
// is called from the goroutine that drives the stream.
func WithUpdateHandler(h func(Turn)) ControllerOption {
	return func(c *Controller) { c.onUpdate = h }
}

// NewController creates a Controller.
func NewController(backend Backend, decode DecodeFunc, conv *Conversation, session *Session, opts ...ControllerOption) *Controller {
	c := &Controller{
		backend: backend,
		decode:  decode,
		conv:    conv,
		session: session,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Conversation returns the conversation the controller writes to.
func (c *Controller) Conversation() *Conversation { return c.conv }

// Session returns the checkpoint tracker.
func (c *Controller) Session() *Session { return c.session }

// Open appends a user turn and an agent placeholder, then opens a stream for
// text, carrying the current checkpoint token. It returns an error only when
// text is invalid, in which case nothing is appended. If the stream cannot be
// opened the placeholder is failed immediately and the returned handle is
// already done; Handle.Err reports the cause.
func (c *Controller) Open(ctx context.Context, text string) (*Handle, error) {
	req := Request{Text: text}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if token, ok := c.session.Current(); ok {
		req.CheckpointID = token
	}

	userID, agentID := c.conv.AppendExchange(text)
	h := &Handle{
		ctrl: c,
		id:   uuid.NewString(),
		agg:  NewAggregator(agentID, c.conv, c.session),
		done: make(chan struct{}),
	}
	h.logger = c.logger.With("stream_id", h.id, "turn_id", agentID)
	c.notifyID(userID)
	c.notifyID(agentID)

	stream, err := c.backend.Open(ctx, req)
	if err != nil {
		fallback := FallbackConnection
		if errors.Is(err, context.Canceled) {
			fallback = FallbackCanceled
		}
		h.logger.Error("open stream", "error", err)
		h.terminate(fmt.Errorf("open stream: %w", err), fallback)
		return h, nil
	}
	h.stream = stream

	if turn, ok := c.conv.Update(agentID, func(t *Turn) { t.Lifecycle = LifecycleStreaming }); ok {
		c.notify(turn)
	}
	h.logger.Debug("stream opened", "resumed", req.CheckpointID != "")
	return h, nil
}

func (c *Controller) notify(t Turn) {
	if c.onUpdate != nil {
		c.onUpdate(t)
	}
}

func (c *Controller) notifyID(id int) {
	if t, ok := c.conv.Turn(id); ok {
		c.notify(t)
	}
}

// Handle is one open stream bound to one agent turn. Frames are applied in
// arrival order by the goroutine calling Run (or OnFrame/OnEvent). Close may
// be called from any goroutine.
type Handle struct {
	ctrl   *Controller
	id     string
	agg    *Aggregator
	stream Stream
	logger *slog.Logger

	mu      sync.Mutex
	closed  bool
	err     error
	done    chan struct{}
	frames  int
	dropped int
}

// ID returns the stream's correlation id.
func (h *Handle) ID() string { return h.id }

// TurnID returns the id of the agent turn this stream writes to.
func (h *Handle) TurnID() int { return h.agg.TurnID() }

// Done returns a channel that is closed once the stream reached a terminal
// state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns the cause of a failed turn, or nil.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Turn returns the current snapshot of the bound agent turn.
func (h *Handle) Turn() Turn {
	t, _ := h.ctrl.conv.Turn(h.TurnID())
	return t
}

// Run reads frames until the stream reaches a terminal state and returns the
// final turn. The returned error is the failure cause, if any; the turn has
// already been marked failed when it is non-nil.
func (h *Handle) Run() (Turn, error) {
	for !h.isClosed() {
		frame, err := h.stream.Next()
		if err != nil {
			h.fail(err)
			break
		}
		h.OnFrame(frame)
	}
	return h.Turn(), h.Err()
}

// OnFrame decodes one frame and applies it. Undecodable frames are logged and
// dropped; the stream continues.
func (h *Handle) OnFrame(frame []byte) {
	if h.isClosed() {
		return
	}
	h.frames++
	evt, err := h.ctrl.decode(frame)
	if err != nil {
		h.dropped++
		kind := DecodeMalformed
		var de *DecodeError
		if errors.As(err, &de) {
			kind = de.Kind
		}
		h.logger.Warn("dropping frame", "kind", kind.String(), "error", err, "frame", clip(frame, maxLoggedFrame))
		return
	}
	h.OnEvent(evt)
}

// OnEvent applies one decoded event. Events arriving after the stream closed
// are ignored.
func (h *Handle) OnEvent(evt Event) {
	if h.isClosed() {
		return
	}
	if cp, ok := evt.(EventCheckpoint); ok {
		h.logger.Debug("checkpoint", "checkpoint_id", cp.ID)
	}
	if turn, changed := h.agg.Apply(evt); changed {
		h.ctrl.notify(turn)
	}
	if h.agg.Done() {
		h.logger.Info("stream complete", "frames", h.frames, "dropped", h.dropped)
		h.terminate(nil, "")
	}
}

// Close cancels the stream. A streaming turn is marked failed with its text
// preserved. Close is idempotent; closing a finished handle is a no-op.
func (h *Handle) Close() error {
	if h.terminate(ErrStreamClosed, FallbackCanceled) && h.Err() != nil {
		h.logger.Info("stream canceled")
	}
	return nil
}

func (h *Handle) fail(err error) {
	fallback := FallbackConnection
	switch {
	case errors.Is(err, io.EOF):
		err = ErrUnexpectedEnd
	case errors.Is(err, ErrEnvelope):
		fallback = FallbackProcessing
	case errors.Is(err, context.Canceled):
		fallback = FallbackCanceled
	}
	if h.terminate(err, fallback) {
		h.logger.Error("stream failed", "error", err, "frames", h.frames)
	}
}

func (h *Handle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// terminate performs the single terminal transition. A nil err means the turn
// already completed through the Aggregator; otherwise the turn is marked
// failed and fallback replaces empty text. It reports whether this call
// performed the transition.
func (h *Handle) terminate(err error, fallback string) bool {
	if err != nil {
		// An end event applied just before a close still completes the turn.
		if t, ok := h.ctrl.conv.Turn(h.TurnID()); ok && t.Lifecycle == LifecycleComplete {
			err = nil
		}
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.closed = true
	h.err = err
	h.mu.Unlock()

	if err != nil {
		turn, ok := h.ctrl.conv.Update(h.TurnID(), func(t *Turn) {
			if t.Text == "" {
				t.Text = fallback
			}
			t.Lifecycle = LifecycleFailed
		})
		if ok {
			h.ctrl.notify(turn)
		}
	}
	if h.stream != nil {
		if cerr := h.stream.Close(); cerr != nil {
			h.logger.Debug("close stream", "error", cerr)
		}
	}
	close(h.done)
	return true
}

func clip(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
