package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/fiiwatch/internal/events"
	"github.com/aristath/fiiwatch/internal/modules/pipeline"
)

const streamWriteTimeout = 10 * time.Second

// StreamHandler serves GET /api/funds/stream over WebSocket. The client
// sends risk-premium updates (debounced into pipeline runs server-side) and
// receives every published run result.
type StreamHandler struct {
	pipeline PipelineService
	bus      *events.Bus
	log      zerolog.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(pipeline PipelineService, bus *events.Bus, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		pipeline: pipeline,
		bus:      bus,
		log:      log.With().Str("handler", "stream").Logger(),
	}
}

// clientMessage is what the dashboard sends upstream.
type clientMessage struct {
	RiskPremium *float64 `json:"risk_premium,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`
}

// ServeHTTP upgrades the connection and bridges the event bus to it.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	ctx := r.Context()
	h.log.Info().Msg("Client connected to funds stream")

	// Buffered so a slow client drops pushes instead of blocking the bus.
	results := make(chan *pipeline.Result, 8)
	unsubscribe := h.bus.Subscribe(events.RunPublished, func(*events.Event) {
		if latest := h.pipeline.Latest(); latest != nil {
			select {
			case results <- latest:
			default:
				h.log.Warn().Msg("Stream buffer full, dropping run push")
			}
		}
	})
	defer unsubscribe()

	// Seed the connection with the current state, if any.
	if latest := h.pipeline.Latest(); latest != nil {
		if err := h.write(ctx, conn, latest); err != nil {
			return
		}
	}

	readErr := make(chan error, 1)
	go h.readLoop(ctx, conn, readErr)

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case err := <-readErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				h.log.Debug().Err(err).Msg("Client disconnected from funds stream")
			}
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case result := <-results:
			if err := h.write(ctx, conn, result); err != nil {
				h.log.Debug().Err(err).Msg("Stream write failed")
				return
			}
		}
	}
}

func (h *StreamHandler) write(ctx context.Context, conn *websocket.Conn, result *pipeline.Result) error {
	writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, result)
}

// readLoop consumes client messages until the connection drops.
func (h *StreamHandler) readLoop(ctx context.Context, conn *websocket.Conn, done chan<- error) {
	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			done <- err
			return
		}

		if msg.RiskPremium != nil {
			h.pipeline.SetRiskPremium(*msg.RiskPremium)
		}
		if msg.Refresh {
			go func() {
				refreshCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
				defer cancel()
				if _, err := h.pipeline.Refresh(refreshCtx); err != nil {
					h.log.Error().Err(err).Msg("Stream-triggered refresh failed")
				}
			}()
		}
	}
}
