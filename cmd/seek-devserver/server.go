package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// frame is one wire frame. The urls field is sent as a string holding a JSON
// array, the way the production backend sends it.
type frame struct {
	Type         string `json:"type"`
	CheckpointID string `json:"checkpoint_id,omitempty"`
	Content      string `json:"content,omitempty"`
	Query        string `json:"query,omitempty"`
	URLs         string `json:"urls,omitempty"`
	Error        string `json:"error,omitempty"`
}

// failPrefix makes the scripted search fail for messages that start with it.
const failPrefix = "!fail"

type server struct {
	delay   time.Duration
	sources []string
	newID   func() string
	logger  *slog.Logger
}

func newRouter(s *server) *gin.Engine {
	r := gin.New()
	// Keep %2F inside the message segment.
	r.UseRawPath = true
	r.Use(gin.Recovery(), requestLogger(s.logger))
	r.GET("/chat_stream/:message", s.chatStream)
	return r
}

func (s *server) chatStream(c *gin.Context) {
	message := c.Param("message")
	frames := s.script(message, c.Query("checkpoint_id"))

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	for i, f := range frames {
		if i > 0 && s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				s.logger.Debug("client went away", "sent", i)
				return
			}
		}
		payload, err := json.Marshal(f)
		if err != nil {
			s.logger.Error("marshal frame", "error", err)
			return
		}
		c.SSEvent("message", string(payload))
		c.Writer.Flush()
	}
}

// script returns the frames replayed for message. A new conversation (no
// checkpoint) is assigned a fresh checkpoint first.
func (s *server) script(message, checkpoint string) []frame {
	var frames []frame
	if checkpoint == "" {
		frames = append(frames, frame{Type: "checkpoint", CheckpointID: s.newID()})
	}
	frames = append(frames, frame{Type: "search_start", Query: message})

	if strings.HasPrefix(message, failPrefix) {
		frames = append(frames, frame{Type: "search_error", Error: "search backend unavailable"})
		frames = append(frames, contentFrames("I could not search the web for that.")...)
		return append(frames, frame{Type: "end"})
	}

	urls, _ := json.Marshal(s.sources)
	frames = append(frames, frame{Type: "search_results", URLs: string(urls)})
	reply := "You asked: " + message
	if checkpoint != "" {
		reply += " (continuing conversation " + checkpoint + ")"
	}
	frames = append(frames, contentFrames(reply)...)
	return append(frames, frame{Type: "end"})
}

// contentFrames splits text into word-sized deltas that concatenate back to
// text.
func contentFrames(text string) []frame {
	var frames []frame
	for _, w := range strings.SplitAfter(text, " ") {
		if w != "" {
			frames = append(frames, frame{Type: "content", Content: w})
		}
	}
	return frames
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
