package handler

import (
	"charmapi/internal/core/domain"
	"charmapi/internal/core/service"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Chat struct {
	service *service.ChatService
}

func NewChat(chatService *service.ChatService) *Chat {
	return &Chat{service: chatService}
}

func (h *Chat) Complete(c *gin.Context) {
	req := domain.NewChatRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, prefixInternal)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Chat) Stream(c *gin.Context) {
	req := domain.NewChatRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	ctx := c.Request.Context()

	stream, err := h.service.OpenStream(ctx, req)
	if err != nil {
		respondError(c, err, prefixStreamStart)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	w := &eventWriter{w: c.Writer}

	err = stream.Forward(ctx, func(delta string) error {
		return w.write(domain.ContentEvent(delta))
	})

	l := zerolog.Ctx(ctx)

	switch {
	case w.err != nil:
		l.Debug().Err(w.err).Msg("client stopped reading the stream")
	case ctx.Err() != nil:
		l.Debug().Err(ctx.Err()).Msg("client disconnected from the stream")
	case err != nil:
		l.Warn().Err(err).Msg("chat stream failed")
		_ = w.write(domain.ErrorEvent(err.Error()))
	default:
		_ = w.write(domain.CompleteEvent())
	}
}

// eventWriter writes event stream frames and flushes each one. After the first failed write it drops
// every further event.
type eventWriter struct {
	w   gin.ResponseWriter
	err error
}

func (e *eventWriter) write(event domain.StreamEvent) error {
	if e.err != nil {
		return e.err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error encoding stream event: %w", err)
	}

	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", payload); err != nil {
		e.err = err
		return err
	}
	e.w.Flush()

	return nil
}
