package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type BuildInfo struct {
	Version string
	BotName string
}

type Handler struct {
	svc          Service
	broadcaster  *Broadcaster
	platform     Platform
	info         BuildInfo
	maxBodyBytes int64
	log          logrus.FieldLogger
}

func NewHandler(svc Service, broadcaster *Broadcaster, platform Platform, info BuildInfo, maxBodyBytes int64, logger logrus.FieldLogger) *Handler {
	return &Handler{
		svc:          svc,
		broadcaster:  broadcaster,
		platform:     platform,
		info:         info,
		maxBodyBytes: maxBodyBytes,
		log:          logger.WithField("component", "http"),
	}
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, statusResponse{Status: "error", Message: message})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"version":  h.info.Version,
		"bot-name": h.info.BotName,
		"platform": "telegram",
	})
}

func (h *Handler) WebhookInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.platform.WebhookInfo(r.Context())
	if err != nil {
		h.log.WithError(err).Error("webhook info failed")
		writeError(w, http.StatusInternalServerError, "webhook info unavailable")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleWebhook is the entry point for Telegram updates. The update is handled
// before answering; the reply is not tied to Telegram's connection.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		h.log.WithError(err).Warn("webhook body read failed")
		writeError(w, http.StatusInternalServerError, "invalid update")
		return
	}

	upd, err := Decode(body)
	if err != nil {
		h.log.WithError(err).Warn("webhook decode failed")
		writeError(w, http.StatusInternalServerError, "invalid update")
		return
	}

	h.svc.HandleIncoming(context.WithoutCancel(r.Context()), upd)
	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

// SendAnnouncement answers 401 for a wrong password, 501 without a channel,
// 500 when Telegram rejects the message and 200 once it is posted. Empty
// text is additionally refused with 400 before anything is sent.
func (h *Handler) SendAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	err := h.broadcaster.Broadcast(r.Context(), req)
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Announcement sent"})
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid password")
	case errors.Is(err, ErrBroadcastDisabled):
		writeError(w, http.StatusNotImplemented, "announcements are disabled: no channel configured")
	case errors.As(err, &validationErrs):
		writeError(w, http.StatusBadRequest, "text is required")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
