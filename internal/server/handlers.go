package server

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/mediaops/media-purge-go/events"
	"github.com/mediaops/media-purge-go/settings"
)

const redactedToken = "********"

type postMetaPayload struct {
	PostID    int64  `json:"post_id"`
	MetaKey   string `json:"meta_key"`
	MetaValue string `json:"meta_value"`
}

type attachmentMetadataPayload struct {
	PostID   int64          `json:"post_id"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) handlePostMeta(w http.ResponseWriter, r *http.Request) {
	var payload postMetaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	s.dispatcher.DispatchMetaUpdated(r.Context(), events.MetaUpdated{
		PostID:    payload.PostID,
		MetaKey:   payload.MetaKey,
		MetaValue: payload.MetaValue,
	})

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleAttachmentMetadata(w http.ResponseWriter, r *http.Request) {
	var payload attachmentMetadataPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	metadata := s.dispatcher.DispatchAttachmentMetadata(r.Context(), events.AttachmentMetadata{
		PostID:   payload.PostID,
		Metadata: payload.Metadata,
	})

	// The filter chain contract: the payload goes back out unchanged.
	writeJSON(w, http.StatusOK, attachmentMetadataPayload{
		PostID:   payload.PostID,
		Metadata: metadata,
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.store.Load(r.Context())
	if err != nil {
		s.logger.Error("loading settings failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "settings unavailable"})
		return
	}

	if current.APIToken != "" {
		current.APIToken = redactedToken
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	sanitized := settings.Sanitize(raw)
	if err := s.store.Save(r.Context(), sanitized); err != nil {
		s.logger.Error("saving settings failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "settings not saved"})
		return
	}

	sanitized.APIToken = redactedToken
	writeJSON(w, http.StatusOK, sanitized)
}

// handleDeleteSettings implements the uninstall cleanup contract: deletion
// only proceeds when the stored record opts into it.
func (s *Server) handleDeleteSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.store.Load(r.Context())
	if err != nil {
		s.logger.Error("loading settings failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "settings unavailable"})
		return
	}

	if !current.DeleteSettingsOnUninstall {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "settings retention enabled"})
		return
	}

	if err := s.store.Delete(r.Context()); err != nil {
		s.logger.Error("deleting settings failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "settings not deleted"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func withRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func requestIDFrom(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}
