package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kitbuilder587/guru-api/internal/domain"
)

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("device details", deviceFields(r)...)

	req, err := decodeAskRequest(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		h.logger.Debug("failed to read request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, msgQuestionRequired)
		return
	}

	answer, err := h.asker.Ask(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionRequired) {
			h.logger.Debug("rejected request without question", zap.String("client", h.keyFn(r)))
			writeError(w, http.StatusBadRequest, msgQuestionRequired)
			return
		}

		h.logger.Error("ask failed",
			zap.Error(err),
			zap.String("client", h.keyFn(r)),
		)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: answer})
}

// decodeAskRequest reads the body the way a JSON body parser would: anything
// that is not a JSON object with a string "question" yields an empty request.
// Only transport errors, including an oversized body, are returned.
func decodeAskRequest(w http.ResponseWriter, r *http.Request) (*domain.AskRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	req := &domain.AskRequest{}
	if !isJSONContent(r.Header.Get("Content-Type")) {
		return req, nil
	}

	// ключ "question" строго в нижнем регистре, при дублях побеждает последний
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return req, nil
	}

	raw, ok := payload["question"]
	if !ok {
		return req, nil
	}
	var question string
	if err := json.Unmarshal(raw, &question); err == nil {
		req.Question = question
	}
	return req, nil
}

func isJSONContent(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
