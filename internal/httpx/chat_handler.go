package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sekolahmentor/smi-payment-api/internal/chatbot"
)

type ChatHandler struct {
	Matcher *chatbot.Matcher
}

type ChatReq struct {
	Message string `json:"message"`
}

func (h *ChatHandler) Register(r *chi.Mux) {
	r.Post("/api/chat", h.chat)
}

func (h *ChatHandler) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	writeJSON(w, http.StatusOK, h.Matcher.Match(req.Message))
}
