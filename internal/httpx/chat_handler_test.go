package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahmentor/smi-payment-api/internal/chatbot"
)

func TestChat_KeywordAnswer(t *testing.T) {
	h := &ChatHandler{Matcher: chatbot.NewMatcher(chatbot.DefaultRules, chatbot.DefaultFallback)}

	rec := doJSON(t, h.chat, ChatReq{Message: "berapa biaya program private?"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rp150.000")
}

func TestChat_FallbackShowsContact(t *testing.T) {
	h := &ChatHandler{Matcher: chatbot.NewMatcher(chatbot.DefaultRules, chatbot.DefaultFallback)}

	rec := doJSON(t, h.chat, ChatReq{Message: "xyzzy"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"show_contact":true`)
}

func TestChat_EmptyMessage(t *testing.T) {
	h := &ChatHandler{Matcher: chatbot.NewMatcher(chatbot.DefaultRules, chatbot.DefaultFallback)}

	rec := doJSON(t, h.chat, ChatReq{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
