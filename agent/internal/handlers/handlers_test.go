package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"meme-scanner/shared/config"
	"meme-scanner/shared/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeywordWriter struct {
	term  string
	score float64
	calls int
}

func (f *fakeKeywordWriter) Add(term string, score float64) error {
	f.term = term
	f.score = score
	f.calls++
	return nil
}

func newTestRouter(t *testing.T, kw KeywordWriter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.NewLogger(logger.Config{Level: "error"})
	require.NoError(t, err)
	router := gin.New()
	RegisterRoutes(router, NewHandler(log, config.TrendsConfig{DefaultAddScore: 80}, nil, nil, nil, kw))
	return router
}

func postKeyword(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/keywords", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestAddKeywordUsesConfiguredDefaultScore(t *testing.T) {
	kw := &fakeKeywordWriter{}
	router := newTestRouter(t, kw)

	w := postKeyword(router, `{"term":"pepe"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pepe", kw.term)
	assert.Equal(t, 80.0, kw.score)
}

func TestAddKeywordExplicitScorePassesThrough(t *testing.T) {
	kw := &fakeKeywordWriter{}
	router := newTestRouter(t, kw)

	w := postKeyword(router, `{"term":"moon","score":42}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "moon", kw.term)
	assert.Equal(t, 42.0, kw.score)
}

func TestAddKeywordMissingTermRejected(t *testing.T) {
	kw := &fakeKeywordWriter{}
	router := newTestRouter(t, kw)

	w := postKeyword(router, `{"score":42}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, kw.calls)
}

func TestHealthRoute(t *testing.T) {
	router := newTestRouter(t, &fakeKeywordWriter{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
