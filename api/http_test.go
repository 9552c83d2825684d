package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcue/cuephrase"
	"github.com/c360studio/semcue/metrics"
	"github.com/c360studio/semcue/transition"
)

// setupTestServer creates a Server over the embedded tables.
func setupTestServer(t *testing.T) (*Server, *metrics.Metrics) {
	t.Helper()
	reg, err := cuephrase.LoadEmbedded()
	require.NoError(t, err)
	m := metrics.New()
	th := transition.Thresholds{MinWords: 5, Good: 30, OK: 20}
	return NewServer(reg, th, m, nil), m
}

// registerHandlers wires the server's handlers into a fresh mux and returns a test server.
func registerHandlers(s *Server) *httptest.Server {
	mux := http.NewServeMux()
	s.RegisterHTTPHandlers("api", mux)
	return httptest.NewServer(mux)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHandleLanguages(t *testing.T) {
	s, _ := setupTestServer(t)
	srv := registerHandlers(s)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/languages")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	langs := decode[[]LanguageInfo](t, resp)
	require.Len(t, langs, 2)
	assert.Equal(t, "en", langs[0].Language)
	assert.Equal(t, LanguageInfo{Language: "he", Name: "Hebrew", Single: 112, Multiple: 84}, langs[1])
}

func TestHandleLanguages_MethodNotAllowed(t *testing.T) {
	s, _ := setupTestServer(t)
	srv := registerHandlers(s)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/languages", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandlePhrases(t *testing.T) {
	s, m := setupTestServer(t)
	srv := registerHandlers(s)
	defer srv.Close()

	t.Run("all", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/languages/he-IL/phrases")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decode[PhraseResponse](t, resp)
		assert.Equal(t, "he", got.Language)
		assert.Equal(t, cuephrase.ViewAll, got.View)
		require.NotNil(t, got.Phrases)
		assert.Len(t, got.Phrases.SingleWords, 112)
		assert.Len(t, got.Phrases.MultipleWords, 84)
		assert.Len(t, got.Phrases.AllWords, 196)
		assert.Contains(t, got.Phrases.SingleWords, "משום\u200e")
		assert.Contains(t, got.Phrases.MultipleWords, " בינתיים")
	})

	t.Run("single view", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/languages/he/phrases?view=single")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decode[PhraseResponse](t, resp)
		assert.Equal(t, cuephrase.ViewSingle, got.View)
		assert.Nil(t, got.Phrases)
		assert.Len(t, got.Words, 112)
	})

	t.Run("unknown language", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/languages/fr/phrases")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, decode[PhraseResponse](t, resp).Error, "unknown language")
	})

	t.Run("bad view", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/languages/he/phrases?view=some")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed language", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/languages/!!/phrases")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	body := scrape(t, m)
	assert.Contains(t, body, `semcue_lookups_total{language="he",result="hit"} 2`)
	assert.Contains(t, body, `result="miss"} 1`)
	assert.NotContains(t, body, `language="fr"`)
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestHandleResearch(t *testing.T) {
	s, m := setupTestServer(t)
	srv := registerHandlers(s)
	defer srv.Close()

	t.Run("json body", func(t *testing.T) {
		body := `{"text":"The build failed. However, the tests passed. As a result, we shipped.","source":"notes"}`
		resp, err := http.Post(srv.URL+"/api/languages/en/research", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		rep := decode[transition.Report](t, resp)
		assert.NotEmpty(t, rep.ID)
		assert.Equal(t, "notes", rep.Source)
		assert.Equal(t, "en", rep.Language)
		assert.Equal(t, 3, rep.TotalSentences)
		assert.Equal(t, 2, rep.TransitionWordSentences)
		assert.Equal(t, transition.RatingGood, rep.Assessment.Rating)
	})

	t.Run("raw html body", func(t *testing.T) {
		page := `<html><body><nav>Home. However, menu.</nav><main><p>The build failed. However, the tests passed.</p></main></body></html>`
		resp, err := http.Post(srv.URL+"/api/languages/en/research", "text/html; charset=utf-8", strings.NewReader(page))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		rep := decode[transition.Report](t, resp)
		assert.Equal(t, 2, rep.TotalSentences)
		assert.Equal(t, 1, rep.TransitionWordSentences)
	})

	t.Run("hebrew plain text", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/languages/he/research", "text/plain", strings.NewReader("הבנייה נכשלה. לכן תיקנו אותה."))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		rep := decode[transition.Report](t, resp)
		assert.Equal(t, 2, rep.TotalSentences)
		assert.Equal(t, 1, rep.TransitionWordSentences)
		assert.Equal(t, 1, rep.PhraseCounts["לכן"])
	})

	t.Run("empty text", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/languages/en/research", "application/json", strings.NewReader(`{"text":"  "}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid json", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/languages/en/research", "application/json", strings.NewReader(`{`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown language", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/languages/fr/research", "text/plain", strings.NewReader("Donc."))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/languages/en/research")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	assert.Contains(t, scrape(t, m), `semcue_research_total{language="en",rating="good"} 1`)
}

func TestServer_AnalyzerFollowsReplacedTables(t *testing.T) {
	s, _ := setupTestServer(t)

	first, err := s.Research("en", ResearchRequest{Text: "Moreover it works."})
	require.NoError(t, err)
	assert.Equal(t, 1, first.TransitionWordSentences)

	set, err := cuephrase.NewSet("en", "English", []string{"works"}, []string{"it works"})
	require.NoError(t, err)
	replaced, err := s.registry.Replace(set)
	require.NoError(t, err)
	require.True(t, replaced)

	second, err := s.Research("en", ResearchRequest{Text: "Moreover it works."})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"works": 1, "it works": 1}, second.PhraseCounts)
}
