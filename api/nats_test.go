package api

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcue/cuephrase"
)

func TestHandleRequest(t *testing.T) {
	s, _ := setupTestServer(t)

	tests := []struct {
		name      string
		request   string
		wantLang  string
		wantErr   string
		wantWords int
		wantAll   int
	}{
		{
			name:     "all phrases",
			request:  `{"language":"he"}`,
			wantLang: "he",
			wantAll:  196,
		},
		{
			name:      "multiple view",
			request:   `{"language":"HE","view":"multiple"}`,
			wantLang:  "he",
			wantWords: 84,
		},
		{
			name:     "unknown language",
			request:  `{"language":"de"}`,
			wantLang: "de",
			wantErr:  "unknown language",
		},
		{
			name:    "missing language",
			request: `{}`,
			wantErr: "language is required",
		},
		{
			name:     "bad view",
			request:  `{"language":"he","view":"pairs"}`,
			wantLang: "he",
			wantErr:  "unknown view",
		},
		{
			name:    "not json",
			request: `language=he`,
			wantErr: "invalid request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp PhraseResponse
			require.NoError(t, json.Unmarshal(s.HandleRequest([]byte(tt.request)), &resp))

			if tt.wantErr != "" {
				assert.Contains(t, resp.Error, tt.wantErr)
				assert.Equal(t, tt.wantLang, resp.Language)
				assert.Nil(t, resp.Phrases)
				assert.Empty(t, resp.Words)
				return
			}
			assert.Empty(t, resp.Error)
			assert.Equal(t, tt.wantLang, resp.Language)
			if tt.wantAll > 0 {
				require.NotNil(t, resp.Phrases)
				assert.Len(t, resp.Phrases.AllWords, tt.wantAll)
				assert.Equal(t, cuephrase.ViewAll, resp.View)
			}
			if tt.wantWords > 0 {
				assert.Len(t, resp.Words, tt.wantWords)
			}
		})
	}
}

func TestHandleRequest_MatchesProvider(t *testing.T) {
	s, _ := setupTestServer(t)

	provider, ok := s.registry.Provider("he")
	require.True(t, ok)

	var resp PhraseResponse
	require.NoError(t, json.Unmarshal(s.HandleRequest([]byte(`{"language":"he"}`)), &resp))
	require.NotNil(t, resp.Phrases)
	assert.Equal(t, provider(), *resp.Phrases)
}

func startEmbeddedNATS(t *testing.T) *server.Server {
	t.Helper()
	ns, err := server.NewServer(&server.Options{
		Port:   -1, // Random available port
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("embedded NATS server failed to start")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns
}

func TestServeNATS(t *testing.T) {
	s, _ := setupTestServer(t)
	ns := startEmbeddedNATS(t)

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeNATS(ctx, nc, "semcue.phrases", "semcue") }()

	// The subscription is registered asynchronously; retry until it answers.
	var msg *nats.Msg
	require.Eventually(t, func() bool {
		msg, err = nc.Request("semcue.phrases", []byte(`{"language":"he","view":"single"}`), 200*time.Millisecond)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	var resp PhraseResponse
	require.NoError(t, json.Unmarshal(msg.Data, &resp))
	assert.Equal(t, "he", resp.Language)
	assert.Len(t, resp.Words, 112)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ServeNATS did not return after cancel")
	}
}
