package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/translate", r.URL.Path)
		assert.Equal(t, "3.0", r.URL.Query().Get("api-version"))
		assert.Equal(t, "en", r.URL.Query().Get("from"))
		assert.Equal(t, "es", r.URL.Query().Get("to"))
		assert.Equal(t, "secret", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "westeurope", r.Header.Get("Ocp-Apim-Subscription-Region"))

		var body []map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []map[string]string{{"Text": "hello"}}, body)

		_, _ = w.Write([]byte(`[{"translations":[{"text":"hola","to":"es"}]}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "secret", "westeurope")
	text, err := client.Translate(context.Background(), "hello", "en", "es")

	require.NoError(t, err)
	assert.Equal(t, "hola", text)
}

func TestTranslate_NotConfigured(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", "")

	_, err := client.Translate(context.Background(), "hello", "en", "es")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTranslate_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "secret", "").Translate(context.Background(), "hello", "en", "es")
	assert.ErrorIs(t, err, ErrFailed)
}

func TestTranslate_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "secret", "").Translate(context.Background(), "hello", "en", "es")
	assert.ErrorIs(t, err, ErrFailed)
}
