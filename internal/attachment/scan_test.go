package attachment

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haitaton/hanke-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanClient_Scan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/scan", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["FILES"]
		require.Len(t, files, 1)
		assert.Equal(t, "kartta.pdf", files[0].Filename)
		f, err := files[0].Open()
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		assert.Equal(t, "%PDF", string(b))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"result":[{"name":"kartta.pdf","is_infected":true,"viruses":["Eicar-Test-Signature"]}]}}`))
	}))
	defer srv.Close()

	c := NewScanClient(&config.ScanConfig{URL: srv.URL + "/", Timeout: time.Second})
	res, err := c.Scan(context.Background(), []ScanInput{{Name: "kartta.pdf", Bytes: []byte("%PDF")}})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.True(t, hasInfected(res))
	assert.Equal(t, []string{"Eicar-Test-Signature"}, res[0].Viruses)
}

func TestScanClient_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewScanClient(&config.ScanConfig{URL: srv.URL, Timeout: time.Second})
	_, err := c.Scan(context.Background(), []ScanInput{{Name: "a.txt", Bytes: []byte("x")}})
	assert.ErrorContains(t, err, "503")
}
