package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blocknative/dinghy/api"
)

const parent = "0x0100000000000000000000000000000000000000000000000000000000000000"

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"dinghyctl", "--url", srv.URL}, args...))
	return out.String(), err
}

func TestStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, api.PathStatus, r.URL.Path)
	}))
	defer srv.Close()

	out, err := run(t, srv, "status")
	require.NoError(t, err)
	require.Contains(t, out, "ok")
}

func TestHeader(t *testing.T) {
	t.Parallel()

	t.Run("NoBid", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		out, err := run(t, srv, "header", "--slot", "5", "--parent-hash", parent)
		require.NoError(t, err)
		require.Contains(t, out, "no bid")
	})

	t.Run("BadRequest", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"code":400,"message":"bad slot"}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := run(t, srv, "header", "--slot", "5", "--parent-hash", parent)
		require.ErrorContains(t, err, "received 400")
		require.ErrorContains(t, err, "bad slot")
	})

	t.Run("Path", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Contains(t, r.URL.Path, "/eth/v1/builder/header/5/"+parent+"/")
			w.Write([]byte(`{"version":"capella","data":{}}`))
		}))
		defer srv.Close()

		out, err := run(t, srv, "header", "--slot", "5", "--parent-hash", parent)
		require.NoError(t, err)
		require.Contains(t, out, `"version": "capella"`)
	})
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	header := json.RawMessage(`{"block_hash":"` + parent + `"}`)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(map[string]any{
				"version": "deneb",
				"data":    map[string]any{"message": map[string]any{"header": header}},
			})
			return
		}

		require.Equal(t, api.PathGetPayload, r.URL.Path)
		require.Equal(t, "deneb", r.Header.Get(api.HeaderConsensusVersion))

		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var block struct {
			Message struct {
				Slot string `json:"slot"`
				Body struct {
					Header json.RawMessage `json:"execution_payload_header"`
				} `json:"body"`
			} `json:"message"`
		}
		require.NoError(t, json.Unmarshal(b, &block))
		require.Equal(t, "9", block.Message.Slot)
		require.JSONEq(t, string(header), string(block.Message.Body.Header))

		w.Write([]byte(`{"version":"deneb","data":{}}`))
	}))
	defer srv.Close()

	out, err := run(t, srv, "submit", "--slot", "9", "--parent-hash", parent)
	require.NoError(t, err)
	require.Contains(t, out, `"version": "deneb"`)
}

func TestSubmitWithoutBid(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	_, err := run(t, srv, "submit", "--slot", "9", "--parent-hash", parent)
	require.ErrorContains(t, err, "no bid")
}

func TestBlindedBlockRequiresHeader(t *testing.T) {
	t.Parallel()

	_, err := blindedBlock(1, nil)
	require.Error(t, err)
}
