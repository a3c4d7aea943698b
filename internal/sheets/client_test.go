package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var creds = Credentials{SheetID: "sheet-1", APIKey: "key-1"}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithEndpoint(srv.URL + "/"))
}

func TestValues(t *testing.T) {
	var gotPath, gotKey string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"range":"A1:E3","majorDimension":"ROWS","values":[["구분","작업명"],["A","Report",3],[]]}`))
	})

	rows, err := c.Values(context.Background(), creds, "A:E")
	require.NoError(t, err)
	assert.Equal(t, "key-1", gotKey)
	assert.True(t, strings.HasSuffix(gotPath, "/spreadsheets/sheet-1/values/A:E"), gotPath)
	assert.Equal(t, [][]string{{"구분", "작업명"}, {"A", "Report", "3"}, {}}, rows)
}

func TestValues_Empty(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"range":"A1:E1000","majorDimension":"ROWS"}`))
	})

	rows, err := c.Values(context.Background(), creds, "A:E")
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestValues_TransportError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`))
	})

	_, err := c.Values(context.Background(), creds, "A:E")
	var terr *TransportError
	require.True(t, errors.As(err, &terr), "got %v", err)
	assert.Equal(t, http.StatusForbidden, terr.Status)
	assert.Contains(t, terr.Error(), "403")
	assert.Contains(t, terr.Body, "permission")
}

func TestCheckAccess(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "key-1" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"API key not valid"}}`))
			return
		}
		assert.Equal(t, "spreadsheetId", r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	})

	require.NoError(t, c.CheckAccess(context.Background(), creds))

	err := c.CheckAccess(context.Background(), Credentials{SheetID: "sheet-1", APIKey: "wrong"})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusBadRequest, terr.Status)
}

func TestCredentialsValid(t *testing.T) {
	assert.True(t, creds.Valid())
	assert.False(t, Credentials{SheetID: "x"}.Valid())
	assert.False(t, Credentials{APIKey: "x"}.Valid())
}
