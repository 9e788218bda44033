package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_PutRules(t *testing.T) {
	var gotBody, gotType, gotMethod, gotPath, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL+"/api/rules/", nil, nil)
	err := tr.PutRules(context.Background(), []byte("<TransformRules></TransformRules>"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/rules/rules", gotPath)
	assert.Equal(t, ContentTypeXML, gotType)
	assert.Equal(t, "<TransformRules></TransformRules>", gotBody)
	assert.Len(t, gotRequestID, 36)
}

func TestHTTPTransport_ErrorIsVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Rule 'x' references unknown path", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewHTTPTransport(srv.URL, nil, nil).PutRules(context.Background(), []byte("<TransformRules/>"))
	var terr *Error
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusBadRequest, terr.StatusCode)
	assert.Equal(t, "Rule 'x' references unknown path\n", terr.Message)
}

func TestHTTPTransport_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPTransport(url, nil, nil).PutRules(context.Background(), nil)
	require.Error(t, err)
	var terr *Error
	assert.False(t, errors.As(err, &terr))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "boom", (&Error{Message: "boom"}).Error())
	assert.Equal(t, "rules api returned 500: boom", (&Error{StatusCode: 500, Message: "boom"}).Error())
}

func TestHTTPTransport_ProjectHeader(t *testing.T) {
	var gotProject string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotProject = r.Header.Get(HeaderProject)
	}))
	defer srv.Close()

	err := NewHTTPTransport(srv.URL, nil, nil).WithProject("orders").
		PutRules(context.Background(), []byte("<TransformRules></TransformRules>"))
	require.NoError(t, err)
	assert.Equal(t, "orders", gotProject)
}
