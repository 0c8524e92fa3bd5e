package net

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== 测试辅助 ====================

type memCreds struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (m *memCreds) Token(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memCreds) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared++
	return nil
}

func setupNetTestServer(t *testing.T) *httptest.Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/api/echo", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"authorization": c.GetHeader("Authorization"),
			"request_id":    c.GetHeader("X-Request-ID"),
			"q":             c.Query("q"),
		})
	})
	r.GET("/api/protected", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
	})
	r.GET("/api/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
	})
	r.GET("/api/plain", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "boom")
	})
	r.GET("/api/message", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "bad input"})
	})
	r.GET("/api/slow", func(c *gin.Context) {
		time.Sleep(300 * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{})
	})
	r.POST("/api/upload", func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var names []string
		for _, fh := range form.File["images"] {
			names = append(names, fh.Filename)
		}
		c.JSON(http.StatusOK, gin.H{
			"title":     c.PostForm("title"),
			"amenities": form.Value["amenities"],
			"images":    names,
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type echoResp struct {
	Authorization string `json:"authorization"`
	RequestID     string `json:"request_id"`
	Q             string `json:"q"`
}

// ==================== 测试用例 ====================

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	srv := setupNetTestServer(t)
	creds := &memCreds{token: "abc.def.ghi"}
	c := NewClient(Config{BaseURL: srv.URL + "/api/"}, creds, nil)

	var out echoResp
	err := c.Do(context.Background(), http.MethodGet, "/echo",
		WithQuery(map[string]string{"q": "kilimani"}),
		WithResult(&out),
	)
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc.def.ghi", out.Authorization)
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, "kilimani", out.Q)
}

func TestClient_AnonymousWithoutToken(t *testing.T) {
	srv := setupNetTestServer(t)
	c := NewClient(Config{BaseURL: srv.URL + "/api"}, &memCreds{}, nil)

	var out echoResp
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/echo", WithResult(&out)))
	assert.Empty(t, out.Authorization)
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	srv := setupNetTestServer(t)
	creds := &memCreds{token: "stale"}
	c := NewClient(Config{BaseURL: srv.URL + "/api"}, creds, nil)

	err := c.Do(context.Background(), http.MethodGet, "/protected")
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "Token expired", ServerMessage(err))
	assert.Equal(t, 1, creds.cleared)
	assert.Empty(t, creds.token)
}

func TestClient_UnauthorizedSkippedForLogin(t *testing.T) {
	srv := setupNetTestServer(t)
	creds := &memCreds{token: "keep-me"}
	c := NewClient(Config{BaseURL: srv.URL + "/api"}, creds, nil)

	err := c.Do(WithoutSessionReset(context.Background()), http.MethodGet, "/protected")
	require.Error(t, err)

	assert.Equal(t, 0, creds.cleared)
	assert.Equal(t, "keep-me", creds.token)
}

func TestClient_ErrorNormalization(t *testing.T) {
	srv := setupNetTestServer(t)
	c := NewClient(Config{BaseURL: srv.URL + "/api"}, nil, nil)
	ctx := context.Background()

	err := c.Do(ctx, http.MethodGet, "/missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Listing not found", apiErr.Message)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrNetwork))

	err = c.Do(ctx, http.MethodGet, "/message")
	assert.Equal(t, "bad input", ServerMessage(err))

	// 非 JSON 错误体：没有服务端提示，使用兜底文案
	err = c.Do(ctx, http.MethodGet, "/plain")
	require.Error(t, err)
	assert.Equal(t, "Something went wrong", UserMessage(err, "Something went wrong"))
}

func TestClient_TimeoutIsNetworkError(t *testing.T) {
	srv := setupNetTestServer(t)
	c := NewClient(Config{BaseURL: srv.URL + "/api", Timeout: 50 * time.Millisecond}, nil, nil)

	err := c.Do(context.Background(), http.MethodGet, "/slow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestClient_UnreachableIsNetworkError(t *testing.T) {
	srv := setupNetTestServer(t)
	base := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: base + "/api", Timeout: time.Second}, nil, nil)
	err := c.Do(context.Background(), http.MethodGet, "/echo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Equal(t, "fallback", UserMessage(err, "fallback"))
}

func TestClient_MultipartPreservesOrder(t *testing.T) {
	srv := setupNetTestServer(t)
	c := NewClient(Config{BaseURL: srv.URL + "/api"}, nil, nil)

	fields := url.Values{}
	fields.Set("title", "Cozy bedsitter")
	fields.Add("amenities", "Parking")
	fields.Add("amenities", "WiFi")

	files := []FilePart{
		{Param: "images", Filename: "cover.jpg", ContentType: "image/jpeg", Data: []byte("1")},
		{Param: "images", Filename: "kitchen.jpg", ContentType: "image/jpeg", Data: []byte("2")},
		{Param: "images", Filename: "bath.jpg", ContentType: "image/jpeg", Data: []byte("3")},
	}

	var out struct {
		Title     string   `json:"title"`
		Amenities []string `json:"amenities"`
		Images    []string `json:"images"`
	}
	err := c.Do(context.Background(), http.MethodPost, "/upload",
		WithMultipart(fields, files),
		WithResult(&out),
	)
	require.NoError(t, err)

	assert.Equal(t, "Cozy bedsitter", out.Title)
	assert.Equal(t, []string{"Parking", "WiFi"}, out.Amenities)
	assert.Equal(t, []string{"cover.jpg", "kitchen.jpg", "bath.jpg"}, out.Images)
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{Err: io.ErrUnexpectedEOF}
	assert.Contains(t, err.Error(), "network failure")
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	err = &APIError{StatusCode: 422, Message: "Price too low"}
	assert.Equal(t, "api error [422]: Price too low", err.Error())
}
