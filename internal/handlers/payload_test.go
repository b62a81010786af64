package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarmuz-dev/tarmuz/internal/testutil"
)

func payloadFrom(t *testing.T, req *http.Request) (*payload, error) {
	t.Helper()

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = req
	return readPayload(ctx)
}

func jsonPayload(t *testing.T, body string) *payload {
	t.Helper()

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	p, err := payloadFrom(t, req)
	require.NoError(t, err)
	return p
}

func TestReadPayload(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		p := jsonPayload(t, "")
		assert.Empty(t, p.fields)
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader("{nope"))
		req.Header.Set("Content-Type", "application/json")

		_, err := payloadFrom(t, req)
		assert.EqualError(t, err, "invalid JSON body")
	})

	t.Run("urlencoded", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString("title_en=Hi&tags=a&tags=b"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		p, err := payloadFrom(t, req)
		require.NoError(t, err)

		title, ok := p.str("title_en")
		assert.True(t, ok)
		assert.Equal(t, "Hi", title)
		assert.Equal(t, []string{"a", "b"}, *p.list("tags"))
	})

	t.Run("multipart", func(t *testing.T) {
		req := testutil.NewForm(t).Field("existingImages", `["x","y"]`).Request(http.MethodPut, "/")

		p, err := payloadFrom(t, req)
		require.NoError(t, err)
		require.NotNil(t, p.form)
		assert.Equal(t, []string{"x", "y"}, *p.list("existingImages"))
	})
}

func TestPayloadBoolean(t *testing.T) {
	p := jsonPayload(t, `{"a": true, "b": "off", "c": 1, "d": "YES", "e": null, "f": "", "g": "maybe"}`)

	tests := []struct {
		key   string
		value bool
		ok    bool
		err   bool
	}{
		{"a", true, true, false},
		{"b", false, true, false},
		{"c", true, true, false},
		{"d", true, true, false},
		{"e", false, true, false},
		{"f", false, true, false},
		{"g", false, true, true},
		{"missing", false, false, false},
	}

	for _, tt := range tests {
		value, ok, err := p.boolean(tt.key)
		assert.Equal(t, tt.value, value, tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.err, err != nil, tt.key)
	}

	dst := true
	require.NoError(t, p.setBool(&dst, "missing"))
	assert.True(t, dst, "absent keys leave the value alone")
}

func TestPayloadInt(t *testing.T) {
	p := jsonPayload(t, `{"n": 4, "s": " 7 ", "blank": "", "bad": "x"}`)

	n := -1
	require.NoError(t, p.setInt(&n, "n"))
	assert.Equal(t, 4, n)

	require.NoError(t, p.setInt(&n, "s"))
	assert.Equal(t, 7, n)

	require.NoError(t, p.setInt(&n, "blank"))
	assert.Equal(t, 7, n)

	assert.EqualError(t, p.setInt(&n, "bad"), "bad must be a number")
}

func TestPayloadList(t *testing.T) {
	p := jsonPayload(t, `{
		"array": ["a", 1, "b"],
		"encoded": "[\"a\",\"b\"]",
		"malformed": "[\"a\",",
		"single": "https://cdn/a.png",
		"empty": ""
	}`)

	assert.Nil(t, p.list("missing"))
	assert.Equal(t, []string{"a", "b"}, *p.list("array"))
	assert.Equal(t, []string{"a", "b"}, *p.list("encoded"))
	assert.Equal(t, []string{}, *p.list("malformed"))
	assert.Equal(t, []string{"https://cdn/a.png"}, *p.list("single"))
	assert.Equal(t, []string{}, *p.list("empty"))
}

func TestPayloadRest(t *testing.T) {
	req := testutil.NewForm(t).
		Field("title_en", "x").
		Field("features", `[{"name":"Quality"}]`).
		Field("meta", `{"k":1}`).
		Field("note", "[not json").
		Request(http.MethodPut, "/")

	p, err := payloadFrom(t, req)
	require.NoError(t, err)

	rest := p.rest(map[string]bool{"title_en": true})
	assert.Equal(t, map[string]any{
		"features": []any{map[string]any{"name": "Quality"}},
		"meta":     map[string]any{"k": float64(1)},
		"note":     "[not json",
	}, rest)
}
