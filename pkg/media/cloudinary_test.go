package media_test

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianmacetas/admin-api/pkg/clock"
	"github.com/brianmacetas/admin-api/pkg/httpclient"
	"github.com/brianmacetas/admin-api/pkg/media"
	"github.com/brianmacetas/admin-api/pkg/testkit"
)

func newTestCloudinary() *media.Cloudinary {
	return &media.Cloudinary{
		CloudName: "demo",
		Preset:    "unsigned_preset",
		APIKey:    "key123",
		APISecret: "shhh",
		BaseURL:   "https://api.cloudinary.com/v1_1",
		Timeout:   5 * time.Second,
		Clock:     clock.NewFakeClock(time.Unix(1700000000, 0)),
	}
}

func TestPublicIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1/abc123.png": "abc123",
		"https://res.cloudinary.com/demo/image/upload/x/y/foto.jpeg": "foto",
		"https://res.cloudinary.com/demo/sin-extension":              "sin-extension",
	}
	for in, want := range cases {
		assert.Equal(t, want, media.PublicIDFromURL(in), "url %s", in)
	}
	assert.Equal(t, "", media.PublicIDFromURL("://bad url"))
}

func TestUploadReturnsSecureURL(t *testing.T) {
	mt := testkit.NewMockTransport().
		On("https://api.cloudinary.com/v1_1/demo/image/upload", 200,
			`{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/nuevo.png"}`)
	httpclient.DefaultClient.Transport = mt
	defer httpclient.ResetTransport()

	c := newTestCloudinary()
	url, err := c.Upload(context.Background(), media.File{Name: "nuevo.png", Content: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/nuevo.png", url)
	testkit.AssertMocksAllCalled(t, mt)
}

func TestUploadHostErrorSurfaces(t *testing.T) {
	mt := testkit.NewMockTransport().
		On("https://api.cloudinary.com/v1_1/demo/image/upload", 400,
			`{"error":{"message":"Upload preset not found"}}`)
	httpclient.DefaultClient.Transport = mt
	defer httpclient.ResetTransport()

	c := newTestCloudinary()
	_, err := c.Upload(context.Background(), media.File{Name: "x.png", Content: []byte("png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upload preset not found")
}

func TestDeleteOK(t *testing.T) {
	mt := testkit.NewMockTransport().
		On("https://api.cloudinary.com/v1_1/demo/image/destroy", 200, `{"result":"ok"}`)
	httpclient.DefaultClient.Transport = mt
	defer httpclient.ResetTransport()

	c := newTestCloudinary()
	err := c.Delete(context.Background(), "https://res.cloudinary.com/demo/image/upload/v1/abc123.png")
	require.NoError(t, err)
	testkit.AssertMocksAllCalled(t, mt)
}

func TestDeleteNotFoundIsRejected(t *testing.T) {
	mt := testkit.NewMockTransport().
		On("https://api.cloudinary.com/v1_1/demo/image/destroy", 200, `{"result":"not found"}`)
	httpclient.DefaultClient.Transport = mt
	defer httpclient.ResetTransport()

	c := newTestCloudinary()
	err := c.Delete(context.Background(), "https://res.cloudinary.com/demo/image/upload/v1/abc123.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, media.ErrDeleteRejected))
}

func TestDeleteSignatureUsesClockPerCall(t *testing.T) {
	// The signature must be sha1("public_id=<id>&timestamp=<ts>"+secret) with
	// the timestamp taken from the injected clock at call time, not captured
	// once at startup.
	fake := clock.NewFakeClock(time.Unix(1700000000, 0))

	type captured struct{ publicID, timestamp, signature, apiKey string }
	var calls []captured

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		calls = append(calls, captured{
			publicID:  r.PostFormValue("public_id"),
			timestamp: r.PostFormValue("timestamp"),
			signature: r.PostFormValue("signature"),
			apiKey:    r.PostFormValue("api_key"),
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	c := newTestCloudinary()
	c.Clock = fake
	c.BaseURL = srv.URL

	require.NoError(t, c.Delete(context.Background(), "https://res.cloudinary.com/demo/abc.png"))

	fake.Advance(time.Hour)
	require.NoError(t, c.Delete(context.Background(), "https://res.cloudinary.com/demo/abc.png"))

	require.Len(t, calls, 2)
	assert.Equal(t, "abc", calls[0].publicID)
	assert.Equal(t, "key123", calls[0].apiKey)
	assert.Equal(t, "1700000000", calls[0].timestamp)
	assert.Equal(t, "1700003600", calls[1].timestamp)

	for _, call := range calls {
		sum := sha1.Sum([]byte("public_id=" + call.publicID + "&timestamp=" + call.timestamp + "shhh"))
		assert.Equal(t, hex.EncodeToString(sum[:]), call.signature)
	}
}
