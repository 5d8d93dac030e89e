package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/brianmacetas/admin-api/config"
	"github.com/brianmacetas/admin-api/pkg/clock"
	"github.com/brianmacetas/admin-api/pkg/httpclient"
	"github.com/brianmacetas/admin-api/pkg/metrics"
)

const cloudinaryBase = "https://api.cloudinary.com/v1_1"

// Cloudinary talks to the Cloudinary image API. Uploads use an unsigned
// upload preset; destroys are signed per call with the API secret.
type Cloudinary struct {
	CloudName string
	Preset    string
	APIKey    string
	APISecret string
	BaseURL   string // overridable for tests
	Timeout   time.Duration
	Clock     clock.Clock
}

// NewCloudinary builds a driver from the application config.
func NewCloudinary() *Cloudinary {
	return &Cloudinary{
		CloudName: config.CloudinaryCloudName(),
		Preset:    config.CloudinaryPreset(),
		APIKey:    config.CloudinaryAPIKey(),
		APISecret: config.CloudinaryAPISecret(),
		BaseURL:   cloudinaryBase,
		Timeout:   config.MediaTimeout(),
		Clock:     clock.NewRealClock(),
	}
}

type uploadResult struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends f as a multipart form with the configured upload preset and
// returns the secure URL Cloudinary assigned.
func (c *Cloudinary) Upload(ctx context.Context, f File) (string, error) {
	defer func(start time.Time) {
		metrics.MediaCallDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())
	}(time.Now())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", f.Name)
	if err != nil {
		return "", fmt.Errorf("media: build multipart: %w", err)
	}
	if _, err := part.Write(f.Content); err != nil {
		return "", fmt.Errorf("media: write file part: %w", err)
	}
	if err := mw.WriteField("upload_preset", c.Preset); err != nil {
		return "", fmt.Errorf("media: write preset field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("media: close multipart: %w", err)
	}

	resp, err := httpclient.Post(c.uploadURL()).
		WithContext(ctx).
		Timeout(c.Timeout).
		RawBody(buf.Bytes(), mw.FormDataContentType()).
		Send()
	if err != nil {
		return "", fmt.Errorf("media: upload %s: %w", f.Name, err)
	}

	var result uploadResult
	if err := resp.JSON(&result); err != nil {
		return "", fmt.Errorf("media: upload %s: %w", f.Name, err)
	}
	if !resp.OK() || result.SecureURL == "" {
		return "", fmt.Errorf("media: upload %s: host returned status %d: %s",
			f.Name, resp.StatusCode, result.Error.Message)
	}

	return result.SecureURL, nil
}

type destroyResult struct {
	Result string `json:"result"`
}

// Delete destroys the asset behind assetURL. The request is signed with a
// fresh timestamp on every call; a non-"ok" answer maps to ErrDeleteRejected.
func (c *Cloudinary) Delete(ctx context.Context, assetURL string) error {
	defer func(start time.Time) {
		metrics.MediaCallDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	}(time.Now())

	publicID := PublicIDFromURL(assetURL)
	if publicID == "" {
		return fmt.Errorf("media: cannot derive public id from %q: %w", assetURL, ErrDeleteRejected)
	}

	ts := strconv.FormatInt(c.Clock.Now().Unix(), 10)

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", ts)
	form.Set("api_key", c.APIKey)
	form.Set("signature", c.sign(publicID, ts))

	resp, err := httpclient.Post(c.destroyURL()).
		WithContext(ctx).
		Timeout(c.Timeout).
		Body(form).
		Send()
	if err != nil {
		return fmt.Errorf("media: destroy %s: %w", publicID, err)
	}

	var result destroyResult
	if err := resp.JSON(&result); err != nil {
		return fmt.Errorf("media: destroy %s: %w", publicID, err)
	}
	if result.Result != "ok" {
		return fmt.Errorf("media: destroy %s: host answered %q: %w", publicID, result.Result, ErrDeleteRejected)
	}

	return nil
}

// Usage fetches the account usage report from the Cloudinary admin API.
func (c *Cloudinary) Usage(ctx context.Context) (map[string]interface{}, error) {
	resp, err := httpclient.Get(c.BaseURL + "/" + c.CloudName + "/usage").
		WithContext(ctx).
		Timeout(c.Timeout).
		Header("Authorization", "Basic "+basicAuth(c.APIKey, c.APISecret)).
		Send()
	if err != nil {
		return nil, fmt.Errorf("media: usage: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("media: usage: %w", err)
	}

	var usage map[string]interface{}
	if err := resp.JSON(&usage); err != nil {
		return nil, fmt.Errorf("media: usage: %w", err)
	}
	return usage, nil
}

// sign builds the SHA-1 signature Cloudinary expects over the destroy
// parameters: sha1("public_id=<id>&timestamp=<ts>" + secret).
func (c *Cloudinary) sign(publicID, timestamp string) string {
	payload := "public_id=" + publicID + "&timestamp=" + timestamp + c.APISecret
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func (c *Cloudinary) uploadURL() string {
	return c.BaseURL + "/" + c.CloudName + "/image/upload"
}

func (c *Cloudinary) destroyURL() string {
	return c.BaseURL + "/" + c.CloudName + "/image/destroy"
}

// PublicIDFromURL extracts the Cloudinary public id from a delivery URL:
// the final path segment with its extension stripped.
func PublicIDFromURL(assetURL string) string {
	u, err := url.Parse(assetURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

func basicAuth(user, pass string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}
