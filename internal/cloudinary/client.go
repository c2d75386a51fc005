// Package cloudinary signs and issues image upload/destroy requests against
// the Cloudinary REST API.
package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.cloudinary.com"

// UploadResult is the subset of Cloudinary's upload response the site uses.
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type Client struct {
	BaseURL    string
	CloudName  string
	APIKey     string
	HTTPClient *http.Client

	apiSecret string
}

func NewClient(cloudName, apiKey, apiSecret string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		CloudName:  cloudName,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		apiSecret:  apiSecret,
	}
}

// Upload sends a (usually base64 data-URI) file into the given folder and
// returns its hosted location.
func (c *Client) Upload(ctx context.Context, file, folder string) (*UploadResult, error) {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	signature := Sign(map[string]string{
		"folder":    folder,
		"timestamp": timestamp,
	}, c.apiSecret)

	form := url.Values{}
	form.Set("file", file)
	form.Set("folder", folder)
	form.Set("api_key", c.APIKey)
	form.Set("timestamp", timestamp)
	form.Set("signature", signature)

	resp, err := c.post(ctx, "upload", form)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cloudinary upload failed: status %d", resp.StatusCode)
	}

	result := new(UploadResult)
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return result, nil
}

// Destroy deletes a hosted image. Cloudinary reports success through the
// response body, so a 200 with result != "ok" is still a failure.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	signature := Sign(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}, c.apiSecret)

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("signature", signature)
	form.Set("api_key", c.APIKey)
	form.Set("timestamp", timestamp)

	resp, err := c.post(ctx, "destroy", form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("cloudinary destroy failed: status %d", resp.StatusCode)
	}

	var result struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	if result.Result != "ok" {
		return fmt.Errorf("cloudinary destroy failed: result %q", result.Result)
	}
	return nil
}

// PublicIDFromURL recovers the "folder/name" public id from a hosted image URL.
func PublicIDFromURL(imageURL, folder string) string {
	segments := strings.Split(imageURL, "/")
	last := segments[len(segments)-1]
	name := strings.SplitN(last, ".", 2)[0]
	return folder + "/" + name
}

// Sign computes Cloudinary's request signature: SHA-1 over the sorted
// k=v pairs joined with '&', with the API secret appended.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func (c *Client) post(ctx context.Context, action string, form url.Values) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/v1_1/%s/image/%s", c.BaseURL, c.CloudName, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary request failed: %w", err)
	}
	return resp, nil
}
