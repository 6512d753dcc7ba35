// Package upload produces signed parameters that let clients upload image
// files directly to Cloudinary. The server never proxies image bytes; it
// only signs the upload request.
package upload

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Signer holds Cloudinary credentials and the target folder.
type Signer struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
}

func NewSigner(cloudName, apiKey, apiSecret, folder string) *Signer {
	return &Signer{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
	}
}

// Configured reports whether all required credentials are present.
func (s *Signer) Configured() bool {
	return s.cloudName != "" && s.apiKey != "" && s.apiSecret != ""
}

// Sign computes the Cloudinary API signature over the given parameters:
// keys sorted, joined as k=v with '&', the API secret appended, SHA-1 hex.
func (s *Signer) Sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, params[k]))
	}
	payload := strings.Join(parts, "&") + s.apiSecret

	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Signature bundles everything the client needs to call Cloudinary directly.
type Signature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

// SignUpload signs an upload request for the configured folder at the given
// time. Callers pass time.Now(); tests pass a fixed instant.
func (s *Signer) SignUpload(now time.Time) Signature {
	ts := now.Unix()
	sig := s.Sign(map[string]string{
		"timestamp": fmt.Sprintf("%d", ts),
		"folder":    s.folder,
	})
	return Signature{
		Signature: sig,
		Timestamp: ts,
		APIKey:    s.apiKey,
		CloudName: s.cloudName,
		Folder:    s.folder,
	}
}
