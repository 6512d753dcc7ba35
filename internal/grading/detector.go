package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RemoteDetector calls an external inference endpoint that runs the
// object-detection model. It posts the raw image bytes and expects a JSON
// body listing detections with confidence scores.
type RemoteDetector struct {
	url    string
	client *http.Client
}

func NewRemoteDetector(url string, timeout time.Duration) *RemoteDetector {
	return &RemoteDetector{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type detectResponse struct {
	Detections []struct {
		Confidence float64 `json:"confidence"`
	} `json:"detections"`
}

func (d *RemoteDetector) Detect(ctx context.Context, image []byte) ([]float64, error) {
	if d.url == "" {
		return nil, errors.New("detector endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call detector: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector returned status %d", resp.StatusCode)
	}

	var body detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode detector response: %w", err)
	}

	confidences := make([]float64, len(body.Detections))
	for i, det := range body.Detections {
		confidences[i] = det.Confidence
	}
	return confidences, nil
}
