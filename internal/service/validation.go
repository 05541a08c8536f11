package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ValidationService posts the serialized model to an external validator and
// maps its findings back onto cell highlights. The core model is never
// mutated by a cancelled run: starting a new validation cancels the previous
// request, and a late result whose job id is no longer current is dropped.
type ValidationService struct {
	mu sync.Mutex

	editor   *EditorService
	endpoint string
	client   *http.Client

	currentJob string
	cancel     context.CancelFunc
}

// NewValidationService creates a validator client for the given endpoint.
func NewValidationService(editor *EditorService, endpoint string) *ValidationService {
	return &ValidationService{
		editor:   editor,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Validate serializes the model and starts an asynchronous validation run,
// returning the job id. A previous in-flight run is cancelled.
func (v *ValidationService) Validate(ctx context.Context) (string, error) {
	payload, err := v.editor.ExportModel()
	if err != nil {
		return "", fmt.Errorf("validate: %w", err)
	}

	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	jobID := uuid.NewString()
	v.currentJob = jobID
	v.cancel = cancel
	v.mu.Unlock()

	go v.run(runCtx, jobID, payload)
	return jobID, nil
}

// Cancel aborts the in-flight validation run, if any.
func (v *ValidationService) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
		v.currentJob = ""
	}
}

func (v *ValidationService) run(ctx context.Context, jobID string, payload []byte) {
	violations, err := v.post(ctx, payload)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("validation %s failed: %v", jobID, err)
		}
		return
	}

	v.mu.Lock()
	current := v.currentJob == jobID
	if current {
		v.currentJob = ""
		v.cancel = nil
	}
	v.mu.Unlock()
	if !current {
		// superseded by a newer run; ignore the late result
		return
	}

	v.editor.ApplyViolations(violations)
}

func (v *ValidationService) post(ctx context.Context, payload []byte) ([]Violation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/turtle")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("validator returned %d: %s", resp.StatusCode, body)
	}

	var violations []Violation
	if err := json.NewDecoder(resp.Body).Decode(&violations); err != nil {
		return nil, fmt.Errorf("decode validator response: %w", err)
	}
	return violations, nil
}
