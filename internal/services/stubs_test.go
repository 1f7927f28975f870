package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// stubEmbedClient is a deterministic in-process provider. Every input embeds
// to the configured vector unless err is set.
type stubEmbedClient struct {
	mu    sync.Mutex
	model string
	vec   []float32
	err   error
	calls int
}

func (c *stubEmbedClient) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.calls++
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = append([]float32(nil), c.vec...)
	}
	return out, nil
}

func (c *stubEmbedClient) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

func (c *stubEmbedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// recordingDuplicates captures scan requests so coordinator tests can assert
// the post-commit hook fired without doing real similarity work.
type recordingDuplicates struct {
	mu    sync.Mutex
	scans []uuid.UUID
}

func (d *recordingDuplicates) ScanEntity(context.Context, string, uuid.UUID, EntitySnapshot) error {
	return nil
}

func (d *recordingDuplicates) ScanEntityAsync(_ string, entityID uuid.UUID, _ EntitySnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scans = append(d.scans, entityID)
}

func (d *recordingDuplicates) Drain() {}

func (d *recordingDuplicates) List(context.Context, string) ([]CandidateView, error) {
	return nil, nil
}

func (d *recordingDuplicates) Resolve(context.Context, uuid.UUID, string, string) (*CandidateView, error) {
	return nil, nil
}

func (d *recordingDuplicates) Ignore(context.Context, uuid.UUID, string) (*CandidateView, error) {
	return nil, nil
}

func (d *recordingDuplicates) Merge(context.Context, uuid.UUID, string, string) (*CandidateView, error) {
	return nil, nil
}

func (d *recordingDuplicates) scanned() []uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uuid.UUID(nil), d.scans...)
}
