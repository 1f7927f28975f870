package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
	"github.com/lodestone-app/lodestone-backend/internal/services"
)

// duplicatesStub answers every ledger call with a minimal candidate and
// records which IDs were ignored.
type duplicatesStub struct {
	mu      sync.Mutex
	ignored []uuid.UUID
}

func (d *duplicatesStub) ScanEntity(context.Context, string, uuid.UUID, services.EntitySnapshot) error {
	return nil
}

func (d *duplicatesStub) ScanEntityAsync(string, uuid.UUID, services.EntitySnapshot) {}

func (d *duplicatesStub) Drain() {}

func (d *duplicatesStub) List(context.Context, string) ([]services.CandidateView, error) {
	return nil, nil
}

func (d *duplicatesStub) Resolve(_ context.Context, id uuid.UUID, _, _ string) (*services.CandidateView, error) {
	return &services.CandidateView{DuplicateCandidate: &types.DuplicateCandidate{ID: id}}, nil
}

func (d *duplicatesStub) Ignore(_ context.Context, id uuid.UUID, _ string) (*services.CandidateView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ignored = append(d.ignored, id)
	return &services.CandidateView{DuplicateCandidate: &types.DuplicateCandidate{ID: id}}, nil
}

func (d *duplicatesStub) Merge(_ context.Context, id uuid.UUID, _, _ string) (*services.CandidateView, error) {
	return &services.CandidateView{DuplicateCandidate: &types.DuplicateCandidate{ID: id}}, nil
}

func newDuplicateRouter(t *testing.T) (*duplicatesStub, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	stub := &duplicatesStub{}
	h := NewDuplicateHandler(log, stub)
	r := gin.New()
	r.POST("/duplicates/:id/resolve", h.Resolve)
	r.POST("/duplicates/:id/ignore", h.Ignore)
	return stub, r
}

func TestIgnoreAcceptsEmptyBody(t *testing.T) {
	stub, r := newDuplicateRouter(t)
	id := uuid.New()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/duplicates/"+id.String()+"/ignore", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("empty body should be accepted, got %d: %s", w.Code, w.Body.String())
	}
	if len(stub.ignored) != 1 || stub.ignored[0] != id {
		t.Fatalf("ignore not forwarded to the service: %v", stub.ignored)
	}
}

func TestIgnoreRejectsMalformedBody(t *testing.T) {
	stub, r := newDuplicateRouter(t)
	id := uuid.New()

	body := strings.NewReader("{not json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/duplicates/"+id.String()+"/ignore", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body should be rejected, got %d", w.Code)
	}
	if len(stub.ignored) != 0 {
		t.Fatal("service called despite malformed body")
	}
}

func TestResolveRequiresBody(t *testing.T) {
	_, r := newDuplicateRouter(t)
	id := uuid.New()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/duplicates/"+id.String()+"/resolve", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("resolve without a body should be rejected, got %d", w.Code)
	}
}
