package services

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/normalization"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

// SignatureAlgorithmVersion tags stored signatures. Bump it whenever the slot
// count, shingle size or hashing changes; stored signatures with a lower
// version are stale and get recomputed lazily on next access.
const SignatureAlgorithmVersion = 1

const (
	signatureSlots = 64
	shingleSize    = 3
)

// SignatureService computes and stores MinHash fingerprints used to screen
// candidate pairs before full-vector comparison.
type SignatureService interface {
	// Compute is pure: MinHash slots over word shingles of the normalized
	// text.
	Compute(text string) []uint64
	// EstimateSimilarity is the fraction of matching slots: symmetric,
	// deterministic, correlated with Jaccard similarity of the shingle
	// sets and therefore with cosine similarity of the embeddings.
	EstimateSimilarity(a, b []uint64) float64
	// GetOrCompute returns the stored signature when it is current (same
	// algorithm version, same content snapshot), recomputing and
	// persisting otherwise.
	GetOrCompute(ctx context.Context, entityType string, entityID uuid.UUID, text string) (*types.EntitySignature, error)
	IsStale(sig *types.EntitySignature, currentVersion int) bool
}

type signatureService struct {
	db   *gorm.DB
	log  *logger.Logger
	sigs repos.EntitySignatureRepo
}

func NewSignatureService(db *gorm.DB, baseLog *logger.Logger, sigs repos.EntitySignatureRepo) SignatureService {
	return &signatureService{
		db:   db,
		log:  baseLog.With("service", "SignatureService"),
		sigs: sigs,
	}
}

func (s *signatureService) Compute(text string) []uint64 {
	shingles := shingle(normalization.Normalize(text))
	slots := make([]uint64, signatureSlots)
	for i := range slots {
		slots[i] = ^uint64(0)
	}
	if len(shingles) == 0 {
		return slots
	}
	for _, sh := range shingles {
		for band := 0; band < signatureSlots; band++ {
			h := bandHash(band, sh)
			if h < slots[band] {
				slots[band] = h
			}
		}
	}
	return slots
}

func (s *signatureService) EstimateSimilarity(a, b []uint64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}

func (s *signatureService) GetOrCompute(ctx context.Context, entityType string, entityID uuid.UUID, text string) (*types.EntitySignature, error) {
	if entityType == "" || entityID == uuid.Nil {
		return nil, fmt.Errorf("missing entity identity")
	}
	snapshot := normalization.Normalize(text)

	existing, err := s.sigs.GetByEntity(ctx, nil, entityType, entityID, SignatureAlgorithmVersion)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ContentSnapshot == snapshot && !s.IsStale(existing, SignatureAlgorithmVersion) {
		return existing, nil
	}

	row := &types.EntitySignature{
		ID:               uuid.New(),
		EntityType:       entityType,
		EntityID:         entityID,
		Signature:        SerializeSignature(s.Compute(snapshot)),
		ContentSnapshot:  snapshot,
		AlgorithmVersion: SignatureAlgorithmVersion,
		ComputedAt:       time.Now().UTC(),
	}
	if existing != nil {
		row.ID = existing.ID
	}
	if err := s.sigs.Upsert(ctx, nil, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *signatureService) IsStale(sig *types.EntitySignature, currentVersion int) bool {
	if sig == nil {
		return true
	}
	return sig.AlgorithmVersion < currentVersion
}

// SerializeSignature encodes slots big-endian; DeserializeSignature reverses
// it. The byte form is what EntitySignature persists.
func SerializeSignature(slots []uint64) []byte {
	out := make([]byte, 8*len(slots))
	for i, v := range slots {
		binary.BigEndian.PutUint64(out[i*8:], v)
	}
	return out
}

func DeserializeSignature(raw []byte) ([]uint64, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("signature bytes not a multiple of 8: %d", len(raw))
	}
	out := make([]uint64, len(raw)/8)
	for i := range out {
		out[i] = binary.BigEndian.Uint64(raw[i*8:])
	}
	return out, nil
}

func shingle(normalized string) []string {
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return nil
	}
	if len(words) < shingleSize {
		return []string{strings.Join(words, " ")}
	}
	out := make([]string, 0, len(words)-shingleSize+1)
	for i := 0; i+shingleSize <= len(words); i++ {
		out = append(out, strings.Join(words[i:i+shingleSize], " "))
	}
	return out
}

func bandHash(band int, shingle string) uint64 {
	h := fnv.New64a()
	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], uint64(band)+0x9e3779b97f4a7c15)
	_, _ = h.Write(seed[:])
	_, _ = h.Write([]byte(shingle))
	return h.Sum64()
}
