package badger

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

// VectorIndex implements storage.VectorIndex with an exact scan over stored vectors.
type VectorIndex struct {
	backend    *Backend
	dimensions int
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a VectorIndex accepting vectors of the given dimensionality.
// A dimensionality of zero accepts any non-empty vector.
func NewVectorIndex(backend *Backend, dimensions int) *VectorIndex {
	return &VectorIndex{
		backend:    backend,
		dimensions: dimensions,
	}
}

// Upsert stores or replaces the vector for id.
func (v *VectorIndex) Upsert(ctx context.Context, id string, vector []float32) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", storage.ErrInvalidQuery)
	}
	if err := v.checkDimensions(vector); err != nil {
		return err
	}
	return v.backend.Update(func(tx *badger.Txn) error {
		if err := tx.Set(makeVectorKey(id), storage.MarshalVector(vector)); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// Query returns the topK most similar ids by cosine similarity.
// With an allowlist only those ids are read; otherwise every vector is scanned.
func (v *VectorIndex) Query(ctx context.Context, vector []float32, topK int, allowlist []string) ([]core.ScoredID, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive", storage.ErrInvalidQuery)
	}
	if err := v.checkDimensions(vector); err != nil {
		return nil, err
	}
	if allowlist != nil && len(allowlist) == 0 {
		return []core.ScoredID{}, nil
	}

	queryNorm := norm(vector)
	results := []core.ScoredID{}
	score := func(id string, val []byte) error {
		stored, err := storage.UnmarshalVector(val)
		if err != nil {
			return err
		}
		if len(stored) != len(vector) {
			v.backend.logger.Warn("skipping vector with mismatched dimensions", "id", id, "got", len(stored), "want", len(vector))
			return nil
		}
		results = append(results, core.ScoredID{ID: id, Score: cosine(vector, stored, queryNorm)})
		return nil
	}

	err := v.backend.View(func(tx *badger.Txn) error {
		if allowlist == nil {
			prefix := []byte(vectorPrefix)
			return scanPrefix(tx, prefix, true, func(key, val []byte) error {
				return score(string(bytes.TrimPrefix(key, prefix)), val)
			})
		}

		seen := make(map[string]struct{}, len(allowlist))
		for _, id := range allowlist {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			val, err := readValue(tx, makeVectorKey(id))
			if err != nil {
				return err
			}
			if val == nil {
				continue
			}
			if err := score(id, val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending, id ascending on ties
	slices.SortFunc(results, func(a, b core.ScoredID) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (v *VectorIndex) checkDimensions(vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector", storage.ErrDimensionMismatch)
	}
	if v.dimensions > 0 && len(vector) != v.dimensions {
		return fmt.Errorf("%w: got %d, want %d", storage.ErrDimensionMismatch, len(vector), v.dimensions)
	}
	return nil
}

// cosine computes the cosine similarity of a and b in float64, clamped to [-1, 1].
// Zero vectors score 0.
func cosine(a, b []float32, normA float64) float64 {
	normB := norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	s := dot / (normA * normB)
	return math.Max(-1, math.Min(1, s))
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
