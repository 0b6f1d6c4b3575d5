package domain

import (
	"fmt"
	"sort"
)

// Snapshot is an immutable exact vector index over a corpus.
// Row i of the vectors corresponds to ids[i] and texts[i].
// A Snapshot is safe for concurrent use once built.
type Snapshot struct {
	dimension int
	vectors   [][]float32
	ids       []string
	texts     []string
}

// NewSnapshot builds an index from parallel slices of vectors, ids and texts.
// The slices are copied, so later changes by the caller do not affect the snapshot.
//
// Returns ErrEmptyCorpus for zero documents, ErrInvalidInput when the slice
// lengths disagree, and a *DimensionError when any vector length differs
// from the first.
func NewSnapshot(vectors [][]float32, ids, texts []string) (*Snapshot, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyCorpus
	}
	if len(ids) != len(vectors) || len(texts) != len(vectors) {
		return nil, fmt.Errorf("%w: %d vectors, %d ids, %d texts",
			ErrInvalidInput, len(vectors), len(ids), len(texts))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, &DimensionError{Expected: 1, Got: 0, Position: 0}
	}

	s := &Snapshot{
		dimension: dim,
		vectors:   make([][]float32, len(vectors)),
		ids:       make([]string, len(ids)),
		texts:     make([]string, len(texts)),
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, &DimensionError{Expected: dim, Got: len(v), Position: i}
		}
		row := make([]float32, dim)
		copy(row, v)
		s.vectors[i] = row
	}
	copy(s.ids, ids)
	copy(s.texts, texts)

	return s, nil
}

// Dimension returns the vector length shared by every row.
func (s *Snapshot) Dimension() int {
	if s == nil {
		return 0
	}
	return s.dimension
}

// Len returns the number of indexed documents.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns a copy of the document ids in ordinal order.
func (s *Snapshot) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Texts returns a copy of the document texts in ordinal order.
func (s *Snapshot) Texts() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.texts))
	copy(out, s.texts)
	return out
}

// Vector returns a copy of the vector at ordinal i.
func (s *Snapshot) Vector(i int) []float32 {
	if s == nil || i < 0 || i >= len(s.vectors) {
		return nil
	}
	out := make([]float32, s.dimension)
	copy(out, s.vectors[i])
	return out
}

// Search returns the k nearest documents to query by squared Euclidean distance.
// Results are ordered by ascending distance, ties by ascending ordinal.
// k is clamped to the corpus size; k <= 0 or an empty snapshot yields no results.
func (s *Snapshot) Search(query []float32, k int) ([]RetrievalResult, error) {
	if s.Len() == 0 || k <= 0 {
		return []RetrievalResult{}, nil
	}
	if len(query) != s.dimension {
		return nil, &DimensionError{Expected: s.dimension, Got: len(query), Position: -1}
	}

	type scored struct {
		ordinal  int
		distance float64
	}
	all := make([]scored, len(s.vectors))
	for i, v := range s.vectors {
		all[i] = scored{ordinal: i, distance: squaredL2(query, v)}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].distance < all[j].distance
	})

	if k > len(all) {
		k = len(all)
	}
	results := make([]RetrievalResult, k)
	for i := 0; i < k; i++ {
		o := all[i].ordinal
		results[i] = RetrievalResult{
			ID:       s.ids[o],
			Text:     s.texts[o],
			Distance: all[i].distance,
		}
	}
	return results, nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
