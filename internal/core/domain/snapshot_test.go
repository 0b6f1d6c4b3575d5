package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test helpers ---

func buildSnapshot(t *testing.T, vectors [][]float32) *Snapshot {
	t.Helper()
	ids := make([]string, len(vectors))
	texts := make([]string, len(vectors))
	for i := range vectors {
		ids[i] = string(rune('a' + i))
		texts[i] = "text " + ids[i]
	}
	s, err := NewSnapshot(vectors, ids, texts)
	require.NoError(t, err)
	return s
}

func TestNewSnapshot_EmptyCorpus(t *testing.T) {
	s, err := NewSnapshot(nil, nil, nil)

	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestNewSnapshot_DimensionMismatch(t *testing.T) {
	_, err := NewSnapshot(
		[][]float32{{1, 2, 3}, {1, 2}},
		[]string{"a", "b"},
		[]string{"ta", "tb"},
	)

	require.ErrorIs(t, err, ErrDimensionMismatch)
	var dimErr *DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
	assert.Equal(t, 1, dimErr.Position)
}

func TestNewSnapshot_ZeroLengthVector(t *testing.T) {
	_, err := NewSnapshot([][]float32{{}}, []string{"a"}, []string{"ta"})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNewSnapshot_LengthDisagreement(t *testing.T) {
	_, err := NewSnapshot([][]float32{{1}}, []string{"a", "b"}, []string{"ta"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewSnapshot_CopiesInput(t *testing.T) {
	vectors := [][]float32{{1, 1}}
	ids := []string{"a"}
	s, err := NewSnapshot(vectors, ids, []string{"ta"})
	require.NoError(t, err)

	vectors[0][0] = 99
	ids[0] = "z"

	assert.Equal(t, []float32{1, 1}, s.Vector(0))
	assert.Equal(t, []string{"a"}, s.IDs())
	assert.Equal(t, 2, s.Dimension())
	assert.Equal(t, 1, s.Len())
}

func TestSnapshot_Search_OrdersByDistance(t *testing.T) {
	s := buildSnapshot(t, [][]float32{{1, 0}, {0, 1}, {1, 1}})

	results, err := s.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "a", results[0].ID)
	assert.InDelta(t, 0.0, results[0].Distance, 1e-9)
	assert.Equal(t, "c", results[1].ID)
	assert.InDelta(t, 1.0, results[1].Distance, 1e-9)
	assert.Equal(t, "b", results[2].ID)
	assert.InDelta(t, 2.0, results[2].Distance, 1e-9)
	assert.Equal(t, "text c", results[1].Text)
}

func TestSnapshot_Search_TiesByOrdinal(t *testing.T) {
	s := buildSnapshot(t, [][]float32{{0, 1}, {1, 0}, {0, -1}, {-1, 0}})

	results, err := s.Search([]float32{0, 0}, 4)
	require.NoError(t, err)

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
		assert.InDelta(t, 1.0, r.Distance, 1e-9)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

func TestSnapshot_Search_ClampsK(t *testing.T) {
	s := buildSnapshot(t, [][]float32{{1}, {2}})

	results, err := s.Search([]float32{0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSnapshot_Search_NonPositiveK(t *testing.T) {
	s := buildSnapshot(t, [][]float32{{1}, {2}})

	results, err := s.Search([]float32{0}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = s.Search([]float32{0}, -1)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSnapshot_Search_NilSnapshot(t *testing.T) {
	var s *Snapshot

	results, err := s.Search([]float32{1, 2}, 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSnapshot_Search_QueryDimensionMismatch(t *testing.T) {
	s := buildSnapshot(t, [][]float32{{1, 2, 3}})

	_, err := s.Search([]float32{1, 2}, 1)

	require.ErrorIs(t, err, ErrDimensionMismatch)
	var dimErr *DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, -1, dimErr.Position)
}

func TestSnapshot_Search_DistancesNonDecreasing(t *testing.T) {
	s := buildSnapshot(t, [][]float32{{5, 5}, {0.5, 0.1}, {-3, 2}, {0.2, 0.2}, {9, -9}})

	results, err := s.Search([]float32{0.3, 0.1}, 5)
	require.NoError(t, err)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
		assert.GreaterOrEqual(t, results[i].Distance, 0.0)
	}
}

func TestSnapshot_Accessors_OutOfRange(t *testing.T) {
	s := buildSnapshot(t, [][]float32{{1}})
	assert.Nil(t, s.Vector(-1))
	assert.Nil(t, s.Vector(1))
	assert.Equal(t, []string{"text a"}, s.Texts())
}
