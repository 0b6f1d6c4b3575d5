package local

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}

func TestEmbed_Deterministic(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 64})

	a, err := svc.Embed(context.Background(), "Provider: Greenline\nRoute: Dhaka -> Rajshahi")
	require.NoError(t, err)
	b, err := svc.Embed(context.Background(), "Provider: Greenline\nRoute: Dhaka -> Rajshahi")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.InDelta(t, 1.0, norm(a), 1e-5)
}

func TestEmbed_EmptyText(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 8})

	v, err := svc.Embed(context.Background(), "the of and")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), v)
}

func TestEmbed_SharedTermsAreCloser(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	ctx := context.Background()

	query, _ := svc.Embed(ctx, "bus from Dhaka to Rajshahi")
	related, _ := svc.Embed(ctx, "Provider: Greenline\nRoute: Dhaka -> Rajshahi\nFare: 450")
	unrelated, _ := svc.Embed(ctx, "Provider: Hanif\nRoute: Sylhet -> Khulna\nFare: 900")

	assert.Less(t, distance(query, related), distance(query, unrelated))
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 32})
	ctx := context.Background()

	batch, err := svc.EmbedBatch(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, batch, 2)

	alpha, _ := svc.Embed(ctx, "alpha")
	beta, _ := svc.Embed(ctx, "beta")
	assert.Equal(t, alpha, batch[0])
	assert.Equal(t, beta, batch[1])
}

func TestEmbedBatch_CancelledContext(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.EmbedBatch(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}
