package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/models"
)

// MockInterpreter is a mock implementation of Interpreter
type MockInterpreter struct {
	mock.Mock
}

func (m *MockInterpreter) Interpret(ctx context.Context, img Image) ([]models.OCRResult, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OCRResult), args.Error(1)
}

func TestCachedInterpreterHit(t *testing.T) {
	img := Image{MIMEType: "image/jpeg", Data: "aGVsbG8="}
	next := new(MockInterpreter)
	next.On("Interpret", mock.Anything, img).Return([]models.OCRResult{{BetNumber: "123", StraightAmount: models.Amount(1)}}, nil).Once()

	c := NewCachedInterpreter(next, NewResultCache(time.Minute, 10), logger.Discard())

	first, err := c.Interpret(context.Background(), img)
	require.NoError(t, err)
	second, err := c.Interpret(context.Background(), img)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	next.AssertExpectations(t)

	// cached values are copies
	*second[0].StraightAmount = second[0].StraightAmount.Add(*models.Amount(5))
	third, err := c.Interpret(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "1", third[0].StraightAmount.String())

	hits, misses, ratio := c.cache.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 2.0/3.0, ratio, 1e-9)
}

func TestCachedInterpreterDoesNotCacheFailures(t *testing.T) {
	img := Image{Data: "aGVsbG8="}
	next := new(MockInterpreter)
	next.On("Interpret", mock.Anything, img).Return(nil, errors.New("boom")).Twice()

	c := NewCachedInterpreter(next, NewResultCache(time.Minute, 10), logger.Discard())

	_, err := c.Interpret(context.Background(), img)
	assert.Error(t, err)
	_, err = c.Interpret(context.Background(), img)
	assert.Error(t, err)
	next.AssertExpectations(t)
	assert.Equal(t, 0, c.cache.ItemCount())
}

func TestResultCacheSizeBound(t *testing.T) {
	rc := NewResultCache(time.Minute, 2)
	rc.Set("a", []models.OCRResult{})
	rc.Set("b", []models.OCRResult{})
	rc.Set("c", []models.OCRResult{})

	assert.Equal(t, 2, rc.ItemCount())
	_, ok := rc.Get("c")
	assert.False(t, ok)

	rc.Clear()
	assert.Equal(t, 0, rc.ItemCount())
}

func TestCacheKey(t *testing.T) {
	a := CacheKey(Image{Data: "aGVsbG8="})
	assert.Len(t, a, 64)
	assert.Equal(t, a, CacheKey(Image{MIMEType: "image/png", Data: "aGVsbG8="}))
	assert.NotEqual(t, a, CacheKey(Image{Data: "d29ybGQ="}))
}
