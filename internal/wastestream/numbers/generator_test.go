package numbers

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastetrack/internal/wastestream/models"
	"wastetrack/internal/wastestream/store/sequence"
)

func TestNext_FormatsProcessorScopedNumbers(t *testing.T) {
	gen := NewGenerator(sequence.NewInMemory())
	ctx := context.Background()

	first, err := gen.Next(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, models.WasteStreamNumber("123456000001"), first)

	second, err := gen.Next(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, models.WasteStreamNumber("123456000002"), second)

	// An independent processor gets its own sequence.
	other, err := gen.Next(ctx, "654321")
	require.NoError(t, err)
	assert.Equal(t, models.WasteStreamNumber("654321000001"), other)
}

// TestNext_ConcurrentCallersNeverCollide drives the generator from many
// goroutines and checks that no number repeats and all values land in the
// expected dense range.
func TestNext_ConcurrentCallersNeverCollide(t *testing.T) {
	gen := NewGenerator(sequence.NewInMemory())
	ctx := context.Background()

	const workers = 16
	const perWorker = 50

	var (
		mu   sync.Mutex
		seen = make(map[models.WasteStreamNumber]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				number, err := gen.Next(ctx, "123456")
				assert.NoError(t, err)
				mu.Lock()
				_, dup := seen[number]
				assert.False(t, dup, "duplicate number %s", number)
				seen[number] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestNext_SequenceExhaustion(t *testing.T) {
	seq := &fixedSequence{value: 1000000}
	gen := NewGenerator(seq)

	_, err := gen.Next(context.Background(), "123456")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exhausted")
}

type fixedSequence struct {
	value int64
}

func (s *fixedSequence) Next(context.Context, string) (int64, error) {
	return s.value, nil
}
