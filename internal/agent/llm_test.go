package agent

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMClientRequiresKey(t *testing.T) {
	_, err := NewLLMClient(context.Background(), "")
	assert.Error(t, err)
}

// Concurrent structured and plain generations must not touch the shared model
// configuration; each call works on its own copy. The calls themselves fail
// fast against the unreachable test key, which is fine — the race, if
// reintroduced, happens before the request is sent.
func TestConcurrentGenerationDoesNotMutateSharedModel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // abort requests immediately, configuration still runs

	client, err := NewLLMClient(context.Background(), "test-key")
	require.NoError(t, err)
	defer client.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = client.GeneratePlan(ctx, "workout", "structured", "", "goals")
			} else {
				_, _ = client.GenerateAssessment(ctx, "body_composition", "data")
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, client.model.ResponseMIMEType)
}
