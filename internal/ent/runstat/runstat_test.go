package runstat_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/humandbs/humcat/internal/ent/runstat"
	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	sum := runstat.New()
	sum.Success()
	sum.Success()
	sum.Skip()
	sum.Failure("hum0006-v1-ja", errors.New("boom"))

	assert.Equal(t, 1, sum.Failed())
}

func TestSummaryConcurrent(t *testing.T) {
	sum := runstat.New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sum.Success()
			sum.Failure("unit", errors.New("boom"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, sum.Failed())
}
