package utils_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pocketledger/pocket_ledger_sync/internal/utils"
)

func TestKeyedMutex_TryLockSameKeyFails(t *testing.T) {
	km := utils.NewKeyedMutex()

	assert.True(t, km.TryLock("7"))
	assert.False(t, km.TryLock("7"), "second TryLock on a held key must fail")

	km.Unlock("7")
	assert.True(t, km.TryLock("7"), "key is reusable after unlock")
	km.Unlock("7")
}

func TestKeyedMutex_DistinctKeysProceedInParallel(t *testing.T) {
	km := utils.NewKeyedMutex()

	assert.True(t, km.TryLock("7"))
	assert.True(t, km.TryLock("8"))
	km.Unlock("7")
	km.Unlock("8")
}

func TestKeyedMutex_LockSerializesHolders(t *testing.T) {
	km := utils.NewKeyedMutex()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("window")
			counter++
			km.Unlock("window")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}
