package keymutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializesSameKey(t *testing.T) {
	km := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("room-1")
			counter++
			km.Unlock("room-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestIndependentKeys(t *testing.T) {
	km := New()

	km.Lock("room-1")

	done := make(chan struct{})
	go func() {
		km.Lock("room-2")
		km.Unlock("room-2")
		close(done)
	}()

	<-done
	km.Unlock("room-1")
}

func TestReleasesEntries(t *testing.T) {
	km := New()

	km.Lock("room-1")
	km.Unlock("room-1")

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.entries, "entries must be freed after last unlock")
}
