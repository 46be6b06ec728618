package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserLocks_SerializesPerUser(t *testing.T) {
	locks := newUserLocks()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("u1")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Empty(t, locks.locks, "entries are dropped after release")
}

func TestUserLocks_DifferentUsersDoNotBlock(t *testing.T) {
	locks := newUserLocks()
	unlockA := locks.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("b")
		unlock()
		close(done)
	}()
	<-done
	assert.Len(t, locks.locks, 1)
}
