package topic_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/duskcoin/tangled/pkg/topic"
	"github.com/duskcoin/tangled/pkg/util"
)

// Test topic with multiple publishers and multiple subscribers.
func TestTopic(t *testing.T) {
	var wg sync.WaitGroup
	top := NewTopic[string]()
	for i := 0; i < 5; i++ {
		time.Sleep(time.Millisecond * 5)
		wg.Add(1)
		sub := top.Sub()
		i := i
		go func() {
			defer wg.Done()
			time.Sleep(time.Millisecond * 10)
			for j := 0; j < i; j++ {
				msg := <-sub.C
				t.Logf("sub %d received '%s'", i, msg)
			}
			sub.Close()
		}()
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			top.Pub(fmt.Sprint("message ", i))
		}()
	}
	// Wait with timeout
	done := make(chan struct{})
	go func() {
		wg.Wait()
		done <- struct{}{}
	}()
	timer := time.NewTimer(time.Second)
	select {
	case <-done:
		return
	case <-timer.C:
		util.Assert(t, false, "time out error")
	}
}
