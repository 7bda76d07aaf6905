package broadcast

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStream_SubscribeReceivesCurrentValue(t *testing.T) {
	s := New(3)
	ch, cancel := s.Subscribe()
	defer cancel()

	require.Equal(t, 3, <-ch)
}

func TestStream_PublishReachesAllSubscribers(t *testing.T) {
	s := New("")
	a, cancelA := s.Subscribe()
	b, cancelB := s.Subscribe()
	defer cancelA()
	defer cancelB()
	<-a
	<-b

	s.Publish("admin")

	require.Equal(t, "admin", <-a)
	require.Equal(t, "admin", <-b)
	require.Equal(t, "admin", s.Value())
}

func TestStream_SlowSubscriberSeesLatestOnly(t *testing.T) {
	s := New(0)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Publish(1)
	s.Publish(2)
	s.Publish(3)

	require.Equal(t, 3, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %d", v)
	default:
	}
}

func TestStream_CancelClosesChannelAndIsIdempotent(t *testing.T) {
	s := New(1)
	ch, cancel := s.Subscribe()
	<-ch

	cancel()
	cancel()

	_, ok := <-ch
	require.False(t, ok)

	s.Publish(2)
	require.Equal(t, 2, s.Value())
}

func TestStream_CloseThenCancel(t *testing.T) {
	s := New(1)
	ch, cancel := s.Subscribe()
	<-ch

	s.Close()
	cancel()

	_, ok := <-ch
	require.False(t, ok)
}

func TestStream_ConcurrentPublish(t *testing.T) {
	s := New(0)
	ch, cancel := s.Subscribe()
	defer cancel()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			s.Publish(v)
		}(i)
	}
	wg.Wait()

	last := s.Value()
	var got int
	for len(ch) > 0 {
		got = <-ch
	}
	require.Equal(t, last, got)
}
