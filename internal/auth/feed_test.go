package auth

import (
	"reflect"
	"testing"
)

func TestFeedReplaysCurrentValue(t *testing.T) {
	f := NewFeed(7)
	var got []int
	cancel := f.Subscribe(func(v int) { got = append(got, v) })
	defer cancel()

	if !reflect.DeepEqual(got, []int{7}) {
		t.Fatalf("expected replay of 7, got %v", got)
	}
}

func TestFeedDeliversInRegistrationOrder(t *testing.T) {
	f := NewFeed(0)
	var order []string
	f.Subscribe(func(v int) {
		if v > 0 {
			order = append(order, "a")
		}
	})
	f.Subscribe(func(v int) {
		if v > 0 {
			order = append(order, "b")
		}
	})

	f.Publish(1)
	f.Publish(2)

	want := []string{"a", "b", "a", "b"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}

func TestFeedLateSubscriberSeesLatestOnly(t *testing.T) {
	f := NewFeed("start")
	f.Publish("one")
	f.Publish("two")

	var got []string
	f.Subscribe(func(v string) { got = append(got, v) })
	if !reflect.DeepEqual(got, []string{"two"}) {
		t.Fatalf("expected only the latest value, got %v", got)
	}
}

func TestFeedCancelStopsDelivery(t *testing.T) {
	f := NewFeed(0)
	calls := 0
	cancel := f.Subscribe(func(int) { calls++ })
	cancel()
	cancel()

	f.Publish(1)
	if calls != 1 {
		t.Fatalf("expected only the replay call, got %d", calls)
	}
	if f.Len() != 0 {
		t.Fatalf("expected no subscribers, got %d", f.Len())
	}
}

func TestFeedCancelFromCallback(t *testing.T) {
	f := NewFeed(0)
	var cancel func()
	calls := 0
	cancel = f.Subscribe(func(v int) {
		calls++
		if v == 1 {
			cancel()
		}
	})

	f.Publish(1)
	f.Publish(2)
	if calls != 2 {
		t.Fatalf("expected replay plus one update, got %d", calls)
	}
}
