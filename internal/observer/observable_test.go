package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestObservable_PublishInRegistrationOrder(t *testing.T) {
	o := New[int](zap.NewNop())

	var got []string
	o.Subscribe(func(int) { got = append(got, "first") })
	o.Subscribe(func(int) { got = append(got, "second") })
	o.Subscribe(func(int) { got = append(got, "third") })

	o.Publish(1)

	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestObservable_DuplicateCallbackDeliversTwice(t *testing.T) {
	o := New[int](zap.NewNop())

	count := 0
	fn := func(int) { count++ }
	o.Subscribe(fn)
	o.Subscribe(fn)

	o.Publish(1)

	// Duplicate registration is not deduplicated by design.
	assert.Equal(t, 2, count)
}

func TestObservable_Unsubscribe(t *testing.T) {
	o := New[int](zap.NewNop())

	count := 0
	sub := o.Subscribe(func(int) { count++ })
	o.Publish(1)

	sub.Unsubscribe()
	o.Publish(2)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, o.Len())

	// Unsubscribing twice is harmless.
	sub.Unsubscribe()
}

func TestObservable_TokensRemoveOnlyTheirRegistration(t *testing.T) {
	o := New[int](zap.NewNop())

	count := 0
	fn := func(int) { count++ }
	first := o.Subscribe(fn)
	o.Subscribe(fn)

	first.Unsubscribe()
	o.Publish(1)

	assert.Equal(t, 1, count)
}

func TestObservable_UnsubscribeDuringPublish(t *testing.T) {
	o := New[int](zap.NewNop())

	var sub *Subscription
	calls := 0
	o.Subscribe(func(int) {
		calls++
		sub.Unsubscribe()
	})
	sub = o.Subscribe(func(int) { calls++ })

	// The snapshot taken before iterating still includes the second
	// listener for this publish.
	o.Publish(1)
	assert.Equal(t, 2, calls)

	o.Publish(2)
	assert.Equal(t, 3, calls)
}

func TestObservable_PanickingListenerIsIsolated(t *testing.T) {
	o := New[int](zap.NewNop())

	reached := false
	o.Subscribe(func(int) { panic("boom") })
	o.Subscribe(func(int) { reached = true })

	o.Publish(1)

	assert.True(t, reached)
}

func TestObservable_LateSubscriberSeesNothing(t *testing.T) {
	o := New[string](zap.NewNop())

	o.Publish("before")

	var got []string
	o.Subscribe(func(s string) { got = append(got, s) })

	assert.Empty(t, got)

	o.Publish("after")
	assert.Equal(t, []string{"after"}, got)
}
