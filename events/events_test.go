package events

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiFansOut(t *testing.T) {
	var got []Kind
	rec := PublisherFunc(func(_ context.Context, e Event) error {
		got = append(got, e.Kind)
		assert.False(t, e.At.IsZero())
		return nil
	})

	err := Multi(rec, nil, rec).Publish(context.Background(), Event{Kind: OrderPlaced})
	require.NoError(t, err)
	assert.Equal(t, []Kind{OrderPlaced, OrderPlaced}, got)
}

func TestMultiKeepsGoingAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	failing := PublisherFunc(func(context.Context, Event) error { calls++; return boom })
	ok := PublisherFunc(func(context.Context, Event) error { calls++; return nil })

	err := Multi(failing, ok).Publish(context.Background(), Event{Kind: ProductCreated})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop.Publish(context.Background(), Event{}))
}

func TestEventKey(t *testing.T) {
	assert.Equal(t, "o1", Event{OrderID: "o1", ProductID: "p1"}.Key())
	assert.Equal(t, "p1", Event{ProductID: "p1"}.Key())
}

func TestHeaderCarrier(t *testing.T) {
	var headers []kafka.Header
	c := headerCarrier{&headers}
	c.Set("traceparent", "a")
	c.Set("traceparent", "b")
	c.Set("kind", "order.placed")

	assert.Equal(t, "b", c.Get("traceparent"))
	assert.Equal(t, "", c.Get("missing"))
	assert.ElementsMatch(t, []string{"traceparent", "kind"}, c.Keys())
}
