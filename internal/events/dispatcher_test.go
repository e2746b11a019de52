package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []EventType
	d.Subscribe(EventShiftCreated, func(_ context.Context, event Event) error {
		seen = append(seen, event.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventShiftCreated}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventShiftDeleted}))

	assert.Equal(t, []EventType{EventShiftCreated}, seen)
}

func TestDispatcherContinuesPastHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls int
	d.Subscribe(EventUserCreated, func(context.Context, Event) error {
		calls++
		return errors.New("handler failed")
	})
	d.Subscribe(EventUserCreated, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventUserCreated}))
	assert.Equal(t, 2, calls)
}
