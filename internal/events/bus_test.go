package events

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	return NewBus(zerolog.New(nil).Level(zerolog.Disabled))
}

func TestBus_DeliversToSubscribedType(t *testing.T) {
	bus := newTestBus()

	var received []*Event
	bus.Subscribe(RunPublished, func(e *Event) {
		received = append(received, e)
	})

	bus.Emit(&RunPublishedData{RunID: "abc", Generation: 3, Funds: 7})
	bus.Emit(&RunStartedData{RunID: "def", Generation: 4}) // different type, not delivered

	require.Len(t, received, 1)
	assert.Equal(t, RunPublished, received[0].Type)

	data, ok := received[0].Data.(*RunPublishedData)
	require.True(t, ok)
	assert.Equal(t, int64(3), data.Generation)
	assert.Equal(t, 7, data.Funds)
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := newTestBus()

	var types []EventType
	bus.SubscribeAll(func(e *Event) {
		types = append(types, e.Type)
	})

	bus.Emit(&RunStartedData{RunID: "a"})
	bus.Emit(&RunSupersededData{RunID: "a", Generation: 1, PublishedByGen: 2})
	bus.Emit(&RunFailedData{RunID: "b", Error: "feed down"})

	assert.Equal(t, []EventType{RunStarted, RunSuperseded, RunFailed}, types)
}

func TestBus_MultipleHandlersSameType(t *testing.T) {
	bus := newTestBus()

	calls := 0
	bus.Subscribe(RunPublished, func(*Event) { calls++ })
	bus.Subscribe(RunPublished, func(*Event) { calls++ })

	bus.Emit(&RunPublishedData{RunID: "x"})

	assert.Equal(t, 2, calls)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := newTestBus()

	calls := 0
	unsubscribe := bus.Subscribe(RunPublished, func(*Event) { calls++ })

	bus.Emit(&RunPublishedData{RunID: "x"})
	unsubscribe()
	bus.Emit(&RunPublishedData{RunID: "y"})

	assert.Equal(t, 1, calls)
}
