package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusCreated,
	StatusAtRelayPoint,
	StatusWithTraveler,
	StatusDelivered,
	StatusConfirmed,
	StatusCompleted,
}

func TestTransitions(t *testing.T) {
	allowed := map[Operation][]Status{
		OpMarkAtRelayPoint: allStatuses,
		OpHandToTraveler:   {StatusAtRelayPoint},
		OpMarkDelivered:    {StatusWithTraveler},
		OpCompleteDelivery: {StatusCreated, StatusAtRelayPoint, StatusWithTraveler, StatusDelivered},
		OpConfirmDelivery:  {StatusWithTraveler, StatusDelivered, StatusCompleted},
	}

	for op, from := range allowed {
		tr, ok := TransitionFor(op)
		require.True(t, ok, "missing transition for %s", op)

		want := make(map[Status]bool)
		for _, s := range from {
			want[s] = true
		}
		for _, s := range allStatuses {
			assert.Equal(t, want[s], tr.Allows(s), "%s from %s", op, s)
		}
	}
}

func TestApply(t *testing.T) {
	req := &DocumentRequest{Status: StatusCreated}

	err := apply(OpHandToTraveler, req)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusCreated, req.Status)

	require.NoError(t, apply(OpMarkAtRelayPoint, req))
	require.NoError(t, apply(OpHandToTraveler, req))
	assert.Equal(t, StatusWithTraveler, req.Status)

	_, err = guard("teleport", StatusCreated)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidTransition)
}

func TestBroker_DropsWhenFull(t *testing.T) {
	b := newBroker(1)
	ctx := t.Context()
	ch := b.subscribe(ctx)

	assert.Equal(t, 0, b.publish(SecurityLog{Action: "A"}))
	assert.Equal(t, 1, b.publish(SecurityLog{Action: "B"}))
	assert.Equal(t, "A", (<-ch).Action)
	assert.Equal(t, 1, b.len())
}
