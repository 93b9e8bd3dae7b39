package home

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommissioner struct {
	got    SetupRequest
	result *SetupResult
	err    error
}

func (c *fakeCommissioner) PerformAccessorySetup(ctx context.Context, req SetupRequest) (*SetupResult, error) {
	c.got = req
	return c.result, c.err
}

func TestAccessorySetup_SuccessNotifiesOnce(t *testing.T) {
	m := NewManager(newFakePlatform())
	c := &fakeCommissioner{result: &SetupResult{Accessories: []Accessory{lamp("lamp-9", "New Lamp", false)}}}
	s := NewAccessorySetup(c, m)
	events := m.Subscribe()
	defer m.Unsubscribe(events)

	h := Home{ID: "home-living", Name: "Living Room"}
	result, err := s.AddAccessory(context.Background(), h, SetupRequest{HomeID: "ignored", SetupCode: "34970112332"})
	require.NoError(t, err)
	require.Len(t, result.Accessories, 1)

	assert.Equal(t, "home-living", c.got.HomeID)
	assert.Equal(t, "34970112332", c.got.SetupCode)

	evt := receive(t, events)
	assert.Equal(t, EventHomesChanged, evt.Type)
	assert.Equal(t, "home-living", evt.HomeID)
	assert.Equal(t, "lamp-9", evt.AccessoryID)
	requireNoEvent(t, events)
}

func TestAccessorySetup_FailureDoesNotNotify(t *testing.T) {
	m := NewManager(newFakePlatform())
	c := &fakeCommissioner{err: ErrInvalidSetupCode}
	s := NewAccessorySetup(c, m)
	events := m.Subscribe()
	defer m.Unsubscribe(events)

	_, err := s.AddAccessory(context.Background(), Home{ID: "home-living"}, SetupRequest{})
	assert.ErrorIs(t, err, ErrInvalidSetupCode)
	assert.Equal(t, KindOperationFailed, KindOf(err))
	requireNoEvent(t, events)
}

func TestAccessorySetup_CancellationIsClassified(t *testing.T) {
	m := NewManager(newFakePlatform())
	c := &fakeCommissioner{err: fmt.Errorf("pairing aborted: %w", context.Canceled)}
	s := NewAccessorySetup(c, m)

	_, err := s.AddAccessory(context.Background(), Home{ID: "home-living"}, SetupRequest{})
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, KindCancelled, KindOf(err))
}

func TestAccessorySetup_NilResult(t *testing.T) {
	m := NewManager(newFakePlatform())
	s := NewAccessorySetup(&fakeCommissioner{}, m)

	result, err := s.AddAccessory(context.Background(), Home{ID: "home-living"}, SetupRequest{})
	require.NoError(t, err)
	assert.Empty(t, result.Accessories)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{ErrUnauthorized, KindUnauthorized},
		{fmt.Errorf("read: %w", ErrNotFound), KindNotFound},
		{ErrCancelled, KindCancelled},
		{context.Canceled, KindCancelled},
		{ErrDuplicateName, KindOperationFailed},
		{errors.New("bridge exploded"), KindOperationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
