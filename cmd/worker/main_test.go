package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/ports"
)

type fakeSubscriber struct {
	durable string
	handler ports.WarningHandler
	err     error
}

func (f *fakeSubscriber) SubscribeHazardWarnings(_ context.Context, durable string, handler ports.WarningHandler) error {
	f.durable = durable
	f.handler = handler
	return f.err
}

func TestStartAuditor(t *testing.T) {
	sub := &fakeSubscriber{}
	require.NoError(t, startAuditor(context.Background(), sub))

	assert.Equal(t, auditDurable, sub.durable)
	require.NotNil(t, sub.handler)

	// the auditor acks everything it can decode
	err := sub.handler(context.Background(), &domain.HazardWarning{
		ID:               "w-1",
		Score:            13,
		Label:            domain.LabelDangerous,
		TriggeredZoneIDs: []int{1},
	})
	assert.NoError(t, err)
}

func TestStartAuditor_SubscribeError(t *testing.T) {
	sub := &fakeSubscriber{err: errors.New("no jetstream")}
	assert.EqualError(t, startAuditor(context.Background(), sub), "no jetstream")
}
