package main

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"zapdispatch/internal/service"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStreamDeliversDispatchOutcomes(t *testing.T) {
	s, _ := setupTestServer(t)

	server := httptest.NewServer(s.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(server.URL, "http://", "ws://", 1) + "/ws/events"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Wait for the subscription to be registered before publishing
	require.Eventually(t, func() bool {
		return s.events.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	s.events.Publish(service.Event{
		Type:     service.EventError,
		Kind:     service.KindScheduled,
		TenantID: "tenant-1",
		Target:   "+5511999990000",
		Error:    "número inválido",
	})

	msgType, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, msgType)

	var evt service.Event
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, service.EventError, evt.Type)
	assert.Equal(t, service.KindScheduled, evt.Kind)
	assert.Equal(t, "número inválido", evt.Error)
	assert.False(t, evt.At.IsZero())
}

func TestEventStreamUnsubscribesOnDisconnect(t *testing.T) {
	s, _ := setupTestServer(t)

	server := httptest.NewServer(s.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(server.URL, "http://", "ws://", 1) + "/ws/events"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.events.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))

	assert.Eventually(t, func() bool {
		return s.events.SubscriberCount() == 0
	}, time.Second, 10*time.Millisecond)
}
