package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgreSQLBroker(t *testing.T) {
	_, pool := InitDatabaseContainer(t)
	ctx := context.Background()

	t.Run("PublishAndSubscribe", func(t *testing.T) {
		broker := database.NewPostgreSQLBroker(pool)
		broker.SetReceiveOwnMessages(true)
		defer broker.Close()

		messagesCh, err := broker.Subscribe(shared.PubSubChannel("test_topic"))
		require.NoError(t, err)

		err = broker.Publish(ctx, shared.NewSimplePubSubMessage("test_topic", map[string]any{
			"test":   "data",
			"number": 42,
		}))
		require.NoError(t, err)

		select {
		case received := <-messagesCh:
			assert.Equal(t, "data", received["test"])
			assert.Equal(t, float64(42), received["number"])
		case <-time.After(2 * time.Second):
			t.Error("message not received within timeout")
		}
	})

	t.Run("MultipleSubscribers", func(t *testing.T) {
		broker := database.NewPostgreSQLBroker(pool)
		broker.SetReceiveOwnMessages(true)
		defer broker.Close()

		subscriber1, err := broker.Subscribe(shared.PubSubChannel("multi_topic"))
		require.NoError(t, err)
		subscriber2, err := broker.Subscribe(shared.PubSubChannel("multi_topic"))
		require.NoError(t, err)

		require.NoError(t, broker.Publish(ctx, shared.NewSimplePubSubMessage("multi_topic", map[string]any{"multi": "test"})))

		for i, sub := range []<-chan map[string]any{subscriber1, subscriber2} {
			select {
			case payload := <-sub:
				assert.Equal(t, "test", payload["multi"])
			case <-time.After(2 * time.Second):
				t.Errorf("subscriber %d did not receive the message", i+1)
			}
		}
	})

	t.Run("IndexEvents", func(t *testing.T) {
		publisher := database.NewPostgreSQLBroker(pool)
		defer publisher.Close()
		listener := database.NewPostgreSQLBroker(pool)
		defer listener.Close()

		messagesCh, err := listener.Subscribe(shared.IndexEvents)
		require.NoError(t, err)

		projectID := uuid.New()
		require.NoError(t, publisher.Publish(ctx, shared.IndexEvent{Action: shared.IndexActionCreate, Entity: "project", ID: projectID}))

		select {
		case received := <-messagesCh:
			assert.Equal(t, "CREATE", received["action"])
			assert.Equal(t, "project", received["entity"])
			assert.Equal(t, projectID.String(), received["id"])
		case <-time.After(2 * time.Second):
			t.Error("index event not received within timeout")
		}
	})

	t.Run("OwnMessagesAreSkipped", func(t *testing.T) {
		broker := database.NewPostgreSQLBroker(pool)
		defer broker.Close()

		messagesCh, err := broker.Subscribe(shared.PolicyChange)
		require.NoError(t, err)
		require.NoError(t, broker.Publish(ctx, shared.NewSimplePubSubMessage(shared.PolicyChange, map[string]any{"policy": "p"})))

		select {
		case <-messagesCh:
			t.Error("received an own message")
		case <-time.After(500 * time.Millisecond):
		}
	})

	t.Run("CloseClosesSubscriptions", func(t *testing.T) {
		broker := database.NewPostgreSQLBroker(pool)
		broker.SetReceiveOwnMessages(true)

		messagesCh, err := broker.Subscribe(shared.PubSubChannel("unsub_topic"))
		require.NoError(t, err)

		broker.Close()

		select {
		case _, ok := <-messagesCh:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Error("subscription channel was not closed")
		}
	})
}
