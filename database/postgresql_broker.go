// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/l3montree-dev/devguard-findings/monitoring"
	"github.com/l3montree-dev/devguard-findings/shared"
	"github.com/lib/pq"
)

// postgres rejects NOTIFY payloads of 8000 bytes or more
const maxNotifyPayload = 7999

type notification struct {
	ID        string               `json:"id"`
	Channel   shared.PubSubChannel `json:"topic"`
	Payload   map[string]any       `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
	SenderID  string               `json:"sender_id,omitempty"`
}

type listener struct {
	conn        *pgxpool.Conn
	cancel      context.CancelFunc
	subscribers []chan map[string]any
}

// PostgreSQLBroker distributes messages between instances with LISTEN/NOTIFY.
type PostgreSQLBroker struct {
	pool      *pgxpool.Pool
	listeners map[shared.PubSubChannel]*listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	id        string

	receiveOwnMessages bool
}

var _ shared.PubSubBroker = &PostgreSQLBroker{}

func NewPostgreSQLBroker(pool *pgxpool.Pool) *PostgreSQLBroker {
	return &PostgreSQLBroker{
		pool:      pool,
		listeners: make(map[shared.PubSubChannel]*listener),
		id:        uuid.New().String(),
	}
}

func (b *PostgreSQLBroker) SetReceiveOwnMessages(receive bool) {
	b.receiveOwnMessages = receive
}

func (b *PostgreSQLBroker) Publish(ctx context.Context, message shared.PubSubMessage) error {
	msg := notification{
		ID:        uuid.New().String(),
		Channel:   message.GetChannel(),
		Payload:   message.GetPayload(),
		Timestamp: time.Now(),
		SenderID:  b.id,
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if len(raw) > maxNotifyPayload {
		return fmt.Errorf("notification on %s exceeds %d bytes", msg.Channel, maxNotifyPayload)
	}

	if _, err := b.pool.Exec(ctx, "SELECT pg_notify($1, $2)", string(msg.Channel), string(raw)); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	slog.Debug("message published", "topic", msg.Channel, "messageID", msg.ID)
	return nil
}

func (b *PostgreSQLBroker) Subscribe(topic shared.PubSubChannel) (<-chan map[string]any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan map[string]any, 100)
	if l, ok := b.listeners[topic]; ok {
		l.subscribers = append(l.subscribers, ch)
		return ch, nil
	}

	acquireCtx, cancelAcquire := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelAcquire()
	conn, err := b.pool.Acquire(acquireCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection for listening: %w", err)
	}
	if _, err := conn.Exec(acquireCtx, "LISTEN "+pq.QuoteIdentifier(string(topic))); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to listen on topic %s: %w", topic, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.listeners[topic] = &listener{conn: conn, cancel: cancel, subscribers: []chan map[string]any{ch}}
	b.wg.Go(func() {
		b.receive(ctx, topic, conn)
	})
	return ch, nil
}

func (b *PostgreSQLBroker) receive(ctx context.Context, topic shared.PubSubChannel, conn *pgxpool.Conn) {
	defer conn.Release()
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				monitoring.Alert("could not listen for notifications from PostgreSQL broker", err)
			}
			return
		}
		if n == nil || n.Channel != string(topic) {
			continue
		}

		var msg notification
		if err := json.Unmarshal([]byte(n.Payload), &msg); err != nil {
			slog.Error("failed to unmarshal notification", "error", err, "payload", n.Payload)
			continue
		}
		if msg.SenderID == b.id && !b.receiveOwnMessages {
			continue
		}

		b.mu.RLock()
		l := b.listeners[topic]
		subscribers := l.subscribers
		b.mu.RUnlock()

		for _, sub := range subscribers {
			select {
			case sub <- msg.Payload:
			default:
				slog.Warn("subscriber channel full, dropping message", "topic", topic, "messageID", msg.ID)
			}
		}
	}
}

// Close stops all listeners and closes the subscriber channels.
func (b *PostgreSQLBroker) Close() {
	b.mu.Lock()
	for _, l := range b.listeners {
		l.cancel()
	}
	b.mu.Unlock()
	b.wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, l := range b.listeners {
		for _, sub := range l.subscribers {
			close(sub)
		}
		delete(b.listeners, topic)
	}
}
