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

package shared

import (
	"context"

	"github.com/google/uuid"
)

type PubSubChannel string

const (
	PolicyChange PubSubChannel = "policyChange"
	IndexEvents  PubSubChannel = "indexEvents"
)

type PubSubMessage interface {
	GetChannel() PubSubChannel
	GetPayload() map[string]any
}

type PubSubBroker interface {
	Publish(ctx context.Context, message PubSubMessage) error
	Subscribe(topic PubSubChannel) (<-chan map[string]any, error)
}

type SimpleMessage struct {
	Channel PubSubChannel
	Payload map[string]any
}

func (m SimpleMessage) GetChannel() PubSubChannel {
	return m.Channel
}

func (m SimpleMessage) GetPayload() map[string]any {
	return m.Payload
}

func NewSimplePubSubMessage(channel PubSubChannel, payload map[string]any) *SimpleMessage {
	return &SimpleMessage{
		Channel: channel,
		Payload: payload,
	}
}

type IndexAction string

const (
	IndexActionCreate IndexAction = "CREATE"
	IndexActionUpdate IndexAction = "UPDATE"
	IndexActionDelete IndexAction = "DELETE"
	IndexActionCommit IndexAction = "COMMIT"
)

// IndexEvent notifies the search index about a written entity. Commit events carry only the entity name.
type IndexEvent struct {
	Action IndexAction
	Entity string
	ID     uuid.UUID
}

func (e IndexEvent) GetChannel() PubSubChannel {
	return IndexEvents
}

func (e IndexEvent) GetPayload() map[string]any {
	payload := map[string]any{
		"action": string(e.Action),
		"entity": e.Entity,
	}
	if e.ID != uuid.Nil {
		payload["id"] = e.ID.String()
	}
	return payload
}
