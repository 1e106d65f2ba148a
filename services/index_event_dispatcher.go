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

package services

import (
	"context"
	"log/slog"

	"github.com/l3montree-dev/devguard-findings/monitoring"
	"github.com/l3montree-dev/devguard-findings/shared"
)

// indexEventDispatcher hands index events to the broker. Publishing is best effort,
// a failed publish never fails the write that caused it.
type indexEventDispatcher struct {
	broker shared.PubSubBroker
}

var _ shared.IndexEventDispatcher = &indexEventDispatcher{}

func NewIndexEventDispatcher(broker shared.PubSubBroker) *indexEventDispatcher {
	return &indexEventDispatcher{broker: broker}
}

func (d *indexEventDispatcher) Dispatch(ctx context.Context, event shared.IndexEvent) {
	if err := d.broker.Publish(context.WithoutCancel(ctx), event); err != nil {
		monitoring.IndexEventPublishFailedAmount.Inc()
		slog.Warn("could not publish index event", "action", event.Action, "entity", event.Entity, "id", event.ID, "err", err)
	}
}
