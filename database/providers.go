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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/l3montree-dev/devguard-findings/shared"
	"go.uber.org/fx"
)

func newDatabase(lc fx.Lifecycle, cfg shared.Config, poolConfig PoolConfig) (shared.DB, *pgxpool.Pool, error) {
	db, pool, err := Open(cfg.Database, poolConfig)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, nil, err
		}
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if pool != nil {
				pool.Close()
				return nil
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, pool, nil
}

// BrokerFactory uses LISTEN/NOTIFY when a postgres pool is available.
func BrokerFactory(lc fx.Lifecycle, pool *pgxpool.Pool) shared.PubSubBroker {
	if pool == nil {
		broker := NewInMemoryBroker()
		lc.Append(fx.StopHook(broker.Close))
		return broker
	}
	broker := NewPostgreSQLBroker(pool)
	lc.Append(fx.StopHook(broker.Close))
	return broker
}

var Module = fx.Options(
	fx.Provide(newDatabase),
	fx.Provide(BrokerFactory),
)
