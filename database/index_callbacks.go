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
	"reflect"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/shared"
	"gorm.io/gorm"
)

// RegisterIndexCallbacks publishes an index event for every written row whose model
// implements models.Indexable. Failed statements produce no events.
func RegisterIndexCallbacks(db shared.DB, dispatcher shared.IndexEventDispatcher) error {
	if err := db.Callback().Create().After("gorm:create").Register("findings:index_create", indexCallback(dispatcher, shared.IndexActionCreate)); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("findings:index_update", indexCallback(dispatcher, shared.IndexActionUpdate)); err != nil {
		return err
	}
	return db.Callback().Delete().After("gorm:delete").Register("findings:index_delete", indexCallback(dispatcher, shared.IndexActionDelete))
}

func indexCallback(dispatcher shared.IndexEventDispatcher, action shared.IndexAction) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement == nil || tx.RowsAffected == 0 {
			return
		}
		for _, entity := range indexables(tx.Statement.ReflectValue) {
			// updates and deletes by condition carry no primary key
			if entity.GetID() == uuid.Nil {
				continue
			}
			dispatcher.Dispatch(tx.Statement.Context, shared.IndexEvent{
				Action: action,
				Entity: entity.IndexEntity(),
				ID:     entity.GetID(),
			})
		}
	}
}

func indexables(rv reflect.Value) []models.Indexable {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice:
		result := make([]models.Indexable, 0, rv.Len())
		for i := range rv.Len() {
			result = append(result, indexables(rv.Index(i))...)
		}
		return result
	case reflect.Struct:
		if !rv.CanInterface() {
			return nil
		}
		if entity, ok := rv.Interface().(models.Indexable); ok {
			return []models.Indexable{entity}
		}
	}
	return nil
}
