// Package dbtest opens throwaway in-memory stores for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"yoga/database"
)

// Open returns a migrated in-memory sqlite handle private to t.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := database.Open("sqlite", dsn, logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// Stores returns accessors over a fresh in-memory store.
func Stores(t *testing.T) *database.Stores {
	t.Helper()
	return database.NewStores(Open(t))
}
