package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&widget{}))
	return conn
}

func TestRunInTransaction_CommitAndRollback(t *testing.T) {
	conn := setupTestDB(t)
	tm := NewTransactionManager(conn)
	ctx := context.Background()

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		return GetTxFromContext(txCtx, conn).Create(&widget{Name: "kept"}).Error
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := GetTxFromContext(txCtx, conn).Create(&widget{Name: "dropped"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var names []string
	require.NoError(t, conn.Model(&widget{}).Pluck("name", &names).Error)
	assert.Equal(t, []string{"kept"}, names)
}

func TestRunInTransaction_NestedCallJoinsOuter(t *testing.T) {
	conn := setupTestDB(t)
	tm := NewTransactionManager(conn)
	boom := errors.New("boom")

	err := tm.RunInTransaction(context.Background(), func(outer context.Context) error {
		inner := tm.RunInTransaction(outer, func(innerCtx context.Context) error {
			return GetTxFromContext(innerCtx, conn).Create(&widget{Name: "inner"}).Error
		})
		require.NoError(t, inner)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, conn.Model(&widget{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPaginateAndOrderBy(t *testing.T) {
	conn := setupTestDB(t)
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, conn.Create(&widget{Name: n}).Error)
	}
	allowed := map[string]bool{"name": true}

	var got []widget
	err := conn.Scopes(OrderBy(allowed, "name", "desc", "id ASC"), Paginate(2, 2)).Find(&got).Error
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Name)
	assert.Equal(t, "b", got[1].Name)

	got = nil
	err = conn.Scopes(OrderBy(allowed, "name; DROP TABLE widgets", "", "id ASC"), Paginate(1, 0)).Find(&got).Error
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, "a", got[0].Name)
}
