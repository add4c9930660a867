package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/cotiza/pkg/db/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testRecord struct {
	ID    int64  `gorm:"column:id;primaryKey"`
	Name  string `gorm:"column:name"`
	Group string `gorm:"column:grp"`
}

func (testRecord) TableName() string {
	return "test_records"
}

func setupStore(t *testing.T) (Repository[testRecord], *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&testRecord{}))

	return ProvideStore[testRecord](db), db
}

func TestStoreCRUD(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &testRecord{ID: 1, Name: "alpha", Group: "a"}))
	require.NoError(t, store.Create(ctx, &testRecord{ID: 2, Name: "beta", Group: "a"}))
	require.NoError(t, store.Create(ctx, &testRecord{ID: 3, Name: "gamma", Group: "b"}))

	found, err := store.FindOne(ctx, &testRecord{Name: "beta"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.EqualValues(t, 2, found.ID)

	missing, err := store.FindOne(ctx, &testRecord{Name: "delta"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := store.Find(ctx, &testRecord{Group: "a"}, option.WithOrder("id desc"))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.EqualValues(t, 2, all[0].ID)

	count, err := store.Count(ctx, &testRecord{Group: "a"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, store.Update(ctx, "1", map[string]any{"name": "alpha-2"}))
	updated, err := store.FindOne(ctx, &testRecord{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "alpha-2", updated.Name)

	require.NoError(t, store.Delete(ctx, "3"))
	gone, err := store.FindOne(ctx, &testRecord{ID: 3})
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestStoreWithTrxRollback(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := store.WithTrx(tx).Create(ctx, &testRecord{ID: 10, Name: "ephemeral"}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.Error(t, err)

	found, err := store.FindOne(ctx, &testRecord{ID: 10})
	require.NoError(t, err)
	assert.Nil(t, found)
}
