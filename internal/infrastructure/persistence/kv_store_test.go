package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupKVTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&KVRecord{}))
	return db
}

func newMockKVStore(t *testing.T) (*GormKeyValueStore, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewGormKeyValueStore(gormDB), mock, mockDB
}

func TestGormKeyValueStore_RoundTrip(t *testing.T) {
	store := NewGormKeyValueStore(setupKVTestDB(t))
	ctx := context.Background()

	t.Run("missing key is absent", func(t *testing.T) {
		value, ok, err := store.Get(ctx, "products")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, value)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "products", []byte(`[{"productId":"P-001"}]`)))

		value, ok, err := store.Get(ctx, "products")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `[{"productId":"P-001"}]`, string(value))
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "products", []byte(`[]`)))

		value, ok, err := store.Get(ctx, "products")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "[]", string(value))
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, "products"))

		_, ok, err := store.Get(ctx, "products")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("remove missing key is not an error", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, "never-set"))
	})
}

func TestGormKeyValueStore_Get_Postgres(t *testing.T) {
	t.Run("reads value", func(t *testing.T) {
		store, mock, mockDB := newMockKVStore(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"record_key", "value", "updated_at"}).
			AddRow("lastProductId", "7", time.Now())
		mock.ExpectQuery(`SELECT \* FROM "kv_records" WHERE record_key = \$1 ORDER BY .* LIMIT .*`).
			WillReturnRows(rows)

		value, ok, err := store.Get(context.Background(), "lastProductId")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "7", string(value))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates driver errors", func(t *testing.T) {
		store, mock, mockDB := newMockKVStore(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "kv_records" WHERE record_key = \$1 ORDER BY .* LIMIT .*`).
			WillReturnError(errors.New("connection reset"))

		_, ok, err := store.Get(context.Background(), "products")
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestGormKeyValueStore_Set_Postgres(t *testing.T) {
	store, mock, mockDB := newMockKVStore(t)
	defer mockDB.Close()

	mock.ExpectExec(`INSERT INTO "kv_records" .* ON CONFLICT \("record_key"\) DO UPDATE SET .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Set(context.Background(), "salesHistory", []byte(`[]`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormKeyValueStore_Remove_Postgres(t *testing.T) {
	store, mock, mockDB := newMockKVStore(t)
	defer mockDB.Close()

	mock.ExpectExec(`DELETE FROM "kv_records" WHERE record_key = \$1`).
		WithArgs("products").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Remove(context.Background(), "products"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
