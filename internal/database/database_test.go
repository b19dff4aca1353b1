package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{
			name: "in-memory sqlite",
			opts: Options{Driver: "sqlite", Path: ":memory:"},
		},
		{
			name: "file sqlite in nested directory",
			opts: Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "nested", "test.db")},
		},
		{
			name: "empty driver and path default to in-memory sqlite",
			opts: Options{},
		},
		{
			name:    "unsupported driver",
			opts:    Options{Driver: "mysql"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Open(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, conn)
			assert.NoError(t, conn.HealthCheck())
			assert.NoError(t, conn.Close())
		})
	}
}

func TestDB_HealthCheck(t *testing.T) {
	tests := []struct {
		name      string
		setupConn func() (*DB, func())
		wantErr   bool
	}{
		{
			name: "healthy connection",
			setupConn: func() (*DB, func()) {
				conn, _ := Initialize(":memory:", false)
				return conn, func() { conn.Close() }
			},
		},
		{
			name: "closed connection",
			setupConn: func() (*DB, func()) {
				conn, _ := Initialize(":memory:", false)
				conn.Close()
				return conn, func() {}
			},
			wantErr: true,
		},
		{
			name: "nil connection",
			setupConn: func() (*DB, func()) {
				return nil, func() {}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, cleanup := tt.setupConn()
			defer cleanup()

			err := conn.HealthCheck()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDB_Migrate(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Migrate())

	for _, table := range []string{"channels", "episodes"} {
		var count int64
		err := conn.DB.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, table)
	}
}

func TestDB_TranslatesDuplicateKey(t *testing.T) {
	type record struct {
		ID  uint
		Key string `gorm:"uniqueIndex"`
	}

	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.AutoMigrate(&record{}))

	require.NoError(t, conn.Create(&record{Key: "a"}).Error)
	err = conn.Create(&record{Key: "a"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestDB_TransactionRollback(t *testing.T) {
	type record struct {
		ID    uint
		Value string
	}

	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.AutoMigrate(&record{}))

	err = conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record{Value: "rollback"}).Error; err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	assert.Error(t, err)

	var count int64
	conn.Model(&record{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
