// Package testutil holds shared fixtures for package tests: an in-memory
// SQLite database with the users table migrated and a small user factory.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-gin-user-admin/internal/core/database"
	"go-gin-user-admin/internal/domain"
	"go-gin-user-admin/pkg/utils"
)

const Password = "password"

// NewDB 每个测试一个独立的内存库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", utils.NewID()),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// Factory 直接写库造用户，不经过 service/policy
type Factory struct {
	DB   *gorm.DB
	seq  atomic.Int64
	hash string
}

func NewFactory(t *testing.T, db *gorm.DB) *Factory {
	t.Helper()
	hash, err := utils.HashPassword(Password)
	require.NoError(t, err)
	return &Factory{DB: db, hash: hash}
}

func (f *Factory) create(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	n := f.seq.Add(1)
	u := &domain.User{
		ID:           utils.NewID(),
		FirstName:    fmt.Sprintf("First%d", n),
		LastName:     fmt.Sprintf("Last%d", n),
		Email:        fmt.Sprintf("%s%d@example.com", role, n),
		PasswordHash: f.hash,
		Role:         role,
	}
	require.NoError(t, f.DB.WithContext(context.Background()).Create(u).Error)
	return u
}

func (f *Factory) Admin(t *testing.T) *domain.User { return f.create(t, domain.RoleAdmin) }

func (f *Factory) User(t *testing.T) *domain.User { return f.create(t, domain.RoleUser) }

// Reload 不带软删过滤重新读一遍
func (f *Factory) Reload(t *testing.T, id string) *domain.User {
	t.Helper()
	var u domain.User
	require.NoError(t, f.DB.Unscoped().Where("id = ?", id).First(&u).Error)
	return &u
}

func (f *Factory) Count(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.DB.Unscoped().Model(&domain.User{}).Count(&n).Error)
	return n
}
