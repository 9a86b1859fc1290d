package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role 账号角色，只有两种
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already taken")
)

type User struct {
	ID           string         `gorm:"primaryKey;size:32" json:"id"`
	FirstName    string         `gorm:"size:64;not null" json:"firstName"`
	LastName     string         `gorm:"size:64;not null" json:"lastName"`
	Email        string         `gorm:"index;size:191;not null" json:"email"`
	PasswordHash string         `gorm:"size:100;not null" json:"-"`
	Role         Role           `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// IsSoftDeleted 软删后记录仍在表里，只是默认查询看不到
func (u *User) IsSoftDeleted() bool { return u != nil && u.DeletedAt.Valid }

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

func (u *User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type ListFilter struct {
	Offset int
	Limit  int
	Q      string // email / 姓名模糊搜
}

// UserRepository 用户存储；默认读路径都会过滤软删记录，
// 带 WithDeleted 的方法除外。
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByIDWithDeleted(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	List(ctx context.Context, f ListFilter) ([]User, int64, error)
	Latest(ctx context.Context) (*User, error)
	Update(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id string) error
}
