package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"go-gin-user-admin/internal/domain"
	"go-gin-user-admin/internal/policy"
	"go-gin-user-admin/pkg/utils"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type ListQuery struct {
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
	Q      string `form:"q"`
}

type Page struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

// UserService 用户管理：每个动作先过 policy，再校验，最后落库
type UserService struct {
	repo     domain.UserRepository
	actors   *ActorSource
	validate *validator.Validate
	log      *zap.Logger
}

func NewUserService(repo domain.UserRepository, actors *ActorSource, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{
		repo:     repo,
		actors:   actors,
		validate: newValidator(),
		log:      log,
	}
}

func (s *UserService) authorize(actor *domain.User, action policy.Action, target *domain.User) error {
	if policy.CanAccess(actor, action, target) {
		return nil
	}
	fields := []zap.Field{zap.String("action", string(action))}
	if actor != nil {
		fields = append(fields, zap.String("actor", actor.ID), zap.String("role", string(actor.Role)))
	}
	if target != nil {
		fields = append(fields, zap.String("target", target.ID))
	}
	s.log.Warn("user action forbidden", fields...)
	actionTotal.WithLabelValues(string(action), outcomeForbidden).Inc()
	return ErrForbidden
}

func (s *UserService) done(action policy.Action, err error) error {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
		if _, ok := IsValidation(err); ok {
			outcome = outcomeInvalid
		}
	}
	actionTotal.WithLabelValues(string(action), outcome).Inc()
	return err
}

// Get 默认读路径：软删用户查不到
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetWithDeleted(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByIDWithDeleted(ctx, id)
}

func (s *UserService) List(ctx context.Context, actor *domain.User, q ListQuery) (*Page, error) {
	if err := s.authorize(actor, policy.List, nil); err != nil {
		return nil, err
	}
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	users, total, err := s.repo.List(ctx, domain.ListFilter{Offset: q.Offset, Limit: q.Limit, Q: q.Q})
	if err != nil {
		return nil, s.done(policy.List, fmt.Errorf("list users: %w", err))
	}
	_ = s.done(policy.List, nil)
	return &Page{Total: total, Items: users}, nil
}

func (s *UserService) CreateForm(_ context.Context, actor *domain.User) error {
	return s.authorize(actor, policy.ViewCreateForm, nil)
}

func (s *UserService) EditForm(_ context.Context, actor, target *domain.User) error {
	return s.authorize(actor, policy.ViewEditForm, target)
}

func (s *UserService) Create(ctx context.Context, actor *domain.User, in CreateInput) (*domain.User, error) {
	if err := s.authorize(actor, policy.Create, nil); err != nil {
		return nil, err
	}
	u, err := s.create(ctx, in, domain.RoleUser)
	if err != nil {
		return nil, s.done(policy.Create, err)
	}
	s.log.Info("user created", zap.String("actor", actor.ID), zap.String("id", u.ID), zap.String("email", u.Email))
	return u, s.done(policy.Create, nil)
}

// CreateAdmin 命令行初始化管理员用，不经过 policy
func (s *UserService) CreateAdmin(ctx context.Context, in CreateInput) (*domain.User, error) {
	u, err := s.create(ctx, in, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.log.Info("admin created", zap.String("id", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (s *UserService) create(ctx context.Context, in CreateInput, role domain.Role) (*domain.User, error) {
	in.normalize()
	if err := s.check(ctx, &in, in.Email, ""); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"password": "The password field is invalid."}}
	}
	u := &domain.User{
		ID:           utils.NewID(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, actor, target *domain.User, in UpdateInput) (*domain.User, error) {
	if err := s.authorize(actor, policy.Update, target); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}
	in.normalize()
	if err := s.check(ctx, &in, in.Email, target.ID); err != nil {
		return nil, s.done(policy.Update, err)
	}

	u := *target
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Email = in.Email
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, s.done(policy.Update, &ValidationError{Fields: map[string]string{"password": "The password field is invalid."}})
		}
		u.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, &u); err != nil {
		return nil, s.done(policy.Update, fmt.Errorf("update user %s: %w", u.ID, err))
	}
	s.actors.Forget(ctx, u.ID)
	s.log.Info("user updated",
		zap.String("actor", actor.ID),
		zap.String("id", u.ID),
		zap.Bool("password_changed", in.Password != ""),
	)
	return &u, s.done(policy.Update, nil)
}

// Delete 软删；已经软删的记录直接返回 nil，不会恢复
func (s *UserService) Delete(ctx context.Context, actor, target *domain.User) error {
	if err := s.authorize(actor, policy.Delete, target); err != nil {
		return err
	}
	if target == nil {
		return domain.ErrNotFound
	}
	if target.IsSoftDeleted() {
		return s.done(policy.Delete, nil)
	}
	if err := s.repo.SoftDelete(ctx, target.ID); err != nil {
		return s.done(policy.Delete, fmt.Errorf("delete user %s: %w", target.ID, err))
	}
	s.actors.Forget(ctx, target.ID)
	s.log.Info("user soft-deleted", zap.String("actor", actor.ID), zap.String("id", target.ID))
	return s.done(policy.Delete, nil)
}

// check 结构校验 + 邮箱在未软删用户中唯一（exceptID 为更新目标自身）
func (s *UserService) check(ctx context.Context, in any, email, exceptID string) error {
	fields := map[string]string{}
	if err := s.validate.Struct(in); err != nil {
		fields = fieldErrors(err)
	}
	if _, bad := fields["email"]; !bad {
		taken, err := s.repo.EmailTaken(ctx, email, exceptID)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			fields["email"] = msgEmailTaken
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Authenticate 登录：邮箱 + 密码，软删用户不能登录
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

var ErrBadCredentials = errors.New("invalid credentials")
