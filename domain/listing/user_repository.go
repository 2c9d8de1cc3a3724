package listing

import (
	"context"
	ers "errors"
	"strings"

	"sndeals/data/db/dialect"
	"sndeals/data/orm"
	"sndeals/data/orm/repo"
	"sndeals/errors"
)

// UserRepository 用户仓储，登录名与邮箱查询忽略大小写
type UserRepository struct {
	*repo.Repo[*User]
}

func NewUserRepository(o orm.IOrm) *UserRepository {
	return &UserRepository{Repo: repo.NewRepo[*User](o, "app_user")}
}

// FindOneByLogin 按登录名查找，不存在时返回 NOT_FOUND
func (r *UserRepository) FindOneByLogin(ctx context.Context, login string) (*User, error) {
	return r.findOne(ctx, "login", login)
}

// FindOneByEmail 按邮箱查找，不存在时返回 NOT_FOUND
func (r *UserRepository) FindOneByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "email", email)
}

// Create 规范化登录名与邮箱后插入；登录名或邮箱已存在时返回 CONFLICT
func (r *UserRepository) Create(ctx context.Context, u *User) error {
	u.Login = strings.ToLower(strings.TrimSpace(u.Login))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := u.Validate(); err != nil {
		return err
	}
	for col, v := range map[string]string{"login": u.Login, "email": u.Email} {
		if _, err := r.findOne(ctx, col, v); err == nil {
			return errors.Newf(errors.ErrCodeConflict, "user with %s %q already exists", col, v)
		} else if !errors.IsNotFound(err) {
			return err
		}
	}
	// 并发创建时唯一约束兜底
	if err := r.Repo.Create(ctx, u); err != nil {
		if dialect.FromDatabase(r.Orm().Database()).IsUniqueViolation(err) {
			return errors.Newf(errors.ErrCodeConflict, "user %q already exists", u.Login)
		}
		return err
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, column, value string) (*User, error) {
	var u *User
	err := r.Model().First(ctx, &u, orm.WithWhere("LOWER("+column+") = ?", strings.ToLower(value)))
	if err != nil {
		if ers.Is(err, orm.ErrNotFound) {
			return nil, errors.Newf(errors.ErrCodeNotFound, "user %s %q not found", column, value)
		}
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to query user")
	}
	return u, nil
}
