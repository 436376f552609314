package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type userRepositoryImpl struct {
	store *Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepositoryImpl{store: store}
}

func userFromRow(r record.Row) user.User {
	return user.User{
		ID:           r.ID(),
		Username:     r.String("username"),
		PasswordHash: r.String("password_hash"),
		Role:         user.Role(r.String("role")),
		EmployeeID:   r.Int64Ptr("employee_id"),
		CreatedAt:    r.Time("created_at"),
		UpdatedAt:    r.Time("updated_at"),
	}
}

// GetByUsername implements user.UserRepository.
func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (user.User, error) {
	row, err := r.store.FindOne(ctx, record.Query{
		Table:  record.TableUsers,
		Filter: record.Where(record.Eq("username", strings.ToLower(username))),
	})
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return userFromRow(row), nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id int64) (user.User, error) {
	row, err := r.store.GetByID(ctx, record.TableUsers, id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return userFromRow(row), nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	now := time.Now().UTC()
	id, err := r.store.Insert(ctx, record.TableUsers, record.Row{
		"username":      strings.ToLower(newUser.Username),
		"password_hash": newUser.PasswordHash,
		"role":          string(newUser.Role),
		"employee_id":   newUser.EmployeeID,
		"created_at":    now,
		"updated_at":    now,
	})
	if err != nil {
		if errors.Is(err, record.ErrUniqueViolation) {
			return user.User{}, user.ErrUsernameExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return r.GetByID(ctx, id)
}

// ExistsByUsername implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := r.store.Count(ctx, record.TableUsers, record.Where(record.Eq("username", strings.ToLower(username))))
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return n > 0, nil
}

// Count implements user.UserRepository.
func (r *userRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx, record.TableUsers, nil)
}
