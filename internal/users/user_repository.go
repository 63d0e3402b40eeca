package users

import (
	"fmt"

	"stocktake/internal/repository"
	"stocktake/pkg/models"
	custom_error "stocktake/pkg/errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

var userColumns = []interface{}{"id", "username", "full_name", "password_hash", "role"}

type UserRepository struct {
	repository *repository.Repository
}

func NewUserRepository(r *repository.Repository) *UserRepository {
	return &UserRepository{repository: r}
}

func (r *UserRepository) GetUser(id int) (*models.User, error) {
	var user models.User
	query := r.repository.Goqu.
		Select(userColumns...).
		From("users").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("unable to select user: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &user, nil
}

func (r *UserRepository) GetUserList() ([]models.User, error) {
	var users []models.User
	query := r.repository.Goqu.
		Select(userColumns...).
		From("users").
		Order(goqu.I("username").Asc())

	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("unable to select users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) PersistUser(user *models.User) error {
	query := r.repository.Goqu.Insert("users").
		Rows(goqu.Record{
			"username":      user.Username,
			"full_name":     user.FullName,
			"password_hash": user.PasswordHash,
			"role":          user.Role,
		}).
		Returning("id")

	if _, err := query.Executor().ScanStruct(user); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError(fmt.Sprintf("username %s already exists", user.Username), string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) UpdateUserRole(id int, role string) error {
	result, err := r.repository.Goqu.Update("users").
		Set(goqu.Record{"role": role}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d not found", id)
	}

	return nil
}
