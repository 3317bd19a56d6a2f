package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"go-fairplay/internal/http-server/handlers/mysql"
	"go-fairplay/internal/http-server/model"
)

type UserRepository struct {
	dbhandler mysql.Handler
}

func NewUserRepository(dbhandler mysql.Handler) *UserRepository {
	return &UserRepository{dbhandler: dbhandler}
}

func (repo *UserRepository) FindUserByUUID(uuid string) (*model.User, error) {
	const op = "repository.user.FindUserByUUID"

	const query = "SELECT id, uuid FROM users WHERE uuid = ?"
	row, err := repo.dbhandler.PrepareAndQueryRow(query, uuid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &model.User{}

	err = row.Scan(&user.ID, &user.UUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
