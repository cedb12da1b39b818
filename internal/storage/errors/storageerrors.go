package storerrors

import "errors"

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNoExist     = errors.New("user does not exist")
	ErrInvalidPassword = errors.New("invalid password")
	ErrBookNoExist     = errors.New("book does not exist")
)
