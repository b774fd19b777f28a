package mapper

import (
	"synthmind-be/internal/entity"
	"synthmind-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.UserData) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		UserID:       u.UserID,
		Name:         u.Name,
		Age:          u.Age,
		Gender:       u.Gender,
		Country:      u.Country,
		City:         u.City,
		PasswordHash: u.Password,
		RegisteredAt: u.RegisteredAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.UserData {
	if u == nil {
		return nil
	}
	return &model.UserData{
		UserID:       u.UserID,
		Name:         u.Name,
		Age:          u.Age,
		Gender:       u.Gender,
		Country:      u.Country,
		City:         u.City,
		Password:     u.PasswordHash,
		RegisteredAt: u.RegisteredAt,
	}
}
