package services

import (
	"fmt"

	"github.com/rahasiadapur/backend/internal/models"
	"github.com/rahasiadapur/backend/internal/store"
	"github.com/rahasiadapur/backend/internal/utils"
	"github.com/rahasiadapur/backend/pkg/response"
)

// UserService implements admin user management. Deleting a user also revokes
// every session they hold.
type UserService struct {
	users    *store.Users
	sessions *store.Sessions
}

func NewUserService(users *store.Users, sessions *store.Sessions) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
	}
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// UserList is one page of users plus pagination metadata.
type UserList struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (s *UserService) List(search string, page, limit int) (*UserList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, total, err := s.users.List(search, page, limit)
	if err != nil {
		return nil, err
	}

	return &UserList{
		Users: users,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NewNotFound("User not found")
	}
	return user, nil
}

// Create adds a user with an admin-chosen role (default user).
func (s *UserService) Create(actor uint, req *CreateUserRequest) (*models.User, error) {
	exists, err := s.users.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, response.NewBadRequest("Email already registered")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	LogActivity(&actor, "CREATE_USER", models.ActivityTypeUser, &user.ID,
		fmt.Sprintf("User %s created with role %s", user.Name, user.Role))

	return user, nil
}

// Update changes name, email and optionally the password (rehashed).
func (s *UserService) Update(actor, id uint, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NewNotFound("User not found")
	}

	if req.Email != user.Email {
		exists, err := s.users.EmailExists(req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, response.NewBadRequest("Email already registered")
		}
	}

	user.Name = req.Name
	user.Email = req.Email
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := s.users.Save(user); err != nil {
		return nil, err
	}

	LogActivity(&actor, "UPDATE_USER", models.ActivityTypeUser, &user.ID,
		fmt.Sprintf("User %s updated", user.Name))

	return user, nil
}

// UpdateRole changes a user's role.
func (s *UserService) UpdateRole(actor, id uint, req *UpdateRoleRequest) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NewNotFound("User not found")
	}

	user.Role = req.Role
	if err := s.users.Save(user); err != nil {
		return nil, err
	}

	LogActivity(&actor, "UPDATE_ROLE", models.ActivityTypeUser, &user.ID,
		fmt.Sprintf("User %s role set to %s", user.Name, user.Role))

	return user, nil
}

// Delete removes a user and all their sessions. Admins cannot delete their
// own account.
func (s *UserService) Delete(actor, id uint) error {
	if actor == id {
		return response.NewBadRequest("You cannot delete your own account")
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return response.NewNotFound("User not found")
	}

	if err := s.sessions.ClearAll(id); err != nil {
		return err
	}
	if err := s.users.Delete(id); err != nil {
		return err
	}

	LogActivity(&actor, "DELETE_USER", models.ActivityTypeUser, &id,
		fmt.Sprintf("User %s deleted", user.Name))

	return nil
}
