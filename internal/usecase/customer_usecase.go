package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CustomerUsecase は購入者アカウント（登録・ログイン・アカウント編集）
type CustomerUsecase struct {
	customers repo.CustomerRepository
	hasher    PasswordHasher
}

func NewCustomerUsecase(customers repo.CustomerRepository, hasher PasswordHasher) *CustomerUsecase {
	return &CustomerUsecase{customers: customers, hasher: hasher}
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type ProfileInput struct {
	Name    string
	Email   string
	Address string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

func (u *CustomerUsecase) Register(ctx context.Context, in RegisterInput) (model.Customer, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if name == "" || email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return model.Customer{}, errValidation("All fields are required")
	}
	if in.Password != in.ConfirmPassword {
		return model.Customer{}, errValidation("Passwords do not match")
	}
	if len(in.Password) < minPasswordLength {
		return model.Customer{}, errValidation("Password must be at least 6 characters")
	}

	// email重複チェック
	_, err := u.customers.FindByEmail(ctx, email)
	if err == nil {
		return model.Customer{}, NewHTTPError(http.StatusConflict, "An account with this email already exists")
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, dbError(ctx, "customer.register_lookup", err)
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	c := model.Customer{Name: name, Email: email, PasswordHash: hash}
	if err := u.customers.Create(ctx, &c); err != nil {
		// 同時登録で一意制約に当たった
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Customer{}, NewHTTPError(http.StatusConflict, "An account with this email already exists")
		}
		return model.Customer{}, dbError(ctx, "customer.register", err)
	}
	return c, nil
}

func (u *CustomerUsecase) Login(ctx context.Context, email, password string) (model.Customer, error) {
	invalid := NewHTTPError(http.StatusUnauthorized, "Invalid email or password")

	c, err := u.customers.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, invalid
	}
	if err != nil {
		return model.Customer{}, dbError(ctx, "customer.login", err)
	}
	if !u.hasher.Verify(password, c.PasswordHash) {
		return model.Customer{}, invalid
	}
	return c, nil
}

// Account はアカウント画面用。セッションの顧客が消えていたら未ログイン扱い
func (u *CustomerUsecase) Account(ctx context.Context, customerID int64) (model.Customer, error) {
	if customerID <= 0 {
		return model.Customer{}, errUnauthenticated()
	}
	c, err := u.customers.FindByID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, errUnauthenticated()
	}
	if err != nil {
		return model.Customer{}, dbError(ctx, "customer.account", err)
	}
	return c, nil
}

func (u *CustomerUsecase) UpdateProfile(ctx context.Context, customerID int64, in ProfileInput) (model.Customer, error) {
	c, err := u.Account(ctx, customerID)
	if err != nil {
		return model.Customer{}, err
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return model.Customer{}, errValidation("Name and email are required")
	}

	// 他の顧客が使っているemailは不可
	other, err := u.customers.FindByEmail(ctx, email)
	if err == nil && other.ID != c.ID {
		return model.Customer{}, NewHTTPError(http.StatusConflict, "This email is already in use by another account")
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, dbError(ctx, "customer.profile_lookup", err)
	}

	address := strings.TrimSpace(in.Address)
	if err := u.customers.UpdateProfile(ctx, c.ID, name, email, address); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Customer{}, NewHTTPError(http.StatusConflict, "This email is already in use by another account")
		}
		return model.Customer{}, dbError(ctx, "customer.profile", err)
	}

	c.Name, c.Email, c.Address = name, email, address
	return c, nil
}

func (u *CustomerUsecase) ChangePassword(ctx context.Context, customerID int64, in ChangePasswordInput) error {
	c, err := u.Account(ctx, customerID)
	if err != nil {
		return err
	}

	if in.CurrentPassword == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return errValidation("All password fields are required")
	}
	if !u.hasher.Verify(in.CurrentPassword, c.PasswordHash) {
		return errValidation("Current password is incorrect")
	}
	if in.NewPassword != in.ConfirmPassword {
		return errValidation("New passwords do not match")
	}
	if len(in.NewPassword) < minPasswordLength {
		return errValidation("New password must be at least 6 characters")
	}

	hash, err := u.hasher.Hash(in.NewPassword)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "hash error")
	}
	if err := u.customers.UpdatePassword(ctx, c.ID, hash); err != nil {
		return dbError(ctx, "customer.password", err)
	}
	return nil
}
