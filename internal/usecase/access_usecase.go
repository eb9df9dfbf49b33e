package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// AccessUsecase はロールと管理者アカウントの管理
type AccessUsecase struct {
	tx     repo.TransactionManager
	roles  repo.RoleRepository
	admins repo.AdminUserRepository
	hasher PasswordHasher
}

func NewAccessUsecase(tx repo.TransactionManager, roles repo.RoleRepository, admins repo.AdminUserRepository, hasher PasswordHasher) *AccessUsecase {
	return &AccessUsecase{tx: tx, roles: roles, admins: admins, hasher: hasher}
}

type RoleView struct {
	model.Role
	Permissions []string `json:"permissions"`
}

type RoleInput struct {
	Name          string
	Description   string
	PermissionIDs []int64
}

type RoleEdit struct {
	Role        model.Role         `json:"role"`
	Assigned    []int64            `json:"assigned"`
	Permissions []model.Permission `json:"permissions"`
}

func (u *AccessUsecase) ListRoles(ctx context.Context) ([]RoleView, error) {
	roles, err := u.roles.List(ctx)
	if err != nil {
		return nil, dbError(ctx, "access.list_roles", err)
	}
	out := make([]RoleView, 0, len(roles))
	for _, r := range roles {
		keys, err := u.roles.PermissionKeys(ctx, r.ID)
		if err != nil {
			return nil, dbError(ctx, "access.role_permissions", err)
		}
		out = append(out, RoleView{Role: r, Permissions: keys})
	}
	return out, nil
}

func (u *AccessUsecase) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	ps, err := u.roles.ListPermissions(ctx)
	if err != nil {
		return nil, dbError(ctx, "access.list_permissions", err)
	}
	return ps, nil
}

func (in RoleInput) name() (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", errValidation("name required")
	}
	return name, nil
}

func (u *AccessUsecase) CreateRole(ctx context.Context, in RoleInput) (int64, error) {
	name, err := in.name()
	if err != nil {
		return 0, err
	}

	var id int64
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		role := model.Role{Name: name, Description: strings.TrimSpace(in.Description)}
		if err := r.Roles().Create(ctx, &role); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return NewHTTPError(http.StatusConflict, "role already exists")
			}
			return err
		}
		id = role.ID
		return r.Roles().SetPermissions(ctx, role.ID, in.PermissionIDs)
	})
	if err != nil {
		return 0, txError(ctx, "access.create_role", err)
	}
	return id, nil
}

func (u *AccessUsecase) GetRole(ctx context.Context, id int64) (RoleEdit, error) {
	role, err := u.roles.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return RoleEdit{}, errNotFound("role")
	}
	if err != nil {
		return RoleEdit{}, dbError(ctx, "access.get_role", err)
	}
	assigned, err := u.roles.PermissionIDs(ctx, id)
	if err != nil {
		return RoleEdit{}, dbError(ctx, "access.get_role_permissions", err)
	}
	all, err := u.ListPermissions(ctx)
	if err != nil {
		return RoleEdit{}, err
	}
	return RoleEdit{Role: role, Assigned: assigned, Permissions: all}, nil
}

// 名前・説明と権限の置き換えを同じトランザクションで
func (u *AccessUsecase) UpdateRole(ctx context.Context, id int64, in RoleInput) error {
	name, err := in.name()
	if err != nil {
		return err
	}
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Roles().Update(ctx, model.Role{ID: id, Name: name, Description: strings.TrimSpace(in.Description)})
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return errNotFound("role")
		case errors.Is(err, repo.ErrDuplicate):
			return NewHTTPError(http.StatusConflict, "role already exists")
		case err != nil:
			return err
		}
		return r.Roles().SetPermissions(ctx, id, in.PermissionIDs)
	})
	return txError(ctx, "access.update_role", err)
}

// 割り当て済みの管理者はロール無しになる
func (u *AccessUsecase) DeleteRole(ctx context.Context, id int64) error {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.AdminUsers().DetachRole(ctx, id); err != nil {
			return err
		}
		err := r.Roles().Delete(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("role")
		}
		return err
	})
	return txError(ctx, "access.delete_role", err)
}

type AdminUserInput struct {
	Username string
	Password string
	RoleID   *int64
}

func (u *AccessUsecase) ListAdminUsers(ctx context.Context) ([]model.AdminUserView, error) {
	out, err := u.admins.List(ctx)
	if err != nil {
		return nil, dbError(ctx, "access.list_admins", err)
	}
	return out, nil
}

func (u *AccessUsecase) checkRole(ctx context.Context, roleID *int64) error {
	if roleID == nil {
		return nil
	}
	_, err := u.roles.FindByID(ctx, *roleID)
	if errors.Is(err, repo.ErrNotFound) {
		return errValidation("unknown role")
	}
	if err != nil {
		return dbError(ctx, "access.find_role", err)
	}
	return nil
}

// ここから作る管理者はスーパー管理者にならない
func (u *AccessUsecase) CreateAdminUser(ctx context.Context, in AdminUserInput) (int64, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return 0, errValidation("username and password required")
	}
	if err := u.checkRole(ctx, in.RoleID); err != nil {
		return 0, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "hash error")
	}
	a := model.AdminUser{Username: username, PasswordHash: hash, RoleID: in.RoleID}
	if err := u.admins.Create(ctx, &a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return 0, NewHTTPError(http.StatusConflict, "username already exists")
		}
		return 0, dbError(ctx, "access.create_admin", err)
	}
	return a.ID, nil
}

func (u *AccessUsecase) ChangeAdminRole(ctx context.Context, adminID int64, roleID *int64) error {
	if err := u.checkRole(ctx, roleID); err != nil {
		return err
	}
	err := u.admins.UpdateRole(ctx, adminID, roleID)
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound("admin user")
	}
	if err != nil {
		return dbError(ctx, "access.change_role", err)
	}
	return nil
}

// 自分自身は消せない
func (u *AccessUsecase) DeleteAdminUser(ctx context.Context, actorAdminID, adminID int64) error {
	if actorAdminID == adminID {
		return errValidation("cannot delete yourself")
	}
	err := u.admins.Delete(ctx, adminID)
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound("admin user")
	}
	if err != nil {
		return dbError(ctx, "access.delete_admin", err)
	}
	return nil
}
