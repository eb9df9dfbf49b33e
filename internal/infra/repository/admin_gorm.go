package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminUserGormRepository struct {
	db *gorm.DB
}

func NewAdminUserGormRepository(db *gorm.DB) *AdminUserGormRepository {
	return &AdminUserGormRepository{db: db}
}

func (r *AdminUserGormRepository) FindByUsername(ctx context.Context, username string) (model.AdminUser, error) {
	var u model.AdminUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return model.AdminUser{}, translate(err)
	}
	return u, nil
}

func (r *AdminUserGormRepository) FindByID(ctx context.Context, id int64) (model.AdminUser, error) {
	var u model.AdminUser
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return model.AdminUser{}, translate(err)
	}
	return u, nil
}

func (r *AdminUserGormRepository) Create(ctx context.Context, u *model.AdminUser) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *AdminUserGormRepository) List(ctx context.Context) ([]model.AdminUserView, error) {
	var out []model.AdminUserView
	err := r.db.WithContext(ctx).
		Table("admin_users AS a").
		Select("a.*, COALESCE(r.name, '') AS role_name").
		Joins("LEFT JOIN roles AS r ON r.id = a.role_id").
		Order("a.id asc").
		Scan(&out).Error
	if err != nil {
		return []model.AdminUserView{}, err
	}
	return out, nil
}

func (r *AdminUserGormRepository) UpdateRole(ctx context.Context, id int64, roleID *int64) error {
	res := r.db.WithContext(ctx).Model(&model.AdminUser{}).Where("id = ?", id).Update("role_id", roleID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AdminUserGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.AdminUser{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AdminUserGormRepository) DetachRole(ctx context.Context, roleID int64) error {
	return r.db.WithContext(ctx).Model(&model.AdminUser{}).
		Where("role_id = ?", roleID).
		Update("role_id", nil).Error
}

func (r *AdminUserGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.AdminUser{}).Count(&n).Error
	return n, err
}

type RoleGormRepository struct {
	db *gorm.DB
}

func NewRoleGormRepository(db *gorm.DB) *RoleGormRepository {
	return &RoleGormRepository{db: db}
}

func (r *RoleGormRepository) List(ctx context.Context) ([]model.Role, error) {
	var rs []model.Role
	if err := r.db.WithContext(ctx).Order("name asc").Find(&rs).Error; err != nil {
		return []model.Role{}, err
	}
	return rs, nil
}

func (r *RoleGormRepository) FindByID(ctx context.Context, id int64) (model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return model.Role{}, translate(err)
	}
	return role, nil
}

func (r *RoleGormRepository) Create(ctx context.Context, role *model.Role) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *RoleGormRepository) Update(ctx context.Context, role model.Role) error {
	res := r.db.WithContext(ctx).Model(&model.Role{}).Where("id = ?", role.ID).Updates(map[string]interface{}{
		"name":        role.Name,
		"description": role.Description,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *RoleGormRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("role_id = ?", id).Delete(&model.RolePermission{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Role{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *RoleGormRepository) PermissionIDs(ctx context.Context, roleID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.RolePermission{}).
		Where("role_id = ?", roleID).
		Order("permission_id asc").
		Pluck("permission_id", &ids).Error
	if err != nil {
		return []int64{}, err
	}
	return ids, nil
}

// 呼び出し側のトランザクション内で使う（削除→挿入）
func (r *RoleGormRepository) SetPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("role_id = ?", roleID).Delete(&model.RolePermission{}).Error; err != nil {
		return err
	}
	if len(permissionIDs) == 0 {
		return nil
	}
	rows := make([]model.RolePermission, 0, len(permissionIDs))
	for _, pid := range permissionIDs {
		rows = append(rows, model.RolePermission{RoleID: roleID, PermissionID: pid})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *RoleGormRepository) PermissionKeys(ctx context.Context, roleID int64) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).
		Table("permissions AS p").
		Joins("JOIN role_permissions AS rp ON rp.permission_id = p.id").
		Where("rp.role_id = ?", roleID).
		Order("p.key asc").
		Pluck("p.key", &keys).Error
	if err != nil {
		return []string{}, err
	}
	return keys, nil
}

func (r *RoleGormRepository) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	var ps []model.Permission
	if err := r.db.WithContext(ctx).Order("id asc").Find(&ps).Error; err != nil {
		return []model.Permission{}, err
	}
	return ps, nil
}

func (r *RoleGormRepository) EnsurePermission(ctx context.Context, key, label string) error {
	p := model.Permission{Key: key, Label: label}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&p).Error
}
