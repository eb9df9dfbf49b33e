package model

import "time"

// 管理画面のアカウント。ロールは最大1つ。
type AdminUser struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	IsSuperAdmin bool      `gorm:"not null;default:false" json:"is_super_admin"`
	RoleID       *int64    `gorm:"index" json:"role_id"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 一覧表示用
type AdminUserView struct {
	AdminUser
	RoleName string `json:"role_name"`
}
