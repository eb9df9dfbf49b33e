package model

type Role struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
}

// 権限キー（manage_ordersなど）
type Permission struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Key   string `gorm:"type:varchar(100);not null;uniqueIndex" json:"key"`
	Label string `gorm:"type:varchar(255);not null" json:"label"`
}

type RolePermission struct {
	RoleID       int64 `gorm:"primaryKey" json:"role_id"`
	PermissionID int64 `gorm:"primaryKey" json:"permission_id"`
}
