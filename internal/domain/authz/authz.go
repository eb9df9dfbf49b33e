// Package authz は管理者の権限判定。セッションやDBに依存しない純粋関数だけを置く。
package authz

import "sort"

// 権限キー
type Permission string

const (
	ViewDashboard    Permission = "view_dashboard"
	ManageProducts   Permission = "manage_products"
	ViewOrders       Permission = "view_orders"
	ManageOrders     Permission = "manage_orders"
	ManageCategories Permission = "manage_categories"
	ManageRoles      Permission = "manage_roles"
	ManageUsers      Permission = "manage_users"
	ManageCustomers  Permission = "manage_customers"
	ManageReviews    Permission = "manage_reviews"
)

// 初期投入する権限とラベル
var Defaults = []struct {
	Key   Permission
	Label string
}{
	{ViewDashboard, "View Dashboard"},
	{ManageProducts, "Manage Products"},
	{ViewOrders, "View Orders"},
	{ManageOrders, "Manage Orders"},
	{ManageCategories, "Manage Categories"},
	{ManageRoles, "Manage Roles"},
	{ManageUsers, "Manage Users"},
	{ManageCustomers, "Manage Customers"},
	{ManageReviews, "Manage Reviews"},
}

// Capabilities はログイン時点の管理者の権限スナップショット
type Capabilities struct {
	SuperAdmin  bool
	Permissions map[Permission]struct{}
}

func NewCapabilities(superAdmin bool, keys ...string) Capabilities {
	set := make(map[Permission]struct{}, len(keys))
	for _, k := range keys {
		set[Permission(k)] = struct{}{}
	}
	return Capabilities{SuperAdmin: superAdmin, Permissions: set}
}

func (c Capabilities) Has(p Permission) bool {
	_, ok := c.Permissions[p]
	return ok
}

// Keys はセッション保存用に並べた権限キー
func (c Capabilities) Keys() []string {
	out := make([]string, 0, len(c.Permissions))
	for p := range c.Permissions {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// Authorize はrequiredをすべて持っていればtrue。
// スーパー管理者は常にtrue。requiredが空なら管理者であれば通す。
func Authorize(actor Capabilities, required ...Permission) bool {
	if actor.SuperAdmin {
		return true
	}
	for _, p := range required {
		if !actor.Has(p) {
			return false
		}
	}
	return true
}
