package session

import "storefront/internal/domain/authz"

// Identity はリクエスト開始時点の「誰か」のスナップショット。値は変更できない。
type Identity struct {
	customerID    int64
	customerName  string
	isAdmin       bool
	adminID       int64
	adminUsername string
	caps          authz.Capabilities
}

func (i Identity) CustomerID() int64    { return i.customerID }
func (i Identity) CustomerName() string { return i.customerName }
func (i Identity) IsCustomer() bool     { return i.customerID > 0 }

func (i Identity) IsAdmin() bool         { return i.isAdmin }
func (i Identity) AdminID() int64        { return i.adminID }
func (i Identity) AdminUsername() string { return i.adminUsername }

// 呼び出し側で書き換えられないようにコピーを返す
func (i Identity) Capabilities() authz.Capabilities {
	perms := make(map[authz.Permission]struct{}, len(i.caps.Permissions))
	for p := range i.caps.Permissions {
		perms[p] = struct{}{}
	}
	return authz.Capabilities{SuperAdmin: i.caps.SuperAdmin, Permissions: perms}
}
