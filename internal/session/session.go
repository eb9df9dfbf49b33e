// Package session はリクエスト単位のセッション。
// 外部ストアとの読み書きはリクエストの入口と出口（middleware）だけで行う。
package session

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/authz"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// カートの1行
type CartLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

// ストアに保存される中身
type Data struct {
	Cart []CartLine `json:"cart,omitempty"`

	CustomerID   int64  `json:"customerId,omitempty"`
	CustomerName string `json:"customerName,omitempty"`

	IsAdmin       bool     `json:"isAdmin,omitempty"`
	AdminID       int64    `json:"adminId,omitempty"`
	AdminUsername string   `json:"adminUsername,omitempty"`
	IsSuperAdmin  bool     `json:"isSuperAdmin,omitempty"`
	Permissions   []string `json:"permissions,omitempty"`
}

// 外部のセッションストア（Redisなど）
type Store interface {
	// 無ければErrNotFound
	Load(ctx context.Context, id string) (Data, error)
	Save(ctx context.Context, id string, data Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Session は1リクエストの間だけ使う。ゴルーチン間で共有しない。
type Session struct {
	id    string
	data  Data
	isNew bool
	dirty bool
	// Rotateで捨てたid。middlewareがストアから消す
	replaced string
}

func New() *Session {
	return &Session{id: uuid.NewString(), isNew: true}
}

func Existing(id string, data Data) *Session {
	return &Session{id: id, data: data}
}

func (s *Session) ID() string  { return s.id }
func (s *Session) IsNew() bool { return s.isNew }
func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) ReplacedID() string { return s.replaced }

// Rotate はログイン時にsidを振り直す。中身はそのまま引き継ぐ
func (s *Session) Rotate() {
	if s.isNew {
		// まだcookieで渡していないidなので振り直す必要はない
		return
	}
	if s.replaced == "" {
		s.replaced = s.id
	}
	s.id = uuid.NewString()
	s.isNew = true
	s.dirty = true
}

// Data はストア保存用のコピー
func (s *Session) Data() Data {
	d := s.data
	d.Cart = append([]CartLine(nil), s.data.Cart...)
	d.Permissions = append([]string(nil), s.data.Permissions...)
	return d
}

func (s *Session) Identity() Identity {
	return Identity{
		customerID:    s.data.CustomerID,
		customerName:  s.data.CustomerName,
		isAdmin:       s.data.IsAdmin,
		adminID:       s.data.AdminID,
		adminUsername: s.data.AdminUsername,
		caps:          authz.NewCapabilities(s.data.IsSuperAdmin, s.data.Permissions...),
	}
}

func (s *Session) Cart() []CartLine {
	return append([]CartLine(nil), s.data.Cart...)
}

func (s *Session) SetCart(lines []CartLine) {
	s.data.Cart = append([]CartLine(nil), lines...)
	s.dirty = true
}

func (s *Session) ClearCart() {
	s.data.Cart = nil
	s.dirty = true
}

func (s *Session) LoginCustomer(id int64, name string) {
	s.data.CustomerID = id
	s.data.CustomerName = name
	s.dirty = true
}

func (s *Session) LogoutCustomer() {
	s.data.CustomerID = 0
	s.data.CustomerName = ""
	s.dirty = true
}

// 権限はログイン時点のものを保存する。ロールが後で変わっても再ログインまで反映されない
func (s *Session) LoginAdmin(id int64, username string, superAdmin bool, permissions []string) {
	s.data.IsAdmin = true
	s.data.AdminID = id
	s.data.AdminUsername = username
	s.data.IsSuperAdmin = superAdmin
	s.data.Permissions = append([]string(nil), permissions...)
	s.dirty = true
}

func (s *Session) LogoutAdmin() {
	s.data.IsAdmin = false
	s.data.AdminID = 0
	s.data.AdminUsername = ""
	s.data.IsSuperAdmin = false
	s.data.Permissions = nil
	s.dirty = true
}
