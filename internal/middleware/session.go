package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/session"

	"github.com/labstack/echo/v4"
)

const (
	CtxSessionKey     = "session" // *session.Session
	SessionCookieName = "sid"
)

type SessionConfig struct {
	Store  session.Store
	Codec  *session.TokenCodec
	TTL    time.Duration
	Secure bool
}

// Session はcookieの署名済みsidからセッションを読み込み、
// 変更があればレスポンスを書く直前にストアへ保存する。
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			sess := loadSession(c, cfg)
			c.Set(CtxSessionKey, sess)

			c.Response().Before(func() {
				if !sess.Dirty() {
					return
				}
				if err := cfg.Store.Save(ctx, sess.ID(), sess.Data(), cfg.TTL); err != nil {
					slog.ErrorContext(ctx, "session save failed", "err", err)
					return
				}
				if old := sess.ReplacedID(); old != "" {
					if err := cfg.Store.Delete(ctx, old); err != nil {
						slog.WarnContext(ctx, "session delete failed", "err", err)
					}
				}
				if !sess.IsNew() {
					return
				}
				token, err := cfg.Codec.Encode(sess.ID())
				if err != nil {
					slog.ErrorContext(ctx, "session encode failed", "err", err)
					return
				}
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			})

			return next(c)
		}
	}
}

// cookieが無い・壊れている・期限切れなら新しいセッション
func loadSession(c echo.Context, cfg SessionConfig) *session.Session {
	ck, err := c.Cookie(SessionCookieName)
	if err != nil || ck.Value == "" {
		return session.New()
	}
	sid, err := cfg.Codec.Decode(ck.Value)
	if err != nil {
		return session.New()
	}
	data, err := cfg.Store.Load(c.Request().Context(), sid)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			slog.WarnContext(c.Request().Context(), "session load failed", "err", err)
		}
		return session.New()
	}
	return session.Existing(sid, data)
}

// CurrentSession はSessionミドルウェアが入れたセッション。無ければ空の新規セッション
func CurrentSession(c echo.Context) *session.Session {
	if s, ok := c.Get(CtxSessionKey).(*session.Session); ok && s != nil {
		return s
	}
	s := session.New()
	c.Set(CtxSessionKey, s)
	return s
}
