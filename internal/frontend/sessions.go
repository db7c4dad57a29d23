package frontend

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jo-hoe/storefront/internal/backend/session"
	"github.com/labstack/echo/v4"
)

const (
	sessionCookieName = "storefront_session"
	sessionDataKey    = "session"
	sessionIDKey      = "session_id"
)

// cookieSigner binds session ids to the server secret so forged ids are
// rejected before the store is consulted.
type cookieSigner struct {
	secret []byte
}

func (s cookieSigner) sign(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s cookieSigner) verify(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 {
		return "", false
	}
	id := value[:i]
	if !hmac.Equal([]byte(s.sign(id)), []byte(value)) {
		return "", false
	}
	return id, true
}

// loadSession attaches the session for the request cookie, or an empty
// unsaved one, to the echo context.
func (service *FrontendService) loadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		data := &session.Data{}
		if cookie, err := ctx.Cookie(sessionCookieName); err == nil {
			if id, ok := service.signer.verify(cookie.Value); ok {
				stored, err := service.sessions.Get(ctx.Request().Context(), id)
				switch {
				case err == nil:
					data = stored
					ctx.Set(sessionIDKey, id)
				case errors.Is(err, session.ErrNotFound):
				default:
					slog.Error("loadSession: failed to read session", "error", err)
				}
			}
		}
		ctx.Set(sessionDataKey, data)
		return next(ctx)
	}
}

// requireAdmin sends anonymous visitors to the login page
func (service *FrontendService) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if !currentSession(ctx).Authenticated() {
			return ctx.Redirect(http.StatusSeeOther, "/admin/login")
		}
		return next(ctx)
	}
}

func currentSession(ctx echo.Context) *session.Data {
	if data, ok := ctx.Get(sessionDataKey).(*session.Data); ok {
		return data
	}
	return &session.Data{}
}

// saveSession persists the context session, creating it and setting the
// cookie on first write.
func (service *FrontendService) saveSession(ctx echo.Context) error {
	data := currentSession(ctx)
	reqCtx := ctx.Request().Context()
	if id, ok := ctx.Get(sessionIDKey).(string); ok && id != "" {
		return service.sessions.Save(reqCtx, id, data)
	}
	id, err := service.sessions.Create(reqCtx, data)
	if err != nil {
		return err
	}
	ctx.Set(sessionIDKey, id)
	service.setSessionCookie(ctx, id)
	return nil
}

// startSession replaces any existing session with a fresh id holding data
func (service *FrontendService) startSession(ctx echo.Context, data *session.Data) error {
	service.dropStoredSession(ctx)
	ctx.Set(sessionDataKey, data)
	return service.saveSession(ctx)
}

func (service *FrontendService) endSession(ctx echo.Context) {
	service.dropStoredSession(ctx)
	ctx.Set(sessionDataKey, &session.Data{})
	service.clearSessionCookie(ctx)
}

func (service *FrontendService) dropStoredSession(ctx echo.Context) {
	if id, ok := ctx.Get(sessionIDKey).(string); ok && id != "" {
		if err := service.sessions.Delete(ctx.Request().Context(), id); err != nil {
			slog.Error("dropStoredSession: failed to delete session", "error", err)
		}
	}
	ctx.Set(sessionIDKey, "")
}

func (service *FrontendService) flash(ctx echo.Context, category, message string) {
	currentSession(ctx).AddFlash(category, message)
	if err := service.saveSession(ctx); err != nil {
		slog.Error("flash: failed to save session", "error", err)
	}
}

func (service *FrontendService) popFlashes(ctx echo.Context) []session.Flash {
	data := currentSession(ctx)
	if len(data.Flashes) == 0 {
		return nil
	}
	flashes := data.PopFlashes()
	if err := service.saveSession(ctx); err != nil {
		slog.Error("popFlashes: failed to save session", "error", err)
	}
	return flashes
}

func (service *FrontendService) setSessionCookie(ctx echo.Context, id string) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    service.signer.sign(id),
		Path:     "/",
		HttpOnly: true,
		Secure:   service.config.Production,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(service.config.Session.TTL.Seconds()),
	})
}

func (service *FrontendService) clearSessionCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   service.config.Production,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
