package frontend

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jo-hoe/storefront/internal/backend/database"
	"github.com/jo-hoe/storefront/internal/backend/session"
	"github.com/jo-hoe/storefront/internal/backend/theme"
	"github.com/jo-hoe/storefront/internal/core"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	MainPageName   = "index.html"
	csrfCookieName = "storefront_csrf"
	csrfFormField  = "csrf_token"
)

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
	sessions    session.Store
	signer      cookieSigner
}

// pageData is the value every template receives
type pageData struct {
	Title   string
	Theme   theme.Theme
	LogoURL string
	Flashes []session.Flash
	CSRF    string
	Admin   string
	Data    any
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService, sessions session.Store) *FrontendService {
	secret := []byte(config.SecretKey)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic(err)
		}
		slog.Warn("no secret key configured, sessions will not survive a restart")
	}
	return &FrontendService{
		coreService: coreService,
		config:      config,
		sessions:    sessions,
		signer:      cookieSigner{secret: secret},
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	renderer, err := newTemplate(templateFuncs())
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		panic(err)
	}
	e.Renderer = renderer

	e.Static(service.config.Static.URLPrefix, service.config.Static.Dir)
	e.GET("/probe", service.probeHandler)
	e.GET("/", service.indexHandler)
	e.GET("/duvidas", service.faqPageHandler)

	admin := e.Group("/admin", service.loadSession, middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:" + csrfFormField,
		CookieName:     csrfCookieName,
		CookiePath:     "/admin",
		CookieHTTPOnly: true,
		CookieSecure:   service.config.Production,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	admin.GET("/login", service.loginPageHandler)
	admin.POST("/login", service.loginHandler)
	admin.GET("/logout", service.logoutHandler)

	protected := service.requireAdmin
	admin.GET("", service.adminRootHandler, protected)
	admin.GET("/dashboard", service.dashboardHandler, protected)

	admin.GET("/produtos", service.productsHandler, protected)
	admin.GET("/produtos/novo", service.productNewHandler, protected)
	admin.POST("/produtos/novo", service.productCreateHandler, protected)
	admin.GET("/produtos/editar/:id", service.productEditHandler, protected)
	admin.POST("/produtos/editar/:id", service.productUpdateHandler, protected)
	admin.POST("/produtos/toggle/:id", service.productToggleHandler, protected)
	admin.POST("/produtos/excluir/:id", service.productDeleteHandler, protected)

	admin.GET("/classes", service.categoriesHandler, protected)
	admin.POST("/classes", service.categoryCreateHandler, protected)
	admin.POST("/classes/excluir/:id", service.categoryDeleteHandler, protected)

	admin.GET("/hero", service.bannersHandler, protected)
	admin.POST("/hero", service.bannerCreateHandler, protected)
	admin.POST("/hero/excluir/:id", service.bannerDeleteHandler, protected)

	admin.GET("/contato", service.contactHandler, protected)
	admin.POST("/contato", service.contactSaveHandler, protected)

	admin.GET("/faq", service.faqHandler, protected)
	admin.POST("/faq", service.faqCreateHandler, protected)
	admin.POST("/faq/excluir/:id", service.faqDeleteHandler, protected)

	admin.GET("/theme", service.themeHandler, protected)
	admin.POST("/theme", service.themeSaveHandler, protected)

	admin.GET("/change_password", service.changePasswordPageHandler, protected)
	admin.POST("/change_password", service.changePasswordHandler, protected)
}

func (service *FrontendService) probeHandler(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "ok")
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	page, err := service.coreService.Catalog(core.CatalogParams{
		Page:       ctx.QueryParam("page"),
		PerPage:    ctx.QueryParam("per_page"),
		CategoryID: ctx.QueryParam("class_id"),
		Sort:       ctx.QueryParam("sort"),
	})
	if err != nil {
		slog.Error("indexHandler: failed to load catalog", "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load catalog")
	}
	return service.render(ctx, MainPageName, page.Theme.SiteName, page)
}

func (service *FrontendService) faqPageHandler(ctx echo.Context) error {
	entries, err := service.coreService.FAQ()
	if err != nil {
		slog.Error("faqPageHandler: failed to load faq", "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load FAQ")
	}
	return service.render(ctx, "duvidas.html", "Dúvidas frequentes", entries)
}

func (service *FrontendService) render(ctx echo.Context, name, title string, data any) error {
	token, _ := ctx.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	current := service.coreService.Theme()
	page := pageData{
		Title:   title,
		Theme:   current,
		LogoURL: service.coreService.AssetURL(current.Logo),
		Flashes: service.popFlashes(ctx),
		CSRF:    token,
		Data:    data,
	}
	if sess := currentSession(ctx); sess.Authenticated() {
		page.Admin = sess.Username
		service.setNoCache(ctx)
	}
	return ctx.Render(http.StatusOK, name, page)
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func (service *FrontendService) redirect(ctx echo.Context, location string) error {
	return ctx.Redirect(http.StatusSeeOther, location)
}

func parseID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
