package frontend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jo-hoe/storefront/internal/backend/database"
	"github.com/jo-hoe/storefront/internal/backend/session"
	"github.com/jo-hoe/storefront/internal/backend/theme"
	"github.com/jo-hoe/storefront/internal/common"
	"github.com/jo-hoe/storefront/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

type productFormPage struct {
	Product    *core.ProductView
	PriceInput string
	Categories []*database.Category
}

func (p productFormPage) HasCategory(id int64) bool {
	return p.Product != nil && p.Product.CategoryID != nil && *p.Product.CategoryID == id
}

type productListPage struct {
	Products []core.ProductView
	Query    string
	Status   database.ProductStatus
}

type themePage struct {
	Keys   []string
	Values theme.Theme
}

func (service *FrontendService) adminRootHandler(ctx echo.Context) error {
	return service.redirect(ctx, "/admin/dashboard")
}

func (service *FrontendService) loginPageHandler(ctx echo.Context) error {
	if currentSession(ctx).Authenticated() {
		return service.redirect(ctx, "/admin/dashboard")
	}
	return service.render(ctx, "admin_login.html", "Entrar", nil)
}

func (service *FrontendService) loginHandler(ctx echo.Context) error {
	username := strings.TrimSpace(ctx.FormValue("username"))
	admin, err := service.coreService.Authenticate(username, ctx.FormValue("password"))
	if errors.Is(err, database.ErrInvalidCredentials) {
		slog.Warn("loginHandler: invalid credentials", "username", username, "remote_ip", ctx.RealIP())
		service.flash(ctx, flashError, "Credenciais incorretas")
		return service.redirect(ctx, "/admin/login")
	}
	if err != nil {
		slog.Error("loginHandler: failed to verify credentials", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify credentials")
	}

	if err := service.startSession(ctx, &session.Data{AdminID: admin.ID, Username: admin.Username}); err != nil {
		slog.Error("loginHandler: failed to start session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session")
	}
	slog.Info("admin logged in", "username", admin.Username)
	return service.redirect(ctx, "/admin/dashboard")
}

func (service *FrontendService) logoutHandler(ctx echo.Context) error {
	service.endSession(ctx)
	return service.redirect(ctx, "/admin/login")
}

func (service *FrontendService) dashboardHandler(ctx echo.Context) error {
	dashboard, err := service.coreService.Dashboard()
	if err != nil {
		slog.Error("dashboardHandler: failed to load dashboard", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load dashboard")
	}
	return service.render(ctx, "admin_dashboard.html", "Painel", dashboard)
}

func (service *FrontendService) productsHandler(ctx echo.Context) error {
	query := strings.TrimSpace(ctx.QueryParam("q"))
	products, status, err := service.coreService.AdminProducts(query, ctx.QueryParam("status"))
	if err != nil {
		slog.Error("productsHandler: failed to list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list products")
	}
	return service.render(ctx, "admin_produtos.html", "Produtos", productListPage{
		Products: products,
		Query:    query,
		Status:   status,
	})
}

func (service *FrontendService) productNewHandler(ctx echo.Context) error {
	categories, err := service.coreService.Categories()
	if err != nil {
		slog.Error("productNewHandler: failed to list categories", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list categories")
	}
	return service.render(ctx, "admin_produto_form.html", "Novo produto", productFormPage{Categories: categories})
}

func (service *FrontendService) productCreateHandler(ctx echo.Context) error {
	var form core.ProductForm
	if !service.bindForm(ctx, &form) {
		return service.redirect(ctx, "/admin/produtos/novo")
	}
	upload, closeUpload, err := formUpload(ctx)
	if err != nil {
		return err
	}
	defer closeUpload()

	if _, err := service.coreService.CreateProduct(&form, upload); err != nil {
		service.flashSaveError(ctx, "productCreateHandler", "o produto", err)
		return service.redirect(ctx, "/admin/produtos/novo")
	}
	service.flash(ctx, flashSuccess, "Produto criado")
	return service.redirect(ctx, "/admin/produtos")
}

func (service *FrontendService) productEditHandler(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	product, err := service.coreService.GetProduct(id)
	if isNotFound(err) {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		slog.Error("productEditHandler: failed to load product", "product_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load product")
	}
	categories, err := service.coreService.Categories()
	if err != nil {
		slog.Error("productEditHandler: failed to list categories", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list categories")
	}
	return service.render(ctx, "admin_produto_form.html", "Editar produto", productFormPage{
		Product:    product,
		PriceInput: common.PriceInput(product.Price),
		Categories: categories,
	})
}

func (service *FrontendService) productUpdateHandler(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	formPath := fmt.Sprintf("/admin/produtos/editar/%d", id)

	var form core.ProductForm
	if !service.bindForm(ctx, &form) {
		return service.redirect(ctx, formPath)
	}
	upload, closeUpload, err := formUpload(ctx)
	if err != nil {
		return err
	}
	defer closeUpload()

	err = service.coreService.UpdateProduct(id, &form, upload)
	if isNotFound(err) {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		service.flashSaveError(ctx, "productUpdateHandler", "o produto", err)
		return service.redirect(ctx, formPath)
	}
	service.flash(ctx, flashSuccess, "Produto atualizado")
	return service.redirect(ctx, "/admin/produtos")
}

func (service *FrontendService) productToggleHandler(ctx echo.Context) error {
	return service.mutateByID(ctx, "/admin/produtos", "Produto não encontrado", service.coreService.ToggleProduct)
}

func (service *FrontendService) productDeleteHandler(ctx echo.Context) error {
	return service.mutateByID(ctx, "/admin/produtos", "Produto não encontrado", service.coreService.DeleteProduct)
}

func (service *FrontendService) categoriesHandler(ctx echo.Context) error {
	categories, err := service.coreService.Categories()
	if err != nil {
		slog.Error("categoriesHandler: failed to list categories", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list categories")
	}
	return service.render(ctx, "admin_classes.html", "Classes", categories)
}

func (service *FrontendService) categoryCreateHandler(ctx echo.Context) error {
	var form core.CategoryForm
	if service.bindForm(ctx, &form) {
		if _, err := service.coreService.CreateCategory(&form); err != nil {
			service.flashSaveError(ctx, "categoryCreateHandler", "a classe", err)
		}
	}
	return service.redirect(ctx, "/admin/classes")
}

func (service *FrontendService) categoryDeleteHandler(ctx echo.Context) error {
	return service.mutateByID(ctx, "/admin/classes", "Classe não encontrada", service.coreService.DeleteCategory)
}

func (service *FrontendService) bannersHandler(ctx echo.Context) error {
	banners, err := service.coreService.AdminBanners()
	if err != nil {
		slog.Error("bannersHandler: failed to list banners", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list banners")
	}
	return service.render(ctx, "admin_hero.html", "Banners", banners)
}

func (service *FrontendService) bannerCreateHandler(ctx echo.Context) error {
	var form core.BannerForm
	if !service.bindForm(ctx, &form) {
		return service.redirect(ctx, "/admin/hero")
	}
	upload, closeUpload, err := formUpload(ctx)
	if err != nil {
		return err
	}
	defer closeUpload()

	if _, err := service.coreService.CreateBanner(&form, upload); err != nil {
		service.flashSaveError(ctx, "bannerCreateHandler", "o banner", err)
		return service.redirect(ctx, "/admin/hero")
	}
	service.flash(ctx, flashSuccess, "Banner criado")
	return service.redirect(ctx, "/admin/hero")
}

func (service *FrontendService) bannerDeleteHandler(ctx echo.Context) error {
	return service.mutateByID(ctx, "/admin/hero", "Banner não encontrado", service.coreService.DeleteBanner)
}

func (service *FrontendService) contactHandler(ctx echo.Context) error {
	contact, err := service.coreService.Contact()
	if err != nil {
		slog.Error("contactHandler: failed to load contact", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load contact")
	}
	return service.render(ctx, "admin_contato.html", "Contato", contact)
}

func (service *FrontendService) contactSaveHandler(ctx echo.Context) error {
	var form core.ContactForm
	if service.bindForm(ctx, &form) {
		if err := service.coreService.SaveContact(&form); err != nil {
			service.flashSaveError(ctx, "contactSaveHandler", "o contato", err)
		} else {
			service.flash(ctx, flashSuccess, "Contato atualizado")
		}
	}
	return service.redirect(ctx, "/admin/contato")
}

func (service *FrontendService) faqHandler(ctx echo.Context) error {
	entries, err := service.coreService.FAQ()
	if err != nil {
		slog.Error("faqHandler: failed to list faq", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list FAQ")
	}
	return service.render(ctx, "admin_faq.html", "Dúvidas", entries)
}

func (service *FrontendService) faqCreateHandler(ctx echo.Context) error {
	var form core.FAQForm
	if service.bindForm(ctx, &form) {
		if _, err := service.coreService.CreateFAQ(&form); err != nil {
			service.flashSaveError(ctx, "faqCreateHandler", "a pergunta", err)
		}
	}
	return service.redirect(ctx, "/admin/faq")
}

func (service *FrontendService) faqDeleteHandler(ctx echo.Context) error {
	return service.mutateByID(ctx, "/admin/faq", "Pergunta não encontrada", service.coreService.DeleteFAQ)
}

func (service *FrontendService) themeHandler(ctx echo.Context) error {
	return service.render(ctx, "admin_theme.html", "Tema", themePage{
		Keys:   theme.Keys,
		Values: service.coreService.Theme(),
	})
}

func (service *FrontendService) themeSaveHandler(ctx echo.Context) error {
	params, err := ctx.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}
	values := make(map[string]string)
	for _, key := range theme.Keys {
		if _, ok := params[key]; ok {
			values[key] = strings.TrimSpace(params.Get(key))
		}
	}

	if _, err := service.coreService.SaveTheme(values); err != nil {
		slog.Error("themeSaveHandler: failed to save theme", "error", err)
		service.flash(ctx, flashError, "Erro ao salvar o tema: "+err.Error())
	} else {
		service.flash(ctx, flashSuccess, "Tema atualizado com sucesso")
	}
	return service.redirect(ctx, "/admin/theme")
}

func (service *FrontendService) changePasswordPageHandler(ctx echo.Context) error {
	return service.render(ctx, "admin_change_password.html", "Alterar senha", nil)
}

func (service *FrontendService) changePasswordHandler(ctx echo.Context) error {
	username := currentSession(ctx).Username
	err := service.coreService.ChangePassword(username,
		ctx.FormValue("current"), ctx.FormValue("new"), ctx.FormValue("confirm"))
	switch {
	case errors.Is(err, core.ErrPasswordMismatch):
		service.flash(ctx, flashError, "Nova senha inválida ou não confere")
		return service.redirect(ctx, "/admin/change_password")
	case errors.Is(err, database.ErrInvalidCredentials):
		service.flash(ctx, flashError, "Senha atual incorreta")
		return service.redirect(ctx, "/admin/change_password")
	case err != nil:
		slog.Error("changePasswordHandler: failed to change password", "username", username, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to change password")
	}
	slog.Info("admin password changed", "username", username)
	service.flash(ctx, flashSuccess, "Senha alterada com sucesso")
	return service.redirect(ctx, "/admin/dashboard")
}

// bindForm binds and validates the posted form. On failure a flash naming
// the offending fields is queued and false is returned.
func (service *FrontendService) bindForm(ctx echo.Context, form any) bool {
	if err := ctx.Bind(form); err != nil {
		slog.Warn("bindForm: failed to bind form", "path", ctx.Path(), "error", err)
		service.flash(ctx, flashError, "Formulário inválido")
		return false
	}
	if err := ctx.Validate(form); err != nil {
		message := "Preencha os campos obrigatórios"
		if fields := common.InvalidFields(err); len(fields) > 0 {
			message += ": " + strings.Join(fields, ", ")
		}
		service.flash(ctx, flashError, message)
		return false
	}
	return true
}

func (service *FrontendService) flashSaveError(ctx echo.Context, handler, subject string, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidPrice):
		service.flash(ctx, flashError, "Preço inválido")
	case errors.Is(err, common.ErrUnsupportedUpload), errors.Is(err, common.ErrEmptyFilename):
		service.flash(ctx, flashError, "Tipo de arquivo não suportado")
	default:
		slog.Error(handler+": failed to save", "error", err)
		service.flash(ctx, flashError, "Erro ao salvar "+subject)
	}
}

func (service *FrontendService) mutateByID(ctx echo.Context, back, notFoundMessage string, mutate func(int64) error) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	err = mutate(id)
	if isNotFound(err) {
		service.flash(ctx, flashError, notFoundMessage)
		return service.redirect(ctx, back)
	}
	if err != nil {
		slog.Error("mutateByID: operation failed", "path", ctx.Path(), "id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Operation failed")
	}
	return service.redirect(ctx, back)
}

// formUpload returns the "imagem" file of a multipart form, or nil when the
// field is absent or empty. The returned func closes the file.
func formUpload(ctx echo.Context) (*core.Upload, func(), error) {
	noop := func() {}
	header, err := ctx.FormFile("imagem")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "Invalid upload").SetInternal(err)
	}
	if header.Filename == "" || header.Size == 0 {
		return nil, noop, nil
	}

	file, err := header.Open()
	if err != nil {
		slog.Error("formUpload: failed to open uploaded file", "filename", header.Filename, "error", err)
		return nil, noop, echo.NewHTTPError(http.StatusInternalServerError, "Failed to open uploaded file")
	}
	return &core.Upload{Filename: header.Filename, Content: file}, func() {
		if cerr := file.Close(); cerr != nil {
			slog.Error("formUpload: failed to close uploaded file", "filename", header.Filename, "error", cerr)
		}
	}, nil
}
