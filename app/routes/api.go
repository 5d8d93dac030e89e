package routes

import (
	"github.com/brianmacetas/admin-api/app/controllers"
	"github.com/brianmacetas/admin-api/app/repositories"
	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/config"
	"github.com/brianmacetas/admin-api/pkg/clock"
	"github.com/brianmacetas/admin-api/pkg/ctx"
	"github.com/brianmacetas/admin-api/pkg/database"
	"github.com/brianmacetas/admin-api/pkg/media"
	"github.com/brianmacetas/admin-api/pkg/metrics"
	"github.com/brianmacetas/admin-api/pkg/router"
)

// API owns the wired service graph behind the HTTP surface.
type API struct {
	products    *services.ProductService
	categories  *services.CategoryService
	promotions  *services.PromotionService
	banners     *services.BannerService
	settings    *services.SettingService
	listings    *services.ListingService
	maintenance *services.MaintenanceService
}

// NewAPI builds repositories, services and the orchestrator from the booted
// globals. The media store may be absent when only route metadata is needed
// (route:list); handlers are never invoked in that case.
func NewAPI() *API {
	store, _ := media.Default()
	orch := services.NewOrchestrator(database.DB, store)

	productRepo := repositories.NewProductRepository()
	categoryRepo := repositories.NewCategoryRepository()
	promotionRepo := repositories.NewPromotionRepository()
	bannerRepo := repositories.NewBannerRepository()
	settingRepo := repositories.NewSettingRepository()

	return &API{
		products:   services.NewProductService(orch, productRepo),
		categories: services.NewCategoryService(orch, categoryRepo),
		promotions: services.NewPromotionService(
			orch, promotionRepo, clock.NewRealClock(), config.Timezone()),
		banners:     services.NewBannerService(orch, bannerRepo),
		settings:    services.NewSettingService(settingRepo),
		listings:    services.NewListingService(productRepo, categoryRepo, promotionRepo, bannerRepo, settingRepo),
		maintenance: services.NewMaintenanceService(database.DB, store),
	}
}

// Promotions exposes the promotion service for the scheduler.
func (a *API) Promotions() *services.PromotionService { return a.promotions }

// Register mounts every route. Paths match what the admin panel already
// calls, so they stay flat and snake/kebab-cased as they always were.
func (a *API) Register(r *router.Router) {
	products := controllers.NewProductController(a.products)
	categories := controllers.NewCategoryController(a.categories)
	promotions := controllers.NewPromotionController(a.promotions)
	banners := controllers.NewBannerController(a.banners)
	settings := controllers.NewSettingController(a.settings)
	catalog := controllers.NewCatalogController(a.listings)
	maintenance := controllers.NewMaintenanceController(a.maintenance)

	r.Get("/", "health", ctx.Wrap(maintenance.Health))
	r.Get("/metrics", "metrics", metrics.Handler())

	r.Post("/upload-product", "products.create", ctx.Wrap(products.Create))
	r.Post("/update-product/{id}", "products.update", ctx.Wrap(products.Update))
	r.Delete("/delete-product/{id}", "products.delete", ctx.Wrap(products.Delete))
	r.Put("/update_product_state", "products.state", ctx.Wrap(products.SetState))

	r.Get("/fetch-all-data", "catalog.all", ctx.Wrap(catalog.FetchAll))
	r.Get("/get_products_view", "catalog.view", ctx.Wrap(catalog.View))
	r.Get("/products", "catalog.products", ctx.Wrap(catalog.Products))

	r.Post("/create-category", "categories.create", ctx.Wrap(categories.Create))
	r.Put("/update-category/{id}", "categories.update", ctx.Wrap(categories.Update))
	r.Delete("/delete-category/{id}", "categories.delete", ctx.Wrap(categories.Delete))

	r.Post("/create-promotion", "promotions.create", ctx.Wrap(promotions.Create))
	r.Post("/update-promotion", "promotions.update", ctx.Wrap(promotions.Update))
	r.Delete("/delete-promotion/{promotionID}", "promotions.delete", ctx.Wrap(promotions.Delete))
	r.Post("/automatic-delete-promotions", "promotions.expire", ctx.Wrap(promotions.DeleteExpired))
	r.Put("/automatic-enable-promotions", "promotions.enable", ctx.Wrap(promotions.EnableStarting))

	r.Post("/upload_banner", "banners.create", ctx.Wrap(banners.Create))
	r.Delete("/delete_banner/{id}", "banners.delete", ctx.Wrap(banners.Delete))

	r.Put("/update_settings", "settings.page", ctx.Wrap(settings.SetPageEnabled))
	r.Post("/update_setting", "settings.conditions", ctx.Wrap(settings.UpsertConditions))

	r.Get("/get-usages", "maintenance.usage", ctx.Wrap(maintenance.Usage))
	r.Post("/clean-db", "maintenance.clean", ctx.Wrap(maintenance.CleanDB))
}

// RegisterAPI wires the default service graph into r. Kept for callers that
// do not need the API handle back.
func RegisterAPI(r *router.Router) {
	NewAPI().Register(r)
}
