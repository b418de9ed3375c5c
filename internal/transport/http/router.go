package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/cache"
	"github.com/vladislavdragonenkov/backoffice/internal/service/auth"
	"github.com/vladislavdragonenkov/backoffice/internal/service/catalog"
	"github.com/vladislavdragonenkov/backoffice/internal/service/order"
)

const requestTimeout = 15 * time.Second

// RouterDeps — зависимости HTTP-слоя.
type RouterDeps struct {
	Auth            *auth.Service
	Products        *catalog.ProductService
	Categories      *catalog.CategoryService
	Sellers         *catalog.SellerService
	Placer          *order.Placer
	Orders          *order.Service
	OrderCache      *cache.OrderCache
	DefaultPageSize int
	Logger          *log.Entry
}

// NewRouter собирает все маршруты. Чтение открыто, изменяющие операции
// закрыты JWT-аутентификацией.
func NewRouter(deps RouterDeps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	pageSize := deps.DefaultPageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	authH := &authHandler{auth: deps.Auth, logger: logger}
	catalogH := &catalogHandler{
		products:        deps.Products,
		categories:      deps.Categories,
		sellers:         deps.Sellers,
		defaultPageSize: pageSize,
		logger:          logger,
	}
	orderH := &orderHandler{
		placer:          deps.Placer,
		orders:          deps.Orders,
		cache:           deps.OrderCache,
		defaultPageSize: pageSize,
		logger:          logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authH.register(r)

	public := r.Group(nil)
	protected := r.Group(func(gr chi.Router) {
		gr.Use(authenticator(deps.Auth, logger))
	})
	catalogH.register(public, protected)
	orderH.register(public, protected)

	return r
}
