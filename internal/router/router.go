package router

import (
	"time"

	"tpv/internal/config"
	"tpv/internal/handler"
	"tpv/internal/infra"
	"tpv/internal/middleware"
	"tpv/internal/model"
	"tpv/internal/repository"
	"tpv/internal/service"
	"tpv/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps carries the optional infrastructure built in main. Nil fields disable
// the corresponding feature.
type Deps struct {
	Redis    *redis.Client
	Eventos  infra.EventPublisher
	MailerCB *infra.CircuitBreaker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Env, cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMin, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	servicioRepo := repository.NewServicioRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// Worker dispatcher, drops jobs when Redis is not configured
	dispatcher := worker.NewDispatcher(deps.Redis)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo, ventaRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, productoRepo)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo)
	servicioSvc := service.NewServicioService(servicioRepo, ventaRepo, deps.Eventos)
	ventaSvc := service.NewVentaService(ventaRepo, servicioRepo, productoRepo, clienteRepo, dispatcher, deps.Eventos)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	serviciosH := handler.NewServiciosHandler(servicioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, deps.Redis, deps.MailerCB))
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(cfg.LoginRateLimitPerMin), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	staff := middleware.RequireRole(model.RolVendedor, model.RolAdministrador)
	admin := middleware.RequireRole(model.RolAdministrador)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		servicios := v1.Group("/servicios")
		{
			servicios.GET("", staff, serviciosH.Listar)
			servicios.GET("/abierto", staff, serviciosH.ObtenerAbierto)
			servicios.GET("/:id", staff, serviciosH.ObtenerPorID)
			servicios.POST("", staff, serviciosH.Abrir)
			servicios.POST("/:id/cerrar", staff, serviciosH.Cerrar)
			servicios.PUT("/:id", admin, serviciosH.Renombrar)
			servicios.DELETE("/:id", admin, serviciosH.Eliminar)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", staff, ventasH.RegistrarVenta)
			ventas.GET("", staff, ventasH.ListarVentas)
			ventas.GET("/:id", staff, ventasH.ObtenerVenta)
			ventas.DELETE("/:id", admin, ventasH.EliminarVenta)
		}

		v1.GET("/reportes/ventas", staff, ventasH.Reporte)

		// Catalog: all authenticated can read, administrador writes
		v1.GET("/categorias", staff, categoriasH.Listar)
		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Eliminar)
		}

		v1.GET("/productos", staff, productosH.Listar)
		v1.GET("/productos/:id", staff, productosH.ObtenerPorID)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		v1.GET("/clientes", staff, clientesH.Listar)
		v1.GET("/clientes/:id", staff, clientesH.ObtenerPorID)
		clientes := v1.Group("/clientes", admin)
		{
			clientes.POST("", clientesH.Crear)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
