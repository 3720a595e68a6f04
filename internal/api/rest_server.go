package api

import (
	"net/http"
	"strconv"

	"github.com/annel0/voxel-excavation/internal/middleware"
	"github.com/annel0/voxel-excavation/internal/vec"
	"github.com/annel0/voxel-excavation/internal/world"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RestServer представляет REST API сервер — входной коллаборатор ядра.
// Он превращает HTTP-запросы в координаты для движка раскопки; откуда
// клиент взял координату (raycast по отрисованной сетке и т.п.), сервер
// не знает и знать не должен.
type RestServer struct {
	router  *gin.Engine
	engine  *world.ExcavationEngine
	port    string
	metrics *ServerMetrics
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port   string                  // порт для запуска сервера, например ":8088"
	Engine *world.ExcavationEngine // движок раскопки
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	// otelgin первым: RequestLogger достаёт trace-id из его спана
	router.Use(otelgin.Middleware("excavation_api"))
	router.Use(middleware.RequestLogger())

	promMw := middleware.NewPrometheusMiddleware("excavation_api")
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	server := &RestServer{
		router:  router,
		engine:  config.Engine,
		port:    config.Port,
		metrics: NewServerMetrics(),
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	api := rs.router.Group("/api")
	{
		api.POST("/excavate", rs.handleExcavate)
		api.GET("/grid", rs.handleGridInfo)
		api.GET("/voxel/:x/:y/:z", rs.handleVoxelInfo)
		api.GET("/server", rs.handleServerInfo)
	}

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// ExcavateRequest представляет запрос на раскопку вокселя.
// Координаты — указатели, чтобы отличать отсутствующее поле от нуля.
type ExcavateRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
	Z *int `json:"z" binding:"required"`
}

// GenericResponse представляет универсальный ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// handleExcavate обрабатывает запрос на раскопку вокселя
func (rs *RestServer) handleExcavate(c *gin.Context) {
	var req ExcavateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Требуются координаты x, y, z: " + err.Error(),
		})
		return
	}

	pos := vec.Vec3{X: *req.X, Y: *req.Y, Z: *req.Z}

	// Раскопка несуществующего вокселя — штатный no-op, не ошибка API.
	rs.engine.Excavate(c.Request.Context(), pos)

	grid := rs.engine.Grid()
	open, exposed := world.CoreExposure(grid)

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Запрос раскопки обработан",
		Data: map[string]interface{}{
			"occupied":      grid.OccupiedCount(),
			"exposure_rays": open,
			"core_exposed":  exposed,
		},
	})
}

// handleGridInfo возвращает сводку по сетке
func (rs *RestServer) handleGridInfo(c *gin.Context) {
	grid := rs.engine.Grid()
	open, exposed := world.CoreExposure(grid)

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Состояние сетки",
		Data: map[string]interface{}{
			"size":          grid.Size(),
			"occupied":      grid.OccupiedCount(),
			"exposure_rays": open,
			"core_exposed":  exposed,
		},
	})
}

// handleVoxelInfo возвращает занятость одного слота
func (rs *RestServer) handleVoxelInfo(c *gin.Context) {
	x, errX := strconv.Atoi(c.Param("x"))
	y, errY := strconv.Atoi(c.Param("y"))
	z, errZ := strconv.Atoi(c.Param("z"))
	if errX != nil || errY != nil || errZ != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Координаты должны быть целыми числами",
		})
		return
	}

	pos := vec.Vec3{X: x, Y: y, Z: z}
	grid := rs.engine.Grid()

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Состояние вокселя",
		Data: map[string]interface{}{
			"pos":       pos.String(),
			"in_bounds": grid.InBounds(pos),
			"occupied":  grid.IsOccupied(pos),
		},
	})
}

// handleServerInfo возвращает метрики процесса
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	memMB, _ := rs.metrics.GetMemoryUsage()
	cpuPct, _ := rs.metrics.GetCPUUsage()

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Метрики сервера",
		Data: map[string]interface{}{
			"uptime":    rs.metrics.GetUptime(),
			"memory_mb": memMB,
			"cpu_pct":   cpuPct,
			"memory":    rs.metrics.GetDetailedMemoryStats(),
		},
	})
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Router возвращает роутер (используется в тестах с httptest)
func (rs *RestServer) Router() *gin.Engine {
	return rs.router
}

// Start запускает REST сервер
func (rs *RestServer) Start() error {
	return rs.router.Run(rs.port)
}
