package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mfg/backend/internal/interfaces/http/handler"
)

// Handlers bundles the domain handlers the router wires up
type Handlers struct {
	Product  *handler.ProductHandler
	Item     *handler.ItemHandler
	Transfer *handler.TransferHandler
	TaskForm *handler.TaskFormHandler
	Employee *handler.EmployeeHandler
	System   *handler.SystemHandler
}

// Router registers the versioned API route tree
type Router struct {
	engine     *gin.Engine
	apiVersion string
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Setup registers all domain routes under /api/<version>
func (r *Router) Setup(h Handlers) {
	api := r.engine.Group("/api/" + r.apiVersion)

	if h.System != nil {
		system := api.Group("/system")
		system.GET("/info", h.System.GetSystemInfo)
		system.GET("/ping", h.System.Ping)
	}

	if h.Product != nil {
		catalog := api.Group("/catalog")
		catalog.POST("/products", h.Product.Create)
		catalog.GET("/products", h.Product.List)
		catalog.GET("/products/by-name", h.Product.GetByName)
		catalog.POST("/products/normalize-positions", h.Product.NormalizePositions)
		catalog.GET("/products/:id", h.Product.GetByID)
		catalog.GET("/products/code/:code", h.Product.GetByCode)
		catalog.PUT("/products/:id", h.Product.Update)
		catalog.DELETE("/products/:id", h.Product.Delete)
		catalog.POST("/products/:id/photo", h.Product.UploadPhoto)
	}

	manufacturing := api.Group("/manufacturing")
	if h.Item != nil {
		manufacturing.POST("/items", h.Item.Create)
		manufacturing.GET("/items", h.Item.List)
		manufacturing.GET("/items/:id", h.Item.GetByID)
		manufacturing.GET("/items/no/:item_no", h.Item.GetByItemNo)
		manufacturing.PUT("/items/:id", h.Item.Update)
		manufacturing.PUT("/items/no/:item_no", h.Item.UpdateByItemNo)
		manufacturing.DELETE("/items/:id", h.Item.Delete)
		manufacturing.PATCH("/items/:id/boxes", h.Item.AddBoxes)
		manufacturing.POST("/items/:id/photo", h.Item.UploadPhoto)
	}
	if h.Transfer != nil {
		manufacturing.POST("/transfers", h.Transfer.TransferPersonnel)
		manufacturing.POST("/mixture-transfers", h.Transfer.TransferMixture)
		manufacturing.GET("/transfers", h.Transfer.List)
		manufacturing.GET("/transfers/:id", h.Transfer.GetByID)
		manufacturing.GET("/items/:id/transfers", h.Transfer.ListByItem)
	}
	if h.TaskForm != nil {
		manufacturing.POST("/task-forms", h.TaskForm.Create)
		manufacturing.GET("/task-forms", h.TaskForm.List)
		manufacturing.GET("/task-forms/:id", h.TaskForm.GetByID)
	}

	if h.Employee != nil {
		workforce := api.Group("/workforce")
		workforce.POST("/employees", h.Employee.Create)
		workforce.GET("/employees", h.Employee.List)
		workforce.GET("/employees/:id", h.Employee.GetByID)
		workforce.GET("/employees/code/:code", h.Employee.GetByCode)
		workforce.PUT("/employees/:id", h.Employee.Update)
		workforce.DELETE("/employees/:id", h.Employee.Delete)
	}
}
