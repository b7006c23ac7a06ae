package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ordinalfs/ordinalfs/app/controllers"
	"github.com/ordinalfs/ordinalfs/pkg/cache"
	"github.com/ordinalfs/ordinalfs/pkg/database"
	"github.com/ordinalfs/ordinalfs/pkg/metrics"
	"github.com/ordinalfs/ordinalfs/pkg/middleware"
	"github.com/ordinalfs/ordinalfs/pkg/rbac"
	"github.com/ordinalfs/ordinalfs/pkg/router"
)

// RegisterAPI wires all API routes.
func RegisterAPI(r *router.Router) {
	authCtrl := controllers.NewAuthController()
	vfsCtrl := controllers.NewVFSController()

	// Prometheus metrics endpoint — no auth, no rate limit.
	r.HandleFunc("/metrics", metrics.Handler())

	api := r.Group("/api", middleware.RateLimit(120, time.Minute))

	// Public routes
	api.Post("/register", "auth.register", authCtrl.Register)
	api.Post("/login", "auth.login", authCtrl.Login)

	// Health-check — pings DB and Redis, returns 503 if either is down.
	api.Get("/health", "health", healthHandler)

	// Protected routes — require valid JWT
	protected := api.Group("", middleware.AuthMiddleware)
	protected.Get("/profile", "auth.profile", authCtrl.Profile)
	protected.Post("/profile", "auth.profile.update", authCtrl.UpdateProfile)

	// Document-service surface (§6.3).
	protected.Post("/createFolder", "vfs.createFolder", vfsCtrl.CreateFolder)
	protected.Post("/saveFile", "vfs.saveFile", vfsCtrl.SaveFile)
	protected.Post("/pasteItems", "vfs.pasteItems", vfsCtrl.PasteItems)
	protected.Post("/moveUpOrDown", "vfs.moveUpOrDown", vfsCtrl.MoveUpOrDown)
	protected.Post("/rename", "vfs.rename", vfsCtrl.Rename)
	protected.Post("/setPublic", "vfs.setPublic", vfsCtrl.SetPublic)
	protected.Post("/searchText", "vfs.searchText", vfsCtrl.SearchText)
	protected.Post("/extractTags", "vfs.extractTags", vfsCtrl.ExtractTags)
	protected.Post("/scanAndUpdateTags", "vfs.scanAndUpdateTags", vfsCtrl.ScanAndUpdateTags)

	// Raw engine surface, for API clients that don't want the document
	// editor's ordinal-insertion ceremony.
	protected.Get("/vfs/stat", "vfs.stat", vfsCtrl.Stat)
	protected.Get("/vfs/readdir", "vfs.readdir", vfsCtrl.ReaddirRaw)
	protected.Get("/vfs/readFile", "vfs.readFile", vfsCtrl.ReadFileRaw)
	protected.Post("/vfs/writeFile", "vfs.writeFile", vfsCtrl.WriteFileRaw)
	protected.Delete("/vfs/rm", "vfs.rm", vfsCtrl.RmRaw)

	// Admin-only maintenance (§4.10): force-rebuild and cross-root listing,
	// gated to callers whose token carries the admin role claim.
	admin := protected.Group("/admin", rbac.HasRole("admin"))
	admin.Get("/docRoots", "vfs.admin.docRoots", vfsCtrl.ListDocRoots)
	admin.Post("/scanAndUpdateTags", "vfs.admin.scanAndUpdateTagsAsync", vfsCtrl.ScanAndUpdateTagsAsync)
	admin.Get("/accounts", "auth.admin.accounts", authCtrl.ListAccounts)
}

// healthHandler pings the database and Redis, returning a structured status.
// Returns HTTP 200 when all services are healthy, 503 when any are degraded.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	type serviceStatus struct {
		Status  string `json:"status"`
		Latency string `json:"latency,omitempty"`
		Error   string `json:"error,omitempty"`
	}
	type healthResponse struct {
		Status   string                   `json:"status"`
		Services map[string]serviceStatus `json:"services"`
	}

	services := make(map[string]serviceStatus)
	allOK := true

	// ── Database
	if database.DB != nil {
		start := time.Now()
		sqlDB, err := database.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		latency := time.Since(start)
		if err != nil {
			allOK = false
			services["database"] = serviceStatus{Status: "down", Error: err.Error()}
		} else {
			services["database"] = serviceStatus{Status: "up", Latency: latency.Round(time.Millisecond).String()}
		}
	} else {
		allOK = false
		services["database"] = serviceStatus{Status: "down", Error: "not connected"}
	}

	// ── Redis / Cache
	if cache.RDB != nil {
		start := time.Now()
		err := cache.RDB.Ping(cache.Ctx).Err()
		latency := time.Since(start)
		if err != nil {
			allOK = false
			services["cache"] = serviceStatus{Status: "down", Error: err.Error()}
		} else {
			services["cache"] = serviceStatus{Status: "up", Latency: latency.Round(time.Millisecond).String()}
		}
	} else {
		services["cache"] = serviceStatus{Status: "unavailable"}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allOK {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(healthResponse{
		Status:   status,
		Services: services,
	})
}
