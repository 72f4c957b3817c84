// Package routes registers the HTTP surface on the router. Cart and catalog
// stay public so guests can shop by device id; profile, checkout history
// patching, and the admin ledger sit behind the session token.
package routes

import (
	"net/http"
	"time"

	"github.com/citizenjaivik/jaivik/app/controllers"
	"github.com/citizenjaivik/jaivik/pkg/auth"
	"github.com/citizenjaivik/jaivik/pkg/metrics"
	"github.com/citizenjaivik/jaivik/pkg/middleware"
	"github.com/citizenjaivik/jaivik/pkg/rbac"
	"github.com/citizenjaivik/jaivik/pkg/response"
	"github.com/citizenjaivik/jaivik/pkg/router"
	"github.com/citizenjaivik/jaivik/pkg/ws"
)

// Deps carries the wired controllers. Nil optional members disable their
// routes.
type Deps struct {
	Auth     *controllers.AuthController
	Cart     *controllers.CartController
	Catalog  *controllers.CatalogController
	Orders   *controllers.OrderController
	Profile  *controllers.ProfileController
	Feedback *controllers.FeedbackController

	AdminOrders *controllers.AdminOrderController // nil without a database
	GraphQL     http.HandlerFunc                  // nil disables /graphql
	Hub         *ws.Hub                           // nil disables /ws
	StorageDir  string                            // local disk root served at /storage

	LocalCatalog bool // enables catalog write routes
}

func RegisterAPI(r *router.Router, d Deps) {
	api := r.Group("/api")

	// OTP endpoints get a tight per-IP budget; everything else relies on the
	// global limiter.
	otp := api.Group("/auth", middleware.RateLimit(10, time.Minute))
	otp.Post("/otp/request", "auth.otp.request", d.Auth.RequestOTP)
	otp.Post("/otp/verify", "auth.otp.verify", d.Auth.VerifyOTP)

	cart := api.Group("/cart")
	cart.Get("", "cart.show", d.Cart.Show)
	cart.Post("", "cart.add", d.Cart.Add)
	cart.Delete("", "cart.clear", d.Cart.Clear)
	cart.Put("/items/{id}", "cart.update", d.Cart.UpdateQuantity)
	cart.Delete("/items/{id}", "cart.remove", d.Cart.Remove)

	api.Get("/products", "catalog.products", d.Catalog.Products)
	api.Get("/products/featured", "catalog.featured", d.Catalog.Featured)
	api.Get("/products/{id}", "catalog.product", d.Catalog.Product)
	api.Get("/categories", "catalog.categories", d.Catalog.Categories)
	api.Get("/categories/{category}/subcategories", "catalog.subcategories", d.Catalog.SubCategories)

	orders := api.Group("/orders")
	orders.Post("", "orders.checkout", d.Orders.Checkout)
	orders.Get("", "orders.history", d.Orders.History)

	profile := api.Group("/profile", middleware.AuthMiddleware)
	profile.Get("", "profile.show", d.Profile.Show)
	profile.Post("", "profile.complete", d.Profile.Complete)
	profile.Put("", "profile.update", d.Profile.Update)
	profile.Delete("", "profile.delete", d.Profile.Delete)
	profile.Post("/addresses", "profile.address.add", d.Profile.AddAddress)
	profile.Put("/addresses/{id}", "profile.address.update", d.Profile.UpdateAddress)
	profile.Delete("/addresses/{id}", "profile.address.delete", d.Profile.DeleteAddress)
	profile.Put("/addresses/{id}/default", "profile.address.default", d.Profile.SetDefaultAddress)

	feedback := api.Group("/feedback")
	feedback.Get("/orders", "feedback.orders", d.Feedback.EligibleOrders)
	feedback.Get("/pending", "feedback.pending", d.Feedback.Pending)
	feedback.Post("", "feedback.submit", d.Feedback.Submit)

	if d.LocalCatalog {
		catalog := api.Group("/admin/products", middleware.AuthMiddleware, rbac.HasRole(auth.RoleAdmin))
		catalog.Post("", "admin.products.create", d.Catalog.CreateProduct)
		catalog.Put("/{id}", "admin.products.update", d.Catalog.UpdateProduct)
		catalog.Delete("/{id}", "admin.products.delete", d.Catalog.DeleteProduct)
		catalog.Post("/{id}/image", "admin.products.image", d.Catalog.UploadImage)
	}

	if d.AdminOrders != nil {
		admin := api.Group("/admin/orders", middleware.AuthMiddleware, rbac.HasRole(auth.RoleAdmin))
		admin.Get("", "admin.orders.list", d.AdminOrders.List)
		admin.Get("/{id}", "admin.orders.show", d.AdminOrders.Show)
		admin.Get("/stream", "admin.orders.stream", d.AdminOrders.Stream)
		admin.Put("/{id}/status", "admin.orders.status", d.AdminOrders.UpdateStatus)
	}

	if d.Hub != nil {
		hub := d.Hub
		r.Get("/ws/notifications", "ws.notifications", func(w http.ResponseWriter, req *http.Request) {
			ws.Upgrade(w, req, hub, middleware.SubjectFromCtx(req.Context()))
		})
	}

	if d.GraphQL != nil {
		r.Post("/graphql", "graphql", d.GraphQL)
	}

	if d.StorageDir != "" {
		files := http.StripPrefix("/storage/", http.FileServer(http.Dir(d.StorageDir)))
		r.Get("/storage/*", "storage.files", files.ServeHTTP)
	}

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
}
