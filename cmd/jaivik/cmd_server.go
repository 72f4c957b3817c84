package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/citizenjaivik/jaivik/app/controllers"
	"github.com/citizenjaivik/jaivik/app/routes"
	"github.com/citizenjaivik/jaivik/internal/server"
	"github.com/citizenjaivik/jaivik/pkg/router"
	"github.com/citizenjaivik/jaivik/pkg/ws"
)

// jaivik serve starts the API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Start(ctx)
	},
}

// jaivik route:list prints all registered named routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()

		// Register with every optional surface enabled so the listing is
		// complete. Handlers are never invoked here, so nil services are fine.
		routes.RegisterAPI(r, routes.Deps{
			Auth:         controllers.NewAuthController(nil),
			Cart:         controllers.NewCartController(nil),
			Catalog:      controllers.NewCatalogController(nil, nil),
			Orders:       controllers.NewOrderController(nil),
			Profile:      controllers.NewProfileController(nil),
			Feedback:     controllers.NewFeedbackController(nil, nil),
			AdminOrders:  controllers.NewAdminOrderController(nil, nil),
			GraphQL:      func(w http.ResponseWriter, r *http.Request) {},
			Hub:          ws.NewHub(),
			StorageDir:   "storage",
			LocalCatalog: true,
		})

		lines := r.Routes()
		if len(lines) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}
