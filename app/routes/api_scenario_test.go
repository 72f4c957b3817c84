package routes_test

import (
	"net/http"
	"testing"

	"github.com/citizenjaivik/jaivik/app/controllers"
	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/app/routes"
	"github.com/citizenjaivik/jaivik/app/services"
	"github.com/citizenjaivik/jaivik/pkg/catalog"
	"github.com/citizenjaivik/jaivik/pkg/kv"
	"github.com/citizenjaivik/jaivik/pkg/middleware"
	"github.com/citizenjaivik/jaivik/pkg/router"
	"github.com/citizenjaivik/jaivik/pkg/testkit"
)

// newAPIHandler wires the public surface against an in-memory store and the
// remote catalog client. Scenario mocks intercept the catalog's outgoing
// calls, so no network is touched.
func newAPIHandler() http.Handler {
	store := kv.NewMemory()
	cartSvc := services.NewCartService(store)
	profileSvc := services.NewProfileService(store)
	feedbackSvc := services.NewFeedbackService(store, services.PrompterFunc(
		func(string, models.FeedbackNotification) {},
	))
	orderSvc := services.NewOrderService(store, cartSvc, profileSvc, feedbackSvc, nil)

	r := router.New()
	r.Use(middleware.Subject)
	routes.RegisterAPI(r, routes.Deps{
		Auth:     controllers.NewAuthController(profileSvc),
		Cart:     controllers.NewCartController(cartSvc),
		Catalog:  controllers.NewCatalogController(catalog.NewClient(), nil),
		Orders:   controllers.NewOrderController(orderSvc),
		Profile:  controllers.NewProfileController(profileSvc),
		Feedback: controllers.NewFeedbackController(feedbackSvc, orderSvc),
	})
	return r.Handler()
}

func TestAPIScenarios(t *testing.T) {
	testkit.RunDir(t, newAPIHandler(), "testdata")
}
