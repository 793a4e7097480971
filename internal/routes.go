package internal

import (
	"net/http"
	"vtlink/internal/controllers"
	"vtlink/internal/providers"
	"vtlink/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/submit", http.HandlerFunc(apiController.Submit))
	routers.Get("/mapping", http.HandlerFunc(apiController.GetMapping))
	routers.Delete("/unlink", http.HandlerFunc(apiController.Unlink))
	return routers
}
