//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"vtlink/internal"
	"vtlink/internal/clients"
	"vtlink/internal/controllers"
	"vtlink/internal/pipeline"
	"vtlink/internal/providers"
	"vtlink/internal/scan"
	"vtlink/internal/services"
	"vtlink/internal/structures"
	"vtlink/internal/verify"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		services.NewStores,
		services.NewMappingService,
		wire.Bind(new(providers.MappingCounter), new(services.MappingServiceInterface)),
		wire.Bind(new(scan.MappingChecker), new(services.MappingServiceInterface)),

		clients.NewBilibiliLimiter,
		clients.NewBilibiliClient,
		clients.NewYoutubeClient,

		verify.NewVerifier,
		scan.NewScanner,
		pipeline.NewRunner,
		pipeline.NewScheduler,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
