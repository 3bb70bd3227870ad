// Package server contains the full set of handler functions and routes
// supported by the http api
package server

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/origintrust/linkage-service/config"
	"github.com/origintrust/linkage-service/internal/keyaccess"
	"github.com/origintrust/linkage-service/pkg/server/middleware"
	"github.com/origintrust/linkage-service/pkg/server/router"
	svcframework "github.com/origintrust/linkage-service/pkg/service/framework"
	"github.com/origintrust/linkage-service/pkg/service/linkage"
)

const (
	HealthPrefix     = "/health"
	ReadinessPrefix  = "/readiness"
	V1Prefix         = "/v1"
	LinkagesPrefix   = "/linkages"
	VerificationPath = "/verification"

	WellKnownDIDConfigurationPath = "/.well-known/did-configuration.json"
)

// Server exposes all dependencies needed to run the http server and its services
type Server struct {
	*http.Server
	*config.ServerConfig
	Linkage  *linkage.Service
	shutdown chan os.Signal
}

// NewServer instantiates the linkage service's HTTP bindings around an
// already-constructed service and signer registry
func NewServer(shutdown chan os.Signal, cfg config.LinkageServiceConfig, service *linkage.Service, signers *keyaccess.SignerRegistry) (*Server, error) {
	engine := setUpEngine(cfg.Server, shutdown)

	linkageRouter, err := router.NewLinkageRouter(service, signers)
	if err != nil {
		return nil, errors.Wrap(err, "unable to instantiate linkage router")
	}

	engine.GET(HealthPrefix, router.Health)
	engine.GET(ReadinessPrefix, router.Readiness([]svcframework.Service{service}))
	engine.GET(WellKnownDIDConfigurationPath, linkageRouter.GetDIDConfiguration(cfg.Services.ServiceEndpoint))

	v1 := engine.Group(V1Prefix)
	linkages := v1.Group(LinkagesPrefix)
	linkages.PUT("", linkageRouter.CreateLinkage)
	linkages.PUT(VerificationPath, linkageRouter.VerifyLinkage)

	return &Server{
		Server: &http.Server{
			Addr:              cfg.Server.APIHost,
			Handler:           engine,
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
		ServerConfig: &cfg.Server,
		Linkage:      service,
		shutdown:     shutdown,
	}, nil
}

// setUpEngine creates the gin engine and sets up the middleware based on config
func setUpEngine(cfg config.ServerConfig, _ chan os.Signal) *gin.Engine {
	middlewares := gin.HandlersChain{
		gin.Recovery(),
		middleware.Logger(logrus.StandardLogger()),
	}
	if cfg.EnableAllowAllCORS {
		middlewares = append(middlewares, middleware.CORS())
	}

	engine := gin.New()
	engine.Use(middlewares...)

	switch cfg.Environment {
	case config.EnvironmentDev:
		gin.SetMode(gin.DebugMode)
	case config.EnvironmentTest:
		gin.SetMode(gin.TestMode)
	case config.EnvironmentProd:
		gin.SetMode(gin.ReleaseMode)
	}

	return engine
}
