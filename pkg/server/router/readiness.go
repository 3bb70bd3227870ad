package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/origintrust/linkage-service/pkg/server/framework"
	svcframework "github.com/origintrust/linkage-service/pkg/service/framework"
)

type GetReadinessResponse struct {
	Status          svcframework.Status                       `json:"status"`
	ServiceStatuses map[svcframework.Type]svcframework.Status `json:"serviceStatuses"`
}

// Readiness reports whether all registered services are ready to serve
func Readiness(services []svcframework.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		statuses := make(map[svcframework.Type]svcframework.Status, len(services))
		status := svcframework.Status{Status: svcframework.StatusReady}
		for _, service := range services {
			serviceStatus := service.Status()
			statuses[service.Type()] = serviceStatus
			if serviceStatus.Status != svcframework.StatusReady {
				status = svcframework.Status{
					Status:  svcframework.StatusNotReady,
					Message: "one or more services are not ready",
				}
			}
		}
		framework.Respond(c, GetReadinessResponse{Status: status, ServiceStatuses: statuses}, http.StatusOK)
	}
}
