package framework

type (
	Type        string
	StatusState string
)

const (
	// List of all services

	Linkage Type = "linkage"

	StatusReady    StatusState = "ready"
	StatusNotReady StatusState = "not_ready"
)

// Status is for services reporting on their status
type Status struct {
	Status  StatusState `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Service is an interface each service must comply with to be registered and orchestrated by the http server.
type Service interface {
	Type() Type
	Status() Status
}
