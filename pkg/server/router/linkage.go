package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/origintrust/linkage-service/internal/keyaccess"
	"github.com/origintrust/linkage-service/pkg/server/framework"
	"github.com/origintrust/linkage-service/pkg/service/linkage"
)

type LinkageRouter struct {
	Service *linkage.Service
	Signers *keyaccess.SignerRegistry
}

func NewLinkageRouter(service *linkage.Service, signers *keyaccess.SignerRegistry) (*LinkageRouter, error) {
	if service == nil {
		return nil, errors.New("service cannot be nil")
	}
	if signers == nil {
		return nil, errors.New("signer registry cannot be nil")
	}
	return &LinkageRouter{Service: service, Signers: signers}, nil
}

type CreateLinkageRequest struct {
	// DID that identifies the issuer of the domain linkage credential.
	// A signing capability for it must be registered with the service.
	// Required.
	DID string `json:"did" validate:"required" example:"did:web:origintrust.dev"`

	// Origin the DID controls, included as the credentialSubject.origin value.
	// Required.
	Origin string `json:"origin" validate:"required" example:"https://origintrust.dev"`

	// Sets the DomainLinkageCredential.expirationDate. When empty, issuance
	// time plus the default validity period is used.
	// Optional.
	ExpirationDate string `json:"expirationDate" example:"2051-10-05T14:48:00Z"`

	// Echoed into the credential proof's challenge.
	// Optional.
	Challenge string `json:"challenge"`
}

type CreateLinkageResponse struct {
	// The DID Configuration Resource value to host.
	DIDConfiguration linkage.DIDConfigurationResource `json:"didConfiguration"`

	// URL where the `didConfiguration` value should be hosted at.
	WellKnownLocation string `json:"wellKnownLocation"`
}

// CreateLinkage issues a domain linkage credential for the requested DID and
// origin, assembles the DID configuration resource, and stores it for hosting.
func (lr LinkageRouter) CreateLinkage(c *gin.Context) {
	invalidRequest := "invalid create linkage request"
	var request CreateLinkageRequest
	if err := framework.Decode(c.Request, &request); err != nil {
		framework.LoggingRespondErrWithMsg(c, err, invalidRequest, http.StatusBadRequest)
		return
	}

	signer, ok := lr.Signers.Get(request.DID)
	if !ok {
		framework.LoggingRespondErrMsg(c, "no signing capability registered for did", http.StatusBadRequest)
		return
	}

	var expirationDate time.Time
	if request.ExpirationDate != "" {
		parsed, err := time.Parse(time.RFC3339, request.ExpirationDate)
		if err != nil {
			framework.LoggingRespondErrWithMsg(c, err, invalidRequest, http.StatusBadRequest)
			return
		}
		expirationDate = parsed
	}

	presentation, err := lr.Service.IssueCredential(c, linkage.IssueCredentialRequest{
		DID:       request.DID,
		Origin:    request.Origin,
		Challenge: request.Challenge,
	}, signer)
	if err != nil {
		framework.LoggingRespondErrWithMsg(c, err, "could not issue credential", statusForError(err))
		return
	}

	resource, err := lr.Service.AssemblePresentation(c, linkage.AssemblePresentationRequest{
		Presentation:   presentation,
		ExpirationDate: expirationDate,
	})
	if err != nil {
		framework.LoggingRespondErrWithMsg(c, err, "could not assemble presentation", statusForError(err))
		return
	}

	if err = lr.Service.StoreResource(c, request.Origin, resource); err != nil {
		framework.LoggingRespondErrWithMsg(c, err, "could not store resource", http.StatusInternalServerError)
		return
	}

	framework.Respond(c, CreateLinkageResponse{
		DIDConfiguration:  *resource,
		WellKnownLocation: request.Origin + linkage.DIDConfigurationLocationSuffix,
	}, http.StatusCreated)
}

type VerifyLinkageRequest struct {
	// DID expected to be linked to the origin. Required.
	DID string `json:"did" validate:"required"`

	// Origin whose published resource should be verified. Required.
	Origin string `json:"origin" validate:"required"`
}

// VerifyLinkage fetches the origin's published DID configuration resource and
// verifies it against the expected DID.
func (lr LinkageRouter) VerifyLinkage(c *gin.Context) {
	invalidRequest := "invalid verify linkage request"
	var request VerifyLinkageRequest
	if err := framework.Decode(c.Request, &request); err != nil {
		framework.LoggingRespondErrWithMsg(c, err, invalidRequest, http.StatusBadRequest)
		return
	}

	response, err := lr.Service.VerifyOrigin(c, request.DID, request.Origin)
	if err != nil {
		framework.LoggingRespondErrWithMsg(c, err, "could not verify linkage", http.StatusInternalServerError)
		return
	}
	framework.Respond(c, response, http.StatusOK)
}

// GetDIDConfiguration serves the stored DID configuration resource for the
// given origin, the document hosted at the well-known location.
func (lr LinkageRouter) GetDIDConfiguration(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		resource, err := lr.Service.GetResource(c, origin)
		if err != nil {
			framework.LoggingRespondErrWithMsg(c, err, "could not read stored resource", http.StatusInternalServerError)
			return
		}
		if resource == nil {
			framework.LoggingRespondErrMsg(c, "no did configuration resource published", http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, resource)
	}
}

// statusForError maps linkage taxonomy errors onto HTTP status codes: caller
// mistakes are 400s, everything else is a 500
func statusForError(err error) int {
	switch {
	case errors.Is(err, linkage.ErrInvalidOrigin),
		errors.Is(err, linkage.ErrInvalidDID),
		errors.Is(err, linkage.ErrMalformedClaim),
		errors.Is(err, linkage.ErrDIDResolution),
		errors.Is(err, linkage.ErrMissingAssertionKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
