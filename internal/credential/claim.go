package credential

import (
	"github.com/pkg/errors"
)

// DomainLinkageCType is the fixed content-type schema for domain linkage claims:
// a single required `origin` string property.
const DomainLinkageCType = "0x9d271c790775ee831352903d8fd1e11e5a0e0b8f444c1e8d2bd6d7d575b79c45"

// Claim is an unsigned statement of typed field values made by a DID about itself
type Claim struct {
	// Hash of the content-type schema the contents are scoped to
	CTypeHash string         `json:"cTypeHash"`
	Contents  map[string]any `json:"contents"`
	// DID of the claiming party
	Owner string `json:"owner"`
}

// NewDomainLinkageClaim builds a claim over the domain linkage schema. Origin
// syntax is the caller's responsibility; this only guards against empty input.
func NewDomainLinkageClaim(origin, owner string) (*Claim, error) {
	if origin == "" {
		return nil, errors.New("origin cannot be empty")
	}
	if owner == "" {
		return nil, errors.New("owner cannot be empty")
	}
	return &Claim{
		CTypeHash: DomainLinkageCType,
		Contents:  map[string]any{"origin": origin},
		Owner:     owner,
	}, nil
}

// GetOrigin returns the claim's origin value, if present and a string
func (c Claim) GetOrigin() (string, bool) {
	value, ok := c.Contents["origin"]
	if !ok {
		return "", false
	}
	origin, ok := value.(string)
	return origin, ok
}
