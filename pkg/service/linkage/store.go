package linkage

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/origintrust/linkage-service/pkg/storage"
)

const resourceNamespace = "linkage-resource"

// StoreResource persists the published resource for an origin. Reissuance
// replaces the stored artifact wholesale; there is no partial update.
func (s *Service) StoreResource(ctx context.Context, origin string, resource *DIDConfigurationResource) error {
	if s.storage == nil {
		return errors.New("no storage configured")
	}
	if err := ValidateOrigin(origin); err != nil {
		return err
	}
	resourceBytes, err := json.Marshal(resource)
	if err != nil {
		return errors.Wrap(err, "serializing resource")
	}
	namespace := storage.MakeNamespace(resourceNamespace)
	return s.storage.Write(ctx, namespace, origin, resourceBytes)
}

// GetResource returns the stored resource for an origin, nil when none is stored
func (s *Service) GetResource(ctx context.Context, origin string) (*DIDConfigurationResource, error) {
	if s.storage == nil {
		return nil, errors.New("no storage configured")
	}
	namespace := storage.MakeNamespace(resourceNamespace)
	resourceBytes, err := s.storage.Read(ctx, namespace, origin)
	if err != nil {
		return nil, errors.Wrap(err, "reading stored resource")
	}
	if len(resourceBytes) == 0 {
		return nil, nil
	}
	var resource DIDConfigurationResource
	if err = json.Unmarshal(resourceBytes, &resource); err != nil {
		return nil, errors.Wrap(err, "deserializing stored resource")
	}
	return &resource, nil
}
