package datastream

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared across calls; the validator is safe for concurrent use.
var validate = validator.New()

// ValidateNew checks that a candidate datastream carries every field required
// at creation time: name, connector name, source, and an owner metadata entry.
//
// On success it derives the user-managed-destination flag: when the client
// supplied a destination with a connection string, metadata gains
// isUserManagedDestination=true before the record moves on to initialization,
// so the coordinator and the store both observe the flag.
func ValidateNew(ds *Datastream) error {
	if ds == nil {
		return fmt.Errorf("datastream must not be nil")
	}
	if err := validate.Struct(ds); err != nil {
		var invalid []string
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				invalid = append(invalid, fe.Field())
			}
		}
		return fmt.Errorf("missing required fields %v: %w", invalid, err)
	}
	if ds.Owner() == "" {
		return fmt.Errorf("must specify %s metadata for datastream %s", MetadataOwner, ds.Name)
	}

	if ds.HasUserManagedDestination() {
		ds.EnsureMetadata()[MetadataUserManagedDestination] = "true"
	}
	return nil
}
