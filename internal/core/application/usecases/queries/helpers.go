package queries

import (
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

func requireActor(actor kernel.Actor) error {
	if actor.Role() == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	return nil
}

func requireID(paramName string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(paramName, err)
	}
	return nil
}
