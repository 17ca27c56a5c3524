/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package aggregatestore

import (
	"reflect"

	"github.com/suparena/aggregatestore/container"
	"github.com/suparena/aggregatestore/errors"
)

// ValidateComponent checks that t is a concrete type the container manages.
// moduleName is only used to annotate the error.
func ValidateComponent(c container.Container, t reflect.Type, moduleName string) error {
	if !isConcrete(t) || c == nil || !c.IsComponent(t) {
		return errors.NewConfigurationError(typeName(t), moduleName)
	}
	return nil
}
