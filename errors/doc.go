/*
Package errors provides semantic error types for the aggregatestore library.

Provider initialization fails with one of three typed errors, each matching a
sentinel through errors.Is:

	ConfigurationError -> ErrConfiguration  (implementation is not a component)
	ConstructionError  -> ErrConstruction   (instance or proxy could not be built)
	ConflictError      -> ErrConflict       (two implementations serve one aggregate)

Repository backends report NotFoundError, ValidationError and
ConditionFailedError.

Usage:

	if err := provider.Initialize(ctx, modules...); err != nil {
	    var conflict *errors.ConflictError
	    if stderrors.As(err, &conflict) {
	        log.Fatalf("duplicate repository for %s", conflict.Aggregate)
	    }
	    log.Fatal(err)
	}

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
