// Package errors provides predefined sentinel errors for common failure cases.
package errors

// Registry errors.
var (
	// ErrRegistryFull indicates the app registry has no free slots.
	ErrRegistryFull = &WMError{
		Kind:   ErrCapacity,
		Detail: "app registry full",
		Buffer: -1,
	}

	// ErrZeroPid indicates a zero pid was supplied.
	ErrZeroPid = &WMError{
		Kind:   ErrInvalidArgument,
		Detail: "pid must be non-zero",
		Buffer: -1,
	}

	// ErrAppNotFound indicates no registered app has the given pid.
	ErrAppNotFound = &WMError{
		Kind:   ErrNotFound,
		Detail: "app not found",
		Buffer: -1,
	}
)

// Buffer errors.
var (
	// ErrBufferOutOfRange indicates the buffer index is not a valid buffer.
	ErrBufferOutOfRange = &WMError{
		Kind:   ErrInvalidArgument,
		Detail: "buffer index out of range",
		Buffer: -1,
	}

	// ErrSameBuffer indicates a switch to the already-active buffer.
	ErrSameBuffer = &WMError{
		Kind:   ErrInvalidState,
		Detail: "buffer already active",
		Buffer: -1,
	}

	// ErrNoActiveBuffer indicates no buffer has been activated yet.
	ErrNoActiveBuffer = &WMError{
		Kind:   ErrInvalidState,
		Detail: "no active buffer",
		Buffer: -1,
	}
)

// Action errors.
var (
	// ErrNoAction indicates the none action was dispatched.
	ErrNoAction = &WMError{
		Kind:   ErrInvalidArgument,
		Detail: "no action",
		Buffer: -1,
	}

	// ErrEmptyBundle indicates a launch action with no bundle identifier.
	ErrEmptyBundle = &WMError{
		Kind:   ErrInvalidArgument,
		Detail: "empty bundle identifier",
		Buffer: -1,
	}
)

// Configuration errors.
var (
	// ErrRulesFull indicates the rule table has no free slots.
	ErrRulesFull = &WMError{
		Kind:   ErrCapacity,
		Detail: "rule table full",
		Buffer: -1,
	}

	// ErrBindingsFull indicates the binding table has no free slots.
	ErrBindingsFull = &WMError{
		Kind:   ErrCapacity,
		Detail: "binding table full",
		Buffer: -1,
	}

	// ErrConfigScript indicates the config script failed to load or run.
	ErrConfigScript = &WMError{
		Kind:   ErrConfig,
		Detail: "config script error",
		Buffer: -1,
	}
)

// Invariant errors.
var (
	// ErrInvariant indicates the state failed an internal consistency check.
	ErrInvariant = &WMError{
		Kind:   ErrInternal,
		Detail: "state invariant violated",
		Buffer: -1,
	}
)
