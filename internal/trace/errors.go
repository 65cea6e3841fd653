package trace

import "errors"

var (
	errVariableNotBound = errors.New("trace: variable not bound in knowledge store")
	errUnknownAgent     = errors.New("trace: step references an agent absent from the trace's descriptors")
)
