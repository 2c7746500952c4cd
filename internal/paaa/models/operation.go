package models

// Operation names a PAAA service addressed by the last path segment.
// The string value is what the Authorization backend receives as "service".
type Operation string

const (
	OpPatron        Operation = "patron"
	OpSignup        Operation = "signup"
	OpNewPatron     Operation = "newpatron"
	OpUpdatePatron  Operation = "updatepatron"
	OpBlockPatron   Operation = "blockpatron"
	OpUnblockPatron Operation = "unblockpatron"
	OpDeletePatron  Operation = "deletepatron"
	OpNewFee        Operation = "newfee"
)

// String returns the wire name of the operation.
func (o Operation) String() string {
	return string(o)
}

// ForcesPathPatron reports whether the operation must act on the patron id
// taken from the path, whatever account the payload names.
func (o Operation) ForcesPathPatron() bool {
	switch o {
	case OpNewPatron, OpUpdatePatron, OpBlockPatron, OpUnblockPatron, OpDeletePatron, OpNewFee:
		return true
	default:
		return false
	}
}

// postOperations is the closed set of operations reachable via POST.
var postOperations = map[Operation]struct{}{
	OpSignup:        {},
	OpNewPatron:     {},
	OpUpdatePatron:  {},
	OpBlockPatron:   {},
	OpUnblockPatron: {},
	OpNewFee:        {},
}

// AllowsPost reports whether the operation may be dispatched from a POST request.
func (o Operation) AllowsPost() bool {
	_, ok := postOperations[o]
	return ok
}

// AllowsDelete reports whether the operation may be dispatched from a DELETE request.
func (o Operation) AllowsDelete() bool {
	return o == OpDeletePatron
}
