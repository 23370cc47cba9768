package handle

import (
	"github.com/google/uuid"
)

// Handle identifies one object for the lifetime of a workspace. Handles are
// never reused.
type Handle uuid.UUID

var Nil Handle

func New() Handle {
	return Handle(uuid.New())
}

func Parse(s string) (Handle, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, err
	}
	return Handle(u), nil
}

func (h Handle) IsNull() bool {
	return h == Nil
}

// String renders the handle the way OpenStudio files do, wrapped in braces.
func (h Handle) String() string {
	return "{" + uuid.UUID(h).String() + "}"
}
