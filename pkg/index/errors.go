package index

import (
	"fmt"
)

// Index errors.
var (
	// ErrPackageNotFound is returned when no enabled repository lists a package.
	ErrPackageNotFound = fmt.Errorf("package not found in any index")
	// ErrInvalidIndex is returned for index files that parse but make no sense.
	ErrInvalidIndex = fmt.Errorf("invalid index")
)
