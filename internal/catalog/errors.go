package catalog

import (
	"fmt"

	"github.com/JaimeStill/casebook/pkg/fault"
)

// ErrRegionNotFound is returned when a region ID is not in the catalog.
var ErrRegionNotFound = fmt.Errorf("region %w", fault.ErrNotFound)
