package activity

import (
	"fmt"

	"github.com/algomate/insights/internal/domain/model"
)

// Sentinel kinds for calendar errors.
var (
	// ErrEmptyCalendar is returned when a summary is requested over zero
	// days. It matches errors.Is against model.ErrInvalidInput.
	ErrEmptyCalendar = fmt.Errorf("%w: empty calendar", model.ErrInvalidInput)
)
