package dish

import "errors"

// Error kinds raised by the calibration and planning core. They are always
// wrapped with context via fmt.Errorf("%w: ...") at the point of detection,
// so callers can classify failures with errors.Is.
var (
	// ErrInsufficientData means too few points were supplied to a
	// geometric primitive or to a calibration routine.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrCalibration means the supplied reference points are degenerate or
	// contradictory: coincident points, zero span on an axis, collinear
	// edge points, or a measured radius outside the expected tolerance.
	ErrCalibration = errors.New("calibration failed")

	// ErrConfiguration means an invalid field of view, overlap fraction or
	// container descriptor made the request unsatisfiable.
	ErrConfiguration = errors.New("invalid configuration")
)
