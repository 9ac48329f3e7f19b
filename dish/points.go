package dish

import (
	"encoding/json"
	"fmt"
	"os"
)

// PointSource delivers the ordered reference points of a calibration
// session. It is the boundary to the interactive capture layer (stage UI,
// joystick prompts); the core only requires that points arrive in the order
// and count documented by the descriptor's PointHints.
type PointSource func(desc ContainerDescriptor) ([]Point, error)

// FilePointSource reads reference points from a JSON array of {x, y}
// records, as written by the stage UI when the user marks positions.
func FilePointSource(path string) PointSource {
	return func(ContainerDescriptor) ([]Point, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading reference points: %w", err)
		}
		var points []Point
		if err := json.Unmarshal(data, &points); err != nil {
			return nil, fmt.Errorf("parsing reference points: %w", err)
		}
		return points, nil
	}
}

// StaticPointSource wraps a fixed point sequence, for tests and replays.
func StaticPointSource(points []Point) PointSource {
	return func(ContainerDescriptor) ([]Point, error) {
		return points, nil
	}
}

// CollectReferencePoints obtains the reference points for a container from a
// source and enforces the minimum count before fitting is attempted.
func CollectReferencePoints(desc ContainerDescriptor, src PointSource) ([]Point, error) {
	points, err := src(desc)
	if err != nil {
		return nil, err
	}
	if len(points) < desc.RequiredPoints {
		return nil, fmt.Errorf("%w: dish %q needs %d reference points, got %d",
			ErrInsufficientData, desc.Name, desc.RequiredPoints, len(points))
	}
	return points, nil
}
