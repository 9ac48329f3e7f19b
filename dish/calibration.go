package dish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CalibrationRecord is the persisted result of a calibration session: the
// container selection and the fitted model. The raw reference points are
// deliberately not stored; calibration is a one-shot, user-guided operation
// and only the fitted model survives it.
type CalibrationRecord struct {
	Dish    string        `json:"dish"`
	Model   GeometryModel `json:"model"`
	SavedAt int64         `json:"savedAt"`
}

// CalibrationFileName returns the conventional file name for a dish's
// calibration record.
func CalibrationFileName(dishName string) string {
	return fmt.Sprintf("calib_%s.json", dishName)
}

// LoadCalibration loads a calibration record from a JSON file. A missing
// file is not an error and returns nil: the dish simply has not been
// calibrated yet.
func LoadCalibration(path string) (*CalibrationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading calibration file: %w", err)
	}

	var rec CalibrationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing calibration file: %w", err)
	}
	return &rec, nil
}

// SaveCalibration saves a calibration record to a JSON file, creating the
// directory if needed.
func SaveCalibration(path string, rec *CalibrationRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating calibration directory: %w", err)
	}

	rec.SavedAt = time.Now().Unix()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling calibration record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing calibration file: %w", err)
	}
	return nil
}
