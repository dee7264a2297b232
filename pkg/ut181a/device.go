package ut181a

import (
	"context"
	"time"
)

// USB identifiers of the UT181A's HID bridge
const (
	VendorID  uint16 = 0x10C4
	ProductID uint16 = 0xEA80
)

// Device is an opened DMM. All indices are 1-based as numbered by the DMM itself.
// A Device is not safe for concurrent use.
type Device interface {
	MonitorOn(ctx context.Context) error
	MonitorOff(ctx context.Context) error

	ToggleHold(ctx context.Context) error
	SetMinMaxMode(ctx context.Context, on bool) error
	SetReferenceValue(ctx context.Context, v float32) error
	SetRange(ctx context.Context, r RangeStep) error
	SetMode(ctx context.Context, m Mode) error

	// Measurement blocks until the DMM sends the next reading, monitoring must be on
	Measurement(ctx context.Context) (Measurement, error)

	SaveMeasurement(ctx context.Context) error
	SavedMeasurementCount(ctx context.Context) (uint16, error)
	SavedMeasurement(ctx context.Context, index uint16) (SavedMeasurement, error)
	DeleteSavedMeasurement(ctx context.Context, index uint16) error
	DeleteAllSavedMeasurements(ctx context.Context) error

	RecordCount(ctx context.Context) (uint16, error)
	RecordInfo(ctx context.Context, index uint16) (RecordInfo, error)
	RecordData(ctx context.Context, index uint16) ([]RecordSample, error)
	StartRecord(ctx context.Context, name string, interval uint16, duration uint32) error
	StopRecord(ctx context.Context) error

	Close() error
}

// SavedMeasurement is a measurement stored in the DMM's memory
type SavedMeasurement struct {
	Timestamp   time.Time
	Measurement Measurement
}

// RecordInfo describes a recording stored in the DMM
type RecordInfo struct {
	Name        string        `json:"name"`
	Unit        string        `json:"unit"`
	Interval    time.Duration `json:"interval"`
	Duration    time.Duration `json:"duration"`
	SampleCount uint32        `json:"sample_count"`
	Max         Value         `json:"max"`
	Average     Value         `json:"average"`
	Min         Value         `json:"min"`
}

// RecordSample is one sample of a recording
type RecordSample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     Value     `json:"value"`
}

// DeviceInfo is an enumerated, not yet opened DMM
type DeviceInfo struct {
	Path   string
	Source string
}
