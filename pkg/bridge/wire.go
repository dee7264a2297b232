// Package bridge exposes a ut181a.Device over HTTP and provides the matching
// client, so a DMM attached to one host can be controlled from another.
package bridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/speters/ut181a/pkg/ut181a"
)

// RequestIDHeader carries the ID of a bridge request, it is logged on both ends
const RequestIDHeader = "X-Request-ID"

// VersionInfo is returned by GET /version
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	Device    string `json:"device"`
}

type onRequest struct {
	On bool `json:"on"`
}

type referenceRequest struct {
	Value float32 `json:"value"`
}

type rangeRequest struct {
	Range ut181a.RangeStep `json:"range"`
}

type modeRequest struct {
	Mode ut181a.Mode `json:"mode"`
}

type countResponse struct {
	Count uint16 `json:"count"`
}

type savedResponse struct {
	Timestamp   time.Time     `json:"timestamp"`
	Measurement ut181a.Record `json:"measurement"`
}

type startRecordRequest struct {
	Name     string `json:"name"`
	Interval uint16 `json:"interval"`
	Duration uint32 `json:"duration"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// error kinds on the wire
const (
	kindProtocol  = "protocol"
	kindRange     = "range"
	kindInput     = "input"
	kindTransport = "transport"
)

// kindOf classifies err for the wire
func kindOf(err error) string {
	switch {
	case errors.Is(err, ut181a.ErrUnusedRangeStep):
		return kindRange
	case errors.Is(err, ut181a.ErrProtocol):
		return kindProtocol
	case errors.Is(err, ut181a.ErrInvalidInput):
		return kindInput
	}
	return kindTransport
}

// asError turns an error body back into an error matching its sentinel
func (e errorResponse) asError() error {
	var sentinel error
	switch e.Kind {
	case kindRange:
		sentinel = ut181a.ErrUnusedRangeStep
	case kindProtocol:
		sentinel = ut181a.ErrProtocol
	case kindInput:
		sentinel = ut181a.ErrInvalidInput
	default:
		sentinel = ut181a.ErrTransport
	}
	return fmt.Errorf("%w: bridge: %s", sentinel, e.Error)
}
