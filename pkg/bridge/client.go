package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/speters/ut181a/pkg/ut181a"
)

var _ ut181a.Device = (*Client)(nil)

// Client is a ut181a.Device served by a remote bridge
type Client struct {
	base string
	http *http.Client
}

// Dial connects to the bridge at base, e.g. http://host:8181. An unreachable
// bridge is reported as ut181a.ErrDeviceNotFound. Requests are bounded by
// their ctx only, a measurement fetch may block for as long as the DMM takes.
func Dial(ctx context.Context, base string, hc *http.Client) (*Client, error) {
	if hc == nil {
		hc = &http.Client{}
	}
	c := &Client{base: strings.TrimSuffix(base, "/"), http: hc}

	var v VersionInfo
	if err := c.do(ctx, "GET", "/version", nil, &v); err != nil {
		return nil, fmt.Errorf("%w: bridge at %s: %v", ut181a.ErrDeviceNotFound, base, err)
	}
	log.Debugf("Connected to bridge %s (version %s, device %s)", base, v.Version, v.Device)
	return c, nil
}

// do sends one request. in is JSON encoded as body, the response is decoded into out.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: %v", ut181a.ErrInvalidInput, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ut181a.ErrTransport, err)
	}
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	log.Debugf("Bridge request %s: %s %s", id, method, path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ut181a.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Kind == "" {
			return fmt.Errorf("%w: bridge answered %s", ut181a.ErrTransport, resp.Status)
		}
		return e.asError()
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// a cut off body is a link failure, anything else is a payload the DMM side got wrong
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: can not read bridge response: %v", ut181a.ErrTransport, err)
		}
		return fmt.Errorf("%w: invalid bridge response: %v", ut181a.ErrProtocol, err)
	}
	return nil
}

func (c *Client) MonitorOn(ctx context.Context) error {
	return c.do(ctx, "POST", "/monitor", onRequest{On: true}, nil)
}

func (c *Client) MonitorOff(ctx context.Context) error {
	return c.do(ctx, "POST", "/monitor", onRequest{On: false}, nil)
}

func (c *Client) ToggleHold(ctx context.Context) error {
	return c.do(ctx, "POST", "/hold", nil, nil)
}

func (c *Client) SetMinMaxMode(ctx context.Context, on bool) error {
	return c.do(ctx, "POST", "/minmax", onRequest{On: on}, nil)
}

func (c *Client) SetReferenceValue(ctx context.Context, v float32) error {
	return c.do(ctx, "POST", "/reference", referenceRequest{Value: v}, nil)
}

func (c *Client) SetRange(ctx context.Context, r ut181a.RangeStep) error {
	return c.do(ctx, "POST", "/range", rangeRequest{Range: r}, nil)
}

func (c *Client) SetMode(ctx context.Context, m ut181a.Mode) error {
	return c.do(ctx, "POST", "/mode", modeRequest{Mode: m}, nil)
}

func (c *Client) Measurement(ctx context.Context) (ut181a.Measurement, error) {
	var rec ut181a.Record
	if err := c.do(ctx, "GET", "/measurement", nil, &rec); err != nil {
		return nil, err
	}
	return ut181a.Decode(rec)
}

func (c *Client) SaveMeasurement(ctx context.Context) error {
	return c.do(ctx, "POST", "/saves", nil, nil)
}

func (c *Client) SavedMeasurementCount(ctx context.Context) (uint16, error) {
	var n countResponse
	err := c.do(ctx, "GET", "/saves/count", nil, &n)
	return n.Count, err
}

func (c *Client) SavedMeasurement(ctx context.Context, index uint16) (ut181a.SavedMeasurement, error) {
	var resp savedResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/saves/%d", index), nil, &resp); err != nil {
		return ut181a.SavedMeasurement{}, err
	}
	m, err := ut181a.Decode(resp.Measurement)
	if err != nil {
		return ut181a.SavedMeasurement{}, err
	}
	return ut181a.SavedMeasurement{Timestamp: resp.Timestamp, Measurement: m}, nil
}

func (c *Client) DeleteSavedMeasurement(ctx context.Context, index uint16) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/saves/%d", index), nil, nil)
}

func (c *Client) DeleteAllSavedMeasurements(ctx context.Context) error {
	return c.do(ctx, "DELETE", "/saves", nil, nil)
}

func (c *Client) RecordCount(ctx context.Context) (uint16, error) {
	var n countResponse
	err := c.do(ctx, "GET", "/records/count", nil, &n)
	return n.Count, err
}

func (c *Client) RecordInfo(ctx context.Context, index uint16) (ut181a.RecordInfo, error) {
	var info ut181a.RecordInfo
	err := c.do(ctx, "GET", fmt.Sprintf("/records/%d", index), nil, &info)
	return info, err
}

func (c *Client) RecordData(ctx context.Context, index uint16) ([]ut181a.RecordSample, error) {
	var samples []ut181a.RecordSample
	err := c.do(ctx, "GET", fmt.Sprintf("/records/%d/data", index), nil, &samples)
	return samples, err
}

func (c *Client) StartRecord(ctx context.Context, name string, interval uint16, duration uint32) error {
	return c.do(ctx, "POST", "/records", startRecordRequest{Name: name, Interval: interval, Duration: duration}, nil)
}

func (c *Client) StopRecord(ctx context.Context) error {
	return c.do(ctx, "DELETE", "/records/current", nil, nil)
}

// Close releases idle connections, the remote DMM stays open on the bridge
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
