// Package manager enumerates and opens DMMs by device path.
//
// A device path selects the transport by its scheme:
//
//	sim://<name>        in-process simulator
//	http://host:port    DMM served by a ut181a-bridge
//	https://host:port   same, over TLS
package manager

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/speters/ut181a/pkg/bridge"
	"github.com/speters/ut181a/pkg/config"
	"github.com/speters/ut181a/pkg/simulator"
	"github.com/speters/ut181a/pkg/ut181a"
)

// Sources of an enumerated device
const (
	SourceConfig = "config"
	SourceMDNS   = "mdns"
)

// BrowseFunc looks up bridges on the network and returns their device paths
type BrowseFunc func(ctx context.Context, timeout time.Duration) ([]string, error)

type Manager struct {
	paths       []string
	mdns        bool
	timeout     time.Duration
	simInterval time.Duration

	HTTPClient *http.Client
	Browse     BrowseFunc
}

// New returns a Manager for the devices and discovery settings of cfg
func New(cfg *config.Config) *Manager {
	return &Manager{
		paths:       cfg.Devices,
		mdns:        cfg.Discovery.MDNS,
		timeout:     cfg.Discovery.Timeout,
		simInterval: cfg.Simulator.Interval,
		Browse:      bridge.Browse,
	}
}

// Find enumerates the configured devices followed by the bridges found via
// mDNS. No device is opened.
func (m *Manager) Find(ctx context.Context) ([]ut181a.DeviceInfo, error) {
	var found []ut181a.DeviceInfo
	seen := map[string]bool{}
	add := func(path, source string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		found = append(found, ut181a.DeviceInfo{Path: path, Source: source})
	}

	for _, p := range m.paths {
		add(p, SourceConfig)
	}
	if m.mdns && m.Browse != nil {
		paths, err := m.Browse(ctx, m.timeout)
		if err != nil {
			return found, err
		}
		for _, p := range paths {
			add(p, SourceMDNS)
		}
	}
	return found, nil
}

// Open opens the DMM at path, or the first found one if path is empty
func (m *Manager) Open(ctx context.Context, path string) (ut181a.Device, error) {
	if path == "" {
		log.Debug("Open first found device.")
		found, err := m.Find(ctx)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, ut181a.ErrDeviceNotFound
		}
		path = found[0].Path
	}

	log.Debugf("Open device at path '%s'.", path)
	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid device path '%s': %v", ut181a.ErrDeviceNotFound, path, err)
	}

	switch u.Scheme {
	case "sim":
		name := u.Host
		if name == "" {
			name = u.Opaque
		}
		if name == "" {
			name = "ut181a"
		}
		return simulator.New(name, simulator.WithInterval(m.simInterval)), nil
	case "http", "https":
		c, err := bridge.Dial(ctx, path, m.HTTPClient)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: no transport for device path '%s'", ut181a.ErrDeviceNotFound, path)
}
