package bridge

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/enbility/zeroconf/v3"
	log "github.com/sirupsen/logrus"
)

// mDNS service of a bridge
const (
	ServiceType = "_ut181a._tcp"
	Domain      = "local."
)

// Advertiser announces a running bridge via mDNS
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers instance on port. txt is published as is, e.g. "version=1.0".
func Advertise(instance string, port int, txt []string) (*Advertiser, error) {
	server, err := zeroconf.Register(instance, ServiceType, Domain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("can not advertise bridge %q: %w", instance, err)
	}
	log.Infof("Advertising bridge %q as %s on port %d", instance, ServiceType, port)
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertiser) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}

// Browse looks for bridges until timeout or ctx expire and returns their
// device paths, http://host:port, in the order they answered.
func Browse(ctx context.Context, timeout time.Duration) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)
	errc := make(chan error, 1)
	go func() {
		errc <- zeroconf.Browse(ctx, ServiceType, Domain, entries, removed)
	}()

	var paths []string
	seen := map[string]bool{}
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				entries = nil
				continue
			}
			path := entryPath(entry)
			if path == "" || seen[entry.Instance] {
				continue
			}
			seen[entry.Instance] = true
			log.Debugf("Found bridge %q at %s", entry.Instance, path)
			paths = append(paths, path)

		case entry, ok := <-removed:
			if !ok {
				removed = nil
				continue
			}
			log.Debugf("Bridge %q went away", entry.Instance)

		case err := <-errc:
			if err != nil && ctx.Err() == nil {
				return paths, fmt.Errorf("mDNS browse failed: %w", err)
			}
			errc = nil

		case <-ctx.Done():
			return paths, nil
		}
	}
}

// entryPath builds the device path of a resolved service entry
func entryPath(e *zeroconf.ServiceEntry) string {
	if e.Port == 0 {
		return ""
	}
	host := strings.TrimSuffix(e.HostName, ".")
	switch {
	case len(e.AddrIPv4) > 0:
		host = e.AddrIPv4[0].String()
	case len(e.AddrIPv6) > 0:
		host = e.AddrIPv6[0].String()
	}
	if host == "" {
		return ""
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(e.Port))
}
