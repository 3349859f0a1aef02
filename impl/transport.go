package impl

import (
	"fmt"
	"net"
	"time"

	"github.com/encodeous/distvec/state"
	kcp "github.com/xtaci/kcp-go/v5"
)

// deadlineListener is satisfied by both *net.TCPListener and *kcp.Listener,
// letting the accept loop bound its wait so cancellation is observed.
type deadlineListener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

func listen(cfg state.SimCfg, addr string) (deadlineListener, error) {
	switch cfg.Transport {
	case state.TransportKCP:
		return kcp.ListenWithOptions(addr, nil, 0, 0)
	case state.TransportTCP:
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, err
		}
		return lis.(*net.TCPListener), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func dial(cfg state.SimCfg, addr string) (net.Conn, error) {
	switch cfg.Transport {
	case state.TransportKCP:
		return kcp.DialWithOptions(addr, nil, 0, 0)
	case state.TransportTCP:
		return net.DialTimeout("tcp", addr, state.IOTimeout)
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
