package impl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/encodeous/distvec/perf"
	"github.com/encodeous/distvec/state"
	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

// Fabric runs one long-lived listener per node and provides best-effort
// point-to-point sends between them. Delivery is one message per connection
// with no retries: a failed send is logged and dropped, never fatal.
type Fabric struct {
	env   *state.Env
	runId uuid.UUID
	g     *state.Graph
	wg    sync.WaitGroup

	// recently-warned unreachable peers, to keep failure logs readable
	suppress *ttlcache.Cache[string, struct{}]
}

func NewFabric(env *state.Env) *Fabric {
	suppress := ttlcache.New[string, struct{}](
		ttlcache.WithTTL[string, struct{}](state.SendFailureLogWindow),
	)
	go suppress.Start()
	return &Fabric{
		env:      env,
		runId:    uuid.New(),
		suppress: suppress,
	}
}

// Start binds and launches every node's listener and returns once all of
// them are confirmed ready. No send may happen before Start returns.
func (f *Fabric) Start(g *state.Graph) error {
	f.g = g
	ready := make([]chan struct{}, 0, g.Len())
	for _, id := range g.Order {
		n := g.Get(id)
		lis, err := listen(f.env.Cfg, n.Addr())
		if err != nil {
			f.shutdownStarted()
			return fmt.Errorf("node %s failed to listen: %w", id, err)
		}
		// with an ephemeral port, record the actual endpoint before anyone
		// can send to it
		if tcpAddr, ok := lis.Addr().(*net.TCPAddr); ok {
			n.Port = tcpAddr.Port
		} else if udpAddr, ok := lis.Addr().(*net.UDPAddr); ok {
			n.Port = udpAddr.Port
		}
		ctx := n.ListenContext(f.env.Context)
		sig := make(chan struct{})
		ready = append(ready, sig)
		f.wg.Add(1)
		go f.serve(ctx, n, lis, sig)
	}
	for _, sig := range ready {
		<-sig
	}
	f.env.Log.Debug("all listeners ready", "run", f.runId, "nodes", g.Len())
	return nil
}

// serve is the per-node accept loop. It waits at most AcceptPoll per cycle
// so a shutdown signal is observed promptly.
func (f *Fabric) serve(ctx context.Context, n *state.Node, lis deadlineListener, ready chan<- struct{}) {
	defer f.wg.Done()
	defer n.ListenerExited()
	defer lis.Close()
	log := f.env.Log.With("node", n.Id)
	log.Debug("listening", "addr", n.Addr())
	close(ready)
	for {
		if ctx.Err() != nil {
			log.Debug("listener shut down")
			return
		}
		_ = lis.SetDeadline(time.Now().Add(state.AcceptPoll))
		conn, err := lis.Accept()
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				log.Debug("listener shut down")
				return
			}
			log.Warn("failed to accept connection", "err", err)
			continue
		}
		f.receive(n, conn, log)
	}
}

// receive decodes a single advertisement from conn, appends it to the node's
// inbox and replies with the fixed ack. A malformed or slow payload is
// dropped.
func (f *Fabric) receive(n *state.Node, conn net.Conn, log *slog.Logger) {
	defer conn.Close()
	id := uuid.New()
	_ = conn.SetDeadline(time.Now().Add(state.IOTimeout))
	var batch []state.Entry
	if err := json.NewDecoder(io.LimitReader(conn, state.MaxPayload)).Decode(&batch); err != nil {
		log.Warn("dropping malformed advertisement", "conn", id, "err", err)
		return
	}
	n.PushInbox(batch)
	perf.RecvsPerSecond.Add(1)
	if _, err := conn.Write([]byte(state.Ack)); err != nil {
		log.Debug("ack not delivered", "conn", id, "err", err)
	}
}

// Send connects to the peer, transmits the serialized table and closes. The
// trailing ack read is best-effort and its content is never validated.
func (f *Fabric) Send(from, to *state.Node, table []state.Entry) error {
	payload, err := json.Marshal(table)
	if err != nil {
		return err
	}
	conn, err := dial(f.env.Cfg, to.Addr())
	if err != nil {
		f.logSendFailure(from, to, err)
		return err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(state.IOTimeout))
	if _, err := conn.Write(payload); err != nil {
		f.logSendFailure(from, to, err)
		return err
	}
	perf.SendsPerSecond.Add(1)
	perf.SentBytesPerSecond.Add(float64(len(payload)))
	ack := make([]byte, len(state.Ack))
	if _, err := io.ReadFull(conn, ack); err != nil {
		f.env.Log.Debug("no ack from peer", "from", from.Id, "to", to.Id, "err", err)
	}
	return nil
}

func (f *Fabric) logSendFailure(from, to *state.Node, err error) {
	perf.DroppedSends.Add(1)
	key := to.Addr()
	if f.suppress.Has(key) {
		f.env.Log.Debug("send failed", "from", from.Id, "to", to.Id, "err", err)
		return
	}
	f.suppress.Set(key, struct{}{}, ttlcache.DefaultTTL)
	f.env.Log.Warn("send failed, dropping advertisement", "from", from.Id, "to", to.Id, "err", err)
}

func (f *Fabric) shutdownStarted() {
	if f.g == nil {
		return
	}
	for _, id := range f.g.Order {
		f.g.Get(id).SignalShutdown()
	}
	f.wg.Wait()
}

// Close signals every listener to stop and joins them all before releasing
// endpoints. Shutdown completes within one AcceptPoll interval.
func (f *Fabric) Close() {
	f.shutdownStarted()
	f.suppress.Stop()
}
