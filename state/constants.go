package state

import "time"

const (
	// EndOfInput terminates a topology file.
	EndOfInput = "End of Input"

	// Ack is the fixed reply a listener sends after accepting a table.
	Ack = "tables received"

	TransportTCP = "tcp"
	TransportKCP = "kcp"
)

var (
	// RoundsPerNode bounds the convergence loop at len(graph) * RoundsPerNode.
	RoundsPerNode = 50

	// AcceptPoll bounds how long a listener blocks in Accept before checking
	// its cancellation, so shutdown completes within one poll interval.
	AcceptPoll = 250 * time.Millisecond

	// IOTimeout bounds a single connection's read or write.
	IOTimeout = 2 * time.Second

	// MaxPayload bounds a single advertisement payload.
	MaxPayload = int64(1 << 20)

	// SendFailureLogWindow suppresses repeated send-failure warnings for the
	// same peer within this window.
	SendFailureLogWindow = 5 * time.Second
)
