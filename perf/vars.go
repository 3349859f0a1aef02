package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	RoundDuration      = metric.NewHistogram("1m1s")
	SendsPerSecond     = metric.NewCounter("10s1s")
	RecvsPerSecond     = metric.NewCounter("10s1s")
	SentBytesPerSecond = metric.NewCounter("10s1s")
	DroppedSends       = metric.NewCounter("1m1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("distvec:RoundDuration (µs)", RoundDuration)
	expvar.Publish("distvec:Sends/s", SendsPerSecond)
	expvar.Publish("distvec:Recvs/s", RecvsPerSecond)
	expvar.Publish("distvec:SentBytes/s", SentBytesPerSecond)
	expvar.Publish("distvec:DroppedSends", DroppedSends)
}
