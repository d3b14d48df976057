package protocol

import "github.com/prometheus/client_golang/prometheus"

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "switcher",
		Subsystem: "tcp",
		Name:      "requests_total",
		Help:      "TCP control requests by operation and outcome",
	},
	[]string{"op", "result"})

func init() {
	prometheus.MustRegister(requestsTotal)
}

func observe(op string, err error) {
	if err != nil {
		requestsTotal.WithLabelValues(op, "error").Inc()
		return
	}
	requestsTotal.WithLabelValues(op, "ok").Inc()
}
