package service

import "github.com/prometheus/client_golang/prometheus"

var actionTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "user_admin_actions_total",
		Help: "User management actions by outcome",
	},
	[]string{"action", "outcome"},
)

func init() { prometheus.MustRegister(actionTotal) }

const (
	outcomeOK        = "ok"
	outcomeForbidden = "forbidden"
	outcomeInvalid   = "invalid"
	outcomeError     = "error"
)
