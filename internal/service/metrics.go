package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GamesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "connect_four_games_created_total",
			Help: "Games created across all lobbies",
		},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connect_four_games_finished_total",
			Help: "Games that reached a terminal status",
		},
		[]string{"result"},
	)
	MovesAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "connect_four_moves_accepted_total",
			Help: "Moves that passed validation and were committed",
		},
	)
	MovesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connect_four_moves_rejected_total",
			Help: "Moves rejected by the validator",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(GamesCreated, GamesFinished, MovesAccepted, MovesRejected)
}
