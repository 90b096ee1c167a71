package main

import (
	"context"
	"encoding/json"
	"time"

	pc "github.com/k1ngsalm0n/pomodoro-plant/go/clients/pomodoro_client"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/events"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/timer"
	"github.com/rs/zerolog/log"
)

// requestTimeout bounds each background API call
const requestTimeout = 10 * time.Second

// shellEffects reports machine transitions to the backend. Every call returns
// immediately and does its network work in a goroutine.
type shellEffects struct {
	client  *pc.PomodoroClient
	socket  *pc.Socket // nil when the relay is unreachable
	machine *timer.Machine
	cfg     timer.Config
}

func (e *shellEffects) StudyCompleted(snap timer.Snapshot) {
	flower := 0
	if snap.CurrentFlowerID != nil {
		flower = *snap.CurrentFlowerID
	}
	go e.growAndLog(flower)
}

func (e *shellEffects) growAndLog(flower int) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := e.client.Grow(ctx, flower)
	if err != nil {
		log.Error().Err(err).Msg("failed to grow plant")
	} else {
		log.Info().
			Str("plant", result.PlantType).
			Int("growth_stage", result.GrowthStage).
			Bool("unlocked", result.IsNew).
			Msg("plant grew")
		// A finished plant lets the server pick the next species
		if result.IsFullyGrown {
			e.machine.SetFlower(0)
		} else {
			e.machine.SetFlower(result.SpeciesID)
		}
	}

	minutes := timer.Minutes(e.cfg.StudySeconds)
	session, err := e.client.StartSession(ctx, minutes, "study")
	if err != nil {
		log.Error().Err(err).Msg("failed to log session")
		return
	}
	if err := e.client.CompleteSession(ctx, session.SessionID); err != nil {
		log.Error().Err(err).Int64("session_id", session.SessionID).Msg("failed to complete session")
	}
}

func (e *shellEffects) CycleCompleted(timer.Snapshot) {
	log.Info().Msg("cycle complete, press enter to start a new one")
}

func (e *shellEffects) StateChanged(snap timer.Snapshot) {
	if e.socket == nil {
		return
	}
	go func() {
		if err := e.socket.Send(events.EventTypeTimerSync, snap); err != nil {
			log.Warn().Err(err).Msg("failed to broadcast timer state")
		}
	}()
}

// isServerAction reports whether a timer:update came from the session log
// rather than from a sibling device
func isServerAction(data json.RawMessage) bool {
	var msg struct {
		Action string `json:"action"`
	}
	return json.Unmarshal(data, &msg) == nil && msg.Action != ""
}

// listen applies sibling snapshots until the socket closes
func listen(socket *pc.Socket, machine *timer.Machine) {
	for {
		event, err := socket.Next()
		if err != nil {
			log.Warn().Err(err).Msg("relay connection closed")
			return
		}

		switch event.Type {
		case events.EventTypeTimerUpdate:
			if isServerAction(event.Data) {
				continue
			}
			var snap timer.Snapshot
			if err := json.Unmarshal(event.Data, &snap); err != nil {
				log.Debug().Err(err).Msg("ignoring malformed timer update")
				continue
			}
			machine.Apply(snap)
		case events.EventTypePlantUpdate:
			var plant pc.Plant
			if err := json.Unmarshal(event.Data, &plant); err == nil {
				log.Info().Str("plant", plant.PlantType).Int("growth_stage", plant.GrowthStage).Msg("plant updated")
			}
		case events.EventTypeAuthenticated:
			var reply events.AuthenticatedPayload
			if err := json.Unmarshal(event.Data, &reply); err == nil && !reply.Success {
				log.Warn().Str("error", reply.Error).Msg("relay rejected token")
			}
		}
	}
}
