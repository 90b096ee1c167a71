// Command timer is a headless terminal shell around the session machine.
// Enter toggles the countdown, "r" resets it and "q" quits.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/k1ngsalm0n/pomodoro-plant/go/clients"
	pc "github.com/k1ngsalm0n/pomodoro-plant/go/clients/pomodoro_client"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/timer"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadTimerConfig() timer.Config {
	cfg := timer.DefaultConfig()
	cfg.StudySeconds = getEnvAsInt("POMODORO_STUDY_SECONDS", cfg.StudySeconds)
	cfg.ShortBreakSeconds = getEnvAsInt("POMODORO_SHORT_BREAK_SECONDS", cfg.ShortBreakSeconds)
	cfg.LongBreakSeconds = getEnvAsInt("POMODORO_LONG_BREAK_SECONDS", cfg.LongBreakSeconds)
	cfg.CycleLength = getEnvAsInt("POMODORO_CYCLE_LENGTH", cfg.CycleLength)
	return cfg
}

// signIn logs in, registering the account first if it does not exist yet
func signIn(ctx context.Context, client *pc.PomodoroClient, username, password string) error {
	_, err := client.Login(ctx, username, password)
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		_, err = client.Register(ctx, username, password)
	}
	return err
}

// resume connects the relay and then picks up where another device left off.
// The socket is attached first so a running snapshot's ticks are broadcast.
func resume(ctx context.Context, client *pc.PomodoroClient, machine *timer.Machine, effects *shellEffects) *pc.Socket {
	socket, err := client.DialSocket(ctx)
	if err == nil {
		effects.socket = socket
	} else {
		log.Warn().Err(err).Msg("running without cross-device sync")
	}

	if plant, err := client.PlantState(ctx); err == nil {
		machine.SetFlower(plant.SpeciesID)
	} else {
		log.Warn().Err(err).Msg("failed to load plant")
	}

	if state, err := client.TimerState(ctx); err == nil {
		var snap timer.Snapshot
		if json.Unmarshal(state.State, &snap) == nil {
			machine.Apply(snap)
		}
	}
	return socket
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := loadTimerConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid timer config")
	}

	username := os.Getenv("POMODORO_USERNAME")
	password := os.Getenv("POMODORO_PASSWORD")
	if username == "" || password == "" {
		log.Fatal().Msg("POMODORO_USERNAME and POMODORO_PASSWORD are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	client := pc.NewPomodoroClient(getEnv("POMODORO_API_URL", pc.DefaultBaseURL))
	if err := signIn(ctx, client, username, password); err != nil {
		log.Fatal().Err(err).Msg("failed to sign in")
	}

	effects := &shellEffects{client: client, cfg: cfg}
	machine := timer.NewMachine(clockwork.NewRealClock(), cfg, effects, uuid.NewString())
	effects.machine = machine

	if socket := resume(ctx, client, machine, effects); socket != nil {
		defer socket.Close()
		go listen(socket, machine)
	}

	go render(machine, cfg)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "":
			machine.Toggle()
		case "r":
			machine.Reset()
		case "q":
			machine.Pause()
			return
		}
	}
}

func render(machine *timer.Machine, cfg timer.Config) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		state := machine.State()
		d := timer.Render(state, cfg)
		status := "paused"
		if state.IsRunning {
			status = "running"
		}
		fmt.Printf("\r%s  %-11s  %s  stage %d  [%s]   ", d.Clock, d.Phase.Label(), d.Progress, d.PlantStage, status)
	}
}
