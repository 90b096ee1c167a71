package plant

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/events"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/rs/zerolog/log"
)

// PlantRepository defines what the app layer needs from the repository
type PlantRepository interface {
	GetPlantState(ctx context.Context, userID int64) (*models.PlantState, error)
	CreatePlantState(ctx context.Context, userID int64, speciesID, stage int) (*models.PlantState, bool, error)
	ResetPlantState(ctx context.Context, userID int64, speciesID int) (*models.PlantState, error)
	IncrementGrowth(ctx context.Context, userID int64) (*models.PlantState, error)
	CompleteCycle(ctx context.Context, userID int64, speciesID int) (bool, error)
	ListUnlocked(ctx context.Context, userID int64) ([]models.UnlockedPlant, error)
}

// App handles plant growth business logic
type App struct {
	repo     PlantRepository
	catalog  *Catalog
	notifier events.Notifier
	intn     func(int) int
}

// Option configures an App
type Option func(*App)

// WithRandom replaces the source of random species choices
func WithRandom(intn func(int) int) Option {
	return func(a *App) { a.intn = intn }
}

// NewApp creates a new plant App
func NewApp(repo PlantRepository, catalog *Catalog, notifier events.Notifier, opts ...Option) *App {
	if notifier == nil {
		notifier = events.NopNotifier{}
	}
	a := &App{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		intn:     rand.Intn,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Catalog returns the species catalog
func (a *App) Catalog() *Catalog {
	return a.catalog
}

// State returns the user's current plant, creating a stage 0 plant with a
// freshly chosen species when the user has none
func (a *App) State(ctx context.Context, userID int64) (*PlantView, error) {
	state, err := a.repo.GetPlantState(ctx, userID)
	if apperr.IsNotFound(err) {
		state, err = a.plant(ctx, userID, 0, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plant state: %w", err)
	}

	view := newPlantView(state, a.species(state.SpeciesID))
	return &view, nil
}

// Grow advances the user's plant by one stage. A user without a plant gets
// one at stage 1. Reaching the final stage unlocks the species and clears the
// plant so the next cycle starts fresh.
func (a *App) Grow(ctx context.Context, userID int64, requested int) (*GrowResult, error) {
	state, err := a.repo.IncrementGrowth(ctx, userID)
	if apperr.IsNotFound(err) {
		state, err = a.plant(ctx, userID, requested, 1)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to grow plant: %w", err)
	}

	species := a.species(state.SpeciesID)
	result := &GrowResult{
		PlantView:    newPlantView(state, species),
		IsFullyGrown: state.IsFullyGrown(),
	}

	if result.IsFullyGrown {
		isNew, err := a.repo.CompleteCycle(ctx, userID, state.SpeciesID)
		if err != nil {
			return nil, fmt.Errorf("failed to complete plant cycle: %w", err)
		}
		result.IsNew = isNew
		log.Info().
			Int64("user_id", userID).
			Int("species_id", species.ID).
			Str("species", species.Name).
			Bool("is_new", isNew).
			Msg("plant fully grown")
	}

	a.notifier.NotifyUser(userID, events.EventTypePlantUpdate, result)
	return result, nil
}

// NewPlant discards the current plant and starts a stage 0 plant of a newly
// chosen species
func (a *App) NewPlant(ctx context.Context, userID int64) (*PlantView, error) {
	unlocked, err := a.unlockedSet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create new plant: %w", err)
	}

	species := a.catalog.Choose(0, unlocked, a.intn)
	state, err := a.repo.ResetPlantState(ctx, userID, species.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create new plant: %w", err)
	}

	view := newPlantView(state, species)
	a.notifier.NotifyUser(userID, events.EventTypePlantUpdate, view)
	return &view, nil
}

// Collection lists the species the user unlocked
func (a *App) Collection(ctx context.Context, userID int64) (*Collection, error) {
	unlocked, err := a.repo.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	c := &Collection{
		Plants:         make([]CollectionEntry, 0, len(unlocked)),
		TotalAvailable: a.catalog.Len(),
	}
	for _, u := range unlocked {
		species, ok := a.catalog.Lookup(u.SpeciesID)
		if !ok {
			log.Warn().Int64("user_id", userID).Int("species_id", u.SpeciesID).Msg("unlocked species missing from catalog")
			continue
		}
		c.Plants = append(c.Plants, CollectionEntry{Species: species, UnlockedAt: u.UnlockedAt})
	}
	c.UnlockedCount = len(c.Plants)
	return c, nil
}

// plant creates the user's plant at stage using the species selection rules.
// When a concurrent request created the plant first, that plant is used and,
// for a grow, advanced instead.
func (a *App) plant(ctx context.Context, userID int64, requested, stage int) (*models.PlantState, error) {
	unlocked, err := a.unlockedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	species := a.catalog.Choose(requested, unlocked, a.intn)
	state, created, err := a.repo.CreatePlantState(ctx, userID, species.ID, stage)
	if err != nil {
		return nil, err
	}
	if created {
		log.Debug().Int64("user_id", userID).Int("species_id", species.ID).Int("stage", stage).Msg("created plant")
		return state, nil
	}

	if stage > 0 {
		return a.repo.IncrementGrowth(ctx, userID)
	}
	return a.repo.GetPlantState(ctx, userID)
}

func (a *App) unlockedSet(ctx context.Context, userID int64) (map[int]bool, error) {
	unlocked, err := a.repo.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[int]bool, len(unlocked))
	for _, u := range unlocked {
		set[u.SpeciesID] = true
	}
	return set, nil
}

// species resolves a stored species id. Rows written with a species that left
// the catalog still render with their id.
func (a *App) species(id int) Species {
	if s, ok := a.catalog.Lookup(id); ok {
		return s
	}
	return Species{ID: id, Name: fmt.Sprintf("Species %d", id)}
}
