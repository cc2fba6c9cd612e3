package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/midburn/spark-admin/config"
	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/repositories"
	"github.com/midburn/spark-admin/services"
	"github.com/midburn/spark-admin/services/aggregation"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is everything a client needs after a successful bootstrap.
// Collections that could not be fetched are empty, never nil.
type State struct {
	Session          *models.Session       `json:"session"`
	Configuration    *models.Configuration `json:"configuration"`
	OpenCamps        []*models.Group       `json:"camps"`
	OpenArts         []*models.Group       `json:"art_installations"`
	UserGroups       []*models.Group       `json:"user_groups"`
	CurrentEvent     *models.Event         `json:"current_event"`
	AllocationGroups []*models.Group       `json:"allocation_groups"`
}

func newState(session *models.Session, cfg *models.Configuration) *State {
	return &State{
		Session:          session,
		Configuration:    cfg,
		OpenCamps:        []*models.Group{},
		OpenArts:         []*models.Group{},
		UserGroups:       []*models.Group{},
		AllocationGroups: []*models.Group{},
	}
}

// slot is the active bootstrap of one logged user
type slot struct {
	state       *State
	coordinator *aggregation.Coordinator
}

// Bootstrapper establishes a session (phase 1, fail-fast) and then loads the
// business data shown on start (phase 2, fail-soft)
type Bootstrapper struct {
	configs        repositories.ConfigurationProvider
	sessions       repositories.SessionProvider
	groups         repositories.GroupsRepository
	events         repositories.EventsRepository
	newCoordinator func() *aggregation.Coordinator
	fallback       config.EventsConfig
	timeout        time.Duration
	logger         *zap.Logger

	mu    sync.Mutex
	slots map[int]*slot
}

// Config holds the Bootstrapper settings
type Config struct {
	Events       config.EventsConfig
	FetchTimeout time.Duration
}

// NewBootstrapper creates a new Bootstrapper instance
func NewBootstrapper(
	configs repositories.ConfigurationProvider,
	sessions repositories.SessionProvider,
	groups repositories.GroupsRepository,
	events repositories.EventsRepository,
	newCoordinator func() *aggregation.Coordinator,
	cfg Config,
	logger *zap.Logger,
) *Bootstrapper {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = aggregation.DefaultFetchTimeout
	}
	return &Bootstrapper{
		configs:        configs,
		sessions:       sessions,
		groups:         groups,
		events:         events,
		newCoordinator: newCoordinator,
		fallback:       cfg.Events,
		timeout:        cfg.FetchTimeout,
		logger:         logger,
		slots:          make(map[int]*slot),
	}
}

// Authenticate runs phase 1 alone and returns the session for token.
// Any failure is a cookie error.
func (b *Bootstrapper) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	session, _, err := b.establish(ctx, token)
	return session, err
}

// Initialize runs both phases. It fails only when phase 1 fails, in which
// case no phase 2 fetch is issued.
func (b *Bootstrapper) Initialize(ctx context.Context, token string) (*State, error) {
	session, cfg, err := b.establish(ctx, token)
	if err != nil {
		return nil, err
	}

	state := newState(session, cfg)
	coordinator := b.activate(state)
	b.load(ctx, state, coordinator)

	return state, nil
}

// active returns the state installed by the latest bootstrap of userID
func (b *Bootstrapper) active(userID int) *State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.slots[userID]; ok {
		return s.state
	}
	return nil
}

// Release forgets the bootstrap of userID. Phase 2 fetches still in flight
// for it are dropped.
func (b *Bootstrapper) Release(userID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.slots, userID)
}

func (b *Bootstrapper) establish(ctx context.Context, token string) (*models.Session, *models.Configuration, error) {
	cfg, err := services.WithTimeout(ctx, b.timeout, b.configs.GetConfigurations)
	if err != nil {
		b.logger.Info("configuration unavailable", zap.Error(err))
		return nil, nil, services.NewCookieError(fmt.Errorf("failed to get configurations: %w", err))
	}
	if cfg == nil {
		cfg = models.NewConfiguration()
	}

	details, err := services.WithTimeout(ctx, b.timeout, func(ctx context.Context) (*models.LoginDetails, error) {
		return b.sessions.Authenticate(ctx, token)
	})
	if err != nil {
		b.logger.Info("session rejected", zap.Error(err))
		return nil, nil, services.NewCookieError(err)
	}
	if details == nil {
		return nil, nil, services.NewCookieError(services.ErrInvalidSession)
	}

	session := &models.Session{
		LoggedUser:     details.LoggedUser,
		CurrentEventID: details.CurrentEventID,
		FormerEventID:  cfg.FormerEventID(),
	}
	if session.CurrentEventID == "" {
		session.CurrentEventID = b.fallback.CurrentEventID
	}
	if session.FormerEventID == "" {
		session.FormerEventID = b.fallback.FormerEventID
	}

	return session, cfg, nil
}

// activate installs state as the user's active bootstrap, superseding any
// earlier one still in flight
func (b *Bootstrapper) activate(state *State) *aggregation.Coordinator {
	b.mu.Lock()
	defer b.mu.Unlock()

	userID := state.Session.LoggedUser.ID
	s, ok := b.slots[userID]
	if !ok {
		s = &slot{coordinator: b.newCoordinator()}
		b.slots[userID] = s
	}
	s.state = state
	return s.coordinator
}

// write applies fn to state only while state is still the active one
func (b *Bootstrapper) write(state *State, fn func()) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.slots[state.Session.LoggedUser.ID]
	if !ok || s.state != state {
		return false
	}
	fn()
	return true
}

func (b *Bootstrapper) load(ctx context.Context, state *State, coordinator *aggregation.Coordinator) {
	session := state.Session

	var (
		g       errgroup.Group
		errMu   sync.Mutex
		loadErr error
	)
	fail := func(what string, err error) {
		errMu.Lock()
		defer errMu.Unlock()
		loadErr = multierr.Append(loadErr, fmt.Errorf("%s: %w", what, err))
	}

	loadGroups := func(what string, fetch func(ctx context.Context) ([]*models.Group, error), set func([]*models.Group)) {
		g.Go(func() error {
			groups, err := services.WithTimeout(ctx, b.timeout, fetch)
			if err != nil {
				fail(what, err)
				return nil
			}
			if groups != nil {
				b.write(state, func() { set(groups) })
			}
			return nil
		})
	}

	loadGroups("open camps", func(ctx context.Context) ([]*models.Group, error) {
		return b.groups.GetOpenCamps(ctx, session.CurrentEventID)
	}, func(groups []*models.Group) { state.OpenCamps = groups })

	loadGroups("open art installations", func(ctx context.Context) ([]*models.Group, error) {
		return b.groups.GetOpenArts(ctx, session.CurrentEventID)
	}, func(groups []*models.Group) { state.OpenArts = groups })

	loadGroups("user groups", func(ctx context.Context) ([]*models.Group, error) {
		return b.groups.GetUserGroups(ctx, session.LoggedUser.ID, session.CurrentEventID)
	}, func(groups []*models.Group) { state.UserGroups = groups })

	g.Go(func() error {
		event, err := services.WithTimeout(ctx, b.timeout, func(ctx context.Context) (*models.Event, error) {
			return b.events.GetEvent(ctx, session.CurrentEventID)
		})
		if err != nil {
			fail("current event", err)
			return nil
		}
		b.write(state, func() { state.CurrentEvent = event })
		return nil
	})

	g.Go(func() error {
		groups, err := services.WithTimeout(ctx, b.timeout, func(ctx context.Context) ([]*models.Group, error) {
			return b.groups.GetPresaleAllocationGroups(ctx, session.CurrentEventID)
		})
		if err != nil {
			fail("presale allocation groups", err)
			return nil
		}
		if groups == nil {
			groups = []*models.Group{}
		}
		var run uint64
		if !b.write(state, func() {
			state.AllocationGroups = groups
			run = coordinator.Begin()
		}) {
			return nil
		}
		coordinator.AggregateAll(ctx, run, groups, session.FormerEventID)
		return nil
	})

	_ = g.Wait()

	if loadErr != nil {
		b.logger.Warn("bootstrap loaded partial data",
			zap.Int("user_id", session.LoggedUser.ID),
			zap.Int("failed", len(multierr.Errors(loadErr))),
			zap.Error(loadErr))
	}
}
