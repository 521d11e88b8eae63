package setup

import (
	"reflect"

	"github.com/andrescamacho/amalgam-go/internal/application/common"
	gameCommands "github.com/andrescamacho/amalgam-go/internal/application/game/commands"
	gameQueries "github.com/andrescamacho/amalgam-go/internal/application/game/queries"
	ledgerQueries "github.com/andrescamacho/amalgam-go/internal/application/ledger/queries"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
	"github.com/andrescamacho/amalgam-go/internal/domain/ledger"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	sessions  session.Repository
	turnRepo  ledger.TurnRecordRepository
	publisher common.TurnPublisher
	catalog   *catalog.Catalog
	defaults  session.Settings
	clock     shared.Clock
}

// NewHandlerRegistry creates a new handler registry with required dependencies.
// turnRepo may be nil, in which case turns are not recorded and history
// queries are not registered.
func NewHandlerRegistry(
	sessions session.Repository,
	turnRepo ledger.TurnRecordRepository,
	publisher common.TurnPublisher,
	cat *catalog.Catalog,
	defaults session.Settings,
	clock shared.Clock,
) *HandlerRegistry {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if cat == nil {
		cat = catalog.Default()
	}

	return &HandlerRegistry{
		sessions:  sessions,
		turnRepo:  turnRepo,
		publisher: publisher,
		catalog:   cat,
		defaults:  defaults,
		clock:     clock,
	}
}

// RegisterGameHandlers registers the session commands and state queries:
//   - StartGameCommand, SubmitDirectionCommand
//   - GetGridQuery, GetInventoryQuery, GetTurnCountQuery
//   - GetSessionQuery, ListSessionsQuery, GetCraftingTreeQuery
func (r *HandlerRegistry) RegisterGameHandlers(m mediator.Mediator) error {
	handlers := []struct {
		request mediator.Request
		handler mediator.RequestHandler
	}{
		{&gameCommands.StartGameCommand{}, gameCommands.NewStartGameHandler(r.sessions, r.catalog, r.defaults, r.clock)},
		{&gameCommands.SubmitDirectionCommand{}, gameCommands.NewSubmitDirectionHandler(r.sessions, r.turnRepo, r.publisher, r.clock)},
		{&gameQueries.GetGridQuery{}, gameQueries.NewGetGridHandler(r.sessions)},
		{&gameQueries.GetInventoryQuery{}, gameQueries.NewGetInventoryHandler(r.sessions)},
		{&gameQueries.GetTurnCountQuery{}, gameQueries.NewGetTurnCountHandler(r.sessions)},
		{&gameQueries.GetSessionQuery{}, gameQueries.NewGetSessionHandler(r.sessions)},
		{&gameQueries.ListSessionsQuery{}, gameQueries.NewListSessionsHandler(r.sessions)},
		{&gameQueries.GetCraftingTreeQuery{}, gameQueries.NewGetCraftingTreeHandler(r.sessions, r.catalog)},
	}

	for _, h := range handlers {
		if err := m.Register(reflect.TypeOf(h.request), h.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterLedgerHandlers registers GetTurnHistoryQuery when a turn repository is configured
func (r *HandlerRegistry) RegisterLedgerHandlers(m mediator.Mediator) error {
	if r.turnRepo == nil {
		return nil
	}

	return m.Register(
		reflect.TypeOf(&ledgerQueries.GetTurnHistoryQuery{}),
		ledgerQueries.NewGetTurnHistoryHandler(r.turnRepo),
	)
}

// CreateConfiguredMediator creates a mediator with every handler registered.
// Middlewares run in the order given, the first one outermost.
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator()
	for _, mw := range middlewares {
		m.RegisterMiddleware(mw)
	}

	if err := r.RegisterGameHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterLedgerHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
