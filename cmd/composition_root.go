package cmd

import (
	"log/slog"

	httpadapter "farmacia/internal/adapters/in/http"
	"farmacia/internal/core/application/usecases/commands"
	"farmacia/internal/core/application/usecases/queries"
	"farmacia/internal/core/application/views"
	"farmacia/internal/core/domain/services"
	"farmacia/internal/core/ports"
	"farmacia/internal/jobs"
)

type CompositionRoot struct {
	uowFactory ports.UnitOfWorkFactory
	reader     ports.OrderRepository
	views      *views.Synchronizer
	settings   ports.SettingsSource
	publisher  ports.StatusEventPublisher
	jobManager *jobs.JobManager
	clock      ports.Clock
	logger     *slog.Logger
}

// NewCompositionRoot wires the application. publisher may be nil.
func NewCompositionRoot(
	cfg Config,
	uowFactory ports.UnitOfWorkFactory,
	publisher ports.StatusEventPublisher,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	current, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	reader := uowFactory.Create().OrderRepository()
	listSpec := ports.DefaultListSpec()
	synchronizer := views.NewSynchronizer(reader, listSpec)
	pollingJob := jobs.NewOrderPollingJob(reader, synchronizer, listSpec, logger)

	return &CompositionRoot{
		uowFactory: uowFactory,
		reader:     reader,
		views:      synchronizer,
		settings:   ports.StaticSettings(current),
		publisher:  publisher,
		jobManager: jobs.NewJobManager(pollingJob, cfg.PollInterval, cfg.PollingEnabled, logger),
		clock:      ports.SystemClock{},
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

func (c *CompositionRoot) CreateRequestTransitionCommandHandler() commands.RequestTransitionCommandHandler {
	return commands.NewRequestTransitionCommandHandler(
		c.orderUoWFactory(),
		c.views,
		services.NewNotificationComposer(),
		c.settings,
		c.publisher,
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.orderUoWFactory(), c.views, c.clock)
}

func (c *CompositionRoot) CreateListStaffOrdersQueryHandler() queries.ListStaffOrdersQueryHandler {
	return queries.NewListStaffOrdersQueryHandler(c.views)
}

func (c *CompositionRoot) CreateGetOrderDetailQueryHandler() queries.GetOrderDetailQueryHandler {
	return queries.NewGetOrderDetailQueryHandler(c.views)
}

func (c *CompositionRoot) CreateGetAllowedTransitionsQueryHandler() queries.GetAllowedTransitionsQueryHandler {
	return queries.NewGetAllowedTransitionsQueryHandler(c.views, c.reader)
}

func (c *CompositionRoot) CreateGetTrackingQueryHandler() queries.GetTrackingQueryHandler {
	return queries.NewGetTrackingQueryHandler(c.views)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		RequestTransition:  c.CreateRequestTransitionCommandHandler(),
		PlaceOrder:         c.CreatePlaceOrderCommandHandler(),
		ListStaffOrders:    c.CreateListStaffOrdersQueryHandler(),
		GetOrderDetail:     c.CreateGetOrderDetailQueryHandler(),
		AllowedTransitions: c.CreateGetAllowedTransitionsQueryHandler(),
		GetTracking:        c.CreateGetTrackingQueryHandler(),
		GetCustomerOrders:  c.CreateGetCustomerOrdersQueryHandler(),
	}, c.jobManager.PollingJob(), c.jobManager, c.logger)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
