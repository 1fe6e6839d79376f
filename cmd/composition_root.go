package cmd

import (
	"log/slog"
	"os"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/merchantdirectory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services and use case handlers.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	directory  ports.MerchantDirectory
	dispatcher services.DeliveryDispatcher
	logger     *slog.Logger
}

// NewCompositionRoot builds the object graph from configuration and the
// database connection.
func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		directory:  merchantdirectory.NewGormMerchantDirectory(gormDB),
		dispatcher: services.NewDeliveryDispatcherWith(
			config.DispatchRadiusM,
			config.DispatchCandidateLimit,
			config.DispatchMaxPositionAge,
		),
		logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

// Logger returns the root structured logger.
func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) notificationUoWFactory() commands.NotificationUoWFactory {
	return FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) evaluationUoWFactory() commands.EvaluationUoWFactory {
	return FuncEvaluationUoWFactory(func() commands.EvaluationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateValidateOrderCommandHandler() commands.ValidateOrderCommandHandler {
	return commands.NewValidateOrderCommandHandler(
		c.dispatchUoWFactory(), c.directory, c.dispatcher, c.config.DeliveryFee, c.logger)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.dispatchUoWFactory())
}

func (c *CompositionRoot) CreateAcceptDeliveryCommandHandler() commands.AcceptDeliveryCommandHandler {
	return commands.NewAcceptDeliveryCommandHandler(c.dispatchUoWFactory())
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	return commands.NewStartDeliveryCommandHandler(c.dispatchUoWFactory())
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.dispatchUoWFactory())
}

func (c *CompositionRoot) CreateFailDeliveryCommandHandler() commands.FailDeliveryCommandHandler {
	return commands.NewFailDeliveryCommandHandler(c.dispatchUoWFactory())
}

func (c *CompositionRoot) CreateRefuseDeliveryCommandHandler() commands.RefuseDeliveryCommandHandler {
	return commands.NewRefuseDeliveryCommandHandler(c.dispatchUoWFactory())
}

func (c *CompositionRoot) CreateCancelDeliveryCommandHandler() commands.CancelDeliveryCommandHandler {
	return commands.NewCancelDeliveryCommandHandler(c.dispatchUoWFactory())
}

func (c *CompositionRoot) CreateUpdateCourierPositionCommandHandler() commands.UpdateCourierPositionCommandHandler {
	return commands.NewUpdateCourierPositionCommandHandler(c.courierUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateSetCourierAvailabilityCommandHandler() commands.SetCourierAvailabilityCommandHandler {
	return commands.NewSetCourierAvailabilityCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() commands.MarkNotificationReadCommandHandler {
	return commands.NewMarkNotificationReadCommandHandler(c.notificationUoWFactory())
}

func (c *CompositionRoot) CreateCreateEvaluationCommandHandler() commands.CreateEvaluationCommandHandler {
	return commands.NewCreateEvaluationCommandHandler(c.evaluationUoWFactory())
}

func (c *CompositionRoot) CreatePrunePositionSamplesCommandHandler() commands.PrunePositionSamplesCommandHandler {
	return commands.NewPrunePositionSamplesCommandHandler(c.courierUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListAvailableDeliveriesQueryHandler() queries.ListAvailableDeliveriesQueryHandler {
	return queries.NewListAvailableDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierPositionHistoryQueryHandler() queries.GetCourierPositionHistoryQueryHandler {
	return queries.NewGetCourierPositionHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListCourierNotificationsQueryHandler() queries.ListCourierNotificationsQueryHandler {
	return queries.NewListCourierNotificationsQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every use case handler into the REST surface.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.ServerHandlers{
		CreateOrder:            c.CreateCreateOrderCommandHandler(),
		ValidateOrder:          c.CreateValidateOrderCommandHandler(),
		ChangeOrderStatus:      c.CreateChangeOrderStatusCommandHandler(),
		CancelOrder:            c.CreateCancelOrderCommandHandler(),
		AcceptDelivery:         c.CreateAcceptDeliveryCommandHandler(),
		StartDelivery:          c.CreateStartDeliveryCommandHandler(),
		CompleteDelivery:       c.CreateCompleteDeliveryCommandHandler(),
		FailDelivery:           c.CreateFailDeliveryCommandHandler(),
		RefuseDelivery:         c.CreateRefuseDeliveryCommandHandler(),
		CancelDelivery:         c.CreateCancelDeliveryCommandHandler(),
		UpdateCourierPosition:  c.CreateUpdateCourierPositionCommandHandler(),
		SetCourierAvailability: c.CreateSetCourierAvailabilityCommandHandler(),
		MarkNotificationRead:   c.CreateMarkNotificationReadCommandHandler(),
		CreateEvaluation:       c.CreateCreateEvaluationCommandHandler(),

		GetOrder:                  c.CreateGetOrderQueryHandler(),
		GetDelivery:               c.CreateGetDeliveryQueryHandler(),
		ListAvailableDeliveries:   c.CreateListAvailableDeliveriesQueryHandler(),
		GetCourierPositionHistory: c.CreateGetCourierPositionHistoryQueryHandler(),
		ListCourierNotifications:  c.CreateListCourierNotificationsQueryHandler(),
	})
}

// CreateJobManager wires the scheduled jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreatePrunePositionSamplesCommandHandler(),
		c.config.PositionRetention,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncEvaluationUoWFactory func() commands.EvaluationUoW

func (f FuncEvaluationUoWFactory) Create() commands.EvaluationUoW {
	return f()
}
