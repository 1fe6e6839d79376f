package courierrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CourierRepositoryIntegrationTestSuite exercises the courier repository
// against a real PostgreSQL instance, in particular the availability and
// vehicle filters of the dispatch pool query.
type CourierRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *courierrepo.GormCourierRepository
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&courierrepo.CourierDTO{},
		&courierrepo.PositionSampleDTO{},
	))
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE courier_position_samples, couriers").Error)

	suite.repository = courierrepo.NewGormCourierRepository(suite.db)
}

func (suite *CourierRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGetAllAvailable_FiltersAvailability() {
	ctx := context.Background()
	now := time.Now().UTC()

	onDuty := suite.createCourier("Kossi", courier.VehicleMotorbike, now)
	onDuty.SetAvailability(true, true, now)
	suite.Require().NoError(suite.repository.Add(ctx, onDuty))

	offDuty := suite.createCourier("Ama", courier.VehicleCar, now)
	suite.Require().NoError(suite.repository.Add(ctx, offDuty))

	loggedOut := suite.createCourier("Yao", courier.VehicleBicycle, now)
	loggedOut.SetAvailability(true, false, now)
	suite.Require().NoError(suite.repository.Add(ctx, loggedOut))

	pool, err := suite.repository.GetAllAvailable(ctx, nil)
	suite.Require().NoError(err)

	suite.Require().Len(pool, 1)
	suite.True(pool[0].ID().IsEqual(onDuty.ID()))
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGetAllAvailable_VehicleFilter() {
	ctx := context.Background()
	now := time.Now().UTC()

	biker := suite.createCourier("Kossi", courier.VehicleMotorbike, now)
	biker.SetAvailability(true, true, now)
	suite.Require().NoError(suite.repository.Add(ctx, biker))

	cyclist := suite.createCourier("Afi", courier.VehicleBicycle, now)
	cyclist.SetAvailability(true, true, now)
	suite.Require().NoError(suite.repository.Add(ctx, cyclist))

	vehicle := courier.VehicleBicycle
	pool, err := suite.repository.GetAllAvailable(ctx, &vehicle)
	suite.Require().NoError(err)

	suite.Require().Len(pool, 1)
	suite.True(pool[0].ID().IsEqual(cyclist.ID()))
	suite.Equal(courier.VehicleBicycle, pool[0].Vehicle())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_PersistsFlagsAndPosition() {
	ctx := context.Background()
	now := time.Now().UTC()

	rider := suite.createCourier("Kossi", courier.VehicleMotorbike, now)
	rider.SetAvailability(true, true, now)
	suite.Require().NoError(suite.repository.Add(ctx, rider))

	point, err := kernel.NewGeoPoint(6.1319, 1.2228)
	suite.Require().NoError(err)
	_, err = rider.UpdatePosition(point, now, nil, now)
	suite.Require().NoError(err)
	rider.SetAvailability(false, false, now)
	suite.Require().NoError(suite.repository.Update(ctx, rider))

	restored, err := suite.repository.Get(ctx, rider.ID())
	suite.Require().NoError(err)

	suite.False(restored.IsAvailable())
	suite.False(restored.IsOnline())
	suite.Require().NotNil(restored.Position())
	suite.InDelta(6.1319, restored.Position().Latitude(), 1e-9)
}

func (suite *CourierRepositoryIntegrationTestSuite) createCourier(name string, vehicle courier.VehicleType, now time.Time) *courier.Courier {
	c, err := courier.NewCourier(kernel.NewUUID(), name, "+22890112233", vehicle, now)
	suite.Require().NoError(err)
	return c
}

func TestCourierRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(CourierRepositoryIntegrationTestSuite))
}
