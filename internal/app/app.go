package app

import (
	"server/config"
	"server/internal/database"
	"server/internal/handlers/middleware"
	"server/internal/logger"
	"server/internal/repositories"
	"server/internal/services"
	"server/internal/websockets"

	analysisController "server/internal/controllers/analysis"
	testController "server/internal/controllers/tests"
	userController "server/internal/controllers/users"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	Config     config.Config

	// Services
	TransactionService *services.TransactionService
	AnalysisPool       *services.AnalysisPool
	ModelClient        services.TeamAnalysisClient

	// Repositories
	UserRepo repositories.UserRepository
	TestRepo repositories.TestRepository
	JobRepo  repositories.AnalysisJobRepository

	// Controllers
	UserController     *userController.UserController
	TestController     *testController.TestController
	AnalysisController *analysisController.AnalysisController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	// Initialize services
	transactionService := services.NewTransactionService(db)
	analysisPool := services.NewAnalysisPool(config.AnalysisWorkers, config.AnalysisQueueDepth)

	modelClient, err := services.NewTeamAnalysisClient(config)
	if err != nil {
		return &App{}, log.Err("failed to create model client", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUser(db)
	testRepo := repositories.NewTest(db)
	jobRepo := repositories.NewAnalysisJob(db)

	websocket := websockets.New()

	// Initialize controllers with repositories and services
	middleware := middleware.New(db, config, userRepo)
	userController := userController.New(userRepo, db)
	testController := testController.New(testRepo, userRepo, transactionService)
	analysisController := analysisController.New(
		jobRepo,
		testRepo,
		userRepo,
		modelClient,
		analysisPool,
		websocket,
		config,
	)

	app := &App{
		Database:           db,
		Config:             config,
		Middleware:         middleware,
		Websocket:          websocket,
		TransactionService: transactionService,
		AnalysisPool:       analysisPool,
		ModelClient:        modelClient,
		UserRepo:           userRepo,
		TestRepo:           testRepo,
		JobRepo:            jobRepo,
		UserController:     userController,
		TestController:     testController,
		AnalysisController: analysisController,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.TransactionService,
		a.AnalysisPool,
		a.ModelClient,
		a.UserRepo,
		a.TestRepo,
		a.JobRepo,
		a.UserController,
		a.TestController,
		a.AnalysisController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

// Close drains the analysis pool before shutting the database down so
// in-flight jobs can still commit their terminal state.
func (a *App) Close() (err error) {
	if a.AnalysisPool != nil {
		a.AnalysisPool.Close()
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
