package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servicehub/config"
	"servicehub/cron"
	"servicehub/database"
	"servicehub/database/repository"
	memoryRepo "servicehub/database/repository/memory"
	"servicehub/handlers"
	"servicehub/middleware"
	"servicehub/routes"
	"servicehub/services/booking"
	"servicehub/services/events"
	"servicehub/services/geo"
	"servicehub/services/provider"
	"servicehub/services/review"
	"servicehub/services/stats"
	"servicehub/services/tasks"
	"servicehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// stores is the set of repositories and the transaction runner backing them.
type stores struct {
	providers repository.ProviderRepository
	bookings  repository.BookingRepository
	reviews   repository.ReviewRepository
	services  repository.ServiceRepository
	users     repository.UserRepository
	tx        database.Transactor
}

func openStores(ctx context.Context, logger *zap.Logger) stores {
	if config.UsesMemoryStore() {
		logger.Warn("Using in-memory store, data will not survive a restart")
		repos := memoryRepo.NewRepositories()
		return stores{
			providers: repos.Providers,
			bookings:  repos.Bookings,
			reviews:   repos.Reviews,
			services:  repos.Services,
			users:     repos.Users,
			tx:        repos.Store,
		}
	}

	if err := database.InitDB(ctx); err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	db := database.Database()
	return stores{
		providers: repository.NewMongoProviderRepo(db),
		bookings:  repository.NewMongoBookingRepo(db),
		reviews:   repository.NewMongoReviewRepo(db),
		services:  repository.NewMongoServiceRepo(db),
		users:     repository.NewMongoUserRepo(db),
		tx:        database.NewMongoTransactor(database.MongoClient),
	}
}

func openPublisher(logger *zap.Logger) events.Publisher {
	if config.AppConfig.AMQPURL == "" {
		logger.Info("AMQP_URL not set, domain events are disabled")
		return events.NopPublisher{}
	}
	pub, err := events.NewAMQPPublisher(config.AppConfig.AMQPURL, config.AppConfig.EventsExchange)
	if err != nil {
		logger.Warn("Event broker unavailable, domain events are disabled", zap.Error(err))
		return events.NopPublisher{}
	}
	return pub
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st := openStores(ctx, logger)
	utils.InitCache()
	utils.StartHealthMonitor(ctx, utils.GetCacheClient(), database.MongoClient)

	publisher := openPublisher(logger)
	defer publisher.Close()

	queue := asynq.NewClient(cron.QueueRedisOpt())
	defer queue.Close()
	var reminders tasks.Scheduler = tasks.NewAsynqScheduler(queue, config.AppConfig.ReminderLeadTime)
	worker := cron.InitReminderWorker(ctx, st.bookings, publisher, logger)

	var geocoder geo.Geocoder
	if config.AppConfig.GoogleAPIKey != "" {
		geocoder = geo.NewGoogleGeocoder(config.AppConfig.GoogleAPIKey, utils.GetCacheClient(), config.AppConfig.GeocodeCacheTTL, logger)
	}

	// services.
	statsService := &stats.DefaultStatsService{
		Providers: st.providers,
		Reviews:   st.reviews,
		Tx:        st.tx,
	}
	providerService := &provider.DefaultProviderService{
		Repo:     st.providers,
		Services: st.services,
		Stats:    statsService,
		Geocoder: geocoder,
		Logger:   logger,
	}
	bookingService := &booking.DefaultBookingService{
		Bookings:  st.bookings,
		Providers: st.providers,
		Services:  st.services,
		Users:     st.users,
		Stats:     statsService,
		Tx:        st.tx,
		Events:    publisher,
		Reminders: reminders,
		Logger:    logger,
		TimeNowFn: time.Now,
	}
	reviewService := &review.DefaultReviewService{
		Reviews:   st.reviews,
		Bookings:  st.bookings,
		Providers: st.providers,
		Services:  st.services,
		Stats:     statsService,
		Tx:        st.tx,
		Events:    publisher,
		Logger:    logger,
	}

	handlerBundle := &handlers.HandlerBundle{
		UserRepo: st.users,
		Provider: handlers.NewProviderHandler(providerService, statsService),
		Booking:  handlers.NewBookingHandler(bookingService),
		Review:   handlers.NewReviewHandler(reviewService),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: closing MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
