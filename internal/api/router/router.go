package router

import (
	"time"

	"fitbook/internal/api/handlers"
	"fitbook/internal/api/middleware"
	"fitbook/internal/config"
	"fitbook/internal/infrastructure/cache"
	"fitbook/internal/infrastructure/queue"
	"fitbook/internal/infrastructure/repository"
	interfaces "fitbook/internal/interfaces/infrastructure"
	"fitbook/internal/service"
	"fitbook/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RouterComponents bundles the router with the long-lived services the
// server must shut down with it.
type RouterComponents struct {
	Router       *gin.Engine
	QueueService interfaces.QueueService
	CacheService interfaces.CacheService
}

// NewBookingRouter builds the full HTTP surface against the given database.
func NewBookingRouter(db *gorm.DB) *gin.Engine {
	return NewBookingRouterWithQueue(db).Router
}

// NewBookingRouterWithQueue wires repositories, cache, queue and services
// into a router and starts the background workers.
func NewBookingRouterWithQueue(db *gorm.DB) *RouterComponents {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(cors.Default())
	r.Use(gin.Recovery())

	cfg := config.Get()

	classRepo := repository.NewClassRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	var cacheService interfaces.CacheService
	var idempotencyRepo interfaces.IdempotencyRepository
	if cfg.Cache.Type == "redis" {
		redisCache := cache.NewRedisCacheWithConfig(&cfg.Cache)
		cacheService = redisCache
		idempotencyRepo = repository.NewRedisIdempotencyRepository(
			redisCache.Client(),
			time.Duration(cfg.Booking.IdempotencyTTLHours)*time.Hour,
		)
		logger.Info("Using Redis cache service")
	} else {
		cacheService = cache.NewMemoryCache()
		idempotencyRepo = repository.NewMemoryIdempotencyRepository()
		logger.Info("Using in-memory cache service")
	}

	var queueService interfaces.QueueService
	if cfg.Queue.Type == "redis" {
		queueService = queue.NewRedisQueue(&cfg.Cache, cfg.Queue.Workers)
		logger.Info("Using Redis queue service")
	} else {
		queueService = queue.NewInMemoryQueue(cfg.Queue.BufferSize, cfg.Queue.Workers)
		logger.Info("Using in-memory queue service")
	}

	bookingService := service.NewBookingService(
		classRepo,
		bookingRepo,
		cacheService,
		queueService,
		idempotencyRepo,
		service.NewLogEventSink(),
		time.Duration(cfg.Booking.StoreTimeoutSeconds)*time.Second,
	)
	classService := service.NewClassService(classRepo, bookingRepo, reviewRepo, cacheService)
	memberService := service.NewMemberService(memberRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	queueService.SetNotificationProcessor(notificationService)
	queueService.SetCacheRefresher(bookingService)
	queueService.StartWorkers()

	bookingHandler := handlers.NewBookingHandler(bookingService)
	classHandler := handlers.NewClassHandler(classService)
	memberHandler := handlers.NewMemberHandler(memberService)
	healthHandler := handlers.NewHealthHandler(db, cacheService)

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/ready", healthHandler.ReadinessCheck)
	r.GET("/live", healthHandler.LivenessCheck)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Idempotency())
	{
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.ListBookings)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.DELETE("/:id", bookingHandler.CancelBooking)
		}

		classes := v1.Group("/classes")
		{
			classes.POST("", classHandler.CreateClass)
			classes.GET("", classHandler.ListClasses)
			classes.GET("/upcoming", classHandler.ListUpcomingClasses)
			classes.GET("/:id", classHandler.GetClass)
			classes.PUT("/:id", classHandler.UpdateClass)
			classes.DELETE("/:id", classHandler.DeleteClass)
			classes.GET("/:id/participants", bookingHandler.GetClassParticipants)
			classes.GET("/:id/waitlist", bookingHandler.GetClassWaitlist)
			classes.POST("/:id/reviews", classHandler.AddReview)
			classes.GET("/:id/reviews", classHandler.ListReviews)
		}

		members := v1.Group("/members")
		{
			members.POST("", memberHandler.CreateMember)
			members.GET("", memberHandler.ListMembers)
			members.GET("/:member_id", memberHandler.GetMember)
			members.PUT("/:member_id", memberHandler.UpdateMember)
			members.DELETE("/:member_id", memberHandler.DeleteMember)
			members.GET("/email/:email", memberHandler.GetMemberByEmail)
			members.GET("/:member_id/bookings/upcoming", bookingHandler.GetUpcomingForMember)
			members.GET("/:member_id/bookings/past", bookingHandler.GetPastForMember)
		}
	}

	return &RouterComponents{
		Router:       r,
		QueueService: queueService,
		CacheService: cacheService,
	}
}
