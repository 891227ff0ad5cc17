package main

import (
	"log"

	api "meetsync-backend/cmd/api"
	authdomain "meetsync-backend/internal/auth/domain"
	authRepo "meetsync-backend/internal/auth/repository"
	authUsecase "meetsync-backend/internal/auth/usecase"
	bookingdomain "meetsync-backend/internal/booking/domain"
	bookingRepo "meetsync-backend/internal/booking/repository"
	bookingUsecase "meetsync-backend/internal/booking/usecase"
	magicdomain "meetsync-backend/internal/magiclink/domain"
	magicRepo "meetsync-backend/internal/magiclink/repository"
	magicUsecase "meetsync-backend/internal/magiclink/usecase"
	"meetsync-backend/internal/notification"
	notificationdomain "meetsync-backend/internal/notification/domain"
	notificationRepo "meetsync-backend/internal/notification/repository"
	rescheduledomain "meetsync-backend/internal/reschedule/domain"
	rescheduleRepo "meetsync-backend/internal/reschedule/repository"
	"meetsync-backend/internal/reschedule/scheduler"
	rescheduleUsecase "meetsync-backend/internal/reschedule/usecase"
	"meetsync-backend/pkg/config"
	"meetsync-backend/pkg/database"
	"meetsync-backend/pkg/mailer"
	"meetsync-backend/pkg/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&bookingdomain.Booking{},
		&magicdomain.MagicLink{},
		&rescheduledomain.Proposal{},
		&notificationdomain.SendRecord{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	bookingRepository := bookingRepo.NewBookingRepository(db)
	magicLinkRepository := magicRepo.NewMagicLinkRepository(db)
	proposalRepository := rescheduleRepo.NewProposalRepository(db)
	sendRecordRepository := notificationRepo.NewSendRecordRepository(db)

	// Initialize outbound email and the deduplicated dispatch service
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromEmail, cfg.FromName)
	notificationService := notification.NewService(sendRecordRepository, smtpMailer)

	// Initialize use cases (dependency injection)
	codec := token.NewCodec(cfg.MagicLinkSecret)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, cfg)
	bookingUsecaseInstance := bookingUsecase.NewBookingUsecase(bookingRepository, userRepository)
	magicLinkUsecaseInstance := magicUsecase.NewMagicLinkUsecase(magicLinkRepository, codec, cfg)
	contextBuilder := bookingUsecase.NewContextBuilder(userRepository)
	rescheduleUsecaseInstance := rescheduleUsecase.NewRescheduleUsecase(
		proposalRepository,
		bookingRepository,
		magicLinkUsecaseInstance,
		contextBuilder,
		notificationService,
	)

	// Start the proposal expirer
	expirer := scheduler.NewProposalExpirer(proposalRepository, cfg.ProposalTTL, cfg.ProposalSweepInterval)
	expirer.Start()
	defer expirer.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, bookingUsecaseInstance, rescheduleUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
