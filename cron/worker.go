package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"soothe/config"
	bookingRepo "soothe/database/repository/booking"
	catalogRepo "soothe/database/repository/catalog"
	userRepo "soothe/database/repository/user"
	"soothe/services/notify"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitNotifyWorker runs the async notification worker in background.
func InitNotifyWorker(bookings bookingRepo.BookingRepository, services catalogRepo.ServiceRepository, users userRepo.UserRepository, telegram *notify.TelegramService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notify.TypeBookingNotify, handleBookingNotify(bookings, services, users, telegram))

	// Start async worker with retry logic.
	go func() {
		log.Println("[NotifyWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotifyWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotifyWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleBookingNotify resolves the booking into a therapist chat message.
// A therapist without a linked chat is not an error; the task is dropped.
func handleBookingNotify(bookings bookingRepo.BookingRepository, services catalogRepo.ServiceRepository, users userRepo.UserRepository, telegram *notify.TelegramService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p notify.BookingNotifyPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			zap.L().Error("Invalid notify payload", zap.Error(err))
			return err
		}

		booking, err := bookings.GetByID(ctx, p.BookingID)
		if err != nil {
			zap.L().Warn("Notify task references unknown booking",
				zap.String("bookingID", p.BookingID), zap.Error(err))
			return err
		}

		therapist, err := users.GetByID(ctx, booking.TherapistID)
		if err != nil {
			zap.L().Warn("Notify task references unknown therapist",
				zap.String("therapistID", booking.TherapistID), zap.Error(err))
			return err
		}
		if therapist.TelegramChatID == "" {
			zap.L().Info("Therapist has no linked telegram chat, skipping notification",
				zap.String("therapistID", therapist.ID))
			return nil
		}

		serviceName := "service"
		if svc, err := services.GetByID(ctx, booking.ServiceID); err == nil {
			serviceName = svc.Title.Get("en")
		}

		info := notify.BookingInfo{
			Service:    serviceName,
			ClientName: booking.FirstName + " " + booking.LastName,
			Date:       booking.Date,
			Time:       booking.TimeSlot,
			Address:    booking.Address,
			Duration:   booking.Duration,
		}
		if err := telegram.NotifyTherapist(ctx, therapist.TelegramChatID, info); err != nil {
			zap.L().Warn("Failed to send telegram notification",
				zap.String("bookingID", booking.ID), zap.Error(err))
			return err
		}

		zap.L().Info("Telegram notification sent",
			zap.String("bookingID", booking.ID),
			zap.String("therapistID", therapist.ID))
		return nil
	}
}
