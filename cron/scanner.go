package cron

import (
	"context"
	"time"

	"soothe/services/booking"

	"go.uber.org/zap"
)

// scanInterval is the cadence of the pending-booking scanner.
const scanInterval = time.Minute

// StartBookingScanner runs the pending-booking sweep on a fixed cadence
// until ctx is cancelled. Each sweep confirms every pending booking whose
// scheduled end has passed.
func StartBookingScanner(ctx context.Context, svc *booking.BookingService) {
	go func() {
		ticker := time.NewTicker(scanInterval)
		defer ticker.Stop()

		zap.L().Info("Booking scanner started", zap.Duration("interval", scanInterval))
		for {
			select {
			case <-ctx.Done():
				zap.L().Info("Booking scanner stopped")
				return
			case <-ticker.C:
				if err := svc.Sweep(ctx, time.Now()); err != nil {
					zap.L().Error("Booking sweep failed", zap.Error(err))
				}
			}
		}
	}()
}
