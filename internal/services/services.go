// Package services holds the order lifecycle, order item, customization and analytics operations.
// Every exported method returns an *apperror.Error on failure.
package services

import (
	"context"
	"errors"
	"time"

	"kalban_greenbag/internal/apperror"
	"kalban_greenbag/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OrderCodeGenerator hands out unused human-facing order codes.
type OrderCodeGenerator interface {
	NextOrderCode(ctx context.Context) (int64, error)
}

const (
	msgOrderNotFound         = "Order not found"
	msgOrderItemNotFound     = "Order item not found"
	msgUserNotFound          = "User not found"
	msgMaterialNotFound      = "Material not found"
	msgProductNotFound       = "Product not found"
	msgOptionNotFound        = "Customization option not found"
	msgCustomizationNotFound = "Product customization not found"
)

// notFound turns a repository miss into a NotFound carrying the domain message.
func notFound(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return err
}

func clockOrDefault(clock func() time.Time) func() time.Time {
	if clock == nil {
		return time.Now
	}
	return clock
}

func idGeneratorOrDefault(gen func() uuid.UUID) func() uuid.UUID {
	if gen == nil {
		return uuid.New
	}
	return gen
}

func loggerOrDefault(log *logrus.Logger) *logrus.Logger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}
