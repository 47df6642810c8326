package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

// IReconciliationHandler reconciles one provider resource against the ledger.
//
// Handle runs the whole unit of work and returns the side effects of the
// committed transition. Effects are empty when the notification was already
// processed or did not change anything.
type IReconciliationHandler interface {
	Handle(ctx context.Context, resourceID string) (entities.Effects, error)
}

func begin(ctx context.Context, ledger interfaces.ILedger, op string) (interfaces.IUnitOfWork, error) {
	uow, err := ledger.Begin(ctx)
	if err != nil {
		return nil, apperrors.Persistence(op, "begin unit of work", err)
	}
	return uow, nil
}

func commit(ctx context.Context, uow interfaces.IUnitOfWork, op string) error {
	if err := uow.Commit(ctx); err != nil {
		return apperrors.Persistence(op, "commit", err)
	}
	return nil
}

// storeErr classifies a ledger failure. Lock waits cut short by the job
// deadline are persistence failures too, so the job is retried.
func storeErr(op, msg string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperrors.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperrors.Persistence(op, msg, err)
}

// gatewayErr keeps classified gateway errors and wraps the rest as ExternalAPI.
func gatewayErr(op, msg string, err error) error {
	var ae *apperrors.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperrors.ExternalAPI(op, msg, err)
}

func requireResourceID(op, resourceID string) (string, error) {
	id := strings.TrimSpace(resourceID)
	if id == "" {
		return "", apperrors.InvalidPayload(op, "empty resource id")
	}
	return id, nil
}

func parseProviderID(op, resourceID string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(resourceID), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidPayload(op, "resource id is not a provider numeric id: "+strconv.Quote(resourceID))
	}
	return id, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
