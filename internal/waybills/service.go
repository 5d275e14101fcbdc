package waybills

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Service provides the mutation path for waybills outside the import
// pipeline. Every mutation is guarded by the optimistic version token.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, tenantID string, id int64) (Waybill, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID string, filters ListFilters) ([]Waybill, int, error) {
	return s.repo.List(ctx, tenantID, filters)
}

// Update applies a partial field update. The presented version token must
// match the stored one; divergent versions are never merged.
func (s *Service) Update(ctx context.Context, tenantID string, id int64, req UpdateWaybillRequest) (Waybill, error) {
	presented, err := uuid.Parse(req.Version)
	if err != nil {
		return Waybill{}, fmt.Errorf("invalid version token: %w", err)
	}

	current, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return Waybill{}, err
	}
	if current.Version != presented {
		return Waybill{}, &VersionConflictError{Presented: presented, Current: current.Version}
	}

	updated := current
	if req.WaybillDate != nil {
		updated.WaybillDate = *req.WaybillDate
	}
	if req.DeliveryDate != nil {
		updated.DeliveryDate = *req.DeliveryDate
	}
	if req.ProductCode != nil {
		updated.ProductCode = *req.ProductCode
	}
	if req.ProductName != nil {
		updated.ProductName = *req.ProductName
	}
	if req.Quantity != nil {
		updated.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		updated.Unit = *req.Unit
	}
	if req.UnitPrice != nil {
		updated.UnitPrice = *req.UnitPrice
	}
	if req.TotalAmount != nil {
		updated.TotalAmount = *req.TotalAmount
	}
	if req.Currency != nil {
		updated.Currency = *req.Currency
	}
	if req.VehicleNumber != nil {
		updated.VehicleNumber = req.VehicleNumber
	}
	if req.DriverName != nil {
		updated.DriverName = req.DriverName
	}
	if req.Notes != nil {
		updated.Notes = req.Notes
	}
	if updated.DeliveryDate.Before(updated.WaybillDate) {
		return Waybill{}, errors.New("delivery date must not precede waybill date")
	}
	if req.Status != nil {
		target, err := ParseStatus(*req.Status)
		if err != nil {
			return Waybill{}, err
		}
		if target != current.Status {
			if !current.Status.CanTransitionTo(target) {
				return Waybill{}, &TransitionError{From: current.Status, To: target}
			}
			updated.Status = target
		}
	}

	return s.repo.UpdateWithVersion(ctx, updated, presented)
}

// ChangeStatus moves the waybill along the status graph, version-guarded like
// any other mutation.
func (s *Service) ChangeStatus(ctx context.Context, tenantID string, id int64, target Status, version string) (Waybill, error) {
	presented, err := uuid.Parse(version)
	if err != nil {
		return Waybill{}, fmt.Errorf("invalid version token: %w", err)
	}
	if !target.IsValid() {
		return Waybill{}, fmt.Errorf("unknown status %d", int(target))
	}

	current, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return Waybill{}, err
	}
	if current.Version != presented {
		return Waybill{}, &VersionConflictError{Presented: presented, Current: current.Version}
	}
	if !current.Status.CanTransitionTo(target) {
		return Waybill{}, &TransitionError{From: current.Status, To: target}
	}

	updated := current
	updated.Status = target
	return s.repo.UpdateWithVersion(ctx, updated, presented)
}
