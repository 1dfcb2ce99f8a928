package services

import (
	"time"

	"kalban_greenbag/internal/apperror"
	"kalban_greenbag/internal/models"
	"kalban_greenbag/internal/repository"
)

func ApplyOrderItemPatch(item *models.OrderItem, req UpdateOrderItemRequest) {
	if req.MaterialID != nil {
		item.MaterialID = *req.MaterialID
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}
}

// ApplyCustomizationPatch copies every non-nil field of req onto c.
// A reason may only accompany a REJECTED status; leaving REJECTED clears it.
// A supplied total price replaces the stored one as is.
func ApplyCustomizationPatch(c *models.ProductCustomization, req UpdateProductCustomizationRequest) error {
	status := c.Status
	if req.Status != nil {
		if !models.IsCustomizationStatus(*req.Status) {
			return apperror.Validation("Invalid customization status: " + *req.Status)
		}
		status = *req.Status
	}
	rejected := status == string(models.CustomizationRejected)
	if req.Reason != nil && !rejected {
		return apperror.Validation("Reason can only be set on a rejected customization")
	}
	if req.TotalPrice != nil && req.TotalPrice.IsNegative() {
		return apperror.Validation("Total price must not be negative")
	}

	if req.ProductID != nil {
		c.ProductID = *req.ProductID
	}
	if req.OptionID != nil {
		c.OptionID = *req.OptionID
	}
	if req.UserID != nil {
		c.UserID = *req.UserID
	}
	if req.ImageURL != nil {
		c.ImageURL = *req.ImageURL
	}
	if req.CustomValue != nil {
		c.CustomValue = *req.CustomValue
	}
	if req.TotalPrice != nil {
		c.TotalPrice = *req.TotalPrice
	}
	c.Status = status

	switch {
	case !rejected:
		c.Reason = nil
	case req.Reason != nil:
		reason := *req.Reason
		c.Reason = &reason
	}
	return nil
}

// customizationChanges lists the columns req touches, taking values from the already patched c.
// The reason column is written only when req carries a status or a reason.
func customizationChanges(c *models.ProductCustomization, req UpdateProductCustomizationRequest, actor string, at time.Time) repository.CustomizationChanges {
	changes := repository.CustomizationChanges{
		ProductID:   req.ProductID,
		OptionID:    req.OptionID,
		UserID:      req.UserID,
		ImageURL:    req.ImageURL,
		CustomValue: req.CustomValue,
		TotalPrice:  req.TotalPrice,
		ModifiedBy:  actor,
		UpdatedAt:   at,
	}
	if req.Status != nil {
		status := c.Status
		changes.Status = &status
	}
	if req.Status != nil || req.Reason != nil {
		if c.Reason == nil {
			changes.ClearReason = true
		} else {
			reason := *c.Reason
			changes.Reason = &reason
		}
	}
	return changes
}
