package cart

import (
	"context"

	"github.com/google/uuid"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
)

// BulkEntry is one (user, product, variant, quantity) tuple in a bulk add.
type BulkEntry struct {
	UserID    uuid.UUID  `json:"user_id"`
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity"`
}

// BulkResult reports the outcome for one entry. Entries fail independently;
// a batch never aborts part-way.
type BulkResult struct {
	UserID    uuid.UUID  `json:"user_id"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Success   bool       `json:"success"`
	ErrorCode string     `json:"error_code,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// BulkAdd runs the add-item contract for each entry, accumulating per-entry
// outcomes.
func (s *service) BulkAdd(ctx context.Context, entries []BulkEntry) []BulkResult {
	results := make([]BulkResult, 0, len(entries))
	for _, entry := range entries {
		productID := entry.ProductID
		result := BulkResult{
			UserID:    entry.UserID,
			ProductID: &productID,
		}

		err := s.AddItem(ctx, entry.UserID, AddItemInput{
			ProductID: entry.ProductID,
			VariantID: entry.VariantID,
			Quantity:  entry.Quantity,
		})
		if err != nil {
			result.Error = err.Error()
			result.ErrorCode = string(pkgerrors.CodeInternal)
			if typed := pkgerrors.As(err); typed != nil {
				result.ErrorCode = string(typed.Code())
				result.Error = typed.Message()
			}
		} else {
			result.Success = true
		}
		results = append(results, result)
	}
	return results
}

// BulkClear empties the cart for each listed user.
func (s *service) BulkClear(ctx context.Context, userIDs []uuid.UUID) []BulkResult {
	results := make([]BulkResult, 0, len(userIDs))
	for _, userID := range userIDs {
		result := BulkResult{UserID: userID}
		if err := s.ClearCart(ctx, userID); err != nil {
			result.Error = err.Error()
			result.ErrorCode = string(pkgerrors.CodeInternal)
			if typed := pkgerrors.As(err); typed != nil {
				result.ErrorCode = string(typed.Code())
				result.Error = typed.Message()
			}
		} else {
			result.Success = true
		}
		results = append(results, result)
	}
	return results
}
