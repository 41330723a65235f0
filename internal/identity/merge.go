package identity

import (
	"context"
	"fmt"

	"github.com/launchline/concierge/internal/stage"
)

// MergeDuplicates finds customers who ended up with multiple records (the
// same email reached us under different phone numbers) and folds the newer
// rows into the oldest one. The survivor keeps its own non-empty values; only
// gaps are filled from the duplicates. Stage flags merge with OR semantics so
// progress is never lost. Returns how many duplicate rows were absorbed.
func (r *Resolver) MergeDuplicates(ctx context.Context) (int, error) {
	emails, err := r.store.DuplicateEmails(ctx)
	if err != nil {
		return 0, fmt.Errorf("scan duplicates: %w", err)
	}

	merged := 0
	for _, email := range emails {
		customers, err := r.store.ListByEmail(ctx, email)
		if err != nil {
			r.logger.Error("failed to load duplicate set", "email", email, "error", err)
			continue
		}
		if len(customers) < 2 {
			continue
		}

		survivor := customers[0]
		for _, dup := range customers[1:] {
			// Fill survivor gaps only: UpsertFields already ignores values
			// where the survivor has data.
			fill := make(map[string]string)
			for k, v := range dup.Fields {
				if _, have := survivor.Fields[k]; !have {
					fill[k] = v
				}
			}
			if len(fill) > 0 {
				if err := r.store.UpsertFields(ctx, survivor.Phone, email, fill); err != nil {
					r.logger.Error("failed to merge fields", "email", email, "error", err)
					continue
				}
			}

			for n := 1; n <= stage.Count; n++ {
				if dup.Completed[n-1] && !survivor.Completed[n-1] {
					if err := r.store.MarkCallCompleted(ctx, survivor.Phone, n); err != nil {
						r.logger.Error("failed to merge stage flag", "email", email, "stage", n, "error", err)
					}
				}
			}

			if err := r.store.Delete(ctx, dup.ID); err != nil {
				r.logger.Error("failed to delete duplicate", "email", email, "phone", dup.Phone, "error", err)
				continue
			}
			merged++
			r.logger.Info("merged duplicate customer",
				"email", email,
				"survivor", survivor.Phone,
				"absorbed", dup.Phone,
			)
		}
	}
	return merged, nil
}
