package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type quotaDocument struct {
	UserID    string `firestore:"user_id"`
	Type      string `firestore:"type"`
	Count     int    `firestore:"count"`
	Limit     int    `firestore:"limit"`
	Unlimited bool   `firestore:"unlimited"`
}

func (d *quotaDocument) toModel() *model.QuotaCounter {
	counter := &model.QuotaCounter{
		UserID: types.UserID(d.UserID),
		Type:   types.AssessmentType(d.Type),
		Count:  d.Count,
	}
	if !d.Unlimited {
		limit := d.Limit
		counter.Limit = &limit
	}
	return counter
}

type quotaRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newQuotaRepository(client *firestore.Client) *quotaRepository {
	return &quotaRepository{client: client}
}

func (r *quotaRepository) quotasCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_quotas"
	}
	return "quotas"
}

func (r *quotaRepository) docID(userID types.UserID, assessmentType types.AssessmentType) string {
	return fmt.Sprintf("%s:%s", userID, assessmentType)
}

func (r *quotaRepository) Get(ctx context.Context, userID types.UserID, assessmentType types.AssessmentType) (*model.QuotaCounter, error) {
	docRef := r.client.Collection(r.quotasCollection()).Doc(r.docID(userID, assessmentType))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrQuotaNotFound, "quota counter not found",
				goerr.V("userID", userID), goerr.V("type", assessmentType))
		}
		return nil, goerr.Wrap(err, "failed to get quota counter", goerr.V("userID", userID))
	}

	var quotaDoc quotaDocument
	if err := doc.DataTo(&quotaDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal quota counter", goerr.V("userID", userID))
	}

	return quotaDoc.toModel(), nil
}

func (r *quotaRepository) List(ctx context.Context, userID types.UserID) ([]*model.QuotaCounter, error) {
	iter := r.client.Collection(r.quotasCollection()).
		Where("user_id", "==", userID.String()).
		Documents(ctx)
	defer iter.Stop()

	var counters []*model.QuotaCounter
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate quota counters")
		}

		var quotaDoc quotaDocument
		if err := doc.DataTo(&quotaDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal quota counter")
		}

		counters = append(counters, quotaDoc.toModel())
	}

	return counters, nil
}

func (r *quotaRepository) SetLimit(ctx context.Context, userID types.UserID, assessmentType types.AssessmentType, limit *int) (*model.QuotaCounter, error) {
	if limit != nil && *limit < 0 {
		return nil, goerr.New("quota limit cannot be negative", goerr.V("limit", *limit))
	}

	docRef := r.client.Collection(r.quotasCollection()).Doc(r.docID(userID, assessmentType))

	var updated quotaDocument
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get quota counter")
		}

		quotaDoc := quotaDocument{
			UserID: userID.String(),
			Type:   assessmentType.String(),
		}
		if err == nil {
			if err := doc.DataTo(&quotaDoc); err != nil {
				return goerr.Wrap(err, "failed to unmarshal quota counter")
			}
		}

		// The limit change never touches the count.
		if limit != nil {
			quotaDoc.Limit = *limit
			quotaDoc.Unlimited = false
		} else {
			quotaDoc.Limit = 0
			quotaDoc.Unlimited = true
		}

		updated = quotaDoc
		return tx.Set(docRef, &quotaDoc)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to set quota limit",
			goerr.V("userID", userID), goerr.V("type", assessmentType))
	}

	return updated.toModel(), nil
}
