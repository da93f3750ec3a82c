package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type riskItemDocument struct {
	ID                 int64     `firestore:"id"`
	Name               string    `firestore:"name"`
	Description        string    `firestore:"description"`
	RiskType           string    `firestore:"risk_type"`
	Owner              string    `firestore:"owner"`
	InherentLikelihood int       `firestore:"inherent_likelihood"`
	InherentImpact     int       `firestore:"inherent_impact"`
	ResidualLikelihood int       `firestore:"residual_likelihood"`
	ResidualImpact     int       `firestore:"residual_impact"`
	CreatedAt          time.Time `firestore:"created_at"`
	UpdatedAt          time.Time `firestore:"updated_at"`
}

func (d *riskItemDocument) toModel() *model.RiskItem {
	return &model.RiskItem{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		RiskType:    d.RiskType,
		Owner:       types.UserID(d.Owner),
		Inherent:    model.ScoredPair{Likelihood: d.InherentLikelihood, Impact: d.InherentImpact},
		Residual:    model.ScoredPair{Likelihood: d.ResidualLikelihood, Impact: d.ResidualImpact},
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func fromRiskItem(item *model.RiskItem) *riskItemDocument {
	return &riskItemDocument{
		ID:                 item.ID,
		Name:               item.Name,
		Description:        item.Description,
		RiskType:           item.RiskType,
		Owner:              item.Owner.String(),
		InherentLikelihood: item.Inherent.Likelihood,
		InherentImpact:     item.Inherent.Impact,
		ResidualLikelihood: item.Residual.Likelihood,
		ResidualImpact:     item.Residual.Impact,
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
}

type riskItemRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskItemRepository(client *firestore.Client) *riskItemRepository {
	return &riskItemRepository{client: client}
}

func (r *riskItemRepository) itemsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_risk_items"
	}
	return "risk_items"
}

func (r *riskItemRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *riskItemRepository) getNextID(ctx context.Context) (int64, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc("risk_item_counter")

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		nextID = currentValue.(int64) + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return nextID, nil
}

func (r *riskItemRepository) Create(ctx context.Context, item *model.RiskItem) (*model.RiskItem, error) {
	id, err := r.getNextID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := fromRiskItem(item)
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now

	docRef := r.client.Collection(r.itemsCollection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk item")
	}

	return doc.toModel(), nil
}

func (r *riskItemRepository) Get(ctx context.Context, id int64) (*model.RiskItem, error) {
	docRef := r.client.Collection(r.itemsCollection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrRiskNotFound, "risk item not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk item", goerr.V("id", id))
	}

	var itemDoc riskItemDocument
	if err := doc.DataTo(&itemDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk item", goerr.V("id", id))
	}

	return itemDoc.toModel(), nil
}

func (r *riskItemRepository) List(ctx context.Context) ([]*model.RiskItem, error) {
	iter := r.client.Collection(r.itemsCollection()).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var items []*model.RiskItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risk items")
		}

		var itemDoc riskItemDocument
		if err := doc.DataTo(&itemDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk item")
		}

		items = append(items, itemDoc.toModel())
	}

	return items, nil
}

func (r *riskItemRepository) Update(ctx context.Context, item *model.RiskItem) (*model.RiskItem, error) {
	docRef := r.client.Collection(r.itemsCollection()).Doc(fmt.Sprintf("%d", item.ID))

	existing, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrRiskNotFound, "risk item not found", goerr.V("id", item.ID))
		}
		return nil, goerr.Wrap(err, "failed to get risk item", goerr.V("id", item.ID))
	}

	var existingDoc riskItemDocument
	if err := existing.DataTo(&existingDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk item", goerr.V("id", item.ID))
	}

	doc := fromRiskItem(item)
	doc.CreatedAt = existingDoc.CreatedAt
	doc.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update risk item", goerr.V("id", item.ID))
	}

	return doc.toModel(), nil
}

func (r *riskItemRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.itemsCollection()).Doc(fmt.Sprintf("%d", id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrRiskNotFound, "risk item not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get risk item", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete risk item", goerr.V("id", id))
	}

	return nil
}
