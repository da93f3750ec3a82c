package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/grc-lab/periksa/pkg/domain/interfaces"
)

type Firestore struct {
	client     *firestore.Client
	riskItem   *riskItemRepository
	assessment *assessmentRepository
	quota      *quotaRepository
	question   *questionRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, used to isolate test
// runs against a shared project
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.riskItem.collectionPrefix = prefix
		f.assessment.collectionPrefix = prefix
		f.quota.collectionPrefix = prefix
		f.question.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	quotaRepo := newQuotaRepository(client)

	f := &Firestore{
		client:     client,
		riskItem:   newRiskItemRepository(client),
		assessment: newAssessmentRepository(client, quotaRepo),
		quota:      quotaRepo,
		question:   newQuestionRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) RiskItem() interfaces.RiskItemRepository {
	return f.riskItem
}

func (f *Firestore) Assessment() interfaces.AssessmentRepository {
	return f.assessment
}

func (f *Firestore) Quota() interfaces.QuotaRepository {
	return f.quota
}

func (f *Firestore) Question() interfaces.QuestionRepository {
	return f.question
}

func (f *Firestore) Close() error {
	if err := f.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}
