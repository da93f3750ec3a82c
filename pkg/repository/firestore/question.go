package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type answerOptionDocument struct {
	Label  string `firestore:"label"`
	Points int    `firestore:"points"`
}

type questionDocument struct {
	ID       string                 `firestore:"id"`
	Category string                 `firestore:"category"`
	Text     string                 `firestore:"text"`
	Options  []answerOptionDocument `firestore:"options"`
}

type questionSetDocument struct {
	Type      string             `firestore:"type"`
	Questions []questionDocument `firestore:"questions"`
	UpdatedAt time.Time          `firestore:"updated_at"`
}

func (d *questionSetDocument) toModel() *model.QuestionSet {
	set := &model.QuestionSet{
		Type:      types.AssessmentType(d.Type),
		Questions: make([]*model.Question, 0, len(d.Questions)),
	}
	for _, q := range d.Questions {
		question := &model.Question{
			ID:       types.QuestionID(q.ID),
			Category: types.DimensionName(q.Category),
			Text:     q.Text,
		}
		for _, opt := range q.Options {
			question.Options = append(question.Options, model.AnswerOption{Label: opt.Label, Points: opt.Points})
		}
		set.Questions = append(set.Questions, question)
	}
	return set
}

func fromQuestionSet(set *model.QuestionSet) *questionSetDocument {
	doc := &questionSetDocument{
		Type:      set.Type.String(),
		Questions: make([]questionDocument, 0, len(set.Questions)),
		UpdatedAt: time.Now().UTC(),
	}
	for _, q := range set.Questions {
		question := questionDocument{
			ID:       q.ID.String(),
			Category: q.Category.String(),
			Text:     q.Text,
		}
		for _, opt := range q.Options {
			question.Options = append(question.Options, answerOptionDocument{Label: opt.Label, Points: opt.Points})
		}
		doc.Questions = append(doc.Questions, question)
	}
	return doc
}

type questionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newQuestionRepository(client *firestore.Client) *questionRepository {
	return &questionRepository{client: client}
}

func (r *questionRepository) questionsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_question_sets"
	}
	return "question_sets"
}

func (r *questionRepository) PutActive(ctx context.Context, set *model.QuestionSet) error {
	docRef := r.client.Collection(r.questionsCollection()).Doc(set.Type.String())
	if _, err := docRef.Set(ctx, fromQuestionSet(set)); err != nil {
		return goerr.Wrap(err, "failed to store question set", goerr.V("type", set.Type))
	}
	return nil
}

func (r *questionRepository) GetActive(ctx context.Context, assessmentType types.AssessmentType) (*model.QuestionSet, error) {
	docRef := r.client.Collection(r.questionsCollection()).Doc(assessmentType.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrQuestionSetNotFound, "no active question set", goerr.V("type", assessmentType))
		}
		return nil, goerr.Wrap(err, "failed to get question set", goerr.V("type", assessmentType))
	}

	var setDoc questionSetDocument
	if err := doc.DataTo(&setDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal question set", goerr.V("type", assessmentType))
	}

	return setDoc.toModel(), nil
}
