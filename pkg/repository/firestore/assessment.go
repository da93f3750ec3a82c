package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/grc-lab/periksa/pkg/domain/model"
	"github.com/grc-lab/periksa/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type assessmentDocument struct {
	ID                 string            `firestore:"id"`
	UserID             string            `firestore:"user_id"`
	Type               string            `firestore:"type"`
	ChoiceAnswers      map[string]int    `firestore:"choice_answers"`
	EssayAnswers       map[string]string `firestore:"essay_answers"`
	RiskScore          int               `firestore:"risk_score"`
	RiskLevel          string            `firestore:"risk_level"`
	ManualScored       bool              `firestore:"manual_scored"`
	Status             string            `firestore:"status"`
	ConsultantNotes    string            `firestore:"consultant_notes"`
	FinalReportContent string            `firestore:"final_report_content"`
	CreatedAt          time.Time         `firestore:"created_at"`
	UpdatedAt          time.Time         `firestore:"updated_at"`
}

func (d *assessmentDocument) toModel() *model.AssessmentRecord {
	record := &model.AssessmentRecord{
		ID:                 types.AssessmentID(d.ID),
		UserID:             types.UserID(d.UserID),
		Type:               types.AssessmentType(d.Type),
		Answers:            model.AnswerSet{Type: types.AssessmentType(d.Type)},
		RiskScore:          d.RiskScore,
		RiskLevel:          types.HealthLevel(d.RiskLevel),
		ManualScored:       d.ManualScored,
		Status:             types.AssessmentStatus(d.Status),
		ConsultantNotes:    d.ConsultantNotes,
		FinalReportContent: d.FinalReportContent,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if d.ChoiceAnswers != nil {
		record.Answers.Choices = make(map[types.QuestionID]int, len(d.ChoiceAnswers))
		for k, v := range d.ChoiceAnswers {
			record.Answers.Choices[types.QuestionID(k)] = v
		}
	}
	if d.EssayAnswers != nil {
		record.Answers.Essays = make(map[types.QuestionID]string, len(d.EssayAnswers))
		for k, v := range d.EssayAnswers {
			record.Answers.Essays[types.QuestionID(k)] = v
		}
	}
	return record
}

func fromAssessmentRecord(record *model.AssessmentRecord) *assessmentDocument {
	doc := &assessmentDocument{
		ID:                 record.ID.String(),
		UserID:             record.UserID.String(),
		Type:               record.Type.String(),
		RiskScore:          record.RiskScore,
		RiskLevel:          record.RiskLevel.String(),
		ManualScored:       record.ManualScored,
		Status:             record.Status.String(),
		ConsultantNotes:    record.ConsultantNotes,
		FinalReportContent: record.FinalReportContent,
		CreatedAt:          record.CreatedAt,
		UpdatedAt:          record.UpdatedAt,
	}
	if record.Answers.Choices != nil {
		doc.ChoiceAnswers = make(map[string]int, len(record.Answers.Choices))
		for k, v := range record.Answers.Choices {
			doc.ChoiceAnswers[k.String()] = v
		}
	}
	if record.Answers.Essays != nil {
		doc.EssayAnswers = make(map[string]string, len(record.Answers.Essays))
		for k, v := range record.Answers.Essays {
			doc.EssayAnswers[k.String()] = v
		}
	}
	return doc
}

type assessmentRepository struct {
	client           *firestore.Client
	quota            *quotaRepository
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client, quota *quotaRepository) *assessmentRepository {
	return &assessmentRepository{client: client, quota: quota}
}

func (r *assessmentRepository) assessmentsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_assessments"
	}
	return "assessments"
}

// Submit runs the quota compare-and-increment and the record creation in
// one Firestore transaction. Two concurrent submits racing for the last
// unit of quota serialize here: one commits, the other observes the
// incremented count and fails with model.ErrQuotaExhausted.
func (r *assessmentRepository) Submit(ctx context.Context, record *model.AssessmentRecord, defaultLimit *int) (*model.AssessmentRecord, error) {
	created := record.Clone()
	if created.ID == "" {
		created.ID = model.NewAssessmentID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	quotaRef := r.client.Collection(r.quota.quotasCollection()).Doc(r.quota.docID(record.UserID, record.Type))
	recordRef := r.client.Collection(r.assessmentsCollection()).Doc(created.ID.String())

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		quotaDoc := quotaDocument{
			UserID:    record.UserID.String(),
			Type:      record.Type.String(),
			Unlimited: defaultLimit == nil,
		}
		if defaultLimit != nil {
			quotaDoc.Limit = *defaultLimit
		}

		doc, err := tx.Get(quotaRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get quota counter")
		}
		if err == nil {
			if err := doc.DataTo(&quotaDoc); err != nil {
				return goerr.Wrap(err, "failed to unmarshal quota counter")
			}
		}

		if counter := quotaDoc.toModel(); counter.Exhausted() {
			return goerr.Wrap(model.ErrQuotaExhausted, "no quota remaining",
				goerr.V("userID", record.UserID),
				goerr.V("type", record.Type),
				goerr.V("count", counter.Count))
		}

		quotaDoc.Count++
		if err := tx.Set(quotaRef, &quotaDoc); err != nil {
			return goerr.Wrap(err, "failed to update quota counter")
		}

		return tx.Set(recordRef, fromAssessmentRecord(created))
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id types.AssessmentID) (*model.AssessmentRecord, error) {
	docRef := r.client.Collection(r.assessmentsCollection()).Doc(id.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrAssessmentNotFound, "assessment record not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment record", goerr.V("id", id))
	}

	var recordDoc assessmentDocument
	if err := doc.DataTo(&recordDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment record", goerr.V("id", id))
	}

	return recordDoc.toModel(), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.AssessmentRecord, error) {
	iter := r.client.Collection(r.assessmentsCollection()).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	return collectRecords(iter)
}

func (r *assessmentRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.AssessmentRecord, error) {
	iter := r.client.Collection(r.assessmentsCollection()).
		Where("user_id", "==", userID.String()).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	return collectRecords(iter)
}

func collectRecords(iter *firestore.DocumentIterator) ([]*model.AssessmentRecord, error) {
	defer iter.Stop()

	var records []*model.AssessmentRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessment records")
		}

		var recordDoc assessmentDocument
		if err := doc.DataTo(&recordDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment record")
		}

		records = append(records, recordDoc.toModel())
	}

	return records, nil
}

func (r *assessmentRepository) Update(ctx context.Context, record *model.AssessmentRecord) (*model.AssessmentRecord, error) {
	docRef := r.client.Collection(r.assessmentsCollection()).Doc(record.ID.String())

	existing, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrAssessmentNotFound, "assessment record not found", goerr.V("id", record.ID))
		}
		return nil, goerr.Wrap(err, "failed to get assessment record", goerr.V("id", record.ID))
	}

	var existingDoc assessmentDocument
	if err := existing.DataTo(&existingDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment record", goerr.V("id", record.ID))
	}

	doc := fromAssessmentRecord(record)
	doc.CreatedAt = existingDoc.CreatedAt
	doc.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment record", goerr.V("id", record.ID))
	}

	return doc.toModel(), nil
}
