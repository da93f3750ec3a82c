package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	RiskItem() RiskItemRepository
	Assessment() AssessmentRepository
	Quota() QuotaRepository
	Question() QuestionRepository

	// Close releases backend resources
	Close() error
}
