package sequence

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/google/uuid"
	"github.com/tubetrade/backend/internal/domain/sequence"
	"github.com/tubetrade/backend/internal/domain/shared"
)

// ActionMintNumber is checked against the access-control collaborator
const ActionMintNumber = "sequence.mint"

// Service mints document numbers. Each call burns one counter value even if
// the caller later fails, so numbers are unique but not gap-free.
type Service struct {
	repo       sequence.Repository
	authorizer shared.Authorizer
	logger     *zap.Logger
	now        func() time.Time
	prefixes   map[sequence.DocumentType]string
}

// NewService creates a new sequence Service
func NewService(repo sequence.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		authorizer: shared.AllowAllAuthorizer{},
		logger:     logger,
		now:        time.Now,
	}
}

// SetAuthorizer attaches the access-control collaborator
func (s *Service) SetAuthorizer(authorizer shared.Authorizer) {
	if authorizer != nil {
		s.authorizer = authorizer
	}
}

// SetClock overrides the time source. Used by tests to pin the fiscal year.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SetPrefixOverrides replaces built-in number prefixes per document type,
// keyed by the document type name. Unknown keys are ignored.
func (s *Service) SetPrefixOverrides(overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}
	s.prefixes = make(map[sequence.DocumentType]string, len(overrides))
	for name, prefix := range overrides {
		// viper lowercases map keys read from config files
		docType := sequence.DocumentType(strings.ToUpper(name))
		if docType.IsValid() && prefix != "" {
			s.prefixes[docType] = prefix
		}
	}
}

func (s *Service) prefixFor(docType sequence.DocumentType) string {
	if prefix, ok := s.prefixes[docType]; ok {
		return prefix
	}
	return docType.Prefix()
}

// NextNumber mints the next document number for the type, keyed to the
// fiscal year of the current date.
func (s *Service) NextNumber(ctx context.Context, actorID uuid.UUID, docType sequence.DocumentType) (string, error) {
	if err := s.authorizer.Authorize(ctx, actorID, ActionMintNumber); err != nil {
		return "", err
	}
	if !docType.IsValid() {
		return "", shared.NewDomainError("VALIDATION_ERROR", "Unknown document type "+docType.String())
	}

	fiscalYear := sequence.FiscalYearKey(s.now())
	counter, err := s.repo.Next(ctx, docType, fiscalYear)
	if err != nil {
		return "", err
	}
	number := sequence.FormatNumberWithPrefix(s.prefixFor(docType), fiscalYear, counter)
	s.logger.Debug("document number minted",
		zap.String("document_type", docType.String()),
		zap.String("fiscal_year", fiscalYear),
		zap.String("number", number))
	return number, nil
}
