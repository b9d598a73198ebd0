package person

import (
	"context"
	"strings"

	"clinic-desk/core/charset"
	"clinic-desk/core/server"

	"go.uber.org/zap"
)

// Service handles person operations.
type Service struct {
	repo   *Repository
	logger *zap.Logger
}

// NewService creates a new person service.
func NewService(repo *Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Repository returns the underlying repository.
func (s *Service) Repository() *Repository {
	return s.repo
}

// List returns one page of persons.
func (s *Service) List(ctx context.Context, page, limit int) (*Page, error) {
	return s.repo.List(ctx, page, limit)
}

// Search finds persons by name and/or birth date.
func (s *Service) Search(ctx context.Context, name, birthdate string) ([]Person, error) {
	if strings.TrimSpace(name) == "" && birthdate == "" {
		return nil, server.BadRequest("name or birthdate is required")
	}
	return s.repo.Search(ctx, name, birthdate)
}

// Get returns one person.
func (s *Service) Get(ctx context.Context, pcode int64) (*Person, error) {
	return s.repo.Get(ctx, pcode)
}

// BySearchID returns the persons registered under a search id.
func (s *Service) BySearchID(ctx context.Context, searchID string) ([]Person, error) {
	return s.repo.BySearchID(ctx, searchID)
}

// Create registers a new person under the next free codes.
func (s *Service) Create(ctx context.Context, p *Person) (*Person, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, server.BadRequest("pname is required")
	}
	s.warnLossy(p.PCode, p.text())

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Person created", zap.Int64("pcode", created.PCode), zap.Int64("fcode", created.FCode))
	return created, nil
}

// Update changes the given fields of a person.
func (s *Service) Update(ctx context.Context, pcode int64, u Update) (*Person, error) {
	s.warnLossy(pcode, u.text())
	return s.repo.Update(ctx, pcode, u)
}

// Delete removes a person.
func (s *Service) Delete(ctx context.Context, pcode int64) error {
	return s.repo.Delete(ctx, pcode)
}

// LastCodes returns the last allocated codes.
func (s *Service) LastCodes(ctx context.Context) (*Codes, error) {
	return s.repo.LastCodes(ctx)
}

// warnLossy logs every opaque column whose text will not survive the EUC-KR
// round trip. Columns missing from fields or set to nil are skipped.
func (s *Service) warnLossy(pcode int64, fields map[string]*string) {
	for _, column := range charset.OpaqueColumns(charset.EntityPerson) {
		v := fields[column]
		if v == nil {
			continue
		}
		if _, err := charset.EncodeStrict(*v); err != nil {
			s.logger.Warn("Text degraded on encode",
				zap.Int64("pcode", pcode),
				zap.String("field", column),
				zap.Error(err),
			)
		}
	}
}
