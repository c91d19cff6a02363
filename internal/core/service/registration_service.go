package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/tawargy/sqliteserver/internal/core/domain"
	"github.com/tawargy/sqliteserver/internal/core/ports"
	"github.com/tawargy/sqliteserver/internal/pkg/metrics"
)

type registrationService struct {
	extractor *RegistrationExtractor
	exec      ports.QueryExecutor
	log       zerolog.Logger
}

// NewRegistrationService returns the POST /users pipeline.
func NewRegistrationService(exec ports.QueryExecutor, log zerolog.Logger) ports.RegistrationService {
	return &registrationService{
		extractor: NewRegistrationExtractor(exec),
		exec:      exec,
		log:       log.With().Str("component", "registration").Logger(),
	}
}

// Register parses, validates and persists one registration. Rejected input
// never reaches the insert.
func (s *registrationService) Register(ctx context.Context, body []byte) domain.Response {
	// 1. Parse.
	if !gjson.ValidBytes(body) {
		return s.rejected(rejectInvalidJSON)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return s.rejected(rejectInvalidJSON)
	}

	// 2. Validate.
	outcome, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		return s.failed("validate", err)
	}
	if rej, ok := outcome.Rejection(); ok {
		return s.rejected(rej)
	}
	req, _ := outcome.Request()

	// 3. Persist. A concurrent registration may have won the race since the
	// probe; the store reports it as a conflict or a no-op insert.
	out, err := s.exec.InsertUser(ctx, req)
	switch {
	case errors.Is(err, domain.ErrUserExists), errors.Is(err, domain.ErrNoEffect):
		return s.rejected(rejectUserExists)
	case err != nil:
		return s.failed("insert", err)
	}

	// 4. Respond.
	created := domain.CreatedUser{Username: req.Username, Role: req.Role}
	if len(out.Rows) > 0 {
		created.ID, _ = out.Rows[0].Int64("id")
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("username", req.Username).Int64("id", created.ID).Msg("user registered")
	return domain.Success("User created", created)
}

func (s *registrationService) rejected(rej domain.Rejection) domain.Response {
	metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
	s.log.Debug().
		Str("kind", rej.Kind.String()).
		Str("reason", rej.Detail).
		Msg("registration rejected")
	return rej.Response()
}

func (s *registrationService) failed(stage string, err error) domain.Response {
	metrics.RegistrationsTotal.WithLabelValues("failed").Inc()
	s.log.Error().Err(err).Str("stage", stage).Msg("registration failed")
	return failureResponse(err)
}
