package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/chatlens/internal/application"
	"github.com/bryanwahyu/chatlens/internal/domain/analysiserrors"
	"github.com/bryanwahyu/chatlens/internal/domain/chat"
)

// Phases recorded with internal errors.
const (
	PhaseText   = "analyze_text"
	PhaseLegacy = "analyze_legacy"
)

// ErrSourceNotConfigured is returned by AnalyzeLegacy when no pre-loaded
// export is available.
var ErrSourceNotConfigured = errors.New("legacy chat source not configured")

// ErrSinkNotConfigured is returned by RecentErrors without an error sink.
var ErrSinkNotConfigured = errors.New("error log not configured")

// Service runs the analysis pipeline. It holds only read-only settings and
// optional collaborators, so one Service is shared by all requests.
type Service struct {
	Settings chat.Settings
	Source   chat.Source               // optional, legacy endpoint
	Errors   analysiserrors.Repository // optional, internal error sink
	Clock    application.Clock
	Logger   *slog.Logger
}

// Analyze validates, parses and aggregates raw export text.
//
// Errors: chat.ErrValidation for empty input, chat.ErrParse when no message
// can be recovered, chat.ErrInternal for anything unexpected.
func (s *Service) Analyze(ctx context.Context, text string) (*chat.AnalysisResult, error) {
	return s.analyze(ctx, PhaseText, text)
}

// AnalyzeLegacy analyzes the configured pre-loaded export.
func (s *Service) AnalyzeLegacy(ctx context.Context) (*chat.AnalysisResult, error) {
	if s.Source == nil {
		return nil, ErrSourceNotConfigured
	}
	text, err := s.Source.Load(ctx)
	if err != nil {
		return nil, s.internal(ctx, PhaseLegacy, 0, fmt.Errorf("load %s: %w", s.Source.Name(), err))
	}
	return s.analyze(ctx, PhaseLegacy, text)
}

func (s *Service) analyze(ctx context.Context, phase, text string) (res *chat.AnalysisResult, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, chat.NewValidationError(chat.MsgEmptyText)
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = s.internal(ctx, phase, len(text), fmt.Errorf("panic: %v", r))
		}
	}()

	start := s.now()
	msgs, stats, err := chat.Parse(text)
	if err != nil {
		s.logger().Info("no messages recognized",
			"phase", phase,
			"request_id", application.RequestID(ctx),
			"lines", stats.Lines,
			"discarded", stats.Discarded)
		return nil, err
	}

	res = Build(msgs, s.Settings)

	s.logger().Info("analysis done",
		"phase", phase,
		"request_id", application.RequestID(ctx),
		"messages", stats.Messages,
		"continuations", stats.Continuations,
		"malformed", stats.Malformed,
		"participants", len(res.Participation),
		"score", res.InterestScore,
		"duration", s.now().Sub(start))
	return res, nil
}

// RecentErrors lists the newest recorded internal failures.
func (s *Service) RecentErrors(ctx context.Context, limit int) ([]*analysiserrors.Record, error) {
	if s.Errors == nil {
		return nil, ErrSinkNotConfigured
	}
	list, err := s.Errors.Latest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list analysis errors: %w", err)
	}
	if list == nil {
		list = []*analysiserrors.Record{}
	}
	return list, nil
}

// Build assembles the result from parsed messages. Aggregators degrade to
// empty or zeroed values on empty input.
func Build(msgs []chat.RawMessage, st chat.Settings) *chat.AnalysisResult {
	participation := chat.AggregateParticipation(msgs)
	keywords := chat.ExtractKeywords(msgs, st.Stopwords, st.MinKeywordLength, st.KeywordTopN)
	slots := chat.AggregateHours(msgs, st.ExcludeMalformedHours)
	insight := chat.Score(msgs, participation, keywords, slots, st)

	return &chat.AnalysisResult{
		TotalMessages:    len(msgs),
		Participation:    participation,
		Keywords:         keywords,
		TimeDistribution: slots,
		InterestScore:    insight.InterestScore,
		InterestLabel:    insight.InterestLabel,
		Topic:            insight.Topic,
		Summary:          insight.Summary,
	}
}

// internal logs cause, records it when a sink is configured and returns
// the generic internal error.
func (s *Service) internal(ctx context.Context, phase string, inputBytes int, cause error) error {
	reqID := application.RequestID(ctx)
	s.logger().Error("analysis failed",
		"phase", phase,
		"request_id", reqID,
		"input_bytes", inputBytes,
		"error", cause)

	if s.Errors != nil {
		rec := &analysiserrors.Record{
			ID:         uuid.NewString(),
			RequestID:  reqID,
			Phase:      phase,
			Message:    cause.Error(),
			InputBytes: inputBytes,
			CreatedAt:  s.now(),
		}
		// recorded even when the request context is already canceled
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		defer cancel()
		if err := s.Errors.Save(saveCtx, rec); err != nil {
			s.logger().Warn("failed to record analysis error", "id", rec.ID, "error", err)
		}
	}
	return chat.NewInternalError(cause)
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
