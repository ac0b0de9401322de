package intro

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/matchmaker/ai"
	"github.com/poiesic/matchmaker/core"
	"github.com/poiesic/matchmaker/storage"
)

const (
	// DefaultRosterLimit is the most active members offered as intro targets.
	DefaultRosterLimit = 5

	// DefaultRosterWindow is how recently a member must have been active.
	DefaultRosterWindow = 7 * 24 * time.Hour

	// DefaultSafetyThreshold is the toxicity above which an intro is discarded.
	DefaultSafetyThreshold = 0.75

	// MaxSentences bounds the length of a posted introduction.
	MaxSentences = 3
)

// Request identifies the soulmate match being introduced.
type Request struct {
	Task         *core.TaskRecord
	CommunityID  string
	SanitizedBio string
}

// Outcome reports the side effects committed for a request.
type Outcome struct {
	Joined          bool // The membership was created by this call
	IntroGenerated  bool
	IntroDowngraded bool
	RosterEmpty     bool
	SafetyScore     *float64
	MessageID       string
}

// Generator auto-joins soulmate matches and posts an introduction that
// names recently active members of the community.
//
// Every side effect is guarded twice: by a step marker on the task record,
// and by store-level idempotency (membership key, deterministic message id).
// Re-running a request after a crash therefore never joins or posts twice.
type Generator struct {
	tasks           storage.TaskRepository
	communities     storage.CommunityRepository
	memberships     storage.MembershipRepository
	activity        storage.ActivityLog
	composer        ai.Composer
	scorer          ai.SafetyScorer
	rosterLimit     int
	rosterWindow    time.Duration
	safetyThreshold float64
	now             func() time.Time
	logger          *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger.With("component", "intro")
		return nil
	}
}

// WithRoster sets the roster size and activity window.
func WithRoster(limit int, window time.Duration) Option {
	return func(g *Generator) error {
		if limit <= 0 || window <= 0 {
			return fmt.Errorf("invalid roster: limit %d, window %s", limit, window)
		}
		g.rosterLimit = limit
		g.rosterWindow = window
		return nil
	}
}

// WithSafetyThreshold sets the toxicity score above which intros are discarded.
func WithSafetyThreshold(threshold float64) Option {
	return func(g *Generator) error {
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("safety threshold %v outside [0, 1]", threshold)
		}
		g.safetyThreshold = threshold
		return nil
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) error {
		g.now = now
		return nil
	}
}

// NewGenerator creates a new introduction generator.
func NewGenerator(
	tasks storage.TaskRepository,
	communities storage.CommunityRepository,
	memberships storage.MembershipRepository,
	activity storage.ActivityLog,
	composer ai.Composer,
	scorer ai.SafetyScorer,
	opts ...Option,
) (*Generator, error) {
	switch {
	case tasks == nil:
		return nil, ErrTaskRepositoryRequired
	case communities == nil:
		return nil, ErrCommunityRepositoryRequired
	case memberships == nil:
		return nil, ErrMembershipRepositoryRequired
	case activity == nil:
		return nil, ErrActivityLogRequired
	case composer == nil:
		return nil, ErrComposerRequired
	case scorer == nil:
		return nil, ErrSafetyScorerRequired
	}

	g := &Generator{
		tasks:           tasks,
		communities:     communities,
		memberships:     memberships,
		activity:        activity,
		composer:        composer,
		scorer:          scorer,
		rosterLimit:     DefaultRosterLimit,
		rosterWindow:    DefaultRosterWindow,
		safetyThreshold: DefaultSafetyThreshold,
		now:             time.Now,
		logger:          slog.Default().With("component", "intro"),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Run joins the user to the community and then introduces them.
// The join is committed before the introduction is attempted and is kept
// even when the introduction fails.
func (g *Generator) Run(ctx context.Context, req Request) (*Outcome, error) {
	joined, err := g.AutoJoin(ctx, req)
	if err != nil {
		return nil, err
	}
	outcome, err := g.Introduce(ctx, req)
	if err != nil {
		return nil, err
	}
	outcome.Joined = joined
	return outcome, nil
}

// AutoJoin adds the membership and records the auto_join step.
// It reports whether this call created the membership.
func (g *Generator) AutoJoin(ctx context.Context, req Request) (bool, error) {
	task := req.Task
	if task.StepDone(core.StepAutoJoin) {
		return false, nil
	}

	created, err := g.memberships.Join(ctx, &core.Membership{
		CommunityID: req.CommunityID,
		UserID:      task.UserID,
		JoinedAt:    g.now().UTC(),
		AutoJoined:  true,
		TaskID:      task.ID,
	})
	if err != nil {
		g.logger.Error("auto-join failed", "task_id", task.ID, "community_id", req.CommunityID, "err", err)
		return false, core.Unavailable(core.KindRelationalStore, err)
	}
	if err := g.markStep(ctx, task, core.StepAutoJoin); err != nil {
		return created, err
	}
	g.logger.Info("auto-joined", "task_id", task.ID, "user_id", task.UserID, "community_id", req.CommunityID, "created", created)
	return created, nil
}

// Introduce composes, scores and posts the introduction.
// A toxic draft is discarded and reported as a downgrade, not an error.
func (g *Generator) Introduce(ctx context.Context, req Request) (*Outcome, error) {
	task := req.Task
	switch {
	case task.StepDone(core.StepIntroPosted):
		return &Outcome{IntroGenerated: true, MessageID: MessageID(task.ID)}, nil
	case task.StepDone(core.StepIntroDowngraded):
		return &Outcome{IntroDowngraded: true}, nil
	}

	community, err := g.communities.GetCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, core.Unavailable(core.KindRelationalStore, fmt.Errorf("community %s: %w", req.CommunityID, err))
	}

	roster, err := g.roster(ctx, req.CommunityID, task.UserID)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{RosterEmpty: len(roster) == 0}

	text, err := g.compose(ctx, community, req.SanitizedBio, roster)
	if err != nil {
		return nil, err
	}

	score, err := g.scorer.SafetyScore(ctx, text)
	if err != nil {
		g.logger.Error("safety scoring failed", "task_id", task.ID, "err", err)
		return nil, core.Unavailable(core.KindLanguageModel, err)
	}
	outcome.SafetyScore = &score

	if score > g.safetyThreshold {
		g.logger.Warn("discarding introduction", "task_id", task.ID, "score", score, "threshold", g.safetyThreshold,
			"err", core.ErrSafetyRejected)
		if err := g.markStep(ctx, task, core.StepIntroDowngraded); err != nil {
			return nil, err
		}
		outcome.IntroDowngraded = true
		return outcome, nil
	}

	msg := &core.Message{
		ID:          MessageID(task.ID),
		CommunityID: req.CommunityID,
		AuthorID:    task.UserID,
		Kind:        core.MessageKindIntroduction,
		Text:        text,
		Mentions:    roster,
		CreatedAt:   g.now().UTC(),
	}
	created, err := g.activity.AppendMessage(ctx, msg)
	if err != nil {
		g.logger.Error("posting introduction failed", "task_id", task.ID, "err", err)
		return nil, core.Unavailable(core.KindActivityLog, err)
	}
	if err := g.markStep(ctx, task, core.StepIntroPosted); err != nil {
		return nil, err
	}
	g.logger.Info("introduction posted", "task_id", task.ID, "community_id", req.CommunityID,
		"mentions", len(roster), "created", created)

	outcome.IntroGenerated = true
	outcome.MessageID = msg.ID
	return outcome, nil
}

// roster returns up to rosterLimit members active within the window,
// excluding the new member.
func (g *Generator) roster(ctx context.Context, communityID, userID string) ([]string, error) {
	since := g.now().Add(-g.rosterWindow)
	// One extra in case the new member is among the most recent.
	active, err := g.activity.RecentlyActive(ctx, communityID, since, g.rosterLimit+1)
	if err != nil {
		g.logger.Error("roster lookup failed", "community_id", communityID, "err", err)
		return nil, core.Unavailable(core.KindActivityLog, err)
	}
	roster := make([]string, 0, g.rosterLimit)
	for _, m := range active {
		if m.UserID == userID {
			continue
		}
		roster = append(roster, m.UserID)
		if len(roster) == g.rosterLimit {
			break
		}
	}
	return roster, nil
}

func (g *Generator) compose(ctx context.Context, community *core.Community, bio string, roster []string) (string, error) {
	docs := make([]string, 0, len(roster)+2)
	docs = append(docs, fmt.Sprintf("Community: %s. %s", community.Name, community.Description))
	docs = append(docs, "New member: "+bio)
	for _, member := range roster {
		docs = append(docs, Mention(member)+" is an active member")
	}

	prompt := fmt.Sprintf("Write a welcome of at most %d sentences introducing the new member to the %s community.", MaxSentences, community.Name)
	if len(roster) > 0 {
		prompt += " Suggest they connect with at least one of the active members, using their @handle."
	}

	text, err := g.composer.Compose(ctx, prompt, docs)
	if err != nil {
		return "", core.Unavailable(core.KindLanguageModel, err)
	}
	text = ai.LimitSentences(text, MaxSentences)
	if strings.TrimSpace(text) == "" {
		return "", core.Unavailable(core.KindLanguageModel, ai.ErrEmptyResponse)
	}
	return ensureMention(text, roster), nil
}

// ensureMention makes sure a non-empty roster is mentioned at least once.
// The handle is folded into the last sentence so the sentence count holds.
func ensureMention(text string, roster []string) string {
	if len(roster) == 0 {
		return text
	}
	for _, member := range roster {
		if mentions(text, member) {
			return text
		}
	}
	text = strings.TrimRight(strings.TrimSpace(text), ".!? ")
	return text + ", say hi to " + Mention(roster[0]) + "!"
}

// mentions reports whether text contains the handle of userID as a whole word.
func mentions(text, userID string) bool {
	handle := Mention(userID)
	for rest := text; ; {
		i := strings.Index(rest, handle)
		if i < 0 {
			return false
		}
		rest = rest[i+len(handle):]
		if rest == "" {
			return true
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return true
		}
	}
}

func (g *Generator) markStep(ctx context.Context, task *core.TaskRecord, step string) error {
	if err := g.tasks.MarkTaskStep(ctx, task.ID, step); err != nil {
		g.logger.Error("failed to record step", "task_id", task.ID, "step", step, "err", err)
		return core.Unavailable(core.KindRelationalStore, err)
	}
	if task.Steps == nil {
		task.Steps = make(map[string]time.Time)
	}
	task.Steps[step] = g.now().UTC()
	return nil
}

// MessageID is the deterministic id of the introduction posted for a task.
func MessageID(id core.TaskID) string {
	return "intro:" + string(id)
}

// Mention formats a member handle.
func Mention(userID string) string {
	return "@" + userID
}
