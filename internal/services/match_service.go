// Package services – MatchService
//
// MatchService ranks active study groups for a student. The ranking itself is
// deterministic (internal/match scoring plus a stable sort); an AI pass may
// enhance the human-readable fields of the result afterwards, but any AI
// failure is logged and swallowed so that matching always succeeds when the
// deterministic pipeline does.
package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-study-backend/internal/ai"
	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/match"
)

// maxMatches caps how many ranked groups a single request returns.
const maxMatches = 10

// GroupLister supplies the candidate groups to rank. *GroupService satisfies
// it; tests substitute a fake.
type GroupLister interface {
	// ListActive returns all active groups with subject and member
	// associations loaded.
	ListActive(ctx context.Context) ([]domain.StudyGroup, error)
}

// MatchRequest carries the student's stated preferences for one ranking run.
type MatchRequest struct {
	Subjects       []string
	Topics         []string
	PreferredTimes []string
	StudyPace      string
	MeetingType    string
}

// MatchService ranks study groups against student preferences.
type MatchService struct {
	// Groups supplies the candidate groups.
	Groups GroupLister
	// AI optionally enhances match explanations. Nil disables enhancement.
	AI ai.Client
}

// NewMatchService constructs a MatchService.
func NewMatchService(groups GroupLister, client ai.Client) *MatchService {
	return &MatchService{Groups: groups, AI: client}
}

// Rank scores every active group against the request, sorts descending by
// score (stable, so equal scores keep listing order), optionally lets the AI
// rewrite reasons and meeting-time suggestions, and returns at most ten
// matches. No candidates yields an empty slice and no error.
func (s *MatchService) Rank(ctx context.Context, req MatchRequest) ([]ai.GroupMatch, error) {
	tr := otel.Tracer("services/MatchService")
	ctx, span := tr.Start(ctx, "Rank",
		trace.WithAttributes(
			attribute.Int("subjects", len(req.Subjects)),
			attribute.Int("topics", len(req.Topics)),
		),
	)
	defer span.End()

	groups, err := s.Groups.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return []ai.GroupMatch{}, nil
	}

	student := match.PreferenceSet{
		Subjects: req.Subjects,
		Topics:   req.Topics,
		Times:    req.PreferredTimes,
	}

	matches := make([]ai.GroupMatch, 0, len(groups))
	for _, g := range groups {
		matches = append(matches, s.evaluate(student, g))
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	s.enhance(ctx, req, matches)

	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}
	return matches, nil
}

// evaluate computes the deterministic match record for one group.
func (s *MatchService) evaluate(student match.PreferenceSet, g domain.StudyGroup) ai.GroupMatch {
	var groupSubjects []string
	if g.Subject != nil {
		groupSubjects = []string{g.Subject.Name}
	}
	var groupTopics []string
	if g.Topic != "" {
		groupTopics = []string{g.Topic}
	}

	group := match.PreferenceSet{
		Subjects: groupSubjects,
		Topics:   groupTopics,
		Times:    g.PreferredTimeSlots,
	}

	size := len(g.Members)
	spots := g.MaxMembers - size
	if spots < 0 {
		spots = 0
	}
	best := "To be decided"
	if len(g.PreferredTimeSlots) > 0 {
		best = g.PreferredTimeSlots[0]
	}

	return ai.GroupMatch{
		GroupID:         g.ID,
		MatchScore:      match.Score(student, group),
		Reason:          fmt.Sprintf("Matches %d subjects, %d topics", len(groupSubjects), len(groupTopics)),
		BestMeetingTime: best,
		CommonSubjects:  match.CommonSubjects(student.Subjects, groupSubjects),
		GroupSize:       size,
		AvailableSpots:  spots,
	}
}

// enhance asks the AI to suggest better reasons and meeting times, merging
// non-empty suggestions into the computed matches by group id. Scores and
// ordering are never touched. Every failure path increments the fallback
// counter and leaves the computed matches as they are.
func (s *MatchService) enhance(ctx context.Context, req MatchRequest, matches []ai.GroupMatch) {
	if s.AI == nil {
		return
	}
	prompt := ai.MatchGroupsPrompt(ai.MatchPreferences{
		Subjects:       req.Subjects,
		Topics:         req.Topics,
		PreferredTimes: req.PreferredTimes,
		StudyPace:      orDefault(req.StudyPace, "moderate"),
		MeetingType:    orDefault(req.MeetingType, domain.MeetingVirtual),
	})
	raw, err := s.AI.Complete(ctx, prompt)
	if err != nil {
		aiMatchFallbacks.Inc()
		log.Warn().Err(err).Msg("group match enhancement failed, using computed ranking")
		return
	}
	var suggestions []ai.GroupMatch
	if err := ai.ParseJSON(raw, &suggestions); err != nil {
		aiMatchFallbacks.Inc()
		log.Warn().Err(err).Msg("group match enhancement unparseable, using computed ranking")
		return
	}

	byID := make(map[string]ai.GroupMatch, len(suggestions))
	for _, sg := range suggestions {
		byID[sg.GroupID] = sg
	}
	for i := range matches {
		sg, ok := byID[matches[i].GroupID]
		if !ok {
			continue
		}
		if sg.Reason != "" {
			matches[i].Reason = sg.Reason
		}
		if sg.BestMeetingTime != "" {
			matches[i].BestMeetingTime = sg.BestMeetingTime
		}
	}
}

// orDefault returns s, or def when s is blank.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
