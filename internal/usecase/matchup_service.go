package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-matchup/internal/domain/matchup"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/jsonnode"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/logging"
)

const userTeamsPath = "/users;use_login=1/games/teams"

type MatchupService struct {
	provider ProviderFetcher
	recorder ResultRecorder
	logger   *logging.Logger
}

func NewMatchupService(provider ProviderFetcher, recorder ResultRecorder, logger *logging.Logger) *MatchupService {
	if logger == nil {
		logger = logging.Default()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &MatchupService{
		provider: provider,
		recorder: recorder,
		logger:   logger,
	}
}

// NextMatchup finds the caller's next head-to-head pairing. It resolves the
// first team listed across the caller's games, reads the league's current
// week and scans that week plus the following three, stopping at the first
// week that schedules the team.
func (s *MatchupService) NextMatchup(ctx context.Context, accessToken string) (matchup.Matchup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchupService.NextMatchup")
	defer span.End()

	team, err := s.resolveTeam(ctx, accessToken)
	if err != nil {
		s.recordLookup(err)
		return matchup.Matchup{}, err
	}

	currentWeek, err := s.currentWeek(ctx, accessToken, team.LeagueKey)
	if err != nil {
		s.recordLookup(err)
		return matchup.Matchup{}, err
	}

	for week := currentWeek; week < currentWeek+matchup.LookaheadWeeks; week++ {
		found, ok, err := s.findInWeek(ctx, accessToken, team, week)
		if err != nil {
			s.recordLookup(err)
			return matchup.Matchup{}, err
		}
		if ok {
			s.recorder.ObserveMatchupLookup("found")
			return found, nil
		}
	}

	s.logger.InfoContext(ctx, "no upcoming matchup in lookahead window",
		"league_key", team.LeagueKey,
		"team_key", team.TeamKey,
		"current_week", currentWeek,
	)
	s.recordLookup(matchup.ErrNoUpcomingMatchup)
	return matchup.Matchup{}, matchup.ErrNoUpcomingMatchup
}

func (s *MatchupService) resolveTeam(ctx context.Context, accessToken string) (matchup.TeamIdentity, error) {
	doc, err := s.provider.Fetch(ctx, accessToken, userTeamsPath)
	if err != nil {
		return matchup.TeamIdentity{}, fmt.Errorf("fetch user teams: %w", err)
	}

	team, ok := firstTeam(doc)
	if !ok {
		return matchup.TeamIdentity{}, matchup.ErrNoTeam
	}
	return team, nil
}

func (s *MatchupService) currentWeek(ctx context.Context, accessToken, leagueKey string) (int, error) {
	doc, err := s.provider.Fetch(ctx, accessToken, "/league/"+leagueKey+"/scoreboard")
	if err != nil {
		return 0, fmt.Errorf("fetch scoreboard league_key=%s: %w", leagueKey, err)
	}

	head := doc.Field("fantasy_content").Field("league").Index(0)
	raw := head.Field("league").Named("current_week")
	if raw.IsNull() {
		raw = head.Field("current_week")
	}
	if raw.IsNull() {
		return 1, nil
	}

	week, ok := raw.Int()
	if !ok {
		return 0, fmt.Errorf("%w: current_week %q is not a number", matchup.ErrNoUpcomingMatchup, raw.String())
	}
	if week < 1 {
		week = 1
	}
	return week, nil
}

func (s *MatchupService) findInWeek(ctx context.Context, accessToken string, team matchup.TeamIdentity, week int) (matchup.Matchup, bool, error) {
	path := fmt.Sprintf("/league/%s/scoreboard;week=%d", team.LeagueKey, week)
	doc, err := s.provider.Fetch(ctx, accessToken, path)
	if err != nil {
		return matchup.Matchup{}, false, fmt.Errorf("fetch scoreboard week=%d: %w", week, err)
	}

	pairings := doc.Field("fantasy_content").Field("league").Index(1).
		Field("scoreboard").Index(0).
		Field("matchups").Index(0).
		Field("matchup")

	for _, m := range pairings.Items() {
		slots := m.Index(0).Field("teams").Index(0).Field("team")
		first, second := slots.Index(0), slots.Index(1)
		firstKey := first.Named("team_key").String()
		secondKey := second.Named("team_key").String()

		var you, opponent jsonnode.Node
		switch team.TeamKey {
		case firstKey:
			you, opponent = first, second
		case secondKey:
			you, opponent = second, first
		default:
			continue
		}

		return matchup.Matchup{
			Week:      week,
			You:       you.Named("name").String(),
			Opponent:  opponent.Named("name").String(),
			WeekStart: m.Named("week_start").String(),
			WeekEnd:   m.Named("week_end").String(),
			TeamName:  team.TeamName,
			TeamKey:   team.TeamKey,
			LeagueKey: team.LeagueKey,
		}, true, nil
	}

	return matchup.Matchup{}, false, nil
}

func (s *MatchupService) recordLookup(err error) {
	switch {
	case errors.Is(err, matchup.ErrNoTeam):
		s.recorder.ObserveMatchupLookup("no_team")
	case errors.Is(err, matchup.ErrNoUpcomingMatchup):
		s.recorder.ObserveMatchupLookup("no_upcoming_matchup")
	default:
		s.recorder.ObserveMatchupLookup("failed")
	}
}

// firstTeam walks users[0].user[1].games[0].game and returns the first team
// with a non-empty key. A team without a league key is reported as absent.
func firstTeam(doc jsonnode.Node) (matchup.TeamIdentity, bool) {
	games := doc.Field("fantasy_content").Field("users").Index(0).
		Field("user").Index(1).
		Field("games").Index(0).
		Field("game")

	for _, game := range games.Items() {
		teams := game.Index(1).Field("teams").Index(0).Field("team")
		for _, t := range teams.Items() {
			key := teamField(t, "team_key")
			if key == "" {
				continue
			}

			identity := matchup.TeamIdentity{
				TeamKey:   key,
				LeagueKey: teamField(t, "league_key"),
				TeamName:  teamField(t, "name"),
			}
			return identity, identity.LeagueKey != ""
		}
	}

	return matchup.TeamIdentity{}, false
}

// teamField prefers a direct field on the team's first element, then a
// name/value pair, then Yahoo's list of single-key objects.
func teamField(t jsonnode.Node, key string) string {
	return strings.TrimSpace(jsonnode.FirstString(
		t.Index(0).Field(key),
		t.Named(key),
		t.Index(0).Keyed(key),
	))
}

type noopRecorder struct{}

func (noopRecorder) ObserveTokenExchange(string) {}
func (noopRecorder) ObserveMatchupLookup(string) {}
