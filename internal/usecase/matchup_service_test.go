package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/riskibarqy/fantasy-matchup/internal/domain/matchup"
	usecasemock "github.com/riskibarqy/fantasy-matchup/internal/mocks/usecase"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/jsonnode"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type recorderStub struct {
	mu        sync.Mutex
	exchanges []string
	lookups   []string
}

func (r *recorderStub) ObserveTokenExchange(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges = append(r.exchanges, outcome)
}

func (r *recorderStub) ObserveMatchupLookup(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups = append(r.lookups, result)
}

func mustNode(t *testing.T, raw string) jsonnode.Node {
	t.Helper()
	node, err := jsonnode.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return node
}

func userTeamsFixture(teams ...string) string {
	return fmt.Sprintf(`{"fantasy_content":{"users":[{"user":[{"guid":"G1"},{"games":[{"game":[
		[{"game_key":"nfl"},{"teams":[{"team":[%s]}]}]
	]}]}]}]}}`, strings.Join(teams, ","))
}

// namedTeam uses the name/value pair layout.
func namedTeam(key, leagueKey, name string) string {
	return fmt.Sprintf(`[[{"name":"team_key","value":%q}],[{"name":"league_key","value":%q}],[{"name":"name","value":%q}]]`, key, leagueKey, name)
}

// keyedTeam uses Yahoo's list of single-key objects.
func keyedTeam(key, leagueKey, name string) string {
	return fmt.Sprintf(`[[{"team_key":%q},{"team_id":"3"},{"name":%q},{"league_key":%q}]]`, key, name, leagueKey)
}

func currentWeekFixture(week string) string {
	return fmt.Sprintf(`{"fantasy_content":{"league":[{"league":[[{"name":"current_week","value":%s}]]}]}}`, week)
}

func pairing(firstKey, firstName, secondKey, secondName string) string {
	return fmt.Sprintf(`[
		{"teams":[{"team":[
			[[{"name":"team_key","value":%q}],[{"name":"name","value":%q}]],
			[[{"name":"team_key","value":%q}],[{"name":"name","value":%q}]]
		]}]},
		[{"name":"week_start","value":"2025-10-20"}],
		[{"name":"week_end","value":"2025-10-26"}]
	]`, firstKey, firstName, secondKey, secondName)
}

func weekFixture(pairings ...string) string {
	return fmt.Sprintf(`{"fantasy_content":{"league":[{"league_key":"nfl.l.1"},{"scoreboard":[{"matchups":[{"matchup":[%s]}]}]}]}}`,
		strings.Join(pairings, ","))
}

func newMatchupServiceForTest(t *testing.T) (*MatchupService, *usecasemock.ProviderFetcher, *recorderStub) {
	t.Helper()
	provider := usecasemock.NewProviderFetcher(t)
	recorder := &recorderStub{}
	return NewMatchupService(provider, recorder, logging.NewNop()), provider, recorder
}

func TestMatchupService_NextMatchup_SecondSlotInLaterWeek(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, provider, recorder := newMatchupServiceForTest(t)

	provider.On("Fetch", mock.Anything, "T", userTeamsPath).
		Return(mustNode(t, userTeamsFixture(namedTeam("nfl.l.1.t.3", "nfl.l.1", "Mine"))), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.1/scoreboard").
		Return(mustNode(t, currentWeekFixture(`"5"`)), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.1/scoreboard;week=5").
		Return(mustNode(t, weekFixture(pairing("nfl.l.1.t.1", "One", "nfl.l.1.t.2", "Two"))), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.1/scoreboard;week=6").
		Return(mustNode(t, weekFixture()), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.1/scoreboard;week=7").
		Return(mustNode(t, weekFixture(
			pairing("nfl.l.1.t.4", "Four", "nfl.l.1.t.5", "Five"),
			pairing("nfl.l.1.t.9", "Rival", "nfl.l.1.t.3", "Mine"),
		)), nil).Once()

	got, err := service.NextMatchup(ctx, "T")
	if err != nil {
		t.Fatalf("next matchup: %v", err)
	}

	want := matchup.Matchup{
		Week:      7,
		You:       "Mine",
		Opponent:  "Rival",
		WeekStart: "2025-10-20",
		WeekEnd:   "2025-10-26",
		TeamName:  "Mine",
		TeamKey:   "nfl.l.1.t.3",
		LeagueKey: "nfl.l.1",
	}
	if got != want {
		t.Fatalf("unexpected matchup: got=%+v want=%+v", got, want)
	}
	provider.AssertNumberOfCalls(t, "Fetch", 5)
	if len(recorder.lookups) != 1 || recorder.lookups[0] != "found" {
		t.Fatalf("unexpected lookup outcomes: %v", recorder.lookups)
	}
}

func TestMatchupService_NextMatchup_FirstSlotCurrentWeek(t *testing.T) {
	t.Parallel()

	service, provider, _ := newMatchupServiceForTest(t)

	provider.On("Fetch", mock.Anything, "T", userTeamsPath).
		Return(mustNode(t, userTeamsFixture(keyedTeam("nfl.l.8.t.1", "nfl.l.8", "Keyed"))), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.8/scoreboard").
		Return(mustNode(t, currentWeekFixture(`2`)), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.8/scoreboard;week=2").
		Return(mustNode(t, weekFixture(pairing("nfl.l.8.t.1", "Keyed", "nfl.l.8.t.2", "Other"))), nil).Once()

	got, err := service.NextMatchup(context.Background(), "T")
	if err != nil {
		t.Fatalf("next matchup: %v", err)
	}
	if got.Week != 2 || got.You != "Keyed" || got.Opponent != "Other" {
		t.Fatalf("unexpected matchup: %+v", got)
	}
	if got.TeamName != "Keyed" || got.LeagueKey != "nfl.l.8" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestMatchupService_NextMatchup_NoTeamSkipsScoreboard(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no games":        `{"fantasy_content":{"users":[{"user":[{"guid":"G1"},{"games":[{"game":[]}]}]}]}}`,
		"no users":        `{"fantasy_content":{}}`,
		"teams empty":     userTeamsFixture(),
		"no league key":   userTeamsFixture(`[{"team_key":"nfl.l.1.t.1","name":"Orphan"}]`),
		"blank team keys": userTeamsFixture(`[{"team_key":"  "}]`),
	}

	for name, fixture := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			service, provider, recorder := newMatchupServiceForTest(t)
			provider.On("Fetch", mock.Anything, "T", userTeamsPath).
				Return(mustNode(t, fixture), nil).Once()

			_, err := service.NextMatchup(context.Background(), "T")
			if !errors.Is(err, matchup.ErrNoTeam) {
				t.Fatalf("expected ErrNoTeam, got %v", err)
			}
			provider.AssertNumberOfCalls(t, "Fetch", 1)
			if len(recorder.lookups) != 1 || recorder.lookups[0] != "no_team" {
				t.Fatalf("unexpected lookup outcomes: %v", recorder.lookups)
			}
		})
	}
}

func TestMatchupService_NextMatchup_FirstTeamWins(t *testing.T) {
	t.Parallel()

	service, provider, _ := newMatchupServiceForTest(t)

	provider.On("Fetch", mock.Anything, "T", userTeamsPath).
		Return(mustNode(t, userTeamsFixture(
			namedTeam("", "nfl.l.0", "Blank"),
			namedTeam("nfl.l.2.t.1", "nfl.l.2", "First"),
			namedTeam("nfl.l.3.t.1", "nfl.l.3", "Second"),
		)), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.2/scoreboard").
		Return(mustNode(t, currentWeekFixture(`"1"`)), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.2/scoreboard;week=1").
		Return(mustNode(t, weekFixture(pairing("nfl.l.2.t.1", "First", "nfl.l.2.t.2", "Foe"))), nil).Once()

	got, err := service.NextMatchup(context.Background(), "T")
	if err != nil {
		t.Fatalf("next matchup: %v", err)
	}
	if got.LeagueKey != "nfl.l.2" || got.Opponent != "Foe" {
		t.Fatalf("unexpected matchup: %+v", got)
	}
}

func TestMatchupService_NextMatchup_NoUpcomingAfterFourWeeks(t *testing.T) {
	t.Parallel()

	service, provider, recorder := newMatchupServiceForTest(t)

	provider.On("Fetch", mock.Anything, "T", userTeamsPath).
		Return(mustNode(t, userTeamsFixture(namedTeam("nfl.l.1.t.3", "nfl.l.1", "Mine"))), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.1/scoreboard").
		Return(mustNode(t, currentWeekFixture(`"10"`)), nil).Once()
	for week := 10; week <= 13; week++ {
		provider.On("Fetch", mock.Anything, "T", fmt.Sprintf("/league/nfl.l.1/scoreboard;week=%d", week)).
			Return(mustNode(t, weekFixture(pairing("nfl.l.1.t.1", "One", "nfl.l.1.t.2", "Two"))), nil).Once()
	}

	_, err := service.NextMatchup(context.Background(), "T")
	if !errors.Is(err, matchup.ErrNoUpcomingMatchup) {
		t.Fatalf("expected ErrNoUpcomingMatchup, got %v", err)
	}
	provider.AssertNumberOfCalls(t, "Fetch", 6)
	if len(recorder.lookups) != 1 || recorder.lookups[0] != "no_upcoming_matchup" {
		t.Fatalf("unexpected lookup outcomes: %v", recorder.lookups)
	}
}

func TestMatchupService_NextMatchup_CurrentWeekFallbacks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		scoreboard string
		wantWeek   int
	}{
		{name: "missing defaults to one", scoreboard: `{"fantasy_content":{"league":[{"league":[]}]}}`, wantWeek: 1},
		{name: "direct field", scoreboard: `{"fantasy_content":{"league":[{"current_week":3}]}}`, wantWeek: 3},
		{name: "zero clamps to one", scoreboard: currentWeekFixture(`"0"`), wantWeek: 1},
		{name: "leading digits", scoreboard: currentWeekFixture(`"4th"`), wantWeek: 4},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service, provider, _ := newMatchupServiceForTest(t)
			provider.On("Fetch", mock.Anything, "T", userTeamsPath).
				Return(mustNode(t, userTeamsFixture(namedTeam("nfl.l.1.t.3", "nfl.l.1", "Mine"))), nil).Once()
			provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.1/scoreboard").
				Return(mustNode(t, tc.scoreboard), nil).Once()
			provider.On("Fetch", mock.Anything, "T", fmt.Sprintf("/league/nfl.l.1/scoreboard;week=%d", tc.wantWeek)).
				Return(mustNode(t, weekFixture(pairing("nfl.l.1.t.3", "Mine", "nfl.l.1.t.4", "Four"))), nil).Once()

			got, err := service.NextMatchup(context.Background(), "T")
			if err != nil {
				t.Fatalf("next matchup: %v", err)
			}
			if got.Week != tc.wantWeek {
				t.Fatalf("unexpected week: got=%d want=%d", got.Week, tc.wantWeek)
			}
		})
	}
}

func TestMatchupService_NextMatchup_UnparseableWeek(t *testing.T) {
	t.Parallel()

	service, provider, _ := newMatchupServiceForTest(t)
	provider.On("Fetch", mock.Anything, "T", userTeamsPath).
		Return(mustNode(t, userTeamsFixture(namedTeam("nfl.l.1.t.3", "nfl.l.1", "Mine"))), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.1/scoreboard").
		Return(mustNode(t, currentWeekFixture(`"preseason"`)), nil).Once()

	_, err := service.NextMatchup(context.Background(), "T")
	if !errors.Is(err, matchup.ErrNoUpcomingMatchup) {
		t.Fatalf("expected ErrNoUpcomingMatchup, got %v", err)
	}
	provider.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestMatchupService_NextMatchup_ProviderFailureStopsChain(t *testing.T) {
	t.Parallel()

	service, provider, recorder := newMatchupServiceForTest(t)
	upstream := errors.New("upstream 503")

	provider.On("Fetch", mock.Anything, "T", userTeamsPath).
		Return(mustNode(t, userTeamsFixture(namedTeam("nfl.l.1.t.3", "nfl.l.1", "Mine"))), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.1/scoreboard").
		Return(mustNode(t, currentWeekFixture(`"2"`)), nil).Once()
	provider.On("Fetch", mock.Anything, "T", "/league/nfl.l.1/scoreboard;week=2").
		Return(jsonnode.Node{}, upstream).Once()

	_, err := service.NextMatchup(context.Background(), "T")
	if !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if errors.Is(err, matchup.ErrNoUpcomingMatchup) || errors.Is(err, matchup.ErrNoTeam) {
		t.Fatalf("provider failure must not map to a not-found outcome: %v", err)
	}
	if len(recorder.lookups) != 1 || recorder.lookups[0] != "failed" {
		t.Fatalf("unexpected lookup outcomes: %v", recorder.lookups)
	}
}
