package matchup

import "errors"

var (
	ErrNoTeam            = errors.New("no team found for user")
	ErrNoUpcomingMatchup = errors.New("no upcoming matchup in lookahead window")
)

// LookaheadWeeks is how many scoreboard weeks are scanned from the current week.
const LookaheadWeeks = 4

// TeamIdentity is the caller's own team as discovered from their games.
// Only the first team found is used; users with several teams resolve to
// whichever the provider lists first.
type TeamIdentity struct {
	TeamKey   string
	LeagueKey string
	TeamName  string
}

// Matchup is the caller's next head-to-head pairing.
type Matchup struct {
	Week      int    `json:"week"`
	You       string `json:"you"`
	Opponent  string `json:"opponent"`
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
	TeamName  string `json:"team_name"`
	TeamKey   string `json:"team_key"`
	LeagueKey string `json:"league_key"`
}
