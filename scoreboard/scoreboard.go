// Package scoreboard computes the monthly contributor scoreboard from
// the tracker's SQLite database. The database is owned by the tracker;
// this package only reads it.
package scoreboard

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"
)

// Points per action kind.
const (
	PointsDoneReview  = 200 // complete a review
	PointsNeedsReview = 75  // submit a ticket for review
	PointsFixed       = 75  // solve a ticket
	PointsJustClosed  = 25  // close a ticket without solving it
	PointsJustComment = 10  // leave a comment or edit the description

	// Every action also earns this much, so equal scores are broken by
	// activity volume.
	actionPointsRatio = 0.1
)

// The tracker robot account. Its changes are re-attributed to the
// human behind them.
const botAuthor = "pqm"

const landedComment = "Branch landed on master."

// Entry is one author's total for the month.
type Entry struct {
	Author string `json:"author"`
	Score  int    `json:"score"`
}

// Scoreboard reads scores from one tracker database.
type Scoreboard struct {
	db      *sql.DB
	aliases map[string]string
}

// Open opens the tracker database and, when configured, the author
// alias file ("canonical, alias" per line).
func Open(dbPath, aliasPath string) (*Scoreboard, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open tracker db: %v", err)
	}

	aliases := make(map[string]string)
	if aliasPath != "" {
		aliases, err = loadAliases(afero.NewOsFs(), aliasPath)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &Scoreboard{db: db, aliases: aliases}, nil
}

// NewWithDB wraps an already opened database. Used by tests.
func NewWithDB(db *sql.DB, aliases map[string]string) *Scoreboard {
	if aliases == nil {
		aliases = make(map[string]string)
	}
	return &Scoreboard{db: db, aliases: aliases}
}

// Close releases the database handle.
func (s *Scoreboard) Close() error {
	return s.db.Close()
}

func loadAliases(fs afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %v", err)
	}
	aliases := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			continue
		}
		aliases[strings.TrimSpace(parts[1])] = strings.TrimSpace(parts[0])
	}
	return aliases, nil
}

// MonthRange returns the calendar month containing t.
func MonthRange(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// change is one ticket_change row. Times in the tracker schema are
// microseconds since the epoch.
type change struct {
	ticket             int
	time               int64
	author             string
	field              string
	oldValue, newValue string
}

type action struct {
	points float64
	author string
}

// Scores computes the sorted per-author totals for the half-open range
// [start, end).
func (s *Scoreboard) Scores(start, end time.Time) ([]Entry, error) {
	changes, err := s.getChanges(start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	tiebreaker := 0.0
	for _, a := range s.actions(changes) {
		author := a.author
		if canonical, ok := s.aliases[author]; ok {
			author = canonical
		}
		totals[author] += a.points + tiebreaker*actionPointsRatio
		tiebreaker++
	}

	entries := make([]Entry, 0, len(totals))
	for author, score := range totals {
		entries = append(entries, Entry{Author: author, Score: int(score)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Author < entries[j].Author
	})
	return entries, nil
}

func (s *Scoreboard) getChanges(start, end time.Time) ([]change, error) {
	rows, err := s.db.Query(`
		select ticket, (time / 1000000), author, field,
			coalesce(oldvalue, ''), coalesce(newvalue, '')
		from ticket_change
		where (time / 1000000) >= ? and (time / 1000000) < ?
		order by time asc`,
		start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("query ticket changes: %v", err)
	}
	defer rows.Close()

	changes := make([]change, 0)
	for rows.Next() {
		var c change
		err := rows.Scan(
			&c.ticket, &c.time, &c.author, &c.field, &c.oldValue, &c.newValue)
		if err != nil {
			return nil, fmt.Errorf("scan ticket change: %v", err)
		}
		c.author = strings.ToLower(c.author)
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// actions classifies changes into scored actions, following the rules
// the tracker mirror writes with: the robot's closing comment is
// attributed to the ticket owner, other robot comments to the first
// word of the comment.
func (s *Scoreboard) actions(changes []change) []action {
	actions := make([]action, 0, len(changes))
	for _, c := range changes {
		switch c.field {
		case "resolution":
			if c.newValue == "fixed" {
				if c.author == botAuthor {
					// Tracked through the robot's comment instead.
					continue
				}
				actions = append(actions, action{PointsFixed, c.author})
			} else {
				actions = append(actions, action{PointsJustClosed, c.author})
			}

		case "comment":
			author := c.author
			if author == botAuthor {
				if strings.HasPrefix(c.newValue, landedComment) {
					author = s.ticketOwner(c.ticket)
				} else if first := strings.SplitN(c.newValue, " ", 2); first[0] != "" {
					author = strings.ToLower(first[0])
				}
			}
			switch {
			case strings.Contains(c.newValue, "needs-review"):
				actions = append(actions, action{PointsNeedsReview, author})
			case strings.Contains(c.newValue, "needs-changes"):
				actions = append(actions, action{PointsDoneReview, author})
			case strings.Contains(c.newValue, "changes-approved"):
				actions = append(actions, action{PointsDoneReview, author})
			case strings.Contains(c.newValue, "Branch landed on master"):
				actions = append(actions, action{PointsFixed, author})
			default:
				actions = append(actions, action{PointsJustComment, author})
			}

		case "description":
			actions = append(actions, action{PointsJustComment, c.author})
		}
	}
	return actions
}

func (s *Scoreboard) ticketOwner(ticket int) string {
	var owner sql.NullString
	err := s.db.QueryRow(
		`select owner from ticket where id = ?`, ticket).Scan(&owner)
	if err != nil || !owner.Valid || owner.String == "" {
		return "UNKNOWN"
	}
	return strings.ToLower(owner.String)
}
