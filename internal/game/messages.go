package game

import (
	"fmt"
	"strings"
	"time"

	"countries-trivia/internal/domain"
)

const (
	pointsPrimary   = 3
	pointsContinent = 1
)

func welcomeMessage(player string, initLimit time.Duration, day time.Time) string {
	var b strings.Builder
	b.WriteString("=========================\n")
	fmt.Fprintf(&b, "COUNTRIES (%s)\n", day.Format("02-01-2006"))
	b.WriteString("=========================\n\n")
	fmt.Fprintf(&b, "Hello %s, welcome back to Countries!\n", player)
	b.WriteString("Reply to this message to begin.\n")
	b.WriteString("Any reply starts the game.\n")
	fmt.Fprintf(&b, "If you do not reply within %d seconds you lose today's turn.", int(initLimit.Seconds()))
	return b.String()
}

func apologyMessage(secondTurn bool) string {
	if secondTurn {
		return "You have lost both turns. See you tomorrow!"
	}
	return "You have lost the first turn. See you later!"
}

func primaryQuestion(number int, prompt domain.Prompt) string {
	if prompt.Direction == domain.AskCountry {
		return fmt.Sprintf("%d. Country whose capital is %s?", number, prompt.Question.Capital)
	}
	return fmt.Sprintf("%d. Capital of %s?", number, prompt.Question.Country)
}

const continentQuestion = "Continent?"

const tooSlowMessage = "Time is up. Answer faster next time."

func correctMessage(award int) string {
	if award == 1 {
		return "Correct! You earned 1 point."
	}
	return fmt.Sprintf("Correct! You earned %d points.", award)
}

func revealCapitalMessage(q domain.Question) string {
	return fmt.Sprintf("Incorrect. The capital of %s is %s.", q.Country, q.Capital)
}

func revealContinentMessage(q domain.Question) string {
	return fmt.Sprintf("Incorrect. %s is in %s.", q.Country, q.Continent)
}

func summaryMessage(points int) string {
	return fmt.Sprintf("DONE! Today you scored %d points.", points)
}

// closingMessage formats the final standings broadcast sent after a
// second-turn run, calling out the leader and the last place.
func closingMessage(entries []domain.LeaderboardEntry) string {
	var ranking strings.Builder
	for i, entry := range entries {
		fmt.Fprintf(&ranking, "%d. %s --> %d points\n", i+1, entry.Player, entry.Points)
	}

	var b strings.Builder
	b.WriteString("STANDINGS\n-----------------------------\n")
	b.WriteString(strings.TrimRight(ranking.String(), "\n"))
	b.WriteString("\n-----------------------------\n\n")
	if len(entries) > 0 {
		fmt.Fprintf(&b, "%s is in the lead.\n", entries[0].Player)
		fmt.Fprintf(&b, "%s, time to step it up...\n\n", entries[len(entries)-1].Player)
	}
	b.WriteString("See you tomorrow!\n\n=========================")
	return b.String()
}
