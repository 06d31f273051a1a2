package game

import (
	"context"
	"log"
	"time"

	"countries-trivia/internal/domain"
	"countries-trivia/internal/match"
)

// Runner drives one participant through a full session: welcome,
// confirmation wait, the question sequence and the closing summary.
type Runner struct {
	messenger         Messenger
	waiter            *Waiter
	initTimeLimit     time.Duration
	responseTimeLimit time.Duration
	now               func() time.Time
}

func NewRunner(messenger Messenger, waiter *Waiter, initTimeLimit, responseTimeLimit time.Duration) *Runner {
	return &Runner{
		messenger:         messenger,
		waiter:            waiter,
		initTimeLimit:     initTimeLimit,
		responseTimeLimit: responseTimeLimit,
		now:               time.Now,
	}
}

// Run executes the session and always produces an outcome. Transport
// failures are contained here: to the rest of the run the participant
// simply appears to have abandoned.
func (r *Runner) Run(ctx context.Context, player domain.Participant, prompts []domain.Prompt, secondTurn bool) domain.Outcome {
	outcome, err := r.play(ctx, player, prompts, secondTurn)
	if err != nil {
		log.Printf("session %s: transport failure, recording as abandoned: %v", player.Name, err)
		return domain.Outcome{Participant: player, Status: domain.Abandoned}
	}
	return outcome
}

func (r *Runner) play(ctx context.Context, player domain.Participant, prompts []domain.Prompt, secondTurn bool) (domain.Outcome, error) {
	addr := player.Address
	start := r.now()

	if err := r.messenger.SendMessage(ctx, addr, welcomeMessage(player.Name, r.initTimeLimit, start)); err != nil {
		return domain.Outcome{}, err
	}

	// Any reply counts as confirmation; only presence matters.
	_, confirmed, err := r.waiter.AwaitReply(ctx, addr, start, r.initTimeLimit)
	if err != nil {
		return domain.Outcome{}, err
	}
	if !confirmed {
		if err := r.messenger.SendMessage(ctx, addr, apologyMessage(secondTurn)); err != nil {
			log.Printf("session %s: apology not delivered: %v", player.Name, err)
		}
		return domain.Outcome{Participant: player, Status: domain.Abandoned}, nil
	}

	points := 0
	for i, prompt := range prompts {
		primary, continent := subQuestions(i+1, prompt)

		awarded, err := r.ask(ctx, addr, primary)
		if err != nil {
			return domain.Outcome{}, err
		}
		points += awarded

		awarded, err = r.ask(ctx, addr, continent)
		if err != nil {
			return domain.Outcome{}, err
		}
		points += awarded
	}

	if err := r.messenger.SendMessage(ctx, addr, summaryMessage(points)); err != nil {
		return domain.Outcome{}, err
	}
	return domain.Outcome{Participant: player, Status: domain.Completed, Points: points}, nil
}

// subQuestion is one wait/match/notice cycle.
type subQuestion struct {
	text     string
	expected string
	award    int
	reveal   string
}

func subQuestions(number int, prompt domain.Prompt) (subQuestion, subQuestion) {
	expected := prompt.Question.Capital
	if prompt.Direction == domain.AskCountry {
		expected = prompt.Question.Country
	}
	primary := subQuestion{
		text:     primaryQuestion(number, prompt),
		expected: expected,
		award:    pointsPrimary,
		reveal:   revealCapitalMessage(prompt.Question),
	}
	continent := subQuestion{
		text:     continentQuestion,
		expected: prompt.Question.Continent,
		award:    pointsContinent,
		reveal:   revealContinentMessage(prompt.Question),
	}
	return primary, continent
}

// ask sends one sub-question and scores the reply. A timeout is a
// defined branch worth zero points, not an error.
func (r *Runner) ask(ctx context.Context, addr domain.Address, q subQuestion) (int, error) {
	if err := r.messenger.SendMessage(ctx, addr, q.text); err != nil {
		return 0, err
	}
	asked := r.now()

	reply, answered, err := r.waiter.AwaitReply(ctx, addr, asked, r.responseTimeLimit)
	if err != nil {
		return 0, err
	}
	if !answered {
		return 0, r.messenger.SendMessage(ctx, addr, tooSlowMessage)
	}
	if match.Matches(q.expected, reply.Text) {
		return q.award, r.messenger.SendMessage(ctx, addr, correctMessage(q.award))
	}
	return 0, r.messenger.SendMessage(ctx, addr, q.reveal)
}
