package questions

import (
	"math/rand"

	"countries-trivia/internal/domain"
)

// Sample draws n distinct questions from the bank without replacement
// and assigns each an independent direction. One roll in four asks the
// reverse question (country from capital); the rest ask the capital.
func Sample(rnd *rand.Rand, bank []domain.Question, n int) ([]domain.Prompt, error) {
	if len(bank) == 0 {
		return nil, domain.ErrEmptyBank
	}
	if n > len(bank) {
		return nil, domain.ErrBankExhausted
	}

	prompts := make([]domain.Prompt, 0, n)
	for _, i := range rnd.Perm(len(bank))[:n] {
		direction := domain.AskCapital
		if rnd.Intn(4) == 3 {
			direction = domain.AskCountry
		}
		prompts = append(prompts, domain.Prompt{Question: bank[i], Direction: direction})
	}
	return prompts, nil
}
