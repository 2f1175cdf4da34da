package entities

import "strings"

type Choice string

const (
	ChoiceRock     Choice = "rock"
	ChoicePaper    Choice = "paper"
	ChoiceScissors Choice = "scissors"
)

// Choices lists the playable moves.
var Choices = []Choice{ChoiceRock, ChoicePaper, ChoiceScissors}

type Outcome string

const (
	OutcomeUser     Outcome = "user"
	OutcomeComputer Outcome = "computer"
	OutcomeTie      Outcome = "tie"
)

var beats = map[Choice]Choice{
	ChoiceRock:     ChoiceScissors,
	ChoiceScissors: ChoicePaper,
	ChoicePaper:    ChoiceRock,
}

// ParseChoice normalizes user input into a Choice.
func ParseChoice(s string) (Choice, error) {
	c := Choice(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := beats[c]; !ok {
		return "", ErrInvalidChoice
	}
	return c, nil
}

// Beats reports whether c wins against other.
func (c Choice) Beats(other Choice) bool {
	return beats[c] == other
}

// Resolve decides a round between the user and the computer.
func Resolve(user, computer Choice) Outcome {
	switch {
	case user == computer:
		return OutcomeTie
	case user.Beats(computer):
		return OutcomeUser
	default:
		return OutcomeComputer
	}
}

// Score is the running tally of a game.
type Score struct {
	User     int `json:"user"`
	Computer int `json:"computer"`
}

// Record applies the outcome of one round to the score.
func (s *Score) Record(o Outcome) {
	switch o {
	case OutcomeUser:
		s.User++
	case OutcomeComputer:
		s.Computer++
	}
}
