package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

var outcomeMessages = map[entities.Outcome]string{
	entities.OutcomeUser:     "You win!",
	entities.OutcomeComputer: "Computer wins!",
	entities.OutcomeTie:      "It's a tie!",
}

// GameService plays rock-paper-scissors against a random opponent
type GameService struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *logger.Logger
}

// NewGameService creates a game service. A nil rng is seeded from the clock.
func NewGameService(rng *rand.Rand, logger *logger.Logger) *GameService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GameService{
		rng:    rng,
		logger: logger.WithComponent("game"),
	}
}

// PlayRound resolves one round for the user's choice
func (s *GameService) PlayRound(choice string) (*ports.RoundResult, error) {
	user, err := entities.ParseChoice(choice)
	if err != nil {
		return nil, err
	}

	computer := s.draw()
	outcome := entities.Resolve(user, computer)

	return &ports.RoundResult{
		User:     user,
		Computer: computer,
		Outcome:  outcome,
		Message:  outcomeMessages[outcome],
	}, nil
}

func (s *GameService) draw() entities.Choice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entities.Choices[s.rng.Intn(len(entities.Choices))]
}

// Play runs the console game loop until "quit", EOF or ctx cancellation and
// returns the final score.
func (s *GameService) Play(ctx context.Context, in io.Reader, out io.Writer) (entities.Score, error) {
	var score entities.Score
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "Rock, Paper, Scissors! Type 'quit' to stop.")
	for {
		if err := ctx.Err(); err != nil {
			return score, err
		}

		fmt.Fprint(out, "Enter rock, paper, or scissors: ")
		if !scanner.Scan() {
			break
		}

		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "quit" {
			break
		}

		round, err := s.PlayRound(line)
		if err != nil {
			fmt.Fprintln(out, "Invalid choice. Please try again.")
			continue
		}

		score.Record(round.Outcome)
		fmt.Fprintf(out, "Computer chose %s. %s\n", round.Computer, round.Message)
		fmt.Fprintf(out, "Score - You: %d, Computer: %d\n", score.User, score.Computer)
	}

	fmt.Fprintf(out, "\nFinal score - You: %d, Computer: %d\n", score.User, score.Computer)
	s.logger.Debugw("Game finished", "user", score.User, "computer", score.Computer)

	return score, scanner.Err()
}
