package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"kuisin/internal/client"
	"kuisin/internal/domain"
	"kuisin/internal/play"
)

// NewPlayCmd joins a quiz and plays it on the terminal.
func NewPlayCmd() *cobra.Command {
	var baseURL, code, name, sessionPath string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join a quiz by code and answer it in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionPath == "" {
				dir, err := os.UserConfigDir()
				if err != nil {
					return err
				}
				sessionPath = filepath.Join(dir, "kuisin", "session.json")
			}
			session, err := client.NewSession(client.FileSessionStore{Path: sessionPath})
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			return runPlay(cmd.Context(), client.New(baseURL, session), code, name, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	cmd.Flags().StringVar(&code, "code", "", "quiz code; omit to resume the saved attempt")
	cmd.Flags().StringVar(&name, "name", "", "participant name")
	cmd.Flags().StringVar(&sessionPath, "session", "", "session file (defaults to the user config dir)")
	return cmd
}

func runPlay(ctx context.Context, c *client.Client, code, name string, in io.Reader, out io.Writer) error {
	participant := c.Session().Participant()
	switch {
	case code != "":
		joined, err := c.Join(ctx, code, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Bergabung ke %q sebagai %s\n", joined.Quiz.Title, joined.Participant.Name)
		participant = c.Session().Participant()
	case participant == nil:
		return errors.New("no saved attempt; pass --code to join a quiz")
	default:
		fmt.Fprintf(out, "Melanjutkan kuis sebagai %s\n", participant.Name)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	player := play.NewPlayer(c, c.Session(), play.Participant{
		ID:       participant.ID,
		QuizID:   participant.QuizID,
		JoinedAt: participant.JoinedAt,
	}, &terminalObserver{out: out})

	go readChoices(ctx, in, player)

	_, err := player.Run(ctx)
	return err
}

// readChoices turns each line holding an option number into select+confirm.
func readChoices(ctx context.Context, in io.Reader, player *play.Player) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			continue
		}
		if err := player.Select(n - 1); err != nil {
			return
		}
		if err := player.Confirm(); err != nil {
			return
		}
	}
}

type terminalObserver struct {
	out io.Writer
}

func (o *terminalObserver) StateChanged(state play.State, index, total int, q domain.Question) {
	switch state {
	case play.Loading:
		fmt.Fprintln(o.out, "Memuat kuis...")
	case play.Presenting:
		fmt.Fprintf(o.out, "\nSoal %d/%d: %s\n", index+1, total, q.QuestionText)
		for i, opt := range q.Options {
			fmt.Fprintf(o.out, "  %d. %s\n", i+1, opt.Text)
		}
	}
}

func (o *terminalObserver) Tick(remaining int) {
	if remaining <= 5 || remaining%10 == 0 {
		fmt.Fprintf(o.out, "  sisa waktu %ds\n", remaining)
	}
}

func (o *terminalObserver) Feedback(res domain.SubmitResult) {
	if res.IsCorrect {
		fmt.Fprintf(o.out, "Benar! +%d poin (skor %d)\n", res.PointsEarned, res.NewScore)
		return
	}
	fmt.Fprintf(o.out, "Salah. Skor %d\n", res.NewScore)
}

func (o *terminalObserver) Finished(res play.Result) {
	fmt.Fprintf(o.out, "\nSelesai! Skor %d dalam %ds\n", res.Score, res.CompletionTime)
	if res.Rank > 0 {
		fmt.Fprintf(o.out, "Peringkat %d dari %d\n", res.Rank, len(res.Leaderboard))
	}
	for i, p := range res.Leaderboard {
		if i == 10 {
			break
		}
		fmt.Fprintf(o.out, "  %2d. %-20s %d\n", i+1, p.Name, p.Score)
	}
}
