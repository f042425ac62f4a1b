package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knbl-ai/content-planner-agent/internal/app/conversation"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

const chatHelp = "Commands: /draft shows the guideline draft, /save saves it, /examples lists post examples, /reset starts over, /quit exits."

func newChatCmd(app *App) *cobra.Command {
	var (
		sessionID string
		flags     runtimeFlags
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from the terminal",
		Long: "Talk to the assistant from the terminal. Lines read from stdin are sent as messages;\n" +
			"when stdin is not a terminal every reply is printed and the command exits at EOF.\n\n" + chatHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if err := flags.apply(cmd.Flags(), cfg); err != nil {
				return err
			}

			rt, err := Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			interactive := app.IsInteractive != nil && app.IsInteractive()
			c := &chat{
				rt:          rt,
				sessionID:   domain.SessionID(sessionID),
				out:         cmd.OutOrStdout(),
				interactive: interactive,
				paint:       painter{color: interactive},
			}
			return c.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Resume an existing session id")
	flags.register(cmd.Flags(), app.Config)
	return cmd
}

type chat struct {
	rt          *Runtime
	sessionID   domain.SessionID
	out         io.Writer
	interactive bool
	paint       painter
}

func (c *chat) run(ctx context.Context, in io.Reader) error {
	if c.sessionID == "" {
		c.sessionID = conversation.NewSessionID()
	}

	if c.interactive {
		fmt.Fprintln(c.out, c.paint.render(styleHeader, "Content Planner"))
		fmt.Fprintln(c.out, c.paint.render(styleDim, "session "+string(c.sessionID)))
		fmt.Fprintln(c.out, c.paint.render(styleDim, chatHelp))
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		c.prompt()
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		quit, err := c.handle(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func (c *chat) prompt() {
	if c.interactive {
		fmt.Fprint(c.out, c.paint.render(stylePrompt, "you> "))
	}
}

// handle processes one input line and reports whether the chat should end.
// Turn failures are printed and the chat continues.
func (c *chat) handle(ctx context.Context, line string) (bool, error) {
	switch strings.ToLower(line) {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(c.out, chatHelp)
		return false, nil
	case "/draft":
		return false, c.showDraft(ctx)
	case "/save":
		return false, c.saveDraft(ctx)
	case "/examples":
		return false, c.showExamples(ctx)
	case "/reset":
		if err := c.rt.Conversations.Reset(ctx, c.sessionID); err != nil {
			return false, err
		}
		fmt.Fprintln(c.out, c.paint.render(styleDim, "session cleared"))
		return false, nil
	}

	out, err := c.rt.Conversations.ProcessTurn(ctx, conversation.ProcessTurnInput{
		SessionID: c.sessionID,
		Text:      line,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return true, nil
		}
		fmt.Fprintln(c.out, c.paint.render(styleError, "Sorry, I couldn't process that message. Please try again."))
		return false, nil
	}

	fmt.Fprintln(c.out, c.paint.render(styleAssistant, out.Reply))
	return false, nil
}

func (c *chat) currentDraft(ctx context.Context) (string, error) {
	s, err := c.rt.Conversations.GetSession(ctx, c.sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.GuidelineDraft, nil
}

func (c *chat) showDraft(ctx context.Context) error {
	draft, err := c.currentDraft(ctx)
	if err != nil {
		return err
	}
	if draft == "" {
		fmt.Fprintln(c.out, c.paint.render(styleDim, "No guideline draft yet."))
		return nil
	}
	fmt.Fprintln(c.out, c.paint.render(styleDraft, draft))
	return nil
}

func (c *chat) saveDraft(ctx context.Context) error {
	draft, err := c.currentDraft(ctx)
	if err != nil {
		return err
	}
	if draft == "" {
		fmt.Fprintln(c.out, c.paint.render(styleDim, "Nothing to save yet."))
		return nil
	}
	if err := c.rt.Guidelines.Save(ctx, c.sessionID, draft); err != nil {
		fmt.Fprintln(c.out, c.paint.render(styleError, "Failed to save guideline."))
		return nil
	}
	fmt.Fprintln(c.out, c.paint.render(styleDim, "Guideline saved."))
	return nil
}

func (c *chat) showExamples(ctx context.Context) error {
	examples, err := c.rt.Conversations.PostExamples(ctx, c.sessionID)
	if err != nil {
		return err
	}
	if len(examples) == 0 {
		fmt.Fprintln(c.out, c.paint.render(styleDim, "No post examples yet."))
		return nil
	}
	for i, ex := range examples {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, ex)
	}
	return nil
}
