package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"chat-session/models"
	"chat-session/services"
)

var askCmd = &cobra.Command{
	Use:   "ask <session-id> <prompt>",
	Short: "Ask a single question within a session",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := loadSessions(ctx, activeApp.Chat); err != nil {
			return err
		}
		response, err := activeApp.Chat.Ask(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), response)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat [session-id]",
	Short: "Chat interactively; without an id a new session is created",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := loadSessions(ctx, activeApp.Chat); err != nil {
			return err
		}
		sessionID := ""
		if len(args) == 1 {
			sessionID = args[0]
		}
		return runChat(ctx, activeApp.Chat, sessionID, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(askCmd, chatCmd)
}

// runChat reads one prompt per line until EOF or "/exit".
// A session still named "New Chat" is named after its first prompt.
func runChat(ctx context.Context, chat *services.ChatService, sessionID string, in io.Reader, out io.Writer) error {
	if sessionID == "" {
		session, err := chat.CreateSession(ctx)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		sessionID = session.ID
		fmt.Fprintf(out, "session %s\n", sessionID)
	}

	history, err := chat.GetMessages(ctx, sessionID)
	if err != nil {
		return err
	}
	named := len(history) > 0 || !hasDefaultName(chat, sessionID)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if prompt == "/exit" {
			break
		}

		response, err := chat.Ask(ctx, sessionID, prompt)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, response)

		if !named {
			name, err := chat.SummarizeSessionName(ctx, sessionID, prompt)
			if err != nil {
				return err
			}
			named = true
			fmt.Fprintf(out, "(session named %q)\n", name)
		}
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

func hasDefaultName(chat *services.ChatService, sessionID string) bool {
	for _, s := range chat.CachedSessions() {
		if s.ID == sessionID {
			return s.Name == models.DefaultSessionName
		}
	}
	return false
}
