package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"chat-session/services"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), activeApp.Chat, cmd.OutOrStdout())
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := activeApp.Chat.CreateSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), session.ID)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <session-id> <name>",
	Short: "Rename a session",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := loadSessions(ctx, activeApp.Chat); err != nil {
			return err
		}
		return activeApp.Chat.RenameSession(ctx, args[0], strings.Join(args[1:], " "))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := loadSessions(ctx, activeApp.Chat); err != nil {
			return err
		}
		return activeApp.Chat.DeleteSession(ctx, args[0])
	},
}

var messagesCmd = &cobra.Command{
	Use:   "messages <session-id>",
	Short: "Show the history of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := loadSessions(ctx, activeApp.Chat); err != nil {
			return err
		}
		return runMessages(ctx, activeApp.Chat, args[0], cmd.OutOrStdout())
	},
}

var nameCmd = &cobra.Command{
	Use:   "name <session-id> <prompt>",
	Short: "Name a session after a prompt using the model",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := loadSessions(ctx, activeApp.Chat); err != nil {
			return err
		}
		name, err := activeApp.Chat.SummarizeSessionName(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd, createCmd, renameCmd, deleteCmd, messagesCmd, nameCmd)
}

// loadSessions fills the cache; every session operation needs the id cached first.
func loadSessions(ctx context.Context, chat *services.ChatService) error {
	if _, err := chat.ListSessions(ctx); err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	return nil
}

func runList(ctx context.Context, chat *services.ChatService, out io.Writer) error {
	sessions, err := chat.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCREATED")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runMessages(ctx context.Context, chat *services.ChatService, sessionID string, out io.Writer) error {
	messages, err := chat.GetMessages(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, m := range messages {
		fmt.Fprintf(out, "[%d] %s\n", m.Tokens, m.String())
	}
	return nil
}
