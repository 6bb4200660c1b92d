package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ReturnsAgent/bot/channel"
	"ReturnsAgent/bot/channel/telegram"
	"ReturnsAgent/entity"
	"ReturnsAgent/impl/core"
	"ReturnsAgent/internal/config"
	"ReturnsAgent/internal/lib/logger"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const (
	chatChannel      = "cli"
	chatConversation = "local"
	chatUser         = "local-user"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant in the terminal with in-memory state",
	Long: `Talk to the assistant in the terminal with in-memory state.

Card buttons are listed with numbers; type #N to press one.
/reset forgets the conversation, /quit leaves.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("conf")
	verbose, _ := cmd.Flags().GetBool("verbose")

	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}
	conf.State.Backend = core.BackendMemory
	conf.Transcript.Enabled = false

	lg := logger.Discard()
	if verbose {
		lg = logger.SetupLogger("local", "")
	}

	a, err := buildApp(cmd.Context(), conf, prometheus.NewRegistry(), lg)
	if err != nil {
		return err
	}
	return chatLoop(cmd.Context(), os.Stdin, cmd.OutOrStdout(), a.router)
}

func init() {
	chatCmd.Flags().Bool("verbose", false, "print debug logs")
}

type buttonPress struct {
	text string
	data string
}

// chatLoop reads one turn per line until EOF or /quit.
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, h telegram.Handler) error {
	scanner := bufio.NewScanner(in)
	var buttons []buttonPress

	fmt.Fprint(out, "you> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		activity := &entity.Activity{
			Channel:        chatChannel,
			ConversationID: chatConversation,
			UserID:         chatUser,
		}

		switch {
		case line == "/quit":
			return nil
		case line == "/reset":
			if err := h.Reset(ctx, chatChannel, chatConversation); err != nil {
				return err
			}
			buttons = nil
			fmt.Fprintln(out, "(conversation reset)")
			fmt.Fprint(out, "you> ")
			continue
		case strings.HasPrefix(line, "#"):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "#"))
			if err != nil || n < 1 || n > len(buttons) {
				fmt.Fprintln(out, "(no such button)")
				fmt.Fprint(out, "you> ")
				continue
			}
			value, err := telegram.ParseCallback(buttons[n-1].data)
			if err != nil {
				return err
			}
			activity.Value = value
		default:
			activity.Text = line
		}

		collector := channel.NewCollector()
		if err := h.Handle(ctx, activity, collector); err != nil {
			fmt.Fprintf(out, "(turn failed: %v)\n", err)
			fmt.Fprint(out, "you> ")
			continue
		}
		buttons = printReplies(out, collector.Replies(), buttons)
		fmt.Fprint(out, "you> ")
	}
	return scanner.Err()
}

// printReplies writes the replies and returns the buttons that can be
// pressed next. Replies without cards keep the previous buttons.
func printReplies(out io.Writer, replies []channel.Reply, buttons []buttonPress) []buttonPress {
	var fresh []buttonPress
	for _, r := range replies {
		if r.Text != "" {
			fmt.Fprintf(out, "bot> %s\n", r.Text)
		}
		for _, c := range r.Cards {
			fmt.Fprintf(out, "bot> %s\n", strings.ReplaceAll(c.PlainText(), "\n", "\n     "))
			for _, row := range telegram.Keyboard(c) {
				fresh = appendButtons(fresh, row)
			}
		}
	}
	if fresh == nil {
		return buttons
	}
	for i, b := range fresh {
		fmt.Fprintf(out, "     [#%d] %s\n", i+1, b.text)
	}
	return fresh
}

func appendButtons(buttons []buttonPress, row []tgbotapi.InlineKeyboardButton) []buttonPress {
	for _, b := range row {
		buttons = append(buttons, buttonPress{text: b.Text, data: b.CallbackData})
	}
	return buttons
}
