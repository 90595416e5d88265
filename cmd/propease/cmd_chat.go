package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/chat"
	"github.com/Bharath552-bit/Real-Estate-Platform/internal/models"
)

var chatRole string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with buyers and sellers",
}

var chatRoomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List your conversations",
	RunE:  runChatRooms,
}

var chatStartCmd = &cobra.Command{
	Use:   "start <property-id>",
	Short: "Start (or resume) a conversation about a listing",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatStart,
}

var chatSendCmd = &cobra.Command{
	Use:   "send <room-id> <text>",
	Short: "Send one message to a conversation",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runChatSend,
}

var chatOpenCmd = &cobra.Command{
	Use:   "open <room-id>",
	Short: "Open a conversation and follow it live",
	Long: `Open a conversation. New messages appear as they arrive; lines you
type are sent to the other party.

Commands:
  /reply <id>   reply to a message (next send carries the reference)
  /reply off    cancel the pending reply
  /delete <id>  delete one of your own messages
  /quit         leave the conversation`,
	Args: cobra.ExactArgs(1),
	RunE: runChatOpen,
}

func init() {
	chatRoomsCmd.Flags().StringVar(&chatRole, "role", "", "only conversations where you are the buyer or seller")

	chatCmd.AddCommand(chatRoomsCmd, chatStartCmd, chatSendCmd, chatOpenCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChatRooms(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}
	if chatRole != "" && chatRole != "buyer" && chatRole != "seller" {
		return fmt.Errorf("invalid role %q: must be buyer or seller", chatRole)
	}

	rooms, err := client.ListRooms(cmd.Context(), chatRole)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		fmt.Println("No conversations yet.")
		return nil
	}

	userID, _ := client.CurrentUserID()
	for _, room := range rooms {
		partner := "unknown"
		if p, ok := chat.PartnerOf(room, userID); ok {
			partner = p.Username
		}
		propertyName := "(listing removed)"
		if room.Property != nil {
			propertyName = room.Property.Name
		}
		fmt.Printf("#%-5d %-20s %-30s %d messages\n", room.ID, truncate(partner, 20), truncate(propertyName, 30), len(room.Messages))
	}
	return nil
}

func runChatStart(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}

	propertyID, err := parseID(args[0])
	if err != nil {
		return err
	}

	room, err := client.CreateRoom(cmd.Context(), propertyID)
	if err != nil {
		return err
	}

	fmt.Printf("Conversation #%d ready. Run 'propease chat open %d' to join.\n", room.ID, room.ID)
	return nil
}

func runChatSend(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}

	roomID, err := parseID(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")

	msg, err := client.SendMessage(cmd.Context(), roomID, text, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Sent message #%d.\n", msg.ID)
	return nil
}

func runChatOpen(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}

	roomID, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sess := chat.NewSession(client, roomID, cfg.PollInterval, logger)
	if err := sess.Open(ctx); err != nil {
		return err
	}
	defer sess.Close()

	room := sess.Room()
	if partner, ok := sess.Partner(); ok {
		fmt.Printf("Conversation with %s", partner.Username)
	} else {
		fmt.Print("Conversation with unknown")
	}
	if room.Property != nil {
		fmt.Printf(" about %s", room.Property.Name)
	}
	fmt.Println(". Type /quit to leave.")

	seen := make(map[int64]bool)
	printNewMessages(room.Messages, seen)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sess.Updates():
			printNewMessages(sess.Room().Messages, seen)
		case line, open := <-lines:
			if !open {
				return nil
			}
			quit, err := handleChatLine(cmd, sess, line)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			if quit {
				return nil
			}
		}
	}
}

func handleChatLine(cmd *cobra.Command, sess *chat.Session, line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	switch {
	case line == "/quit":
		return true, nil

	case line == "/reply off":
		sess.ClearReply()
		fmt.Println("Reply cleared.")
		return false, nil

	case strings.HasPrefix(line, "/reply "):
		id, err := parseID(strings.TrimSpace(strings.TrimPrefix(line, "/reply ")))
		if err != nil {
			return false, err
		}
		if !sess.Reply(id) {
			return false, fmt.Errorf("no message #%d in this conversation", id)
		}
		target := sess.PendingReply()
		fmt.Printf("Replying to #%d: %s\n", target.ID, truncate(target.Text, 50))
		return false, nil

	case strings.HasPrefix(line, "/delete "):
		id, err := parseID(strings.TrimSpace(strings.TrimPrefix(line, "/delete ")))
		if err != nil {
			return false, err
		}
		if err := sess.Delete(cmd.Context(), id); err != nil {
			return false, err
		}
		fmt.Printf("Message #%d deleted.\n", id)
		return false, nil

	case strings.HasPrefix(line, "/"):
		return false, fmt.Errorf("unknown command %q", strings.Fields(line)[0])

	default:
		if _, err := sess.Send(cmd.Context(), line); err != nil {
			return false, err
		}
		return false, nil
	}
}

func printNewMessages(messages []models.Message, seen map[int64]bool) {
	for _, m := range messages {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		if m.ReplyTo != nil {
			fmt.Printf("[%s] #%d %s (re #%d): %s\n",
				m.Timestamp.Local().Format("15:04"), m.ID, m.Sender.Username, m.ReplyTo.ID, m.Text)
		} else {
			fmt.Printf("[%s] #%d %s: %s\n",
				m.Timestamp.Local().Format("15:04"), m.ID, m.Sender.Username, m.Text)
		}
	}
}
