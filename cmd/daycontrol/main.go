package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chris/daycontrol/config"
	"github.com/chris/daycontrol/internal/agent"
	"github.com/chris/daycontrol/internal/daybook"
	"github.com/chris/daycontrol/internal/db"
	"github.com/chris/daycontrol/internal/discord"
	"github.com/chris/daycontrol/internal/llm"
	"github.com/chris/daycontrol/internal/scheduler"
	"github.com/chris/daycontrol/internal/service"
)

const appName = "daycontrol"

func usage() {
	fmt.Fprintf(os.Stderr, "%s: morning planning and evening review\n\n", appName)
	fmt.Fprintf(os.Stderr, "Usage:\n  %s <command> [flags]\n\n", appName)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  morning    Record the day (optional) and pick today's focus tasks")
	fmt.Fprintln(os.Stderr, "  evening    Score the day and suggest an adjustment for tomorrow")
	fmt.Fprintln(os.Stderr, "  done       Mark a task completed")
	fmt.Fprintln(os.Stderr, "  distract   Log a distraction")
	fmt.Fprintln(os.Stderr, "  show       Show a day, or recent days with -n")
	fmt.Fprintln(os.Stderr, "  chat       Talk to the planning agent")
	fmt.Fprintln(os.Stderr, "  run        Run scheduled check-ins (and the Discord bot if configured)")
	fmt.Fprintln(os.Stderr, "  install    Install as a launchd service")
	fmt.Fprintln(os.Stderr, "  uninstall  Remove the launchd service")
	fmt.Fprintln(os.Stderr, "  status     Show launchd service status")
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage()
		return
	}

	var err error
	switch args[0] {
	case "install":
		err = service.Install()
	case "uninstall":
		err = service.Uninstall()
	case "status":
		err = service.Status()
	case "morning", "evening", "done", "distract", "show", "chat", "run":
		err = runWithStore(args[0], args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runWithStore(cmd string, args []string) error {
	cfg := config.Load()

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	book := daybook.New(database, cfg.Location)
	out := os.Stdout

	switch cmd {
	case "morning":
		return cmdMorning(out, book, args)
	case "evening":
		return cmdEvening(out, book, args)
	case "done":
		return cmdDone(out, book, args)
	case "distract":
		return cmdDistract(out, book, args)
	case "show":
		return cmdShow(out, book, args)
	case "chat":
		ag, err := newAgent(cfg, database, book)
		if err != nil {
			return err
		}
		runChat(ag)
		return nil
	case "run":
		return runService(cfg, database, book)
	}
	return nil
}

func newAgent(cfg *config.Config, database *db.DB, book *daybook.Book) (*agent.Agent, error) {
	client, err := llm.NewClient(llm.ProviderConfig{
		Provider:  cfg.LLMProvider,
		APIKey:    cfg.APIKey(),
		AuthToken: cfg.AnthropicToken,
		Model:     cfg.LLMModel,
		BaseURL:   cfg.OllamaBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	return agent.New(database, book, client, cfg.MaxContextTokens), nil
}

func runChat(ag *agent.Agent) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	// Check if stdin is a pipe (non-interactive)
	stat, _ := os.Stdin.Stat()
	isPipe := (stat.Mode() & os.ModeCharDevice) == 0

	prompt := func() {
		if !isPipe {
			fmt.Print(appName + "> ")
		}
	}
	prompt()

	var history []llm.Message
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			prompt()
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		reply, newHistory, err := ag.Run(ctx, history, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else {
			fmt.Println(reply)
			history = newHistory
		}

		if isPipe {
			break // single exchange in pipe mode
		}
		prompt()
	}
}

// runService runs the scheduler until interrupted. The agent and the Discord
// bot are optional; without them check-ins carry the raw pipeline output.
func runService(cfg *config.Config, database *db.DB, book *daybook.Book) error {
	ag, err := newAgent(cfg, database, book)
	if err != nil {
		log.Printf("running without agent: %v", err)
	}

	var dmSend func(userID, content string) error
	if cfg.DiscordToken != "" && ag == nil {
		log.Println("DISCORD_BOT_TOKEN is set but the bot needs an agent; using the webhook only")
	} else if cfg.DiscordToken != "" {
		bot, err := discord.NewBot(cfg.DiscordToken, ag, database)
		if err != nil {
			return fmt.Errorf("starting Discord bot: %w", err)
		}
		defer bot.Close()
		dmSend = bot.SendDM
	}

	sched := scheduler.New(book, database, ag, cfg.DiscordWebhook, dmSend)
	if err := sched.Start(cfg.MorningCron, cfg.EveningCron); err != nil {
		return err
	}
	defer sched.Stop()

	log.Println("daycontrol is running. Press Ctrl+C to exit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down.")
	return nil
}
