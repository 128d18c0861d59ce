package bot

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"punchclock/internal/config"
	"punchclock/internal/db"

	"github.com/bwmarrin/discordgo"
)

// Bot is the optional Discord front end over the same punch store the
// web dashboard uses.
type Bot struct {
	config     *config.Config
	db         *db.DB
	session    *discordgo.Session
	shutdownCh chan struct{}
	isShutdown bool
	mu         sync.Mutex
	wg         sync.WaitGroup
}

func New(cfg *config.Config, database *db.DB) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return &Bot{
		db:         database,
		session:    session,
		config:     cfg,
		shutdownCh: make(chan struct{}),
	}, nil
}

// registerGuildCommands registers the slash commands for a guild,
// retrying a few times before giving up.
func (b *Bot) registerGuildCommands(guildID string) error {
	maxRetries := 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := b.registerGuildCommandsOnce(guildID)
		if err == nil {
			return nil
		}
		lastErr = err
		log.Printf("Attempt %d to register commands failed: %v", i+1, err)
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return fmt.Errorf("failed to register commands after %d attempts: %v", maxRetries, lastErr)
}

func (b *Bot) registerGuildCommandsOnce(guildID string) error {
	log.Printf("Registering commands for guild %s", guildID)

	// Clear existing commands first so renames don't leave stale entries
	existing, err := b.session.ApplicationCommands(b.config.Discord.ClientID, guildID)
	if err != nil {
		return fmt.Errorf("error getting existing commands: %w", err)
	}
	for _, v := range existing {
		if err := b.session.ApplicationCommandDelete(b.config.Discord.ClientID, guildID, v.ID); err != nil {
			log.Printf("Failed to delete command %s in guild %s: %v", v.Name, guildID, err)
		}
	}

	for _, v := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.config.Discord.ClientID, guildID, v); err != nil {
			return fmt.Errorf("error creating command %s: %w", v.Name, err)
		}
	}
	return nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.Println("Starting punchclock bot...")

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening Discord session: %w", err)
	}
	log.Printf("Session opened successfully (Session ID: %s)", b.session.State.SessionID)

	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type == discordgo.InteractionApplicationCommand {
			b.handleCommand(s, i)
		}
	})

	for _, guild := range b.session.State.Guilds {
		if err := b.registerGuildCommands(guild.ID); err != nil {
			log.Printf("Error registering commands for guild %s: %v", guild.ID, err)
		}
	}
	b.session.AddHandler(b.handleGuildCreate)

	<-ctx.Done()
	return b.Shutdown()
}

// Shutdown performs a graceful shutdown of the bot.
func (b *Bot) Shutdown() error {
	log.Println("Shutting down bot...")

	// Ensure we only close the channel once
	b.mu.Lock()
	if b.isShutdown {
		b.mu.Unlock()
		return nil
	}
	b.isShutdown = true
	close(b.shutdownCh)
	b.mu.Unlock()

	b.wg.Wait()

	for _, guild := range b.session.State.Guilds {
		registered, err := b.session.ApplicationCommands(b.config.Discord.ClientID, guild.ID)
		if err != nil {
			log.Printf("Error getting commands for guild %s: %v", guild.ID, err)
			continue
		}
		for _, cmd := range registered {
			if err := b.session.ApplicationCommandDelete(b.config.Discord.ClientID, guild.ID, cmd.ID); err != nil {
				log.Printf("Failed to remove command %s in guild %s: %v", cmd.Name, guild.ID, err)
			}
		}
	}

	log.Println("Closing Discord session...")
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("error closing Discord session: %w", err)
	}
	return nil
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("Bot is ready! Connected to %d guilds", len(r.Guilds))
}

func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("Bot joined guild %s (%s)", g.Name, g.ID)
	if err := b.registerGuildCommands(g.ID); err != nil {
		log.Printf("Error registering commands for guild %s: %v", g.ID, err)
	}
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			log.Printf("Panic in command handler:\nError: %v\nStack Trace:\n%s", r, string(buf[:n]))
			respondWithError(s, i, "An internal error occurred")
		}
	}()

	commandName := i.ApplicationCommandData().Name
	logCommand(i, commandName)

	switch commandName {
	case "punchin":
		b.handlePunchIn(s, i)
	case "punchout":
		b.handlePunchOut(s, i)
	case "status":
		b.handleStatus(s, i)
	case "report":
		b.handleReport(s, i)
	default:
		log.Printf("Unknown command: %s", commandName)
		respondWithError(s, i, "Unknown command")
	}
}
