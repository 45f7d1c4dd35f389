package music

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/bot"
	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/application"
	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/infrastructure"
	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/presentation"
)

func init() {
	bot.Register(&Module{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*Module)(nil)

// Module wires the command dispatch and playback pipeline: message events
// are parsed into commands, queued, and executed against the QQ music
// catalog and the per-guild playback sessions.
type Module struct {
	config   *Config
	queue    *application.CommandQueue
	sessions *application.SessionManager
	handler  *presentation.MessageHandler

	// Dispatcher lifecycle
	cancel context.CancelFunc
	done   chan struct{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "music"
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *Module) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// EventHandlers returns the event handlers for this module.
func (m *Module) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, msg *discordgo.MessageCreate) {
			m.handler.HandleMessageCreate(s, msg)
		},
	}
}

// Init builds the pipeline and starts the dispatcher. A catalog client that
// cannot be constructed is fatal to startup; per-command failures later are
// not.
func (m *Module) Init(deps bot.ModuleDependencies) error {
	botID, err := snowflake.Parse(deps.Session.State.User.ID)
	if err != nil {
		return err
	}

	catalog := infrastructure.NewQQMusicClient(
		m.config.Cookie,
		infrastructure.WithHTTPClient(&http.Client{Timeout: m.config.CatalogTimeout}),
	)
	downloader := infrastructure.NewHTTPDownloader(m.config.DownloadTimeout)
	repo := infrastructure.NewMemoryRepository()
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	voice := infrastructure.NewDiscordVoiceConnector(deps.Session, infrastructure.FFmpegOpusStreamer)
	notifier := infrastructure.NewDiscordNotifier(deps.Session)

	m.queue = application.NewCommandQueue(m.config.QueueCapacity)
	m.sessions = application.NewSessionManager(repo, voice, voiceState, downloader)
	executor := application.NewExecutor(catalog, m.sessions, notifier)
	dispatcher := application.NewDispatcher(m.queue, executor, notifier)

	m.handler = presentation.NewMessageHandler(
		application.NewParser(botID),
		m.queue,
		notifier,
	)

	var ctx context.Context
	ctx, m.cancel = context.WithCancel(context.Background())
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		if err := dispatcher.Run(ctx); err != nil {
			slog.Error("dispatcher exited with error", "error", err)
		}
	}()

	slog.Info("music module initialized", "queue_capacity", m.config.QueueCapacity)

	return nil
}

// Shutdown drains the pipeline: the queue stops accepting commands, the
// dispatcher finishes in-flight work, then every playback session is
// released.
func (m *Module) Shutdown() error {
	if m.queue != nil {
		m.queue.Close()
	}
	if m.done != nil {
		<-m.done
	}
	if m.cancel != nil {
		m.cancel()
	}
	if m.sessions != nil {
		m.sessions.Shutdown()
	}
	return nil
}
