package music

import "time"

// Config holds the music module configuration.
type Config struct {
	// Cookie is the QQ music session cookie used for every catalog call.
	Cookie string `env:"QQMUSIC_COOKIE,notEmpty"`

	// QueueCapacity bounds the command hand-off queue.
	QueueCapacity int `env:"COMMAND_QUEUE_CAPACITY" envDefault:"100"`

	// CatalogTimeout bounds each catalog HTTP round trip.
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"30s"`

	// DownloadTimeout bounds each audio download.
	DownloadTimeout time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"30s"`
}
