package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/ltsync/cmd/importer"
	"github.com/lepinkainen/ltsync/cmd/scrape"
	"github.com/lepinkainen/ltsync/internal/bookdata"
	"github.com/lepinkainen/ltsync/internal/config"
)

var (
	runScrape = scrape.Run
	runImport = importer.Run
)

// CLI represents the complete command structure for the ltsync application
type CLI struct {
	// Global flags
	Verbose bool `short:"v" help:"Log additional debugging information"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Scrape ScrapeCmd `cmd:"" help:"Scrape extra book details from the site"`
	Import ImportCmd `cmd:"" help:"Create or edit books through the site's forms"`
}

// commonFlags are shared by both commands.
type commonFlags struct {
	CookiesFile string        `short:"c" help:"File to save/load login cookies"`
	ErrorsFile  string        `short:"e" help:"Output file for list of book ids with processing errors"`
	BookIDs     string        `short:"i" help:"Comma-separated list of book ids to process, or @filename to read ids from file"`
	DebugMode   bool          `short:"d" help:"Pause for confirmation after errors and at exit"`
	Headless    bool          `help:"Run the browser without a visible window"`
	Timeout     time.Duration `help:"Per-book page timeout (0 uses the command default)"`
}

// ScrapeCmd represents the scrape command
type ScrapeCmd struct {
	Infile  string `arg:"" help:"Input file containing JSON book data"`
	Outfile string `arg:"" help:"Output file to write extra data to"`

	Merge          bool `short:"m" xor:"mode" help:"Add extra data to book data"`
	Update         bool `short:"u" xor:"mode" help:"Update output file instead of replacing"`
	Login          bool `short:"l" help:"Log in to allow access to private book information"`
	DownloadCovers bool `help:"Download cover images into the attachments directory"`

	commonFlags `embed:""`
}

// ImportCmd represents the import command
type ImportCmd struct {
	File      string `arg:"" help:"File containing JSON book data"`
	ExtraFile string `arg:"" optional:"" help:"Optional file containing extra book data"`

	NoSource        bool   `short:"s" help:"Ignore source field, add books manually"`
	SearchBy        string `help:"Comma-separated list of search identifiers to use when adding from source, in priority order (ean, upc, asin, lccn, oclc, isbn)"`
	Tag             string `short:"t" help:"Tag to add to all imported books"`
	NoVenueSearch   bool   `help:"Don't search for venues when setting the 'From where?' field"`
	PhysicalSummary string `enum:"auto,json" default:"auto" help:"How to set the 'Physical summary' field: 'auto' leaves it blank for the site to generate, 'json' uses the value from the JSON data"`
	Summary         string `enum:"auto,json" default:"auto" help:"How to set the 'Summary' field: 'auto' leaves it blank for the site to generate, 'json' uses the value from the JSON data"`
	Private         bool   `short:"p" help:"Create private books"`

	commonFlags `embed:""`
}

// Execute runs the Kong-based CLI
func Execute() {
	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	ctx := kong.Parse(&cli,
		kong.Name("ltsync"),
		kong.Description("A tool to sync JSON book data with a LibraryThing library through the browser."),
		kong.UsageOnError(),
	)

	initLogging(cli.Verbose)
	initConfig()

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	// Execute the selected command
	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("site.baseurl", "https://www.librarything.com")
	viper.SetDefault("site.cookiesfile", "")
	viper.SetDefault("AttachmentsDir", "./attachments/")
	viper.SetDefault("Headless", false)

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Enable environment variable support
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
}

// Run methods for each command

func (s *ScrapeCmd) Run() error {
	bookIDs, err := bookdata.ParseBookIDs(s.BookIDs)
	if err != nil {
		return err
	}
	config.SetCookiesFile(s.CookiesFile)
	config.SetHeadless(s.Headless || config.Headless)

	return runScrape(context.Background(), scrape.Options{
		Infile:         s.Infile,
		Outfile:        s.Outfile,
		Merge:          s.Merge,
		Update:         s.Update,
		Login:          s.Login,
		DownloadCovers: s.DownloadCovers,
		ErrorsFile:     s.ErrorsFile,
		BookIDs:        bookIDs,
		DebugMode:      s.DebugMode,
		Headless:       s.Headless,
		Timeout:        s.Timeout,
	})
}

func (i *ImportCmd) Run() error {
	bookIDs, err := bookdata.ParseBookIDs(i.BookIDs)
	if err != nil {
		return err
	}
	searchBy, err := importer.ParseSearchBy(i.SearchBy)
	if err != nil {
		return err
	}
	config.SetCookiesFile(i.CookiesFile)
	config.SetHeadless(i.Headless || config.Headless)

	return runImport(context.Background(), importer.Options{
		File:            i.File,
		ExtraFile:       i.ExtraFile,
		NoSource:        i.NoSource,
		SearchBy:        searchBy,
		Tag:             i.Tag,
		NoVenueSearch:   i.NoVenueSearch,
		PhysicalSummary: i.PhysicalSummary,
		Summary:         i.Summary,
		Private:         i.Private,
		ErrorsFile:      i.ErrorsFile,
		BookIDs:         bookIDs,
		DebugMode:       i.DebugMode,
		Headless:        i.Headless,
		Timeout:         i.Timeout,
	})
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
