package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kyaoi/thumbooks/internal/app"
	"github.com/kyaoi/thumbooks/internal/config"
)

// rootOptions holds the configuration shared by every command.
type rootOptions struct {
	v          *viper.Viper
	configFile string
	cfg        config.Config
}

func (o *rootOptions) load() error {
	if o.configFile != "" {
		o.v.SetConfigFile(o.configFile)
	}
	cfg, err := config.Load(o.v)
	if err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func (o *rootOptions) services() (*app.Services, error) {
	return app.NewServices(o.cfg)
}

func addConfigFlags(flags *pflag.FlagSet, o *rootOptions) {
	flags.StringVar(&o.configFile, "config", "",
		"Config file (default .thumbooks.{yaml,toml,json} in the working or home directory).")
	flags.StringP("root", "r", "", "Directory holding the books.")
	flags.String("data-dir", "", "Directory holding saved bookmarks.")
	flags.String("log-file", "", "Write logs to this file while the reader runs.")

	_ = o.v.BindPFlag("root", flags.Lookup("root"))
	_ = o.v.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = o.v.BindPFlag("log_file", flags.Lookup("log-file"))
}

// New returns the thumbooks command tree.
func New() *cobra.Command {
	o := &rootOptions{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "thumbooks [DIR]",
		Short: "Read large plain-text books one small page at a time.",
		Long: `Read large plain-text books one small page at a time.

Pick a .txt file from DIR (default: the configured root), turn pages with the
arrow keys and close the book to bookmark it. Reopening a book returns to the
last bookmarked page.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.cfg
			if len(args) == 1 {
				cfg.Root = args[0]
			}
			return app.Run(cfg)
		},
	}
	addConfigFlags(cmd.PersistentFlags(), o)

	AddCommands(cmd, o)
	return cmd
}

// AddCommands registers the subcommands on topLevel.
func AddCommands(topLevel *cobra.Command, o *rootOptions) {
	addList(topLevel, o)
	addPage(topLevel, o)
	addBookmark(topLevel, o)
	addConfig(topLevel, o)
	addVersion(topLevel)
}
