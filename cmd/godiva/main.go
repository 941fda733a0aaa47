// Command godiva runs the Godiva2 viewer workflow against an ncWMS server
// from the command line and serves the browser version of the viewer.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	ncwms "github.com/kwilcox/ncWMS"
	"github.com/kwilcox/ncWMS/wmsclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
}

// config holds the settings shared by all commands.
type config struct {
	Client      wmsclient.Config
	Viewport    ncwms.Viewport
	Opacity     int
	LogLevel    logrus.Level
	MetricsAddr string
}

func loadConfig(v *viper.Viper) (*config, error) {
	if f := v.GetString("config"); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("godiva: reading config: %w", err)
		}
	}
	bbox, err := ncwms.ParseBoundingBox(v.GetString("viewport"))
	if err != nil {
		return nil, fmt.Errorf("godiva: viewport: %w", err)
	}
	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, fmt.Errorf("godiva: %w", err)
	}
	cfg := &config{
		Client: wmsclient.Config{
			Server:        v.GetString("server"),
			Timeout:       v.GetDuration("timeout"),
			Retries:       uint64(v.GetInt("retries")),
			RetryInterval: v.GetDuration("retry-interval"),
			CacheSize:     v.GetInt("cache-size"),
		},
		Viewport: ncwms.Viewport{
			BBox:   bbox,
			Width:  v.GetInt("width"),
			Height: v.GetInt("height"),
		},
		Opacity:     v.GetInt("opacity"),
		LogLevel:    level,
		MetricsAddr: v.GetString("metrics-addr"),
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		return nil, fmt.Errorf("godiva: invalid map size %dx%d", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	return cfg, nil
}

// app is the state shared by the commands of one invocation.
type app struct {
	v   *viper.Viper
	cfg *config
	reg *prometheus.Registry
	log logrus.FieldLogger
}

func (a *app) client() (*wmsclient.Client, error) {
	c, err := wmsclient.New(a.cfg.Client, a.reg)
	if err != nil {
		return nil, err
	}
	c.Log = a.log
	return c, nil
}

func (a *app) serveMetrics() {
	if a.cfg.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{}))
	go func() {
		a.log.Infof("serving metrics on http://%s/metrics", a.cfg.MetricsAddr)
		if err := http.ListenAndServe(a.cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
			a.log.WithError(err).Error("metrics server")
		}
	}()
}

func newRootCmd(out io.Writer) (*cobra.Command, *app) {
	a := &app{v: viper.New(), reg: prometheus.NewRegistry(), log: logger}
	def := wmsclient.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "godiva",
		Short: "Explore ncWMS datasets",
		Long: `godiva walks the Godiva2 selection workflow against an ncWMS server:
dataset, variable, vertical level, time and color scale, and prints the
resulting map configuration and links.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger.SetLevel(cfg.LogLevel)
			a.serveMetrics()
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	f := rootCmd.PersistentFlags()
	f.String("config", "", "Configuration file (yaml, toml or json)")
	f.StringP("server", "s", def.Server, "Address of the ncWMS web application")
	f.Duration("timeout", def.Timeout, "Timeout for each request to the server (0 for none)")
	f.Int("retries", int(def.Retries), "Number of times a failed request is retried")
	f.Duration("retry-interval", def.RetryInterval, "Time to wait between retries")
	f.Int("cache-size", def.CacheSize, "Number of variable lists and details to cache")
	f.String("log-level", "info", "Logging level")
	f.String("viewport", "-180,-90,180,90", "Map extent as minlon,minlat,maxlon,maxlat")
	f.Int("width", 1024, "Map width in pixels")
	f.Int("height", 512, "Map height in pixels")
	f.Int("opacity", 100, "Overlay opacity in percent")
	f.String("metrics-addr", "", "Address to serve Prometheus metrics on")

	if err := a.v.BindPFlags(f); err != nil {
		panic(err)
	}
	a.v.SetEnvPrefix("GODIVA")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	addDatasetsCmd(rootCmd, a)
	addVariablesCmd(rootCmd, a)
	addShowCmd(rootCmd, a)
	addAnimateCmd(rootCmd, a)
	addExtentCmd(rootCmd, a)
	addInfoCmd(rootCmd, a)
	addServeCmd(rootCmd, a)
	addCompressCmd(rootCmd, a)
	return rootCmd, a
}

func main() {
	rootCmd, _ := newRootCmd(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
