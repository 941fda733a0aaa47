package main

import (
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// assetHandler serves the viewer page from dir, preferring a brotli
// compressed copy (name + ".br") when the client accepts it.
type assetHandler struct {
	dir  string
	next http.Handler
	log  logrus.FieldLogger
}

func newAssetHandler(dir string, log logrus.FieldLogger) *assetHandler {
	return &assetHandler{dir: dir, next: http.FileServer(http.Dir(dir)), log: log}
}

func (h *assetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept-Encoding"), "br") && !strings.HasSuffix(r.URL.Path, "/") {
		name := filepath.Join(h.dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path))) + ".br"
		if f, err := os.Open(name); err == nil {
			defer f.Close()
			if strings.HasSuffix(r.URL.Path, ".wasm") {
				w.Header().Set("Content-Type", "application/wasm")
			}
			w.Header().Set("Content-Encoding", "br")
			w.Header().Add("Vary", "Accept-Encoding")
			if _, err := io.Copy(w, f); err != nil {
				h.log.WithError(err).Warn("serving compressed asset")
			}
			return
		}
	}
	h.next.ServeHTTP(w, r)
}

// newServeMux serves the viewer assets, forwards WMS requests to the ncWMS
// server and exposes metrics.
func (a *app) newServeMux(assets string) (*http.ServeMux, error) {
	target, err := url.Parse(a.cfg.Client.Server)
	if err != nil {
		return nil, err
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	mux := http.NewServeMux()
	mux.Handle("/wms", proxy)
	mux.Handle("/metrics", promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{}))
	mux.Handle("/", newAssetHandler(assets, a.log))
	return mux, nil
}

func addServeCmd(rootCmd *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			assets, _ := cmd.Flags().GetString("assets")
			cert, _ := cmd.Flags().GetString("cert")
			key, _ := cmd.Flags().GetString("key")
			mux, err := a.newServeMux(assets)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:    addr,
				Handler: mux,
				// Some security settings
				ReadHeaderTimeout: 5 * time.Second,
				IdleTimeout:       120 * time.Second,
				TLSConfig: &tls.Config{
					CurvePreferences: []tls.CurveID{
						tls.CurveP256,
						tls.X25519,
					},
				},
			}
			if cert != "" {
				a.log.Info("Serving on https://" + addr)
				return srv.ListenAndServeTLS(cert, key)
			}
			a.log.Info("Serving on http://" + addr)
			return srv.ListenAndServe()
		},
	}
	cmd.Flags().String("addr", "localhost:10000", "Address to listen on")
	cmd.Flags().String("assets", "gui/html", "Directory holding godiva2.html and godiva.wasm")
	cmd.Flags().String("cert", "", "TLS certificate file")
	cmd.Flags().String("key", "", "TLS key file")
	rootCmd.AddCommand(cmd)
}

// compress writes a brotli compressed copy of name to name + ".br".
func compress(name string) error {
	r, err := os.Open(name)
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := os.Create(name + ".br")
	if err != nil {
		return err
	}
	wb := brotli.NewWriterLevel(w, brotli.BestCompression)
	if _, err := io.Copy(wb, r); err != nil {
		w.Close()
		return err
	}
	if err := wb.Close(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func addCompressCmd(rootCmd *cobra.Command, a *app) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "compress FILE...",
		Short: "Write brotli compressed copies of viewer assets for serve",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if err := compress(name); err != nil {
					return err
				}
				a.log.WithField("file", name).Info("compressed")
			}
			return nil
		},
	})
}
