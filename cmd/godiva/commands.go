package main

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/url"
	"strings"

	ncwms "github.com/kwilcox/ncWMS"
	"github.com/kwilcox/ncWMS/gui"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"
)

// linkKeys are the deep link parameters that may be given as flags,
// overriding those of --link.
var linkKeys = []string{"dataset", "variable", "elevation", "time", "scale", "bbox", "filter"}

func addLinkFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("link", "", "Godiva2 permalink to restore")
	f.String("dataset", "", "Dataset identifier")
	f.String("variable", "", "Variable identifier")
	f.String("elevation", "", "Elevation (negative for depths)")
	f.String("time", "", "Time as ISO 8601")
	f.String("scale", "", "Color scale as min,max")
	f.String("bbox", "", "Extent to zoom to as minlon,minlat,maxlon,maxlat")
	f.String("filter", "", "Only consider datasets with this identifier prefix")
}

func deepLinkFromFlags(cmd *cobra.Command) (ncwms.DeepLink, error) {
	q := url.Values{}
	if link, _ := cmd.Flags().GetString("link"); link != "" {
		u, err := url.Parse(link)
		if err != nil {
			return ncwms.DeepLink{}, fmt.Errorf("godiva: link: %w", err)
		}
		q = u.Query()
	}
	for _, k := range linkKeys {
		if v, _ := cmd.Flags().GetString(k); v != "" {
			q.Set(k, v)
		}
	}
	return ncwms.ParseDeepLink(q), nil
}

// session is a headless viewer and its widgets.
type session struct {
	*gui.Viewer
	m       *gui.HeadlessMap
	menu    *gui.HeadlessMenu
	display *gui.HeadlessDisplay
}

// open runs the selection workflow for dl, choosing the first variable of
// the dataset if dl does not name one.
func (a *app) open(ctx context.Context, dl ncwms.DeepLink) (*session, error) {
	client, err := a.client()
	if err != nil {
		return nil, err
	}
	s := &session{
		m:       gui.NewHeadlessMap(a.cfg.Viewport),
		menu:    &gui.HeadlessMenu{},
		display: &gui.HeadlessDisplay{},
	}
	s.Viewer = gui.NewViewer(client, s.m, s.menu, s.display, &ncwms.OverlayBuilder{
		WMSURL:  client.WMSURL(),
		PageURL: strings.TrimSuffix(a.cfg.Client.Server, "/") + "/godiva2.html",
	})
	s.Log = a.log
	s.SetDeepLink(dl)
	if err := s.LoadDatasets(ctx, ""); err != nil {
		return nil, err
	}
	if s.Snapshot().LayerKey == "" {
		ds, vars := s.menu.Variables()
		if len(vars) == 0 {
			return nil, fmt.Errorf("godiva: dataset %q has no variables", ds)
		}
		if err := s.SelectVariable(ctx, ds, vars[0].ID); err != nil {
			return nil, err
		}
	}
	if a.cfg.Opacity != 100 {
		if err := s.SetOpacity(ctx, a.cfg.Opacity); err != nil {
			return nil, err
		}
	}
	if len(s.display.Alerts) > 0 {
		return nil, fmt.Errorf("godiva: %s", strings.Join(s.display.Alerts, "; "))
	}
	return s, nil
}

func (s *session) print(cmd *cobra.Command) {
	st := s.Snapshot()
	p, _, _ := s.m.Overlay()
	cmd.Println(fmt.Sprintf("Layer: %s (%s, %s)", st.LayerKey, s.display.Variable, s.display.Units))
	if st.Axis != nil && len(st.Axis.Levels) > 0 {
		cmd.Println(fmt.Sprintf("%s: %s %s", st.Axis.Label(), ncwms.FormatFloat(st.Axis.Levels[st.LevelIndex]), st.Axis.Units))
	}
	if st.TimeAvailable {
		cmd.Println(fmt.Sprintf("Time: %s", st.Time))
	}
	cmd.Println(fmt.Sprintf("Scale: %s .. %s .. %s .. %s", s.display.ScaleMin, s.display.OneThird, s.display.TwoThirds, s.display.ScaleMax))
	cmd.Println(fmt.Sprintf("Overlay: %s", p.Values().Encode()))
	cmd.Println(fmt.Sprintf("Permalink: %s", s.display.Links.Permalink))
	cmd.Println(fmt.Sprintf("Google Earth: %s", s.display.Links.Export))
	cmd.Println(fmt.Sprintf("Test image: %s", s.display.Links.TestImage))
}

func addDatasetsCmd(rootCmd *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List the datasets on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			filter, _ := cmd.Flags().GetString("filter")
			ds, err := client.ListDatasets(cmd.Context(), filter)
			if err != nil {
				return err
			}
			for _, d := range ds {
				cmd.Println(fmt.Sprintf("%s\t%s", d.ID, d.Title))
			}
			return nil
		},
	}
	cmd.Flags().String("filter", "", "Only list datasets with this identifier prefix")
	rootCmd.AddCommand(cmd)
}

func addVariablesCmd(rootCmd *cobra.Command, a *app) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "variables DATASET",
		Short: "List the variables in a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			vars, err := client.ListVariables(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, v := range vars {
				cmd.Println(fmt.Sprintf("%s\t%s", v.ID, v.Title))
			}
			return nil
		},
	})
}

func addShowCmd(rootCmd *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Select a layer and print its map configuration and links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dl, err := deepLinkFromFlags(cmd)
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context(), dl)
			if err != nil {
				return err
			}
			s.print(cmd)
			if legend, _ := cmd.Flags().GetString("legend"); legend != "" {
				b, err := ncwms.Legend(s.Snapshot().Scale, 300, 40)
				if err != nil {
					return err
				}
				if err := ioutil.WriteFile(legend, b, 0644); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addLinkFlags(cmd)
	cmd.Flags().String("legend", "", "Write a PNG color bar for the scale to this file")
	rootCmd.AddCommand(cmd)
}

func addAnimateCmd(rootCmd *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Print the URL of an animation between two times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dl, err := deepLinkFromFlags(cmd)
			if err != nil {
				return err
			}
			first, _ := cmd.Flags().GetString("first")
			last, _ := cmd.Flags().GetString("last")
			s, err := a.open(cmd.Context(), dl)
			if err != nil {
				return err
			}
			if first != "" {
				if err := s.SelectTime(cmd.Context(), first); err != nil {
					return err
				}
				s.SetFirstFrame()
			}
			if last != "" {
				if err := s.SelectTime(cmd.Context(), last); err != nil {
					return err
				}
				s.SetLastFrame()
			}
			u, err := s.CreateAnimation(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println(u)
			return nil
		},
	}
	addLinkFlags(cmd)
	cmd.Flags().String("first", "", "Time of the first frame")
	cmd.Flags().String("last", "", "Time of the last frame")
	rootCmd.AddCommand(cmd)
}

func addExtentCmd(rootCmd *cobra.Command, a *app) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "extent DATASET VARIABLE",
		Short: "Print the extent of a variable as GeoJSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			d, err := client.VariableDetails(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fc := geojson.NewFeatureCollection()
			feature := geojson.NewFeature(d.BBox.Bound().ToPolygon())
			feature.Properties["layer"] = ncwms.LayerKey(args[0], args[1])
			feature.Properties["title"] = d.Title
			feature.Properties["units"] = d.Units
			fc = fc.Append(feature)
			b, err := fc.MarshalJSON()
			if err != nil {
				return err
			}
			cmd.Println(string(b))
			return nil
		},
	})
}

func addInfoCmd(rootCmd *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the data value at a pixel of the map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dl, err := deepLinkFromFlags(cmd)
			if err != nil {
				return err
			}
			x, _ := cmd.Flags().GetInt("x")
			y, _ := cmd.Flags().GetInt("y")
			s, err := a.open(cmd.Context(), dl)
			if err != nil {
				return err
			}
			if _, err := s.FeatureInfo(cmd.Context(), x, y); err != nil && !errors.Is(err, ncwms.ErrNoFeatureInfo) {
				return err
			}
			cmd.Println(s.display.FeatureInfo)
			if s.display.TimeSeriesURL != "" {
				cmd.Println(fmt.Sprintf("Time series: %s", s.display.TimeSeriesURL))
			}
			return nil
		},
	}
	addLinkFlags(cmd)
	cmd.Flags().Int("x", 0, "Pixel column")
	cmd.Flags().Int("y", 0, "Pixel row")
	rootCmd.AddCommand(cmd)
}
