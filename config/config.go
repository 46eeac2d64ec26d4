package config

import (
	"encoding/json"
	"os"

	"github.com/soocke/overlay-calibrator/domain/calibration"
	"github.com/soocke/overlay-calibrator/domain/geometry"
)

// PixelBox is an overlay position given in host pixels rather than percentages.
type PixelBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Config holds runtime configuration for the calibrator.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Overlay geometry, as percentages of the host viewport.
	TopPercent    float64 `json:"top_percent"`
	LeftPercent   float64 `json:"left_percent"`
	WidthPercent  float64 `json:"width_percent"`
	HeightPercent float64 `json:"height_percent"`
	// OverlayPx optionally seeds the geometry in host pixels; it is converted to
	// percentages once the host size is known and then cleared.
	OverlayPx *PixelBox `json:"overlay_px,omitempty"`

	ZIndex             int     `json:"z_index"`
	CalibrationEnabled bool    `json:"calibration_enabled"`
	MinExtent          float64 `json:"min_extent"`
	HandleSizePx       int     `json:"handle_size_px"`

	// Host viewport: a window title to follow, or a fixed screen rectangle.
	HostWindow string `json:"host_window"`
	HostX      int    `json:"host_x"`
	HostY      int    `json:"host_y"`
	HostW      int    `json:"host_w"`
	HostH      int    `json:"host_h"`
	// HostRefreshMillis controls how often the host bounds and backdrop are polled.
	HostRefreshMillis int `json:"host_refresh_millis"`

	// Report listing backend and per-report overlay profiles keyed by report ID.
	ReportsURL string                       `json:"reports_url"`
	Profiles   map[string]calibration.Props `json:"profiles,omitempty"`
	// FilterFields maps report field names to map layer field names.
	FilterFields map[string]string `json:"filter_fields,omitempty"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:              false,
		TopPercent:         25,
		LeftPercent:        55,
		WidthPercent:       43,
		HeightPercent:      65,
		ZIndex:             10,
		CalibrationEnabled: true,
		MinExtent:          geometry.DefaultMinExtent,
		HandleSizePx:       12,
		HostX:              0,
		HostY:              0,
		HostW:              1280,
		HostH:              720,
		HostRefreshMillis:  500,
		ReportsURL:         "http://localhost:8080",
	}
}

// Props returns the default overlay geometry as session props.
func (c *Config) Props() calibration.Props {
	return calibration.Props{TopPercent: c.TopPercent, LeftPercent: c.LeftPercent, WidthPercent: c.WidthPercent, HeightPercent: c.HeightPercent}
}

// SetProps stores p as the default overlay geometry.
func (c *Config) SetProps(p calibration.Props) {
	c.TopPercent, c.LeftPercent, c.WidthPercent, c.HeightPercent = p.TopPercent, p.LeftPercent, p.WidthPercent, p.HeightPercent
}

// ProfileFor returns the overlay props for a report, falling back to the defaults.
func (c *Config) ProfileFor(reportID string) calibration.Props {
	if p, ok := c.Profiles[reportID]; ok && reportID != "" {
		return p
	}
	return c.Props()
}

// SetProfile records props for a report. An empty ID updates the defaults.
func (c *Config) SetProfile(reportID string, p calibration.Props) {
	if reportID == "" {
		c.SetProps(p)
		return
	}
	if c.Profiles == nil {
		c.Profiles = make(map[string]calibration.Props)
	}
	c.Profiles[reportID] = p
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.MinExtent <= 0 || c.MinExtent > 100 {
		c.MinExtent = geometry.DefaultMinExtent
	}
	c.SetProps(normalizeProps(c.Props(), c.MinExtent))
	for id, p := range c.Profiles {
		c.Profiles[id] = normalizeProps(p, c.MinExtent)
	}
	if c.HandleSizePx <= 0 {
		c.HandleSizePx = 12
	}
	if c.HostW <= 0 {
		c.HostW = 1280
	}
	if c.HostH <= 0 {
		c.HostH = 720
	}
	if c.HostRefreshMillis < 50 {
		c.HostRefreshMillis = 500
	}
	return nil
}

// ResolvePixelSeed converts OverlayPx into percentages of a host of the given size.
// It reports whether a conversion happened.
func (c *Config) ResolvePixelSeed(hostW, hostH int) bool {
	if c.OverlayPx == nil || hostW <= 0 || hostH <= 0 {
		return false
	}
	px := *c.OverlayPx
	r := geometry.Rect{
		Top:    float64(px.Y) * 100 / float64(hostH),
		Left:   float64(px.X) * 100 / float64(hostW),
		Width:  float64(px.W) * 100 / float64(hostW),
		Height: float64(px.H) * 100 / float64(hostH),
	}
	c.SetProps(normalizeProps(calibration.PropsFromRect(r.Rounded()), c.MinExtent))
	c.OverlayPx = nil
	return true
}

func normalizeProps(p calibration.Props, minExtent float64) calibration.Props {
	return calibration.PropsFromRect(geometry.Normalize(p.Rect(), minExtent))
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
