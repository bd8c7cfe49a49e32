package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unklstewy/adsb2aprs/pkg/aprs"
	"github.com/unklstewy/adsb2aprs/pkg/bridge"
	"github.com/unklstewy/adsb2aprs/pkg/config"
	"github.com/unklstewy/adsb2aprs/pkg/coordinates"
	"github.com/unklstewy/adsb2aprs/pkg/metadata"
	"github.com/unklstewy/adsb2aprs/pkg/sbs"
)

// Live monitor: runs the same lifecycle engine as the bridge against
// the local SBS feed, but instead of uplinking to APRS-IS it renders
// the would-be traffic in a terminal UI. Useful for tuning thresholds
// before going on the air.

// packetLogSize bounds the recent-packet pane.
const packetLogSize = 8

// previewEmitter renders packets into a scrollback instead of sending
// them anywhere.
type previewEmitter struct {
	recent []string
}

func (e *previewEmitter) push(line string) {
	e.recent = append(e.recent, line)
	if len(e.recent) > packetLogSize {
		e.recent = e.recent[len(e.recent)-packetLogSize:]
	}
}

func (e *previewEmitter) SendObject(name string, r sbs.PositionReport, sym aprs.Symbol, flight, hex string) error {
	e.push(aprs.FormatObject(aprs.Object{
		Name:        name,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Symbol:      sym,
		Track:       r.Track,
		GroundSpeed: r.GroundSpeed,
		Altitude:    r.Altitude,
		Callsign:    flight,
		Hex:         hex,
	}, time.Now(), true))
	return nil
}

func (e *previewEmitter) SendDelete(name string, lat, lon float64, sym aprs.Symbol) error {
	e.push(aprs.FormatObject(aprs.Object{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Symbol:    sym,
		Delete:    true,
	}, time.Now(), true))
	return nil
}

type reportMsg sbs.PositionReport

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForReport(reports <-chan sbs.PositionReport) tea.Cmd {
	return func() tea.Msg {
		return reportMsg(<-reports)
	}
}

type model struct {
	cfg     *config.Config
	engine  *bridge.Engine
	emitter *previewEmitter
	poller  *metadata.Poller
	reports <-chan sbs.PositionReport

	reference coordinates.Geographic
	received  int
	started   time.Time
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForReport(m.reports))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case reportMsg:
		now := time.Now()
		m.received++
		m.poller.MaybeRefresh(now)
		m.engine.ProcessReport(sbs.PositionReport(msg), now)
		return m, waitForReport(m.reports)

	case tickMsg:
		m.poller.MaybeRefresh(time.Time(msg))
		m.engine.Sweep(time.Time(msg))
		return m, tick()
	}

	return m, nil
}

func (m model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	blockStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("ADS-B → APRS Monitor"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  feed %s:%d  up %s  %d reports",
		m.cfg.SBS.Host, m.cfg.SBS.Port,
		time.Since(m.started).Truncate(time.Second), m.received)))
	b.WriteString("\n\n")

	tracks := m.engine.Tracks().All()
	sort.Slice(tracks, func(i, j int) bool {
		return m.distance(tracks[i]) < m.distance(tracks[j])
	})

	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-9s %-6s %7s %6s %5s %7s %5s  %s",
		"OBJECT", "HEX", "ALT", "GS", "TRK", "DIST", "AGE", "STATE")))
	b.WriteString("\n")

	if len(tracks) == 0 {
		b.WriteString(dimStyle.Render("  No tracks in range"))
		b.WriteString("\n")
	}
	for _, t := range tracks {
		line := fmt.Sprintf("  %-9s %-6s %7s %6s %5s %6.1fmi %4.0fs  %s",
			strings.TrimSpace(t.Name), t.Hex,
			m.sentField(t, func(r sbs.PositionReport) *float64 { return r.Altitude }, "%.0fft"),
			m.sentField(t, func(r sbs.PositionReport) *float64 { return r.GroundSpeed }, "%.0fkt"),
			m.sentField(t, func(r sbs.PositionReport) *float64 { return r.Track }, "%03.0f"),
			m.distance(t),
			time.Since(t.LastSeen).Seconds(),
			t.LandedState())
		if t.LandedBlocked() {
			line = blockStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("  Recent packets"))
	b.WriteString("\n")
	if len(m.emitter.recent) == 0 {
		b.WriteString(dimStyle.Render("  (none yet)"))
		b.WriteString("\n")
	}
	for _, p := range m.emitter.recent {
		b.WriteString(dimStyle.Render("  " + p))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  q quit"))
	b.WriteString("\n")
	return b.String()
}

// distance is the track's last reported range from the receiver, or a
// large sentinel when nothing has been rendered yet.
func (m model) distance(t *bridge.Track) float64 {
	if t.LastSent == nil {
		return 9999
	}
	return coordinates.DistanceMiles(m.reference, t.LastSent.Position())
}

func (m model) sentField(t *bridge.Track, field func(sbs.PositionReport) *float64, format string) string {
	if t.LastSent == nil {
		return "-"
	}
	v := field(t.LastSent.Report)
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cache := metadata.NewCache()
	poller := metadata.NewPoller(cfg.Metadata.URL, time.Duration(cfg.Metadata.RefreshSeconds)*time.Second, cache)

	emitter := &previewEmitter{}
	engine := bridge.NewEngine(cfg.Bridge, cache, emitter, nil)

	feed := sbs.NewFeed(cfg.SBS.Host, cfg.SBS.Port)
	feed.Connect()
	defer feed.Close()

	reports := make(chan sbs.PositionReport, 64)
	go func() {
		for {
			line, err := feed.ReadLine()
			if err != nil {
				feed.Reconnect()
				continue
			}
			if r := sbs.Parse(line); r != nil {
				reports <- *r
			}
		}
	}()

	// The feed goroutine produces reports; the bubbletea event loop is
	// the only place the engine is touched. Engine logging would smear
	// over the alt screen, so silence it while the UI runs.
	log.SetOutput(io.Discard)
	m := model{
		cfg:     cfg,
		engine:  engine,
		emitter: emitter,
		poller:  poller,
		reports: reports,
		reference: coordinates.Geographic{
			Latitude:  cfg.Bridge.ReferenceLatitude,
			Longitude: cfg.Bridge.ReferenceLongitude,
		},
		started: time.Now(),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
