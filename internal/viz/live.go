// Package viz renders a live terminal view of a running simulation:
// scrolling energy and magnetization histories with run statistics.
package viz

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"spinmc/internal/mc"
)

const (
	graphWidth      = 70
	graphHeight     = 8
	historyCapacity = 600
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

type progress struct {
	sweep  int
	phase  mc.Phase
	sample *mc.Sample
}

type runFinished struct {
	result *mc.Result
	err    error
}

// channelObserver forwards engine notifications to the UI without blocking
// the sweep loop: stale progress updates are dropped, samples are not.
type channelObserver struct {
	ch chan progress
}

func (o *channelObserver) OnSweep(sweep int, phase mc.Phase) {
	select {
	case o.ch <- progress{sweep: sweep, phase: phase}:
	default:
	}
}

func (o *channelObserver) OnSample(s mc.Sample) {
	o.ch <- progress{sweep: s.Sweep, phase: mc.PhaseSampling, sample: &s}
}

// Model drives the bubbletea view over a simulation running in its own
// goroutine.
type Model struct {
	modeName string
	numSites int
	cancel   context.CancelFunc

	updates  chan progress
	finished chan runFinished

	sweep         int
	totalSweeps   int
	phase         mc.Phase
	energyHistory []float64
	magHistory    []float64
	latest        mc.Estimators

	result *mc.Result
	err    error
	done   bool
}

// NewModel starts run in a goroutine wired to the view through an observer
// and returns the UI model. run must honor ctx cancellation.
func NewModel(modeName string, numSites, totalSweeps int,
	run func(ctx context.Context, obs mc.Observer) (*mc.Result, error)) Model {

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan progress, 64)
	finished := make(chan runFinished, 1)

	go func() {
		result, err := run(ctx, &channelObserver{ch: updates})
		finished <- runFinished{result: result, err: err}
	}()

	return Model{
		modeName:      modeName,
		numSites:      numSites,
		totalSweeps:   totalSweeps,
		cancel:        cancel,
		updates:       updates,
		finished:      finished,
		energyHistory: make([]float64, 0, historyCapacity),
		magHistory:    make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case TickMsg:
		m.drain()
		if m.done {
			return m, tea.Quit
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) drain() {
	for {
		select {
		case p := <-m.updates:
			m.sweep = p.sweep
			m.phase = p.phase
			if p.sample != nil {
				m.latest = mc.Estimators{
					Energy:        p.sample.Energy,
					Magnetization: p.sample.Magnetization,
					SpinVector:    p.sample.SpinVector,
				}
				n := float64(m.numSites)
				m.energyHistory = appendBounded(m.energyHistory, p.sample.Energy/n)
				m.magHistory = appendBounded(m.magHistory, p.sample.Magnetization/n)
			}
		case f := <-m.finished:
			m.result = f.result
			m.err = f.err
			m.done = true
			return
		default:
			return
		}
	}
}

func appendBounded(xs []float64, x float64) []float64 {
	xs = append(xs, x)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("spinmc live — %s, %d sites", m.modeName, m.numSites))

	stats := lipgloss.JoinVertical(lipgloss.Left,
		statLine("sweep", fmt.Sprintf("%d / %d", m.sweep, m.totalSweeps)),
		statLine("phase", m.phase.String()),
		statLine("energy/site", fmt.Sprintf("%.6f", last(m.energyHistory))),
		statLine("|m|/site", fmt.Sprintf("%.6f", last(m.magHistory))),
		statLine("samples", fmt.Sprintf("%d", len(m.energyHistory))),
	)

	body := statsStyle.Render(stats)
	if len(m.energyHistory) >= 2 {
		energyGraph := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("energy per site"),
		)
		magGraph := asciigraph.Plot(m.magHistory,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("magnetization per site"),
		)
		body = lipgloss.JoinVertical(lipgloss.Left,
			graphStyle.Render(energyGraph),
			graphStyle.Render(magGraph),
			body,
		)
	}

	help := helpStyle.Render("q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

func statLine(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}

// Result returns the finished run's output, nil until the run completes.
func (m Model) Result() (*mc.Result, error) {
	return m.result, m.err
}
