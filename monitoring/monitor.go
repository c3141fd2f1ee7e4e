// Package monitoring turns a running simulation into a web server that can be
// inspected and controlled from a browser.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/verlet/idgen"
	"github.com/sarchlab/verlet/instrumentation/hooking"
	"github.com/sarchlab/verlet/monitoring/web"
	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/tracing"
	"github.com/sarchlab/verlet/vec"
)

// ErrNotStarted is returned when the server is used before StartServer.
var ErrNotStarted = errors.New("monitoring: server not started")

const defaultSyncPeriod = 50 * time.Millisecond

// Monitor can turn a simulation into a server and allows external monitoring
// and controlling of the simulation.
type Monitor struct {
	simulator   *sim.Simulator
	frameTracer *tracing.FrameTimeTracer
	portNumber  int
	syncPeriod  time.Duration
	idGenerator idgen.Generator

	server    *http.Server
	url       string
	upgrader  websocket.Upgrader
	closing   chan struct{}
	closeOnce sync.Once

	subscribersLock sync.Mutex
	subscribers     map[chan struct{}]struct{}

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		syncPeriod:  defaultSyncPeriod,
		idGenerator: idgen.New(),
		subscribers: make(map[chan struct{}]struct{}),
		closing:     make(chan struct{}),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithSyncPeriod sets the shortest time between two snapshots pushed to a
// stream client.
func (m *Monitor) WithSyncPeriod(d time.Duration) *Monitor {
	m.syncPeriod = d
	return m
}

// RegisterSimulator registers the simulator to monitor. It installs a hook,
// so it must be called before the simulator starts stepping.
func (m *Monitor) RegisterSimulator(s *sim.Simulator) {
	m.simulator = s
	s.AcceptHook(hooking.HookFunc(m.notify))
}

// RegisterFrameTracer exposes the frame timings collected by t.
func (m *Monitor) RegisterFrameTracer(t *tracing.FrameTimeTracer) {
	m.frameTracer = t
}

// notify wakes the stream clients. It runs on the simulation loop, so it only
// signals; the clients take their snapshots from their own goroutines.
func (m *Monitor) notify(ctx hooking.HookCtx) {
	if ctx.Pos != sim.HookPosAfterTick && ctx.Pos != sim.HookPosStateChange {
		return
	}

	m.subscribersLock.Lock()
	defer m.subscribersLock.Unlock()

	for sub := range m.subscribers {
		select {
		case sub <- struct{}{}:
		default:
		}
	}
}

func (m *Monitor) subscribe() chan struct{} {
	sub := make(chan struct{}, 1)

	m.subscribersLock.Lock()
	m.subscribers[sub] = struct{}{}
	m.subscribersLock.Unlock()

	return sub
}

func (m *Monitor) unsubscribe(sub chan struct{}) {
	m.subscribersLock.Lock()
	delete(m.subscribers, sub)
	m.subscribersLock.Unlock()
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.idGenerator.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the handler serving the monitoring API and the web page.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pause)
	r.HandleFunc("/api/continue", m.continueSimulation)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/stats", m.stats)
	r.HandleFunc("/api/particles", m.particles)
	r.HandleFunc("/api/nearest", m.nearest)
	r.HandleFunc("/api/detail", m.detail)
	r.HandleFunc("/api/frametime", m.frameTime)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/api/stream", m.stream)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", fmt.Errorf("monitoring: listen on %s: %w", actualPort, err)
	}

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.url)

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("monitoring server stopped: %v", err)
		}
	}()

	return m.url, nil
}

// StopServer shuts the server down, closing stream connections.
func (m *Monitor) StopServer() error {
	if m.server == nil {
		return ErrNotStarted
	}

	// Stream connections are hijacked, so Shutdown does not wait for them.
	m.closeOnce.Do(func() { close(m.closing) })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	return m.server.Shutdown(ctx)
}

// OpenInBrowser opens the monitoring page in the default browser.
func (m *Monitor) OpenInBrowser() error {
	if m.url == "" {
		return ErrNotStarted
	}

	return browser.OpenURL(m.url)
}

func (m *Monitor) simulatorOr404(w http.ResponseWriter) *sim.Simulator {
	if m.simulator == nil {
		http.Error(w, "no simulator registered", http.StatusNotFound)
	}

	return m.simulator
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	s := m.simulatorOr404(w)
	if s == nil {
		return
	}

	s.Stop()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueSimulation(w http.ResponseWriter, _ *http.Request) {
	s := m.simulatorOr404(w)
	if s == nil {
		return
	}

	if s.State() == sim.StateRunning {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := s.Start(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	s := m.simulatorOr404(w)
	if s == nil {
		return
	}

	stats := s.Stats()
	fmt.Fprintf(w, "{\"tick\":%d,\"now\":%.10f}",
		stats.Ticks, stats.SimTime.Seconds())
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	s := m.simulatorOr404(w)
	if s == nil {
		return
	}

	writeJSON(w, s.Stats())
}

func (m *Monitor) particles(w http.ResponseWriter, _ *http.Request) {
	s := m.simulatorOr404(w)
	if s == nil {
		return
	}

	writeJSON(w, s.Snapshot())
}

type nearestRsp struct {
	Index    int      `json:"index"`
	Position vec.Vec2 `json:"position"`
}

func (m *Monitor) nearest(w http.ResponseWriter, r *http.Request) {
	s := m.simulatorOr404(w)
	if s == nil {
		return
	}

	point, radius, err := parseNearestParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snapshot := s.Snapshot()

	i := snapshot.Nearest(point, radius)
	if i < 0 {
		http.Error(w, "no particle in range", http.StatusNotFound)
		return
	}

	writeJSON(w, nearestRsp{Index: i, Position: snapshot.Positions[i]})
}

func parseNearestParams(r *http.Request) (vec.Vec2, float64, error) {
	query := r.URL.Query()
	values := make([]float64, 0, 3)

	for _, name := range []string{"x", "y", "r"} {
		str := query.Get(name)
		if str == "" {
			return vec.Vec2{}, 0, fmt.Errorf("missing parameter %s", name)
		}

		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return vec.Vec2{}, 0, fmt.Errorf("invalid parameter %s: %w", name, err)
		}

		values = append(values, v)
	}

	return vec.Vec2{X: values[0], Y: values[1]}, values[2], nil
}

// simulatorDetail is what the detail endpoint serializes.
type simulatorDetail struct {
	Stats        sim.Stats
	TickInterval time.Duration
	Iterations   int
	Frames       *frameTimeRsp
}

func (m *Monitor) detail(w http.ResponseWriter, r *http.Request) {
	s := m.simulatorOr404(w)
	if s == nil {
		return
	}

	detail := &simulatorDetail{
		Stats:        s.Stats(),
		TickInterval: s.TickInterval(),
		Iterations:   s.Iterations(),
		Frames:       m.frameTimes(),
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(detail)
	serializer.SetMaxDepth(2)

	if field := r.URL.Query().Get("field"); field != "" {
		err := serializer.SetEntryPoint(strings.Split(field, "."))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	err := serializer.Serialize(w)
	dieOnErr(err)
}

type frameTimeRsp struct {
	Frames    uint64  `json:"frames"`
	AverageMs float64 `json:"average_ms"`
	MaxMs     float64 `json:"max_ms"`
}

func (m *Monitor) frameTimes() *frameTimeRsp {
	if m.frameTracer == nil {
		return nil
	}

	return &frameTimeRsp{
		Frames:    m.frameTracer.Frames(),
		AverageMs: float64(m.frameTracer.Average()) / float64(time.Millisecond),
		MaxMs:     float64(m.frameTracer.Max()) / float64(time.Millisecond),
	}
}

func (m *Monitor) frameTime(w http.ResponseWriter, _ *http.Request) {
	rsp := m.frameTimes()
	if rsp == nil {
		http.Error(w, "no frame tracer registered", http.StatusNotFound)
		return
	}

	writeJSON(w, rsp)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressBarRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := process.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memorySize, err := process.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func (m *Monitor) stream(w http.ResponseWriter, r *http.Request) {
	s := m.simulatorOr404(w)
	if s == nil {
		return
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := m.subscribe()
	defer m.unsubscribe(sub)

	closed := make(chan struct{})
	go func() {
		defer close(closed)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(m.syncPeriod)
	defer ticker.Stop()

	dirty := true
	for {
		select {
		case <-closed:
			return
		case <-m.closing:
			return
		case <-sub:
			dirty = true
		case <-ticker.C:
			if !dirty {
				continue
			}

			dirty = false

			err := conn.SetWriteDeadline(time.Now().Add(time.Second))
			if err != nil {
				return
			}

			if err := conn.WriteJSON(s.Snapshot()); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
