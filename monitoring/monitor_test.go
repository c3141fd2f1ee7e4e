package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/verlet/entities"
	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/timing"
	"github.com/sarchlab/verlet/tracing"
	"github.com/sarchlab/verlet/vec"
)

var _ = Describe("Monitor", func() {
	var (
		m         *Monitor
		s         *sim.Simulator
		scheduler *timing.ManualScheduler
	)

	get := func(url string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, url, nil)
		m.Router().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		scheduler = timing.NewManualScheduler()
		s = sim.MakeBuilder().
			WithTickRate(100 * timing.Hz).
			WithFrameScheduler(scheduler).
			Build()
		s.AddParticle(entities.NewPoint(vec.Vec2{X: 0, Y: 0}))
		s.AddParticle(entities.NewPoint(vec.Vec2{X: 3, Y: 4}))

		m = NewMonitor()
		m.RegisterSimulator(s)
	})

	It("should report stats", func() {
		Expect(s.RunTicks(3)).To(Succeed())

		rec := get("/api/stats")

		Expect(rec.Code).To(Equal(http.StatusOK))
		stats := sim.Stats{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &stats)).To(Succeed())
		Expect(stats.Ticks).To(Equal(uint64(3)))
		Expect(stats.Particles).To(Equal(2))
	})

	It("should report the simulated time", func() {
		Expect(s.RunTicks(3)).To(Succeed())

		rec := get("/api/now")

		Expect(rec.Body.String()).To(Equal(`{"tick":3,"now":0.0300000000}`))
	})

	It("should list particle positions", func() {
		rec := get("/api/particles")

		snapshot := sim.Snapshot{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &snapshot)).To(Succeed())
		Expect(snapshot.Positions).To(Equal([]vec.Vec2{{}, {X: 3, Y: 4}}))
	})

	Context("nearest", func() {
		It("should find the closest particle", func() {
			rec := get("/api/nearest?x=3&y=3&r=2")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(
				Equal(`{"index":1,"position":{"X":3,"Y":4}}`))
		})

		It("should answer 404 when nothing is in range", func() {
			rec := get("/api/nearest?x=10&y=10&r=1")

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should reject bad parameters", func() {
			Expect(get("/api/nearest?x=1&y=1").Code).
				To(Equal(http.StatusBadRequest))
			Expect(get("/api/nearest?x=a&y=1&r=1").Code).
				To(Equal(http.StatusBadRequest))
		})
	})

	It("should pause and continue the simulator", func() {
		Expect(get("/api/continue").Code).To(Equal(http.StatusOK))
		Expect(s.State()).To(Equal(sim.StateRunning))
		Expect(scheduler.Pending()).To(Equal(1))

		Expect(get("/api/continue").Code).To(Equal(http.StatusOK))
		Expect(scheduler.Pending()).To(Equal(1))

		Expect(get("/api/pause").Code).To(Equal(http.StatusOK))
		Expect(s.State()).To(Equal(sim.StateStopped))
		Expect(scheduler.Pending()).To(BeZero())
	})

	It("should answer 404 without a simulator", func() {
		m = NewMonitor()

		Expect(get("/api/pause").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/stats").Code).To(Equal(http.StatusNotFound))
	})

	It("should report frame times", func() {
		Expect(get("/api/frametime").Code).To(Equal(http.StatusNotFound))

		tracer := tracing.NewFrameTimeTracer(nil)
		s.AcceptHook(tracer)
		m.RegisterFrameTracer(tracer)
		Expect(s.Start()).To(Succeed())
		scheduler.RunFrame()

		rec := get("/api/frametime")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"frames":1`))
	})

	It("should serialize the simulator detail", func() {
		rec := get("/api/detail")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should report resource usage", func() {
		rec := get("/api/resource")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("memory_size"))
	})

	It("should list progress bars", func() {
		bar := m.CreateProgressBar("run", 10)
		bar.IncrementInProgress(4)
		bar.MoveInProgressToFinished(3)

		rec := get("/api/progress")
		bars := []progressBarRsp{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Finished).To(Equal(uint64(3)))
		Expect(bars[0].InProgress).To(Equal(uint64(1)))

		m.CompleteProgressBar(bar)
		Expect(get("/api/progress").Body.String()).To(Equal("[]"))
	})

	It("should serve the web page", func() {
		rec := get("/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should stream snapshots", func() {
		m.WithSyncPeriod(5 * time.Millisecond)
		server := httptest.NewServer(m.Router())
		defer server.Close()

		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/stream"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		snapshot := sim.Snapshot{}
		Expect(conn.ReadJSON(&snapshot)).To(Succeed())
		Expect(snapshot.Positions).To(HaveLen(2))
		Expect(snapshot.Tick).To(BeZero())

		Expect(s.RunTicks(2)).To(Succeed())

		Eventually(func() uint64 {
			next := sim.Snapshot{}
			if err := conn.ReadJSON(&next); err != nil {
				return 0
			}

			return next.Tick
		}).Should(Equal(uint64(2)))
	})

	Context("server", func() {
		It("should refuse to stop or open before starting", func() {
			Expect(m.StopServer()).To(MatchError(ErrNotStarted))
			Expect(m.OpenInBrowser()).To(MatchError(ErrNotStarted))
		})

		It("should serve on a random port", func() {
			url, err := m.StartServer()
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(HavePrefix("http://localhost:"))

			rsp, err := http.Get(url + "/api/stats")
			Expect(err).NotTo(HaveOccurred())
			rsp.Body.Close()
			Expect(rsp.StatusCode).To(Equal(http.StatusOK))

			Expect(m.StopServer()).To(Succeed())
		})

		It("should ignore reserved port numbers", func() {
			m.WithPortNumber(80)

			Expect(m.portNumber).To(BeZero())
		})
	})
})
