package multiplier_test

import (
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pulse/internal/clock"
	"github.com/san-kum/pulse/internal/multiplier"
	"github.com/san-kum/pulse/internal/raster"
)

const frame = 16 * time.Millisecond

var _ = Describe("Effect lifecycle", func() {
	var (
		clk     *clock.Manual
		timers  *clock.Timers
		surface *raster.Surface
		effect  *multiplier.Effect
	)

	// frames advances the virtual clock one frame at a time, firing due
	// timers before each tick the way the hosts do.
	frames := func(n int) {
		for i := 0; i < n; i++ {
			timers.Fire(clk.Advance(frame))
			effect.Tick()
		}
	}

	BeforeEach(func() {
		clk = clock.NewManual(time.Unix(1700000000, 0))
		timers = clock.NewTimers(clk)
		surface = raster.New(1, 1)

		var err error
		effect, err = multiplier.New(surface, timers, multiplier.DefaultConfig(),
			multiplier.WithRand(rand.New(rand.NewSource(42))))
		Expect(err).NotTo(HaveOccurred())
		Expect(effect.Mount(600, 300)).To(Succeed())
	})

	AfterEach(func() {
		effect.Close()
	})

	Context("when freshly mounted", func() {
		It("starts with a single stationary seed at the center", func() {
			Expect(effect.Phase()).To(Equal(multiplier.PhaseOne))
			ps := effect.Particles()
			Expect(ps).To(HaveLen(1))
			Expect(ps[0].Pos).To(Equal(multiplier.Vec2{X: 300, Y: 150}))
			Expect(ps[0].Vel).To(Equal(multiplier.Vec2{}))
		})

		It("keeps ticking without growth", func() {
			frames(120)
			Expect(effect.Population()).To(Equal(1))
			Expect(effect.Ticks()).To(BeEquivalentTo(120))
		})
	})

	Context("after the first interaction", func() {
		BeforeEach(func() {
			effect.Interact()
		})

		It("expands immediately", func() {
			Expect(effect.Phase()).To(Equal(multiplier.PhaseExpanding))
			Expect(effect.Population()).To(BeNumerically(">=", 1))
			Expect(timers.Len()).To(Equal(1))
		})

		It("ignores further interactions while expanding", func() {
			effect.Interact()
			effect.Interact()
			Expect(effect.Phase()).To(Equal(multiplier.PhaseExpanding))
			Expect(timers.Len()).To(Equal(1))
		})

		It("stays expanding just before the delay", func() {
			timers.Fire(clk.Advance(2999 * time.Millisecond))
			Expect(effect.Phase()).To(Equal(multiplier.PhaseExpanding))
		})

		It("reaches billions once the delay elapses", func() {
			frames(int(multiplier.DefaultExpandDelay/frame) + 1)
			Expect(effect.Phase()).To(Equal(multiplier.PhaseBillions))
			Expect(effect.Population()).To(BeNumerically(">", 10))
			Expect(timers.Len()).To(BeZero())
		})

		It("grows monotonically and never beyond the cap", func() {
			prev := effect.Population()
			for i := 0; i < 3000; i++ {
				effect.Tick()
				n := effect.Population()
				Expect(n).To(BeNumerically(">=", prev))
				Expect(n).To(BeNumerically("<=", multiplier.DefaultCap))
				prev = n
			}
			Expect(effect.Phase()).To(Equal(multiplier.PhaseExpanding))
		})

		It("restarts geometry on resize without touching the phase", func() {
			frames(30)
			effect.Resize(1024, 768)

			w, h := surface.Size()
			Expect(w).To(Equal(1024))
			Expect(h).To(Equal(768))
			Expect(effect.Population()).To(Equal(1))
			Expect(effect.Particles()[0].Pos).To(Equal(multiplier.Vec2{X: 512, Y: 384}))
			Expect(effect.Phase()).To(Equal(multiplier.PhaseExpanding))
			Expect(timers.Len()).To(Equal(1))
		})

		It("never fires the timer after close", func() {
			effect.Close()
			Expect(timers.Len()).To(BeZero())
			timers.Fire(clk.Advance(10 * time.Second))
			Expect(effect.Phase()).To(Equal(multiplier.PhaseExpanding))
			Expect(effect.Tick()).To(BeFalse())
		})
	})

	Context("in billions", func() {
		BeforeEach(func() {
			effect.Interact()
			frames(200)
			Expect(effect.Phase()).To(Equal(multiplier.PhaseBillions))
		})

		It("resets to one with a single centered seed", func() {
			effect.Interact()
			Expect(effect.Phase()).To(Equal(multiplier.PhaseOne))
			ps := effect.Particles()
			Expect(ps).To(HaveLen(1))
			Expect(ps[0].Pos).To(Equal(multiplier.Vec2{X: 300, Y: 150}))
			Expect(ps[0].Vel).To(Equal(multiplier.Vec2{}))
		})

		It("runs the cycle again after a reset", func() {
			effect.Interact()
			effect.Interact()
			Expect(effect.Phase()).To(Equal(multiplier.PhaseExpanding))
			frames(200)
			Expect(effect.Phase()).To(Equal(multiplier.PhaseBillions))
		})
	})
})
