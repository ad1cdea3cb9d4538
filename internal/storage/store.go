package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/pulse/internal/multiplier"
	"github.com/san-kum/pulse/internal/session"
)

const (
	metadataFile  = "metadata.json"
	samplesFile   = "samples.csv"
	particlesFile = "particles.csv"
	frameFile     = "frame.png"
	recordingFile = "recording.gif"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID              string             `json:"id"`
	Preset          string             `json:"preset"`
	Timestamp       time.Time          `json:"timestamp"`
	Seed            int64              `json:"seed"`
	FPS             int                `json:"fps"`
	Width           int                `json:"width"`
	Height          int                `json:"height"`
	DurationMs      int64              `json:"duration_ms"`
	Interactions    []int64            `json:"interactions_ms"`
	ConnectorRadius float64            `json:"connector_radius"`
	Frames          int                `json:"frames"`
	FinalPhase      string             `json:"final_phase"`
	Recording       bool               `json:"recording"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Save writes a recorded session into a fresh run directory and returns its id.
func (s *Store) Save(preset string, opts session.Options, res *session.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.createRunDir(preset, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Preset:          preset,
		Timestamp:       now,
		Seed:            opts.Seed,
		FPS:             opts.FPS,
		Width:           res.Width,
		Height:          res.Height,
		DurationMs:      opts.Duration.Milliseconds(),
		Interactions:    make([]int64, 0, len(opts.Interactions)),
		ConnectorRadius: opts.Effect.ConnectorRadius,
		Frames:          res.Frames,
		FinalPhase:      res.Phase.String(),
		Recording:       opts.Recorder != nil && opts.Recorder.Frames() > 0,
		Metrics:         res.Metrics,
	}
	for _, d := range opts.Interactions {
		meta.Interactions = append(meta.Interactions, d.Milliseconds())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), res.Samples); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(runDir, particlesFile), res.Particles); err != nil {
		return "", err
	}
	if res.Surface != nil {
		if err := writeFile(filepath.Join(runDir, frameFile), res.Surface.WritePNG); err != nil {
			return "", err
		}
	}
	if meta.Recording {
		if err := writeFile(filepath.Join(runDir, recordingFile), opts.Recorder.WriteGIF); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) createRunDir(preset string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", preset, now.Unix())
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s-%d", base, i)
		}
		runDir := s.Dir(runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]session.Sample, error) {
	records, err := readCSV(filepath.Join(s.Dir(runID), samplesFile))
	if err != nil {
		return nil, err
	}

	samples := make([]session.Sample, 0, len(records))
	for _, rec := range records {
		if len(rec) < 4 {
			continue
		}
		frame, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		ms, err := strconv.ParseInt(rec[1], 10, 64)
		if err != nil {
			continue
		}
		phase, ok := multiplier.ParsePhase(rec[2])
		if !ok {
			continue
		}
		pop, err := strconv.Atoi(rec[3])
		if err != nil {
			continue
		}
		samples = append(samples, session.Sample{Frame: frame, TimeMs: ms, Phase: phase, Population: pop})
	}
	return samples, nil
}

func (s *Store) LoadParticles(runID string) ([]multiplier.Particle, error) {
	records, err := readCSV(filepath.Join(s.Dir(runID), particlesFile))
	if err != nil {
		return nil, err
	}

	particles := make([]multiplier.Particle, 0, len(records))
	for _, rec := range records {
		if len(rec) < 9 {
			continue
		}
		var vals [5]float64
		bad := false
		for i := range vals {
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				bad = true
				break
			}
			vals[i] = v
		}
		var rgba [4]uint8
		for i := range rgba {
			v, err := strconv.ParseUint(rec[5+i], 10, 8)
			if err != nil {
				bad = true
				break
			}
			rgba[i] = uint8(v)
		}
		if bad {
			continue
		}
		particles = append(particles, multiplier.Particle{
			Pos:     multiplier.Vec2{X: vals[0], Y: vals[1]},
			Vel:     multiplier.Vec2{X: vals[2], Y: vals[3]},
			Radius:  vals[4],
			Color:   color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]},
			Active:  true,
			Opacity: 1,
		})
	}
	return particles, nil
}

// FramePath returns the PNG of the run's last frame.
func (s *Store) FramePath(runID string) string {
	return filepath.Join(s.Dir(runID), frameFile)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, samples []session.Sample) error {
	rows := make([][]string, 0, len(samples)+1)
	rows = append(rows, []string{"frame", "time_ms", "phase", "population"})
	for _, s := range samples {
		rows = append(rows, []string{
			strconv.Itoa(s.Frame),
			strconv.FormatInt(s.TimeMs, 10),
			s.Phase.String(),
			strconv.Itoa(s.Population),
		})
	}
	return writeCSV(path, rows)
}

func writeParticles(path string, particles []multiplier.Particle) error {
	rows := make([][]string, 0, len(particles)+1)
	rows = append(rows, []string{"x", "y", "vx", "vy", "radius", "r", "g", "b", "a"})
	for _, p := range particles {
		rows = append(rows, []string{
			formatFloat(p.Pos.X),
			formatFloat(p.Pos.Y),
			formatFloat(p.Vel.X),
			formatFloat(p.Vel.Y),
			formatFloat(p.Radius),
			strconv.Itoa(int(p.Color.R)),
			strconv.Itoa(int(p.Color.G)),
			strconv.Itoa(int(p.Color.B)),
			strconv.Itoa(int(p.Color.A)),
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

// readCSV returns the data rows, header dropped.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
