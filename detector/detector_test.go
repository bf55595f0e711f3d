package detector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	pigo "github.com/esimov/pigo/core"

	"github.com/esimov/ascii-smoke/config"
	smoke "github.com/esimov/ascii-smoke/smoke-solver"
)

func TestFilter(t *testing.T) {
	dets := []pigo.Detection{
		{Row: 10, Col: 20, Scale: 30, Q: 9.5},
		{Row: 40, Col: 50, Scale: 60, Q: 2},
		{Row: 70, Col: 80, Scale: 90, Q: 5},
	}

	faces := filter(dets, 5)

	if len(faces) != 2 {
		t.Fatalf("got %d faces, want 2", len(faces))
	}
	if faces[0] != (Face{Row: 10, Col: 20, Scale: 30, Quality: 9.5}) {
		t.Errorf("faces[0] = %+v", faces[0])
	}
	if faces[1].Row != 70 || faces[1].Quality != 5 {
		t.Errorf("faces[1] = %+v", faces[1])
	}
}

func TestFaceNormalized(t *testing.T) {
	f := Face{Row: 120, Col: 320}
	x, y := f.Normalized(640, 480)
	if x != 0.5 || y != 0.25 {
		t.Errorf("Normalized() = (%v, %v), want (0.5, 0.25)", x, y)
	}
}

func TestFaceEmitter(t *testing.T) {
	e := Face{Row: 300, Col: 100}.Emitter(400, 400, 6)
	if x, y := e.Position(); x != 0.25 || y != 0.75 {
		t.Errorf("emitter at (%v, %v), want (0.25, 0.75)", x, y)
	}

	s := smoke.NewSolver(4)
	e.ContributeDensity(s, 0.5)
	if got := s.Dens().At(1, 3); got != 3 {
		t.Errorf("emitted density = %v, want 3", got)
	}
}

func TestNewRejectsShortCascade(t *testing.T) {
	for _, data := range [][]byte{nil, {1, 2, 3}} {
		if _, err := New(data, Params{}); !errors.Is(err, ErrCascade) {
			t.Errorf("New(%v) error = %v, want ErrCascade", data, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "facefinder"), Params{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestParamsFromConfig(t *testing.T) {
	p := ParamsFromConfig(config.Default().Detector)
	want := Params{
		MinSize:      100,
		MaxSize:      1200,
		ShiftFactor:  0.1,
		ScaleFactor:  1.1,
		IoUThreshold: 0.1,
		MinQuality:   5,
	}
	if p != want {
		t.Errorf("ParamsFromConfig() = %+v, want %+v", p, want)
	}
}
